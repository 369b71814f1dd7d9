// Package covers generates and caches JPEG cover art for library
// items.
//
// Images are downscaled through libvips when it is available (see
// InitVips) and through a pure-Go imaging pipeline otherwise, so the
// feature degrades rather than disappears on hosts without the native
// library. Video frames and embedded audio art are extracted with
// ffmpeg. Generated covers are cached on disk keyed by file identity,
// so an edited file gets a fresh cover and an unchanged one is never
// rendered twice.
package covers
