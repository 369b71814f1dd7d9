package covers

import (
	"bytes"
	"crypto/md5" //nolint:gosec // cache key, not security
	"fmt"
	"image"
	"image/jpeg"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"media-library/internal/logging"
	"media-library/internal/mediatypes"
	"media-library/internal/metrics"

	_ "image/gif"
	_ "image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

// Default cover bounding box.
const (
	defaultSize = 300
	jpegQuality = 85
)

// Generator produces JPEG cover art for library items and caches the
// results on disk, keyed by file identity (path, size, mtime) so a
// changed file regenerates its cover.
type Generator struct {
	cacheDir string
	size     int
	enabled  bool
	mu       sync.Mutex
}

// New creates a Generator writing to cacheDir. size is the bounding
// box in pixels; values <= 0 use the default.
func New(cacheDir string, size int, enabled bool) *Generator {
	if size <= 0 {
		size = defaultSize
	}
	if enabled {
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			logging.Warn("Failed to create cover cache dir: %v", err)
		}
	} else {
		logging.Debug("Cover generation disabled")
	}
	return &Generator{cacheDir: cacheDir, size: size, enabled: enabled}
}

// Enabled reports whether cover generation is active.
func (g *Generator) Enabled() bool { return g.enabled }

// Cover returns JPEG bytes for the file's cover, generating and
// caching on first request. Images are downscaled; videos and audio go
// through ffmpeg (first frame, or embedded art).
func (g *Generator) Cover(absPath string, kind mediatypes.Kind) ([]byte, error) {
	if !g.enabled {
		return nil, fmt.Errorf("covers disabled")
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("file not accessible: %w", err)
	}

	cachePath := g.cachePath(absPath, info)
	if data, err := os.ReadFile(cachePath); err == nil {
		logging.Debug("Cover cache hit: %s", absPath)
		return data, nil
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	// Another request may have generated it while we waited.
	if data, err := os.ReadFile(cachePath); err == nil {
		return data, nil
	}

	start := time.Now()
	img, backend, err := g.render(absPath, kind)
	metrics.CoverGenerationDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.CoversGeneratedTotal.WithLabelValues(backend, "error").Inc()
		return nil, err
	}
	metrics.CoversGeneratedTotal.WithLabelValues(backend, "ok").Inc()

	thumb := imaging.Fit(img, g.size, g.size, imaging.Lanczos)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode cover: %w", err)
	}

	if err := os.WriteFile(cachePath, buf.Bytes(), 0o644); err != nil {
		logging.Warn("Failed to cache cover %s: %v", cachePath, err)
	}
	return buf.Bytes(), nil
}

// cachePath derives the content-addressed cache file name.
func (g *Generator) cachePath(absPath string, info os.FileInfo) string {
	identity := fmt.Sprintf("%s|%d|%d", absPath, info.Size(), info.ModTime().Unix())
	return filepath.Join(g.cacheDir, fmt.Sprintf("%x.jpg", md5.Sum([]byte(identity)))) //nolint:gosec
}

// render decodes the source into an image, picking a backend per kind.
// It reports which backend produced (or failed to produce) the image
// for the metrics label.
func (g *Generator) render(absPath string, kind mediatypes.Kind) (image.Image, string, error) {
	switch kind {
	case mediatypes.KindImage:
		if IsVipsAvailable() {
			if img, err := loadWithVips(absPath, g.size, g.size); err == nil {
				return img, "vips", nil
			}
			logging.Debug("Vips decode failed for %s, falling back", absPath)
		}
		img, err := g.decodeImage(absPath)
		if err != nil {
			return nil, "imaging", err
		}
		return img, "imaging", nil
	case mediatypes.KindVideo, mediatypes.KindAudio:
		img, err := extractWithFFmpeg(absPath, kind == mediatypes.KindVideo)
		if err != nil {
			return nil, "ffmpeg", err
		}
		return img, "ffmpeg", nil
	default:
		return nil, "none", fmt.Errorf("no cover source for kind %s", kind)
	}
}

// decodeImage is the pure-Go image path: imaging first (with
// auto-orientation), then the stdlib decoder for formats imaging does
// not handle (webp registers itself via x/image).
func (g *Generator) decodeImage(absPath string) (image.Image, error) {
	img, err := imaging.Open(absPath, imaging.AutoOrientation(true))
	if err == nil {
		return img, nil
	}
	logging.Debug("imaging.Open failed for %s: %v, trying stdlib decode", absPath, err)

	f, openErr := os.Open(absPath)
	if openErr != nil {
		return nil, openErr
	}
	defer f.Close() //nolint:errcheck

	img, format, decodeErr := image.Decode(f)
	if decodeErr != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", absPath, decodeErr)
	}
	logging.Debug("Decoded %s as %s", absPath, format)
	return img, nil
}

// extractWithFFmpeg pulls a single frame out of a container: for video
// the frame one second in, for audio the embedded cover art stream.
func extractWithFFmpeg(absPath string, seekAhead bool) (image.Image, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, fmt.Errorf("ffmpeg not found: %w", err)
	}

	args := []string{"-i", absPath}
	if seekAhead {
		args = append([]string{"-ss", "00:00:01"}, args...)
	}
	args = append(args, "-vframes", "1", "-f", "image2pipe", "-vcodec", "png", "-")

	var stdout, stderr bytes.Buffer
	cmd := exec.Command("ffmpeg", args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if !seekAhead {
			return nil, fmt.Errorf("ffmpeg failed: %v, stderr: %s", err, stderr.String())
		}
		// Clips shorter than the seek point still have a first frame.
		logging.Debug("FFmpeg seek failed for %s, retrying from start", absPath)
		return extractWithFFmpeg(absPath, false)
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg produced no output for %s", absPath)
	}

	img, _, err := image.Decode(&stdout)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ffmpeg output: %w", err)
	}
	return img, nil
}
