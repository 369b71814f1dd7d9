// Package metrics declares the Prometheus collectors exported by the
// media library service.
//
// All collectors are registered through promauto at package load time
// and served from the /metrics endpoint. Metric names are prefixed with
// media_library_.
package metrics
