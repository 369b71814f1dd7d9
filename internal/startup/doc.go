// Package startup handles application configuration and startup logging.
//
// Configuration comes from environment variables:
//
//	SOURCE_DIRS            PATH-style list of media source roots (default /media)
//	DATA_DIR               writable directory for the index database, playlists,
//	                       cover cache, and enrichment cache (default /data)
//	PORT                   HTTP listen port (default 8080)
//	METRICS_PORT           Prometheus metrics port (default 9090)
//	METRICS_ENABLED        serve /metrics (default true)
//	SCAN_INTERVAL          periodic full rescan interval (default 1h)
//	POLL_INTERVAL          source root change poll interval (default 30s)
//	SCAN_WORKERS           parallel scan workers, 0 sizes from CPU count
//	COVERS_ENABLED         generate cover thumbnails (default true)
//	COVER_SIZE             cover bounding box in pixels (default 300)
//	ENRICHMENT_ENABLED     metadata provider lookups (default true)
//	ENRICHMENT_USER_AGENT  User-Agent sent to metadata providers
//	LOG_LEVEL              DEBUG, INFO, WARN, or ERROR
//	LOG_HEALTH_CHECKS      log health check requests (default false)
//
// The package also provides startup banner and shutdown logging helpers so
// main stays readable.
package startup
