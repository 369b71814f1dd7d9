package handlers

import (
	"crypto/subtle"
	"net/http"
	"os"
	"strings"
	"sync"

	"media-library/internal/logging"

	"golang.org/x/crypto/bcrypt"
)

// authState holds the bcrypt hash of the API token. When no token file
// exists the API runs open, which is the expected mode for a single-user
// desktop deployment.
type authState struct {
	hash []byte

	// lastGood caches the most recently verified token so repeated
	// requests skip the bcrypt comparison.
	mu       sync.Mutex
	lastGood string
}

func loadAuthState(tokenPath string) *authState {
	if tokenPath == "" {
		return &authState{}
	}

	hash, err := os.ReadFile(tokenPath)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Warn("failed to read token file %s: %v", tokenPath, err)
		}
		logging.Info("No API token configured, authentication disabled")
		return &authState{}
	}

	logging.Info("API token loaded, authentication enabled")
	return &authState{hash: []byte(strings.TrimSpace(string(hash)))}
}

func (a *authState) enabled() bool {
	return len(a.hash) > 0
}

func (a *authState) verify(token string) bool {
	if token == "" {
		return false
	}

	a.mu.Lock()
	cached := a.lastGood
	a.mu.Unlock()

	if cached != "" && subtle.ConstantTimeCompare([]byte(cached), []byte(token)) == 1 {
		return true
	}

	if err := bcrypt.CompareHashAndPassword(a.hash, []byte(token)); err != nil {
		return false
	}

	a.mu.Lock()
	a.lastGood = token
	a.mu.Unlock()
	return true
}

// authExemptPaths are reachable without a token so probes and dashboards
// keep working when authentication is on.
var authExemptPaths = map[string]bool{
	"/healthz":     true,
	"/livez":       true,
	"/readyz":      true,
	"/api/version": true,
}

// AuthMiddleware enforces bearer token authentication on API routes.
func (h *Handlers) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.auth.enabled() || authExemptPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		token := bearerToken(r)
		if !h.auth.verify(token) {
			writeJSONError(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}
