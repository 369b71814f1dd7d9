package startup

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/gorilla/mux"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("STARTUP_TEST_VAR", "custom")

	if got := getEnv("STARTUP_TEST_VAR", "default"); got != "custom" {
		t.Errorf("getEnv() = %q, want %q", got, "custom")
	}
	if got := getEnv("STARTUP_TEST_UNSET", "default"); got != "default" {
		t.Errorf("getEnv() = %q, want %q", got, "default")
	}
}

func TestGetEnvBool(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		fallback bool
		want     bool
	}{
		{"true", "true", false, true},
		{"false", "false", true, false},
		{"one", "1", false, true},
		{"invalid falls back", "maybe", true, true},
		{"empty falls back", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv("STARTUP_TEST_BOOL", tt.value)
			} else {
				os.Unsetenv("STARTUP_TEST_BOOL")
			}
			if got := getEnvBool("STARTUP_TEST_BOOL", tt.fallback); got != tt.want {
				t.Errorf("getEnvBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	t.Setenv("STARTUP_TEST_INT", "42")
	if got := getEnvInt("STARTUP_TEST_INT", 7); got != 42 {
		t.Errorf("getEnvInt() = %d, want 42", got)
	}

	t.Setenv("STARTUP_TEST_INT", "not a number")
	if got := getEnvInt("STARTUP_TEST_INT", 7); got != 7 {
		t.Errorf("getEnvInt() with invalid value = %d, want 7", got)
	}
}

func TestEnsureDirectoryCreatesMissing(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "path")
	if err := ensureDirectory(dir, "test"); err != nil {
		t.Fatalf("ensureDirectory() error: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Errorf("directory was not created: %v", err)
	}
}

func TestEnsureDirectoryRejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "not-a-dir")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := ensureDirectory(file, "test"); err == nil {
		t.Error("ensureDirectory() should fail when path is a file")
	}
}

func TestTestWriteAccess(t *testing.T) {
	dir := t.TempDir()
	if err := testWriteAccess(dir); err != nil {
		t.Errorf("testWriteAccess() error for writable dir: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("write test left %d files behind", len(entries))
	}
}

func TestSetupOptionalDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "covers")
	if !setupOptionalDir(dir, "covers") {
		t.Error("setupOptionalDir() = false for creatable dir")
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory was not created: %v", err)
	}
}

func TestResolveSourceDirs(t *testing.T) {
	a := t.TempDir()
	b := t.TempDir()

	dirs, err := resolveSourceDirs(a + string(os.PathListSeparator) + b)
	if err != nil {
		t.Fatalf("resolveSourceDirs() error: %v", err)
	}
	if len(dirs) != 2 {
		t.Fatalf("got %d dirs, want 2", len(dirs))
	}
	for _, d := range dirs {
		if !filepath.IsAbs(d) {
			t.Errorf("dir %q is not absolute", d)
		}
	}
}

func TestResolveSourceDirsEmpty(t *testing.T) {
	if _, err := resolveSourceDirs(""); err == nil {
		t.Error("resolveSourceDirs(\"\") should fail")
	}
}

func TestLoadConfigDerivedPaths(t *testing.T) {
	source := t.TempDir()
	data := t.TempDir()
	t.Setenv("SOURCE_DIRS", source)
	t.Setenv("DATA_DIR", data)

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if config.DatabasePath != filepath.Join(data, "library.db") {
		t.Errorf("DatabasePath = %q", config.DatabasePath)
	}
	if config.PlaylistDir != filepath.Join(data, "playlists") {
		t.Errorf("PlaylistDir = %q", config.PlaylistDir)
	}
	if config.CoverCacheDir != filepath.Join(data, "covers") {
		t.Errorf("CoverCacheDir = %q", config.CoverCacheDir)
	}
	if !config.CoversEnabled {
		t.Error("CoversEnabled = false for writable data dir")
	}
	if _, err := os.Stat(config.PlaylistDir); err != nil {
		t.Errorf("playlist dir was not created: %v", err)
	}
}

func TestLoadConfigHonorsFeatureFlags(t *testing.T) {
	t.Setenv("SOURCE_DIRS", t.TempDir())
	t.Setenv("DATA_DIR", t.TempDir())
	t.Setenv("COVERS_ENABLED", "false")
	t.Setenv("ENRICHMENT_ENABLED", "false")

	config, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if config.CoversEnabled {
		t.Error("CoversEnabled should honor COVERS_ENABLED=false")
	}
	if config.EnrichmentEnabled {
		t.Error("EnrichmentEnabled should honor ENRICHMENT_ENABLED=false")
	}
}

func TestGetRoutes(t *testing.T) {
	r := mux.NewRouter()
	noop := func(http.ResponseWriter, *http.Request) {}
	r.HandleFunc("/api/library", noop).Methods("GET")
	r.HandleFunc("/api/playlists/{name}", noop).Methods("GET", "PUT")

	routes, err := GetRoutes(r)
	if err != nil {
		t.Fatalf("GetRoutes() error: %v", err)
	}
	if len(routes) != 3 {
		t.Fatalf("got %d routes, want 3", len(routes))
	}
	if routes[0].Method != "GET" || routes[0].Path != "/api/library" {
		t.Errorf("unexpected first route: %+v", routes[0])
	}
}

func TestGetRouteGroup(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/healthz", "healthz"},
		{"/api/library", "api/library"},
		{"/api/playlists/{name}", "api/playlists"},
		{"/", ""},
	}

	for _, tt := range tests {
		if got := getRouteGroup(tt.path); got != tt.want {
			t.Errorf("getRouteGroup(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
