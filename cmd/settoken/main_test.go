package main

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestValidateToken(t *testing.T) {
	if err := validateToken([]byte("short")); err == nil {
		t.Error("short token should be rejected")
	}
	if err := validateToken([]byte("long-enough-token")); err != nil {
		t.Errorf("valid token rejected: %v", err)
	}
}

func TestHashTokenRoundTrip(t *testing.T) {
	hash, err := hashToken([]byte("my-api-token"))
	if err != nil {
		t.Fatalf("hashToken() error: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte("my-api-token")); err != nil {
		t.Errorf("hash does not verify: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword(hash, []byte("wrong")); err == nil {
		t.Error("hash verified against wrong token")
	}
}

func TestWriteTokenHashCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.hash")
	if err := writeTokenHash(path, []byte("hash")); err != nil {
		t.Fatalf("writeTokenHash() error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestSanitizeCommand(t *testing.T) {
	if got := sanitizeCommand("rm -rf /"); got != "rm_-rf__" {
		t.Errorf("sanitizeCommand = %q", got)
	}
	if got := sanitizeCommand("status"); got != "status" {
		t.Errorf("sanitizeCommand = %q", got)
	}
}

func TestDataDirHonorsEnv(t *testing.T) {
	t.Setenv("DATA_DIR", "/custom")
	if got := dataDir(); got != "/custom" {
		t.Errorf("dataDir() = %q", got)
	}
}
