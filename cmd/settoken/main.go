package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

const (
	defaultDataDir = "/data"
	tokenFile      = "token.hash"
	minTokenLength = 8
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	tokenPath := filepath.Join(dataDir(), tokenFile)

	switch os.Args[1] {
	case "set":
		if !setToken(tokenPath) {
			os.Exit(1)
		}
	case "clear":
		if !clearToken(tokenPath) {
			os.Exit(1)
		}
	case "status":
		showStatus(tokenPath)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", sanitizeCommand(os.Args[1]))
		printUsage()
		os.Exit(1)
	}
}

func dataDir() string {
	if dir := os.Getenv("DATA_DIR"); dir != "" {
		return dir
	}
	return defaultDataDir
}

// sanitizeCommand returns a safe representation of a command string for
// display, replacing anything outside [a-zA-Z0-9_-] with '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage() {
	fmt.Println("Media Library API Token Management")
	fmt.Println("")
	fmt.Println("Usage: settoken <command>")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  set     - Set the API token (enables authentication)")
	fmt.Println("  clear   - Remove the API token (disables authentication)")
	fmt.Println("  status  - Check whether a token is configured")
	fmt.Println("")
	fmt.Println("Environment:")
	fmt.Printf("  DATA_DIR - Path to data directory (default: %s)\n", defaultDataDir)
}

func setToken(tokenPath string) bool {
	fmt.Print("New Token: ")
	token, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading token: %v\n", err)
		return false
	}

	fmt.Print("Confirm Token: ")
	confirm, err := term.ReadPassword(syscall.Stdin)
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading token: %v\n", err)
		return false
	}

	if !bytes.Equal(token, confirm) {
		fmt.Fprintln(os.Stderr, "Error: Tokens do not match")
		return false
	}

	if err := validateToken(token); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return false
	}

	hash, err := hashToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to hash token: %v\n", err)
		return false
	}

	if err := writeTokenHash(tokenPath, hash); err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to write token file: %v\n", err)
		return false
	}

	fmt.Println("Token updated successfully.")
	fmt.Println("Restart the server for the change to take effect.")
	return true
}

func clearToken(tokenPath string) bool {
	if err := os.Remove(tokenPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Println("No token was configured.")
			return true
		}
		fmt.Fprintf(os.Stderr, "Error: Failed to remove token file: %v\n", err)
		return false
	}
	fmt.Println("Token removed. Authentication is now disabled.")
	return true
}

func showStatus(tokenPath string) {
	if _, err := os.Stat(tokenPath); err == nil {
		fmt.Println("Status: Token is configured (authentication enabled)")
	} else {
		fmt.Println("Status: No token configured (authentication disabled)")
	}
}

func validateToken(token []byte) error {
	if len(token) < minTokenLength {
		return fmt.Errorf("token must be at least %d characters", minTokenLength)
	}
	return nil
}

func hashToken(token []byte) ([]byte, error) {
	return bcrypt.GenerateFromPassword(token, bcrypt.DefaultCost)
}

func writeTokenHash(tokenPath string, hash []byte) error {
	if err := os.MkdirAll(filepath.Dir(tokenPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(tokenPath, hash, 0o600)
}
