package main

import (
	"os"
	"path/filepath"
	"testing"
)

// testBinaryPath locates the compiled restaurant_agent binary the CLI tests
// execute. RESTAURANT_AGENT_TEST_BIN overrides the default location.
func testBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	if path := os.Getenv("RESTAURANT_AGENT_TEST_BIN"); path != "" {
		return path
	}

	path := filepath.Join("..", "..", "bin", "restaurant_agent")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it with 'go build -o bin/restaurant_agent ./cmd/restaurant_agent'", path)
	}
	return path
}
