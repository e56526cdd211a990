package main

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

// TestMain loads .env so locally configured credentials reach the CLI tests.
func TestMain(m *testing.M) {
	_ = godotenv.Load()
	os.Exit(m.Run())
}

// envWithout filters the named variables out of the current environment.
func envWithout(keys ...string) []string {
	var env []string
	for _, e := range os.Environ() {
		keep := true
		for _, key := range keys {
			if strings.HasPrefix(e, key+"=") {
				keep = false
				break
			}
		}
		if keep {
			env = append(env, e)
		}
	}
	return env
}

func TestCollectCommand_MissingAPIKey(t *testing.T) {
	binaryPath := testBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect",
		"--db-url", "postgres://localhost/collector_test")
	cmd.Env = envWithout("YELP_API_KEY")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "api_key is required")
}

func TestCollectCommand_MissingDatabaseURL(t *testing.T) {
	binaryPath := testBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect",
		"--api-key", "dummy-key")
	cmd.Env = envWithout("DATABASE_URL")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "database_url is required")
}

func TestCollectCommand_UserIDRequiresSingleLocation(t *testing.T) {
	binaryPath := testBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect",
		"--api-key", "dummy-key",
		"--db-url", "postgres://localhost/collector_test",
		"--user-id", "u-1",
		"--locations", "Los Angeles, CA",
		"--locations", "Santa Monica, CA")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "requires exactly one location")
}

func TestCollectCommand_BadConfigPath(t *testing.T) {
	binaryPath := testBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect",
		"--config", "does/not/exist.json")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "failed to load config")
}

func TestCollectCommand_InvalidLimit(t *testing.T) {
	binaryPath := testBinaryPath(t)

	cmd := exec.Command(binaryPath, "collect",
		"--api-key", "dummy-key",
		"--db-url", "postgres://localhost/collector_test",
		"--limit", "10")

	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "config error")
}
