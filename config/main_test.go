package config

import (
	"fmt"
	"os"
	"testing"
)

// TestMain guards the config package tests: they touch DATABASE_URL and
// the global DB handle, so they must never run against a development or
// production environment.
func TestMain(m *testing.M) {
	if env := os.Getenv("GO_ENV"); env != "test" {
		fmt.Fprintf(os.Stderr, "config tests require GO_ENV=test (current: %q); run `GO_ENV=test go test ./...`\n", env)
		os.Exit(1)
	}
	os.Exit(m.Run())
}
