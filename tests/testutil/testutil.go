// Package testutil holds shared guards for tests that could touch a real
// database if misconfigured.
package testutil

import (
	"os"
	"testing"
)

// RequireTestEnvironment fails the test unless GO_ENV is "test". The lab's
// staging and production databases share connection defaults with local
// development, so tests refuse to run without the explicit marker.
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Fatalf("tests must run with GO_ENV=test (current: %q); use 'make test' or GO_ENV=test go test ./...", env)
	}
}

// RequireTestEnvironmentOrSkip skips the test unless GO_ENV is "test".
// Used by flows that migrate schemas or seed catalogs.
func RequireTestEnvironmentOrSkip(t *testing.T) {
	t.Helper()

	if env := os.Getenv("GO_ENV"); env != "test" {
		t.Skipf("skipping: GO_ENV must be 'test' (current: %q)", env)
	}
}
