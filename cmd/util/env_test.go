package util

import (
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	t.Setenv("TEST_STRING", "test-value")
	if got := GetEnvWithDefault("TEST_STRING", "default"); got != "test-value" {
		t.Errorf("Expected GetEnvWithDefault to return 'test-value', got '%s'", got)
	}

	if got := GetEnvWithDefault("SCHEMADUMP_MISSING_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default', got '%s'", got)
	}

	// Empty values fall back to the default
	t.Setenv("EMPTY_VAR", "")
	if got := GetEnvWithDefault("EMPTY_VAR", "default"); got != "default" {
		t.Errorf("Expected GetEnvWithDefault to return 'default' for empty var, got '%s'", got)
	}
}
