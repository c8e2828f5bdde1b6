package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeProfile writes content to a temp profile file named name and returns
// its path.
func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write profile: %v", err)
	}
	return path
}

const validProfile = `{
	"name": "default",
	"description": "Baseline tuning",
	"rate_limit_capacity": 8,
	"rate_limit_refill_ms": 500,
	"invite_ttl_s": 60,
	"lobby_idle_timeout_s": 300,
	"disconnect_timeout_s": 120,
	"session_max_age_h": 6,
	"sweep_interval_s": 30,
	"chat_history_size": 50,
	"chat_max_length": 500,
	"max_message_bytes": 4096
}`

func TestValidateProfile_ValidProfile(t *testing.T) {
	path := writeProfile(t, "default.json", validProfile)

	result := validateProfile(path, false)
	if !result.Valid {
		t.Errorf("Expected valid profile, but got errors: %v", result.Errors)
	}

	if result.File != "default.json" {
		t.Errorf("Expected file name default.json, got %s", result.File)
	}
}

func TestValidateProfile_Verbose(t *testing.T) {
	path := writeProfile(t, "default.json", validProfile)

	result := validateProfile(path, true)
	if !result.Valid {
		t.Fatalf("Expected valid profile, but got errors: %v", result.Errors)
	}

	found := false
	for _, info := range result.Errors {
		if contains(info, "Rate limit: 8 tokens") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected verbose rate limit line, got: %v", result.Errors)
	}
}

func TestValidateProfile_InvalidJSON(t *testing.T) {
	path := writeProfile(t, "broken.json", `{"name": "test", invalid json}`)

	result := validateProfile(path, false)
	if result.Valid {
		t.Error("Expected invalid profile due to bad JSON")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid JSON") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Invalid JSON' error")
	}
}

func TestValidateProfile_UnknownField(t *testing.T) {
	profile := strings.Replace(validProfile, `"rate_limit_capacity"`, `"rate_limit_capactiy"`, 1)
	path := writeProfile(t, "typo.json", profile)

	result := validateProfile(path, false)
	if result.Valid {
		t.Error("Expected invalid profile due to unknown field")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Invalid JSON") && contains(err, "rate_limit_capactiy") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected unknown field error, got: %v", result.Errors)
	}
}

func TestValidateProfile_MissingFile(t *testing.T) {
	result := validateProfile("/non/existent/file.json", false)
	if result.Valid {
		t.Error("Expected invalid result for missing file")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "Failed to read file") {
			found = true
			break
		}
	}
	if !found {
		t.Error("Expected 'Failed to read file' error")
	}
}

func TestValidateProfile_MissingName(t *testing.T) {
	profile := strings.Replace(validProfile, `"name": "default",`, `"name": "",`, 1)
	path := writeProfile(t, "unnamed.json", profile)

	result := validateProfile(path, false)
	if result.Valid {
		t.Error("Expected invalid profile due to missing name")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "name is required") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected 'name is required' error, got: %v", result.Errors)
	}
}

func TestValidateProfile_OutOfBounds(t *testing.T) {
	profile := strings.Replace(validProfile, `"rate_limit_refill_ms": 500`, `"rate_limit_refill_ms": 1`, 1)
	path := writeProfile(t, "fast.json", profile)

	result := validateProfile(path, false)
	if result.Valid {
		t.Error("Expected invalid profile due to out-of-bounds refill interval")
	}

	found := false
	for _, err := range result.Errors {
		if contains(err, "rate_limit_refill_ms must be at least 10") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected refill bound error, got: %v", result.Errors)
	}
}

func TestValidateProfile_NameMismatchWarning(t *testing.T) {
	path := writeProfile(t, "dev.json", validProfile)

	result := validateProfile(path, false)
	if !result.Valid {
		t.Fatalf("Name mismatch should be a warning, not an error: %v", result.Errors)
	}

	found := false
	for _, info := range result.Errors {
		if contains(info, "does not match file name") {
			found = true
			break
		}
	}
	if !found {
		t.Errorf("Expected mismatch warning, got: %v", result.Errors)
	}
}

// Helper function to check if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
