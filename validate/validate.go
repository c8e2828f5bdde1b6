// Command validate provides a small CLI that validates tuning profile JSON
// files in a configs directory. It checks:
//   - JSON structure (unknown fields are rejected)
//   - Required fields and bounds via the shared tuning validator
//   - Profile name matching the file name (warning only)
//
// With -verbose, it also prints the effective values of each valid profile.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kayasax/Awale-sub000/game/config"
)

// ValidationResult captures the outcome of validating a single file.
// If Valid is true, Errors contains informational messages; otherwise it
// accumulates the validation errors that were found.
type ValidationResult struct {
	File   string
	Valid  bool
	Errors []string
}

// validateProfile loads and validates a single tuning profile JSON file.
// Decoding is strict: fields not present in the tuning schema fail the file,
// which catches typos like "rate_limit_capactiy" that a lenient decode would
// silently drop.
func validateProfile(filePath string, verbose bool) ValidationResult {
	result := ValidationResult{
		File:   filepath.Base(filePath),
		Valid:  true,
		Errors: []string{},
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Failed to read file: %v", err))
		return result
	}

	var tuning config.Tuning
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&tuning); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf("Invalid JSON: %v", err))
		return result
	}

	if err := config.Validate(&tuning); err != nil {
		result.Valid = false
		result.Errors = append(result.Errors, err.Error())
		return result
	}

	expectedName := strings.TrimSuffix(filepath.Base(filePath), ".json")
	if tuning.Name != expectedName {
		result.Errors = append(result.Errors, fmt.Sprintf("Warning: profile name %q does not match file name %q", tuning.Name, expectedName))
	}

	// Add informational data
	result.Errors = append(result.Errors, fmt.Sprintf("✓ Name: %s", tuning.Name))
	if tuning.Description != "" {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Description: %s", tuning.Description))
	}
	if verbose {
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Rate limit: %d tokens, refill every %s", tuning.RateLimitCapacity, tuning.RateLimitRefill()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Invite TTL: %s", tuning.InviteTTL()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Lobby idle timeout: %s", tuning.LobbyIdleTimeout()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Disconnect timeout: %s", tuning.DisconnectTimeout()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Session max age: %s", tuning.SessionMaxAge()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Sweep interval: %s", tuning.SweepInterval()))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Chat: %d messages retained, %d chars max", tuning.ChatHistorySize, tuning.ChatMaxLength))
		result.Errors = append(result.Errors, fmt.Sprintf("✓ Max message size: %d bytes", tuning.MaxMessageBytes))
	}

	return result
}

// main scans the configs directory for *.json files and validates each one,
// printing a concise report and exiting with non-zero status if any are
// invalid.
func main() {
	configDir := flag.String("config-dir", "../configs", "Directory containing tuning profiles")
	verbose := flag.Bool("verbose", false, "Print effective values of valid profiles")
	flag.Parse()

	files, err := filepath.Glob(filepath.Join(*configDir, "*.json"))
	if err != nil {
		fmt.Printf("Error finding profile files: %v\n", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Printf("No tuning profiles found in %s\n", *configDir)
		os.Exit(1)
	}

	allValid := true
	for _, file := range files {
		result := validateProfile(file, *verbose)

		fmt.Printf("\n%s %s\n", strings.Repeat("=", 20), result.File)

		if result.Valid {
			fmt.Println("✅ VALID")
			for _, info := range result.Errors {
				fmt.Println("  " + info)
			}
		} else {
			fmt.Println("❌ INVALID")
			allValid = false
			for _, err := range result.Errors {
				if !strings.HasPrefix(err, "✓") {
					fmt.Println("  ❌ " + err)
				}
			}
		}
	}

	fmt.Printf("\n%s\n", strings.Repeat("=", 40))
	if allValid {
		fmt.Println("✅ All tuning profiles are valid!")
	} else {
		fmt.Println("❌ Some tuning profiles have errors")
		os.Exit(1)
	}
}
