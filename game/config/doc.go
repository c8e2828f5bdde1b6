// Package config loads and caches server tuning profiles.
//
// The config package implements:
//   - The Tuning type holding every operational knob of the server
//   - JSON profile loading from a directory, with validation
//   - A cached Manager with a default profile and explicit refresh
//
// Tuning profiles adjust server behavior only: rate limits, sweep timeouts,
// chat bounds, message size limits. The Awale rules themselves are fixed
// and never configurable.
//
// Usage:
//
//	manager, err := config.NewManager("./configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//	tuning := manager.GetDefault()
//
// Profiles live as <name>.json files; "default" is preferred as the default
// profile, falling back to the first loadable profile and finally to the
// built-in values from DefaultTuning.
package config
