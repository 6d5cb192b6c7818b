// Package config provides type-safe environment variable loading with caching
// using Go generics. Each configuration type is loaded once and cached for
// subsequent calls.
//
// The package automatically loads .env files on first use and uses the
// caarlos0/env library for parsing environment variables into struct fields.
//
// Basic usage:
//
//	import "github.com/dmitrymomot/notify/core/config"
//
//	var rc redis.Config
//	if err := config.Load(&rc); err != nil {
//		log.Fatal(err)
//	}
//
//	// Or panic on failure (useful for startup)
//	var tc redistransport.Config
//	config.MustLoad(&tc)
//
// # Caching Behavior
//
// Each configuration type is loaded only once per application lifetime:
//
//	var cfg1 redis.Config
//	config.Load(&cfg1) // Loads from environment
//
//	var cfg2 redis.Config
//	config.Load(&cfg2) // Returns cached value, cfg1 == cfg2
//
// Different types are cached independently:
//
//	config.MustLoad(&redis.Config{})
//	config.MustLoad(&pg.Config{})
//
// Parse failures wrap ErrParsingConfig:
//
//	if errors.Is(err, config.ErrParsingConfig) {
//		// a required variable is missing or a value is malformed
//	}
package config
