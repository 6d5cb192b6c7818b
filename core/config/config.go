package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once

	mu    sync.RWMutex
	cache = make(map[reflect.Type]any)
)

// Load populates cfg from environment variables using `env` struct tags.
// A .env file in the working directory, if present, is loaded once before
// the first parse. Each config type is parsed once and served from cache
// afterwards.
func Load[T any](cfg *T) error {
	if cfg == nil {
		return ErrNilConfig
	}

	dotenvOnce.Do(func() {
		// Missing .env is the normal case outside local development.
		_ = godotenv.Load()
	})

	typ := reflect.TypeFor[T]()

	mu.RLock()
	cached, ok := cache[typ]
	mu.RUnlock()
	if ok {
		*cfg = cached.(T)
		return nil
	}

	loaded, err := env.ParseAs[T]()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParsingConfig, err)
	}

	mu.Lock()
	// Another goroutine may have won the race; keep the first value.
	if existing, ok := cache[typ]; ok {
		loaded = existing.(T)
	} else {
		cache[typ] = loaded
	}
	mu.Unlock()

	*cfg = loaded
	return nil
}

// MustLoad is like Load but panics on error. Intended for program startup.
func MustLoad[T any](cfg *T) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
