package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// entry holds the parse outcome for a single configuration type. The once
// guard makes the expensive env.Parse run at most once per type, even when
// several goroutines load the same config concurrently.
type entry struct {
	once sync.Once
	val  any
	err  error
}

var (
	mu      sync.Mutex
	entries = make(map[string]*entry)

	dotenvOnce sync.Once
)

// Load populates v from the process environment using `env` struct tags.
//
// On first use it loads the default .env file from the working directory
// (missing file is fine), then parses the environment into v. The result,
// success or failure, is cached per configuration type: every later call for
// the same type returns the cached copy without touching the environment
// again.
//
// Example:
//
//	type ReminderConfig struct {
//		Lead         time.Duration `env:"REMINDER_LEAD" envDefault:"1h15m"`
//		PollInterval time.Duration `env:"REMINDER_POLL_INTERVAL" envDefault:"30s"`
//	}
//
//	var cfg ReminderConfig
//	if err := config.Load(&cfg); err != nil {
//		// handle error
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}

	dotenvOnce.Do(func() {
		// The default .env is optional.
		_ = godotenv.Load()
	})

	e := entryFor(typeName[T]())
	e.once.Do(func() {
		if err := env.Parse(v); err != nil {
			e.err = errors.Join(ErrParsingConfig, err)
			return
		}
		// Store a copy so later callers cannot mutate the cached value.
		e.val = *v
	})
	if e.err != nil {
		return e.err
	}

	*v = e.val.(T)
	return nil
}

// MustLoad works like Load but panics on failure. Intended for configuration
// the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// LoadEnv loads the given .env files into the process environment before any
// config structs are parsed. Existing environment variables are not
// overridden. Calling LoadEnv disables the implicit default .env load.
func LoadEnv(files ...string) error {
	dotenvOnce.Do(func() {})
	if err := godotenv.Load(files...); err != nil {
		return errors.Join(ErrLoadingEnvFiles, err)
	}
	return nil
}

// Reset drops all cached configurations so the next Load parses the
// environment again. Meant for tests that mutate the environment between
// cases.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	entries = make(map[string]*entry)
}

func entryFor(name string) *entry {
	mu.Lock()
	defer mu.Unlock()
	e, ok := entries[name]
	if !ok {
		e = &entry{}
		entries[name] = e
	}
	return e
}

// typeName returns a stable identifier for T used as the cache key.
func typeName[T any]() string {
	t := reflect.TypeOf((*T)(nil)).Elem()
	return t.String()
}
