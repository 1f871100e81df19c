package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache stores one parsed copy per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	dotenvOnce sync.Once
)

// LoadEnv loads the given .env files into the process environment.
// Variables already set in the environment win over file values, and earlier
// files win over later ones. Without arguments it loads ./.env if present.
func LoadEnv(files ...string) error {
	var err error
	dotenvOnce.Do(func() {
		err = loadFiles(files)
	})
	if err != nil {
		return errors.Join(ErrLoadingEnvFile, err)
	}
	return nil
}

func loadFiles(files []string) error {
	if len(files) == 0 {
		// ./.env is optional.
		_ = godotenv.Load()
		return nil
	}
	return godotenv.Load(files...)
}

// Load parses the environment into v. Each configuration type is parsed
// once; later calls for the same type copy the cached value.
//
//	type JWTConfig struct {
//		Secret string        `env:"JWT_SECRET,required"`
//		TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
//	}
//
//	var cfg JWTConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	_ = LoadEnv()

	key := reflect.TypeFor[T]()
	if key.Kind() != reflect.Struct {
		return fmt.Errorf("%w: %s", ErrInvalidConfigType, key)
	}

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	parsed, err := env.ParseAs[T]()
	if err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is Load that panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: failed to load required configuration: %v", err))
	}
}

// Reload parses T again, replacing any cached value.
func Reload[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	global.mu.Lock()
	delete(global.values, reflect.TypeFor[T]())
	global.mu.Unlock()
	return Load(v)
}

// ResetCache forgets every cached configuration.
func ResetCache() {
	global.mu.Lock()
	defer global.mu.Unlock()
	clear(global.values)
}
