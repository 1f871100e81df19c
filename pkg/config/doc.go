// Package config loads typed configuration from the environment.
//
// It wraps github.com/joho/godotenv and github.com/caarlos0/env/v11:
// the .env file is read once per process, then each configuration struct is
// parsed from its `env` tags and cached by type.
//
//	var cfg app.Config
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Subsequent Load calls for the same type are served from the cache. Tests
// use Reload or ResetCache after changing the environment.
//
// Errors are sentinel values compared with errors.Is: ErrParsingConfig,
// ErrInvalidConfigType, ErrNilPointer and ErrLoadingEnvFile.
package config
