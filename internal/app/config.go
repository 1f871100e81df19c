package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/httpserver"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/mongo"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/ratelimiter"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/redis"
)

// Storage, denylist and rate limit drivers.
const (
	DriverMongo  = "mongo"
	DriverRedis  = "redis"
	DriverMemory = "memory"
	DriverOff    = "off"
)

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("app: invalid configuration")

// JWTConfig configures token issuing.
type JWTConfig struct {
	Secret string        `env:"JWT_SECRET,required"`
	TTL    time.Duration `env:"JWT_TTL" envDefault:"168h"`
	Issuer string        `env:"JWT_ISSUER" envDefault:"runout-biliard"`
}

// Config is the application configuration, read from the environment.
type Config struct {
	Name           string `env:"APP_NAME" envDefault:"runout-biliard"`
	Env            string `env:"APP_ENV" envDefault:"development"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	StorageDriver  string `env:"STORAGE_DRIVER" envDefault:"mongo"`
	DenylistDriver string `env:"DENYLIST_DRIVER" envDefault:"redis"`
	// RateLimitDriver selects the throttle store; "off" disables throttling.
	RateLimitDriver string `env:"RATE_LIMIT_DRIVER" envDefault:"redis"`
	MaxBodyBytes    int64  `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	// AdminEmail and AdminPassword seed an admin account at startup when both are set.
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`

	HTTP      httpserver.Config
	Mongo     mongo.Config
	Redis     redis.Config
	JWT       JWTConfig
	RateLimit ratelimiter.Config
}

// Validate rejects unknown drivers and unusable limits.
func (c Config) Validate() error {
	var errs []error
	if c.StorageDriver != DriverMongo && c.StorageDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", DriverMongo, DriverMemory, c.StorageDriver))
	}
	if c.DenylistDriver != DriverRedis && c.DenylistDriver != DriverMemory {
		errs = append(errs, fmt.Errorf("DENYLIST_DRIVER must be %q or %q, got %q", DriverRedis, DriverMemory, c.DenylistDriver))
	}
	switch c.RateLimitDriver {
	case DriverRedis, DriverMemory, DriverOff:
	default:
		errs = append(errs, fmt.Errorf("RATE_LIMIT_DRIVER must be %q, %q or %q, got %q", DriverRedis, DriverMemory, DriverOff, c.RateLimitDriver))
	}
	if c.RateLimitDriver != DriverOff {
		if err := c.RateLimit.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	if c.MaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("MAX_BODY_BYTES must be positive, got %d", c.MaxBodyBytes))
	}
	if len(c.JWT.Secret) < 16 {
		errs = append(errs, errors.New("JWT_SECRET must be at least 16 characters"))
	}
	if (c.AdminEmail == "") != (c.AdminPassword == "") {
		errs = append(errs, errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set together"))
	}
	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidConfig}, errs...)...)
	}
	return nil
}
