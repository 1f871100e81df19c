package app

import (
	"context"
	"errors"
	"log/slog"

	redisdriver "github.com/redis/go-redis/v9"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/httpserver"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/jwt"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/metrics"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/mongo"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/ratelimiter"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/redis"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/route"
)

// App owns the connections and the HTTP pipeline of one process.
type App struct {
	cfg     Config
	log     *slog.Logger
	router  *Router
	server  *httpserver.Server
	closers []func(context.Context) error
}

// New connects the configured backends, seeds the admin account and
// assembles the router. Close releases whatever New opened, also on failure.
func New(ctx context.Context, cfg Config, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	a := &App{cfg: cfg, log: log}
	deps := Deps{
		Log:          log,
		Metrics:      metrics.New(metrics.WithRuntimeCollectors()),
		MaxBodyBytes: cfg.MaxBodyBytes,
	}

	tokens, err := jwt.New(cfg.JWT.Secret, jwt.WithIssuer(cfg.JWT.Issuer), jwt.WithTTL(cfg.JWT.TTL))
	if err != nil {
		return nil, err
	}
	deps.Tokens = tokens

	switch cfg.StorageDriver {
	case DriverMongo:
		client, err := mongo.New(ctx, cfg.Mongo)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func(ctx context.Context) error { return client.Disconnect(ctx) })
		deps.Checks = append(deps.Checks, httpserver.Check{Name: "mongo", Fn: mongo.Healthcheck(client)})

		deps.Stores, err = MongoStores(ctx, client.Database(cfg.Mongo.Database))
		if err != nil {
			return nil, a.fail(ctx, err)
		}
	default:
		log.WarnContext(ctx, "using in-memory storage, data is lost on restart")
		deps.Stores = MemoryStores()
	}

	var rdb *redisdriver.Client
	if cfg.DenylistDriver == DriverRedis || cfg.RateLimitDriver == DriverRedis {
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, a.fail(ctx, err)
		}
		rdb = client
		a.closers = append(a.closers, closeRedis(client))
		deps.Checks = append(deps.Checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
	}

	if cfg.DenylistDriver == DriverRedis {
		deps.Denylist = jwt.NewRedisDenylist(rdb, cfg.Name+":jwt:revoked:")
	} else {
		deps.Denylist = jwt.NewMemoryDenylist()
	}

	var limits ratelimiter.Store
	switch cfg.RateLimitDriver {
	case DriverRedis:
		limits = ratelimiter.NewRedisStore(rdb, cfg.Name+":ratelimit:")
	case DriverMemory:
		mem := ratelimiter.NewMemoryStore()
		a.closers = append(a.closers, func(context.Context) error { mem.Close(); return nil })
		limits = mem
	}
	if limits != nil {
		if deps.Limiter, err = ratelimiter.NewBucket(limits, cfg.RateLimit); err != nil {
			return nil, a.fail(ctx, err)
		}
	}

	a.router = NewRouter(deps)

	if cfg.AdminEmail != "" {
		if err := a.router.Users.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			return nil, a.fail(ctx, err)
		}
		log.InfoContext(ctx, "admin account ensured", slog.String("email", cfg.AdminEmail))
	}

	for _, line := range route.Describe(a.router.Groups...) {
		log.DebugContext(ctx, "route", slog.String("route", line))
	}

	a.server = httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
	return a, nil
}

// Handler returns the assembled HTTP pipeline.
func (a *App) Handler() *Router {
	return a.router
}

// Run serves HTTP until ctx is cancelled or the process is signalled.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx, a.router)
}

// Close disconnects the backends in reverse order of connection.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if err := errors.Join(errs...); err != nil {
		a.log.ErrorContext(ctx, "closing backends", logger.Error(err))
		return err
	}
	return nil
}

func (a *App) fail(ctx context.Context, err error) error {
	return errors.Join(err, a.Close(ctx))
}

func closeRedis(client *redisdriver.Client) func(context.Context) error {
	return func(context.Context) error { return client.Close() }
}
