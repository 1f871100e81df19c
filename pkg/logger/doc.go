// Package logger builds the service's *slog.Logger and carries it through
// request contexts.
//
// New creates a logger from functional options: output format (text or json),
// level, static attributes, and ContextExtractor callbacks that inject
// request-scoped values on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(cfg.AppEnv, "runout-api"),
//	    logger.WithLevelName(cfg.LogLevel),
//	    logger.WithContextExtractors(logger.RequestIDExtractor(), logger.IdentityExtractor()),
//	)
//
// Middleware stores the logger in each request context and writes one access
// record per request. Code deeper in the chain retrieves it with FromContext.
//
// Attribute helpers such as Error, UserID and Route keep key names consistent.
// Helpers return an empty Attr for nil or empty inputs, so
//
//	log.Info("order placed", logger.Error(err))
//
// needs no nil check.
package logger
