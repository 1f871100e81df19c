package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/binder"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/logger"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/rbac"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/store"
	"github.com/jonh-steve/RunOut-Biliard-sub002/pkg/validator"
)

// ErrorInfo contains classified error information
type ErrorInfo struct {
	StatusCode int
	Message    string
	Errors     validator.ValidationErrors
	LogLevel   slog.Level
}

func isClientError(statusCode int) bool {
	return statusCode >= http.StatusBadRequest && statusCode < http.StatusInternalServerError
}

func determineLogLevel(statusCode int) slog.Level {
	if isClientError(statusCode) {
		return slog.LevelWarn
	}
	return slog.LevelError
}

// Classify maps err to the status and message of its failure envelope.
func Classify(err error) ErrorInfo {
	info := ErrorInfo{
		StatusCode: http.StatusInternalServerError,
		Message:    http.StatusText(http.StatusInternalServerError),
	}
	if err != nil {
		info.Message = err.Error()
	}

	var (
		httpErr  HTTPError
		verrs    validator.ValidationErrors
		maxBytes *http.MaxBytesError
	)

	switch {
	case errors.As(err, &httpErr):
		info.StatusCode = httpErr.Code
		info.Message = httpErr.Message
	case errors.As(err, &verrs):
		info.StatusCode = http.StatusBadRequest
		info.Errors = verrs
		if first, ok := verrs.First(); ok {
			info.Message = first.Message
		}
	case errors.As(err, &maxBytes):
		info.StatusCode = http.StatusRequestEntityTooLarge
		info.Message = ErrRequestEntityTooLarge.Message
	case errors.Is(err, rbac.ErrForbidden), errors.Is(err, rbac.ErrUnauthenticated):
		info.StatusCode = rbac.StatusOf(err)
	case errors.Is(err, validator.ErrInvalidJSON):
		info.StatusCode = http.StatusBadRequest
		info.Message = validator.ErrInvalidJSON.Error()
	case errors.Is(err, store.ErrNotFound):
		info.StatusCode = http.StatusNotFound
	case errors.Is(err, store.ErrConflict):
		info.StatusCode = http.StatusConflict
	case errors.Is(err, store.ErrInvalidID), binder.IsBindingError(err):
		info.StatusCode = http.StatusBadRequest
	}

	info.LogLevel = determineLogLevel(info.StatusCode)
	return info
}

// WriteError classifies err, logs it with the request logger and writes the
// failure envelope. It is the ErrorWriter of the authorization gates and the
// default error handler of Wrap. An unclassified error takes the status
// pre-set with SetStatus when that is a non-200 code.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	info := Classify(err)
	if info.StatusCode == http.StatusInternalServerError {
		if status := presetStatus(r); status != 0 && status != http.StatusOK {
			info.StatusCode = status
			info.LogLevel = determineLogLevel(status)
		}
	}
	logError(r, err, info)
	_ = WriteJSON(w, info.StatusCode, Failure(info.Message))
}

func logError(r *http.Request, err error, info ErrorInfo) {
	logger.FromContext(r.Context()).LogAttrs(r.Context(), info.LogLevel, "request error",
		logger.Error(err),
		logger.Status(info.StatusCode),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
		logger.Component("error_handler"),
	)
}

// NewErrorHandler adapts WriteError to Wrap's ErrorHandler.
func NewErrorHandler[C Context]() ErrorHandler[C] {
	return func(ctx C, err error) {
		WriteError(ctx.ResponseWriter(), ctx.Request(), err)
	}
}
