package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/audit-chat-service/internal/observability"
	apperrors "github.com/spec-kit/audit-chat-service/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	// The request logger wraps the error translator so the status it records
	// is the one the client actually receives.
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware is the single point where failures become HTTP
// responses: every error from the chain below is translated to the uniform
// envelope, panics included.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError("Unexpected error", nil)
			}
			if err != nil {
				status, envelope := apperrors.Translate(normalize(err))
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), envelope.Error)
				}
				if status >= 500 {
					logger.Error("request failed", zap.Error(err))
				}
				c.Status(status)
				_ = c.JSON(envelope)
				err = nil
			}
		}()
		return c.Next()
	}
}

// normalize maps fiber's own errors (route miss, body limits) into the
// closed taxonomy before translation.
func normalize(err error) error {
	var fiberErr *fiber.Error
	if !errors.As(err, &fiberErr) {
		return err
	}
	switch fiberErr.Code {
	case fiber.StatusBadRequest:
		return apperrors.NewBadRequest(fiberErr.Message)
	case fiber.StatusUnauthorized:
		return apperrors.NewUnauthorized(fiberErr.Message)
	case fiber.StatusNotFound:
		return apperrors.NewNotFound(fiberErr.Message)
	case fiber.StatusRequestTimeout:
		return apperrors.NewRequestTimeout(fiberErr.Message)
	case fiber.StatusConflict:
		return apperrors.NewConflict(fiberErr.Message, nil)
	case fiber.StatusUnprocessableEntity:
		return apperrors.NewInvalidData(fiberErr.Message, nil)
	default:
		return apperrors.NewInternalError(fiberErr.Message, nil)
	}
}
