package http

import (
	"context"
	"errors"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/band-site/internal/observability"
	apperrors "github.com/spec-kit/band-site/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
}

// ErrorHandler renders errors raised before the middleware chain runs, such
// as an oversized body rejected by the server.
func ErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		return writeError(c, logger, asDomainError(err))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := asDomainError(err)
				metrics.RecordError(observability.RouteLabel(c), c.Method(), domainErr.Code)
				err = writeError(c, logger, domainErr)
			}
		}()
		return c.Next()
	}
}

// asDomainError folds fiber's routing errors into the application error type.
func asDomainError(err error) *apperrors.DomainError {
	var fe *fiber.Error
	if !errors.As(err, &fe) {
		return apperrors.ToDomainError(err)
	}
	switch fe.Code {
	case fiber.StatusNotFound:
		return apperrors.NewDomainError("NOT_FOUND", "Route introuvable", fe.Code, nil)
	case fiber.StatusMethodNotAllowed:
		return apperrors.NewDomainError("METHOD_NOT_ALLOWED", "Méthode non autorisée", fe.Code, nil)
	case fiber.StatusRequestEntityTooLarge:
		return apperrors.NewDomainError("PAYLOAD_TOO_LARGE", "Requête trop volumineuse", fe.Code, nil)
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apperrors.NewDomainError("VALIDATION_FAILED", "Corps de requête invalide", fiber.StatusBadRequest, nil)
	}
	if fe.Code >= fiber.StatusInternalServerError {
		return apperrors.ToDomainError(err)
	}
	return apperrors.NewDomainError("HTTP_ERROR", fe.Message, fe.Code, nil)
}

// writeError renders {"error": message, "details": [...]}. Details are only
// present for validation failures.
func writeError(c *fiber.Ctx, logger *zap.Logger, domainErr *apperrors.DomainError) error {
	if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("path", c.Path()),
			zap.String("method", c.Method()),
			zap.Error(domainErr),
		)
	}
	response := fiber.Map{"error": domainErr.Message}
	if len(domainErr.Details) > 0 {
		response["details"] = domainErr.Details
	}
	return c.Status(domainErr.HTTPStatus).JSON(response)
}
