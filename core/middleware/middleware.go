package middleware

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"mediation-api/core/constants"
	"mediation-api/core/controller"
	"mediation-api/core/errors"
	"mediation-api/core/identity"
	"mediation-api/core/logger"
	"mediation-api/core/utils"

	"github.com/labstack/echo/v4"
)

type Middleware struct {
	resolver identity.Resolver
}

func NewMiddleware(resolver identity.Resolver) *Middleware {
	return &Middleware{resolver: resolver}
}

// AuthMiddleware resolves the caller and stores it on both the echo context
// and the request context. Unauthenticated requests stop here with 401.
func (m *Middleware) AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := m.resolver.Resolve(c.Request())
			if err != nil {
				if stderrors.Is(err, identity.ErrUnauthenticated) {
					logger.Info("Middleware:AuthMiddleware:Unauthenticated", "path", c.Path(), "reason", err)
					return controller.NewErrorResponse(http.StatusUnauthorized, errors.ErrUnauthorized, "authentication required")
				}
				logger.Error("Middleware:AuthMiddleware:ResolveError", "error", err)
				return controller.NewErrorResponse(http.StatusInternalServerError, errors.ErrInternalServer, "internal server error")
			}

			c.Set(constants.ContextCaller, caller)
			c.SetRequest(c.Request().WithContext(identity.WithCaller(c.Request().Context(), caller)))
			return next(c)
		}
	}
}

// RequestID tags every request with an id, reusing an inbound X-Request-ID.
func (m *Middleware) RequestID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(constants.HeaderRequestID)
			if id == "" {
				id = utils.GenerateID()
			}
			c.Set(constants.ContextRequestID, id)
			c.Response().Header().Set(constants.HeaderRequestID, id)
			return next(c)
		}
	}
}

// Timeout bounds the request context, and with it every store transaction
// the request opens.
func (m *Middleware) Timeout(d time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx, cancel := context.WithTimeout(c.Request().Context(), d)
			defer cancel()
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// AccessLog writes one line per request through core/logger.
func (m *Middleware) AccessLog() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.Info("HTTP:Request",
				"method", c.Request().Method,
				"path", c.Path(),
				"status", c.Response().Status,
				"duration", time.Since(start),
				"request_id", c.Get(constants.ContextRequestID),
			)
			return nil
		}
	}
}

// CallerFromContext returns the caller stored by AuthMiddleware.
func CallerFromContext(c echo.Context) (*identity.Caller, error) {
	caller, ok := c.Get(constants.ContextCaller).(*identity.Caller)
	if !ok || caller == nil {
		return nil, errors.NewAppError(errors.ErrUnauthorized, "authentication required", nil)
	}
	return caller, nil
}
