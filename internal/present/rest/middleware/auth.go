package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/hashtagchobi/chobi-site/internal/domain"
	"github.com/hashtagchobi/chobi-site/internal/present/rest/presenter"
	"github.com/hashtagchobi/chobi-site/internal/service"
)

var tracer = otel.Tracer("auth")

type AuthMiddleware struct {
	auth   *service.AuthService
	config domain.Config
}

func NewAuthMiddleware(
	auth *service.AuthService,
	config domain.Config,
) *AuthMiddleware {
	return &AuthMiddleware{
		auth:   auth,
		config: config,
	}
}

// RequireAdmin rejects requests without valid administrator basic auth
// credentials.
func (s *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, span := tracer.Start(c.Request().Context(), "Auth.Middleware.RequireAdmin")
		defer span.End()

		realm := s.config.SiteName
		if realm == "" {
			realm = "admin"
		}

		username, password, ok := c.Request().BasicAuth()
		if !ok {
			span.RecordError(errors.New("missing basic auth"))
			return presenter.Unauthorized(c, realm)
		}

		if err := s.auth.AuthBasic(ctx, username, password); err != nil {
			span.RecordError(errors.Wrap(err, "AuthMiddleware.RequireAdmin: s.auth.AuthBasic failed"))
			return presenter.Unauthorized(c, realm)
		}

		span.SetAttributes(attribute.String("Admin", username))
		c.SetRequest(c.Request().WithContext(ctx))
		return next(c)
	}
}
