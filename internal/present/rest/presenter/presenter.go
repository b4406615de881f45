package presenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/zeebo/xxh3"
	"go.opentelemetry.io/otel/trace"

	"github.com/hashtagchobi/chobi-site/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// OK writes payload as JSON with a content hash ETag. A request whose
// If-None-Match carries the same tag gets 304 with no body.
func OK(c echo.Context, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return InternalError(c, err)
	}

	etag := fmt.Sprintf(`"%016x"`, xxh3.Hash(body))
	c.Response().Header().Set("ETag", etag)
	if matchETag(c.Request().Header.Get("If-None-Match"), etag) {
		return c.NoContent(http.StatusNotModified)
	}
	return c.JSONBlob(http.StatusOK, body)
}

func matchETag(header, etag string) bool {
	if header == "" {
		return false
	}
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		candidate = strings.TrimPrefix(candidate, "W/")
		if candidate == etag || candidate == "*" {
			return true
		}
	}
	return false
}

func Created(c echo.Context, payload any) error {
	return c.JSON(http.StatusCreated, payload)
}

func BadRequest(c echo.Context, err error) error {
	slog.Debug("Bad request", slog.String("error", err.Error()), slog.String("module", "presenter"))
	var verr domain.ValidationError
	if errors.As(err, &verr) {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: verr.Message, Field: verr.Field})
	}
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.Debug("Bad request", slog.String("error", msg), slog.String("module", "presenter"))
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

func Unauthorized(c echo.Context, realm string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, fmt.Sprintf(`Basic realm=%q`, realm))
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
}

func NotFound(c echo.Context, msg string) error {
	slog.Debug("Not found", slog.String("error", msg), slog.String("module", "presenter"))
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	ctx := c.Request().Context()
	attrs := []any{
		slog.String("error", err.Error()),
		slog.String("path", c.Path()),
		slog.String("module", "presenter"),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		attrs = append(attrs, slog.String("traceID", sc.TraceID().String()))
	}
	slog.ErrorContext(ctx, "Internal error", attrs...)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}

// Error maps err to a response: validation failures to 400, missing
// resources to 404, anything else to 500.
func Error(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return BadRequest(c, err)
	case errors.Is(err, domain.ErrNotFound):
		return NotFound(c, err.Error())
	default:
		return InternalError(c, err)
	}
}
