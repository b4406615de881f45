package service

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"
)

var tracer = otel.Tracer("auth")

var ErrUnauthorized = errors.New("unauthorized")

// AuthService checks the administrator credentials guarding cache
// management. The password is stored as a bcrypt hash.
type AuthService struct {
	username     string
	passwordHash []byte
}

func NewAuthService(username, passwordHash string) *AuthService {
	return &AuthService{
		username:     username,
		passwordHash: []byte(passwordHash),
	}
}

// Enabled reports whether administrator credentials are configured.
func (s *AuthService) Enabled() bool {
	return s.username != "" && len(s.passwordHash) > 0
}

func (s *AuthService) AuthBasic(ctx context.Context, username, password string) error {
	_, span := tracer.Start(ctx, "Auth.Service.AuthBasic")
	defer span.End()

	if !s.Enabled() {
		err := fmt.Errorf("admin credentials not configured")
		span.RecordError(err)
		return errors.Wrap(ErrUnauthorized, err.Error())
	}

	if subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) != 1 {
		span.RecordError(fmt.Errorf("unknown user"))
		return ErrUnauthorized
	}

	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		span.RecordError(errors.Wrap(err, "password mismatch"))
		return ErrUnauthorized
	}

	return nil
}

// HashPassword produces the value expected in the admin passwordHash setting.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
