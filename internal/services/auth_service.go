package services

import (
	"context"
	"errors"
	"time"

	chat_errors "direct-chat/pkg/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AuthService verifies the access tokens issued by the account service.
// Registration and login live outside this module.
type AuthService struct {
	jwtSecret []byte
	accessTTL time.Duration
}

func NewAuthService(secret string, accessTTL time.Duration) *AuthService {
	if accessTTL <= 0 {
		accessTTL = 7 * 24 * time.Hour
	}
	return &AuthService{jwtSecret: []byte(secret), accessTTL: accessTTL}
}

type AccessClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

// IssueAccessToken signs a token for userID. Used by tooling and tests.
func (s *AuthService) IssueAccessToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ParseAccessToken validates the signature and expiry and returns the caller.
func (s *AuthService) ParseAccessToken(tokenString string) (uuid.UUID, error) {
	if tokenString == "" {
		return uuid.Nil, chat_errors.ErrUnauthorized
	}
	claims := &AccessClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return uuid.Nil, chat_errors.ErrUnauthorized
	}

	raw := claims.UserID
	if raw == "" {
		raw = claims.Subject
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, chat_errors.ErrUnauthorized
	}
	return userID, nil
}

func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, chat_errors.ErrInvalidInput):
		return 400
	case errors.Is(err, chat_errors.ErrUnauthorized):
		return 401
	case errors.Is(err, chat_errors.ErrForbidden):
		return 403
	case errors.Is(err, chat_errors.ErrNotFound):
		return 404
	case errors.Is(err, chat_errors.ErrTooLarge):
		return 413
	default:
		return 500
	}
}

type ctxKey string

var userIDKey ctxKey = "user_id"

func WithUserContext(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	value := ctx.Value(userIDKey)
	if value == nil {
		return uuid.Nil, false
	}
	userID, ok := value.(uuid.UUID)
	return userID, ok
}
