package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

const claimsKey = "auth_claims"

const bearerScheme = "Bearer"

// AuthMiddleware validates bearer tokens and stores the verified claims on the
// request.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return apperrors.NewUnauthorized("a token is required for authentication")
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, bearerScheme) || token == "" {
		return apperrors.NewInvalidToken()
	}

	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if errors.Is(err, ErrTokenMalformed) {
			return apperrors.NewInvalidToken()
		}
		return apperrors.NewInvalidSignature()
	}

	if claims.Expired(m.tokens.Now()) {
		return apperrors.NewTokenExpired()
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the verified claims of the caller.
func ClaimsFromContext(c *fiber.Ctx) (VerifiedClaims, bool) {
	claims, ok := c.Locals(claimsKey).(VerifiedClaims)
	return claims, ok
}
