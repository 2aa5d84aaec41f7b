package middleware

import (
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"transport-requests/services/authz"
	"transport-requests/types"
)

// Locals keys populated by the authentication middleware.
const (
	LocalsUser        = "user"
	LocalsCallerID    = "caller_id"
	LocalsCallerRole  = "caller_role"
	LocalsBearerToken = "bearer_token"
)

// VerifyToken validates an HS256 token signed with the shared secret used by
// the user service and returns its claims.
func VerifyToken(tokenString string) (jwt.MapClaims, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is not set")
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("failed to parse JWT: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid JWT token")
	}
	return claims, nil
}

// bearerToken extracts the raw token from the Authorization header. Empty
// string when the header is missing or malformed.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return ""
	}
	return tokenParts[1]
}

// authenticate resolves the caller from the Authorization header and stores
// the identity in the request locals. An expired or unparseable token is
// treated exactly like a missing one, so the caller stays anonymous and the
// returned message says why.
func authenticate(c *fiber.Ctx) (string, bool) {
	token := bearerToken(c)
	if token == "" {
		return "Authorization token missing", false
	}

	claims, err := VerifyToken(token)
	if err != nil {
		return "Invalid or expired token", false
	}

	callerID, ok := authz.UserIDFromClaims(claims)
	if !ok {
		return "Token carries no usable identity", false
	}

	c.Locals(LocalsUser, claims)
	c.Locals(LocalsCallerID, callerID)
	c.Locals(LocalsCallerRole, authz.RoleFromClaims(claims))
	c.Locals(LocalsBearerToken, token)
	return "", true
}

// RequireAuth rejects anonymous callers with 401.
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if message, ok := authenticate(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: message,
				Status:  fiber.StatusUnauthorized,
			})
		}
		return c.Next()
	}
}

// RequireRoles authenticates and then allows only the listed roles through.
func RequireRoles(allowedRoles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if message, ok := authenticate(c); !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(types.ApiResponse{
				Message: message,
				Status:  fiber.StatusUnauthorized,
			})
		}

		role := CallerRole(c)
		for _, allowed := range allowedRoles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(types.ApiResponse{
			Message: "You do not have permission to access this resource",
			Status:  fiber.StatusForbidden,
		})
	}
}

// CallerID returns the authenticated caller's identity from the context.
func CallerID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalsCallerID).(uint)
	return id, ok
}

// CallerRole returns the authenticated caller's role from the context.
func CallerRole(c *fiber.Ctx) string {
	role, _ := c.Locals(LocalsCallerRole).(string)
	return role
}

// BearerToken returns the raw credential for forwarding to peer services.
func BearerToken(c *fiber.Ctx) string {
	token, _ := c.Locals(LocalsBearerToken).(string)
	return token
}
