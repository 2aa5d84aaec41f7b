package authz

import (
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"transport-requests/constants"
)

// The user service has shipped several token layouts over time, so both the
// identity and the role live under one of several claim names. Ordered alias
// lists, first present wins.
var (
	identityClaimAliases = []string{"sub", "userId", "user_id", "id"}
	roleClaimAliases     = []string{"role", "user_type", "type"}
)

// UserIDFromClaims resolves the caller's numeric identity from the token
// claims. Returns false when no alias carries a usable value.
func UserIDFromClaims(claims jwt.MapClaims) (uint, bool) {
	for _, key := range identityClaimAliases {
		raw, ok := claims[key]
		if !ok {
			continue
		}
		if id, ok := coerceUint(raw); ok {
			return id, true
		}
	}
	return 0, false
}

// RoleFromClaims resolves the caller's role, stripping the issuer's "ROLE_"
// prefix. Tokens without a role claim belong to plain clients.
func RoleFromClaims(claims jwt.MapClaims) string {
	for _, key := range roleClaimAliases {
		raw, ok := claims[key]
		if !ok {
			continue
		}
		role, ok := raw.(string)
		if !ok || role == "" {
			continue
		}
		return strings.TrimPrefix(role, constants.RolePrefix)
	}
	return constants.RoleClient
}

func coerceUint(raw interface{}) (uint, bool) {
	switch v := raw.(type) {
	case float64:
		// JSON numbers decode as float64
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint(v), true
	case string:
		parsed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return 0, false
		}
		return uint(parsed), true
	default:
		return 0, false
	}
}
