package constants

// User roles carried by the authentication token. The token issuer sometimes
// prefixes them with "ROLE_"; the middleware strips that prefix before they
// reach any business code.
const (
	RoleClient      = "CLIENT"
	RolePrestataire = "PRESTATAIRE"
	RoleAdmin       = "ADMIN"
)

// RolePrefix is the Spring-style prefix convention used by the token issuer.
const RolePrefix = "ROLE_"
