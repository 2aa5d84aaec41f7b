package authz

import (
	"transport-requests/constants"
	"transport-requests/models/request"
)

// Pure role/ownership rules. No side effects here; the orchestrator turns a
// false into an AuthorizationError.

// CanViewRequest implements the per-role visibility matrix: admins see
// everything, providers see requests that already left the client's hands,
// clients see their own.
func CanViewRequest(role string, callerID uint, req *request.TransportRequest) bool {
	switch role {
	case constants.RoleAdmin:
		return true
	case constants.RolePrestataire:
		return req.ValidationStatus != request.StatusAwaitingClient
	case constants.RoleClient:
		return req.ClientID == callerID
	default:
		return false
	}
}

func CanListAll(role string) bool {
	return role == constants.RoleAdmin
}

func CanListByStatus(role string) bool {
	return role == constants.RoleAdmin || role == constants.RolePrestataire
}

func CanListByMission(role string) bool {
	return role == constants.RoleAdmin || role == constants.RolePrestataire
}

// CanViewOwnerProfile gates the user-profile forwarding endpoint.
func CanViewOwnerProfile(role string, callerID uint, req *request.TransportRequest) bool {
	if role == constants.RoleAdmin || role == constants.RolePrestataire {
		return true
	}
	return role == constants.RoleClient && req.ClientID == callerID
}

func CanCancel(role string, callerID uint, req *request.TransportRequest) bool {
	if role == constants.RoleAdmin {
		return true
	}
	return req.ClientID == callerID
}

func CanViewStats(role string) bool {
	return role == constants.RoleAdmin
}
