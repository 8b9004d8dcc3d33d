package model

import "github.com/google/uuid"

// Principal is the authenticated identity behind a request.
// The zero value is an anonymous requester.
type Principal struct {
	UserID uuid.UUID
	Role   Role
}

// Authenticated reports whether the principal carries a user.
func (p Principal) Authenticated() bool {
	return p.UserID != uuid.Nil
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Authenticated() && p.Role == RoleAdmin
}

// TokenManager generates and validates access tokens.
type TokenManager interface {
	GenerateToken(principal Principal) (string, error)
	ParseToken(token string) (Principal, error)
}
