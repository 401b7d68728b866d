package model

import "github.com/google/uuid"

type Role string

const (
	RoleClient  Role = "CLIENT"
	RoleAdmin   Role = "ADMIN"
	RolePartner Role = "PARTNER"
)

// Principal is the authenticated caller extracted from the access token.
type Principal struct {
	UserID    uuid.UUID
	ProfileID uuid.UUID
	Role      Role
}

func (p Principal) IsClient() bool  { return p.Role == RoleClient }
func (p Principal) IsAdmin() bool   { return p.Role == RoleAdmin }
func (p Principal) IsPartner() bool { return p.Role == RolePartner }

// CanReadClient reports whether the principal may read data owned by the
// given client profile. Admins and partners see every client.
func (p Principal) CanReadClient(clientID uuid.UUID) bool {
	if p.IsAdmin() || p.IsPartner() {
		return true
	}
	return p.ProfileID == clientID
}
