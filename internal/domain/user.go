package domain

import (
	"errors"
	"time"
)

// User represents a system user
type User struct {
	ID             string
	Email          string
	Name           string
	HashedPassword string
	Role           Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Active         bool
}

// Role represents a user's access level
type Role string

const (
	// RoleAdmin governs the protocol: rate changes plus everything below
	RoleAdmin Role = "admin"

	// RoleOperator moves funds: deposits, redemptions, transfers, bridge legs
	RoleOperator Role = "operator"

	// RoleViewer can only read balances and journals
	RoleViewer Role = "viewer"
)

var validRoles = map[Role]bool{
	RoleAdmin:    true,
	RoleOperator: true,
	RoleViewer:   true,
}

// IsValid checks if the role is a valid role
func (r Role) IsValid() bool {
	return validRoles[r]
}

// CanGovernRate checks if the role may change the global rate.
func (r Role) CanGovernRate() bool {
	return r == RoleAdmin
}

// CanMoveFunds checks if the role may mint, burn or transfer claims.
func (r Role) CanMoveFunds() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanRelayPackets checks if the role may deliver inbound bridge packets.
func (r Role) CanRelayPackets() bool {
	return r == RoleAdmin || r == RoleOperator
}

// CanManageUsers checks if the role can manage users
func (r Role) CanManageUsers() bool {
	return r == RoleAdmin
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)
