package session

import "strings"

// Role is the access class of the current user. It decides which
// affordances a view renders.
type Role string

const (
	RoleAnonymous     Role = "anonymous"
	RolePatient       Role = "patient"
	RoleLoggedPatient Role = "loggedPatient"
	RoleDoctor        Role = "doctor"
	RoleAdmin         Role = "admin"
)

// ParseRole maps a stored role value onto a Role. Unknown or empty values
// become RoleAnonymous.
func ParseRole(value string) Role {
	switch Role(strings.TrimSpace(value)) {
	case RolePatient:
		return RolePatient
	case RoleLoggedPatient:
		return RoleLoggedPatient
	case RoleDoctor:
		return RoleDoctor
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleAnonymous
	}
}

// RequiresToken reports whether the role is only valid with a session token.
func (r Role) RequiresToken() bool {
	switch r {
	case RoleLoggedPatient, RoleDoctor, RoleAdmin:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
