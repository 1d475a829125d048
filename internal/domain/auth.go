package domain

import (
	"errors"
	"fmt"
)

// Role is the privilege level carried by users and their tokens.
type Role int

const (
	RoleAdmin  Role = 1
	RoleMember Role = 2
)

// DefaultRole is assigned when registration does not name one.
const DefaultRole = RoleMember

// ErrUnknownRole is returned by ParseRole for values outside the enum.
var ErrUnknownRole = errors.New("unknown role")

// ParseRole validates a raw role value.
func ParseRole(v int) (Role, error) {
	r := Role(v)
	if !r.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownRole, v)
	}
	return r, nil
}

// Valid reports whether r is one of the recognized roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// rank orders roles by privilege. Unknown values rank lowest.
func (r Role) rank() int {
	switch r {
	case RoleAdmin:
		return 2
	case RoleMember:
		return 1
	default:
		return 0
	}
}

// Satisfies reports whether r grants at least the privileges of min.
func (r Role) Satisfies(min Role) bool {
	if !r.Valid() {
		return false
	}
	return r.rank() >= min.rank()
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleMember:
		return "member"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}
