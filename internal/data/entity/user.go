package entity

import "fmt"

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// ParseRole converts the raw role string carried in a token claim into
// a typed Role. It is the single place the conversion happens; every
// layer past the auth middleware works with the typed value.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleUser:
		return RoleUser, nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

func (r Role) In(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

type User struct {
	Base
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
	Role         Role   `db:"role"`
}
