package model

import "fmt"

// Role is the closed set of account types in the portal.
type Role string

const (
	RoleStudent  Role = "STUDENT"
	RoleTeacher  Role = "TEACHER"
	RoleGuardian Role = "GUARDIAN"
	RoleAdmin    Role = "ADMIN"
)

func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleStudent:
		return RoleStudent, nil
	case RoleTeacher:
		return RoleTeacher, nil
	case RoleGuardian:
		return RoleGuardian, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// User holds the local profile data relevant to the application (outside of firebase)
type User struct {
	Id          string `db:"firebase_id" json:"id"`
	DisplayName string `db:"display_name" json:"displayName"`
	Role        Role   `db:"role" json:"role"`
	Avatar      string `db:"avatar" json:"avatar"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
