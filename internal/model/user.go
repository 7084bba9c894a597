package model

import (
	"strings"
	"time"
)

// Role gates which operations an identity may invoke. It is fixed at registration.
type Role string

const (
	RoleStudent Role = "student"
	RoleCompany Role = "company"
)

// ParseRole returns the role named by s, or false if s is not a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(s))) {
	case RoleStudent:
		return RoleStudent, true
	case RoleCompany:
		return RoleCompany, true
	default:
		return "", false
	}
}

// User represents a registered student or company account.
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:50;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:120;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// IsStudent reports whether the user registered as a student.
func (u *User) IsStudent() bool { return u.Role == RoleStudent }

// IsCompany reports whether the user registered as a company.
func (u *User) IsCompany() bool { return u.Role == RoleCompany }
