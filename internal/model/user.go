package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleStudent = "student"
	RoleCompany = "company"
	RoleAdmin   = "admin"
)

// Roles lists every role an account may hold.
var Roles = []string{RoleStudent, RoleCompany, RoleAdmin}

// User is an account. The password column holds a bcrypt hash and is never serialized.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Email     string    `gorm:"type:text;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"type:text;not null" json:"-"`
	Role      string    `gorm:"type:text;not null;check:role IN ('student','company','admin')" json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}

// PublicUser is the part of an account that is returned to clients.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  string    `json:"role"`
}

// NewUser builds an account from already-hashed credentials.
func NewUser(name, email, hashedPassword, role string) User {
	return User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  hashedPassword,
		Role:      role,
		CreatedAt: time.Now(),
	}
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// NormalizeEmail lowercases and trims an email so lookups match stored values.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
