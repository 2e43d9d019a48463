package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/pay4skill/server/internal/auth"
)

// UniqueEmailIndex enforces one account per normalised email.
const UniqueEmailIndex = "ux_users_email"

// Role is the marketplace role a user acts in.
type Role string

const (
	RoleStudent  Role = "student"
	RoleEmployer Role = "employer"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleEmployer, RoleAdmin:
		return true
	}
	return false
}

type Education struct {
	Institution string     `json:"institution" validate:"required"`
	Degree      string     `json:"degree" validate:"required"`
	Field       string     `json:"field" validate:"required"`
	StartDate   time.Time  `json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

type Experience struct {
	Company     string     `json:"company" validate:"required"`
	Position    string     `json:"position" validate:"required"`
	StartDate   time.Time  `json:"startDate" validate:"required"`
	EndDate     *time.Time `json:"endDate,omitempty"`
	Description string     `json:"description,omitempty" validate:"max=1000"`
}

// Profile is the free-form part of a user document, stored as JSONB.
type Profile struct {
	Bio        string       `json:"bio,omitempty" validate:"max=1000"`
	Skills     []string     `json:"skills,omitempty"`
	Location   string       `json:"location,omitempty"`
	Education  []Education  `json:"education,omitempty" validate:"dive"`
	Experience []Experience `json:"experience,omitempty" validate:"dive"`
	ResumeURL  string       `json:"resumeUrl,omitempty"`
	Avatar     string       `json:"avatar,omitempty"`
}

// User represents a marketplace account.
type User struct {
	ID           uuid.UUID                   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Email        string                      `gorm:"uniqueIndex:ux_users_email;not null" json:"email"`
	PasswordHash string                      `gorm:"column:password_hash;not null" json:"-"`
	Name         string                      `gorm:"type:varchar(100);not null" json:"name"`
	Role         Role                        `gorm:"type:varchar(16);index;not null" json:"role"`
	Profile      datatypes.JSONType[Profile] `gorm:"type:jsonb" json:"profile"`
	IsVerified   bool                        `gorm:"not null" json:"isVerified"`
	IsActive     bool                        `gorm:"not null;index" json:"isActive"`
	LastLogin    *time.Time                  `json:"lastLogin,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	UpdatedAt    time.Time                   `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt              `gorm:"index" json:"-"`
}

// NormalizeEmail trims and lowercases an address; emails compare case-insensitively.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// SetPassword stores a bcrypt hash of password.
func (u *User) SetPassword(password string, cost int) error {
	h, err := auth.HashPassword(password, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	return nil
}

// CheckPassword re-hashes the candidate and compares it with the stored hash.
func (u *User) CheckPassword(password string) bool {
	return auth.CheckPassword(password, u.PasswordHash)
}

// PublicUser is the subset of user fields returned alongside session tokens.
type PublicUser struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// BeforeSave normalises the email and refuses to persist anything but a password hash.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	u.Name = strings.TrimSpace(u.Name)
	if u.Role == "" {
		u.Role = RoleStudent
	}
	if !u.Role.Valid() {
		return ErrInvalidRole
	}
	if !auth.IsHashed(u.PasswordHash) {
		return ErrPlaintextPassword
	}
	return nil
}
