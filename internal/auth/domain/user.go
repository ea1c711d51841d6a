package domain

import (
	"errors"
	"time"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUserInactive       = errors.New("user account is disabled")
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("username or email already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrCannotDisableSelf  = errors.New("you cannot disable your own account")
)

// Role controls what a user may do
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleUser    Role = "user"
)

type User struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	Username  string     `json:"username" gorm:"size:80;uniqueIndex;not null"`
	Email     string     `json:"email" gorm:"size:120;uniqueIndex;not null"`
	Name      string     `json:"name" gorm:"size:100;not null"`
	Password  string     `json:"-" gorm:"column:password_hash;size:256;not null"` // Never return password in JSON
	Role      Role       `json:"role" gorm:"size:20;not null;default:user"`
	Active    bool       `json:"active" gorm:"not null;default:true"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsManager() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}

type RefreshToken struct {
	Token     string    `json:"token" gorm:"primaryKey;size:512"`
	UserID    uint      `json:"user_id" gorm:"index;not null"`
	ExpiresAt time.Time `json:"expires_at"`
}
