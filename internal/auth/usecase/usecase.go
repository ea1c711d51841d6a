package usecase

import (
	authdomain "corretora-backend/internal/auth/domain"
	authdto "corretora-backend/internal/auth/dto"
)

// AuthUsecase defines login, token and user administration operations
type AuthUsecase interface {
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)

	// RefreshToken rotates a refresh token and issues a new pair
	RefreshToken(refreshToken string) (*authdto.TokenResponse, error)

	Logout(refreshToken string) error

	// ValidateToken parses an access token and returns its active user
	ValidateToken(accessToken string) (*authdomain.User, error)

	// EnsureAdmin creates the default admin account when it is missing
	EnsureAdmin(password string) error

	ListUsers() ([]*authdomain.User, error)
	GetUser(id uint) (*authdomain.User, error)
	CreateUser(req *authdto.CreateUserRequest) (*authdomain.User, error)
	UpdateUser(id uint, req *authdto.UpdateUserRequest) (*authdomain.User, error)

	// ToggleUserActive flips a user's active flag. actorID may not disable
	// their own account.
	ToggleUserActive(id, actorID uint) (*authdomain.User, error)
}
