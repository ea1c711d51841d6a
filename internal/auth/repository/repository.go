package repository

import authdomain "corretora-backend/internal/auth/domain"

// UserRepository defines data access for users and their refresh tokens
type UserRepository interface {
	Create(user *authdomain.User) error

	// FindByID returns nil, nil when the user does not exist
	FindByID(id uint) (*authdomain.User, error)

	// FindByUsername returns nil, nil when the user does not exist
	FindByUsername(username string) (*authdomain.User, error)

	// ExistsByUsernameOrEmail ignores the user with excludeID (0 for none)
	ExistsByUsernameOrEmail(username, email string, excludeID uint) (bool, error)

	List() ([]*authdomain.User, error)

	Update(user *authdomain.User) error

	UpdateLastLogin(id uint) error

	Count() (int64, error)

	FindRefreshToken(token string) (*authdomain.RefreshToken, error)

	DeleteRefreshToken(token string) error

	DeleteRefreshTokensByUser(userID uint) error

	// ReplaceRefreshToken stores a new token and prunes the user's expired ones
	ReplaceRefreshToken(token *authdomain.RefreshToken) error
}
