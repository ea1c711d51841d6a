package repository

import (
	"time"

	"corretora-backend/internal/client/domain"
)

// ClientRepository defines data access for clients
type ClientRepository interface {
	Create(client *domain.Client) error

	// FindByID returns nil, nil when the client does not exist
	FindByID(id uint) (*domain.Client, error)

	Exists(id uint) (bool, error)

	Update(client *domain.Client) error

	// List applies a case-insensitive LIKE search over name, email and phone
	List(filter domain.ClientFilter) ([]*domain.Client, int64, error)

	// FindAll returns every client with the given status ("" for all), for
	// in-memory fuzzy matching
	FindAll(status domain.ClientStatus) ([]*domain.Client, error)

	CountByStatus() (*domain.StatusCounts, error)
}

// PolicyRepository defines data access for policies
type PolicyRepository interface {
	Create(policy *domain.Policy) error

	// FindByID returns nil, nil when the policy does not exist
	FindByID(id uint) (*domain.Policy, error)

	// FindByNumber returns nil, nil when no policy has this number
	FindByNumber(number string) (*domain.Policy, error)

	FindByClient(clientID uint) ([]*domain.Policy, error)

	Update(policy *domain.Policy) error

	// ExpireBefore marks active policies whose end date is before now as
	// expired and returns how many changed
	ExpireBefore(now time.Time) (int64, error)
}
