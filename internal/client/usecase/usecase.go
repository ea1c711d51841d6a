package usecase

import (
	"time"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/dto"
)

// ClientUsecase defines client registry operations
type ClientUsecase interface {
	// ListClients pages through clients. A search with no substring hit falls
	// back to accent-insensitive fuzzy matching.
	ListClients(search, status string, page int) (*dto.ClientListResponse, error)

	CreateClient(req *dto.ClientRequest) (*domain.Client, error)

	// GetClient returns the client with its policies
	GetClient(id uint) (*domain.Client, error)

	UpdateClient(id uint, req *dto.ClientRequest) (*domain.Client, error)

	// Exists satisfies the kanban client check
	Exists(id uint) (bool, error)

	Counts() (*domain.StatusCounts, error)
}

// PolicyUsecase defines policy operations
type PolicyUsecase interface {
	CreatePolicy(clientID uint, req *dto.PolicyRequest) (*domain.Policy, error)

	GetPolicy(id uint) (*domain.Policy, error)

	UpdatePolicy(id uint, req *dto.PolicyRequest) (*domain.Policy, error)

	ListByClient(clientID uint) ([]*domain.Policy, error)

	// ExpireOverdue marks active policies that ended before the day of now as
	// expired
	ExpireOverdue(now time.Time) (int64, error)
}
