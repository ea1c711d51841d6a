package usecase

import (
	"corretora-backend/internal/kanban/domain"
	"corretora-backend/internal/kanban/dto"
)

// KanbanUsecase defines the sales pipeline board operations
type KanbanUsecase interface {
	// EnsureDefaultColumns seeds the five pipeline stages when no column
	// exists. It reports whether columns were created.
	EnsureDefaultColumns() (bool, error)

	// GetBoard seeds if needed and returns active columns with their cards
	GetBoard() ([]*domain.KanbanColumn, error)

	// CreateCard appends a card to the end of its column
	CreateCard(req *dto.CreateCardRequest) (*domain.KanbanCard, error)

	// MoveCard places a card at a 1-based rank of a column
	MoveCard(cardID, columnID uint, position int) (*domain.KanbanCard, error)

	ListCards() ([]*domain.CardView, error)

	DeleteCard(cardID uint) error

	// CompactColumn renumbers a column to 1..n, closing gaps left by moves
	// out of it and deletions
	CompactColumn(columnID uint) (int, error)

	UpdateColumn(columnID uint, req *dto.UpdateColumnRequest) (*domain.KanbanColumn, error)

	// Stats counts cards per active column
	Stats() (*dto.StatsResponse, error)
}

// ClientChecker reports whether a client exists.
type ClientChecker interface {
	Exists(id uint) (bool, error)
}
