package repository

import "corretora-backend/internal/kanban/domain"

// ColumnRepository defines data access for board columns
type ColumnRepository interface {
	// SeedDefaults inserts columns only when the table is empty. It reports
	// whether anything was inserted.
	SeedDefaults(columns []*domain.KanbanColumn) (bool, error)

	// FindActive returns active columns ordered by order_position
	FindActive() ([]*domain.KanbanColumn, error)

	// FindByID returns nil, nil when the column does not exist
	FindByID(id uint) (*domain.KanbanColumn, error)

	Update(column *domain.KanbanColumn) error
}

// CardRepository defines data access for board cards
type CardRepository interface {
	// Create appends the card at the end of its column
	Create(card *domain.KanbanCard) error

	// FindByID returns nil, nil when the card does not exist
	FindByID(id uint) (*domain.KanbanCard, error)

	// FindByColumn returns the column's cards ordered by position
	FindByColumn(columnID uint) ([]*domain.KanbanCard, error)

	// FindByColumns returns cards of several columns ordered by position
	FindByColumns(columnIDs []uint) ([]*domain.KanbanCard, error)

	// ListViews returns every card with client and responsible names
	ListViews() ([]*domain.CardView, error)

	// Move places the card at position in columnID, renumbering the other
	// cards of that column. The position is clamped to [1, n+1] and the
	// final value is returned.
	Move(cardID, columnID uint, position int) (int, error)

	// Compact renumbers a column's cards to 1..n
	Compact(columnID uint) (int, error)

	Delete(id uint) error

	// CountByColumn returns card counts keyed by column id
	CountByColumn() (map[uint]int64, error)

	Count() (int64, error)
}
