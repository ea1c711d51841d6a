package repository

import (
	"errors"

	"corretora-backend/internal/kanban/domain"

	"gorm.io/gorm"
)

// columnRepository implements ColumnRepository interface
type columnRepository struct {
	db *gorm.DB
}

// NewColumnRepository creates a new instance of columnRepository
func NewColumnRepository(db *gorm.DB) ColumnRepository {
	return &columnRepository{db: db}
}

// SeedDefaults uses a zero-count guard, not a unique constraint: two first
// accesses racing on separate connections can both see an empty table.
func (r *columnRepository) SeedDefaults(columns []*domain.KanbanColumn) (bool, error) {
	seeded := false
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.KanbanColumn{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		if err := tx.Create(&columns).Error; err != nil {
			return err
		}
		seeded = true
		return nil
	})
	return seeded, err
}

func (r *columnRepository) FindActive() ([]*domain.KanbanColumn, error) {
	var columns []*domain.KanbanColumn
	err := r.db.Where("active = ?", true).Order("order_position ASC, id ASC").Find(&columns).Error
	return columns, err
}

func (r *columnRepository) FindByID(id uint) (*domain.KanbanColumn, error) {
	var column domain.KanbanColumn
	err := r.db.First(&column, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &column, nil
}

// Update saves name, color and active flag. Select forces the write of a
// false active flag, which Updates would skip as a zero value.
func (r *columnRepository) Update(column *domain.KanbanColumn) error {
	return r.db.Model(column).Select("name", "color", "active").Updates(column).Error
}
