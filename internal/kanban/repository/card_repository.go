package repository

import (
	"errors"
	"time"

	"corretora-backend/internal/kanban/domain"

	"gorm.io/gorm"
)

// cardRepository implements CardRepository interface
type cardRepository struct {
	db *gorm.DB
}

// NewCardRepository creates a new instance of cardRepository
func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepository{db: db}
}

func (r *cardRepository) Create(card *domain.KanbanCard) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var maxPosition int
		err := tx.Model(&domain.KanbanCard{}).
			Where("column_id = ?", card.ColumnID).
			Select("COALESCE(MAX(order_position), 0)").
			Scan(&maxPosition).Error
		if err != nil {
			return err
		}

		card.OrderPosition = maxPosition + 1
		return tx.Create(card).Error
	})
}

func (r *cardRepository) FindByID(id uint) (*domain.KanbanCard, error) {
	var card domain.KanbanCard
	err := r.db.First(&card, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &card, nil
}

func (r *cardRepository) FindByColumn(columnID uint) ([]*domain.KanbanCard, error) {
	var cards []*domain.KanbanCard
	err := r.db.Where("column_id = ?", columnID).
		Order("order_position ASC, id ASC").
		Find(&cards).Error
	return cards, err
}

func (r *cardRepository) FindByColumns(columnIDs []uint) ([]*domain.KanbanCard, error) {
	var cards []*domain.KanbanCard
	if len(columnIDs) == 0 {
		return cards, nil
	}
	err := r.db.Where("column_id IN ?", columnIDs).
		Order("column_id ASC, order_position ASC, id ASC").
		Find(&cards).Error
	return cards, err
}

func (r *cardRepository) ListViews() ([]*domain.CardView, error) {
	var views []*domain.CardView
	err := r.db.Table("kanban_cards AS k").
		Select(`k.id, k.title, k.description, c.name AS client_name, u.name AS responsible_name,
			k.priority, k.due_date, k.column_id, k.order_position`).
		Joins("LEFT JOIN clients c ON c.id = k.client_id").
		Joins("LEFT JOIN users u ON u.id = k.responsible_id").
		Order("k.column_id ASC, k.order_position ASC, k.id ASC").
		Scan(&views).Error
	return views, err
}

// Move runs the sibling read and all writes in one transaction so the card's
// column and position change together. No row lock is taken: two moves into
// the same column from separate connections can still interleave and leave
// duplicate or missing positions until the column is compacted.
func (r *cardRepository) Move(cardID, columnID uint, position int) (int, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var siblings []*domain.KanbanCard
		err := tx.Where("column_id = ? AND id <> ?", columnID, cardID).
			Order("order_position ASC, id ASC").
			Find(&siblings).Error
		if err != nil {
			return err
		}

		position = domain.ClampPosition(position, len(siblings))
		for _, sibling := range domain.Renumber(siblings, position) {
			if err := r.setPosition(tx, sibling.ID, sibling.OrderPosition); err != nil {
				return err
			}
		}

		return tx.Model(&domain.KanbanCard{}).Where("id = ?", cardID).
			Updates(map[string]interface{}{
				"column_id":      columnID,
				"order_position": position,
				"updated_at":     time.Now(),
			}).Error
	})
	if err != nil {
		return 0, err
	}
	return position, nil
}

func (r *cardRepository) Compact(columnID uint) (int, error) {
	changed := 0
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var cards []*domain.KanbanCard
		err := tx.Where("column_id = ?", columnID).
			Order("order_position ASC, id ASC").
			Find(&cards).Error
		if err != nil {
			return err
		}

		for _, card := range domain.Compact(cards) {
			if err := r.setPosition(tx, card.ID, card.OrderPosition); err != nil {
				return err
			}
			changed++
		}
		return nil
	})
	return changed, err
}

func (r *cardRepository) Delete(id uint) error {
	return r.db.Delete(&domain.KanbanCard{}, id).Error
}

func (r *cardRepository) CountByColumn() (map[uint]int64, error) {
	var rows []struct {
		ColumnID uint
		Count    int64
	}
	err := r.db.Model(&domain.KanbanCard{}).
		Select("column_id, COUNT(*) AS count").
		Group("column_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.ColumnID] = row.Count
	}
	return counts, nil
}

func (r *cardRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.KanbanCard{}).Count(&count).Error
	return count, err
}

func (r *cardRepository) setPosition(tx *gorm.DB, id uint, position int) error {
	return tx.Model(&domain.KanbanCard{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"order_position": position,
			"updated_at":     time.Now(),
		}).Error
}
