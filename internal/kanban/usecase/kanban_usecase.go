package usecase

import (
	"fmt"
	"time"

	"corretora-backend/internal/kanban/domain"
	"corretora-backend/internal/kanban/dto"
	"corretora-backend/internal/kanban/repository"

	"go.uber.org/zap"
)

// kanbanUsecase implements KanbanUsecase interface
type kanbanUsecase struct {
	columnRepo repository.ColumnRepository
	cardRepo   repository.CardRepository
	clients    ClientChecker
	log        *zap.Logger
}

// NewKanbanUsecase creates a new instance of kanbanUsecase. clients may be
// nil, in which case client references are not checked.
func NewKanbanUsecase(columnRepo repository.ColumnRepository, cardRepo repository.CardRepository, clients ClientChecker) KanbanUsecase {
	return &kanbanUsecase{
		columnRepo: columnRepo,
		cardRepo:   cardRepo,
		clients:    clients,
		log:        zap.L().Named("kanban"),
	}
}

func (u *kanbanUsecase) EnsureDefaultColumns() (bool, error) {
	seeded, err := u.columnRepo.SeedDefaults(domain.DefaultColumns())
	if err != nil {
		return false, fmt.Errorf("seed default columns: %w", err)
	}
	if seeded {
		u.log.Info("default kanban columns created")
	}
	return seeded, nil
}

func (u *kanbanUsecase) GetBoard() ([]*domain.KanbanColumn, error) {
	if _, err := u.EnsureDefaultColumns(); err != nil {
		return nil, err
	}

	columns, err := u.columnRepo.FindActive()
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(columns))
	byID := make(map[uint]*domain.KanbanColumn, len(columns))
	for i, col := range columns {
		ids[i] = col.ID
		col.Cards = []*domain.KanbanCard{}
		byID[col.ID] = col
	}

	cards, err := u.cardRepo.FindByColumns(ids)
	if err != nil {
		return nil, err
	}
	for _, card := range cards {
		if col, ok := byID[card.ColumnID]; ok {
			col.Cards = append(col.Cards, card)
		}
	}

	return columns, nil
}

func (u *kanbanUsecase) CreateCard(req *dto.CreateCardRequest) (*domain.KanbanCard, error) {
	column, err := u.columnRepo.FindByID(req.ColumnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, domain.ErrColumnNotFound
	}

	clientID := req.ClientID
	if clientID != nil && *clientID == 0 {
		clientID = nil
	}
	if clientID != nil && u.clients != nil {
		ok, err := u.clients.Exists(*clientID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, domain.ErrClientNotFound
		}
	}

	responsibleID := req.ResponsibleID
	if responsibleID != nil && *responsibleID == 0 {
		responsibleID = nil
	}

	card := &domain.KanbanCard{
		Title:         req.Title,
		Description:   req.Description,
		ClientID:      clientID,
		ColumnID:      column.ID,
		ResponsibleID: responsibleID,
		Priority:      domain.ParsePriority(req.Priority),
	}
	if req.DueDate != "" {
		if t, err := time.Parse("2006-01-02", req.DueDate); err == nil {
			card.DueDate = &t
		}
	}

	if err := u.cardRepo.Create(card); err != nil {
		return nil, err
	}

	u.log.Info("kanban card created",
		zap.Uint("card_id", card.ID),
		zap.Uint("column_id", card.ColumnID),
		zap.Int("position", card.OrderPosition))
	return card, nil
}

func (u *kanbanUsecase) MoveCard(cardID, columnID uint, position int) (*domain.KanbanCard, error) {
	if position < 1 {
		return nil, domain.ErrInvalidPosition
	}

	card, err := u.cardRepo.FindByID(cardID)
	if err != nil {
		return nil, err
	}
	if card == nil {
		return nil, domain.ErrCardNotFound
	}

	column, err := u.columnRepo.FindByID(columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, domain.ErrColumnNotFound
	}

	fromColumn := card.ColumnID
	final, err := u.cardRepo.Move(card.ID, column.ID, position)
	if err != nil {
		return nil, fmt.Errorf("move card %d: %w", card.ID, err)
	}

	card.ColumnID = column.ID
	card.OrderPosition = final

	u.log.Info("kanban card moved",
		zap.Uint("card_id", card.ID),
		zap.Uint("from_column", fromColumn),
		zap.Uint("to_column", column.ID),
		zap.Int("position", final))
	return card, nil
}

func (u *kanbanUsecase) ListCards() ([]*domain.CardView, error) {
	return u.cardRepo.ListViews()
}

func (u *kanbanUsecase) DeleteCard(cardID uint) error {
	card, err := u.cardRepo.FindByID(cardID)
	if err != nil {
		return err
	}
	if card == nil {
		return domain.ErrCardNotFound
	}
	return u.cardRepo.Delete(card.ID)
}

func (u *kanbanUsecase) CompactColumn(columnID uint) (int, error) {
	column, err := u.columnRepo.FindByID(columnID)
	if err != nil {
		return 0, err
	}
	if column == nil {
		return 0, domain.ErrColumnNotFound
	}
	return u.cardRepo.Compact(column.ID)
}

func (u *kanbanUsecase) UpdateColumn(columnID uint, req *dto.UpdateColumnRequest) (*domain.KanbanColumn, error) {
	column, err := u.columnRepo.FindByID(columnID)
	if err != nil {
		return nil, err
	}
	if column == nil {
		return nil, domain.ErrColumnNotFound
	}

	if req.Name != nil {
		column.Name = *req.Name
	}
	if req.Color != nil {
		column.Color = *req.Color
	}
	if req.Active != nil {
		column.Active = *req.Active
	}

	if err := u.columnRepo.Update(column); err != nil {
		return nil, err
	}
	return column, nil
}

func (u *kanbanUsecase) Stats() (*dto.StatsResponse, error) {
	columns, err := u.columnRepo.FindActive()
	if err != nil {
		return nil, err
	}
	counts, err := u.cardRepo.CountByColumn()
	if err != nil {
		return nil, err
	}
	total, err := u.cardRepo.Count()
	if err != nil {
		return nil, err
	}

	stats := &dto.StatsResponse{
		Columns:    make([]*domain.ColumnCount, 0, len(columns)),
		TotalCards: total,
	}
	for _, col := range columns {
		stats.Columns = append(stats.Columns, &domain.ColumnCount{
			ColumnID: col.ID,
			Name:     col.Name,
			Count:    counts[col.ID],
		})
	}
	return stats, nil
}
