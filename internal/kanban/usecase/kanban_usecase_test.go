package usecase

import (
	"testing"

	"corretora-backend/internal/kanban/domain"
	"corretora-backend/internal/kanban/dto"
	"corretora-backend/internal/kanban/repository"
	"corretora-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClients map[uint]bool

func (f fakeClients) Exists(id uint) (bool, error) { return f[id], nil }

func newUsecase(t *testing.T, clients ClientChecker) KanbanUsecase {
	t.Helper()
	db := testutil.NewTestDB(t)
	return NewKanbanUsecase(repository.NewColumnRepository(db), repository.NewCardRepository(db), clients)
}

func TestGetBoard_SeedsOnce(t *testing.T) {
	uc := newUsecase(t, nil)

	first, err := uc.GetBoard()
	require.NoError(t, err)
	require.Len(t, first, 5)
	for _, col := range first {
		assert.NotNil(t, col.Cards)
		assert.Empty(t, col.Cards)
	}

	second, err := uc.GetBoard()
	require.NoError(t, err)
	assert.Len(t, second, 5)

	seeded, err := uc.EnsureDefaultColumns()
	require.NoError(t, err)
	assert.False(t, seeded)
}

func TestGetBoard_GroupsCardsByColumn(t *testing.T) {
	uc := newUsecase(t, nil)
	board, err := uc.GetBoard()
	require.NoError(t, err)

	for _, title := range []string{"a", "b"} {
		_, err := uc.CreateCard(&dto.CreateCardRequest{Title: title, ColumnID: board[0].ID})
		require.NoError(t, err)
	}
	_, err = uc.CreateCard(&dto.CreateCardRequest{Title: "c", ColumnID: board[3].ID, Priority: "high"})
	require.NoError(t, err)

	board, err = uc.GetBoard()
	require.NoError(t, err)
	require.Len(t, board[0].Cards, 2)
	assert.Equal(t, "a", board[0].Cards[0].Title)
	assert.Equal(t, "b", board[0].Cards[1].Title)
	require.Len(t, board[3].Cards, 1)
	assert.Equal(t, domain.PriorityHigh, board[3].Cards[0].Priority)
}

func TestCreateCard_Validation(t *testing.T) {
	uc := newUsecase(t, fakeClients{7: true})
	board, err := uc.GetBoard()
	require.NoError(t, err)

	_, err = uc.CreateCard(&dto.CreateCardRequest{Title: "x", ColumnID: 999})
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)

	missing := uint(8)
	_, err = uc.CreateCard(&dto.CreateCardRequest{Title: "x", ColumnID: board[0].ID, ClientID: &missing})
	assert.ErrorIs(t, err, domain.ErrClientNotFound)

	known := uint(7)
	card, err := uc.CreateCard(&dto.CreateCardRequest{
		Title:    "Seguro auto",
		ColumnID: board[0].ID,
		ClientID: &known,
		DueDate:  "2025-03-01",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, card.OrderPosition)
	assert.Equal(t, domain.PriorityNormal, card.Priority)
	require.NotNil(t, card.DueDate)
	assert.Equal(t, "2025-03-01", card.DueDate.Format("2006-01-02"))
}

func TestMoveCard_Errors(t *testing.T) {
	uc := newUsecase(t, nil)
	board, err := uc.GetBoard()
	require.NoError(t, err)
	card, err := uc.CreateCard(&dto.CreateCardRequest{Title: "x", ColumnID: board[0].ID})
	require.NoError(t, err)

	_, err = uc.MoveCard(404, board[1].ID, 1)
	assert.ErrorIs(t, err, domain.ErrCardNotFound)

	_, err = uc.MoveCard(card.ID, 404, 1)
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)

	_, err = uc.MoveCard(card.ID, board[1].ID, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidPosition)

	moved, err := uc.MoveCard(card.ID, board[1].ID, 5)
	require.NoError(t, err)
	assert.Equal(t, board[1].ID, moved.ColumnID)
	assert.Equal(t, 1, moved.OrderPosition)
}

func TestDeleteAndCompact(t *testing.T) {
	uc := newUsecase(t, nil)
	board, err := uc.GetBoard()
	require.NoError(t, err)

	var ids []uint
	for _, title := range []string{"a", "b", "c"} {
		card, err := uc.CreateCard(&dto.CreateCardRequest{Title: title, ColumnID: board[0].ID})
		require.NoError(t, err)
		ids = append(ids, card.ID)
	}

	require.NoError(t, uc.DeleteCard(ids[0]))
	assert.ErrorIs(t, uc.DeleteCard(ids[0]), domain.ErrCardNotFound)

	changed, err := uc.CompactColumn(board[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	_, err = uc.CompactColumn(404)
	assert.ErrorIs(t, err, domain.ErrColumnNotFound)
}

func TestStats(t *testing.T) {
	uc := newUsecase(t, nil)
	board, err := uc.GetBoard()
	require.NoError(t, err)
	_, err = uc.CreateCard(&dto.CreateCardRequest{Title: "a", ColumnID: board[2].ID})
	require.NoError(t, err)

	inactive := false
	_, err = uc.UpdateColumn(board[4].ID, &dto.UpdateColumnRequest{Active: &inactive})
	require.NoError(t, err)

	stats, err := uc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 1, stats.TotalCards)
	require.Len(t, stats.Columns, 4)
	assert.EqualValues(t, 1, stats.Columns[2].Count)
	assert.Equal(t, "Vendas em Andamento", stats.Columns[2].Name)
}
