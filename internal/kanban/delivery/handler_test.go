package delivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"corretora-backend/internal/kanban/repository"
	"corretora-backend/internal/kanban/usecase"
	"corretora-backend/internal/testutil"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T) (*gin.Engine, usecase.KanbanUsecase) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.NewTestDB(t)
	uc := usecase.NewKanbanUsecase(repository.NewColumnRepository(db), repository.NewCardRepository(db), nil)
	h := NewKanbanHandler(uc)

	r := gin.New()
	r.GET("/api/kanban", h.GetBoard)
	r.GET("/api/kanban/cards", h.ListCards)
	r.POST("/api/kanban/cards", h.CreateCard)
	r.POST("/api/kanban/cards/:id/move", h.MoveCard)
	r.DELETE("/api/kanban/cards/:id", h.DeleteCard)
	r.PATCH("/api/kanban/columns/:id", h.UpdateColumn)
	r.POST("/api/kanban/columns/:id/compact", h.CompactColumn)
	return r, uc
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestCreateCard_ValidationErrors(t *testing.T) {
	r, _ := newRouter(t)

	w := do(r, http.MethodPost, "/api/kanban/cards", `{"priority":"urgent","due_date":"01/02/2025"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	body := decode(t, w)
	assert.Equal(t, false, body["success"])
	errs := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "column_id")
	assert.Contains(t, errs, "priority")
	assert.Contains(t, errs, "due_date")
}

func TestCreateAndMoveCard(t *testing.T) {
	r, uc := newRouter(t)
	board, err := uc.GetBoard()
	require.NoError(t, err)

	var ids []float64
	for _, title := range []string{"a", "b"} {
		w := do(r, http.MethodPost, "/api/kanban/cards", fmt.Sprintf(`{"title":%q,"column_id":%d}`, title, board[0].ID))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		body := decode(t, w)
		assert.Equal(t, true, body["success"])
		ids = append(ids, body["card_id"].(float64))
	}

	// position defaults to 1
	w := do(r, http.MethodPost, fmt.Sprintf("/api/kanban/cards/%d/move", int(ids[1])), fmt.Sprintf(`{"column_id":%d}`, board[0].ID))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode(t, w)["success"])

	w = do(r, http.MethodGet, "/api/kanban/cards", "")
	require.Equal(t, http.StatusOK, w.Code)
	var cards []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
	require.Len(t, cards, 2)
	assert.Equal(t, ids[1], cards[0]["id"])
	assert.Equal(t, float64(1), cards[0]["order_position"])
	assert.Nil(t, cards[0]["client_name"])
}

func TestMoveCard_NotFoundAndBadInput(t *testing.T) {
	r, uc := newRouter(t)
	board, err := uc.GetBoard()
	require.NoError(t, err)

	w := do(r, http.MethodPost, "/api/kanban/cards/999/move", fmt.Sprintf(`{"column_id":%d}`, board[0].ID))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(r, http.MethodPost, "/api/kanban/cards/abc/move", `{"column_id":1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPost, "/api/kanban/cards/1/move", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateColumn(t *testing.T) {
	r, uc := newRouter(t)
	board, err := uc.GetBoard()
	require.NoError(t, err)

	w := do(r, http.MethodPatch, fmt.Sprintf("/api/kanban/columns/%d", board[0].ID), `{"color":"blue"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodPatch, fmt.Sprintf("/api/kanban/columns/%d", board[0].ID), `{"name":"Leads","color":"#112233"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "Leads", body["name"])
	assert.Equal(t, "#112233", body["color"])

	w = do(r, http.MethodPatch, "/api/kanban/columns/999", `{"name":"x"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
