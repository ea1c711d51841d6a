package dto

import kanbandomain "corretora-backend/internal/kanban/domain"

// CreateCardRequest accepts JSON or form bodies.
type CreateCardRequest struct {
	Title         string `json:"title" form:"title" binding:"required,max=200"`
	Description   string `json:"description" form:"description"`
	ClientID      *uint  `json:"client_id" form:"client_id"`
	ResponsibleID *uint  `json:"responsible_id" form:"responsible_id"`
	Priority      string `json:"priority" form:"priority" binding:"omitempty,oneof=low normal high"`
	DueDate       string `json:"due_date" form:"due_date" binding:"omitempty,datetime=2006-01-02"`
	ColumnID      uint   `json:"column_id" form:"column_id" binding:"required"`
}

// MoveCardRequest places a card at a 1-based rank of a column.
type MoveCardRequest struct {
	ColumnID uint `json:"column_id" binding:"required"`
	Position *int `json:"position"`
}

// UpdateColumnRequest changes column presentation; nil fields are kept.
type UpdateColumnRequest struct {
	Name   *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color  *string `json:"color" binding:"omitempty,hexcolor,len=7"`
	Active *bool   `json:"active"`
}

// BoardResponse is the full board
type BoardResponse struct {
	Columns []*kanbandomain.KanbanColumn `json:"columns"`
}

// StatsResponse counts cards per active column
type StatsResponse struct {
	Columns    []*kanbandomain.ColumnCount `json:"columns"`
	TotalCards int64                       `json:"total_cards"`
}
