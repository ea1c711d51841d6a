package domain

import (
	"errors"
	"time"
)

var (
	ErrCardNotFound    = errors.New("card not found")
	ErrColumnNotFound  = errors.New("column not found")
	ErrClientNotFound  = errors.New("client not found")
	ErrInvalidPosition = errors.New("position must be at least 1")
)

// Priority represents card priority
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps user input to a Priority, defaulting to normal.
func ParsePriority(p string) Priority {
	switch Priority(p) {
	case PriorityLow:
		return PriorityLow
	case PriorityHigh:
		return PriorityHigh
	default:
		return PriorityNormal
	}
}

// KanbanColumn is one stage of the sales pipeline
type KanbanColumn struct {
	ID            uint          `json:"id" gorm:"primaryKey"`
	Name          string        `json:"name" gorm:"size:100;not null"`
	Color         string        `json:"color" gorm:"size:7;not null;default:'#007bff'"`
	OrderPosition int           `json:"order_position" gorm:"not null"`
	Active        bool          `json:"active" gorm:"not null;default:true"`
	Cards         []*KanbanCard `json:"cards,omitempty" gorm:"-"`
}

// KanbanCard is a deal tracked on the board. OrderPosition is a 1-based dense
// rank among the cards of its column.
type KanbanCard struct {
	ID            uint       `json:"id" gorm:"primaryKey"`
	Title         string     `json:"title" gorm:"size:200;not null"`
	Description   string     `json:"description,omitempty" gorm:"type:text"`
	ClientID      *uint      `json:"client_id,omitempty" gorm:"index"`
	ColumnID      uint       `json:"column_id" gorm:"index;not null"`
	ResponsibleID *uint      `json:"responsible_id,omitempty" gorm:"index"`
	Priority      Priority   `json:"priority" gorm:"size:10;not null;default:normal"`
	DueDate       *time.Time `json:"due_date,omitempty" gorm:"type:date"`
	OrderPosition int        `json:"order_position" gorm:"not null"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CardView is a card joined with its client and responsible user names.
type CardView struct {
	ID              uint       `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	ClientName      *string    `json:"client_name"`
	ResponsibleName *string    `json:"responsible_name"`
	Priority        Priority   `json:"priority"`
	DueDate         *time.Time `json:"due_date"`
	ColumnID        uint       `json:"column_id"`
	OrderPosition   int        `json:"order_position"`
}

// ColumnCount is the number of cards in one column.
type ColumnCount struct {
	ColumnID uint   `json:"column_id"`
	Name     string `json:"name"`
	Count    int64  `json:"count"`
}

// DefaultColumns returns the pipeline stages created on first board access.
func DefaultColumns() []*KanbanColumn {
	return []*KanbanColumn{
		{Name: "Atendimento Inicial", Color: "#17a2b8", OrderPosition: 1, Active: true},
		{Name: "Propostas Enviadas", Color: "#ffc107", OrderPosition: 2, Active: true},
		{Name: "Vendas em Andamento", Color: "#fd7e14", OrderPosition: 3, Active: true},
		{Name: "Vendas Concluídas", Color: "#28a745", OrderPosition: 4, Active: true},
		{Name: "Pós-venda", Color: "#6f42c1", OrderPosition: 5, Active: true},
	}
}
