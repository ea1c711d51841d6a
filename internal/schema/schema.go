// Package schema lists every persisted model and migrates them.
package schema

import (
	authdomain "corretora-backend/internal/auth/domain"
	clientdomain "corretora-backend/internal/client/domain"
	kanbandomain "corretora-backend/internal/kanban/domain"
	whatsappdomain "corretora-backend/internal/whatsapp/domain"

	"gorm.io/gorm"
)

// Models returns the gorm models in dependency order.
func Models() []interface{} {
	return []interface{}{
		&authdomain.User{},
		&authdomain.RefreshToken{},
		&clientdomain.Client{},
		&clientdomain.Policy{},
		&kanbandomain.KanbanColumn{},
		&kanbandomain.KanbanCard{},
		&whatsappdomain.Message{},
	}
}

// Migrate creates or updates all tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
