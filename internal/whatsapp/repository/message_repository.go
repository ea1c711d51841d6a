package repository

import (
	"errors"

	clientdomain "corretora-backend/internal/client/domain"
	"corretora-backend/internal/whatsapp/domain"

	"gorm.io/gorm"
)

// MessageRepository defines data access for the message log and the client
// lookups messaging needs
type MessageRepository interface {
	Create(msg *domain.Message) error

	// List returns messages newest first
	List(filter domain.MessageFilter) ([]*domain.Message, error)

	// FindClientByPhone matches any candidate against the phone or whatsapp
	// column. Returns nil, nil when nothing matches.
	FindClientByPhone(candidates []string) (*clientdomain.Client, error)

	CreateClient(client *clientdomain.Client) error

	// Transaction runs fn with a repository bound to one database
	// transaction. Any error returned by fn rolls everything back.
	Transaction(fn func(repo MessageRepository) error) error
}

// messageRepository implements MessageRepository interface
type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new instance of messageRepository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(msg *domain.Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	return r.db.Create(msg).Error
}

func (r *messageRepository) List(filter domain.MessageFilter) ([]*domain.Message, error) {
	var messages []*domain.Message

	query := r.db.Model(&domain.Message{})
	if len(filter.PhoneNumbers) > 0 {
		query = query.Where("phone_number IN ?", filter.PhoneNumbers)
	}
	if filter.ClientID != nil {
		query = query.Where("client_id = ?", *filter.ClientID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	err := query.Order("timestamp DESC, id DESC").Find(&messages).Error
	return messages, err
}

func (r *messageRepository) FindClientByPhone(candidates []string) (*clientdomain.Client, error) {
	if len(candidates) == 0 {
		return nil, nil
	}

	var client clientdomain.Client
	err := r.db.Where("phone IN ? OR whatsapp IN ?", candidates, candidates).
		Order("id ASC").
		First(&client).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *messageRepository) CreateClient(client *clientdomain.Client) error {
	return r.db.Create(client).Error
}

func (r *messageRepository) Transaction(fn func(repo MessageRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&messageRepository{db: tx})
	})
}
