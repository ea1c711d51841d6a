package usecase

import (
	"corretora-backend/internal/whatsapp/domain"
	"corretora-backend/internal/whatsapp/repository"
	"corretora-backend/pkg/phone"
)

const (
	defaultMessageLimit = 50
	maxMessageLimit     = 500
)

// messageLog serves message log reads for both provider variants.
type messageLog struct {
	repo repository.MessageRepository
}

func (l messageLog) ListMessages(rawPhone string, clientID *uint, limit int) ([]*domain.Message, error) {
	if limit <= 0 {
		limit = defaultMessageLimit
	}
	if limit > maxMessageLimit {
		limit = maxMessageLimit
	}

	filter := domain.MessageFilter{ClientID: clientID, Limit: limit}
	if rawPhone != "" {
		filter.PhoneNumbers = phone.Candidates(rawPhone)
	}

	messages, err := l.repo.List(filter)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []*domain.Message{}
	}
	return messages, nil
}
