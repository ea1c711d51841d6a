package repository

import (
	"errors"
	"strings"

	"corretora-backend/internal/client/domain"

	"gorm.io/gorm"
)

// clientRepository implements ClientRepository interface
type clientRepository struct {
	db *gorm.DB
}

// NewClientRepository creates a new instance of clientRepository
func NewClientRepository(db *gorm.DB) ClientRepository {
	return &clientRepository{db: db}
}

func (r *clientRepository) Create(client *domain.Client) error {
	if client.Status == "" {
		client.Status = domain.ClientStatusActive
	}
	return r.db.Create(client).Error
}

func (r *clientRepository) FindByID(id uint) (*domain.Client, error) {
	var client domain.Client
	err := r.db.First(&client, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &client, nil
}

func (r *clientRepository) Exists(id uint) (bool, error) {
	var count int64
	err := r.db.Model(&domain.Client{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *clientRepository) Update(client *domain.Client) error {
	return r.db.Save(client).Error
}

func (r *clientRepository) List(filter domain.ClientFilter) ([]*domain.Client, int64, error) {
	var clients []*domain.Client
	var total int64

	query := r.db.Model(&domain.Client{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ? OR whatsapp LIKE ?",
			like, like, like, like)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if filter.Limit > 0 {
		query = query.Limit(filter.Limit).Offset(filter.Offset)
	}
	err := query.Order("name ASC, id ASC").Find(&clients).Error
	return clients, total, err
}

func (r *clientRepository) FindAll(status domain.ClientStatus) ([]*domain.Client, error) {
	var clients []*domain.Client
	query := r.db.Model(&domain.Client{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Order("name ASC, id ASC").Find(&clients).Error
	return clients, err
}

func (r *clientRepository) CountByStatus() (*domain.StatusCounts, error) {
	var rows []struct {
		Status domain.ClientStatus
		Count  int64
	}
	err := r.db.Model(&domain.Client{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := &domain.StatusCounts{}
	for _, row := range rows {
		counts.Total += row.Count
		switch row.Status {
		case domain.ClientStatusActive:
			counts.Active = row.Count
		case domain.ClientStatusProspect:
			counts.Prospects = row.Count
		case domain.ClientStatusInactive:
			counts.Inactive = row.Count
		}
	}
	return counts, nil
}
