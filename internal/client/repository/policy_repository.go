package repository

import (
	"errors"
	"time"

	"corretora-backend/internal/client/domain"

	"gorm.io/gorm"
)

// policyRepository implements PolicyRepository interface
type policyRepository struct {
	db *gorm.DB
}

// NewPolicyRepository creates a new instance of policyRepository
func NewPolicyRepository(db *gorm.DB) PolicyRepository {
	return &policyRepository{db: db}
}

func (r *policyRepository) Create(policy *domain.Policy) error {
	if policy.Status == "" {
		policy.Status = domain.PolicyStatusActive
	}
	return r.db.Create(policy).Error
}

func (r *policyRepository) FindByID(id uint) (*domain.Policy, error) {
	var policy domain.Policy
	err := r.db.First(&policy, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) FindByNumber(number string) (*domain.Policy, error) {
	var policy domain.Policy
	err := r.db.Where("policy_number = ?", number).First(&policy).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepository) FindByClient(clientID uint) ([]*domain.Policy, error) {
	var policies []*domain.Policy
	err := r.db.Where("client_id = ?", clientID).Order("end_date DESC, id DESC").Find(&policies).Error
	return policies, err
}

func (r *policyRepository) Update(policy *domain.Policy) error {
	return r.db.Save(policy).Error
}

func (r *policyRepository) ExpireBefore(now time.Time) (int64, error) {
	result := r.db.Model(&domain.Policy{}).
		Where("status = ? AND end_date < ?", domain.PolicyStatusActive, now).
		Updates(map[string]interface{}{
			"status":     domain.PolicyStatusExpired,
			"updated_at": time.Now(),
		})
	return result.RowsAffected, result.Error
}
