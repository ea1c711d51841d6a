package usecase

import (
	"fmt"
	"time"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/dto"
	"corretora-backend/internal/client/repository"

	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

// policyUsecase implements PolicyUsecase interface
type policyUsecase struct {
	clientRepo repository.ClientRepository
	policyRepo repository.PolicyRepository
	log        *zap.Logger
}

// NewPolicyUsecase creates a new instance of policyUsecase
func NewPolicyUsecase(clientRepo repository.ClientRepository, policyRepo repository.PolicyRepository) PolicyUsecase {
	return &policyUsecase{
		clientRepo: clientRepo,
		policyRepo: policyRepo,
		log:        zap.L().Named("policy"),
	}
}

func (u *policyUsecase) CreatePolicy(clientID uint, req *dto.PolicyRequest) (*domain.Policy, error) {
	ok, err := u.clientRepo.Exists(clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrClientNotFound
	}

	if err := u.checkNumberFree(req.PolicyNumber, 0); err != nil {
		return nil, err
	}

	policy := &domain.Policy{ClientID: clientID, Status: domain.PolicyStatusActive}
	if err := applyPolicyRequest(policy, req); err != nil {
		return nil, err
	}

	if err := u.policyRepo.Create(policy); err != nil {
		return nil, err
	}
	u.log.Info("policy created",
		zap.Uint("policy_id", policy.ID),
		zap.Uint("client_id", clientID),
		zap.String("number", policy.PolicyNumber))
	return policy, nil
}

func (u *policyUsecase) GetPolicy(id uint) (*domain.Policy, error) {
	policy, err := u.policyRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, domain.ErrPolicyNotFound
	}
	return policy, nil
}

func (u *policyUsecase) UpdatePolicy(id uint, req *dto.PolicyRequest) (*domain.Policy, error) {
	policy, err := u.GetPolicy(id)
	if err != nil {
		return nil, err
	}

	if err := u.checkNumberFree(req.PolicyNumber, policy.ID); err != nil {
		return nil, err
	}
	if err := applyPolicyRequest(policy, req); err != nil {
		return nil, err
	}

	if err := u.policyRepo.Update(policy); err != nil {
		return nil, err
	}
	return policy, nil
}

func (u *policyUsecase) ListByClient(clientID uint) ([]*domain.Policy, error) {
	ok, err := u.clientRepo.Exists(clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrClientNotFound
	}
	return u.policyRepo.FindByClient(clientID)
}

func (u *policyUsecase) ExpireOverdue(now time.Time) (int64, error) {
	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	n, err := u.policyRepo.ExpireBefore(today)
	if err != nil {
		return 0, fmt.Errorf("expire policies: %w", err)
	}
	return n, nil
}

func (u *policyUsecase) checkNumberFree(number string, selfID uint) error {
	existing, err := u.policyRepo.FindByNumber(number)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != selfID {
		return domain.ErrDuplicatePolicyNumber
	}
	return nil
}

func applyPolicyRequest(policy *domain.Policy, req *dto.PolicyRequest) error {
	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return domain.ErrInvalidPolicyDates
	}

	policy.PolicyNumber = req.PolicyNumber
	policy.InsuranceCompany = req.InsuranceCompany
	policy.InsuranceType = req.InsuranceType
	policy.CoverageAmount = req.CoverageAmount
	policy.PremiumAmount = req.PremiumAmount
	policy.CommissionRate = req.CommissionRate
	policy.StartDate = start
	policy.EndDate = end
	policy.Notes = req.Notes
	if req.Status != "" {
		policy.Status = domain.PolicyStatus(req.Status)
	}
	return nil
}
