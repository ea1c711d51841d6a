package scheduler

import (
	"context"
	"time"

	"corretora-backend/internal/client/usecase"

	"go.uber.org/zap"
)

// PolicyExpiryScheduler periodically marks overdue policies as expired
type PolicyExpiryScheduler struct {
	policyUsecase usecase.PolicyUsecase
	interval      time.Duration
	now           func() time.Time
	log           *zap.Logger
}

// NewPolicyExpiryScheduler creates a new scheduler. A non-positive interval
// falls back to one hour.
func NewPolicyExpiryScheduler(policyUsecase usecase.PolicyUsecase, interval time.Duration) *PolicyExpiryScheduler {
	if interval <= 0 {
		interval = time.Hour
	}
	return &PolicyExpiryScheduler{
		policyUsecase: policyUsecase,
		interval:      interval,
		now:           time.Now,
		log:           zap.L().Named("policy-scheduler"),
	}
}

// Run checks once immediately and then on every tick until ctx is done.
func (s *PolicyExpiryScheduler) Run(ctx context.Context) error {
	s.log.Info("starting policy expiry scheduler", zap.Duration("interval", s.interval))

	s.checkExpired()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.checkExpired()
		case <-ctx.Done():
			s.log.Info("policy expiry scheduler stopped")
			return nil
		}
	}
}

func (s *PolicyExpiryScheduler) checkExpired() {
	n, err := s.policyUsecase.ExpireOverdue(s.now())
	if err != nil {
		s.log.Error("failed to expire policies", zap.Error(err))
		return
	}
	if n > 0 {
		s.log.Info("policies expired", zap.Int64("count", n))
	}
}
