package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPolicies struct {
	calls int32
}

func (c *countingPolicies) CreatePolicy(uint, *dto.PolicyRequest) (*domain.Policy, error) {
	return nil, nil
}
func (c *countingPolicies) GetPolicy(uint) (*domain.Policy, error) { return nil, nil }
func (c *countingPolicies) UpdatePolicy(uint, *dto.PolicyRequest) (*domain.Policy, error) {
	return nil, nil
}
func (c *countingPolicies) ListByClient(uint) ([]*domain.Policy, error) { return nil, nil }
func (c *countingPolicies) ExpireOverdue(time.Time) (int64, error) {
	atomic.AddInt32(&c.calls, 1)
	return 0, nil
}

func TestRun_ChecksImmediatelyAndStopsOnCancel(t *testing.T) {
	policies := &countingPolicies{}
	s := NewPolicyExpiryScheduler(policies, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return atomic.LoadInt32(&policies.calls) >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestNewPolicyExpiryScheduler_DefaultInterval(t *testing.T) {
	s := NewPolicyExpiryScheduler(&countingPolicies{}, 0)
	assert.Equal(t, time.Hour, s.interval)
}
