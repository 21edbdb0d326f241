package jobs_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/jobs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type countingMaintainer struct {
	calls int
	count int64
	err   error
}

func (m *countingMaintainer) MarkOverdue(ctx context.Context) (int64, error) {
	m.calls++
	return m.count, m.err
}

func (m *countingMaintainer) ExpireOverdue(ctx context.Context) (int64, error) {
	m.calls++
	return m.count, m.err
}

func TestScheduler_AddJob(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	noop := func(context.Context) error { return nil }

	require.NoError(t, s.AddJob("b", "0 0 2 * * *", noop))
	require.NoError(t, s.AddJob("a", "@every 1h", noop))
	assert.Error(t, s.AddJob("a", "@every 1h", noop), "duplicate names are rejected")
	assert.Error(t, s.AddJob("c", "not a schedule", noop))
	assert.Equal(t, []string{"a", "b"}, s.JobNames())

	require.NoError(t, s.RemoveJob("a"))
	assert.Error(t, s.RemoveJob("a"))
	assert.Equal(t, []string{"b"}, s.JobNames())
}

func TestScheduler_RunNow_AppliesTimeout(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), 10*time.Millisecond)

	err := s.RunNow("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMaintenanceJobs(t *testing.T) {
	invoices := &countingMaintainer{count: 2}
	quotes := &countingMaintainer{err: errors.New("db down")}

	assert.NoError(t, jobs.OverdueInvoicesJob(invoices, zap.NewNop())(context.Background()))
	assert.Equal(t, 1, invoices.calls)

	assert.EqualError(t, jobs.ExpiredQuotesJob(quotes, zap.NewNop())(context.Background()), "db down")
	assert.Equal(t, 1, quotes.calls)
}

func TestRegisterMaintenanceJobs(t *testing.T) {
	s := jobs.NewScheduler(zap.NewNop(), time.Second)
	cfg := &config.JobsConfig{OverdueInvoicesSchedule: "0 5 0 * * *"}

	err := jobs.RegisterMaintenanceJobs(s, cfg, &countingMaintainer{}, &countingMaintainer{}, zap.NewNop(), false)
	require.NoError(t, err)
	assert.Equal(t, []string{jobs.OverdueInvoicesJobName}, s.JobNames())

	cfg.ExpiredQuotesSchedule = "every tuesday"
	err = jobs.RegisterMaintenanceJobs(jobs.NewScheduler(zap.NewNop(), time.Second), cfg, &countingMaintainer{}, &countingMaintainer{}, zap.NewNop(), false)
	assert.Error(t, err)
}
