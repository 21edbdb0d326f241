package jobs

import (
	"context"

	"github.com/glanzwerk/crm/internal/config"
	"go.uber.org/zap"
)

const (
	OverdueInvoicesJobName = "overdue_invoices"
	ExpiredQuotesJobName   = "expired_quotes"
)

// InvoiceMaintainer flips sent invoices past their due date to overdue
type InvoiceMaintainer interface {
	MarkOverdue(ctx context.Context) (int64, error)
}

// QuoteMaintainer expires draft and sent quotes past their validity
type QuoteMaintainer interface {
	ExpireOverdue(ctx context.Context) (int64, error)
}

// OverdueInvoicesJob marks overdue invoices
func OverdueInvoicesJob(invoices InvoiceMaintainer, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		count, err := invoices.MarkOverdue(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("marked invoices overdue", zap.Int64("count", count))
		}
		return nil
	}
}

// ExpiredQuotesJob expires quotes whose validity has ended
func ExpiredQuotesJob(quotes QuoteMaintainer, logger *zap.Logger) Job {
	return func(ctx context.Context) error {
		count, err := quotes.ExpireOverdue(ctx)
		if err != nil {
			return err
		}
		if count > 0 {
			logger.Info("expired quotes", zap.Int64("count", count))
		}
		return nil
	}
}

type scheduledJob struct {
	name     string
	schedule string
	job      Job
}

// RegisterMaintenanceJobs adds both maintenance jobs with the configured
// schedules. An empty schedule leaves that job out. When runAtStartup is
// set the registered jobs run once in the background so a restarted server
// catches up.
func RegisterMaintenanceJobs(s *Scheduler, cfg *config.JobsConfig, invoices InvoiceMaintainer, quotes QuoteMaintainer, logger *zap.Logger, runAtStartup bool) error {
	candidates := []scheduledJob{
		{OverdueInvoicesJobName, cfg.OverdueInvoicesSchedule, OverdueInvoicesJob(invoices, logger)},
		{ExpiredQuotesJobName, cfg.ExpiredQuotesSchedule, ExpiredQuotesJob(quotes, logger)},
	}

	var registered []scheduledJob
	for _, j := range candidates {
		if j.schedule == "" {
			logger.Info("job disabled, no schedule", zap.String("job_name", j.name))
			continue
		}
		if err := s.AddJob(j.name, j.schedule, j.job); err != nil {
			return err
		}
		registered = append(registered, j)
	}

	if runAtStartup && len(registered) > 0 {
		go func() {
			for _, j := range registered {
				_ = s.RunNow(j.name, j.job)
			}
		}()
	}
	return nil
}
