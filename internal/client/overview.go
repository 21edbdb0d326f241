package client

import (
	"context"

	"github.com/glanzwerk/crm/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Overview is everything the dashboard shows at once
type Overview struct {
	Orders    *domain.OrderDashboardDTO
	Invoices  *domain.InvoiceStatisticsDTO
	Inventory *domain.InventoryStatisticsDTO
	Quality   *domain.QualityStatisticsDTO
	Time      *domain.TimeStatisticsDTO
}

// Overview fetches the dashboard figures concurrently. The first failure
// cancels the remaining requests and is returned.
func (c *Client) Overview(ctx context.Context, s *Session) (*Overview, error) {
	if !s.valid() {
		return nil, ErrNoSession
	}

	var out Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Orders, err = c.OrderDashboard(ctx, s)
		return err
	})
	g.Go(func() (err error) {
		out.Invoices, err = c.InvoiceStatistics(ctx, s)
		return err
	})
	g.Go(func() (err error) {
		out.Inventory, err = c.InventoryStatistics(ctx, s)
		return err
	})
	g.Go(func() (err error) {
		out.Quality, err = c.QualityStatistics(ctx, s)
		return err
	})
	g.Go(func() (err error) {
		out.Time, err = c.TimeStatistics(ctx, s)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
