package service

import (
	"context"
	"fmt"

	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

// Document number prefixes
const (
	PrefixCustomer = "CUST"
	PrefixOrder    = "ORD"
	PrefixQuote    = "AN"
	PrefixInvoice  = "INV"
)

// FormatNumber renders PREFIX-YEAR-NNN. Sequences beyond 999 keep all digits.
func FormatNumber(prefix string, year, seq int) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, seq)
}

// NumberSequenceService issues customer, order, quote and invoice numbers.
// Counting restarts every calendar year of the service clock.
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	clock  Clock
	logger *zap.Logger
}

func NewNumberSequenceService(repo *repository.NumberSequenceRepository, clock Clock, logger *zap.Logger) *NumberSequenceService {
	return &NumberSequenceService{repo: repo, clock: clockOrNow(clock), logger: logger}
}

// Next consumes the next number for prefix. A failed document insert after
// Next leaves a gap in the sequence.
func (s *NumberSequenceService) Next(ctx context.Context, prefix string) (string, error) {
	year := s.clock().Year()
	seq, err := s.repo.Increment(ctx, prefix, year)
	if err != nil {
		s.logger.Error("number allocation failed", zap.String("prefix", prefix), zap.Int("year", year), zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", prefix, err)
	}
	return FormatNumber(prefix, year, seq), nil
}
