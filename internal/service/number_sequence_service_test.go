package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "INV-2025-007", service.FormatNumber(service.PrefixInvoice, 2025, 7))
	assert.Equal(t, "AN-2025-1234", service.FormatNumber(service.PrefixQuote, 2025, 1234))
}

func TestNumberSequenceService_RestartsEachYear(t *testing.T) {
	now := time.Date(2025, time.December, 31, 23, 0, 0, 0, time.UTC)
	numbers := service.NewNumberSequenceService(
		repository.NewNumberSequenceRepository(testutil.SetupTestDB(t)),
		func() time.Time { return now },
		zap.NewNop(),
	)
	ctx := context.Background()

	for _, want := range []string{"ORD-2025-001", "ORD-2025-002"} {
		got, err := numbers.Next(ctx, service.PrefixOrder)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	now = now.Add(2 * time.Hour)
	got, err := numbers.Next(ctx, service.PrefixOrder)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2026-001", got)
}
