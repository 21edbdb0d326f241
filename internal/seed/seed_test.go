package seed_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	c, err := seed.Load()
	require.NoError(t, err)

	assert.Len(t, c.InventoryCategories, 7)
	assert.True(t, c.HasCategory("Reinigungsmittel"))
	assert.False(t, c.HasCategory("Lebensmittel"))

	require.Contains(t, c.QualityStandards, "cleaning")
	assert.Equal(t, 90.0, c.QualityStandards["cleaning"]["excellent"].MinScore)

	require.Len(t, c.QuoteTemplates, 3)
	building := c.QuoteTemplates[0].Model()
	assert.Equal(t, domain.ServiceBuildingCleaning, building.ServiceType)
	assert.True(t, building.IsActive)
	assert.Equal(t, 1, building.Items[0].SortOrder)
	assert.True(t, building.Items[len(building.Items)-1].IsOptional)
}

func TestParse_RejectsEmptyCatalog(t *testing.T) {
	_, err := seed.Parse([]byte("quote_templates: []"))
	assert.Error(t, err)

	_, err = seed.Parse([]byte("::"))
	assert.Error(t, err)
}

func TestApplyTemplates_IsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewQuoteTemplateRepository(db)
	c, err := seed.Load()
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, c.ApplyTemplates(ctx, repo, zap.NewNop()))
	require.NoError(t, c.ApplyTemplates(ctx, repo, zap.NewNop()))

	templates, err := repo.ListActive(ctx, "")
	require.NoError(t, err)
	assert.Len(t, templates, 3)

	garden, err := repo.ListActive(ctx, domain.ServiceGardenMaintenance)
	require.NoError(t, err)
	require.Len(t, garden, 1)
	assert.Len(t, garden[0].Items, 7)
}
