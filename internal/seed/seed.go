// Package seed holds the static reference data of the CRM: inventory
// categories, quality standards and the default quote templates.
package seed

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

type TemplateItem struct {
	Description string  `yaml:"description"`
	Quantity    float64 `yaml:"quantity"`
	Unit        string  `yaml:"unit"`
	UnitPrice   float64 `yaml:"unit_price"`
	Optional    bool    `yaml:"optional"`
	Notes       string  `yaml:"notes"`
}

type Template struct {
	Name                string             `yaml:"name"`
	ServiceType         domain.ServiceType `yaml:"service_type"`
	Description         string             `yaml:"description"`
	DefaultTitle        string             `yaml:"default_title"`
	DefaultDescription  string             `yaml:"default_description"`
	DefaultTerms        string             `yaml:"default_terms"`
	DefaultValidityDays int                `yaml:"default_validity_days"`
	Items               []TemplateItem     `yaml:"items"`
}

// Catalog is the parsed reference data
type Catalog struct {
	InventoryCategories []string                                        `yaml:"inventory_categories"`
	QualityStandards    map[string]map[string]domain.QualityStandardDTO `yaml:"quality_standards"`
	QuoteTemplates      []Template                                      `yaml:"quote_templates"`
}

// Load parses the embedded catalog
func Load() (*Catalog, error) {
	return Parse(catalogYAML)
}

// Parse decodes a catalog document
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(c.InventoryCategories) == 0 {
		return nil, fmt.Errorf("catalog has no inventory categories")
	}
	return &c, nil
}

// HasCategory reports whether name is one of the inventory categories
func (c *Catalog) HasCategory(name string) bool {
	for _, cat := range c.InventoryCategories {
		if cat == name {
			return true
		}
	}
	return false
}

// Model converts a catalog template into its persisted form
func (t Template) Model() *domain.QuoteTemplate {
	validity := t.DefaultValidityDays
	if validity <= 0 {
		validity = 30
	}
	model := &domain.QuoteTemplate{
		Name:                t.Name,
		ServiceType:         t.ServiceType,
		Description:         t.Description,
		DefaultTitle:        t.DefaultTitle,
		DefaultDescription:  t.DefaultDescription,
		DefaultTerms:        t.DefaultTerms,
		DefaultValidityDays: validity,
		IsActive:            true,
	}
	for i, item := range t.Items {
		quantity := item.Quantity
		if quantity == 0 {
			quantity = 1
		}
		unit := item.Unit
		if unit == "" {
			unit = "Stück"
		}
		model.Items = append(model.Items, domain.QuoteTemplateItem{
			Description:      item.Description,
			DefaultQuantity:  quantity,
			Unit:             unit,
			DefaultUnitPrice: item.UnitPrice,
			IsOptional:       item.Optional,
			SortOrder:        i + 1,
			Notes:            item.Notes,
		})
	}
	return model
}

// ApplyTemplates upserts every catalog template by name
func (c *Catalog) ApplyTemplates(ctx context.Context, repo *repository.QuoteTemplateRepository, logger *zap.Logger) error {
	for _, t := range c.QuoteTemplates {
		if err := repo.Upsert(ctx, t.Model()); err != nil {
			return fmt.Errorf("failed to seed template %q: %w", t.Name, err)
		}
	}
	logger.Info("quote templates seeded", zap.Int("count", len(c.QuoteTemplates)))
	return nil
}
