package mapper_test

import (
	"errors"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCustomerDTO(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.FixedZone("CET", 3600))
	customer := &domain.Customer{
		BaseModel:          domain.BaseModel{ID: 7, CreatedAt: created, UpdatedAt: created},
		CustomerNumber:     "K-2024-0007",
		FirstName:          "Erika",
		LastName:           "Muster",
		Email:              "erika@example.de",
		CustomerType:       domain.CustomerTypePrivate,
		IsActive:           true,
		PortalPasswordHash: "$2a$10$hash",
	}

	dto := mapper.ToCustomerDTO(customer)

	assert.Equal(t, int64(7), dto.ID)
	assert.Equal(t, "Erika Muster", dto.DisplayName)
	assert.True(t, dto.HasPortalAccess)
	assert.Equal(t, "2024-03-01T08:30:00Z", dto.CreatedAt)

	customer.CompanyName = "Muster GmbH"
	customer.PortalPasswordHash = ""
	dto = mapper.ToCustomerDTO(customer)
	assert.Equal(t, "Muster GmbH", dto.DisplayName)
	assert.False(t, dto.HasPortalAccess)
}

func TestToOrderDTOOptionalFields(t *testing.T) {
	order := &domain.Order{
		BaseModel:   domain.BaseModel{ID: 3},
		OrderNumber: "ORD-2024-003",
		CustomerID:  7,
		Title:       "Fensterreinigung",
	}

	dto := mapper.ToOrderDTO(order)
	assert.Empty(t, dto.CustomerName)
	assert.Empty(t, dto.ScheduledDate)
	assert.Empty(t, dto.CompletedAt)
	assert.Nil(t, dto.EstimatedPrice)

	day := time.Date(2024, 5, 17, 0, 0, 0, 0, time.UTC)
	order.ScheduledDate = &day
	order.Customer = &domain.Customer{FirstName: "Erika", LastName: "Muster"}
	dto = mapper.ToOrderDTO(order)
	assert.Equal(t, "2024-05-17", dto.ScheduledDate)
	assert.Equal(t, "Erika Muster", dto.CustomerName)
}

func TestDaysOverdue(t *testing.T) {
	due := time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC)
	today := time.Date(2024, 6, 14, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		status  domain.InvoiceStatus
		dueDate *time.Time
		want    int
	}{
		{"sent and late", domain.InvoiceStatusSent, &due, 4},
		{"overdue", domain.InvoiceStatusOverdue, &due, 4},
		{"paid", domain.InvoiceStatusPaid, &due, 0},
		{"draft", domain.InvoiceStatusDraft, &due, 0},
		{"no due date", domain.InvoiceStatusSent, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &domain.Invoice{Status: tt.status, DueDate: tt.dueDate}
			assert.Equal(t, tt.want, mapper.DaysOverdue(inv, today))
		})
	}

	inv := &domain.Invoice{Status: domain.InvoiceStatusSent, DueDate: &due}
	assert.Equal(t, 0, mapper.DaysOverdue(inv, due), "due today is not overdue")
}

func TestToInventoryItemDTO(t *testing.T) {
	item := &domain.InventoryItem{
		BaseModel:    domain.BaseModel{ID: 1},
		Name:         "Glasreiniger",
		Quantity:     3,
		Unit:         "Flasche",
		UnitPrice:    4.99,
		ReorderPoint: 5,
	}

	dto := mapper.ToInventoryItemDTO(item)
	assert.Equal(t, "low_stock", dto.StockLevel)
	assert.InDelta(t, 14.97, dto.TotalValue, 1e-9)

	item.Quantity = 0
	assert.Equal(t, "out_of_stock", mapper.ToInventoryItemDTO(item).StockLevel)
}

func TestToInvoiceDTOItems(t *testing.T) {
	inv := &domain.Invoice{
		BaseModel:     domain.BaseModel{ID: 9},
		InvoiceNumber: "RE-2024-0009",
		InvoiceDate:   time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:        domain.InvoiceStatusDraft,
		Items: []domain.InvoiceItem{
			{Description: "Unterhaltsreinigung", Quantity: 2, Unit: "Std", UnitPrice: 30, TotalPrice: 60},
		},
	}

	dto := mapper.ToInvoiceDTO(inv)
	assert.Equal(t, "2024-06-01", dto.InvoiceDate)
	assert.Empty(t, dto.DueDate)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 60.0, dto.Items[0].TotalPrice)
}

func TestFormatError(t *testing.T) {
	cause := errors.New("boom")
	err := mapper.FormatError("invoice", "create", cause)
	assert.EqualError(t, err, "failed to create invoice: boom")
	assert.ErrorIs(t, err, cause)
}
