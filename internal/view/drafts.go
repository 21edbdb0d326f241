package view

import (
	"time"

	"github.com/glanzwerk/crm/internal/domain"
)

// DefaultTaxRate is the German standard VAT rate prefilled in quotes and invoices
const DefaultTaxRate = 19.0

func float64Ptr(f float64) *float64 { return &f }

func int64Ptr(n int64) *int64 { return &n }

func intPtr(n int) *int { return &n }

// Draft defaults

func NewCustomerDraft() domain.CustomerRequest {
	return domain.CustomerRequest{
		CustomerType:           domain.CustomerTypePrivate,
		PreferredContactMethod: domain.ContactMethodEmail,
	}
}

func NewOrderDraft() domain.OrderRequest {
	return domain.OrderRequest{
		ServiceType: domain.ServiceBuildingCleaning,
		Priority:    domain.PriorityNormal,
		Status:      domain.OrderStatusPending,
	}
}

func NewQuoteDraft() domain.QuoteRequest {
	return domain.QuoteRequest{
		ServiceType: domain.ServiceBuildingCleaning,
		TaxRate:     float64Ptr(DefaultTaxRate),
		ValidUntil:  time.Now().AddDate(0, 0, 30).Format("2006-01-02"),
	}
}

func NewInvoiceDraft() domain.InvoiceRequest {
	now := time.Now()
	return domain.InvoiceRequest{
		InvoiceDate:   now.Format("2006-01-02"),
		DueDate:       now.AddDate(0, 0, 14).Format("2006-01-02"),
		TaxRate:       float64Ptr(DefaultTaxRate),
		PaymentMethod: domain.PaymentBankTransfer,
		Items:         []domain.LineItemRequest{{Quantity: float64Ptr(1), Unit: "Stk"}},
	}
}

func NewCommunicationDraft() domain.CommunicationRequest {
	return domain.CommunicationRequest{
		Type:      domain.CommunicationPhone,
		Direction: domain.DirectionOutbound,
		Status:    domain.CommunicationStatusCompleted,
	}
}

func NewInventoryItemDraft() domain.InventoryItemRequest {
	return domain.InventoryItemRequest{
		Quantity:     intPtr(0),
		Unit:         "Stück",
		ReorderPoint: intPtr(0),
		Status:       domain.InventoryStatusActive,
	}
}

func NewStockAdjustmentDraft() domain.StockAdjustmentRequest {
	return domain.StockAdjustmentRequest{TransactionType: domain.TransactionIn}
}

func NewQualityCheckDraft() domain.QualityCheckRequest {
	return domain.QualityCheckRequest{
		CheckDate: time.Now().Format("2006-01-02"),
		CheckType: "cleaning",
		Status:    domain.QualityStatusCompleted,
	}
}

func NewTimeEntryDraft() domain.TimeEntryRequest {
	return domain.TimeEntryRequest{
		StartTime:    time.Now().Truncate(time.Minute).Format(time.RFC3339),
		ActivityType: domain.ActivityWork,
		Status:       domain.TimeEntryCompleted,
	}
}

// Edit drafts, seeded from a loaded record

func CustomerDraftFrom(c *domain.CustomerDTO) domain.CustomerRequest {
	active := c.IsActive
	return domain.CustomerRequest{
		FirstName:              c.FirstName,
		LastName:               c.LastName,
		CompanyName:            c.CompanyName,
		Email:                  c.Email,
		Phone:                  c.Phone,
		Mobile:                 c.Mobile,
		Street:                 c.Street,
		HouseNumber:            c.HouseNumber,
		PostalCode:             c.PostalCode,
		City:                   c.City,
		CustomerType:           c.CustomerType,
		PreferredContactMethod: c.PreferredContactMethod,
		Notes:                  c.Notes,
		IsActive:               &active,
	}
}

func OrderDraftFrom(o *domain.OrderDTO) domain.OrderRequest {
	return domain.OrderRequest{
		CustomerID:          int64Ptr(o.CustomerID),
		Title:               o.Title,
		Description:         o.Description,
		ServiceType:         o.ServiceType,
		ServiceStreet:       o.ServiceStreet,
		ServiceHouseNumber:  o.ServiceHouseNumber,
		ServicePostalCode:   o.ServicePostalCode,
		ServiceCity:         o.ServiceCity,
		ScheduledDate:       o.ScheduledDate,
		ScheduledTime:       o.ScheduledTime,
		EstimatedDuration:   o.EstimatedDuration,
		EstimatedPrice:      o.EstimatedPrice,
		FinalPrice:          o.FinalPrice,
		Priority:            o.Priority,
		Status:              o.Status,
		SpecialInstructions: o.SpecialInstructions,
		AccessInstructions:  o.AccessInstructions,
	}
}

func lineItemDrafts(items []domain.LineItemDTO) []domain.LineItemRequest {
	out := make([]domain.LineItemRequest, 0, len(items))
	for _, it := range items {
		out = append(out, domain.LineItemRequest{
			Description: it.Description,
			Quantity:    float64Ptr(it.Quantity),
			Unit:        it.Unit,
			UnitPrice:   float64Ptr(it.UnitPrice),
			IsOptional:  it.IsOptional,
			Notes:       it.Notes,
		})
	}
	return out
}

func QuoteDraftFrom(q *domain.QuoteDTO) domain.QuoteRequest {
	return domain.QuoteRequest{
		CustomerID:         int64Ptr(q.CustomerID),
		Title:              q.Title,
		Description:        q.Description,
		ServiceType:        q.ServiceType,
		ServiceStreet:      q.ServiceStreet,
		ServiceHouseNumber: q.ServiceHouseNumber,
		ServicePostalCode:  q.ServicePostalCode,
		ServiceCity:        q.ServiceCity,
		ValidUntil:         q.ValidUntil,
		TaxRate:            float64Ptr(q.TaxRate),
		Notes:              q.Notes,
		TermsConditions:    q.TermsConditions,
		Items:              lineItemDrafts(q.Items),
	}
}

func InvoiceDraftFrom(i *domain.InvoiceDTO) domain.InvoiceRequest {
	return domain.InvoiceRequest{
		CustomerID:    int64Ptr(i.CustomerID),
		OrderID:       i.OrderID,
		InvoiceDate:   i.InvoiceDate,
		DueDate:       i.DueDate,
		TaxRate:       float64Ptr(i.TaxRate),
		PaymentMethod: i.PaymentMethod,
		Notes:         i.Notes,
		Items:         lineItemDrafts(i.Items),
	}
}

func CommunicationDraftFrom(c *domain.CommunicationDTO) domain.CommunicationRequest {
	return domain.CommunicationRequest{
		CustomerID:        int64Ptr(c.CustomerID),
		OrderID:           c.OrderID,
		Type:              c.Type,
		Direction:         c.Direction,
		Subject:           c.Subject,
		Content:           c.Content,
		ContactPerson:     c.ContactPerson,
		ContactMethod:     c.ContactMethod,
		Status:            c.Status,
		CommunicationDate: c.CommunicationDate,
		FollowUpDate:      c.FollowUpDate,
		FollowUpCompleted: c.FollowUpCompleted,
		Tags:              c.Tags,
		IsImportant:       c.IsImportant,
	}
}

func InventoryItemDraftFrom(i *domain.InventoryItemDTO) domain.InventoryItemRequest {
	return domain.InventoryItemRequest{
		Name:         i.Name,
		Description:  i.Description,
		Category:     i.Category,
		SKU:          i.SKU,
		Quantity:     intPtr(i.Quantity),
		Unit:         i.Unit,
		UnitPrice:    float64Ptr(i.UnitPrice),
		ReorderPoint: intPtr(i.ReorderPoint),
		Supplier:     i.Supplier,
		Location:     i.Location,
		Status:       i.Status,
	}
}

func QualityCheckDraftFrom(q *domain.QualityCheckDTO) domain.QualityCheckRequest {
	return domain.QualityCheckRequest{
		OrderID:         q.OrderID,
		CustomerID:      q.CustomerID,
		InspectorName:   q.InspectorName,
		CheckDate:       q.CheckDate,
		CheckType:       q.CheckType,
		OverallScore:    float64Ptr(q.OverallScore),
		Status:          q.Status,
		Notes:           q.Notes,
		CheckDetails:    q.CheckDetails,
		Recommendations: q.Recommendations,
	}
}

func TimeEntryDraftFrom(t *domain.TimeEntryDTO) domain.TimeEntryRequest {
	return domain.TimeEntryRequest{
		CustomerID:   t.CustomerID,
		OrderID:      t.OrderID,
		StartTime:    t.StartTime,
		EndTime:      t.EndTime,
		Description:  t.Description,
		ActivityType: t.ActivityType,
		Status:       t.Status,
		Notes:        t.Notes,
	}
}
