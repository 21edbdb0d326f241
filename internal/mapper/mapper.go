package mapper

import (
	"fmt"
	"time"

	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
)

const (
	timestampLayout = time.RFC3339
	dateLayout      = "2006-01-02"
)

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func formatTimestampPtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatTimestamp(*t)
}

func formatDatePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func customerName(c *domain.Customer) string {
	if c == nil {
		return ""
	}
	return c.DisplayName()
}

// ToCustomerDTO converts Customer to CustomerDTO
func ToCustomerDTO(customer *domain.Customer) domain.CustomerDTO {
	return domain.CustomerDTO{
		ID:                     customer.ID,
		CustomerNumber:         customer.CustomerNumber,
		FirstName:              customer.FirstName,
		LastName:               customer.LastName,
		CompanyName:            customer.CompanyName,
		DisplayName:            customer.DisplayName(),
		Email:                  customer.Email,
		Phone:                  customer.Phone,
		Mobile:                 customer.Mobile,
		Street:                 customer.Street,
		HouseNumber:            customer.HouseNumber,
		PostalCode:             customer.PostalCode,
		City:                   customer.City,
		CustomerType:           customer.CustomerType,
		PreferredContactMethod: customer.PreferredContactMethod,
		Notes:                  customer.Notes,
		IsActive:               customer.IsActive,
		HasPortalAccess:        customer.PortalPasswordHash != "",
		CreatedAt:              formatTimestamp(customer.CreatedAt),
		UpdatedAt:              formatTimestamp(customer.UpdatedAt),
	}
}

// ToOrderDTO converts Order to OrderDTO
func ToOrderDTO(order *domain.Order) domain.OrderDTO {
	return domain.OrderDTO{
		ID:                  order.ID,
		OrderNumber:         order.OrderNumber,
		CustomerID:          order.CustomerID,
		CustomerName:        customerName(order.Customer),
		Title:               order.Title,
		Description:         order.Description,
		ServiceType:         order.ServiceType,
		ServiceStreet:       order.ServiceStreet,
		ServiceHouseNumber:  order.ServiceHouseNumber,
		ServicePostalCode:   order.ServicePostalCode,
		ServiceCity:         order.ServiceCity,
		ScheduledDate:       formatDatePtr(order.ScheduledDate),
		ScheduledTime:       order.ScheduledTime,
		EstimatedDuration:   order.EstimatedDuration,
		EstimatedPrice:      order.EstimatedPrice,
		FinalPrice:          order.FinalPrice,
		Priority:            order.Priority,
		Status:              order.Status,
		SpecialInstructions: order.SpecialInstructions,
		AccessInstructions:  order.AccessInstructions,
		CompletedAt:         formatTimestampPtr(order.CompletedAt),
		CreatedAt:           formatTimestamp(order.CreatedAt),
		UpdatedAt:           formatTimestamp(order.UpdatedAt),
	}
}

// ToQuoteDTO converts Quote to QuoteDTO including its items
func ToQuoteDTO(quote *domain.Quote) domain.QuoteDTO {
	items := make([]domain.LineItemDTO, 0, len(quote.Items))
	for _, item := range quote.Items {
		items = append(items, domain.LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
			IsOptional:  item.IsOptional,
			Notes:       item.Notes,
		})
	}

	return domain.QuoteDTO{
		ID:                 quote.ID,
		QuoteNumber:        quote.QuoteNumber,
		CustomerID:         quote.CustomerID,
		CustomerName:       customerName(quote.Customer),
		Title:              quote.Title,
		Description:        quote.Description,
		ServiceType:        quote.ServiceType,
		ServiceStreet:      quote.ServiceStreet,
		ServiceHouseNumber: quote.ServiceHouseNumber,
		ServicePostalCode:  quote.ServicePostalCode,
		ServiceCity:        quote.ServiceCity,
		ValidUntil:         formatDatePtr(quote.ValidUntil),
		Subtotal:           quote.Subtotal,
		TaxRate:            quote.TaxRate,
		TaxAmount:          quote.TaxAmount,
		TotalAmount:        quote.TotalAmount,
		Status:             quote.Status,
		Notes:              quote.Notes,
		TermsConditions:    quote.TermsConditions,
		SentAt:             formatTimestampPtr(quote.SentAt),
		AcceptedAt:         formatTimestampPtr(quote.AcceptedAt),
		Items:              items,
		CreatedAt:          formatTimestamp(quote.CreatedAt),
		UpdatedAt:          formatTimestamp(quote.UpdatedAt),
	}
}

// ToQuoteTemplateDTO converts QuoteTemplate to QuoteTemplateDTO
func ToQuoteTemplateDTO(template *domain.QuoteTemplate) domain.QuoteTemplateDTO {
	items := make([]domain.LineItemDTO, 0, len(template.Items))
	for _, item := range template.Items {
		items = append(items, domain.LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.DefaultQuantity,
			Unit:        item.Unit,
			UnitPrice:   item.DefaultUnitPrice,
			TotalPrice:  domain.LineTotal(item.DefaultQuantity, item.DefaultUnitPrice),
			IsOptional:  item.IsOptional,
			Notes:       item.Notes,
		})
	}

	return domain.QuoteTemplateDTO{
		ID:                  template.ID,
		Name:                template.Name,
		ServiceType:         template.ServiceType,
		Description:         template.Description,
		DefaultTitle:        template.DefaultTitle,
		DefaultDescription:  template.DefaultDescription,
		DefaultTerms:        template.DefaultTerms,
		DefaultValidityDays: template.DefaultValidityDays,
		Items:               items,
	}
}

// DaysOverdue is the number of whole days an unpaid invoice is past its due date
func DaysOverdue(invoice *domain.Invoice, today time.Time) int {
	if invoice.DueDate == nil {
		return 0
	}
	if invoice.Status != domain.InvoiceStatusSent && invoice.Status != domain.InvoiceStatusOverdue {
		return 0
	}
	due := time.Date(invoice.DueDate.Year(), invoice.DueDate.Month(), invoice.DueDate.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	if !day.After(due) {
		return 0
	}
	return int(day.Sub(due).Hours() / 24)
}

// ToInvoiceDTO converts Invoice to InvoiceDTO including its items
func ToInvoiceDTO(invoice *domain.Invoice) domain.InvoiceDTO {
	items := make([]domain.LineItemDTO, 0, len(invoice.Items))
	for _, item := range invoice.Items {
		items = append(items, domain.LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Unit:        item.Unit,
			UnitPrice:   item.UnitPrice,
			TotalPrice:  item.TotalPrice,
		})
	}

	return domain.InvoiceDTO{
		ID:            invoice.ID,
		InvoiceNumber: invoice.InvoiceNumber,
		CustomerID:    invoice.CustomerID,
		CustomerName:  customerName(invoice.Customer),
		OrderID:       invoice.OrderID,
		InvoiceDate:   invoice.InvoiceDate.Format(dateLayout),
		DueDate:       formatDatePtr(invoice.DueDate),
		Subtotal:      invoice.Subtotal,
		TaxRate:       invoice.TaxRate,
		TaxAmount:     invoice.TaxAmount,
		TotalAmount:   invoice.TotalAmount,
		Status:        invoice.Status,
		PaymentMethod: invoice.PaymentMethod,
		PaymentDate:   formatDatePtr(invoice.PaymentDate),
		SentAt:        formatTimestampPtr(invoice.SentAt),
		Notes:         invoice.Notes,
		DaysOverdue:   DaysOverdue(invoice, time.Now()),
		Items:         items,
		CreatedAt:     formatTimestamp(invoice.CreatedAt),
		UpdatedAt:     formatTimestamp(invoice.UpdatedAt),
	}
}

// ToCommunicationDTO converts Communication to CommunicationDTO
func ToCommunicationDTO(comm *domain.Communication) domain.CommunicationDTO {
	return domain.CommunicationDTO{
		ID:                comm.ID,
		CustomerID:        comm.CustomerID,
		CustomerName:      customerName(comm.Customer),
		OrderID:           comm.OrderID,
		Type:              comm.Type,
		Direction:         comm.Direction,
		Subject:           comm.Subject,
		Content:           comm.Content,
		ContactPerson:     comm.ContactPerson,
		ContactMethod:     comm.ContactMethod,
		Status:            comm.Status,
		CommunicationDate: formatTimestamp(comm.CommunicationDate),
		FollowUpDate:      formatDatePtr(comm.FollowUpDate),
		FollowUpCompleted: comm.FollowUpCompleted,
		Tags:              comm.Tags,
		IsImportant:       comm.IsImportant,
		CreatedBy:         comm.CreatedBy,
		CreatedAt:         formatTimestamp(comm.CreatedAt),
		UpdatedAt:         formatTimestamp(comm.UpdatedAt),
	}
}

// ToInventoryItemDTO converts InventoryItem to InventoryItemDTO with its derived stock level
func ToInventoryItemDTO(item *domain.InventoryItem) domain.InventoryItemDTO {
	return domain.InventoryItemDTO{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		Category:     item.Category,
		SKU:          item.SKU,
		Quantity:     item.Quantity,
		Unit:         item.Unit,
		UnitPrice:    item.UnitPrice,
		ReorderPoint: item.ReorderPoint,
		Supplier:     item.Supplier,
		Location:     item.Location,
		Status:       item.Status,
		StockLevel:   string(display.StockLevel(item.Quantity, item.ReorderPoint)),
		TotalValue:   domain.LineTotal(float64(item.Quantity), item.UnitPrice),
		CreatedAt:    formatTimestamp(item.CreatedAt),
		UpdatedAt:    formatTimestamp(item.UpdatedAt),
	}
}

// ToInventoryTransactionDTO converts InventoryTransaction to InventoryTransactionDTO
func ToInventoryTransactionDTO(tx *domain.InventoryTransaction) domain.InventoryTransactionDTO {
	dto := domain.InventoryTransactionDTO{
		ID:              tx.ID,
		ItemID:          tx.ItemID,
		TransactionType: tx.TransactionType,
		QuantityChange:  tx.QuantityChange,
		QuantityBefore:  tx.QuantityBefore,
		QuantityAfter:   tx.QuantityAfter,
		Notes:           tx.Notes,
		CreatedBy:       tx.CreatedBy,
		CreatedAt:       formatTimestamp(tx.CreatedAt),
	}
	if tx.Item != nil {
		dto.ItemName = tx.Item.Name
	}
	return dto
}

// ToQualityCheckDTO converts QualityCheck to QualityCheckDTO
func ToQualityCheckDTO(check *domain.QualityCheck) domain.QualityCheckDTO {
	var photos []domain.QualityPhotoDTO
	for _, p := range check.Photos {
		photos = append(photos, ToQualityPhotoDTO(&p))
	}

	return domain.QualityCheckDTO{
		ID:              check.ID,
		OrderID:         check.OrderID,
		CustomerID:      check.CustomerID,
		CustomerName:    customerName(check.Customer),
		InspectorName:   check.InspectorName,
		CheckDate:       check.CheckDate.Format(dateLayout),
		CheckType:       check.CheckType,
		OverallScore:    check.OverallScore,
		Status:          check.Status,
		Notes:           check.Notes,
		CheckDetails:    check.CheckDetails,
		Recommendations: check.Recommendations,
		Photos:          photos,
		CreatedAt:       formatTimestamp(check.CreatedAt),
		UpdatedAt:       formatTimestamp(check.UpdatedAt),
	}
}

// ToQualityPhotoDTO converts QualityPhoto to QualityPhotoDTO
func ToQualityPhotoDTO(photo *domain.QualityPhoto) domain.QualityPhotoDTO {
	return domain.QualityPhotoDTO{
		ID:          photo.ID,
		Filename:    photo.Filename,
		ContentType: photo.ContentType,
		Size:        photo.Size,
		Caption:     photo.Caption,
		CreatedAt:   formatTimestamp(photo.CreatedAt),
	}
}

// ToTimeEntryDTO converts TimeEntry to TimeEntryDTO
func ToTimeEntryDTO(entry *domain.TimeEntry) domain.TimeEntryDTO {
	return domain.TimeEntryDTO{
		ID:           entry.ID,
		UserID:       entry.UserID,
		UserName:     entry.UserName,
		CustomerID:   entry.CustomerID,
		CustomerName: customerName(entry.Customer),
		OrderID:      entry.OrderID,
		StartTime:    formatTimestamp(entry.StartTime),
		EndTime:      formatTimestampPtr(entry.EndTime),
		Duration:     entry.Duration,
		Description:  entry.Description,
		ActivityType: entry.ActivityType,
		Status:       entry.Status,
		Notes:        entry.Notes,
		CreatedAt:    formatTimestamp(entry.CreatedAt),
		UpdatedAt:    formatTimestamp(entry.UpdatedAt),
	}
}

// ToUserDTO converts User to UserDTO
func ToUserDTO(user *domain.User) domain.UserDTO {
	return domain.UserDTO{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		Role:        user.Role,
	}
}

// FormatError creates a formatted error message
func FormatError(entity, operation string, err error) error {
	return fmt.Errorf("failed to %s %s: %w", operation, entity, err)
}
