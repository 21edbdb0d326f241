package service

import (
	"context"
	"fmt"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/mapper"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

const (
	changeTypeInvoice = "invoice"

	defaultPaymentTermDays = 14
	defaultInvoiceUnit     = "Stk"
)

var invoiceStatuses = map[domain.InvoiceStatus]bool{
	domain.InvoiceStatusDraft:     true,
	domain.InvoiceStatusSent:      true,
	domain.InvoiceStatusPaid:      true,
	domain.InvoiceStatusOverdue:   true,
	domain.InvoiceStatusCancelled: true,
}

type InvoiceService struct {
	invoiceRepo *repository.InvoiceRepository
	numbers     *NumberSequenceService
	refs        referenceChecker
	events      ChangePublisher
	clock       Clock
	logger      *zap.Logger
}

func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	customerRepo *repository.CustomerRepository,
	orderRepo *repository.OrderRepository,
	numbers *NumberSequenceService,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo: invoiceRepo,
		numbers:     numbers,
		refs:        referenceChecker{customers: customerRepo, orders: orderRepo},
		events:      publisherOrNop(events),
		clock:       clockOrNow(clock),
		logger:      logger,
	}
}

func (s *InvoiceService) applyRequest(invoice *domain.Invoice, req *domain.InvoiceRequest) error {
	invoiceDate, err := parseDate(req.InvoiceDate)
	if err != nil {
		return err
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		return err
	}

	if invoiceDate == nil {
		if invoice.InvoiceDate.IsZero() {
			today := startOfDay(s.clock())
			invoiceDate = &today
		} else {
			invoiceDate = &invoice.InvoiceDate
		}
	}
	if dueDate == nil {
		d := invoiceDate.AddDate(0, 0, defaultPaymentTermDays)
		dueDate = &d
	}
	if dueDate.Before(*invoiceDate) {
		return fmt.Errorf("%w: due_date before invoice_date", ErrInvalidInput)
	}

	invoice.CustomerID = *req.CustomerID
	invoice.OrderID = req.OrderID
	invoice.InvoiceDate = *invoiceDate
	invoice.DueDate = dueDate
	invoice.TaxRate = derefOr(req.TaxRate, domain.DefaultTaxRate)
	invoice.PaymentMethod = valueOr(req.PaymentMethod, domain.PaymentBankTransfer)
	invoice.Notes = req.Notes

	invoice.Items = make([]domain.InvoiceItem, len(req.Items))
	lines := make([]domain.PricedLine, len(req.Items))
	for i, r := range req.Items {
		quantity := derefOr(r.Quantity, 1)
		unitPrice := derefOr(r.UnitPrice, 0)
		invoice.Items[i] = domain.InvoiceItem{
			Description: r.Description,
			Quantity:    quantity,
			Unit:        valueOr(r.Unit, defaultInvoiceUnit),
			UnitPrice:   unitPrice,
			TotalPrice:  domain.LineTotal(quantity, unitPrice),
		}
		lines[i] = domain.PricedLine{Quantity: quantity, UnitPrice: unitPrice}
	}

	totals := domain.ComputeTotals(lines, invoice.TaxRate)
	invoice.Subtotal = totals.Subtotal
	invoice.TaxAmount = totals.TaxAmount
	invoice.TotalAmount = totals.TotalAmount
	return nil
}

func (s *InvoiceService) Create(ctx context.Context, req *domain.InvoiceRequest) (*domain.InvoiceDTO, error) {
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}

	invoice := &domain.Invoice{Status: domain.InvoiceStatusDraft}
	if err := s.applyRequest(invoice, req); err != nil {
		return nil, err
	}

	number, err := s.numbers.Next(ctx, PrefixInvoice)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.logger.Info("invoice created",
		zap.Int64("invoice_id", invoice.ID),
		zap.String("invoice_number", number),
		zap.Float64("total_amount", invoice.TotalAmount))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeCreated, ID: invoice.ID})
	return s.GetByID(ctx, invoice.ID)
}

func (s *InvoiceService) GetByID(ctx context.Context, id int64) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInvoiceNotFound, "get invoice")
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

func (s *InvoiceService) Update(ctx context.Context, id int64, req *domain.InvoiceRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInvoiceNotFound, "get invoice")
	}
	if err := s.refs.check(ctx, req.CustomerID, req.OrderID); err != nil {
		return nil, err
	}
	if err := s.applyRequest(invoice, req); err != nil {
		return nil, err
	}
	invoice.Customer = nil

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

// UpdateStatus sets the status. Paying stamps payment_date with today.
func (s *InvoiceService) UpdateStatus(ctx context.Context, id int64, status domain.InvoiceStatus) (*domain.InvoiceDTO, error) {
	if !invoiceStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if _, err := s.invoiceRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrInvoiceNotFound, "get invoice")
	}

	updates := map[string]interface{}{"status": status}
	if status == domain.InvoiceStatusPaid {
		updates["payment_date"] = startOfDay(s.clock())
	}
	if err := s.invoiceRepo.UpdateFields(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update invoice status: %w", err)
	}

	s.logger.Info("invoice status changed", zap.Int64("invoice_id", id), zap.String("status", string(status)))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

// Send moves a draft invoice to sent. Any other status is a conflict.
func (s *InvoiceService) Send(ctx context.Context, id int64) (*domain.InvoiceDTO, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrInvoiceNotFound, "get invoice")
	}
	if invoice.Status != domain.InvoiceStatusDraft {
		return nil, ErrInvoiceNotDraft
	}

	err = s.invoiceRepo.UpdateFields(ctx, id, map[string]interface{}{
		"status":  domain.InvoiceStatusSent,
		"sent_at": s.clock(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to send invoice: %w", err)
	}

	s.logger.Info("invoice sent", zap.Int64("invoice_id", id), zap.String("invoice_number", invoice.InvoiceNumber))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id int64) error {
	found, err := s.invoiceRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	if !found {
		return ErrInvoiceNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *InvoiceService) List(ctx context.Context, filters repository.InvoiceFilters, page repository.Page, sort repository.SortConfig) (*domain.InvoiceListResponse, error) {
	invoices, total, err := s.invoiceRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}

	dtos := make([]domain.InvoiceDTO, len(invoices))
	for i := range invoices {
		dtos[i] = mapper.ToInvoiceDTO(&invoices[i])
	}
	return &domain.InvoiceListResponse{Invoices: dtos, Pagination: pagination(total, page)}, nil
}

// Statistics aggregates counts and amounts per status and the monthly
// totals of the current year
func (s *InvoiceService) Statistics(ctx context.Context) (*domain.InvoiceStatisticsDTO, error) {
	rows, err := s.invoiceRepo.Summaries(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load invoice statistics: %w", err)
	}

	stats := &domain.InvoiceStatisticsDTO{
		StatusCounts:   make(map[string]int64),
		AmountByStatus: make(map[string]float64),
		MonthlyTotals:  make([]domain.MonthlyAmountDTO, 12),
	}
	for m := range stats.MonthlyTotals {
		stats.MonthlyTotals[m].Month = m + 1
	}

	year := s.clock().Year()
	amounts := make(map[string][]domain.PricedLine)
	monthly := make([][]domain.PricedLine, 12)
	for _, row := range rows {
		status := string(row.Status)
		stats.StatusCounts[status]++
		amounts[status] = append(amounts[status], domain.PricedLine{Quantity: 1, UnitPrice: row.TotalAmount})
		if row.Status == domain.InvoiceStatusOverdue {
			stats.OverdueInvoices++
		}
		if row.InvoiceDate.Year() == year {
			m := int(row.InvoiceDate.Month()) - 1
			monthly[m] = append(monthly[m], domain.PricedLine{Quantity: 1, UnitPrice: row.TotalAmount})
			stats.MonthlyTotals[m].Count++
		}
	}

	for status, lines := range amounts {
		stats.AmountByStatus[status] = domain.ComputeTotals(lines, 0).Subtotal
	}
	for m, lines := range monthly {
		stats.MonthlyTotals[m].Total = domain.ComputeTotals(lines, 0).Subtotal
	}
	return stats, nil
}

// MarkOverdue flips sent invoices past their due date to overdue
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	count, err := s.invoiceRepo.MarkOverdue(ctx, startOfDay(s.clock()))
	if err != nil {
		return 0, fmt.Errorf("failed to mark overdue invoices: %w", err)
	}
	if count > 0 {
		s.logger.Info("invoices marked overdue", zap.Int64("count", count))
		s.events.Publish(domain.ChangeEvent{Type: changeTypeInvoice, Action: domain.ChangeUpdated})
	}
	return count, nil
}
