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
	changeTypeQuote = "quote"

	defaultQuoteValidityDays = 30
	defaultQuoteUnit         = "Stück"
)

var quoteStatuses = map[domain.QuoteStatus]bool{
	domain.QuoteStatusDraft:    true,
	domain.QuoteStatusSent:     true,
	domain.QuoteStatusAccepted: true,
	domain.QuoteStatusRejected: true,
	domain.QuoteStatusExpired:  true,
}

type QuoteService struct {
	quoteRepo    *repository.QuoteRepository
	templateRepo *repository.QuoteTemplateRepository
	numbers      *NumberSequenceService
	refs         referenceChecker
	events       ChangePublisher
	clock        Clock
	logger       *zap.Logger
}

func NewQuoteService(
	quoteRepo *repository.QuoteRepository,
	templateRepo *repository.QuoteTemplateRepository,
	customerRepo *repository.CustomerRepository,
	numbers *NumberSequenceService,
	events ChangePublisher,
	clock Clock,
	logger *zap.Logger,
) *QuoteService {
	return &QuoteService{
		quoteRepo:    quoteRepo,
		templateRepo: templateRepo,
		numbers:      numbers,
		refs:         referenceChecker{customers: customerRepo},
		events:       publisherOrNop(events),
		clock:        clockOrNow(clock),
		logger:       logger,
	}
}

// quoteItems builds the persisted lines of a quote in request order
func quoteItems(reqs []domain.LineItemRequest) []domain.QuoteItem {
	items := make([]domain.QuoteItem, len(reqs))
	for i, r := range reqs {
		quantity := derefOr(r.Quantity, 1)
		unitPrice := derefOr(r.UnitPrice, 0)
		items[i] = domain.QuoteItem{
			Description: r.Description,
			Quantity:    quantity,
			Unit:        valueOr(r.Unit, defaultQuoteUnit),
			UnitPrice:   unitPrice,
			TotalPrice:  domain.LineTotal(quantity, unitPrice),
			IsOptional:  r.IsOptional,
			SortOrder:   i + 1,
			Notes:       r.Notes,
		}
	}
	return items
}

// applyQuoteTotals recomputes subtotal, tax and total from the items.
// Optional lines are listed but not billed.
func applyQuoteTotals(quote *domain.Quote) {
	lines := make([]domain.PricedLine, len(quote.Items))
	for i, item := range quote.Items {
		lines[i] = domain.PricedLine{Quantity: item.Quantity, UnitPrice: item.UnitPrice, IsOptional: item.IsOptional}
	}
	totals := domain.ComputeTotals(lines, quote.TaxRate)
	quote.Subtotal = totals.Subtotal
	quote.TaxAmount = totals.TaxAmount
	quote.TotalAmount = totals.TotalAmount
}

func (s *QuoteService) applyRequest(quote *domain.Quote, req *domain.QuoteRequest) error {
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return err
	}
	if validUntil == nil {
		validUntil = quote.ValidUntil
	}
	if validUntil == nil {
		v := startOfDay(s.clock()).AddDate(0, 0, defaultQuoteValidityDays)
		validUntil = &v
	}

	quote.CustomerID = *req.CustomerID
	quote.Title = req.Title
	quote.Description = req.Description
	quote.ServiceType = req.ServiceType
	quote.ServiceAddress = domain.ServiceAddress{
		ServiceStreet:      req.ServiceStreet,
		ServiceHouseNumber: req.ServiceHouseNumber,
		ServicePostalCode:  req.ServicePostalCode,
		ServiceCity:        req.ServiceCity,
	}
	quote.ValidUntil = validUntil
	quote.TaxRate = derefOr(req.TaxRate, domain.DefaultTaxRate)
	quote.Notes = req.Notes
	quote.TermsConditions = req.TermsConditions
	quote.Items = quoteItems(req.Items)
	applyQuoteTotals(quote)
	return nil
}

func (s *QuoteService) Create(ctx context.Context, req *domain.QuoteRequest) (*domain.QuoteDTO, error) {
	if err := s.refs.check(ctx, req.CustomerID, nil); err != nil {
		return nil, err
	}

	quote := &domain.Quote{Status: domain.QuoteStatusDraft}
	if err := s.applyRequest(quote, req); err != nil {
		return nil, err
	}
	return s.create(ctx, quote)
}

func (s *QuoteService) create(ctx context.Context, quote *domain.Quote) (*domain.QuoteDTO, error) {
	number, err := s.numbers.Next(ctx, PrefixQuote)
	if err != nil {
		return nil, err
	}
	quote.QuoteNumber = number

	if err := s.quoteRepo.Create(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to create quote: %w", err)
	}

	s.logger.Info("quote created",
		zap.Int64("quote_id", quote.ID),
		zap.String("quote_number", number),
		zap.Float64("total_amount", quote.TotalAmount))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeQuote, Action: domain.ChangeCreated, ID: quote.ID})
	return s.GetByID(ctx, quote.ID)
}

func (s *QuoteService) GetByID(ctx context.Context, id int64) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrQuoteNotFound, "get quote")
	}
	dto := mapper.ToQuoteDTO(quote)
	return &dto, nil
}

// Update replaces the quote's fields and items and recomputes the totals
func (s *QuoteService) Update(ctx context.Context, id int64, req *domain.QuoteRequest) (*domain.QuoteDTO, error) {
	quote, err := s.quoteRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrQuoteNotFound, "get quote")
	}
	if err := s.refs.check(ctx, req.CustomerID, nil); err != nil {
		return nil, err
	}
	if err := s.applyRequest(quote, req); err != nil {
		return nil, err
	}
	quote.Customer = nil

	if err := s.quoteRepo.Update(ctx, quote); err != nil {
		return nil, fmt.Errorf("failed to update quote: %w", err)
	}

	s.events.Publish(domain.ChangeEvent{Type: changeTypeQuote, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

// UpdateStatus sets the status. Sending stamps sent_at, accepting stamps accepted_at.
func (s *QuoteService) UpdateStatus(ctx context.Context, id int64, status domain.QuoteStatus) (*domain.QuoteDTO, error) {
	if !quoteStatuses[status] {
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}
	if _, err := s.quoteRepo.GetByID(ctx, id); err != nil {
		return nil, notFound(err, ErrQuoteNotFound, "get quote")
	}

	updates := map[string]interface{}{"status": status}
	now := s.clock()
	switch status {
	case domain.QuoteStatusSent:
		updates["sent_at"] = now
	case domain.QuoteStatusAccepted:
		updates["accepted_at"] = now
	}

	if err := s.quoteRepo.UpdateFields(ctx, id, updates); err != nil {
		return nil, fmt.Errorf("failed to update quote status: %w", err)
	}

	s.logger.Info("quote status changed", zap.Int64("quote_id", id), zap.String("status", string(status)))
	s.events.Publish(domain.ChangeEvent{Type: changeTypeQuote, Action: domain.ChangeUpdated, ID: id})
	return s.GetByID(ctx, id)
}

func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	found, err := s.quoteRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete quote: %w", err)
	}
	if !found {
		return ErrQuoteNotFound
	}
	s.events.Publish(domain.ChangeEvent{Type: changeTypeQuote, Action: domain.ChangeDeleted, ID: id})
	return nil
}

func (s *QuoteService) List(ctx context.Context, filters repository.QuoteFilters, page repository.Page, sort repository.SortConfig) (*domain.QuoteListResponse, error) {
	quotes, total, err := s.quoteRepo.List(ctx, filters, page, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}

	dtos := make([]domain.QuoteDTO, len(quotes))
	for i := range quotes {
		dtos[i] = mapper.ToQuoteDTO(&quotes[i])
	}
	return &domain.QuoteListResponse{Quotes: dtos, Pagination: pagination(total, page)}, nil
}

// ListTemplates returns the active templates, optionally for one service type
func (s *QuoteService) ListTemplates(ctx context.Context, serviceType domain.ServiceType) (*domain.QuoteTemplateListResponse, error) {
	templates, err := s.templateRepo.ListActive(ctx, serviceType)
	if err != nil {
		return nil, fmt.Errorf("failed to list quote templates: %w", err)
	}

	dtos := make([]domain.QuoteTemplateDTO, len(templates))
	for i := range templates {
		dtos[i] = mapper.ToQuoteTemplateDTO(&templates[i])
	}
	total := int64(len(dtos))
	return &domain.QuoteTemplateListResponse{
		Templates:  dtos,
		Pagination: domain.NewPagination(total, 1, max(len(dtos), 1)),
	}, nil
}

func (s *QuoteService) GetTemplate(ctx context.Context, id int64) (*domain.QuoteTemplateDTO, error) {
	template, err := s.templateRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, ErrTemplateNotFound, "get quote template")
	}
	dto := mapper.ToQuoteTemplateDTO(template)
	return &dto, nil
}

// GenerateFromTemplate creates a draft quote from a template's defaults and lines
func (s *QuoteService) GenerateFromTemplate(ctx context.Context, templateID int64, req *domain.GenerateQuoteRequest) (*domain.QuoteDTO, error) {
	template, err := s.templateRepo.GetByID(ctx, templateID)
	if err != nil {
		return nil, notFound(err, ErrTemplateNotFound, "get quote template")
	}
	if err := s.refs.check(ctx, req.CustomerID, nil); err != nil {
		return nil, err
	}

	days := template.DefaultValidityDays
	if days <= 0 {
		days = defaultQuoteValidityDays
	}
	validUntil := startOfDay(s.clock()).AddDate(0, 0, days)

	quote := &domain.Quote{
		CustomerID:  *req.CustomerID,
		Title:       valueOr(req.Title, template.DefaultTitle),
		Description: template.DefaultDescription,
		ServiceType: template.ServiceType,
		ServiceAddress: domain.ServiceAddress{
			ServiceStreet:      req.ServiceStreet,
			ServiceHouseNumber: req.ServiceHouseNumber,
			ServicePostalCode:  req.ServicePostalCode,
			ServiceCity:        req.ServiceCity,
		},
		ValidUntil:      &validUntil,
		TaxRate:         domain.DefaultTaxRate,
		Status:          domain.QuoteStatusDraft,
		TermsConditions: template.DefaultTerms,
	}
	if quote.Title == "" {
		quote.Title = template.Name
	}
	for _, item := range template.Items {
		quote.Items = append(quote.Items, domain.QuoteItem{
			Description: item.Description,
			Quantity:    item.DefaultQuantity,
			Unit:        item.Unit,
			UnitPrice:   item.DefaultUnitPrice,
			TotalPrice:  domain.LineTotal(item.DefaultQuantity, item.DefaultUnitPrice),
			IsOptional:  item.IsOptional,
			SortOrder:   item.SortOrder,
			Notes:       item.Notes,
		})
	}
	applyQuoteTotals(quote)

	return s.create(ctx, quote)
}

// ExpireOverdue marks draft and sent quotes whose validity has ended
func (s *QuoteService) ExpireOverdue(ctx context.Context) (int64, error) {
	count, err := s.quoteRepo.ExpireBefore(ctx, startOfDay(s.clock()))
	if err != nil {
		return 0, fmt.Errorf("failed to expire quotes: %w", err)
	}
	if count > 0 {
		s.logger.Info("quotes expired", zap.Int64("count", count))
		s.events.Publish(domain.ChangeEvent{Type: changeTypeQuote, Action: domain.ChangeUpdated})
	}
	return count, nil
}
