package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/glanzwerk/crm/internal/domain"
)

func (c *Client) Customers() *Resource[domain.CustomerDTO] {
	return NewResource[domain.CustomerDTO](c, "/api/customers", "customers")
}

func (c *Client) Orders() *Resource[domain.OrderDTO] {
	return NewResource[domain.OrderDTO](c, "/api/orders", "orders")
}

func (c *Client) Quotes() *Resource[domain.QuoteDTO] {
	return NewResource[domain.QuoteDTO](c, "/api/quotes", "quotes")
}

func (c *Client) QuoteTemplates() *Resource[domain.QuoteTemplateDTO] {
	return NewResource[domain.QuoteTemplateDTO](c, "/api/quote-templates", "templates")
}

func (c *Client) Invoices() *Resource[domain.InvoiceDTO] {
	return NewResource[domain.InvoiceDTO](c, "/api/invoices", "invoices")
}

func (c *Client) Communications() *Resource[domain.CommunicationDTO] {
	return NewResource[domain.CommunicationDTO](c, "/api/communications", "communications")
}

func (c *Client) Inventory() *Resource[domain.InventoryItemDTO] {
	return NewResource[domain.InventoryItemDTO](c, "/api/inventory", "inventory_items")
}

func (c *Client) InventoryTransactions() *Resource[domain.InventoryTransactionDTO] {
	return NewResource[domain.InventoryTransactionDTO](c, "/api/inventory/transactions", "transactions")
}

func (c *Client) QualityChecks() *Resource[domain.QualityCheckDTO] {
	return NewResource[domain.QualityCheckDTO](c, "/api/quality-checks", "quality_checks")
}

func (c *Client) TimeEntries() *Resource[domain.TimeEntryDTO] {
	return NewResource[domain.TimeEntryDTO](c, "/api/time-entries", "time_entries")
}

func idPath(base string, id int64, action string) string {
	return base + "/" + strconv.FormatInt(id, 10) + "/" + action
}

// SetPortalAccess sets the customer's portal password
func (c *Client) SetPortalAccess(ctx context.Context, s *Session, customerID int64, password string) (*domain.CustomerDTO, error) {
	var out domain.CustomerDTO
	body := domain.PortalAccessRequest{Password: password}
	if err := c.do(ctx, s, http.MethodPut, idPath("/api/customers", customerID, "portal-access"), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// setStatus is shared by every resource with a PUT /{id}/status endpoint
func setStatus[T any](ctx context.Context, c *Client, s *Session, base string, id int64, status string) (*T, error) {
	var out T
	body := domain.StatusRequest{Status: status}
	if err := c.do(ctx, s, http.MethodPut, idPath(base, id, "status"), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SetOrderStatus(ctx context.Context, s *Session, id int64, status domain.OrderStatus) (*domain.OrderDTO, error) {
	return setStatus[domain.OrderDTO](ctx, c, s, "/api/orders", id, string(status))
}

func (c *Client) SetQuoteStatus(ctx context.Context, s *Session, id int64, status domain.QuoteStatus) (*domain.QuoteDTO, error) {
	return setStatus[domain.QuoteDTO](ctx, c, s, "/api/quotes", id, string(status))
}

func (c *Client) SetInvoiceStatus(ctx context.Context, s *Session, id int64, status domain.InvoiceStatus) (*domain.InvoiceDTO, error) {
	return setStatus[domain.InvoiceDTO](ctx, c, s, "/api/invoices", id, string(status))
}

func (c *Client) SetQualityCheckStatus(ctx context.Context, s *Session, id int64, status domain.QualityStatus) (*domain.QualityCheckDTO, error) {
	return setStatus[domain.QualityCheckDTO](ctx, c, s, "/api/quality-checks", id, string(status))
}

// GenerateQuote creates a draft quote from a template
func (c *Client) GenerateQuote(ctx context.Context, s *Session, templateID int64, req *domain.GenerateQuoteRequest) (*domain.QuoteDTO, error) {
	var out domain.QuoteDTO
	if err := c.do(ctx, s, http.MethodPost, idPath("/api/quote-templates", templateID, "generate"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendInvoice marks a draft invoice as sent. Any other status is a 409.
func (c *Client) SendInvoice(ctx context.Context, s *Session, id int64) (*domain.InvoiceDTO, error) {
	var out domain.InvoiceDTO
	if err := c.do(ctx, s, http.MethodPost, idPath("/api/invoices", id, "send"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AdjustStock books a stock movement on an inventory item
func (c *Client) AdjustStock(ctx context.Context, s *Session, itemID int64, req *domain.StockAdjustmentRequest) (*domain.InventoryTransactionDTO, error) {
	var out domain.InventoryTransactionDTO
	if err := c.do(ctx, s, http.MethodPost, idPath("/api/inventory", itemID, "adjust"), nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) InventoryCategories(ctx context.Context, s *Session) ([]string, error) {
	var out domain.CategoriesResponse
	if err := c.do(ctx, s, http.MethodGet, "/api/inventory/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out.Categories, nil
}

func (c *Client) QualityStandards(ctx context.Context, s *Session) (*domain.QualityStandardsResponse, error) {
	return get[domain.QualityStandardsResponse](ctx, c, s, "/api/quality-checks/standards")
}

// StartTimer opens an active time entry for the session's user
func (c *Client) StartTimer(ctx context.Context, s *Session, req *domain.StartTimerRequest) (*domain.TimeEntryDTO, error) {
	var out domain.TimeEntryDTO
	if err := c.do(ctx, s, http.MethodPost, "/api/time-entries/start", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// StopTimer completes an active entry. Stopping a finished entry is a 409.
func (c *Client) StopTimer(ctx context.Context, s *Session, id int64) (*domain.TimeEntryDTO, error) {
	var out domain.TimeEntryDTO
	if err := c.do(ctx, s, http.MethodPost, idPath("/api/time-entries", id, "stop"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TimeReport lists completed entries between two dates (YYYY-MM-DD)
func (c *Client) TimeReport(ctx context.Context, s *Session, dateFrom, dateTo string, userID *int64) (*domain.TimeReportDTO, error) {
	q := url.Values{}
	if dateFrom != "" {
		q.Set("date_from", dateFrom)
	}
	if dateTo != "" {
		q.Set("date_to", dateTo)
	}
	if userID != nil {
		q.Set("user_id", strconv.FormatInt(*userID, 10))
	}
	var out domain.TimeReportDTO
	if err := c.do(ctx, s, http.MethodGet, "/api/time-entries/report", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get fetches a single JSON document
func get[T any](ctx context.Context, c *Client, s *Session, path string) (*T, error) {
	var out T
	if err := c.do(ctx, s, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) OrderDashboard(ctx context.Context, s *Session) (*domain.OrderDashboardDTO, error) {
	return get[domain.OrderDashboardDTO](ctx, c, s, "/api/orders/dashboard")
}

func (c *Client) InvoiceStatistics(ctx context.Context, s *Session) (*domain.InvoiceStatisticsDTO, error) {
	return get[domain.InvoiceStatisticsDTO](ctx, c, s, "/api/invoices/statistics")
}

func (c *Client) InventoryStatistics(ctx context.Context, s *Session) (*domain.InventoryStatisticsDTO, error) {
	return get[domain.InventoryStatisticsDTO](ctx, c, s, "/api/inventory/statistics")
}

func (c *Client) QualityStatistics(ctx context.Context, s *Session) (*domain.QualityStatisticsDTO, error) {
	return get[domain.QualityStatisticsDTO](ctx, c, s, "/api/quality-checks/statistics")
}

func (c *Client) TimeStatistics(ctx context.Context, s *Session) (*domain.TimeStatisticsDTO, error) {
	return get[domain.TimeStatisticsDTO](ctx, c, s, "/api/time-entries/statistics")
}

// Users lists the staff accounts
func (c *Client) Users(ctx context.Context, s *Session) ([]domain.UserDTO, error) {
	out, err := get[domain.UserListResponse](ctx, c, s, "/api/users")
	if err != nil {
		return nil, err
	}
	return out.Users, nil
}

// Export downloads the xlsx export of resource into w
func (c *Client) Export(ctx context.Context, s *Session, resource string, w io.Writer) error {
	if !s.valid() {
		return ErrNoSession
	}
	data, err := c.send(ctx, s.Token, http.MethodGet, "/api/export/"+url.PathEscape(resource), nil, nil)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return fmt.Errorf("%w: empty export", ErrMalformedResponse)
	}
	_, err = w.Write(data)
	return err
}
