package domain

// DTOs for API responses. Timestamps are RFC 3339 strings, calendar dates are YYYY-MM-DD.

type CustomerDTO struct {
	ID                     int64         `json:"id"`
	CustomerNumber         string        `json:"customer_number"`
	FirstName              string        `json:"first_name"`
	LastName               string        `json:"last_name"`
	CompanyName            string        `json:"company_name,omitempty"`
	DisplayName            string        `json:"display_name"`
	Email                  string        `json:"email"`
	Phone                  string        `json:"phone,omitempty"`
	Mobile                 string        `json:"mobile,omitempty"`
	Street                 string        `json:"street,omitempty"`
	HouseNumber            string        `json:"house_number,omitempty"`
	PostalCode             string        `json:"postal_code,omitempty"`
	City                   string        `json:"city,omitempty"`
	CustomerType           CustomerType  `json:"customer_type"`
	PreferredContactMethod ContactMethod `json:"preferred_contact_method"`
	Notes                  string        `json:"notes,omitempty"`
	IsActive               bool          `json:"is_active"`
	HasPortalAccess        bool          `json:"has_portal_access"`
	CreatedAt              string        `json:"created_at"`
	UpdatedAt              string        `json:"updated_at"`
}

type OrderDTO struct {
	ID                  int64       `json:"id"`
	OrderNumber         string      `json:"order_number"`
	CustomerID          int64       `json:"customer_id"`
	CustomerName        string      `json:"customer_name,omitempty"`
	Title               string      `json:"title"`
	Description         string      `json:"description,omitempty"`
	ServiceType         ServiceType `json:"service_type"`
	ServiceStreet       string      `json:"service_street,omitempty"`
	ServiceHouseNumber  string      `json:"service_house_number,omitempty"`
	ServicePostalCode   string      `json:"service_postal_code,omitempty"`
	ServiceCity         string      `json:"service_city,omitempty"`
	ScheduledDate       string      `json:"scheduled_date,omitempty"`
	ScheduledTime       string      `json:"scheduled_time,omitempty"`
	EstimatedDuration   *int        `json:"estimated_duration"`
	EstimatedPrice      *float64    `json:"estimated_price"`
	FinalPrice          *float64    `json:"final_price"`
	Priority            Priority    `json:"priority"`
	Status              OrderStatus `json:"status"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	AccessInstructions  string      `json:"access_instructions,omitempty"`
	CompletedAt         string      `json:"completed_at,omitempty"`
	CreatedAt           string      `json:"created_at"`
	UpdatedAt           string      `json:"updated_at"`
}

type LineItemDTO struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	TotalPrice  float64 `json:"total_price"`
	IsOptional  bool    `json:"is_optional,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type QuoteDTO struct {
	ID                 int64         `json:"id"`
	QuoteNumber        string        `json:"quote_number"`
	CustomerID         int64         `json:"customer_id"`
	CustomerName       string        `json:"customer_name,omitempty"`
	Title              string        `json:"title"`
	Description        string        `json:"description,omitempty"`
	ServiceType        ServiceType   `json:"service_type,omitempty"`
	ServiceStreet      string        `json:"service_street,omitempty"`
	ServiceHouseNumber string        `json:"service_house_number,omitempty"`
	ServicePostalCode  string        `json:"service_postal_code,omitempty"`
	ServiceCity        string        `json:"service_city,omitempty"`
	ValidUntil         string        `json:"valid_until,omitempty"`
	Subtotal           float64       `json:"subtotal"`
	TaxRate            float64       `json:"tax_rate"`
	TaxAmount          float64       `json:"tax_amount"`
	TotalAmount        float64       `json:"total_amount"`
	Status             QuoteStatus   `json:"status"`
	Notes              string        `json:"notes,omitempty"`
	TermsConditions    string        `json:"terms_conditions,omitempty"`
	SentAt             string        `json:"sent_at,omitempty"`
	AcceptedAt         string        `json:"accepted_at,omitempty"`
	Items              []LineItemDTO `json:"items"`
	CreatedAt          string        `json:"created_at"`
	UpdatedAt          string        `json:"updated_at"`
}

type QuoteTemplateDTO struct {
	ID                  int64         `json:"id"`
	Name                string        `json:"name"`
	ServiceType         ServiceType   `json:"service_type"`
	Description         string        `json:"description,omitempty"`
	DefaultTitle        string        `json:"default_title"`
	DefaultDescription  string        `json:"default_description,omitempty"`
	DefaultTerms        string        `json:"default_terms,omitempty"`
	DefaultValidityDays int           `json:"default_validity_days"`
	Items               []LineItemDTO `json:"items"`
}

type InvoiceDTO struct {
	ID            int64         `json:"id"`
	InvoiceNumber string        `json:"invoice_number"`
	CustomerID    int64         `json:"customer_id"`
	CustomerName  string        `json:"customer_name,omitempty"`
	OrderID       *int64        `json:"order_id"`
	InvoiceDate   string        `json:"invoice_date"`
	DueDate       string        `json:"due_date,omitempty"`
	Subtotal      float64       `json:"subtotal"`
	TaxRate       float64       `json:"tax_rate"`
	TaxAmount     float64       `json:"tax_amount"`
	TotalAmount   float64       `json:"total_amount"`
	Status        InvoiceStatus `json:"status"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	PaymentDate   string        `json:"payment_date,omitempty"`
	SentAt        string        `json:"sent_at,omitempty"`
	Notes         string        `json:"notes,omitempty"`
	DaysOverdue   int           `json:"days_overdue"`
	Items         []LineItemDTO `json:"items"`
	CreatedAt     string        `json:"created_at"`
	UpdatedAt     string        `json:"updated_at"`
}

type CommunicationDTO struct {
	ID                int64               `json:"id"`
	CustomerID        int64               `json:"customer_id"`
	CustomerName      string              `json:"customer_name,omitempty"`
	OrderID           *int64              `json:"order_id"`
	Type              CommunicationType   `json:"type"`
	Direction         Direction           `json:"direction"`
	Subject           string              `json:"subject,omitempty"`
	Content           string              `json:"content"`
	ContactPerson     string              `json:"contact_person,omitempty"`
	ContactMethod     string              `json:"contact_method,omitempty"`
	Status            CommunicationStatus `json:"status"`
	CommunicationDate string              `json:"communication_date"`
	FollowUpDate      string              `json:"follow_up_date,omitempty"`
	FollowUpCompleted bool                `json:"follow_up_completed"`
	Tags              string              `json:"tags,omitempty"`
	IsImportant       bool                `json:"is_important"`
	CreatedBy         string              `json:"created_by,omitempty"`
	CreatedAt         string              `json:"created_at"`
	UpdatedAt         string              `json:"updated_at"`
}

type InventoryItemDTO struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty"`
	SKU          string          `json:"sku,omitempty"`
	Quantity     int             `json:"quantity"`
	Unit         string          `json:"unit"`
	UnitPrice    float64         `json:"unit_price"`
	ReorderPoint int             `json:"reorder_point"`
	Supplier     string          `json:"supplier,omitempty"`
	Location     string          `json:"location,omitempty"`
	Status       InventoryStatus `json:"status"`
	StockLevel   string          `json:"stock_level"`
	TotalValue   float64         `json:"total_value"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
	// Populated on the detail endpoint only
	RecentTransactions []InventoryTransactionDTO `json:"recent_transactions,omitempty"`
}

type InventoryTransactionDTO struct {
	ID              int64           `json:"id"`
	ItemID          int64           `json:"item_id"`
	ItemName        string          `json:"item_name,omitempty"`
	TransactionType TransactionType `json:"transaction_type"`
	QuantityChange  int             `json:"quantity_change"`
	QuantityBefore  int             `json:"quantity_before"`
	QuantityAfter   int             `json:"quantity_after"`
	Notes           string          `json:"notes,omitempty"`
	CreatedBy       string          `json:"created_by,omitempty"`
	CreatedAt       string          `json:"created_at"`
}

type QualityPhotoDTO struct {
	ID          int64  `json:"id"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Caption     string `json:"caption,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type QualityCheckDTO struct {
	ID              int64             `json:"id"`
	OrderID         *int64            `json:"order_id"`
	CustomerID      *int64            `json:"customer_id"`
	CustomerName    string            `json:"customer_name,omitempty"`
	InspectorName   string            `json:"inspector_name"`
	CheckDate       string            `json:"check_date"`
	CheckType       string            `json:"check_type"`
	OverallScore    float64           `json:"overall_score"`
	Status          QualityStatus     `json:"status"`
	Notes           string            `json:"notes,omitempty"`
	CheckDetails    string            `json:"check_details,omitempty"`
	Recommendations string            `json:"recommendations,omitempty"`
	Photos          []QualityPhotoDTO `json:"photos,omitempty"`
	CreatedAt       string            `json:"created_at"`
	UpdatedAt       string            `json:"updated_at"`
}

type TimeEntryDTO struct {
	ID           int64           `json:"id"`
	UserID       int64           `json:"user_id"`
	UserName     string          `json:"user_name"`
	CustomerID   *int64          `json:"customer_id"`
	CustomerName string          `json:"customer_name,omitempty"`
	OrderID      *int64          `json:"order_id"`
	StartTime    string          `json:"start_time"`
	EndTime      string          `json:"end_time,omitempty"`
	Duration     *float64        `json:"duration"`
	Description  string          `json:"description"`
	ActivityType ActivityType    `json:"activity_type"`
	Status       TimeEntryStatus `json:"status"`
	Notes        string          `json:"notes,omitempty"`
	CreatedAt    string          `json:"created_at"`
	UpdatedAt    string          `json:"updated_at"`
}

type UserDTO struct {
	ID          int64    `json:"id"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name"`
	Role        UserRole `json:"role"`
}

// SessionUserDTO identifies who a token was issued to
type SessionUserDTO struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Email      string   `json:"email"`
	Role       UserRole `json:"role"`
	CustomerID *int64   `json:"customer_id,omitempty"`
}

type UserListResponse struct {
	Users []UserDTO `json:"users"`
}

type LoginResponse struct {
	Token     string         `json:"token"`
	ExpiresAt string         `json:"expires_at"`
	User      SessionUserDTO `json:"user"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Pagination is flattened into every list envelope
type Pagination struct {
	Total   int64 `json:"total"`
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Pages   int   `json:"pages"`
}

// NewPagination computes the page count for a result set
func NewPagination(total int64, page, perPage int) Pagination {
	pages := 0
	if perPage > 0 {
		pages = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{Total: total, Page: page, PerPage: perPage, Pages: pages}
}

// List envelopes. Each list endpoint names its collection after the resource.

type CustomerListResponse struct {
	Customers []CustomerDTO `json:"customers"`
	Pagination
}

type OrderListResponse struct {
	Orders []OrderDTO `json:"orders"`
	Pagination
}

type QuoteListResponse struct {
	Quotes []QuoteDTO `json:"quotes"`
	Pagination
}

type QuoteTemplateListResponse struct {
	Templates []QuoteTemplateDTO `json:"templates"`
	Pagination
}

type InvoiceListResponse struct {
	Invoices []InvoiceDTO `json:"invoices"`
	Pagination
}

type CommunicationListResponse struct {
	Communications []CommunicationDTO `json:"communications"`
	Pagination
}

type InventoryListResponse struct {
	InventoryItems []InventoryItemDTO `json:"inventory_items"`
	Pagination
}

type InventoryTransactionListResponse struct {
	Transactions []InventoryTransactionDTO `json:"transactions"`
	Pagination
}

type QualityCheckListResponse struct {
	QualityChecks []QualityCheckDTO `json:"quality_checks"`
	Pagination
}

type TimeEntryListResponse struct {
	TimeEntries []TimeEntryDTO `json:"time_entries"`
	Pagination
}

// Statistics and dashboards

type OrderDashboardDTO struct {
	PendingOrders    int64 `json:"pending_orders"`
	ConfirmedOrders  int64 `json:"confirmed_orders"`
	InProgressOrders int64 `json:"in_progress_orders"`
	CompletedOrders  int64 `json:"completed_orders"`
	TodaysOrders     int64 `json:"todays_orders"`
	ThisWeekOrders   int64 `json:"this_week_orders"`
	TotalCustomers   int64 `json:"total_customers"`
}

type MonthlyAmountDTO struct {
	Month int     `json:"month"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type InvoiceStatisticsDTO struct {
	StatusCounts    map[string]int64   `json:"status_counts"`
	AmountByStatus  map[string]float64 `json:"amount_by_status"`
	MonthlyTotals   []MonthlyAmountDTO `json:"monthly_totals"`
	OverdueInvoices int64              `json:"overdue_invoices"`
}

type InventoryStatisticsDTO struct {
	TotalItems         int64                     `json:"total_items"`
	ActiveItems        int64                     `json:"active_items"`
	LowStockItems      int64                     `json:"low_stock_items"`
	OutOfStockItems    int64                     `json:"out_of_stock_items"`
	TotalValue         float64                   `json:"total_value"`
	CategoryCounts     map[string]int64          `json:"category_counts"`
	RecentTransactions []InventoryTransactionDTO `json:"recent_transactions"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

type MonthlyScoreDTO struct {
	Month        int     `json:"month"`
	AverageScore float64 `json:"average_score"`
	Count        int64   `json:"count"`
}

type QualityStatisticsDTO struct {
	StatusCounts    map[string]int64   `json:"status_counts"`
	AvgScoresByType map[string]float64 `json:"avg_scores_by_type"`
	MonthlyScores   []MonthlyScoreDTO  `json:"monthly_scores"`
	RecentChecks    []QualityCheckDTO  `json:"recent_checks"`
}

type QualityStandardDTO struct {
	MinScore    float64 `json:"min_score" yaml:"min_score"`
	Description string  `json:"description" yaml:"description"`
}

type QualityStandardsResponse struct {
	Standards map[string]map[string]QualityStandardDTO `json:"standards"`
}

type UserHoursDTO struct {
	UserID   int64   `json:"user_id"`
	UserName string  `json:"user_name"`
	Hours    float64 `json:"hours"`
}

type TimeStatisticsDTO struct {
	UserHours     []UserHoursDTO     `json:"user_hours"`
	ActivityHours map[string]float64 `json:"activity_hours"`
	ActiveEntries int64              `json:"active_entries"`
	RecentEntries []TimeEntryDTO     `json:"recent_entries"`
}

// TimeReportRowDTO is one completed entry of a time report
type TimeReportRowDTO struct {
	ID           int64        `json:"id"`
	Date         string       `json:"date"`
	UserID       int64        `json:"user_id"`
	UserName     string       `json:"user_name"`
	CustomerName string       `json:"customer_name,omitempty"`
	ActivityType ActivityType `json:"activity_type"`
	StartTime    string       `json:"start_time"`
	EndTime      string       `json:"end_time"`
	Duration     float64      `json:"duration"`
	Description  string       `json:"description"`
}

type ReportPeriodDTO struct {
	DateFrom string `json:"date_from"`
	DateTo   string `json:"date_to"`
}

type TimeReportDTO struct {
	ReportData []TimeReportRowDTO `json:"report_data"`
	TotalHours float64            `json:"total_hours"`
	Period     ReportPeriodDTO    `json:"period"`
}

// ChangeAction is what happened to a record
type ChangeAction string

const (
	ChangeCreated ChangeAction = "create"
	ChangeUpdated ChangeAction = "update"
	ChangeDeleted ChangeAction = "delete"
)

// ChangeEvent is pushed to change-feed subscribers after a successful mutation
type ChangeEvent struct {
	Type   string       `json:"type"`
	Action ChangeAction `json:"action"`
	ID     int64        `json:"id"`
}

// Request DTOs. The same body is used for create (POST) and full update (PUT).
// Required numeric fields are pointers so an absent or null value fails validation.

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UserRequest creates a staff account
type UserRequest struct {
	Email       string   `json:"email" validate:"required,email,max=255"`
	DisplayName string   `json:"display_name" validate:"required,max=200"`
	Password    string   `json:"password" validate:"required,min=8,max=72"`
	Role        UserRole `json:"role" validate:"required,oneof=admin staff"`
}

type CustomerRequest struct {
	FirstName              string        `json:"first_name" validate:"required,max=100"`
	LastName               string        `json:"last_name" validate:"required,max=100"`
	CompanyName            string        `json:"company_name,omitempty" validate:"max=200"`
	Email                  string        `json:"email" validate:"required,email,max=255"`
	Phone                  string        `json:"phone,omitempty" validate:"max=50"`
	Mobile                 string        `json:"mobile,omitempty" validate:"max=50"`
	Street                 string        `json:"street,omitempty" validate:"max=200"`
	HouseNumber            string        `json:"house_number,omitempty" validate:"max=20"`
	PostalCode             string        `json:"postal_code,omitempty" validate:"max=20"`
	City                   string        `json:"city,omitempty" validate:"max=100"`
	CustomerType           CustomerType  `json:"customer_type,omitempty" validate:"omitempty,oneof=private business"`
	PreferredContactMethod ContactMethod `json:"preferred_contact_method,omitempty" validate:"omitempty,oneof=email phone mobile whatsapp"`
	Notes                  string        `json:"notes,omitempty"`
	IsActive               *bool         `json:"is_active,omitempty"`
}

type PortalAccessRequest struct {
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type OrderRequest struct {
	CustomerID          *int64      `json:"customer_id" validate:"required,gt=0"`
	Title               string      `json:"title" validate:"required,max=200"`
	Description         string      `json:"description,omitempty"`
	ServiceType         ServiceType `json:"service_type" validate:"required,oneof=building_cleaning garden_maintenance winter_service"`
	ServiceStreet       string      `json:"service_street,omitempty" validate:"max=200"`
	ServiceHouseNumber  string      `json:"service_house_number,omitempty" validate:"max=20"`
	ServicePostalCode   string      `json:"service_postal_code,omitempty" validate:"max=20"`
	ServiceCity         string      `json:"service_city,omitempty" validate:"max=100"`
	ScheduledDate       string      `json:"scheduled_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ScheduledTime       string      `json:"scheduled_time,omitempty" validate:"omitempty,datetime=15:04"`
	EstimatedDuration   *int        `json:"estimated_duration" validate:"omitempty,gte=0"`
	EstimatedPrice      *float64    `json:"estimated_price" validate:"omitempty,gte=0"`
	FinalPrice          *float64    `json:"final_price" validate:"omitempty,gte=0"`
	Priority            Priority    `json:"priority,omitempty" validate:"omitempty,oneof=low normal medium high urgent"`
	Status              OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed in_progress completed cancelled"`
	SpecialInstructions string      `json:"special_instructions,omitempty"`
	AccessInstructions  string      `json:"access_instructions,omitempty"`
}

type LineItemRequest struct {
	Description string   `json:"description" validate:"required,max=500"`
	Quantity    *float64 `json:"quantity" validate:"required,gt=0"`
	Unit        string   `json:"unit,omitempty" validate:"max=20"`
	UnitPrice   *float64 `json:"unit_price" validate:"required,gte=0"`
	IsOptional  bool     `json:"is_optional,omitempty"`
	Notes       string   `json:"notes,omitempty"`
}

type QuoteRequest struct {
	CustomerID         *int64            `json:"customer_id" validate:"required,gt=0"`
	Title              string            `json:"title" validate:"required,max=200"`
	Description        string            `json:"description,omitempty"`
	ServiceType        ServiceType       `json:"service_type,omitempty" validate:"omitempty,oneof=building_cleaning garden_maintenance winter_service"`
	ServiceStreet      string            `json:"service_street,omitempty" validate:"max=200"`
	ServiceHouseNumber string            `json:"service_house_number,omitempty" validate:"max=20"`
	ServicePostalCode  string            `json:"service_postal_code,omitempty" validate:"max=20"`
	ServiceCity        string            `json:"service_city,omitempty" validate:"max=100"`
	ValidUntil         string            `json:"valid_until,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TaxRate            *float64          `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	Notes              string            `json:"notes,omitempty"`
	TermsConditions    string            `json:"terms_conditions,omitempty"`
	Items              []LineItemRequest `json:"items" validate:"dive"`
}

type GenerateQuoteRequest struct {
	CustomerID         *int64 `json:"customer_id" validate:"required,gt=0"`
	Title              string `json:"title,omitempty" validate:"max=200"`
	ServiceStreet      string `json:"service_street,omitempty" validate:"max=200"`
	ServiceHouseNumber string `json:"service_house_number,omitempty" validate:"max=20"`
	ServicePostalCode  string `json:"service_postal_code,omitempty" validate:"max=20"`
	ServiceCity        string `json:"service_city,omitempty" validate:"max=100"`
}

type InvoiceRequest struct {
	CustomerID    *int64            `json:"customer_id" validate:"required,gt=0"`
	OrderID       *int64            `json:"order_id" validate:"omitempty,gt=0"`
	InvoiceDate   string            `json:"invoice_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate       string            `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	TaxRate       *float64          `json:"tax_rate" validate:"omitempty,gte=0,lte=100"`
	PaymentMethod PaymentMethod     `json:"payment_method,omitempty" validate:"omitempty,oneof=bank_transfer cash card paypal"`
	Notes         string            `json:"notes,omitempty"`
	Items         []LineItemRequest `json:"items" validate:"required,min=1,dive"`
}

// StatusRequest changes the lifecycle state of a record; allowed values depend on the resource
type StatusRequest struct {
	Status string `json:"status" validate:"required,max=30"`
}

type CommunicationRequest struct {
	CustomerID        *int64              `json:"customer_id" validate:"required,gt=0"`
	OrderID           *int64              `json:"order_id" validate:"omitempty,gt=0"`
	Type              CommunicationType   `json:"type" validate:"required,oneof=email phone whatsapp sms meeting note"`
	Direction         Direction           `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
	Subject           string              `json:"subject,omitempty" validate:"max=300"`
	Content           string              `json:"content" validate:"required"`
	ContactPerson     string              `json:"contact_person,omitempty" validate:"max=200"`
	ContactMethod     string              `json:"contact_method,omitempty" validate:"max=200"`
	Status            CommunicationStatus `json:"status,omitempty" validate:"omitempty,oneof=pending completed follow_up_required"`
	CommunicationDate string              `json:"communication_date,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	FollowUpDate      string              `json:"follow_up_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	FollowUpCompleted bool                `json:"follow_up_completed,omitempty"`
	Tags              string              `json:"tags,omitempty" validate:"max=500"`
	IsImportant       bool                `json:"is_important,omitempty"`
}

type InventoryItemRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Description  string          `json:"description,omitempty"`
	Category     string          `json:"category,omitempty" validate:"max=100"`
	SKU          string          `json:"sku,omitempty" validate:"max=100"`
	Quantity     *int            `json:"quantity" validate:"omitempty,gte=0"`
	Unit         string          `json:"unit,omitempty" validate:"max=20"`
	UnitPrice    *float64        `json:"unit_price" validate:"omitempty,gte=0"`
	ReorderPoint *int            `json:"reorder_point" validate:"omitempty,gte=0"`
	Supplier     string          `json:"supplier,omitempty" validate:"max=200"`
	Location     string          `json:"location,omitempty" validate:"max=200"`
	Status       InventoryStatus `json:"status,omitempty" validate:"omitempty,oneof=active inactive discontinued"`
}

type StockAdjustmentRequest struct {
	TransactionType TransactionType `json:"transaction_type" validate:"required,oneof=in out adjustment"`
	QuantityChange  *int            `json:"quantity_change" validate:"required"`
	Notes           string          `json:"notes,omitempty"`
}

type QualityCheckRequest struct {
	OrderID         *int64        `json:"order_id" validate:"omitempty,gt=0"`
	CustomerID      *int64        `json:"customer_id" validate:"omitempty,gt=0"`
	InspectorName   string        `json:"inspector_name" validate:"required,max=200"`
	CheckDate       string        `json:"check_date" validate:"required,datetime=2006-01-02"`
	CheckType       string        `json:"check_type" validate:"required,oneof=cleaning maintenance inspection final"`
	OverallScore    *float64      `json:"overall_score" validate:"required,gte=0,lte=100"`
	Status          QualityStatus `json:"status,omitempty" validate:"omitempty,oneof=pending in_progress completed failed"`
	Notes           string        `json:"notes,omitempty"`
	CheckDetails    string        `json:"check_details,omitempty"`
	Recommendations string        `json:"recommendations,omitempty"`
}

type TimeEntryRequest struct {
	CustomerID   *int64          `json:"customer_id" validate:"omitempty,gt=0"`
	OrderID      *int64          `json:"order_id" validate:"omitempty,gt=0"`
	StartTime    string          `json:"start_time" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndTime      string          `json:"end_time,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Description  string          `json:"description" validate:"required"`
	ActivityType ActivityType    `json:"activity_type,omitempty" validate:"omitempty,oneof=work break meeting travel"`
	Status       TimeEntryStatus `json:"status,omitempty" validate:"omitempty,oneof=active completed paused cancelled"`
	Notes        string          `json:"notes,omitempty"`
}

type StartTimerRequest struct {
	CustomerID   *int64       `json:"customer_id" validate:"omitempty,gt=0"`
	OrderID      *int64       `json:"order_id" validate:"omitempty,gt=0"`
	Description  string       `json:"description" validate:"required"`
	ActivityType ActivityType `json:"activity_type,omitempty" validate:"omitempty,oneof=work break meeting travel"`
}

type PortalProfileRequest struct {
	Phone                  string        `json:"phone,omitempty" validate:"max=50"`
	Mobile                 string        `json:"mobile,omitempty" validate:"max=50"`
	Street                 string        `json:"street,omitempty" validate:"max=200"`
	HouseNumber            string        `json:"house_number,omitempty" validate:"max=20"`
	PostalCode             string        `json:"postal_code,omitempty" validate:"max=20"`
	City                   string        `json:"city,omitempty" validate:"max=100"`
	PreferredContactMethod ContactMethod `json:"preferred_contact_method,omitempty" validate:"omitempty,oneof=email phone mobile whatsapp"`
}

type PortalMessageRequest struct {
	OrderID *int64 `json:"order_id" validate:"omitempty,gt=0"`
	Subject string `json:"subject,omitempty" validate:"max=300"`
	Content string `json:"content" validate:"required"`
}
