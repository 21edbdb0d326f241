package domain

import (
	"time"
)

// Base model with common fields
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// UserRole is the role of a staff account
type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleStaff    UserRole = "staff"
	RoleCustomer UserRole = "customer"
	RoleSystem   UserRole = "system"
)

// User is a staff account that can sign in to the back office
type User struct {
	BaseModel
	Email        string   `gorm:"type:varchar(255);not null;uniqueIndex"`
	DisplayName  string   `gorm:"type:varchar(200);not null;column:display_name"`
	PasswordHash string   `gorm:"type:varchar(255);not null;column:password_hash"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'staff'"`
	IsActive     bool     `gorm:"not null;column:is_active"`
}

// CustomerType distinguishes private households from business accounts
type CustomerType string

const (
	CustomerTypePrivate  CustomerType = "private"
	CustomerTypeBusiness CustomerType = "business"
)

// ContactMethod is the channel a customer prefers to be reached on
type ContactMethod string

const (
	ContactMethodEmail    ContactMethod = "email"
	ContactMethodPhone    ContactMethod = "phone"
	ContactMethodMobile   ContactMethod = "mobile"
	ContactMethodWhatsApp ContactMethod = "whatsapp"
)

// Customer is a household or business that books cleaning services
type Customer struct {
	BaseModel
	CustomerNumber         string        `gorm:"type:varchar(50);not null;uniqueIndex;column:customer_number"`
	FirstName              string        `gorm:"type:varchar(100);not null;column:first_name"`
	LastName               string        `gorm:"type:varchar(100);not null;column:last_name"`
	CompanyName            string        `gorm:"type:varchar(200);column:company_name"`
	Email                  string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone                  string        `gorm:"type:varchar(50)"`
	Mobile                 string        `gorm:"type:varchar(50)"`
	Street                 string        `gorm:"type:varchar(200)"`
	HouseNumber            string        `gorm:"type:varchar(20);column:house_number"`
	PostalCode             string        `gorm:"type:varchar(20);column:postal_code"`
	City                   string        `gorm:"type:varchar(100)"`
	CustomerType           CustomerType  `gorm:"type:varchar(20);not null;default:'private';column:customer_type;index"`
	PreferredContactMethod ContactMethod `gorm:"type:varchar(20);not null;default:'email';column:preferred_contact_method"`
	Notes                  string        `gorm:"type:text"`
	IsActive               bool          `gorm:"not null;column:is_active;index"`
	PortalPasswordHash     string        `gorm:"type:varchar(255);column:portal_password_hash"`
}

// FullName returns "First Last"
func (c *Customer) FullName() string {
	return c.FirstName + " " + c.LastName
}

// DisplayName prefers the company name for business accounts
func (c *Customer) DisplayName() string {
	if c.CompanyName != "" {
		return c.CompanyName
	}
	return c.FullName()
}

// ServiceType is the line of business an order or quote belongs to
type ServiceType string

const (
	ServiceBuildingCleaning  ServiceType = "building_cleaning"
	ServiceGardenMaintenance ServiceType = "garden_maintenance"
	ServiceWinterService     ServiceType = "winter_service"
)

// OrderStatus is the lifecycle state of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusInProgress OrderStatus = "in_progress"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Priority of an order
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// ServiceAddress is the location where the work is carried out
type ServiceAddress struct {
	ServiceStreet      string `gorm:"type:varchar(200);column:service_street"`
	ServiceHouseNumber string `gorm:"type:varchar(20);column:service_house_number"`
	ServicePostalCode  string `gorm:"type:varchar(20);column:service_postal_code"`
	ServiceCity        string `gorm:"type:varchar(100);column:service_city"`
}

// Order is a booked job for a customer
type Order struct {
	BaseModel
	OrderNumber         string      `gorm:"type:varchar(50);not null;uniqueIndex;column:order_number"`
	CustomerID          int64       `gorm:"not null;column:customer_id;index"`
	Customer            *Customer   `gorm:"foreignKey:CustomerID"`
	Title               string      `gorm:"type:varchar(200);not null"`
	Description         string      `gorm:"type:text"`
	ServiceType         ServiceType `gorm:"type:varchar(50);not null;column:service_type;index"`
	ServiceAddress      `gorm:"embedded"`
	ScheduledDate       *time.Time  `gorm:"type:date;column:scheduled_date"`
	ScheduledTime       string      `gorm:"type:varchar(5);column:scheduled_time"`
	EstimatedDuration   *int        `gorm:"column:estimated_duration"`
	EstimatedPrice      *float64    `gorm:"type:decimal(10,2);column:estimated_price"`
	FinalPrice          *float64    `gorm:"type:decimal(10,2);column:final_price"`
	Priority            Priority    `gorm:"type:varchar(20);not null;default:'normal'"`
	Status              OrderStatus `gorm:"type:varchar(20);not null;default:'pending';index"`
	SpecialInstructions string      `gorm:"type:text;column:special_instructions"`
	AccessInstructions  string      `gorm:"type:text;column:access_instructions"`
	CompletedAt         *time.Time  `gorm:"column:completed_at"`
}

// QuoteStatus is the lifecycle state of a quote
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// Quote is a priced offer sent to a customer before an order is booked
type Quote struct {
	BaseModel
	QuoteNumber     string      `gorm:"type:varchar(50);not null;uniqueIndex;column:quote_number"`
	CustomerID      int64       `gorm:"not null;column:customer_id;index"`
	Customer        *Customer   `gorm:"foreignKey:CustomerID"`
	Title           string      `gorm:"type:varchar(200);not null"`
	Description     string      `gorm:"type:text"`
	ServiceType     ServiceType `gorm:"type:varchar(50);column:service_type"`
	ServiceAddress  `gorm:"embedded"`
	ValidUntil      *time.Time  `gorm:"type:date;column:valid_until"`
	Subtotal        float64     `gorm:"type:decimal(10,2);not null;default:0"`
	TaxRate         float64     `gorm:"type:decimal(5,2);not null;column:tax_rate"`
	TaxAmount       float64     `gorm:"type:decimal(10,2);not null;default:0;column:tax_amount"`
	TotalAmount     float64     `gorm:"type:decimal(10,2);not null;default:0;column:total_amount"`
	Status          QuoteStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	Notes           string      `gorm:"type:text"`
	TermsConditions string      `gorm:"type:text;column:terms_conditions"`
	SentAt          *time.Time  `gorm:"column:sent_at"`
	AcceptedAt      *time.Time  `gorm:"column:accepted_at"`
	Items           []QuoteItem `gorm:"foreignKey:QuoteID;constraint:OnDelete:CASCADE"`
}

// QuoteItem is a priced line on a quote
type QuoteItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	QuoteID     int64   `gorm:"not null;column:quote_id;index"`
	Description string  `gorm:"type:varchar(500);not null"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null"`
	Unit        string  `gorm:"type:varchar(20);not null;default:'Stück'"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null;column:unit_price"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null;column:total_price"`
	IsOptional  bool    `gorm:"not null;default:false;column:is_optional"`
	SortOrder   int     `gorm:"not null;default:0;column:sort_order"`
	Notes       string  `gorm:"type:text"`
}

// QuoteTemplate seeds new quotes for a standard service package
type QuoteTemplate struct {
	BaseModel
	Name                string              `gorm:"type:varchar(200);not null;uniqueIndex"`
	ServiceType         ServiceType         `gorm:"type:varchar(50);not null;column:service_type"`
	Description         string              `gorm:"type:text"`
	DefaultTitle        string              `gorm:"type:varchar(200);column:default_title"`
	DefaultDescription  string              `gorm:"type:text;column:default_description"`
	DefaultTerms        string              `gorm:"type:text;column:default_terms"`
	DefaultValidityDays int                 `gorm:"not null;default:30;column:default_validity_days"`
	IsActive            bool                `gorm:"not null;column:is_active"`
	Items               []QuoteTemplateItem `gorm:"foreignKey:TemplateID;constraint:OnDelete:CASCADE"`
}

// QuoteTemplateItem is a default line of a template
type QuoteTemplateItem struct {
	ID               int64   `gorm:"primaryKey;autoIncrement"`
	TemplateID       int64   `gorm:"not null;column:template_id;index"`
	Description      string  `gorm:"type:varchar(500);not null"`
	DefaultQuantity  float64 `gorm:"type:decimal(10,2);not null;default:1;column:default_quantity"`
	Unit             string  `gorm:"type:varchar(20);not null;default:'Stück'"`
	DefaultUnitPrice float64 `gorm:"type:decimal(10,2);not null;default:0;column:default_unit_price"`
	IsOptional       bool    `gorm:"not null;default:false;column:is_optional"`
	SortOrder        int     `gorm:"not null;default:0;column:sort_order"`
	Notes            string  `gorm:"type:text"`
}

// InvoiceStatus is the lifecycle state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// PaymentMethod of an invoice
type PaymentMethod string

const (
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentPayPal       PaymentMethod = "paypal"
)

// Invoice bills a customer, optionally for a specific order
type Invoice struct {
	BaseModel
	InvoiceNumber string        `gorm:"type:varchar(50);not null;uniqueIndex;column:invoice_number"`
	CustomerID    int64         `gorm:"not null;column:customer_id;index"`
	Customer      *Customer     `gorm:"foreignKey:CustomerID"`
	OrderID       *int64        `gorm:"column:order_id;index"`
	InvoiceDate   time.Time     `gorm:"type:date;not null;column:invoice_date"`
	DueDate       *time.Time    `gorm:"type:date;column:due_date"`
	Subtotal      float64       `gorm:"type:decimal(10,2);not null;default:0"`
	TaxRate       float64       `gorm:"type:decimal(5,2);not null;column:tax_rate"`
	TaxAmount     float64       `gorm:"type:decimal(10,2);not null;default:0;column:tax_amount"`
	TotalAmount   float64       `gorm:"type:decimal(10,2);not null;default:0;column:total_amount"`
	Status        InvoiceStatus `gorm:"type:varchar(20);not null;default:'draft';index"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null;default:'bank_transfer';column:payment_method"`
	PaymentDate   *time.Time    `gorm:"type:date;column:payment_date"`
	SentAt        *time.Time    `gorm:"column:sent_at"`
	Notes         string        `gorm:"type:text"`
	Items         []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE"`
}

// InvoiceItem is a billed line
type InvoiceItem struct {
	ID          int64   `gorm:"primaryKey;autoIncrement"`
	InvoiceID   int64   `gorm:"not null;column:invoice_id;index"`
	Description string  `gorm:"type:varchar(500);not null"`
	Quantity    float64 `gorm:"type:decimal(10,2);not null"`
	Unit        string  `gorm:"type:varchar(20);not null;default:'Stk'"`
	UnitPrice   float64 `gorm:"type:decimal(10,2);not null;column:unit_price"`
	TotalPrice  float64 `gorm:"type:decimal(10,2);not null;column:total_price"`
}

// CommunicationType is the channel of a logged interaction
type CommunicationType string

const (
	CommunicationEmail    CommunicationType = "email"
	CommunicationPhone    CommunicationType = "phone"
	CommunicationWhatsApp CommunicationType = "whatsapp"
	CommunicationSMS      CommunicationType = "sms"
	CommunicationMeeting  CommunicationType = "meeting"
	CommunicationNote     CommunicationType = "note"
)

// Direction of a communication
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// CommunicationStatus tracks whether a communication needs follow-up
type CommunicationStatus string

const (
	CommunicationStatusPending          CommunicationStatus = "pending"
	CommunicationStatusCompleted        CommunicationStatus = "completed"
	CommunicationStatusFollowUpRequired CommunicationStatus = "follow_up_required"
)

// Communication is an entry in the customer interaction log
type Communication struct {
	BaseModel
	CustomerID        int64               `gorm:"not null;column:customer_id;index"`
	Customer          *Customer           `gorm:"foreignKey:CustomerID"`
	OrderID           *int64              `gorm:"column:order_id"`
	Type              CommunicationType   `gorm:"type:varchar(20);not null;index"`
	Direction         Direction           `gorm:"type:varchar(20);not null;default:'outbound'"`
	Subject           string              `gorm:"type:varchar(300)"`
	Content           string              `gorm:"type:text;not null"`
	ContactPerson     string              `gorm:"type:varchar(200);column:contact_person"`
	ContactMethod     string              `gorm:"type:varchar(200);column:contact_method"`
	Status            CommunicationStatus `gorm:"type:varchar(30);not null;default:'completed';index"`
	CommunicationDate time.Time           `gorm:"not null;column:communication_date"`
	FollowUpDate      *time.Time          `gorm:"type:date;column:follow_up_date"`
	FollowUpCompleted bool                `gorm:"not null;default:false;column:follow_up_completed"`
	Tags              string              `gorm:"type:varchar(500)"`
	IsImportant       bool                `gorm:"not null;default:false;column:is_important"`
	CreatedBy         string              `gorm:"type:varchar(200);column:created_by"`
}

// InventoryStatus of a stock item
type InventoryStatus string

const (
	InventoryStatusActive       InventoryStatus = "active"
	InventoryStatusInactive     InventoryStatus = "inactive"
	InventoryStatusDiscontinued InventoryStatus = "discontinued"
)

// InventoryItem is a stocked consumable, tool or machine
type InventoryItem struct {
	BaseModel
	Name         string          `gorm:"type:varchar(200);not null;index"`
	Description  string          `gorm:"type:text"`
	Category     string          `gorm:"type:varchar(100);index"`
	SKU          string          `gorm:"type:varchar(100);column:sku"`
	Quantity     int             `gorm:"not null;default:0"`
	Unit         string          `gorm:"type:varchar(20);not null;default:'Stück'"`
	UnitPrice    float64         `gorm:"type:decimal(10,2);not null;default:0;column:unit_price"`
	ReorderPoint int             `gorm:"not null;default:0;column:reorder_point"`
	Supplier     string          `gorm:"type:varchar(200)"`
	Location     string          `gorm:"type:varchar(200)"`
	Status       InventoryStatus `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TransactionType is the kind of stock movement
type TransactionType string

const (
	TransactionIn         TransactionType = "in"
	TransactionOut        TransactionType = "out"
	TransactionAdjustment TransactionType = "adjustment"
)

// InventoryTransaction records one stock movement of an item
type InventoryTransaction struct {
	ID              int64           `gorm:"primaryKey;autoIncrement"`
	ItemID          int64           `gorm:"not null;column:item_id;index"`
	Item            *InventoryItem  `gorm:"foreignKey:ItemID"`
	TransactionType TransactionType `gorm:"type:varchar(20);not null;column:transaction_type"`
	QuantityChange  int             `gorm:"not null;column:quantity_change"`
	QuantityBefore  int             `gorm:"not null;column:quantity_before"`
	QuantityAfter   int             `gorm:"not null;column:quantity_after"`
	Notes           string          `gorm:"type:text"`
	CreatedBy       string          `gorm:"type:varchar(200);column:created_by"`
	CreatedAt       time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// QualityStatus is the state of an inspection
type QualityStatus string

const (
	QualityStatusPending    QualityStatus = "pending"
	QualityStatusInProgress QualityStatus = "in_progress"
	QualityStatusCompleted  QualityStatus = "completed"
	QualityStatusFailed     QualityStatus = "failed"
)

// QualityCheck is an inspection of delivered work
type QualityCheck struct {
	BaseModel
	OrderID         *int64         `gorm:"column:order_id;index"`
	CustomerID      *int64         `gorm:"column:customer_id;index"`
	Customer        *Customer      `gorm:"foreignKey:CustomerID"`
	InspectorName   string         `gorm:"type:varchar(200);not null;column:inspector_name"`
	CheckDate       time.Time      `gorm:"type:date;not null;column:check_date"`
	CheckType       string         `gorm:"type:varchar(50);not null;column:check_type;index"`
	OverallScore    float64        `gorm:"type:decimal(5,2);not null;column:overall_score"`
	Status          QualityStatus  `gorm:"type:varchar(20);not null;default:'pending';index"`
	Notes           string         `gorm:"type:text"`
	CheckDetails    string         `gorm:"type:text;column:check_details"`
	Recommendations string         `gorm:"type:text"`
	Photos          []QualityPhoto `gorm:"foreignKey:QualityCheckID;constraint:OnDelete:CASCADE"`
}

// QualityPhoto is evidence attached to an inspection
type QualityPhoto struct {
	BaseModel
	QualityCheckID int64  `gorm:"not null;column:quality_check_id;index"`
	Filename       string `gorm:"type:varchar(255);not null"`
	ContentType    string `gorm:"type:varchar(100);not null;column:content_type"`
	Size           int64  `gorm:"not null"`
	StoragePath    string `gorm:"type:varchar(500);not null;column:storage_path"`
	Caption        string `gorm:"type:varchar(500)"`
}

// TimeEntryStatus is the state of a time entry
type TimeEntryStatus string

const (
	TimeEntryActive    TimeEntryStatus = "active"
	TimeEntryCompleted TimeEntryStatus = "completed"
	TimeEntryPaused    TimeEntryStatus = "paused"
	TimeEntryCancelled TimeEntryStatus = "cancelled"
)

// ActivityType classifies logged time
type ActivityType string

const (
	ActivityWork    ActivityType = "work"
	ActivityBreak   ActivityType = "break"
	ActivityMeeting ActivityType = "meeting"
	ActivityTravel  ActivityType = "travel"
)

// TimeEntry is logged working time of a staff member
type TimeEntry struct {
	BaseModel
	UserID       int64           `gorm:"not null;column:user_id;index"`
	UserName     string          `gorm:"type:varchar(200);not null;column:user_name"`
	CustomerID   *int64          `gorm:"column:customer_id;index"`
	Customer     *Customer       `gorm:"foreignKey:CustomerID"`
	OrderID      *int64          `gorm:"column:order_id"`
	StartTime    time.Time       `gorm:"not null;column:start_time"`
	EndTime      *time.Time      `gorm:"column:end_time"`
	Duration     *float64        `gorm:"type:decimal(6,2)"`
	Description  string          `gorm:"type:text;not null"`
	ActivityType ActivityType    `gorm:"type:varchar(20);not null;default:'work';column:activity_type"`
	Status       TimeEntryStatus `gorm:"type:varchar(20);not null;default:'completed';index"`
	Notes        string          `gorm:"type:text"`
}

// NumberSequence holds the last issued document number per prefix and year
type NumberSequence struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Prefix       string `gorm:"type:varchar(10);not null;uniqueIndex:idx_number_sequence_prefix_year"`
	Year         int    `gorm:"not null;uniqueIndex:idx_number_sequence_prefix_year"`
	LastSequence int    `gorm:"not null;default:0;column:last_sequence"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AllModels lists every persisted type in dependency order
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Customer{},
		&Order{},
		&Quote{},
		&QuoteItem{},
		&QuoteTemplate{},
		&QuoteTemplateItem{},
		&Invoice{},
		&InvoiceItem{},
		&Communication{},
		&InventoryItem{},
		&InventoryTransaction{},
		&QualityCheck{},
		&QualityPhoto{},
		&TimeEntry{},
		&NumberSequence{},
	}
}
