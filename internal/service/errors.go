package service

import "errors"

// Common service errors
var (
	// ErrNotFound is returned when a resource is not found
	ErrNotFound = errors.New("resource not found")

	// ErrInvalidInput is returned when input fails a business rule
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidStatus is returned for a status value the resource does not know
	ErrInvalidStatus = errors.New("invalid status")

	// ErrUnauthorized is returned when user is not authenticated
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidCredentials is returned by logins with an unknown email or a wrong password
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrUserContextRequired is returned by operations that record who acted
	ErrUserContextRequired = errors.New("user context required")
)

// Resource errors
var (
	ErrCustomerNotFound      = errors.New("customer not found")
	ErrDuplicateEmail        = errors.New("a customer with this email already exists")
	ErrOrderNotFound         = errors.New("order not found")
	ErrQuoteNotFound         = errors.New("quote not found")
	ErrTemplateNotFound      = errors.New("quote template not found")
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrInvoiceNotDraft       = errors.New("only draft invoices can be sent")
	ErrCommunicationNotFound = errors.New("communication not found")
	ErrInventoryNotFound     = errors.New("inventory item not found")
	ErrInsufficientStock     = errors.New("insufficient stock")
	ErrInvalidCategory       = errors.New("unknown inventory category")
	ErrQualityCheckNotFound  = errors.New("quality check not found")
	ErrPhotoNotFound         = errors.New("photo not found")
	ErrInvalidPhoto          = errors.New("photo must be a JPEG, PNG or WebP image")
	ErrTimeEntryNotFound     = errors.New("time entry not found")
	ErrTimeEntryNotActive    = errors.New("time entry is not running")
	ErrInvalidTimeRange      = errors.New("end time must not be before start time")

	// ErrUnknownCustomer and ErrUnknownOrder are returned when a request
	// references a record that does not exist
	ErrUnknownCustomer = errors.New("referenced customer does not exist")
	ErrUnknownOrder    = errors.New("referenced order does not exist")
)
