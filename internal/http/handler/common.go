package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

// maxBodyBytes bounds JSON request bodies
const maxBodyBytes = 1 << 20

var validate = newValidator()

// newValidator reports fields under their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondCreated answers a POST with 201, the new record and its location
func respondCreated(w http.ResponseWriter, r *http.Request, id int64, data interface{}) {
	w.Header().Set("Location", strings.TrimSuffix(r.URL.Path, "/")+"/"+formatID(id))
	respondJSON(w, http.StatusCreated, data)
}

// respondValidationError sends a standardized validation error response with specific field messages
func respondValidationError(w http.ResponseWriter, err error) {
	fieldErrors := make(map[string]string)
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fieldErrors[fieldPath(fe)] = formatValidationError(fe)
		}
	}

	respondJSON(w, http.StatusBadRequest, domain.APIError{
		Type:   domain.ErrorTypeValidation,
		Title:  "Validation Error",
		Status: http.StatusBadRequest,
		Detail: "One or more fields failed validation",
		Errors: fieldErrors,
	})
}

// fieldPath is the JSON path of the failing field without the root struct,
// e.g. "items[0].unit_price"
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return "Must be a valid email address"
	case "max":
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "min":
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fe.Param())
	case "lte":
		return fmt.Sprintf("Must be less than or equal to %s", fe.Param())
	case "lt":
		return fmt.Sprintf("Must be less than %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", fe.Param())
	case "datetime":
		return fmt.Sprintf("Must match the format %s", fe.Param())
	default:
		return domain.ValidationMessage(fe.Tag())
	}
}

// respondWithError sends a problem body derived from status
func respondWithError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, domain.NewProblem(status, message))
}

var errorStatus = []struct {
	status int
	errs   []error
}{
	{http.StatusNotFound, []error{
		service.ErrNotFound, service.ErrCustomerNotFound, service.ErrOrderNotFound,
		service.ErrQuoteNotFound, service.ErrTemplateNotFound, service.ErrInvoiceNotFound,
		service.ErrCommunicationNotFound, service.ErrInventoryNotFound,
		service.ErrQualityCheckNotFound, service.ErrPhotoNotFound, service.ErrTimeEntryNotFound,
	}},
	{http.StatusConflict, []error{
		service.ErrInvoiceNotDraft, service.ErrTimeEntryNotActive,
		service.ErrInsufficientStock, service.ErrDuplicateEmail,
	}},
	{http.StatusBadRequest, []error{
		service.ErrInvalidInput, service.ErrInvalidStatus, service.ErrInvalidCategory,
		service.ErrInvalidPhoto, service.ErrInvalidTimeRange,
		service.ErrUnknownCustomer, service.ErrUnknownOrder,
	}},
	{http.StatusUnauthorized, []error{service.ErrUnauthorized, service.ErrInvalidCredentials}},
	{http.StatusForbidden, []error{service.ErrUserContextRequired}},
}

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	for _, group := range errorStatus {
		for _, target := range group.errs {
			if errors.Is(err, target) {
				return group.status
			}
		}
	}
	return http.StatusInternalServerError
}

// respondServiceError answers with the status of a known service error. Anything
// else is logged and hidden behind a generic 500.
func respondServiceError(w http.ResponseWriter, logger *zap.Logger, err error, action string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("failed to "+action, zap.Error(err))
		respondWithError(w, status, "Failed to "+action)
		return
	}
	respondWithError(w, status, err.Error())
}

// decodeAndValidate reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		respondValidationError(w, err)
		return false
	}
	return true
}

// parseID reads a positive int64 path parameter
func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s", param))
		return 0, false
	}
	return id, true
}

// listParams reads page, per_page, sort_by and sort_order
func listParams(r *http.Request) (repository.Page, repository.SortConfig) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	p := repository.Page{Page: page, PerPage: perPage}.Normalize()
	return p, repository.SortConfig{
		Field: q.Get("sort_by"),
		Order: repository.ParseSortOrder(q.Get("sort_order")),
	}
}

// queryInt64 reads an optional integer filter. A malformed value is an error.
func queryInt64(r *http.Request, key string) (*int64, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

// queryBool reads an optional boolean filter
func queryBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s", key)
	}
	return &v, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
