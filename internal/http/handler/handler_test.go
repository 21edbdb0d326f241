package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/http/handler"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type handlers struct {
	db        *gorm.DB
	staff     *domain.User
	customer  *handler.CustomerHandler
	inventory *handler.InventoryHandler
	timeEntry *handler.TimeEntryHandler
}

func setupHandlers(t *testing.T) *handlers {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	catalog, err := seed.Load()
	require.NoError(t, err)

	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), nil, logger)

	return &handlers{
		db:    db,
		staff: testutil.CreateTestUser(t, db, "erika@glanzwerk.de", domain.RoleStaff),
		customer: handler.NewCustomerHandler(
			service.NewCustomerService(customerRepo, numbers, nil, logger), logger),
		inventory: handler.NewInventoryHandler(
			service.NewInventoryService(repository.NewInventoryRepository(db), catalog, nil, logger), logger),
		timeEntry: handler.NewTimeEntryHandler(
			service.NewTimeEntryService(repository.NewTimeEntryRepository(db), customerRepo, orderRepo, nil, nil, logger), logger),
	}
}

func (h *handlers) staffContext() context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      h.staff.ID,
		DisplayName: h.staff.DisplayName,
		Email:       h.staff.Email,
		Role:        domain.RoleStaff,
	})
}

func jsonBody(t *testing.T, v interface{}) *bytes.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// withURLParams attaches chi route parameters to the request
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) domain.APIError {
	t.Helper()
	var apiErr domain.APIError
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &apiErr))
	return apiErr
}

func TestCustomerHandler_Create(t *testing.T) {
	h := setupHandlers(t)

	t.Run("created with location", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/customers", jsonBody(t, map[string]interface{}{
			"first_name": "Anna",
			"last_name":  "Schmidt",
			"email":      "anna@example.de",
		}))
		req = req.WithContext(h.staffContext())
		rr := httptest.NewRecorder()

		h.customer.Create(rr, req)

		require.Equal(t, http.StatusCreated, rr.Code)
		var created domain.CustomerDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
		assert.True(t, strings.HasPrefix(created.CustomerNumber, "CUST-"))
		assert.Equal(t, domain.CustomerTypePrivate, created.CustomerType)
		assert.Equal(t, "/api/customers/"+jsonID(created.ID), rr.Header().Get("Location"))
	})

	t.Run("validation errors use json names", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/customers", jsonBody(t, map[string]interface{}{
			"first_name": "Anna",
			"email":      "not-an-email",
		}))
		rr := httptest.NewRecorder()

		h.customer.Create(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
		apiErr := decodeError(t, rr)
		assert.Equal(t, domain.ErrorTypeValidation, apiErr.Type)
		assert.Contains(t, apiErr.Errors, "last_name")
		assert.Contains(t, apiErr.Errors, "email")
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/customers", strings.NewReader("{"))
		rr := httptest.NewRecorder()

		h.customer.Create(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		testutil.CreateTestCustomer(t, h.db, "Max", "Muster", "max@example.de")
		req := httptest.NewRequest(http.MethodPost, "/api/customers", jsonBody(t, map[string]interface{}{
			"first_name": "Max",
			"last_name":  "Zweit",
			"email":      "max@example.de",
		}))
		rr := httptest.NewRecorder()

		h.customer.Create(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, domain.ErrorTypeConflict, decodeError(t, rr).Type)
	})
}

func TestCustomerHandler_List(t *testing.T) {
	h := setupHandlers(t)
	testutil.CreateTestCustomer(t, h.db, "Anna", "Schmidt", "anna@example.de")
	testutil.CreateTestCustomer(t, h.db, "Bernd", "Weber", "bernd@example.de")
	testutil.CreateTestCustomer(t, h.db, "Clara", "Schmidt", "clara@example.de")

	t.Run("envelope with pagination", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/customers?per_page=2", nil)
		rr := httptest.NewRecorder()

		h.customer.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var result domain.CustomerListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Len(t, result.Customers, 2)
		assert.Equal(t, int64(3), result.Total)
		assert.Equal(t, 2, result.PerPage)
		assert.Equal(t, 2, result.Pages)
	})

	t.Run("search filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/customers?search=Schmidt", nil)
		rr := httptest.NewRecorder()

		h.customer.List(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var result domain.CustomerListResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &result))
		assert.Equal(t, int64(2), result.Total)
	})

	t.Run("malformed boolean filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/customers?is_active=maybe", nil)
		rr := httptest.NewRecorder()

		h.customer.List(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCustomerHandler_GetByID(t *testing.T) {
	h := setupHandlers(t)
	customer := testutil.CreateTestCustomer(t, h.db, "Anna", "Schmidt", "anna@example.de")

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"found", jsonID(customer.ID), http.StatusOK},
		{"missing", "9999", http.StatusNotFound},
		{"not a number", "abc", http.StatusBadRequest},
		{"zero", "0", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/customers/"+tt.id, nil), map[string]string{"id": tt.id})
			rr := httptest.NewRecorder()

			h.customer.GetByID(rr, req)

			assert.Equal(t, tt.status, rr.Code)
		})
	}
}

func TestCustomerHandler_Delete_Deactivates(t *testing.T) {
	h := setupHandlers(t)
	customer := testutil.CreateTestCustomer(t, h.db, "Anna", "Schmidt", "anna@example.de")

	req := withURLParams(httptest.NewRequest(http.MethodDelete, "/api/customers/1", nil), map[string]string{"id": jsonID(customer.ID)})
	rr := httptest.NewRecorder()
	h.customer.Delete(rr, req)

	require.Equal(t, http.StatusNoContent, rr.Code)
	var stored domain.Customer
	require.NoError(t, h.db.First(&stored, customer.ID).Error)
	assert.False(t, stored.IsActive)
}

func TestInventoryHandler_Adjust(t *testing.T) {
	h := setupHandlers(t)
	item := &domain.InventoryItem{Name: "Glasreiniger", Category: "Reinigungsmittel", Quantity: 5, Unit: "Flasche", Status: domain.InventoryStatusActive}
	require.NoError(t, h.db.Create(item).Error)
	id := jsonID(item.ID)

	adjust := func(t *testing.T, body map[string]interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/inventory/"+id+"/adjust", jsonBody(t, body))
		req = withURLParams(req.WithContext(h.staffContext()), map[string]string{"id": id})
		rr := httptest.NewRecorder()
		h.inventory.Adjust(rr, req)
		return rr
	}

	t.Run("out subtracts", func(t *testing.T) {
		rr := adjust(t, map[string]interface{}{"transaction_type": "out", "quantity_change": 3})

		require.Equal(t, http.StatusOK, rr.Code)
		var tx domain.InventoryTransactionDTO
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tx))
		assert.Equal(t, 5, tx.QuantityBefore)
		assert.Equal(t, 2, tx.QuantityAfter)
		assert.Equal(t, h.staff.DisplayName, tx.CreatedBy)
	})

	t.Run("insufficient stock conflicts", func(t *testing.T) {
		rr := adjust(t, map[string]interface{}{"transaction_type": "out", "quantity_change": 10})

		assert.Equal(t, http.StatusConflict, rr.Code)
		var stored domain.InventoryItem
		require.NoError(t, h.db.First(&stored, item.ID).Error)
		assert.Equal(t, 2, stored.Quantity)
	})

	t.Run("quantity change is required", func(t *testing.T) {
		rr := adjust(t, map[string]interface{}{"transaction_type": "in"})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, decodeError(t, rr).Errors, "quantity_change")
	})
}

func TestTimeEntryHandler_StartStop(t *testing.T) {
	h := setupHandlers(t)

	t.Run("start requires a staff session", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/time-entries/start", jsonBody(t, map[string]interface{}{"description": "Treppenhaus"}))
		rr := httptest.NewRecorder()

		h.timeEntry.Start(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/time-entries/start", jsonBody(t, map[string]interface{}{"description": "Treppenhaus"}))
	req = req.WithContext(h.staffContext())
	rr := httptest.NewRecorder()
	h.timeEntry.Start(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	var entry domain.TimeEntryDTO
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entry))
	assert.Equal(t, domain.TimeEntryActive, entry.Status)
	assert.Equal(t, h.staff.ID, entry.UserID)

	stop := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/time-entries/"+jsonID(entry.ID)+"/stop", nil)
		req = withURLParams(req.WithContext(h.staffContext()), map[string]string{"id": jsonID(entry.ID)})
		rr := httptest.NewRecorder()
		h.timeEntry.Stop(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, stop().Code)
	assert.Equal(t, http.StatusConflict, stop().Code, "stopping twice")
}

func jsonID(id int64) string {
	return strconv.FormatInt(id, 10)
}
