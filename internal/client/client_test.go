package client_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var session = &client.Session{Token: "tok", User: domain.SessionUserDTO{ID: 1, Role: domain.RoleAdmin}}

func newClient(t *testing.T, url string, timeout int) *client.Client {
	t.Helper()
	c, err := client.New(&config.ClientConfig{BaseURL: url, Timeout: timeout}, zap.NewNop())
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_RejectsInvalidBaseURL(t *testing.T) {
	for _, base := range []string{"", "ftp://example.com", "://broken"} {
		_, err := client.New(&config.ClientConfig{BaseURL: base}, zap.NewNop())
		assert.Error(t, err, base)
	}
}

func TestResource_ListDecodesEnvelope(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/customers", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		gotQuery = r.URL.Query()
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"customers": []domain.CustomerDTO{{ID: 1, LastName: "Schmidt"}, {ID: 2, LastName: "Meyer"}},
			"total":     12,
			"page":      1,
			"per_page":  2,
			"pages":     6,
		})
	}))
	defer server.Close()

	c := newClient(t, server.URL, 5)
	page, err := c.Customers().List(context.Background(), session, url.Values{"search": {"sch"}, "per_page": {"2"}})
	require.NoError(t, err)

	assert.Equal(t, "sch", gotQuery.Get("search"))
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Meyer", page.Items[1].LastName)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 6, page.Pages)
}

func TestResource_ListAcceptsBareArray(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []domain.OrderDTO{{ID: 4}, {ID: 5}, {ID: 6}})
	}))
	defer server.Close()

	page, err := newClient(t, server.URL, 5).Orders().List(context.Background(), session, nil)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Equal(t, int64(3), page.Total)
}

func TestResource_ListEmptyEnvelope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"invoices": null, "total": 0, "page": 1, "per_page": 50, "pages": 0}`))
	}))
	defer server.Close()

	page, err := newClient(t, server.URL, 5).Invoices().List(context.Background(), session, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestResource_MalformedResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"garbage", "<html>oops</html>"},
		{"missing list field", `{"orders": [], "total": 0}`},
		{"wrong item type", `{"customers": [1, 2]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newClient(t, server.URL, 5).Customers().List(context.Background(), session, nil)
			assert.ErrorIs(t, err, client.ErrMalformedResponse)
		})
	}
}

func TestResource_GetEmptyBodyIsMalformed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, 5).Quotes().Get(context.Background(), session, 3)
	assert.ErrorIs(t, err, client.ErrMalformedResponse)
}

func TestResource_StatusErrorCarriesProblemDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		writeJSON(w, http.StatusBadRequest, domain.APIError{
			Type:   "validation_error",
			Title:  "Validation Failed",
			Status: http.StatusBadRequest,
			Detail: "One or more fields failed validation",
			Errors: map[string]string{"email": "must be a valid email address"},
		})
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, 5).Customers().Create(context.Background(), session, domain.CustomerRequest{})
	require.Error(t, err)

	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadRequest, se.StatusCode)
	assert.Equal(t, "validation_error", se.Type)
	assert.Equal(t, "must be a valid email address", se.Fields["email"])
	assert.True(t, client.IsStatus(err, http.StatusBadRequest))
	assert.False(t, client.IsStatus(err, http.StatusNotFound))
}

func TestResource_StatusErrorWithoutBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	err := newClient(t, server.URL, 5).Orders().Delete(context.Background(), session, 9)
	var se *client.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusBadGateway, se.StatusCode)
	assert.Equal(t, "Bad Gateway", se.Detail)
}

func TestResource_UpdateSendsPut(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/communications/17", r.URL.Path)
		var body domain.CommunicationRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(w, http.StatusOK, domain.CommunicationDTO{ID: 17, Subject: body.Subject})
	}))
	defer server.Close()

	got, err := newClient(t, server.URL, 5).Communications().Update(context.Background(), session, 17,
		domain.CommunicationRequest{Subject: "Rückruf"})
	require.NoError(t, err)
	assert.Equal(t, "Rückruf", got.Subject)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	base := server.URL
	server.Close()

	_, err := newClient(t, base, 5).Inventory().List(context.Background(), session, nil)
	assert.ErrorIs(t, err, client.ErrTransport)
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := newClient(t, server.URL, 5).TimeEntries().List(ctx, session, nil)
	assert.ErrorIs(t, err, client.ErrTransport)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestClient_NoSessionIssuesNoRequest(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	c := newClient(t, server.URL, 5)
	_, err := c.Customers().List(context.Background(), nil, nil)
	assert.ErrorIs(t, err, client.ErrNoSession)
	_, err = c.Me(context.Background(), &client.Session{})
	assert.ErrorIs(t, err, client.ErrNoSession)
	assert.ErrorIs(t, c.Export(context.Background(), nil, "customers", &bytes.Buffer{}), client.ErrNoSession)
	assert.Zero(t, calls.Load())
}

func TestClient_Login(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))

		var req domain.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		if req.Password != "geheim" {
			writeJSON(w, http.StatusUnauthorized, domain.APIError{Type: "unauthorized", Status: 401, Detail: "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, domain.LoginResponse{
			Token:     "session-token",
			ExpiresAt: "2026-01-02T15:04:05Z",
			User:      domain.SessionUserDTO{ID: 3, Name: "Anna", Email: req.Email, Role: domain.RoleAdmin},
		})
	}))
	defer server.Close()

	c := newClient(t, server.URL, 5)

	s, err := c.Login(context.Background(), "anna@glanzwerk.de", "geheim")
	require.NoError(t, err)
	assert.Equal(t, "session-token", s.Token)
	assert.Equal(t, int64(3), s.User.ID)
	assert.Equal(t, 2026, s.ExpiresAt.Year())

	_, err = c.Login(context.Background(), "anna@glanzwerk.de", "falsch")
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}

func TestClient_Actions(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method + " " + r.URL.Path {
		case "PUT /api/orders/5/status":
			var req domain.StatusRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			writeJSON(w, http.StatusOK, domain.OrderDTO{ID: 5, Status: domain.OrderStatus(req.Status)})
		case "POST /api/invoices/8/send":
			writeJSON(w, http.StatusConflict, domain.APIError{Type: "conflict", Status: 409, Detail: "Only draft invoices can be sent"})
		case "GET /api/time-entries/report":
			assert.Equal(t, "2024-03-01", r.URL.Query().Get("date_from"))
			assert.Equal(t, "7", r.URL.Query().Get("user_id"))
			assert.False(t, r.URL.Query().Has("date_to"))
			writeJSON(w, http.StatusOK, domain.TimeReportDTO{})
		case "GET /api/inventory/categories":
			writeJSON(w, http.StatusOK, domain.CategoriesResponse{Categories: []string{"Reinigungsmittel"}})
		case "GET /api/export/customers":
			w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
			_, _ = w.Write([]byte("PK\x03\x04"))
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	c := newClient(t, server.URL, 5)
	ctx := context.Background()

	order, err := c.SetOrderStatus(ctx, session, 5, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, order.Status)

	_, err = c.SendInvoice(ctx, session, 8)
	assert.True(t, client.IsStatus(err, http.StatusConflict))

	userID := int64(7)
	_, err = c.TimeReport(ctx, session, "2024-03-01", "", &userID)
	require.NoError(t, err)

	categories, err := c.InventoryCategories(ctx, session)
	require.NoError(t, err)
	assert.Equal(t, []string{"Reinigungsmittel"}, categories)

	var buf bytes.Buffer
	require.NoError(t, c.Export(ctx, session, "customers", &buf))
	assert.Equal(t, "PK\x03\x04", buf.String())
}

func TestClient_Overview(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/orders/dashboard", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.OrderDashboardDTO{PendingOrders: 4, TotalCustomers: 10})
	})
	mux.HandleFunc("/api/invoices/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.InvoiceStatisticsDTO{OverdueInvoices: 2})
	})
	mux.HandleFunc("/api/inventory/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.InventoryStatisticsDTO{LowStockItems: 3})
	})
	mux.HandleFunc("/api/quality-checks/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.QualityStatisticsDTO{})
	})
	mux.HandleFunc("/api/time-entries/statistics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, domain.TimeStatisticsDTO{ActiveEntries: 1})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	overview, err := newClient(t, server.URL, 5).Overview(context.Background(), session)
	require.NoError(t, err)
	assert.Equal(t, int64(4), overview.Orders.PendingOrders)
	assert.Equal(t, int64(2), overview.Invoices.OverdueInvoices)
	assert.Equal(t, int64(3), overview.Inventory.LowStockItems)
	assert.NotNil(t, overview.Quality)
	assert.Equal(t, int64(1), overview.Time.ActiveEntries)
}

func TestClient_OverviewFailsWhenOnePartFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/inventory/statistics" {
			writeJSON(w, http.StatusForbidden, domain.APIError{Type: "forbidden", Status: 403})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{})
	}))
	defer server.Close()

	_, err := newClient(t, server.URL, 5).Overview(context.Background(), session)
	assert.True(t, client.IsStatus(err, http.StatusForbidden))
}

func TestClient_SubscribeReceivesChangeEvents(t *testing.T) {
	hub := events.NewHub(nil, zap.NewNop())
	mux := http.NewServeMux()
	mux.HandleFunc("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		hub.ServeHTTP(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newClient(t, server.URL, 5)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan domain.ChangeEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- c.Subscribe(ctx, session, func(e domain.ChangeEvent) { received <- e })
	}()

	require.Eventually(t, func() bool { return hub.Subscribers() == 1 }, time.Second, 5*time.Millisecond)
	hub.Publish(domain.ChangeEvent{Type: "customer", Action: domain.ChangeCreated, ID: 42})

	select {
	case e := <-received:
		assert.Equal(t, domain.ChangeEvent{Type: "customer", Action: domain.ChangeCreated, ID: 42}, e)
	case <-time.After(time.Second):
		t.Fatal("no change event received")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("subscribe did not return after cancel")
	}

	err := c.Subscribe(context.Background(), &client.Session{Token: "wrong"}, func(domain.ChangeEvent) {})
	assert.True(t, client.IsStatus(err, http.StatusUnauthorized))
}
