package service_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderRequest(customerID int64, date string) *domain.OrderRequest {
	return &domain.OrderRequest{
		CustomerID:    &customerID,
		Title:         "Büroreinigung",
		ServiceType:   domain.ServiceBuildingCleaning,
		ScheduledDate: date,
		ScheduledTime: "08:00",
	}
}

func TestOrderService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	order, err := f.orders.Create(ctx, orderRequest(customer.ID, "2025-03-14"))
	require.NoError(t, err)

	assert.Equal(t, "ORD-2025-001", order.OrderNumber)
	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.Equal(t, domain.PriorityNormal, order.Priority)
	assert.Equal(t, "2025-03-14", order.ScheduledDate)
	assert.Equal(t, "Anna Schmidt", order.CustomerName)
	assert.Equal(t, domain.ChangeEvent{Type: "order", Action: domain.ChangeCreated, ID: order.ID}, f.events.last())

	second, err := f.orders.Create(ctx, orderRequest(customer.ID, ""))
	require.NoError(t, err)
	assert.Equal(t, "ORD-2025-002", second.OrderNumber)
	assert.Empty(t, second.ScheduledDate)
}

func TestOrderService_Create_UnknownCustomer(t *testing.T) {
	f := newFixture(t)

	_, err := f.orders.Create(context.Background(), orderRequest(999, ""))
	assert.ErrorIs(t, err, service.ErrUnknownCustomer)
}

func TestOrderService_Create_InvalidDate(t *testing.T) {
	f := newFixture(t)
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	_, err := f.orders.Create(context.Background(), orderRequest(customer.ID, "14.03.2025"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestOrderService_UpdateStatus(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	order, err := f.orders.Create(ctx, orderRequest(customer.ID, ""))
	require.NoError(t, err)

	confirmed, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusConfirmed)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusConfirmed, confirmed.Status)
	assert.Empty(t, confirmed.CompletedAt)

	completed, err := f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-12T10:30:00Z", completed.CompletedAt)

	_, err = f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatus("archived"))
	assert.ErrorIs(t, err, service.ErrInvalidStatus)

	_, err = f.orders.UpdateStatus(ctx, 999, domain.OrderStatusConfirmed)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	order, err := f.orders.Create(ctx, orderRequest(customer.ID, ""))
	require.NoError(t, err)

	require.NoError(t, f.orders.Delete(ctx, order.ID))
	assert.ErrorIs(t, f.orders.Delete(ctx, order.ID), service.ErrOrderNotFound)

	_, err = f.orders.GetByID(ctx, order.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_List_PortalScope(t *testing.T) {
	f := newFixture(t)
	anna := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	bernd := testutil.CreateTestCustomer(t, f.db, "Bernd", "Meyer", "bernd@example.com")

	_, err := f.orders.Create(context.Background(), orderRequest(anna.ID, ""))
	require.NoError(t, err)
	berndOrder, err := f.orders.Create(context.Background(), orderRequest(bernd.ID, ""))
	require.NoError(t, err)

	list, err := f.orders.List(portalContext(anna.ID), repository.OrderFilters{}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Equal(t, anna.ID, list.Orders[0].CustomerID)
	assert.Equal(t, int64(1), list.Total)

	_, err = f.orders.GetByID(portalContext(anna.ID), berndOrder.ID)
	assert.ErrorIs(t, err, service.ErrOrderNotFound)
}

func TestOrderService_Dashboard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	// fixedNow is Wednesday 2025-03-12; the week runs 10th to 16th
	for _, date := range []string{"2025-03-12", "2025-03-12", "2025-03-10", "2025-03-16", "2025-03-17", ""} {
		_, err := f.orders.Create(ctx, orderRequest(customer.ID, date))
		require.NoError(t, err)
	}
	order, err := f.orders.Create(ctx, orderRequest(customer.ID, "2025-03-09"))
	require.NoError(t, err)
	_, err = f.orders.UpdateStatus(ctx, order.ID, domain.OrderStatusCompleted)
	require.NoError(t, err)

	dashboard, err := f.orders.Dashboard(ctx)
	require.NoError(t, err)
	assert.Equal(t, &domain.OrderDashboardDTO{
		PendingOrders:   6,
		CompletedOrders: 1,
		TodaysOrders:    2,
		ThisWeekOrders:  4,
		TotalCustomers:  1,
	}, dashboard)
}
