package service_test

import (
	"context"
	"testing"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customerRequest(first, last, email string) *domain.CustomerRequest {
	return &domain.CustomerRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		City:      "Berlin",
	}
}

func TestCustomerService_Create(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer, err := f.customers.Create(ctx, customerRequest("Anna", "Schmidt", "anna@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "CUST-2025-001", customer.CustomerNumber)
	assert.Equal(t, domain.CustomerTypePrivate, customer.CustomerType)
	assert.Equal(t, domain.ContactMethodEmail, customer.PreferredContactMethod)
	assert.True(t, customer.IsActive)
	assert.False(t, customer.HasPortalAccess)

	_, err = f.customers.Create(ctx, customerRequest("Anja", "Schmitt", "ANNA@example.com"))
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)

	other, err := f.customers.Create(ctx, customerRequest("Bernd", "Meyer", "bernd@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "CUST-2025-002", other.CustomerNumber)

	_, err = f.customers.Update(ctx, other.ID, customerRequest("Bernd", "Meyer", "anna@example.com"))
	assert.ErrorIs(t, err, service.ErrDuplicateEmail)

	renamed, err := f.customers.Update(ctx, other.ID, customerRequest("Bernd", "Meier", "bernd@example.com"))
	require.NoError(t, err)
	assert.Equal(t, "Meier", renamed.LastName)
}

func TestCustomerService_Delete_Deactivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer, err := f.customers.Create(ctx, customerRequest("Anna", "Schmidt", "anna@example.com"))
	require.NoError(t, err)
	_, err = f.orders.Create(ctx, orderRequest(customer.ID, ""))
	require.NoError(t, err)

	require.NoError(t, f.customers.Delete(ctx, customer.ID))
	assert.ErrorIs(t, f.customers.Delete(ctx, 999), service.ErrCustomerNotFound)

	got, err := f.customers.GetByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	orders, err := f.orders.List(ctx, repository.OrderFilters{}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	assert.Len(t, orders.Orders, 1, "orders of a deactivated customer stay")

	active := true
	list, err := f.customers.List(ctx, repository.CustomerFilters{IsActive: &active}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	assert.Empty(t, list.Customers)
}

func TestCustomerService_PortalAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer, err := f.customers.Create(ctx, customerRequest("Anna", "Schmidt", "anna@example.com"))
	require.NoError(t, err)

	updated, err := f.customers.SetPortalAccess(ctx, customer.ID, &domain.PortalAccessRequest{Password: "Sommer2025!"})
	require.NoError(t, err)
	assert.True(t, updated.HasPortalAccess)

	var stored domain.Customer
	require.NoError(t, f.db.First(&stored, customer.ID).Error)
	assert.True(t, auth.CheckPassword(stored.PortalPasswordHash, "Sommer2025!"))
}

func TestCustomerService_Profile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer, err := f.customers.Create(ctx, customerRequest("Anna", "Schmidt", "anna@example.com"))
	require.NoError(t, err)

	_, err = f.customers.Profile(ctx)
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	portal := portalContext(customer.ID)
	profile, err := f.customers.Profile(portal)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", profile.Email)

	updated, err := f.customers.UpdateProfile(portal, &domain.PortalProfileRequest{
		Phone:      "030 1234567",
		Street:     "Lindenstraße",
		City:       "Potsdam",
		PostalCode: "14467",
	})
	require.NoError(t, err)
	assert.Equal(t, "Potsdam", updated.City)
	assert.Equal(t, "Anna", updated.FirstName)
	assert.Equal(t, domain.ContactMethodEmail, updated.PreferredContactMethod)
}
