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

func TestCommunicationService_Create(t *testing.T) {
	f := newFixture(t)
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")

	comm, err := f.communications.Create(staffContext(3, "Lena Wagner"), &domain.CommunicationRequest{
		CustomerID:   &customer.ID,
		Type:         domain.CommunicationPhone,
		Content:      "Termin für Grundreinigung vereinbart",
		FollowUpDate: "2025-03-20",
	})
	require.NoError(t, err)

	assert.Equal(t, "Lena Wagner", comm.CreatedBy)
	assert.Equal(t, domain.DirectionOutbound, comm.Direction)
	assert.Equal(t, domain.CommunicationStatusCompleted, comm.Status)
	assert.Equal(t, "2025-03-12T10:30:00Z", comm.CommunicationDate)
	assert.Equal(t, "2025-03-20", comm.FollowUpDate)
	assert.Equal(t, "Anna Schmidt", comm.CustomerName)

	_, err = f.communications.Create(context.Background(), &domain.CommunicationRequest{
		CustomerID:        &customer.ID,
		Type:              domain.CommunicationNote,
		Content:           "Notiz",
		CommunicationDate: "gestern",
	})
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestCommunicationService_SendPortalMessage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	anna := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	bernd := testutil.CreateTestCustomer(t, f.db, "Bernd", "Meyer", "bernd@example.com")
	annaOrder, err := f.orders.Create(ctx, orderRequest(anna.ID, ""))
	require.NoError(t, err)
	berndOrder, err := f.orders.Create(ctx, orderRequest(bernd.ID, ""))
	require.NoError(t, err)

	_, err = f.communications.SendPortalMessage(staffContext(3, "Lena Wagner"), &domain.PortalMessageRequest{Content: "Hallo"})
	assert.ErrorIs(t, err, service.ErrUnauthorized)

	portal := portalContext(anna.ID)
	msg, err := f.communications.SendPortalMessage(portal, &domain.PortalMessageRequest{
		OrderID: &annaOrder.ID,
		Subject: "Schlüsselübergabe",
		Content: "Der Schlüssel liegt beim Hausmeister.",
	})
	require.NoError(t, err)
	assert.Equal(t, anna.ID, msg.CustomerID)
	assert.Equal(t, domain.CommunicationEmail, msg.Type)
	assert.Equal(t, domain.DirectionInbound, msg.Direction)
	assert.Equal(t, domain.CommunicationStatusPending, msg.Status)
	assert.Equal(t, "portal", msg.ContactMethod)

	_, err = f.communications.SendPortalMessage(portal, &domain.PortalMessageRequest{
		OrderID: &berndOrder.ID,
		Content: "Fremder Auftrag",
	})
	assert.ErrorIs(t, err, service.ErrUnknownOrder)

	_, err = f.communications.Create(ctx, &domain.CommunicationRequest{
		CustomerID: &bernd.ID,
		Type:       domain.CommunicationEmail,
		Content:    "Rechnung verschickt",
	})
	require.NoError(t, err)

	visible, err := f.communications.List(portal, repository.CommunicationFilters{}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	require.Len(t, visible.Communications, 1)
	assert.Equal(t, msg.ID, visible.Communications[0].ID)

	all, err := f.communications.List(ctx, repository.CommunicationFilters{}, repository.Page{}, repository.SortConfig{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)
}

func TestCommunicationService_Delete(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := testutil.CreateTestCustomer(t, f.db, "Anna", "Schmidt", "anna@example.com")
	comm, err := f.communications.Create(ctx, &domain.CommunicationRequest{
		CustomerID: &customer.ID,
		Type:       domain.CommunicationNote,
		Content:    "Notiz",
	})
	require.NoError(t, err)

	require.NoError(t, f.communications.Delete(ctx, comm.ID))
	assert.Equal(t, domain.ChangeEvent{Type: "communication", Action: domain.ChangeDeleted, ID: comm.ID}, f.events.last())
	assert.ErrorIs(t, f.communications.Delete(ctx, comm.ID), service.ErrCommunicationNotFound)
}
