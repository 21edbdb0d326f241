package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/glanzwerk/crm/internal/auth"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"github.com/glanzwerk/crm/internal/seed"
	"github.com/glanzwerk/crm/internal/service"
	"github.com/glanzwerk/crm/internal/storage"
	"github.com/glanzwerk/crm/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fixedNow is a Wednesday
var fixedNow = time.Date(2025, time.March, 12, 10, 30, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ChangeEvent
}

func (p *recordingPublisher) Publish(e domain.ChangeEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
}

func (p *recordingPublisher) last() domain.ChangeEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.events[len(p.events)-1]
}

type fixture struct {
	db     *gorm.DB
	now    time.Time
	events *recordingPublisher
	files  storage.Storage

	customers      *service.CustomerService
	orders         *service.OrderService
	quotes         *service.QuoteService
	invoices       *service.InvoiceService
	communications *service.CommunicationService
	inventory      *service.InventoryService
	quality        *service.QualityCheckService
	timeEntries    *service.TimeEntryService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	f := &fixture{db: db, now: fixedNow, events: &recordingPublisher{}}
	clock := func() time.Time { return f.now }

	catalog, err := seed.Load()
	require.NoError(t, err)
	files, err := storage.NewLocalStorage(t.TempDir(), logger)
	require.NoError(t, err)
	f.files = files

	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	templateRepo := repository.NewQuoteTemplateRepository(db)
	require.NoError(t, catalog.ApplyTemplates(context.Background(), templateRepo, logger))

	numbers := service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), clock, logger)

	f.customers = service.NewCustomerService(customerRepo, numbers, f.events, logger)
	f.orders = service.NewOrderService(orderRepo, customerRepo, numbers, f.events, clock, logger)
	f.quotes = service.NewQuoteService(repository.NewQuoteRepository(db), templateRepo, customerRepo, numbers, f.events, clock, logger)
	f.invoices = service.NewInvoiceService(repository.NewInvoiceRepository(db), customerRepo, orderRepo, numbers, f.events, clock, logger)
	f.communications = service.NewCommunicationService(repository.NewCommunicationRepository(db), customerRepo, orderRepo, f.events, clock, logger)
	f.inventory = service.NewInventoryService(repository.NewInventoryRepository(db), catalog, f.events, logger)
	f.quality = service.NewQualityCheckService(repository.NewQualityCheckRepository(db), customerRepo, orderRepo, files, catalog, f.events, clock, logger)
	f.timeEntries = service.NewTimeEntryService(repository.NewTimeEntryRepository(db), customerRepo, orderRepo, f.events, clock, logger)
	return f
}

func staffContext(userID int64, name string) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      userID,
		DisplayName: name,
		Email:       "staff@example.com",
		Role:        domain.RoleStaff,
	})
}

func portalContext(customerID int64) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      customerID,
		DisplayName: "Portal Kunde",
		Role:        domain.RoleCustomer,
		CustomerID:  &customerID,
	})
}

func ptr[T any](v T) *T {
	return &v
}
