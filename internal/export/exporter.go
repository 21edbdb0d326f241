package export

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/repository"
	"go.uber.org/zap"
)

// ErrUnknownResource is returned for a resource that has no export
var ErrUnknownResource = errors.New("unknown export resource")

// Exporter builds export tables from the repositories
type Exporter struct {
	customers   *repository.CustomerRepository
	orders      *repository.OrderRepository
	invoices    *repository.InvoiceRepository
	inventory   *repository.InventoryRepository
	timeEntries *repository.TimeEntryRepository
	logger      *zap.Logger
	builders    map[string]func(context.Context) (Table, error)
}

func NewExporter(
	customers *repository.CustomerRepository,
	orders *repository.OrderRepository,
	invoices *repository.InvoiceRepository,
	inventory *repository.InventoryRepository,
	timeEntries *repository.TimeEntryRepository,
	logger *zap.Logger,
) *Exporter {
	e := &Exporter{
		customers:   customers,
		orders:      orders,
		invoices:    invoices,
		inventory:   inventory,
		timeEntries: timeEntries,
		logger:      logger,
	}
	e.builders = map[string]func(context.Context) (Table, error){
		"customers":    e.customerTable,
		"orders":       e.orderTable,
		"invoices":     e.invoiceTable,
		"inventory":    e.inventoryTable,
		"time-entries": e.timeEntryTable,
	}
	return e
}

// Resources lists the exportable resource names
func (e *Exporter) Resources() []string {
	names := make([]string, 0, len(e.builders))
	for name := range e.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table builds the export of resource
func (e *Exporter) Table(ctx context.Context, resource string) (Table, error) {
	build, ok := e.builders[resource]
	if !ok {
		return Table{}, fmt.Errorf("%w: %s", ErrUnknownResource, resource)
	}
	t, err := build(ctx)
	if err != nil {
		return Table{}, fmt.Errorf("failed to export %s: %w", resource, err)
	}
	e.logger.Info("export built", zap.String("resource", resource), zap.Int("rows", len(t.Rows)))
	return t, nil
}

// Filename is the download name of an export taken at now
func Filename(resource string, now time.Time) string {
	return fmt.Sprintf("%s-%s.xlsx", resource, now.Format("2006-01-02"))
}

func dateCell(t *time.Time) interface{} {
	if t == nil {
		return ""
	}
	return display.FormatDate(*t)
}

func customerName(c *domain.Customer) string {
	if c == nil {
		return ""
	}
	return c.DisplayName()
}

func (e *Exporter) customerTable(ctx context.Context) (Table, error) {
	customers, err := e.customers.All(ctx)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Sheet:   "Kunden",
		Headers: []string{"Kundennummer", "Vorname", "Nachname", "Firma", "E-Mail", "Telefon", "Straße", "Hausnummer", "PLZ", "Ort", "Kundentyp", "Aktiv"},
	}
	for _, c := range customers {
		active := "Nein"
		if c.IsActive {
			active = "Ja"
		}
		t.Rows = append(t.Rows, []interface{}{
			c.CustomerNumber, c.FirstName, c.LastName, c.CompanyName, c.Email, c.Phone,
			c.Street, c.HouseNumber, c.PostalCode, c.City,
			display.Label(display.KindCustomerType, string(c.CustomerType)), active,
		})
	}
	return t, nil
}

func (e *Exporter) orderTable(ctx context.Context) (Table, error) {
	orders, err := e.orders.All(ctx)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Sheet:   "Aufträge",
		Headers: []string{"Auftragsnummer", "Kunde", "Titel", "Leistung", "Termin", "Uhrzeit", "Priorität", "Status", "Geschätzter Preis", "Endpreis"},
	}
	for _, o := range orders {
		t.Rows = append(t.Rows, []interface{}{
			o.OrderNumber, customerName(o.Customer), o.Title,
			display.Label(display.KindServiceType, string(o.ServiceType)),
			dateCell(o.ScheduledDate), o.ScheduledTime,
			display.Label(display.KindPriority, string(o.Priority)),
			display.Label(display.KindOrderStatus, string(o.Status)),
			floatCell(o.EstimatedPrice), floatCell(o.FinalPrice),
		})
	}
	return t, nil
}

func floatCell(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func (e *Exporter) invoiceTable(ctx context.Context) (Table, error) {
	invoices, err := e.invoices.All(ctx)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Sheet:   "Rechnungen",
		Headers: []string{"Rechnungsnummer", "Kunde", "Rechnungsdatum", "Fällig am", "Netto", "MwSt. %", "MwSt.", "Brutto", "Status", "Zahlungsart", "Bezahlt am"},
	}
	for _, inv := range invoices {
		invoiceDate := inv.InvoiceDate
		t.Rows = append(t.Rows, []interface{}{
			inv.InvoiceNumber, customerName(inv.Customer),
			dateCell(&invoiceDate), dateCell(inv.DueDate),
			inv.Subtotal, inv.TaxRate, inv.TaxAmount, inv.TotalAmount,
			display.Label(display.KindInvoiceStatus, string(inv.Status)),
			display.Label(display.KindPaymentMethod, string(inv.PaymentMethod)),
			dateCell(inv.PaymentDate),
		})
	}
	return t, nil
}

func (e *Exporter) inventoryTable(ctx context.Context) (Table, error) {
	items, err := e.inventory.All(ctx)
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Sheet:   "Inventar",
		Headers: []string{"Artikel", "Kategorie", "Artikelnummer", "Bestand", "Einheit", "Meldebestand", "Einzelpreis", "Lagerwert", "Bestandsstatus", "Lieferant", "Lagerort"},
	}
	for _, item := range items {
		t.Rows = append(t.Rows, []interface{}{
			item.Name, item.Category, item.SKU, item.Quantity, item.Unit, item.ReorderPoint,
			item.UnitPrice, domain.LineTotal(float64(item.Quantity), item.UnitPrice),
			display.StockBadge(item.Quantity, item.ReorderPoint).Label,
			item.Supplier, item.Location,
		})
	}
	return t, nil
}

func (e *Exporter) timeEntryTable(ctx context.Context) (Table, error) {
	entries, err := e.timeEntries.Find(ctx, repository.TimeEntryFilters{})
	if err != nil {
		return Table{}, err
	}
	t := Table{
		Sheet:   "Zeiterfassung",
		Headers: []string{"Datum", "Mitarbeiter", "Kunde", "Tätigkeit", "Beginn", "Ende", "Stunden", "Beschreibung", "Status"},
	}
	for _, entry := range entries {
		start := entry.StartTime.UTC()
		end := ""
		if entry.EndTime != nil {
			end = entry.EndTime.UTC().Format("15:04")
		}
		t.Rows = append(t.Rows, []interface{}{
			display.FormatDate(start), entry.UserName, customerName(entry.Customer),
			display.Label(display.KindActivityType, string(entry.ActivityType)),
			start.Format("15:04"), end, floatCell(entry.Duration), entry.Description,
			display.Label(display.KindTimeEntryStatus, string(entry.Status)),
		})
	}
	return t, nil
}
