package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/view"
)

// Screen kinds match the record types of the change feed.
const (
	kindCustomer      = "customer"
	kindOrder         = "order"
	kindQuote         = "quote"
	kindInvoice       = "invoice"
	kindCommunication = "communication"
	kindInventory     = "inventory"
	kindQualityCheck  = "quality_check"
	kindTimeEntry     = "time_entry"
)

func buildScreens(app *App) []screen {
	return []screen{
		newDashboardScreen(app),
		newEntityScreen(app, customerScreen()),
		newEntityScreen(app, orderScreen()),
		newEntityScreen(app, quoteScreen()),
		newEntityScreen(app, invoiceScreen()),
		newEntityScreen(app, communicationScreen()),
		newEntityScreen(app, inventoryScreen()),
		newEntityScreen(app, qualityCheckScreen()),
		newEntityScreen(app, timeEntryScreen()),
	}
}

var (
	orderStatuses = options(display.KindOrderStatus,
		domain.OrderStatusPending, domain.OrderStatusConfirmed, domain.OrderStatusInProgress,
		domain.OrderStatusCompleted, domain.OrderStatusCancelled)
	priorities = options(display.KindPriority,
		domain.PriorityLow, domain.PriorityNormal, domain.PriorityMedium, domain.PriorityHigh, domain.PriorityUrgent)
	serviceTypes = options(display.KindServiceType,
		domain.ServiceBuildingCleaning, domain.ServiceGardenMaintenance, domain.ServiceWinterService)
	quoteStatuses = options(display.KindQuoteStatus,
		domain.QuoteStatusDraft, domain.QuoteStatusSent, domain.QuoteStatusAccepted,
		domain.QuoteStatusRejected, domain.QuoteStatusExpired)
	invoiceStatuses = options(display.KindInvoiceStatus,
		domain.InvoiceStatusDraft, domain.InvoiceStatusSent, domain.InvoiceStatusPaid,
		domain.InvoiceStatusOverdue, domain.InvoiceStatusCancelled)
	paymentMethods = options(display.KindPaymentMethod,
		domain.PaymentBankTransfer, domain.PaymentCash, domain.PaymentCard, domain.PaymentPayPal)
	customerTypes  = options(display.KindCustomerType, domain.CustomerTypePrivate, domain.CustomerTypeBusiness)
	contactMethods = options(display.KindContactMethod,
		domain.ContactMethodEmail, domain.ContactMethodPhone, domain.ContactMethodMobile, domain.ContactMethodWhatsApp)
)

func customerScreen() entityDef[domain.CustomerDTO, domain.CustomerRequest] {
	type D = domain.CustomerRequest
	return entityDef[domain.CustomerDTO, domain.CustomerRequest]{
		kind:       kindCustomer,
		title:      "Kunden",
		entity:     view.EntityCustomer,
		resource:   (*client.Client).Customers,
		searchable: true,
		filters: []filterDef{
			{key: "customer_type", label: "Typ", options: customerTypes},
			{key: "is_active", label: "Aktiv", options: yesNoOptions},
		},
		columns: []column[domain.CustomerDTO]{
			{title: "Nr.", width: 10, value: func(c *domain.CustomerDTO) string { return c.CustomerNumber }},
			{title: "Name", width: 26, value: func(c *domain.CustomerDTO) string { return c.DisplayName }},
			{title: "E-Mail", width: 28, value: func(c *domain.CustomerDTO) string { return c.Email }},
			{title: "Telefon", width: 16, value: func(c *domain.CustomerDTO) string { return c.Phone }},
			{title: "Ort", width: 16, value: func(c *domain.CustomerDTO) string { return c.City }},
			{title: "Typ", width: 12, badge: func(c *domain.CustomerDTO) display.Badge {
				return display.StatusBadge(display.KindCustomerType, string(c.CustomerType))
			}},
			{title: "Aktiv", width: 6, value: func(c *domain.CustomerDTO) string { return yesNo(c.IsActive) }},
			{title: "Portal", width: 6, value: func(c *domain.CustomerDTO) string { return yesNo(c.HasPortalAccess) }},
		},
		id: func(c *domain.CustomerDTO) int64 { return c.ID },
		details: func(c *domain.CustomerDTO) [][2]string {
			return [][2]string{
				{"Kundennummer", c.CustomerNumber},
				{"Name", c.DisplayName},
				{"Firma", orNA(c.CompanyName)},
				{"Typ", display.Label(display.KindCustomerType, string(c.CustomerType))},
				{"E-Mail", c.Email},
				{"Telefon", orNA(c.Phone)},
				{"Mobil", orNA(c.Mobile)},
				{"Adresse", address(c.Street, c.HouseNumber, c.PostalCode, c.City)},
				{"Kontaktweg", display.Label(display.KindContactMethod, string(c.PreferredContactMethod))},
				{"Aktiv", yesNo(c.IsActive)},
				{"Portalzugang", yesNo(c.HasPortalAccess)},
				{"Notizen", orNA(c.Notes)},
				{"Angelegt", display.FormatDateString(c.CreatedAt)},
			}
		},
		fields: []field[D]{
			text("Vorname", func(d *D) *string { return &d.FirstName }),
			text("Nachname", func(d *D) *string { return &d.LastName }),
			text("Firma", func(d *D) *string { return &d.CompanyName }),
			text("E-Mail", func(d *D) *string { return &d.Email }),
			text("Telefon", func(d *D) *string { return &d.Phone }),
			text("Mobil", func(d *D) *string { return &d.Mobile }),
			text("Straße", func(d *D) *string { return &d.Street }),
			text("Hausnummer", func(d *D) *string { return &d.HouseNumber }),
			text("PLZ", func(d *D) *string { return &d.PostalCode }),
			text("Ort", func(d *D) *string { return &d.City }),
			choice("Kundentyp", customerTypes, func(d *D) *domain.CustomerType { return &d.CustomerType }),
			choice("Kontaktweg", contactMethods, func(d *D) *domain.ContactMethod { return &d.PreferredContactMethod }),
			optionalBool("Aktiv", func(d *D) **bool { return &d.IsActive }),
			text("Notizen", func(d *D) *string { return &d.Notes }),
		},
		defaults:  view.NewCustomerDraft,
		toDraft:   view.CustomerDraftFrom,
		creatable: true,
		actions: []action[domain.CustomerDTO]{
			{
				key:    "p",
				label:  "Portalzugang",
				row:    true,
				prompt: []field[[]string]{promptField(0, "Passwort", nil)},
				run: func(ctx context.Context, app *App, c *domain.CustomerDTO, values []string) (string, error) {
					if _, err := app.client.SetPortalAccess(ctx, app.session, c.ID, values[0]); err != nil {
						return "", err
					}
					return "Portalzugang für " + c.DisplayName + " eingerichtet", nil
				},
			},
			exportAction[domain.CustomerDTO]("customers"),
		},
	}
}

func orderScreen() entityDef[domain.OrderDTO, domain.OrderRequest] {
	type D = domain.OrderRequest
	return entityDef[domain.OrderDTO, domain.OrderRequest]{
		kind:       kindOrder,
		title:      "Aufträge",
		entity:     view.EntityOrder,
		resource:   (*client.Client).Orders,
		searchable: true,
		filters: []filterDef{
			{key: "status", label: "Status", options: orderStatuses},
			{key: "service_type", label: "Leistung", options: serviceTypes},
			{key: "priority", label: "Priorität", options: priorities},
		},
		columns: []column[domain.OrderDTO]{
			{title: "Nr.", width: 6, value: func(o *domain.OrderDTO) string { return display.OrderNumberSuffix(o.OrderNumber) }},
			{title: "Titel", width: 28, value: func(o *domain.OrderDTO) string { return o.Title }},
			{title: "Kunde", width: 22, value: func(o *domain.OrderDTO) string { return o.CustomerName }},
			{title: "Leistung", width: 18, badge: func(o *domain.OrderDTO) display.Badge {
				return display.StatusBadge(display.KindServiceType, string(o.ServiceType))
			}},
			{title: "Termin", width: 10, value: func(o *domain.OrderDTO) string { return display.FormatDateString(o.ScheduledDate) }},
			{title: "Priorität", width: 10, badge: func(o *domain.OrderDTO) display.Badge {
				return display.StatusBadge(display.KindPriority, string(o.Priority))
			}},
			{title: "Status", width: 14, badge: func(o *domain.OrderDTO) display.Badge {
				return display.StatusBadge(display.KindOrderStatus, string(o.Status))
			}},
			{title: "Preis", width: 12, value: func(o *domain.OrderDTO) string { return display.FormatCurrencyPtr(o.EstimatedPrice) }},
		},
		id: func(o *domain.OrderDTO) int64 { return o.ID },
		details: func(o *domain.OrderDTO) [][2]string {
			duration := display.NotAvailable
			if o.EstimatedDuration != nil {
				duration = fmt.Sprintf("%d min", *o.EstimatedDuration)
			}
			return [][2]string{
				{"Auftragsnummer", o.OrderNumber},
				{"Titel", o.Title},
				{"Kunde", orNA(o.CustomerName)},
				{"Leistung", display.Label(display.KindServiceType, string(o.ServiceType))},
				{"Einsatzort", address(o.ServiceStreet, o.ServiceHouseNumber, o.ServicePostalCode, o.ServiceCity)},
				{"Termin", display.FormatDateString(o.ScheduledDate) + " " + o.ScheduledTime},
				{"Dauer", duration},
				{"Preis (geschätzt)", display.FormatCurrencyPtr(o.EstimatedPrice)},
				{"Preis (final)", display.FormatCurrencyPtr(o.FinalPrice)},
				{"Priorität", display.Label(display.KindPriority, string(o.Priority))},
				{"Status", display.Label(display.KindOrderStatus, string(o.Status))},
				{"Beschreibung", orNA(o.Description)},
				{"Hinweise", orNA(o.SpecialInstructions)},
				{"Zugang", orNA(o.AccessInstructions)},
			}
		},
		fields: []field[D]{
			idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
			text("Titel", func(d *D) *string { return &d.Title }),
			text("Beschreibung", func(d *D) *string { return &d.Description }),
			choice("Leistung", serviceTypes, func(d *D) *domain.ServiceType { return &d.ServiceType }),
			text("Straße", func(d *D) *string { return &d.ServiceStreet }),
			text("Hausnummer", func(d *D) *string { return &d.ServiceHouseNumber }),
			text("PLZ", func(d *D) *string { return &d.ServicePostalCode }),
			text("Ort", func(d *D) *string { return &d.ServiceCity }),
			text("Datum (JJJJ-MM-TT)", func(d *D) *string { return &d.ScheduledDate }),
			text("Uhrzeit (HH:MM)", func(d *D) *string { return &d.ScheduledTime }),
			intField("Dauer (min)", func(d *D) **int { return &d.EstimatedDuration }),
			floatField("Preis (geschätzt)", func(d *D) **float64 { return &d.EstimatedPrice }),
			floatField("Preis (final)", func(d *D) **float64 { return &d.FinalPrice }),
			choice("Priorität", priorities, func(d *D) *domain.Priority { return &d.Priority }),
			choice("Status", orderStatuses, func(d *D) *domain.OrderStatus { return &d.Status }),
			text("Hinweise", func(d *D) *string { return &d.SpecialInstructions }),
			text("Zugang", func(d *D) *string { return &d.AccessInstructions }),
		},
		defaults:  view.NewOrderDraft,
		toDraft:   view.OrderDraftFrom,
		creatable: true,
		actions: []action[domain.OrderDTO]{
			{
				key:    "s",
				label:  "Status",
				row:    true,
				prompt: []field[[]string]{promptField(0, "Neuer Status", orderStatuses)},
				run: func(ctx context.Context, app *App, o *domain.OrderDTO, values []string) (string, error) {
					status := domain.OrderStatus(values[0])
					if _, err := app.client.SetOrderStatus(ctx, app.session, o.ID, status); err != nil {
						return "", err
					}
					return "Status: " + display.Label(display.KindOrderStatus, values[0]), nil
				},
			},
			exportAction[domain.OrderDTO]("orders"),
		},
	}
}

func quoteScreen() entityDef[domain.QuoteDTO, domain.QuoteRequest] {
	type D = domain.QuoteRequest
	fields := []field[D]{
		idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
		text("Titel", func(d *D) *string { return &d.Title }),
		text("Beschreibung", func(d *D) *string { return &d.Description }),
		choice("Leistung", serviceTypes, func(d *D) *domain.ServiceType { return &d.ServiceType }),
		text("Straße", func(d *D) *string { return &d.ServiceStreet }),
		text("Hausnummer", func(d *D) *string { return &d.ServiceHouseNumber }),
		text("PLZ", func(d *D) *string { return &d.ServicePostalCode }),
		text("Ort", func(d *D) *string { return &d.ServiceCity }),
		text("Gültig bis (JJJJ-MM-TT)", func(d *D) *string { return &d.ValidUntil }),
		floatField("Steuersatz (%)", func(d *D) **float64 { return &d.TaxRate }),
	}
	fields = append(fields, lineItemFields(func(d *D) *[]domain.LineItemRequest { return &d.Items })...)
	fields = append(fields,
		text("Notizen", func(d *D) *string { return &d.Notes }),
		text("Bedingungen", func(d *D) *string { return &d.TermsConditions }),
	)

	return entityDef[domain.QuoteDTO, domain.QuoteRequest]{
		kind:       kindQuote,
		title:      "Angebote",
		entity:     view.EntityQuote,
		resource:   (*client.Client).Quotes,
		searchable: true,
		filters: []filterDef{
			{key: "status", label: "Status", options: quoteStatuses},
			{key: "service_type", label: "Leistung", options: serviceTypes},
		},
		columns: []column[domain.QuoteDTO]{
			{title: "Nr.", width: 14, value: func(q *domain.QuoteDTO) string { return q.QuoteNumber }},
			{title: "Titel", width: 28, value: func(q *domain.QuoteDTO) string { return q.Title }},
			{title: "Kunde", width: 22, value: func(q *domain.QuoteDTO) string { return q.CustomerName }},
			{title: "Gültig bis", width: 10, value: func(q *domain.QuoteDTO) string { return display.FormatDateString(q.ValidUntil) }},
			{title: "Summe", width: 14, value: func(q *domain.QuoteDTO) string { return display.FormatCurrency(q.TotalAmount) }},
			{title: "Status", width: 12, badge: func(q *domain.QuoteDTO) display.Badge {
				return display.StatusBadge(display.KindQuoteStatus, string(q.Status))
			}},
		},
		id: func(q *domain.QuoteDTO) int64 { return q.ID },
		details: func(q *domain.QuoteDTO) [][2]string {
			rows := [][2]string{
				{"Angebotsnummer", q.QuoteNumber},
				{"Titel", q.Title},
				{"Kunde", orNA(q.CustomerName)},
				{"Leistung", display.Label(display.KindServiceType, string(q.ServiceType))},
				{"Gültig bis", display.FormatDateString(q.ValidUntil)},
				{"Status", display.Label(display.KindQuoteStatus, string(q.Status))},
			}
			rows = append(rows, itemRows(q.Items)...)
			return append(rows,
				[2]string{"Netto", display.FormatCurrency(q.Subtotal)},
				[2]string{fmt.Sprintf("MwSt. %g %%", q.TaxRate), display.FormatCurrency(q.TaxAmount)},
				[2]string{"Gesamt", display.FormatCurrency(q.TotalAmount)},
			)
		},
		fields:    fields,
		defaults:  view.NewQuoteDraft,
		toDraft:   view.QuoteDraftFrom,
		normalize: func(d *D) { dropBlankItem(&d.Items) },
		creatable: true,
		actions: []action[domain.QuoteDTO]{
			{
				key:   "v",
				label: "Aus Vorlage",
				prompt: []field[[]string]{
					promptField(0, "Vorlage", nil),
					promptField(1, "Kunden-ID", nil),
					promptField(2, "Titel", nil),
				},
				load: templateOptions,
				run: func(ctx context.Context, app *App, _ *domain.QuoteDTO, values []string) (string, error) {
					templateID, err := strconv.ParseInt(values[0], 10, 64)
					if err != nil {
						return "", errors.New("keine Vorlage gewählt")
					}
					req := &domain.GenerateQuoteRequest{CustomerID: view.ParseID(values[1]), Title: values[2]}
					if req.CustomerID == nil {
						return "", errors.New("Kunden-ID fehlt")
					}
					q, err := app.client.GenerateQuote(ctx, app.session, templateID, req)
					if err != nil {
						return "", err
					}
					return "Angebot " + q.QuoteNumber + " erstellt", nil
				},
			},
			{
				key:    "s",
				label:  "Status",
				row:    true,
				prompt: []field[[]string]{promptField(0, "Neuer Status", quoteStatuses)},
				run: func(ctx context.Context, app *App, q *domain.QuoteDTO, values []string) (string, error) {
					if _, err := app.client.SetQuoteStatus(ctx, app.session, q.ID, domain.QuoteStatus(values[0])); err != nil {
						return "", err
					}
					return "Status: " + display.Label(display.KindQuoteStatus, values[0]), nil
				},
			},
		},
	}
}

func templateOptions(ctx context.Context, app *App) ([]display.Option, error) {
	page, err := app.client.QuoteTemplates().List(ctx, app.session, nil)
	if err != nil {
		return nil, err
	}
	if len(page.Items) == 0 {
		return nil, errors.New("no quote templates")
	}
	opts := make([]display.Option, 0, len(page.Items))
	for _, t := range page.Items {
		opts = append(opts, display.Option{Value: strconv.FormatInt(t.ID, 10), Label: t.Name})
	}
	return opts, nil
}

func itemRows(items []domain.LineItemDTO) [][2]string {
	rows := make([][2]string, 0, len(items))
	for _, it := range items {
		label := fmt.Sprintf("%g %s", it.Quantity, it.Unit)
		if it.IsOptional {
			label += " (optional)"
		}
		rows = append(rows, [2]string{label, it.Description + " • " + display.FormatCurrency(it.TotalPrice)})
	}
	return rows
}

func invoiceScreen() entityDef[domain.InvoiceDTO, domain.InvoiceRequest] {
	type D = domain.InvoiceRequest
	fields := []field[D]{
		idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
		idField("Auftrags-ID", func(d *D) **int64 { return &d.OrderID }),
		text("Rechnungsdatum", func(d *D) *string { return &d.InvoiceDate }),
		text("Fällig am", func(d *D) *string { return &d.DueDate }),
		floatField("Steuersatz (%)", func(d *D) **float64 { return &d.TaxRate }),
		choice("Zahlungsart", paymentMethods, func(d *D) *domain.PaymentMethod { return &d.PaymentMethod }),
	}
	fields = append(fields, lineItemFields(func(d *D) *[]domain.LineItemRequest { return &d.Items })...)
	fields = append(fields, text("Notizen", func(d *D) *string { return &d.Notes }))

	return entityDef[domain.InvoiceDTO, domain.InvoiceRequest]{
		kind:       kindInvoice,
		title:      "Rechnungen",
		entity:     view.EntityInvoice,
		resource:   (*client.Client).Invoices,
		searchable: true,
		filters: []filterDef{
			{key: "status", label: "Status", options: invoiceStatuses},
		},
		columns: []column[domain.InvoiceDTO]{
			{title: "Nr.", width: 14, value: func(i *domain.InvoiceDTO) string { return i.InvoiceNumber }},
			{title: "Kunde", width: 24, value: func(i *domain.InvoiceDTO) string { return i.CustomerName }},
			{title: "Datum", width: 10, value: func(i *domain.InvoiceDTO) string { return display.FormatDateString(i.InvoiceDate) }},
			{title: "Fällig", width: 10, value: func(i *domain.InvoiceDTO) string { return display.FormatDateString(i.DueDate) }},
			{title: "Betrag", width: 14, value: func(i *domain.InvoiceDTO) string { return display.FormatCurrency(i.TotalAmount) }},
			{title: "Status", width: 12, badge: func(i *domain.InvoiceDTO) display.Badge {
				return display.StatusBadge(display.KindInvoiceStatus, string(i.Status))
			}},
		},
		id: func(i *domain.InvoiceDTO) int64 { return i.ID },
		details: func(i *domain.InvoiceDTO) [][2]string {
			rows := [][2]string{
				{"Rechnungsnummer", i.InvoiceNumber},
				{"Kunde", orNA(i.CustomerName)},
				{"Auftrag", orNA(view.FormatID(i.OrderID))},
				{"Datum", display.FormatDateString(i.InvoiceDate)},
				{"Fällig", display.FormatDateString(i.DueDate)},
				{"Zahlungsart", display.Label(display.KindPaymentMethod, string(i.PaymentMethod))},
				{"Status", display.Label(display.KindInvoiceStatus, string(i.Status))},
			}
			if i.DaysOverdue > 0 {
				rows = append(rows, [2]string{"Überfällig", fmt.Sprintf("%d Tage", i.DaysOverdue)})
			}
			rows = append(rows, itemRows(i.Items)...)
			return append(rows,
				[2]string{"Netto", display.FormatCurrency(i.Subtotal)},
				[2]string{fmt.Sprintf("MwSt. %g %%", i.TaxRate), display.FormatCurrency(i.TaxAmount)},
				[2]string{"Gesamt", display.FormatCurrency(i.TotalAmount)},
			)
		},
		fields:    fields,
		defaults:  view.NewInvoiceDraft,
		toDraft:   view.InvoiceDraftFrom,
		normalize: func(d *D) { dropBlankItem(&d.Items) },
		creatable: true,
		deletable: true,
		actions: []action[domain.InvoiceDTO]{
			{
				key:   "s",
				label: "Senden",
				row:   true,
				run: func(ctx context.Context, app *App, i *domain.InvoiceDTO, _ []string) (string, error) {
					if _, err := app.client.SendInvoice(ctx, app.session, i.ID); err != nil {
						return "", err
					}
					return "Rechnung " + i.InvoiceNumber + " versendet", nil
				},
			},
			{
				key:   "b",
				label: "Bezahlt",
				row:   true,
				run: func(ctx context.Context, app *App, i *domain.InvoiceDTO, _ []string) (string, error) {
					if _, err := app.client.SetInvoiceStatus(ctx, app.session, i.ID, domain.InvoiceStatusPaid); err != nil {
						return "", err
					}
					return "Rechnung " + i.InvoiceNumber + " als bezahlt markiert", nil
				},
			},
			exportAction[domain.InvoiceDTO]("invoices"),
		},
	}
}
