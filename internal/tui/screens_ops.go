package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"github.com/glanzwerk/crm/internal/view"
)

var (
	communicationTypes = options(display.KindCommunicationType,
		domain.CommunicationEmail, domain.CommunicationPhone, domain.CommunicationWhatsApp,
		domain.CommunicationSMS, domain.CommunicationMeeting, domain.CommunicationNote)
	directions            = options(display.KindDirection, domain.DirectionInbound, domain.DirectionOutbound)
	communicationStatuses = options(display.KindCommunicationStatus,
		domain.CommunicationStatusPending, domain.CommunicationStatusCompleted, domain.CommunicationStatusFollowUpRequired)
	inventoryStatuses = options(display.KindInventoryStatus,
		domain.InventoryStatusActive, domain.InventoryStatusInactive, domain.InventoryStatusDiscontinued)
	qualityStatuses = options(display.KindQualityStatus,
		domain.QualityStatusPending, domain.QualityStatusInProgress, domain.QualityStatusCompleted, domain.QualityStatusFailed)
	checkTypes        = options(display.KindCheckType, "cleaning", "maintenance", "inspection", "final")
	timeEntryStatuses = options(display.KindTimeEntryStatus,
		domain.TimeEntryActive, domain.TimeEntryCompleted, domain.TimeEntryPaused, domain.TimeEntryCancelled)
	activityTypes = options(display.KindActivityType,
		domain.ActivityWork, domain.ActivityBreak, domain.ActivityMeeting, domain.ActivityTravel)

	transactionTypes = []display.Option{
		{Value: string(domain.TransactionIn), Label: "Zugang"},
		{Value: string(domain.TransactionOut), Label: "Abgang"},
		{Value: string(domain.TransactionAdjustment), Label: "Inventur"},
	}
)

func communicationScreen() entityDef[domain.CommunicationDTO, domain.CommunicationRequest] {
	type D = domain.CommunicationRequest
	return entityDef[domain.CommunicationDTO, domain.CommunicationRequest]{
		kind:       kindCommunication,
		title:      "Kommunikation",
		entity:     view.EntityCommunication,
		resource:   (*client.Client).Communications,
		searchable: true,
		filters: []filterDef{
			{key: "type", label: "Art", options: communicationTypes},
			{key: "status", label: "Status", options: communicationStatuses},
		},
		columns: []column[domain.CommunicationDTO]{
			{title: "Datum", width: 10, value: func(c *domain.CommunicationDTO) string {
				return display.FormatDateString(c.CommunicationDate)
			}},
			{title: "Kunde", width: 22, value: func(c *domain.CommunicationDTO) string { return c.CustomerName }},
			{title: "Art", width: 10, badge: func(c *domain.CommunicationDTO) display.Badge {
				return display.StatusBadge(display.KindCommunicationType, string(c.Type))
			}},
			{title: "Richtung", width: 9, badge: func(c *domain.CommunicationDTO) display.Badge {
				return display.StatusBadge(display.KindDirection, string(c.Direction))
			}},
			{title: "Betreff", width: 30, value: func(c *domain.CommunicationDTO) string {
				if c.Subject != "" {
					return c.Subject
				}
				return c.Content
			}},
			{title: "Status", width: 16, badge: func(c *domain.CommunicationDTO) display.Badge {
				return display.StatusBadge(display.KindCommunicationStatus, string(c.Status))
			}},
			{title: "!", width: 1, value: func(c *domain.CommunicationDTO) string {
				if c.IsImportant {
					return "!"
				}
				return ""
			}},
		},
		id: func(c *domain.CommunicationDTO) int64 { return c.ID },
		details: func(c *domain.CommunicationDTO) [][2]string {
			return [][2]string{
				{"Datum", display.FormatDateString(c.CommunicationDate) + " " + display.FormatClock(c.CommunicationDate)},
				{"Kunde", orNA(c.CustomerName)},
				{"Auftrag", orNA(view.FormatID(c.OrderID))},
				{"Art", display.Label(display.KindCommunicationType, string(c.Type))},
				{"Richtung", display.Label(display.KindDirection, string(c.Direction))},
				{"Betreff", orNA(c.Subject)},
				{"Inhalt", c.Content},
				{"Ansprechpartner", orNA(c.ContactPerson)},
				{"Status", display.Label(display.KindCommunicationStatus, string(c.Status))},
				{"Wiedervorlage", display.FormatDateString(c.FollowUpDate)},
				{"Erledigt", yesNo(c.FollowUpCompleted)},
				{"Wichtig", yesNo(c.IsImportant)},
				{"Schlagworte", orNA(c.Tags)},
				{"Erfasst von", orNA(c.CreatedBy)},
			}
		},
		fields: []field[D]{
			idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
			idField("Auftrags-ID", func(d *D) **int64 { return &d.OrderID }),
			choice("Art", communicationTypes, func(d *D) *domain.CommunicationType { return &d.Type }),
			choice("Richtung", directions, func(d *D) *domain.Direction { return &d.Direction }),
			text("Betreff", func(d *D) *string { return &d.Subject }),
			text("Inhalt", func(d *D) *string { return &d.Content }),
			text("Ansprechpartner", func(d *D) *string { return &d.ContactPerson }),
			choice("Status", communicationStatuses, func(d *D) *domain.CommunicationStatus { return &d.Status }),
			text("Wiedervorlage", func(d *D) *string { return &d.FollowUpDate }),
			boolField("Erledigt", func(d *D) *bool { return &d.FollowUpCompleted }),
			boolField("Wichtig", func(d *D) *bool { return &d.IsImportant }),
			text("Schlagworte", func(d *D) *string { return &d.Tags }),
		},
		defaults:  view.NewCommunicationDraft,
		toDraft:   view.CommunicationDraftFrom,
		creatable: true,
	}
}

func inventoryScreen() entityDef[domain.InventoryItemDTO, domain.InventoryItemRequest] {
	type D = domain.InventoryItemRequest
	return entityDef[domain.InventoryItemDTO, domain.InventoryItemRequest]{
		kind:       kindInventory,
		title:      "Inventar",
		entity:     view.EntityInventoryItem,
		resource:   (*client.Client).Inventory,
		searchable: true,
		filters: []filterDef{
			{key: "category", label: "Kategorie", load: categoryOptions},
			{key: "status", label: "Status", options: inventoryStatuses},
			{key: "low_stock", label: "Bestand", options: []display.Option{{Value: "true", Label: "Niedrig"}}},
		},
		columns: []column[domain.InventoryItemDTO]{
			{title: "Artikel", width: 26, value: func(i *domain.InventoryItemDTO) string { return i.Name }},
			{title: "Kategorie", width: 14, value: func(i *domain.InventoryItemDTO) string { return i.Category }},
			{title: "SKU", width: 10, value: func(i *domain.InventoryItemDTO) string { return i.SKU }},
			{title: "Menge", width: 12, value: func(i *domain.InventoryItemDTO) string {
				return fmt.Sprintf("%d %s", i.Quantity, i.Unit)
			}},
			{title: "Bestand", width: 14, badge: func(i *domain.InventoryItemDTO) display.Badge {
				return display.StockBadge(i.Quantity, i.ReorderPoint)
			}},
			{title: "Preis", width: 11, value: func(i *domain.InventoryItemDTO) string { return display.FormatCurrency(i.UnitPrice) }},
			{title: "Wert", width: 12, value: func(i *domain.InventoryItemDTO) string { return display.FormatCurrency(i.TotalValue) }},
			{title: "Status", width: 12, badge: func(i *domain.InventoryItemDTO) display.Badge {
				return display.StatusBadge(display.KindInventoryStatus, string(i.Status))
			}},
		},
		id: func(i *domain.InventoryItemDTO) int64 { return i.ID },
		details: func(i *domain.InventoryItemDTO) [][2]string {
			rows := [][2]string{
				{"Artikel", i.Name},
				{"Beschreibung", orNA(i.Description)},
				{"Kategorie", orNA(i.Category)},
				{"SKU", orNA(i.SKU)},
				{"Menge", fmt.Sprintf("%d %s", i.Quantity, i.Unit)},
				{"Meldebestand", fmt.Sprintf("%d", i.ReorderPoint)},
				{"Bestand", display.StockBadge(i.Quantity, i.ReorderPoint).Label},
				{"Einzelpreis", display.FormatCurrency(i.UnitPrice)},
				{"Lagerwert", display.FormatCurrency(i.TotalValue)},
				{"Lieferant", orNA(i.Supplier)},
				{"Lagerort", orNA(i.Location)},
				{"Status", display.Label(display.KindInventoryStatus, string(i.Status))},
			}
			for _, t := range i.RecentTransactions {
				rows = append(rows, [2]string{
					display.FormatDateString(t.CreatedAt),
					fmt.Sprintf("%s %+d (%d → %d) %s", transactionLabel(t.TransactionType), t.QuantityChange,
						t.QuantityBefore, t.QuantityAfter, t.Notes),
				})
			}
			return rows
		},
		fields: []field[D]{
			text("Name", func(d *D) *string { return &d.Name }),
			text("Beschreibung", func(d *D) *string { return &d.Description }),
			text("Kategorie", func(d *D) *string { return &d.Category }),
			text("SKU", func(d *D) *string { return &d.SKU }),
			intField("Menge", func(d *D) **int { return &d.Quantity }),
			text("Einheit", func(d *D) *string { return &d.Unit }),
			floatField("Einzelpreis", func(d *D) **float64 { return &d.UnitPrice }),
			intField("Meldebestand", func(d *D) **int { return &d.ReorderPoint }),
			text("Lieferant", func(d *D) *string { return &d.Supplier }),
			text("Lagerort", func(d *D) *string { return &d.Location }),
			choice("Status", inventoryStatuses, func(d *D) *domain.InventoryStatus { return &d.Status }),
		},
		defaults:  view.NewInventoryItemDraft,
		toDraft:   view.InventoryItemDraftFrom,
		creatable: true,
		deletable: true,
		actions: []action[domain.InventoryItemDTO]{
			{
				key:   "a",
				label: "Bestand buchen",
				row:   true,
				prompt: []field[[]string]{
					promptField(0, "Buchung", transactionTypes),
					promptField(1, "Menge", nil),
					promptField(2, "Notiz", nil),
				},
				run: func(ctx context.Context, app *App, i *domain.InventoryItemDTO, values []string) (string, error) {
					req := view.NewStockAdjustmentDraft()
					req.TransactionType = domain.TransactionType(values[0])
					req.QuantityChange = view.ParseInt(values[1])
					req.Notes = strings.TrimSpace(values[2])
					if req.QuantityChange == nil {
						return "", errors.New("Menge ungültig")
					}
					t, err := app.client.AdjustStock(ctx, app.session, i.ID, &req)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s: %d → %d", i.Name, t.QuantityBefore, t.QuantityAfter), nil
				},
			},
			exportAction[domain.InventoryItemDTO]("inventory"),
		},
	}
}

func transactionLabel(t domain.TransactionType) string {
	for _, o := range transactionTypes {
		if o.Value == string(t) {
			return o.Label
		}
	}
	return string(t)
}

func categoryOptions(ctx context.Context, app *App) ([]display.Option, error) {
	categories, err := app.client.InventoryCategories(ctx, app.session)
	if err != nil {
		return nil, err
	}
	opts := make([]display.Option, len(categories))
	for i, c := range categories {
		opts[i] = display.Option{Value: c, Label: c}
	}
	return opts, nil
}

func qualityCheckScreen() entityDef[domain.QualityCheckDTO, domain.QualityCheckRequest] {
	type D = domain.QualityCheckRequest
	return entityDef[domain.QualityCheckDTO, domain.QualityCheckRequest]{
		kind:     kindQualityCheck,
		title:    "Qualität",
		entity:   view.EntityQualityCheck,
		resource: (*client.Client).QualityChecks,
		filters: []filterDef{
			{key: "status", label: "Status", options: qualityStatuses},
			{key: "check_type", label: "Art", options: checkTypes},
		},
		columns: []column[domain.QualityCheckDTO]{
			{title: "Datum", width: 10, value: func(q *domain.QualityCheckDTO) string { return display.FormatDateString(q.CheckDate) }},
			{title: "Kunde", width: 22, value: func(q *domain.QualityCheckDTO) string { return q.CustomerName }},
			{title: "Prüfer", width: 18, value: func(q *domain.QualityCheckDTO) string { return q.InspectorName }},
			{title: "Art", width: 12, value: func(q *domain.QualityCheckDTO) string {
				return display.Label(display.KindCheckType, q.CheckType)
			}},
			{title: "Punkte", width: 12, badge: func(q *domain.QualityCheckDTO) display.Badge {
				return display.ScoreBadge(q.OverallScore)
			}},
			{title: "Status", width: 14, badge: func(q *domain.QualityCheckDTO) display.Badge {
				return display.StatusBadge(display.KindQualityStatus, string(q.Status))
			}},
		},
		id: func(q *domain.QualityCheckDTO) int64 { return q.ID },
		details: func(q *domain.QualityCheckDTO) [][2]string {
			rows := [][2]string{
				{"Datum", display.FormatDateString(q.CheckDate)},
				{"Kunde", orNA(q.CustomerName)},
				{"Auftrag", orNA(view.FormatID(q.OrderID))},
				{"Prüfer", q.InspectorName},
				{"Art", display.Label(display.KindCheckType, q.CheckType)},
				{"Punkte", fmt.Sprintf("%g (%s)", q.OverallScore, display.ScoreBadge(q.OverallScore).Label)},
				{"Status", display.Label(display.KindQualityStatus, string(q.Status))},
				{"Notizen", orNA(q.Notes)},
				{"Details", orNA(q.CheckDetails)},
				{"Empfehlungen", orNA(q.Recommendations)},
			}
			for _, p := range q.Photos {
				rows = append(rows, [2]string{"Foto", orNA(p.Caption) + " • " + p.Filename})
			}
			return rows
		},
		fields: []field[D]{
			idField("Auftrags-ID", func(d *D) **int64 { return &d.OrderID }),
			idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
			text("Prüfer", func(d *D) *string { return &d.InspectorName }),
			text("Datum (JJJJ-MM-TT)", func(d *D) *string { return &d.CheckDate }),
			choice("Art", checkTypes, func(d *D) *string { return &d.CheckType }),
			floatField("Punkte (0-100)", func(d *D) **float64 { return &d.OverallScore }),
			choice("Status", qualityStatuses, func(d *D) *domain.QualityStatus { return &d.Status }),
			text("Notizen", func(d *D) *string { return &d.Notes }),
			text("Details", func(d *D) *string { return &d.CheckDetails }),
			text("Empfehlungen", func(d *D) *string { return &d.Recommendations }),
		},
		defaults:  view.NewQualityCheckDraft,
		toDraft:   view.QualityCheckDraftFrom,
		creatable: true,
		deletable: true,
		actions: []action[domain.QualityCheckDTO]{
			{
				key:    "s",
				label:  "Status",
				row:    true,
				prompt: []field[[]string]{promptField(0, "Neuer Status", qualityStatuses)},
				run: func(ctx context.Context, app *App, q *domain.QualityCheckDTO, values []string) (string, error) {
					status := domain.QualityStatus(values[0])
					if _, err := app.client.SetQualityCheckStatus(ctx, app.session, q.ID, status); err != nil {
						return "", err
					}
					return "Status: " + display.Label(display.KindQualityStatus, values[0]), nil
				},
			},
		},
	}
}

func timeEntryScreen() entityDef[domain.TimeEntryDTO, domain.TimeEntryRequest] {
	type D = domain.TimeEntryRequest
	return entityDef[domain.TimeEntryDTO, domain.TimeEntryRequest]{
		kind:     kindTimeEntry,
		title:    "Zeiterfassung",
		entity:   view.EntityTimeEntry,
		resource: (*client.Client).TimeEntries,
		filters: []filterDef{
			{key: "status", label: "Status", options: timeEntryStatuses},
			{key: "activity_type", label: "Tätigkeit", options: activityTypes},
		},
		columns: []column[domain.TimeEntryDTO]{
			{title: "Datum", width: 10, value: func(t *domain.TimeEntryDTO) string { return display.FormatDateString(t.StartTime) }},
			{title: "Mitarbeiter", width: 18, value: func(t *domain.TimeEntryDTO) string { return t.UserName }},
			{title: "Kunde", width: 18, value: func(t *domain.TimeEntryDTO) string { return t.CustomerName }},
			{title: "Von", width: 5, value: func(t *domain.TimeEntryDTO) string { return display.FormatClock(t.StartTime) }},
			{title: "Bis", width: 5, value: func(t *domain.TimeEntryDTO) string { return display.FormatClock(t.EndTime) }},
			{title: "Dauer", width: 8, value: func(t *domain.TimeEntryDTO) string { return hours(t.Duration) }},
			{title: "Tätigkeit", width: 12, badge: func(t *domain.TimeEntryDTO) display.Badge {
				return display.StatusBadge(display.KindActivityType, string(t.ActivityType))
			}},
			{title: "Status", width: 12, badge: func(t *domain.TimeEntryDTO) display.Badge {
				return display.StatusBadge(display.KindTimeEntryStatus, string(t.Status))
			}},
			{title: "Beschreibung", width: 28, value: func(t *domain.TimeEntryDTO) string { return t.Description }},
		},
		id: func(t *domain.TimeEntryDTO) int64 { return t.ID },
		details: func(t *domain.TimeEntryDTO) [][2]string {
			return [][2]string{
				{"Mitarbeiter", t.UserName},
				{"Kunde", orNA(t.CustomerName)},
				{"Auftrag", orNA(view.FormatID(t.OrderID))},
				{"Beginn", display.FormatDateString(t.StartTime) + " " + display.FormatClock(t.StartTime)},
				{"Ende", orNA(display.FormatClock(t.EndTime))},
				{"Dauer", hours(t.Duration)},
				{"Tätigkeit", display.Label(display.KindActivityType, string(t.ActivityType))},
				{"Status", display.Label(display.KindTimeEntryStatus, string(t.Status))},
				{"Beschreibung", t.Description},
				{"Notizen", orNA(t.Notes)},
			}
		},
		fields: []field[D]{
			idField("Kunden-ID", func(d *D) **int64 { return &d.CustomerID }),
			idField("Auftrags-ID", func(d *D) **int64 { return &d.OrderID }),
			text("Beginn (RFC 3339)", func(d *D) *string { return &d.StartTime }),
			text("Ende (RFC 3339)", func(d *D) *string { return &d.EndTime }),
			text("Beschreibung", func(d *D) *string { return &d.Description }),
			choice("Tätigkeit", activityTypes, func(d *D) *domain.ActivityType { return &d.ActivityType }),
			choice("Status", timeEntryStatuses, func(d *D) *domain.TimeEntryStatus { return &d.Status }),
			text("Notizen", func(d *D) *string { return &d.Notes }),
		},
		defaults:  view.NewTimeEntryDraft,
		toDraft:   view.TimeEntryDraftFrom,
		creatable: true,
		actions: []action[domain.TimeEntryDTO]{
			{
				key:   "t",
				label: "Timer starten",
				prompt: []field[[]string]{
					promptField(0, "Beschreibung", nil),
					promptField(1, "Tätigkeit", activityTypes),
					promptField(2, "Kunden-ID", nil),
				},
				run: func(ctx context.Context, app *App, _ *domain.TimeEntryDTO, values []string) (string, error) {
					req := &domain.StartTimerRequest{
						Description:  strings.TrimSpace(values[0]),
						ActivityType: domain.ActivityType(values[1]),
						CustomerID:   view.ParseID(values[2]),
					}
					if req.Description == "" {
						return "", errors.New("Beschreibung fehlt")
					}
					t, err := app.client.StartTimer(ctx, app.session, req)
					if err != nil {
						return "", err
					}
					return "Timer läuft seit " + display.FormatClock(t.StartTime), nil
				},
			},
			{
				key:   "x",
				label: "Timer stoppen",
				row:   true,
				run: func(ctx context.Context, app *App, t *domain.TimeEntryDTO, _ []string) (string, error) {
					if t.Status != domain.TimeEntryActive {
						return "", errors.New("Timer läuft nicht")
					}
					stopped, err := app.client.StopTimer(ctx, app.session, t.ID)
					if err != nil {
						return "", err
					}
					return "Timer gestoppt: " + hours(stopped.Duration), nil
				},
			},
			{
				key:   "R",
				label: "Bericht",
				prompt: []field[[]string]{
					promptField(0, "Von (JJJJ-MM-TT)", nil),
					promptField(1, "Bis (JJJJ-MM-TT)", nil),
				},
				run: func(ctx context.Context, app *App, _ *domain.TimeEntryDTO, values []string) (string, error) {
					report, err := app.client.TimeReport(ctx, app.session,
						strings.TrimSpace(values[0]), strings.TrimSpace(values[1]), nil)
					if err != nil {
						return "", err
					}
					return fmt.Sprintf("%s bis %s: %s in %d Einträgen",
						display.FormatDateString(report.Period.DateFrom), display.FormatDateString(report.Period.DateTo),
						display.FormatHours(report.TotalHours), len(report.ReportData)), nil
				},
			},
			exportAction[domain.TimeEntryDTO]("time-entries"),
		},
	}
}

func hours(h *float64) string {
	if h == nil {
		return display.NotAvailable
	}
	return display.FormatHours(*h)
}
