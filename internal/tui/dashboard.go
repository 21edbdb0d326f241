package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/domain"
	"go.uber.org/zap"
)

const kindDashboard = "dashboard"

type overviewMsg struct {
	overview *client.Overview
	err      error
}

func (overviewMsg) target() string { return kindDashboard }

type dashboardScreen struct {
	app      *App
	overview *client.Overview
	loading  bool
	err      error
}

func newDashboardScreen(app *App) *dashboardScreen {
	return &dashboardScreen{app: app}
}

func (d *dashboardScreen) Kind() string    { return kindDashboard }
func (d *dashboardScreen) Title() string   { return "Übersicht" }
func (d *dashboardScreen) Capturing() bool { return false }
func (d *dashboardScreen) Init() tea.Cmd   { return d.Refresh() }

func (d *dashboardScreen) Refresh() tea.Cmd {
	d.loading = true
	return func() tea.Msg {
		o, err := d.app.client.Overview(d.app.ctx, d.app.session)
		return overviewMsg{overview: o, err: err}
	}
}

func (d *dashboardScreen) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case overviewMsg:
		d.loading = false
		d.err = msg.err
		if msg.err != nil {
			d.app.logger.Error("failed to load overview", zap.Error(msg.err))
			return nil
		}
		d.overview = msg.overview
	case tea.KeyMsg:
		if msg.String() == "r" {
			return d.Refresh()
		}
	}
	return nil
}

func (d *dashboardScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Übersicht "))
	if d.loading {
		b.WriteString(helpStyle.Render("  lädt..."))
	}
	b.WriteString("\n\n")

	if d.err != nil && d.overview == nil {
		b.WriteString(errorStyle.Render("Übersicht konnte nicht geladen werden"))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("r: neu laden • tab: weiter • q: beenden"))
		return b.String()
	}
	if d.overview == nil {
		return b.String()
	}

	o := d.overview
	cards := []string{
		card("Aufträge",
			kv("Ausstehend", o.Orders.PendingOrders),
			kv("Bestätigt", o.Orders.ConfirmedOrders),
			kv("In Bearbeitung", o.Orders.InProgressOrders),
			kv("Heute", o.Orders.TodaysOrders),
			kv("Diese Woche", o.Orders.ThisWeekOrders),
			kv("Kunden", o.Orders.TotalCustomers)),
		card("Rechnungen",
			append(amountLines(o.Invoices.AmountByStatus),
				kv("Überfällig", o.Invoices.OverdueInvoices))...),
		card("Inventar",
			kv("Artikel", o.Inventory.ActiveItems),
			kv("Niedriger Bestand", o.Inventory.LowStockItems),
			kv("Nicht vorrätig", o.Inventory.OutOfStockItems),
			"Lagerwert: "+display.FormatCurrency(o.Inventory.TotalValue)),
		card("Qualität", scoreLines(o.Quality.AvgScoresByType)...),
		card("Zeiterfassung",
			append(hourLines(o.Time.UserHours),
				kv("Laufende Timer", o.Time.ActiveEntries))...),
	}

	perRow := max(1, width/36)
	for i := 0; i < len(cards); i += perRow {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cards[i:min(i+perRow, len(cards))]...))
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render("r: neu laden • tab: weiter • q: beenden"))
	return b.String()
}

func card(title string, lines ...string) string {
	return cardStyle.Render(headerStyle.Render(title) + "\n" + strings.Join(lines, "\n"))
}

func kv(label string, n int64) string {
	return fmt.Sprintf("%s: %d", label, n)
}

func amountLines(byStatus map[string]float64) []string {
	keys := make([]string, 0, len(byStatus))
	for k := range byStatus {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, display.Label(display.KindInvoiceStatus, k)+": "+display.FormatCurrency(byStatus[k]))
	}
	return lines
}

func scoreLines(byType map[string]float64) []string {
	if len(byType) == 0 {
		return []string{"Keine Prüfungen"}
	}
	keys := make([]string, 0, len(byType))
	for k := range byType {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		score := byType[k]
		lines = append(lines, display.Label(display.KindCheckType, k)+": "+renderBadge(display.ScoreBadge(score)))
	}
	return lines
}

func hourLines(users []domain.UserHoursDTO) []string {
	lines := make([]string, 0, len(users))
	for _, u := range users {
		lines = append(lines, u.UserName+": "+display.FormatHours(u.Hours))
	}
	return lines
}
