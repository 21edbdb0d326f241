// Package tui is the terminal front end of the CRM: a bubbletea program with
// a login screen, a dashboard and one list screen per record type.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/config"
	"github.com/glanzwerk/crm/internal/domain"
	"go.uber.org/zap"
)

// App is what every screen shares once the user is logged in
type App struct {
	ctx     context.Context
	client  *client.Client
	session *client.Session
	cfg     *config.ClientConfig
	logger  *zap.Logger
	alerts  chan string
}

// alert queues a blocking message box. It never blocks the caller.
func (a *App) alert(message string) {
	select {
	case a.alerts <- message:
	default:
		a.logger.Warn("alert dropped", zap.String("message", message))
	}
}

// screen is one tab of the program
type screen interface {
	Kind() string
	Title() string
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	// Capturing reports whether the screen consumes every key, e.g. while a
	// form is open
	Capturing() bool
	Refresh() tea.Cmd
}

// targeted messages are delivered to the screen of that kind only
type targeted interface {
	target() string
}

type (
	loginMsg struct {
		session *client.Session
		err     error
	}
	alertMsg     string
	changeMsg    domain.ChangeEvent
	feedEndedMsg struct{ err error }
)

// Model is the root bubbletea model
type Model struct {
	ctx    context.Context
	cancel context.CancelFunc
	client *client.Client
	cfg    *config.ClientConfig
	logger *zap.Logger

	app     *App
	login   *loginScreen
	screens []screen
	active  int
	alerts  []string
	events  chan domain.ChangeEvent

	width  int
	height int
}

// New creates the program model. Nothing is fetched before login.
func New(c *client.Client, cfg *config.ClientConfig, logger *zap.Logger) *Model {
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		ctx:    ctx,
		cancel: cancel,
		client: c,
		cfg:    cfg,
		logger: logger,
		login:  newLoginScreen(c.BaseURL()),
		width:  100,
		height: 30,
	}
}

func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Session returns the active session, nil before login
func (m *Model) Session() *client.Session {
	if m.app == nil {
		return nil
	}
	return m.app.session
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, m.quit()
		}
		if len(m.alerts) > 0 {
			switch msg.String() {
			case "enter", "esc", " ":
				m.alerts = m.alerts[1:]
			}
			return m, nil
		}

	case loginMsg:
		if msg.err != nil {
			m.logger.Warn("login failed", zap.Error(msg.err))
			m.login.fail(loginError(msg.err))
			return m, nil
		}
		return m, m.startSession(msg.session)

	case alertMsg:
		m.alerts = append(m.alerts, string(msg))
		return m, m.waitForAlert()

	case changeMsg:
		return m, tea.Batch(m.onChange(domain.ChangeEvent(msg)), m.waitForEvent())

	case feedEndedMsg:
		if msg.err != nil {
			m.logger.Warn("change feed ended", zap.Error(msg.err))
		}
		return m, nil
	}

	if m.app == nil {
		return m, m.login.Update(msg, m.submitLogin)
	}

	if t, ok := msg.(targeted); ok {
		for _, s := range m.screens {
			if s.Kind() == t.target() {
				return m, s.Update(msg)
			}
		}
		return m, nil
	}

	current := m.screens[m.active]
	if key, ok := msg.(tea.KeyMsg); ok && !current.Capturing() {
		switch key.String() {
		case "q":
			return m, m.quit()
		case "tab":
			return m, m.switchTo((m.active + 1) % len(m.screens))
		case "shift+tab":
			return m, m.switchTo((m.active + len(m.screens) - 1) % len(m.screens))
		case "1", "2", "3", "4", "5", "6", "7", "8", "9":
			return m, m.switchTo(int(key.String()[0] - '1'))
		}
	}
	return m, current.Update(msg)
}

func (m *Model) quit() tea.Cmd {
	m.cancel()
	return tea.Quit
}

func (m *Model) switchTo(i int) tea.Cmd {
	if i < 0 || i >= len(m.screens) || i == m.active {
		return nil
	}
	m.active = i
	return m.screens[i].Refresh()
}

func (m *Model) submitLogin(email, password string) tea.Cmd {
	return func() tea.Msg {
		s, err := m.client.Login(m.ctx, email, password)
		return loginMsg{session: s, err: err}
	}
}

func loginError(err error) string {
	switch {
	case client.IsStatus(err, 401):
		return "E-Mail oder Passwort ist falsch"
	case client.IsStatus(err, 403):
		return "Kein Zugriff für dieses Konto"
	default:
		return "Server nicht erreichbar"
	}
}

// startSession builds the screens for the logged in user
func (m *Model) startSession(s *client.Session) tea.Cmd {
	m.app = &App{
		ctx:     m.ctx,
		client:  m.client,
		session: s,
		cfg:     m.cfg,
		logger:  m.logger,
		alerts:  make(chan string, 16),
	}
	m.screens = buildScreens(m.app)
	m.active = 0

	cmds := []tea.Cmd{m.waitForAlert()}
	for _, sc := range m.screens {
		cmds = append(cmds, sc.Init())
	}
	if m.cfg.Events {
		m.events = make(chan domain.ChangeEvent, 64)
		cmds = append(cmds, m.subscribe(), m.waitForEvent())
	}
	return tea.Batch(cmds...)
}

func (m *Model) waitForAlert() tea.Cmd {
	alerts := m.app.alerts
	return func() tea.Msg {
		select {
		case a := <-alerts:
			return alertMsg(a)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// subscribe runs the change feed until the program exits
func (m *Model) subscribe() tea.Cmd {
	app, events := m.app, m.events
	return func() tea.Msg {
		err := app.client.Subscribe(app.ctx, app.session, func(e domain.ChangeEvent) {
			select {
			case events <- e:
			default:
				app.logger.Warn("change event dropped", zap.String("type", e.Type))
			}
		})
		return feedEndedMsg{err: err}
	}
}

func (m *Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		select {
		case e := <-events:
			return changeMsg(e)
		case <-m.ctx.Done():
			return nil
		}
	}
}

// onChange refreshes the screens showing the changed record type and the
// dashboard when it is in front
func (m *Model) onChange(e domain.ChangeEvent) tea.Cmd {
	var cmds []tea.Cmd
	for i, s := range m.screens {
		if s.Kind() == e.Type || (i == m.active && s.Kind() == kindDashboard) {
			cmds = append(cmds, s.Refresh())
		}
	}
	return tea.Batch(cmds...)
}

func (m *Model) View() string {
	if m.app == nil {
		return m.login.View(m.width)
	}

	var b strings.Builder
	b.WriteString(m.tabs())
	b.WriteString("\n\n")
	if len(m.alerts) > 0 {
		b.WriteString(alertStyle.Render(errorStyle.Render(m.alerts[0]) + "\n\n" + helpStyle.Render("enter: OK")))
		return b.String()
	}
	b.WriteString(m.screens[m.active].View(m.width, m.height-4))
	return b.String()
}

func (m *Model) tabs() string {
	parts := make([]string, 0, len(m.screens)+1)
	for i, s := range m.screens {
		label := fmt.Sprintf("%d %s", i+1, s.Title())
		if i == m.active {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	user := helpStyle.Render(fmt.Sprintf("  %s (%s)", m.app.session.User.Name, m.app.session.User.Role))
	parts = append(parts, user)
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}
