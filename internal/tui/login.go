package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginScreen struct {
	server  string
	email   textinput.Model
	pass    textinput.Model
	focus   int
	busy    bool
	message string
}

func newLoginScreen(server string) *loginScreen {
	email := textinput.New()
	email.Placeholder = "name@glanzwerk.de"
	email.CharLimit = 255
	email.Width = 40
	email.Focus()

	pass := textinput.New()
	pass.Placeholder = "Passwort"
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 72
	pass.Width = 40

	return &loginScreen{server: server, email: email, pass: pass}
}

func (l *loginScreen) fail(message string) {
	l.busy = false
	l.message = message
	l.pass.SetValue("")
	l.setFocus(1)
}

func (l *loginScreen) setFocus(i int) tea.Cmd {
	l.focus = i
	if i == 0 {
		l.pass.Blur()
		return l.email.Focus()
	}
	l.email.Blur()
	return l.pass.Focus()
}

// Update handles input until the credentials are submitted
func (l *loginScreen) Update(msg tea.Msg, submit func(email, password string) tea.Cmd) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		if l.busy {
			return nil
		}
		switch key.String() {
		case "esc":
			return tea.Quit
		case "tab", "shift+tab", "up", "down":
			return l.setFocus(1 - l.focus)
		case "enter":
			if l.focus == 0 {
				return l.setFocus(1)
			}
			email := strings.TrimSpace(l.email.Value())
			if email == "" || l.pass.Value() == "" {
				l.message = "E-Mail und Passwort eingeben"
				return nil
			}
			l.busy = true
			l.message = ""
			return submit(email, l.pass.Value())
		}
	}

	var cmd tea.Cmd
	if l.focus == 0 {
		l.email, cmd = l.email.Update(msg)
	} else {
		l.pass, cmd = l.pass.Update(msg)
	}
	return cmd
}

func (l *loginScreen) View(width int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(" Glanzwerk CRM ") + "\n\n")
	b.WriteString(helpStyle.Render("Server: "+l.server) + "\n\n")
	b.WriteString(labelStyle.Render("E-Mail") + l.email.View() + "\n")
	b.WriteString(labelStyle.Render("Passwort") + l.pass.View() + "\n\n")
	switch {
	case l.busy:
		b.WriteString(helpStyle.Render("Anmeldung läuft..."))
	case l.message != "":
		b.WriteString(errorStyle.Render(l.message))
	default:
		b.WriteString(helpStyle.Render("enter: anmelden • tab: wechseln • esc: beenden"))
	}
	return boxStyle.Render(b.String())
}
