package tui

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/glanzwerk/crm/internal/client"
	"github.com/glanzwerk/crm/internal/display"
	"github.com/glanzwerk/crm/internal/view"
	"go.uber.org/zap"
)

type mode int

const (
	modeBrowse mode = iota
	modeSearch
	modeForm
	modeDetail
	modeConfirm
	modePrompt
)

// column renders one table column. With badge set the cell is colored.
type column[T any] struct {
	title string
	width int
	value func(*T) string
	badge func(*T) display.Badge
}

type filterDef struct {
	key     string
	label   string
	options []display.Option
	// load replaces the static options once the screen starts
	load func(ctx context.Context, app *App) ([]display.Option, error)
}

// action is an entity specific operation bound to a key
type action[T any] struct {
	key   string
	label string
	// row actions work on the selected record
	row    bool
	prompt []field[[]string]
	// load provides the options of the first prompt field
	load func(ctx context.Context, app *App) ([]display.Option, error)
	run  func(ctx context.Context, app *App, item *T, values []string) (string, error)
}

// entityDef describes a list screen of records T edited as drafts D
type entityDef[T any, D any] struct {
	kind       string
	title      string
	entity     view.Entity
	resource   func(c *client.Client) *client.Resource[T]
	searchable bool
	filters    []filterDef
	columns    []column[T]
	id         func(*T) int64
	details    func(*T) [][2]string
	fields     []field[D]
	defaults   func() D
	toDraft    func(*T) D
	normalize  func(*D)
	creatable  bool
	deletable  bool
	actions    []action[T]
}

type (
	refreshedMsg struct {
		kind string
		err  error
	}
	optionsMsg struct {
		kind    string
		index   int
		options []display.Option
		err     error
	}
	submittedMsg struct {
		kind string
		err  error
	}
	detailMsg struct {
		kind string
		edit bool
		err  error
	}
	actionDoneMsg struct {
		kind    string
		text    string
		refresh bool
		err     error
	}
	promptReadyMsg struct {
		kind    string
		options []display.Option
		err     error
	}
)

func (m refreshedMsg) target() string   { return m.kind }
func (m optionsMsg) target() string     { return m.kind }
func (m submittedMsg) target() string   { return m.kind }
func (m detailMsg) target() string      { return m.kind }
func (m actionDoneMsg) target() string  { return m.kind }
func (m promptReadyMsg) target() string { return m.kind }

type filterChange struct {
	key   string
	value string
}

type entityScreen[T any, D any] struct {
	def    entityDef[T, D]
	app    *App
	logger *zap.Logger

	list   *view.ListView[T]
	form   *view.Form[D, T]
	detail *view.DetailDialog[T]
	del    *view.DeleteAction

	filters     []*view.Select
	filterFocus int
	changed     []filterChange
	search      textinput.Model

	editor     *editor[D]
	prompt     *editor[[]string]
	active     *action[T]
	activeItem *T

	cursor    int
	mode      mode
	status    string
	statusErr bool
}

func newEntityScreen[T any, D any](app *App, def entityDef[T, D]) *entityScreen[T, D] {
	logger := app.logger.Named(def.kind)
	res := def.resource(app.client)

	s := &entityScreen[T, D]{def: def, app: app, logger: logger}
	s.list = view.NewListView[T](res, app.session, app.cfg.PerPage, logger)
	s.detail = view.NewDetailDialog[T](res, app.session, logger)
	if def.creatable {
		s.form = view.NewForm[D, T](res, app.session, s.list, def.entity, def.defaults, app.alert, logger)
		s.editor = newEditor(def.fields)
	}
	if def.deletable {
		s.del = view.NewDeleteAction(res, app.session, s.list, def.entity, app.alert, logger)
	}
	for _, f := range def.filters {
		s.filters = append(s.filters, s.newFilter(f.key, f.options))
	}

	s.search = textinput.New()
	s.search.Placeholder = "Suchen..."
	s.search.Prompt = "/ "
	s.search.Width = 30
	return s
}

func withAny(options []display.Option) []display.Option {
	return append([]display.Option{{Value: "", Label: "Alle"}}, options...)
}

func (s *entityScreen[T, D]) newFilter(key string, options []display.Option) *view.Select {
	return view.NewSelect(withAny(options), "", func(value string) {
		s.changed = append(s.changed, filterChange{key: key, value: value})
	})
}

func (s *entityScreen[T, D]) Kind() string  { return s.def.kind }
func (s *entityScreen[T, D]) Title() string { return s.def.title }

func (s *entityScreen[T, D]) Capturing() bool {
	return s.mode != modeBrowse
}

func (s *entityScreen[T, D]) Init() tea.Cmd {
	cmds := []tea.Cmd{s.Refresh()}
	for i, f := range s.def.filters {
		if f.load == nil {
			continue
		}
		cmds = append(cmds, func() tea.Msg {
			options, err := f.load(s.app.ctx, s.app)
			return optionsMsg{kind: s.def.kind, index: i, options: options, err: err}
		})
	}
	return tea.Batch(cmds...)
}

func (s *entityScreen[T, D]) Refresh() tea.Cmd {
	return func() tea.Msg {
		return refreshedMsg{kind: s.def.kind, err: s.list.Refresh(s.app.ctx)}
	}
}

// applyFilters issues one list request per changed filter. Only the latest
// response is kept by the list view.
func (s *entityScreen[T, D]) applyFilters() tea.Cmd {
	changes := s.changed
	s.changed = nil
	cmds := make([]tea.Cmd, 0, len(changes))
	for _, c := range changes {
		cmds = append(cmds, func() tea.Msg {
			return refreshedMsg{kind: s.def.kind, err: s.list.SetFilter(s.app.ctx, c.key, c.value)}
		})
	}
	return tea.Batch(cmds...)
}

func (s *entityScreen[T, D]) setStatus(text string) {
	s.status, s.statusErr = text, false
}

func (s *entityScreen[T, D]) setError(text string) {
	s.status, s.statusErr = text, true
}

func (s *entityScreen[T, D]) selected() *T {
	items := s.list.Items()
	if s.cursor < 0 || s.cursor >= len(items) {
		return nil
	}
	return &items[s.cursor]
}

func (s *entityScreen[T, D]) clampCursor() {
	n := len(s.list.Items())
	if s.cursor >= n {
		s.cursor = n - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

func (s *entityScreen[T, D]) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case refreshedMsg:
		if msg.err != nil {
			s.setError("Liste konnte nicht geladen werden")
		}
		s.clampCursor()
		return nil

	case optionsMsg:
		if msg.err != nil {
			s.logger.Warn("failed to load filter options", zap.Error(msg.err))
			return nil
		}
		if msg.index < len(s.filters) {
			s.filters[msg.index] = s.newFilter(s.def.filters[msg.index].key, msg.options)
		}
		return nil

	case submittedMsg:
		var ve *view.ValidationError
		switch {
		case msg.err == nil:
			s.mode = modeBrowse
			s.setStatus("Gespeichert")
		case errors.As(msg.err, &ve):
			s.setError("Ungültige Eingaben: " + strings.Join(sortedKeys(ve.Fields), ", "))
		default:
			s.setError(msg.err.Error())
		}
		return nil

	case detailMsg:
		if msg.err != nil {
			s.setError("Datensatz konnte nicht geladen werden")
			return nil
		}
		s.mode = modeDetail
		if msg.edit {
			return s.editShown()
		}
		return nil

	case promptReadyMsg:
		if msg.err != nil {
			s.logger.Error("failed to prepare action", zap.Error(msg.err))
			s.setError("Aktion nicht verfügbar")
			return nil
		}
		return s.openPrompt(msg.options)

	case actionDoneMsg:
		if msg.err != nil {
			if !errors.Is(msg.err, view.ErrNothingPending) {
				s.setError(actionError(msg.err))
			}
			return nil
		}
		s.setStatus(msg.text)
		if msg.refresh {
			return s.Refresh()
		}
		return nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	// cursor blinks and other input internals
	switch s.mode {
	case modeSearch:
		var cmd tea.Cmd
		s.search, cmd = s.search.Update(msg)
		return cmd
	case modeForm:
		return s.editor.update(msg)
	case modePrompt:
		return s.prompt.update(msg)
	}
	return nil
}

func actionError(err error) string {
	var se *client.StatusError
	if errors.As(err, &se) {
		return se.Detail
	}
	return err.Error()
}

func (s *entityScreen[T, D]) handleKey(key tea.KeyMsg) tea.Cmd {
	switch s.mode {
	case modeSearch:
		return s.handleSearchKey(key)
	case modeForm:
		return s.handleFormKey(key)
	case modeDetail:
		return s.handleDetailKey(key)
	case modeConfirm:
		return s.handleConfirmKey(key)
	case modePrompt:
		return s.handlePromptKey(key)
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.list.Items())-1 {
			s.cursor++
		}
	case "home", "g":
		s.cursor = 0
	case "end", "G":
		s.cursor = len(s.list.Items()) - 1
		s.clampCursor()
	case "r":
		return s.Refresh()
	case "enter":
		return s.openDetail(false)
	case "e":
		if s.form != nil {
			return s.openDetail(true)
		}
	case "n":
		if s.form != nil {
			s.form.Open()
			s.mode = modeForm
			s.status = ""
			return s.editor.load(s.form.Draft())
		}
	case "d":
		if s.del != nil {
			if item := s.selected(); item != nil {
				s.del.Request(s.def.id(item))
				s.mode = modeConfirm
			}
		}
	case "/":
		if s.def.searchable {
			s.mode = modeSearch
			return s.search.Focus()
		}
	case "f":
		if len(s.filters) > 0 {
			s.filterFocus = (s.filterFocus + 1) % len(s.filters)
		}
	case "left", "[":
		if len(s.filters) > 0 {
			s.filters[s.filterFocus].Prev()
			return s.applyFilters()
		}
	case "right", "]":
		if len(s.filters) > 0 {
			s.filters[s.filterFocus].Next()
			return s.applyFilters()
		}
	default:
		for i := range s.def.actions {
			if a := &s.def.actions[i]; a.key == key.String() {
				return s.startAction(a, s.selected())
			}
		}
	}
	return nil
}

func (s *entityScreen[T, D]) handleSearchKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "enter":
		s.search.Blur()
		s.mode = modeBrowse
		return nil
	}
	before := s.search.Value()
	var cmd tea.Cmd
	s.search, cmd = s.search.Update(key)
	if value := strings.TrimSpace(s.search.Value()); value != strings.TrimSpace(before) {
		s.changed = append(s.changed, filterChange{key: "search", value: value})
		return tea.Batch(cmd, s.applyFilters())
	}
	return cmd
}

func (s *entityScreen[T, D]) openDetail(edit bool) tea.Cmd {
	item := s.selected()
	if item == nil {
		return nil
	}
	id := s.def.id(item)
	return func() tea.Msg {
		return detailMsg{kind: s.def.kind, edit: edit, err: s.detail.Open(s.app.ctx, id)}
	}
}

// editShown moves from the detail dialog into the edit form
func (s *entityScreen[T, D]) editShown() tea.Cmd {
	if s.form == nil || !view.EditRecord(s.detail, s.form, s.def.toDraft) {
		return nil
	}
	s.mode = modeForm
	s.status = ""
	return s.editor.load(s.form.Draft())
}

func (s *entityScreen[T, D]) handleFormKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		s.form.Edit(s.applyEditor)
		s.form.Close()
		s.mode = modeBrowse
		return nil
	case "ctrl+s":
		return s.submit()
	case "enter":
		if s.editor.last() {
			return s.submit()
		}
		return s.editor.setFocus(s.editor.focus + 1)
	}
	return s.editor.update(key)
}

func (s *entityScreen[T, D]) applyEditor(d *D) {
	s.editor.apply(d)
	if s.def.normalize != nil {
		s.def.normalize(d)
	}
}

func (s *entityScreen[T, D]) submit() tea.Cmd {
	s.form.Edit(s.applyEditor)
	return func() tea.Msg {
		_, err := s.form.Submit(s.app.ctx)
		return submittedMsg{kind: s.def.kind, err: err}
	}
}

func (s *entityScreen[T, D]) handleDetailKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc", "q":
		s.detail.Close()
		s.mode = modeBrowse
		return nil
	case "e":
		return s.editShown()
	case "d":
		if s.del != nil {
			id, _ := s.detail.Record()
			s.detail.Close()
			s.del.Request(id)
			s.mode = modeConfirm
		}
		return nil
	}
	for i := range s.def.actions {
		if a := &s.def.actions[i]; a.key == key.String() && a.row {
			_, item := s.detail.Record()
			s.detail.Close()
			s.mode = modeBrowse
			return s.startAction(a, item)
		}
	}
	return nil
}

func (s *entityScreen[T, D]) handleConfirmKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "y", "j", "enter":
		s.mode = modeBrowse
		return func() tea.Msg {
			err := s.del.Confirm(s.app.ctx)
			return actionDoneMsg{kind: s.def.kind, text: "Gelöscht", err: err}
		}
	case "n", "esc":
		s.del.Cancel()
		s.mode = modeBrowse
	}
	return nil
}

func (s *entityScreen[T, D]) startAction(a *action[T], item *T) tea.Cmd {
	if a.row && item == nil {
		return nil
	}
	s.active, s.activeItem = a, item
	s.status = ""
	if len(a.prompt) == 0 {
		return s.runAction(nil)
	}
	if a.load != nil {
		return func() tea.Msg {
			options, err := a.load(s.app.ctx, s.app)
			return promptReadyMsg{kind: s.def.kind, options: options, err: err}
		}
	}
	return s.openPrompt(nil)
}

func (s *entityScreen[T, D]) openPrompt(options []display.Option) tea.Cmd {
	fields := s.active.prompt
	if options != nil {
		fields = slices.Clone(fields)
		fields[0].options = options
	}
	s.prompt = newEditor(fields)
	s.mode = modePrompt
	return s.prompt.load(make([]string, len(fields)))
}

func (s *entityScreen[T, D]) handlePromptKey(key tea.KeyMsg) tea.Cmd {
	switch key.String() {
	case "esc":
		s.mode = modeBrowse
		return nil
	case "ctrl+s":
	case "enter":
		if !s.prompt.last() {
			return s.prompt.setFocus(s.prompt.focus + 1)
		}
	default:
		return s.prompt.update(key)
	}
	values := make([]string, len(s.prompt.fields))
	s.prompt.apply(&values)
	return s.runAction(values)
}

func (s *entityScreen[T, D]) runAction(values []string) tea.Cmd {
	a, item := s.active, s.activeItem
	s.mode = modeBrowse
	return func() tea.Msg {
		text, err := a.run(s.app.ctx, s.app, item, values)
		if err != nil {
			s.logger.Error("action failed", zap.String("action", a.label), zap.Error(err))
		}
		return actionDoneMsg{kind: s.def.kind, text: text, refresh: true, err: err}
	}
}

func (s *entityScreen[T, D]) View(width, height int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(" "+s.def.title+" "))
	b.WriteString(helpStyle.Render(fmt.Sprintf("  %d Einträge", s.list.Total())))
	if s.list.Loading() {
		b.WriteString(helpStyle.Render("  lädt..."))
	}
	b.WriteString("\n")
	b.WriteString(s.filterLine())
	b.WriteString("\n")

	switch s.mode {
	case modeForm:
		title := "Neu"
		if s.form.Editing() {
			title = "Bearbeiten"
		}
		b.WriteString(boxStyle.Render(titleStyle.Render(" "+title+" ") + "\n\n" + s.editor.view() + "\n" +
			helpStyle.Render("tab: nächstes Feld • ←/→: Auswahl • ctrl+s: speichern • esc: schließen")))
	case modeDetail:
		b.WriteString(s.detailView())
	case modeConfirm:
		b.WriteString(alertStyle.Render(fmt.Sprintf("Datensatz %d wirklich löschen?\n\n", s.del.Pending()) +
			helpStyle.Render("y: löschen • n: abbrechen")))
	case modePrompt:
		b.WriteString(boxStyle.Render(titleStyle.Render(" "+s.active.label+" ") + "\n\n" + s.prompt.view() + "\n" +
			helpStyle.Render("enter: ausführen • esc: abbrechen")))
	default:
		b.WriteString(s.table(width, height-6))
	}

	b.WriteString("\n")
	if s.status != "" {
		if s.statusErr {
			b.WriteString(errorStyle.Render(s.status))
		} else {
			b.WriteString(successStyle.Render(s.status))
		}
		b.WriteString("\n")
	}
	b.WriteString(helpStyle.Render(s.help()))
	return b.String()
}

func (s *entityScreen[T, D]) filterLine() string {
	var parts []string
	for i, f := range s.filters {
		text := s.def.filters[i].label + ": " + f.Label()
		if i == s.filterFocus {
			text = focusStyle.Render(text)
		}
		parts = append(parts, text)
	}
	if s.def.searchable {
		parts = append(parts, s.search.View())
	}
	return strings.Join(parts, "   ")
}

func (s *entityScreen[T, D]) table(width, height int) string {
	var b strings.Builder
	var header []string
	for _, c := range s.def.columns {
		header = append(header, cell(c.title, c.width))
	}
	b.WriteString(headerStyle.Render(strings.Join(header, " ")))
	b.WriteString("\n")

	items := s.list.Items()
	if len(items) == 0 {
		if err := s.list.Err(); err != nil {
			b.WriteString(errorStyle.Render("Keine Daten (Server nicht erreichbar)"))
		} else {
			b.WriteString(helpStyle.Render("Keine Einträge"))
		}
		return b.String()
	}

	visible := max(height, 3)
	start := 0
	if s.cursor >= visible {
		start = s.cursor - visible + 1
	}
	end := min(start+visible, len(items))
	for i := start; i < end; i++ {
		item := &items[i]
		row := make([]string, 0, len(s.def.columns))
		for _, c := range s.def.columns {
			if c.badge != nil {
				badge := c.badge(item)
				badge.Label = cell(badge.Label, c.width)
				row = append(row, renderBadge(badge))
				continue
			}
			row = append(row, cell(c.value(item), c.width))
		}
		line := strings.Join(row, " ")
		if i == s.cursor {
			line = selectedStyle.Render("▸" + line)
		} else {
			line = " " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (s *entityScreen[T, D]) detailView() string {
	_, record := s.detail.Record()
	if record == nil {
		return ""
	}
	var b strings.Builder
	for _, kv := range s.def.details(record) {
		b.WriteString(labelStyle.Render(kv[0]))
		b.WriteString(kv[1])
		b.WriteString("\n")
	}
	help := []string{"esc: schließen"}
	if s.form != nil {
		help = append(help, "e: bearbeiten")
	}
	if s.del != nil {
		help = append(help, "d: löschen")
	}
	for _, a := range s.def.actions {
		if a.row {
			help = append(help, a.key+": "+a.label)
		}
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return boxStyle.Render(b.String())
}

func (s *entityScreen[T, D]) help() string {
	help := []string{"↑/↓: auswählen", "enter: details"}
	if s.form != nil {
		help = append(help, "n: neu", "e: bearbeiten")
	}
	if s.del != nil {
		help = append(help, "d: löschen")
	}
	if len(s.filters) > 0 {
		help = append(help, "f/←/→: filter")
	}
	if s.def.searchable {
		help = append(help, "/: suchen")
	}
	for _, a := range s.def.actions {
		help = append(help, a.key+": "+a.label)
	}
	help = append(help, "r: neu laden", "tab: weiter", "q: beenden")
	return strings.Join(help, " • ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
