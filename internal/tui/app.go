// Package tui es el dashboard de terminal: grilla de mascotas, búsqueda,
// modales de alta/edición, borrado con explosión y avisos.
package tui

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"pawgrammers/internal/dashboard/notify"
	"pawgrammers/internal/dashboard/optimistic"
	"pawgrammers/internal/dashboard/prefs"
	"pawgrammers/internal/petstore"
	"pawgrammers/internal/platform/clock"
	"pawgrammers/internal/platform/logger"
)

type loadedMsg struct{ err error }

type addDoneMsg struct {
	tempID  string
	outcome optimistic.Outcome
}

type deleteDoneMsg struct {
	id      string
	outcome optimistic.Outcome
}

type updateDoneMsg struct {
	id      string
	outcome optimistic.Outcome
}

type prefsSavedMsg struct{ err error }

// ghost es una tarjeta ya sacada de la lista que sigue explotando.
type ghost struct {
	pet petstore.Pet
	pos int
}

type Options struct {
	Controller *optimistic.Controller
	Notices    *notify.Channel
	Clock      clock.Scheduler
	Prefs      prefs.Prefs
	PrefsPath  string
	Log        logger.Logger
	BaseURL    string
}

// App es el modelo raíz de Bubbletea.
type App struct {
	ctl       *optimistic.Controller
	notices   *notify.Channel
	clock     clock.Scheduler
	log       logger.Logger
	prefsPath string
	baseURL   string

	theme prefs.Theme
	st    styles

	search    textinput.Model
	searching bool

	form     formModel
	formOpen bool

	cursor  int
	ghosts  map[string]ghost
	loading bool

	width  int
	height int
	frame  int
}

func NewApp(opts Options) App {
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	if opts.Notices == nil {
		opts.Notices = notify.New(opts.Clock)
	}
	theme := prefs.ParseTheme(string(opts.Prefs.Theme))

	si := textinput.New()
	si.Placeholder = "Search by name..."
	si.Prompt = "/ "
	si.CharLimit = 64
	si.Width = 40

	return App{
		ctl:       opts.Controller,
		notices:   opts.Notices,
		clock:     opts.Clock,
		log:       opts.Log.With(map[string]any{"component": "tui"}),
		prefsPath: opts.PrefsPath,
		baseURL:   opts.BaseURL,
		theme:     theme,
		st:        newStyles(theme),
		search:    si,
		ghosts:    make(map[string]ghost),
		loading:   true,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(tickCmd(), a.refreshCmd())
}

func (a App) refreshCmd() tea.Cmd {
	ctl := a.ctl
	return func() tea.Msg {
		return loadedMsg{err: ctl.Refresh(context.Background())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tickMsg:
		a.frame++
		a.pruneGhosts()
		a.clampCursor()
		return a, tickCmd()

	case loadedMsg:
		a.loading = false
		a.clampCursor()
		return a, nil

	case addDoneMsg, updateDoneMsg:
		a.clampCursor()
		return a, nil

	case deleteDoneMsg:
		a.log.Debug("delete settled", map[string]any{"id": msg.id, "outcome": msg.outcome.String()})
		a.clampCursor()
		return a, nil

	case prefsSavedMsg:
		if msg.err != nil {
			a.log.Warn("save prefs failed", map[string]any{"error": msg.err})
		}
		return a, nil

	case tea.KeyMsg:
		if a.formOpen {
			return a.updateForm(msg)
		}
		if a.searching {
			return a.updateSearch(msg)
		}
		return a.updateKeys(msg)
	}

	if a.formOpen {
		var cmd tea.Cmd
		a.form, cmd = a.form.Update(msg)
		return a, cmd
	}
	return a, nil
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cols := columns(a.width)

	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "/":
		a.searching = true
		return a, a.search.Focus()
	case "esc":
		// sin búsqueda activa, esc cierra el aviso
		if a.search.Value() == "" {
			a.notices.Dismiss()
			return a, nil
		}
		a.search.SetValue("")
		a.clampCursor()
	case "t":
		a.theme = a.theme.Toggle()
		a.st = newStyles(a.theme)
		return a, a.savePrefsCmd()
	case "a":
		a.form = newForm(formAdd)
		a.formOpen = true
	case "e":
		p, ok := a.selected()
		if !ok || optimistic.IsTemp(p.ID) || a.ctl.Exploding(p.ID) {
			return a, nil
		}
		a.form = newEditForm(p)
		a.formOpen = true
	case "d", "x", "delete":
		return a.deleteSelected()
	case "r":
		a.loading = true
		return a, a.refreshCmd()
	case "left", "h":
		a.cursor--
	case "right", "l":
		a.cursor++
	case "up", "k":
		a.cursor -= cols
	case "down", "j":
		a.cursor += cols
	}
	a.clampCursor()
	return a, nil
}

func (a App) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "enter":
		a.searching = false
		a.search.Blur()
		return a, nil
	case "esc":
		a.searching = false
		a.search.Blur()
		a.search.SetValue("")
		a.clampCursor()
		return a, nil
	}

	var cmd tea.Cmd
	a.search, cmd = a.search.Update(msg)
	a.cursor = 0
	return a, cmd
}

func (a App) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	var cmd tea.Cmd
	a.form, cmd = a.form.Update(msg)

	switch {
	case a.form.canceled:
		a.formOpen = false
		return a, nil
	case a.form.submitted:
		a.formOpen = false
		return a, a.submitForm(a.form)
	}
	return a, cmd
}

func (a App) submitForm(f formModel) tea.Cmd {
	ctl := a.ctl
	fields := f.fields

	if f.mode == formEdit {
		id := f.petID
		return func() tea.Msg {
			return updateDoneMsg{id: id, outcome: ctl.Update(context.Background(), id, fields)}
		}
	}

	// el registro provisorio aparece antes de volver al loop
	tempID := ctl.BeginAdd(fields)
	return func() tea.Msg {
		return addDoneMsg{tempID: tempID, outcome: ctl.CompleteAdd(context.Background(), tempID, fields)}
	}
}

func (a App) deleteSelected() (tea.Model, tea.Cmd) {
	p, ok := a.selected()
	if !ok || optimistic.IsTemp(p.ID) || a.ctl.Exploding(p.ID) {
		return a, nil
	}

	a.ghosts[p.ID] = ghost{pet: p, pos: a.cursor}
	ctl := a.ctl
	id := p.ID
	return a, func() tea.Msg {
		return deleteDoneMsg{id: id, outcome: ctl.Delete(context.Background(), id)}
	}
}

func (a App) savePrefsCmd() tea.Cmd {
	path := a.prefsPath
	if path == "" {
		return nil
	}
	p := prefs.Prefs{Theme: a.theme}
	return func() tea.Msg {
		return prefsSavedMsg{err: prefs.Save(path, p)}
	}
}

// visible devuelve la lista filtrada con las tarjetas explotando que ya
// salieron de la lista reinsertadas en su lugar.
func (a App) visible() []petstore.Pet {
	if a.ctl == nil {
		return nil
	}
	pets := a.ctl.List().Filter(a.search.Value())

	present := make(map[string]bool, len(pets))
	for _, p := range pets {
		present[p.ID] = true
	}

	gs := make([]ghost, 0, len(a.ghosts))
	for id, g := range a.ghosts {
		if !present[id] && a.ctl.Exploding(id) {
			gs = append(gs, g)
		}
	}
	sort.Slice(gs, func(i, j int) bool { return gs[i].pos < gs[j].pos })

	for _, g := range gs {
		pos := g.pos
		if pos > len(pets) {
			pos = len(pets)
		}
		pets = append(pets, petstore.Pet{})
		copy(pets[pos+1:], pets[pos:])
		pets[pos] = g.pet
	}
	return pets
}

func (a App) selected() (petstore.Pet, bool) {
	pets := a.visible()
	if a.cursor < 0 || a.cursor >= len(pets) {
		return petstore.Pet{}, false
	}
	return pets[a.cursor], true
}

func (a *App) clampCursor() {
	n := len(a.visible())
	if a.cursor >= n {
		a.cursor = n - 1
	}
	if a.cursor < 0 {
		a.cursor = 0
	}
}

func (a *App) pruneGhosts() {
	for id := range a.ghosts {
		if a.ctl == nil || !a.ctl.Exploding(id) {
			delete(a.ghosts, id)
		}
	}
}

func (a App) View() string {
	var b strings.Builder

	b.WriteString(a.viewHeader())
	b.WriteString("\n")
	b.WriteString(a.search.View())
	b.WriteString("\n\n")

	if a.formOpen {
		b.WriteString(centered(a.width, a.bodyHeight(), a.form.View(a.st)))
	} else {
		b.WriteString(a.viewBody())
	}

	b.WriteString("\n\n")
	b.WriteString(a.viewSnackbar())
	b.WriteString("\n")
	b.WriteString(a.viewHelp())
	return b.String()
}

func (a App) bodyHeight() int {
	// header(1) + search(2) + snackbar(2) + help(1)
	return a.height - 6
}

func (a App) viewHeader() string {
	left := a.st.title.Render("Pawgrammers") + a.st.subtitle.Render(" / Admin dashboard")
	right := a.st.dim.Render(a.status() + " · " + string(a.theme) + " · " + a.baseURL)
	if a.width <= 0 {
		return left + "  " + right
	}
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + strings.Repeat(" ", gap) + right
}

// status resume el tamaño de la lista y las mutaciones en vuelo.
func (a App) status() string {
	if a.ctl == nil {
		return "0 pets"
	}
	n := a.ctl.List().Len()
	out := fmt.Sprintf("%d pets", n)
	if n == 1 {
		out = "1 pet"
	}
	if p := len(a.ctl.Pending()); p > 0 {
		out += fmt.Sprintf(" · %d saving", p)
	}
	return out
}

func (a App) viewBody() string {
	pets := a.visible()
	if len(pets) == 0 {
		switch {
		case a.loading:
			return a.st.dim.Render("Loading pets...")
		case a.search.Value() != "":
			return a.st.dim.Render("No pets match \"" + a.search.Value() + "\"")
		default:
			return a.st.dim.Render("No pets yet. Press a to add one.")
		}
	}

	now := a.clock.Now()
	cards := make([]string, 0, len(pets))
	for i, p := range pets {
		cs := cardState{
			active: i == a.cursor,
			saving: optimistic.IsTemp(p.ID),
		}
		if since, ok := a.ctl.ExplodingSince(p.ID); ok {
			cs.exploding = true
			cs.elapsed = now.Sub(since)
		}
		cards = append(cards, renderCard(a.st, p, cs))
	}
	return renderGrid(a.st, cards, columns(a.width))
}

func (a App) viewSnackbar() string {
	n := a.notices.Current()
	if !n.Visible {
		return ""
	}
	if n.Severity == notify.Error {
		return a.st.failure.Render("✗ " + n.Message)
	}
	return a.st.success.Render("✓ " + n.Message)
}

func (a App) viewHelp() string {
	if a.formOpen {
		return ""
	}
	items := []struct{ key, label string }{
		{"a", "add"},
		{"e", "edit"},
		{"d", "delete"},
		{"/", "search"},
		{"t", "theme"},
		{"r", "refresh"},
		{"q", "quit"},
	}
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, a.st.helpKey.Render(it.key)+" "+a.st.helpLabel.Render(it.label))
	}
	return strings.Join(parts, a.st.helpLabel.Render(" · "))
}
