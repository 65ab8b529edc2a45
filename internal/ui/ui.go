package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/roster/internal/models"
	"github.com/desertthunder/roster/internal/services"
	"github.com/desertthunder/roster/internal/shared"
	"github.com/desertthunder/roster/internal/store"
)

// Focus identifies which component receives key presses.
type Focus int

const (
	FocusSearch Focus = iota
	FocusList
)

const loadErrorText = "Some error in getting API response"

// Options configures a [Model].
type Options struct {
	Title   string
	Theme   string
	Logger  *log.Logger
	Timeout time.Duration // bounds each fetch; zero means no limit
}

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	source  services.Source
	timeout time.Duration
	store   *store.Store
	logger  *log.Logger
	palette *Palette
	focus   Focus
	width   int
	height  int
	search  textinput.Model
	list    list.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap
}

// NewModel creates a new TUI model reading from src into st.
func NewModel(ctx context.Context, src services.Source, st *store.Store, opts Options) *Model {
	if opts.Title == "" {
		opts.Title = "Users"
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	palette := PaletteFor(opts.Theme)

	search := textinput.New()
	search.Placeholder = "Search"
	search.Prompt = "⌕ "
	search.CharLimit = 64
	search.PromptStyle = lipgloss.NewStyle().Foreground(palette.accent)
	search.Focus()

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(palette.accent).
		BorderLeftForeground(palette.accent)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		BorderLeftForeground(palette.accent)

	l := list.New(nil, delegate, 0, 0)
	l.Title = opts.Title
	l.Styles.Title = palette.title
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = lipgloss.NewStyle().Foreground(palette.accent)

	return &Model{
		ctx:     ctx,
		source:  src,
		timeout: opts.Timeout,
		store:   st,
		logger:  shared.WithLogger(opts.Logger, "component", "ui"),
		palette: palette,
		focus:   FocusSearch,
		search:  search,
		list:    l,
		spinner: sp,
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init starts the first load.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.search.Width = max(msg.Width-8, 10)
		m.list.SetSize(msg.Width-2, max(msg.Height-7, 1))
		return m, nil

	case spinner.TickMsg:
		if !m.store.Loading() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		switch msg.kind {
		case MsgRecordsLoaded:
			payload := msg.data.(recordsPayload)
			return m, m.handleLoaded(payload.records, payload.err)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m.updateFocused(msg)
}

// View renders the UI based on the store state.
func (m *Model) View() string {
	switch {
	case m.store.Loading():
		return m.place(fmt.Sprintf("%s Loading users...", m.spinner.View()))

	case m.store.Err() != nil:
		body := fmt.Sprintf("%s\n\n%s\n\n%s",
			m.palette.err.Render(loadErrorText),
			m.palette.help.Render(m.store.Err().Error()),
			m.help.ShortHelpView([]key.Binding{m.keys.quit}),
		)
		return m.place(body)
	}

	var b strings.Builder
	b.WriteString(m.palette.search.Render(m.search.View()))
	b.WriteString("\n")

	if m.store.Loaded() && len(m.list.Items()) == 0 {
		b.WriteString(m.palette.warn.Render(fmt.Sprintf("No users match %q", m.store.Query())))
		b.WriteString("\n")
		if hint := m.suggestion(); hint != "" {
			b.WriteString(m.palette.help.Render(hint))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	status := fmt.Sprintf("%d of %d users", len(m.list.Items()), m.store.Len())
	b.WriteString(m.palette.ok.Render(status))
	b.WriteString("  ")
	b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	return b.String()
}

// suggestion names the closest users to a query that matched nothing.
func (m *Model) suggestion() string {
	records := models.Suggest(m.store.Dataset(), m.store.Query(), 3)
	if len(records) == 0 {
		return ""
	}

	names := make([]string, len(records))
	for i, r := range records {
		names[i] = r.FullName()
	}
	return "Did you mean: " + strings.Join(names, ", ") + "?"
}

func (m *Model) place(body string) string {
	if m.width == 0 || m.height == 0 {
		return body
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.abort) {
		return m, tea.Quit
	}

	// Loading and the terminal error state only accept quit.
	if m.store.Loading() || m.store.Err() != nil {
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.reload):
		return m, m.load()
	case key.Matches(msg, m.keys.focus):
		m.toggleFocus()
		return m, nil
	case key.Matches(msg, m.keys.clear):
		m.search.SetValue("")
		return m, m.applyQuery("")
	}

	if m.focus == FocusSearch {
		return m.handleSearchKeys(msg)
	}
	return m.handleListKeys(msg)
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.enter) || msg.Type == tea.KeyDown {
		m.setFocus(FocusList)
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if next := m.search.Value(); next != prev {
		return m, tea.Batch(cmd, m.applyQuery(next))
	}
	return m, cmd
}

func (m *Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.setFocus(FocusSearch)
		return m, nil
	case key.Matches(msg, m.keys.enter):
		item, ok := m.list.SelectedItem().(recordItem)
		if !ok {
			return m, nil
		}
		m.logger.Debug("record selected", "id", item.record.ID)
		m.store.Select(item.record)
		m.search.SetValue("")
		return m, m.syncList()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.focus == FocusSearch {
		m.search, cmd = m.search.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m *Model) toggleFocus() {
	if m.focus == FocusSearch {
		m.setFocus(FocusList)
	} else {
		m.setFocus(FocusSearch)
	}
}

func (m *Model) setFocus(f Focus) {
	m.focus = f
	if f == FocusSearch {
		m.search.Focus()
	} else {
		m.search.Blur()
	}
}

func (m *Model) applyQuery(q string) tea.Cmd {
	m.store.SetQuery(q)
	m.logger.Debug("query changed", "query", q, "matches", len(m.store.FilteredView()))
	return m.syncList()
}

// syncList mirrors the filtered view into the list and restores the scroll position of a pending selection.
func (m *Model) syncList() tea.Cmd {
	cmd := m.list.SetItems(toItems(m.store.FilteredView()))
	if idx, ok := m.store.ConsumeSelection(); ok {
		m.list.Select(idx)
		m.logger.Debug("scroll restored", "index", idx)
	} else {
		m.list.ResetSelected()
	}
	return cmd
}

func (m *Model) load() tea.Cmd {
	m.store.BeginLoad()
	m.logger.Info("loading users", "source", m.source.Name())
	return tea.Batch(m.spinner.Tick, m.fetch())
}

func (m *Model) fetch() tea.Cmd {
	ctx, timeout, src := m.ctx, m.timeout, m.source
	return func() tea.Msg {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		records, err := src.Fetch(ctx)
		return recordsLoadedMsg(records, err)
	}
}

func (m *Model) handleLoaded(records []models.Record, fetchErr error) tea.Cmd {
	if err := m.store.Finish(records, fetchErr); err != nil {
		m.logger.Error("load failed", "err", err)
		return nil
	}
	m.logger.Info("users loaded", "count", m.store.Len())
	return m.syncList()
}
