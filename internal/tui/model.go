// Package tui provides the BubbleTea-based settings browser.
package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jmylchreest/linkuprefs/internal/adapter/output"
	"github.com/jmylchreest/linkuprefs/internal/config"
	"github.com/jmylchreest/linkuprefs/internal/persisted"
	"github.com/jmylchreest/linkuprefs/internal/settings"
	"github.com/jmylchreest/linkuprefs/internal/theme"
)

const statusTimeout = 3 * time.Second

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeEdit
	ModeHelp
)

// Model is the main TUI model.
type Model struct {
	cfg      *config.Config
	settings *settings.Settings
	doc      theme.Document

	mode Mode

	// Components
	list  list.Model
	input textinput.Model
	help  help.Model

	// State
	editing   settings.Entry
	palette   Palette
	shown     theme.Theme
	width     int
	height    int
	ready     bool
	statusMsg string
	statusErr bool

	keys KeyMap
}

// settingItem wraps a setting for the list component.
type settingItem struct {
	entry settings.Entry
}

func (i settingItem) Title() string {
	title := i.entry.Key()
	if output.FormatValue(i.entry.Value()) != output.FormatValue(i.entry.DefaultValue()) {
		title += " •"
	}
	return title
}

func (i settingItem) Description() string {
	desc := output.FormatValue(i.entry.Value())
	if choices := settings.Choices(i.entry.Key()); len(choices) > 0 {
		desc += fmt.Sprintf("  (%d choices)", len(choices))
	}
	return desc
}

func (i settingItem) FilterValue() string {
	return i.entry.Key()
}

// New creates a new TUI model. doc is the document the theme setting is
// applied to; its theme class picks the palette.
func New(cfg *config.Config, s *settings.Settings, doc theme.Document) Model {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Preferences"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()

	input := textinput.New()
	input.Placeholder = "JSON value or bare word"
	input.CharLimit = 4096

	m := Model{
		cfg:      cfg,
		settings: s,
		doc:      doc,
		mode:     ModeList,
		list:     l,
		input:    input,
		help:     help.New(),
		keys:     DefaultKeyMap(),
	}
	m.applyPalette()
	m.refreshItems()
	return m
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

type themeChangedMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.help.Width = msg.Width
		m.list.SetSize(msg.Width, msg.Height-3)
		m.input.Width = msg.Width - 4
		return m, nil

	case themeChangedMsg:
		m.applyPalette()
		m.refreshItems()
		return m, nil

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, clearStatusAfter()

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, status("Copy failed: "+msg.err.Error(), true)
		}
		return m, status("Copied to clipboard", false)
	}

	var cmd tea.Cmd
	switch m.mode {
	case ModeList:
		m.list, cmd = m.list.Update(msg)
	case ModeEdit:
		m.input, cmd = m.input.Update(msg)
	}
	return m, cmd
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.mode == ModeEdit {
		return m.handleEditKey(msg)
	}

	// Let the list own the keyboard while its filter is being typed
	if m.list.FilterState() == list.Filtering {
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	if m.mode == ModeHelp {
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m.handleListKey(msg)
}

// handleListKey handles keys in list mode.
func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Edit):
		e := m.selected()
		if e == nil {
			return m, nil
		}
		data, err := json.Marshal(e.Value())
		if err != nil {
			return m, status("Failed to encode value: "+err.Error(), true)
		}
		m.editing = e
		m.mode = ModeEdit
		m.input.SetValue(string(data))
		m.input.CursorEnd()
		m.input.Focus()
		return m, textinput.Blink

	case key.Matches(msg, m.keys.Cycle):
		e := m.selected()
		if e == nil {
			return m, nil
		}
		return m.cycle(e)

	case key.Matches(msg, m.keys.CycleTheme):
		e, err := m.settings.Lookup(settings.KeyTheme)
		if err != nil {
			return m, status(err.Error(), true)
		}
		return m.cycle(e)

	case key.Matches(msg, m.keys.Reset):
		e := m.selected()
		if e == nil {
			return m, nil
		}
		return m.changed(e.Key(), e.Reset())

	case key.Matches(msg, m.keys.ResetAll):
		err := m.settings.ResetAll()
		m.applyPalette()
		m.refreshItems()
		if err != nil {
			return m, status("Reset failed: "+err.Error(), true)
		}
		return m, status("All settings reset", false)

	case key.Matches(msg, m.keys.CopyValue):
		e := m.selected()
		if e == nil {
			return m, nil
		}
		return m, m.copyToClipboard(output.FormatValue(e.Value()))

	case key.Matches(msg, m.keys.CopyAllJSON):
		return m, m.copyFormatted(output.FormatJSON)

	case key.Matches(msg, m.keys.CopyAllYAML):
		return m, m.copyFormatted(output.FormatYAML)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleEditKey handles keys while a value is being edited.
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.editing = nil
		m.input.Blur()
		return m, nil

	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEnter:
		e := m.editing
		err := e.SetJSON(settings.RawJSON(m.input.Value()))
		if errors.Is(err, settings.ErrInvalidValue) {
			// stay in edit mode so the value can be corrected
			return m, status(err.Error(), true)
		}
		m.mode = ModeList
		m.editing = nil
		m.input.Blur()
		return m.changed(e.Key(), err)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// cycle moves an enumerated setting to its next choice.
func (m Model) cycle(e settings.Entry) (tea.Model, tea.Cmd) {
	choices := settings.Choices(e.Key())
	if len(choices) == 0 {
		return m, status(e.Key()+" has no fixed choices, press enter to edit", true)
	}

	current := output.FormatValue(e.Value())
	next := choices[0]
	for i, c := range choices {
		if output.FormatValue(c) == current {
			next = choices[(i+1)%len(choices)]
			break
		}
	}

	data, err := json.Marshal(next)
	if err != nil {
		return m, status("Failed to encode value: "+err.Error(), true)
	}
	return m.changed(e.Key(), e.SetJSON(string(data)))
}

// changed refreshes the view after name was written and reports err.
func (m Model) changed(name string, err error) (tea.Model, tea.Cmd) {
	m.applyPalette()
	m.refreshItems()

	switch {
	case err == nil:
		e, lookupErr := m.settings.Lookup(name)
		if lookupErr != nil {
			return m, status(lookupErr.Error(), true)
		}
		return m, status(fmt.Sprintf("%s = %s", name, output.FormatValue(e.Value())), false)
	case errors.Is(err, persisted.ErrPersist):
		return m, status("Changed for this session only: "+err.Error(), true)
	default:
		return m, status(err.Error(), true)
	}
}

func (m Model) selected() settings.Entry {
	if item, ok := m.list.SelectedItem().(settingItem); ok {
		return item.entry
	}
	return nil
}

// refreshItems rebuilds the list from the current values.
func (m *Model) refreshItems() {
	entries := m.settings.Entries()
	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = settingItem{entry: e}
	}
	m.list.SetItems(items)
}

// applyPalette restyles the TUI for the theme class on the document.
func (m *Model) applyPalette() {
	m.shown, m.palette = PaletteFor(m.doc)
	p := m.palette

	d := list.NewDefaultDelegate()
	d.Styles.NormalTitle = d.Styles.NormalTitle.Foreground(p.Title)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(p.Value)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.Accent).BorderForeground(p.Accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.Modified).BorderForeground(p.Accent)
	d.Styles.DimmedTitle = d.Styles.DimmedTitle.Foreground(p.Muted)
	d.Styles.DimmedDesc = d.Styles.DimmedDesc.Foreground(p.Muted)
	m.list.SetDelegate(d)

	m.list.Styles.Title = m.list.Styles.Title.Background(p.Accent).Foreground(p.Title)
	m.help.Styles.ShortKey = lipgloss.NewStyle().Foreground(p.Accent)
	m.help.Styles.ShortDesc = lipgloss.NewStyle().Foreground(p.Muted)
	m.help.Styles.FullKey = lipgloss.NewStyle().Foreground(p.Accent)
	m.help.Styles.FullDesc = lipgloss.NewStyle().Foreground(p.Muted)
}

// records snapshots every setting for export.
func (m Model) records() []output.Record {
	entries := m.settings.Entries()
	records := make([]output.Record, len(entries))
	for i, e := range entries {
		records[i] = output.Record{Key: e.Key(), Value: e.Value(), Default: e.DefaultValue()}
	}
	return records
}

func (m Model) copyFormatted(format output.FormatType) tea.Cmd {
	var buf bytes.Buffer
	if err := output.NewFormatter(format, output.FormatterOptions{}).Format(&buf, m.records()); err != nil {
		return status(fmt.Sprintf("Failed to format %s: %v", format, err), true)
	}
	return m.copyToClipboard(buf.String())
}

// copyToClipboard copies text to the system clipboard.
func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.cfg.TUI.Clipboard
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

func clearStatusAfter() tea.Cmd {
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeEdit:
		return m.viewEdit()
	case ModeHelp:
		return m.viewHelp()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	s := m.list.View() + "\n"
	s += m.themeLine() + "\n"
	s += m.footer()
	return s
}

func (m Model) viewEdit() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.palette.Accent).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(m.palette.Muted)

	s := titleStyle.Render("Edit "+m.editing.Key()) + "\n\n"
	s += labelStyle.Render("Default: ") + output.FormatValue(m.editing.DefaultValue()) + "\n"
	if choices := settings.Choices(m.editing.Key()); len(choices) > 0 {
		names := make([]string, len(choices))
		for i, c := range choices {
			names[i] = output.FormatValue(c)
		}
		s += labelStyle.Render("Choices: ") + fmt.Sprint(names) + "\n"
	}
	s += "\n" + m.input.View() + "\n\n"
	s += m.footer()
	return s
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(m.palette.Accent).
		MarginBottom(1)

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"
	s += m.help.FullHelpView(m.keys.FullHelp()) + "\n\n"
	s += lipgloss.NewStyle().Foreground(m.palette.Muted).Render("Press ? or esc to return")
	return s
}

// themeLine shows the stored and applied theme.
func (m Model) themeLine() string {
	style := lipgloss.NewStyle().Foreground(m.palette.Muted)
	stored := m.settings.Theme.Get()
	line := fmt.Sprintf("theme %s", stored)
	if stored != m.shown {
		line += fmt.Sprintf(" → %s", m.shown)
	}
	return style.Render(line)
}

func (m Model) footer() string {
	if m.statusMsg != "" {
		color := m.palette.Value
		if m.statusErr {
			color = m.palette.Error
		}
		return lipgloss.NewStyle().Foreground(color).Render(m.statusMsg)
	}
	if !m.cfg.TUI.ShowHelp {
		return ""
	}
	return m.help.ShortHelpView(m.keys.ShortHelp())
}

// RunOptions configures the TUI.
type RunOptions struct {
	Config   *config.Config
	Settings *settings.Settings
	Detector theme.Detector
	Changes  theme.ChangeSource // Platform color scheme changes, may be nil
	Logger   *slog.Logger
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	if opts.Settings == nil {
		return fmt.Errorf("no settings provided")
	}

	doc := theme.NewClassList()
	applier := theme.NewApplier(doc, opts.Detector, opts.Logger)
	unsubscribe := applier.Register(opts.Settings.Theme)
	defer unsubscribe()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if opts.Changes != nil {
		applier.Watch(ctx, opts.Changes)
	}

	m := New(opts.Config, opts.Settings, doc)
	p := tea.NewProgram(m, tea.WithAltScreen())

	// Flushes can happen inside Update, so deliver asynchronously
	doc.SetChangeCallback(func([]string) {
		go p.Send(themeChangedMsg{})
	})
	defer doc.SetChangeCallback(nil)

	_, err := p.Run()
	return err
}
