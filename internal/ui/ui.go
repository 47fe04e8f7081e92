package ui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/playlistbridge/internal/formatter"
	"github.com/desertthunder/playlistbridge/internal/models"
	"github.com/desertthunder/playlistbridge/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	InputView ViewState = iota
	ResolveView
	ResultsView
	NameView
	AssembleView
	DoneView
)

// Model represents the TUI application state.
type Model struct {
	ctx      context.Context
	view     ViewState
	engine   *tasks.Engine
	identity *models.Identity
	width    int
	height   int

	input    textarea.Model
	nameIn   textinput.Model
	bar      progress.Model
	progress tasks.ProgressUpdate

	progressChan chan tasks.ProgressUpdate
	results      *models.ResultSet
	resolveErr   error
	assembly     *tasks.AssemblyResult
	assembleErr  error

	help help.Model
	keys keyMap
}

type resolveProgressMsg tasks.ProgressUpdate

type resolveDoneMsg struct {
	results *models.ResultSet
	err     error
}

type assembleProgressMsg tasks.ProgressUpdate

type assembleDoneMsg struct {
	result *tasks.AssemblyResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, identity *models.Identity) *Model {
	input := textarea.New()
	input.Placeholder = "Paste your list here...\nSong Name - Artist\nAnother Song - Artist"
	input.Focus()

	nameIn := textinput.New()
	nameIn.Placeholder = "Playlist name"
	nameIn.SetValue(fmt.Sprintf("PlaylistBridge - %s", time.Now().Format("2006-01-02")))

	return &Model{
		ctx:      ctx,
		view:     InputView,
		engine:   engine,
		identity: identity,
		input:    input,
		nameIn:   nameIn,
		bar:      progress.New(progress.WithDefaultGradient()),
		help:     help.New(),
		keys:     newKeyMap(),
	}
}

// Init satisfies tea.Model; the textarea cursor blink is the only startup command.
func (m *Model) Init() tea.Cmd {
	return textarea.Blink
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.SetWidth(msg.Width - 4)
		m.input.SetHeight(msg.Height - 8)
		m.bar.Width = msg.Width - 8
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case InputView:
			return m.handleInputKeys(msg)
		case ResultsView:
			return m.handleResultsKeys(msg)
		case NameView:
			return m.handleNameKeys(msg)
		case DoneView:
			return m.handleDoneKeys(msg)
		}
		return m, nil

	case resolveProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForResolve()

	case resolveDoneMsg:
		m.results = msg.results
		m.resolveErr = msg.err
		m.progressChan = nil
		m.view = ResultsView
		return m, nil

	case assembleProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForAssemble()

	case assembleDoneMsg:
		m.assembly = msg.result
		m.assembleErr = msg.err
		m.progressChan = nil
		m.view = DoneView
		return m, nil
	}

	return m.updateInputs(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case InputView:
		return m.renderInput()
	case ResolveView:
		return m.renderResolve()
	case ResultsView:
		return m.renderResults()
	case NameView:
		return m.renderName()
	case AssembleView:
		return m.renderAssemble()
	case DoneView:
		return m.renderDone()
	default:
		return ""
	}
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.search) {
		if len(tasks.ParseWorkList(m.input.Value())) == 0 {
			return m, nil
		}
		m.view = ResolveView
		return m, m.startResolve()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleResultsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.create):
		if m.results != nil && m.results.MatchedCount() > 0 {
			m.nameIn.Focus()
			m.view = NameView
		}
		return m, nil
	case key.Matches(msg, m.keys.restart):
		m.results = nil
		m.resolveErr = nil
		m.view = InputView
		return m, nil
	}
	return m, nil
}

func (m *Model) handleNameKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.confirm):
		if m.nameIn.Value() == "" {
			return m, nil
		}
		m.view = AssembleView
		return m, m.startAssemble(m.nameIn.Value())
	case key.Matches(msg, m.keys.back):
		m.view = ResultsView
		return m, nil
	}

	var cmd tea.Cmd
	m.nameIn, cmd = m.nameIn.Update(msg)
	return m, cmd
}

func (m *Model) handleDoneKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.restart):
		m.results = nil
		m.assembly = nil
		m.assembleErr = nil
		m.input.Reset()
		m.input.Focus()
		m.view = InputView
		return m, textarea.Blink
	}
	return m, nil
}

func (m *Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case InputView:
		m.input, cmd = m.input.Update(msg)
	case NameView:
		m.nameIn, cmd = m.nameIn.Update(msg)
	}
	return m, cmd
}

func (m *Model) startResolve() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	rawText := m.input.Value()
	ch := m.progressChan

	go func() {
		results, err := m.engine.Resolve(m.ctx, ch, rawText)
		m.results = results
		m.resolveErr = err
		close(ch)
	}()

	return m.waitForResolve()
}

func (m *Model) waitForResolve() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return resolveDoneMsg{results: m.results, err: m.resolveErr}
		}
		update, ok := <-ch
		if !ok {
			return resolveDoneMsg{results: m.results, err: m.resolveErr}
		}
		return resolveProgressMsg(update)
	}
}

func (m *Model) startAssemble(name string) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	ch := m.progressChan

	go func() {
		result, err := m.engine.Assemble(m.ctx, ch, m.identity, m.results, name)
		m.assembly = result
		m.assembleErr = err
		close(ch)
	}()

	return m.waitForAssemble()
}

func (m *Model) waitForAssemble() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return assembleDoneMsg{result: m.assembly, err: m.assembleErr}
		}
		update, ok := <-ch
		if !ok {
			return assembleDoneMsg{result: m.assembly, err: m.assembleErr}
		}
		return assembleProgressMsg(update)
	}
}

func (m *Model) renderInput() string {
	title := styles.title.Render("Input Songs")
	greeting := ""
	if m.identity != nil && m.identity.DisplayName != "" {
		greeting = styles.help.Render(fmt.Sprintf("Hi, %s", m.identity.DisplayName)) + "\n"
	}
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.search, m.keys.quit})
	return fmt.Sprintf("%s\n%s%s\n\n%s", title, greeting, m.input.View(), helpView)
}

func (m *Model) renderResolve() string {
	title := styles.title.Render("Searching Spotify")
	bar := m.bar.ViewAs(float64(m.progress.Percent) / 100)
	return fmt.Sprintf("%s\n%s %d%%\n\n%s", title, bar, m.progress.Percent, m.progress.Message)
}

func (m *Model) renderResults() string {
	if m.resolveErr != nil {
		return styles.err.Render(fmt.Sprintf("Resolution failed: %v\n\nPress r to restart", m.resolveErr))
	}
	if m.results == nil {
		return styles.err.Render("No results available\n\nPress r to restart")
	}

	title := styles.title.Render("Results")
	body := ""
	for i, o := range m.results.Outcomes {
		line := formatter.FormatOutcome(i+1, o)
		if o.Matched() {
			body += styles.ok.Render(line) + "\n"
		} else {
			body += styles.warn.Render(line) + "\n"
		}
	}
	summary := formatter.FormatSummary(m.results)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.create, m.keys.restart, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, body, summary, helpView)
}

func (m *Model) renderName() string {
	title := styles.title.Render("Name Your Playlist")
	info := fmt.Sprintf("Adding %d matched tracks\n", m.results.MatchedCount())
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.confirm, m.keys.back, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s\n\n%s", title, info, m.nameIn.View(), helpView)
}

func (m *Model) renderAssemble() string {
	title := styles.title.Render("Creating Playlist")
	return fmt.Sprintf("%s\n%s", title, m.progress.Message)
}

func (m *Model) renderDone() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.assembleErr != nil {
		return styles.err.Render(fmt.Sprintf("Assembly failed: %v", m.assembleErr)) + "\n\n" + helpView
	}
	if m.assembly == nil {
		return styles.err.Render("No result available") + "\n\n" + helpView
	}

	var body string
	switch m.assembly.Outcome {
	case tasks.Created:
		body = styles.ok.Render("✓ Playlist created!") +
			fmt.Sprintf("\n\nPlaylist: %s\nTracks added: %d", m.assembly.Playlist.Name, m.assembly.AddedCount)
	case tasks.NoValidTracks:
		body = styles.warn.Render("No valid tracks found to add to a playlist.")
	case tasks.PlaylistCreationFailed:
		body = styles.err.Render(fmt.Sprintf("Failed to create playlist: %v", m.assembly.Err))
	case tasks.TrackAppendFailed:
		body = styles.warn.Render(fmt.Sprintf(
			"Playlist %q was created but adding tracks failed: %v\nIt exists on Spotify and may be incomplete.",
			m.assembly.Playlist.Name, m.assembly.Err,
		))
	}

	return fmt.Sprintf("%s\n\n%s", body, helpView)
}
