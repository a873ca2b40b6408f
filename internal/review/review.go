package review

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/scribe-ai/scribe/internal/git"
	"github.com/scribe-ai/scribe/internal/logging"
)

// Generator produces replacement candidates. Each call assembles a
// fresh prompt, so refinements gathered during review shape the next
// attempt. Calls are never concurrent within one session.
type Generator interface {
	Generate(ctx context.Context, refinements []string) ([]string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, refinements []string) ([]string, error)

func (f GeneratorFunc) Generate(ctx context.Context, refinements []string) ([]string, error) {
	return f(ctx, refinements)
}

// candidateMsg delivers the outcome of a regenerate call.
type candidateMsg struct {
	text string
	err  error
}

var errAllCandidatesEmpty = errors.New("provider returned no usable text")

// Model is the Bubble Tea model for a review session.
type Model struct {
	session *Session
	gen     Generator

	ctx    context.Context
	cancel context.CancelFunc

	refinements []string
	refining    bool
	errMsg      string

	diffLines  []string
	showDiff   bool
	diffScroll int

	showHelp bool

	spinner spinner.Model
	input   textinput.Model
	editor  textarea.Model

	width  int
	height int
}

// New builds a model presenting the first candidate. files, when
// present, back the diff preview pane.
func New(gen Generator, first string, files []*git.FileDiff) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle

	in := textinput.New()
	in.Placeholder = "e.g. mention the config change"
	in.Prompt = "> "
	in.PromptStyle = promptStyle
	in.CharLimit = 200

	ed := textarea.New()
	ed.ShowLineNumbers = false
	ed.CharLimit = 0

	return Model{
		session:   NewSession(first),
		gen:       gen,
		spinner:   sp,
		input:     in,
		editor:    ed,
		diffLines: renderDiffLines(files),
	}
}

// Session exposes the underlying state machine, mainly for callers
// inspecting the final state after the program ends.
func (m Model) Session() *Session {
	return m.session
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = m.width - 4
		m.editor.SetWidth(m.width - 4)
		editHeight := m.height - 6
		if editHeight > 10 {
			editHeight = 10
		}
		if editHeight < 3 {
			editHeight = 3
		}
		m.editor.SetHeight(editHeight)
		return m, nil

	case spinner.TickMsg:
		if m.session.State != Regenerating {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case candidateMsg:
		return m.handleCandidate(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleCandidate(msg candidateMsg) (tea.Model, tea.Cmd) {
	if m.session.State != Regenerating {
		// A stale result after an abort or accept; drop it.
		return m, nil
	}
	if msg.err != nil {
		m.session.FailRegenerate()
		m.errMsg = msg.err.Error()
		logging.Errorf("regenerate failed: %v", msg.err)
		return m, nil
	}
	m.session.Push(msg.text)
	m.errMsg = ""
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.session.Done() {
		return m, nil
	}

	switch m.session.State {
	case Regenerating:
		// Only cancellation gets through while a call is in flight.
		if key.Matches(msg, keys.Quit) {
			if m.cancel != nil {
				m.cancel()
			}
			m.session.Abort()
			return m, tea.Quit
		}
		return m, nil

	case Editing:
		return m.handleEditKey(msg)
	}

	if m.refining {
		return m.handleRefineKey(msg)
	}

	switch {
	case key.Matches(msg, keys.Accept):
		m.session.Accept()
		return m, tea.Quit

	case key.Matches(msg, keys.Regenerate):
		return m.beginRegenerate()

	case key.Matches(msg, keys.Refine):
		m.refining = true
		m.errMsg = ""
		return m, m.input.Focus()

	case key.Matches(msg, keys.Edit):
		m.session.BeginEdit()
		m.errMsg = ""
		m.editor.SetValue(m.session.Current)
		return m, m.editor.Focus()

	case key.Matches(msg, keys.Previous):
		if !m.session.Previous() {
			m.errMsg = "no earlier candidates"
		} else {
			m.errMsg = ""
		}
		return m, nil

	case key.Matches(msg, keys.Diff):
		if len(m.diffLines) > 0 {
			m.showDiff = !m.showDiff
			m.diffScroll = 0
		}
		return m, nil

	case key.Matches(msg, keys.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, keys.Quit):
		m.session.Abort()
		return m, tea.Quit
	}

	if m.showDiff {
		switch msg.String() {
		case "down", "j":
			if m.diffScroll < len(m.diffLines)-1 {
				m.diffScroll++
			}
		case "up", "k":
			if m.diffScroll > 0 {
				m.diffScroll--
			}
		}
	}

	return m, nil
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+s":
		if err := m.session.FinishEdit(m.editor.Value()); err != nil {
			m.errMsg = err.Error()
			return m, nil
		}
		m.errMsg = ""
		m.editor.Blur()
		return m, nil
	case "esc":
		m.session.CancelEdit()
		m.errMsg = ""
		m.editor.Blur()
		return m, nil
	case "ctrl+c":
		m.session.Abort()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m Model) handleRefineKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if text := strings.TrimSpace(m.input.Value()); text != "" {
			m.refinements = append(m.refinements, text)
		}
		m.refining = false
		m.input.Reset()
		m.input.Blur()
		return m.beginRegenerate()
	case "esc":
		m.refining = false
		m.input.Reset()
		m.input.Blur()
		return m, nil
	case "ctrl+c":
		m.session.Abort()
		return m, tea.Quit
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) beginRegenerate() (tea.Model, tea.Cmd) {
	m.session.BeginRegenerate()
	m.errMsg = ""
	return m, tea.Batch(m.spinner.Tick, m.generateCmd())
}

func (m Model) generateCmd() tea.Cmd {
	gen := m.gen
	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	refinements := append([]string(nil), m.refinements...)
	return func() tea.Msg {
		texts, err := gen.Generate(ctx, refinements)
		if err != nil {
			return candidateMsg{err: err}
		}
		if len(texts) == 0 || strings.TrimSpace(texts[0]) == "" {
			return candidateMsg{err: errAllCandidatesEmpty}
		}
		return candidateMsg{text: strings.TrimSpace(texts[0])}
	}
}

// Run opens the review TUI and blocks until the session ends. The
// accepted candidate is returned; an abort is reported as ErrAborted.
// Cancelling ctx aborts an in-flight provider call.
func Run(ctx context.Context, gen Generator, first string, files []*git.FileDiff) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := New(gen, first, files)
	m.ctx = ctx
	m.cancel = cancel

	out, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return "", err
	}

	final, ok := out.(Model)
	if !ok || final.session.State != Accepted {
		return "", ErrAborted
	}
	return final.session.Current, nil
}
