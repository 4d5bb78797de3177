package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/lepinkainen/duplex/dupes"
	"github.com/lepinkainen/duplex/review"
)

// DuplicatesModel is the bubbletea review frontend. Every command line typed
// into the input goes through the same Navigator the REPL uses.
type DuplicatesModel struct {
	nav   *review.Navigator
	input textinput.Model

	// UI state
	width  int
	height int

	// Interaction state
	confirmingDeletion bool
	prompt             string
	errMsg             string
	showHelp           bool
	summary            *dupes.DeleteSummary
	dryRun             bool

	// Control state
	quitting bool
}

// NewDuplicatesModel creates a new review TUI model
func NewDuplicatesModel(nav *review.Navigator, dryRun bool) DuplicatesModel {
	ti := textinput.New()
	ti.Placeholder = "command, index or regex"
	ti.Prompt = "> "
	ti.CharLimit = 4096
	ti.Focus()

	return DuplicatesModel{
		nav:      nav,
		input:    ti,
		showHelp: nav.TakeHelp(),
		dryRun:   dryRun,
	}
}

// Init implements tea.Model
func (m DuplicatesModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (m DuplicatesModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.confirmingDeletion {
			return m.handleConfirmationInput(msg)
		}
		return m.handleNormalInput(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(msg.Width-4, 10)

	case DeletionCompleteMsg:
		m.summary = &msg.Summary
		if m.nav.Done() {
			m.quitting = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DuplicatesModel) handleNormalInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.quitting = true
		return m, tea.Quit

	case tea.KeyEnter:
		line := m.input.Value()
		m.input.Reset()
		return m.dispatch(line)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m DuplicatesModel) dispatch(line string) (tea.Model, tea.Cmd) {
	res := m.nav.Dispatch(line)
	m.errMsg = ""
	m.summary = nil

	switch res.Outcome {
	case review.Quit:
		m.quitting = true
		return m, tea.Quit
	case review.Failed:
		m.errMsg = res.Err.Error()
	case review.ConfirmDelete:
		m.confirmingDeletion = true
		m.prompt = res.Prompt
	}
	m.showHelp = m.nav.TakeHelp()
	return m, nil
}

func (m DuplicatesModel) handleConfirmationInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.confirmingDeletion = false
		sum := m.nav.ExecuteDelete()
		return m, func() tea.Msg {
			return DeletionCompleteMsg{Summary: sum}
		}

	case "n", "N", "ctrl+c", "esc":
		m.confirmingDeletion = false
		m.prompt = ""
	}

	return m, nil
}

// FinalSummary returns the result of the last deletion when it was still on
// screen as the program quit. The alternate screen is gone by then, so the
// caller prints it.
func (m DuplicatesModel) FinalSummary() (dupes.DeleteSummary, bool) {
	if m.summary == nil {
		return dupes.DeleteSummary{}, false
	}
	return *m.summary, true
}

// View implements tea.Model
func (m DuplicatesModel) View() string {
	if m.quitting {
		return ""
	}

	if m.nav.Done() {
		return m.renderNoGroups()
	}

	if m.confirmingDeletion {
		return m.renderConfirmationDialog()
	}

	return m.renderMainView()
}

func (m DuplicatesModel) renderNoGroups() string {
	style := SuccessStyle.MarginTop(2).MarginLeft(2)
	return style.Render("No more duplicates found")
}

func (m DuplicatesModel) renderConfirmationDialog() string {
	var content strings.Builder

	content.WriteString(HeaderStyle.Render("Confirm Deletion"))
	content.WriteString("\n\n")
	content.WriteString(m.prompt)
	content.WriteString("\n\n")
	if m.dryRun {
		content.WriteString(InfoStyle.Render("Dry-run: nothing will be removed from disk"))
	} else {
		content.WriteString(ErrorStyle.Render("This action cannot be undone!"))
	}
	content.WriteString("\n\n")
	content.WriteString("Press 'y' to confirm, 'n' to cancel")

	return content.String()
}

func (m DuplicatesModel) renderMainView() string {
	var content strings.Builder

	header := fmt.Sprintf("Duplex - Duplicate Review (Group %d of %d)",
		m.nav.Cursor()+1, m.nav.GroupCount())
	content.WriteString(HeaderStyle.Render(header))
	content.WriteString("\n")

	if m.summary != nil {
		content.WriteString(RenderDeleteSummary(*m.summary, m.dryRun))
	}

	content.WriteString(RenderRules(m.nav.Rules()))
	content.WriteString(RenderGroup(m.nav.Current(), m.nav.Rules()))
	content.WriteString(RenderStats(m.nav.Stats()))

	if m.showHelp {
		content.WriteString(RenderHelp())
	} else {
		content.WriteString("\n    Type 'h' for help\n")
	}

	if m.errMsg != "" {
		content.WriteString("\n    ")
		content.WriteString(ErrorStyle.Render("Error: " + m.errMsg))
		content.WriteString("\n")
	}

	content.WriteString("\n")
	content.WriteString(m.input.View())
	return content.String()
}
