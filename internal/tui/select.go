// Package tui provides the interactive candidate picker used when a query
// resolves to several catalog entries.
package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/lepinkainen/gamedeals/internal/catalog"
)

const (
	defaultListWidth  = 72
	defaultListHeight = 20
)

var runProgram = func(m tea.Model) (tea.Model, error) {
	return tea.NewProgram(m).Run()
}

// SelectionAction represents the user's action in the picker.
type SelectionAction int

const (
	// ActionNone indicates no action was taken.
	ActionNone SelectionAction = iota
	// ActionSelected indicates the user picked a candidate.
	ActionSelected
	// ActionSkipped indicates the user skipped the query.
	ActionSkipped
	// ActionStopped indicates the user aborted entirely.
	ActionStopped
)

// CandidateSelection holds the outcome of a picker session.
type CandidateSelection struct {
	Action SelectionAction
	Entry  *catalog.Entry
}

type candidateItem struct {
	catalog.Entry
}

func (i candidateItem) Title() string       { return strings.ToUpper(i.Name) }
func (i candidateItem) FilterValue() string { return i.Name }
func (i candidateItem) Description() string { return fmt.Sprintf("AppID: %d", i.AppID) }

type itemStyles struct {
	normal        lipgloss.Style
	selected      lipgloss.Style
	titleStyle    lipgloss.Style
	metadataStyle lipgloss.Style
}

func newItemStyles() itemStyles {
	asciiBorder := lipgloss.Border{
		Top:         "-",
		Bottom:      "-",
		Left:        "|",
		Right:       "|",
		TopLeft:     "+",
		TopRight:    "+",
		BottomLeft:  "+",
		BottomRight: "+",
	}

	container := lipgloss.NewStyle().
		Border(asciiBorder).
		BorderForeground(lipgloss.Color("62")).
		Padding(0, 1).
		Foreground(lipgloss.Color("252"))

	selected := container.Copy().
		BorderForeground(lipgloss.Color("214")).
		Foreground(lipgloss.Color("230")).
		Background(lipgloss.Color("237"))

	return itemStyles{
		normal:   container,
		selected: selected,
		titleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("254")),
		metadataStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("247")).
			Faint(true),
	}
}

type candidateDelegate struct {
	styles itemStyles
}

func newCandidateDelegate() candidateDelegate {
	return candidateDelegate{styles: newItemStyles()}
}

func (d candidateDelegate) Height() int                         { return 3 }
func (d candidateDelegate) Spacing() int                        { return 1 }
func (d candidateDelegate) Update(tea.Msg, *list.Model) tea.Cmd { return nil }

func (d candidateDelegate) Render(w io.Writer, m list.Model, idx int, item list.Item) {
	entry, ok := item.(candidateItem)
	if !ok {
		return
	}

	titleLine := d.styles.titleStyle.Render(strings.ToUpper(entry.Name))
	appIDLine := d.styles.metadataStyle.Render(fmt.Sprintf("Steam AppID: %d", entry.AppID))

	content := lipgloss.JoinVertical(lipgloss.Left, titleLine, appIDLine)

	container := d.styles.normal
	if idx == m.Index() {
		container = d.styles.selected
	}
	_, _ = fmt.Fprint(w, container.Render(content))
}

type pickerModel struct {
	list   list.Model
	query  string
	result CandidateSelection
}

func newPickerModel(query string, items []candidateItem) *pickerModel {
	listItems := make([]list.Item, len(items))
	for i, item := range items {
		listItems[i] = item
	}

	l := list.New(listItems, newCandidateDelegate(), defaultListWidth, defaultListHeight)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetShowPagination(false)
	l.DisableQuitKeybindings()
	l.Styles.NoItems = lipgloss.NewStyle()

	return &pickerModel{
		list:   l,
		query:  query,
		result: CandidateSelection{Action: ActionNone},
	}
}

func (m *pickerModel) Init() tea.Cmd { return nil }

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			if selected, ok := m.list.SelectedItem().(candidateItem); ok {
				entry := selected.Entry
				m.result = CandidateSelection{Action: ActionSelected, Entry: &entry}
				return m, tea.Quit
			}
		case "s", "esc":
			m.result = CandidateSelection{Action: ActionSkipped}
			return m, tea.Quit
		case "ctrl+c", "q":
			m.result = CandidateSelection{Action: ActionStopped}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		width := clamp(defaultListWidth, msg.Width-4, 40)
		height := clamp(defaultListHeight, msg.Height-6, 5)
		m.list.SetSize(width, height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *pickerModel) View() string {
	header := headerStyle.Render(fmt.Sprintf("Multiple catalog matches for: %s", m.query))

	buttons := lipgloss.JoinHorizontal(
		lipgloss.Left,
		skipButtonStyle.Render(" Skip "),
		lipgloss.NewStyle().Padding(0, 2).Render(""),
		stopButtonStyle.Render(" Quit "),
	)
	help := helpStyle.Render("Up/Down navigate | Enter select | s skip | q quit")

	return lipgloss.JoinVertical(lipgloss.Left, header, m.list.View(), buttons, help)
}

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214")).
			MarginBottom(1)

	skipButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("178")).
			Foreground(lipgloss.Color("0")).
			Bold(true)

	stopButtonStyle = lipgloss.NewStyle().
			MarginTop(1).
			Padding(0, 2).
			Background(lipgloss.Color("161")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			MarginTop(1).
			Foreground(lipgloss.Color("244"))
)

// SelectCandidate shows an interactive picker over the resolved candidates.
// With no candidates the query is skipped without opening the UI.
func SelectCandidate(query string, entries []catalog.Entry) (CandidateSelection, error) {
	if len(entries) == 0 {
		return CandidateSelection{Action: ActionSkipped}, nil
	}

	items := make([]candidateItem, len(entries))
	for i, entry := range entries {
		items[i] = candidateItem{Entry: entry}
	}

	m := newPickerModel(query, items)
	finalModel, err := runProgram(m)
	if err != nil {
		return CandidateSelection{}, err
	}

	if typed, ok := finalModel.(*pickerModel); ok {
		return typed.result, nil
	}
	return CandidateSelection{}, fmt.Errorf("unexpected program result")
}

func clamp(defaultValue, available, minimum int) int {
	width := defaultValue
	if available > 0 && available < defaultValue {
		width = available
	}
	if width < minimum {
		width = minimum
	}
	return width
}
