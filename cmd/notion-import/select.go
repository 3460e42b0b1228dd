package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/toothbrush/notion-import/importer"
)

var (
	selectTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("229")).
				Background(lipgloss.Color("57")).
				Padding(0, 1)
	selectDocStyle = lipgloss.NewStyle().Margin(1, 2)
)

type pageItem importer.Choice

func (i pageItem) Title() string       { return i.Label }
func (i pageItem) Description() string { return i.Value }
func (i pageItem) FilterValue() string { return i.Label }

type selectModel struct {
	list   list.Model
	choice string
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := selectDocStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)

	case tea.KeyMsg:
		if msg.String() == "enter" && m.list.FilterState() != list.Filtering {
			if item, ok := m.list.SelectedItem().(pageItem); ok {
				m.choice = item.Value
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	if m.choice != "" {
		return ""
	}
	return selectDocStyle.Render(m.list.View())
}

// teaSelector lets the user pick a page from a filterable list.
type teaSelector struct {
	Title string
}

func (s teaSelector) Select(ctx context.Context, choices []importer.Choice) (string, bool, error) {
	items := make([]list.Item, 0, len(choices))
	for _, c := range choices {
		items = append(items, pageItem(c))
	}

	l := list.New(items, list.NewDefaultDelegate(), 0, 0)
	l.Title = s.Title
	l.Styles.Title = selectTitleStyle

	final, err := tea.NewProgram(selectModel{list: l}, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if err != nil {
		return "", false, fmt.Errorf("notion-import: page selection failed: %w", err)
	}

	m, ok := final.(selectModel)
	if !ok || m.choice == "" {
		return "", false, nil
	}
	return m.choice, true, nil
}
