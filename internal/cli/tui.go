package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/irfanahm3d/obsidian-timeline/pkg/timeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// timelineModel - Interactive timeline browser
// =============================================================================

// timelineModel is the bubbletea model for browsing positioned items.
type timelineModel struct {
	layout timeline.Layout
	cursor int
	height int
	offset int
}

// newTimelineModel creates a browser over a computed layout.
func newTimelineModel(l timeline.Layout) timelineModel {
	return timelineModel{
		layout: l,
		height: 15,
	}
}

func (m timelineModel) Init() tea.Cmd {
	return nil
}

func (m timelineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.layout.Items)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor = 0
			m.offset = 0
		case "G", "end":
			m.cursor = len(m.layout.Items) - 1
			if m.cursor >= m.height {
				m.offset = m.cursor - m.height + 1
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 8
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m timelineModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Timeline"))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("%s .. %s",
		m.layout.Range.Earliest.Format("2006-01-02"),
		m.layout.Range.Latest.Format("2006-01-02"))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G jump  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.layout.Items) {
		end = len(m.layout.Items)
	}

	for i := m.offset; i < end; i++ {
		it := m.layout.Items[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		side := "R"
		if it.Side == timeline.SideLeft {
			side = "L"
		}

		line := fmt.Sprintf("%s%6.1f%%  %s  %s  %s",
			cursor, it.Position, side, it.Date.Format("2006-01-02"), it.Label)

		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(strings.Repeat("-", 40)))
	b.WriteString("\n")

	current := m.layout.Items[m.cursor]
	b.WriteString("  " + StyleValue.Render(current.ID) + "\n")
	if current.Snippet != "" {
		b.WriteString("  " + listDimStyle.Render(current.Snippet) + "\n")
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.layout.Items))))

	return b.String()
}
