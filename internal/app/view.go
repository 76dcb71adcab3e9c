package app

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/vkterm/internal/ui"
)

// View renders the app. This is the core Bubble Tea view function.
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.SetContent(m.RenderToString())
	return v
}

// RenderToString renders the current screen as a string.
// This is useful for demos and testing.
func (m *Model) RenderToString() string {
	if m.width == 0 || m.height == 0 {
		return ui.LoadingText
	}

	title, note := m.pageTitle()
	m.header.SetTitle(title)
	m.header.SetNote(note)

	var body string
	if m.current == nil {
		body = m.menuView()
	} else {
		body = m.current.View()
	}

	heading := ui.PanelTitleStyle.Render(title) + "  " + ui.PanelHintStyle.Render(m.pageHint())
	inner := lipgloss.NewStyle().Width(m.innerWidth()).Render(
		lipgloss.JoinVertical(lipgloss.Left, heading, "", body),
	)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.header.View(),
		ui.PanelStyle.Render(inner),
		m.footer.View(),
	)
}

func (m *Model) pageTitle() (string, string) {
	if m.current == nil {
		return PageMenu.String(), ""
	}
	return m.current.Title()
}

func (m *Model) pageHint() string {
	switch m.state.Page {
	case PageFriends, PageMessages:
		return "enter to open, esc to go back"
	case PageDialog:
		return "esc to go back"
	default:
		return "choose a section"
	}
}

func (m *Model) menuView() string {
	lines := make([]string, 0, len(MenuShortcuts))
	for _, s := range MenuShortcuts {
		lines = append(lines, ui.FooterKeyStyle.Render(s.Key)+"  "+ui.RowStyle.Render(s.Description))
	}
	return strings.Join(lines, "\n")
}

// frameWidth is the configured width, capped by the terminal.
func (m *Model) frameWidth() int {
	w := m.deps.Config.Width
	if m.width > 0 && (w <= 0 || m.width < w) {
		w = m.width
	}
	return w
}

func (m *Model) innerWidth() int {
	return max(1, m.frameWidth()-ui.BorderSize)
}

// updateSizes propagates the terminal size to the chrome and the current page.
func (m *Model) updateSizes() {
	w := m.frameWidth()
	m.header.SetWidth(w)
	m.footer.SetWidth(w)

	if m.current == nil || m.height == 0 {
		return
	}
	h := m.height - ui.HeaderHeight - ui.FooterHeight - ui.BorderSize - ui.TitleHeight
	m.current.SetSize(m.innerWidth(), max(1, h))
}
