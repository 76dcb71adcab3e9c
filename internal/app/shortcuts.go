package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/vkterm/internal/keys"
)

// Shortcut is a menu entry: a key and the page or action it leads to.
type Shortcut struct {
	Key         string
	Description string
	Handler     func(m *Model) tea.Cmd
}

// MenuShortcuts is the single source of truth for the menu page. The menu
// renders it and handleMenuKey dispatches on it.
var MenuShortcuts = []Shortcut{
	{Key: "f", Description: "Friends", Handler: func(m *Model) tea.Cmd { return m.navigate(PageFriends, 0, "") }},
	{Key: "m", Description: "Messages", Handler: func(m *Model) tea.Cmd { return m.navigate(PageMessages, 0, "") }},
	{Key: "q", Description: "Quit", Handler: (*Model).quit},
}

// handleMenuKey runs the menu shortcut for key. esc quits like q; other keys are ignored.
func (m *Model) handleMenuKey(key string) tea.Cmd {
	if key == keys.Escape {
		return m.quit()
	}
	for _, s := range MenuShortcuts {
		if s.Key == key {
			return s.Handler(m)
		}
	}
	return nil
}
