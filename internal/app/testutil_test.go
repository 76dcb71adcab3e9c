package app

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/keys"
	"github.com/zhubert/vkterm/internal/poller"
	"github.com/zhubert/vkterm/internal/ui"
	"github.com/zhubert/vkterm/internal/vk"
)

// manualTicker collects poller ticks so no test ever sleeps.
type manualTicker struct {
	pending []tea.Msg
}

func (m *manualTicker) tick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	m.pending = append(m.pending, fn(time.Now()))
	return nil
}

// testClient returns a mock seeded with two friends and two conversations.
func testClient() *vk.MockClient {
	client := vk.NewMockClient()
	client.SetFriends(
		vk.Peer{ID: 1, Name: "Anna Petrova"},
		vk.Peer{ID: 2, Name: "Boris Ivanov"},
	)
	client.SetConversations(
		vk.Conversation{Peer: vk.Peer{ID: 2, Name: "Boris Ivanov"}, LastMessage: &vk.Message{ID: 20, FromID: 2, Text: "hey"}},
		vk.Conversation{Peer: vk.Peer{ID: 1, Name: "Anna Petrova"}, LastMessage: &vk.Message{ID: 10, FromID: 1, Text: "hi"}},
	)
	client.SetPresence(vk.Presence{ID: 1, Online: true}, vk.Presence{ID: 2})
	client.SetHistory(2, vk.Message{ID: 20, FromID: 2, Text: "hey"})
	client.SetHistory(1, vk.Message{ID: 10, FromID: 1, Text: "hi"})
	return client
}

// testModel creates a sized Model backed by testClient and a manual ticker.
func testModel() (*Model, *vk.MockClient, *manualTicker) {
	client := testClient()
	ticker := &manualTicker{}
	m := New(ui.Deps{
		Client:      client,
		Config:      config.Default(),
		PollOptions: []poller.Option{poller.WithTickFunc(ticker.tick)},
		Notify:      func(string, string) error { return nil },
	}, "0.0.0-test")
	m.flashTick = func() tea.Cmd { return nil }
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, client, ticker
}

// run executes cmd and flattens batches into the messages they produce.
func run(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, run(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// pump runs cmd and feeds every resulting message back into the model until
// nothing is left. It returns every message that was delivered.
func pump(m *Model, cmd tea.Cmd) []tea.Msg {
	var delivered []tea.Msg
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		delivered = append(delivered, msg)
		_, next := m.Update(msg)
		queue = append(queue, run(next)...)
	}
	return delivered
}

// press delivers a key and processes everything it triggers.
func press(m *Model, key string) []tea.Msg {
	_, cmd := m.Update(keyPress(key))
	return pump(m, cmd)
}

// quitRequested reports whether msgs contain tea.QuitMsg.
func quitRequested(msgs []tea.Msg) bool {
	for _, msg := range msgs {
		if _, ok := msg.(tea.QuitMsg); ok {
			return true
		}
	}
	return false
}

func stripANSI(s string) string {
	return ansi.Strip(s)
}

// keyPress creates a tea.KeyPressMsg for the given key string.
// Examples: "f", "enter", "esc", "ctrl+c", "up", "down"
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case keys.Enter:
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case keys.Escape:
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case keys.Up:
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case keys.Down:
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case keys.CtrlC:
		return tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
