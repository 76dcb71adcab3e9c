package ui

import (
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/poller"
	"github.com/zhubert/vkterm/internal/vk"
)

// manualTicker records poller ticks instead of sleeping so tests decide when a cycle happens.
type manualTicker struct {
	pending []tea.Msg
}

func (m *manualTicker) tick(_ time.Duration, fn func(time.Time) tea.Msg) tea.Cmd {
	m.pending = append(m.pending, fn(time.Now()))
	return nil
}

// fire removes and returns the pending tick of the given poller.
func (m *manualTicker) fire(t *testing.T, pollerID uint64) tea.Msg {
	t.Helper()
	for i, msg := range m.pending {
		if tick, ok := msg.(poller.TickMsg); ok && tick.PollerID == pollerID {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return msg
		}
	}
	t.Fatalf("no tick pending for poller %d", pollerID)
	return nil
}

// testDeps returns deps backed by a mock client and a manual ticker.
func testDeps() (Deps, *vk.MockClient, *manualTicker) {
	client := vk.NewMockClient()
	ticker := &manualTicker{}
	cfg := config.Default()
	return Deps{
		Client:      client,
		Config:      cfg,
		PollOptions: []poller.Option{poller.WithTickFunc(ticker.tick)},
		Notify:      func(string, string) error { return nil },
	}, client, ticker
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

// pump runs cmd, feeds every resulting message back into v and keeps going
// until no commands are left. It returns every Result the view produced.
func pump(v View, cmd tea.Cmd) []Result {
	var results []Result
	queue := run(cmd)
	for len(queue) > 0 {
		msg := queue[0]
		queue = queue[1:]
		res, next := v.Update(msg)
		results = append(results, res)
		queue = append(queue, run(next)...)
	}
	return results
}

// firstErr returns the first error among results.
func firstErr(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// stripANSI removes styling so tests can assert on plain text.
func stripANSI(s string) string {
	return ansi.Strip(s)
}

// keyPress creates a tea.KeyPressMsg for the given key string.
func keyPress(key string) tea.KeyPressMsg {
	switch key {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "up":
		return tea.KeyPressMsg{Code: tea.KeyUp}
	case "down":
		return tea.KeyPressMsg{Code: tea.KeyDown}
	case "pgup":
		return tea.KeyPressMsg{Code: tea.KeyPgUp}
	case "pgdown":
		return tea.KeyPressMsg{Code: tea.KeyPgDown}
	default:
		if len(key) == 1 {
			return tea.KeyPressMsg{Code: rune(key[0]), Text: key}
		}
		return tea.KeyPressMsg{Text: key}
	}
}
