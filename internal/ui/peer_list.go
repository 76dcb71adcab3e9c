package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/zhubert/vkterm/internal/keys"
	"github.com/zhubert/vkterm/internal/logger"
	"github.com/zhubert/vkterm/internal/poller"
	"github.com/zhubert/vkterm/internal/presence"
	"github.com/zhubert/vkterm/internal/vk"
)

// Entry is one row source of a PeerList.
type Entry struct {
	Peer vk.Peer
	Last *vk.Message // nil for friends and for conversations without a last message
}

// PeerList is a polled, selectable list of peers with their presence. It backs
// both the friends page and the conversation list.
type PeerList struct {
	deps        Deps
	title       string
	emptyText   string
	showPreview bool

	entries     *poller.Poller[[]Entry]
	presence    *poller.Poller[[]vk.Presence]
	presenceIDs []int64

	loaded   bool
	selected int
	width    int
	height   int
	active   bool

	log *slog.Logger
}

// NewFriendsList creates the friends page.
func NewFriendsList(deps Deps) *PeerList {
	client := deps.Client
	fetch := func(ctx context.Context) ([]Entry, error) {
		peers, err := client.Friends(ctx)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, len(peers))
		for i, p := range peers {
			entries[i] = Entry{Peer: p}
		}
		return entries, nil
	}
	return newPeerList(deps, "Friends", "No friends yet", false, fetch)
}

// NewConversationList creates the conversation page.
func NewConversationList(deps Deps) *PeerList {
	client := deps.Client
	count := deps.config().ConversationCount
	fetch := func(ctx context.Context) ([]Entry, error) {
		convs, err := client.Conversations(ctx, count)
		if err != nil {
			return nil, err
		}
		entries := make([]Entry, len(convs))
		for i, c := range convs {
			entries[i] = Entry{Peer: c.Peer, Last: c.LastMessage}
		}
		return entries, nil
	}
	return newPeerList(deps, "Messages", "No conversations yet", true, fetch)
}

func newPeerList(deps Deps, title, emptyText string, showPreview bool, fetch poller.FetchFunc[[]Entry]) *PeerList {
	cfg := deps.config()
	opts := deps.pollOptions()
	name := strings.ToLower(title)

	l := &PeerList{
		deps:        deps,
		title:       title,
		emptyText:   emptyText,
		showPreview: showPreview,
		width:       cfg.Width,
		log:         logger.WithComponent("list").With("list", name),
	}
	l.entries = poller.New(name, cfg.Refresh(), nil, fetch, opts...)
	l.presence = poller.New(name+"-presence", cfg.Presence(), nil, presenceFetch(deps.Client, nil), opts...)
	return l
}

// presenceFetch looks up presence for ids. No ids means no request.
func presenceFetch(client vk.API, ids []int64) poller.FetchFunc[[]vk.Presence] {
	return func(ctx context.Context) ([]vk.Presence, error) {
		if len(ids) == 0 {
			return nil, nil
		}
		users, err := client.Users(ctx, ids)
		if err != nil {
			return nil, err
		}
		statuses := make([]vk.Presence, len(users))
		for i, u := range users {
			statuses[i] = u.Presence
		}
		return statuses, nil
	}
}

// Activate starts the list and presence pollers.
func (l *PeerList) Activate() tea.Cmd {
	l.active = true
	return tea.Batch(l.entries.Start(), l.presence.Start())
}

// Deactivate stops both pollers. Results that arrive later are dropped.
func (l *PeerList) Deactivate() {
	l.active = false
	l.entries.Stop()
	l.presence.Stop()
}

// SetSize sets the content area available to the list.
func (l *PeerList) SetSize(width, height int) {
	l.width = width
	l.height = height
}

// Selected returns the index of the highlighted row.
func (l *PeerList) Selected() int { return l.selected }

// Len returns the number of rows.
func (l *PeerList) Len() int { return len(l.entries.Value()) }

// Title implements View.
func (l *PeerList) Title() (string, string) {
	if !l.loaded {
		return l.title, ""
	}
	return l.title, fmt.Sprintf("%d", l.Len())
}

// Bindings implements View.
func (l *PeerList) Bindings() []KeyBinding { return ListBindings }

// Update implements View.
func (l *PeerList) Update(msg tea.Msg) (Result, tea.Cmd) {
	if !l.active {
		return Result{}, nil
	}

	switch msg := msg.(type) {
	case poller.TickMsg, poller.ResultMsg:
		return l.handlePoll(msg)
	case tea.KeyPressMsg:
		return l.handleKey(msg)
	}
	return Result{}, nil
}

func (l *PeerList) handlePoll(msg tea.Msg) (Result, tea.Cmd) {
	if out, cmd := l.entries.Update(msg); out.Handled {
		if out.Changed {
			l.loaded = true
			l.clampSelection()
			cmd = tea.Batch(cmd, l.rearmPresence())
		}
		return Result{Err: out.Err}, cmd
	}

	out, cmd := l.presence.Update(msg)
	return Result{Err: out.Err}, cmd
}

// rearmPresence points the presence poller at the current user ids. The timer
// keeps its phase, so a changed list shows old presence for up to one cycle.
// The very first set of ids is fetched right away so labels appear on entry.
func (l *PeerList) rearmPresence() tea.Cmd {
	peers := make([]vk.Peer, 0, l.Len())
	for _, e := range l.entries.Value() {
		peers = append(peers, e.Peer)
	}
	ids := presence.UserIDs(peers)
	if slices.Equal(ids, l.presenceIDs) {
		return nil
	}

	first := len(l.presenceIDs) == 0
	l.presenceIDs = ids
	l.presence.SetFetch(presenceFetch(l.deps.Client, ids))
	l.log.Debug("presence ids changed", "count", len(ids))
	if first {
		return l.presence.Refresh()
	}
	return nil
}

// clampSelection keeps the cursor inside the list after it changes length.
func (l *PeerList) clampSelection() {
	l.selected = min(l.selected, max(0, l.Len()-1))
}

func (l *PeerList) handleKey(msg tea.KeyPressMsg) (Result, tea.Cmd) {
	n := l.Len()
	switch msg.String() {
	case keys.Up:
		if n > 0 {
			l.selected = (l.selected - 1 + n) % n
		}
	case keys.Down:
		if n > 0 {
			l.selected = (l.selected + 1) % n
		}
	case keys.Enter:
		if n > 0 {
			peer := l.entries.Value()[l.selected].Peer
			return Result{Action: ActionSelect, PeerID: peer.ID, PeerName: peer.Name}, nil
		}
	case keys.Escape:
		return Result{Action: ActionBack}, nil
	}
	return Result{}, nil
}

// Rows returns the merged rows as currently displayed.
func (l *PeerList) Rows() []presence.Row {
	entries := l.entries.Value()
	peers := make([]vk.Peer, len(entries))
	for i, e := range entries {
		peers[i] = e.Peer
	}
	return presence.Merge(peers, l.presence.Value(), l.deps.now())
}

// View implements View.
func (l *PeerList) View() string {
	if !l.loaded {
		return StatusLoadingStyle.Render(LoadingText)
	}
	entries := l.entries.Value()
	if len(entries) == 0 {
		return PanelHintStyle.Render(l.emptyText)
	}

	rows := l.Rows()
	start, end := l.visibleRange(len(rows))
	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		lines = append(lines, l.renderRow(rows[i], entries[i].Last, i == l.selected))
	}
	return strings.Join(lines, "\n")
}

// visibleRange returns the window of rows that fits the height and contains the cursor.
func (l *PeerList) visibleRange(n int) (int, int) {
	if l.height <= 0 || n <= l.height {
		return 0, n
	}
	start := max(0, l.selected-l.height+1)
	return start, min(n, start+l.height)
}

const cursorWidth = 2

// FormatRow lays out one row: name and presence padded to a column, then the
// last message preview, all cut to width.
func FormatRow(row presence.Row, last *vk.Message, showPreview bool, width int) string {
	name := row.Peer.DisplayName()
	if row.Label != "" {
		name += " " + row.Label
	}
	if !showPreview {
		return ansi.Truncate(name, width, "…")
	}

	col := min(NameColumnWidth, max(width-PreviewReserve, width/2))
	line := runewidth.FillRight(ansi.Truncate(name, col-1, "…"), col) + previewText(last)
	return ansi.Truncate(line, width, "…")
}

// previewText flattens a message for a single-line preview.
func previewText(msg *vk.Message) string {
	if msg == nil {
		return ""
	}
	if msg.Text == "" {
		return AttachmentPlaceholder
	}
	return strings.Join(strings.Fields(msg.Text), " ")
}

func (l *PeerList) renderRow(row presence.Row, last *vk.Message, selected bool) string {
	line := FormatRow(row, last, l.showPreview, max(0, l.width-cursorWidth))
	if selected {
		return RowSelectedStyle.Render("› " + line)
	}
	return RowStyle.Render("  " + line)
}
