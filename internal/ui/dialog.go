package ui

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync/atomic"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/zhubert/vkterm/internal/keys"
	"github.com/zhubert/vkterm/internal/logger"
	"github.com/zhubert/vkterm/internal/poller"
	"github.com/zhubert/vkterm/internal/presence"
	"github.com/zhubert/vkterm/internal/vk"
)

var nextDialogID atomic.Uint64

// PeerInfoMsg carries the one-time profile lookup for a dialog's peer.
type PeerInfoMsg struct {
	DialogID uint64
	User     vk.User
	Err      error
}

// SendResultMsg carries the outcome of a send.
type SendResultMsg struct {
	DialogID  uint64
	Text      string
	RandomID  int32
	MessageID int64
	Err       error
}

// Dialog is an open conversation: polled history, a compose field and the
// peer's name and presence, fetched once on entry.
type Dialog struct {
	deps Deps
	id   uint64

	peer       vk.User
	peerLoaded bool

	history  *poller.Poller[[]vk.Message]
	loaded   bool
	loadErr  error
	lastSeen int64 // newest message id seen since activation

	input    textinput.Model
	viewport viewport.Model
	sending  bool

	width  int
	height int
	active bool

	log *slog.Logger
}

// NewDialog creates the dialog with peer. name is shown until the profile arrives.
func NewDialog(deps Deps, peerID int64, name string) *Dialog {
	cfg := deps.config()

	ti := textinput.New()
	ti.Placeholder = "Write a message..."
	ti.CharLimit = InputCharLimit
	ti.Prompt = "> "

	d := &Dialog{
		deps:     deps,
		id:       nextDialogID.Add(1),
		peer:     vk.User{Peer: vk.Peer{ID: peerID, Name: name}},
		input:    ti,
		viewport: viewport.New(),
		log:      logger.WithPeer(peerID),
	}
	d.history = poller.New(fmt.Sprintf("history-%d", peerID), cfg.Refresh(), nil,
		historyFetch(deps.Client, peerID, cfg.HistoryCount), deps.pollOptions()...)
	d.SetSize(cfg.Width, HistoryHeight+3)
	return d
}

// historyFetch loads the latest count messages in chronological order.
func historyFetch(client vk.API, peerID int64, count int) poller.FetchFunc[[]vk.Message] {
	return func(ctx context.Context) ([]vk.Message, error) {
		msgs, err := client.History(ctx, peerID, count)
		if err != nil {
			return nil, err
		}
		msgs = slices.Clone(msgs)
		slices.Reverse(msgs)
		return msgs, nil
	}
}

// PeerID returns the id of the conversation partner.
func (d *Dialog) PeerID() int64 { return d.peer.ID }

// Messages returns the history in chronological order.
func (d *Dialog) Messages() []vk.Message { return d.history.Value() }

// Input returns the text in the compose field.
func (d *Dialog) Input() string { return d.input.Value() }

// SetInput replaces the text in the compose field.
func (d *Dialog) SetInput(s string) { d.input.SetValue(s) }

// Sending reports whether a send is in flight.
func (d *Dialog) Sending() bool { return d.sending }

// Loaded reports whether the first history result has arrived.
func (d *Dialog) Loaded() bool { return d.loaded }

// Activate fetches the peer profile and starts the history poller.
func (d *Dialog) Activate() tea.Cmd {
	d.active = true
	d.input.Focus()
	d.log.Debug("dialog opened")
	return tea.Batch(d.peerInfoCmd(), d.history.Start())
}

// Deactivate stops the history poller. A send still in flight is abandoned;
// its result is ignored.
func (d *Dialog) Deactivate() {
	d.active = false
	d.sending = false
	d.history.Stop()
	d.input.Blur()
	d.log.Debug("dialog closed")
}

// SetSize implements View.
func (d *Dialog) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.input.SetWidth(max(1, width-lipgloss.Width(d.input.Prompt)-InputStyle.GetHorizontalFrameSize()-1))

	inputHeight := 1 + InputStyle.GetVerticalFrameSize()
	d.viewport.SetWidth(width)
	d.viewport.SetHeight(max(1, min(HistoryHeight, height-inputHeight)))
	d.refreshViewport()
}

// Title implements View.
func (d *Dialog) Title() (string, string) {
	if !d.peerLoaded || !d.peer.IsUser() {
		return d.peer.DisplayName(), ""
	}
	return d.peer.DisplayName(), presence.Label(d.peer.Presence, d.deps.now())
}

// Bindings implements View.
func (d *Dialog) Bindings() []KeyBinding { return DialogBindings }

func (d *Dialog) peerInfoCmd() tea.Cmd {
	if !d.peer.IsUser() {
		return nil
	}
	client, id, peerID := d.deps.Client, d.id, d.peer.ID
	timeout := d.deps.config().Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		users, err := client.Users(ctx, []int64{peerID})
		if err != nil {
			return PeerInfoMsg{DialogID: id, Err: err}
		}
		if len(users) == 0 {
			return PeerInfoMsg{DialogID: id, Err: fmt.Errorf("user %d not found", peerID)}
		}
		return PeerInfoMsg{DialogID: id, User: users[0]}
	}
}

// Update implements View.
func (d *Dialog) Update(msg tea.Msg) (Result, tea.Cmd) {
	if !d.active {
		return Result{}, nil
	}

	switch msg := msg.(type) {
	case PeerInfoMsg:
		if msg.DialogID != d.id {
			return Result{}, nil
		}
		if msg.Err != nil {
			d.log.Warn("peer info failed", "error", msg.Err)
			return Result{Err: msg.Err}, nil
		}
		if msg.User.Name == "" {
			msg.User.Name = d.peer.Name
		}
		d.peer = msg.User
		d.peerLoaded = true
		d.refreshViewport()
		return Result{}, nil

	case SendResultMsg:
		if msg.DialogID != d.id {
			return Result{}, nil
		}
		return d.handleSendResult(msg)

	case poller.TickMsg, poller.ResultMsg:
		return d.handlePoll(msg)

	case tea.KeyPressMsg:
		return d.handleKey(msg)
	}
	return Result{}, nil
}

func (d *Dialog) handlePoll(msg tea.Msg) (Result, tea.Cmd) {
	out, cmd := d.history.Update(msg)
	if out.Err != nil {
		if !d.loaded {
			d.loadErr = out.Err
			d.refreshViewport()
		}
		return Result{Err: out.Err}, cmd
	}
	if !out.Changed {
		return Result{}, cmd
	}

	firstLoad := !d.loaded
	d.loaded = true
	d.loadErr = nil

	incoming := d.newIncoming()
	if !firstLoad && incoming != nil && d.deps.config().Notifications {
		cmd = tea.Batch(cmd, d.notifyCmd(*incoming))
	}

	atBottom := d.viewport.AtBottom()
	d.refreshViewport()
	if firstLoad || atBottom {
		d.viewport.GotoBottom()
	}
	return Result{}, cmd
}

// newIncoming advances lastSeen and returns the newest message from the peer
// that was not seen before, or nil.
func (d *Dialog) newIncoming() *vk.Message {
	var newest *vk.Message
	msgs := d.history.Value()
	seen := d.lastSeen
	for i := range msgs {
		m := &msgs[i]
		if m.ID > d.lastSeen {
			d.lastSeen = m.ID
		}
		if m.ID > seen && !m.Out {
			newest = m
		}
	}
	return newest
}

func (d *Dialog) notifyCmd(msg vk.Message) tea.Cmd {
	deps, name, log := d.deps, d.peer.DisplayName(), d.log
	return func() tea.Msg {
		if err := deps.notify(name, msg.Text); err != nil {
			log.Debug("notification failed", "error", err)
		}
		return nil
	}
}

func (d *Dialog) handleKey(msg tea.KeyPressMsg) (Result, tea.Cmd) {
	switch msg.String() {
	case keys.Escape:
		return Result{Action: ActionBack}, nil
	case keys.Enter:
		return Result{}, d.submit()
	case keys.PgUp, keys.PgDown:
		var cmd tea.Cmd
		d.viewport, cmd = d.viewport.Update(msg)
		return Result{}, cmd
	}

	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return Result{}, cmd
}

// submit sends the trimmed input. Empty input and a send already in flight are no-ops.
func (d *Dialog) submit() tea.Cmd {
	text := strings.TrimSpace(d.input.Value())
	if text == "" || d.sending {
		return nil
	}
	d.sending = true

	client, id, peerID := d.deps.Client, d.id, d.peer.ID
	randomID := vk.NewRandomID()
	timeout := d.deps.config().Timeout()
	d.log.Debug("sending message", "randomID", randomID, "length", len(text))

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		msgID, err := client.Send(ctx, peerID, randomID, text)
		return SendResultMsg{DialogID: id, Text: text, RandomID: randomID, MessageID: msgID, Err: err}
	}
}

// handleSendResult clears the input on success, unless the user has already
// typed something else, and refreshes the history once. On failure the typed
// text stays so the user can retry.
func (d *Dialog) handleSendResult(msg SendResultMsg) (Result, tea.Cmd) {
	d.sending = false
	if msg.Err != nil {
		d.log.Warn("send failed", "error", msg.Err)
		return Result{Err: fmt.Errorf("message not sent: %w", msg.Err)}, nil
	}

	d.log.Debug("message sent", "messageID", msg.MessageID)
	if strings.TrimSpace(d.input.Value()) == msg.Text {
		d.input.Reset()
	}
	d.viewport.GotoBottom()
	return Result{}, d.history.Refresh()
}

func (d *Dialog) refreshViewport() {
	d.viewport.SetContent(d.renderHistory())
}

func (d *Dialog) renderHistory() string {
	if !d.loaded {
		if d.loadErr != nil {
			return PanelHintStyle.Render("Could not load messages, retrying...")
		}
		return StatusLoadingStyle.Render("Loading messages...")
	}
	msgs := d.history.Value()
	if len(msgs) == 0 {
		return PanelHintStyle.Render("No messages yet")
	}

	wrap := MessageTextStyle.Width(max(1, d.width))
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, wrap.Render(d.senderLabel(m)+" "+messageText(m)))
	}
	return strings.Join(lines, "\n")
}

func (d *Dialog) senderLabel(m vk.Message) string {
	switch {
	case m.Out:
		return MessageOwnStyle.Render(YouLabel + ":")
	case m.FromID == d.peer.ID || m.FromID == 0 || d.peer.IsUser():
		return MessagePeerStyle.Render(d.peer.DisplayName() + ":")
	default:
		return MessagePeerStyle.Render(fmt.Sprintf("id%d:", m.FromID))
	}
}

func messageText(m vk.Message) string {
	if m.Text == "" {
		return AttachmentPlaceholder
	}
	return m.Text
}

// View implements View.
func (d *Dialog) View() string {
	input := d.input.View()
	if d.sending {
		input += " " + StatusLoadingStyle.Render("sending...")
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		d.viewport.View(),
		InputStyle.Width(d.width).Render(input),
	)
}
