package vk

import (
	"context"
	"slices"
	"sync"
	"time"
)

// MockClient is an in-memory API used by tests and demo mode.
// It records every call and lets tests inject failures per method.
//
// NOTE: This file is used by tests in internal/ui and internal/app.
type MockClient struct {
	mu sync.RWMutex

	friends       []Peer
	conversations []Conversation
	presence      map[int64]Presence
	names         map[int64]string
	history       map[int64][]Message // chronological
	sent          []SentMessage
	nextID        int64

	failures map[string]error
	calls    map[string]int

	// replies, when non-empty, are cycled through as the peer's answer to every send.
	replies   []string
	replyNext int

	// OnCall, when set, runs at the start of every call. Tests use it to block or observe.
	OnCall func(method string)

	now func() time.Time
}

// SentMessage records one Send call.
type SentMessage struct {
	PeerID   int64
	RandomID int32
	Text     string
}

// NewMockClient creates an empty mock.
func NewMockClient() *MockClient {
	return &MockClient{
		presence: make(map[int64]Presence),
		names:    make(map[int64]string),
		history:  make(map[int64][]Message),
		failures: make(map[string]error),
		calls:    make(map[string]int),
		nextID:   1000,
		now:      time.Now,
	}
}

var _ API = (*MockClient)(nil)

// SetFriends replaces the friend list. Friends also become known names for Users.
func (m *MockClient) SetFriends(peers ...Peer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.friends = slices.Clone(peers)
	for _, p := range peers {
		m.names[p.ID] = p.Name
	}
}

// SetConversations replaces the conversation list.
func (m *MockClient) SetConversations(convs ...Conversation) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations = slices.Clone(convs)
	for _, c := range convs {
		if c.Peer.Name != "" {
			m.names[c.Peer.ID] = c.Peer.Name
		}
	}
}

// SetPresence sets the presence returned for the given users.
func (m *MockClient) SetPresence(statuses ...Presence) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range statuses {
		m.presence[s.ID] = s
	}
}

// SetHistory replaces the history with a peer. msgs are in chronological order.
func (m *MockClient) SetHistory(peerID int64, msgs ...Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history[peerID] = slices.Clone(msgs)
	for _, msg := range msgs {
		m.nextID = max(m.nextID, msg.ID+1)
	}
}

// FailWith makes every call to method return err until cleared with a nil err.
func (m *MockClient) FailWith(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		delete(m.failures, method)
		return
	}
	m.failures[method] = err
}

// Calls returns how many times method was called.
func (m *MockClient) Calls(method string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.calls[method]
}

// Sent returns a copy of every message passed to Send, including failed ones.
func (m *MockClient) Sent() []SentMessage {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.sent)
}

// begin records the call and returns the injected failure, if any.
func (m *MockClient) begin(ctx context.Context, method string) error {
	if hook := m.OnCall; hook != nil {
		hook(method)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[method]++
	return m.failures[method]
}

// Friends implements API.
func (m *MockClient) Friends(ctx context.Context) ([]Peer, error) {
	if err := m.begin(ctx, MethodFriends); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.friends), nil
}

// Conversations implements API.
func (m *MockClient) Conversations(ctx context.Context, count int) ([]Conversation, error) {
	if err := m.begin(ctx, MethodConversations); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	n := min(count, len(m.conversations))
	out := make([]Conversation, n)
	for i, c := range m.conversations[:n] {
		out[i] = c
		if c.LastMessage != nil {
			msg := *c.LastMessage
			out[i].LastMessage = &msg
		}
	}
	return out, nil
}

// Users implements API. Ids without a known name come back as nameless profiles.
func (m *MockClient) Users(ctx context.Context, ids []int64) ([]User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	if err := m.begin(ctx, MethodUsers); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	users := make([]User, 0, len(ids))
	for _, id := range ids {
		p := m.presence[id]
		p.ID = id
		users = append(users, User{Peer: Peer{ID: id, Name: m.names[id]}, Presence: p})
	}
	return users, nil
}

// History implements API. Results are newest first, like the real endpoint.
func (m *MockClient) History(ctx context.Context, peerID int64, count int) ([]Message, error) {
	if err := m.begin(ctx, MethodHistory); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	msgs := m.history[peerID]
	n := min(count, len(msgs))
	out := make([]Message, 0, n)
	for i := len(msgs) - 1; i >= len(msgs)-n; i-- {
		out = append(out, msgs[i])
	}
	return out, nil
}

// Send implements API. A successful send is appended to the peer's history
// and becomes the last message of its conversation.
func (m *MockClient) Send(ctx context.Context, peerID int64, randomID int32, text string) (int64, error) {
	err := m.begin(ctx, MethodSend)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, SentMessage{PeerID: peerID, RandomID: randomID, Text: text})
	if err != nil {
		return 0, err
	}

	m.nextID++
	msg := Message{ID: m.nextID, Text: text, Date: m.now().Unix(), Out: true}
	m.history[peerID] = append(m.history[peerID], msg)
	sentID := msg.ID
	if len(m.replies) > 0 {
		m.nextID++
		reply := Message{ID: m.nextID, FromID: peerID, Text: m.replies[m.replyNext%len(m.replies)], Date: msg.Date}
		m.replyNext++
		m.history[peerID] = append(m.history[peerID], reply)
		msg = reply
	}
	for i, c := range m.conversations {
		if c.Peer.ID == peerID {
			last := msg
			m.conversations[i].LastMessage = &last
			// Most recent conversation first
			conv := m.conversations[i]
			m.conversations = slices.Delete(m.conversations, i, i+1)
			m.conversations = slices.Insert(m.conversations, 0, conv)
			break
		}
	}
	return sentID, nil
}
