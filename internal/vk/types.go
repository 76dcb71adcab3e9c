// Package vk is the client side of the VK messaging API as vkterm uses it:
// friends, conversations, presence lookups, message history and sending.
//
// Everything the UI needs goes through the API interface so the view models
// can run against MockClient in tests and demo mode.
package vk

import "context"

// Method names, shared by the HTTP client and the mock for call accounting.
const (
	MethodFriends       = "friends.get"
	MethodConversations = "messages.getConversations"
	MethodUsers         = "users.get"
	MethodHistory       = "messages.getHistory"
	MethodSend          = "messages.send"
)

// chatPeerOffset is added to chat ids to form peer ids for group chats.
const chatPeerOffset = 2000000000

// UnknownName is shown for peers whose profile was not returned.
const UnknownName = "Unknown user"

// Peer is a friend or the counterpart of a conversation.
type Peer struct {
	ID   int64
	Name string
}

// IsUser reports whether the peer is a user (as opposed to a community or a group chat).
// Presence only exists for users.
func (p Peer) IsUser() bool {
	return p.ID > 0 && p.ID < chatPeerOffset
}

// DisplayName returns the name to render, falling back to UnknownName.
func (p Peer) DisplayName() string {
	if p.Name == "" {
		return UnknownName
	}
	return p.Name
}

// Presence is a user's online status at the time of the lookup.
type Presence struct {
	ID       int64
	Online   bool
	Mobile   bool
	LastSeen int64 // Unix seconds, 0 when hidden or unknown
}

// User is a profile returned by a user lookup.
type User struct {
	Peer
	Presence Presence
}

// Message is a single message in a conversation.
type Message struct {
	ID     int64
	FromID int64
	Text   string
	Date   int64 // Unix seconds
	Out    bool  // sent by the account owner
}

// Conversation is one entry of the conversation list.
type Conversation struct {
	Peer        Peer
	LastMessage *Message // nil when the API returned none
}

// API is the subset of the remote API vkterm consumes. Every call may fail;
// callers keep their previous state when it does.
type API interface {
	// Friends returns the account's friends with their names.
	Friends(ctx context.Context) ([]Peer, error)
	// Conversations returns up to count conversations, most recent first.
	Conversations(ctx context.Context, count int) ([]Conversation, error)
	// Users looks up profiles and presence for the given ids.
	Users(ctx context.Context, ids []int64) ([]User, error)
	// History returns up to count messages with the peer, newest first.
	History(ctx context.Context, peerID int64, count int) ([]Message, error)
	// Send sends text to the peer. randomID deduplicates retries on the server side.
	Send(ctx context.Context, peerID int64, randomID int32, text string) (int64, error)
}
