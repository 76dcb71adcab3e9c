package vk

import "time"

// NewDemoClient returns a MockClient seeded with a small address book so the
// UI can be explored without an access token. Peers answer every message.
func NewDemoClient() *MockClient {
	m := NewMockClient()
	now := time.Now().Unix()

	m.SetFriends(
		Peer{ID: 101, Name: "Anna Petrova"},
		Peer{ID: 102, Name: "Boris Ivanov"},
		Peer{ID: 103, Name: "Vera Smirnova"},
		Peer{ID: 104, Name: "Grigory Orlov"},
	)
	m.SetPresence(
		Presence{ID: 101, Online: true, Mobile: true},
		Presence{ID: 102, Online: true},
		Presence{ID: 103, LastSeen: now},
		Presence{ID: 104, LastSeen: now - 3600},
	)

	m.SetHistory(101,
		Message{ID: 1, FromID: 101, Text: "Hi! Are you coming tonight?", Date: now - 600},
		Message{ID: 2, Text: "Yes, around eight", Date: now - 540, Out: true},
		Message{ID: 3, FromID: 101, Text: "Great, see you there", Date: now - 500},
	)
	m.SetHistory(102,
		Message{ID: 4, FromID: 102, Text: "", Date: now - 3000},
	)
	m.SetHistory(chatPeerOffset+1,
		Message{ID: 5, FromID: 103, Text: "Who has the slides?", Date: now - 7200},
		Message{ID: 6, FromID: 104, Text: "I'll send them tomorrow", Date: now - 7100},
	)

	last := func(peerID int64) *Message {
		h := m.history[peerID]
		msg := h[len(h)-1]
		return &msg
	}
	m.SetConversations(
		Conversation{Peer: Peer{ID: 101, Name: "Anna Petrova"}, LastMessage: last(101)},
		Conversation{Peer: Peer{ID: 102, Name: "Boris Ivanov"}, LastMessage: last(102)},
		Conversation{Peer: Peer{ID: chatPeerOffset + 1, Name: "Weekend trip"}, LastMessage: last(chatPeerOffset + 1)},
	)

	m.replies = []string{"Got it", "Sounds good!", "Let me think about it", "Ha, sure"}
	return m
}
