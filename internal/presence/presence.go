// Package presence turns online status lookups into display labels.
package presence

import (
	"time"

	"github.com/zhubert/vkterm/internal/vk"
)

// RecentWindow is how long after going offline a user still shows as just seen.
const RecentWindow = 5 * time.Second

// Labels, in order of precedence.
const (
	LabelMobile = "online (mobile)"
	LabelOnline = "online"
	LabelRecent = "seen moments ago"
)

// Row pairs a peer with its presence label. Label is empty when nothing is known.
type Row struct {
	Peer  vk.Peer
	Label string
}

// Label returns the display label for status at time now.
func Label(status vk.Presence, now time.Time) string {
	switch {
	case status.Online && status.Mobile:
		return LabelMobile
	case status.Online:
		return LabelOnline
	case status.LastSeen > 0 && now.Sub(time.Unix(status.LastSeen, 0)) <= RecentWindow:
		return LabelRecent
	default:
		return ""
	}
}

// Merge labels every peer using the status with the same id. Peers without a
// status, e.g. ones added since the last presence poll, get an empty label.
func Merge(peers []vk.Peer, statuses []vk.Presence, now time.Time) []Row {
	byID := make(map[int64]vk.Presence, len(statuses))
	for _, s := range statuses {
		byID[s.ID] = s
	}

	rows := make([]Row, len(peers))
	for i, p := range peers {
		rows[i] = Row{Peer: p}
		if s, ok := byID[p.ID]; ok {
			rows[i].Label = Label(s, now)
		}
	}
	return rows
}

// UserIDs returns the ids of peers that have presence (users, not chats or communities).
func UserIDs(peers []vk.Peer) []int64 {
	var ids []int64
	for _, p := range peers {
		if p.IsUser() {
			ids = append(ids, p.ID)
		}
	}
	return ids
}
