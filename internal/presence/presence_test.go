package presence

import (
	"testing"
	"time"

	"github.com/zhubert/vkterm/internal/vk"
)

func TestLabel(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	tests := []struct {
		name   string
		status vk.Presence
		want   string
	}{
		{"online mobile", vk.Presence{Online: true, Mobile: true}, LabelMobile},
		{"online", vk.Presence{Online: true}, LabelOnline},
		{"just seen", vk.Presence{LastSeen: now.Add(-2 * time.Second).Unix()}, LabelRecent},
		{"seen a minute ago", vk.Presence{LastSeen: now.Add(-60 * time.Second).Unix()}, ""},
		{"at the window edge", vk.Presence{LastSeen: now.Add(-RecentWindow).Unix()}, LabelRecent},
		{"never seen", vk.Presence{}, ""},
		{"online wins over last seen", vk.Presence{Online: true, LastSeen: now.Unix()}, LabelOnline},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Label(tt.status, now); got != tt.want {
				t.Errorf("Label() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMerge(t *testing.T) {
	now := time.Now()
	peers := []vk.Peer{{ID: 1, Name: "A"}, {ID: 2, Name: "B"}, {ID: 3, Name: "C"}}
	statuses := []vk.Presence{
		{ID: 3, Online: true},
		{ID: 1, Online: true, Mobile: true},
		{ID: 99, Online: true},
	}

	rows := Merge(peers, statuses, now)
	if len(rows) != len(peers) {
		t.Fatalf("got %d rows, want %d", len(rows), len(peers))
	}
	want := []string{LabelMobile, "", LabelOnline}
	for i, row := range rows {
		if row.Peer != peers[i] {
			t.Errorf("rows[%d].Peer = %+v, want %+v", i, row.Peer, peers[i])
		}
		if row.Label != want[i] {
			t.Errorf("rows[%d].Label = %q, want %q", i, row.Label, want[i])
		}
	}
}

func TestMerge_EmptyInputs(t *testing.T) {
	if rows := Merge(nil, []vk.Presence{{ID: 1, Online: true}}, time.Now()); len(rows) != 0 {
		t.Errorf("Merge(nil) = %v, want empty", rows)
	}

	rows := Merge([]vk.Peer{{ID: 1}}, nil, time.Now())
	if len(rows) != 1 || rows[0].Label != "" {
		t.Errorf("Merge without statuses = %+v, want one unlabeled row", rows)
	}
}

func TestUserIDs(t *testing.T) {
	peers := []vk.Peer{{ID: 5}, {ID: -10}, {ID: 2000000001}, {ID: 7}}
	ids := UserIDs(peers)
	if len(ids) != 2 || ids[0] != 5 || ids[1] != 7 {
		t.Errorf("UserIDs() = %v, want [5 7]", ids)
	}
	if UserIDs(nil) != nil {
		t.Error("UserIDs(nil) should be nil")
	}
}
