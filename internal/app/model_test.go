package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/ui"
	"github.com/zhubert/vkterm/internal/vk"
)

func TestPage_String(t *testing.T) {
	tests := []struct {
		page Page
		want string
	}{
		{PageMenu, "Menu"},
		{PageFriends, "Friends"},
		{PageMessages, "Messages"},
		{PageDialog, "Dialog"},
		{Page(99), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.page.String(); got != tt.want {
			t.Errorf("Page(%d).String() = %q, want %q", tt.page, got, tt.want)
		}
	}
}

func TestNew_StartsOnMenu(t *testing.T) {
	m, _, _ := testModel()

	if m.State() != (ViewState{Page: PageMenu}) {
		t.Errorf("State() = %+v, want menu", m.State())
	}
	if m.Current() != nil {
		t.Error("menu should have no page view")
	}
	if m.Init() != nil {
		t.Error("Init() should not schedule work")
	}

	view := stripANSI(m.RenderToString())
	for _, want := range []string{"vkterm", "Friends", "Messages", "Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("menu should contain %q, got:\n%s", want, view)
		}
	}
}

func TestRenderToString_BeforeWindowSize(t *testing.T) {
	m := New(ui.Deps{Client: vk.NewMockClient()}, "test")
	if got := m.RenderToString(); got != ui.LoadingText {
		t.Errorf("RenderToString() = %q, want %q", got, ui.LoadingText)
	}
}

func TestNavigation_MenuKeys(t *testing.T) {
	tests := []struct {
		key      string
		wantPage Page
		wantQuit bool
	}{
		{"f", PageFriends, false},
		{"m", PageMessages, false},
		{"q", PageMenu, true},
		{"esc", PageMenu, true},
		{"x", PageMenu, false},
		{"enter", PageMenu, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			m, _, _ := testModel()
			msgs := press(m, tt.key)

			if m.State().Page != tt.wantPage {
				t.Errorf("page = %v, want %v", m.State().Page, tt.wantPage)
			}
			if quitRequested(msgs) != tt.wantQuit {
				t.Errorf("quit = %v, want %v", quitRequested(msgs), tt.wantQuit)
			}
		})
	}
}

func TestNavigation_FriendsRoundTrip(t *testing.T) {
	m, client, _ := testModel()

	press(m, "f")
	list, ok := m.Current().(*ui.PeerList)
	if !ok {
		t.Fatalf("Current() = %T, want *ui.PeerList", m.Current())
	}
	if list.Len() != 2 {
		t.Errorf("friends Len() = %d, want 2", list.Len())
	}
	if client.Calls(vk.MethodFriends) != 1 {
		t.Errorf("friends calls = %d, want 1", client.Calls(vk.MethodFriends))
	}

	press(m, "esc")
	if m.State() != (ViewState{Page: PageMenu}) || m.Current() != nil {
		t.Errorf("esc from friends should return to the menu, got %+v", m.State())
	}
}

func TestNavigation_MessagesDialogRoundTrip(t *testing.T) {
	m, _, _ := testModel()

	press(m, "m")
	press(m, "enter")

	if m.State() != (ViewState{Page: PageDialog, PeerID: 2}) {
		t.Fatalf("State() = %+v, want dialog with peer 2", m.State())
	}
	dialog, ok := m.Current().(*ui.Dialog)
	if !ok {
		t.Fatalf("Current() = %T, want *ui.Dialog", m.Current())
	}
	if !dialog.Loaded() {
		t.Error("dialog history should be loaded on entry")
	}
	if view := stripANSI(m.RenderToString()); !strings.Contains(view, "Boris Ivanov") {
		t.Errorf("header should show the peer, got:\n%s", view)
	}

	press(m, "esc")
	if m.State() != (ViewState{Page: PageMessages}) {
		t.Errorf("esc from a dialog opened from messages = %+v, want messages", m.State())
	}

	press(m, "esc")
	if m.State() != (ViewState{Page: PageMenu}) {
		t.Errorf("esc from messages = %+v, want menu", m.State())
	}
}

func TestNavigation_DialogFromFriendsReturnsToMenu(t *testing.T) {
	m, _, _ := testModel()

	press(m, "m")
	press(m, "esc")
	press(m, "f")
	press(m, "down")
	press(m, "enter")

	if m.State() != (ViewState{Page: PageDialog, PeerID: 2}) {
		t.Fatalf("State() = %+v, want dialog with peer 2", m.State())
	}

	press(m, "esc")
	if m.State() != (ViewState{Page: PageMenu}) {
		t.Errorf("esc from a dialog opened from friends = %+v, want menu", m.State())
	}
}

func TestNavigation_LeavingPageStopsPolling(t *testing.T) {
	m, client, ticker := testModel()

	press(m, "m")
	press(m, "enter")
	press(m, "esc")
	press(m, "esc")

	calls := client.Calls(vk.MethodHistory) + client.Calls(vk.MethodConversations) + client.Calls(vk.MethodUsers)
	for _, msg := range ticker.pending {
		_, cmd := m.Update(msg)
		pump(m, cmd)
	}
	after := client.Calls(vk.MethodHistory) + client.Calls(vk.MethodConversations) + client.Calls(vk.MethodUsers)
	if after != calls {
		t.Errorf("ticks of torn down pages made %d requests", after-calls)
	}
}

func TestNavigation_CtrlCQuitsFromAnyPage(t *testing.T) {
	m, client, ticker := testModel()

	press(m, "m")
	press(m, "enter")
	msgs := press(m, "ctrl+c")

	if !quitRequested(msgs) {
		t.Fatal("ctrl+c should quit")
	}
	if m.Current() != nil {
		t.Error("quitting should deactivate the page")
	}

	calls := client.Calls(vk.MethodHistory)
	for _, msg := range ticker.pending {
		m.Update(msg)
	}
	if client.Calls(vk.MethodHistory) != calls {
		t.Error("the dialog should stop polling on quit")
	}
}

func TestNavigation_QInDialogIsText(t *testing.T) {
	m, _, _ := testModel()

	press(m, "m")
	press(m, "enter")
	m.Update(keyPress("q"))

	if m.State().Page != PageDialog {
		t.Errorf("q in a dialog should not navigate, page = %v", m.State().Page)
	}
	if got := m.Current().(*ui.Dialog).Input(); got != "q" {
		t.Errorf("Input() = %q, want %q", got, "q")
	}
}

func TestSendFromDialog(t *testing.T) {
	m, client, _ := testModel()

	press(m, "m")
	press(m, "enter")
	dialog := m.Current().(*ui.Dialog)
	dialog.SetInput("  hello  ")
	press(m, "enter")

	sent := client.Sent()
	if len(sent) != 1 || sent[0].Text != "hello" || sent[0].PeerID != 2 {
		t.Fatalf("Sent() = %+v, want one trimmed message to peer 2", sent)
	}
	if dialog.Input() != "" {
		t.Errorf("Input() = %q, want cleared after a successful send", dialog.Input())
	}
	if m.footer.HasFlash() {
		t.Error("a successful send should not flash")
	}
}

func TestErrorsShowFlash(t *testing.T) {
	m, client, _ := testModel()
	client.FailWith(vk.MethodConversations, errors.New("network down"))

	press(m, "m")

	if m.State().Page != PageMessages {
		t.Errorf("a failed fetch should not navigate, page = %v", m.State().Page)
	}
	if !m.footer.HasFlash() {
		t.Fatal("a failed fetch should show a flash")
	}
	if view := stripANSI(m.RenderToString()); !strings.Contains(view, "network down") {
		t.Errorf("footer should show the error, got:\n%s", view)
	}

	press(m, "esc")
	if m.footer.HasFlash() {
		t.Error("changing pages should clear the flash")
	}
}

func TestFlashTick(t *testing.T) {
	m, _, _ := testModel()

	m.footer.SetFlash("still here", ui.FlashInfo)
	m.Update(ui.FlashTickMsg(time.Now()))
	if !m.footer.HasFlash() {
		t.Error("an unexpired flash should stay")
	}

	m.footer.SetFlashWithDuration("gone", ui.FlashInfo, -time.Second)
	m.Update(ui.FlashTickMsg(time.Now()))
	if m.footer.HasFlash() {
		t.Error("an expired flash should be cleared")
	}
}

func TestRender_WidthCappedByConfigAndTerminal(t *testing.T) {
	tests := []struct {
		name     string
		cfgWidth int
		termW    int
		want     int
	}{
		{"config narrower", 60, 120, 60},
		{"terminal narrower", 120, 50, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Width = tt.cfgWidth
			m := New(ui.Deps{Client: testClient(), Config: cfg}, "test")
			m.Update(tea.WindowSizeMsg{Width: tt.termW, Height: 30})

			lines := strings.Split(m.RenderToString(), "\n")
			if got := ansi.StringWidth(lines[0]); got != tt.want {
				t.Errorf("header width = %d, want %d", got, tt.want)
			}
			for i, line := range lines {
				if w := ansi.StringWidth(line); w > tt.want {
					t.Errorf("line %d is %d wide, want <= %d", i, w, tt.want)
				}
			}
		})
	}
}
