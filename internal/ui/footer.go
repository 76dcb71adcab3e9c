package ui

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
)

// KeyBinding represents a keyboard shortcut
type KeyBinding struct {
	Key  string
	Desc string
}

// FlashType selects the icon and color of a flash message
type FlashType int

const (
	FlashError FlashType = iota
	FlashWarning
	FlashInfo
	FlashSuccess
)

// FlashMessage is a short-lived status line that replaces the key bindings
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has outlived its duration
func (f *FlashMessage) IsExpired() bool {
	return time.Since(f.CreatedAt) > f.Duration
}

// FlashTickMsg asks the owner to clear an expired flash
type FlashTickMsg time.Time

// FlashTick returns a command that fires once the default flash duration has passed
func FlashTick() tea.Cmd {
	return tea.Tick(DefaultFlashDuration+100*time.Millisecond, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	bindings     []KeyBinding
	flashMessage *FlashMessage
}

// MenuBindings are shown on the main menu.
var MenuBindings = []KeyBinding{
	{Key: "f", Desc: "friends"},
	{Key: "m", Desc: "messages"},
	{Key: "q", Desc: "quit"},
}

// ListBindings are shown on the friends and conversation lists.
var ListBindings = []KeyBinding{
	{Key: "↑/↓", Desc: "navigate"},
	{Key: "enter", Desc: "open"},
	{Key: "esc", Desc: "back"},
}

// DialogBindings are shown while a conversation is open.
var DialogBindings = []KeyBinding{
	{Key: "enter", Desc: "send"},
	{Key: "pgup/dn", Desc: "scroll"},
	{Key: "esc", Desc: "back"},
}

// NewFooter creates a new footer
func NewFooter() *Footer {
	return &Footer{bindings: MenuBindings}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
}

// SetBindings allows custom keybindings
func (f *Footer) SetBindings(bindings []KeyBinding) {
	f.bindings = bindings
}

// SetFlash shows a flash message for DefaultFlashDuration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a flash message for the given duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes the flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is showing
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired clears an expired flash and reports whether it did
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// View renders the footer. A flash message takes priority over the key bindings.
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return FooterStyle.Width(f.width).Render(renderFlash(f.flashMessage))
	}

	parts := make([]string, 0, len(f.bindings))
	for _, b := range f.bindings {
		key := FooterKeyStyle.Render(b.Key)
		desc := FooterDescStyle.Render(": " + b.Desc)
		parts = append(parts, key+desc)
	}
	content := strings.Join(parts, "  "+footerSeparator+"  ")

	return FooterStyle.Width(f.width).Render(content)
}

func renderFlash(msg *FlashMessage) string {
	switch msg.Type {
	case FlashWarning:
		return FlashWarningStyle.Render("⚠ " + msg.Text)
	case FlashInfo:
		return FlashInfoStyle.Render("ℹ " + msg.Text)
	case FlashSuccess:
		return FlashSuccessStyle.Render("✓ " + msg.Text)
	default:
		return FlashErrorStyle.Render("✕ " + msg.Text)
	}
}
