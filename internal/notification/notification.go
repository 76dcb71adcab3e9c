// Package notification provides cross-platform desktop notifications.
// It uses the beeep library to send notifications on macOS, Linux, and Windows.
package notification

import (
	"github.com/charmbracelet/x/ansi"
	"github.com/gen2brain/beeep"

	"github.com/zhubert/vkterm/internal/logger"
)

// AppName is the title of every notification.
const AppName = "vkterm"

// previewWidth caps the message preview shown in a notification.
const previewWidth = 80

// NotifyFunc matches beeep.Notify.
type NotifyFunc func(title, message string, icon any) error

var notifier NotifyFunc = beeep.Notify

// SetNotifier replaces the notification backend. Used by tests.
func SetNotifier(fn NotifyFunc) {
	notifier = fn
}

// ResetNotifier restores the beeep backend.
func ResetNotifier() {
	notifier = beeep.Notify
}

// Send sends a desktop notification with the given title and message.
// On macOS, it uses terminal-notifier or AppleScript.
// On Linux, it uses D-Bus or notify-send.
// On Windows, it uses the Windows Runtime COM API.
func Send(title, message string) error {
	log := logger.WithComponent("notification")
	log.Debug("sending notification", "title", title)
	// Empty icon: beeep picks the platform default
	err := notifier(title, message, "")
	if err != nil {
		log.Warn("failed to send notification", "error", err)
	}
	return err
}

// IncomingMessage announces a new message from a peer.
func IncomingMessage(peerName, text string) error {
	if text == "" {
		text = "[attachment]"
	}
	return Send(AppName, peerName+": "+ansi.Truncate(text, previewWidth, "…"))
}
