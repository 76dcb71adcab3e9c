package ui

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/notification"
	"github.com/zhubert/vkterm/internal/poller"
	"github.com/zhubert/vkterm/internal/vk"
)

// Deps are the collaborators every view model is built with.
type Deps struct {
	Client vk.API
	Config *config.Config

	// PollOptions are passed to every poller the view creates.
	PollOptions []poller.Option

	// Notify announces an incoming message. Defaults to notification.IncomingMessage.
	Notify func(peerName, text string) error

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) notify(peerName, text string) error {
	if d.Notify != nil {
		return d.Notify(peerName, text)
	}
	return notification.IncomingMessage(peerName, text)
}

func (d Deps) config() *config.Config {
	if d.Config != nil {
		return d.Config
	}
	return config.Default()
}

func (d Deps) pollOptions() []poller.Option {
	return append([]poller.Option{poller.WithTimeout(d.config().Timeout())}, d.PollOptions...)
}

// Action is what a view asks the navigation layer to do.
type Action int

const (
	ActionNone Action = iota
	ActionBack
	ActionSelect
)

// Result reports the effect of a message on a view.
type Result struct {
	Action   Action
	PeerID   int64  // set with ActionSelect
	PeerName string // display name known to the list, may be empty
	Err      error  // a non-fatal failure to show in the status line
}

// View is a page with its own pollers. The navigation layer calls Activate when
// the page is entered and Deactivate when it is left; nothing a deactivated view
// receives afterwards changes its state.
type View interface {
	Activate() tea.Cmd
	Deactivate()
	Update(msg tea.Msg) (Result, tea.Cmd)
	View() string
	Title() (title, note string)
	Bindings() []KeyBinding
	SetSize(width, height int)
}
