package app

import (
	"log/slog"

	tea "charm.land/bubbletea/v2"

	"github.com/zhubert/vkterm/internal/config"
	"github.com/zhubert/vkterm/internal/keys"
	"github.com/zhubert/vkterm/internal/logger"
	"github.com/zhubert/vkterm/internal/ui"
)

// Page is the screen the app is showing.
type Page int

const (
	PageMenu Page = iota
	PageFriends
	PageMessages
	PageDialog
)

// String returns a human-readable name for the page
func (p Page) String() string {
	switch p {
	case PageMenu:
		return "Menu"
	case PageFriends:
		return "Friends"
	case PageMessages:
		return "Messages"
	case PageDialog:
		return "Dialog"
	default:
		return "Unknown"
	}
}

// ViewState is the current page and, on PageDialog, the open peer.
type ViewState struct {
	Page   Page
	PeerID int64
}

// Model is the main Bubble Tea model. It owns the navigation state and the
// page being shown; pages never switch themselves.
type Model struct {
	deps    ui.Deps
	version string

	header *ui.Header
	footer *ui.Footer

	state    ViewState
	returnTo Page    // where esc leads from the dialog
	current  ui.View // nil on the menu

	width  int
	height int

	flashTick func() tea.Cmd

	log *slog.Logger
}

// New creates the app on the menu page.
func New(deps ui.Deps, version string) *Model {
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	m := &Model{
		deps:      deps,
		version:   version,
		header:    ui.NewHeader(),
		footer:    ui.NewFooter(),
		returnTo:  PageMenu,
		flashTick: ui.FlashTick,
		log:       logger.WithComponent("app"),
	}
	m.updateSizes()
	return m
}

// State returns the current navigation state.
func (m *Model) State() ViewState { return m.state }

// Current returns the active page view, or nil on the menu.
func (m *Model) Current() ui.View { return m.current }

// Init initializes the model
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles messages. Page transitions happen entirely inside one call:
// the old page is deactivated before the new one is built and activated.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()
		return m, nil

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() {
			return m, nil
		}
		if m.footer.HasFlash() {
			return m, m.flashTick()
		}
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == keys.CtrlC {
			return m, m.quit()
		}
		if m.current == nil {
			return m, m.handleMenuKey(msg.String())
		}
	}

	if m.current == nil {
		return m, nil
	}
	res, cmd := m.current.Update(msg)
	return m, tea.Batch(cmd, m.handleResult(res))
}

// handleResult applies what a page asked for.
func (m *Model) handleResult(res ui.Result) tea.Cmd {
	var flash tea.Cmd
	if res.Err != nil {
		flash = m.ShowFlashError(res.Err.Error())
	}

	switch res.Action {
	case ui.ActionBack:
		return tea.Batch(flash, m.back())
	case ui.ActionSelect:
		return tea.Batch(flash, m.openDialog(res.PeerID, res.PeerName))
	}
	return flash
}

// back leaves the current page. The dialog returns to the conversation list
// when it was opened from there and to the menu otherwise.
func (m *Model) back() tea.Cmd {
	switch m.state.Page {
	case PageDialog:
		return m.navigate(m.returnTo, 0, "")
	case PageFriends, PageMessages:
		return m.navigate(PageMenu, 0, "")
	}
	return nil
}

func (m *Model) openDialog(peerID int64, name string) tea.Cmd {
	if m.state.Page == PageMessages {
		m.returnTo = PageMessages
	} else {
		m.returnTo = PageMenu
	}
	return m.navigate(PageDialog, peerID, name)
}

// navigate tears down the current page and activates the next one.
func (m *Model) navigate(page Page, peerID int64, name string) tea.Cmd {
	from := m.state.Page
	if m.current != nil {
		m.current.Deactivate()
		m.current = nil
	}

	switch page {
	case PageFriends:
		m.current = ui.NewFriendsList(m.deps)
	case PageMessages:
		m.current = ui.NewConversationList(m.deps)
	case PageDialog:
		m.current = ui.NewDialog(m.deps, peerID, name)
	}
	if page != PageDialog {
		peerID = 0
	}
	m.state = ViewState{Page: page, PeerID: peerID}
	m.log.Debug("page changed", "from", from, "to", page, "peerID", peerID)

	m.footer.ClearFlash()
	if m.current == nil {
		m.footer.SetBindings(ui.MenuBindings)
		return nil
	}
	m.footer.SetBindings(m.current.Bindings())
	m.updateSizes()
	return m.current.Activate()
}

// quit deactivates the current page and ends the program.
func (m *Model) quit() tea.Cmd {
	if m.current != nil {
		m.current.Deactivate()
		m.current = nil
	}
	m.log.Info("quitting", "page", m.state.Page)
	return tea.Quit
}
