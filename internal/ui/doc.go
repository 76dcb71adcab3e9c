// Package ui provides the pages and chrome of the vkterm dashboard.
//
// # Layout System
//
// Every screen has the same frame, no wider than the configured width:
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line): app title, page or peer name       │
//	├─────────────────────────────────────────────────────┤
//	│ ╭─────────────────────────────────────────────────╮ │
//	│ │ Title                                           │ │
//	│ │                                                 │ │
//	│ │ Page content (list rows or dialog history)      │ │
//	│ ╰─────────────────────────────────────────────────╯ │
//	├─────────────────────────────────────────────────────┤
//	│ Footer (1 line): key bindings or a flash message    │
//	└─────────────────────────────────────────────────────┘
//
// # Pages
//
// Pages implement View. The navigation layer in internal/app owns the current
// page, calls Activate on entry and Deactivate on exit, and routes every
// message through Update. A page reports navigation intent through
// Result.Action instead of switching pages itself.
//
// PeerList backs both the friends page and the conversation list. It runs
// two pollers: one for the list itself and one for the presence of the user
// peers on it.
//
// Dialog shows one conversation. It polls the history, looks the peer up once
// on entry and sends messages from its compose field.
//
// # Styles
//
// All styles are defined in styles.go using Lipgloss. The color palette uses:
//   - ColorPrimary (#7C3AED): Purple, used for the header and titles
//   - ColorSuccess (#10B981): Green, used for the selected row
//   - ColorOwn and ColorPeer: sender labels in the dialog
//   - ColorTextMuted: hints, previews and the header note
package ui
