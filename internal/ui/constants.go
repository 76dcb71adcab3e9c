package ui

import "time"

// Layout constants
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// TitleHeight is the height of a panel title plus the blank line under it
	TitleHeight = 2

	// NameColumnWidth is the widest the name and presence column of a list row gets
	NameColumnWidth = 40

	// PreviewReserve is the width kept for the last message preview before the name column shrinks
	PreviewReserve = 40

	// HistoryHeight is the number of lines of the dialog history viewport
	HistoryHeight = 15

	// InputCharLimit caps the compose field, matching the API's message length limit
	InputCharLimit = 4096
)

// Placeholders
const (
	// AttachmentPlaceholder stands in for messages without text (stickers, photos, forwards)
	AttachmentPlaceholder = "[attachment]"

	// LoadingText is shown until the first result of a list or history arrives
	LoadingText = "Loading..."

	// YouLabel prefixes the account owner's own messages
	YouLabel = "You"
)

// DefaultFlashDuration is how long a flash message stays in the footer
const DefaultFlashDuration = 3 * time.Second
