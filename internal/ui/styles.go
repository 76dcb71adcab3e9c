package ui

import "charm.land/lipgloss/v2"

// Palette hex values, kept as strings so the header can interpolate between them.
const (
	hexPrimary   = "#7C3AED"
	hexBg        = "#1F2937"
	hexText      = "#F9FAFB"
	hexTextMuted = "#B0B8C4"
)

// Color palette - Purple + Cyan/Teal theme
var (
	ColorPrimary   = lipgloss.Color(hexPrimary) // Purple
	ColorSecondary = lipgloss.Color("#06B6D4")  // Cyan
	ColorBorder    = lipgloss.Color("#374151")  // Dark gray
	ColorBg        = lipgloss.Color(hexBg)      // Dark background
	ColorText      = lipgloss.Color(hexText)    // Light text
	ColorTextMuted = lipgloss.Color(hexTextMuted)
	ColorOwn       = lipgloss.Color("#A78BFA") // Light purple for own messages
	ColorPeer      = lipgloss.Color("#22D3EE") // Bright cyan for peer messages
	ColorWarning   = lipgloss.Color("#F59E0B") // Amber
	ColorInfo      = lipgloss.Color("#06B6D4") // Cyan
	ColorError     = lipgloss.Color("#EF4444") // Red
	ColorSuccess   = lipgloss.Color("#10B981") // Green, also the selection highlight
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	footerSeparator = lipgloss.NewStyle().Foreground(ColorBorder).Render("|")
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	PanelHintStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)
)

// List styles
var (
	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText)

	RowSelectedStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)
)

// Dialog styles
var (
	MessageOwnStyle = lipgloss.NewStyle().
			Foreground(ColorOwn).
			Bold(true)

	MessagePeerStyle = lipgloss.NewStyle().
				Foreground(ColorPeer).
				Bold(true)

	MessageTextStyle = lipgloss.NewStyle().
				Foreground(ColorText)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// Status styles
var (
	StatusLoadingStyle = lipgloss.NewStyle().
				Foreground(ColorSecondary).
				Italic(true)
)

// Flash message styles
var (
	FlashErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	FlashWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning).
				Bold(true)

	FlashInfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	FlashSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)
)
