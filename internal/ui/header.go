package ui

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

const appTitle = " vkterm"

// Header represents the top header bar
type Header struct {
	width int
	title string // page or peer name
	note  string // secondary text rendered muted, e.g. a presence label
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetTitle sets the text shown on the right side of the bar
func (h *Header) SetTitle(title string) {
	h.title = title
}

// SetNote sets the muted text shown after the title
func (h *Header) SetNote(note string) {
	h.note = note
}

// View renders the header
func (h *Header) View() string {
	var rightText string
	if h.title != "" {
		rightText = h.title
		if h.note != "" {
			rightText += " (" + h.note + ")"
		}
		rightText += " "
	}

	paddingLen := max(0, h.width-runewidth.StringWidth(appTitle)-runewidth.StringWidth(rightText))
	fullContent := appTitle + strings.Repeat(" ", paddingLen) + rightText

	return h.renderGradient(fullContent)
}

// parseHexColor parses a hex color string (e.g., "#7C3AED") into RGB components
func parseHexColor(hex string) (r, g, b int) {
	if len(hex) == 7 && hex[0] == '#' {
		fmt.Sscanf(hex[1:], "%02x%02x%02x", &r, &g, &b)
	}
	return
}

// renderGradient renders content on a background fading from the primary color to the
// background color. The note portion is muted.
func (h *Header) renderGradient(content string) string {
	if len(content) == 0 {
		return ""
	}

	startR, startG, startB := parseHexColor(hexPrimary)
	endR, endG, endB := parseHexColor(hexBg)
	textColor := lipgloss.Color(hexText)
	mutedColor := lipgloss.Color(hexTextMuted)

	runes := []rune(content)
	noteStart := -1
	if h.note != "" {
		if idx := strings.LastIndex(content, "("+h.note+")"); idx >= 0 {
			noteStart = len([]rune(content[:idx]))
		}
	}

	width := len(runes)
	titleLen := len([]rune(appTitle))
	var result strings.Builder

	for i, r := range runes {
		t := float64(i) / float64(width)

		cr := int(float64(startR)*(1-t) + float64(endR)*t)
		cg := int(float64(startG)*(1-t) + float64(endG)*t)
		cb := int(float64(startB)*(1-t) + float64(endB)*t)

		style := lipgloss.NewStyle().
			Background(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", cr, cg, cb))).
			Bold(i < titleLen)

		if noteStart >= 0 && i >= noteStart {
			style = style.Foreground(mutedColor)
		} else {
			style = style.Foreground(textColor)
		}

		result.WriteString(style.Render(string(r)))
	}

	return result.String()
}
