package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Terminal palette indices, so output follows the user's color scheme
var (
	ColorSuccess = lipgloss.AdaptiveColor{Light: "2", Dark: "2"}
	ColorError   = lipgloss.AdaptiveColor{Light: "1", Dark: "1"}
	ColorPrimary = lipgloss.AdaptiveColor{Light: "5", Dark: "5"}
	ColorInfo    = lipgloss.AdaptiveColor{Light: "6", Dark: "6"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "8", Dark: "8"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "3", Dark: "3"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "4", Dark: "4"}
	ColorText    = lipgloss.AdaptiveColor{Light: "0", Dark: "7"}
)

var (
	// Message styles
	StyleSuccess lipgloss.Style
	StyleError   lipgloss.Style
	StylePrimary lipgloss.Style
	StyleInfo    lipgloss.Style
	StyleMuted   lipgloss.Style
	StyleWarning lipgloss.Style
	StyleAccent  lipgloss.Style
	StyleBold    lipgloss.Style
	StyleTitle   lipgloss.Style

	// Share key box, app card and tab bar
	StyleKey         lipgloss.Style
	StyleCard        lipgloss.Style
	StyleTabActive   lipgloss.Style
	StyleTabInactive lipgloss.Style

	// Table
	StyleTableHeader lipgloss.Style
	StyleTableRow    lipgloss.Style
	StyleTableRowAlt lipgloss.Style
	StyleTableBorder lipgloss.Style
)

const (
	IconSuccess = "✔"
	IconError   = "✘"
	IconRocket  = "🚀"
	IconInfo    = "ℹ"
	IconWarning = "⚠"
	IconImage   = "🖼"
	IconKey     = "🔑"
	IconLink    = "🔗"
)

func init() {
	SetTheme("auto")
}

// SetTheme rebuilds every style for "light", "dark" or "auto" (detected)
func SetTheme(theme string) {
	switch theme {
	case "light":
		lipgloss.SetHasDarkBackground(false)
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	}

	fg := func(c lipgloss.TerminalColor) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c)
	}
	boxed := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(ColorMuted)

	StyleSuccess = fg(ColorSuccess).Bold(true)
	StyleError = fg(ColorError).Bold(true)
	StylePrimary = fg(ColorPrimary).Bold(true)
	StyleInfo = fg(ColorInfo)
	StyleMuted = fg(ColorMuted)
	StyleWarning = fg(ColorWarning).Bold(true)
	StyleAccent = fg(ColorAccent)
	StyleBold = lipgloss.NewStyle().Bold(true)
	StyleTitle = StylePrimary.Underline(true)

	StyleKey = boxed.Foreground(ColorSuccess).Bold(true).Padding(0, 1)
	StyleCard = boxed.Padding(1, 2)
	StyleTabActive = fg(ColorText).Bold(true).Underline(true).Padding(0, 2)
	StyleTabInactive = StyleMuted.Padding(0, 2)

	StyleTableHeader = StylePrimary.Align(lipgloss.Left)
	StyleTableRow = fg(ColorText)
	StyleTableRowAlt = StyleTableRow.Faint(true)
	StyleTableBorder = StyleMuted
}

func badge(style lipgloss.Style, icon, msg string) string {
	return style.Render(icon + " " + msg)
}

func FormatSuccess(msg string) string { return badge(StyleSuccess, IconSuccess, msg) }
func FormatError(msg string) string   { return badge(StyleError, IconError, msg) }
func FormatInfo(msg string) string    { return badge(StyleInfo, IconInfo, msg) }
func FormatWarning(msg string) string { return badge(StyleWarning, IconWarning, msg) }

// FormatRocket announces a long-running action
func FormatRocket(msg string) string { return badge(StylePrimary, IconRocket, msg) }

// FormatKey renders a share key in a bordered box
func FormatKey(key string) string { return badge(StyleKey, IconKey, key) }

func FormatTitle(title string) string { return StyleTitle.Render(title) }
func FormatMuted(text string) string  { return StyleMuted.Render(text) }
