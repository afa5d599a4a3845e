// Package styles provides shared lipgloss styles for CLI and TUI components.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Exported color aliases for convenience.
var (
	ColorPrimary    lipgloss.Color
	ColorSecondary  lipgloss.Color
	ColorForeground lipgloss.Color
	ColorMuted      lipgloss.Color
	ColorBackground lipgloss.Color
	ColorSurface    lipgloss.Color
	ColorSuccess    lipgloss.Color
	ColorWarning    lipgloss.Color
	ColorError      lipgloss.Color
)

// Style exports.
var (
	// CLI styles.
	DividerStyle lipgloss.Style

	// CLI text styles for plain command output.
	TextPrimaryBoldStyle    lipgloss.Style
	TextForegroundBoldStyle lipgloss.Style
	TextMutedStyle          lipgloss.Style
	TextSuccessStyle        lipgloss.Style
	TextWarningStyle        lipgloss.Style
	TextErrorStyle          lipgloss.Style

	// TUI shared styles.
	SelectedBorderStyle lipgloss.Style
	ModalStyle          lipgloss.Style
	ModalTitleStyle     lipgloss.Style
	ModalHelpStyle      lipgloss.Style

	PaneFocusedStyle lipgloss.Style
	PaneBlurredStyle lipgloss.Style
	StatusBarStyle   lipgloss.Style
	StatusKeyStyle   lipgloss.Style

	// Chat transcript styles.
	ChatUserStyle      lipgloss.Style
	ChatAssistantStyle lipgloss.Style
	ChatPendingStyle   lipgloss.Style
	ChatErrorStyle     lipgloss.Style

	// Editor styles.
	EditorLineNumberStyle lipgloss.Style
	EditorHighlightStyle  lipgloss.Style

	// Review overlay styles.
	ReviewAcceptedStyle lipgloss.Style
	ReviewRejectedStyle lipgloss.Style
	ReviewPendingStyle  lipgloss.Style
	DiffAddStyle        lipgloss.Style
	DiffDelStyle        lipgloss.Style
)

// SetTheme sets the active palette and rebuilds all global styles.
func SetTheme(p Palette) {
	CurrentPalette = p

	ColorPrimary = p.Primary
	ColorSecondary = p.Secondary
	ColorForeground = p.Foreground
	ColorMuted = p.Muted
	ColorBackground = p.Background
	ColorSurface = p.Surface
	ColorSuccess = p.Success
	ColorWarning = p.Warning
	ColorError = p.Error

	DividerStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)

	TextPrimaryBoldStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	TextForegroundBoldStyle = lipgloss.NewStyle().
		Foreground(ColorForeground).
		Bold(true)
	TextMutedStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	TextSuccessStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	TextWarningStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	TextErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	SelectedBorderStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary)

	ModalStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary).
		Padding(1, 2)
	ModalTitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorForeground)
	ModalHelpStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		MarginTop(1)

	PaneFocusedStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorPrimary)
	PaneBlurredStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorSurface)
	StatusBarStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	StatusKeyStyle = lipgloss.NewStyle().
		Foreground(ColorSecondary)

	ChatUserStyle = lipgloss.NewStyle().
		Foreground(ColorPrimary).
		Bold(true)
	ChatAssistantStyle = lipgloss.NewStyle().
		Foreground(ColorForeground)
	ChatPendingStyle = lipgloss.NewStyle().
		Foreground(ColorMuted).
		Italic(true)
	ChatErrorStyle = lipgloss.NewStyle().
		Foreground(ColorError)

	EditorLineNumberStyle = lipgloss.NewStyle().
		Foreground(ColorMuted)
	EditorHighlightStyle = lipgloss.NewStyle().
		Background(ColorSurface).
		Foreground(ColorForeground)

	ReviewAcceptedStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	ReviewRejectedStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Strikethrough(true)
	ReviewPendingStyle = lipgloss.NewStyle().
		Foreground(ColorWarning)
	DiffAddStyle = lipgloss.NewStyle().
		Foreground(ColorSuccess)
	DiffDelStyle = lipgloss.NewStyle().
		Foreground(ColorError).
		Strikethrough(true)
}

// nolint:gochecknoinits // bootstrap default theme before any style is accessed.
func init() {
	SetTheme(themes[DefaultTheme])
}
