// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/JeanZorzetti/orion-analytics/internal/model"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#5FAFFF")
	// SuccessColor indicates healthy figures.
	SuccessColor = lipgloss.Color("#4ECDC4")
	// WarningColor indicates figures that deserve attention.
	WarningColor = lipgloss.Color("#FFE66D")
	// ErrorColor indicates critical figures.
	ErrorColor = lipgloss.Color("#FF6B6B")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SubtitleStyle is used for secondary headings.
	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			MarginBottom(1)

	// SuccessStyle formats healthy values.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats values that deserve attention.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats critical values.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// TableHeaderStyle is used for table headers.
	TableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				BorderStyle(lipgloss.NormalBorder()).
				BorderBottom(true).
				BorderForeground(lipgloss.Color("#333"))

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)
)

// UrgencyStyle returns the style matching an urgency level.
func UrgencyStyle(u model.Urgency) lipgloss.Style {
	switch u {
	case model.UrgencyCritical:
		return ErrorStyle
	case model.UrgencyHigh:
		return WarningStyle
	case model.UrgencyMedium:
		return lipgloss.NewStyle().Foreground(PrimaryColor)
	default:
		return SuccessStyle
	}
}

// CategoryStyle returns the style matching a risk category.
func CategoryStyle(c model.RiskCategory) lipgloss.Style {
	switch c {
	case model.RiskExcellent, model.RiskGood:
		return SuccessStyle
	case model.RiskRegular:
		return WarningStyle
	default:
		return ErrorStyle
	}
}
