package ui

import "github.com/charmbracelet/lipgloss"

// Colors used throughout the TUI.
var (
	ColorRed      = lipgloss.Color("#E5484D")
	ColorGreen    = lipgloss.Color("#46A758")
	ColorYellow   = lipgloss.Color("#FFC53D")
	ColorPurple   = lipgloss.Color("#8E4EC6")
	ColorPink     = lipgloss.Color("#D6409F")
	ColorPeach    = lipgloss.Color("#F76B15")
	ColorGray     = lipgloss.Color("#666666")
	ColorDimGray  = lipgloss.Color("#444444")
	ColorWhite    = lipgloss.Color("#FFFFFF")
	GoalBarStart  = "#D6409F"
	GoalBarFinish = "#8E4EC6"
)

// Base styles reused by UI components.
var (
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPurple)

	GreetingStyle = lipgloss.NewStyle().
			Foreground(ColorPink)

	StatusStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorRed).
			Bold(true)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ColorRed)

	NoticeStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWhite)

	PanelTitleActiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorPurple)

	SelectedStyle = lipgloss.NewStyle().
			Foreground(ColorPurple).
			Bold(true)

	DoneStyle = lipgloss.NewStyle().
			Foreground(ColorGreen)

	DimStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	FooterKeyStyle = lipgloss.NewStyle().
			Foreground(ColorYellow).
			Bold(true)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorGray)

	DividerStyle = lipgloss.NewStyle().
			Foreground(ColorDimGray)

	StepCountStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPeach)

	SensorBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorGreen).
				Bold(true)

	SimulatedBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorYellow).
				Bold(true)

	QuoteStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(ColorPurple)
)
