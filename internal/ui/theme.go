package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"become/internal/engine"
)

// Shared CLI and TUI styles.

const (
	IconIdentity = "🧭"
	IconQuest    = "🗡️"
	IconSparkle  = "✨"
	IconPlus     = "➕"
	IconDone     = "✅"
	IconFailed   = "❌"
	IconForge    = "🔥"
	IconTrophy   = "🏆"
	IconBolt     = "⚡"
	IconInfo     = "ℹ️"
	IconWarn     = "⚠️"
	IconError    = "🧨"
	IconScroll   = "📜"
	IconCalendar = "📅"
	IconJournal  = "📓"
)

var (
	cPrimary  = lipgloss.Color("63")  // blue
	cAccent   = lipgloss.Color("205") // magenta
	cGood     = lipgloss.Color("42")  // green
	cWarn     = lipgloss.Color("214") // orange
	cBad      = lipgloss.Color("196") // red
	cMuted    = lipgloss.Color("244") // gray
	cGold     = lipgloss.Color("220") // gold
	cBronze   = lipgloss.Color("130")
	cSilver   = lipgloss.Color("250")
	cPlatinum = lipgloss.Color("51")
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Forge = lipgloss.NewStyle().Bold(true).Foreground(cAccent)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cMuted).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeLevelUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("LEVEL UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func StatusText(status engine.QuestStatus) string {
	switch status {
	case engine.QuestCompleted:
		return Good.Render("completed")
	case engine.QuestFailed:
		return Bad.Render("failed")
	case engine.QuestForged:
		return Forge.Render("forged")
	case engine.QuestPending:
		return Warn.Render("pending")
	default:
		return Muted.Render(string(status))
	}
}

func StatusIcon(status engine.QuestStatus) string {
	switch status {
	case engine.QuestCompleted:
		return IconDone
	case engine.QuestFailed:
		return IconFailed
	case engine.QuestForged:
		return IconForge
	default:
		return IconQuest
	}
}

func TierText(t engine.Tier) string {
	style := Muted
	switch t {
	case engine.TierBronze:
		style = lipgloss.NewStyle().Bold(true).Foreground(cBronze)
	case engine.TierSilver:
		style = lipgloss.NewStyle().Bold(true).Foreground(cSilver)
	case engine.TierGold:
		style = Gold
	case engine.TierPlatinum:
		style = lipgloss.NewStyle().Bold(true).Foreground(cPlatinum)
	}
	return style.Render(string(t))
}

// StreakText renders a streak count with its milestone tier label.
func StreakText(count int) string {
	switch engine.TierForStreak(count) {
	case engine.StreakTierLegend:
		return fmt.Sprintf("%d %s", count, Gold.Render("legend"))
	case engine.StreakTierExcellent:
		return fmt.Sprintf("%d %s", count, Forge.Render("excellent"))
	case engine.StreakTierOnFire:
		return fmt.Sprintf("%d %s", count, Warn.Render("on fire"))
	case engine.StreakTierWarming:
		return fmt.Sprintf("%d %s", count, Good.Render("warming up"))
	default:
		return fmt.Sprintf("%d", count)
	}
}

// ProgressBar renders value/total as a fixed-width ASCII bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := value * width / total
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

// LevelBar shows progress through the current level for an XP total.
func LevelBar(xp int, width int) string {
	return ProgressBar(engine.XPIntoLevel(xp), engine.XPPerLevel, width)
}

// LogIcon marks a journal entry by its type.
func LogIcon(t engine.LogType) string {
	switch t {
	case engine.LogVictory:
		return IconTrophy
	case engine.LogThought:
		return IconSparkle
	default:
		return IconScroll
	}
}
