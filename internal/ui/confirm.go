package ui

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmDangerousOperation displays a warning box and prompts the user to
// type "yes" to proceed. Returns true if the user confirmed.
func ConfirmDangerousOperation(title string, warnings []string, note string) bool {
	width := GetTerminalWidth()

	var lines []string

	titleLine := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true).
		Render(fmt.Sprintf("   ⚠  WARNING  ─  %s", title))
	lines = append(lines, "")
	lines = append(lines, titleLine)
	lines = append(lines, "")

	for _, warning := range warnings {
		bulletStyle := lipgloss.NewStyle().Foreground(TextColor)
		lines = append(lines, bulletStyle.Render("   • "+warning))
	}
	lines = append(lines, "")

	if note != "" {
		noteStyle := lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3)
		lines = append(lines, noteStyle.Render(note))
		lines = append(lines, "")
	}

	content := strings.Join(lines, "\n")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(content)

	fmt.Println(box)
	fmt.Println()

	promptStyle := lipgloss.NewStyle().
		Foreground(WarningColor).
		Bold(true)
	fmt.Print(promptStyle.Render("To proceed, type \"yes\" and press Enter: "))

	reader := bufio.NewReader(os.Stdin)
	input, err := reader.ReadString('\n')
	if err != nil {
		fmt.Println()
		return false
	}

	if strings.TrimSpace(strings.ToLower(input)) == "yes" {
		fmt.Println()
		return true
	}

	fmt.Println()
	cancelStyle := lipgloss.NewStyle().Foreground(MutedColor)
	fmt.Println(cancelStyle.Render("  Operation cancelled."))
	fmt.Println()
	return false
}

// ForcedCommitConfirmation is a pre-configured confirmation for commits that
// keep partial state on failure.
func ForcedCommitConfirmation(host string) bool {
	return ConfirmDangerousOperation(
		"FORCED COMMIT",
		[]string{
			fmt.Sprintf("Rejected commands on %s will NOT be rolled back", host),
			"The appliance may be left with a partially applied configuration",
			"Review the failure list carefully after the commit completes",
		},
		"A forced commit reports per-command failures instead of restoring the "+
			"pre-commit snapshot. Use it only when you intend to resolve rejected "+
			"commands by hand.",
	)
}

// CommitConfirmation is the standard confirmation shown before applying a
// candidate diff to a live appliance.
func CommitConfirmation(host string, commandCount int) bool {
	return ConfirmDangerousOperation(
		"LIVE CONFIGURATION CHANGE",
		[]string{
			fmt.Sprintf("About to apply %d command(s) to %s", commandCount, host),
			"The running configuration changes immediately",
			"A rejected command triggers an automatic rollback to the pre-commit state",
		},
		"",
	)
}
