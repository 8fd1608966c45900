package cli

import (
	"fmt"
	"strings"
	"time"

	"hljsgen/internal/core/ports"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3B82F6")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#10B981")).
			Bold(true)

	staleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F87171")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#64748B")).
			Italic(true)
)

func formatGenerateSummary(res ports.GenerateResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("highlight.js languages"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s %d languages (%d bundled, %d external)\n",
		successStyle.Render("✓"), res.Languages, res.Scanned, res.External)
	fmt.Fprintf(&b, "  %s %d files written\n", successStyle.Render("✓"), len(res.Written))
	b.WriteString("  ")
	b.WriteString(statusStyle.Render(fmt.Sprintf("run %s in %s", res.RunID, res.Duration.Round(time.Millisecond))))
	return b.String()
}

func formatCheckSummary(res ports.CheckResult) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("highlight.js languages"))
	b.WriteString("\n")
	if res.Fresh() {
		fmt.Fprintf(&b, "  %s %d generated files are up to date", successStyle.Render("✓"), res.Checked)
		return b.String()
	}
	fmt.Fprintf(&b, "  %s %d of %d generated files are stale:", staleStyle.Render("✗"), len(res.Stale), res.Checked)
	for _, path := range res.Stale {
		b.WriteString("\n    ")
		b.WriteString(path)
	}
	return b.String()
}
