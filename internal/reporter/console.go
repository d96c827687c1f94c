package reporter

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/vuon9/workdiff/internal/models"
	"github.com/vuon9/workdiff/internal/runner"
)

// ConsoleReporter renders a run outcome as a styled table on a writer. The
// core never formats anything; all presentation lives here.
type ConsoleReporter struct {
	out io.Writer

	headerStyle  lipgloss.Style
	labelStyle   lipgloss.Style
	addedStyle   lipgloss.Style
	removedStyle lipgloss.Style
	sameStyle    lipgloss.Style
	missingStyle lipgloss.Style
	pathStyle    lipgloss.Style
}

// NewConsoleReporter creates a reporter writing to out.
func NewConsoleReporter(out io.Writer) *ConsoleReporter {
	return &ConsoleReporter{
		out:          out,
		headerStyle:  lipgloss.NewStyle().Bold(true),
		labelStyle:   lipgloss.NewStyle().Bold(true).Width(20),
		addedStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		removedStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		sameStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		missingStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		pathStyle:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Report prints the sorted result list plus run metadata.
func (r *ConsoleReporter) Report(outcome *runner.RunOutcome) {
	fmt.Fprintln(r.out, r.headerStyle.Render(
		fmt.Sprintf("%s (group %q, project %q)", outcome.ReferencePath, outcome.Group.Name, outcome.Project.Name)))

	if len(outcome.Results) == 0 {
		fmt.Fprintln(r.out, r.sameStyle.Render("  no comparison targets"))
		return
	}

	for _, result := range outcome.Results {
		fmt.Fprintln(r.out, r.renderRow(result))
	}
}

func (r *ConsoleReporter) renderRow(result models.ComparisonResult) string {
	label := r.labelStyle.Render(result.Label)
	path := r.pathStyle.Render(result.ResolvedTargetPath)

	switch {
	case !result.Exists:
		return fmt.Sprintf("  %s %s  %s", label, r.missingStyle.Render("missing"), path)
	case result.TotalChangedLines == 0:
		return fmt.Sprintf("  %s %s  %s", label, r.sameStyle.Render("identical"), path)
	default:
		counts := fmt.Sprintf("%s %s",
			r.addedStyle.Render(fmt.Sprintf("+%d", result.Counts.Added)),
			r.removedStyle.Render(fmt.Sprintf("-%d", result.Counts.Removed)))
		return fmt.Sprintf("  %s %s  %s", label, counts, path)
	}
}
