package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/odrik/gauntlet/pkg/rating"
)

// TerminalReporter renders evaluation results with colors and a result bar.
type TerminalReporter struct {
	out     io.Writer
	noColor bool

	// Styles
	winStyle    lipgloss.Style
	lossStyle   lipgloss.Style
	drawStyle   lipgloss.Style
	headerStyle lipgloss.Style
	dimStyle    lipgloss.Style
	boldStyle   lipgloss.Style
	eloStyle    lipgloss.Style
}

// NewTerminalReporter creates a reporter writing to stdout.
func NewTerminalReporter() *TerminalReporter {
	return NewTerminalReporterWithOutput(os.Stdout)
}

// NewTerminalReporterWithOutput creates a reporter with custom output.
func NewTerminalReporterWithOutput(out io.Writer) *TerminalReporter {
	return &TerminalReporter{
		out: out,

		winStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#008000", Dark: "#55FF55"}),

		lossStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#D00000", Dark: "#FF5555"}),

		drawStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),

		headerStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#333333", Dark: "#FFFFFF"}).
			Bold(true),

		dimStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#666666", Dark: "#888888"}),

		boldStyle: lipgloss.NewStyle().Bold(true),

		eloStyle: lipgloss.NewStyle().
			Foreground(lipgloss.AdaptiveColor{Light: "#0066CC", Dark: "#5599FF"}).
			Bold(true),
	}
}

// SetNoColor disables color output.
func (r *TerminalReporter) SetNoColor(noColor bool) {
	r.noColor = noColor
}

// RenderResult renders a full evaluation result.
func (r *TerminalReporter) RenderResult(eval *Evaluation, result *rating.Statistics, summary *BatchSummary) error {
	if eval == nil {
		return fmt.Errorf("evaluation is nil")
	}
	if result == nil {
		return fmt.Errorf("statistics are nil")
	}

	r.renderHeader(eval, result)
	r.renderOutcomeBar(result)
	r.renderStatistics(result)
	if summary != nil {
		r.renderDispersion(summary)
	}

	return nil
}

func (r *TerminalReporter) renderHeader(eval *Evaluation, result *rating.Statistics) {
	width := r.terminalWidth()
	title := fmt.Sprintf("Evaluation %s", eval.ID)
	fmt.Fprintln(r.out, r.style(r.headerStyle, title))
	fmt.Fprintln(r.out, r.style(r.dimStyle, strings.Repeat("─", min(width-2, 70))))
	fmt.Fprintln(r.out, r.style(r.dimStyle, fmt.Sprintf(
		"%d games, %d workers × %d rounds, tc %s",
		result.Games, eval.Workers, eval.RoundsPerWorker, eval.TimeControl)))
	fmt.Fprintln(r.out)
}

func (r *TerminalReporter) renderOutcomeBar(result *rating.Statistics) {
	width := r.barWidth()
	games := result.Games
	if games == 0 {
		return
	}

	winCells := width * result.Wins / games
	lossCells := width * result.Losses / games
	drawCells := width - winCells - lossCells

	bar := r.style(r.winStyle, strings.Repeat("█", winCells)) +
		r.style(r.drawStyle, strings.Repeat("█", drawCells)) +
		r.style(r.lossStyle, strings.Repeat("█", lossCells))

	fmt.Fprintf(r.out, "%s\n", bar)
	fmt.Fprintf(r.out, "%s  %s  %s\n\n",
		r.style(r.winStyle, fmt.Sprintf("W %d", result.Wins)),
		r.style(r.drawStyle, fmt.Sprintf("D %d", result.Draws)),
		r.style(r.lossStyle, fmt.Sprintf("L %d", result.Losses)),
	)
}

func (r *TerminalReporter) renderStatistics(result *rating.Statistics) {
	fmt.Fprintf(r.out, "%s %.4f ± %.4f\n",
		r.style(r.boldStyle, "Score:"), result.Score, result.ScoreError)
	fmt.Fprintf(r.out, "%s %s\n",
		r.style(r.boldStyle, "Elo:  "),
		r.style(r.eloStyle, fmt.Sprintf("%+.2f ± %.2f", result.EloDelta, result.EloError)))

	losStyle := r.drawStyle
	if result.LOS >= 0.95 {
		losStyle = r.winStyle
	} else if result.LOS <= 0.05 {
		losStyle = r.lossStyle
	}
	fmt.Fprintf(r.out, "%s %s\n\n",
		r.style(r.boldStyle, "LOS:  "),
		r.style(losStyle, fmt.Sprintf("%.1f%%", result.LOS*100)))
}

func (r *TerminalReporter) renderDispersion(summary *BatchSummary) {
	fmt.Fprintln(r.out, r.style(r.boldStyle, "Batch scores:"))
	fmt.Fprintf(r.out, "  mean %.4f  median %.4f  stddev %.4f  range [%.4f, %.4f] over %d batches\n",
		summary.Mean, summary.Median, summary.StdDev,
		summary.MinScore, summary.MaxScore, summary.Batches)
}

func (r *TerminalReporter) style(s lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return s.Render(text)
}

func (r *TerminalReporter) terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width == 0 {
		return 80
	}
	return width
}

func (r *TerminalReporter) barWidth() int {
	width := r.terminalWidth() - 10
	if width < 20 {
		width = 20
	}
	if width > 60 {
		width = 60
	}
	return width
}
