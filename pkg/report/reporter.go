package report

import (
	"errors"
	"fmt"
	"strings"

	"github.com/odrik/gauntlet/pkg/rating"
)

// Reporter formats evaluation results for humans.
type Reporter struct{}

// NewReporter creates a Reporter instance.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Markdown renders a markdown report for a completed evaluation.
func (r *Reporter) Markdown(eval *Evaluation, result *rating.Statistics, summary *BatchSummary) (string, error) {
	if eval == nil {
		return "", errors.New("evaluation is nil")
	}
	if result == nil {
		return "", errors.New("statistics are nil")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Evaluation %s\n\n", eval.ID)
	fmt.Fprintf(&b, "**Games:** %d across %d workers (%d rounds each), tc %s\n\n",
		result.Games, eval.Workers, eval.RoundsPerWorker, eval.TimeControl)

	if len(eval.Params) > 0 {
		b.WriteString("## Parameters\n\n")
		b.WriteString("| Option | Value |\n")
		b.WriteString("|--------|-------|\n")
		for _, name := range eval.Params.Names() {
			fmt.Fprintf(&b, "| %s | %g |\n", name, eval.Params[name])
		}
		b.WriteString("\n")
	}

	b.WriteString("## Result\n\n")
	b.WriteString("| Wins | Losses | Draws | Score | Elo | LOS |\n")
	b.WriteString("|------|--------|-------|-------|-----|-----|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %.4f ± %.4f | %+.2f ± %.2f | %.1f%% |\n\n",
		result.Wins, result.Losses, result.Draws,
		result.Score, result.ScoreError,
		result.EloDelta, result.EloError,
		result.LOS*100)

	if summary != nil {
		b.WriteString("## Batch dispersion\n\n")
		b.WriteString("| Batches | Mean | Median | StdDev | Min | Max |\n")
		b.WriteString("|---------|------|--------|--------|-----|-----|\n")
		fmt.Fprintf(&b, "| %d | %.4f | %.4f | %.4f | %.4f | %.4f |\n",
			summary.Batches, summary.Mean, summary.Median,
			summary.StdDev, summary.MinScore, summary.MaxScore)
	}

	return b.String(), nil
}
