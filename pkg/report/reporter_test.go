package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odrik/gauntlet/pkg/engine"
	"github.com/odrik/gauntlet/pkg/rating"
)

func sampleEvaluation() (*Evaluation, *rating.Statistics, *BatchSummary) {
	completed := time.Date(2026, 8, 24, 12, 30, 0, 0, time.UTC)
	eval := &Evaluation{
		ID:              "01JC5TEST",
		Params:          engine.Params{"SEMob": 81, "KingAttack": 12.5},
		TotalGames:      5000,
		Workers:         4,
		RoundsPerWorker: 625,
		TimeControl:     "10.0+0.1",
		CreatedAt:       completed.Add(-2 * time.Hour),
		CompletedAt:     &completed,
	}
	result := &rating.Statistics{
		Games:      5000,
		Wins:       1600,
		Losses:     1400,
		Draws:      2000,
		Score:      0.52,
		ScoreError: 0.011,
		EloDelta:   13.91,
		EloError:   7.68,
		LOS:        0.9998,
	}
	summary := &BatchSummary{
		Batches:  4,
		Mean:     0.52,
		Median:   0.521,
		StdDev:   0.009,
		MinScore: 0.508,
		MaxScore: 0.533,
	}
	return eval, result, summary
}

func TestMarkdown(t *testing.T) {
	eval, result, summary := sampleEvaluation()

	md, err := NewReporter().Markdown(eval, result, summary)
	require.NoError(t, err)

	assert.Contains(t, md, "# Evaluation 01JC5TEST")
	assert.Contains(t, md, "5000 across 4 workers (625 rounds each), tc 10.0+0.1")
	assert.Contains(t, md, "| KingAttack | 12.5 |")
	assert.Contains(t, md, "| SEMob | 81 |")
	assert.Contains(t, md, "| 1600 | 1400 | 2000 |")
	assert.Contains(t, md, "0.5200 ± 0.0110")
	assert.Contains(t, md, "+13.91 ± 7.68")
	assert.Contains(t, md, "100.0%")
	assert.Contains(t, md, "## Batch dispersion")
}

func TestMarkdown_OmitsOptionalSections(t *testing.T) {
	eval, result, _ := sampleEvaluation()
	eval.Params = nil

	md, err := NewReporter().Markdown(eval, result, nil)
	require.NoError(t, err)

	assert.NotContains(t, md, "## Parameters")
	assert.NotContains(t, md, "## Batch dispersion")
	assert.Contains(t, md, "## Result")
}

func TestMarkdown_NilInputs(t *testing.T) {
	eval, result, _ := sampleEvaluation()

	_, err := NewReporter().Markdown(nil, result, nil)
	assert.Error(t, err)

	_, err = NewReporter().Markdown(eval, nil, nil)
	assert.Error(t, err)
}

func TestTerminalReporter_RenderResult(t *testing.T) {
	eval, result, summary := sampleEvaluation()

	var buf bytes.Buffer
	reporter := NewTerminalReporterWithOutput(&buf)
	reporter.SetNoColor(true)

	require.NoError(t, reporter.RenderResult(eval, result, summary))
	out := buf.String()

	assert.Contains(t, out, "Evaluation 01JC5TEST")
	assert.Contains(t, out, "W 1600")
	assert.Contains(t, out, "D 2000")
	assert.Contains(t, out, "L 1400")
	assert.Contains(t, out, "Score:")
	assert.Contains(t, out, "+13.91 ± 7.68")
	assert.Contains(t, out, "LOS:")
	assert.Contains(t, out, "Batch scores:")
	assert.True(t, strings.Contains(out, "█"), "outcome bar should render")
}

func TestTerminalReporter_RenderResult_NilSummary(t *testing.T) {
	eval, result, _ := sampleEvaluation()

	var buf bytes.Buffer
	reporter := NewTerminalReporterWithOutput(&buf)
	reporter.SetNoColor(true)

	require.NoError(t, reporter.RenderResult(eval, result, nil))
	assert.NotContains(t, buf.String(), "Batch scores:")
}

func TestTerminalReporter_RenderResult_NilInputs(t *testing.T) {
	eval, result, _ := sampleEvaluation()
	reporter := NewTerminalReporterWithOutput(&bytes.Buffer{})

	assert.Error(t, reporter.RenderResult(nil, result, nil))
	assert.Error(t, reporter.RenderResult(eval, nil, nil))
}
