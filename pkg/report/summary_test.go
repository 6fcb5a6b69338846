package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odrik/gauntlet/pkg/outcome"
)

func TestSummarizeBatches(t *testing.T) {
	fragments := []outcome.Sequence{
		{outcome.Win, outcome.Win},                   // 1.0
		{outcome.Loss, outcome.Loss},                 // 0.0
		{outcome.Draw, outcome.Draw},                 // 0.5
		{outcome.Win, outcome.Win, outcome.Win, outcome.Loss}, // 0.75
	}

	summary, err := SummarizeBatches(fragments)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.Batches)
	assert.InDelta(t, 0.5625, summary.Mean, 1e-12)
	assert.InDelta(t, 0.625, summary.Median, 1e-12)
	assert.Equal(t, 0.0, summary.MinScore)
	assert.Equal(t, 1.0, summary.MaxScore)
	assert.Greater(t, summary.StdDev, 0.0)
}

func TestSummarizeBatches_SingleBatch(t *testing.T) {
	summary, err := SummarizeBatches([]outcome.Sequence{
		{outcome.Win, outcome.Draw},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Batches)
	assert.Equal(t, 0.75, summary.Mean)
	assert.Equal(t, 0.75, summary.Median)
	assert.Equal(t, 0.0, summary.StdDev)
	assert.Equal(t, summary.MinScore, summary.MaxScore)
}

func TestSummarizeBatches_SkipsEmptyFragments(t *testing.T) {
	summary, err := SummarizeBatches([]outcome.Sequence{
		{},
		{outcome.Draw, outcome.Draw},
		nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Batches)
	assert.Equal(t, 0.5, summary.Mean)
}

func TestSummarizeBatches_AllEmpty(t *testing.T) {
	_, err := SummarizeBatches(nil)
	assert.Error(t, err)

	_, err = SummarizeBatches([]outcome.Sequence{{}, nil})
	assert.Error(t, err)
}
