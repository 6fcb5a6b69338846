package report

import (
	"errors"

	"github.com/montanaflynn/stats"

	"github.com/odrik/gauntlet/pkg/outcome"
)

// BatchSummary describes how sub-batch scores were spread across workers.
// Large dispersion hints at unstable time management or machine interference
// rather than genuine strength difference.
type BatchSummary struct {
	Batches  int
	Mean     float64
	Median   float64
	StdDev   float64
	MinScore float64
	MaxScore float64
}

// SummarizeBatches computes dispersion statistics over per-batch mean scores.
func SummarizeBatches(fragments []outcome.Sequence) (*BatchSummary, error) {
	scores := make([]float64, 0, len(fragments))
	for _, f := range fragments {
		if len(f) == 0 {
			continue
		}
		scores = append(scores, f.Score()/float64(len(f)))
	}
	if len(scores) == 0 {
		return nil, errors.New("no non-empty batches to summarize")
	}

	mean, err := stats.Mean(scores)
	if err != nil {
		return nil, err
	}
	median, err := stats.Median(scores)
	if err != nil {
		return nil, err
	}
	stdDev, err := stats.StandardDeviation(scores)
	if err != nil {
		return nil, err
	}
	minScore, err := stats.Min(scores)
	if err != nil {
		return nil, err
	}
	maxScore, err := stats.Max(scores)
	if err != nil {
		return nil, err
	}

	return &BatchSummary{
		Batches:  len(scores),
		Mean:     mean,
		Median:   median,
		StdDev:   stdDev,
		MinScore: minScore,
		MaxScore: maxScore,
	}, nil
}
