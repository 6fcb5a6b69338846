// Package rating turns a sequence of game outcomes into a strength estimate:
// score, Elo delta, ~95% error bars, and likelihood of superiority.
package rating

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/odrik/gauntlet/pkg/errors"
	"github.com/odrik/gauntlet/pkg/outcome"
)

// confidenceQuantile is the two-sided 97.5th-percentile quantile of the
// standard normal distribution, giving a ~95% confidence interval. The
// literal constant matches the value used by established engine-testing
// tools so results stay bit-compatible with them.
const confidenceQuantile = 1.95716

// scoreEpsilon clamps scores away from 0 and 1 so the logistic transform
// stays finite.
const scoreEpsilon = 1e-6

var stdNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Statistics is the terminal result of one evaluation point. Immutable after
// construction; one instance per evaluation.
type Statistics struct {
	Games      int
	Wins       int
	Losses     int
	Draws      int
	Score      float64
	ScoreError float64
	EloDelta   float64
	EloError   float64
	LOS        float64
}

// Elo converts a match score in [0,1] into an Elo difference. A score of 0.5
// maps to 0; the function is monotonic increasing and clamped so that scores
// at the boundary stay finite.
func Elo(score float64) float64 {
	score = math.Max(scoreEpsilon, math.Min(1-scoreEpsilon, score))
	return -400.0 * math.Log10(1.0/score-1.0)
}

// Estimate computes statistics for a sequence of outcomes. The sequence must
// be non-empty; order is irrelevant since the estimate is a pure aggregate
// over counts.
func Estimate(seq outcome.Sequence) (*Statistics, error) {
	if len(seq) == 0 {
		return nil, errors.New(errors.ErrCodeEstimationEmpty, "no game outcomes to estimate from")
	}

	wins, losses, draws := seq.Counts()
	games := float64(len(seq))
	score := (float64(wins) + 0.5*float64(draws)) / games

	// Standard error of the mean score under a trinomial model: draws are a
	// distinct outcome, not an average of win/loss flips.
	devW := math.Pow(1.0-score, 2) * float64(wins) / games
	devL := math.Pow(0.0-score, 2) * float64(losses) / games
	devD := math.Pow(0.5-score, 2) * float64(draws) / games
	stddev := math.Sqrt(devW+devL+devD) / math.Sqrt(games)

	scoreError := confidenceQuantile * stddev

	// LOS tests only the decisive-game imbalance; draws carry no evidence of
	// superiority either way.
	a := 0.0
	if wins != losses {
		a = float64(wins-losses) / math.Sqrt(float64(wins+losses))
	}

	return &Statistics{
		Games:      len(seq),
		Wins:       wins,
		Losses:     losses,
		Draws:      draws,
		Score:      score,
		ScoreError: scoreError,
		EloDelta:   Elo(score),
		EloError:   (Elo(score+scoreError) - Elo(score-scoreError)) / 2,
		LOS:        stdNormal.CDF(a),
	}, nil
}
