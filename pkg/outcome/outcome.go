// Package outcome defines game outcomes from the test engine's perspective
// and the sequences of outcomes that batches of games produce.
package outcome

// Outcome is the result of a single game, always interpreted from the
// perspective of the test engine relative to the base engine.
type Outcome int

const (
	Win Outcome = iota
	Loss
	Draw
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return "unknown"
	}
}

// Score returns the game score contribution: 1 for a win, 0 for a loss,
// 0.5 for a draw.
func (o Outcome) Score() float64 {
	switch o {
	case Win:
		return 1.0
	case Draw:
		return 0.5
	default:
		return 0.0
	}
}

// Sequence is an ordered list of outcomes for one evaluation point.
type Sequence []Outcome

// Counts returns the number of wins, losses, and draws in the sequence.
func (s Sequence) Counts() (wins, losses, draws int) {
	for _, o := range s {
		switch o {
		case Win:
			wins++
		case Loss:
			losses++
		case Draw:
			draws++
		}
	}
	return wins, losses, draws
}

// Score returns the total score of the sequence (wins plus half draws).
func (s Sequence) Score() float64 {
	total := 0.0
	for _, o := range s {
		total += o.Score()
	}
	return total
}

// Concat merges fragments into a single sequence. The order of outcomes
// within each fragment is preserved; nothing is dropped or duplicated.
func Concat(fragments ...Sequence) Sequence {
	total := 0
	for _, f := range fragments {
		total += len(f)
	}
	merged := make(Sequence, 0, total)
	for _, f := range fragments {
		merged = append(merged, f...)
	}
	return merged
}
