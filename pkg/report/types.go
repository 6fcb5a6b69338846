// Package report renders and persists completed evaluations.
package report

import (
	"time"

	"github.com/odrik/gauntlet/pkg/engine"
)

// Evaluation describes one completed evaluation point.
type Evaluation struct {
	ID              string
	Params          engine.Params
	TotalGames      int
	Workers         int
	RoundsPerWorker int
	TimeControl     string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}
