// Package engine adapts cutechess-cli as the match-running collaborator:
// it builds the invocation for a sub-batch of paired games, runs the
// process, and parses finished-game records into outcomes.
package engine

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/odrik/gauntlet/pkg/config"
	"github.com/odrik/gauntlet/pkg/errors"
	"github.com/odrik/gauntlet/pkg/outcome"
)

// Engine names on the cutechess command line. The test engine carries the
// parameter overrides; the base engine runs with defaults.
const (
	testName = "test"
	baseName = "base"
)

// finishedGamePattern matches cutechess "Finished game" lines, capturing the
// game number, the white/black pairing, and the result.
var finishedGamePattern = regexp.MustCompile(`^Finished game (\d+) \((\S+) vs (\S+)\): (1-0|0-1|1/2-1/2)`)

// BatchSpec describes one sub-batch: the parameter point under test, the
// number of paired rounds, and the opening-order seed.
type BatchSpec struct {
	Params Params
	Rounds int
	Seed   int64
}

// finishedGame is one parsed finished-game record.
type finishedGame struct {
	number    int
	whiteName string
	result    string
}

// Cutechess invokes cutechess-cli and converts its output into outcomes.
type Cutechess struct {
	cfg *config.Config
}

// NewCutechess creates an adapter bound to a configuration.
func NewCutechess(cfg *config.Config) *Cutechess {
	return &Cutechess{cfg: cfg}
}

// Args builds the full cutechess-cli argument list for a sub-batch.
func (c *Cutechess) Args(spec BatchSpec) []string {
	adj := c.cfg.Adjudication

	args := []string{
		"-games", "2",
		"-repeat",
		"-openings",
		fmt.Sprintf("file=%s", c.cfg.Book),
		fmt.Sprintf("format=%s", c.cfg.BookFormat()),
		"order=random",
		"-draw",
		fmt.Sprintf("movenumber=%d", adj.DrawMoveNumber),
		fmt.Sprintf("movecount=%d", adj.DrawMoveCount),
		fmt.Sprintf("score=%d", adj.DrawScore),
		"-resign",
		fmt.Sprintf("movecount=%d", adj.ResignMoveCount),
		fmt.Sprintf("score=%d", adj.ResignScore),
	}

	args = append(args, "-engine", fmt.Sprintf("name=%s", testName), fmt.Sprintf("cmd=%s", c.cfg.Engine))
	for _, name := range spec.Params.Names() {
		args = append(args, fmt.Sprintf("option.%s=%s", name, formatValue(spec.Params[name])))
	}

	args = append(args,
		"-engine", fmt.Sprintf("name=%s", baseName), fmt.Sprintf("cmd=%s", c.cfg.Engine),
		"-each", "proto=uci",
		fmt.Sprintf("tc=%s", c.cfg.TimeControl),
		fmt.Sprintf("option.Hash=%d", c.cfg.Hash),
		"-rounds", strconv.Itoa(spec.Rounds),
		"-concurrency", strconv.Itoa(c.cfg.Concurrency),
		"-srand", strconv.FormatInt(spec.Seed, 10),
	)

	return args
}

// RunBatch runs one sub-batch to completion and returns its outcomes in game
// order. A non-zero exit from cutechess is fatal for the sub-batch: no
// partial outcomes are returned.
func (c *Cutechess) RunBatch(ctx context.Context, spec BatchSpec) (outcome.Sequence, error) {
	cmd := exec.CommandContext(ctx, c.cfg.Cutechess, c.Args(spec)...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMatchExecution, "failed to open cutechess stdout")
	}

	if err := cmd.Start(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMatchExecution, "failed to start cutechess").
			WithContext("cutechess", c.cfg.Cutechess)
	}

	var games []finishedGame
	var g errgroup.Group
	g.Go(func() error {
		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			if game, ok := parseFinishedGame(scanner.Text()); ok {
				games = append(games, game)
			}
		}
		return scanner.Err()
	})

	scanErr := g.Wait()
	if err := cmd.Wait(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeMatchExecution, "cutechess exited with failure").
			WithContext("cutechess", c.cfg.Cutechess).
			WithContext("rounds", spec.Rounds)
	}
	if scanErr != nil {
		return nil, errors.Wrap(scanErr, errors.ErrCodeMatchParse, "failed to read cutechess output")
	}

	return mapOutcomes(games), nil
}

// parseFinishedGame extracts a finished-game record from one output line.
func parseFinishedGame(line string) (finishedGame, bool) {
	m := finishedGamePattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return finishedGame{}, false
	}
	number, err := strconv.Atoi(m[1])
	if err != nil {
		return finishedGame{}, false
	}
	return finishedGame{number: number, whiteName: m[2], result: m[4]}, true
}

// mapOutcomes orders finished games by game number, so the two games of each
// round stay paired, and normalizes results to the test engine's perspective
// using the pairing direction.
func mapOutcomes(games []finishedGame) outcome.Sequence {
	sorted := make([]finishedGame, len(games))
	copy(sorted, games)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].number < sorted[j].number
	})

	seq := make(outcome.Sequence, 0, len(sorted))
	for _, game := range sorted {
		testWhite := game.whiteName == testName
		switch game.result {
		case "1-0":
			if testWhite {
				seq = append(seq, outcome.Win)
			} else {
				seq = append(seq, outcome.Loss)
			}
		case "0-1":
			if testWhite {
				seq = append(seq, outcome.Loss)
			} else {
				seq = append(seq, outcome.Win)
			}
		case "1/2-1/2":
			seq = append(seq, outcome.Draw)
		}
	}
	return seq
}
