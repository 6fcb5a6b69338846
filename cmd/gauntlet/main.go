// Command gauntlet estimates the strength difference between two
// configurations of a chess engine by running batches of paired games
// through cutechess-cli on a pool of workers.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odrik/gauntlet/pkg/batch"
	"github.com/odrik/gauntlet/pkg/config"
	"github.com/odrik/gauntlet/pkg/engine"
	gerrors "github.com/odrik/gauntlet/pkg/errors"
	"github.com/odrik/gauntlet/pkg/logging"
	"github.com/odrik/gauntlet/pkg/outcome"
	"github.com/odrik/gauntlet/pkg/rating"
	"github.com/odrik/gauntlet/pkg/report"
)

// Version information - set via ldflags during build
var (
	version = "1.0.0-dev"
	commit  = "unknown"
)

type options struct {
	configPath  string
	paramsPath  string
	games       int
	workers     int
	cutechess   string
	engineBin   string
	book        string
	tc          string
	concurrency int
	reportPath  string
	noColor     bool
	verbose     bool
	showVersion bool
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, err := parseOptions(args)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	if opts.showVersion {
		fmt.Printf("gauntlet %s (%s)\n", version, commit)
		return 0
	}

	if err := evaluate(opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseOptions(args []string) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("gauntlet", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	fs.StringVar(&opts.configPath, "config", "", "path to YAML config")
	fs.StringVar(&opts.paramsPath, "params", "optimal.json", "JSON file mapping engine option names to numeric values")
	fs.IntVar(&opts.games, "games", 5000, "total games for the evaluation point")
	fs.IntVar(&opts.workers, "workers", 0, "worker pool size (overrides config)")
	fs.StringVar(&opts.cutechess, "cutechess", "", "cutechess-cli binary (overrides config)")
	fs.StringVar(&opts.engineBin, "engine", "", "engine binary (overrides config)")
	fs.StringVar(&opts.book, "book", "", "opening book in epd or pgn format (overrides config)")
	fs.StringVar(&opts.tc, "tc", "", "time control (overrides config)")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "concurrent games per worker (overrides config)")
	fs.StringVar(&opts.reportPath, "report", "", "write a markdown report to this path")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&opts.verbose, "verbose", false, "enable debug logging")
	fs.BoolVar(&opts.showVersion, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return opts, nil
}

func evaluate(opts *options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return err
	}

	params, err := loadParams(opts.paramsPath)
	if err != nil {
		return err
	}
	if err := params.Validate(); err != nil {
		return err
	}

	evaluationID := ulid.Make().String()

	logger, err := logging.NewLogger(cfg.LogDir, evaluationID)
	if err != nil {
		return err
	}
	defer logger.Close()
	if opts.verbose {
		logger.SetMinLevel(logging.LevelDebug)
	}

	roundsPerWorker := batch.RoundsPerWorker(opts.games, cfg.Workers)
	eval := &report.Evaluation{
		ID:              evaluationID,
		Params:          params,
		TotalGames:      2 * roundsPerWorker * cfg.Workers,
		Workers:         cfg.Workers,
		RoundsPerWorker: roundsPerWorker,
		TimeControl:     cfg.TimeControl,
		CreatedAt:       time.Now(),
	}

	fmt.Printf("Starting evaluation %s: %d games across %d workers (%d rounds each)\n",
		evaluationID, eval.TotalGames, cfg.Workers, roundsPerWorker)
	_ = logger.Info(logging.CategoryConfig, "evaluation_started", "evaluation started", map[string]any{
		"games":             eval.TotalGames,
		"workers":           cfg.Workers,
		"rounds_per_worker": roundsPerWorker,
		"time_control":      cfg.TimeControl,
	})

	runner := batch.NewRunner(engine.NewCutechess(cfg), engine.CryptoSeed{}, logger)
	pool := batch.NewPool(runner, batch.PoolConfig{Workers: cfg.Workers})
	coordinator := batch.NewCoordinator(pool, logger)

	fragments, err := coordinator.Collect(context.Background(), params, roundsPerWorker)
	if err != nil {
		_ = logger.Error(logging.CategoryBatch, "evaluation_failed", err.Error(), nil)
		return err
	}

	combined := outcome.Concat(fragments...)
	result, err := rating.Estimate(combined)
	if err != nil {
		return err
	}
	completed := time.Now()
	eval.CompletedAt = &completed

	_ = logger.Info(logging.CategoryStats, "evaluation_completed", "evaluation completed", map[string]any{
		"wins":   result.Wins,
		"losses": result.Losses,
		"draws":  result.Draws,
		"score":  result.Score,
		"elo":    result.EloDelta,
		"los":    result.LOS,
	})

	summary, _ := report.SummarizeBatches(fragments)

	terminal := report.NewTerminalReporter()
	terminal.SetNoColor(opts.noColor)
	if err := terminal.RenderResult(eval, result, summary); err != nil {
		return err
	}

	if opts.reportPath != "" {
		markdown, err := report.NewReporter().Markdown(eval, result, summary)
		if err != nil {
			return err
		}
		if err := os.WriteFile(opts.reportPath, []byte(markdown), 0644); err != nil {
			return gerrors.Wrap(err, gerrors.ErrCodeStorageWrite, "failed to write report").
				WithContext("path", opts.reportPath)
		}
	}

	store, err := report.NewStore(cfg.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()
	if err := store.SaveEvaluation(eval, result); err != nil {
		return err
	}

	return nil
}

func applyOverrides(cfg *config.Config, opts *options) {
	if opts.workers > 0 {
		cfg.Workers = opts.workers
	}
	if opts.cutechess != "" {
		cfg.Cutechess = opts.cutechess
	}
	if opts.engineBin != "" {
		cfg.Engine = opts.engineBin
	}
	if opts.book != "" {
		cfg.Book = opts.book
	}
	if opts.tc != "" {
		cfg.TimeControl = opts.tc
	}
	if opts.concurrency > 0 {
		cfg.Concurrency = opts.concurrency
	}
}

func loadParams(path string) (engine.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gerrors.Wrap(err, gerrors.ErrCodeConfigLoad, "failed to read parameter file").
			WithContext("path", path)
	}

	params := engine.Params{}
	if err := json.Unmarshal(data, &params); err != nil {
		return nil, gerrors.Wrap(err, gerrors.ErrCodeConfigParse, "parameter file must be a flat name to number mapping").
			WithContext("path", path)
	}
	return params, nil
}
