// Package config loads and validates the gauntlet YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/odrik/gauntlet/pkg/errors"
)

// Default configuration values exported for documentation and validation
const (
	DefaultCutechess   = "./cutechess-cli"
	DefaultEngine      = "./stockfish"
	DefaultBook        = "./noob_3moves.epd"
	DefaultTimeControl = "10.0+0.1"
	DefaultConcurrency = 2
	DefaultWorkers     = 2
	DefaultHash        = 1
	DefaultLogDir      = ".gauntlet/logs"
	DefaultStorePath   = ".gauntlet/evaluations.db"
)

// timeControlPattern matches "base" or "base+increment" in seconds,
// e.g. "10", "10.0", "10.0+0.1".
var timeControlPattern = regexp.MustCompile(`^\d+(\.\d+)?(\+\d+(\.\d+)?)?$`)

// Config represents the complete gauntlet configuration
type Config struct {
	Cutechess    string             `yaml:"cutechess"`
	Engine       string             `yaml:"engine"`
	Book         string             `yaml:"book"`
	TimeControl  string             `yaml:"time_control"`
	Concurrency  int                `yaml:"concurrency"` // concurrent games per worker
	Workers      int                `yaml:"workers"`     // sub-batch worker pool size
	Hash         int                `yaml:"hash"`        // engine hash table size in MB
	Adjudication AdjudicationConfig `yaml:"adjudication"`
	LogDir       string             `yaml:"log_dir"`
	StorePath    string             `yaml:"store_path"`
}

// AdjudicationConfig controls early termination of clearly decided games.
type AdjudicationConfig struct {
	DrawMoveNumber  int `yaml:"draw_move_number"`
	DrawMoveCount   int `yaml:"draw_move_count"`
	DrawScore       int `yaml:"draw_score"`
	ResignMoveCount int `yaml:"resign_move_count"`
	ResignScore     int `yaml:"resign_score"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Cutechess:   DefaultCutechess,
		Engine:      DefaultEngine,
		Book:        DefaultBook,
		TimeControl: DefaultTimeControl,
		Concurrency: DefaultConcurrency,
		Workers:     DefaultWorkers,
		Hash:        DefaultHash,
		Adjudication: AdjudicationConfig{
			DrawMoveNumber:  34,
			DrawMoveCount:   8,
			DrawScore:       20,
			ResignMoveCount: 3,
			ResignScore:     400,
		},
		LogDir:    DefaultLogDir,
		StorePath: DefaultStorePath,
	}
}

// Load reads a YAML config file over the defaults. A missing path returns
// the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigLoad, "failed to read config").
			WithContext("path", path)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigParse, "failed to parse config").
			WithContext("path", path)
	}

	return cfg, nil
}

// BookFormat returns the opening book format (epd or pgn) derived from the
// book file extension.
func (c *Config) BookFormat() string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(c.Book), "."))
	if ext == "epd" || ext == "pgn" {
		return ext
	}
	return ""
}

// Validate checks the configuration for values the run cannot proceed with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Cutechess) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "cutechess binary path is empty")
	}
	if strings.TrimSpace(c.Engine) == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "engine binary path is empty")
	}
	if c.BookFormat() == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "opening book must have epd or pgn extension").
			WithContext("book", c.Book)
	}
	if !timeControlPattern.MatchString(c.TimeControl) {
		return errors.New(errors.ErrCodeConfigInvalid, "time control must be seconds as base or base+increment").
			WithContext("time_control", c.TimeControl)
	}
	if c.Workers <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("workers must be positive, got %d", c.Workers))
	}
	if c.Concurrency <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("concurrency must be positive, got %d", c.Concurrency))
	}
	if c.Hash <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid, fmt.Sprintf("hash must be positive, got %d", c.Hash))
	}
	return nil
}
