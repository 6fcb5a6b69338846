package engine

import (
	"math"
	"sort"
	"strconv"

	"github.com/odrik/gauntlet/pkg/errors"
)

// Params maps engine option names to the numeric values under test.
type Params map[string]float64

// Validate checks that every parameter value is representable as a finite
// real number. Violations are reported before any match is dispatched.
func (p Params) Validate() error {
	for name, value := range p {
		if math.IsNaN(value) || math.IsInf(value, 0) {
			return errors.New(errors.ErrCodeParamInvalid, "parameter value is not a finite number").
				WithContext("parameter", name).
				WithContext("value", value)
		}
	}
	return nil
}

// Names returns parameter names in sorted order, for deterministic argument
// construction and logging.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// formatValue renders a parameter value the way cutechess expects option
// values: integers without a decimal point, everything else in shortest form.
func formatValue(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
