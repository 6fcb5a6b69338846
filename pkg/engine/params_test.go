package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odrik/gauntlet/pkg/errors"
)

func TestParams_Validate(t *testing.T) {
	p := Params{"SEMob": 81, "KingAttack": 12.5}
	assert.NoError(t, p.Validate())
}

func TestParams_Validate_Empty(t *testing.T) {
	assert.NoError(t, Params{}.Validate())
}

func TestParams_Validate_NaN(t *testing.T) {
	p := Params{"SEMob": math.NaN()}
	err := p.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParamInvalid))
}

func TestParams_Validate_Inf(t *testing.T) {
	err := Params{"SEMob": math.Inf(1)}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParamInvalid))

	err = Params{"SEMob": math.Inf(-1)}.Validate()
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeParamInvalid))
}

func TestParams_Names_Sorted(t *testing.T) {
	p := Params{"Zeta": 1, "Alpha": 2, "Mid": 3}
	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, p.Names())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{81, "81"},
		{-3, "-3"},
		{0, "0"},
		{12.5, "12.5"},
		{0.001, "0.001"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatValue(tt.value))
		})
	}
}

func TestCryptoSeed(t *testing.T) {
	src := CryptoSeed{}
	seen := make(map[int64]bool)
	for i := 0; i < 50; i++ {
		seed, err := src.Seed()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, seed, int64(0))
		assert.Less(t, seed, int64(1)<<31)
		seen[seed] = true
	}
	// 50 draws from a 31-bit space colliding down to a handful would mean the
	// source is broken.
	assert.Greater(t, len(seen), 40)
}

func TestFixedSeed(t *testing.T) {
	src := FixedSeed(42)
	seed, err := src.Seed()
	require.NoError(t, err)
	assert.Equal(t, int64(42), seed)
}
