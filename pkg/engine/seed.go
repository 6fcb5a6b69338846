package engine

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// SeedSource supplies the opening-order seed for one cutechess invocation.
// Concurrent sub-batches of the same evaluation must not reuse a seed, so a
// fresh value is drawn per invocation. Injected rather than a hidden global
// so tests can pin seeds.
type SeedSource interface {
	Seed() (int64, error)
}

// CryptoSeed draws seeds from the operating system's CSPRNG.
type CryptoSeed struct{}

// seedRange covers [0, 2^31), matching the range cutechess accepts for -srand.
var seedRange = big.NewInt(1 << 31)

// Seed returns a uniform random value in [0, 2^31).
func (CryptoSeed) Seed() (int64, error) {
	n, err := rand.Int(rand.Reader, seedRange)
	if err != nil {
		return 0, fmt.Errorf("failed to draw seed: %w", err)
	}
	return n.Int64(), nil
}

// FixedSeed always returns the same seed. Test use only.
type FixedSeed int64

// Seed returns the fixed value.
func (f FixedSeed) Seed() (int64, error) {
	return int64(f), nil
}
