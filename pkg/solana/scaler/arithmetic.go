package scaler

import (
	"math"
	"math/bits"
	"strings"

	"github.com/pkg/errors"

	"github.com/code-payments/scaler-program/pkg/solana/runtime"
)

// Factor is the constant every amount is multiplied by.
const Factor uint64 = 1_000_000

// ArithmeticMode selects what happens when amount * Factor doesn't fit in 64
// bits.
type ArithmeticMode uint8

const (
	// ArithmeticModeWrapping silently discards the overflow bits, producing the
	// product modulo 2^64. This is how the deployed program behaves.
	ArithmeticModeWrapping ArithmeticMode = iota

	// ArithmeticModeChecked fails the instruction with ArithmeticOverflow.
	ArithmeticModeChecked

	// ArithmeticModeSaturating clamps the product to math.MaxUint64.
	ArithmeticModeSaturating
)

// MaxSafeAmount is the largest amount that scales without overflowing.
const MaxSafeAmount = math.MaxUint64 / Factor

func (m ArithmeticMode) String() string {
	switch m {
	case ArithmeticModeWrapping:
		return "wrapping"
	case ArithmeticModeChecked:
		return "checked"
	case ArithmeticModeSaturating:
		return "saturating"
	}
	return "unknown"
}

// ParseArithmeticMode is the inverse of ArithmeticMode.String, ignoring case.
func ParseArithmeticMode(val string) (ArithmeticMode, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "wrapping":
		return ArithmeticModeWrapping, nil
	case "checked":
		return ArithmeticModeChecked, nil
	case "saturating":
		return ArithmeticModeSaturating, nil
	}
	return 0, errors.Errorf("unknown arithmetic mode: %q", val)
}

// Scale multiplies amount by Factor under the provided mode.
func Scale(amount uint64, mode ArithmeticMode) (uint64, error) {
	hi, lo := bits.Mul64(amount, Factor)
	if hi == 0 {
		return lo, nil
	}

	switch mode {
	case ArithmeticModeWrapping:
		return lo, nil
	case ArithmeticModeChecked:
		return 0, errors.Wrapf(runtime.ErrArithmeticOverflow, "%d * %d", amount, Factor)
	case ArithmeticModeSaturating:
		return math.MaxUint64, nil
	}
	return 0, errors.Errorf("unsupported arithmetic mode: %d", mode)
}
