package vector

import (
	"fmt"
	"math"
	"math/big"
)

// Rounding selects how scaled entries are mapped to integers.
type Rounding int

const (
	// Truncate rounds toward zero.
	Truncate Rounding = iota
	// HalfAwayFromZero rounds to the nearest integer, ties away from zero.
	HalfAwayFromZero
)

func (r Rounding) String() string {
	switch r {
	case Truncate:
		return "truncate"
	case HalfAwayFromZero:
		return "half-away-from-zero"
	default:
		return fmt.Sprintf("Rounding(%d)", int(r))
	}
}

// Quantizer embeds real numbers into the integers by scaling and
// rounding. Signer and verifier must use the same Quantizer: a tag
// produced under one setting does not verify under another.
type Quantizer struct {
	Scale    int64
	Rounding Rounding
}

// DefaultQuantizer keeps three decimal digits and truncates.
var DefaultQuantizer = Quantizer{Scale: 1000, Rounding: Truncate}

// Validate checks that the scale is positive and the rounding rule known.
func (q Quantizer) Validate() error {
	if q.Scale <= 0 {
		return fmt.Errorf("quantizer scale must be > 0, got %d", q.Scale)
	}
	if q.Rounding != Truncate && q.Rounding != HalfAwayFromZero {
		return fmt.Errorf("unknown rounding rule %v", q.Rounding)
	}
	return nil
}

// Quantize returns round(x * Scale). The product is formed in float64.
// NaN and infinities quantize to zero.
func (q Quantizer) Quantize(x float64) *big.Int {
	y := x * float64(q.Scale)
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return new(big.Int)
	}
	switch q.Rounding {
	case HalfAwayFromZero:
		y = math.Round(y)
	default:
		y = math.Trunc(y)
	}
	n, _ := big.NewFloat(y).Int(nil)
	return n
}

// QuantizeVector applies Quantize entry by entry.
func (q Quantizer) QuantizeVector(v []float64) []*big.Int {
	out := make([]*big.Int, len(v))
	for i, x := range v {
		out[i] = q.Quantize(x)
	}
	return out
}
