package group

import (
	"errors"
	"fmt"
	"math/big"
)

// OrderInt returns the order of g as a big.Int.
func OrderInt(g Group) *big.Int {
	return new(big.Int).SetBytes(g.Order())
}

// ScalarFromBig maps an arbitrary, possibly negative, integer into the
// scalar field of g.
func ScalarFromBig(g Group, v *big.Int) (Scalar, error) {
	order := g.Order()
	r := new(big.Int).Mod(v, new(big.Int).SetBytes(order))
	buf := make([]byte, len(order))
	r.FillBytes(buf)
	s, err := g.NewScalar().SetBytes(buf)
	if err != nil {
		return nil, fmt.Errorf("failed to map integer into %s: %w", g.Name(), err)
	}
	return s, nil
}

// ScalarFromInt64 is ScalarFromBig for machine integers.
func ScalarFromInt64(g Group, v int64) (Scalar, error) {
	return ScalarFromBig(g, big.NewInt(v))
}

// ErrLengthMismatch is returned by [LinearCombination] when the scalar
// and point lists differ in length.
var ErrLengthMismatch = errors.New("scalar and point lists differ in length")

// LinearCombination returns sum(s[i]*p[i]). An empty input yields the
// identity.
func LinearCombination(g Group, s []Scalar, p []Point) (Point, error) {
	if len(s) != len(p) {
		return nil, ErrLengthMismatch
	}
	acc := g.NewPoint()
	term := g.NewPoint()
	for i := range s {
		term.ScalarMult(s[i], p[i])
		acc.Add(acc, term)
	}
	return acc, nil
}
