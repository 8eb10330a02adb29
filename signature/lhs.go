package signature

import (
	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// LHS is the linearly homomorphic signature
//
//	sigma = H(id)*pk + sum(Q(v_i)*b_i)
//
// where b_1..b_n is the public basis.
type LHS struct {
	vectorScheme
}

var (
	_ scheme.Signer            = (*LHS)(nil)
	_ scheme.VectorSigner      = (*LHS)(nil)
	_ scheme.LinearVerifier    = (*LHS)(nil)
	_ scheme.Aggregator        = (*LHS)(nil)
	_ scheme.AggregateVerifier = (*LHS)(nil)
)

// NewLHS returns an LHS signer without key material.
func NewLHS(opts ...Option) (*LHS, error) {
	vs, err := newVectorScheme(opts, lhsAnchor)
	if err != nil {
		return nil, err
	}
	return &LHS{vs}, nil
}

// Name returns "LHS".
func (l *LHS) Name() string { return LHSName }

// CombineVectors returns sum(coeffs[i]*vectors[i]) in the scheme's
// dimension, the value a verifier expects as the combined vector.
func (l *LHS) CombineVectors(vectors [][]float64, coeffs []float64) ([]float64, error) {
	return vector.Combine(vectors, coeffs, l.dim)
}

func lhsAnchor(g group.Group, pk group.Point, h group.Scalar) group.Point {
	return g.NewPoint().ScalarMult(h, pk)
}
