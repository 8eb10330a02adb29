package signature

import (
	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
)

// Waters is the vector-homomorphic signature
//
//	sigma = pk + H(id)*G + sum(Q(v_i)*u_i)
//
// over any prime-order group. The basis u_1..u_n is part of the public
// key. Combination is checked by verifying every input and comparing the
// claimed combined vector against the weighted sum within tolerance.
type Waters struct {
	vectorScheme
}

var (
	_ scheme.Signer            = (*Waters)(nil)
	_ scheme.VectorSigner      = (*Waters)(nil)
	_ scheme.LinearVerifier    = (*Waters)(nil)
	_ scheme.Aggregator        = (*Waters)(nil)
	_ scheme.AggregateVerifier = (*Waters)(nil)
)

// NewWaters returns a Waters signer without key material.
func NewWaters(opts ...Option) (*Waters, error) {
	vs, err := newVectorScheme(opts, watersAnchor)
	if err != nil {
		return nil, err
	}
	return &Waters{vs}, nil
}

// Name returns "Waters".
func (w *Waters) Name() string { return WatersName }

func watersAnchor(g group.Group, pk group.Point, h group.Scalar) group.Point {
	p := g.NewPoint().ScalarMult(h, g.Generator())
	return p.Add(p, pk)
}
