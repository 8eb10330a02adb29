package signature

import (
	"fmt"
	"io"

	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

var idDomain = []byte("homauth/vector/id/v1")

// vectorKey is the public part of a vector signature key: an anchor point
// and one basis point per vector coordinate.
type vectorKey struct {
	pk    group.Point
	basis []group.Point
}

// vectorScheme is the machinery shared by Waters and LHS. The two differ
// only in how the identifier enters the signature, which is captured by
// anchor.
type vectorScheme struct {
	g   group.Group
	dim int
	q   vector.Quantizer
	tol vector.Tolerance

	// anchor returns the identifier-dependent part of a signature.
	anchor func(g group.Group, pk group.Point, h group.Scalar) group.Point

	sk  group.Scalar
	key *vectorKey
}

func newVectorScheme(opts []Option, anchor func(group.Group, group.Point, group.Scalar) group.Point) (vectorScheme, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return vectorScheme{}, err
	}
	return vectorScheme{
		g:      o.group,
		dim:    o.dim,
		q:      o.quantizer,
		tol:    o.tol,
		anchor: anchor,
	}, nil
}

// VectorDim returns the fixed vector dimension.
func (s *vectorScheme) VectorDim() int { return s.dim }

// Group returns the backing group.
func (s *vectorScheme) Group() group.Group { return s.g }

// SignatureSize returns the size of one compressed point.
func (s *vectorScheme) SignatureSize() int { return s.g.PointLen() }

// PublicKeySize returns the size of the anchor and the basis.
func (s *vectorScheme) PublicKeySize() int { return (s.dim + 1) * s.g.PointLen() }

// GenerateKey draws the secret x, sets pk = x*G and samples the basis as
// random multiples of the generator.
func (s *vectorScheme) GenerateKey(r io.Reader) error {
	if s.sk != nil {
		return scheme.ErrKeyExists
	}
	x, err := s.g.RandomScalar(r)
	if err != nil {
		return err
	}
	key := &vectorKey{
		pk:    s.g.NewPoint().ScalarMult(x, s.g.Generator()),
		basis: make([]group.Point, s.dim),
	}
	for i := range key.basis {
		u, err := s.g.RandomScalar(r)
		if err != nil {
			return err
		}
		key.basis[i] = s.g.NewPoint().ScalarMult(u, s.g.Generator())
	}
	s.sk, s.key = x, key
	return nil
}

// PublicKey returns pk followed by the basis points.
func (s *vectorScheme) PublicKey() ([]byte, error) {
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	out := make([]byte, 0, s.PublicKeySize())
	out = append(out, s.key.pk.Bytes()...)
	for _, u := range s.key.basis {
		out = append(out, u.Bytes()...)
	}
	return out, nil
}

// publicKey decodes pub, or returns the own key when pub is nil.
func (s *vectorScheme) publicKey(pub []byte) (*vectorKey, bool, error) {
	if pub == nil {
		if s.key == nil {
			return nil, false, scheme.ErrNoKey
		}
		return s.key, true, nil
	}
	n := s.g.PointLen()
	if len(pub) != s.PublicKeySize() {
		return nil, false, nil
	}
	pts := make([]group.Point, s.dim+1)
	for i := range pts {
		p, err := s.g.NewPoint().SetBytes(pub[i*n : (i+1)*n])
		if err != nil {
			return nil, false, nil
		}
		pts[i] = p
	}
	return &vectorKey{pk: pts[0], basis: pts[1:]}, true, nil
}

// expected recomputes the signature of v under id and key.
func (s *vectorScheme) expected(key *vectorKey, v []float64, id []byte) (group.Point, error) {
	h, err := s.g.HashToScalar(idDomain, id)
	if err != nil {
		return nil, err
	}
	coords := s.q.QuantizeVector(vector.Fit(v, s.dim))
	scalars := make([]group.Scalar, len(coords))
	for i, c := range coords {
		if scalars[i], err = group.ScalarFromBig(s.g, c); err != nil {
			return nil, err
		}
	}
	body, err := group.LinearCombination(s.g, scalars, key.basis)
	if err != nil {
		return nil, err
	}
	return body.Add(body, s.anchor(s.g, key.pk, h)), nil
}

// SignVector signs v, fitted to VectorDim, under identifier id.
func (s *vectorScheme) SignVector(v []float64, id []byte) ([]byte, error) {
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	p, err := s.expected(s.key, v, id)
	if err != nil {
		return nil, err
	}
	return p.Bytes(), nil
}

// VerifyVector checks sig on v under id and the own key.
func (s *vectorScheme) VerifyVector(v []float64, sig, id []byte) (bool, error) {
	return s.verifyVector(v, sig, id, nil)
}

func (s *vectorScheme) verifyVector(v []float64, sig, id, pub []byte) (bool, error) {
	key, ok, err := s.publicKey(pub)
	if !ok {
		return false, err
	}
	got, err := s.g.NewPoint().SetBytes(sig)
	if err != nil {
		return false, nil
	}
	want, err := s.expected(key, v, id)
	if err != nil {
		return false, err
	}
	return got.Equal(want), nil
}

// Sign reads msg as a float32 vector and signs it under the identifier
// derived from msg.
func (s *vectorScheme) Sign(msg []byte) ([]byte, error) {
	v, id := vector.FromMessage(msg, s.dim)
	return s.SignVector(v, id)
}

// Verify is Sign's counterpart. A nil pub selects the own key.
func (s *vectorScheme) Verify(msg, sig, pub []byte) (bool, error) {
	v, id := vector.FromMessage(msg, s.dim)
	return s.verifyVector(v, sig, id, pub)
}

// VerifyLinearCombination accepts when every (vectors[i], sigs[i], ids[i])
// verifies under the own key and combined is close to
// sum(coeffs[i]*vectors[i]).
func (s *vectorScheme) VerifyLinearCombination(combined []float64, vectors [][]float64, sigs [][]byte, coeffs []float64, ids [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(vectors), len(sigs), len(coeffs), len(ids)); err != nil {
		return false, err
	}
	for i := range vectors {
		ok, err := s.VerifyVector(vectors[i], sigs[i], ids[i])
		if !ok || err != nil {
			return false, err
		}
	}
	want, err := vector.Combine(vectors, coeffs, s.dim)
	if err != nil {
		return false, err
	}
	return vector.AllClose(vector.Fit(combined, s.dim), want, s.tol), nil
}

// Aggregate adds the signature points.
func (s *vectorScheme) Aggregate(sigs [][]byte) ([]byte, error) {
	ps, err := decodePoints(s.g, sigs)
	if err != nil {
		return nil, err
	}
	return sumPoints(s.g, ps).Bytes(), nil
}

// AggregateVerify checks agg against the sum of the signatures recomputed
// for each byte message under its public key.
func (s *vectorScheme) AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(pubs)); err != nil {
		return false, err
	}
	got, err := s.g.NewPoint().SetBytes(agg)
	if err != nil {
		return false, nil
	}
	want := s.g.NewPoint()
	for i, msg := range msgs {
		key, ok, err := s.publicKey(pubs[i])
		if !ok {
			return false, err
		}
		v, id := vector.FromMessage(msg, s.dim)
		p, err := s.expected(key, v, id)
		if err != nil {
			return false, fmt.Errorf("message %d: %w", i, err)
		}
		want.Add(want, p)
	}
	return got.Equal(want), nil
}
