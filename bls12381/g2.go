package bls12381

import (
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/f3rmion/homauth/group"
)

// G2Point is a point of the BLS12-381 G2 subgroup in affine coordinates.
type G2Point struct {
	inner curve.G2Affine
}

// Add sets p to a + b and returns p.
func (p *G2Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*G2Point).inner, &b.(*G2Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *G2Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(&a.(*G2Point).inner, &b.(*G2Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *G2Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*G2Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *G2Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*G2Point).inner, s.(*Scalar).bigInt())
	return p
}

// Set copies a into p and returns p.
func (p *G2Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*G2Point).inner)
	return p
}

// Bytes returns the 96-byte compressed encoding.
func (p *G2Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a compressed G2 point with subgroup check.
func (p *G2Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != curve.SizeOfG2AffineCompressed {
		return nil, errPointLength
	}
	var q curve.G2Affine
	if _, err := q.SetBytes(data); err != nil {
		return nil, err
	}
	p.inner = q
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *G2Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*G2Point).inner)
}

// IsIdentity reports whether p is the point at infinity.
func (p *G2Point) IsIdentity() bool {
	return p.inner.IsInfinity()
}

// G2 implements [group.Group] and [group.PointHasher] for BLS12-381 G2.
type G2 struct{}

// NewG2 returns the G2 group.
func NewG2() *G2 { return &G2{} }

func (g *G2) Name() string { return "BLS12-381/G2" }
func (g *G2) NewScalar() group.Scalar { return new(Scalar) }
func (g *G2) NewPoint() group.Point { return new(G2Point) }
func (g *G2) Generator() group.Point { return &G2Point{inner: g2Gen} }
func (g *G2) Order() []byte { return fr.Modulus().Bytes() }
func (g *G2) PointLen() int { return curve.SizeOfG2AffineCompressed }
func (g *G2) HashToScalar(data ...[]byte) (group.Scalar, error) {
	return hashToScalar(data...)
}

func (g *G2) RandomScalar(r io.Reader) (group.Scalar, error) {
	return randomScalar(r)
}

// HashToPoint hashes msg onto G2 with the SSWU map.
func (g *G2) HashToPoint(msg, dst []byte) (group.Point, error) {
	q, err := curve.HashToG2(msg, dst)
	if err != nil {
		return nil, err
	}
	return &G2Point{inner: q}, nil
}
