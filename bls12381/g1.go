package bls12381

import (
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/f3rmion/homauth/group"
)

// G1Point is a point of the BLS12-381 G1 subgroup in affine coordinates.
type G1Point struct {
	inner curve.G1Affine
}

// Add sets p to a + b and returns p.
func (p *G1Point) Add(a, b group.Point) group.Point {
	p.inner.Add(&a.(*G1Point).inner, &b.(*G1Point).inner)
	return p
}

// Sub sets p to a - b and returns p.
func (p *G1Point) Sub(a, b group.Point) group.Point {
	p.inner.Sub(&a.(*G1Point).inner, &b.(*G1Point).inner)
	return p
}

// Negate sets p to -a and returns p.
func (p *G1Point) Negate(a group.Point) group.Point {
	p.inner.Neg(&a.(*G1Point).inner)
	return p
}

// ScalarMult sets p to s * q and returns p.
func (p *G1Point) ScalarMult(s group.Scalar, q group.Point) group.Point {
	p.inner.ScalarMultiplication(&q.(*G1Point).inner, s.(*Scalar).bigInt())
	return p
}

// Set copies a into p and returns p.
func (p *G1Point) Set(a group.Point) group.Point {
	p.inner.Set(&a.(*G1Point).inner)
	return p
}

// Bytes returns the 48-byte compressed encoding.
func (p *G1Point) Bytes() []byte {
	b := p.inner.Bytes()
	return b[:]
}

// SetBytes decodes a compressed G1 point. Decoding fails for points off
// the curve or outside the prime-order subgroup.
func (p *G1Point) SetBytes(data []byte) (group.Point, error) {
	if len(data) != curve.SizeOfG1AffineCompressed {
		return nil, errPointLength
	}
	var q curve.G1Affine
	if _, err := q.SetBytes(data); err != nil {
		return nil, err
	}
	p.inner = q
	return p, nil
}

// Equal reports whether p and b are the same point.
func (p *G1Point) Equal(b group.Point) bool {
	return p.inner.Equal(&b.(*G1Point).inner)
}

// IsIdentity reports whether p is the point at infinity.
func (p *G1Point) IsIdentity() bool {
	return p.inner.IsInfinity()
}

// G1 implements [group.Group] and [group.PointHasher] for BLS12-381 G1.
type G1 struct{}

// NewG1 returns the G1 group.
func NewG1() *G1 { return &G1{} }

// Name returns "BLS12-381/G1".
func (g *G1) Name() string { return "BLS12-381/G1" }

// NewScalar returns a zero scalar.
func (g *G1) NewScalar() group.Scalar { return new(Scalar) }

// NewPoint returns the point at infinity.
func (g *G1) NewPoint() group.Point { return new(G1Point) }

// Generator returns the standard G1 generator.
func (g *G1) Generator() group.Point {
	return &G1Point{inner: g1Gen}
}

// RandomScalar reads 48 bytes from r and reduces them into Fr.
func (g *G1) RandomScalar(r io.Reader) (group.Scalar, error) {
	return randomScalar(r)
}

// HashToScalar hashes data into Fr with the RFC 9380 expand_message_xmd
// construction.
func (g *G1) HashToScalar(data ...[]byte) (group.Scalar, error) {
	return hashToScalar(data...)
}

// HashToPoint hashes msg onto G1 with the SSWU map.
func (g *G1) HashToPoint(msg, dst []byte) (group.Point, error) {
	q, err := curve.HashToG1(msg, dst)
	if err != nil {
		return nil, err
	}
	return &G1Point{inner: q}, nil
}

// Order returns r, the order of G1.
func (g *G1) Order() []byte { return fr.Modulus().Bytes() }

// PointLen returns 48.
func (g *G1) PointLen() int { return curve.SizeOfG1AffineCompressed }
