package group

import (
	"io"
)

// Scalar is an integer modulo the order of a [Group].
//
// Arithmetic methods set the receiver to the result and return it, so
// a fresh value is obtained with g.NewScalar().Op(...). Results are always
// reduced into [0, order).
type Scalar interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Scalar) Scalar
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Scalar) Scalar
	// Mul sets the receiver to a*b and returns it.
	Mul(a, b Scalar) Scalar
	// Negate sets the receiver to -a and returns it.
	Negate(a Scalar) Scalar
	// Invert sets the receiver to a^{-1} and returns it.
	// Returns an error if a is zero.
	Invert(a Scalar) (Scalar, error)
	// Set sets the receiver to a and returns it.
	Set(a Scalar) Scalar
	// Bytes returns the fixed-width big-endian encoding of the scalar.
	Bytes() []byte
	// SetBytes sets the receiver from a big-endian byte slice and returns it.
	SetBytes(data []byte) (Scalar, error)
	// Equal reports whether the receiver equals b.
	Equal(b Scalar) bool
	// IsZero reports whether the receiver is zero.
	IsZero() bool
}

// Point is an element of a prime-order group written additively.
// It follows the same mutable receiver convention as [Scalar].
type Point interface {
	// Add sets the receiver to a+b and returns it.
	Add(a, b Point) Point
	// Sub sets the receiver to a-b and returns it.
	Sub(a, b Point) Point
	// Negate sets the receiver to -a and returns it.
	Negate(a Point) Point
	// ScalarMult sets the receiver to s*p and returns it.
	ScalarMult(s Scalar, p Point) Point
	// Set sets the receiver to a and returns it.
	Set(a Point) Point
	// Bytes returns the compressed encoding of the point.
	Bytes() []byte
	// SetBytes decodes a compressed point into the receiver.
	// Returns an error for encodings that are not group elements.
	SetBytes(data []byte) (Point, error)
	// Equal reports whether the receiver equals b.
	Equal(b Point) bool
	// IsIdentity reports whether the receiver is the identity element.
	IsIdentity() bool
}

// Group is a prime-order group together with its scalar field.
//
// The vector-homomorphic signatures are written against this interface
// only, so any conforming curve can serve as their backend:
//
//	g := bls12381.NewG1()
//	x, _ := g.RandomScalar(rand.Reader)
//	pk := g.NewPoint().ScalarMult(x, g.Generator())
type Group interface {
	// Name identifies the group in logs and errors.
	Name() string
	// NewScalar returns a new zero scalar.
	NewScalar() Scalar
	// NewPoint returns a new identity point.
	NewPoint() Point
	// Generator returns the group's base point.
	Generator() Point
	// RandomScalar returns a uniformly random scalar read from r.
	RandomScalar(r io.Reader) (Scalar, error)
	// HashToScalar hashes the input data to a scalar.
	HashToScalar(data ...[]byte) (Scalar, error)
	// Order returns the group order as a big-endian byte slice.
	Order() []byte
	// PointLen returns the length of a compressed point encoding.
	PointLen() int
}

// PointHasher is implemented by groups that can hash arbitrary messages
// directly onto the curve.
type PointHasher interface {
	// HashToPoint maps msg to a point using domain separation tag dst.
	HashToPoint(msg, dst []byte) (Point, error)
}
