package prf

import (
	"math/big"

	"github.com/f3rmion/homauth/field"
)

// Deriver maps PRF output into a prime field. Each element is produced
// from bitlen(p)+128 PRF bits so the reduction bias is negligible.
type Deriver struct {
	fn Function
	f  *field.Field
}

// NewDeriver returns a Deriver over f using fn.
func NewDeriver(fn Function, f *field.Field) *Deriver {
	return &Deriver{fn: fn, f: f}
}

// Function returns the underlying PRF.
func (d *Deriver) Function() Function { return d.fn }

// Field returns the target field.
func (d *Deriver) Field() *field.Field { return d.f }

func (d *Deriver) element(label string, secret, id []byte, index uint32, buf []byte) *big.Int {
	d.fn.Expand(label, secret, id, index, buf)
	return d.f.Reduce(new(big.Int).SetBytes(buf))
}

// Scalar is derive_scalar: one field element for (secret, id).
func (d *Deriver) Scalar(secret, id []byte) *big.Int {
	buf := make([]byte, d.f.Width()+16)
	return d.element("scalar", secret, id, 0, buf)
}

// Vector is derive_vector: dim field elements for (secret, id), the i-th
// bound to index i.
func (d *Deriver) Vector(secret, id []byte, dim int) []*big.Int {
	buf := make([]byte, d.f.Width()+16)
	out := make([]*big.Int, dim)
	for i := range out {
		out[i] = d.element("vector", secret, id, uint32(i), buf)
	}
	return out
}
