package field

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"math/big"
)

// DefaultModulus is 2^256 - 189, the largest 256-bit prime.
var DefaultModulus = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(189))

var (
	// ErrModulus is returned by New for moduli that are not odd primes.
	ErrModulus = errors.New("field: modulus must be an odd prime")
	// ErrEncoding is returned by Decode for inputs of the wrong width or
	// out of range.
	ErrEncoding = errors.New("field: invalid element encoding")
	// ErrInvertZero is returned by Inv for the zero element.
	ErrInvertZero = errors.New("field: cannot invert zero")
)

// Field is the prime field Z_p. Elements are *big.Int values in [0, p);
// every method returns a fresh value and never aliases its arguments.
//
// A Field is immutable and safe for concurrent use.
type Field struct {
	p     *big.Int
	width int
}

// New returns Z_p for the prime p.
func New(p *big.Int) (*Field, error) {
	if p == nil || p.Cmp(big.NewInt(2)) <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(32) {
		return nil, ErrModulus
	}
	return &Field{p: new(big.Int).Set(p), width: (p.BitLen() + 7) / 8}, nil
}

// Default returns Z_p for [DefaultModulus].
func Default() *Field {
	return &Field{p: DefaultModulus, width: 32}
}

// Modulus returns a copy of p.
func (f *Field) Modulus() *big.Int { return new(big.Int).Set(f.p) }

// Width returns the fixed encoding width in bytes.
func (f *Field) Width() int { return f.width }

// Reduce maps any integer, including negative ones, into [0, p).
func (f *Field) Reduce(x *big.Int) *big.Int {
	return new(big.Int).Mod(x, f.p)
}

func (f *Field) Add(a, b *big.Int) *big.Int {
	r := new(big.Int).Add(a, b)
	return r.Mod(r, f.p)
}

func (f *Field) Sub(a, b *big.Int) *big.Int {
	r := new(big.Int).Sub(a, b)
	return r.Mod(r, f.p)
}

func (f *Field) Mul(a, b *big.Int) *big.Int {
	r := new(big.Int).Mul(a, b)
	return r.Mod(r, f.p)
}

// Inv returns a^-1 mod p.
func (f *Field) Inv(a *big.Int) (*big.Int, error) {
	r := f.Reduce(a)
	if r.Sign() == 0 {
		return nil, ErrInvertZero
	}
	return r.ModInverse(r, f.p), nil
}

// Exp returns a^e mod p for e >= 0.
func (f *Field) Exp(a *big.Int, e uint64) *big.Int {
	return new(big.Int).Exp(f.Reduce(a), new(big.Int).SetUint64(e), f.p)
}

// Sum returns the sum of xs mod p; the empty sum is zero.
func (f *Field) Sum(xs ...*big.Int) *big.Int {
	acc := new(big.Int)
	for _, x := range xs {
		acc.Add(acc, x)
	}
	return acc.Mod(acc, f.p)
}

// InnerProduct returns sum(a[i]*b[i]) mod p over the shorter length.
func (f *Field) InnerProduct(a, b []*big.Int) *big.Int {
	n := min(len(a), len(b))
	acc := new(big.Int)
	term := new(big.Int)
	for i := range n {
		acc.Add(acc, term.Mul(a[i], b[i]))
	}
	return acc.Mod(acc, f.p)
}

// Encode returns the fixed-width big-endian encoding of x mod p.
func (f *Field) Encode(x *big.Int) []byte {
	out := make([]byte, f.width)
	f.Reduce(x).FillBytes(out)
	return out
}

// Decode parses a fixed-width big-endian element and rejects values >= p.
func (f *Field) Decode(b []byte) (*big.Int, error) {
	if len(b) != f.width {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrEncoding, len(b), f.width)
	}
	x := new(big.Int).SetBytes(b)
	if x.Cmp(f.p) >= 0 {
		return nil, fmt.Errorf("%w: value not reduced", ErrEncoding)
	}
	return x, nil
}

// HashMessage returns SHA-256(msg) read as a big-endian integer mod p.
func (f *Field) HashMessage(msg []byte) *big.Int {
	d := sha256.Sum256(msg)
	return f.Reduce(new(big.Int).SetBytes(d[:]))
}

// Random returns a uniform element read from r, reducing bitlen(p)+128
// bits.
func (f *Field) Random(r io.Reader) (*big.Int, error) {
	buf := make([]byte, f.width+16)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, err
	}
	return f.Reduce(new(big.Int).SetBytes(buf)), nil
}

// RandomNonZero is Random restricted to [1, p).
func (f *Field) RandomNonZero(r io.Reader) (*big.Int, error) {
	for {
		x, err := f.Random(r)
		if err != nil {
			return nil, err
		}
		if x.Sign() != 0 {
			return x, nil
		}
	}
}
