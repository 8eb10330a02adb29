package lattice

import (
	"fmt"
	"math/big"
	"math/bits"
)

// Params fixes the algebraic domain of the lattice MAC.
type Params struct {
	// N is the lattice dimension, a power of two.
	N int
	// Q is the prime modulus, with Q = 1 mod 2N so the ring admits an NTT.
	Q uint64
	// Sigma is the standard deviation of the per-tag Gaussian noise.
	Sigma float64
	// Bound is the maximum absolute value of one tag's noise. A combination
	// of k tags is accepted when its error is within k*Bound.
	Bound int
}

// DefaultParams: n = 256 and a 50-bit NTT-friendly prime.
var DefaultParams = Params{
	N:     256,
	Q:     0x3ffffffd20001,
	Sigma: 3.2,
	Bound: 19,
}

// Validate checks the parameter set for internal consistency.
func (p Params) Validate() error {
	if p.N < 16 || p.N&(p.N-1) != 0 {
		return fmt.Errorf("lattice: N must be a power of two >= 16, got %d", p.N)
	}
	if p.Q < 3 || bits.Len64(p.Q) > 56 {
		return fmt.Errorf("lattice: Q must fit in 56 bits, got %d", p.Q)
	}
	if !new(big.Int).SetUint64(p.Q).ProbablyPrime(32) {
		return fmt.Errorf("lattice: Q=%d is not prime", p.Q)
	}
	if p.Q%uint64(2*p.N) != 1 {
		return fmt.Errorf("lattice: Q=%d is not 1 mod 2N=%d", p.Q, 2*p.N)
	}
	if p.Sigma <= 0 {
		return fmt.Errorf("lattice: sigma must be > 0, got %v", p.Sigma)
	}
	if p.Bound < 1 || uint64(p.Bound) >= p.Q/2 {
		return fmt.Errorf("lattice: bound %d out of range", p.Bound)
	}
	return nil
}

// CoeffSize returns the number of bytes per encoded coefficient.
func (p Params) CoeffSize() int {
	return (bits.Len64(p.Q) + 7) / 8
}

// TagSize returns the encoded size of one tag.
func (p Params) TagSize() int {
	return p.N * p.CoeffSize()
}

// Tolerance returns the accepted error bound for a combination of k tags.
func (p Params) Tolerance(k int) uint64 {
	return uint64(k) * uint64(p.Bound)
}
