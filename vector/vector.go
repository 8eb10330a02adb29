package vector

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/f3rmion/homauth/scheme"
)

// IDSize is the length of identifiers derived by FromMessage.
const IDSize = 16

// Fit returns a copy of v padded with zeros or truncated to dim entries.
func Fit(v []float64, dim int) []float64 {
	out := make([]float64, dim)
	copy(out, v)
	return out
}

// Combine returns sum(coeffs[i] * vectors[i]) in dimension dim. Every
// input vector is fitted to dim first.
func Combine(vectors [][]float64, coeffs []float64, dim int) ([]float64, error) {
	if err := scheme.CheckLengths(len(vectors), len(coeffs)); err != nil {
		return nil, err
	}
	out := make([]float64, dim)
	for i, v := range vectors {
		for j := 0; j < dim && j < len(v); j++ {
			out[j] += coeffs[i] * v[j]
		}
	}
	return out, nil
}

// Tolerance is an elementwise closeness bound |a-b| <= ATol + RTol*|b|.
type Tolerance struct {
	RTol float64
	ATol float64
}

// DefaultTolerance matches the usual floating point defaults.
var DefaultTolerance = Tolerance{RTol: 1e-5, ATol: 1e-8}

// AllClose reports whether a and b have equal length and every pair of
// entries is within tol. NaN is never close to anything.
func AllClose(a, b []float64, tol Tolerance) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.IsInf(a[i], 0) || math.IsInf(b[i], 0) {
			if a[i] != b[i] {
				return false
			}
			continue
		}
		if !(math.Abs(a[i]-b[i]) <= tol.ATol+tol.RTol*math.Abs(b[i])) {
			return false
		}
	}
	return true
}

// EncodeFloat32 serializes v as little-endian IEEE-754 single precision
// values in index order.
func EncodeFloat32(v []float64) []byte {
	out := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(out[4*i:], math.Float32bits(float32(x)))
	}
	return out
}

// DecodeFloat32 parses the output of EncodeFloat32.
func DecodeFloat32(b []byte) ([]float64, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a whole number of float32 values", scheme.ErrMalformed, len(b))
	}
	out := make([]float64, len(b)/4)
	for i := range out {
		out[i] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:])))
	}
	return out, nil
}

// FromMessage reads a byte message as a float32 vector of dimension dim
// and derives its identifier, the first IDSize bytes of SHA-256(msg).
// Bytes beyond dim values, and a trailing partial value, are ignored for
// the vector but still bind the identifier.
func FromMessage(msg []byte, dim int) ([]float64, []byte) {
	n := min(len(msg), 4*dim)
	n -= n % 4
	v, _ := DecodeFloat32(msg[:n])
	sum := sha256.Sum256(msg)
	return Fit(v, dim), sum[:IDSize]
}
