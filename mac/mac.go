package mac

import (
	"crypto/subtle"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/homauth/field"
	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// Scheme names as registered with the session package.
const (
	AdditiveName   = "Additive_HMAC"
	LinearName     = "Linear_HMAC"
	PolynomialName = "Polynomial_HMAC"
)

const (
	// DefaultDimension is the vector dimension of the linear MAC.
	DefaultDimension = 100
	// DefaultDegree is the degree bound of the polynomial MAC.
	DefaultDegree = 3
)

type options struct {
	field     *field.Field
	fn        prf.Function
	quantizer vector.Quantizer
	dim       int
	degree    int
}

// Option configures a MAC at construction.
type Option func(*options)

// WithField sets the prime field. Default is Z_p for p = 2^256 - 189.
func WithField(f *field.Field) Option {
	return func(o *options) { o.field = f }
}

// WithPRF sets the keyed PRF. Default is SHAKE256.
func WithPRF(fn prf.Function) Option {
	return func(o *options) { o.fn = fn }
}

// WithQuantizer sets the real-to-integer embedding.
func WithQuantizer(q vector.Quantizer) Option {
	return func(o *options) { o.quantizer = q }
}

// WithDimension sets the vector dimension of the linear MAC.
func WithDimension(n int) Option {
	return func(o *options) { o.dim = n }
}

// WithDegree sets the degree bound of the polynomial MAC.
func WithDegree(d int) Option {
	return func(o *options) { o.degree = d }
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		field:     field.Default(),
		fn:        prf.NewShake256(),
		quantizer: vector.DefaultQuantizer,
		dim:       DefaultDimension,
		degree:    DefaultDegree,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.field == nil || o.fn == nil {
		return nil, fmt.Errorf("%w: nil field or PRF", scheme.ErrPrecondition)
	}
	if err := o.quantizer.Validate(); err != nil {
		return nil, err
	}
	if o.dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be > 0, got %d", o.dim)
	}
	if o.degree < 1 {
		return nil, fmt.Errorf("degree bound must be >= 1, got %d", o.degree)
	}
	return o, nil
}

// keyed holds the PRF secret shared by tagger and verifier.
type keyed struct {
	secret []byte
}

func (k *keyed) generate(r io.Reader) error {
	if k.secret != nil {
		return scheme.ErrKeyExists
	}
	secret, err := prf.NewSecret(r)
	if err != nil {
		return err
	}
	k.secret = secret
	return nil
}

func (k *keyed) key() ([]byte, error) {
	if k.secret == nil {
		return nil, scheme.ErrNoKey
	}
	return k.secret, nil
}

// decodeAll parses every tag as a field element, naming the first bad
// index.
func decodeAll(f *field.Field, tags [][]byte) ([]*big.Int, error) {
	if len(tags) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	out := make([]*big.Int, len(tags))
	for i, t := range tags {
		x, err := f.Decode(t)
		if err != nil {
			return nil, fmt.Errorf("%w: tag %d: %v", scheme.ErrMalformed, i, err)
		}
		out[i] = x
	}
	return out, nil
}

// weightedSum returns sum(q(coeffs[i]) * xs[i]) mod p.
func weightedSum(f *field.Field, q vector.Quantizer, xs []*big.Int, coeffs []float64) (*big.Int, error) {
	if err := scheme.CheckLengths(len(xs), len(coeffs)); err != nil {
		return nil, err
	}
	acc := new(big.Int)
	for i, x := range xs {
		acc = f.Add(acc, f.Mul(q.Quantize(coeffs[i]), x))
	}
	return acc, nil
}

func equalTags(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
