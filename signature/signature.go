package signature

import (
	"fmt"

	"github.com/f3rmion/homauth/bls12381"
	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// Scheme names as registered with the session package.
const (
	BLSName            = "BLS"
	BLSBlstName        = "BLS-blst"
	RSAName            = "RSA"
	RSAHomomorphicName = "RSA-homomorphic"
	EdDSAName          = "EdDSA"
	WatersName         = "Waters"
	LHSName            = "LHS"
	BonehBoyenName     = "BonehBoyen"
)

// DefaultDimension is the vector dimension of Waters and LHS.
const DefaultDimension = 100

// DST is the hash-to-curve domain separation tag for BLS signatures.
var DST = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_NUL_")

type options struct {
	pairing   group.Pairing
	group     group.Group
	dim       int
	quantizer vector.Quantizer
	tol       vector.Tolerance
}

// Option configures a curve-based signature at construction.
type Option func(*options)

// WithPairing sets the bilinear group for BLS and Boneh-Boyen. Default is
// BLS12-381.
func WithPairing(e group.Pairing) Option {
	return func(o *options) { o.pairing = e }
}

// WithGroup sets the group for Waters and LHS. Default is BLS12-381 G1.
func WithGroup(g group.Group) Option {
	return func(o *options) { o.group = g }
}

// WithDimension sets the vector dimension for Waters and LHS.
func WithDimension(n int) Option {
	return func(o *options) { o.dim = n }
}

// WithQuantizer sets the real-to-integer embedding for Waters and LHS.
func WithQuantizer(q vector.Quantizer) Option {
	return func(o *options) { o.quantizer = q }
}

// WithTolerance sets the closeness bound used when checking a claimed
// combined vector.
func WithTolerance(t vector.Tolerance) Option {
	return func(o *options) { o.tol = t }
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{
		dim:       DefaultDimension,
		quantizer: vector.DefaultQuantizer,
		tol:       vector.DefaultTolerance,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.pairing == nil {
		o.pairing = bls12381.New()
	}
	if o.group == nil {
		o.group = o.pairing.G1()
	}
	if o.dim <= 0 {
		return nil, fmt.Errorf("vector dimension must be > 0, got %d", o.dim)
	}
	if err := o.quantizer.Validate(); err != nil {
		return nil, err
	}
	return o, nil
}

// requireHasher returns g as a PointHasher or a backend error naming the
// missing capability.
func requireHasher(g group.Group) (group.PointHasher, error) {
	h, ok := g.(group.PointHasher)
	if !ok {
		return nil, scheme.Unavailable(fmt.Sprintf("hash to curve on %s", g.Name()))
	}
	return h, nil
}

// decodePoints parses every encoding as a point of g. Used by aggregation
// entry points, where a bad input is a structural error.
func decodePoints(g group.Group, encs [][]byte) ([]group.Point, error) {
	if len(encs) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	out := make([]group.Point, len(encs))
	for i, b := range encs {
		p, err := g.NewPoint().SetBytes(b)
		if err != nil {
			return nil, fmt.Errorf("%w: signature %d: %v", scheme.ErrMalformed, i, err)
		}
		out[i] = p
	}
	return out, nil
}

// sumPoints adds every point.
func sumPoints(g group.Group, ps []group.Point) group.Point {
	acc := g.NewPoint()
	for _, p := range ps {
		acc.Add(acc, p)
	}
	return acc
}
