package mac

import (
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/homauth/field"
	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// Polynomial is a homomorphic MAC for polynomials of bounded degree over
// Z_p. A tag is a polynomial y(X) with
//
//	y(0) = H(m)   and   y(alpha) = PRF(k, id)
//
// for a secret evaluation point alpha. Tags add and multiply as
// polynomials, so evaluating an arithmetic circuit f on tags yields a tag
// for f applied to the messages, as long as the degree stays within the
// configured bound. Every tag is encoded with Degree+1 coefficients.
type Polynomial struct {
	keyed
	d      *prf.Deriver
	q      vector.Quantizer
	degree int

	alpha  *big.Int
	prfKey []byte
}

var (
	_ scheme.Tagger           = (*Polynomial)(nil)
	_ scheme.TagCombiner      = (*Polynomial)(nil)
	_ scheme.CombinedVerifier = (*Polynomial)(nil)
)

// Term is Coeff * x_0^Exponents[0] * x_1^Exponents[1] * ...
type Term struct {
	Coeff     int64
	Exponents []int
}

// Circuit is a multivariate polynomial given as a sum of terms. Variable
// i refers to the i-th input of Evaluate.
type Circuit []Term

// Vars returns the number of variables the circuit reads.
func (c Circuit) Vars() int {
	n := 0
	for _, t := range c {
		n = max(n, len(t.Exponents))
	}
	return n
}

func (c Circuit) validate(inputs int) error {
	if len(c) == 0 {
		return scheme.ErrEmptyInput
	}
	if c.Vars() > inputs {
		return fmt.Errorf("%w: circuit reads %d inputs, got %d", scheme.ErrLengthMismatch, c.Vars(), inputs)
	}
	for i, t := range c {
		for _, e := range t.Exponents {
			if e < 0 {
				return fmt.Errorf("%w: term %d has a negative exponent", scheme.ErrMalformed, i)
			}
		}
	}
	return nil
}

// evalField evaluates c at field points xs.
func (c Circuit) evalField(f *field.Field, xs []*big.Int) *big.Int {
	acc := new(big.Int)
	for _, t := range c {
		term := f.Reduce(big.NewInt(t.Coeff))
		for i, e := range t.Exponents {
			term = f.Mul(term, f.Exp(xs[i], uint64(e)))
		}
		acc = f.Add(acc, term)
	}
	return acc
}

// NewPolynomial returns a polynomial MAC without key material.
func NewPolynomial(opts ...Option) (*Polynomial, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Polynomial{
		d:      prf.NewDeriver(o.fn, o.field),
		q:      o.quantizer,
		degree: o.degree,
	}, nil
}

// Name returns "Polynomial_HMAC".
func (p *Polynomial) Name() string { return PolynomialName }

// PRF returns the keyed PRF.
func (p *Polynomial) PRF() prf.Function { return p.d.Function() }

// Degree returns the degree bound.
func (p *Polynomial) Degree() int { return p.degree }

// SignatureSize returns (Degree+1) field elements.
func (p *Polynomial) SignatureSize() int { return (p.degree + 1) * p.d.Field().Width() }

// PublicKeySize returns 0.
func (p *Polynomial) PublicKeySize() int { return 0 }

// GenerateKey draws a master secret and derives the evaluation point
// alpha and the PRF key from it. Nothing is stored unless every step
// succeeds.
func (p *Polynomial) GenerateKey(r io.Reader) error {
	if p.secret != nil {
		return scheme.ErrKeyExists
	}
	secret, err := prf.NewSecret(r)
	if err != nil {
		return err
	}
	alpha, err := p.d.Field().RandomNonZero(prf.KeyStream(secret, "polynomial/alpha"))
	if err != nil {
		return fmt.Errorf("failed to derive evaluation point: %w", err)
	}
	key, err := prf.DeriveKey(secret, "polynomial/prf", prf.SecretSize)
	if err != nil {
		return err
	}
	p.secret, p.alpha, p.prfKey = secret, alpha, key
	return nil
}

func (p *Polynomial) ready() error {
	if p.alpha == nil {
		return scheme.ErrNoKey
	}
	return nil
}

// poly is a coefficient vector, lowest degree first.
type poly []*big.Int

func (p *Polynomial) zero() poly {
	y := make(poly, p.degree+1)
	for i := range y {
		y[i] = new(big.Int)
	}
	return y
}

func (y poly) deg() int {
	for i := len(y) - 1; i > 0; i-- {
		if y[i].Sign() != 0 {
			return i
		}
	}
	return 0
}

func (p *Polynomial) encode(y poly) []byte {
	f := p.d.Field()
	w := f.Width()
	out := make([]byte, 0, len(y)*w)
	for _, c := range y {
		out = append(out, f.Encode(c)...)
	}
	return out
}

func (p *Polynomial) decode(b []byte) (poly, error) {
	f := p.d.Field()
	w := f.Width()
	if len(b) != p.SignatureSize() {
		return nil, fmt.Errorf("%w: tag is %d bytes, want %d", scheme.ErrMalformed, len(b), p.SignatureSize())
	}
	y := make(poly, p.degree+1)
	for i := range y {
		c, err := f.Decode(b[i*w : (i+1)*w])
		if err != nil {
			return nil, fmt.Errorf("%w: %v", scheme.ErrMalformed, err)
		}
		y[i] = c
	}
	return y, nil
}

func (p *Polynomial) decodeAll(tags [][]byte) ([]poly, error) {
	if len(tags) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	out := make([]poly, len(tags))
	for i, t := range tags {
		y, err := p.decode(t)
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		out[i] = y
	}
	return out, nil
}

func (p *Polynomial) add(a, b poly) poly {
	f := p.d.Field()
	y := p.zero()
	for i := range y {
		y[i] = f.Add(a[i], b[i])
	}
	return y
}

func (p *Polynomial) scale(c *big.Int, a poly) poly {
	f := p.d.Field()
	y := p.zero()
	for i := range y {
		y[i] = f.Mul(c, a[i])
	}
	return y
}

func (p *Polynomial) mul(a, b poly) (poly, error) {
	da, db := a.deg(), b.deg()
	if da+db > p.degree {
		return nil, fmt.Errorf("%w: product has degree %d, bound is %d", scheme.ErrDegreeBound, da+db, p.degree)
	}
	f := p.d.Field()
	y := p.zero()
	for i := 0; i <= da; i++ {
		for j := 0; j <= db; j++ {
			y[i+j] = f.Add(y[i+j], f.Mul(a[i], b[j]))
		}
	}
	return y, nil
}

func (p *Polynomial) constant(c *big.Int) poly {
	y := p.zero()
	y[0] = p.d.Field().Reduce(c)
	return y
}

// at evaluates y at x with Horner's rule.
func (p *Polynomial) at(y poly, x *big.Int) *big.Int {
	f := p.d.Field()
	acc := new(big.Int)
	for i := len(y) - 1; i >= 0; i-- {
		acc = f.Add(f.Mul(acc, x), y[i])
	}
	return acc
}

func (p *Polynomial) r(id []byte) *big.Int {
	return p.d.Scalar(p.prfKey, id)
}

// Tag returns the degree-one tag (H(m), (r - H(m)) / alpha).
func (p *Polynomial) Tag(msg, id []byte) ([]byte, error) {
	if err := p.ready(); err != nil {
		return nil, err
	}
	f := p.d.Field()
	h := f.HashMessage(msg)
	inv, err := f.Inv(p.alpha)
	if err != nil {
		return nil, err
	}
	y := p.zero()
	y[0] = h
	y[1] = f.Mul(f.Sub(p.r(id), h), inv)
	return p.encode(y), nil
}

// check reports whether y(0) == m and y(alpha) == r.
func (p *Polynomial) check(tag []byte, m, r *big.Int) bool {
	y, err := p.decode(tag)
	if err != nil {
		return false
	}
	return y[0].Cmp(m) == 0 && p.at(y, p.alpha).Cmp(r) == 0
}

// VerifyTag checks a fresh or derived tag for a single message.
func (p *Polynomial) VerifyTag(msg, tag, id []byte) (bool, error) {
	if err := p.ready(); err != nil {
		return false, err
	}
	return p.check(tag, p.d.Field().HashMessage(msg), p.r(id)), nil
}

// Add returns the tag of m1 + m2.
func (p *Polynomial) Add(t1, t2 []byte) ([]byte, error) {
	ys, err := p.decodeAll([][]byte{t1, t2})
	if err != nil {
		return nil, err
	}
	return p.encode(p.add(ys[0], ys[1])), nil
}

// Mul returns the tag of m1 * m2, or ErrDegreeBound when the product
// would exceed the degree bound.
func (p *Polynomial) Mul(t1, t2 []byte) ([]byte, error) {
	ys, err := p.decodeAll([][]byte{t1, t2})
	if err != nil {
		return nil, err
	}
	y, err := p.mul(ys[0], ys[1])
	if err != nil {
		return nil, err
	}
	return p.encode(y), nil
}

// Scale returns the tag of Q(c) * m.
func (p *Polynomial) Scale(tag []byte, c float64) ([]byte, error) {
	y, err := p.decode(tag)
	if err != nil {
		return nil, err
	}
	return p.encode(p.scale(p.d.Field().Reduce(p.q.Quantize(c)), y)), nil
}

// CombineTags sums tags with unit coefficients.
func (p *Polynomial) CombineTags(tags [][]byte) ([]byte, error) {
	return p.PolynomialCombine(tags, nil)
}

// PolynomialCombine returns sum(Q(coeffs[i]) * tags[i]). A nil coeffs
// slice means unit coefficients.
func (p *Polynomial) PolynomialCombine(tags [][]byte, coeffs []float64) ([]byte, error) {
	ys, err := p.decodeAll(tags)
	if err != nil {
		return nil, err
	}
	if coeffs != nil {
		if err := scheme.CheckLengths(len(ys), len(coeffs)); err != nil {
			return nil, err
		}
	}
	f := p.d.Field()
	acc := p.zero()
	for i, y := range ys {
		if coeffs != nil {
			y = p.scale(f.Reduce(p.q.Quantize(coeffs[i])), y)
		}
		acc = p.add(acc, y)
	}
	return p.encode(acc), nil
}

// Evaluate applies the circuit to tags, producing a tag for the circuit
// applied to the underlying messages.
func (p *Polynomial) Evaluate(c Circuit, tags [][]byte) ([]byte, error) {
	ys, err := p.decodeAll(tags)
	if err != nil {
		return nil, err
	}
	if err := c.validate(len(ys)); err != nil {
		return nil, err
	}
	acc := p.zero()
	for _, t := range c {
		term := p.constant(big.NewInt(t.Coeff))
		for i, e := range t.Exponents {
			for range e {
				if term, err = p.mul(term, ys[i]); err != nil {
					return nil, err
				}
			}
		}
		acc = p.add(acc, term)
	}
	return p.encode(acc), nil
}

// VerifyEvaluation checks that tag authenticates c(H(msgs[0]), ...)
// under the identifiers ids.
func (p *Polynomial) VerifyEvaluation(c Circuit, msgs, ids [][]byte, tag []byte) (bool, error) {
	hs, rs, err := p.inputs(msgs, ids)
	if err != nil {
		return false, err
	}
	if err := c.validate(len(msgs)); err != nil {
		return false, err
	}
	f := p.d.Field()
	return p.check(tag, c.evalField(f, hs), c.evalField(f, rs)), nil
}

// VerifyCombined checks a unit-coefficient sum of tags.
func (p *Polynomial) VerifyCombined(msgs, ids [][]byte, tag []byte) (bool, error) {
	return p.VerifyPolynomialCombination(msgs, ids, nil, tag)
}

// VerifyPolynomialCombination checks a tag produced by
// PolynomialCombine. A nil coeffs slice means unit coefficients.
func (p *Polynomial) VerifyPolynomialCombination(msgs, ids [][]byte, coeffs []float64, tag []byte) (bool, error) {
	hs, rs, err := p.inputs(msgs, ids)
	if err != nil {
		return false, err
	}
	f := p.d.Field()
	if coeffs == nil {
		return p.check(tag, f.Sum(hs...), f.Sum(rs...)), nil
	}
	m, err := weightedSum(f, p.q, hs, coeffs)
	if err != nil {
		return false, err
	}
	r, err := weightedSum(f, p.q, rs, coeffs)
	if err != nil {
		return false, err
	}
	return p.check(tag, m, r), nil
}

// inputs returns H(msgs[i]) and PRF(k, ids[i]) for every input.
func (p *Polynomial) inputs(msgs, ids [][]byte) (hs, rs []*big.Int, err error) {
	if err := p.ready(); err != nil {
		return nil, nil, err
	}
	if err := scheme.CheckLengths(len(msgs), len(ids)); err != nil {
		return nil, nil, err
	}
	f := p.d.Field()
	hs = make([]*big.Int, len(msgs))
	rs = make([]*big.Int, len(msgs))
	for i := range msgs {
		hs[i] = f.HashMessage(msgs[i])
		rs[i] = p.r(ids[i])
	}
	return hs, rs, nil
}
