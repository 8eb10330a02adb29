package mac

import (
	"io"
	"math/big"
	"slices"

	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// Linear is the inner-product MAC on real vectors:
//
//	tag(v, id) = <PRF_vec(k, id), Q(v)> mod p
//
// where Q is the configured quantizer. Vectors are fitted to the
// configured dimension first.
type Linear struct {
	keyed
	d   *prf.Deriver
	q   vector.Quantizer
	dim int
	tol vector.Tolerance
}

var (
	_ scheme.Tagger            = (*Linear)(nil)
	_ scheme.VectorSigner      = (*Linear)(nil)
	_ scheme.TagCombiner       = (*Linear)(nil)
	_ scheme.CombinedVerifier  = (*Linear)(nil)
	_ scheme.TagLinearVerifier = (*Linear)(nil)
)

// NewLinear returns a linear MAC without key material.
func NewLinear(opts ...Option) (*Linear, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Linear{
		d:   prf.NewDeriver(o.fn, o.field),
		q:   o.quantizer,
		dim: o.dim,
		tol: vector.DefaultTolerance,
	}, nil
}

// Name returns "Linear_HMAC".
func (l *Linear) Name() string { return LinearName }

// PRF returns the keyed PRF behind the per-identifier vectors.
func (l *Linear) PRF() prf.Function { return l.d.Function() }

// GenerateKey draws the PRF secret.
func (l *Linear) GenerateKey(r io.Reader) error { return l.generate(r) }

// SignatureSize returns the field width.
func (l *Linear) SignatureSize() int { return l.d.Field().Width() }

// PublicKeySize returns 0.
func (l *Linear) PublicKeySize() int { return 0 }

// VectorDim returns the configured dimension.
func (l *Linear) VectorDim() int { return l.dim }

func (l *Linear) value(secret []byte, v []float64, id []byte) *big.Int {
	k := l.d.Vector(secret, id, l.dim)
	return l.d.Field().InnerProduct(k, l.q.QuantizeVector(vector.Fit(v, l.dim)))
}

// SignVector tags v under id.
func (l *Linear) SignVector(v []float64, id []byte) ([]byte, error) {
	secret, err := l.key()
	if err != nil {
		return nil, err
	}
	return l.d.Field().Encode(l.value(secret, v, id)), nil
}

// VerifyVector recomputes the tag for v and compares.
func (l *Linear) VerifyVector(v []float64, tag, id []byte) (bool, error) {
	secret, err := l.key()
	if err != nil {
		return false, err
	}
	return equalTags(tag, l.d.Field().Encode(l.value(secret, v, id))), nil
}

// fromMessage reads msg as a vector and extends id with the message
// digest, so bytes the quantizer drops are still authenticated.
func (l *Linear) fromMessage(msg, id []byte) ([]float64, []byte) {
	v, digest := vector.FromMessage(msg, l.dim)
	return v, append(slices.Clone(id), digest...)
}

// Tag reads msg as a little-endian float32 vector and tags it under id
// extended with the digest of msg.
func (l *Linear) Tag(msg, id []byte) ([]byte, error) {
	v, mid := l.fromMessage(msg, id)
	return l.SignVector(v, mid)
}

// VerifyTag is the byte-message form of VerifyVector.
func (l *Linear) VerifyTag(msg, tag, id []byte) (bool, error) {
	v, mid := l.fromMessage(msg, id)
	return l.VerifyVector(v, tag, mid)
}

// CombineTags sums tags with unit coefficients.
func (l *Linear) CombineTags(tags [][]byte) ([]byte, error) {
	xs, err := decodeAll(l.d.Field(), tags)
	if err != nil {
		return nil, err
	}
	f := l.d.Field()
	return f.Encode(f.Sum(xs...)), nil
}

// LinearCombine returns sum(Q(coeffs[i]) * tags[i]) mod p.
func (l *Linear) LinearCombine(tags [][]byte, coeffs []float64) ([]byte, error) {
	xs, err := decodeAll(l.d.Field(), tags)
	if err != nil {
		return nil, err
	}
	sum, err := weightedSum(l.d.Field(), l.q, xs, coeffs)
	if err != nil {
		return nil, err
	}
	return l.d.Field().Encode(sum), nil
}

// VerifyCombined checks a unit-coefficient combination of byte-message
// tags.
func (l *Linear) VerifyCombined(msgs, ids [][]byte, tag []byte) (bool, error) {
	secret, err := l.key()
	if err != nil {
		return false, err
	}
	if err := scheme.CheckLengths(len(msgs), len(ids)); err != nil {
		return false, err
	}
	f := l.d.Field()
	acc := new(big.Int)
	for i := range msgs {
		v, mid := l.fromMessage(msgs[i], ids[i])
		acc = f.Add(acc, l.value(secret, v, mid))
	}
	return equalTags(tag, f.Encode(acc)), nil
}

// VerifyTagLinearCombination checks that combinedTag equals
// LinearCombine of the tags of vectors under ids, and that combined is
// the coefficient-weighted sum of vectors within tolerance.
func (l *Linear) VerifyTagLinearCombination(combined []float64, combinedTag []byte, vectors [][]float64, coeffs []float64, ids [][]byte) (bool, error) {
	secret, err := l.key()
	if err != nil {
		return false, err
	}
	if err := scheme.CheckLengths(len(vectors), len(coeffs), len(ids)); err != nil {
		return false, err
	}
	expectedVec, err := vector.Combine(vectors, coeffs, l.dim)
	if err != nil {
		return false, err
	}
	if !vector.AllClose(vector.Fit(combined, l.dim), expectedVec, l.tol) {
		return false, nil
	}
	xs := make([]*big.Int, len(vectors))
	for i := range vectors {
		xs[i] = l.value(secret, vectors[i], ids[i])
	}
	sum, err := weightedSum(l.d.Field(), l.q, xs, coeffs)
	if err != nil {
		return false, err
	}
	return equalTags(combinedTag, l.d.Field().Encode(sum)), nil
}
