package lattice

import (
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/tuneinsight/lattigo/v4/ring"
	"github.com/tuneinsight/lattigo/v4/utils"
)

// Name is the registered scheme name.
const Name = "Lattice_HMAC"

// MAC is an LWE-style homomorphic MAC over Z_q^n. A tag for message m
// under identifier id is
//
//	t = A*s + r_id + H(m)*g + e  (mod q)
//
// where A is a public n x n matrix, s the secret vector, r_id a
// PRF-derived vector, g a public gadget vector and e fresh bounded
// Gaussian noise. Tags are combined by coordinate-wise addition and
// verified by bounded-distance comparison.
//
// Tags travel in the NTT domain, so every coefficient of the wire form
// depends on every coefficient of t.
type MAC struct {
	params Params
	ringQ  *ring.Ring
	fn     prf.Function

	seed   []byte
	a      []*ring.Poly
	g      *ring.Poly
	as     *ring.Poly
	prfKey []byte
}

var (
	_ scheme.Tagger           = (*MAC)(nil)
	_ scheme.TagCombiner      = (*MAC)(nil)
	_ scheme.CombinedVerifier = (*MAC)(nil)
)

// Option configures a MAC at construction.
type Option func(*MAC)

// WithPRF sets the PRF used to derive r_id.
func WithPRF(fn prf.Function) Option {
	return func(m *MAC) { m.fn = fn }
}

// New returns a lattice MAC over params without key material.
func New(params Params, opts ...Option) (*MAC, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	ringQ, err := ring.NewRing(params.N, []uint64{params.Q})
	if err != nil {
		return nil, fmt.Errorf("%w: lattice ring: %v", scheme.ErrBackendUnavailable, err)
	}
	m := &MAC{params: params, ringQ: ringQ, fn: prf.NewShake256()}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Name returns "Lattice_HMAC".
func (m *MAC) Name() string { return Name }

// Params returns the parameter set.
func (m *MAC) Params() Params { return m.params }

// PRF returns the PRF that derives r_id.
func (m *MAC) PRF() prf.Function { return m.fn }

// SignatureSize returns N coefficients of CoeffSize bytes.
func (m *MAC) SignatureSize() int { return m.params.TagSize() }

// PublicKeySize returns 0. The matrix seed is public but verification
// needs the secret.
func (m *MAC) PublicKeySize() int { return 0 }

// MatrixSeed returns the seed A and g are expanded from.
func (m *MAC) MatrixSeed() []byte { return m.seed }

// GenerateKey draws a master secret from r and derives the matrix seed,
// the secret vector and the PRF key from it.
func (m *MAC) GenerateKey(r io.Reader) error {
	if m.as != nil {
		return scheme.ErrKeyExists
	}
	master, err := prf.NewSecret(r)
	if err != nil {
		return err
	}
	seed, err := prf.DeriveKey(master, "lattice/matrix", 32)
	if err != nil {
		return err
	}
	sSeed, err := prf.DeriveKey(master, "lattice/secret", 32)
	if err != nil {
		return err
	}
	prfKey, err := prf.DeriveKey(master, "lattice/prf", prf.SecretSize)
	if err != nil {
		return err
	}

	a, g, err := m.expandMatrix(seed)
	if err != nil {
		return err
	}
	s, err := m.uniform(sSeed)
	if err != nil {
		return err
	}

	as := m.ringQ.NewPoly()
	tmp := m.ringQ.NewPoly()
	for i, row := range a {
		as.Coeffs[0][i] = m.dot(row, s, tmp)
	}

	m.seed, m.a, m.g, m.as, m.prfKey = seed, a, g, as, prfKey
	return nil
}

// expandMatrix derives the N rows of A followed by g from one seed.
func (m *MAC) expandMatrix(seed []byte) ([]*ring.Poly, *ring.Poly, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, nil, err
	}
	sampler := ring.NewUniformSampler(prng, m.ringQ)
	a := make([]*ring.Poly, m.params.N)
	for i := range a {
		a[i] = m.ringQ.NewPoly()
		sampler.Read(a[i])
	}
	g := m.ringQ.NewPoly()
	sampler.Read(g)
	return a, g, nil
}

// uniform expands a seed into one uniform vector of Z_q^N.
func (m *MAC) uniform(seed []byte) (*ring.Poly, error) {
	prng, err := utils.NewKeyedPRNG(seed)
	if err != nil {
		return nil, err
	}
	p := m.ringQ.NewPoly()
	ring.NewUniformSampler(prng, m.ringQ).Read(p)
	return p, nil
}

// dot returns <x, y> mod q using tmp as scratch.
func (m *MAC) dot(x, y, tmp *ring.Poly) uint64 {
	q := m.params.Q
	m.ringQ.MulCoeffs(x, y, tmp)
	var acc uint64
	for _, c := range tmp.Coeffs[0] {
		acc += c
		if acc >= q {
			acc -= q
		}
	}
	return acc
}

func (m *MAC) hashMessage(msg []byte) uint64 {
	d := sha256.Sum256(msg)
	return new(big.Int).Mod(new(big.Int).SetBytes(d[:]), new(big.Int).SetUint64(m.params.Q)).Uint64()
}

// rID derives the identifier vector.
func (m *MAC) rID(id []byte) (*ring.Poly, error) {
	return m.uniform(prf.Bytes(m.fn, m.prfKey, id, 32))
}

// accumulate adds A*s + r_id + H(msg)*g into acc for every input.
func (m *MAC) accumulate(acc *ring.Poly, msgs, ids [][]byte) error {
	tmp := m.ringQ.NewPoly()
	for i := range msgs {
		r, err := m.rID(ids[i])
		if err != nil {
			return err
		}
		m.ringQ.Add(acc, m.as, acc)
		m.ringQ.Add(acc, r, acc)
		m.ringQ.MulScalar(m.g, m.hashMessage(msgs[i]), tmp)
		m.ringQ.Add(acc, tmp, acc)
	}
	return nil
}

// Tag authenticates msg under id. Each call draws fresh noise, so two
// tags of the same input differ.
func (m *MAC) Tag(msg, id []byte) ([]byte, error) {
	if m.as == nil {
		return nil, scheme.ErrNoKey
	}
	t := m.ringQ.NewPoly()
	if err := m.accumulate(t, [][]byte{msg}, [][]byte{id}); err != nil {
		return nil, err
	}
	prng, err := utils.NewPRNG()
	if err != nil {
		return nil, err
	}
	e := m.ringQ.NewPoly()
	ring.NewGaussianSampler(prng, m.ringQ, m.params.Sigma, m.params.Bound).Read(e)
	m.ringQ.Add(t, e, t)
	m.ringQ.NTT(t, t)
	return m.encode(t), nil
}

// VerifyTag accepts when the tag is within Bound of the noiseless value.
func (m *MAC) VerifyTag(msg, tag, id []byte) (bool, error) {
	return m.VerifyCombined([][]byte{msg}, [][]byte{id}, tag)
}

// CombineTags adds tags coordinate-wise mod q.
func (m *MAC) CombineTags(tags [][]byte) ([]byte, error) {
	if len(tags) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	acc := m.ringQ.NewPoly()
	for i, t := range tags {
		p, err := m.decode(t)
		if err != nil {
			return nil, fmt.Errorf("tag %d: %w", i, err)
		}
		m.ringQ.Add(acc, p, acc)
	}
	return m.encode(acc), nil
}

// VerifyCombined checks the sum of len(msgs) tags against the messages
// and identifiers, allowing len(msgs)*Bound of accumulated noise.
func (m *MAC) VerifyCombined(msgs, ids [][]byte, tag []byte) (bool, error) {
	if m.as == nil {
		return false, scheme.ErrNoKey
	}
	if err := scheme.CheckLengths(len(msgs), len(ids)); err != nil {
		return false, err
	}
	t, err := m.decode(tag)
	if err != nil {
		return false, nil
	}
	m.ringQ.InvNTT(t, t)

	expected := m.ringQ.NewPoly()
	if err := m.accumulate(expected, msgs, ids); err != nil {
		return false, err
	}
	m.ringQ.Sub(t, expected, t)
	return m.centeredNorm(t) <= m.params.Tolerance(len(msgs)), nil
}

// centeredNorm returns max |c| over the coefficients of p lifted to
// (-q/2, q/2].
func (m *MAC) centeredNorm(p *ring.Poly) uint64 {
	q := m.params.Q
	var norm uint64
	for _, c := range p.Coeffs[0] {
		if c > q/2 {
			c = q - c
		}
		norm = max(norm, c)
	}
	return norm
}

func (m *MAC) encode(p *ring.Poly) []byte {
	w := m.params.CoeffSize()
	out := make([]byte, m.params.TagSize())
	for i, c := range p.Coeffs[0] {
		for j := range w {
			out[i*w+j] = byte(c >> (8 * (w - 1 - j)))
		}
	}
	return out
}

func (m *MAC) decode(b []byte) (*ring.Poly, error) {
	if len(b) != m.params.TagSize() {
		return nil, fmt.Errorf("%w: tag is %d bytes, want %d", scheme.ErrMalformed, len(b), m.params.TagSize())
	}
	w := m.params.CoeffSize()
	p := m.ringQ.NewPoly()
	for i := range m.params.N {
		var c uint64
		for _, x := range b[i*w : (i+1)*w] {
			c = c<<8 | uint64(x)
		}
		if c >= m.params.Q {
			return nil, fmt.Errorf("%w: coefficient %d not reduced", scheme.ErrMalformed, i)
		}
		p.Coeffs[0][i] = c
	}
	return p, nil
}
