package signature

import (
	"crypto/rand"
	"fmt"
	"io"

	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
)

var bbDomain = []byte("homauth/bonehboyen/msg/v1")

// BonehBoyen is the short signature sigma = (x + H(m))^-1 * G1 with public
// key x*G2. Signatures aggregate by point addition, but an aggregate
// cannot be verified on its own; use BatchVerify on the individual
// signatures instead.
type BonehBoyen struct {
	e group.Pairing

	sk group.Scalar
	pk group.Point
}

var (
	_ scheme.Signer        = (*BonehBoyen)(nil)
	_ scheme.Aggregator    = (*BonehBoyen)(nil)
	_ scheme.BatchVerifier = (*BonehBoyen)(nil)
)

// NewBonehBoyen returns a Boneh-Boyen signer without key material.
func NewBonehBoyen(opts ...Option) (*BonehBoyen, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &BonehBoyen{e: o.pairing}, nil
}

// Name returns [BonehBoyenName].
func (b *BonehBoyen) Name() string { return BonehBoyenName }

// SignatureSize returns the encoded size of a G1 point.
func (b *BonehBoyen) SignatureSize() int { return b.e.G1().PointLen() }

// PublicKeySize returns the encoded size of a G2 point.
func (b *BonehBoyen) PublicKeySize() int { return b.e.G2().PointLen() }

// GenerateKey draws the secret scalar x from r and sets pk = x*G2.
func (b *BonehBoyen) GenerateKey(r io.Reader) error {
	if b.sk != nil {
		return scheme.ErrKeyExists
	}
	g2 := b.e.G2()
	x, err := g2.RandomScalar(r)
	if err != nil {
		return err
	}
	b.sk = x
	b.pk = g2.NewPoint().ScalarMult(x, g2.Generator())
	return nil
}

// PublicKey returns the encoded G2 public key.
func (b *BonehBoyen) PublicKey() ([]byte, error) {
	if b.pk == nil {
		return nil, scheme.ErrNoKey
	}
	return b.pk.Bytes(), nil
}

func (b *BonehBoyen) hash(msg []byte) (group.Scalar, error) {
	return b.e.G1().HashToScalar(bbDomain, msg)
}

// Sign returns (x + H(msg))^-1 * G1. It fails with ErrDomainCollision in
// the negligible case x + H(msg) = 0; signing is deterministic, so there is
// nothing to retry.
func (b *BonehBoyen) Sign(msg []byte) ([]byte, error) {
	if b.sk == nil {
		return nil, scheme.ErrNoKey
	}
	g1 := b.e.G1()
	h, err := b.hash(msg)
	if err != nil {
		return nil, err
	}
	t := g1.NewScalar().Add(b.sk, h)
	if t.IsZero() {
		return nil, fmt.Errorf("%w: x + H(m) = 0", scheme.ErrDomainCollision)
	}
	inv, err := g1.NewScalar().Invert(t)
	if err != nil {
		return nil, err
	}
	return g1.NewPoint().ScalarMult(inv, g1.Generator()).Bytes(), nil
}

func (b *BonehBoyen) publicKey(pub []byte) (group.Point, bool, error) {
	if pub == nil {
		if b.pk == nil {
			return nil, false, scheme.ErrNoKey
		}
		return b.pk, true, nil
	}
	p, err := b.e.G2().NewPoint().SetBytes(pub)
	if err != nil {
		return nil, false, nil
	}
	return p, true, nil
}

// shifted returns pk + H(msg)*G2.
func (b *BonehBoyen) shifted(pk group.Point, msg []byte) (group.Point, error) {
	g2 := b.e.G2()
	h, err := b.hash(msg)
	if err != nil {
		return nil, err
	}
	p := g2.NewPoint().ScalarMult(h, g2.Generator())
	return p.Add(p, pk), nil
}

// Verify checks e(sig, pk + H(msg)*G2) == e(G1, G2).
func (b *BonehBoyen) Verify(msg, sig, pub []byte) (bool, error) {
	pk, ok, err := b.publicKey(pub)
	if !ok {
		return false, err
	}
	g1, g2 := b.e.G1(), b.e.G2()
	s, err := g1.NewPoint().SetBytes(sig)
	if err != nil || s.IsIdentity() {
		return false, nil
	}
	q, err := b.shifted(pk, msg)
	if err != nil {
		return false, err
	}
	return b.e.PairingCheck(
		[]group.Point{s, g1.NewPoint().Negate(g1.Generator())},
		[]group.Point{q, g2.Generator()},
	)
}

// Aggregate adds the signature points in G1.
func (b *BonehBoyen) Aggregate(sigs [][]byte) ([]byte, error) {
	ps, err := decodePoints(b.e.G1(), sigs)
	if err != nil {
		return nil, err
	}
	return sumPoints(b.e.G1(), ps).Bytes(), nil
}

// BatchVerify checks every (msgs[i], sigs[i], pubs[i]) with one
// multi-pairing over random weights rho_i:
//
//	prod e(rho_i*sig_i, pk_i + H(m_i)*G2) == e(sum(rho_i)*G1, G2)
func (b *BonehBoyen) BatchVerify(msgs [][]byte, sigs [][]byte, pubs [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(sigs), len(pubs)); err != nil {
		return false, err
	}
	g1, g2 := b.e.G1(), b.e.G2()
	p := make([]group.Point, 0, len(msgs)+1)
	q := make([]group.Point, 0, len(msgs)+1)
	rhoSum := g1.NewScalar()
	for i := range msgs {
		pk, ok, err := b.publicKey(pubs[i])
		if !ok {
			return false, err
		}
		s, err := g1.NewPoint().SetBytes(sigs[i])
		if err != nil || s.IsIdentity() {
			return false, nil
		}
		shift, err := b.shifted(pk, msgs[i])
		if err != nil {
			return false, err
		}
		rho, err := g1.RandomScalar(rand.Reader)
		if err != nil {
			return false, err
		}
		rhoSum.Add(rhoSum, rho)
		p = append(p, g1.NewPoint().ScalarMult(rho, s))
		q = append(q, shift)
	}
	rhoSum.Negate(rhoSum)
	p = append(p, g1.NewPoint().ScalarMult(rhoSum, g1.Generator()))
	q = append(q, g2.Generator())
	return b.e.PairingCheck(p, q)
}
