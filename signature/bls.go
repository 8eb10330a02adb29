package signature

import (
	"io"

	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/scheme"
)

// BLS is the pairing-aggregatable signature: public key x*G1 in G1,
// signature x*H(m) in G2. Signatures aggregate by point addition into a
// single G2 element of constant size.
type BLS struct {
	e      group.Pairing
	hasher group.PointHasher

	sk group.Scalar
	pk group.Point
}

var (
	_ scheme.Signer            = (*BLS)(nil)
	_ scheme.Aggregator        = (*BLS)(nil)
	_ scheme.AggregateVerifier = (*BLS)(nil)
)

// NewBLS returns a BLS signer without key material. It fails with
// ErrBackendUnavailable when G2 cannot hash to the curve.
func NewBLS(opts ...Option) (*BLS, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	h, err := requireHasher(o.pairing.G2())
	if err != nil {
		return nil, err
	}
	return &BLS{e: o.pairing, hasher: h}, nil
}

// Name returns "BLS".
func (b *BLS) Name() string { return BLSName }

// SignatureSize returns the size of a compressed G2 point.
func (b *BLS) SignatureSize() int { return b.e.G2().PointLen() }

// PublicKeySize returns the size of a compressed G1 point.
func (b *BLS) PublicKeySize() int { return b.e.G1().PointLen() }

// GenerateKey draws x and sets pk = x*G1.
func (b *BLS) GenerateKey(r io.Reader) error {
	if b.sk != nil {
		return scheme.ErrKeyExists
	}
	g1 := b.e.G1()
	x, err := g1.RandomScalar(r)
	if err != nil {
		return err
	}
	b.sk = x
	b.pk = g1.NewPoint().ScalarMult(x, g1.Generator())
	return nil
}

// PublicKey returns the compressed public key.
func (b *BLS) PublicKey() ([]byte, error) {
	if b.pk == nil {
		return nil, scheme.ErrNoKey
	}
	return b.pk.Bytes(), nil
}

// Sign returns x*H(msg).
func (b *BLS) Sign(msg []byte) ([]byte, error) {
	if b.sk == nil {
		return nil, scheme.ErrNoKey
	}
	h, err := b.hasher.HashToPoint(msg, DST)
	if err != nil {
		return nil, err
	}
	return b.e.G2().NewPoint().ScalarMult(b.sk, h).Bytes(), nil
}

// publicKey decodes pub, or returns the own key when pub is nil.
func (b *BLS) publicKey(pub []byte) (group.Point, bool, error) {
	if pub == nil {
		if b.pk == nil {
			return nil, false, scheme.ErrNoKey
		}
		return b.pk, true, nil
	}
	p, err := b.e.G1().NewPoint().SetBytes(pub)
	if err != nil || p.IsIdentity() {
		return nil, false, nil
	}
	return p, true, nil
}

// Verify checks e(pk, H(msg)) == e(G1, sig).
func (b *BLS) Verify(msg, sig, pub []byte) (bool, error) {
	pk, ok, err := b.publicKey(pub)
	if !ok {
		return false, err
	}
	return b.verifyPoints([][]byte{msg}, sig, []group.Point{pk})
}

// Aggregate adds the signatures in G2.
func (b *BLS) Aggregate(sigs [][]byte) ([]byte, error) {
	ps, err := decodePoints(b.e.G2(), sigs)
	if err != nil {
		return nil, err
	}
	return sumPoints(b.e.G2(), ps).Bytes(), nil
}

// AggregateVerify checks e(G1, agg) == prod e(pubs[i], H(msgs[i])).
// Undecodable public keys or aggregates verify as false.
func (b *BLS) AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(pubs)); err != nil {
		return false, err
	}
	pks := make([]group.Point, len(pubs))
	for i, pub := range pubs {
		pk, ok, err := b.publicKey(pub)
		if !ok {
			return false, err
		}
		pks[i] = pk
	}
	return b.verifyPoints(msgs, agg, pks)
}

// verifyPoints is AggregateVerify over decoded public keys.
func (b *BLS) verifyPoints(msgs [][]byte, agg []byte, pks []group.Point) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(pks)); err != nil {
		return false, err
	}
	g1, g2 := b.e.G1(), b.e.G2()
	sig, err := g2.NewPoint().SetBytes(agg)
	if err != nil {
		return false, nil
	}
	p := make([]group.Point, 0, len(msgs)+1)
	q := make([]group.Point, 0, len(msgs)+1)
	for i, msg := range msgs {
		h, err := b.hasher.HashToPoint(msg, DST)
		if err != nil {
			return false, err
		}
		p = append(p, pks[i])
		q = append(q, h)
	}
	p = append(p, g1.NewPoint().Negate(g1.Generator()))
	q = append(q, sig)
	return b.e.PairingCheck(p, q)
}
