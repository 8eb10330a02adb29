//go:build blst

package signature

import (
	"errors"
	"fmt"
	"io"

	"github.com/f3rmion/homauth/scheme"
	blst "github.com/supranational/blst/bindings/go"
)

// BLSBlst is BLS with the supranational/blst backend: public keys in G1
// (48 bytes), signatures in G2 (96 bytes), same DST as [BLS]. Signatures
// from either backend verify under the other.
type BLSBlst struct {
	sk *blst.SecretKey
	pk *blst.P1Affine
}

var (
	_ scheme.Signer            = (*BLSBlst)(nil)
	_ scheme.Aggregator        = (*BLSBlst)(nil)
	_ scheme.AggregateVerifier = (*BLSBlst)(nil)
)

// NewBLSBlst returns a blst-backed BLS signer without key material.
func NewBLSBlst() (*BLSBlst, error) {
	return &BLSBlst{}, nil
}

// Name returns [BLSBlstName].
func (b *BLSBlst) Name() string { return BLSBlstName }

// SignatureSize returns the compressed G2 size.
func (b *BLSBlst) SignatureSize() int { return blst.BLST_P2_COMPRESS_BYTES }

// PublicKeySize returns the compressed G1 size.
func (b *BLSBlst) PublicKeySize() int { return blst.BLST_P1_COMPRESS_BYTES }

// GenerateKey derives the secret key from 32 bytes of r with the IETF
// KeyGen procedure.
func (b *BLSBlst) GenerateKey(r io.Reader) error {
	if b.sk != nil {
		return scheme.ErrKeyExists
	}
	var ikm [32]byte
	if _, err := io.ReadFull(r, ikm[:]); err != nil {
		return err
	}
	sk := blst.KeyGen(ikm[:])
	if sk == nil {
		return errors.New("blst: key generation failed")
	}
	b.sk = sk
	b.pk = new(blst.P1Affine).From(sk)
	return nil
}

// PublicKey returns the compressed G1 public key.
func (b *BLSBlst) PublicKey() ([]byte, error) {
	if b.pk == nil {
		return nil, scheme.ErrNoKey
	}
	return b.pk.Compress(), nil
}

// Sign hashes msg to G2 and multiplies by the secret key.
func (b *BLSBlst) Sign(msg []byte) ([]byte, error) {
	if b.sk == nil {
		return nil, scheme.ErrNoKey
	}
	return new(blst.P2Affine).Sign(b.sk, msg, DST).Compress(), nil
}

func (b *BLSBlst) publicKey(pub []byte) (*blst.P1Affine, bool, error) {
	if pub == nil {
		if b.pk == nil {
			return nil, false, scheme.ErrNoKey
		}
		return b.pk, true, nil
	}
	pk := new(blst.P1Affine).Uncompress(pub)
	if pk == nil {
		return nil, false, nil
	}
	return pk, true, nil
}

// Verify checks sig on msg under pub, nil selecting the own key.
func (b *BLSBlst) Verify(msg, sig, pub []byte) (bool, error) {
	pk, ok, err := b.publicKey(pub)
	if !ok {
		return false, err
	}
	s := new(blst.P2Affine).Uncompress(sig)
	if s == nil {
		return false, nil
	}
	return s.Verify(true, pk, true, msg, DST), nil
}

// Aggregate adds the signatures in G2.
func (b *BLSBlst) Aggregate(sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	agg := new(blst.P2Aggregate)
	if !agg.AggregateCompressed(sigs, true) {
		return nil, fmt.Errorf("%w: signature not in G2", scheme.ErrMalformed)
	}
	return agg.ToAffine().Compress(), nil
}

// AggregateVerify checks agg against distinct messages and their keys.
func (b *BLSBlst) AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(pubs)); err != nil {
		return false, err
	}
	pks := make([]*blst.P1Affine, len(pubs))
	for i, pub := range pubs {
		pk, ok, err := b.publicKey(pub)
		if !ok {
			return false, err
		}
		pks[i] = pk
	}
	s := new(blst.P2Affine).Uncompress(agg)
	if s == nil {
		return false, nil
	}
	return s.AggregateVerify(true, pks, true, msgs, DST), nil
}
