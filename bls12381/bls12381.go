package bls12381

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	curve "github.com/consensys/gnark-crypto/ecc/bls12-381"
	"github.com/consensys/gnark-crypto/ecc/bls12-381/fr"
	"github.com/f3rmion/homauth/group"
)

var (
	g1Gen curve.G1Affine
	g2Gen curve.G2Affine
)

// scalarDST domain-separates HashToScalar from the signature hashes.
var scalarDST = []byte("HOMAUTH-V01-CS01-with-BLS12381-H2S_")

var (
	errPointLength = errors.New("bls12381: wrong point encoding length")
	errPairingArgs = errors.New("bls12381: pairing argument lists differ in length")
)

func init() {
	_, _, g1Gen, g2Gen = curve.Generators()
}

func randomScalar(r io.Reader) (group.Scalar, error) {
	var buf [fr.Bytes + 16]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, err
	}
	s := new(Scalar)
	s.inner.SetBytes(buf[:])
	return s, nil
}

func hashToScalar(data ...[]byte) (group.Scalar, error) {
	var msg bytes.Buffer
	var n [8]byte
	for _, d := range data {
		binary.BigEndian.PutUint64(n[:], uint64(len(d)))
		msg.Write(n[:])
		msg.Write(d)
	}
	els, err := fr.Hash(msg.Bytes(), scalarDST, 1)
	if err != nil {
		return nil, fmt.Errorf("bls12381: hash to scalar: %w", err)
	}
	return &Scalar{inner: els[0]}, nil
}

// Pairing implements [group.Pairing] over the optimal ate pairing of
// BLS12-381.
type Pairing struct {
	g1 *G1
	g2 *G2
}

// New returns the BLS12-381 pairing.
func New() *Pairing {
	return &Pairing{g1: NewG1(), g2: NewG2()}
}

// G1 returns the first source group.
func (e *Pairing) G1() group.Group { return e.g1 }

// G2 returns the second source group.
func (e *Pairing) G2() group.Group { return e.g2 }

// PairingCheck reports whether prod e(p[i], q[i]) is the identity of GT.
func (e *Pairing) PairingCheck(p, q []group.Point) (bool, error) {
	if len(p) != len(q) {
		return false, errPairingArgs
	}
	P := make([]curve.G1Affine, len(p))
	Q := make([]curve.G2Affine, len(q))
	for i := range p {
		a, ok := p[i].(*G1Point)
		if !ok {
			return false, fmt.Errorf("bls12381: argument %d is not a G1 point", i)
		}
		b, ok := q[i].(*G2Point)
		if !ok {
			return false, fmt.Errorf("bls12381: argument %d is not a G2 point", i)
		}
		P[i] = a.inner
		Q[i] = b.inner
	}
	return curve.PairingCheck(P, Q)
}
