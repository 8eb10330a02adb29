package signature

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/f3rmion/homauth/scheme"
)

// EdDSA is the non-homomorphic Ed25519 baseline. Its aggregate is the
// concatenation of the inputs and grows linearly with their number.
type EdDSA struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

var (
	_ scheme.Signer            = (*EdDSA)(nil)
	_ scheme.Aggregator        = (*EdDSA)(nil)
	_ scheme.AggregateVerifier = (*EdDSA)(nil)
)

// NewEdDSA returns an unkeyed Ed25519 scheme.
func NewEdDSA() *EdDSA { return &EdDSA{} }

// Name returns [EdDSAName].
func (s *EdDSA) Name() string { return EdDSAName }

// SignatureSize returns the Ed25519 signature size.
func (s *EdDSA) SignatureSize() int { return ed25519.SignatureSize }

// PublicKeySize returns the Ed25519 public key size.
func (s *EdDSA) PublicKeySize() int { return ed25519.PublicKeySize }

// GenerateKey draws an Ed25519 key pair from r.
func (s *EdDSA) GenerateKey(r io.Reader) error {
	if s.priv != nil {
		return scheme.ErrKeyExists
	}
	pub, priv, err := ed25519.GenerateKey(r)
	if err != nil {
		return err
	}
	s.pub, s.priv = pub, priv
	return nil
}

// PublicKey returns the encoded public key.
func (s *EdDSA) PublicKey() ([]byte, error) {
	if s.pub == nil {
		return nil, scheme.ErrNoKey
	}
	return []byte(s.pub), nil
}

// Sign signs msg with the private key.
func (s *EdDSA) Sign(msg []byte) ([]byte, error) {
	if s.priv == nil {
		return nil, scheme.ErrNoKey
	}
	return ed25519.Sign(s.priv, msg), nil
}

// Verify checks sig on msg under pub, or under the own key when pub is nil.
func (s *EdDSA) Verify(msg, sig, pub []byte) (bool, error) {
	if pub == nil {
		if s.pub == nil {
			return false, scheme.ErrNoKey
		}
		pub = s.pub
	}
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false, nil
	}
	return ed25519.Verify(ed25519.PublicKey(pub), msg, sig), nil
}

// Aggregate concatenates the signatures.
func (s *EdDSA) Aggregate(sigs [][]byte) ([]byte, error) {
	if len(sigs) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	out := make([]byte, 0, len(sigs)*ed25519.SignatureSize)
	for i, sig := range sigs {
		if len(sig) != ed25519.SignatureSize {
			return nil, fmt.Errorf("%w: signature %d has %d bytes", scheme.ErrMalformed, i, len(sig))
		}
		out = append(out, sig...)
	}
	return out, nil
}

// AggregateVerify splits agg and verifies each signature independently.
func (s *EdDSA) AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error) {
	if err := scheme.CheckLengths(len(msgs), len(pubs)); err != nil {
		return false, err
	}
	if len(agg) != len(msgs)*ed25519.SignatureSize {
		return false, nil
	}
	for i, msg := range msgs {
		sig := agg[i*ed25519.SignatureSize : (i+1)*ed25519.SignatureSize]
		ok, err := s.Verify(msg, sig, pubs[i])
		if !ok || err != nil {
			return false, err
		}
	}
	return true, nil
}
