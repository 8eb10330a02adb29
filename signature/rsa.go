package signature

import (
	"bytes"
	"crypto"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
	"math/big"

	"github.com/f3rmion/homauth/scheme"
)

// DefaultRSAKeySize is the modulus size in bits.
const DefaultRSAKeySize = 2048

const rsaExponent = 65537

// RSA signs with either PKCS#1 v1.5 over SHA-256 or, in homomorphic mode,
// the textbook map sign(m) = (SHA-256(m) mod N)^d mod N. Only homomorphic
// mode aggregates, by multiplication modulo N. The two modes produce
// incompatible signatures and are selected once at construction.
type RSA struct {
	keySize     int
	homomorphic bool

	key *rsa.PrivateKey
}

var (
	_ scheme.Signer            = (*RSA)(nil)
	_ scheme.Aggregator        = (*RSA)(nil)
	_ scheme.AggregateVerifier = (*RSA)(nil)
)

// NewRSA returns an RSA signer for keySize-bit moduli. keySize must be a
// multiple of 8 and at least 1024.
func NewRSA(keySize int, homomorphic bool) (*RSA, error) {
	if keySize < 1024 || keySize%8 != 0 {
		return nil, fmt.Errorf("invalid RSA key size %d", keySize)
	}
	return &RSA{keySize: keySize, homomorphic: homomorphic}, nil
}

// Name returns "RSA-homomorphic" in homomorphic mode and "RSA" otherwise.
func (s *RSA) Name() string {
	if s.homomorphic {
		return RSAHomomorphicName
	}
	return RSAName
}

// Homomorphic reports whether the instance uses the unpadded map.
func (s *RSA) Homomorphic() bool { return s.homomorphic }

// SignatureSize returns the modulus size in bytes.
func (s *RSA) SignatureSize() int { return s.keySize / 8 }

// PublicKeySize returns the modulus size in bytes.
func (s *RSA) PublicKeySize() int { return s.keySize / 8 }

// GenerateKey generates a keySize-bit RSA key from r.
func (s *RSA) GenerateKey(r io.Reader) error {
	if s.key != nil {
		return scheme.ErrKeyExists
	}
	key, err := rsa.GenerateKey(r, s.keySize)
	if err != nil {
		return fmt.Errorf("failed to generate RSA key: %w", err)
	}
	if key.E != rsaExponent {
		return fmt.Errorf("unexpected RSA public exponent %d", key.E)
	}
	s.key = key
	return nil
}

// PublicKey returns the modulus N as a fixed-width big-endian integer.
// The exponent is always 65537.
func (s *RSA) PublicKey() ([]byte, error) {
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	return s.encode(s.key.N), nil
}

func (s *RSA) encode(x *big.Int) []byte {
	return x.FillBytes(make([]byte, s.keySize/8))
}

// publicKey decodes pub, or returns the own key when pub is nil.
func (s *RSA) publicKey(pub []byte) (*rsa.PublicKey, bool, error) {
	if pub == nil {
		if s.key == nil {
			return nil, false, scheme.ErrNoKey
		}
		return &s.key.PublicKey, true, nil
	}
	if len(pub) != s.keySize/8 || pub[0] == 0 {
		return nil, false, nil
	}
	return &rsa.PublicKey{N: new(big.Int).SetBytes(pub), E: rsaExponent}, true, nil
}

// decodeSig parses a signature representative in [0, N).
func (s *RSA) decodeSig(sig []byte, n *big.Int) (*big.Int, bool) {
	if len(sig) != s.keySize/8 {
		return nil, false
	}
	x := new(big.Int).SetBytes(sig)
	if x.Cmp(n) >= 0 {
		return nil, false
	}
	return x, true
}

// Digest returns SHA-256(msg) mod n, the value signed in homomorphic mode.
func Digest(msg []byte, n *big.Int) *big.Int {
	h := sha256.Sum256(msg)
	return new(big.Int).Mod(new(big.Int).SetBytes(h[:]), n)
}

// Sign signs msg with PKCS#1 v1.5, or signs [Digest] of msg raw in
// homomorphic mode.
func (s *RSA) Sign(msg []byte) ([]byte, error) {
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	if s.homomorphic {
		return s.SignInteger(Digest(msg, s.key.N))
	}
	h := sha256.Sum256(msg)
	return rsa.SignPKCS1v15(nil, s.key, crypto.SHA256, h[:])
}

// SignInteger returns x^d mod N for a raw representative x. It is the
// primitive behind homomorphic-mode signing.
func (s *RSA) SignInteger(x *big.Int) ([]byte, error) {
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	if !s.homomorphic {
		return nil, scheme.ErrHomomorphicDisabled
	}
	m := new(big.Int).Mod(x, s.key.N)
	return s.encode(new(big.Int).Exp(m, s.key.D, s.key.N)), nil
}

// VerifyInteger checks sig^e == x mod N under pub (nil for the own key).
func (s *RSA) VerifyInteger(x *big.Int, sig, pub []byte) (bool, error) {
	if !s.homomorphic {
		return false, scheme.ErrHomomorphicDisabled
	}
	pk, ok, err := s.publicKey(pub)
	if !ok {
		return false, err
	}
	return s.verifyRaw(new(big.Int).Mod(x, pk.N), sig, pk), nil
}

func (s *RSA) verifyRaw(want *big.Int, sig []byte, pk *rsa.PublicKey) bool {
	v, ok := s.decodeSig(sig, pk.N)
	if !ok {
		return false
	}
	v.Exp(v, big.NewInt(int64(pk.E)), pk.N)
	return v.Cmp(want) == 0
}

// Verify checks sig on msg under pub, nil selecting the own key.
func (s *RSA) Verify(msg, sig, pub []byte) (bool, error) {
	pk, ok, err := s.publicKey(pub)
	if !ok {
		return false, err
	}
	if s.homomorphic {
		return s.verifyRaw(Digest(msg, pk.N), sig, pk), nil
	}
	h := sha256.Sum256(msg)
	return rsa.VerifyPKCS1v15(pk, crypto.SHA256, h[:], sig) == nil, nil
}

// HomomorphicMultiply returns a*b mod N under the own key. The result is a
// valid signature on the product of the two signed representatives.
func (s *RSA) HomomorphicMultiply(a, b []byte) ([]byte, error) {
	return s.Aggregate([][]byte{a, b})
}

// Aggregate multiplies the signatures modulo the own N.
func (s *RSA) Aggregate(sigs [][]byte) ([]byte, error) {
	if !s.homomorphic {
		return nil, scheme.ErrHomomorphicDisabled
	}
	if s.key == nil {
		return nil, scheme.ErrNoKey
	}
	if len(sigs) == 0 {
		return nil, scheme.ErrEmptyInput
	}
	n := s.key.N
	acc := big.NewInt(1)
	for i, sig := range sigs {
		v, ok := s.decodeSig(sig, n)
		if !ok {
			return nil, fmt.Errorf("%w: signature %d is not a residue mod N", scheme.ErrMalformed, i)
		}
		acc.Mul(acc, v).Mod(acc, n)
	}
	return s.encode(acc), nil
}

// AggregateVerify checks agg^e == prod H(msgs[i]) mod N. Every public key
// must share one modulus, since the product is only meaningful under a
// single key.
func (s *RSA) AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error) {
	if !s.homomorphic {
		return false, scheme.ErrHomomorphicDisabled
	}
	if err := scheme.CheckLengths(len(msgs), len(pubs)); err != nil {
		return false, err
	}
	var pk *rsa.PublicKey
	for _, pub := range pubs {
		k, ok, err := s.publicKey(pub)
		if !ok {
			return false, err
		}
		if pk != nil && !bytes.Equal(pk.N.Bytes(), k.N.Bytes()) {
			return false, fmt.Errorf("%w: aggregate over distinct RSA moduli", scheme.ErrUnsupported)
		}
		pk = k
	}
	want := big.NewInt(1)
	for _, msg := range msgs {
		want.Mul(want, Digest(msg, pk.N)).Mod(want, pk.N)
	}
	return s.verifyRaw(want, agg, pk), nil
}
