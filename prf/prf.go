package prf

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"sync"

	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/sha3"
)

// SecretSize is the length of freshly generated PRF secrets.
const SecretSize = 32

// DefaultDomain separates this library's PRF outputs from any other use
// of the same secret.
const DefaultDomain = "homauth/prf/v1"

var errDomainTooLong = errors.New("prf: domain longer than 255 bytes")

// Function is a keyed PRF with arbitrary-length output.
//
// Expand fills out with bytes determined by (label, secret, id, index).
// Outputs for distinct inputs are independent; outputs for equal inputs
// are identical, which lets a verifier recompute what the signer derived.
type Function interface {
	Name() string
	Expand(label string, secret, id []byte, index uint32, out []byte)
}

var shake256Pool = sync.Pool{
	New: func() any {
		return sha3.NewShake256()
	},
}

// Shake256 is a [Function] built on SHAKE256 with every input length
// prefixed.
type Shake256 struct {
	domain string
}

// NewShake256 returns a SHAKE256 PRF under DefaultDomain.
func NewShake256() *Shake256 {
	return &Shake256{domain: DefaultDomain}
}

// NewShake256WithDomain returns a SHAKE256 PRF under a custom domain.
func NewShake256WithDomain(domain string) (*Shake256, error) {
	if len(domain) > 255 {
		return nil, errDomainTooLong
	}
	return &Shake256{domain: domain}, nil
}

// Name returns "SHAKE256".
func (s *Shake256) Name() string { return "SHAKE256" }

// Expand implements [Function].
func (s *Shake256) Expand(label string, secret, id []byte, index uint32, out []byte) {
	h := shake256Pool.Get().(sha3.ShakeHash)
	defer func() {
		h.Reset()
		shake256Pool.Put(h)
	}()

	h.Write([]byte{byte(len(s.domain))})
	h.Write([]byte(s.domain))
	writeFramed(h, []byte(label))
	writeFramed(h, secret)
	writeFramed(h, id)
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	h.Write(idx[:])
	_, _ = h.Read(out)
}

// Blake2b is a [Function] built on the keyed BLAKE2b XOF. Secrets longer
// than the 64-byte BLAKE2b key limit are hashed down first.
type Blake2b struct {
	domain string
}

// NewBlake2b returns a keyed BLAKE2b PRF under DefaultDomain.
func NewBlake2b() *Blake2b {
	return &Blake2b{domain: DefaultDomain}
}

// Name returns "BLAKE2b".
func (b *Blake2b) Name() string { return "BLAKE2b" }

// Expand implements [Function].
func (b *Blake2b) Expand(label string, secret, id []byte, index uint32, out []byte) {
	key := secret
	if len(key) > blake2b.Size {
		sum := blake2b.Sum512(key)
		key = sum[:]
	}
	xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
	if err != nil {
		// Only reachable for keys over 64 bytes, excluded above.
		panic(err)
	}
	xof.Write([]byte{byte(len(b.domain))})
	xof.Write([]byte(b.domain))
	writeFramed(xof, []byte(label))
	writeFramed(xof, id)
	var idx [4]byte
	binary.LittleEndian.PutUint32(idx[:], index)
	xof.Write(idx[:])
	_, _ = io.ReadFull(xof, out)
}

// writeFramed writes a 4-byte little-endian length followed by data.
func writeFramed(w io.Writer, data []byte) {
	var n [4]byte
	binary.LittleEndian.PutUint32(n[:], uint32(len(data)))
	w.Write(n[:])
	w.Write(data)
}

// Bytes returns n PRF bytes for (secret, id).
func Bytes(fn Function, secret, id []byte, n int) []byte {
	out := make([]byte, n)
	fn.Expand("bytes", secret, id, 0, out)
	return out
}

// NewSecret draws a fresh SecretSize-byte secret from r.
func NewSecret(r io.Reader) ([]byte, error) {
	secret := make([]byte, SecretSize)
	if _, err := io.ReadFull(r, secret); err != nil {
		return nil, fmt.Errorf("failed to draw PRF secret: %w", err)
	}
	return secret, nil
}

// KeyStream returns the HKDF-SHA256 output stream of master for info.
func KeyStream(master []byte, info string) io.Reader {
	return hkdf.New(sha256.New, master, nil, []byte(info))
}

// DeriveKey splits a master secret into independent sub-keys with
// HKDF-SHA256, one per info string.
func DeriveKey(master []byte, info string, n int) ([]byte, error) {
	out := make([]byte, n)
	if _, err := io.ReadFull(KeyStream(master, info), out); err != nil {
		return nil, fmt.Errorf("failed to derive %q key: %w", info, err)
	}
	return out, nil
}
