package mac

import (
	"io"
	"math/big"

	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
)

// Additive is the additive MAC over Z_p:
//
//	tag(m, id) = PRF(k, id) * H(m) mod p
//
// Tags combine by addition. A combined tag only verifies against the full
// list of messages and identifiers that went into it.
type Additive struct {
	keyed
	d *prf.Deriver
}

var (
	_ scheme.Tagger           = (*Additive)(nil)
	_ scheme.TagCombiner      = (*Additive)(nil)
	_ scheme.CombinedVerifier = (*Additive)(nil)
)

// NewAdditive returns an additive MAC without key material.
func NewAdditive(opts ...Option) (*Additive, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Additive{d: prf.NewDeriver(o.fn, o.field)}, nil
}

// Name returns "Additive_HMAC".
func (a *Additive) Name() string { return AdditiveName }

// PRF returns the keyed PRF.
func (a *Additive) PRF() prf.Function { return a.d.Function() }

// GenerateKey draws the PRF secret.
func (a *Additive) GenerateKey(r io.Reader) error { return a.generate(r) }

// SignatureSize returns the field width.
func (a *Additive) SignatureSize() int { return a.d.Field().Width() }

// PublicKeySize returns 0.
func (a *Additive) PublicKeySize() int { return 0 }

func (a *Additive) value(secret, msg, id []byte) *big.Int {
	f := a.d.Field()
	return f.Mul(a.d.Scalar(secret, id), f.HashMessage(msg))
}

// Tag authenticates msg under id.
func (a *Additive) Tag(msg, id []byte) ([]byte, error) {
	secret, err := a.key()
	if err != nil {
		return nil, err
	}
	return a.d.Field().Encode(a.value(secret, msg, id)), nil
}

// VerifyTag recomputes the tag and compares.
func (a *Additive) VerifyTag(msg, tag, id []byte) (bool, error) {
	secret, err := a.key()
	if err != nil {
		return false, err
	}
	return equalTags(tag, a.d.Field().Encode(a.value(secret, msg, id))), nil
}

// CombineTags returns the sum of tags mod p.
func (a *Additive) CombineTags(tags [][]byte) ([]byte, error) {
	xs, err := decodeAll(a.d.Field(), tags)
	if err != nil {
		return nil, err
	}
	f := a.d.Field()
	return f.Encode(f.Sum(xs...)), nil
}

// VerifyCombined checks tag against sum(PRF(k, ids[i]) * H(msgs[i])).
func (a *Additive) VerifyCombined(msgs, ids [][]byte, tag []byte) (bool, error) {
	secret, err := a.key()
	if err != nil {
		return false, err
	}
	if err := scheme.CheckLengths(len(msgs), len(ids)); err != nil {
		return false, err
	}
	f := a.d.Field()
	acc := new(big.Int)
	for i := range msgs {
		acc = f.Add(acc, a.value(secret, msgs[i], ids[i]))
	}
	return equalTags(tag, f.Encode(acc)), nil
}
