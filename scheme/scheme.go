package scheme

import "io"

// Scheme is the capability every primitive implements.
//
// GenerateKey is the only mutating operation. It must be called exactly
// once per instance, before any other operation; a second call returns
// [ErrKeyExists]. After it returns, the instance is read-only and safe
// for concurrent use.
type Scheme interface {
	// Name returns the registered scheme name.
	Name() string
	// GenerateKey draws fresh key material from r.
	GenerateKey(r io.Reader) error
	// SignatureSize returns the encoded size of one tag or signature.
	SignatureSize() int
	// PublicKeySize returns the encoded size of the public key, or 0 for
	// symmetric schemes.
	PublicKeySize() int
}

// Signer is an asymmetric scheme over byte messages.
type Signer interface {
	Scheme
	// PublicKey returns the encoded public key.
	PublicKey() ([]byte, error)
	// Sign signs msg with the instance's private key.
	Sign(msg []byte) ([]byte, error)
	// Verify checks sig on msg. A nil pub verifies against the instance's
	// own public key.
	Verify(msg, sig, pub []byte) (bool, error)
}

// Tagger is a symmetric MAC over byte messages bound to an identifier.
type Tagger interface {
	Scheme
	// Tag authenticates msg under identifier id.
	Tag(msg, id []byte) ([]byte, error)
	// VerifyTag recomputes the tag for (msg, id) and compares.
	VerifyTag(msg, tag, id []byte) (bool, error)
}

// Aggregator combines signatures with implicit unit coefficients.
// Aggregate returns [ErrEmptyInput] for an empty list.
type Aggregator interface {
	Aggregate(sigs [][]byte) ([]byte, error)
}

// AggregateVerifier checks one aggregate against the messages and public
// keys it was built from. msgs[i] was signed under pubs[i].
type AggregateVerifier interface {
	AggregateVerify(msgs [][]byte, agg []byte, pubs [][]byte) (bool, error)
}

// TagCombiner combines MAC tags with implicit unit coefficients.
// CombineTags returns [ErrEmptyInput] for an empty list.
type TagCombiner interface {
	CombineTags(tags [][]byte) ([]byte, error)
}

// CombinedVerifier checks a combined tag against every message and
// identifier that went into it. The identifier list is not bound by the
// tag itself and must be supplied by the caller.
type CombinedVerifier interface {
	VerifyCombined(msgs, ids [][]byte, tag []byte) (bool, error)
}

// VectorSigner authenticates fixed-dimension real vectors. Inputs are
// padded or truncated to VectorDim before use.
type VectorSigner interface {
	VectorDim() int
	SignVector(v []float64, id []byte) ([]byte, error)
	VerifyVector(v []float64, sig, id []byte) (bool, error)
}

// LinearVerifier checks that combined is the coefficient-weighted sum of
// vectors and that every input signature verifies individually.
type LinearVerifier interface {
	VerifyLinearCombination(combined []float64, vectors [][]float64, sigs [][]byte, coeffs []float64, ids [][]byte) (bool, error)
}

// TagLinearVerifier is the MAC counterpart of [LinearVerifier]: the
// verifier holds one combined tag instead of the individual signatures,
// and checks both the tag and the claimed combined vector.
type TagLinearVerifier interface {
	VerifyTagLinearCombination(combined []float64, combinedTag []byte, vectors [][]float64, coeffs []float64, ids [][]byte) (bool, error)
}

// BatchVerifier checks many independent signatures in a single
// operation.
type BatchVerifier interface {
	BatchVerify(msgs [][]byte, sigs [][]byte, pubs [][]byte) (bool, error)
}
