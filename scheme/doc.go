// Package scheme defines the capability interfaces shared by every
// homomorphic authentication primitive in this module, and the error
// taxonomy they report.
//
// A primitive is a closed variant behind [Scheme]. Optional behaviour is
// expressed as additional interfaces rather than runtime attribute probes:
//
//   - [Signer]: asymmetric sign / verify over byte messages
//   - [Tagger]: symmetric MAC tag / verify bound to an identifier
//   - [Aggregator], [AggregateVerifier]: unweighted aggregation
//   - [TagCombiner], [CombinedVerifier]: MAC tag combination
//   - [VectorSigner]: fixed-dimension vector authentication
//   - [BatchVerifier]: one check over many independent signatures
//
// Callers type-assert for the capability they need:
//
//	if agg, ok := s.(scheme.Aggregator); ok {
//		sig, err := agg.Aggregate(sigs)
//		...
//	}
//
// # Errors
//
// Errors fall in four classes, each with a root sentinel usable with
// [errors.Is]:
//
//   - [ErrPrecondition]: the operation cannot run yet (no key material)
//   - [ErrStructural]: malformed input, mismatched lengths, empty lists
//   - [ErrDomainCollision]: an algebraic degeneracy hit during signing
//   - [ErrBackendUnavailable]: a required backend capability is missing
//
// A well-formed but cryptographically invalid signature is never an
// error: verification reports it as false so that a verifier iterating
// over many candidates does not stop at the first bad one.
package scheme
