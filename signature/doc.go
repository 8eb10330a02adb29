// Package signature implements the asymmetric schemes: BLS aggregate
// signatures, multiplicative RSA, the Waters and LHS vector-homomorphic
// signatures, Boneh-Boyen short signatures and an Ed25519 baseline.
//
// Every scheme implements [scheme.Signer]. Optional capabilities are
// separate interfaces, so callers discover them with a type assertion:
//
//	s, _ := signature.NewBLS()
//	_ = s.GenerateKey(rand.Reader)
//	sig1, _ := s.Sign(m1)
//	sig2, _ := s.Sign(m2)
//	agg, _ := s.Aggregate([][]byte{sig1, sig2})
//	ok, _ := s.AggregateVerify([][]byte{m1, m2}, agg, [][]byte{nil, nil})
//
// Curve-based schemes default to BLS12-381 from gnark-crypto. Waters and
// LHS only need a prime-order group and accept any [group.Group], for
// example Baby Jubjub:
//
//	w, _ := signature.NewWaters(signature.WithGroup(&bjj.BJJ{}))
//
// A second BLS backend built on supranational/blst is compiled in with
// the blst build tag; without it [NewBLSBlst] reports
// [scheme.ErrBackendUnavailable].
package signature
