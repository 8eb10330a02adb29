// Package bjj provides a Baby Jubjub implementation of [group.Group].
//
// Baby Jubjub is a twisted Edwards curve defined over the scalar field of
// BN254. It has no pairing, so it only backs the schemes that need a
// plain prime-order group: the Waters-style and linearly homomorphic
// vector signatures.
//
// # Curve Parameters
//
//	a*x^2 + y^2 = 1 + d*x^2*y^2,  a = 168700, d = 168696
//
// The prime-order subgroup has size
//
//	2736030358979909402780800718157159386076813972158567259200215660948447373041
//
// and the curve has cofactor 8. [Point.SetBytes] rejects points outside
// that subgroup.
//
// # Usage
//
//	w, err := signature.NewWaters(signature.WithGroup(&bjj.BJJ{}))
package bjj
