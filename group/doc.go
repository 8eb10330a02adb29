// Package group defines the algebraic backend contract shared by the
// curve-based schemes.
//
// Four interfaces abstract the arithmetic the signatures need:
//
//   - [Scalar]: integers modulo the group order
//   - [Point]: group elements, written additively
//   - [Group]: factory and hashing utilities for one group
//   - [Pairing]: a bilinear map between two groups, checked as a product
//
// Schemes depend only on these interfaces, so the same protocol logic runs
// over any conforming curve. The bls12381 package provides a pairing
// friendly backend and the bjj package a plain twisted Edwards one.
//
// # Mutable receivers
//
// Operations such as Add, Mul and ScalarMult set the receiver to the
// result and return it:
//
//	// Compute a + b*c
//	result := g.NewScalar().Mul(b, c)
//	result = g.NewScalar().Add(a, result)
//
// Operations that can fail return errors rather than panicking.
//
// # Implementing a Group
//
// Implementations must reduce scalars modulo the group order, draw random
// scalars from the supplied reader only, and reject encodings of points
// outside the prime-order subgroup in SetBytes.
package group
