// Package bls12381 implements the [group] contract over the BLS12-381
// pairing-friendly curve using gnark-crypto.
//
// [G1] and [G2] implement [group.Group] and [group.PointHasher]; both
// share the scalar field Fr. [Pairing] implements [group.Pairing]:
//
//	e := bls12381.New()
//	ok, err := e.PairingCheck(
//		[]group.Point{pk, negG1},
//		[]group.Point{hm, sig},
//	)
//
// Points are encoded compressed (48 bytes in G1, 96 bytes in G2) and
// decoding performs the subgroup check.
package bls12381
