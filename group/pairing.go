package group

// Pairing is a bilinear map e: G1 x G2 -> GT between two groups of the
// same prime order.
//
// Schemes never compute target group elements directly. Every
// verification equation is rearranged into a product of pairings that
// must equal one, which lets the backend share a single final
// exponentiation.
type Pairing interface {
	// G1 returns the first source group.
	G1() Group
	// G2 returns the second source group.
	G2() Group
	// PairingCheck reports whether prod e(p[i], q[i]) == 1.
	// p holds G1 points and q holds G2 points of equal length.
	PairingCheck(p, q []Point) (bool, error)
}
