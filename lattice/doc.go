// Package lattice implements the post-quantum member of the MAC family,
// an LWE-style tag over Z_q^n built on lattigo's ring backend.
//
// Verification is approximate: a tag is accepted when the centered
// infinity norm of its difference to the noiseless expected value is at
// most Bound, and a combination of k tags when it is at most k*Bound.
// With the defaults (sigma 3.2, Bound 19) honest tags always pass, and a
// tag for a different message, identifier or key misses by a uniformly
// random vector.
package lattice
