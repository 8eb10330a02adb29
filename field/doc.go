// Package field implements arithmetic in a prime field Z_p with the
// fixed-width big-endian element encoding used for scalar-domain tags.
//
// The MAC family works over [DefaultModulus] = 2^256 - 189, so tags are
// 32 bytes. Any odd prime can be used through [New].
package field
