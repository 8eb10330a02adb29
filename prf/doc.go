// Package prf derives field elements, vectors and byte strings
// deterministically from a secret and a public identifier.
//
// Two realisations of [Function] are provided: [Shake256], a
// domain-separated SHAKE256 over the length-prefixed inputs, and
// [Blake2b], the keyed BLAKE2b XOF. [Deriver] reduces PRF output into a
// prime field for the MAC family, [Bytes] seeds samplers, and
// [DeriveKey] splits one master secret into independent sub-keys.
package prf
