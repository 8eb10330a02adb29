// Package mac implements the prime-field homomorphic MAC family.
//
//   - [Additive]: tag = PRF(k, id) * H(m) mod p, combined by addition.
//   - [Linear]: inner product of a PRF-derived key vector with the
//     quantized message vector, combined with quantized real coefficients.
//   - [Polynomial]: polynomial tags supporting addition, scaling and
//     degree-bounded multiplication.
//
// All three are symmetric: the verifier holds the same secret as the
// tagger. A combined tag does not record which identifiers were
// combined, so every combined verification takes the full list of
// messages and identifiers from the caller.
//
// Constructors take functional options; the defaults are the field
// 2^256 - 189, the SHAKE256 PRF and the truncating x1000 quantizer.
//
//	m, _ := mac.NewAdditive()
//	_ = m.GenerateKey(rand.Reader)
//	t1, _ := m.Tag(msg1, id1)
//	t2, _ := m.Tag(msg2, id2)
//	sum, _ := m.CombineTags([][]byte{t1, t2})
//	ok, _ := m.VerifyCombined([][]byte{msg1, msg2}, [][]byte{id1, id2}, sum)
package mac
