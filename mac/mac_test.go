package mac

import (
	"bytes"
	"crypto/rand"
	"errors"
	"math/big"
	mrand "math/rand/v2"
	"slices"
	"testing"
	"testing/iotest"

	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

// flipBit returns a copy of b with bit i flipped.
func flipBit(b []byte, i int) []byte {
	out := bytes.Clone(b)
	out[i/8] ^= 1 << (i % 8)
	return out
}

func newTaggers(t *testing.T) []scheme.Tagger {
	t.Helper()
	a, err := NewAdditive()
	if err != nil {
		t.Fatal(err)
	}
	l, err := NewLinear(WithDimension(16))
	if err != nil {
		t.Fatal(err)
	}
	p, err := NewPolynomial()
	if err != nil {
		t.Fatal(err)
	}
	out := []scheme.Tagger{a, l, p}
	for _, m := range out {
		if err := m.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
	}
	return out
}

func TestTaggers(t *testing.T) {
	msg := vector.EncodeFloat32([]float64{0.5, -1.25, 3, 7.125})
	id := []byte("client-7")

	for _, m := range newTaggers(t) {
		t.Run(m.Name(), func(t *testing.T) {
			tag, err := m.Tag(msg, id)
			if err != nil {
				t.Fatal(err)
			}
			if len(tag) != m.SignatureSize() {
				t.Errorf("tag is %d bytes, SignatureSize is %d", len(tag), m.SignatureSize())
			}
			if m.PublicKeySize() != 0 {
				t.Error("symmetric scheme reports a public key")
			}

			ok, err := m.VerifyTag(msg, tag, id)
			if err != nil {
				t.Fatal(err)
			}
			if !ok {
				t.Error("valid tag rejected")
			}

			t.Run("WrongID", func(t *testing.T) {
				ok, _ := m.VerifyTag(msg, tag, []byte("client-8"))
				if ok {
					t.Error("tag accepted under another identifier")
				}
			})

			t.Run("WrongMessage", func(t *testing.T) {
				other := vector.EncodeFloat32([]float64{0.5, -1.25, 3, 7.25})
				ok, _ := m.VerifyTag(other, tag, id)
				if ok {
					t.Error("tag accepted for another message")
				}
			})

			t.Run("Truncated", func(t *testing.T) {
				ok, err := m.VerifyTag(msg, tag[:len(tag)-1], id)
				if err != nil {
					t.Fatalf("malformed tag should not error: %v", err)
				}
				if ok {
					t.Error("truncated tag accepted")
				}
			})

			t.Run("KeyOnce", func(t *testing.T) {
				if err := m.GenerateKey(rand.Reader); !errors.Is(err, scheme.ErrKeyExists) {
					t.Errorf("expected ErrKeyExists, got %v", err)
				}
			})
		})
	}
}

func TestNoKey(t *testing.T) {
	a, _ := NewAdditive()
	l, _ := NewLinear()
	p, _ := NewPolynomial()
	for _, m := range []scheme.Tagger{a, l, p} {
		t.Run(m.Name(), func(t *testing.T) {
			if _, err := m.Tag([]byte("m"), []byte("id")); !errors.Is(err, scheme.ErrNoKey) {
				t.Errorf("Tag: expected ErrNoKey, got %v", err)
			}
			if _, err := m.VerifyTag([]byte("m"), nil, []byte("id")); !errors.Is(err, scheme.ErrPrecondition) {
				t.Errorf("VerifyTag: expected precondition error, got %v", err)
			}
		})
	}
}

func TestGenerateKeyRetry(t *testing.T) {
	a, _ := NewAdditive()
	l, _ := NewLinear()
	p, _ := NewPolynomial()
	for _, m := range []scheme.Tagger{a, l, p} {
		t.Run(m.Name(), func(t *testing.T) {
			failing := iotest.ErrReader(errors.New("entropy exhausted"))
			if err := m.GenerateKey(failing); err == nil {
				t.Fatal("GenerateKey succeeded on a failing reader")
			}
			if _, err := m.Tag([]byte("m"), []byte("id")); !errors.Is(err, scheme.ErrNoKey) {
				t.Errorf("Tag after failed GenerateKey: got %v, want ErrNoKey", err)
			}
			if err := m.GenerateKey(iotest.HalfReader(rand.Reader)); err != nil {
				t.Fatalf("GenerateKey after failure: %v", err)
			}
			tag, err := m.Tag([]byte("m"), []byte("id"))
			if err != nil {
				t.Fatal(err)
			}
			if ok, _ := m.VerifyTag([]byte("m"), tag, []byte("id")); !ok {
				t.Error("tag rejected after retried GenerateKey")
			}
		})
	}
}

func TestBitFlips(t *testing.T) {
	msg := vector.EncodeFloat32([]float64{1, 2, 3, 4})
	id := []byte("round-1")

	for _, m := range newTaggers(t) {
		t.Run(m.Name(), func(t *testing.T) {
			tag, err := m.Tag(msg, id)
			if err != nil {
				t.Fatal(err)
			}
			for i := range 8 * len(tag) {
				if ok, _ := m.VerifyTag(msg, flipBit(tag, i), id); ok {
					t.Fatalf("tag bit %d flip accepted", i)
				}
			}
			for i := range 8 * len(msg) {
				if ok, _ := m.VerifyTag(flipBit(msg, i), tag, id); ok {
					t.Fatalf("message bit %d flip accepted", i)
				}
			}
			for i := range 8 * len(id) {
				if ok, _ := m.VerifyTag(msg, tag, flipBit(id, i)); ok {
					t.Fatalf("identifier bit %d flip accepted", i)
				}
			}
		})
	}
}

func TestAdditiveHomomorphism(t *testing.T) {
	m, _ := NewAdditive()
	if err := m.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}
	msgs := [][]byte{[]byte("update-1"), []byte("update-2"), []byte("update-3")}
	ids := [][]byte{[]byte("c1"), []byte("c2"), []byte("c3")}

	tags := make([][]byte, len(msgs))
	want := new(big.Int)
	for i := range msgs {
		tags[i], _ = m.Tag(msgs[i], ids[i])
		want.Add(want, new(big.Int).SetBytes(tags[i]))
	}
	want.Mod(want, m.d.Field().Modulus())

	combined, err := m.CombineTags(tags)
	if err != nil {
		t.Fatal(err)
	}
	if new(big.Int).SetBytes(combined).Cmp(want) != 0 {
		t.Error("combined tag is not the integer sum mod p")
	}

	ok, err := m.VerifyCombined(msgs, ids, combined)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("combined tag rejected")
	}

	swapped := [][]byte{ids[0], ids[1], []byte("c4")}
	if ok, _ := m.VerifyCombined(msgs, swapped, combined); ok {
		t.Error("combined tag accepted with a foreign identifier")
	}

	if _, err := m.VerifyCombined(msgs, ids[:2], combined); !errors.Is(err, scheme.ErrLengthMismatch) {
		t.Errorf("expected ErrLengthMismatch, got %v", err)
	}
}

func TestEmptyCombine(t *testing.T) {
	for _, m := range newTaggers(t) {
		t.Run(m.Name(), func(t *testing.T) {
			c := m.(scheme.TagCombiner)
			if _, err := c.CombineTags(nil); !errors.Is(err, scheme.ErrEmptyInput) {
				t.Errorf("expected ErrEmptyInput, got %v", err)
			}
			if _, err := c.CombineTags([][]byte{{1, 2, 3}}); !errors.Is(err, scheme.ErrMalformed) {
				t.Errorf("expected ErrMalformed, got %v", err)
			}
		})
	}
}

func TestLinear(t *testing.T) {
	m, err := NewLinear(WithDimension(10))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}

	v1 := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	v2 := []float64{10, 9, 8, 7, 6, 5, 4, 3, 2, 1}
	id1, id2 := []byte("vector1"), []byte("vector2")
	t1, _ := m.SignVector(v1, id1)
	t2, _ := m.SignVector(v2, id2)

	t.Run("InnerProduct", func(t *testing.T) {
		f := m.d.Field()
		k := m.d.Vector(m.secret, id1, 10)
		want := new(big.Int)
		for i, v := range v1 {
			want = f.Add(want, f.Mul(k[i], big.NewInt(int64(v*1000))))
		}
		if !bytes.Equal(t1, f.Encode(want)) {
			t.Error("tag is not the inner product with the scaled vector")
		}
	})

	t.Run("PadTruncate", func(t *testing.T) {
		short, _ := m.SignVector(v1[:4], id1)
		padded, _ := m.SignVector(append(slices.Clone(v1[:4]), make([]float64, 6)...), id1)
		if !bytes.Equal(short, padded) {
			t.Error("short vector not zero padded")
		}
		long, _ := m.SignVector(append(v1, 99), id1)
		if !bytes.Equal(long, t1) {
			t.Error("long vector not truncated")
		}
	})

	coeffs := []float64{0.5, 0.5}
	combinedTag, err := m.LinearCombine([][]byte{t1, t2}, coeffs)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("CombineMatchesReference", func(t *testing.T) {
		f := m.d.Field()
		a := new(big.Int).SetBytes(t1)
		b := new(big.Int).SetBytes(t2)
		want := f.Add(f.Mul(big.NewInt(500), a), f.Mul(big.NewInt(500), b))
		if !bytes.Equal(combinedTag, f.Encode(want)) {
			t.Error("linear combination differs from c1*t1 + c2*t2 with scaled coefficients")
		}
	})

	combined, _ := vector.Combine([][]float64{v1, v2}, coeffs, 10)
	vectors := [][]float64{v1, v2}
	ids := [][]byte{id1, id2}

	t.Run("VerifyCombination", func(t *testing.T) {
		ok, err := m.VerifyTagLinearCombination(combined, combinedTag, vectors, coeffs, ids)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("valid linear combination rejected")
		}
	})

	t.Run("PerturbedVector", func(t *testing.T) {
		bad := slices.Clone(combined)
		bad[3] += 0.01
		ok, err := m.VerifyTagLinearCombination(bad, combinedTag, vectors, coeffs, ids)
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Error("perturbed combination accepted")
		}
	})

	t.Run("WrongCoefficients", func(t *testing.T) {
		ok, _ := m.VerifyTagLinearCombination(combined, combinedTag, vectors, []float64{0.25, 0.75}, ids)
		if ok {
			t.Error("combination accepted under other coefficients")
		}
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		_, err := m.VerifyTagLinearCombination(combined, combinedTag, vectors, coeffs[:1], ids)
		if !errors.Is(err, scheme.ErrLengthMismatch) {
			t.Errorf("expected ErrLengthMismatch, got %v", err)
		}
	})
}

func TestLinearCombinedMessages(t *testing.T) {
	m, _ := NewLinear(WithDimension(4), WithPRF(prf.NewBlake2b()))
	if err := m.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}
	msgs := [][]byte{
		vector.EncodeFloat32([]float64{1, 2, 3, 4}),
		vector.EncodeFloat32([]float64{-1, 0.5, 0, 2}),
	}
	ids := [][]byte{[]byte("a"), []byte("b")}
	t1, _ := m.Tag(msgs[0], ids[0])
	t2, _ := m.Tag(msgs[1], ids[1])
	sum, err := m.CombineTags([][]byte{t1, t2})
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.VerifyCombined(msgs, ids, sum); !ok {
		t.Error("combined tag rejected")
	}
}

func TestLinearBindsMessageBytes(t *testing.T) {
	m, _ := NewLinear(WithDimension(100))
	if err := m.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}
	r := mrand.New(mrand.NewPCG(3, 4))
	v := make([]float64, 100)
	for i := range v {
		v[i] = r.NormFloat64() * 0.1
	}
	msg := vector.EncodeFloat32(v)
	id := []byte("client-9")
	tag, err := m.Tag(msg, id)
	if err != nil {
		t.Fatal(err)
	}

	// Low mantissa bits vanish under quantization but must still be
	// authenticated.
	for range 1000 {
		if ok, _ := m.VerifyTag(flipBit(msg, r.IntN(8*len(msg))), tag, id); ok {
			t.Fatal("flipped message accepted")
		}
	}
	if ok, _ := m.VerifyTag(append(slices.Clone(msg), 0), tag, id); ok {
		t.Error("message with a trailing byte accepted")
	}

	other := vector.EncodeFloat32(v[:50])
	t2, _ := m.Tag(other, []byte("client-10"))
	sum, err := m.CombineTags([][]byte{tag, t2})
	if err != nil {
		t.Fatal(err)
	}
	if ok, _ := m.VerifyCombined([][]byte{msg, other}, [][]byte{id, []byte("client-10")}, sum); !ok {
		t.Error("combined tag rejected")
	}
	if ok, _ := m.VerifyCombined([][]byte{flipBit(msg, 0), other}, [][]byte{id, []byte("client-10")}, sum); ok {
		t.Error("combined tag accepted with a flipped message")
	}
}

func TestPolynomial(t *testing.T) {
	m, err := NewPolynomial(WithDegree(3))
	if err != nil {
		t.Fatal(err)
	}
	if err := m.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}

	msgs := [][]byte{[]byte("x"), []byte("y"), []byte("z"), []byte("w")}
	ids := [][]byte{[]byte("1"), []byte("2"), []byte("3"), []byte("4")}
	tags := make([][]byte, len(msgs))
	for i := range msgs {
		tags[i], _ = m.Tag(msgs[i], ids[i])
	}

	t.Run("AddMul", func(t *testing.T) {
		sum, err := m.Add(tags[0], tags[1])
		if err != nil {
			t.Fatal(err)
		}
		prod, err := m.Mul(sum, tags[2])
		if err != nil {
			t.Fatal(err)
		}
		// (x + y) * z
		c := Circuit{
			{Coeff: 1, Exponents: []int{1, 0, 1}},
			{Coeff: 1, Exponents: []int{0, 1, 1}},
		}
		ok, err := m.VerifyEvaluation(c, msgs[:3], ids[:3], prod)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("(x+y)*z rejected")
		}
		ok, _ = m.VerifyEvaluation(c[:1], msgs[:3], ids[:3], prod)
		if ok {
			t.Error("tag accepted for a different circuit")
		}
	})

	t.Run("Evaluate", func(t *testing.T) {
		// 3*x^2*y - 2*z + 5
		c := Circuit{
			{Coeff: 3, Exponents: []int{2, 1}},
			{Coeff: -2, Exponents: []int{0, 0, 1}},
			{Coeff: 5},
		}
		tag, err := m.Evaluate(c, tags[:3])
		if err != nil {
			t.Fatal(err)
		}
		ok, err := m.VerifyEvaluation(c, msgs[:3], ids[:3], tag)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("evaluated tag rejected")
		}
	})

	t.Run("DegreeBound", func(t *testing.T) {
		c := Circuit{{Coeff: 1, Exponents: []int{1, 1, 1, 1}}}
		if _, err := m.Evaluate(c, tags); !errors.Is(err, scheme.ErrDegreeBound) {
			t.Errorf("expected ErrDegreeBound, got %v", err)
		}
		xy, _ := m.Mul(tags[0], tags[1])
		xyz, _ := m.Mul(xy, tags[2])
		if _, err := m.Mul(xyz, tags[3]); !errors.Is(err, scheme.ErrDegreeBound) {
			t.Errorf("expected ErrDegreeBound, got %v", err)
		}
	})

	t.Run("PolynomialCombine", func(t *testing.T) {
		coeffs := []float64{0.5, -1.5}
		tag, err := m.PolynomialCombine(tags[:2], coeffs)
		if err != nil {
			t.Fatal(err)
		}
		ok, err := m.VerifyPolynomialCombination(msgs[:2], ids[:2], coeffs, tag)
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Error("weighted combination rejected")
		}

		scaled, _ := m.Scale(tags[0], 0.5)
		neg, _ := m.Scale(tags[1], -1.5)
		manual, _ := m.Add(scaled, neg)
		if !bytes.Equal(manual, tag) {
			t.Error("Scale+Add differs from PolynomialCombine")
		}
	})

	t.Run("CombineTags", func(t *testing.T) {
		tag, err := m.CombineTags(tags)
		if err != nil {
			t.Fatal(err)
		}
		ok, _ := m.VerifyCombined(msgs, ids, tag)
		if !ok {
			t.Error("unit combination rejected")
		}
	})

	t.Run("CircuitErrors", func(t *testing.T) {
		if _, err := m.Evaluate(nil, tags); !errors.Is(err, scheme.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
		c := Circuit{{Coeff: 1, Exponents: []int{0, 0, 0, 0, 1}}}
		if _, err := m.Evaluate(c, tags); !errors.Is(err, scheme.ErrLengthMismatch) {
			t.Errorf("expected ErrLengthMismatch, got %v", err)
		}
		c = Circuit{{Coeff: 1, Exponents: []int{-1}}}
		if _, err := m.Evaluate(c, tags); !errors.Is(err, scheme.ErrMalformed) {
			t.Errorf("expected ErrMalformed, got %v", err)
		}
	})
}

func TestOptions(t *testing.T) {
	if _, err := NewLinear(WithDimension(0)); err == nil {
		t.Error("zero dimension accepted")
	}
	if _, err := NewPolynomial(WithDegree(0)); err == nil {
		t.Error("zero degree accepted")
	}
	if _, err := NewAdditive(WithQuantizer(vector.Quantizer{})); err == nil {
		t.Error("invalid quantizer accepted")
	}

	// Signer and verifier must agree on the rounding rule.
	trunc, _ := NewLinear(WithDimension(1))
	_ = trunc.GenerateKey(rand.Reader)
	v := []float64{0.0015}
	tag, _ := trunc.SignVector(v, []byte("id"))
	round := &Linear{keyed: trunc.keyed, d: trunc.d, dim: 1, tol: trunc.tol,
		q: vector.Quantizer{Scale: 1000, Rounding: vector.HalfAwayFromZero}}
	if ok, _ := round.VerifyVector(v, tag, []byte("id")); ok {
		t.Error("tag verified under a different rounding rule")
	}
}

func TestStatisticalMessageFlips(t *testing.T) {
	m, _ := NewAdditive()
	_ = m.GenerateKey(rand.Reader)
	r := mrand.New(mrand.NewPCG(1, 2))
	msg := make([]byte, 256)
	for i := range msg {
		msg[i] = byte(r.IntN(256))
	}
	tag, _ := m.Tag(msg, []byte("id"))
	for range 1000 {
		if ok, _ := m.VerifyTag(flipBit(msg, r.IntN(8*len(msg))), tag, []byte("id")); ok {
			t.Fatal("flipped message accepted")
		}
	}
}
