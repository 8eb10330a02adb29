package signature

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"slices"
	"testing"

	"github.com/f3rmion/homauth/bjj"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/vector"
)

const testDim = 8

func flipBit(b []byte, i int) []byte {
	out := bytes.Clone(b)
	out[i/8] ^= 1 << (i % 8)
	return out
}

// must unwraps a constructor result in test setup.
func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

// newSigners returns one keyed instance of every scheme.
func newSigners(t *testing.T) []scheme.Signer {
	t.Helper()
	out := []scheme.Signer{
		must(NewBLS()),
		must(NewRSA(1024, false)),
		must(NewRSA(1024, true)),
		NewEdDSA(),
		must(NewWaters(WithDimension(testDim))),
		must(NewLHS(WithDimension(testDim))),
		must(NewBonehBoyen()),
	}
	for _, s := range out {
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
	}
	return out
}

func TestSigners(t *testing.T) {
	msg := vector.EncodeFloat32([]float64{1.5, -2, 0.25})

	for _, s := range newSigners(t) {
		t.Run(s.Name(), func(t *testing.T) {
			sig := must(s.Sign(msg))
			if len(sig) != s.SignatureSize() {
				t.Errorf("signature is %d bytes, SignatureSize is %d", len(sig), s.SignatureSize())
			}
			pub := must(s.PublicKey())
			if len(pub) != s.PublicKeySize() {
				t.Errorf("public key is %d bytes, PublicKeySize is %d", len(pub), s.PublicKeySize())
			}

			for _, p := range [][]byte{nil, pub} {
				ok, err := s.Verify(msg, sig, p)
				if err != nil {
					t.Fatal(err)
				}
				if !ok {
					t.Error("valid signature rejected")
				}
			}

			if ok, _ := s.Verify(append(bytes.Clone(msg), 0), sig, nil); ok {
				t.Error("signature accepted for another message")
			}
			if ok, err := s.Verify(msg, sig[:len(sig)-1], nil); ok || err != nil {
				t.Errorf("truncated signature: ok=%v err=%v", ok, err)
			}
			if ok, err := s.Verify(msg, sig, pub[:len(pub)-1]); ok || err != nil {
				t.Errorf("truncated public key: ok=%v err=%v", ok, err)
			}

			if err := s.GenerateKey(rand.Reader); !errors.Is(err, scheme.ErrKeyExists) {
				t.Errorf("second GenerateKey: got %v, want ErrKeyExists", err)
			}
		})
	}
}

func TestForeignKey(t *testing.T) {
	msg := []byte("round 3 update")
	a, b := newSigners(t), newSigners(t)
	for i := range a {
		t.Run(a[i].Name(), func(t *testing.T) {
			sig := must(a[i].Sign(msg))
			pubA := must(a[i].PublicKey())
			pubB := must(b[i].PublicKey())

			if ok, _ := b[i].Verify(msg, sig, pubA); !ok {
				t.Error("signature rejected by another instance holding the signer's key")
			}
			if ok, _ := a[i].Verify(msg, sig, pubB); ok {
				t.Error("signature accepted under an unrelated key")
			}
		})
	}
}

func TestNoKey(t *testing.T) {
	fresh := []scheme.Signer{
		must(NewBLS()),
		must(NewRSA(1024, true)),
		NewEdDSA(),
		must(NewWaters(WithDimension(testDim))),
		must(NewLHS(WithDimension(testDim))),
		must(NewBonehBoyen()),
	}
	for _, s := range fresh {
		t.Run(s.Name(), func(t *testing.T) {
			if _, err := s.Sign([]byte("m")); !errors.Is(err, scheme.ErrNoKey) {
				t.Errorf("Sign: got %v, want ErrNoKey", err)
			}
			if _, err := s.PublicKey(); !errors.Is(err, scheme.ErrNoKey) {
				t.Errorf("PublicKey: got %v, want ErrNoKey", err)
			}
			if _, err := s.Verify([]byte("m"), make([]byte, s.SignatureSize()), nil); !errors.Is(err, scheme.ErrNoKey) {
				t.Errorf("Verify: got %v, want ErrNoKey", err)
			}
		})
	}
}

func TestBitFlips(t *testing.T) {
	msg := []byte("the quick brown fox")

	for _, s := range newSigners(t) {
		t.Run(s.Name(), func(t *testing.T) {
			sig := must(s.Sign(msg))
			for i := range 8 * len(sig) {
				if ok, _ := s.Verify(msg, flipBit(sig, i), nil); ok {
					t.Fatalf("signature bit %d flipped: accepted", i)
				}
			}
			for i := range 8 * len(msg) {
				if ok, _ := s.Verify(flipBit(msg, i), sig, nil); ok {
					t.Fatalf("message bit %d flipped: accepted", i)
				}
			}
		})
	}
}

func TestEmptyAggregate(t *testing.T) {
	for _, s := range newSigners(t) {
		a, ok := s.(scheme.Aggregator)
		if !ok {
			continue
		}
		if r, ok := s.(*RSA); ok && !r.Homomorphic() {
			continue
		}
		t.Run(s.Name(), func(t *testing.T) {
			if _, err := a.Aggregate(nil); !errors.Is(err, scheme.ErrEmptyInput) {
				t.Errorf("got %v, want ErrEmptyInput", err)
			}
			if !errors.Is(scheme.ErrEmptyInput, scheme.ErrStructural) {
				t.Error("ErrEmptyInput is not structural")
			}
		})
	}
}

func TestAggregate(t *testing.T) {
	msgs := [][]byte{[]byte("a"), []byte("bb"), []byte("ccc")}

	for _, s := range newSigners(t) {
		av, ok := s.(interface {
			scheme.Aggregator
			scheme.AggregateVerifier
		})
		if !ok {
			continue
		}
		if r, ok := s.(*RSA); ok && !r.Homomorphic() {
			continue
		}
		t.Run(s.Name(), func(t *testing.T) {
			sigs := make([][]byte, len(msgs))
			for i, m := range msgs {
				sigs[i] = must(s.Sign(m))
			}
			agg := must(av.Aggregate(sigs))
			pubs := make([][]byte, len(msgs))

			if ok, err := av.AggregateVerify(msgs, agg, pubs); !ok || err != nil {
				t.Errorf("valid aggregate: ok=%v err=%v", ok, err)
			}
			swapped := [][]byte{msgs[0], msgs[1], []byte("ccd")}
			if ok, _ := av.AggregateVerify(swapped, agg, pubs); ok {
				t.Error("aggregate accepted for another message set")
			}
			if ok, _ := av.AggregateVerify(msgs[:2], agg, pubs[:2]); ok {
				t.Error("aggregate accepted for a subset")
			}
			if _, err := av.AggregateVerify(msgs, agg, pubs[:2]); !errors.Is(err, scheme.ErrLengthMismatch) {
				t.Errorf("mismatched lists: got %v, want ErrLengthMismatch", err)
			}
			if _, err := av.Aggregate([][]byte{sigs[0], {1, 2, 3}}); !errors.Is(err, scheme.ErrMalformed) {
				t.Errorf("garbage input: got %v, want ErrMalformed", err)
			}
		})
	}
}

func TestBLS(t *testing.T) {
	t.Run("ConstantSize", func(t *testing.T) {
		s := must(NewBLS())
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
		sizes := make(map[int]int)
		for _, n := range []int{2, 200} {
			msgs := make([][]byte, n)
			sigs := make([][]byte, n)
			for i := range n {
				msgs[i] = fmt.Appendf(nil, "client %d", i)
				sigs[i] = must(s.Sign(msgs[i]))
			}
			agg := must(s.Aggregate(sigs))
			sizes[n] = len(agg)
			if ok, err := s.AggregateVerify(msgs, agg, make([][]byte, n)); !ok || err != nil {
				t.Errorf("n=%d: ok=%v err=%v", n, ok, err)
			}
		}
		if sizes[2] != sizes[200] || sizes[2] != s.SignatureSize() {
			t.Errorf("aggregate sizes %v, SignatureSize %d", sizes, s.SignatureSize())
		}
	})

	t.Run("ManySigners", func(t *testing.T) {
		var msgs, sigs, pubs [][]byte
		for i := range 3 {
			s := must(NewBLS())
			if err := s.GenerateKey(rand.Reader); err != nil {
				t.Fatal(err)
			}
			m := fmt.Appendf(nil, "update from %d", i)
			msgs = append(msgs, m)
			sigs = append(sigs, must(s.Sign(m)))
			pubs = append(pubs, must(s.PublicKey()))
		}
		verifier := must(NewBLS())
		agg := must(verifier.Aggregate(sigs))
		if ok, err := verifier.AggregateVerify(msgs, agg, pubs); !ok || err != nil {
			t.Errorf("ok=%v err=%v", ok, err)
		}
		pubs[0], pubs[1] = pubs[1], pubs[0]
		if ok, _ := verifier.AggregateVerify(msgs, agg, pubs); ok {
			t.Error("aggregate accepted with permuted keys")
		}
	})

	t.Run("IdentityKeyRejected", func(t *testing.T) {
		s := must(NewBLS())
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
		sig := must(s.Sign([]byte("m")))
		identity := s.e.G1().NewPoint().Bytes()
		if ok, _ := s.Verify([]byte("m"), sig, identity); ok {
			t.Error("identity public key accepted")
		}
	})
}

func TestRSA(t *testing.T) {
	if _, err := NewRSA(512, true); err == nil {
		t.Error("512-bit modulus accepted")
	}

	t.Run("Multiplicative", func(t *testing.T) {
		s := must(NewRSA(1024, true))
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
		m1, m2 := []byte("first"), []byte("second")
		s1 := must(s.Sign(m1))
		s2 := must(s.Sign(m2))
		prod := must(s.HomomorphicMultiply(s1, s2))

		n := s.key.N
		x := new(big.Int).Mul(Digest(m1, n), Digest(m2, n))
		fresh := must(s.SignInteger(x))
		if !bytes.Equal(prod, fresh) {
			t.Error("product of signatures differs from a signature on the product")
		}
		if ok, err := s.VerifyInteger(x, prod, nil); !ok || err != nil {
			t.Errorf("VerifyInteger: ok=%v err=%v", ok, err)
		}
		if ok, err := s.AggregateVerify([][]byte{m1, m2}, prod, [][]byte{nil, nil}); !ok || err != nil {
			t.Errorf("AggregateVerify: ok=%v err=%v", ok, err)
		}
	})

	t.Run("PaddedDisablesAggregation", func(t *testing.T) {
		s := must(NewRSA(1024, false))
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
		sig := must(s.Sign([]byte("m")))
		if _, err := s.Aggregate([][]byte{sig, sig}); !errors.Is(err, scheme.ErrHomomorphicDisabled) {
			t.Errorf("Aggregate: got %v", err)
		}
		if _, err := s.AggregateVerify([][]byte{[]byte("m")}, sig, [][]byte{nil}); !errors.Is(err, scheme.ErrHomomorphicDisabled) {
			t.Errorf("AggregateVerify: got %v", err)
		}
		if _, err := s.SignInteger(big.NewInt(2)); !errors.Is(err, scheme.ErrHomomorphicDisabled) {
			t.Errorf("SignInteger: got %v", err)
		}
		if !errors.Is(scheme.ErrHomomorphicDisabled, scheme.ErrStructural) {
			t.Error("ErrHomomorphicDisabled is not structural")
		}
	})

	t.Run("ModesIncompatible", func(t *testing.T) {
		h := must(NewRSA(1024, true))
		if err := h.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
		p := must(NewRSA(1024, false))
		pub := must(h.PublicKey())
		sig := must(h.Sign([]byte("m")))
		if ok, _ := p.Verify([]byte("m"), sig, pub); ok {
			t.Error("textbook signature accepted in padded mode")
		}
	})

	t.Run("MixedModuli", func(t *testing.T) {
		a := must(NewRSA(1024, true))
		b := must(NewRSA(1024, true))
		for _, s := range []*RSA{a, b} {
			if err := s.GenerateKey(rand.Reader); err != nil {
				t.Fatal(err)
			}
		}
		sa := must(a.Sign([]byte("x")))
		pubB := must(b.PublicKey())
		_, err := a.AggregateVerify([][]byte{[]byte("x"), []byte("y")}, sa, [][]byte{nil, pubB})
		if !errors.Is(err, scheme.ErrUnsupported) {
			t.Errorf("got %v, want ErrUnsupported", err)
		}
	})
}

func TestBonehBoyen(t *testing.T) {
	t.Run("Collision", func(t *testing.T) {
		s := must(NewBonehBoyen())
		msg := []byte("colliding message")
		h := must(s.hash(msg))
		s.sk = s.e.G1().NewScalar().Negate(h)
		s.pk = s.e.G2().NewPoint()

		_, err := s.Sign(msg)
		if !errors.Is(err, scheme.ErrDomainCollision) {
			t.Fatalf("got %v, want ErrDomainCollision", err)
		}
		if _, err := s.Sign([]byte("other message")); err != nil {
			t.Errorf("non-colliding message: %v", err)
		}
	})

	t.Run("BatchVerify", func(t *testing.T) {
		var msgs, sigs, pubs [][]byte
		for i := range 4 {
			s := must(NewBonehBoyen())
			if err := s.GenerateKey(rand.Reader); err != nil {
				t.Fatal(err)
			}
			m := fmt.Appendf(nil, "batch %d", i)
			msgs = append(msgs, m)
			sigs = append(sigs, must(s.Sign(m)))
			pubs = append(pubs, must(s.PublicKey()))
		}
		v := must(NewBonehBoyen())
		if ok, err := v.BatchVerify(msgs, sigs, pubs); !ok || err != nil {
			t.Errorf("valid batch: ok=%v err=%v", ok, err)
		}
		sigs[1], sigs[2] = sigs[2], sigs[1]
		if ok, _ := v.BatchVerify(msgs, sigs, pubs); ok {
			t.Error("batch with swapped signatures accepted")
		}
		if _, err := v.BatchVerify(nil, nil, nil); !errors.Is(err, scheme.ErrEmptyInput) {
			t.Errorf("empty batch: got %v", err)
		}
	})
}

func TestEdDSAAggregateGrows(t *testing.T) {
	s := NewEdDSA()
	if err := s.GenerateKey(rand.Reader); err != nil {
		t.Fatal(err)
	}
	sigs := [][]byte{must(s.Sign([]byte("a"))), must(s.Sign([]byte("b")))}
	agg := must(s.Aggregate(sigs))
	if len(agg) != 2*s.SignatureSize() {
		t.Errorf("aggregate is %d bytes, want %d", len(agg), 2*s.SignatureSize())
	}
}

func newVectorSigners(t *testing.T) []interface {
	scheme.Signer
	scheme.VectorSigner
	scheme.LinearVerifier
} {
	t.Helper()
	w := must(NewWaters(WithDimension(testDim)))
	l := must(NewLHS(WithDimension(testDim)))
	wj := must(NewWaters(WithDimension(testDim), WithGroup(&bjj.BJJ{})))
	lj := must(NewLHS(WithDimension(testDim), WithGroup(&bjj.BJJ{})))
	out := []interface {
		scheme.Signer
		scheme.VectorSigner
		scheme.LinearVerifier
	}{w, l, wj, lj}
	for _, s := range out {
		if err := s.GenerateKey(rand.Reader); err != nil {
			t.Fatal(err)
		}
	}
	return out
}

func TestVectorLinearCombination(t *testing.T) {
	vectors := [][]float64{
		{0.1, 0.2, 0.3, 0.4},
		{-1.5, 2.25, 0, 8, 1, 1, 1, 1, 99},
		{3.125, -0.001, 7},
	}
	coeffs := []float64{0.5, 0.25, 0.25}
	ids := [][]byte{[]byte("c1"), []byte("c2"), []byte("c3")}

	for _, s := range newVectorSigners(t) {
		t.Run(s.Name()+"/"+groupName(s), func(t *testing.T) {
			sigs := make([][]byte, len(vectors))
			for i, v := range vectors {
				sigs[i] = must(s.SignVector(v, ids[i]))
				if ok, _ := s.VerifyVector(v, sigs[i], ids[i]); !ok {
					t.Fatalf("vector %d rejected", i)
				}
			}
			combined := must(vector.Combine(vectors, coeffs, s.VectorDim()))

			if ok, err := s.VerifyLinearCombination(combined, vectors, sigs, coeffs, ids); !ok || err != nil {
				t.Errorf("valid combination: ok=%v err=%v", ok, err)
			}

			bad := slices.Clone(combined)
			bad[0] += 0.01
			if ok, _ := s.VerifyLinearCombination(bad, vectors, sigs, coeffs, ids); ok {
				t.Error("perturbed combined vector accepted")
			}

			wrongCoeffs := []float64{0.5, 0.5, 0}
			if ok, _ := s.VerifyLinearCombination(combined, vectors, sigs, wrongCoeffs, ids); ok {
				t.Error("wrong coefficients accepted")
			}

			forged := [][]byte{sigs[0], sigs[0], sigs[2]}
			if ok, _ := s.VerifyLinearCombination(combined, vectors, forged, coeffs, ids); ok {
				t.Error("combination with a bad input signature accepted")
			}

			_, err := s.VerifyLinearCombination(combined, vectors, sigs, coeffs[:2], ids)
			if !errors.Is(err, scheme.ErrLengthMismatch) {
				t.Errorf("short coefficient list: got %v, want ErrLengthMismatch", err)
			}
			_, err = s.VerifyLinearCombination(combined, nil, nil, nil, nil)
			if !errors.Is(err, scheme.ErrEmptyInput) {
				t.Errorf("empty input: got %v, want ErrEmptyInput", err)
			}
		})
	}
}

func groupName(s any) string {
	switch v := s.(type) {
	case *Waters:
		return v.Group().Name()
	case *LHS:
		return v.Group().Name()
	}
	return ""
}

func TestVectorIdentifierBinding(t *testing.T) {
	for _, s := range newVectorSigners(t) {
		t.Run(s.Name()+"/"+groupName(s), func(t *testing.T) {
			v := []float64{1, 2, 3}
			sig := must(s.SignVector(v, []byte("file-1")))
			if ok, _ := s.VerifyVector(v, sig, []byte("file-2")); ok {
				t.Error("signature accepted under another identifier")
			}
			// Entries past the dimension are dropped before signing.
			long := append(make([]float64, testDim), 5)
			copy(long, v)
			if ok, _ := s.VerifyVector(long, sig, []byte("file-1")); !ok {
				t.Error("truncated vector rejected")
			}
		})
	}
}

func TestLHSCombineVectors(t *testing.T) {
	l := must(NewLHS(WithDimension(3)))
	got := must(l.CombineVectors([][]float64{{1, 2, 3}, {10, 20, 30, 40}}, []float64{2, 0.5}))
	want := []float64{7, 14, 21}
	if !vector.AllClose(got, want, vector.DefaultTolerance) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestOptions(t *testing.T) {
	if _, err := NewWaters(WithDimension(0)); err == nil {
		t.Error("zero dimension accepted")
	}
	if _, err := NewLHS(WithQuantizer(vector.Quantizer{Scale: 0})); err == nil {
		t.Error("zero scale accepted")
	}
	if _, err := NewBLS(WithPairing(nil)); err != nil {
		t.Errorf("nil pairing should fall back to the default: %v", err)
	}
	w := must(NewWaters(WithDimension(4)))
	if got, want := w.PublicKeySize(), 5*w.SignatureSize(); got != want {
		t.Errorf("PublicKeySize = %d, want %d", got, want)
	}
}
