// Package grouptest checks that a [group.Group] implementation obeys the
// algebraic laws the schemes rely on.
package grouptest

import (
	"crypto/rand"
	"math/big"
	"testing"

	"github.com/f3rmion/homauth/group"
)

// randomNonZero draws scalars until one is non-zero.
func randomNonZero(t *testing.T, g group.Group) group.Scalar {
	t.Helper()
	for {
		s, err := g.RandomScalar(rand.Reader)
		if err != nil {
			t.Fatal(err)
		}
		if !s.IsZero() {
			return s
		}
	}
}

// TestGroup runs the scalar and point conformance checks against g.
func TestGroup(t *testing.T, g group.Group) {
	t.Run("Scalar", func(t *testing.T) { testScalar(t, g) })
	t.Run("Point", func(t *testing.T) { testPoint(t, g) })
	t.Run("Helpers", func(t *testing.T) { testHelpers(t, g) })
}

func testScalar(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		a := randomNonZero(t, g)
		b := randomNonZero(t, g)
		sum := g.NewScalar().Add(a, b)
		if !g.NewScalar().Sub(sum, b).Equal(a) {
			t.Error("(a+b)-b != a")
		}
	})

	t.Run("MulInvert", func(t *testing.T) {
		a := randomNonZero(t, g)
		aInv, err := g.NewScalar().Invert(a)
		if err != nil {
			t.Fatal(err)
		}
		b := randomNonZero(t, g)
		product := g.NewScalar().Mul(a, aInv)
		if !g.NewScalar().Mul(product, b).Equal(b) {
			t.Error("a*a^-1 != 1")
		}
	})

	t.Run("InvertZeroFails", func(t *testing.T) {
		if _, err := g.NewScalar().Invert(g.NewScalar()); err == nil {
			t.Error("expected error inverting zero")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		a := randomNonZero(t, g)
		negA := g.NewScalar().Negate(a)
		if a.Equal(negA) {
			t.Error("a should not equal -a")
		}
		if !g.NewScalar().Add(a, negA).IsZero() {
			t.Error("a + (-a) != 0")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		a := randomNonZero(t, g)
		restored, err := g.NewScalar().SetBytes(a.Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(a) {
			t.Error("scalar bytes roundtrip failed")
		}
	})

	t.Run("HashDeterministic", func(t *testing.T) {
		h1, err := g.HashToScalar([]byte("file"), []byte("42"))
		if err != nil {
			t.Fatal(err)
		}
		h2, _ := g.HashToScalar([]byte("file"), []byte("42"))
		h3, _ := g.HashToScalar([]byte("file4"), []byte("2"))
		if !h1.Equal(h2) {
			t.Error("hash is not deterministic")
		}
		if h1.Equal(h3) {
			t.Error("hash ignores input boundaries")
		}
	})
}

func testPoint(t *testing.T, g group.Group) {
	t.Run("AddSub", func(t *testing.T) {
		P := g.NewPoint().ScalarMult(randomNonZero(t, g), g.Generator())
		Q := g.NewPoint().ScalarMult(randomNonZero(t, g), g.Generator())
		sum := g.NewPoint().Add(P, Q)
		if !g.NewPoint().Sub(sum, Q).Equal(P) {
			t.Error("(P+Q)-Q != P")
		}
	})

	t.Run("Distributive", func(t *testing.T) {
		a := randomNonZero(t, g)
		b := randomNonZero(t, g)
		lhs := g.NewPoint().ScalarMult(g.NewScalar().Add(a, b), g.Generator())
		aG := g.NewPoint().ScalarMult(a, g.Generator())
		bG := g.NewPoint().ScalarMult(b, g.Generator())
		if !lhs.Equal(g.NewPoint().Add(aG, bG)) {
			t.Error("(a+b)G != aG + bG")
		}
	})

	t.Run("Negate", func(t *testing.T) {
		P := g.NewPoint().ScalarMult(randomNonZero(t, g), g.Generator())
		negP := g.NewPoint().Negate(P)
		if !g.NewPoint().Add(P, negP).IsIdentity() {
			t.Error("P + (-P) != identity")
		}
	})

	t.Run("BytesRoundtrip", func(t *testing.T) {
		P := g.NewPoint().ScalarMult(randomNonZero(t, g), g.Generator())
		enc := P.Bytes()
		if len(enc) != g.PointLen() {
			t.Fatalf("encoding is %d bytes, want %d", len(enc), g.PointLen())
		}
		restored, err := g.NewPoint().SetBytes(enc)
		if err != nil {
			t.Fatal(err)
		}
		if !restored.Equal(P) {
			t.Error("point bytes roundtrip failed")
		}
	})

	t.Run("IdentityRoundtrip", func(t *testing.T) {
		restored, err := g.NewPoint().SetBytes(g.NewPoint().Bytes())
		if err != nil {
			t.Fatal(err)
		}
		if !restored.IsIdentity() {
			t.Error("identity did not survive encoding")
		}
	})

	t.Run("IsIdentity", func(t *testing.T) {
		if !g.NewPoint().IsIdentity() {
			t.Error("new point should be identity")
		}
		if g.Generator().IsIdentity() {
			t.Error("generator should not be identity")
		}
	})
}

func testHelpers(t *testing.T, g group.Group) {
	t.Run("NegativeInteger", func(t *testing.T) {
		minusThree, err := group.ScalarFromInt64(g, -3)
		if err != nil {
			t.Fatal(err)
		}
		three, _ := group.ScalarFromInt64(g, 3)
		if !g.NewScalar().Add(minusThree, three).IsZero() {
			t.Error("-3 + 3 != 0")
		}
	})

	t.Run("ReducesOrder", func(t *testing.T) {
		order := group.OrderInt(g)
		s, err := group.ScalarFromBig(g, new(big.Int).Add(order, big.NewInt(5)))
		if err != nil {
			t.Fatal(err)
		}
		five, _ := group.ScalarFromInt64(g, 5)
		if !s.Equal(five) {
			t.Error("order + 5 did not reduce to 5")
		}
	})

	t.Run("LinearCombination", func(t *testing.T) {
		a, _ := group.ScalarFromInt64(g, 2)
		b, _ := group.ScalarFromInt64(g, -1)
		P := g.NewPoint().ScalarMult(randomNonZero(t, g), g.Generator())
		got, err := group.LinearCombination(g, []group.Scalar{a, b}, []group.Point{P, P})
		if err != nil {
			t.Fatal(err)
		}
		if !got.Equal(P) {
			t.Error("2P - P != P")
		}
		if _, err := group.LinearCombination(g, []group.Scalar{a}, nil); err == nil {
			t.Error("expected length mismatch")
		}
	})
}
