package session

import (
	"fmt"
	"time"

	"github.com/f3rmion/homauth/instrument"
	"github.com/f3rmion/homauth/scheme"
)

func (s *Session) unsupported(op string) error {
	return fmt.Errorf("%w: %s on %s", scheme.ErrUnsupported, op, s.Name())
}

// Sign authenticates msg. Asymmetric schemes ignore id; MACs bind the tag
// to it.
func (s *Session) Sign(msg, id []byte) ([]byte, error) {
	start := time.Now()
	var (
		sig []byte
		err error
	)
	switch v := s.s.(type) {
	case scheme.Signer:
		sig, err = v.Sign(msg)
	case scheme.Tagger:
		sig, err = v.Tag(msg, id)
	default:
		err = s.unsupported(instrument.OpSign)
	}
	s.rec.Observe(s.Name(), instrument.OpSign, start, err)
	if err != nil {
		return nil, err
	}
	s.rec.Size(s.Name(), instrument.KindSignature, len(sig))
	return sig, nil
}

// SignVector authenticates a real vector under id.
func (s *Session) SignVector(v []float64, id []byte) ([]byte, error) {
	start := time.Now()
	vs, ok := s.s.(scheme.VectorSigner)
	if !ok {
		err := s.unsupported(instrument.OpSign)
		s.rec.Observe(s.Name(), instrument.OpSign, start, err)
		return nil, err
	}
	sig, err := vs.SignVector(v, id)
	s.rec.Observe(s.Name(), instrument.OpSign, start, err)
	return sig, err
}

// verdict records a verification and passes its result through.
func (s *Session) verdict(op string, start time.Time, ok bool, err error) (bool, error) {
	s.rec.Observe(s.Name(), op, start, err)
	if err != nil {
		return false, err
	}
	s.rec.Verdict(s.Name(), op, ok)
	return ok, nil
}

// Verify checks sig on msg. For signatures pub selects the verification
// key, nil meaning the session's own; for MACs id selects the identifier.
func (s *Session) Verify(msg, sig, id, pub []byte) (bool, error) {
	start := time.Now()
	var (
		ok  bool
		err error
	)
	switch v := s.s.(type) {
	case scheme.Signer:
		ok, err = v.Verify(msg, sig, pub)
	case scheme.Tagger:
		ok, err = v.VerifyTag(msg, sig, id)
	default:
		err = s.unsupported(instrument.OpVerify)
	}
	return s.verdict(instrument.OpVerify, start, ok, err)
}

// VerifyVector checks a vector signature or tag under id.
func (s *Session) VerifyVector(v []float64, sig, id []byte) (bool, error) {
	start := time.Now()
	vs, ok := s.s.(scheme.VectorSigner)
	if !ok {
		return s.verdict(instrument.OpVerify, start, false, s.unsupported(instrument.OpVerify))
	}
	ok, err := vs.VerifyVector(v, sig, id)
	return s.verdict(instrument.OpVerify, start, ok, err)
}

// Aggregate combines signatures, or MAC tags, with unit coefficients.
func (s *Session) Aggregate(sigs [][]byte) ([]byte, error) {
	start := time.Now()
	var (
		agg []byte
		err error
	)
	switch v := s.s.(type) {
	case scheme.Aggregator:
		agg, err = v.Aggregate(sigs)
	case scheme.TagCombiner:
		agg, err = v.CombineTags(sigs)
	default:
		err = s.unsupported(instrument.OpAggregate)
	}
	s.rec.Observe(s.Name(), instrument.OpAggregate, start, err)
	if err != nil {
		return nil, err
	}
	s.rec.Size(s.Name(), instrument.KindAggregate, len(agg))
	return agg, nil
}

// AggregateVerify checks an aggregate against the messages it covers.
// Signature schemes use pubs, where a nil list or nil entry selects the
// session's own key; MACs use ids instead.
func (s *Session) AggregateVerify(msgs [][]byte, agg []byte, ids, pubs [][]byte) (bool, error) {
	start := time.Now()
	var (
		ok  bool
		err error
	)
	switch v := s.s.(type) {
	case scheme.AggregateVerifier:
		if pubs == nil {
			pubs = make([][]byte, len(msgs))
		}
		ok, err = v.AggregateVerify(msgs, agg, pubs)
	case scheme.CombinedVerifier:
		ok, err = v.VerifyCombined(msgs, ids, agg)
	default:
		err = s.unsupported(instrument.OpAggregateVerify)
	}
	return s.verdict(instrument.OpAggregateVerify, start, ok, err)
}

// LinearClaim is a claimed weighted combination of signed vectors.
type LinearClaim struct {
	// Combined is the claimed value of sum(Coeffs[i]*Vectors[i]).
	Combined []float64
	Vectors  [][]float64
	Coeffs   []float64
	IDs      [][]byte

	// Signatures holds the per-vector signatures for schemes that verify
	// each input (Waters, LHS).
	Signatures [][]byte
	// CombinedTag holds the single combined tag for the linear MAC.
	CombinedTag []byte
}

// VerifyLinearCombination checks a [LinearClaim] with whichever form of
// evidence the scheme supports.
func (s *Session) VerifyLinearCombination(c LinearClaim) (bool, error) {
	start := time.Now()
	var (
		ok  bool
		err error
	)
	switch v := s.s.(type) {
	case scheme.LinearVerifier:
		ok, err = v.VerifyLinearCombination(c.Combined, c.Vectors, c.Signatures, c.Coeffs, c.IDs)
	case scheme.TagLinearVerifier:
		ok, err = v.VerifyTagLinearCombination(c.Combined, c.CombinedTag, c.Vectors, c.Coeffs, c.IDs)
	default:
		err = s.unsupported(instrument.OpVerifyLinear)
	}
	return s.verdict(instrument.OpVerifyLinear, start, ok, err)
}

type linearCombiner interface {
	LinearCombine(tags [][]byte, coeffs []float64) ([]byte, error)
}

type polynomialCombiner interface {
	PolynomialCombine(tags [][]byte, coeffs []float64) ([]byte, error)
}

// CombineWeighted combines MAC tags with real coefficients, producing the
// CombinedTag of a [LinearClaim].
func (s *Session) CombineWeighted(tags [][]byte, coeffs []float64) ([]byte, error) {
	start := time.Now()
	var (
		agg []byte
		err error
	)
	switch v := s.s.(type) {
	case linearCombiner:
		agg, err = v.LinearCombine(tags, coeffs)
	case polynomialCombiner:
		agg, err = v.PolynomialCombine(tags, coeffs)
	default:
		err = s.unsupported(instrument.OpAggregate)
	}
	s.rec.Observe(s.Name(), instrument.OpAggregate, start, err)
	return agg, err
}
