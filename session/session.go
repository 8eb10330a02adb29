package session

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/f3rmion/homauth/group"
	"github.com/f3rmion/homauth/instrument"
	"github.com/f3rmion/homauth/lattice"
	"github.com/f3rmion/homauth/mac"
	"github.com/f3rmion/homauth/prf"
	"github.com/f3rmion/homauth/scheme"
	"github.com/f3rmion/homauth/signature"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// ErrUnknownScheme is returned by [New] for a name not in [Names].
var ErrUnknownScheme = errors.New("unknown scheme")

// PRF names accepted in [Config].
const (
	PRFShake256 = "shake256"
	PRFBlake2b  = "blake2b"
)

// Config selects a scheme by name and carries its construction
// parameters. Zero values select each scheme's defaults.
type Config struct {
	// Scheme is one of [Names].
	Scheme string

	// VectorDim is the vector dimension for Linear_HMAC, Waters and LHS.
	VectorDim int

	// Degree bounds Polynomial_HMAC tags.
	Degree int

	// RSAKeySize is the modulus size in bits for RSA and RSA-homomorphic.
	RSAKeySize int

	// Group backs Waters and LHS. Defaults to BLS12-381 G1.
	Group group.Group

	// PRF selects the keyed PRF of the MAC schemes, [PRFShake256] or
	// [PRFBlake2b].
	PRF string

	// Lattice overrides the lattice MAC parameters.
	Lattice *lattice.Params

	// Rand is the key generation entropy source. Defaults to crypto/rand.
	Rand io.Reader

	// Logger and Registerer receive per-operation events and metrics.
	Logger     *zap.Logger
	Registerer prometheus.Registerer
}

type constructor func(cfg *Config) (scheme.Scheme, error)

var registry = map[string]constructor{
	signature.BLSName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewBLS()
	},
	signature.BLSBlstName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewBLSBlst()
	},
	signature.RSAName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewRSA(rsaKeySize(cfg), false)
	},
	signature.RSAHomomorphicName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewRSA(rsaKeySize(cfg), true)
	},
	signature.EdDSAName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewEdDSA(), nil
	},
	signature.WatersName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewWaters(vectorOptions(cfg)...)
	},
	signature.LHSName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewLHS(vectorOptions(cfg)...)
	},
	signature.BonehBoyenName: func(cfg *Config) (scheme.Scheme, error) {
		return signature.NewBonehBoyen()
	},
	mac.AdditiveName: func(cfg *Config) (scheme.Scheme, error) {
		opts, err := macOptions(cfg)
		if err != nil {
			return nil, err
		}
		return mac.NewAdditive(opts...)
	},
	mac.LinearName: func(cfg *Config) (scheme.Scheme, error) {
		opts, err := macOptions(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.VectorDim != 0 {
			opts = append(opts, mac.WithDimension(cfg.VectorDim))
		}
		return mac.NewLinear(opts...)
	},
	mac.PolynomialName: func(cfg *Config) (scheme.Scheme, error) {
		opts, err := macOptions(cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Degree != 0 {
			opts = append(opts, mac.WithDegree(cfg.Degree))
		}
		return mac.NewPolynomial(opts...)
	},
	lattice.Name: func(cfg *Config) (scheme.Scheme, error) {
		fn, err := prfFunction(cfg.PRF)
		if err != nil {
			return nil, err
		}
		params := lattice.DefaultParams
		if cfg.Lattice != nil {
			params = *cfg.Lattice
		}
		return lattice.New(params, lattice.WithPRF(fn))
	},
}

// Names returns every registered scheme name in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func rsaKeySize(cfg *Config) int {
	if cfg.RSAKeySize == 0 {
		return signature.DefaultRSAKeySize
	}
	return cfg.RSAKeySize
}

func vectorOptions(cfg *Config) []signature.Option {
	var opts []signature.Option
	if cfg.VectorDim != 0 {
		opts = append(opts, signature.WithDimension(cfg.VectorDim))
	}
	if cfg.Group != nil {
		opts = append(opts, signature.WithGroup(cfg.Group))
	}
	return opts
}

func prfFunction(name string) (prf.Function, error) {
	switch name {
	case "", PRFShake256:
		return prf.NewShake256(), nil
	case PRFBlake2b:
		return prf.NewBlake2b(), nil
	}
	return nil, fmt.Errorf("unknown PRF %q", name)
}

func macOptions(cfg *Config) ([]mac.Option, error) {
	fn, err := prfFunction(cfg.PRF)
	if err != nil {
		return nil, err
	}
	return []mac.Option{mac.WithPRF(fn)}, nil
}

// Session drives one scheme instance through key generation and the
// signing and verification entry points, recording each call with an
// [instrument.Recorder]. Create instances using [New].
type Session struct {
	s    scheme.Scheme
	rec  *instrument.Recorder
	rand io.Reader

	mu    sync.Mutex
	keyed bool
}

// New constructs the scheme named by cfg.Scheme. Backend capability
// errors such as a missing blst build surface here rather than at first
// use.
func New(cfg Config) (*Session, error) {
	ctor, ok := registry[cfg.Scheme]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, cfg.Scheme)
	}
	s, err := ctor(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to construct %s: %w", cfg.Scheme, err)
	}
	rec, err := instrument.New(cfg.Logger, cfg.Registerer)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	r := cfg.Rand
	if r == nil {
		r = rand.Reader
	}
	sess := &Session{s: s, rec: rec, rand: r}
	fields := []zap.Field{zap.String("scheme", s.Name())}
	if fn := sess.PRF(); fn != "" {
		fields = append(fields, zap.String("prf", fn))
	}
	if lm, ok := s.(*lattice.MAC); ok {
		p := lm.Params()
		fields = append(fields, zap.Int("lattice_n", p.N), zap.Uint64("lattice_q", p.Q))
	}
	rec.Logger().Debug("session created", fields...)
	return sess, nil
}

type keyedPRF interface {
	PRF() prf.Function
}

// PRF returns the name of the scheme's keyed PRF, or "" for signature
// schemes.
func (s *Session) PRF() string {
	if k, ok := s.s.(keyedPRF); ok {
		return k.PRF().Name()
	}
	return ""
}

// Name returns the scheme name.
func (s *Session) Name() string { return s.s.Name() }

// Scheme returns the underlying scheme for capabilities the session does
// not expose, such as polynomial evaluation or RSA integer signing.
func (s *Session) Scheme() scheme.Scheme { return s.s }

// SignatureSize returns the encoded size of one tag or signature.
func (s *Session) SignatureSize() int { return s.s.SignatureSize() }

// PublicKeySize returns the encoded public key size, 0 for MACs.
func (s *Session) PublicKeySize() int { return s.s.PublicKeySize() }

// KeyGeneration generates the scheme's key. It may be called once.
func (s *Session) KeyGeneration() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keyed {
		return scheme.ErrKeyExists
	}
	start := time.Now()
	err := s.s.GenerateKey(s.rand)
	s.rec.Observe(s.Name(), instrument.OpKeyGen, start, err)
	if err != nil {
		return err
	}
	s.keyed = true
	if s.s.PublicKeySize() > 0 {
		s.rec.Size(s.Name(), instrument.KindPublicKey, s.s.PublicKeySize())
	}
	return nil
}

// PublicKey returns the encoded public key, or nil for symmetric schemes.
func (s *Session) PublicKey() ([]byte, error) {
	signer, ok := s.s.(scheme.Signer)
	if !ok {
		return nil, nil
	}
	return signer.PublicKey()
}
