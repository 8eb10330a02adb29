package instrument

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Operation labels, one per driver-facing entry point.
const (
	OpKeyGen          = "key_generation"
	OpSign            = "sign"
	OpVerify          = "verify"
	OpAggregate       = "aggregate"
	OpAggregateVerify = "aggregate_verify"
	OpVerifyLinear    = "verify_linear_combination"
)

// Size kinds for [Recorder.Size].
const (
	KindSignature = "signature"
	KindPublicKey = "public_key"
	KindAggregate = "aggregate"
)

const namespace = "homauth"

// Recorder is safe for concurrent use.
type Recorder struct {
	log *zap.Logger

	duration   *prometheus.HistogramVec
	failures   *prometheus.CounterVec
	rejections *prometheus.CounterVec
	size       *prometheus.GaugeVec
}

// New registers the collectors with reg. A nil logger discards events; a
// nil reg uses a private registry. Collectors already registered by an
// earlier Recorder on the same reg are shared.
func New(log *zap.Logger, reg prometheus.Registerer) (*Recorder, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	r := &Recorder{log: log}
	var err error
	r.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "operation_duration_seconds",
		Help:      "Latency of scheme operations.",
		Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 12),
	}, []string{"scheme", "op"}))
	if err != nil {
		return nil, err
	}
	r.failures, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operation_errors_total",
		Help:      "Scheme operations that returned an error.",
	}, []string{"scheme", "op"}))
	if err != nil {
		return nil, err
	}
	r.rejections, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_rejections_total",
		Help:      "Verifications that completed and returned false.",
	}, []string{"scheme", "op"}))
	if err != nil {
		return nil, err
	}
	r.size, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "encoded_size_bytes",
		Help:      "Encoded size of signatures, public keys and aggregates.",
	}, []string{"scheme", "kind"}))
	if err != nil {
		return nil, err
	}
	return r, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// Logger returns the logger events are written to.
func (r *Recorder) Logger() *zap.Logger { return r.log }

// Observe records one finished operation that started at start and
// returns its duration.
func (r *Recorder) Observe(scheme, op string, start time.Time, err error) time.Duration {
	d := time.Since(start)
	r.duration.WithLabelValues(scheme, op).Observe(d.Seconds())
	if err != nil {
		r.failures.WithLabelValues(scheme, op).Inc()
		r.log.Warn("operation failed",
			zap.String("scheme", scheme),
			zap.String("op", op),
			zap.Duration("latency", d),
			zap.Error(err))
		return d
	}
	r.log.Debug("operation done",
		zap.String("scheme", scheme),
		zap.String("op", op),
		zap.Duration("latency", d))
	return d
}

// Verdict records the outcome of a verification that did not error.
func (r *Recorder) Verdict(scheme, op string, ok bool) {
	if ok {
		return
	}
	r.rejections.WithLabelValues(scheme, op).Inc()
	r.log.Info("verification rejected", zap.String("scheme", scheme), zap.String("op", op))
}

// Size records the encoded size of an artifact.
func (r *Recorder) Size(scheme, kind string, n int) {
	r.size.WithLabelValues(scheme, kind).Set(float64(n))
}
