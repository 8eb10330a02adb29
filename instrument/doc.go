// Package instrument records per-operation latency, failures, rejected
// verifications and encoded sizes for the authentication schemes.
//
// Metrics go to a prometheus.Registerer and events to a zap.Logger:
//
//	rec, err := instrument.New(logger, prometheus.DefaultRegisterer)
//	start := time.Now()
//	sig, err := s.Sign(msg)
//	elapsed := rec.Observe(s.Name(), instrument.OpSign, start, err)
package instrument
