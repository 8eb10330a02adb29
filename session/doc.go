// Package session is the driver-facing API over every scheme in this
// module. A [Session] is created from a scheme name and exposes the same
// entry points whatever the scheme, dispatching to the optional
// capabilities of the [scheme] package by type assertion.
//
// # Lifecycle
//
// Key generation happens exactly once per session:
//
//	s, err := session.New(session.Config{Scheme: "BLS"})
//	if err != nil {
//		return err
//	}
//	if err := s.KeyGeneration(); err != nil {
//		return err
//	}
//
// # Signing and aggregation
//
// Asymmetric schemes ignore the identifier passed to Sign; MACs bind it
// into the tag and need it again to verify:
//
//	sig, err := s.Sign(msg, clientID)
//	agg, err := s.Aggregate([][]byte{sig1, sig2})
//	ok, err := s.AggregateVerify(msgs, agg, ids, nil)
//
// An operation the chosen scheme lacks returns an error wrapping
// [scheme.ErrUnsupported].
//
// # Instrumentation
//
// Every call is timed and counted through an [instrument.Recorder] built
// from Config.Logger and Config.Registerer.
package session
