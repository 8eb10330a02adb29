// Package vector holds the conventions shared by every scheme that
// authenticates real-valued vectors: fitting to a fixed dimension, the
// explicit [Quantizer] that embeds reals into a prime field, the float32
// wire format, weighted combination and the [AllClose] tolerance check.
package vector
