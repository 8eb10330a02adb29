package scheme

import (
	"errors"
	"fmt"
)

// Root error classes.
var (
	// ErrPrecondition reports an operation attempted before its
	// prerequisites (typically key generation) were met.
	ErrPrecondition = errors.New("precondition failed")

	// ErrStructural reports malformed or inconsistent input.
	ErrStructural = errors.New("structural error")

	// ErrDomainCollision reports an algebraic degeneracy during signing,
	// such as x + H(m) = 0 in Boneh-Boyen.
	ErrDomainCollision = errors.New("domain collision")

	// ErrBackendUnavailable reports that a scheme was constructed against
	// a backend lacking a capability it requires.
	ErrBackendUnavailable = errors.New("backend unavailable")
)

// Precondition errors.
var (
	ErrNoKey     = fmt.Errorf("%w: key material not generated", ErrPrecondition)
	ErrKeyExists = fmt.Errorf("%w: key material already generated", ErrPrecondition)
)

// Structural errors.
var (
	ErrEmptyInput          = fmt.Errorf("%w: empty input list", ErrStructural)
	ErrMalformed           = fmt.Errorf("%w: malformed encoding", ErrStructural)
	ErrLengthMismatch      = fmt.Errorf("%w: input lists differ in length", ErrStructural)
	ErrDegreeBound         = fmt.Errorf("%w: degree bound exceeded", ErrStructural)
	ErrHomomorphicDisabled = fmt.Errorf("%w: operation requires homomorphic mode", ErrStructural)
	ErrUnsupported         = fmt.Errorf("%w: operation not supported by scheme", ErrStructural)
)

// Unavailable returns an ErrBackendUnavailable naming the missing capability.
func Unavailable(capability string) error {
	return fmt.Errorf("%w: %s", ErrBackendUnavailable, capability)
}

// CheckLengths returns ErrEmptyInput when n is zero and ErrLengthMismatch
// when any of the other lengths differs from n.
func CheckLengths(n int, others ...int) error {
	if n == 0 {
		return ErrEmptyInput
	}
	for _, m := range others {
		if m != n {
			return fmt.Errorf("%w: %d != %d", ErrLengthMismatch, m, n)
		}
	}
	return nil
}
