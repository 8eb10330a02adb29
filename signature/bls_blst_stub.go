//go:build !blst

package signature

import (
	"io"

	"github.com/f3rmion/homauth/scheme"
)

// errBlst is returned when the blst backend was not compiled in.
var errBlst = scheme.Unavailable("blst BLS backend (build with -tags blst)")

// BLSBlst is unavailable in builds without the blst tag.
type BLSBlst struct{}

// NewBLSBlst always fails with ErrBackendUnavailable in this build.
func NewBLSBlst() (*BLSBlst, error) { return nil, errBlst }

func (b *BLSBlst) Name() string { return BLSBlstName }
func (b *BLSBlst) SignatureSize() int { return 96 }
func (b *BLSBlst) PublicKeySize() int { return 48 }
func (b *BLSBlst) GenerateKey(io.Reader) error { return errBlst }
func (b *BLSBlst) PublicKey() ([]byte, error) { return nil, errBlst }
func (b *BLSBlst) Sign([]byte) ([]byte, error) { return nil, errBlst }
func (b *BLSBlst) Verify(_, _, _ []byte) (bool, error) { return false, errBlst }
func (b *BLSBlst) Aggregate([][]byte) ([]byte, error) { return nil, errBlst }
func (b *BLSBlst) AggregateVerify(_ [][]byte, _ []byte, _ [][]byte) (bool, error) {
	return false, errBlst
}
