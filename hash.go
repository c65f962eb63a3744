package txbuilder

import (
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	lcommon "github.com/blinklabs-io/gouroboros/ledger/common"
)

// Hash28 and Hash32 name the two declared Blake2b digest widths used
// throughout Cardano's ledger encoding (spec.md §3): 28 bytes for
// address/key/policy/script hashes, 32 bytes for data hashes (tx hash,
// script-data hash, auxiliary-data hash). They are aliases of gouroboros's
// own fixed-size, comparable hash identifier types so builder state can be
// used as map keys and compared against their zero value directly.
type Hash28 = lcommon.Blake2b224
type Hash32 = lcommon.Blake2b256

// Hasher is the BLAKE2b collaborator spec.md §1 externalizes: the core only
// invokes Hash224/Hash256 on whatever implementation is configured, never
// the algorithm itself.
type Hasher interface {
	Hash224(data []byte) Hash28
	Hash256(data []byte) Hash32
}

// blake2bHasher is the default Hasher, backed by golang.org/x/crypto/blake2b.
type blake2bHasher struct{}

// DefaultHasher returns the BLAKE2b implementation used unless a Builder is
// configured with a different one.
func DefaultHasher() Hasher { return blake2bHasher{} }

func (blake2bHasher) Hash224(data []byte) Hash28 {
	h, err := blake2b.New(28, nil)
	if err != nil {
		// blake2b.New only errors on invalid key/size combinations; 28
		// bytes with no key is always valid.
		panic(err)
	}
	h.Write(data)
	return lcommon.NewBlake2b224(h.Sum(nil))
}

func (blake2bHasher) Hash256(data []byte) Hash32 {
	sum := blake2b.Sum256(data)
	return lcommon.NewBlake2b256(sum[:])
}

// ParseHash32 decodes a hex-encoded 32-byte hash, as returned by a
// provider's encode(hash,'hex') column (internal/utxostore) or any caller
// handed a transaction id as text.
func ParseHash32(hexStr string) (Hash32, error) {
	raw, err := hex.DecodeString(hexStr)
	if err != nil {
		return Hash32{}, wrapErr(ErrDecoding, err, "parse hash hex")
	}
	if len(raw) != 32 {
		return Hash32{}, newErr(ErrDecoding, "expected 32-byte hash, got %d bytes", len(raw))
	}
	return lcommon.NewBlake2b256(raw), nil
}
