package txbuilder

import (
	cardano "github.com/echovl/cardano-go"
)

// Address is the address-parsing collaborator spec.md §1 externalizes. The
// builder only ever needs an address's raw on-wire bytes (for output
// encoding) and its human-readable form (for error messages); it never
// inspects payment/staking credentials itself.
type Address interface {
	Bytes() ([]byte, error)
	String() string
}

// cardanoGoAddress adapts github.com/echovl/cardano-go's Address type to the
// Address contract, the way walletaddr.go builds addresses with that same
// library.
type cardanoGoAddress struct {
	addr cardano.Address
}

// WrapAddress adapts a parsed github.com/echovl/cardano-go Address.
func WrapAddress(addr cardano.Address) Address {
	return cardanoGoAddress{addr: addr}
}

// ParseAddress decodes a Bech32-encoded Cardano address using
// github.com/echovl/cardano-go, the same library walletaddr.go derives
// addresses with.
func ParseAddress(bech32 string) (Address, error) {
	addr, err := cardano.NewAddress(bech32)
	if err != nil {
		return nil, wrapErr(ErrInvalidCborValue, err, "parse address %q", bech32)
	}
	return cardanoGoAddress{addr: addr}, nil
}

func (a cardanoGoAddress) Bytes() ([]byte, error) {
	return a.addr.Bytes()
}

func (a cardanoGoAddress) String() string {
	return a.addr.Bech32()
}

// RawAddress is an Address backed by already-decoded bytes, used by tests
// and by providers that resolve UTxOs from raw CBOR without needing
// Bech32 round-tripping.
type RawAddress struct {
	Raw []byte
	Str string
}

func (a RawAddress) Bytes() ([]byte, error) { return a.Raw, nil }
func (a RawAddress) String() string         { return a.Str }
