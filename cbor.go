package txbuilder

import (
	"fmt"
	"math/big"
	"sort"
)

// Canonical CBOR codec, hand-rolled rather than delegated to a general
// struct-tag library. HeliosLang-iris's cbor.go documents exactly why:
// "the cbor packages that operate using Marshal/Unmarshal and tags aren't
// flexible enough... I implemented this because gouroboros doesn't seem to
// do some things correctly." The transaction hash is part of Cardano
// consensus, so this package follows the same policy and owns every byte
// of the encoding instead of trusting a generic codec's definite-length and
// minimal-width choices. The primitives below generalize that file's
// EncodeTxOutput/EncodeValue/EncodeAssets family (spec.md §6: "External
// Interfaces").

const (
	majorUint = 0
	majorNeg  = 1
	majorBstr = 2
	majorTstr = 3
	majorArr  = 4
	majorMap  = 5
	majorTag  = 6
	major7    = 7

	tagBignumPos = 2
	tagBignumNeg = 3
	tagSet       = 258
	tagEmbedded  = 24
)

// Pair is a pre-encoded (key, value) entry for EncodeMap. Callers must sort
// pairs by the encoded key bytes before calling EncodeMap — canonical CBOR
// maps are ordered by the byte representation of their keys (spec.md §6).
type Pair struct {
	Key   []byte
	Value []byte
}

func encodeHead(major byte, n uint64) []byte {
	switch {
	case n < 24:
		return []byte{major<<5 | byte(n)}
	case n < 1<<8:
		return []byte{major<<5 | 24, byte(n)}
	case n < 1<<16:
		return []byte{major<<5 | 25, byte(n >> 8), byte(n)}
	case n < 1<<32:
		return []byte{major<<5 | 26, byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n)}
	default:
		b := make([]byte, 9)
		b[0] = major<<5 | 27
		for i := 0; i < 8; i++ {
			b[8-i] = byte(n >> (8 * i))
		}
		return b
	}
}

// EncodeUint encodes a non-negative integer with minimal width (major 0).
func EncodeUint(n uint64) []byte {
	return encodeHead(majorUint, n)
}

// EncodeBigInt encodes an arbitrary-precision signed integer, falling back
// to the CBOR bignum tags (2 positive / 3 negative) once the magnitude
// exceeds 64 bits — Cardano mint quantities are signed and unbounded.
func EncodeBigInt(z *big.Int) []byte {
	if z.Sign() >= 0 {
		if z.IsUint64() {
			return EncodeUint(z.Uint64())
		}
		return EncodeTagRaw(tagBignumPos, EncodeBytes(z.Bytes()))
	}
	// CBOR negative integers encode -(n+1) as an unsigned value.
	mag := new(big.Int).Neg(z)
	mag.Sub(mag, big.NewInt(1))
	if mag.IsUint64() {
		return encodeHead(majorNeg, mag.Uint64())
	}
	return EncodeTagRaw(tagBignumNeg, EncodeBytes(mag.Bytes()))
}

// EncodeInt encodes a plain int64.
func EncodeInt(n int64) []byte {
	return EncodeBigInt(big.NewInt(n))
}

// EncodeBytes encodes a definite-length byte string (major 2). Canonical
// Cardano CBOR never chunks byte strings.
func EncodeBytes(bs []byte) []byte {
	out := encodeHead(majorBstr, uint64(len(bs)))
	return append(out, bs...)
}

// EncodeText encodes a definite-length UTF-8 text string (major 3).
func EncodeText(s string) []byte {
	out := encodeHead(majorTstr, uint64(len(s)))
	return append(out, []byte(s)...)
}

// EncodeArray encodes a definite-length array (major 4) of already-encoded
// entries, preserving caller order (arrays are positional, not sorted).
func EncodeArray(entries [][]byte) []byte {
	out := encodeHead(majorArr, uint64(len(entries)))
	for _, e := range entries {
		out = append(out, e...)
	}
	return out
}

// EncodeSet encodes a canonical Cardano "set": tag 258 wrapping a
// definite-length array, per spec.md §6. entries must already be in
// canonical order.
func EncodeSet(entries [][]byte) []byte {
	return EncodeTagRaw(tagSet, EncodeArray(entries))
}

// EncodeMap encodes a definite-length map (major 5). pairs must already be
// sorted by Key bytes; EncodeMap does not sort defensively because several
// callers (e.g. the body's small-int keys) have a domain-specific notion of
// "canonical" that is cheaper to establish once at the call site.
func EncodeMap(pairs []Pair) []byte {
	out := encodeHead(majorMap, uint64(len(pairs)))
	for _, p := range pairs {
		out = append(out, p.Key...)
		out = append(out, p.Value...)
	}
	return out
}

// SortPairs orders pairs by their encoded key bytes, ascending.
func SortPairs(pairs []Pair) {
	sort.Slice(pairs, func(i, j int) bool {
		return compareBytes(pairs[i].Key, pairs[j].Key) < 0
	})
}

func compareBytes(a, b []byte) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// EncodeTagRaw wraps already-encoded content bytes in a CBOR tag (major 6).
func EncodeTagRaw(tag uint64, content []byte) []byte {
	out := encodeHead(majorTag, tag)
	return append(out, content...)
}

// EncodeEmbedded wraps an already-encoded CBOR value as tag-24 encoded
// bytes, used for inline Plutus data and reference scripts the way
// HeliosLang-iris's EncodeInlineDatum/EncodeRefScript do.
func EncodeEmbedded(inner []byte) []byte {
	return EncodeTagRaw(tagEmbedded, EncodeBytes(inner))
}

// EncodeBool encodes a boolean (major 7, simple values 20/21).
func EncodeBool(b bool) []byte {
	if b {
		return []byte{major7<<5 | 21}
	}
	return []byte{major7<<5 | 20}
}

// EncodeIntMap encodes a map keyed by small non-negative integers, emitting
// only present keys in ascending order — exactly spec.md §6's description
// of the transaction body map (0:inputs, 1:outputs, 2:fee, ...).
func EncodeIntMap(fields map[int][]byte) []byte {
	keys := make([]int, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	pairs := make([]Pair, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, Pair{Key: EncodeUint(uint64(k)), Value: fields[k]})
	}
	return EncodeMap(pairs)
}

// --- decoding ---
//
// The decoder is a minimal, total-on-valid-input reader for the subset of
// canonical CBOR this package emits: definite-length bytes/text/array/map,
// unsigned/negative integers (including bignum tags 2/3), tag 258 sets, and
// tag 24 embedded CBOR. It exists to support the round-trip property
// (spec.md §8, property 1) and is not a general-purpose CBOR reader.

// Item is a decoded CBOR value.
type Item struct {
	Major byte
	Tag   uint64 // valid when Major == majorTag
	Uint  uint64 // valid when Major is majorUint, and for major7 booleans (0 false, 1 true)
	Big   *big.Int
	Bytes []byte  // valid for majorBstr/majorTstr
	Items []Item  // valid for majorArr, and for tag-258 sets
	Pairs []IPair // valid for majorMap
	Inner *Item   // valid for majorTag (the wrapped value)
}

// IPair is a decoded map entry.
type IPair struct {
	Key   Item
	Value Item
}

type decoder struct {
	buf []byte
	pos int
}

// Decode parses exactly one CBOR value from buf.
func Decode(buf []byte) (Item, error) {
	d := &decoder{buf: buf}
	item, err := d.decodeItem()
	if err != nil {
		return Item{}, err
	}
	if d.pos != len(d.buf) {
		return Item{}, newErr(ErrDecoding, "trailing %d bytes after top-level CBOR value", len(d.buf)-d.pos)
	}
	return item, nil
}

func (d *decoder) need(n int) error {
	if d.pos+n > len(d.buf) {
		return newErr(ErrDecoding, "unexpected end of CBOR input")
	}
	return nil
}

func (d *decoder) readHead() (major byte, info byte, err error) {
	if err := d.need(1); err != nil {
		return 0, 0, err
	}
	b := d.buf[d.pos]
	d.pos++
	return b >> 5, b & 0x1f, nil
}

func (d *decoder) readUintArg(info byte) (uint64, error) {
	switch {
	case info < 24:
		return uint64(info), nil
	case info == 24:
		if err := d.need(1); err != nil {
			return 0, err
		}
		v := uint64(d.buf[d.pos])
		d.pos++
		return v, nil
	case info == 25:
		if err := d.need(2); err != nil {
			return 0, err
		}
		v := uint64(d.buf[d.pos])<<8 | uint64(d.buf[d.pos+1])
		d.pos += 2
		return v, nil
	case info == 26:
		if err := d.need(4); err != nil {
			return 0, err
		}
		v := uint64(0)
		for i := 0; i < 4; i++ {
			v = v<<8 | uint64(d.buf[d.pos+i])
		}
		d.pos += 4
		return v, nil
	case info == 27:
		if err := d.need(8); err != nil {
			return 0, err
		}
		v := uint64(0)
		for i := 0; i < 8; i++ {
			v = v<<8 | uint64(d.buf[d.pos+i])
		}
		d.pos += 8
		return v, nil
	default:
		return 0, newErr(ErrUnexpectedCborType, "unsupported additional info %d (indefinite-length items are not produced by this codec)", info)
	}
}

func (d *decoder) decodeItem() (Item, error) {
	major, info, err := d.readHead()
	if err != nil {
		return Item{}, err
	}
	switch major {
	case majorUint:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		return Item{Major: major, Uint: n, Big: new(big.Int).SetUint64(n)}, nil
	case majorNeg:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		z := new(big.Int).SetUint64(n)
		z.Add(z, big.NewInt(1))
		z.Neg(z)
		return Item{Major: major, Big: z}, nil
	case majorBstr:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		if err := d.need(int(n)); err != nil {
			return Item{}, err
		}
		bs := append([]byte(nil), d.buf[d.pos:d.pos+int(n)]...)
		d.pos += int(n)
		return Item{Major: major, Bytes: bs}, nil
	case majorTstr:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		if err := d.need(int(n)); err != nil {
			return Item{}, err
		}
		bs := append([]byte(nil), d.buf[d.pos:d.pos+int(n)]...)
		d.pos += int(n)
		return Item{Major: major, Bytes: bs}, nil
	case majorArr:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		items := make([]Item, 0, n)
		for i := uint64(0); i < n; i++ {
			it, err := d.decodeItem()
			if err != nil {
				return Item{}, err
			}
			items = append(items, it)
		}
		return Item{Major: major, Items: items}, nil
	case majorMap:
		n, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		pairs := make([]IPair, 0, n)
		for i := uint64(0); i < n; i++ {
			k, err := d.decodeItem()
			if err != nil {
				return Item{}, err
			}
			v, err := d.decodeItem()
			if err != nil {
				return Item{}, err
			}
			pairs = append(pairs, IPair{Key: k, Value: v})
		}
		return Item{Major: major, Pairs: pairs}, nil
	case majorTag:
		tag, err := d.readUintArg(info)
		if err != nil {
			return Item{}, err
		}
		inner, err := d.decodeItem()
		if err != nil {
			return Item{}, err
		}
		out := Item{Major: major, Tag: tag, Inner: &inner}
		if tag == tagBignumPos || tag == tagBignumNeg {
			mag := new(big.Int).SetBytes(inner.Bytes)
			if tag == tagBignumNeg {
				mag.Add(mag, big.NewInt(1))
				mag.Neg(mag)
			}
			out.Big = mag
		}
		if tag == tagSet {
			out.Items = inner.Items
		}
		return out, nil
	case major7:
		switch info {
		case 20:
			return Item{Major: major7, Uint: 0}, nil // false
		case 21:
			return Item{Major: major7, Uint: 1}, nil // true
		case 22:
			return Item{Major: major7}, nil // null
		default:
			return Item{}, newErr(ErrUnexpectedCborType, "unsupported simple value %d", info)
		}
	default:
		return Item{}, fmt.Errorf("unreachable major type %d", major)
	}
}
