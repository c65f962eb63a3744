package txbuilder

import (
	"math/big"
	"sort"
)

// NativeScriptKind enumerates the Cardano native-script variants.
type NativeScriptKind int

const (
	NativeScriptPubkey NativeScriptKind = iota
	NativeScriptAll
	NativeScriptAny
	NativeScriptNofK
	NativeScriptInvalidBefore
	NativeScriptInvalidHereafter
)

// NativeScript is a tagged-union tree, the same shape as the constructors
// in other_examples' apollo-on-gouroboros helpers.go
// (NewNativeScriptPubkey/All/Any/NofK/InvalidBefore/InvalidHereafter), but
// self-encoding through this package's own canonical CBOR codec instead of
// round-tripping through gouroboros's UnmarshalCBOR.
type NativeScript struct {
	Kind    NativeScriptKind
	KeyHash Hash28          // NativeScriptPubkey
	Scripts []NativeScript  // All/Any/NofK
	N       uint            // NofK
	Slot    uint64          // InvalidBefore/InvalidHereafter
}

// MarshalCBOR encodes a NativeScript as the Cardano-standard
// [type, ...fields] array.
func (s NativeScript) MarshalCBOR() []byte {
	switch s.Kind {
	case NativeScriptPubkey:
		return EncodeArray([][]byte{EncodeUint(0), EncodeBytes(s.KeyHash.Bytes())})
	case NativeScriptAll:
		return EncodeArray([][]byte{EncodeUint(1), encodeScriptList(s.Scripts)})
	case NativeScriptAny:
		return EncodeArray([][]byte{EncodeUint(2), encodeScriptList(s.Scripts)})
	case NativeScriptNofK:
		return EncodeArray([][]byte{EncodeUint(3), EncodeUint(uint64(s.N)), encodeScriptList(s.Scripts)})
	case NativeScriptInvalidBefore:
		return EncodeArray([][]byte{EncodeUint(4), EncodeUint(s.Slot)})
	case NativeScriptInvalidHereafter:
		return EncodeArray([][]byte{EncodeUint(5), EncodeUint(s.Slot)})
	default:
		panic("unknown native script kind")
	}
}

func encodeScriptList(scripts []NativeScript) []byte {
	entries := make([][]byte, len(scripts))
	for i, sc := range scripts {
		entries[i] = sc.MarshalCBOR()
	}
	return EncodeArray(entries)
}

// NewNativeScriptPubkey requires a signature from keyHash.
func NewNativeScriptPubkey(keyHash Hash28) NativeScript {
	return NativeScript{Kind: NativeScriptPubkey, KeyHash: keyHash}
}

// NewNativeScriptAll requires every sub-script to pass.
func NewNativeScriptAll(scripts []NativeScript) NativeScript {
	return NativeScript{Kind: NativeScriptAll, Scripts: scripts}
}

// NewNativeScriptAny requires any sub-script to pass.
func NewNativeScriptAny(scripts []NativeScript) NativeScript {
	return NativeScript{Kind: NativeScriptAny, Scripts: scripts}
}

// NewNativeScriptNofK requires n of the given sub-scripts to pass.
func NewNativeScriptNofK(n uint, scripts []NativeScript) (NativeScript, error) {
	if len(scripts) == 0 {
		return NativeScript{}, newErr(ErrInvalidCborValue, "n-of-k native script requires at least one sub-script")
	}
	if n == 0 || n > uint(len(scripts)) {
		return NativeScript{}, newErr(ErrInvalidCborValue, "n-of-k requires 1 <= n <= %d, got %d", len(scripts), n)
	}
	return NativeScript{Kind: NativeScriptNofK, N: n, Scripts: scripts}, nil
}

// PlutusLanguage enumerates the three Plutus script versions spec.md §4.1
// tracks via hasPlutusV{1,2,3} flags.
type PlutusLanguage int

const (
	PlutusV1 PlutusLanguage = iota
	PlutusV2
	PlutusV3
)

func (l PlutusLanguage) costModelKey() string {
	switch l {
	case PlutusV1:
		return "PlutusV1"
	case PlutusV2:
		return "PlutusV2"
	default:
		return "PlutusV3"
	}
}

// PlutusScript is a compiled script's flat bytes, tagged with its language
// version.
type PlutusScript struct {
	Language PlutusLanguage
	Bytes    []byte
}

// ScriptRef references a script stored in an output for later reuse as a
// reference input, per spec.md §3 (Output.script-ref).
type ScriptRef struct {
	Native *NativeScript
	Plutus *PlutusScript
}

// MarshalCBOR encodes the ScriptRef as tag-24 wrapped [type, bytes], the
// way other_examples' apollo-on-gouroboros helpers.go's EncodeRefScript
// does: 0=native, 1=PlutusV1, 2=PlutusV2, 3=PlutusV3.
func (s ScriptRef) MarshalCBOR() []byte {
	var inner []byte
	switch {
	case s.Native != nil:
		inner = EncodeArray([][]byte{EncodeUint(0), s.Native.MarshalCBOR()})
	case s.Plutus != nil:
		tag := uint64(1)
		switch s.Plutus.Language {
		case PlutusV2:
			tag = 2
		case PlutusV3:
			tag = 3
		}
		inner = EncodeArray([][]byte{EncodeUint(tag), EncodeBytes(s.Plutus.Bytes)})
	default:
		panic("empty script ref")
	}
	return EncodeEmbedded(inner)
}

// PlutusDataKind enumerates the PlutusData tagged-union variants.
type PlutusDataKind int

const (
	PlutusDataConstr PlutusDataKind = iota
	PlutusDataMap
	PlutusDataList
	PlutusDataInt
	PlutusDataBytes
)

// PlutusDataPair is one (key, value) entry of a PlutusDataMap.
type PlutusDataPair struct {
	Key   PlutusData
	Value PlutusData
}

// PlutusData is Plutus's recursive data encoding (redeemer/datum payloads).
type PlutusData struct {
	Kind    PlutusDataKind
	Constr  uint64
	Fields  []PlutusData     // Constr, List
	Pairs   []PlutusDataPair // Map
	Int     *big.Int
	BytesV  []byte
}

// NewPlutusInt builds an integer PlutusData node from an int64 value.
func NewPlutusInt(v int64) PlutusData {
	return PlutusData{Kind: PlutusDataInt, Int: big.NewInt(v)}
}

// NewPlutusBigInt builds an integer PlutusData node from an arbitrary
// precision value.
func NewPlutusBigInt(v *big.Int) PlutusData {
	return PlutusData{Kind: PlutusDataInt, Int: v}
}

// NewPlutusBytes builds a bytestring PlutusData node.
func NewPlutusBytes(b []byte) PlutusData {
	return PlutusData{Kind: PlutusDataBytes, BytesV: b}
}

// NewPlutusList builds a list PlutusData node.
func NewPlutusList(items []PlutusData) PlutusData {
	return PlutusData{Kind: PlutusDataList, Fields: items}
}

// NewPlutusConstr builds a constructor-tagged PlutusData node.
func NewPlutusConstr(tag uint64, fields []PlutusData) PlutusData {
	return PlutusData{Kind: PlutusDataConstr, Constr: tag, Fields: fields}
}

// NewPlutusMap builds a PlutusData map node. Entries are sorted by their
// own canonical CBOR encoding before serialization.
func NewPlutusMap(pairs []PlutusDataPair) PlutusData {
	return PlutusData{Kind: PlutusDataMap, Pairs: pairs}
}

// MarshalCBOR encodes PlutusData per the Plutus/Alonzo data encoding:
// constructors use tags 121-127/1280-1400/102 depending on index, maps and
// lists are definite-length, integers use CBOR int or bignum tags.
func (p PlutusData) MarshalCBOR() []byte {
	switch p.Kind {
	case PlutusDataInt:
		return EncodeBigInt(p.Int)
	case PlutusDataBytes:
		return EncodeBytes(p.BytesV)
	case PlutusDataList:
		entries := make([][]byte, len(p.Fields))
		for i, f := range p.Fields {
			entries[i] = f.MarshalCBOR()
		}
		return EncodeArray(entries)
	case PlutusDataMap:
		pairs := make([]Pair, len(p.Pairs))
		for i, kv := range p.Pairs {
			pairs[i] = Pair{Key: kv.Key.MarshalCBOR(), Value: kv.Value.MarshalCBOR()}
		}
		SortPairs(pairs)
		return EncodeMap(pairs)
	case PlutusDataConstr:
		tag, extra := constrTag(p.Constr)
		entries := make([][]byte, len(p.Fields))
		for i, f := range p.Fields {
			entries[i] = f.MarshalCBOR()
		}
		body := EncodeArray(entries)
		if extra {
			// indices >= 7 use the generic tag 102 [index, fields] form.
			return EncodeTagRaw(102, EncodeArray([][]byte{EncodeUint(p.Constr), body}))
		}
		return EncodeTagRaw(tag, body)
	default:
		panic("unknown plutus data kind")
	}
}

// constrTag maps a constructor index onto the compact tag ranges Plutus
// uses (121..127 for 0..6, 1280..1400 for 7..127), returning extra=true
// when the index must fall back to the generic tag-102 encoding.
func constrTag(index uint64) (tag uint64, extra bool) {
	switch {
	case index <= 6:
		return 121 + index, false
	case index <= 127:
		return 1280 + (index - 7), false
	default:
		return 0, true
	}
}

// Datum is a resolved PlutusData value kept in the witness set's datum
// list, keyed implicitly by its own hash for lookups during script-data
// hashing.
type Datum struct {
	Data PlutusData
}

// Hash returns the datum's hash under h, used when a caller supplies a
// datum by value but the output needs only the hash (spec.md §4.1 "lock
// value").
func (d Datum) Hash(h Hasher) Hash32 {
	return h.Hash256(d.Data.MarshalCBOR())
}

// sortDatums orders datums by their CBOR-encoded bytes, for canonical
// script-data-hash input (spec.md §4.5 Step 10 references "canonical(datums)").
func sortDatums(datums []Datum) []Datum {
	out := make([]Datum, len(datums))
	copy(out, datums)
	sort.Slice(out, func(i, j int) bool {
		return compareBytes(out[i].Data.MarshalCBOR(), out[j].Data.MarshalCBOR()) < 0
	})
	return out
}
