package txbuilder

// VKeyWitness is an Ed25519 (public key, signature) pair. Producing the
// signature is an external collaborator's job (spec.md §1: "Ed25519
// key/signature types"); the builder only carries the bytes and accounts
// for their encoded size during fee estimation (fee.go).
type VKeyWitness struct {
	VKey      [32]byte
	Signature [64]byte
}

// MarshalCBOR encodes a VKeyWitness as [vkey, signature].
func (w VKeyWitness) MarshalCBOR() []byte {
	return EncodeArray([][]byte{EncodeBytes(w.VKey[:]), EncodeBytes(w.Signature[:])})
}

// BootstrapWitness is a Byron-era witness, carried opaquely.
type BootstrapWitness struct {
	VKey      [32]byte
	Signature [64]byte
	ChainCode [32]byte
	Attrs     []byte
}

// MarshalCBOR encodes a BootstrapWitness as [vkey, signature, chaincode, attributes].
func (w BootstrapWitness) MarshalCBOR() []byte {
	return EncodeArray([][]byte{
		EncodeBytes(w.VKey[:]),
		EncodeBytes(w.Signature[:]),
		EncodeBytes(w.ChainCode[:]),
		EncodeBytes(w.Attrs),
	})
}

// WitnessSet carries the ordered containers spec.md §3 names: vkey
// witnesses, native scripts, bootstrap witnesses, Plutus scripts (v1/v2/v3),
// Plutus datums, and redeemers.
type WitnessSet struct {
	VKeyWitnesses     []VKeyWitness
	NativeScripts     []NativeScript
	BootstrapWitnesses []BootstrapWitness
	PlutusV1Scripts   []PlutusScript
	PlutusV2Scripts   []PlutusScript
	PlutusV3Scripts   []PlutusScript
	Datums            []Datum
	Redeemers         []*Redeemer
}

// HasPlutusScripts reports whether any Plutus script of any version is
// present — the condition spec.md §3 ties script-data-hash presence to.
func (w *WitnessSet) HasPlutusScripts() bool {
	return len(w.PlutusV1Scripts) > 0 || len(w.PlutusV2Scripts) > 0 || len(w.PlutusV3Scripts) > 0
}

// MarshalCBOR encodes the witness set as the Conway-era map keyed 0..7:
// 0 vkeywitnesses, 1 native scripts, 2 bootstrap witnesses, 3 plutus v1,
// 4 plutus datums, 5 redeemers, 6 plutus v2, 7 plutus v3.
func (w *WitnessSet) MarshalCBOR() []byte {
	fields := map[int][]byte{}

	if len(w.VKeyWitnesses) > 0 {
		entries := make([][]byte, len(w.VKeyWitnesses))
		for i, v := range w.VKeyWitnesses {
			entries[i] = v.MarshalCBOR()
		}
		fields[0] = EncodeArray(entries)
	}
	if len(w.NativeScripts) > 0 {
		entries := make([][]byte, len(w.NativeScripts))
		for i, s := range w.NativeScripts {
			entries[i] = s.MarshalCBOR()
		}
		fields[1] = EncodeArray(entries)
	}
	if len(w.BootstrapWitnesses) > 0 {
		entries := make([][]byte, len(w.BootstrapWitnesses))
		for i, b := range w.BootstrapWitnesses {
			entries[i] = b.MarshalCBOR()
		}
		fields[2] = EncodeArray(entries)
	}
	if len(w.PlutusV1Scripts) > 0 {
		fields[3] = encodeRawScriptList(w.PlutusV1Scripts)
	}
	if len(w.Datums) > 0 {
		datums := sortDatums(w.Datums)
		entries := make([][]byte, len(datums))
		for i, d := range datums {
			entries[i] = d.Data.MarshalCBOR()
		}
		fields[4] = EncodeArray(entries)
	}
	if len(w.Redeemers) > 0 {
		fields[5] = marshalRedeemers(w.Redeemers)
	}
	if len(w.PlutusV2Scripts) > 0 {
		fields[6] = encodeRawScriptList(w.PlutusV2Scripts)
	}
	if len(w.PlutusV3Scripts) > 0 {
		fields[7] = encodeRawScriptList(w.PlutusV3Scripts)
	}

	return EncodeIntMap(fields)
}

func encodeRawScriptList(scripts []PlutusScript) []byte {
	entries := make([][]byte, len(scripts))
	for i, s := range scripts {
		entries[i] = EncodeBytes(s.Bytes)
	}
	return EncodeArray(entries)
}

// CanonicalDatums returns the witness set's datums in canonical byte order,
// used directly by script-data hashing (balancer.go).
func (w *WitnessSet) CanonicalDatums() []Datum {
	return sortDatums(w.Datums)
}
