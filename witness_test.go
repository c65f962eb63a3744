package txbuilder

import "testing"

func TestWitnessSetOmitsEmptyFields(t *testing.T) {
	w := &WitnessSet{}
	enc := w.MarshalCBOR()
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(item.Pairs) != 0 {
		t.Fatalf("expected empty witness set to encode as empty map, got %d pairs", len(item.Pairs))
	}
}

func TestWitnessSetEncodesPresentFieldsByKey(t *testing.T) {
	w := &WitnessSet{
		VKeyWitnesses: []VKeyWitness{{}},
		Redeemers: []*Redeemer{
			{Tag: RedeemerSpend, Index: 0, Data: NewPlutusInt(1), ExUnits: ExUnits{Mem: 100, Steps: 200}},
		},
	}
	item, err := Decode(w.MarshalCBOR())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(item.Pairs) != 2 {
		t.Fatalf("expected 2 present fields, got %d", len(item.Pairs))
	}
	if item.Pairs[0].Key.Uint != 0 {
		t.Fatalf("expected vkeywitnesses at key 0, got %d", item.Pairs[0].Key.Uint)
	}
	if item.Pairs[1].Key.Uint != 5 {
		t.Fatalf("expected redeemers at key 5, got %d", item.Pairs[1].Key.Uint)
	}
}

func TestHasPlutusScripts(t *testing.T) {
	w := &WitnessSet{}
	if w.HasPlutusScripts() {
		t.Fatal("expected no plutus scripts on empty witness set")
	}
	w.PlutusV2Scripts = []PlutusScript{{Language: PlutusV2, Bytes: []byte{1}}}
	if !w.HasPlutusScripts() {
		t.Fatal("expected plutus scripts to be detected")
	}
}

func TestCanonicalDatumsAreSorted(t *testing.T) {
	w := &WitnessSet{Datums: []Datum{
		{Data: NewPlutusBytes([]byte{0xff})},
		{Data: NewPlutusBytes([]byte{0x00})},
	}}
	sorted := w.CanonicalDatums()
	a := sorted[0].Data.MarshalCBOR()
	b := sorted[1].Data.MarshalCBOR()
	if compareBytes(a, b) >= 0 {
		t.Fatal("expected datums sorted ascending by canonical encoding")
	}
}
