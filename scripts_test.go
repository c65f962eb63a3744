package txbuilder

import "testing"

func TestConstrTagRanges(t *testing.T) {
	tests := []struct {
		index     uint64
		wantTag   uint64
		wantExtra bool
	}{
		{0, 121, false},
		{6, 127, false},
		{7, 1280, false},
		{127, 1400, false},
		{128, 0, true},
	}
	for _, tt := range tests {
		tag, extra := constrTag(tt.index)
		if extra != tt.wantExtra {
			t.Fatalf("index %d: extra = %v want %v", tt.index, extra, tt.wantExtra)
		}
		if !extra && tag != tt.wantTag {
			t.Fatalf("index %d: tag = %d want %d", tt.index, tag, tt.wantTag)
		}
	}
}

func TestPlutusDataConstrRoundTrip(t *testing.T) {
	d := NewPlutusConstr(0, []PlutusData{NewPlutusInt(42), NewPlutusBytes([]byte("hi"))})
	enc := d.MarshalCBOR()
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Major != majorTag || item.Tag != 121 {
		t.Fatalf("expected tag 121, got major %d tag %d", item.Major, item.Tag)
	}
	if len(item.Inner.Items) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(item.Inner.Items))
	}
}

func TestPlutusDataHighConstrUsesGenericTag(t *testing.T) {
	d := NewPlutusConstr(200, nil)
	enc := d.MarshalCBOR()
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Major != majorTag || item.Tag != 102 {
		t.Fatalf("expected generic tag 102, got major %d tag %d", item.Major, item.Tag)
	}
	if item.Inner.Items[0].Uint != 200 {
		t.Fatalf("expected constructor index 200 preserved, got %d", item.Inner.Items[0].Uint)
	}
}

func TestNativeScriptNofKValidation(t *testing.T) {
	pk := NewNativeScriptPubkey(Hash28{})
	if _, err := NewNativeScriptNofK(0, []NativeScript{pk}); err == nil {
		t.Fatal("expected error for n=0")
	}
	if _, err := NewNativeScriptNofK(2, []NativeScript{pk}); err == nil {
		t.Fatal("expected error for n > len(scripts)")
	}
	if _, err := NewNativeScriptNofK(1, []NativeScript{pk}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDatumHashDiffersForDifferentData(t *testing.T) {
	h := DefaultHasher()
	d1 := Datum{Data: NewPlutusInt(1)}
	d2 := Datum{Data: NewPlutusInt(2)}
	if d1.Hash(h) == d2.Hash(h) {
		t.Fatal("expected different datums to hash differently")
	}
}
