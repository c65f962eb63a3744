package txbuilder

import (
	"bytes"
	"math/big"
	"testing"
)

func TestEncodeUint(t *testing.T) {
	tests := []struct {
		in   uint64
		want []byte
	}{
		{0, []byte{0x00}},
		{23, []byte{0x17}},
		{24, []byte{0x18, 0x18}},
		{255, []byte{0x18, 0xff}},
		{256, []byte{0x19, 0x01, 0x00}},
		{65536, []byte{0x1a, 0x00, 0x01, 0x00, 0x00}},
		{4294967296, []byte{0x1b, 0, 0, 0, 1, 0, 0, 0, 0}},
	}
	for i, tt := range tests {
		got := EncodeUint(tt.in)
		if !bytes.Equal(got, tt.want) {
			t.Fatalf("test %d: EncodeUint(%d) = %x want %x", i, tt.in, got, tt.want)
		}
	}
}

func TestEncodeBigIntRoundTrip(t *testing.T) {
	values := []*big.Int{
		big.NewInt(0),
		big.NewInt(-1),
		big.NewInt(127),
		big.NewInt(-128),
		new(big.Int).Lsh(big.NewInt(1), 100),
		new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 100)),
	}
	for _, v := range values {
		enc := EncodeBigInt(v)
		item, err := Decode(enc)
		if err != nil {
			t.Fatalf("decode %s: %v", v, err)
		}
		if item.Big.Cmp(v) != 0 {
			t.Fatalf("roundtrip %s got %s", v, item.Big)
		}
	}
}

func TestEncodeArrayAndMapRoundTrip(t *testing.T) {
	pairs := []Pair{
		{Key: EncodeUint(1), Value: EncodeText("a")},
		{Key: EncodeUint(2), Value: EncodeText("b")},
	}
	enc := EncodeMap(pairs)
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Major != majorMap || len(item.Pairs) != 2 {
		t.Fatalf("unexpected decoded map: %+v", item)
	}
	if item.Pairs[0].Key.Uint != 1 || string(item.Pairs[0].Value.Bytes) != "a" {
		t.Fatalf("unexpected first pair: %+v", item.Pairs[0])
	}
}

func TestEncodeSetUsesTag258(t *testing.T) {
	enc := EncodeSet([][]byte{EncodeUint(1), EncodeUint(2)})
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Major != majorTag || item.Tag != tagSet {
		t.Fatalf("expected tag %d, got major %d tag %d", tagSet, item.Major, item.Tag)
	}
	if len(item.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(item.Items))
	}
}

func TestSortPairsOrdersByKeyBytes(t *testing.T) {
	pairs := []Pair{
		{Key: EncodeBytes([]byte{0x02}), Value: EncodeUint(0)},
		{Key: EncodeBytes([]byte{0x01}), Value: EncodeUint(0)},
		{Key: EncodeBytes([]byte{0x00}), Value: EncodeUint(0)},
	}
	SortPairs(pairs)
	for i := 1; i < len(pairs); i++ {
		if compareBytes(pairs[i-1].Key, pairs[i].Key) > 0 {
			t.Fatalf("pairs not sorted at index %d", i)
		}
	}
}

func TestDecodeRejectsTrailingBytes(t *testing.T) {
	enc := append(EncodeUint(1), 0xff)
	if _, err := Decode(enc); err == nil {
		t.Fatal("expected error for trailing bytes")
	}
}
