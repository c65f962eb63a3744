package txbuilder

import "testing"

func TestTransactionMarshalIsArrayOfFour(t *testing.T) {
	tx := &Transaction{
		Body: Body{
			Inputs:  []TxInput{{TxID: testTxID(1), Index: 0}},
			Outputs: []TxOutput{{Address: RawAddress{Str: "addr"}, Value: NewCoinValue(1_000_000)}},
			Fee:     170000,
		},
		IsValid: true,
	}

	enc, err := tx.MarshalCBOR()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if item.Major != majorArr || len(item.Items) != 4 {
		t.Fatalf("expected array(4), got major %d len %d", item.Major, len(item.Items))
	}
	if item.Items[2].Uint != 1 {
		t.Fatalf("expected isValid=true encoded as simple value 1, got %d", item.Items[2].Uint)
	}
}

func TestTransactionHashIsStableForSameBody(t *testing.T) {
	body := Body{
		Inputs:  []TxInput{{TxID: testTxID(1), Index: 0}},
		Outputs: []TxOutput{{Address: RawAddress{Str: "addr"}, Value: NewCoinValue(1_000_000)}},
		Fee:     170000,
	}
	tx1 := &Transaction{Body: body, IsValid: true}
	tx2 := &Transaction{Body: body, IsValid: false} // isValid differs, body doesn't

	h1, err := tx1.Hash(DefaultHasher())
	if err != nil {
		t.Fatalf("hash tx1: %v", err)
	}
	h2, err := tx2.Hash(DefaultHasher())
	if err != nil {
		t.Fatalf("hash tx2: %v", err)
	}
	if h1 != h2 {
		t.Fatal("expected transaction hash to depend only on the body")
	}
}

func TestBodyEncodesInputsInCanonicalOrder(t *testing.T) {
	b := &Body{
		Inputs: []TxInput{
			{TxID: testTxID(9), Index: 0},
			{TxID: testTxID(1), Index: 0},
		},
		Outputs: []TxOutput{{Address: RawAddress{Str: "addr"}, Value: NewCoinValue(1)}},
	}
	enc, err := b.MarshalCBOR()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	item, err := Decode(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	// field 0 is the inputs set; its first pair's value is a tag-258 array.
	inputsField := item.Pairs[0].Value
	if inputsField.Major != majorTag || inputsField.Tag != tagSet {
		t.Fatalf("expected inputs encoded as tag-258 set, got major %d tag %d", inputsField.Major, inputsField.Tag)
	}
	first := inputsField.Items[0]
	if first.Items[0].Bytes[0] != 1 {
		t.Fatalf("expected lexicographically-smaller txid first, got %x", first.Items[0].Bytes)
	}
}
