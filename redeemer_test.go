package txbuilder

import "testing"

func testTxID(b byte) Hash32 {
	raw := make([]byte, 32)
	raw[0] = b
	var h Hash32
	copy(h[:], raw)
	return h
}

func TestRedeemerIndexMapAssignsCanonicalOrder(t *testing.T) {
	m := NewRedeemerIndexMap[TxInput](RedeemerSpend, inputRedeemerKey)

	in1 := TxInput{TxID: testTxID(2), Index: 0}
	in2 := TxInput{TxID: testTxID(1), Index: 0}

	if err := m.Insert(in1, &Redeemer{Data: NewPlutusInt(1)}); err != nil {
		t.Fatalf("insert in1: %v", err)
	}
	if err := m.Insert(in2, &Redeemer{Data: NewPlutusInt(2)}); err != nil {
		t.Fatalf("insert in2: %v", err)
	}

	// in2's TxID sorts before in1's, so it must get Index 0.
	if got := m.Get(in2).Index; got != 0 {
		t.Fatalf("in2 index = %d want 0", got)
	}
	if got := m.Get(in1).Index; got != 1 {
		t.Fatalf("in1 index = %d want 1", got)
	}
}

func TestRedeemerIndexMapRejectsDuplicateKey(t *testing.T) {
	m := NewRedeemerIndexMap[TxInput](RedeemerSpend, inputRedeemerKey)
	in := TxInput{TxID: testTxID(1), Index: 0}

	if err := m.Insert(in, &Redeemer{Data: NewPlutusInt(1)}); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := m.Insert(in, &Redeemer{Data: NewPlutusInt(2)})
	if !HasCode(err, ErrDuplicatedKey) {
		t.Fatalf("expected ErrDuplicatedKey, got %v", err)
	}
}

func TestRedeemerIndexMapRedeemersInIndexOrder(t *testing.T) {
	m := NewRedeemerIndexMap[Hash28](RedeemerMint, policyRedeemerKey)

	var p1, p2 Hash28
	p1[0] = 9
	p2[0] = 1

	m.Insert(p1, &Redeemer{Data: NewPlutusInt(1)})
	m.Insert(p2, &Redeemer{Data: NewPlutusInt(2)})

	redeemers := m.Redeemers()
	if len(redeemers) != 2 {
		t.Fatalf("expected 2 redeemers, got %d", len(redeemers))
	}
	if redeemers[0].Index != 0 || redeemers[1].Index != 1 {
		t.Fatalf("expected ascending indices, got %d, %d", redeemers[0].Index, redeemers[1].Index)
	}
}
