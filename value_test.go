package txbuilder

import (
	"math/big"
	"testing"
)

func testPolicy(b byte) Hash28 {
	raw := make([]byte, 28)
	raw[0] = b
	var h Hash28
	copy(h[:], raw)
	return h
}

func TestMultiAssetSetRemovesZeroLeaf(t *testing.T) {
	m := NewMultiAsset()
	policy := testPolicy(1)
	m.Set(policy, "token", big.NewInt(5))
	if m.IsEmpty() {
		t.Fatal("expected non-empty after Set")
	}
	m.Set(policy, "token", big.NewInt(0))
	if !m.IsEmpty() {
		t.Fatal("expected empty after zeroing the only entry")
	}
}

func TestMultiAssetMergeAndNegate(t *testing.T) {
	a := NewMultiAsset()
	policy := testPolicy(2)
	a.Set(policy, "x", big.NewInt(10))

	b := NewMultiAsset()
	b.Set(policy, "x", big.NewInt(4))

	a.Merge(b.Negate())
	if got := a.Get(policy, "x"); got.Cmp(big.NewInt(6)) != 0 {
		t.Fatalf("got %s want 6", got)
	}
}

func TestValueAddSub(t *testing.T) {
	v1 := NewCoinValue(100)
	v2 := NewCoinValue(40)

	sum, err := v1.Add(v2)
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if sum.Coin != 140 {
		t.Fatalf("got %d want 140", sum.Coin)
	}

	diff, err := v1.Sub(v2)
	if err != nil {
		t.Fatalf("sub: %v", err)
	}
	if diff.Coin != 60 {
		t.Fatalf("got %d want 60", diff.Coin)
	}

	if _, err := v2.Sub(v1); err == nil {
		t.Fatal("expected underflow error")
	}
}

func TestValueGreaterOrEqual(t *testing.T) {
	policy := testPolicy(3)
	assets := NewMultiAsset()
	assets.Set(policy, "tok", big.NewInt(2))

	have := NewValue(100, assets)
	need := NewValue(50, nil)

	if !have.GreaterOrEqual(need) {
		t.Fatal("expected have >= need")
	}
	needMore := NewValue(200, nil)
	if have.GreaterOrEqual(needMore) {
		t.Fatal("expected have < needMore")
	}
}

func TestSumValues(t *testing.T) {
	total, err := SumValues(NewCoinValue(1), NewCoinValue(2), NewCoinValue(3))
	if err != nil {
		t.Fatalf("sum: %v", err)
	}
	if total.Coin != 6 {
		t.Fatalf("got %d want 6", total.Coin)
	}
}
