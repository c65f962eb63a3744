package txbuilder

import "testing"

func TestCalculateMinFeeLinearInSize(t *testing.T) {
	pp := testParams()
	small := CalculateMinFee(pp, 200, nil, 0)
	large := CalculateMinFee(pp, 400, nil, 0)
	if large <= small {
		t.Fatalf("expected fee to grow with size: small=%d large=%d", small, large)
	}
	want := uint64(200)*pp.MinFeeA + pp.MinFeeB
	if small != want {
		t.Fatalf("got %d want %d", small, want)
	}
}

func TestCalculateMinFeeIncludesRedeemerCost(t *testing.T) {
	pp := testParams()
	base := CalculateMinFee(pp, 300, nil, 0)
	withRedeemer := CalculateMinFee(pp, 300, []*Redeemer{
		{ExUnits: ExUnits{Mem: 1_000_000, Steps: 500_000_000}},
	}, 0)
	if withRedeemer <= base {
		t.Fatalf("expected redeemer cost to raise fee: base=%d withRedeemer=%d", base, withRedeemer)
	}
}

func TestCalculateMinFeeIncludesRefScriptCost(t *testing.T) {
	pp := testParams()
	pp.MinFeeRefScriptCostPerByte = 15
	base := CalculateMinFee(pp, 300, nil, 0)
	withRefScript := CalculateMinFee(pp, 300, nil, 1000)
	if withRefScript-base != 15*1000 {
		t.Fatalf("got delta %d want %d", withRefScript-base, 15*1000)
	}
}

func TestPlaceholderSignerBytesCountsOneAssumedSignerForBareInputs(t *testing.T) {
	tx := &Transaction{Body: Body{Inputs: []TxInput{{TxID: testTxID(1), Index: 0}}}}
	if got := placeholderSignerBytes(tx, 0); got != 64 {
		t.Fatalf("got %d want 64", got)
	}
}

func TestPlaceholderSignerBytesCountsRequiredSignersAndExtra(t *testing.T) {
	tx := &Transaction{Body: Body{
		Inputs:          []TxInput{{TxID: testTxID(1), Index: 0}},
		RequiredSigners: []Hash28{{1}, {2}},
	}}
	if got := placeholderSignerBytes(tx, 3); got != 64*(2+3) {
		t.Fatalf("got %d want %d", got, 64*(2+3))
	}
}

func TestPlaceholderSignerBytesZeroWithNoInputsOrSigners(t *testing.T) {
	tx := &Transaction{}
	if got := placeholderSignerBytes(tx, 0); got != 0 {
		t.Fatalf("got %d want 0", got)
	}
}
