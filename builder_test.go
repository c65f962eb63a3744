package txbuilder

import (
	"context"
	"testing"
	"time"
)

// fakeProvider is a minimal Provider for exercising the ValidityBound /
// default-TxEvaluator wiring without a real network collaborator.
type fakeProvider struct {
	genesis    GenesisParameters
	evaluated  bool
	evalResult []RedeemerEvaluation
}

func (p *fakeProvider) GetProtocolParameters(ctx context.Context) (ProtocolParameters, error) {
	return testParams(), nil
}
func (p *fakeProvider) GetGenesisParameters(ctx context.Context) (GenesisParameters, error) {
	return p.genesis, nil
}
func (p *fakeProvider) GetUTxOsByAddress(ctx context.Context, addr Address) ([]UTxO, error) {
	return nil, nil
}
func (p *fakeProvider) GetUTxOByOutRef(ctx context.Context, in TxInput) (*UTxO, error) {
	return nil, newErr(ErrElementNotFound, "fake provider has no chain state")
}
func (p *fakeProvider) SubmitTx(ctx context.Context, txBytes []byte) (Hash32, error) {
	return Hash32{}, nil
}
func (p *fakeProvider) EvaluateTx(ctx context.Context, txBytes []byte, resolved []UTxO) ([]RedeemerEvaluation, error) {
	p.evaluated = true
	return p.evalResult, nil
}

func TestBuildResolvesUnixTimeValidityBoundViaProvider(t *testing.T) {
	change := RawAddress{Str: "addr_test_change"}
	dest := RawAddress{Str: "addr_test_dest"}
	systemStart := time.Date(2020, time.March, 1, 0, 0, 0, 0, time.UTC)
	provider := &fakeProvider{genesis: GenesisParameters{SystemStart: systemStart, SlotLength: 1}}

	after := AtUnixTime(systemStart.Add(100 * time.Second).Unix())
	b := NewBuilder(
		WithProtocolParameters(testParams()),
		WithChangeAddress(change),
		WithAvailableUTxOs([]UTxO{testUTxO(1, 0, 10_000_000)}),
		WithProvider(provider),
		WithValidityInterval(nil, &after),
	)
	b.SendValue(dest, NewCoinValue(2_000_000), nil, nil)

	tx, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if tx.Body.TTL == nil || *tx.Body.TTL != 100 {
		t.Fatalf("expected ttl slot 100, got %v", tx.Body.TTL)
	}
}

func TestBuildFailsOnUnixTimeValidityBoundWithoutProvider(t *testing.T) {
	change := RawAddress{Str: "addr_test_change"}
	dest := RawAddress{Str: "addr_test_dest"}
	after := AtUnixTime(1_600_000_000)

	b := NewBuilder(
		WithProtocolParameters(testParams()),
		WithChangeAddress(change),
		WithAvailableUTxOs([]UTxO{testUTxO(1, 0, 10_000_000)}),
		WithValidityInterval(nil, &after),
	)
	b.SendValue(dest, NewCoinValue(2_000_000), nil, nil)

	if _, err := b.Build(context.Background()); !HasCode(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState, got %v", err)
	}
}

func testParams() ProtocolParameters {
	return ProtocolParameters{
		MinFeeA:              44,
		MinFeeB:              155381,
		PriceMem:             0.0577,
		PriceStep:            0.0000721,
		CollateralPercentage: 150,
		MaxCollateralInputs:  3,
		CoinsPerUTXOByte:     4310,
	}
}

func testUTxO(txID byte, index uint32, coin uint64) UTxO {
	return UTxO{
		Input:  TxInput{TxID: testTxID(txID), Index: index},
		Output: TxOutput{Address: RawAddress{Str: "addr_test_source"}, Value: NewCoinValue(coin)},
	}
}

func TestBuilderSendValueBalancesAndAttachesChange(t *testing.T) {
	change := RawAddress{Str: "addr_test_change"}
	dest := RawAddress{Str: "addr_test_dest"}

	b := NewBuilder(
		WithProtocolParameters(testParams()),
		WithChangeAddress(change),
		WithAvailableUTxOs([]UTxO{testUTxO(1, 0, 10_000_000)}),
	)

	b.SendValue(dest, NewCoinValue(2_000_000), nil, nil)

	tx, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if tx.Body.Fee == 0 {
		t.Fatal("expected non-zero fee")
	}
	if len(tx.Body.Inputs) == 0 {
		t.Fatal("expected at least one selected input")
	}
	if len(tx.Body.Outputs) != 2 {
		t.Fatalf("expected destination + change outputs, got %d", len(tx.Body.Outputs))
	}

	total, err := sumOutputs(tx.Body.Outputs)
	if err != nil {
		t.Fatalf("sum outputs: %v", err)
	}
	in, err := sumUTxOs([]UTxO{testUTxO(1, 0, 10_000_000)})
	if err != nil {
		t.Fatalf("sum utxos: %v", err)
	}
	if total.Coin+tx.Body.Fee != in.Coin {
		t.Fatalf("inputs (%d) != outputs+fee (%d)", in.Coin, total.Coin+tx.Body.Fee)
	}
}

func TestBuilderIsStickyAfterError(t *testing.T) {
	b := NewBuilder(WithProtocolParameters(testParams()))
	b.SendValue(nil, NewCoinValue(1), nil, nil)
	if b.Err() == nil {
		t.Fatal("expected error for nil address")
	}

	// Further mutations are no-ops once dirty.
	before := b.Err()
	b.SendValue(RawAddress{Str: "addr_test"}, NewCoinValue(1), nil, nil)
	if b.Err() != before {
		t.Fatal("expected error to remain pinned to the first failure")
	}

	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected Build to return the pinned error")
	}
}

func TestBuilderBuildIsTerminal(t *testing.T) {
	change := RawAddress{Str: "addr_test_change"}
	dest := RawAddress{Str: "addr_test_dest"}

	b := NewBuilder(
		WithProtocolParameters(testParams()),
		WithChangeAddress(change),
		WithAvailableUTxOs([]UTxO{testUTxO(1, 0, 10_000_000)}),
	)
	b.SendValue(dest, NewCoinValue(2_000_000), nil, nil)

	tx1, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("first build: %v", err)
	}
	if tx1 == nil {
		t.Fatal("expected a built transaction")
	}

	tx2, err := b.Build(context.Background())
	if err == nil {
		t.Fatal("expected second Build call to fail with ErrIllegalState")
	}
	if !HasCode(err, ErrIllegalState) {
		t.Fatalf("expected ErrIllegalState, got %v", err)
	}
	if tx2 != nil {
		t.Fatal("expected no transaction from the terminal Build call")
	}
}

func TestBuilderInsufficientFundsFails(t *testing.T) {
	change := RawAddress{Str: "addr_test_change"}
	dest := RawAddress{Str: "addr_test_dest"}

	b := NewBuilder(
		WithProtocolParameters(testParams()),
		WithChangeAddress(change),
		WithAvailableUTxOs([]UTxO{testUTxO(1, 0, 1_000_000)}),
	)
	b.SendValue(dest, NewCoinValue(50_000_000), nil, nil)

	if _, err := b.Build(context.Background()); err == nil {
		t.Fatal("expected balance-insufficient error")
	}
}
