package coinselect

import (
	"testing"
	"time"

	txb "github.com/irislabs/txbuilder"
)

func testTxID(b byte) (h txb.Hash32) {
	h[0] = b
	return h
}

func testUTxO(txID byte, index uint32, coin uint64) txb.UTxO {
	return txb.UTxO{
		Input:  txb.TxInput{TxID: testTxID(txID), Index: index},
		Output: txb.TxOutput{Address: txb.RawAddress{Str: "addr_test"}, Value: txb.NewCoinValue(coin)},
	}
}

func testParams(maxTxInputs uint64) txb.ProtocolParameters {
	return txb.ProtocolParameters{MaxTxInputs: maxTxInputs}
}

func TestLargestFirstPicksFewestInputs(t *testing.T) {
	pool := []txb.UTxO{
		testUTxO(1, 0, 1_000_000),
		testUTxO(2, 0, 10_000_000),
		testUTxO(3, 0, 2_000_000),
	}
	selected, change, err := LargestFirst{}.Select(pool, nil, txb.NewCoinValue(5_000_000), testParams(0))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 1 {
		t.Fatalf("expected the single largest utxo to suffice, got %d inputs", len(selected))
	}
	if selected[0].Output.Value.Coin != 10_000_000 {
		t.Fatalf("expected largest-first to pick the 10_000_000 utxo, got %d", selected[0].Output.Value.Coin)
	}
	if len(change) != 2 {
		t.Fatalf("expected the two unselected utxos returned as change, got %d", len(change))
	}
}

func TestLargestFirstFailsWhenPoolInsufficient(t *testing.T) {
	pool := []txb.UTxO{testUTxO(1, 0, 1_000_000)}
	if _, _, err := (LargestFirst{}).Select(pool, nil, txb.NewCoinValue(5_000_000), testParams(0)); err == nil {
		t.Fatal("expected insufficient-funds error")
	}
}

func TestLargestFirstFailsOnFullyDepletedPool(t *testing.T) {
	if _, _, err := (LargestFirst{}).Select(nil, nil, txb.NewCoinValue(1_000_000), testParams(0)); !txb.HasCode(err, txb.ErrFullyDepleted) {
		t.Fatalf("expected ErrFullyDepleted, got %v", err)
	}
}

func TestLargestFirstFailsWhenPreSelectedAloneExceedsMaxInputs(t *testing.T) {
	preSelected := []txb.UTxO{testUTxO(9, 0, 1_000_000), testUTxO(8, 0, 1_000_000)}
	_, _, err := (LargestFirst{}).Select(nil, preSelected, txb.NewCoinValue(1), testParams(1))
	if !txb.HasCode(err, txb.ErrMaximumInputCountExceeded) {
		t.Fatalf("expected ErrMaximumInputCountExceeded, got %v", err)
	}
}

func TestLargestFirstFailsWhenSelectionWouldExceedMaxInputs(t *testing.T) {
	pool := []txb.UTxO{testUTxO(1, 0, 1_000_000), testUTxO(2, 0, 1_000_000)}
	_, _, err := (LargestFirst{}).Select(pool, nil, txb.NewCoinValue(2_000_000), testParams(1))
	if !txb.HasCode(err, txb.ErrInputLimitExceeded) {
		t.Fatalf("expected ErrInputLimitExceeded, got %v", err)
	}
}

func TestNewLockingSelectorFiltersAndReserves(t *testing.T) {
	table := NewReservationTable()
	pool := []txb.UTxO{testUTxO(1, 0, 10_000_000), testUTxO(2, 0, 10_000_000)}
	table.Reserve(pool[0].Input, time.Minute)

	sel := NewLockingSelector(LargestFirst{}, table, time.Minute)
	selected, _, err := sel.Select(pool, nil, txb.NewCoinValue(5_000_000), testParams(0))
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if len(selected) != 1 || selected[0].Input != pool[1].Input {
		t.Fatalf("expected the unreserved utxo to be picked, got %+v", selected)
	}
	if !table.IsReserved(pool[1].Input) {
		t.Fatal("expected the newly-selected utxo to be reserved after a successful select")
	}
}

func TestReservationTableFiltersLockedUTxOs(t *testing.T) {
	table := NewReservationTable()
	u := testUTxO(1, 0, 1_000_000)
	table.Reserve(u.Input, time.Minute)

	if !table.IsReserved(u.Input) {
		t.Fatal("expected input to be reserved")
	}
	filtered := table.Filter([]txb.UTxO{u, testUTxO(2, 0, 2_000_000)})
	if len(filtered) != 1 {
		t.Fatalf("expected reserved utxo filtered out, got %d remaining", len(filtered))
	}
}

func TestReservationExpires(t *testing.T) {
	table := NewReservationTable()
	u := testUTxO(1, 0, 1_000_000)
	table.Reserve(u.Input, -time.Second) // already expired

	if table.IsReserved(u.Input) {
		t.Fatal("expected expired reservation to be pruned")
	}
}

func TestReleaseUnlocksUTxO(t *testing.T) {
	table := NewReservationTable()
	u := testUTxO(1, 0, 1_000_000)
	table.Reserve(u.Input, time.Minute)
	table.Release(u.Input)

	if table.IsReserved(u.Input) {
		t.Fatal("expected released utxo to no longer be reserved")
	}
}

func TestReserveAllLocksEverySelectedInput(t *testing.T) {
	table := NewReservationTable()
	selected := []txb.UTxO{testUTxO(1, 0, 1_000_000), testUTxO(2, 0, 2_000_000)}
	table.ReserveAll(selected, time.Minute)

	for _, u := range selected {
		if !table.IsReserved(u.Input) {
			t.Fatalf("expected input %v to be reserved", u.Input)
		}
	}
}
