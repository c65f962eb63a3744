package txbuilder

import "sort"

// defaultLargestFirstSelector is the built-in CoinSelector a Builder uses
// when its config doesn't set one, so a top-level `txbuilder` import never
// has to reach into the coinselect subpackage just to get the basic
// strategy spec.md §4.3 names as the default. coinselect.LargestFirst is
// the standalone, importable copy of the same algorithm for callers who
// want to wire it explicitly or compose it with coinselect.ReservationTable
// or coinselect.NewLockingSelector; the two implementations are kept
// identical by hand since coinselect imports this package and cannot be
// imported back.
type defaultLargestFirstSelector struct{}

func (defaultLargestFirstSelector) Select(available, preSelected []UTxO, target Value, params ProtocolParameters) ([]UTxO, []UTxO, error) {
	if params.MaxTxInputs > 0 && uint64(len(preSelected)) > params.MaxTxInputs {
		return nil, nil, newErr(ErrMaximumInputCountExceeded, "preSelected alone (%d) already exceeds maxTxInputs=%d", len(preSelected), params.MaxTxInputs)
	}
	if len(available) == 0 && (target.Coin > 0 || target.HasAssets()) {
		return nil, nil, newErr(ErrFullyDepleted, "no utxos available to select from")
	}

	pool := make([]UTxO, len(available))
	copy(pool, available)
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Output.Value.Coin > pool[j].Output.Value.Coin
	})

	var selected []UTxO
	accumulated := Value{}
	i := 0
	for ; i < len(pool); i++ {
		if accumulated.GreaterOrEqual(target) {
			break
		}
		if params.MaxTxInputs > 0 && uint64(len(preSelected)+len(selected)+1) > params.MaxTxInputs {
			return nil, nil, newErr(ErrInputLimitExceeded, "selecting another utxo would exceed maxTxInputs=%d", params.MaxTxInputs)
		}
		var err error
		accumulated, err = accumulated.Add(pool[i].Output.Value)
		if err != nil {
			return nil, nil, err
		}
		selected = append(selected, pool[i])
	}

	if !accumulated.GreaterOrEqual(target) {
		assetsTarget := NewValue(0, target.Assets)
		if !accumulated.GreaterOrEqual(assetsTarget) {
			return nil, nil, newErr(ErrBalanceInsufficient, "available utxos do not cover target value")
		}
		return nil, nil, newErr(ErrUtxoNotFragmentedEnough, "available utxos cannot cover target lovelace given per-output minimums")
	}

	change := append([]UTxO{}, pool[i:]...)
	return selected, change, nil
}
