// Package coinselect implements the pluggable UTxO selection strategy the
// balancer delegates to (spec.md §4.3), plus a TTL-based reservation table
// so multiple concurrent builders drawing from the same UTxO set don't race
// each other onto the same input.
package coinselect

import (
	"sort"

	txb "github.com/irislabs/txbuilder"
)

// Selector implements spec.md §4.3/§6's select contract:
//
//	select(available, preSelected, target) -> (selected, change, err)
//
// preSelected are UTxOs the caller already pinned; they are not present in
// available and are never returned in selected, but count toward
// params.MaxTxInputs. change is the subset of available left unselected.
type Selector interface {
	Select(available, preSelected []txb.UTxO, target txb.Value, params txb.ProtocolParameters) (selected, change []txb.UTxO, err error)
}

// LargestFirst is the default Selector spec.md §4.3 names: sort available
// UTxOs by descending lovelace, then take from the front until target is
// covered. It never considers native assets when ordering, only coin —
// asset coverage is checked after each take, matching the reference
// behavior of accumulating more inputs until every required asset is met.
type LargestFirst struct{}

// Select implements Selector.
func (LargestFirst) Select(available, preSelected []txb.UTxO, target txb.Value, params txb.ProtocolParameters) ([]txb.UTxO, []txb.UTxO, error) {
	return selectLargestFirst(available, preSelected, target, params)
}

// selectLargestFirst backs LargestFirst.Select. The root package's
// unexported default selector is a separate copy of the same algorithm
// (duplicated there to avoid an import cycle, see selector_default.go).
func selectLargestFirst(available, preSelected []txb.UTxO, target txb.Value, params txb.ProtocolParameters) ([]txb.UTxO, []txb.UTxO, error) {
	if uint64(len(preSelected)) > params.MaxTxInputs && params.MaxTxInputs > 0 {
		return nil, nil, txb.NewError(txb.ErrMaximumInputCountExceeded, "preSelected alone (%d) already exceeds maxTxInputs=%d", len(preSelected), params.MaxTxInputs)
	}
	if len(available) == 0 && (target.Coin > 0 || target.HasAssets()) {
		return nil, nil, txb.NewError(txb.ErrFullyDepleted, "no utxos available to select from")
	}

	pool := make([]txb.UTxO, len(available))
	copy(pool, available)
	sort.Slice(pool, func(i, j int) bool {
		return pool[i].Output.Value.Coin > pool[j].Output.Value.Coin
	})

	var selected []txb.UTxO
	accumulated := txb.Value{}
	i := 0
	for ; i < len(pool); i++ {
		if accumulated.GreaterOrEqual(target) {
			break
		}
		if params.MaxTxInputs > 0 && uint64(len(preSelected)+len(selected)+1) > params.MaxTxInputs {
			return nil, nil, txb.NewError(txb.ErrInputLimitExceeded, "selecting another utxo would exceed maxTxInputs=%d", params.MaxTxInputs)
		}
		var err error
		accumulated, err = accumulated.Add(pool[i].Output.Value)
		if err != nil {
			return nil, nil, err
		}
		selected = append(selected, pool[i])
	}

	if !accumulated.GreaterOrEqual(target) {
		assetsTarget := txb.NewValue(0, target.Assets)
		if !accumulated.GreaterOrEqual(assetsTarget) {
			return nil, nil, txb.NewError(txb.ErrBalanceInsufficient, "available utxos do not cover target value")
		}
		// every asset is covered; only lovelace is short despite the pool
		// being fully spent, i.e. the pool is too fragmented to meet the
		// per-output minimums the target already bakes in.
		return nil, nil, txb.NewError(txb.ErrUtxoNotFragmentedEnough, "available utxos cannot cover target lovelace given per-output minimums")
	}

	change := append([]txb.UTxO{}, pool[i:]...)
	return selected, change, nil
}
