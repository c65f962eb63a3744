package txbuilder

import "context"

// TxEvaluator runs Plutus script evaluation for every redeemer in tx against
// its resolved inputs, returning the actual ExUnits each one consumed
// (spec.md §4.5 Step 7). It is externalized so the balancer never embeds a
// Plutus VM itself (spec.md §1 Non-goals: "a Plutus interpreter").
type TxEvaluator interface {
	Evaluate(ctx context.Context, tx *Transaction, resolved []UTxO) ([]RedeemerEvaluation, error)
}

// providerEvaluator adapts a Provider's EvaluateTx RPC to the TxEvaluator
// interface, the way a real builder is configured in production.
type providerEvaluator struct {
	provider Provider
}

// NewProviderEvaluator wraps p as a TxEvaluator.
func NewProviderEvaluator(p Provider) TxEvaluator {
	return providerEvaluator{provider: p}
}

func (e providerEvaluator) Evaluate(ctx context.Context, tx *Transaction, resolved []UTxO) ([]RedeemerEvaluation, error) {
	txBytes, err := tx.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	return e.provider.EvaluateTx(ctx, txBytes, resolved)
}

// FixedUnitEvaluator is a deterministic, network-free TxEvaluator for tests:
// it assigns the same ExUnits to every redeemer already present in the
// transaction's witness set, rather than running a VM.
type FixedUnitEvaluator struct {
	Units ExUnits
}

func (e FixedUnitEvaluator) Evaluate(_ context.Context, tx *Transaction, _ []UTxO) ([]RedeemerEvaluation, error) {
	out := make([]RedeemerEvaluation, len(tx.Witness.Redeemers))
	for i, r := range tx.Witness.Redeemers {
		out[i] = RedeemerEvaluation{Tag: r.Tag, Index: r.Index, ExUnits: e.Units}
	}
	return out, nil
}
