package txbuilder

import "context"

// maxBalanceIterations bounds the Select -> Balance -> Evaluate -> Recompute
// fixpoint loop (spec.md §4.5): in practice two or three passes always
// settle once redeemer ExUnits and fee stop moving the transaction's size
// enough to need another input.
const maxBalanceIterations = 3

// balancer runs the fixpoint balancing algorithm against a single
// in-progress transaction. It is constructed fresh by Builder.Build for
// each call — it holds no state across builds. The three redeemer maps are
// the Builder's own (spec.md §4.2); the balancer reindexes them in place
// and rebuilds the witness set's flat Redeemers slice from their canonical
// order after every input-set change, rather than guessing positions from
// a Redeemer's previous Index.
type balancer struct {
	cfg     BuilderConfig
	already []UTxO // inputs the caller already pinned via AddInput

	inputRedeemers  *RedeemerIndexMap[TxInput]
	policyRedeemers *RedeemerIndexMap[Hash28]
	rewardRedeemers *RedeemerIndexMap[string]
}

// Balance drives tx to a fee-correct, value-balanced state in place,
// following spec.md §4.5's ten steps:
//  1. compute the implicit coin (withdrawals in, deposits/proposals out)
//  2. compute the target value still owed to the transaction
//  3. select inputs to cover it
//  4. compute and attach the change output
//  5. recompute redeemer indices against the now-final input set
//  6. attach a dummy script-data hash so size estimates are stable
//  7. evaluate redeemers for their real ExUnits
//  8. recompute the fee from the now-real transaction bytes
//  9. select collateral and attach collateral/total-collateral
//  10. attach the final script-data hash
//
// Exceeding maxBalanceIterations without the selected input set and fee
// settling returns ErrBalancingDidNotConverge.
func (b *balancer) Balance(ctx context.Context, tx *Transaction) error {
	if b.cfg.CoinSelector == nil {
		return newErr(ErrIllegalState, "balancer requires a CoinSelector")
	}

	var selected []UTxO
	var fee uint64

	for iter := 0; ; iter++ {
		if iter >= maxBalanceIterations {
			return newErr(ErrBalancingDidNotConverge, "balancing did not converge after %d iterations", maxBalanceIterations)
		}

		implicit := b.implicitCoin(tx)

		// The change output is a derived quantity, not a funding
		// requirement: excluding it here is what lets the loop converge
		// instead of treating last iteration's change as new demand.
		outputTotal, err := sumOutputs(userOutputs(tx.Body.Outputs))
		if err != nil {
			return err
		}

		alreadyTotal, err := sumUTxOs(append(append([]UTxO{}, b.already...), selected...))
		if err != nil {
			return err
		}

		target, err := targetValue(outputTotal, fee, implicit, alreadyTotal)
		if err != nil {
			return err
		}

		if target.Coin > 0 || target.HasAssets() {
			newlySelected, _, err := b.cfg.CoinSelector.Select(b.availablePool(selected), b.already, target, b.cfg.ProtocolParams)
			if err != nil {
				return err
			}
			selected = append(selected, newlySelected...)
		}

		tx.Body.Inputs = inputsOf(append(append([]UTxO{}, b.already...), selected...))

		changeValue, err := changeAmount(append(append([]UTxO{}, b.already...), selected...), outputTotal, fee, implicit)
		if err != nil {
			return err
		}
		if err := b.attachChange(tx, changeValue); err != nil {
			return err
		}

		b.reindexRedeemers(tx)

		if tx.Witness.HasPlutusScripts() {
			dummyHash := b.scriptDataHash(tx)
			tx.Body.ScriptDataHash = &dummyHash

			if b.cfg.TxEvaluator != nil {
				resolved := append(append([]UTxO{}, b.already...), selected...)
				evals, err := b.cfg.TxEvaluator.Evaluate(ctx, tx, resolved)
				if err != nil {
					return wrapErr(ErrScriptEvaluationFailed, err, "evaluating redeemers")
				}
				applyEvaluations(tx, evals)
			}
		}

		size, err := tx.Size()
		if err != nil {
			return err
		}
		paddedSize := size + int(placeholderSignerBytes(tx, b.cfg.ExtraSigners))
		newFee := CalculateMinFee(b.cfg.ProtocolParams, paddedSize, tx.Witness.Redeemers, refScriptBytes(tx))
		if newFee < b.cfg.MinimumFee {
			newFee = b.cfg.MinimumFee
		}

		if newFee == fee && lenOf(tx.Body.Inputs) == len(b.already)+len(selected) {
			tx.Body.Fee = newFee
			if tx.Witness.HasPlutusScripts() {
				if err := b.attachCollateral(tx, newFee); err != nil {
					return err
				}
				finalHash := b.scriptDataHash(tx)
				tx.Body.ScriptDataHash = &finalHash
			}
			return nil
		}
		fee = newFee
	}
}

func lenOf(ins []TxInput) int { return len(ins) }

func (b *balancer) availablePool(alreadySelected []UTxO) []UTxO {
	taken := make(map[TxInput]bool, len(alreadySelected)+len(b.already))
	for _, u := range b.already {
		taken[u.Input] = true
	}
	for _, u := range alreadySelected {
		taken[u.Input] = true
	}
	out := make([]UTxO, 0, len(b.cfg.AvailableUTxOs))
	for _, u := range b.cfg.AvailableUTxOs {
		if !taken[u.Input] {
			out = append(out, u)
		}
	}
	return out
}

// implicitCoin nets withdrawals (in) against certificate deposits and
// proposal deposits (out) — spec.md §4.5 Step 1.
func (b *balancer) implicitCoin(tx *Transaction) int64 {
	return int64(netWithdrawalCoin(tx.Body.Withdrawals)) -
		netCertificateDeposit(tx.Body.Certificates) -
		int64(proposalDepositTotal(tx.Body.ProposalProcedures))
}

func sumOutputs(outs []TxOutput) (Value, error) {
	vs := make([]Value, len(outs))
	for i, o := range outs {
		vs[i] = o.Value
	}
	return SumValues(vs...)
}

func sumUTxOs(us []UTxO) (Value, error) {
	vs := make([]Value, len(us))
	for i, u := range us {
		vs[i] = u.Output.Value
	}
	return SumValues(vs...)
}

// userOutputs filters out the balancer's own change output, which must
// never count toward the value the transaction is required to produce.
func userOutputs(outs []TxOutput) []TxOutput {
	out := make([]TxOutput, 0, len(outs))
	for _, o := range outs {
		if !o.isBuilderChange {
			out = append(out, o)
		}
	}
	return out
}

func inputsOf(us []UTxO) []TxInput {
	out := make([]TxInput, len(us))
	for i, u := range us {
		out[i] = u.Input
	}
	return out
}

// targetValue computes how much more input value is still owed:
// outputs + fee - implicit - alreadyHeld, floored at zero per asset/coin.
func targetValue(outputTotal Value, fee uint64, implicit int64, alreadyHeld Value) (Value, error) {
	needed, err := outputTotal.Add(NewCoinValue(fee))
	if err != nil {
		return Value{}, err
	}
	if implicit > 0 {
		needed, err = needed.Sub(NewCoinValue(uint64(implicit)))
		if err != nil {
			needed = NewCoinValue(0)
		}
	} else if implicit < 0 {
		needed, err = needed.Add(NewCoinValue(uint64(-implicit)))
		if err != nil {
			return Value{}, err
		}
	}
	remaining, err := needed.Sub(alreadyHeld)
	if err != nil {
		// alreadyHeld already covers needed; nothing further required.
		return Value{Assets: NewMultiAsset()}, nil
	}
	return remaining, nil
}

// changeAmount is totalIn + implicit - outputs - fee, the value returned to
// the change address (spec.md §4.5 Step 4). When the inputs do not cover
// the outputs plus fee in coin, it returns an empty change value; the
// caller's next iteration will select more.
func changeAmount(inputs []UTxO, outputTotal Value, fee uint64, implicit int64) (Value, error) {
	totalIn, err := sumUTxOs(inputs)
	if err != nil {
		return Value{}, err
	}
	if implicit > 0 {
		totalIn, err = totalIn.Add(NewCoinValue(uint64(implicit)))
	} else if implicit < 0 {
		totalIn, err = totalIn.Sub(NewCoinValue(uint64(-implicit)))
	}
	if err != nil {
		return Value{}, err
	}
	spent, err := outputTotal.Add(NewCoinValue(fee))
	if err != nil {
		return Value{}, err
	}
	change, err := totalIn.Sub(spent)
	if err != nil {
		return Value{Coin: 0, Assets: NewMultiAsset()}, nil
	}
	return change, nil
}

// attachChange writes (or removes) the builder-owned change output, which
// is always the last output in the body so user-specified output order is
// preserved (spec.md §4.1).
func (b *balancer) attachChange(tx *Transaction, change Value) error {
	if b.cfg.ChangeAddress == nil {
		return newErr(ErrIllegalState, "no change address configured")
	}
	outs := tx.Body.Outputs
	if len(outs) > 0 && outs[len(outs)-1].isBuilderChange {
		outs = outs[:len(outs)-1]
	}
	if change.Coin > 0 || change.HasAssets() {
		outs = append(outs, TxOutput{Address: b.cfg.ChangeAddress, Value: change, isBuilderChange: true})
	}
	tx.Body.Outputs = outs
	return nil
}

// reindexRedeemers re-sorts the Builder's three redeemer maps — input-keyed
// indices can shift whenever coin selection adds inputs — and rebuilds the
// witness set's flat Redeemers slice from their canonical order
// (spec.md §4.5 Step 5, §4.2). A spend redeemer's Index is its input's
// position in the full sorted input set; mint and reward redeemers keep
// their position among the map's own keys.
func (b *balancer) reindexRedeemers(tx *Transaction) {
	var all []*Redeemer
	if b.inputRedeemers != nil {
		b.inputRedeemers.Reindex()
		sorted := sortedInputs(tx.Body.Inputs)
		for _, k := range b.inputRedeemers.order {
			for pos, in := range sorted {
				if in == k {
					b.inputRedeemers.entries[k].Index = uint32(pos)
					break
				}
			}
		}
		all = append(all, b.inputRedeemers.Redeemers()...)
	}
	if b.policyRedeemers != nil {
		b.policyRedeemers.Reindex()
		all = append(all, b.policyRedeemers.Redeemers()...)
	}
	if b.rewardRedeemers != nil {
		b.rewardRedeemers.Reindex()
		all = append(all, b.rewardRedeemers.Redeemers()...)
	}
	tx.Witness.Redeemers = all
}

// scriptDataHash computes CIP-35's hash: blake2b256(canonical(redeemers) ||
// canonical(datums) || canonical(usedCostModels)) — spec.md §4.5 Step 10.
func (b *balancer) scriptDataHash(tx *Transaction) Hash32 {
	var buf []byte
	buf = append(buf, marshalRedeemers(tx.Witness.Redeemers)...)
	for _, d := range tx.Witness.CanonicalDatums() {
		buf = append(buf, d.Data.MarshalCBOR()...)
	}
	buf = append(buf, encodeUsedCostModels(tx, b.cfg.ProtocolParams)...)
	return b.cfg.Hasher.Hash256(buf)
}

func encodeUsedCostModels(tx *Transaction, pp ProtocolParameters) []byte {
	langs := map[PlutusLanguage]bool{}
	if len(tx.Witness.PlutusV1Scripts) > 0 {
		langs[PlutusV1] = true
	}
	if len(tx.Witness.PlutusV2Scripts) > 0 {
		langs[PlutusV2] = true
	}
	if len(tx.Witness.PlutusV3Scripts) > 0 {
		langs[PlutusV3] = true
	}
	fields := map[int][]byte{}
	langKeys := []PlutusLanguage{PlutusV1, PlutusV2, PlutusV3}
	for i, l := range langKeys {
		if !langs[l] {
			continue
		}
		costs, ok := pp.CostModels[l.costModelKey()]
		if !ok {
			continue
		}
		entries := make([][]byte, len(costs))
		for j, c := range costs {
			entries[j] = EncodeInt(c)
		}
		fields[i] = EncodeArray(entries)
	}
	return EncodeIntMap(fields)
}

func applyEvaluations(tx *Transaction, evals []RedeemerEvaluation) {
	byKey := make(map[[2]uint64]ExUnits, len(evals))
	for _, e := range evals {
		byKey[[2]uint64{uint64(e.Tag), uint64(e.Index)}] = e.ExUnits
	}
	for _, r := range tx.Witness.Redeemers {
		if eu, ok := byKey[[2]uint64{uint64(r.Tag), uint64(r.Index)}]; ok {
			r.ExUnits = eu
		}
	}
}

// refScriptBytes sums the size of every reference-input and regular-input
// attached script, feeding the minFeeRefScriptCostPerByte fee term
// (spec.md §4.4). Only scripts carried by outputs the body actually
// references are counted.
func refScriptBytes(tx *Transaction) uint64 {
	var total uint64
	if tx.Body.CollateralReturn != nil && tx.Body.CollateralReturn.ScriptRef != nil {
		total += uint64(scriptRefSize(tx.Body.CollateralReturn.ScriptRef))
	}
	for _, o := range tx.Body.Outputs {
		if o.ScriptRef != nil {
			total += uint64(scriptRefSize(o.ScriptRef))
		}
	}
	return total
}

func scriptRefSize(s *ScriptRef) int {
	return len(s.MarshalCBOR())
}

// attachCollateral selects collateral-eligible UTxOs covering
// ceil(fee*collateralPercentage/100) and attaches them plus a collateral
// return output for any excess (spec.md §4.5 Step 9).
func (b *balancer) attachCollateral(tx *Transaction, fee uint64) error {
	if len(b.cfg.CollateralUTxOs) == 0 {
		return newErr(ErrIllegalState, "plutus scripts present but no collateral utxos configured")
	}
	required := (fee*b.cfg.ProtocolParams.CollateralPercentage + 99) / 100

	var chosen []UTxO
	var total uint64
	for _, u := range b.cfg.CollateralUTxOs {
		if total >= required {
			break
		}
		if uint64(len(chosen)) >= b.cfg.ProtocolParams.MaxCollateralInputs {
			break
		}
		chosen = append(chosen, u)
		total += u.Output.Value.Coin
	}
	if total < required {
		return newErr(ErrBalanceInsufficient, "collateral utxos do not cover required collateral %d", required)
	}

	tx.Body.CollateralInputs = inputsOf(chosen)
	tx.Body.TotalCollateral = &total

	if total > required && b.cfg.CollateralAddr != nil {
		excess := total - required
		tx.Body.CollateralReturn = &TxOutput{
			Address: b.cfg.CollateralAddr,
			Value:   NewCoinValue(excess),
		}
	}
	return nil
}
