package txbuilder

import "math"

// CalculateMinFee implements spec.md §4.4's formula:
//
//	minFee = size*minFeeA + minFeeB
//	       + sum(redeemers, priceMem*mem + priceStep*step)
//	       + minFeeRefScriptCostPerByte*refScriptBytes
//
// size is the canonical CBOR byte length of tx, computed by the caller
// (usually Transaction.Size) once the witness set's redeemer indices are
// final — fee depends on the encoded size, so it must be recomputed any
// time the transaction's bytes change (spec.md §4.5 Step 8).
func CalculateMinFee(pp ProtocolParameters, size int, redeemers []*Redeemer, refScriptBytes uint64) uint64 {
	fee := uint64(size)*pp.MinFeeA + pp.MinFeeB

	var scriptCost float64
	for _, r := range redeemers {
		scriptCost += pp.PriceMem*float64(r.ExUnits.Mem) + pp.PriceStep*float64(r.ExUnits.Steps)
	}
	fee += uint64(math.Ceil(scriptCost))

	fee += pp.MinFeeRefScriptCostPerByte * refScriptBytes

	return fee
}

// placeholderSignerBytes returns the fee-estimation-only byte padding for
// vkey witnesses the transaction doesn't carry yet: 64 bytes per real
// signer (required signers, or one assumed payment key when none are
// declared but inputs are present) plus extraSigners — spec.md §4.4: "An
// empty-signature placeholder of the declared width (64 bytes * (real vkey
// count + additional-signature-count)) is accounted for before real
// signing."
func placeholderSignerBytes(tx *Transaction, extraSigners uint) uint64 {
	required := uint64(len(tx.Body.RequiredSigners))
	if required == 0 && len(tx.Body.Inputs) > 0 {
		required = 1
	}
	return 64 * (required + uint64(extraSigners))
}

// MinUTxOValue returns the minimum lovelace a TxOutput must carry, per the
// coinsPerUTxOByte rule: the output's own encoded size (plus a fixed
// constant-overhead word count mirroring cardano-cli's utxoEntrySizeWithoutVal)
// times coinsPerUTxOByte.
func MinUTxOValue(pp ProtocolParameters, o TxOutput) (uint64, error) {
	enc, err := o.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	const utxoEntrySizeWithoutVal = 27
	return (utxoEntrySizeWithoutVal + uint64(len(enc))) * pp.CoinsPerUTXOByte, nil
}
