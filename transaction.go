package txbuilder

import "sort"

// Body carries every field spec.md §3 lists. Only present optional fields
// are encoded, and all present keys are emitted in ascending order
// (spec.md §6).
type Body struct {
	Inputs             []TxInput
	Outputs            []TxOutput
	Fee                uint64
	TTL                *uint64
	Certificates       []Certificate
	Withdrawals        []Withdrawal
	AuxDataHash        *Hash32
	ValidityStart      *uint64
	Mint               *MultiAsset
	ScriptDataHash     *Hash32
	CollateralInputs   []TxInput
	RequiredSigners    []Hash28
	NetworkID          *int // 0 testnet, 1 mainnet
	CollateralReturn   *TxOutput
	TotalCollateral    *uint64
	ReferenceInputs    []TxInput
	VotingProcedures   []VotingProcedure
	ProposalProcedures []ProposalProcedure
}

// sortedInputs returns ins in canonical order (spec.md §3).
func sortedInputs(ins []TxInput) []TxInput {
	out := make([]TxInput, len(ins))
	copy(out, ins)
	sort.Slice(out, func(i, j int) bool { return CompareInputs(out[i], out[j]) < 0 })
	return out
}

func encodeInputSet(ins []TxInput) []byte {
	sorted := sortedInputs(ins)
	entries := make([][]byte, len(sorted))
	for i, in := range sorted {
		entries[i] = EncodeArray([][]byte{EncodeBytes(in.TxID.Bytes()), EncodeUint(uint64(in.Index))})
	}
	return EncodeSet(entries)
}

func encodeKeyHashSet(hashes []Hash28) []byte {
	sorted := make([]Hash28, len(hashes))
	copy(sorted, hashes)
	sort.Slice(sorted, func(i, j int) bool {
		return compareBytes(sorted[i].Bytes(), sorted[j].Bytes()) < 0
	})
	entries := make([][]byte, len(sorted))
	for i, h := range sorted {
		entries[i] = EncodeBytes(h.Bytes())
	}
	return EncodeSet(entries)
}

func encodeWithdrawals(ws []Withdrawal) []byte {
	sorted := make([]Withdrawal, len(ws))
	copy(sorted, ws)
	sort.Slice(sorted, func(i, j int) bool {
		return compareBytes(sorted[i].RewardAddress, sorted[j].RewardAddress) < 0
	})
	pairs := make([]Pair, len(sorted))
	for i, w := range sorted {
		pairs[i] = Pair{Key: EncodeBytes(w.RewardAddress), Value: EncodeUint(w.Coin)}
	}
	return EncodeMap(pairs)
}

func encodeMultiAsset(m *MultiAsset, signed bool) []byte {
	if m.IsEmpty() {
		return EncodeMap(nil)
	}
	outerPairs := make([]Pair, 0, len(m.policies))
	for _, policy := range m.SortedPolicies() {
		innerPairs := make([]Pair, 0)
		for _, name := range m.SortedAssets(policy) {
			qty := m.Get(policy, name)
			var encodedQty []byte
			if signed {
				encodedQty = EncodeBigInt(qty)
			} else {
				encodedQty = EncodeUint(qty.Uint64())
			}
			innerPairs = append(innerPairs, Pair{Key: EncodeText(name), Value: encodedQty})
		}
		outerPairs = append(outerPairs, Pair{Key: EncodeBytes(policy.Bytes()), Value: EncodeMap(innerPairs)})
	}
	return EncodeMap(outerPairs)
}

func (o TxOutput) marshalValue() []byte {
	if !o.Value.HasAssets() {
		return EncodeUint(o.Value.Coin)
	}
	return EncodeArray([][]byte{EncodeUint(o.Value.Coin), encodeMultiAsset(o.Value.Assets, false)})
}

// MarshalCBOR encodes a post-Alonzo transaction output: a map keyed
// 0:address, 1:value, 2:datum-option, 3:script-ref.
func (o TxOutput) MarshalCBOR() ([]byte, error) {
	fields := map[int][]byte{}
	addrBytes, err := o.Address.Bytes()
	if err != nil {
		return nil, wrapErr(ErrInvalidCborValue, err, "encode output address")
	}
	fields[0] = EncodeBytes(addrBytes)
	fields[1] = o.marshalValue()
	if o.Datum != nil {
		if o.Datum.Inline != nil {
			fields[2] = EncodeArray([][]byte{EncodeUint(1), EncodeEmbedded(o.Datum.Inline.MarshalCBOR())})
		} else if o.Datum.Hash != nil {
			fields[2] = EncodeArray([][]byte{EncodeUint(0), EncodeBytes(o.Datum.Hash.Bytes())})
		}
	}
	if o.ScriptRef != nil {
		fields[3] = o.ScriptRef.MarshalCBOR()
	}
	return EncodeIntMap(fields), nil
}

// MarshalCBOR encodes the body as the Conway-era map described in spec.md §6.
func (b *Body) MarshalCBOR() ([]byte, error) {
	fields := map[int][]byte{}

	fields[0] = encodeInputSet(b.Inputs)

	outs := make([][]byte, len(b.Outputs))
	for i, o := range b.Outputs {
		enc, err := o.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		outs[i] = enc
	}
	fields[1] = EncodeArray(outs)

	fields[2] = EncodeUint(b.Fee)

	if b.TTL != nil {
		fields[3] = EncodeUint(*b.TTL)
	}
	if len(b.Certificates) > 0 {
		entries := make([][]byte, len(b.Certificates))
		for i, c := range b.Certificates {
			entries[i] = c.Raw
		}
		fields[4] = EncodeArray(entries)
	}
	if len(b.Withdrawals) > 0 {
		fields[5] = encodeWithdrawals(b.Withdrawals)
	}
	if b.AuxDataHash != nil {
		fields[7] = EncodeBytes(b.AuxDataHash.Bytes())
	}
	if b.ValidityStart != nil {
		fields[8] = EncodeUint(*b.ValidityStart)
	}
	if b.Mint != nil && !b.Mint.IsEmpty() {
		fields[9] = encodeMultiAsset(b.Mint, true)
	}
	if b.ScriptDataHash != nil {
		fields[11] = EncodeBytes(b.ScriptDataHash.Bytes())
	}
	if len(b.CollateralInputs) > 0 {
		fields[13] = encodeInputSet(b.CollateralInputs)
	}
	if len(b.RequiredSigners) > 0 {
		fields[14] = encodeKeyHashSet(b.RequiredSigners)
	}
	if b.NetworkID != nil {
		fields[15] = EncodeUint(uint64(*b.NetworkID))
	}
	if b.CollateralReturn != nil {
		enc, err := b.CollateralReturn.MarshalCBOR()
		if err != nil {
			return nil, err
		}
		fields[16] = enc
	}
	if b.TotalCollateral != nil {
		fields[17] = EncodeUint(*b.TotalCollateral)
	}
	if len(b.ReferenceInputs) > 0 {
		fields[18] = encodeInputSet(b.ReferenceInputs)
	}
	if len(b.VotingProcedures) > 0 {
		fields[19] = marshalVotingProcedures(b.VotingProcedures)
	}
	if len(b.ProposalProcedures) > 0 {
		entries := make([][]byte, len(b.ProposalProcedures))
		for i, p := range b.ProposalProcedures {
			entries[i] = p.ActionRaw
		}
		fields[20] = EncodeArray(entries)
	}

	return EncodeIntMap(fields), nil
}

func marshalVotingProcedures(vps []VotingProcedure) []byte {
	byVoter := map[string][]VotingProcedure{}
	order := []string{}
	for _, vp := range vps {
		key := string(vp.Voter.Raw)
		if _, ok := byVoter[key]; !ok {
			order = append(order, key)
		}
		byVoter[key] = append(byVoter[key], vp)
	}
	sort.Strings(order)
	pairs := make([]Pair, 0, len(order))
	for _, key := range order {
		group := byVoter[key]
		sort.Slice(group, func(i, j int) bool {
			return compareBytes(group[i].ActionID.TxID.Bytes(), group[j].ActionID.TxID.Bytes()) < 0 ||
				(group[i].ActionID.TxID == group[j].ActionID.TxID && group[i].ActionID.Index < group[j].ActionID.Index)
		})
		innerPairs := make([]Pair, len(group))
		for i, vp := range group {
			actionKey := EncodeArray([][]byte{EncodeBytes(vp.ActionID.TxID.Bytes()), EncodeUint(uint64(vp.ActionID.Index))})
			voteEntry := EncodeArray([][]byte{EncodeUint(uint64(vp.Vote)), encodeAnchor(vp.AnchorRaw)})
			innerPairs[i] = Pair{Key: actionKey, Value: voteEntry}
		}
		pairs = append(pairs, Pair{Key: EncodeBytes([]byte(key)), Value: EncodeMap(innerPairs)})
	}
	return EncodeMap(pairs)
}

func encodeAnchor(raw []byte) []byte {
	if raw == nil {
		return EncodeNull()
	}
	return raw
}

// AuxiliaryData carries transaction metadata (spec.md §4.1 "set metadata").
// Simplified to the Shelley-era shape (a bare label->datum map) rather than
// the full post-Mary [metadata, native_scripts, ...] envelope, since no
// attached-script metadata feature is specified here.
type AuxiliaryData struct {
	Metadata map[uint64]PlutusData
}

// MarshalCBOR encodes the auxiliary data as a map of label -> metadatum,
// sorted by label, reusing PlutusData's encoder for metadatum values
// (structurally identical: int/bytes/text/list/map).
func (a *AuxiliaryData) MarshalCBOR() []byte {
	labels := make([]uint64, 0, len(a.Metadata))
	for l := range a.Metadata {
		labels = append(labels, l)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	pairs := make([]Pair, len(labels))
	for i, l := range labels {
		pairs[i] = Pair{Key: EncodeUint(l), Value: a.Metadata[l].MarshalCBOR()}
	}
	return EncodeMap(pairs)
}

// Transaction is the top-level (Body, WitnessSet, AuxiliaryData?, isValid)
// tuple from spec.md §3, encoded as array(4) per spec.md §6.
type Transaction struct {
	Body          Body
	Witness       WitnessSet
	IsValid       bool
	AuxiliaryData *AuxiliaryData
}

// MarshalCBOR encodes the full transaction: [body, witnessSet, isValid, auxiliaryData].
func (tx *Transaction) MarshalCBOR() ([]byte, error) {
	bodyBytes, err := tx.Body.MarshalCBOR()
	if err != nil {
		return nil, err
	}
	var auxBytes []byte
	if tx.AuxiliaryData != nil {
		auxBytes = tx.AuxiliaryData.MarshalCBOR()
	} else {
		auxBytes = EncodeNull()
	}
	return EncodeArray([][]byte{
		bodyBytes,
		tx.Witness.MarshalCBOR(),
		EncodeBool(tx.IsValid),
		auxBytes,
	}), nil
}

// EncodeNull encodes the CBOR null simple value, used for an absent
// AuxiliaryData.
func EncodeNull() []byte { return []byte{major7<<5 | 22} }

// Hash computes the transaction's identifying hash: BLAKE2b-256 over the
// canonical CBOR of the body alone (per Cardano consensus rules, the body
// is hashed independently of the witness set and validity flag).
func (tx *Transaction) Hash(h Hasher) (Hash32, error) {
	bodyBytes, err := tx.Body.MarshalCBOR()
	if err != nil {
		return Hash32{}, err
	}
	return h.Hash256(bodyBytes), nil
}

// Size returns the canonical CBOR byte length of the full transaction,
// feeding fee.go's size-based fee term (spec.md §4.4).
func (tx *Transaction) Size() (int, error) {
	bytes, err := tx.MarshalCBOR()
	if err != nil {
		return 0, err
	}
	return len(bytes), nil
}
