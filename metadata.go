package txbuilder

// NewAuxiliaryData returns an empty AuxiliaryData ready for SetMetadata calls.
func NewAuxiliaryData() *AuxiliaryData {
	return &AuxiliaryData{Metadata: make(map[uint64]PlutusData)}
}

// SetMetadata attaches value under label, overwriting any prior entry for
// that label (spec.md §4.1 "set metadata").
func (a *AuxiliaryData) SetMetadata(label uint64, value PlutusData) {
	a.Metadata[label] = value
}

// Hash returns the auxiliary-data-hash stored at Body field 7, per spec.md
// §3 ("auxiliary-data-hash: BLAKE2b-256 of the encoded auxiliary data,
// present iff auxiliary data is attached").
func (a *AuxiliaryData) Hash(h Hasher) Hash32 {
	return h.Hash256(a.MarshalCBOR())
}
