package txbuilder

import "github.com/jinzhu/copier"

// cloneUTxO deep-copies a UTxO the builder is about to retain, honoring the
// "clone on store" ownership rule (spec.md §3's Data Ownership Model): the
// builder never keeps an alias into memory the caller still controls. Value
// and ScriptRef carry pointer fields copier won't deep-copy on its own, so
// those are cloned explicitly; Address is an interface value kept as copier
// leaves it; everything else is plain data copier
// handles structurally, the way HeliosLang-iris's store.go uses copier.Copy
// to snapshot mempool entries before handing them to a consumer.
func cloneUTxO(u UTxO) UTxO {
	out := UTxO{Input: u.Input}
	if err := copier.CopyWithOption(&out.Output, &u.Output, copier.Option{DeepCopy: true}); err != nil {
		// copier only fails on mismatched concrete types, which cannot
		// happen copying a TxOutput onto itself.
		panic(err)
	}
	out.Output.Value = u.Output.Value.Clone()
	if u.Output.ScriptRef != nil {
		ref := *u.Output.ScriptRef
		out.Output.ScriptRef = &ref
	}
	return out
}

// cloneUTxOs clones a slice of UTxOs, used whenever the builder accepts a
// caller-owned UTxO set (config.go's WithAvailableUTxOs / WithCollateralUTxOs).
func cloneUTxOs(us []UTxO) []UTxO {
	out := make([]UTxO, len(us))
	for i, u := range us {
		out[i] = cloneUTxO(u)
	}
	return out
}

// cloneOutput deep-copies a caller-supplied TxOutput before the builder
// retains it (spec.md §4.1 "send value"/"lock value").
func cloneOutput(o TxOutput) TxOutput {
	out := o
	out.Value = o.Value.Clone()
	if o.Datum != nil {
		d := *o.Datum
		out.Datum = &d
	}
	if o.ScriptRef != nil {
		ref := *o.ScriptRef
		out.ScriptRef = &ref
	}
	return out
}
