package txbuilder

import (
	"context"
	"math/big"
)

// builderState implements the sticky-error state machine spec.md §4.1
// describes: a Builder starts Fresh, moves to Dirty the instant any mutator
// or Build fails (pinning the error so every later call is a no-op that
// returns the same error), and moves to Built once Build succeeds (a
// terminal state — a built transaction is immutable).
type builderState int

const (
	stateFresh builderState = iota
	stateDirty
	stateBuilt
)

// Builder is the transaction-construction façade spec.md §4.1 specifies.
// Every mutator returns the same *Builder so calls chain; once an error
// occurs or the transaction is built, further mutators are no-ops.
type Builder struct {
	cfg   BuilderConfig
	state builderState
	err   error

	tx *Transaction

	pinnedInputs []UTxO

	inputRedeemers  *RedeemerIndexMap[TxInput]
	policyRedeemers *RedeemerIndexMap[Hash28]
	rewardRedeemers *RedeemerIndexMap[string]
}

// NewBuilder constructs a Fresh Builder from the given options.
func NewBuilder(opts ...Option) *Builder {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Builder{
		cfg: cfg,
		tx:  &Transaction{IsValid: true},
		inputRedeemers:  NewRedeemerIndexMap[TxInput](RedeemerSpend, inputRedeemerKey),
		policyRedeemers: NewRedeemerIndexMap[Hash28](RedeemerMint, policyRedeemerKey),
		rewardRedeemers: NewRedeemerIndexMap[string](RedeemerReward, func(s string) []byte { return []byte(s) }),
	}
}

// Err returns the error pinning the builder in the Dirty state, or nil.
func (b *Builder) Err() error { return b.err }

func (b *Builder) fail(err error) *Builder {
	if b.state == stateFresh {
		b.state = stateDirty
		b.err = err
	}
	return b
}

// active reports whether the builder will still accept mutations.
func (b *Builder) active() bool { return b.state == stateFresh }

// AddInput pins utxo as a transaction input. If redeemer is non-nil, utxo
// is treated as a script input and registered against the builder's
// input-redeemer map (spec.md §4.1 "add input", §4.2).
func (b *Builder) AddInput(utxo UTxO, redeemer *PlutusData, exUnits ExUnits) *Builder {
	if !b.active() {
		return b
	}
	cloned := cloneUTxO(utxo)
	b.pinnedInputs = append(b.pinnedInputs, cloned)
	if redeemer != nil {
		r := &Redeemer{Data: *redeemer, ExUnits: exUnits}
		if err := b.inputRedeemers.Insert(cloned.Input, r); err != nil {
			return b.fail(err)
		}
	}
	return b
}

// AddReferenceInput attaches in as a reference input (read-only, not
// consumed) — spec.md §4.1 "add reference input".
func (b *Builder) AddReferenceInput(in TxInput) *Builder {
	if !b.active() {
		return b
	}
	b.tx.Body.ReferenceInputs = append(b.tx.Body.ReferenceInputs, in)
	return b
}

// SendValue appends a plain output paying value to addr, with an optional
// datum and script reference — spec.md §4.1 "send value".
func (b *Builder) SendValue(addr Address, value Value, datum *DatumOption, scriptRef *ScriptRef) *Builder {
	if !b.active() {
		return b
	}
	if addr == nil {
		return b.fail(newErr(ErrPointerIsNull, "send value requires a non-nil address"))
	}
	out := cloneOutput(TxOutput{Address: addr, Value: value, Datum: datum, ScriptRef: scriptRef})
	b.tx.Body.Outputs = append(b.tx.Body.Outputs, out)
	return b
}

// LockValue appends an output paying value to a script address, attaching
// datum so a future spender can satisfy the script's datum requirement —
// spec.md §4.1 "lock value". It is SendValue specialized to the common
// script-output shape: a datum is required.
func (b *Builder) LockValue(scriptAddr Address, value Value, datum DatumOption, scriptRef *ScriptRef) *Builder {
	if !b.active() {
		return b
	}
	return b.SendValue(scriptAddr, value, &datum, scriptRef)
}

// MintToken adjusts the mint field for (policy, assetName) by amount
// (positive mints, negative burns), registering redeemer against the
// policy-redeemer map when the policy is script-backed —
// spec.md §4.1 "mint token", §4.2.
func (b *Builder) MintToken(policy Hash28, assetName string, amount *big.Int, redeemer *PlutusData, exUnits ExUnits) *Builder {
	if !b.active() {
		return b
	}
	if b.tx.Body.Mint == nil {
		b.tx.Body.Mint = NewMultiAsset()
	}
	b.tx.Body.Mint.Add(policy, assetName, amount)
	if redeemer != nil && b.policyRedeemers.Get(policy) == nil {
		r := &Redeemer{Data: *redeemer, ExUnits: exUnits}
		if err := b.policyRedeemers.Insert(policy, r); err != nil {
			return b.fail(err)
		}
	}
	return b
}

// AddWithdrawal appends a reward withdrawal, registering redeemer against
// the reward-redeemer map when the reward account is script-backed.
func (b *Builder) AddWithdrawal(rewardAddr []byte, coin uint64, redeemer *PlutusData, exUnits ExUnits) *Builder {
	if !b.active() {
		return b
	}
	b.tx.Body.Withdrawals = append(b.tx.Body.Withdrawals, Withdrawal{RewardAddress: rewardAddr, Coin: coin})
	if redeemer != nil {
		key := string(rewardAddr)
		if b.rewardRedeemers.Get(key) == nil {
			r := &Redeemer{Data: *redeemer, ExUnits: exUnits}
			if err := b.rewardRedeemers.Insert(key, r); err != nil {
				return b.fail(err)
			}
		}
	}
	return b
}

// AddCertificate appends cert to the body (spec.md §4.1). Certificate
// well-formedness and chain-rule validation are out of scope
// (spec.md §1 Non-goals); only the deposit/reclaim bookkeeping in cert
// feeds the balancer's implicit coin.
func (b *Builder) AddCertificate(cert Certificate) *Builder {
	if !b.active() {
		return b
	}
	b.tx.Body.Certificates = append(b.tx.Body.Certificates, cert)
	return b
}

// AddRequiredSigner records a key hash that must sign the transaction, per
// spec.md §3.
func (b *Builder) AddRequiredSigner(keyHash Hash28) *Builder {
	if !b.active() {
		return b
	}
	b.tx.Body.RequiredSigners = append(b.tx.Body.RequiredSigners, keyHash)
	return b
}

// AddVotingProcedure and AddProposalProcedure are intentionally
// unimplemented: spec.md's Open Questions leave Conway governance-action
// validation undecided, and this package does not attempt to guess ledger
// rules it was never given (spec.md §1 Non-goals). They fail the builder
// rather than silently accepting structurally-valid-but-unvalidated
// governance data.

// AddVotingProcedure always fails with ErrNotImplemented.
func (b *Builder) AddVotingProcedure(VotingProcedure) *Builder {
	if !b.active() {
		return b
	}
	return b.fail(newErr(ErrNotImplemented, "governance voting procedures are not implemented"))
}

// AddProposalProcedure always fails with ErrNotImplemented.
func (b *Builder) AddProposalProcedure(ProposalProcedure) *Builder {
	if !b.active() {
		return b
	}
	return b.fail(newErr(ErrNotImplemented, "governance proposal procedures are not implemented"))
}

// SetMetadata attaches value under label in the transaction's auxiliary
// data, creating it if absent — spec.md §4.1 "set metadata".
func (b *Builder) SetMetadata(label uint64, value PlutusData) *Builder {
	if !b.active() {
		return b
	}
	if b.tx.AuxiliaryData == nil {
		b.tx.AuxiliaryData = NewAuxiliaryData()
	}
	b.tx.AuxiliaryData.SetMetadata(label, value)
	return b
}

// PadSignerCount reserves fee headroom for extraSigners additional
// vkey-witnesses the builder will never itself attach (e.g. cosigners of a
// multi-sig native script) — spec.md §4.1 "pad signer count".
func (b *Builder) PadSignerCount(extraSigners uint) *Builder {
	if !b.active() {
		return b
	}
	b.cfg.ExtraSigners = extraSigners
	return b
}

// AttachScript adds a native or Plutus script directly to the witness set
// (as opposed to a reference script carried by an output), per spec.md §3.
func (b *Builder) AttachScript(native *NativeScript, plutus *PlutusScript) *Builder {
	if !b.active() {
		return b
	}
	switch {
	case native != nil:
		b.tx.Witness.NativeScripts = append(b.tx.Witness.NativeScripts, *native)
	case plutus != nil:
		switch plutus.Language {
		case PlutusV1:
			b.tx.Witness.PlutusV1Scripts = append(b.tx.Witness.PlutusV1Scripts, *plutus)
		case PlutusV2:
			b.tx.Witness.PlutusV2Scripts = append(b.tx.Witness.PlutusV2Scripts, *plutus)
		default:
			b.tx.Witness.PlutusV3Scripts = append(b.tx.Witness.PlutusV3Scripts, *plutus)
		}
	default:
		return b.fail(newErr(ErrPointerIsNull, "attach script requires a native or plutus script"))
	}
	return b
}

// AttachDatum adds a datum to the witness set's datum list directly (as
// opposed to one implied by an output's inline datum), used when a spent
// input's datum must be supplied by hash.
func (b *Builder) AttachDatum(d Datum) *Builder {
	if !b.active() {
		return b
	}
	b.tx.Witness.Datums = append(b.tx.Witness.Datums, d)
	return b
}

// Build runs the balancer to completion and returns the finished, fee-paid,
// value-balanced transaction. Build is terminal: a successful call moves
// the Builder to the Built state, and any later Build call fails with
// ErrIllegalState rather than returning the already-built transaction
// again (spec.md §4.7, testable property #8.7). Later mutator calls are
// no-ops: they leave the built transaction unchanged and record no error.
func (b *Builder) Build(ctx context.Context) (*Transaction, error) {
	if b.state == stateBuilt {
		return nil, newErr(ErrIllegalState, "build was already called on this builder")
	}
	if b.state == stateDirty {
		return nil, b.err
	}

	b.tx.Body.Inputs = inputsOf(b.pinnedInputs)
	if b.cfg.NetworkID != 0 {
		nid := b.cfg.NetworkID
		b.tx.Body.NetworkID = &nid
	}
	if b.cfg.InvalidBefore != nil {
		slot, err := b.cfg.InvalidBefore.resolve(ctx, b.cfg.Provider)
		if err != nil {
			b.state = stateDirty
			b.err = err
			return nil, err
		}
		b.tx.Body.ValidityStart = &slot
	}
	if b.cfg.InvalidAfter != nil {
		slot, err := b.cfg.InvalidAfter.resolve(ctx, b.cfg.Provider)
		if err != nil {
			b.state = stateDirty
			b.err = err
			return nil, err
		}
		b.tx.Body.TTL = &slot
	}
	if b.cfg.TxEvaluator == nil && b.cfg.Provider != nil {
		b.cfg.TxEvaluator = NewProviderEvaluator(b.cfg.Provider)
	}
	if b.tx.AuxiliaryData != nil {
		hash := b.tx.AuxiliaryData.Hash(b.cfg.Hasher)
		b.tx.Body.AuxDataHash = &hash
	}

	bal := &balancer{
		cfg:             b.cfg,
		already:         b.pinnedInputs,
		inputRedeemers:  b.inputRedeemers,
		policyRedeemers: b.policyRedeemers,
		rewardRedeemers: b.rewardRedeemers,
	}
	if err := bal.Balance(ctx, b.tx); err != nil {
		b.state = stateDirty
		b.err = err
		return nil, err
	}

	b.state = stateBuilt
	return b.tx, nil
}
