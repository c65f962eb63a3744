package txbuilder

import "bytes"

// TxInput identifies a transaction output being spent. Canonical order is
// lexicographic by (TxID bytes, Index) per spec.md §3.
type TxInput struct {
	TxID  Hash32
	Index uint32
}

// CompareInputs implements the canonical input ordering: lexicographic on
// TxID bytes, then numeric Index.
func CompareInputs(a, b TxInput) int {
	if c := bytes.Compare(a.TxID.Bytes(), b.TxID.Bytes()); c != 0 {
		return c
	}
	switch {
	case a.Index < b.Index:
		return -1
	case a.Index > b.Index:
		return 1
	default:
		return 0
	}
}

// DatumOption is either a datum hash or an inline datum, per spec.md §3.
type DatumOption struct {
	Hash   *Hash32
	Inline *PlutusData
}

// TxOutput is (address, value, datum?, script-ref?) per spec.md §3.
type TxOutput struct {
	Address   Address
	Value     Value
	Datum     *DatumOption
	ScriptRef *ScriptRef

	// isBuilderChange marks an output the balancer itself appended so a
	// later balancing pass can find and replace it instead of accumulating
	// a new change output on every iteration (balancer.go).
	isBuilderChange bool
}

// UTxO pairs an input reference with its resolved output, per spec.md
// GLOSSARY.
type UTxO struct {
	Input  TxInput
	Output TxOutput
}

// ExUnits is the (memory, cpu-steps) execution budget for a Plutus
// evaluation, per spec.md GLOSSARY.
type ExUnits struct {
	Mem   uint64
	Steps uint64
}

// Add returns the component-wise sum of two ExUnits.
func (e ExUnits) Add(other ExUnits) ExUnits {
	return ExUnits{Mem: e.Mem + other.Mem, Steps: e.Steps + other.Steps}
}

// Withdrawal is a reward-address -> coin entry. RewardAddress is the raw
// reward-account bytes; canonical order is lexicographic on those bytes
// per spec.md §3.
type Withdrawal struct {
	RewardAddress []byte
	Coin          uint64
}

// CertificateKind enumerates the certificate variants spec.md §3 mentions.
// Only well-formedness bookkeeping (deposits/reclaims/ordering) is
// implemented here; semantic validation is explicitly out of scope
// (spec.md §1 Non-goals).
type CertificateKind int

const (
	CertStakeRegistration CertificateKind = iota
	CertStakeDeregistration
	CertPoolRegistration
	CertPoolRetirement
	CertDRepRegistration
	CertDRepDeregistration
	CertOther
)

// Certificate is an ordered (insertion order preserved) certificate entry.
// Deposit/Reclaim carry the lovelace amount locked or returned by this
// certificate, consumed by the balancer's implicit-coin step (spec.md
// §4.5 Step 1).
type Certificate struct {
	Kind    CertificateKind
	Raw     []byte // canonical CBOR of the certificate's own body, opaque to the builder
	Deposit uint64
	Reclaim uint64
}

// Voter identifies who cast votes in a VotingProcedures entry.
type Voter struct {
	Raw []byte // opaque canonical CBOR encoding of the voter credential
}

// GovActionID identifies a governance action being voted on or proposed.
type GovActionID struct {
	TxID  Hash32
	Index uint32
}

// Vote is one of the three Conway-era vote values.
type Vote int

const (
	VoteNo Vote = iota
	VoteYes
	VoteAbstain
)

// VotingProcedure is a single voter's vote on a single governance action.
type VotingProcedure struct {
	Voter       Voter
	ActionID    GovActionID
	Vote        Vote
	AnchorRaw   []byte // opaque canonical CBOR of the optional anchor
}

// ProposalProcedure is a single governance-action proposal; ordered list
// per spec.md §3.
type ProposalProcedure struct {
	Deposit     uint64
	RewardAddr  []byte
	ActionRaw   []byte // opaque canonical CBOR of the governance action body
	AnchorRaw   []byte
}
