package txbuilder

import (
	"context"
	"time"
)

// ProtocolParameters carries the subset of on-chain protocol parameters the
// fee calculator and balancer consume (spec.md §4.4, §4.5). Field names
// follow cardano-cli's json field names, the way zenGate-Global's
// Base.ProtocolParameters does.
type ProtocolParameters struct {
	MinFeeA                    uint64
	MinFeeB                    uint64
	PriceMem                   float64
	PriceStep                  float64
	MinFeeRefScriptCostPerByte uint64
	MaxTxSize                  uint64
	CoinsPerUTXOByte           uint64
	CollateralPercentage       uint64
	MaxCollateralInputs        uint64
	MaxTxInputs                uint64
	KeyDeposit                 uint64
	PoolDeposit                uint64
	DRepDeposit                uint64
	GovActionDeposit           uint64
	CostModels                 map[string][]int64
}

// Provider is the network collaborator the builder needs to resolve UTxOs
// and protocol parameters and to submit/evaluate a finished transaction.
// Grounded on zenGate-Global-cardano-connector-go's connector.go Provider
// interface, trimmed to the operations a transaction builder itself needs
// (chain indexing and submission beyond that are out of scope, spec.md §1
// Non-goals).
type Provider interface {
	GetProtocolParameters(ctx context.Context) (ProtocolParameters, error)
	GetGenesisParameters(ctx context.Context) (GenesisParameters, error)
	GetUTxOsByAddress(ctx context.Context, addr Address) ([]UTxO, error)
	GetUTxOByOutRef(ctx context.Context, in TxInput) (*UTxO, error)
	SubmitTx(ctx context.Context, txBytes []byte) (Hash32, error)
	EvaluateTx(ctx context.Context, txBytes []byte, resolved []UTxO) ([]RedeemerEvaluation, error)
}

// GenesisParameters carries the network-identifying constants spec.md §6
// needs to convert a Unix-time validity bound into an absolute slot: "the
// latter is converted via the provider's network magic." Grounded on
// zenGate-Global-cardano-connector-go/connector.go's
// GetGenesisParams/Base.GenesisParameters RPC.
type GenesisParameters struct {
	NetworkMagic int
	SystemStart  time.Time
	SlotLength   float64 // seconds per slot
}

// SlotFromUnixTime converts a Unix timestamp to an absolute slot number
// using gp's system start and slot length.
func SlotFromUnixTime(gp GenesisParameters, unixTime int64) uint64 {
	elapsed := float64(unixTime-gp.SystemStart.Unix()) / gp.SlotLength
	if elapsed < 0 {
		return 0
	}
	return uint64(elapsed)
}

// RedeemerEvaluation is one entry of a Provider's script-evaluation
// response: the cost a given redeemer actually consumed, keyed the same way
// a Redeemer is (spec.md §4.5 Step 7 "evaluate redeemers").
type RedeemerEvaluation struct {
	Tag     RedeemerTag
	Index   uint32
	ExUnits ExUnits
}
