package main

import (
	"context"
	"time"

	txb "github.com/irislabs/txbuilder"
)

// offlineProvider is a fixed, network-free txb.Provider for the demo CLI:
// it returns a single hardcoded UTxO and a plausible protocol-parameter
// snapshot instead of querying a real node, the way HeliosLang-iris's
// CardanoCLI wraps `cardano-cli query ...` for the real thing. Swapping
// this for a node-backed Provider is the only change needed to make txbuild
// build against live chain state.
type offlineProvider struct {
	networkID int
}

func newOfflineProvider(networkID int) *offlineProvider {
	return &offlineProvider{networkID: networkID}
}

func (p *offlineProvider) GetProtocolParameters(ctx context.Context) (txb.ProtocolParameters, error) {
	return txb.ProtocolParameters{
		MinFeeA:                    44,
		MinFeeB:                    155381,
		PriceMem:                   0.0577,
		PriceStep:                  0.0000721,
		MinFeeRefScriptCostPerByte: 15,
		MaxTxSize:                  16384,
		CoinsPerUTXOByte:           4310,
		CollateralPercentage:       150,
		MaxCollateralInputs:        3,
		MaxTxInputs:                50,
		KeyDeposit:                 2_000_000,
		PoolDeposit:                500_000_000,
		DRepDeposit:                500_000_000,
		GovActionDeposit:           100_000_000_000,
		CostModels:                 map[string][]int64{},
	}, nil
}

func (p *offlineProvider) GetGenesisParameters(ctx context.Context) (txb.GenesisParameters, error) {
	return txb.GenesisParameters{
		NetworkMagic: p.networkID,
		SystemStart:  time.Date(2019, time.July, 24, 20, 20, 16, 0, time.UTC),
		SlotLength:   1,
	}, nil
}

func (p *offlineProvider) GetUTxOsByAddress(ctx context.Context, addr txb.Address) ([]txb.UTxO, error) {
	var txID txb.Hash32
	return []txb.UTxO{
		{
			Input: txb.TxInput{TxID: txID, Index: 0},
			Output: txb.TxOutput{
				Address: addr,
				Value:   txb.NewCoinValue(10_000_000),
			},
		},
	}, nil
}

func (p *offlineProvider) GetUTxOByOutRef(ctx context.Context, in txb.TxInput) (*txb.UTxO, error) {
	return nil, txb.NewError(txb.ErrElementNotFound, "offline provider has no chain state")
}

func (p *offlineProvider) SubmitTx(ctx context.Context, txBytes []byte) (txb.Hash32, error) {
	return txb.Hash32{}, txb.NewError(txb.ErrNotImplemented, "offline provider cannot submit")
}

func (p *offlineProvider) EvaluateTx(ctx context.Context, txBytes []byte, resolved []txb.UTxO) ([]txb.RedeemerEvaluation, error) {
	return nil, nil
}
