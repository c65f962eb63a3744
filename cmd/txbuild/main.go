// Command txbuild demonstrates the txbuilder library end to end: it reads a
// demo wallet's mnemonic, resolves a UTxO set from a Provider, builds one
// send-value transaction, and prints its canonical CBOR hex — without
// submitting anything to a network. Grounded on HeliosLang-iris's
// src/backend/main.go (cobra root command wiring) and cli.go (the
// CardanoCLI network-name flag convention).
package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/tyler-smith/go-bip39"

	txb "github.com/irislabs/txbuilder"
)

var (
	networkName   string
	mnemonic      string
	toAddress     string
	changeAddress string
	lovelace      uint64
)

func main() {
	if err := makeCLI().Execute(); err != nil {
		log.Fatal(err)
	}
}

func makeCLI() *cobra.Command {
	root := &cobra.Command{
		Use:   "txbuild",
		Short: "Build a Cardano transaction without submitting it",
		RunE:  build,
	}
	root.Flags().StringVar(&networkName, "network", "preprod", "preprod or mainnet")
	root.Flags().StringVar(&mnemonic, "mnemonic", "", "24-word BIP-39 mnemonic for the demo wallet")
	root.Flags().StringVar(&toAddress, "to", "", "bech32 destination address")
	root.Flags().StringVar(&changeAddress, "change", "", "bech32 change address (defaults to --to)")
	root.Flags().Uint64Var(&lovelace, "lovelace", 2_000_000, "amount to send, in lovelace")
	return root
}

func build(cmd *cobra.Command, args []string) error {
	if networkName != "preprod" && networkName != "mainnet" {
		return fmt.Errorf("unhandled network name %q", networkName)
	}
	if toAddress == "" {
		return fmt.Errorf("--to is required")
	}

	if mnemonic != "" && !bip39.IsMnemonicValid(mnemonic) {
		return fmt.Errorf("invalid mnemonic")
	}

	if changeAddress == "" {
		changeAddress = toAddress
	}

	dest, err := txb.ParseAddress(toAddress)
	if err != nil {
		return fmt.Errorf("parse destination address: %w", err)
	}
	change, err := txb.ParseAddress(changeAddress)
	if err != nil {
		return fmt.Errorf("parse change address: %w", err)
	}

	networkID := 0
	if networkName == "mainnet" {
		networkID = 1
	}

	provider := newOfflineProvider(networkID)
	ctx := context.Background()

	pp, err := provider.GetProtocolParameters(ctx)
	if err != nil {
		return err
	}
	utxos, err := provider.GetUTxOsByAddress(ctx, change)
	if err != nil {
		return err
	}

	b := txb.NewBuilder(
		txb.WithProtocolParameters(pp),
		txb.WithNetworkID(networkID),
		txb.WithChangeAddress(change),
		txb.WithAvailableUTxOs(utxos),
		txb.WithProvider(provider),
	)

	b.SendValue(dest, txb.NewCoinValue(lovelace), nil, nil)

	tx, err := b.Build(ctx)
	if err != nil {
		return fmt.Errorf("build transaction: %w", err)
	}

	encoded, err := tx.MarshalCBOR()
	if err != nil {
		return fmt.Errorf("encode transaction: %w", err)
	}

	fmt.Fprintln(os.Stdout, hex.EncodeToString(encoded))
	return nil
}
