package txbuilder

import "context"

// CoinSelector implements spec.md §4.3/§6's select contract: select(available,
// preSelected, target) -> (selected, change, err). preSelected are UTxOs the
// caller already pinned via AddInput — non-removable, included unconditionally
// by the balancer's own input-set accounting, but passed through so a
// selector can account for them (e.g. toward params.MaxTxInputs). change is
// the unselected remainder of available; the balancer ignores it and
// recomputes its own unselected pool on each iteration. Defined here, not in
// coinselect, so a Builder can
// depend on the interface without importing the concrete selection
// strategies — coinselect.LargestFirst and any caller-supplied Selector
// satisfy this structurally.
type CoinSelector interface {
	Select(available, preSelected []UTxO, target Value, params ProtocolParameters) (selected, change []UTxO, err error)
}

// BuilderConfig holds every option a Builder is constructed with
// (spec.md §4.1's setter family: coin selector, evaluator, network id,
// change/collateral addresses, available/collateral UTxOs, minimum fee
// floor, validity window, additional signer padding).
type BuilderConfig struct {
	CoinSelector    CoinSelector
	TxEvaluator     TxEvaluator
	Provider        Provider
	Hasher          Hasher
	NetworkID       int
	ChangeAddress   Address
	CollateralAddr  Address
	AvailableUTxOs  []UTxO
	CollateralUTxOs []UTxO
	MinimumFee      uint64
	InvalidBefore   *ValidityBound
	InvalidAfter    *ValidityBound
	ExtraSigners    uint
	ProtocolParams  ProtocolParameters
}

// ValidityBound is either an absolute slot number or a Unix timestamp —
// spec.md §6: "invalidAfter / invalidBefore — accept either slot number or
// Unix time; the latter is converted via the provider's network magic."
// Unix-time bounds are resolved to a slot at Build time using the
// configured Provider's genesis parameters.
type ValidityBound struct {
	slot     *uint64
	unixTime *int64
}

// AtSlot builds a ValidityBound from an absolute slot number.
func AtSlot(slot uint64) ValidityBound { return ValidityBound{slot: &slot} }

// AtUnixTime builds a ValidityBound from a Unix timestamp, resolved to a
// slot at Build time via the Builder's configured Provider.
func AtUnixTime(unixTime int64) ValidityBound { return ValidityBound{unixTime: &unixTime} }

// resolve returns v's absolute slot, converting a Unix-time bound via p's
// genesis parameters when needed.
func (v ValidityBound) resolve(ctx context.Context, p Provider) (uint64, error) {
	if v.slot != nil {
		return *v.slot, nil
	}
	if v.unixTime == nil {
		return 0, newErr(ErrIllegalState, "empty validity bound")
	}
	if p == nil {
		return 0, newErr(ErrIllegalState, "a unix-time validity bound requires a configured Provider")
	}
	gp, err := p.GetGenesisParameters(ctx)
	if err != nil {
		return 0, err
	}
	return SlotFromUnixTime(gp, *v.unixTime), nil
}

// Option mutates a BuilderConfig being assembled by NewBuilder.
type Option func(*BuilderConfig)

// WithCoinSelector overrides the default largest-first selector.
func WithCoinSelector(s CoinSelector) Option {
	return func(c *BuilderConfig) { c.CoinSelector = s }
}

// WithTxEvaluator supplies the Plutus script evaluator.
func WithTxEvaluator(e TxEvaluator) Option {
	return func(c *BuilderConfig) { c.TxEvaluator = e }
}

// WithProvider supplies the network collaborator used as the default
// TxEvaluator ("adapter over the provider's evaluator", spec.md §6) when
// WithTxEvaluator is not set, and to resolve Unix-time validity bounds.
func WithProvider(p Provider) Option {
	return func(c *BuilderConfig) { c.Provider = p }
}

// WithHasher overrides the default BLAKE2b Hasher.
func WithHasher(h Hasher) Option {
	return func(c *BuilderConfig) { c.Hasher = h }
}

// WithNetworkID sets the network tag (0 testnet, 1 mainnet). Build records
// a non-zero tag in the body's network-id field; 0 leaves the field absent.
func WithNetworkID(id int) Option {
	return func(c *BuilderConfig) { c.NetworkID = id }
}

// WithChangeAddress sets where unconsumed input value is returned.
func WithChangeAddress(addr Address) Option {
	return func(c *BuilderConfig) { c.ChangeAddress = addr }
}

// WithCollateralAddress sets where collateral change is returned.
func WithCollateralAddress(addr Address) Option {
	return func(c *BuilderConfig) { c.CollateralAddr = addr }
}

// WithAvailableUTxOs supplies the UTxO pool the coin selector draws from.
// Each UTxO is cloned on entry (spec.md §3 Data Ownership Model).
func WithAvailableUTxOs(utxos []UTxO) Option {
	return func(c *BuilderConfig) { c.AvailableUTxOs = cloneUTxOs(utxos) }
}

// WithCollateralUTxOs supplies pure-ADA UTxOs eligible as collateral inputs.
func WithCollateralUTxOs(utxos []UTxO) Option {
	return func(c *BuilderConfig) { c.CollateralUTxOs = cloneUTxOs(utxos) }
}

// WithMinimumFee floors the computed fee, used when a caller wants to pad
// for a signature count the builder cannot see yet.
func WithMinimumFee(fee uint64) Option {
	return func(c *BuilderConfig) { c.MinimumFee = fee }
}

// WithValidityInterval sets the body's validity-start and ttl bounds. Pass
// AtSlot or AtUnixTime; either may be nil to leave that bound unset.
func WithValidityInterval(before, after *ValidityBound) Option {
	return func(c *BuilderConfig) {
		c.InvalidBefore = before
		c.InvalidAfter = after
	}
}

// WithAdditionalSignatureCount pads the fee estimate for extraSigners
// vkey-witnesses the builder itself will never see added (e.g. a
// multi-signature native script's other cosigners).
func WithAdditionalSignatureCount(extraSigners uint) Option {
	return func(c *BuilderConfig) { c.ExtraSigners = extraSigners }
}

// WithProtocolParameters sets the protocol parameters snapshot the fee
// calculator and balancer use.
func WithProtocolParameters(pp ProtocolParameters) Option {
	return func(c *BuilderConfig) { c.ProtocolParams = pp }
}

func defaultConfig() BuilderConfig {
	return BuilderConfig{
		Hasher:       DefaultHasher(),
		CoinSelector: defaultLargestFirstSelector{},
	}
}
