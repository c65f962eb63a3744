package txbuilder

import (
	"bytes"
	"math/big"
	"sort"
)

// MultiAsset is policy-id -> asset-name -> signed quantity, matching
// spec.md §3. Quantities are *big.Int so mint deltas (signed) and extreme
// on-chain token supplies share one representation. Normalization removes
// zero-quantity leaves and elides empty inner maps, per the invariant in
// spec.md §3 ("no zero-quantity leaf entries after normalization").
//
// Grounded on other_examples' apollo-on-gouroboros helpers.go Value/
// MultiAsset helpers (Add/Sub/CloneMultiAsset/SubMultiAsset) and on
// HeliosLang-iris's cbor.go EncodeAssets, which both model assets as a
// policy->name->quantity nesting and require canonical-sorted output.
type MultiAsset struct {
	policies map[Hash28]map[string]*big.Int
}

// NewMultiAsset returns an empty MultiAsset.
func NewMultiAsset() *MultiAsset {
	return &MultiAsset{policies: make(map[Hash28]map[string]*big.Int)}
}

// Set assigns qty for (policy, assetName), removing the leaf if qty is zero.
func (m *MultiAsset) Set(policy Hash28, assetName string, qty *big.Int) {
	if qty.Sign() == 0 {
		if inner, ok := m.policies[policy]; ok {
			delete(inner, assetName)
			if len(inner) == 0 {
				delete(m.policies, policy)
			}
		}
		return
	}
	inner, ok := m.policies[policy]
	if !ok {
		inner = make(map[string]*big.Int)
		m.policies[policy] = inner
	}
	inner[assetName] = new(big.Int).Set(qty)
}

// Add accumulates delta onto the existing quantity for (policy, assetName).
func (m *MultiAsset) Add(policy Hash28, assetName string, delta *big.Int) {
	cur := m.Get(policy, assetName)
	m.Set(policy, assetName, new(big.Int).Add(cur, delta))
}

// Get returns the quantity for (policy, assetName), or zero if absent.
func (m *MultiAsset) Get(policy Hash28, assetName string) *big.Int {
	if m == nil {
		return big.NewInt(0)
	}
	if inner, ok := m.policies[policy]; ok {
		if v, ok := inner[assetName]; ok {
			return new(big.Int).Set(v)
		}
	}
	return big.NewInt(0)
}

// IsEmpty reports whether the asset bag carries no non-zero entries.
func (m *MultiAsset) IsEmpty() bool {
	return m == nil || len(m.policies) == 0
}

// Clone returns a deep copy, used by the builder's clone-on-store rule
// (clone.go) whenever a caller hands the builder a Value it still owns.
func (m *MultiAsset) Clone() *MultiAsset {
	out := NewMultiAsset()
	if m == nil {
		return out
	}
	for policy, inner := range m.policies {
		innerCopy := make(map[string]*big.Int, len(inner))
		for name, qty := range inner {
			innerCopy[name] = new(big.Int).Set(qty)
		}
		out.policies[policy] = innerCopy
	}
	return out
}

// Merge adds other's quantities into m in place.
func (m *MultiAsset) Merge(other *MultiAsset) {
	if other == nil {
		return
	}
	for _, policy := range other.SortedPolicies() {
		for _, name := range other.SortedAssets(policy) {
			m.Add(policy, name, other.Get(policy, name))
		}
	}
}

// Negate returns a new MultiAsset with every quantity negated, used to turn
// a burn into a subtraction via Merge.
func (m *MultiAsset) Negate() *MultiAsset {
	out := NewMultiAsset()
	if m == nil {
		return out
	}
	for policy, inner := range m.policies {
		for name, qty := range inner {
			out.Set(policy, name, new(big.Int).Neg(qty))
		}
	}
	return out
}

// SortedPolicies returns policy ids in canonical lexicographic byte order
// (spec.md §3, §6: "multi-asset by (policy-id bytes, asset-name bytes)").
func (m *MultiAsset) SortedPolicies() []Hash28 {
	if m == nil {
		return nil
	}
	out := make([]Hash28, 0, len(m.policies))
	for p := range m.policies {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare(out[i].Bytes(), out[j].Bytes()) < 0
	})
	return out
}

// SortedAssets returns the asset names under policy in canonical byte order.
func (m *MultiAsset) SortedAssets(policy Hash28) []string {
	if m == nil {
		return nil
	}
	inner, ok := m.policies[policy]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(inner))
	for name := range inner {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return bytes.Compare([]byte(out[i]), []byte(out[j])) < 0
	})
	return out
}

// GreaterOrEqual reports whether m covers at least as much of every asset
// in other (extra assets in m are allowed), mirroring Value.GreaterOrEqual
// in other_examples' apollo-on-gouroboros helpers.go.
func (m *MultiAsset) GreaterOrEqual(other *MultiAsset) bool {
	if other.IsEmpty() {
		return true
	}
	for _, policy := range other.SortedPolicies() {
		for _, name := range other.SortedAssets(policy) {
			if m.Get(policy, name).Cmp(other.Get(policy, name)) < 0 {
				return false
			}
		}
	}
	return true
}

// Value is (coin, multi-asset) per spec.md §3.
type Value struct {
	Coin   uint64
	Assets *MultiAsset
}

// NewValue builds a Value with optional assets.
func NewValue(coin uint64, assets *MultiAsset) Value {
	return Value{Coin: coin, Assets: assets}
}

// NewCoinValue builds a lovelace-only Value.
func NewCoinValue(coin uint64) Value {
	return Value{Coin: coin}
}

// HasAssets reports whether v carries any native assets.
func (v Value) HasAssets() bool {
	return !v.Assets.IsEmpty()
}

// Clone deep-copies v, honoring the ownership model in spec.md §3.
func (v Value) Clone() Value {
	if v.Assets == nil {
		return Value{Coin: v.Coin}
	}
	return Value{Coin: v.Coin, Assets: v.Assets.Clone()}
}

// Add returns v + other, erroring on coin overflow.
func (v Value) Add(other Value) (Value, error) {
	sum := v.Coin + other.Coin
	if sum < v.Coin {
		return Value{}, newErr(ErrInvalidCborValue, "coin overflow adding %d + %d", v.Coin, other.Coin)
	}
	result := Value{Coin: sum}
	if v.Assets != nil || other.Assets != nil {
		result.Assets = v.Assets.Clone()
		result.Assets.Merge(other.Assets)
	}
	return result, nil
}

// Sub returns v - other, erroring on coin underflow.
func (v Value) Sub(other Value) (Value, error) {
	if other.Coin > v.Coin {
		return Value{}, newErr(ErrInvalidCborValue, "coin underflow subtracting %d - %d", v.Coin, other.Coin)
	}
	result := Value{Coin: v.Coin - other.Coin}
	if v.Assets != nil || other.Assets != nil {
		result.Assets = v.Assets.Clone()
		result.Assets.Merge(other.Assets.Negate())
	}
	return result, nil
}

// GreaterOrEqual reports whether v can cover other's coin and every asset.
func (v Value) GreaterOrEqual(other Value) bool {
	if v.Coin < other.Coin {
		return false
	}
	return v.Assets.GreaterOrEqual(other.Assets)
}

// SumValues folds Add across vs, starting from the zero Value.
func SumValues(vs ...Value) (Value, error) {
	total := Value{}
	for _, v := range vs {
		var err error
		total, err = total.Add(v)
		if err != nil {
			return Value{}, err
		}
	}
	return total, nil
}
