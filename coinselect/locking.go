package coinselect

import (
	"time"

	txb "github.com/irislabs/txbuilder"
)

// lockingSelector decorates an inner Selector with a ReservationTable: it
// filters available down to the unreserved subset before delegating, then
// reserves everything the inner selector picked so a concurrent builder
// drawing from the same pool won't also pick it before either submits.
// Grounded on the same HeliosLang-iris src/backend/coinselector.go
// reserve-then-select pattern ReservationTable itself is grounded on.
type lockingSelector struct {
	inner Selector
	table *ReservationTable
	ttl   time.Duration
}

// NewLockingSelector wraps inner with table, reserving every UTxO inner
// selects for ttl on success. Pass this to txbuilder.WithCoinSelector to
// make a Builder safe to run concurrently against a shared UTxO pool.
func NewLockingSelector(inner Selector, table *ReservationTable, ttl time.Duration) Selector {
	return &lockingSelector{inner: inner, table: table, ttl: ttl}
}

func (s *lockingSelector) Select(available, preSelected []txb.UTxO, target txb.Value, params txb.ProtocolParameters) ([]txb.UTxO, []txb.UTxO, error) {
	unreserved := s.table.Filter(available)
	selected, change, err := s.inner.Select(unreserved, preSelected, target, params)
	if err != nil {
		return nil, nil, err
	}
	s.table.ReserveAll(selected, s.ttl)
	return selected, change, nil
}
