package coinselect

import (
	"fmt"
	"sync"
	"time"

	txb "github.com/irislabs/txbuilder"
)

// ReservationTable locks UTxOs out of selection for a bounded TTL, so two
// builders racing against the same wallet's UTxO set don't both pick the
// same input before either submits. Grounded directly on
// HeliosLang-iris's src/backend/coinselector.go CoinSelector (mutex-guarded
// map of key -> expiry, pruned lazily on read), generalized from that
// file's mempool-UTxO bookkeeping to this package's UTxO/TxInput types.
type ReservationTable struct {
	mu     sync.Mutex
	locked map[string]time.Time
}

// NewReservationTable returns an empty table.
func NewReservationTable() *ReservationTable {
	return &ReservationTable{locked: make(map[string]time.Time)}
}

func utxoKey(in txb.TxInput) string {
	return fmt.Sprintf("%s#%d", in.TxID.String(), in.Index)
}

func (t *ReservationTable) pruneExpired(now time.Time) {
	for k, exp := range t.locked {
		if now.After(exp) {
			delete(t.locked, k)
		}
	}
}

// IsReserved reports whether in is currently locked by another reservation.
func (t *ReservationTable) IsReserved(in txb.TxInput) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.pruneExpired(now)
	exp, ok := t.locked[utxoKey(in)]
	return ok && now.Before(exp)
}

// Reserve locks in for ttl, so subsequent Filter calls from other builders
// exclude it until the lock expires.
func (t *ReservationTable) Reserve(in txb.TxInput, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.locked[utxoKey(in)] = time.Now().Add(ttl)
}

// Release removes in's reservation early, once its holder either submits or
// abandons the transaction that consumed it.
func (t *ReservationTable) Release(in txb.TxInput) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.locked, utxoKey(in))
}

// Filter returns the subset of available not currently reserved by anyone
// else — the set a Selector should actually choose from in a concurrent
// setting.
func (t *ReservationTable) Filter(available []txb.UTxO) []txb.UTxO {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := time.Now()
	t.pruneExpired(now)

	out := make([]txb.UTxO, 0, len(available))
	for _, u := range available {
		exp, locked := t.locked[utxoKey(u.Input)]
		if locked && now.Before(exp) {
			continue
		}
		out = append(out, u)
	}
	return out
}

// ReserveAll locks every input in selected, used after a successful Select
// call so the just-chosen UTxOs are excluded from the next builder's pool
// until this transaction is submitted or abandoned.
func (t *ReservationTable) ReserveAll(selected []txb.UTxO, ttl time.Duration) {
	for _, u := range selected {
		t.Reserve(u.Input, ttl)
	}
}
