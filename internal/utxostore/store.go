// Package utxostore is the cached Postgres-backed UTxO lookup layer
// SPEC_FULL.md §5.2 adds on top of the bare txbuilder API: a builder
// running against a large wallet benefits from caching address -> UTxO set
// lookups rather than re-querying a node on every build. Grounded on
// HeliosLang-iris's src/backend/db.go (pgxpool connection management,
// address_utxos query shape), generalized from its UTXO row type into
// txbuilder.UTxO values and from a single raw-SQL query into a small
// read-through cache.
package utxostore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	txb "github.com/irislabs/txbuilder"
)

// cacheTTL bounds how long a resolved address's UTxO set is trusted before
// the next lookup re-queries Postgres.
const cacheTTL = 10 * time.Second

type cacheEntry struct {
	utxos   []txb.UTxO
	cachedAt time.Time
}

// Store is a cached UTxO reader backed by a cardano-db-sync-shaped Postgres
// schema, the same connection string convention as HeliosLang-iris's
// NewDB(networkName).
type Store struct {
	pool *pgxpool.Pool

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// New opens a pgxpool connection to the cardano_<networkName> database.
func New(ctx context.Context, networkName string) (*Store, error) {
	pool, err := pgxpool.New(ctx, "user=root host=/var/run/postgresql port=5432 dbname=cardano_"+networkName)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to postgres: %w", err)
	}
	return &Store{pool: pool, cache: make(map[string]cacheEntry)}, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() { s.pool.Close() }

// UTxOsByAddress resolves addr's current UTxO set, reading through a
// short-TTL cache before falling back to Postgres.
func (s *Store) UTxOsByAddress(ctx context.Context, addr string) ([]txb.UTxO, error) {
	if cached, ok := s.fromCache(addr); ok {
		return cached, nil
	}

	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, addressUTxOsQuery, addr)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var utxos []txb.UTxO
	for rows.Next() {
		var (
			txIDHex     string
			outputIndex int32
			lovelace    int64
		)
		if err := rows.Scan(&txIDHex, &outputIndex, &lovelace); err != nil {
			return nil, err
		}
		in, err := parseTxInput(txIDHex, outputIndex)
		if err != nil {
			return nil, err
		}
		utxos = append(utxos, txb.UTxO{
			Input:  in,
			Output: txb.TxOutput{Value: txb.NewCoinValue(uint64(lovelace))},
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	s.toCache(addr, utxos)
	return utxos, nil
}

func parseTxInput(txIDHex string, outputIndex int32) (txb.TxInput, error) {
	hash, err := txb.ParseHash32(txIDHex)
	if err != nil {
		return txb.TxInput{}, err
	}
	return txb.TxInput{TxID: hash, Index: uint32(outputIndex)}, nil
}

func (s *Store) fromCache(addr string) ([]txb.UTxO, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.cache[addr]
	if !ok || time.Since(entry.cachedAt) > cacheTTL {
		return nil, false
	}
	return entry.utxos, true
}

func (s *Store) toCache(addr string, utxos []txb.UTxO) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[addr] = cacheEntry{utxos: utxos, cachedAt: time.Now()}
}

// Invalidate drops addr's cached entry, used after this process itself
// submits a transaction that spends from or pays into addr.
func (s *Store) Invalidate(addr string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cache, addr)
}

// addressUTxOsQuery mirrors the shape of HeliosLang-iris's
// "addresses_address_utxos_pure" prepared query, trimmed to the columns
// this store's cache needs.
const addressUTxOsQuery = `
SELECT encode(tx.hash, 'hex'), tx_out.index, tx_out.value
FROM tx_out
JOIN tx ON tx.id = tx_out.tx_id
WHERE tx_out.address = $1
  AND NOT EXISTS (
    SELECT 1 FROM tx_in
    WHERE tx_in.tx_out_id = tx.id AND tx_in.tx_out_index = tx_out.index
  )
`
