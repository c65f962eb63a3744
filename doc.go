// Package txbuilder assembles, balances, and canonically serializes Cardano
// transactions.
//
// A Builder accumulates user intent (inputs, outputs, mints, certificates,
// metadata) into an owned Transaction, then a Balancer drives a fixpoint
// loop that performs coin selection, change-output attachment, collateral
// selection, script-data hashing, and fee computation until the
// transaction is internally consistent. All change goes to one output at
// the change address; change is not split across several outputs. Hashing, signing, address parsing,
// the UTxO provider, and Plutus script evaluation are external
// collaborators reached through small interfaces (Hasher, Address,
// Provider, CoinSelector, TxEvaluator); this package never performs
// network I/O or transaction submission itself.
package txbuilder
