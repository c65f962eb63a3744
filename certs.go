package txbuilder

// Certificate constructors build the Deposit/Reclaim bookkeeping the
// balancer's implicit-coin step needs (spec.md §4.5 Step 1), without
// validating certificate semantics — which chain rules a registration or
// retirement must satisfy is explicitly out of scope (spec.md §1
// Non-goals: "ledger-rule validation of certificates").

// NewStakeRegistrationCert records raw as a stake-registration certificate
// that locks deposit lovelace.
func NewStakeRegistrationCert(raw []byte, deposit uint64) Certificate {
	return Certificate{Kind: CertStakeRegistration, Raw: raw, Deposit: deposit}
}

// NewStakeDeregistrationCert records raw as a stake-deregistration
// certificate that returns reclaim lovelace.
func NewStakeDeregistrationCert(raw []byte, reclaim uint64) Certificate {
	return Certificate{Kind: CertStakeDeregistration, Raw: raw, Reclaim: reclaim}
}

// NewDRepRegistrationCert records raw as a DRep registration certificate
// that locks deposit lovelace.
func NewDRepRegistrationCert(raw []byte, deposit uint64) Certificate {
	return Certificate{Kind: CertDRepRegistration, Raw: raw, Deposit: deposit}
}

// NewDRepDeregistrationCert records raw as a DRep deregistration
// certificate that returns reclaim lovelace.
func NewDRepDeregistrationCert(raw []byte, reclaim uint64) Certificate {
	return Certificate{Kind: CertDRepDeregistration, Raw: raw, Reclaim: reclaim}
}

// NewOpaqueCert wraps any other certificate kind (pool registration,
// retirement, etc.) as a pass-through with no deposit bookkeeping, since
// pool deposits are returned to the operator rather than the tx balance in
// practice and are not modeled here.
func NewOpaqueCert(raw []byte) Certificate {
	return Certificate{Kind: CertOther, Raw: raw}
}

// netCertificateDeposit sums Deposit minus Reclaim across certs, the
// quantity the balancer adds to the implicit coin requirement
// (spec.md §4.5 Step 1: "certificates' net deposits").
func netCertificateDeposit(certs []Certificate) int64 {
	var net int64
	for _, c := range certs {
		net += int64(c.Deposit) - int64(c.Reclaim)
	}
	return net
}

// netWithdrawalCoin sums every withdrawal's coin, contributing to the
// balancer's implicit coin on the supply side (spec.md §4.5 Step 1:
// "withdrawals add to the implicit input coin").
func netWithdrawalCoin(ws []Withdrawal) uint64 {
	var total uint64
	for _, w := range ws {
		total += w.Coin
	}
	return total
}

// proposalDepositTotal sums every proposal procedure's deposit, which locks
// coin the same way a certificate deposit does.
func proposalDepositTotal(ps []ProposalProcedure) uint64 {
	var total uint64
	for _, p := range ps {
		total += p.Deposit
	}
	return total
}

// VotingProcedures and ProposalProcedures themselves carry no deposit/fee
// effect beyond what proposalDepositTotal already accounts for — casting a
// vote is free. Their mutators on Builder (builder.go),
// AddVotingProcedure/AddProposalProcedure, do not append anything: they
// fail the builder with ErrNotImplemented. No further bookkeeping is
// needed here.
