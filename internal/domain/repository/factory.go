package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Principals() PrincipalRepository
	Globals() GlobalRepository
	Ledgers() LedgerRepository
	Vault() VaultRepository
	Activities() ActivityRepository
	Payouts() PayoutRepository
}
