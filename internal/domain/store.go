package domain

// Store bundles the three repositories behind a single persistence
// gateway and scopes multi-write operations into one durable
// transaction. Engines receive a Store by injection so tests can swap
// in an in-memory fake.
type Store interface {
	Clients() ClientRepository
	Accounts() AccountRepository
	Transactions() TransactionRepository

	// WithTransaction runs fn against a Store whose writes all commit
	// or all roll back together.
	WithTransaction(fn func(Store) error) error
}
