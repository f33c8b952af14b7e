package repositories

import "context"

// Repositories bundles every repository port. A bundle is either bound to
// the shared pool (reads) or to one database transaction (all writes).
type Repositories struct {
	Chart  ChartRepository
	Draft  DraftRepository
	Ledger LedgerRepository
	Price  PriceRepository
	Audit  AuditRepository
	Report ReportRepository
	Source SourceRepository
}

// TxManager runs a function inside a single database transaction. Every
// repository in the bundle passed to fn shares that transaction; any error
// rolls back all writes performed so far in the call.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
