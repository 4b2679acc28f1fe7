package unitofwork

import "context"

// RepositoryFactory creates a fresh unit of work per request so each
// workflow transition runs in its own transaction.
type RepositoryFactory interface {
	NewUnitOfWork(ctx context.Context) UnitOfWork
}
