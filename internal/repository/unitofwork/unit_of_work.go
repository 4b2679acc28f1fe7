package unitofwork

import (
	"context"

	"shopflow-be/internal/repository"
	"shopflow-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	OrderRepository() contract.OrderRepository
	NotificationRepository() repository.NotificationRepository
}
