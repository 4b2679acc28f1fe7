package contract

import (
	"context"

	"shopflow-be/internal/entity"
	"shopflow-be/internal/repository/specification"

	"github.com/google/uuid"
)

type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindOneWithItems(ctx context.Context, specs ...specification.Specification) (*entity.Order, error)
	FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// UpdateGuarded writes the given columns only if the row still carries
	// expectedVersion, bumping the version in the same statement. Returns
	// false when the row moved on concurrently.
	UpdateGuarded(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (bool, error)

	Delete(ctx context.Context, id uuid.UUID) error
}
