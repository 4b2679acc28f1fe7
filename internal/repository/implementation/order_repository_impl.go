package implementation

import (
	"context"

	"shopflow-be/internal/entity"
	"shopflow-be/internal/repository/contract"
	"shopflow-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRepositoryImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) contract.OrderRepository {
	return &orderRepositoryImpl{db: db}
}

func (r *orderRepositoryImpl) Create(ctx context.Context, order *entity.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx), specs)
}

func (r *orderRepositoryImpl) FindOneWithItems(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return r.findOne(ctx, r.db.WithContext(ctx).Preload("Items"), specs)
}

func (r *orderRepositoryImpl) findOne(ctx context.Context, query *gorm.DB, specs []specification.Specification) (*entity.Order, error) {
	var order entity.Order
	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

func (r *orderRepositoryImpl) FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	var orders []*entity.Order
	query := r.db.WithContext(ctx).Preload("Items")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Order{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	err := query.Count(&count).Error
	return count, err
}

// UpdateGuarded is the single write path of the return workflow. The version
// predicate plus RowsAffected check gives optimistic concurrency without
// row locks.
func (r *orderRepositoryImpl) UpdateGuarded(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (bool, error) {
	fields["version"] = expectedVersion + 1

	result := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("id = ? AND version = ?", id, expectedVersion).
		Updates(fields)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (r *orderRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&entity.Order{}, id).Error
}
