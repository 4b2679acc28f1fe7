package service

import (
	"context"

	"shopflow-be/internal/dto"
	"shopflow-be/internal/entity"
	"shopflow-be/internal/mapper"
	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/repository/specification"
	"shopflow-be/internal/repository/unitofwork"
	"shopflow-be/pkg/cache"
	"shopflow-be/pkg/returns"

	"github.com/google/uuid"
)

type IOrderService interface {
	GetOrder(ctx context.Context, orderId uuid.UUID) (*dto.OrderResponse, error)
	ListOrders(ctx context.Context, query *dto.ListOrdersQuery) (*dto.OrderListResponse, error)
	ListReturnQueue(ctx context.Context, page, limit int) (*dto.OrderListResponse, error)
}

type orderService struct {
	uowFactory unitofwork.RepositoryFactory
	orderCache *cache.OrderCache
	logger     logger.ILogger
}

func NewOrderService(uowFactory unitofwork.RepositoryFactory, orderCache *cache.OrderCache, log logger.ILogger) IOrderService {
	return &orderService{
		uowFactory: uowFactory,
		orderCache: orderCache,
		logger:     log,
	}
}

func (s *orderService) GetOrder(ctx context.Context, orderId uuid.UUID) (*dto.OrderResponse, error) {
	if order, ok := s.orderCache.Get(ctx, orderId); ok {
		resp := mapper.ToOrderResponse(order)
		return &resp, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	s.orderCache.Set(ctx, order)

	resp := mapper.ToOrderResponse(order)
	return &resp, nil
}

func (s *orderService) ListOrders(ctx context.Context, query *dto.ListOrdersQuery) (*dto.OrderListResponse, error) {
	specs := []specification.Specification{}
	if query.CustomerId != uuid.Nil {
		specs = append(specs, specification.ByCustomer{CustomerId: query.CustomerId})
	}
	if query.Status != "" {
		specs = append(specs, specification.ByStatus{Status: entity.OrderStatus(query.Status)})
	}

	return s.list(ctx, specs, query.Page, query.Limit)
}

// ListReturnQueue lists orders currently inside the return flow, newest
// first, for the CS and warehouse dashboards.
func (s *orderService) ListReturnQueue(ctx context.Context, page, limit int) (*dto.OrderListResponse, error) {
	specs := []specification.Specification{
		specification.StatusIn{Statuses: []entity.OrderStatus{
			entity.OrderStatusReturnRequested,
			entity.OrderStatusReturnCsConfirmed,
			entity.OrderStatusReturnStaffConfirmed,
			entity.OrderStatusReturnRejected,
		}},
	}

	return s.list(ctx, specs, page, limit)
}

func (s *orderService) list(ctx context.Context, specs []specification.Specification, page, limit int) (*dto.OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.OrderRepository()

	total, err := repo.Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	pagedSpecs := append(specs,
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)
	orders, err := repo.FindAllWithItems(ctx, pagedSpecs...)
	if err != nil {
		return nil, err
	}

	resp := &dto.OrderListResponse{
		Orders: make([]dto.OrderResponse, 0, len(orders)),
		Total:  total,
		Page:   page,
		Limit:  limit,
	}
	for _, order := range orders {
		resp.Orders = append(resp.Orders, mapper.ToOrderResponse(order))
	}

	return resp, nil
}
