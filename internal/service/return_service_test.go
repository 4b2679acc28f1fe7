package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"shopflow-be/internal/dto"
	"shopflow-be/internal/entity"
	"shopflow-be/internal/model"
	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/repository"
	"shopflow-be/internal/repository/contract"
	"shopflow-be/internal/repository/specification"
	"shopflow-be/internal/repository/unitofwork"
	"shopflow-be/pkg/cache"
	"shopflow-be/pkg/orderevents"
	"shopflow-be/pkg/returns"
	"shopflow-be/pkg/shipping"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory fakes ---

type fakeOrderRepo struct {
	order *entity.Order
	// last guarded write, inspected by the tests
	lastFields map[string]interface{}
	// force the version guard to lose the race
	conflict bool
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *entity.Order) error {
	r.order = order
	return nil
}

func (r *fakeOrderRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return r.order, nil
}

func (r *fakeOrderRepo) FindOneWithItems(ctx context.Context, specs ...specification.Specification) (*entity.Order, error) {
	return r.order, nil
}

func (r *fakeOrderRepo) FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Order, error) {
	if r.order == nil {
		return nil, nil
	}
	return []*entity.Order{r.order}, nil
}

func (r *fakeOrderRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	if r.order == nil {
		return 0, nil
	}
	return 1, nil
}

func (r *fakeOrderRepo) UpdateGuarded(ctx context.Context, id uuid.UUID, expectedVersion int, fields map[string]interface{}) (bool, error) {
	if r.conflict || r.order == nil || r.order.Version != expectedVersion {
		return false, nil
	}
	r.lastFields = fields
	r.order.Version = expectedVersion + 1
	if status, ok := fields["status"].(entity.OrderStatus); ok {
		r.order.Status = status
	}
	return true, nil
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.order = nil
	return nil
}

type fakeNotifRepo struct{}

func (fakeNotifRepo) CreateNotification(ctx context.Context, n *model.Notification) error {
	return nil
}
func (fakeNotifRepo) GetNotificationsByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]model.Notification, int64, error) {
	return nil, 0, nil
}
func (fakeNotifRepo) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	return 0, nil
}
func (fakeNotifRepo) MarkAsRead(ctx context.Context, notificationID uuid.UUID) error  { return nil }
func (fakeNotifRepo) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error       { return nil }

type fakeUow struct {
	orders *fakeOrderRepo
}

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }
func (u *fakeUow) OrderRepository() contract.OrderRepository {
	return u.orders
}
func (u *fakeUow) NotificationRepository() repository.NotificationRepository {
	return fakeNotifRepo{}
}

type fakeFactory struct {
	uow *fakeUow
}

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

var errBusDown = errors.New("event bus down")

// failingEvents refuses every publish, standing in for a broker outage.
type failingEvents struct{}

func (failingEvents) PublishReturnRequested(ctx context.Context, orderId, customerId uuid.UUID, code string, proposedAmount int64) error {
	return errBusDown
}
func (failingEvents) PublishReturnCsConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string) error {
	return errBusDown
}
func (failingEvents) PublishReturnRejected(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error {
	return errBusDown
}
func (failingEvents) PublishReturnStaffConfirmed(ctx context.Context, orderId, customerId uuid.UUID, code string, confirmedAmount int64) error {
	return errBusDown
}
func (failingEvents) PublishRefundCompleted(ctx context.Context, orderId, customerId uuid.UUID, code string, amount int64) error {
	return errBusDown
}
func (failingEvents) PublishOrderCancelled(ctx context.Context, orderId, customerId uuid.UUID, code, reason, source string) error {
	return errBusDown
}

type fakeEmail struct{}

func (fakeEmail) SendReturnStatusUpdate(toEmail, orderCode, statusLabel, detail string) error {
	return nil
}
func (fakeEmail) SendRefundCompleted(toEmail, orderCode string, amount int64) error {
	return nil
}

// --- setup helpers ---

func newTestService(t *testing.T, order *entity.Order) (IReturnService, *fakeOrderRepo) {
	t.Helper()

	repo := &fakeOrderRepo{order: order}
	factory := &fakeFactory{uow: &fakeUow{orders: repo}}
	log := logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)

	svc := NewReturnService(
		factory,
		orderevents.NewNatsPublisher(nil, log),
		NewMailDispatcher(fakeEmail{}, log),
		shipping.NewZoneEstimator(),
		cache.NewOrderCache(nil),
		log,
	)
	return svc, repo
}

func deliveredOrder() *entity.Order {
	productId := uuid.New()
	return &entity.Order{
		Id:          uuid.New(),
		Code:        "SF-2001",
		CustomerId:  uuid.New(),
		Status:      entity.OrderStatusDelivered,
		TotalAmount: 500000,
		ShippingFee: 30000,
		Version:     1,
		Items: []entity.OrderItem{
			{Id: uuid.New(), ProductId: productId, Name: "Áo khoác", UnitPrice: 235000, Quantity: 2},
		},
	}
}

func validSubmitRequest() *dto.RequestReturnRequest {
	return &dto.RequestReturnRequest{
		ReasonType:    entity.RefundReasonCustomer,
		Description:   "Sản phẩm không vừa ý, muốn trả lại",
		Email:         "khach@example.com",
		ReturnAddress: "12 Nguyễn Huệ, Quận 1",
		RefundMethod:  "bank",
		Bank:          "VCB",
		AccountNumber: "0071000123456",
		AccountHolder: "NGUYEN VAN A",
		MediaUrls:     []string{"https://cdn.example.com/r/1.jpg"},
		ProvinceCode:  "SG",
	}
}

// --- tests ---

func TestSubmitReturnRequest(t *testing.T) {
	t.Run("happy path from DELIVERED", func(t *testing.T) {
		svc, repo := newTestService(t, deliveredOrder())

		res, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, validSubmitRequest())
		require.NoError(t, err)

		assert.Equal(t, string(entity.OrderStatusReturnRequested), res.Status)
		assert.Equal(t, entity.OrderStatusReturnRequested, repo.order.Status)
		assert.Equal(t, 2, repo.order.Version)

		// penalty is 10% of the 470000 item value
		assert.Equal(t, int64(47000), repo.lastFields["refund_penalty_amount"])
		// 500000 paid - 18000 estimated return shipping (SG zone) - 47000 penalty
		assert.Equal(t, int64(435000), res.ProposedAmount)
		assert.Equal(t, res.ProposedAmount, repo.lastFields["refund_amount"])
		assert.Empty(t, res.Warnings)
	})

	t.Run("another customer's order looks absent", func(t *testing.T) {
		svc, repo := newTestService(t, deliveredOrder())

		_, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, uuid.New(), validSubmitRequest())

		var nErr *returns.NotFoundError
		require.ErrorAs(t, err, &nErr)
		// nothing moved
		assert.Equal(t, entity.OrderStatusDelivered, repo.order.Status)
		assert.Equal(t, 1, repo.order.Version)
	})

	t.Run("store fault has no penalty", func(t *testing.T) {
		svc, repo := newTestService(t, deliveredOrder())

		req := validSubmitRequest()
		req.ReasonType = entity.RefundReasonStore

		res, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, req)
		require.NoError(t, err)

		// store fault: paid total plus the advanced return shipping, no penalty
		assert.Equal(t, int64(0), repo.lastFields["refund_penalty_amount"])
		assert.Equal(t, int64(518000), res.ProposedAmount)
	})

	t.Run("missing evidence and bank details", func(t *testing.T) {
		svc, repo := newTestService(t, deliveredOrder())

		req := validSubmitRequest()
		req.MediaUrls = nil
		req.Bank = ""

		_, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, req)

		var vErr *returns.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Contains(t, vErr.Fields, "media_urls")
		assert.Contains(t, vErr.Fields, "bank")
		// no partial write happened
		assert.Equal(t, entity.OrderStatusDelivered, repo.order.Status)
	})

	t.Run("illegal from SHIPPED", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusShipped
		svc, repo := newTestService(t, order)

		_, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, validSubmitRequest())

		var sErr *returns.StateError
		require.ErrorAs(t, err, &sErr)
		assert.Equal(t, entity.OrderStatusShipped, sErr.Current)
	})

	t.Run("resubmission after rejection clears inspection", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnRejected
		order.StaffInspectionResult = "Hàng có vết xước, lỗi khách hàng"
		order.RefundRejectionReason = "Ảnh không rõ"
		order.RefundRejectionSource = entity.RejectionSourceCS
		svc, repo := newTestService(t, order)

		res, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, validSubmitRequest())
		require.NoError(t, err)

		assert.Equal(t, string(entity.OrderStatusReturnRequested), res.Status)
		assert.Equal(t, "", repo.lastFields["staff_inspection_result"])
		assert.Nil(t, repo.lastFields["refund_confirmed_amount"])
		// rejection audit is not part of the write, so it survives
		_, touched := repo.lastFields["refund_rejection_reason"]
		assert.False(t, touched)
	})

	t.Run("version race yields conflict", func(t *testing.T) {
		svc, repo := newTestService(t, deliveredOrder())
		repo.conflict = true

		_, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, validSubmitRequest())

		var cErr *returns.ConflictError
		require.ErrorAs(t, err, &cErr)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc, _ := newTestService(t, nil)

		_, err := svc.SubmitReturnRequest(context.Background(), uuid.New(), uuid.New(), validSubmitRequest())

		var nErr *returns.NotFoundError
		require.ErrorAs(t, err, &nErr)
	})
}

func TestCsConfirm(t *testing.T) {
	order := deliveredOrder()
	order.Status = entity.OrderStatusReturnRequested
	svc, repo := newTestService(t, order)

	res, err := svc.CsConfirm(context.Background(), repo.order.Id, &dto.CsConfirmRequest{Note: "đã gọi xác nhận"})
	require.NoError(t, err)

	assert.Equal(t, string(entity.OrderStatusReturnCsConfirmed), res.Status)
	assert.Equal(t, "đã gọi xác nhận", repo.lastFields["cs_note"])
}

func TestReject(t *testing.T) {
	t.Run("from requested", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnRequested
		svc, repo := newTestService(t, order)

		res, err := svc.Reject(context.Background(), repo.order.Id, &dto.RejectRefundRequest{
			Reason: "Ảnh chụp không rõ",
			Source: entity.RejectionSourceCS,
		})
		require.NoError(t, err)

		assert.Equal(t, string(entity.OrderStatusReturnRejected), res.Status)
		assert.Equal(t, "Ảnh chụp không rõ", repo.lastFields["refund_rejection_reason"])
		assert.Equal(t, entity.RejectionSourceCS, repo.lastFields["refund_rejection_source"])
	})

	t.Run("blank reason refused", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnRequested
		svc, repo := newTestService(t, order)

		_, err := svc.Reject(context.Background(), repo.order.Id, &dto.RejectRefundRequest{Reason: "   "})

		var vErr *returns.ValidationError
		require.ErrorAs(t, err, &vErr)
	})
}

func TestStaffInspect(t *testing.T) {
	order := deliveredOrder()
	order.Status = entity.OrderStatusReturnCsConfirmed
	reason := entity.RefundReasonStore
	totalPaid := int64(530000)
	order.RefundReasonType = &reason
	order.RefundTotalPaid = &totalPaid
	svc, repo := newTestService(t, order)

	// the verdict overrides the customer's store-fault claim
	res, err := svc.StaffInspect(context.Background(), repo.order.Id, &dto.StaffInspectRequest{
		Verdict: "Hàng nguyên vẹn, lỗi khách hàng đặt nhầm",
	})
	require.NoError(t, err)

	assert.Equal(t, string(entity.OrderStatusReturnStaffConfirmed), res.Status)
	require.NotNil(t, res.Amount)
	// voucher-reconciled product value 500000, penalty 50000, shipping
	// fallback 30000: 530000 - 30000 - 50000
	assert.Equal(t, int64(450000), *res.Amount)
	assert.Equal(t, int64(450000), repo.lastFields["refund_confirmed_amount"])
}

func TestAdminConfirmRefund(t *testing.T) {
	t.Run("uses staff-confirmed amount", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnStaffConfirmed
		confirmed := int64(525000)
		order.RefundConfirmedAmount = &confirmed
		svc, repo := newTestService(t, order)

		res, err := svc.AdminConfirmRefund(context.Background(), repo.order.Id, &dto.AdminConfirmRequest{})
		require.NoError(t, err)

		assert.Equal(t, string(entity.OrderStatusRefunded), res.Status)
		require.NotNil(t, res.Amount)
		assert.Equal(t, int64(525000), *res.Amount)
	})

	t.Run("falls back to proposed amount", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnStaffConfirmed
		proposed := int64(450000)
		order.RefundAmount = &proposed
		svc, repo := newTestService(t, order)

		res, err := svc.AdminConfirmRefund(context.Background(), repo.order.Id, &dto.AdminConfirmRequest{})
		require.NoError(t, err)

		require.NotNil(t, res.Amount)
		assert.Equal(t, int64(450000), *res.Amount)
	})

	t.Run("requires staff confirmation first", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusReturnCsConfirmed
		svc, repo := newTestService(t, order)

		_, err := svc.AdminConfirmRefund(context.Background(), repo.order.Id, &dto.AdminConfirmRequest{})

		var sErr *returns.StateError
		require.ErrorAs(t, err, &sErr)
	})
}

func TestCollaboratorFailuresSurfaceAsWarnings(t *testing.T) {
	repo := &fakeOrderRepo{order: deliveredOrder()}
	factory := &fakeFactory{uow: &fakeUow{orders: repo}}
	log := logger.NewZapLogger(filepath.Join(t.TempDir(), "test.log"), false)

	// a closed dispatcher rejects every enqueue
	mail := NewMailDispatcher(fakeEmail{}, log)
	require.NoError(t, mail.Close())

	svc := NewReturnService(
		factory,
		failingEvents{},
		mail,
		shipping.NewZoneEstimator(),
		cache.NewOrderCache(nil),
		log,
	)

	res, err := svc.SubmitReturnRequest(context.Background(), repo.order.Id, repo.order.CustomerId, validSubmitRequest())
	require.NoError(t, err)

	// the transition committed, the failures only warn
	assert.Equal(t, entity.OrderStatusReturnRequested, repo.order.Status)
	assert.Contains(t, res.Warnings, warnEventNotPublished)
	assert.Contains(t, res.Warnings, warnMailNotQueued)

	repo.order.Status = entity.OrderStatusReturnRequested
	wf, err := svc.CsConfirm(context.Background(), repo.order.Id, &dto.CsConfirmRequest{})
	require.NoError(t, err)
	assert.Contains(t, wf.Warnings, warnEventNotPublished)
}

func TestCancelOrder(t *testing.T) {
	t.Run("before shipping", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusConfirmed
		svc, repo := newTestService(t, order)

		res, err := svc.CancelOrder(context.Background(), repo.order.Id, &dto.CancelOrderRequest{Reason: "Đặt nhầm"})
		require.NoError(t, err)

		assert.Equal(t, string(entity.OrderStatusCancelled), res.Status)
		// source defaults to the customer
		assert.Equal(t, entity.CancellationSourceCustomer, repo.lastFields["cancellation_source"])
	})

	t.Run("after shipping refused", func(t *testing.T) {
		order := deliveredOrder()
		order.Status = entity.OrderStatusShipped
		svc, repo := newTestService(t, order)

		_, err := svc.CancelOrder(context.Background(), repo.order.Id, &dto.CancelOrderRequest{Reason: "Đổi ý"})

		var sErr *returns.StateError
		require.ErrorAs(t, err, &sErr)
	})
}
