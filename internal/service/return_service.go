package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"shopflow-be/internal/constant"
	"shopflow-be/internal/dto"
	"shopflow-be/internal/entity"
	"shopflow-be/internal/pkg/logger"
	"shopflow-be/internal/repository/specification"
	"shopflow-be/internal/repository/unitofwork"
	"shopflow-be/pkg/cache"
	"shopflow-be/pkg/orderevents"
	"shopflow-be/pkg/returns"
	"shopflow-be/pkg/shipping"

	"github.com/google/uuid"
)

// IReturnService is the workflow controller for the return/refund flow. Every
// operation is a single validate-then-mutate against one order row under an
// optimistic version check; collaborator failures (events, mail) never roll
// back a committed transition, they come back as warnings on the response.
type IReturnService interface {
	SubmitReturnRequest(ctx context.Context, orderId, customerId uuid.UUID, req *dto.RequestReturnRequest) (*dto.RequestReturnResponse, error)
	CsConfirm(ctx context.Context, orderId uuid.UUID, req *dto.CsConfirmRequest) (*dto.WorkflowResponse, error)
	Reject(ctx context.Context, orderId uuid.UUID, req *dto.RejectRefundRequest) (*dto.WorkflowResponse, error)
	StaffInspect(ctx context.Context, orderId uuid.UUID, req *dto.StaffInspectRequest) (*dto.WorkflowResponse, error)
	AdminConfirmRefund(ctx context.Context, orderId uuid.UUID, req *dto.AdminConfirmRequest) (*dto.WorkflowResponse, error)
	CancelOrder(ctx context.Context, orderId uuid.UUID, req *dto.CancelOrderRequest) (*dto.WorkflowResponse, error)
}

type returnService struct {
	uowFactory unitofwork.RepositoryFactory
	events     orderevents.Publisher
	mail       *MailDispatcher
	estimator  shipping.ReturnFeeEstimator
	orderCache *cache.OrderCache
	logger     logger.ILogger
}

func NewReturnService(
	uowFactory unitofwork.RepositoryFactory,
	events orderevents.Publisher,
	mail *MailDispatcher,
	estimator shipping.ReturnFeeEstimator,
	orderCache *cache.OrderCache,
	log logger.ILogger,
) IReturnService {
	return &returnService{
		uowFactory: uowFactory,
		events:     events,
		mail:       mail,
		estimator:  estimator,
		orderCache: orderCache,
		logger:     log,
	}
}

func (s *returnService) SubmitReturnRequest(ctx context.Context, orderId, customerId uuid.UUID, req *dto.RequestReturnRequest) (*dto.RequestReturnResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}
	// Orders outside the caller's scope look absent, not forbidden.
	if order.CustomerId != customerId {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	// A submit against a rejected request is the resubmission path: the
	// descriptive fields are overwritten, the rejection audit stays.
	cmd := returns.CommandSubmit
	if order.Status == entity.OrderStatusReturnRejected {
		cmd = returns.CommandResubmit
	}
	next, err := returns.Transition(order.Status, cmd)
	if err != nil {
		return nil, err
	}

	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	mediaJSON, _ := json.Marshal(req.MediaUrls)
	var selectedJSON string
	if len(req.SelectedProductIds) > 0 {
		raw, _ := json.Marshal(req.SelectedProductIds)
		selectedJSON = string(raw)
	}

	estimatedFee := s.estimator.EstimateReturnFee(req.ProvinceCode)
	totalPaid := order.TotalPaid()

	// Project the updated order and run the engine once, so the persisted
	// proposal matches what every viewer will recompute later.
	projected := *order
	reason := req.ReasonType
	projected.RefundReasonType = &reason
	projected.RefundSelectedProductIds = selectedJSON
	projected.RefundMediaUrls = string(mediaJSON)
	projected.RefundTotalPaid = &totalPaid
	projected.EstimatedReturnShippingFee = &estimatedFee
	projected.StaffInspectionResult = ""
	breakdown := returns.Compute(&projected)

	note := req.Note
	if note == "" {
		note = legacyNoteMirror(req)
	}

	fields := map[string]interface{}{
		"status":                        next,
		"note":                          note,
		"refund_reason_type":            req.ReasonType,
		"refund_description":            req.Description,
		"refund_email":                  req.Email,
		"refund_return_address":         req.ReturnAddress,
		"refund_method":                 req.RefundMethod,
		"refund_bank":                   req.Bank,
		"refund_account_number":         req.AccountNumber,
		"refund_account_holder":         req.AccountHolder,
		"refund_media_urls":             string(mediaJSON),
		"refund_selected_product_ids":   selectedJSON,
		"refund_total_paid":             totalPaid,
		"estimated_return_shipping_fee": estimatedFee,
		"refund_penalty_amount":         breakdown.Penalty,
		"refund_amount":                 breakdown.CustomerTotal,
		// a fresh submission voids any previous inspection
		"staff_inspection_result": "",
		"refund_confirmed_amount": nil,
	}

	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "Return request submitted", map[string]interface{}{
		"orderId":        orderId.String(),
		"command":        string(cmd),
		"reasonType":     req.ReasonType,
		"proposedAmount": breakdown.CustomerTotal,
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishReturnRequested(ctx, order.Id, order.CustomerId, order.Code, breakdown.CustomerTotal))
	warnings = warnOnErr(warnings, warnMailNotQueued,
		s.mail.EnqueueStatusUpdate(order.Code, req.Email, "Đã tiếp nhận yêu cầu trả hàng",
			"Bộ phận CSKH sẽ xem xét yêu cầu của bạn trong 24 giờ."))

	return &dto.RequestReturnResponse{
		OrderId:        order.Id,
		Status:         string(next),
		ProposedAmount: breakdown.CustomerTotal,
		Warnings:       warnings,
	}, nil
}

func (s *returnService) CsConfirm(ctx context.Context, orderId uuid.UUID, req *dto.CsConfirmRequest) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	next, err := returns.Transition(order.Status, returns.CommandCsConfirm)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":  next,
		"cs_note": req.Note,
	}
	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "CS confirmed return request", map[string]interface{}{
		"orderId": orderId.String(),
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishReturnCsConfirmed(ctx, order.Id, order.CustomerId, order.Code))
	warnings = warnOnErr(warnings, warnMailNotQueued,
		s.mail.EnqueueStatusUpdate(order.Code, order.RefundEmail, "CSKH đã duyệt yêu cầu",
			"Vui lòng gửi hàng về kho theo hướng dẫn trong ứng dụng."))

	return &dto.WorkflowResponse{
		OrderId:     order.Id,
		Status:      string(next),
		ProcessedAt: time.Now(),
		Warnings:    warnings,
	}, nil
}

func (s *returnService) Reject(ctx context.Context, orderId uuid.UUID, req *dto.RejectRefundRequest) (*dto.WorkflowResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, &returns.ValidationError{Fields: []string{"reason"}}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	next, err := returns.Transition(order.Status, returns.CommandReject)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"status":                  next,
		"refund_rejection_reason": req.Reason,
		"refund_rejection_source": req.Source,
	}
	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "Return request rejected", map[string]interface{}{
		"orderId": orderId.String(),
		"source":  req.Source,
		"reason":  req.Reason,
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishReturnRejected(ctx, order.Id, order.CustomerId, order.Code, req.Reason, req.Source))
	warnings = warnOnErr(warnings, warnMailNotQueued,
		s.mail.EnqueueStatusUpdate(order.Code, order.RefundEmail, "Yêu cầu trả hàng bị từ chối",
			"Lý do: "+req.Reason+". Bạn có thể chỉnh sửa và gửi lại yêu cầu."))

	return &dto.WorkflowResponse{
		OrderId:     order.Id,
		Status:      string(next),
		ProcessedAt: time.Now(),
		Warnings:    warnings,
	}, nil
}

func (s *returnService) StaffInspect(ctx context.Context, orderId uuid.UUID, req *dto.StaffInspectRequest) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	next, err := returns.Transition(order.Status, returns.CommandStaffInspect)
	if err != nil {
		return nil, err
	}

	// The verdict may flip the fault classification, so the confirmed amount
	// is recomputed from the staff view before it is persisted.
	projected := *order
	projected.StaffInspectionResult = req.Verdict
	breakdown := returns.Compute(&projected)

	fields := map[string]interface{}{
		"status":                  next,
		"staff_inspection_result": req.Verdict,
		"refund_confirmed_amount": breakdown.StaffTotal,
	}
	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "Staff inspection recorded", map[string]interface{}{
		"orderId":         orderId.String(),
		"staffReason":     breakdown.StaffReason,
		"confirmedAmount": breakdown.StaffTotal,
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishReturnStaffConfirmed(ctx, order.Id, order.CustomerId, order.Code, breakdown.StaffTotal))

	amount := breakdown.StaffTotal
	return &dto.WorkflowResponse{
		OrderId:     order.Id,
		Status:      string(next),
		Amount:      &amount,
		ProcessedAt: time.Now(),
		Warnings:    warnings,
	}, nil
}

func (s *returnService) AdminConfirmRefund(ctx context.Context, orderId uuid.UUID, req *dto.AdminConfirmRequest) (*dto.WorkflowResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOneWithItems(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	next, err := returns.Transition(order.Status, returns.CommandAdminConfirm)
	if err != nil {
		return nil, err
	}

	// The staff-confirmed amount is final; no recomputation here.
	var amount int64
	switch {
	case order.RefundConfirmedAmount != nil:
		amount = *order.RefundConfirmedAmount
	case order.RefundAmount != nil:
		amount = *order.RefundAmount
	}

	fields := map[string]interface{}{
		"status":     next,
		"admin_note": req.Note,
	}
	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "Refund confirmed by admin", map[string]interface{}{
		"orderId": orderId.String(),
		"amount":  amount,
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishRefundCompleted(ctx, order.Id, order.CustomerId, order.Code, amount))
	warnings = warnOnErr(warnings, warnMailNotQueued,
		s.mail.EnqueueRefundCompleted(order.Code, order.RefundEmail, amount))

	return &dto.WorkflowResponse{
		OrderId:     order.Id,
		Status:      string(next),
		Amount:      &amount,
		ProcessedAt: time.Now(),
		Warnings:    warnings,
	}, nil
}

func (s *returnService) CancelOrder(ctx context.Context, orderId uuid.UUID, req *dto.CancelOrderRequest) (*dto.WorkflowResponse, error) {
	if strings.TrimSpace(req.Reason) == "" {
		return nil, &returns.ValidationError{Fields: []string{"reason"}}
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	order, err := uow.OrderRepository().FindOne(ctx, specification.ByID{ID: orderId})
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, &returns.NotFoundError{OrderId: orderId}
	}

	next, err := returns.Transition(order.Status, returns.CommandCancel)
	if err != nil {
		return nil, err
	}

	source := req.Source
	if source == "" {
		source = entity.CancellationSourceCustomer
	}

	fields := map[string]interface{}{
		"status":              next,
		"cancellation_reason": req.Reason,
		"cancellation_source": source,
	}
	if err := s.commitGuarded(ctx, uow, order, fields); err != nil {
		return nil, err
	}

	s.logger.Info("RETURNS", "Order cancelled", map[string]interface{}{
		"orderId": orderId.String(),
		"source":  source,
	})
	var warnings []string
	warnings = warnOnErr(warnings, warnEventNotPublished,
		s.events.PublishOrderCancelled(ctx, order.Id, order.CustomerId, order.Code, req.Reason, source))

	return &dto.WorkflowResponse{
		OrderId:     order.Id,
		Status:      string(next),
		ProcessedAt: time.Now(),
		Warnings:    warnings,
	}, nil
}

// Collaborator failures after the commit surface to the caller as
// partial-success warnings; the transition itself stands.
const (
	warnEventNotPublished = "order event was not published, downstream notifications may be delayed"
	warnMailNotQueued     = "status email could not be queued"
)

func warnOnErr(warnings []string, warning string, err error) []string {
	if err != nil {
		warnings = append(warnings, warning)
	}
	return warnings
}

// commitGuarded wraps the guarded write in a transaction and translates a
// lost version race into a ConflictError.
func (s *returnService) commitGuarded(ctx context.Context, uow unitofwork.UnitOfWork, order *entity.Order, fields map[string]interface{}) error {
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	ok, err := uow.OrderRepository().UpdateGuarded(ctx, order.Id, order.Version, fields)
	if err != nil {
		return err
	}
	if !ok {
		return &returns.ConflictError{OrderId: order.Id}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.orderCache.Invalidate(ctx, order.Id)
	return nil
}

// validateSubmit enforces the submission preconditions: evidence media, a
// pickup address and, for bank refunds, complete account details.
func validateSubmit(req *dto.RequestReturnRequest) error {
	var missing []string
	if len(req.MediaUrls) == 0 {
		missing = append(missing, "media_urls")
	}
	if strings.TrimSpace(req.ReturnAddress) == "" {
		missing = append(missing, "return_address")
	}
	if req.RefundMethod == "bank" {
		if strings.TrimSpace(req.Bank) == "" {
			missing = append(missing, "bank")
		}
		if strings.TrimSpace(req.AccountNumber) == "" {
			missing = append(missing, "account_number")
		}
		if strings.TrimSpace(req.AccountHolder) == "" {
			missing = append(missing, "account_holder")
		}
	}
	if len(missing) > 0 {
		return &returns.ValidationError{Fields: missing}
	}
	return nil
}

// legacyNoteMirror renders the structured request in the labelled-line
// format pre-migration consumers still read.
func legacyNoteMirror(req *dto.RequestReturnRequest) string {
	var b strings.Builder

	switch req.ReasonType {
	case entity.RefundReasonStore:
		b.WriteString(constant.NoteReasonPhraseStore + "\n")
	case entity.RefundReasonCustomer:
		b.WriteString(constant.NoteReasonPhraseCustomer + "\n")
	}

	writeLabelled(&b, constant.NoteLabelDescription, req.Description)
	writeLabelled(&b, constant.NoteLabelEmail, req.Email)
	writeLabelled(&b, constant.NoteLabelReturnAddress, req.ReturnAddress)
	writeLabelled(&b, constant.NoteLabelRefundMethod, req.RefundMethod)
	writeLabelled(&b, constant.NoteLabelBank, req.Bank)
	writeLabelled(&b, constant.NoteLabelAccountNumber, req.AccountNumber)
	writeLabelled(&b, constant.NoteLabelAccountHolder, req.AccountHolder)

	return strings.TrimRight(b.String(), "\n")
}

func writeLabelled(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	b.WriteString(label + " " + value + "\n")
}
