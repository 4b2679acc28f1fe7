package mapper

import (
	"shopflow-be/internal/dto"
	"shopflow-be/internal/entity"
	"shopflow-be/pkg/returns"

	"github.com/google/uuid"
)

// ToOrderResponse maps an order to its API shape. Every refund number in the
// response is recomputed through the shared engine, never copied from
// whatever the caller happens to hold.
func ToOrderResponse(order *entity.Order) dto.OrderResponse {
	res := dto.OrderResponse{
		Id:          order.Id,
		Code:        order.Code,
		CustomerId:  order.CustomerId,
		Status:      string(order.Status),
		TotalAmount: order.TotalAmount,
		ShippingFee: order.ShippingFee,
		Note:        order.Note,
		CreatedAt:   order.CreatedAt,
		UpdatedAt:   order.UpdatedAt,
	}

	var selected map[uuid.UUID]struct{}
	if returns.IsReturnStatus(order.Status) {
		info := returns.Extract(order)
		breakdown := returns.ComputeWithInfo(order, info)
		step, rejected := returns.StepIndex(order.Status)

		selected = make(map[uuid.UUID]struct{}, len(info.SelectedProductIds))
		for _, id := range info.SelectedProductIds {
			selected[id] = struct{}{}
		}

		res.RefundSummary = &dto.RefundSummary{
			ReasonType:        info.ReasonType,
			Description:       info.Description,
			ReturnAddress:     info.ReturnAddress,
			RefundMethod:      info.RefundMethod,
			Bank:              info.Bank,
			AccountNumber:     info.AccountNumber,
			AccountHolder:     info.AccountHolder,
			MediaUrls:         info.MediaUrls,
			ProductValue:      breakdown.ProductValue,
			ShippingFee:       breakdown.ShippingFee,
			SecondShippingFee: breakdown.SecondShippingFee,
			Penalty:           breakdown.Penalty,
			CustomerTotal:     breakdown.CustomerTotal,
			StaffTotal:        breakdown.StaffTotal,
			Step:              step,
			Rejected:          rejected,
			RejectionReason:   order.RefundRejectionReason,
			RejectionSource:   order.RefundRejectionSource,
		}
	}

	if order.Status == entity.OrderStatusCancelled {
		reason := order.CancellationReason
		if reason == "" {
			// legacy cancelled orders only carry the note encoding
			reason = returns.NoteReason(order.Note)
		}
		res.Cancellation = &dto.CancellationInfo{
			Reason: reason,
			Source: order.CancellationSource,
		}
	}

	for _, item := range order.Items {
		_, isSelected := selected[item.Id]
		res.Items = append(res.Items, dto.OrderItemResponse{
			Id:         item.Id,
			ProductId:  item.ProductId,
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			TotalPrice: item.ItemTotal(),
			Selected:   isSelected,
		})
	}

	return res
}
