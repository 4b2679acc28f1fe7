package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Customer: submit / resubmit a return request ---

type RequestReturnRequest struct {
	ReasonType         string      `json:"reason_type" validate:"required,oneof=store customer"`
	Description        string      `json:"description" validate:"required,min=10"`
	Email              string      `json:"email" validate:"omitempty,email"`
	ReturnAddress      string      `json:"return_address"`
	RefundMethod       string      `json:"refund_method" validate:"required"`
	Bank               string      `json:"bank"`
	AccountNumber      string      `json:"account_number"`
	AccountHolder      string      `json:"account_holder"`
	MediaUrls          []string    `json:"media_urls"`
	SelectedProductIds []uuid.UUID `json:"selected_product_ids"`
	ProvinceCode       string      `json:"province_code"`
	// Note mirrors the request as legacy labelled text for old consumers.
	Note string `json:"note"`
}

type RequestReturnResponse struct {
	OrderId        uuid.UUID `json:"order_id"`
	Status         string    `json:"status"`
	ProposedAmount int64     `json:"proposed_amount"`
	Warnings       []string  `json:"warnings,omitempty"`
}

// --- CS / staff / admin commands ---

type CsConfirmRequest struct {
	Note string `json:"note,omitempty"`
}

type RejectRefundRequest struct {
	Reason string `json:"reason" validate:"required"`
	Source string `json:"source" validate:"required,oneof=CS STAFF"`
}

type StaffInspectRequest struct {
	Verdict string `json:"verdict" validate:"required,min=5"`
}

type AdminConfirmRequest struct {
	Note string `json:"note,omitempty"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason" validate:"required"`
	Source string `json:"source" validate:"omitempty,oneof=CUSTOMER STAFF"`
}

type WorkflowResponse struct {
	OrderId     uuid.UUID  `json:"order_id"`
	Status      string     `json:"status"`
	Amount      *int64     `json:"amount,omitempty"`
	ProcessedAt time.Time  `json:"processed_at"`
	Warnings    []string   `json:"warnings,omitempty"`
}
