package dto

import (
	"time"

	"github.com/google/uuid"
)

type OrderItemResponse struct {
	Id         uuid.UUID `json:"id"`
	ProductId  uuid.UUID `json:"product_id"`
	Name       string    `json:"name"`
	UnitPrice  int64     `json:"unit_price"`
	Quantity   int       `json:"quantity"`
	TotalPrice int64     `json:"total_price"`
	Selected   bool      `json:"selected"`
}

// RefundSummary is the recomputed monetary view attached to every order
// response that sits in the return flow. Both totals come from the same
// engine every viewer uses.
type RefundSummary struct {
	ReasonType        *string `json:"reason_type"`
	Description       string  `json:"description,omitempty"`
	ReturnAddress     string  `json:"return_address,omitempty"`
	RefundMethod      string  `json:"refund_method,omitempty"`
	Bank              string  `json:"bank,omitempty"`
	AccountNumber     string  `json:"account_number,omitempty"`
	AccountHolder     string  `json:"account_holder,omitempty"`
	MediaUrls         []string `json:"media_urls,omitempty"`
	ProductValue      int64   `json:"product_value"`
	ShippingFee       int64   `json:"shipping_fee"`
	SecondShippingFee int64   `json:"second_shipping_fee"`
	Penalty           int64   `json:"penalty"`
	CustomerTotal     int64   `json:"customer_total"`
	StaffTotal        int64   `json:"staff_total"`
	Step              int     `json:"step"`
	Rejected          bool    `json:"rejected"`
	RejectionReason   string  `json:"rejection_reason,omitempty"`
	RejectionSource   string  `json:"rejection_source,omitempty"`
}

type OrderResponse struct {
	Id            uuid.UUID           `json:"id"`
	Code          string              `json:"code"`
	CustomerId    uuid.UUID           `json:"customer_id"`
	Status        string              `json:"status"`
	TotalAmount   int64               `json:"total_amount"`
	ShippingFee   int64               `json:"shipping_fee"`
	Note          string              `json:"note,omitempty"`
	Items         []OrderItemResponse `json:"items"`
	RefundSummary *RefundSummary      `json:"refund_summary,omitempty"`
	Cancellation  *CancellationInfo   `json:"cancellation,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

type CancellationInfo struct {
	Reason string `json:"reason"`
	Source string `json:"source"`
}

type ListOrdersQuery struct {
	CustomerId uuid.UUID
	Status     string
	Page       int
	Limit      int
}

type OrderListResponse struct {
	Orders []OrderResponse `json:"orders"`
	Total  int64           `json:"total"`
	Page   int             `json:"page"`
	Limit  int             `json:"limit"`
}
