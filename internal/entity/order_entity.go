package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus represents the lifecycle status of an order, including the
// return/refund sub-flow statuses.
type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "CREATED"
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusConfirmed OrderStatus = "CONFIRMED"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"

	OrderStatusReturnRequested      OrderStatus = "RETURN_REQUESTED"
	OrderStatusReturnCsConfirmed    OrderStatus = "RETURN_CS_CONFIRMED"
	OrderStatusReturnStaffConfirmed OrderStatus = "RETURN_STAFF_CONFIRMED"
	OrderStatusReturnRejected       OrderStatus = "RETURN_REJECTED"
	OrderStatusRefunded             OrderStatus = "REFUNDED"
)

// Refund reason classification. "store" means the shop is at fault (full
// refund, no penalty), "customer" means change of mind (10% penalty applies).
const (
	RefundReasonStore    = "store"
	RefundReasonCustomer = "customer"
)

// Sources recorded on rejection / cancellation audit fields.
const (
	RejectionSourceCS    = "CS"
	RejectionSourceStaff = "STAFF"

	CancellationSourceCustomer = "CUSTOMER"
	CancellationSourceStaff    = "STAFF"
)

type OrderItem struct {
	Id         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderId    uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductId  uuid.UUID `gorm:"type:uuid;not null"`
	Name       string    `gorm:"type:varchar(255);not null"`
	UnitPrice  int64     `gorm:"not null"`
	Quantity   int       `gorm:"not null"`
	TotalPrice *int64
	CreatedAt  time.Time
}

func (OrderItem) TableName() string {
	return "order_items"
}

// Order carries both the placement-time monetary snapshot and the refund
// request fields. Monetary values are VND (integer, no minor fraction).
type Order struct {
	Id          uuid.UUID   `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Code        string      `gorm:"type:varchar(30);uniqueIndex;not null"`
	CustomerId  uuid.UUID   `gorm:"type:uuid;not null;index"`
	Status      OrderStatus `gorm:"type:varchar(30);not null;index"`
	TotalAmount int64       `gorm:"not null"`
	ShippingFee int64       `gorm:"not null;default:0"`

	// Version guards every workflow read-modify-write (optimistic lock).
	Version int `gorm:"not null;default:1"`

	// Legacy free-text field. Pre-migration orders encode the whole refund
	// request in here with labelled lines; new writes keep it as a mirror only.
	Note string `gorm:"type:text"`

	// Structured refund request fields, written by the return workflow.
	RefundReasonType         *string `gorm:"type:varchar(20)"`
	RefundDescription        string  `gorm:"type:text"`
	RefundEmail              string  `gorm:"type:varchar(255)"`
	RefundReturnAddress      string  `gorm:"type:text"`
	RefundMethod             string  `gorm:"type:varchar(50)"`
	RefundBank               string  `gorm:"type:varchar(100)"`
	RefundAccountNumber      string  `gorm:"type:varchar(50)"`
	RefundAccountHolder      string  `gorm:"type:varchar(100)"`
	RefundMediaUrls          string  `gorm:"type:text"` // JSON-encoded []string
	RefundSelectedProductIds string  `gorm:"type:text"` // JSON-encoded []uuid

	// Monetary fields derived by the computation engine.
	RefundTotalPaid            *int64
	RefundSecondShippingFee    *int64
	RefundReturnFee            *int64
	EstimatedReturnShippingFee *int64
	RefundPenaltyAmount        *int64
	RefundAmount               *int64 // customer-proposed total
	RefundConfirmedAmount      *int64 // staff/CS-confirmed total

	// Physical inspection verdict recorded by warehouse staff.
	StaffInspectionResult string `gorm:"type:text"`

	// Review notes left at the CS and admin checkpoints.
	CsNote    string `gorm:"type:text"`
	AdminNote string `gorm:"type:text"`

	// Audit fields. Kept across resubmission.
	RefundRejectionReason string `gorm:"type:text"`
	RefundRejectionSource string `gorm:"type:varchar(10)"`
	CancellationReason    string `gorm:"type:text"`
	CancellationSource    string `gorm:"type:varchar(10)"`

	Items []OrderItem `gorm:"foreignKey:OrderId"`

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Order) TableName() string {
	return "orders"
}

// TotalPaid returns the amount the customer actually paid, defaulting to the
// placement-time total when no override was captured.
func (o *Order) TotalPaid() int64 {
	if o.RefundTotalPaid != nil {
		return *o.RefundTotalPaid
	}
	return o.TotalAmount
}

// ItemTotal returns the line value of one item.
func (i *OrderItem) ItemTotal() int64 {
	if i.TotalPrice != nil {
		return *i.TotalPrice
	}
	return i.UnitPrice * int64(i.Quantity)
}
