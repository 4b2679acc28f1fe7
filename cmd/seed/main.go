package main

import (
	"log"
	"os"

	"shopflow-be/internal/entity"
	"shopflow-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds a handful of demo orders covering both the structured refund fields
// and the legacy note-only encoding, so the extraction fallback path can be
// exercised against a live database.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	customerId := uuid.New()

	orders := []entity.Order{
		deliveredOrder("SF-1001", customerId),
		legacyReturnOrder("SF-1002", customerId),
		rejectedReturnOrder("SF-1003", customerId),
	}

	seeded := 0
	for i := range orders {
		order := &orders[i]

		var count int64
		db.Model(&entity.Order{}).Where("code = ?", order.Code).Count(&count)
		if count > 0 {
			color.Yellow("skip  %s (already exists)", order.Code)
			continue
		}

		if err := db.Create(order).Error; err != nil {
			color.Red("fail  %s: %v", order.Code, err)
			continue
		}
		color.Green("seed  %s (%s)", order.Code, order.Status)
		seeded++
	}

	color.Cyan("Done. %d order(s) seeded.", seeded)
}

// deliveredOrder is eligible for a fresh return request.
func deliveredOrder(code string, customerId uuid.UUID) entity.Order {
	return entity.Order{
		Code:        code,
		CustomerId:  customerId,
		Status:      entity.OrderStatusDelivered,
		TotalAmount: 500000,
		ShippingFee: 30000,
		Version:     1,
		Items: []entity.OrderItem{
			{ProductId: uuid.New(), Name: "Áo thun cotton", UnitPrice: 235000, Quantity: 2},
		},
	}
}

// legacyReturnOrder carries the whole request in the labelled note, the way
// pre-migration rows do, with no structured refund fields at all.
func legacyReturnOrder(code string, customerId uuid.UUID) entity.Order {
	return entity.Order{
		Code:        code,
		CustomerId:  customerId,
		Status:      entity.OrderStatusReturnRequested,
		TotalAmount: 428000,
		ShippingFee: 25000,
		Version:     1,
		Note: "Thay đổi nhu cầu / Mua nhầm\n" +
			"Mô tả: Đặt nhầm size, muốn trả lại\n" +
			"Email: khach@example.com\n" +
			"Địa chỉ gửi hàng: 12 Nguyễn Huệ, Quận 1, TP.HCM\n" +
			"Phương thức hoàn tiền: bank\n" +
			"Ngân hàng: VCB\n" +
			"Số tài khoản: 0071000123456\n" +
			"Chủ tài khoản: NGUYEN VAN A",
		Items: []entity.OrderItem{
			{ProductId: uuid.New(), Name: "Giày sneaker", UnitPrice: 403000, Quantity: 1},
		},
	}
}

// rejectedReturnOrder sits in the resubmission-eligible state with audit
// fields populated.
func rejectedReturnOrder(code string, customerId uuid.UUID) entity.Order {
	reason := entity.RefundReasonStore
	totalPaid := int64(530000)
	return entity.Order{
		Code:                  code,
		CustomerId:            customerId,
		Status:                entity.OrderStatusReturnRejected,
		TotalAmount:           500000,
		ShippingFee:           30000,
		Version:               3,
		RefundReasonType:      &reason,
		RefundDescription:     "Sản phẩm bị lỗi đường may",
		RefundEmail:           "khach@example.com",
		RefundReturnAddress:   "45 Lê Lợi, Đà Nẵng",
		RefundMethod:          "bank",
		RefundBank:            "ACB",
		RefundAccountNumber:   "123456789",
		RefundAccountHolder:   "TRAN THI B",
		RefundMediaUrls:       `["https://cdn.example.com/returns/sf-1003-1.jpg"]`,
		RefundTotalPaid:       &totalPaid,
		RefundRejectionReason: "Ảnh chụp không rõ lỗi sản phẩm",
		RefundRejectionSource: entity.RejectionSourceCS,
		Items: []entity.OrderItem{
			{ProductId: uuid.New(), Name: "Túi xách da", UnitPrice: 500000, Quantity: 1},
		},
	}
}
