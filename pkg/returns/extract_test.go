package returns

import (
	"testing"

	"shopflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderWithItems(n int) *entity.Order {
	order := &entity.Order{Id: uuid.New(), Status: entity.OrderStatusDelivered}
	for i := 0; i < n; i++ {
		order.Items = append(order.Items, entity.OrderItem{
			Id:        uuid.New(),
			OrderId:   order.Id,
			UnitPrice: 100000,
			Quantity:  1,
		})
	}
	return order
}

func strPtr(s string) *string { return &s }

func TestExtractStructuredFields(t *testing.T) {
	order := orderWithItems(2)
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.RefundDescription = "Giao nhầm màu"
	order.RefundEmail = "khach@example.com"
	order.RefundReturnAddress = "12 Nguyễn Trãi, Hà Nội"
	order.RefundMethod = "bank"
	order.RefundBank = "Vietcombank"
	order.RefundAccountNumber = "0123456789"
	order.RefundAccountHolder = "NGUYEN VAN A"
	order.RefundMediaUrls = `["https://cdn.example.com/a.jpg","https://cdn.example.com/b.jpg"]`
	// note must be ignored once structured fields exist
	order.Note = "Sản phẩm gặp sự cố từ cửa hàng\nMô tả: cũ kỹ"

	info := Extract(order)

	require.NotNil(t, info.ReasonType)
	assert.Equal(t, entity.RefundReasonCustomer, *info.ReasonType)
	assert.Equal(t, "Giao nhầm màu", info.Description)
	assert.Equal(t, "khach@example.com", info.Email)
	assert.Equal(t, "Vietcombank", info.Bank)
	assert.Len(t, info.MediaUrls, 2)
	// no explicit selection -> all items
	assert.Len(t, info.SelectedProductIds, 2)
}

func TestExtractSelectedSubset(t *testing.T) {
	order := orderWithItems(3)
	order.RefundReasonType = strPtr(entity.RefundReasonStore)
	order.RefundSelectedProductIds = `["` + order.Items[1].Id.String() + `"]`

	info := Extract(order)
	require.Len(t, info.SelectedProductIds, 1)
	assert.Equal(t, order.Items[1].Id, info.SelectedProductIds[0])
}

func TestExtractSelectionFallbacks(t *testing.T) {
	t.Run("malformed json defaults to all items", func(t *testing.T) {
		order := orderWithItems(2)
		order.RefundReasonType = strPtr(entity.RefundReasonStore)
		order.RefundSelectedProductIds = `{not json`

		info := Extract(order)
		assert.Len(t, info.SelectedProductIds, 2)
	})

	t.Run("ids not on the order default to all items", func(t *testing.T) {
		order := orderWithItems(2)
		order.RefundReasonType = strPtr(entity.RefundReasonStore)
		order.RefundSelectedProductIds = `["` + uuid.NewString() + `"]`

		info := Extract(order)
		assert.Len(t, info.SelectedProductIds, 2)
	})
}

func TestExtractLegacyNote(t *testing.T) {
	order := orderWithItems(1)
	order.Note = "Sản phẩm gặp sự cố từ cửa hàng\n" +
		"Mô tả: Hộp bị móp khi nhận hàng\n" +
		"Email: khach@example.com\n" +
		"Địa chỉ gửi hàng: 45 Lê Lợi, Đà Nẵng\n" +
		"Phương thức hoàn tiền: Chuyển khoản\n" +
		"Ngân hàng: ACB\n" +
		"Số tài khoản: 999888777\n" +
		"Chủ tài khoản: TRAN THI B"

	info := Extract(order)

	require.NotNil(t, info.ReasonType)
	assert.Equal(t, entity.RefundReasonStore, *info.ReasonType)
	assert.Equal(t, "Hộp bị móp khi nhận hàng", info.Description)
	assert.Equal(t, "khach@example.com", info.Email)
	assert.Equal(t, "45 Lê Lợi, Đà Nẵng", info.ReturnAddress)
	assert.Equal(t, "Chuyển khoản", info.RefundMethod)
	assert.Equal(t, "ACB", info.Bank)
	assert.Equal(t, "999888777", info.AccountNumber)
	assert.Equal(t, "TRAN THI B", info.AccountHolder)
	assert.Len(t, info.SelectedProductIds, 1)
}

func TestExtractLegacyNoteCustomerReason(t *testing.T) {
	order := orderWithItems(1)
	order.Note = "Thay đổi nhu cầu / Mua nhầm\nMô tả: đặt nhầm size"

	info := Extract(order)
	require.NotNil(t, info.ReasonType)
	assert.Equal(t, entity.RefundReasonCustomer, *info.ReasonType)
}

func TestExtractAmbiguousReasonIsNil(t *testing.T) {
	order := orderWithItems(1)
	order.Note = "Mô tả: không thích nữa"

	info := Extract(order)
	assert.Nil(t, info.ReasonType, "unrecognized reason must stay nil, not guessed")
	assert.Equal(t, "không thích nữa", info.Description)
}

func TestNoteReason(t *testing.T) {
	assert.Equal(t, "Khách đổi ý", NoteReason("Đơn hủy\nLý do: Khách đổi ý"))
	assert.Equal(t, "", NoteReason("không có nhãn nào"))
}
