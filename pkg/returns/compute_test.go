package returns

import (
	"testing"

	"shopflow-be/internal/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func int64Ptr(v int64) *int64 { return &v }

// deliveredOrder mirrors the canonical storefront order: 500k VND total of
// which 30k is the first-leg shipping fee.
func deliveredOrder() *entity.Order {
	order := &entity.Order{
		Id:          uuid.New(),
		Status:      entity.OrderStatusDelivered,
		TotalAmount: 500000,
		ShippingFee: 30000,
	}
	order.Items = []entity.OrderItem{
		{Id: uuid.New(), OrderId: order.Id, UnitPrice: 235000, Quantity: 2},
	}
	return order
}

func TestComputeStoreReason(t *testing.T) {
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonStore)

	b := Compute(order)

	assert.Equal(t, int64(470000), b.ProductValue)
	assert.Equal(t, int64(30000), b.SecondShippingFee, "no recorded return fee falls back to shipping fee")
	assert.Equal(t, int64(0), b.Penalty)
	assert.Equal(t, int64(530000), b.CustomerTotal, "store fault refunds total paid plus return shipping")
}

func TestComputeCustomerReason(t *testing.T) {
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.RefundSecondShippingFee = int64Ptr(25000)

	b := Compute(order)

	assert.Equal(t, int64(470000), b.ProductValue)
	assert.Equal(t, int64(25000), b.SecondShippingFee)
	assert.Equal(t, int64(47000), b.Penalty, "10%% of product value")
	assert.Equal(t, int64(428000), b.CustomerTotal)
}

func TestComputeNilReasonUsesStoreBranch(t *testing.T) {
	// Legacy order whose note names no recognized reason. Current product
	// behavior resolves the ambiguity in the customer's favor.
	order := deliveredOrder()
	order.Note = "Mô tả: không rõ lý do"

	b := Compute(order)
	assert.Equal(t, entity.RefundReasonStore, b.CustomerReason)
	assert.Equal(t, order.TotalAmount+b.SecondShippingFee, b.CustomerTotal)
}

func TestComputeStaffVerdictOverridesCustomerReason(t *testing.T) {
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.RefundSecondShippingFee = int64Ptr(25000)
	order.StaffInspectionResult = "Kiểm tra thực tế: lỗi cửa hàng, sản phẩm bị lỗi sơn"

	b := Compute(order)

	assert.True(t, b.StaffVerdictFound)
	assert.Equal(t, entity.RefundReasonStore, b.StaffReason)
	assert.Equal(t, int64(0), b.StaffPenalty)
	assert.Equal(t, int64(525000), b.StaffTotal)
	assert.Greater(t, b.StaffTotal, b.CustomerTotal,
		"store-fault verdict must refund more than the customer's own proposal")
}

func TestComputeStaffVerdictFromTrailingNoteLine(t *testing.T) {
	order := deliveredOrder()
	order.Note = "Thay đổi nhu cầu / Mua nhầm\n" +
		"Mô tả: đặt nhầm size\n" +
		"Hàng trả về nguyên vẹn nhưng là lỗi khách hàng"

	b := Compute(order)
	assert.True(t, b.StaffVerdictFound)
	assert.Equal(t, entity.RefundReasonCustomer, b.StaffReason)
}

func TestComputeStaffFallbacks(t *testing.T) {
	t.Run("persisted confirmed amount wins", func(t *testing.T) {
		order := deliveredOrder()
		order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
		order.RefundConfirmedAmount = int64Ptr(400000)

		b := Compute(order)
		assert.False(t, b.StaffVerdictFound)
		assert.Equal(t, int64(400000), b.StaffTotal)
	})

	t.Run("then the customer-proposed stored amount", func(t *testing.T) {
		order := deliveredOrder()
		order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
		order.RefundAmount = int64Ptr(410000)

		b := Compute(order)
		assert.Equal(t, int64(410000), b.StaffTotal)
	})

	t.Run("last resort is the recomputed customer total", func(t *testing.T) {
		order := deliveredOrder()
		order.RefundReasonType = strPtr(entity.RefundReasonStore)

		b := Compute(order)
		assert.Equal(t, b.CustomerTotal, b.StaffTotal)
	})
}

func TestComputeVoucherReconciliation(t *testing.T) {
	// Item-level value is 470k but a voucher brought the paid total down to
	// 400k. The product value must follow the money: 400k - 30k shipping.
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.RefundTotalPaid = int64Ptr(400000)
	order.RefundSecondShippingFee = int64Ptr(20000)

	b := Compute(order)
	assert.Equal(t, int64(370000), b.ProductValue)
	assert.Equal(t, int64(37000), b.Penalty)
	assert.Equal(t, int64(343000), b.CustomerTotal)
}

func TestComputeSelectedSubsetOnly(t *testing.T) {
	order := &entity.Order{
		Id:          uuid.New(),
		Status:      entity.OrderStatusDelivered,
		TotalAmount: 530000,
		ShippingFee: 30000,
	}
	a := entity.OrderItem{Id: uuid.New(), OrderId: order.Id, UnitPrice: 300000, Quantity: 1}
	bItem := entity.OrderItem{Id: uuid.New(), OrderId: order.Id, UnitPrice: 200000, Quantity: 1}
	order.Items = []entity.OrderItem{a, bItem}
	order.RefundReasonType = strPtr(entity.RefundReasonStore)
	order.RefundSelectedProductIds = `["` + a.Id.String() + `"]`

	b := Compute(order)
	// partial selection diverges from the paid total, so reconciliation
	// re-derives the value from the payment
	assert.Equal(t, int64(500000), b.ProductValue)
}

func TestComputeNonNegativity(t *testing.T) {
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.TotalAmount = 10000
	order.RefundTotalPaid = int64Ptr(10000)
	order.RefundSecondShippingFee = int64Ptr(-5000)
	order.ShippingFee = -100

	b := Compute(order)
	assert.GreaterOrEqual(t, b.CustomerTotal, int64(0))
	assert.GreaterOrEqual(t, b.StaffTotal, int64(0))
	assert.GreaterOrEqual(t, b.Penalty, int64(0))
	assert.GreaterOrEqual(t, b.SecondShippingFee, int64(0))
	assert.GreaterOrEqual(t, b.ProductValue, int64(0))
}

func TestComputeIdempotent(t *testing.T) {
	order := deliveredOrder()
	order.RefundReasonType = strPtr(entity.RefundReasonCustomer)
	order.RefundSecondShippingFee = int64Ptr(25000)
	order.StaffInspectionResult = "lỗi khách hàng"

	first := Compute(order)
	second := Compute(order)
	assert.Equal(t, first, second, "recomputation over the same snapshot must be stable")
}

func TestRoundHalfAwayFromZero(t *testing.T) {
	assert.Equal(t, int64(2), RoundHalfAwayFromZero(1.5))
	assert.Equal(t, int64(-2), RoundHalfAwayFromZero(-1.5))
	assert.Equal(t, int64(1), RoundHalfAwayFromZero(1.4))
}
