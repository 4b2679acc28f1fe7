package returns

import (
	"math"
	"strings"

	"shopflow-be/internal/constant"
	"shopflow-be/internal/entity"

	"github.com/google/uuid"
)

// PenaltyRate is the return penalty charged on the product value when the
// customer, not the store, is at fault.
const PenaltyRate = 0.10

// reconcileEpsilon is the tolerated gap between the item-level product value
// plus shipping and the amount actually paid. A larger gap means a voucher
// was applied and the product value is re-derived from the payment.
const reconcileEpsilon int64 = 1

// Breakdown is the full monetary derivation for one order snapshot. All
// values are VND and never negative. Computing it twice over the same
// snapshot yields identical results; every viewer recomputes instead of
// trusting a stored total.
type Breakdown struct {
	ProductValue      int64
	ShippingFee       int64
	SecondShippingFee int64

	// Customer-proposed view: penalty and total derived from the reason the
	// customer selected at submission time.
	Penalty       int64
	CustomerTotal int64

	// Staff-confirmed view: penalty and total derived from the inspection
	// verdict, overriding the self-reported reason.
	StaffPenalty int64
	StaffTotal   int64

	// Effective reasons each view used ("store"/"customer").
	CustomerReason string
	StaffReason    string

	// StaffVerdictFound is false when no inspection verdict could be derived
	// and StaffTotal fell back to a persisted amount.
	StaffVerdictFound bool
}

// Compute derives every refund amount for an order from its persisted fields.
// Pure and idempotent: no I/O, no mutation of the order.
func Compute(order *entity.Order) Breakdown {
	info := Extract(order)
	return ComputeWithInfo(order, info)
}

// ComputeWithInfo is Compute with a pre-extracted RefundInfo, for callers
// that already hold one.
func ComputeWithInfo(order *entity.Order, info RefundInfo) Breakdown {
	b := Breakdown{
		ShippingFee: clampNonNegative(order.ShippingFee),
	}

	totalPaid := clampNonNegative(order.TotalPaid())
	b.ProductValue = productValue(order, info.SelectedProductIds, totalPaid, b.ShippingFee)
	b.SecondShippingFee = secondShippingFee(order)

	// Customer-proposed view. An undeterminable reason falls into the store
	// branch - kept as the current product behavior, see DESIGN.md.
	b.CustomerReason = entity.RefundReasonStore
	if info.ReasonType != nil && *info.ReasonType == entity.RefundReasonCustomer {
		b.CustomerReason = entity.RefundReasonCustomer
	}
	b.Penalty, b.CustomerTotal = refundTotal(b.CustomerReason, totalPaid, b.ProductValue, b.SecondShippingFee)

	// Staff-confirmed view.
	if reason, ok := staffReason(order); ok {
		b.StaffVerdictFound = true
		b.StaffReason = reason
		b.StaffPenalty, b.StaffTotal = refundTotal(reason, totalPaid, b.ProductValue, b.SecondShippingFee)
		return b
	}

	switch {
	case order.RefundConfirmedAmount != nil:
		b.StaffTotal = clampNonNegative(*order.RefundConfirmedAmount)
	case order.RefundAmount != nil:
		b.StaffTotal = clampNonNegative(*order.RefundAmount)
	default:
		b.StaffTotal = b.CustomerTotal
	}
	return b
}

// refundTotal applies the reason-dependent formula:
//
//	store:    totalPaid + secondShippingFee
//	customer: max(0, totalPaid - secondShippingFee - penalty)
func refundTotal(reason string, totalPaid, productValue, secondShippingFee int64) (penalty, total int64) {
	if reason == entity.RefundReasonCustomer {
		penalty = RoundHalfAwayFromZero(float64(productValue) * PenaltyRate)
		total = totalPaid - secondShippingFee - penalty
		if total < 0 {
			total = 0
		}
		return penalty, total
	}
	return 0, totalPaid + secondShippingFee
}

// productValue sums the selected items, then reconciles against the payment
// actually captured: a voucher discount shows up as a gap between item-level
// value plus shipping and the paid total.
func productValue(order *entity.Order, selected []uuid.UUID, totalPaid, shippingFee int64) int64 {
	selectedSet := make(map[uuid.UUID]struct{}, len(selected))
	for _, id := range selected {
		selectedSet[id] = struct{}{}
	}

	var value int64
	for i := range order.Items {
		item := &order.Items[i]
		if _, ok := selectedSet[item.Id]; !ok {
			continue
		}
		value += clampNonNegative(item.ItemTotal())
	}

	if diff := totalPaid - (value + shippingFee); diff < -reconcileEpsilon || diff > reconcileEpsilon {
		value = totalPaid - shippingFee
	}
	return clampNonNegative(value)
}

// secondShippingFee resolves the return-leg cost advanced by the customer:
// first non-nil of the recorded fee, the legacy return-fee field and the
// carrier estimate, then the original shipping fee.
func secondShippingFee(order *entity.Order) int64 {
	for _, v := range []*int64{
		order.RefundSecondShippingFee,
		order.RefundReturnFee,
		order.EstimatedReturnShippingFee,
	} {
		if v != nil {
			return clampNonNegative(*v)
		}
	}
	return clampNonNegative(order.ShippingFee)
}

// staffReason derives the fault classification from the physical inspection.
// Primary source is the recorded verdict text; legacy orders carry it as the
// trailing unlabelled line of the note.
func staffReason(order *entity.Order) (string, bool) {
	if r, ok := verdictReason(order.StaffInspectionResult); ok {
		return r, true
	}
	return verdictReason(trailingNoteLine(order.Note))
}

func verdictReason(text string) (string, bool) {
	lower := strings.ToLower(text)
	if strings.Contains(lower, constant.VerdictPhraseCustomerFault) {
		return entity.RefundReasonCustomer, true
	}
	if strings.Contains(lower, constant.VerdictPhraseStoreFault) {
		return entity.RefundReasonStore, true
	}
	return "", false
}

// trailingNoteLine returns the last non-empty note line that is not itself a
// labelled field.
func trailingNoteLine(note string) string {
	lines := strings.Split(note, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" || isLabelledLine(line) {
			continue
		}
		return line
	}
	return ""
}

func isLabelledLine(line string) bool {
	for _, label := range []string{
		constant.NoteLabelDescription,
		constant.NoteLabelEmail,
		constant.NoteLabelReturnAddress,
		constant.NoteLabelRefundMethod,
		constant.NoteLabelBank,
		constant.NoteLabelAccountNumber,
		constant.NoteLabelAccountHolder,
		constant.NoteLabelReason,
	} {
		if strings.HasPrefix(line, label) {
			return true
		}
	}
	return false
}

// RoundHalfAwayFromZero rounds at the point each intermediate fee is
// computed, not at the final total, so rounding drift never compounds.
func RoundHalfAwayFromZero(v float64) int64 {
	return int64(math.Round(v))
}

func clampNonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}
