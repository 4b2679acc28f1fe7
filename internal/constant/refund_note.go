package constant

// Labelled-line prefixes used by the legacy free-text note encoding of a
// return request. Pre-migration orders only carry this encoding; the
// extractor keeps parsing it for read compatibility.
const (
	NoteLabelDescription   = "Mô tả:"
	NoteLabelEmail         = "Email:"
	NoteLabelReturnAddress = "Địa chỉ gửi hàng:"
	NoteLabelRefundMethod  = "Phương thức hoàn tiền:"
	NoteLabelBank          = "Ngân hàng:"
	NoteLabelAccountNumber = "Số tài khoản:"
	NoteLabelAccountHolder = "Chủ tài khoản:"
	NoteLabelReason        = "Lý do:"
)

// Fixed reason phrases the storefront UI writes into the note. The reason
// type is inferred by substring match against these.
const (
	NoteReasonPhraseStore    = "Sản phẩm gặp sự cố từ cửa hàng"
	NoteReasonPhraseCustomer = "Thay đổi nhu cầu / Mua nhầm"
)

// Phrases the warehouse inspection verdict is matched against when the staff
// view re-derives the fault classification.
const (
	VerdictPhraseCustomerFault = "lỗi khách hàng"
	VerdictPhraseStoreFault    = "lỗi cửa hàng"
)
