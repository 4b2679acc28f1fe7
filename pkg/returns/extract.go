package returns

import (
	"encoding/json"
	"strings"

	"shopflow-be/internal/constant"
	"shopflow-be/internal/entity"

	"github.com/google/uuid"
)

// RefundInfo is the normalized view of a return request, regardless of
// whether the order carries structured fields or only the legacy note
// encoding.
type RefundInfo struct {
	// ReasonType is "store" or "customer". Nil when it cannot be determined
	// (legacy note without a recognized reason phrase) - the computation
	// engine treats nil as "store".
	ReasonType         *string
	Description        string
	Email              string
	ReturnAddress      string
	RefundMethod       string
	Bank               string
	AccountNumber      string
	AccountHolder      string
	SelectedProductIds []uuid.UUID
	MediaUrls          []string
}

// Extract normalizes the refund request fields out of an order. Structured
// fields are authoritative whenever any of them is present; note-only legacy
// orders fall back to note parsing. Selected product ids default to
// all item ids when absent, undecodable, or disjoint from the actual items.
func Extract(order *entity.Order) RefundInfo {
	var info RefundInfo
	if hasStructuredFields(order) {
		info = extractStructured(order)
	} else {
		info = extractFromNote(order.Note)
	}

	info.SelectedProductIds = normalizeSelection(order, info.SelectedProductIds)
	return info
}

func hasStructuredFields(order *entity.Order) bool {
	return order.RefundReasonType != nil ||
		order.RefundReturnAddress != "" ||
		order.RefundMediaUrls != "" ||
		order.RefundBank != ""
}

func extractStructured(order *entity.Order) RefundInfo {
	info := RefundInfo{
		Description:   order.RefundDescription,
		Email:         order.RefundEmail,
		ReturnAddress: order.RefundReturnAddress,
		RefundMethod:  order.RefundMethod,
		Bank:          order.RefundBank,
		AccountNumber: order.RefundAccountNumber,
		AccountHolder: order.RefundAccountHolder,
	}

	if order.RefundReasonType != nil {
		switch *order.RefundReasonType {
		case entity.RefundReasonStore, entity.RefundReasonCustomer:
			reason := *order.RefundReasonType
			info.ReasonType = &reason
		}
	}

	if order.RefundMediaUrls != "" {
		var urls []string
		if err := json.Unmarshal([]byte(order.RefundMediaUrls), &urls); err == nil {
			info.MediaUrls = urls
		}
	}

	if order.RefundSelectedProductIds != "" {
		var raw []string
		if err := json.Unmarshal([]byte(order.RefundSelectedProductIds), &raw); err == nil {
			for _, s := range raw {
				if id, err := uuid.Parse(s); err == nil {
					info.SelectedProductIds = append(info.SelectedProductIds, id)
				}
			}
		}
	}

	return info
}

// extractFromNote parses the legacy labelled-line encoding. Unlabelled lines
// are matched against the two fixed reason phrases.
func extractFromNote(note string) RefundInfo {
	var info RefundInfo

	for _, line := range strings.Split(note, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, constant.NoteLabelDescription):
			info.Description = labelValue(line, constant.NoteLabelDescription)
		case strings.HasPrefix(line, constant.NoteLabelEmail):
			info.Email = labelValue(line, constant.NoteLabelEmail)
		case strings.HasPrefix(line, constant.NoteLabelReturnAddress):
			info.ReturnAddress = labelValue(line, constant.NoteLabelReturnAddress)
		case strings.HasPrefix(line, constant.NoteLabelRefundMethod):
			info.RefundMethod = labelValue(line, constant.NoteLabelRefundMethod)
		case strings.HasPrefix(line, constant.NoteLabelBank):
			info.Bank = labelValue(line, constant.NoteLabelBank)
		case strings.HasPrefix(line, constant.NoteLabelAccountNumber):
			info.AccountNumber = labelValue(line, constant.NoteLabelAccountNumber)
		case strings.HasPrefix(line, constant.NoteLabelAccountHolder):
			info.AccountHolder = labelValue(line, constant.NoteLabelAccountHolder)
		}
	}

	if reason := ReasonTypeFromText(note); reason != "" {
		info.ReasonType = &reason
	}

	return info
}

// ReasonTypeFromText infers the fault classification from free text by
// substring match against the fixed storefront phrases. Empty when neither
// phrase occurs.
func ReasonTypeFromText(text string) string {
	if strings.Contains(text, constant.NoteReasonPhraseStore) {
		return entity.RefundReasonStore
	}
	if strings.Contains(text, constant.NoteReasonPhraseCustomer) {
		return entity.RefundReasonCustomer
	}
	return ""
}

// NoteReason pulls a "Lý do: ..." line out of a note. Legacy orders carry
// cancellation and rejection reasons this way.
func NoteReason(note string) string {
	for _, line := range strings.Split(note, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, constant.NoteLabelReason) {
			return labelValue(line, constant.NoteLabelReason)
		}
	}
	return ""
}

func labelValue(line, label string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, label))
}

// normalizeSelection enforces the non-empty-subset invariant: the selection
// is intersected with the actual item ids, and an empty result means the
// customer is returning everything.
func normalizeSelection(order *entity.Order, selected []uuid.UUID) []uuid.UUID {
	itemIds := make(map[uuid.UUID]struct{}, len(order.Items))
	for _, item := range order.Items {
		itemIds[item.Id] = struct{}{}
	}

	var kept []uuid.UUID
	for _, id := range selected {
		if _, ok := itemIds[id]; ok {
			kept = append(kept, id)
		}
	}
	if len(kept) > 0 {
		return kept
	}

	all := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		all = append(all, item.Id)
	}
	return all
}
