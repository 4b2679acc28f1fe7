package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"shopflow-be/internal/entity"
)

// ByCode filters orders by the human-facing order code.
type ByCode struct {
	Code string
}

func (s ByCode) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("code = ?", s.Code)
}

// ByCustomer filters orders by owning customer.
type ByCustomer struct {
	CustomerId uuid.UUID
}

func (s ByCustomer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("customer_id = ?", s.CustomerId)
}

// ByStatus filters orders by a single lifecycle status.
type ByStatus struct {
	Status entity.OrderStatus
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

// StatusIn filters orders by a status set, e.g. all return-flow statuses for
// the CS review queue.
type StatusIn struct {
	Statuses []entity.OrderStatus
}

func (s StatusIn) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status IN ?", s.Statuses)
}
