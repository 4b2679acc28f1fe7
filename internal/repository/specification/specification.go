package specification

import "gorm.io/gorm"

// Specification narrows a query. Repositories compose any number of them,
// so list filters, ordering and pagination all share one shape.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}
