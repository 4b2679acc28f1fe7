package shipping

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// ReturnFeeEstimator quotes the return-leg shipping cost the customer
// advances when sending an item back to the warehouse. The carrier
// integration lives outside this service; this estimator is the boundary.
type ReturnFeeEstimator interface {
	EstimateReturnFee(provinceCode string) int64
}

// zoneEstimator is a flat zone table with memoization. Quotes rarely change,
// so a short cache keeps repeated submissions from re-deriving the zone.
type zoneEstimator struct {
	cache *gocache.Cache
}

func NewZoneEstimator() ReturnFeeEstimator {
	return &zoneEstimator{
		cache: gocache.New(30*time.Minute, 10*time.Minute),
	}
}

// Warehouse is in Hồ Chí Minh City; fees grow with distance from it.
var zoneFees = map[string]int64{
	"SG": 18000, // Hồ Chí Minh
	"BD": 22000, // Bình Dương
	"DN": 28000, // Đà Nẵng
	"HN": 35000, // Hà Nội
	"HP": 35000, // Hải Phòng
}

const defaultReturnFee int64 = 30000

func (e *zoneEstimator) EstimateReturnFee(provinceCode string) int64 {
	key := strings.ToUpper(strings.TrimSpace(provinceCode))
	if key == "" {
		return defaultReturnFee
	}

	if v, found := e.cache.Get(key); found {
		return v.(int64)
	}

	fee, ok := zoneFees[key]
	if !ok {
		fee = defaultReturnFee
	}
	e.cache.Set(key, fee, gocache.DefaultExpiration)
	return fee
}
