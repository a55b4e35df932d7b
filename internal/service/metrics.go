package service

import (
	"math"

	"go-stock-ledger/internal/model"
)

// LowStockThreshold is the sale percentage at or above which a product counts
// as low stock.
const LowStockThreshold = 90

// RemainingQuantity derives the live stock level from the initial stocked
// amount and the units sold. Never negative, even when oversold.
func RemainingQuantity(initial, sold int) int {
	if remaining := initial - sold; remaining > 0 {
		return remaining
	}
	return 0
}

// SalePercentage is the share of the initial stock already sold, rounded and
// clamped to [0, 100]. A product stocked with zero quantity reads as 0.
func SalePercentage(initial, sold int) int {
	if initial <= 0 {
		return 0
	}
	percentage := int(math.Round(float64(sold) * 100 / float64(initial)))
	if percentage > 100 {
		return 100
	}
	if percentage < 0 {
		return 0
	}
	return percentage
}

// StockLevelFor buckets a sale percentage. The low-stock threshold wins over
// in-stock below 100%; exactly 100% is out of stock.
func StockLevelFor(percentage int) string {
	switch {
	case percentage == 100:
		return model.StockLevelOutOfStock
	case percentage >= LowStockThreshold:
		return model.StockLevelLow
	default:
		return model.StockLevelInStock
	}
}
