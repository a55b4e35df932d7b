package service

import (
	"errors"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MetricsService derives read-only metrics from the ledger. It never writes
// and never substitutes defaults for a missing product. Per-product reads are
// scoped to the caller: someone else's product reads as not found.
type MetricsService interface {
	RemainingQuantity(user model.AuthUser, productID uuid.UUID) (int, error)
	SalePercentage(user model.AuthUser, productID uuid.UUID) (int, error)
	LowStockCount(user model.AuthUser) (int, error)
	NetRevenue(user model.AuthUser) (decimal.Decimal, error)
	TotalRemainingQuantity(user model.AuthUser) (int, error)
	ListProductsWithStock(user model.AuthUser) ([]model.ProductResponse, error)
	DashboardStats(user model.AuthUser) (*DashboardStats, error)
}

// DashboardStats bundles the overview card metrics in one payload
type DashboardStats struct {
	TotalProducts          int64           `json:"total_products"`
	NetRevenue             decimal.Decimal `json:"net_revenue"`
	TotalRemainingQuantity int             `json:"total_remaining_quantity"`
	LowStockCount          int             `json:"low_stock_count"`
}

type metricsService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
}

func NewMetricsService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository) MetricsService {
	return &metricsService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
	}
}

func (s *metricsService) RemainingQuantity(user model.AuthUser, productID uuid.UUID) (int, error) {
	initial, sold, err := s.productSaleFigures(user, productID)
	if err != nil {
		return 0, err
	}
	return RemainingQuantity(initial, sold), nil
}

func (s *metricsService) SalePercentage(user model.AuthUser, productID uuid.UUID) (int, error) {
	initial, sold, err := s.productSaleFigures(user, productID)
	if err != nil {
		return 0, err
	}
	return SalePercentage(initial, sold), nil
}

// productSaleFigures loads the initial stocked quantity and the sold total for
// one of the caller's products.
func (s *metricsService) productSaleFigures(user model.AuthUser, productID uuid.UUID) (initial, sold int, err error) {
	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, ErrProductNotFound
		}
		return 0, 0, err
	}
	if product.UserID != user.ID {
		return 0, 0, ErrProductNotFound
	}

	sold, err = s.transactionRepo.SumSaleQuantity(nil, productID)
	if err != nil {
		return 0, 0, err
	}
	return product.Quantity, sold, nil
}

func (s *metricsService) LowStockCount(user model.AuthUser) (int, error) {
	products, totals, err := s.productsWithSaleTotals(user.ID)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, p := range products {
		if SalePercentage(p.Quantity, totals[p.ID]) >= LowStockThreshold {
			count++
		}
	}
	return count, nil
}

func (s *metricsService) NetRevenue(user model.AuthUser) (decimal.Decimal, error) {
	sales, expenses, err := s.transactionRepo.RevenueSummary(user.ID)
	if err != nil {
		return decimal.Zero, err
	}
	// May be negative: expenses exceeding sales is valid
	return sales.Sub(expenses), nil
}

func (s *metricsService) TotalRemainingQuantity(user model.AuthUser) (int, error) {
	products, totals, err := s.productsWithSaleTotals(user.ID)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, p := range products {
		total += RemainingQuantity(p.Quantity, totals[p.ID])
	}
	return total, nil
}

func (s *metricsService) ListProductsWithStock(user model.AuthUser) ([]model.ProductResponse, error) {
	products, totals, err := s.productsWithSaleTotals(user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.ProductResponse, len(products))
	for i, p := range products {
		remaining := RemainingQuantity(p.Quantity, totals[p.ID])
		percentage := SalePercentage(p.Quantity, totals[p.ID])
		responses[i] = p.ToResponse(remaining, percentage, StockLevelFor(percentage))
	}
	return responses, nil
}

func (s *metricsService) DashboardStats(user model.AuthUser) (*DashboardStats, error) {
	products, totals, err := s.productsWithSaleTotals(user.ID)
	if err != nil {
		return nil, err
	}

	sales, expenses, err := s.transactionRepo.RevenueSummary(user.ID)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		TotalProducts: int64(len(products)),
		NetRevenue:    sales.Sub(expenses),
	}
	for _, p := range products {
		stats.TotalRemainingQuantity += RemainingQuantity(p.Quantity, totals[p.ID])
		if SalePercentage(p.Quantity, totals[p.ID]) >= LowStockThreshold {
			stats.LowStockCount++
		}
	}
	return stats, nil
}

// productsWithSaleTotals fetches a user's products and their sold totals with
// one grouped sum query instead of per-product lookups.
func (s *metricsService) productsWithSaleTotals(userID uuid.UUID) ([]model.Product, map[uuid.UUID]int, error) {
	products, err := s.productRepo.ListByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	totals, err := s.transactionRepo.SaleTotalsByUser(userID)
	if err != nil {
		return nil, nil, err
	}

	return products, totals, nil
}
