package repository

import (
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionRepository interface {
	Create(tx *gorm.DB, t *model.Transaction) error
	FindByID(id uuid.UUID) (*model.Transaction, error)
	ListByUser(userID uuid.UUID) ([]model.Transaction, error)
	Update(tx *gorm.DB, t *model.Transaction) error
	Delete(id uuid.UUID) error
	SumSaleQuantity(tx *gorm.DB, productID uuid.UUID) (int, error)
	SaleTotalsByUser(userID uuid.UUID) (map[uuid.UUID]int, error)
	RevenueSummary(userID uuid.UUID) (sales, expenses decimal.Decimal, err error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// Create accepts an optional tx so the sale path can write its ledger entry
// inside the same transaction that holds the product row lock.
func (r *transactionRepo) Create(tx *gorm.DB, t *model.Transaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Create(t).Error
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Product").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) ListByUser(userID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// Update accepts an optional tx for the same reason Create does.
func (r *transactionRepo) Update(tx *gorm.DB, t *model.Transaction) error {
	db := r.db
	if tx != nil {
		db = tx
	}
	return db.Save(t).Error
}

func (r *transactionRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Transaction{}, "id = ?", id).Error
}

// SumSaleQuantity sums the units sold for one product. Runs on the caller's
// tx when provided, so the sale path reads under its row lock.
func (r *transactionRepo) SumSaleQuantity(tx *gorm.DB, productID uuid.UUID) (int, error) {
	db := r.db
	if tx != nil {
		db = tx
	}

	var total int
	err := db.Model(&model.Transaction{}).
		Where("product_id = ? AND type = ?", productID, model.TxSale).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&total).Error
	return total, err
}

// SaleTotalsByUser returns units sold per product in one grouped query,
// avoiding N+1 lookups when deriving metrics across a user's products.
func (r *transactionRepo) SaleTotalsByUser(userID uuid.UUID) (map[uuid.UUID]int, error) {
	rows, err := r.db.Model(&model.Transaction{}).
		Select("product_id, COALESCE(SUM(quantity), 0) as total_sold").
		Where("user_id = ? AND type = ? AND product_id IS NOT NULL", userID, model.TxSale).
		Group("product_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	totals := make(map[uuid.UUID]int)
	for rows.Next() {
		var productID uuid.UUID
		var sold int
		if err := rows.Scan(&productID, &sold); err != nil {
			return nil, err
		}
		totals[productID] = sold
	}
	return totals, rows.Err()
}

// RevenueSummary returns the SALE and EXPENSE totals (amount * quantity) for a
// user as two grouped sums.
func (r *transactionRepo) RevenueSummary(userID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	var sales decimal.Decimal
	err := r.db.Model(&model.Transaction{}).
		Where("user_id = ? AND type = ?", userID, model.TxSale).
		Select("COALESCE(SUM(amount * quantity), 0)").
		Scan(&sales).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	var expenses decimal.Decimal
	err = r.db.Model(&model.Transaction{}).
		Where("user_id = ? AND type = ?", userID, model.TxExpense).
		Select("COALESCE(SUM(amount * quantity), 0)").
		Scan(&expenses).Error
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}

	return sales, expenses, nil
}
