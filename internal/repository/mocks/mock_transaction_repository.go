package mocks

import (
	"go-stock-ledger/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(tx *gorm.DB, t *model.Transaction) error {
	args := m.Called(tx, t)
	if t != nil && args.Error(0) == nil && t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockTransactionRepository) FindByID(id uuid.UUID) (*model.Transaction, error) {
	args := m.Called(id)
	if t := args.Get(0); t != nil {
		return t.(*model.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) ListByUser(userID uuid.UUID) ([]model.Transaction, error) {
	args := m.Called(userID)
	if t := args.Get(0); t != nil {
		return t.([]model.Transaction), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) Update(tx *gorm.DB, t *model.Transaction) error {
	args := m.Called(tx, t)
	return args.Error(0)
}

func (m *MockTransactionRepository) Delete(id uuid.UUID) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockTransactionRepository) SumSaleQuantity(tx *gorm.DB, productID uuid.UUID) (int, error) {
	args := m.Called(tx, productID)
	return args.Int(0), args.Error(1)
}

func (m *MockTransactionRepository) SaleTotalsByUser(userID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(userID)
	if totals := args.Get(0); totals != nil {
		return totals.(map[uuid.UUID]int), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockTransactionRepository) RevenueSummary(userID uuid.UUID) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(userID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}
