package service

import (
	"errors"
	"fmt"
	"strings"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ProductInput carries the validated fields for creating or editing a product
type ProductInput struct {
	Name          string          `json:"name" validate:"required"`
	Quantity      int             `json:"quantity" validate:"gt=0"`
	PurchasePrice decimal.Decimal `json:"purchase_price" validate:"positive_decimal"`
	ImageURL      *string         `json:"image_url" validate:"omitempty,url"`
}

// TransactionInput carries the fields for recording a ledger entry.
// Quantity defaults to 1 when unspecified. ProductID is optional: SALEs
// without one skip stock tracking, EXPENSEs usually have none.
type TransactionInput struct {
	Name      string                `json:"name" validate:"required"`
	Amount    decimal.Decimal       `json:"amount" validate:"positive_decimal"`
	Quantity  int                   `json:"quantity" validate:"gt=0"`
	Type      model.TransactionType `json:"type" validate:"required,oneof=SALE EXPENSE"`
	ProductID *uuid.UUID            `json:"product_id" validate:"-"`
}

// TransactionUpdateInput overwrites quantity and amount only; type and product
// association are immutable after creation.
type TransactionUpdateInput struct {
	Quantity int             `json:"quantity" validate:"gt=0"`
	Amount   decimal.Decimal `json:"amount" validate:"positive_decimal"`
}

// InventoryService is the mutation gateway: every write is validated before it
// touches the store, and validation failures come back as per-field errors.
type InventoryService interface {
	AddProduct(user model.AuthUser, input ProductInput) (*model.Product, error)
	EditProduct(user model.AuthUser, id uuid.UUID, input ProductInput) (*model.Product, error)
	DeleteProduct(user model.AuthUser, id uuid.UUID) (*model.Product, error)
	CreateTransaction(user model.AuthUser, input TransactionInput) (*model.Transaction, error)
	UpdateTransaction(user model.AuthUser, id uuid.UUID, input TransactionUpdateInput) (*model.Transaction, error)
	DeleteTransaction(user model.AuthUser, id uuid.UUID) error
	ListTransactions(user model.AuthUser) ([]model.TransactionResponse, error)
}

type inventoryService struct {
	productRepo     repository.ProductRepository
	transactionRepo repository.TransactionRepository
	db              *gorm.DB
	wsHub           *ws.Hub
}

func NewInventoryService(pRepo repository.ProductRepository, tRepo repository.TransactionRepository, db *gorm.DB, hub *ws.Hub) InventoryService {
	return &inventoryService{
		productRepo:     pRepo,
		transactionRepo: tRepo,
		db:              db,
		wsHub:           hub,
	}
}

func (s *inventoryService) AddProduct(user model.AuthUser, input ProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if errs := validator.ValidateStruct(input); errs != nil {
		return nil, errs
	}

	product := &model.Product{
		Name:          input.Name,
		Quantity:      input.Quantity,
		PurchasePrice: input.PurchasePrice,
		ImageURL:      input.ImageURL,
		UserID:        user.ID,
	}
	if err := s.productRepo.Create(product); err != nil {
		return nil, err
	}

	s.wsHub.Publish("product_created", product)
	return product, nil
}

func (s *inventoryService) EditProduct(user model.AuthUser, id uuid.UUID, input ProductInput) (*model.Product, error) {
	input.Name = strings.TrimSpace(input.Name)
	if errs := validator.ValidateStruct(input); errs != nil {
		return nil, errs
	}

	product, err := s.ownedProduct(user, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Quantity = input.Quantity
	product.PurchasePrice = input.PurchasePrice
	if input.ImageURL != nil {
		product.ImageURL = input.ImageURL
	}
	if err := s.productRepo.Update(product); err != nil {
		return nil, err
	}

	s.wsHub.Publish("product_updated", product)
	return product, nil
}

// DeleteProduct removes the product row only. Its transactions survive with a
// dangling product reference and render the unknown-product sentinel.
func (s *inventoryService) DeleteProduct(user model.AuthUser, id uuid.UUID) (*model.Product, error) {
	product, err := s.ownedProduct(user, id)
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Delete(product.ID); err != nil {
		return nil, err
	}

	s.wsHub.Publish("product_deleted", product)
	return product, nil
}

func (s *inventoryService) CreateTransaction(user model.AuthUser, input TransactionInput) (*model.Transaction, error) {
	if input.Quantity == 0 {
		input.Quantity = 1 // unspecified, not invalid
	}
	input.Name = strings.TrimSpace(input.Name)
	if errs := validator.ValidateStruct(input); errs != nil {
		return nil, errs
	}

	transaction := &model.Transaction{
		Name:      input.Name,
		Amount:    input.Amount,
		Quantity:  input.Quantity,
		Type:      input.Type,
		ProductID: input.ProductID,
		UserID:    user.ID,
	}

	// Sales against a product run inside one transaction holding a row lock,
	// so two concurrent sales cannot both read the same remaining stock.
	if input.Type == model.TxSale && input.ProductID != nil {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.recordSale(tx, user, transaction)
		})
		if err != nil {
			return nil, err
		}
	} else {
		var product *model.Product
		if input.ProductID != nil {
			var err error
			if product, err = s.ownedProduct(user, *input.ProductID); err != nil {
				return nil, err
			}
		}
		if err := s.transactionRepo.Create(nil, transaction); err != nil {
			return nil, err
		}
		transaction.Product = product
	}

	s.wsHub.Publish("transaction_created", transaction)
	return transaction, nil
}

// recordSale checks remaining stock and inserts the sale. It must run on a
// transaction that holds the product row lock, so the sold total it reads
// cannot move before the insert commits.
func (s *inventoryService) recordSale(tx *gorm.DB, user model.AuthUser, transaction *model.Transaction) error {
	product, err := s.lockedOwnedProduct(tx, user, *transaction.ProductID)
	if err != nil {
		return err
	}

	sold, err := s.transactionRepo.SumSaleQuantity(tx, product.ID)
	if err != nil {
		return err
	}

	remaining := RemainingQuantity(product.Quantity, sold)
	if transaction.Quantity > remaining {
		errs := validator.FieldErrors{}
		errs.Add("quantity", fmt.Sprintf("exceeds remaining stock (%d)", remaining))
		return errs
	}

	if err := s.transactionRepo.Create(tx, transaction); err != nil {
		return err
	}
	transaction.Product = product // for the read-side product name
	return nil
}

func (s *inventoryService) UpdateTransaction(user model.AuthUser, id uuid.UUID, input TransactionUpdateInput) (*model.Transaction, error) {
	if errs := validator.ValidateStruct(input); errs != nil {
		return nil, errs
	}

	transaction, err := s.ownedTransaction(user, id)
	if err != nil {
		return nil, err
	}

	// A quantity change on a tracked sale goes back through the stock gate,
	// under the same row lock as creation.
	if transaction.Type == model.TxSale && transaction.ProductID != nil {
		err := s.db.Transaction(func(tx *gorm.DB) error {
			return s.applySaleUpdate(tx, user, transaction, input)
		})
		if err != nil {
			return nil, err
		}
	} else {
		transaction.Quantity = input.Quantity
		transaction.Amount = input.Amount
		if err := s.transactionRepo.Update(nil, transaction); err != nil {
			return nil, err
		}
	}

	s.wsHub.Publish("transaction_updated", transaction)
	return transaction, nil
}

// applySaleUpdate re-runs the stock check with this sale's own quantity
// excluded from the sold total, then persists the new quantity and amount.
func (s *inventoryService) applySaleUpdate(tx *gorm.DB, user model.AuthUser, transaction *model.Transaction, input TransactionUpdateInput) error {
	product, err := s.lockedOwnedProduct(tx, user, *transaction.ProductID)
	if err != nil {
		return err
	}

	sold, err := s.transactionRepo.SumSaleQuantity(tx, product.ID)
	if err != nil {
		return err
	}

	available := RemainingQuantity(product.Quantity, sold-transaction.Quantity)
	if input.Quantity > available {
		errs := validator.FieldErrors{}
		errs.Add("quantity", fmt.Sprintf("exceeds remaining stock (%d)", available))
		return errs
	}

	transaction.Quantity = input.Quantity
	transaction.Amount = input.Amount
	return s.transactionRepo.Update(tx, transaction)
}

func (s *inventoryService) DeleteTransaction(user model.AuthUser, id uuid.UUID) error {
	transaction, err := s.ownedTransaction(user, id)
	if err != nil {
		return err
	}

	if err := s.transactionRepo.Delete(transaction.ID); err != nil {
		return err
	}

	s.wsHub.Publish("transaction_deleted", transaction)
	return nil
}

func (s *inventoryService) ListTransactions(user model.AuthUser) ([]model.TransactionResponse, error) {
	transactions, err := s.transactionRepo.ListByUser(user.ID)
	if err != nil {
		return nil, err
	}

	responses := make([]model.TransactionResponse, len(transactions))
	for i := range transactions {
		responses[i] = transactions[i].ToResponse()
	}
	return responses, nil
}

// lockedOwnedProduct loads a product FOR UPDATE on tx, scoped to the caller.
// Rows owned by someone else read as not found.
func (s *inventoryService) lockedOwnedProduct(tx *gorm.DB, user model.AuthUser, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByIDForUpdate(tx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.UserID != user.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

// ownedProduct loads a product scoped to the caller. Rows owned by someone
// else read as not found.
func (s *inventoryService) ownedProduct(user model.AuthUser, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if product.UserID != user.ID {
		return nil, ErrProductNotFound
	}
	return product, nil
}

func (s *inventoryService) ownedTransaction(user model.AuthUser, id uuid.UUID) (*model.Transaction, error) {
	transaction, err := s.transactionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	if transaction.UserID != user.ID {
		return nil, ErrTransactionNotFound
	}
	return transaction, nil
}
