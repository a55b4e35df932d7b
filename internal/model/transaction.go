package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale    TransactionType = "SALE"
	TxExpense TransactionType = "EXPENSE"
)

// UnknownProductName is rendered when a transaction's product reference is
// absent or the product has since been deleted.
const UnknownProductName = "unknown product"

// Transaction is a ledger entry: a SALE decreases derived stock and
// contributes revenue, an EXPENSE is a cost entry not necessarily tied to a
// product. Amount is the unit price, Quantity the count of units.
type Transaction struct {
	BaseModel
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Amount   decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount" validate:"positive_decimal"`
	Quantity int             `gorm:"not null;default:1" json:"quantity" validate:"gt=0"`
	Type     TransactionType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=SALE EXPENSE"`

	ProductID *uuid.UUID `gorm:"type:uuid;index" json:"product_id,omitempty"`
	Product   *Product   `gorm:"foreignKey:ProductID" json:"-" validate:"-"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"-" validate:"-"`
}

// ProductName resolves the joined product name, falling back to the sentinel
// when the reference dangles (product deleted or never set).
func (t *Transaction) ProductName() string {
	if t.Product == nil || t.Product.ID == uuid.Nil {
		return UnknownProductName
	}
	return t.Product.Name
}

// TransactionResponse is the read-side shape with the derived product name
type TransactionResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Amount      decimal.Decimal `json:"amount"`
	Quantity    int             `json:"quantity"`
	Type        TransactionType `json:"type"`
	ProductID   *uuid.UUID      `json:"product_id,omitempty"`
	ProductName string          `json:"product_name"`
	UserID      uuid.UUID       `json:"user_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToResponse converts Transaction to TransactionResponse
func (t *Transaction) ToResponse() TransactionResponse {
	return TransactionResponse{
		ID:          t.ID,
		Name:        t.Name,
		Amount:      t.Amount,
		Quantity:    t.Quantity,
		Type:        t.Type,
		ProductID:   t.ProductID,
		ProductName: t.ProductName(),
		UserID:      t.UserID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}
