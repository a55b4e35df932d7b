package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked item. Quantity is the initial stocked amount, not the
// live stock level; the remaining quantity is derived from SALE transactions.
type Product struct {
	BaseModel
	Name          string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"gt=0"`
	PurchasePrice decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"purchase_price" validate:"positive_decimal"`
	ImageURL      *string         `gorm:"type:text" json:"image_url,omitempty" validate:"omitempty,url"`

	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   *User     `gorm:"foreignKey:UserID" json:"-" validate:"-"`

	Transactions []Transaction `json:"transactions,omitempty" validate:"-"`
}

// StockLevel buckets derived from the sale percentage
const (
	StockLevelInStock    = "in_stock"
	StockLevelLow        = "low_stock"
	StockLevelOutOfStock = "out_of_stock"
)

// ProductResponse carries a product together with its derived stock metrics
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Name              string          `json:"name"`
	Quantity          int             `json:"quantity"`
	PurchasePrice     decimal.Decimal `json:"purchase_price"`
	ImageURL          *string         `json:"image_url,omitempty"`
	UserID            uuid.UUID       `json:"user_id"`
	RemainingQuantity int             `json:"remaining_quantity"`
	SalePercentage    int             `json:"sale_percentage"`
	StockLevel        string          `json:"stock_level"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToResponse converts Product to ProductResponse with its derived metrics
func (p *Product) ToResponse(remaining, percentage int, level string) ProductResponse {
	return ProductResponse{
		ID:                p.ID,
		Name:              p.Name,
		Quantity:          p.Quantity,
		PurchasePrice:     p.PurchasePrice,
		ImageURL:          p.ImageURL,
		UserID:            p.UserID,
		RemainingQuantity: remaining,
		SalePercentage:    percentage,
		StockLevel:        level,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
