package service

import (
	"testing"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/internal/repository/mocks"
	"go-stock-ledger/internal/ws"
	"go-stock-ledger/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newGatewayFixture() (*mocks.MockProductRepository, *mocks.MockTransactionRepository, *inventoryService) {
	mockProducts := new(mocks.MockProductRepository)
	mockTransactions := new(mocks.MockTransactionRepository)
	svc := NewInventoryService(mockProducts, mockTransactions, nil, ws.NewHub()).(*inventoryService)
	return mockProducts, mockTransactions, svc
}

func fieldErrors(t *testing.T, err error) validator.FieldErrors {
	t.Helper()
	fields, ok := err.(validator.FieldErrors)
	require.True(t, ok, "expected per-field validation errors, got %v", err)
	return fields
}

func TestInventoryService_AddProduct(t *testing.T) {
	user := testUser()

	t.Run("creates a product scoped to the user", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()
		mockProducts.On("Create", mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == "Rice" && p.Quantity == 100 && p.UserID == user.ID
		})).Return(nil).Once()

		product, err := svc.AddProduct(user, ProductInput{
			Name:          "  Rice  ", // trimmed before validation
			Quantity:      100,
			PurchasePrice: decimal.NewFromInt(15000),
		})
		require.NoError(t, err)
		assert.Equal(t, "Rice", product.Name)
		mockProducts.AssertExpectations(t)
	})

	t.Run("zero quantity is a field error, nothing created", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()

		_, err := svc.AddProduct(user, ProductInput{
			Name:          "Rice",
			Quantity:      0,
			PurchasePrice: decimal.NewFromInt(15000),
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "quantity")
		mockProducts.AssertNotCalled(t, "Create", mock.Anything)
	})

	t.Run("each invalid field gets its own messages", func(t *testing.T) {
		_, _, svc := newGatewayFixture()
		badURL := "not a url"

		_, err := svc.AddProduct(user, ProductInput{
			Name:          "   ",
			Quantity:      -3,
			PurchasePrice: decimal.NewFromInt(-5),
			ImageURL:      &badURL,
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "name")
		assert.Contains(t, fields, "quantity")
		assert.Contains(t, fields, "purchase_price")
		assert.Contains(t, fields, "image_url")
	})
}

func TestInventoryService_EditProduct(t *testing.T) {
	user := testUser()

	t.Run("overwrites name, quantity and price", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()
		existing := product(user.ID, "Old name", 10)

		mockProducts.On("FindByID", existing.ID).Return(&existing, nil).Once()
		mockProducts.On("Update", mock.MatchedBy(func(p *model.Product) bool {
			return p.Name == "New name" && p.Quantity == 40
		})).Return(nil).Once()

		updated, err := svc.EditProduct(user, existing.ID, ProductInput{
			Name:          "New name",
			Quantity:      40,
			PurchasePrice: decimal.NewFromInt(2000),
		})
		require.NoError(t, err)
		assert.Equal(t, "New name", updated.Name)
		mockProducts.AssertExpectations(t)
	})

	t.Run("someone else's product reads as not found", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()
		other := product(uuid.New(), "Not yours", 10)

		mockProducts.On("FindByID", other.ID).Return(&other, nil).Once()

		_, err := svc.EditProduct(user, other.ID, ProductInput{
			Name:          "Hijack",
			Quantity:      1,
			PurchasePrice: decimal.NewFromInt(1),
		})
		assert.ErrorIs(t, err, ErrProductNotFound)
		mockProducts.AssertNotCalled(t, "Update", mock.Anything)
	})
}

func TestInventoryService_DeleteProduct(t *testing.T) {
	user := testUser()

	t.Run("nonexistent id leaves the store unmodified", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()
		missing := uuid.New()

		mockProducts.On("FindByID", missing).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.DeleteProduct(user, missing)
		assert.ErrorIs(t, err, ErrProductNotFound)
		mockProducts.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("removes the row, transactions survive elsewhere", func(t *testing.T) {
		mockProducts, _, svc := newGatewayFixture()
		existing := product(user.ID, "Rice", 100)

		mockProducts.On("FindByID", existing.ID).Return(&existing, nil).Once()
		mockProducts.On("Delete", existing.ID).Return(nil).Once()

		deleted, err := svc.DeleteProduct(user, existing.ID)
		require.NoError(t, err)
		assert.Equal(t, existing.ID, deleted.ID)
		mockProducts.AssertExpectations(t)
	})
}

func TestInventoryService_CreateTransaction(t *testing.T) {
	user := testUser()

	t.Run("expense without a product", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		mockTransactions.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.Type == model.TxExpense && tx.ProductID == nil && tx.UserID == user.ID
		})).Return(nil).Once()

		created, err := svc.CreateTransaction(user, TransactionInput{
			Name:     "Warehouse rent",
			Amount:   decimal.NewFromInt(500),
			Quantity: 1,
			Type:     model.TxExpense,
		})
		require.NoError(t, err)
		assert.Equal(t, model.TxExpense, created.Type)
		mockTransactions.AssertExpectations(t)
	})

	t.Run("quantity defaults to 1 when unspecified", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		mockTransactions.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.Quantity == 1
		})).Return(nil).Once()

		created, err := svc.CreateTransaction(user, TransactionInput{
			Name:   "Misc expense",
			Amount: decimal.NewFromInt(100),
			Type:   model.TxExpense,
		})
		require.NoError(t, err)
		assert.Equal(t, 1, created.Quantity)
	})

	t.Run("negative quantity is a field error", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()

		_, err := svc.CreateTransaction(user, TransactionInput{
			Name:     "Bad entry",
			Amount:   decimal.NewFromInt(100),
			Quantity: -2,
			Type:     model.TxSale,
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "quantity")
		mockTransactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("type outside the enum is a field error", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()

		_, err := svc.CreateTransaction(user, TransactionInput{
			Name:     "Refund",
			Amount:   decimal.NewFromInt(100),
			Quantity: 1,
			Type:     "REFUND",
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "type")
		mockTransactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("sale without a product skips stock tracking", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		mockTransactions.On("Create", mock.Anything, mock.MatchedBy(func(tx *model.Transaction) bool {
			return tx.Type == model.TxSale && tx.ProductID == nil
		})).Return(nil).Once()

		_, err := svc.CreateTransaction(user, TransactionInput{
			Name:     "Untracked sale",
			Amount:   decimal.NewFromInt(100),
			Quantity: 2,
			Type:     model.TxSale,
		})
		require.NoError(t, err)
		mockTransactions.AssertExpectations(t)
	})
}

// recordSale is the step CreateTransaction runs under the product row lock:
// load FOR UPDATE, check ownership, compare against remaining stock, insert.
func TestInventoryService_RecordSale(t *testing.T) {
	user := testUser()

	sale := func(p *model.Product, quantity int) *model.Transaction {
		tr := &model.Transaction{
			Name:      "Rice sale",
			Amount:    decimal.NewFromInt(1000),
			Quantity:  quantity,
			Type:      model.TxSale,
			ProductID: &p.ID,
			UserID:    user.ID,
		}
		return tr
	}

	t.Run("within remaining stock inserts the sale", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		p := product(user.ID, "Rice", 100)

		mockProducts.On("FindByIDForUpdate", mock.Anything, p.ID).Return(&p, nil).Once()
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(30, nil).Once()
		mockTransactions.On("Create", mock.Anything, mock.MatchedBy(func(tr *model.Transaction) bool {
			return tr.Quantity == 70 && tr.Type == model.TxSale
		})).Return(nil).Once()

		tr := sale(&p, 70)
		require.NoError(t, svc.recordSale(nil, user, tr))
		assert.Equal(t, "Rice", tr.ProductName())
		mockTransactions.AssertExpectations(t)
	})

	t.Run("exceeding remaining stock is a field error, nothing inserted", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		p := product(user.ID, "Rice", 100)

		mockProducts.On("FindByIDForUpdate", mock.Anything, p.ID).Return(&p, nil).Once()
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(30, nil).Once()

		err := svc.recordSale(nil, user, sale(&p, 71))
		fields := fieldErrors(t, err)
		assert.Contains(t, fields, "quantity")
		assert.Contains(t, fields["quantity"][0], "exceeds remaining stock (70)")
		mockTransactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("second sale against exhausted stock fails", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		p := product(user.ID, "Last unit", 1)

		mockProducts.On("FindByIDForUpdate", mock.Anything, p.ID).Return(&p, nil).Twice()
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(0, nil).Once()
		mockTransactions.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

		require.NoError(t, svc.recordSale(nil, user, sale(&p, 1)))

		// the first insert is visible to the second stock read
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(1, nil).Once()

		err := svc.recordSale(nil, user, sale(&p, 1))
		fields := fieldErrors(t, err)
		assert.Contains(t, fields["quantity"][0], "exceeds remaining stock (0)")
		mockTransactions.AssertExpectations(t)
	})

	t.Run("someone else's product reads as not found", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		other := product(uuid.New(), "Not yours", 100)

		mockProducts.On("FindByIDForUpdate", mock.Anything, other.ID).Return(&other, nil).Once()

		assert.ErrorIs(t, svc.recordSale(nil, user, sale(&other, 1)), ErrProductNotFound)
		mockTransactions.AssertNotCalled(t, "SumSaleQuantity", mock.Anything, other.ID)
		mockTransactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing product reads as not found", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		missing := product(user.ID, "Gone", 10)

		mockProducts.On("FindByIDForUpdate", mock.Anything, missing.ID).
			Return(nil, gorm.ErrRecordNotFound).Once()

		assert.ErrorIs(t, svc.recordSale(nil, user, sale(&missing, 1)), ErrProductNotFound)
		mockTransactions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_UpdateTransaction(t *testing.T) {
	user := testUser()

	t.Run("overwrites quantity and amount only", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		existing := model.Transaction{
			Name:     "Warehouse rent",
			Amount:   decimal.NewFromInt(1000),
			Quantity: 2,
			Type:     model.TxExpense,
			UserID:   user.ID,
		}
		existing.ID = uuid.New()

		mockTransactions.On("FindByID", existing.ID).Return(&existing, nil).Once()
		mockTransactions.On("Update", mock.Anything, mock.Anything).Return(nil).Once()

		updated, err := svc.UpdateTransaction(user, existing.ID, TransactionUpdateInput{
			Quantity: 5,
			Amount:   decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
		assert.Equal(t, 5, updated.Quantity)
		assert.True(t, decimal.NewFromInt(1200).Equal(updated.Amount))
		// type is immutable
		assert.Equal(t, model.TxExpense, updated.Type)
	})

	t.Run("absent id fails with not found", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		missing := uuid.New()

		mockTransactions.On("FindByID", missing).Return(nil, gorm.ErrRecordNotFound).Once()

		_, err := svc.UpdateTransaction(user, missing, TransactionUpdateInput{
			Quantity: 1,
			Amount:   decimal.NewFromInt(10),
		})
		assert.ErrorIs(t, err, ErrTransactionNotFound)
	})
}

// applySaleUpdate re-runs the stock gate when a tracked sale's quantity
// changes, with the sale's own units excluded from the sold total.
func TestInventoryService_ApplySaleUpdate(t *testing.T) {
	user := testUser()
	p := product(user.ID, "Rice", 100)

	existingSale := func(quantity int) *model.Transaction {
		tr := &model.Transaction{
			Name:      "Rice sale",
			Amount:    decimal.NewFromInt(1000),
			Quantity:  quantity,
			Type:      model.TxSale,
			ProductID: &p.ID,
			UserID:    user.ID,
		}
		tr.ID = uuid.New()
		return tr
	}

	t.Run("raising within stock persists the new quantity", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		tr := existingSale(10)

		mockProducts.On("FindByIDForUpdate", mock.Anything, p.ID).Return(&p, nil).Once()
		// 40 sold in total, 10 of them are this sale: 70 units are free
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(40, nil).Once()
		mockTransactions.On("Update", mock.Anything, tr).Return(nil).Once()

		err := svc.applySaleUpdate(nil, user, tr, TransactionUpdateInput{
			Quantity: 70,
			Amount:   decimal.NewFromInt(1200),
		})
		require.NoError(t, err)
		assert.Equal(t, 70, tr.Quantity)
		assert.Equal(t, model.TxSale, tr.Type)
		assert.Equal(t, &p.ID, tr.ProductID)
		mockTransactions.AssertExpectations(t)
	})

	t.Run("raising beyond stock is a field error, nothing persisted", func(t *testing.T) {
		mockProducts, mockTransactions, svc := newGatewayFixture()
		tr := existingSale(10)

		mockProducts.On("FindByIDForUpdate", mock.Anything, p.ID).Return(&p, nil).Once()
		mockTransactions.On("SumSaleQuantity", mock.Anything, p.ID).Return(40, nil).Once()

		err := svc.applySaleUpdate(nil, user, tr, TransactionUpdateInput{
			Quantity: 71,
			Amount:   decimal.NewFromInt(1200),
		})
		fields := fieldErrors(t, err)
		assert.Contains(t, fields["quantity"][0], "exceeds remaining stock (70)")
		assert.Equal(t, 10, tr.Quantity)
		mockTransactions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestInventoryService_DeleteTransaction(t *testing.T) {
	user := testUser()

	t.Run("someone else's transaction reads as not found", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		other := model.Transaction{UserID: uuid.New()}
		other.ID = uuid.New()

		mockTransactions.On("FindByID", other.ID).Return(&other, nil).Once()

		err := svc.DeleteTransaction(user, other.ID)
		assert.ErrorIs(t, err, ErrTransactionNotFound)
		mockTransactions.AssertNotCalled(t, "Delete", mock.Anything)
	})

	t.Run("deletes independently of its product", func(t *testing.T) {
		_, mockTransactions, svc := newGatewayFixture()
		existing := model.Transaction{UserID: user.ID}
		existing.ID = uuid.New()

		mockTransactions.On("FindByID", existing.ID).Return(&existing, nil).Once()
		mockTransactions.On("Delete", existing.ID).Return(nil).Once()

		require.NoError(t, svc.DeleteTransaction(user, existing.ID))
		mockTransactions.AssertExpectations(t)
	})
}

func TestInventoryService_ListTransactions(t *testing.T) {
	user := testUser()
	_, mockTransactions, svc := newGatewayFixture()

	rice := product(user.ID, "Rice", 100)
	withProduct := model.Transaction{Name: "Rice sale", Type: model.TxSale, UserID: user.ID, Product: &rice}
	withProduct.ID = uuid.New()
	orphaned := model.Transaction{Name: "Old sale", Type: model.TxSale, UserID: user.ID}
	orphaned.ID = uuid.New()

	mockTransactions.On("ListByUser", user.ID).
		Return([]model.Transaction{withProduct, orphaned}, nil).Once()

	responses, err := svc.ListTransactions(user)
	require.NoError(t, err)
	require.Len(t, responses, 2)

	assert.Equal(t, "Rice", responses[0].ProductName)
	// a dangling product reference renders the sentinel
	assert.Equal(t, model.UnknownProductName, responses[1].ProductName)
}
