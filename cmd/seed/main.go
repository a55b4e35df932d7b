package main

import (
	"log"

	"go-stock-ledger/internal/model"
	"go-stock-ledger/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, relying on system env")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	db.AutoMigrate(&model.User{}, &model.Product{}, &model.Transaction{})

	// 3. Demo user
	user := model.User{
		Email: "demo@example.com",
		Name:  "Demo User",
	}
	if err := db.Where("email = ?", user.Email).FirstOrCreate(&user).Error; err != nil {
		log.Fatalf("❌ Failed to create demo user: %v", err)
	}

	// 4. Demo products
	products := []model.Product{
		{Name: "Bag of rice", Quantity: 100, PurchasePrice: decimal.NewFromInt(15000), ImageURL: strPtr("https://example.com/rice.jpg"), UserID: user.ID},
		{Name: "Carton of milk", Quantity: 50, PurchasePrice: decimal.NewFromInt(8000), ImageURL: strPtr("https://example.com/milk.jpg"), UserID: user.ID},
		{Name: "Bottle of oil", Quantity: 200, PurchasePrice: decimal.NewFromInt(1200), ImageURL: strPtr("https://example.com/oil.jpg"), UserID: user.ID},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create product %q: %v", products[i].Name, err)
		}
	}

	// 5. A few ledger entries against the first product
	rice := products[0]
	transactions := []model.Transaction{
		{Name: rice.Name, Amount: decimal.NewFromInt(18000), Quantity: 30, Type: model.TxSale, ProductID: &rice.ID, UserID: user.ID},
		{Name: "Warehouse rent", Amount: decimal.NewFromInt(50000), Quantity: 1, Type: model.TxExpense, UserID: user.ID},
	}
	for i := range transactions {
		if err := db.Create(&transactions[i]).Error; err != nil {
			log.Fatalf("❌ Failed to create transaction %q: %v", transactions[i].Name, err)
		}
	}

	log.Printf("✅ Seeded %d products and %d transactions for %s", len(products), len(transactions), user.Email)
}
