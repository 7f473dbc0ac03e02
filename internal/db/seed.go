package db

import (
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/arunkumar2699/kirana-erp/internal/models"
)

// Seed inserts a default admin user and a handful of catalog items for a
// fresh install. Idempotent: existing rows are left alone.
func Seed(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("username = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		admin := models.User{
			Username:     "admin",
			PasswordHash: string(hash),
			FullName:     "Administrator",
			Role:         models.RoleAdmin,
			IsActive:     true,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
	}

	items := []models.Item{
		{ItemCode: "MLK001", Name: "Milk 500ml", Category: "Dairy", Unit: "pkt",
			PurchasePrice: decimal.NewFromInt(22), SellingPrice: decimal.NewFromInt(25),
			MRP: decimal.NewFromInt(26), GSTPercentage: decimal.NewFromInt(5),
			CurrentStock: decimal.NewFromInt(100), MinStockAlert: decimal.NewFromInt(20), IsActive: true},
		{ItemCode: "RIC001", Name: "Rice 1kg", Category: "Grains", Unit: "kg",
			PurchasePrice: decimal.NewFromInt(48), SellingPrice: decimal.NewFromInt(55),
			MRP: decimal.NewFromInt(60), GSTPercentage: decimal.NewFromInt(0),
			CurrentStock: decimal.NewFromInt(80), MinStockAlert: decimal.NewFromInt(10), IsActive: true},
		{ItemCode: "SOP001", Name: "Bath Soap", Category: "Toiletries", Unit: "pc",
			PurchasePrice: decimal.NewFromInt(28), SellingPrice: decimal.NewFromInt(34),
			MRP: decimal.NewFromInt(35), GSTPercentage: decimal.NewFromInt(18),
			CurrentStock: decimal.NewFromInt(50), MinStockAlert: decimal.NewFromInt(12), IsActive: true},
	}
	for _, item := range items {
		var existing models.Item
		err := db.Where("item_code = ?", item.ItemCode).First(&existing).Error
		if err == gorm.ErrRecordNotFound {
			if cerr := db.Create(&item).Error; cerr != nil {
				return cerr
			}
		} else if err != nil {
			return err
		}
	}
	return nil
}
