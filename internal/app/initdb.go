package app

import (
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/jam3ahq/jam3a/internal/domain"
	"github.com/jam3ahq/jam3a/pkg/common"
)

func (a *Application) checkSuper() {
	const superUsername = "admin"
	const defaultPassword = "jam3a"

	hashedPassword := common.Sha256HashWithSalt(defaultPassword, common.GetSecretSalt())

	var operator domain.SysOpr
	err := a.gormDB.Where("username = ?", superUsername).First(&operator).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := a.gormDB.Create(&domain.SysOpr{
			ID:        common.UUIDint64(),
			Realname:  "administrator",
			Mobile:    "0000",
			Email:     common.NA,
			Username:  superUsername,
			Password:  hashedPassword,
			Level:     "super",
			Status:    common.ENABLED,
			Remark:    "super",
			LastLogin: time.Now(),
		}).Error; err != nil {
			zap.L().Error("failed to create default super admin", zap.Error(err))
		} else {
			zap.L().Info("initialized default super admin account", zap.String("username", superUsername))
		}
		return
	case err != nil:
		zap.L().Error("failed to query super admin", zap.Error(err))
		return
	}

	resetPassword := strings.TrimSpace(operator.Password) == ""
	resetLevel := !strings.EqualFold(operator.Level, "super")
	resetStatus := !strings.EqualFold(operator.Status, common.ENABLED)

	if !resetPassword && !resetLevel && !resetStatus {
		return
	}

	updates := map[string]interface{}{
		"updated_at": time.Now(),
	}
	if resetPassword {
		updates["password"] = hashedPassword
	}
	if resetLevel {
		updates["level"] = "super"
	}
	if resetStatus {
		updates["status"] = common.ENABLED
	}
	if err := a.gormDB.Model(&domain.SysOpr{}).Where("id = ?", operator.ID).Updates(updates).Error; err != nil {
		zap.L().Error("failed to repair super admin account", zap.Error(err))
	}
}

var defaultSettings = []domain.SysConfig{
	{Type: "system", Name: "SiteTitle", Value: "Jam3a", Remark: "Storefront title"},
	{Type: "system", Name: "SiteTitleAr", Value: "جمعة", Remark: "Storefront title (Arabic)"},
	{Type: "system", Name: "DefaultLanguage", Value: "ar", Remark: "Default storefront locale"},
	{Type: "deals", Name: "SweepIntervalSec", Value: "60", Remark: "Deal lifecycle sweep interval"},
	{Type: "deals", Name: "NotifyEmail", Value: "", Remark: "Address notified when a deal completes"},
	{Type: "analytics", Name: "provider", Value: "none", Remark: "Analytics provider"},
	{Type: "analytics", Name: "tracking_id", Value: "", Remark: "Provider tracking id"},
	{Type: "analytics", Name: "enabled", Value: "false", Remark: "Analytics enabled"},
	{Type: "analytics", Name: "sample_rate", Value: "1.0", Remark: "Sampling fraction, 0 to 1"},
}

func (a *Application) checkSettings() {
	for _, item := range defaultSettings {
		var cfg domain.SysConfig
		err := a.gormDB.Where("type = ? and name = ?", item.Type, item.Name).First(&cfg).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			item.ID = common.UUIDint64()
			item.CreatedAt = time.Now()
			item.UpdatedAt = time.Now()
			if cerr := a.gormDB.Create(&item).Error; cerr != nil {
				zap.L().Error("failed to seed setting", zap.String("name", item.Name), zap.Error(cerr))
			}
		}
	}
}

var defaultCategories = []domain.ProductCategory{
	{Name: "Electronics", NameAr: "إلكترونيات", Sort: 1},
	{Name: "Home & Kitchen", NameAr: "المنزل والمطبخ", Sort: 2},
	{Name: "Fashion", NameAr: "أزياء", Sort: 3},
}

func (a *Application) checkCategories() {
	var count int64
	if err := a.gormDB.Model(&domain.ProductCategory{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	for _, item := range defaultCategories {
		item.ID = common.UUIDint64()
		item.CreatedAt = time.Now()
		item.UpdatedAt = time.Now()
		if err := a.gormDB.Create(&item).Error; err != nil {
			zap.L().Error("failed to seed category", zap.String("name", item.Name), zap.Error(err))
		}
	}
	zap.L().Info("seeded default categories", zap.Int("count", len(defaultCategories)))
}

func (a *Application) categoryIDByName(name string) int64 {
	var cat domain.ProductCategory
	if err := a.gormDB.Where("name = ?", name).First(&cat).Error; err != nil {
		return 0
	}
	return cat.ID
}

// checkCatalogRows seeds a small demo catalog so a fresh install renders
// a non-empty storefront. Runs only when both tables are empty.
func (a *Application) checkCatalogRows() {
	var count int64
	if err := a.gormDB.Model(&domain.Product{}).Count(&count).Error; err != nil || count > 0 {
		return
	}

	electronics := a.categoryIDByName("Electronics")
	home := a.categoryIDByName("Home & Kitchen")
	if electronics == 0 || home == 0 {
		return
	}

	now := time.Now()
	stock40, stock25 := 40, 25
	products := []domain.Product{
		{ID: common.UUIDint64(), Sku: "J3A-PH-001", Name: "Smartphone X Pro",
			Description: "Flagship smartphone with a 6.7 inch display and dual SIM.",
			CategoryID:  electronics, Price: 2499, Stock: &stock40, Featured: true,
			Version: 1, CreatedAt: now, UpdatedAt: now},
		{ID: common.UUIDint64(), Sku: "J3A-TV-002", Name: "55\" Smart TV",
			Description: "4K smart TV with built-in streaming apps.",
			CategoryID:  electronics, Price: 1899, Stock: &stock25, Featured: true,
			Version: 1, CreatedAt: now, UpdatedAt: now},
	}
	for i := range products {
		if err := a.gormDB.Create(&products[i]).Error; err != nil {
			zap.L().Error("failed to seed product", zap.String("sku", products[i].Sku), zap.Error(err))
		}
	}

	if err := a.gormDB.Model(&domain.Deal{}).Count(&count).Error; err != nil || count > 0 {
		return
	}
	deal := domain.Deal{
		ID: common.UUIDint64(), Code: "J3A-" + common.UUIDBase36(),
		Title: "Smartphone X Pro Jam3a", TitleAr: "جمعة الهاتف الذكي",
		Description: "Group deal on the Smartphone X Pro.",
		CategoryID:  electronics, RegularPrice: 2499, DealPrice: 1999,
		DiscountPercent: 20, MaxParticipants: 10,
		ExpiresAt: now.Add(7 * 24 * time.Hour), Featured: true,
		Status:    domain.DealStatusActive, CreatedAt: now, UpdatedAt: now,
	}
	if err := a.gormDB.Create(&deal).Error; err != nil {
		zap.L().Error("failed to seed deal", zap.Error(err))
	}
	zap.L().Info("seeded demo catalog rows")
}
