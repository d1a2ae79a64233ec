package domain

import "time"

// ProductCategory is a bilingual product/deal category.
type ProductCategory struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	NameAr    string    `json:"name_ar" form:"name_ar"`
	Sort      int       `json:"sort" form:"sort"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (ProductCategory) TableName() string {
	return "product_category"
}

// Product is a storefront catalog item. Version is incremented on every
// update and backs optimistic concurrency checks in the admin API.
type Product struct {
	ID            int64            `json:"id,string" form:"id"`
	Sku           string           `gorm:"index" json:"sku" form:"sku"`
	Name          string           `gorm:"index" json:"name" form:"name"`
	Description   string           `gorm:"size:4096" json:"description" form:"description"`
	CategoryID    int64            `gorm:"index" json:"category_id,string" form:"category_id"`
	Category      *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Price         float64          `json:"price" form:"price"`
	Stock         *int             `json:"stock,omitempty" form:"stock"`
	Featured      bool             `gorm:"index" json:"featured" form:"featured"`
	CurrentAmount float64          `json:"current_amount" form:"current_amount"`
	TargetAmount  float64          `json:"target_amount" form:"target_amount"`
	Image         string           `gorm:"size:1024" json:"image" form:"image"`
	Version       int64            `json:"version"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "products"
}
