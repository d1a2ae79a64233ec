package domain

import "time"

// Customer represents a storefront customer record managed by the admin
// panel. Language holds the preferred storefront locale (ar or en).
type Customer struct {
	ID        int64     `json:"id,string" form:"id"`
	Name      string    `gorm:"index" json:"name" form:"name"`
	Email     string    `gorm:"index" json:"email" form:"email"`
	Mobile    string    `json:"mobile" form:"mobile"`
	City      string    `json:"city" form:"city"`
	Country   string    `json:"country" form:"country"`
	Language  string    `gorm:"size:8" json:"language" form:"language"`
	Remark    string    `json:"remark" form:"remark"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName Specify table name
func (Customer) TableName() string {
	return "customers"
}
