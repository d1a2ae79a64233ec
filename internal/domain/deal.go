package domain

import (
	"fmt"
	"time"
)

const (
	DealStatusActive    = "active"
	DealStatusPending   = "pending"
	DealStatusCompleted = "completed"
	DealStatusCancelled = "cancelled"
)

// Deal is a group-buying campaign (a "Jam3a"): once CurrentParticipants
// reaches MaxParticipants the deal completes and the discount is unlocked.
type Deal struct {
	ID                  int64            `json:"id,string" form:"id"`
	Code                string           `gorm:"uniqueIndex" json:"code" form:"code"`
	Title               string           `gorm:"index" json:"title" form:"title"`
	TitleAr             string           `json:"title_ar" form:"title_ar"`
	Description         string           `gorm:"size:4096" json:"description" form:"description"`
	DescriptionAr       string           `gorm:"size:4096" json:"description_ar" form:"description_ar"`
	CategoryID          int64            `gorm:"index" json:"category_id,string" form:"category_id"`
	Category            *ProductCategory `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	RegularPrice        float64          `json:"regular_price" form:"regular_price"`
	DealPrice           float64          `json:"deal_price" form:"deal_price"`
	DiscountPercent     float64          `json:"discount_percent" form:"discount_percent"`
	CurrentParticipants int              `json:"current_participants" form:"current_participants"`
	MaxParticipants     int              `json:"max_participants" form:"max_participants"`
	ExpiresAt           time.Time        `json:"expires_at" form:"expires_at"`
	Featured            bool             `gorm:"index" json:"featured" form:"featured"`
	Image               string           `gorm:"size:1024" json:"image" form:"image"`
	Status              string           `gorm:"index;size:32" json:"status" form:"status"`
	TimeLeft            string           `gorm:"-" json:"time_left"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// TableName Specify table name
func (Deal) TableName() string {
	return "deals"
}

// FillTimeLeft renders the remaining-time display string relative to now.
func (d *Deal) FillTimeLeft(now time.Time) {
	if d.Status != DealStatusActive || !d.ExpiresAt.After(now) {
		d.TimeLeft = "expired"
		return
	}
	left := d.ExpiresAt.Sub(now)
	days := int(left.Hours()) / 24
	hours := int(left.Hours()) % 24
	mins := int(left.Minutes()) % 60
	switch {
	case days > 0:
		d.TimeLeft = fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		d.TimeLeft = fmt.Sprintf("%dh %dm", hours, mins)
	default:
		d.TimeLeft = fmt.Sprintf("%dm", mins)
	}
}

// ValidDealStatus reports whether s is one of the four deal states.
func ValidDealStatus(s string) bool {
	switch s {
	case DealStatusActive, DealStatusPending, DealStatusCompleted, DealStatusCancelled:
		return true
	}
	return false
}

// ValidDealTransition guards deal state changes: pending may activate,
// active may complete or cancel, completed and cancelled are terminal.
func ValidDealTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case DealStatusPending:
		return to == DealStatusActive || to == DealStatusCancelled
	case DealStatusActive:
		return to == DealStatusCompleted || to == DealStatusCancelled
	}
	return false
}

// DealParticipant records one joined participant. The unique index on
// (deal_id, email) makes joining idempotent per participant.
type DealParticipant struct {
	ID        int64     `json:"id,string"`
	DealID    int64     `gorm:"uniqueIndex:idx_deal_email" json:"deal_id,string"`
	Email     string    `gorm:"uniqueIndex:idx_deal_email;size:256" json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName Specify table name
func (DealParticipant) TableName() string {
	return "deal_participants"
}
