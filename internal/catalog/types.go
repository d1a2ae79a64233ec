package catalog

// Wire types for the storefront data layer. Identifiers travel as
// strings regardless of how the backend stores them. Older backends
// emit Mongo style "_id" keys, newer ones plain "id"; both are accepted
// and normalized onto ID after decode.

type Category struct {
	ID       string `json:"id"`
	LegacyID string `json:"_id,omitempty"`
	Name     string `json:"name"`
	NameAr   string `json:"name_ar,omitempty"`
}

type Product struct {
	ID            string    `json:"id"`
	LegacyID      string    `json:"_id,omitempty"`
	Sku           string    `json:"sku,omitempty"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"category_id,omitempty"`
	Category      *Category `json:"category,omitempty"`
	Price         float64   `json:"price"`
	Stock         *int      `json:"stock,omitempty"`
	Featured      bool      `json:"featured"`
	CurrentAmount float64   `json:"current_amount,omitempty"`
	TargetAmount  float64   `json:"target_amount,omitempty"`
	Image         string    `json:"image,omitempty"`
	Version       int64     `json:"version,omitempty"`
	CreatedAt     string    `json:"created_at,omitempty"`
	UpdatedAt     string    `json:"updated_at,omitempty"`
}

type Deal struct {
	ID                  string    `json:"id"`
	LegacyID            string    `json:"_id,omitempty"`
	Code                string    `json:"code"`
	Title               string    `json:"title"`
	TitleAr             string    `json:"title_ar,omitempty"`
	Description         string    `json:"description,omitempty"`
	DescriptionAr       string    `json:"description_ar,omitempty"`
	CategoryID          string    `json:"category_id,omitempty"`
	Category            *Category `json:"category,omitempty"`
	RegularPrice        float64   `json:"regular_price"`
	DealPrice           float64   `json:"deal_price"`
	DiscountPercent     float64   `json:"discount_percent"`
	CurrentParticipants int       `json:"current_participants"`
	MaxParticipants     int       `json:"max_participants"`
	TimeLeft            string    `json:"time_left,omitempty"`
	ExpiresAt           string    `json:"expires_at,omitempty"`
	Featured            bool      `json:"featured"`
	Image               string    `json:"image,omitempty"`
	Status              string    `json:"status"`
}

// ProductInput carries the writable fields for create and import.
type ProductInput struct {
	Sku           string  `json:"sku,omitempty"`
	Name          string  `json:"name"`
	Description   string  `json:"description"`
	CategoryID    string  `json:"category_id"`
	Price         float64 `json:"price"`
	Stock         *int    `json:"stock,omitempty"`
	Featured      bool    `json:"featured"`
	CurrentAmount float64 `json:"current_amount,omitempty"`
	TargetAmount  float64 `json:"target_amount,omitempty"`
	Image         string  `json:"image,omitempty"`
}

// ProductPatch is a partial update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	CategoryID  *string  `json:"category_id,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Featured    *bool    `json:"featured,omitempty"`
	Image       *string  `json:"image,omitempty"`
	Version     *int64   `json:"version,omitempty"`
}

// Apply merges the patch into a product in place.
func (p ProductPatch) Apply(target *Product) {
	if p.Name != nil {
		target.Name = *p.Name
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.CategoryID != nil {
		target.CategoryID = *p.CategoryID
	}
	if p.Price != nil {
		target.Price = *p.Price
	}
	if p.Stock != nil {
		stock := *p.Stock
		target.Stock = &stock
	}
	if p.Featured != nil {
		target.Featured = *p.Featured
	}
	if p.Image != nil {
		target.Image = *p.Image
	}
	if p.Version != nil {
		target.Version = *p.Version
	}
}

func (c *Category) normalize() {
	if c != nil && c.ID == "" {
		c.ID = c.LegacyID
	}
}

func (p *Product) normalize() {
	if p.ID == "" {
		p.ID = p.LegacyID
	}
	p.Category.normalize()
	if p.CategoryID == "" && p.Category != nil {
		p.CategoryID = p.Category.ID
	}
}

func (d *Deal) normalize() {
	if d.ID == "" {
		d.ID = d.LegacyID
	}
	d.Category.normalize()
	if d.CategoryID == "" && d.Category != nil {
		d.CategoryID = d.Category.ID
	}
}

func normalizeProducts(rows []Product) {
	for i := range rows {
		rows[i].normalize()
	}
}

func normalizeDeals(rows []Deal) {
	for i := range rows {
		rows[i].normalize()
	}
}
