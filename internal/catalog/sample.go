package catalog

// Built-in datasets shown when both the backend and the local cache are
// unavailable. Identifiers are fixed so screenshots and tests stay
// stable across sessions.

func intPtr(v int) *int { return &v }

var sampleCategories = []Category{
	{ID: "cat-electronics", Name: "Electronics", NameAr: "إلكترونيات"},
	{ID: "cat-home", Name: "Home & Kitchen", NameAr: "المنزل والمطبخ"},
	{ID: "cat-fashion", Name: "Fashion", NameAr: "أزياء"},
}

// SampleProducts returns a fresh copy of the built-in product dataset.
func SampleProducts() []Product {
	electronics := sampleCategories[0]
	home := sampleCategories[1]
	fashion := sampleCategories[2]
	return []Product{
		{
			ID: "sample-p1", Sku: "J3A-PH-001", Name: "Smartphone X Pro",
			Description: "Flagship smartphone with a 6.7 inch display and dual SIM.",
			CategoryID:  electronics.ID, Category: &electronics,
			Price: 2499, Stock: intPtr(40), Featured: true,
			Image: "/images/products/smartphone-x-pro.jpg",
		},
		{
			ID: "sample-p2", Sku: "J3A-TV-002", Name: "55\" Smart TV",
			Description: "4K smart TV with built-in streaming apps.",
			CategoryID:  electronics.ID, Category: &electronics,
			Price: 1899, Stock: intPtr(25), Featured: true,
			Image: "/images/products/smart-tv-55.jpg",
		},
		{
			ID: "sample-p3", Sku: "J3A-AC-003", Name: "Split Air Conditioner",
			Description: "1.5 ton inverter split AC rated for desert summers.",
			CategoryID:  home.ID, Category: &home,
			Price: 1599, Stock: intPtr(18), Featured: false,
			Image: "/images/products/split-ac.jpg",
		},
		{
			ID: "sample-p4", Sku: "J3A-KM-004", Name: "Stand Mixer",
			Description: "1000W stand mixer with stainless bowl and three attachments.",
			CategoryID:  home.ID, Category: &home,
			Price: 449, Stock: intPtr(60), Featured: false,
			Image: "/images/products/stand-mixer.jpg",
		},
		{
			ID: "sample-p5", Sku: "J3A-WT-005", Name: "Classic Leather Watch",
			Description: "Minimal analog watch with a genuine leather strap.",
			CategoryID:  fashion.ID, Category: &fashion,
			Price: 299, Stock: intPtr(80), Featured: false,
			Image: "/images/products/leather-watch.jpg",
		},
		{
			ID: "sample-p6", Sku: "J3A-BG-006", Name: "Travel Backpack",
			Description: "35L water-resistant backpack with laptop sleeve.",
			CategoryID:  fashion.ID, Category: &fashion,
			Price: 199, Stock: intPtr(120), Featured: false,
			Image: "/images/products/travel-backpack.jpg",
		},
	}
}

// SampleDeals returns a fresh copy of the built-in deal dataset. All
// entries are active so the storefront landing page is never empty.
func SampleDeals() []Deal {
	electronics := sampleCategories[0]
	home := sampleCategories[1]
	return []Deal{
		{
			ID: "sample-d1", Code: "J3A-SAMPLE1",
			Title: "Smartphone X Pro Jam3a", TitleAr: "جمعة الهاتف الذكي",
			Description:   "Group deal on the Smartphone X Pro.",
			DescriptionAr: "عرض جماعي على الهاتف الذكي",
			CategoryID:    electronics.ID, Category: &electronics,
			RegularPrice: 2499, DealPrice: 1999, DiscountPercent: 20,
			CurrentParticipants: 7, MaxParticipants: 10,
			TimeLeft: "2d 4h", Featured: true,
			Image: "/images/deals/smartphone-jam3a.jpg", Status: "active",
		},
		{
			ID: "sample-d2", Code: "J3A-SAMPLE2",
			Title: "Smart TV Weekend Jam3a", TitleAr: "جمعة التلفاز الذكي",
			Description:   "Weekend group deal on 55 inch smart TVs.",
			DescriptionAr: "عرض نهاية الأسبوع على التلفاز الذكي",
			CategoryID:    electronics.ID, Category: &electronics,
			RegularPrice: 1899, DealPrice: 1499, DiscountPercent: 21,
			CurrentParticipants: 3, MaxParticipants: 8,
			TimeLeft: "1d 12h", Featured: true,
			Image: "/images/deals/tv-jam3a.jpg", Status: "active",
		},
		{
			ID: "sample-d3", Code: "J3A-SAMPLE3",
			Title: "Kitchen Bundle Jam3a", TitleAr: "جمعة المطبخ",
			Description:   "Stand mixer and accessories bundle.",
			DescriptionAr: "حزمة خلاط المطبخ وملحقاته",
			CategoryID:    home.ID, Category: &home,
			RegularPrice: 449, DealPrice: 349, DiscountPercent: 22,
			CurrentParticipants: 12, MaxParticipants: 20,
			TimeLeft: "5d 8h", Featured: false,
			Image: "/images/deals/kitchen-jam3a.jpg", Status: "active",
		},
	}
}

// SampleFeaturedDeals returns the featured subset of the sample deals.
func SampleFeaturedDeals() []Deal {
	var out []Deal
	for _, d := range SampleDeals() {
		if d.Featured {
			out = append(out, d)
		}
	}
	return out
}

// SampleAnalyticsConfig is the default tracking config when nothing has
// been saved yet.
func SampleAnalyticsConfig() map[string]interface{} {
	return map[string]interface{}{
		"provider":    "none",
		"tracking_id": "",
		"enabled":     false,
		"sample_rate": 1.0,
	}
}
