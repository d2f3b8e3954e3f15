package devserver

import (
	"time"

	"storefront/model"
)

// seedCategories are the top-level categories.
func seedCategories() []model.Category {
	return []model.Category{
		{ID: "1", Name: "Electronics"},
		{ID: "2", Name: "Clothing"},
		{ID: "3", Name: "Books"},
		{ID: "4", Name: "Home & Garden"},
	}
}

// seedProducts is the demo catalog.
func seedProducts() []model.Product {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []model.Product{
		{
			ID:          "1",
			Name:        "Wireless Bluetooth Headphones",
			Description: "High-quality wireless headphones with noise cancellation",
			Price:       99.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=Headphones",
			Category:    &model.Category{ID: "1", Name: "Electronics"},
			InStock:     true, StockQuantity: 50, Rating: 4.5,
			Images: []model.ProductImage{{ID: "1", URL: "https://via.placeholder.com/300x300?text=Headphones", AltText: "Wireless Headphones"}},
		},
		{
			ID:          "2",
			Name:        "Smartphone Case",
			Description: "Protective case for smartphones with wireless charging support",
			Price:       24.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=Phone+Case",
			Category:    &model.Category{ID: "1", Name: "Electronics"},
			InStock:     true, StockQuantity: 100, Rating: 4.0,
			Images: []model.ProductImage{{ID: "2", URL: "https://via.placeholder.com/300x300?text=Phone+Case", AltText: "Smartphone Case"}},
		},
		{
			ID:          "3",
			Name:        "Cotton T-Shirt",
			Description: "Comfortable cotton t-shirt available in multiple colors",
			Price:       19.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=T-Shirt",
			Category:    &model.Category{ID: "2", Name: "Clothing"},
			InStock:     true, StockQuantity: 75, Rating: 3.5,
			Images: []model.ProductImage{{ID: "3", URL: "https://via.placeholder.com/300x300?text=T-Shirt", AltText: "Cotton T-Shirt"}},
		},
		{
			ID:          "4",
			Name:        "Programming Book",
			Description: "Learn modern web development with this comprehensive guide",
			Price:       39.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=Programming+Book",
			Category:    &model.Category{ID: "3", Name: "Books"},
			InStock:     true, StockQuantity: 25, Rating: 5.0,
			Images: []model.ProductImage{{ID: "4", URL: "https://via.placeholder.com/300x300?text=Programming+Book", AltText: "Programming Book"}},
		},
		{
			ID:          "5",
			Name:        "Garden Tools Set",
			Description: "Complete set of garden tools for your gardening needs",
			Price:       79.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=Garden+Tools",
			Category:    &model.Category{ID: "4", Name: "Home & Garden"},
			InStock:     true, StockQuantity: 15, Rating: 3.0,
			Images: []model.ProductImage{{ID: "5", URL: "https://via.placeholder.com/300x300?text=Garden+Tools", AltText: "Garden Tools Set"}},
		},
		{
			ID:          "6",
			Name:        "Laptop Stand",
			Description: "Adjustable laptop stand for better ergonomics",
			Price:       49.99,
			ImageURL:    "https://via.placeholder.com/300x300?text=Laptop+Stand",
			Category:    &model.Category{ID: "1", Name: "Electronics"},
			InStock:     true, StockQuantity: 30, Rating: 2.5,
			Images: []model.ProductImage{{ID: "6", URL: "https://via.placeholder.com/300x300?text=Laptop+Stand", AltText: "Laptop Stand"}},
		},
	}
	for i := range products {
		products[i].CreatedAt = base.Add(time.Duration(i) * 24 * time.Hour)
		products[i].UpdatedAt = products[i].CreatedAt
	}
	return products
}

// seedAccounts returns the demo account table.
func seedAccounts() map[string]*account {
	return map[string]*account{
		"user@example.com": {
			password: "password123",
			profile: model.Profile{
				ID:        "u-1",
				Email:     "user@example.com",
				FirstName: "John",
				LastName:  "Doe",
				Roles:     []string{"CUSTOMER"},
				CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			addresses: []model.Address{},
		},
		"admin@example.com": {
			password: "admin123",
			profile: model.Profile{
				ID:        "u-2",
				Email:     "admin@example.com",
				FirstName: "Ada",
				LastName:  "Admin",
				Roles:     []string{"CUSTOMER", "ADMIN"},
				CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			},
			addresses: []model.Address{},
		},
	}
}
