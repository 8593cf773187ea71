package models

import "time"

// ProductStatus is the sale state of a catalogue product
type ProductStatus string

const (
	ProductActive     ProductStatus = "active"
	ProductInactive   ProductStatus = "inactive"
	ProductOutOfStock ProductStatus = "out_of_stock"
)

// IsValid reports whether s is a known product status
func (s ProductStatus) IsValid() bool {
	switch s {
	case ProductActive, ProductInactive, ProductOutOfStock:
		return true
	}
	return false
}

// Product is a sellable catalogue entry
type Product struct {
	ID          int64         `json:"id" db:"id"`
	Name        string        `json:"name" db:"name"`
	Description string        `json:"description" db:"description"`
	Price       int64         `json:"price" db:"price"`
	Category    string        `json:"category" db:"category"`
	Stock       int           `json:"stock" db:"stock"`
	Status      ProductStatus `json:"status" db:"status"`
	Tags        []string      `json:"tags" db:"tags"`
	ImageURL    string        `json:"imageUrl" db:"image_url"`
	Discount    int           `json:"discount" db:"discount"`
	SKU         *string       `json:"sku,omitempty" db:"sku"`
	Sales       int64         `json:"sales" db:"sales"`
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`
}

// NormalizeStock stores an active product without stock as out of stock
func (p *Product) NormalizeStock() {
	if p.Status == ProductActive && p.Stock == 0 {
		p.Status = ProductOutOfStock
	}
}
