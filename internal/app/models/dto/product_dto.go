package dto

// ProductRequest creates or replaces a catalogue product
type ProductRequest struct {
	Name        string   `json:"name" binding:"required,min=2,max=100"`
	Description string   `json:"description" binding:"omitempty,min=10,max=2000"`
	Price       int64    `json:"price" binding:"min=0,max=1000000000"`
	Category    string   `json:"category" binding:"required,oneof=education software service subscription license course package other"`
	Stock       int      `json:"stock" binding:"min=0"`
	Status      string   `json:"status" binding:"omitempty,oneof=active inactive out_of_stock"`
	Tags        []string `json:"tags" binding:"max=20,dive,max=50"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,url"`
	Discount    int      `json:"discount" binding:"min=0,max=100"`
	SKU         string   `json:"sku" binding:"max=50"`
}
