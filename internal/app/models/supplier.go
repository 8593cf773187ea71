package models

import "time"

// ProductType classifies what a supplier produces
type ProductType string

const (
	ProductTypeFood       ProductType = "food"
	ProductTypeHerbal     ProductType = "herbal"
	ProductTypeHealth     ProductType = "health"
	ProductTypeHandicraft ProductType = "handicraft"
	ProductTypeIndustrial ProductType = "industrial"
	ProductTypeHome       ProductType = "home"
	ProductTypeOther      ProductType = "other"
)

// Supplier is a vendor registration, subject to admin approval
type Supplier struct {
	ID                       int64              `json:"id" db:"id"`
	UserID                   int64              `json:"userId" db:"user_id"`
	FullName                 string             `json:"fullName" db:"full_name"`
	Mobile                   string             `json:"mobile" db:"mobile"`
	BrandName                string             `json:"brandName" db:"brand_name"`
	ImageURL                 string             `json:"imageUrl" db:"image_url"`
	City                     string             `json:"city" db:"city"`
	Address                  string             `json:"address" db:"address"`
	HasRegisteredBusiness    bool               `json:"hasRegisteredBusiness" db:"has_registered_business"`
	BusinessRegistrationNum  string             `json:"businessRegistrationNum" db:"business_registration_num"`
	BusinessDocumentPath     string             `json:"businessDocumentPath" db:"business_document_path"`
	HasExportExperience      bool               `json:"hasExportExperience" db:"has_export_experience"`
	ExportPrice              string             `json:"exportPrice" db:"export_price"`
	WholesaleMinPrice        string             `json:"wholesaleMinPrice" db:"wholesale_min_price"`
	WholesaleHighVolumePrice string             `json:"wholesaleHighVolumePrice" db:"wholesale_high_volume_price"`
	CanProducePrivateLabel   bool               `json:"canProducePrivateLabel" db:"can_produce_private_label"`
	Status                   RegistrationStatus `json:"status" db:"status"`
	AdminNotes               string             `json:"adminNotes" db:"admin_notes"`
	ApprovedAt               *time.Time         `json:"approvedAt,omitempty" db:"approved_at"`
	ApprovedBy               *int64             `json:"approvedBy,omitempty" db:"approved_by"`
	IsFeatured               bool               `json:"isFeatured" db:"is_featured"`
	CreatedAt                time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt                time.Time          `json:"updatedAt" db:"updated_at"`

	Products []SupplierProduct `json:"products,omitempty"`
}

// SupplierProduct is one product line a supplier declared at registration
type SupplierProduct struct {
	ID                   int64       `json:"id" db:"id"`
	SupplierID           int64       `json:"supplierId" db:"supplier_id"`
	ProductName          string      `json:"productName" db:"product_name"`
	ProductType          ProductType `json:"productType" db:"product_type"`
	Description          string      `json:"description" db:"description"`
	NeedsExportLicense   bool        `json:"needsExportLicense" db:"needs_export_license"`
	RequiredLicenseType  string      `json:"requiredLicenseType" db:"required_license_type"`
	MonthlyProductionMin string      `json:"monthlyProductionMin" db:"monthly_production_min"`
	CreatedAt            time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time   `json:"updatedAt" db:"updated_at"`
}
