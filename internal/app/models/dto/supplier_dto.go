package dto

// SupplierProductRequest is one product line of a supplier registration
type SupplierProductRequest struct {
	ProductName          string `json:"productName" binding:"required,max=200"`
	ProductType          string `json:"productType" binding:"required,oneof=food herbal health handicraft industrial home other"`
	Description          string `json:"description" binding:"max=2000"`
	NeedsExportLicense   bool   `json:"needsExportLicense"`
	RequiredLicenseType  string `json:"requiredLicenseType" binding:"max=200"`
	MonthlyProductionMin string `json:"monthlyProductionMin" binding:"max=100"`
}

// SupplierDetails are the editable fields of a registration
type SupplierDetails struct {
	FullName                 string `json:"fullName" binding:"required,max=200"`
	Mobile                   string `json:"mobile" binding:"required,ir_mobile"`
	BrandName                string `json:"brandName" binding:"max=200"`
	ImageURL                 string `json:"imageUrl" binding:"omitempty,url"`
	City                     string `json:"city" binding:"required,max=100"`
	Address                  string `json:"address" binding:"required,max=1000"`
	HasRegisteredBusiness    bool   `json:"hasRegisteredBusiness"`
	BusinessRegistrationNum  string `json:"businessRegistrationNum" binding:"max=100"`
	HasExportExperience      bool   `json:"hasExportExperience"`
	ExportPrice              string `json:"exportPrice" binding:"max=100"`
	WholesaleMinPrice        string `json:"wholesaleMinPrice" binding:"required,max=100"`
	WholesaleHighVolumePrice string `json:"wholesaleHighVolumePrice" binding:"max=100"`
	CanProducePrivateLabel   bool   `json:"canProducePrivateLabel"`
}

// RegisterSupplierRequest registers the signed-in user as a supplier
type RegisterSupplierRequest struct {
	SupplierDetails
	Products []SupplierProductRequest `json:"products" binding:"required,min=1,dive"`
}

// UpdateSupplierRequest edits the signed-in user's registration
type UpdateSupplierRequest struct {
	SupplierDetails
}
