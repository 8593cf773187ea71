package models

import "time"

// LanguageLevel is a visitor's self-declared Arabic/English level
type LanguageLevel string

const (
	LanguageExcellent LanguageLevel = "excellent"
	LanguageGood      LanguageLevel = "good"
	LanguageWeak      LanguageLevel = "weak"
	LanguageNone      LanguageLevel = "none"
)

// Visitor is a field agent in an Arabic country who answers matching requests
type Visitor struct {
	ID                      int64              `json:"id" db:"id"`
	UserID                  int64              `json:"userId" db:"user_id"`
	FullName                string             `json:"fullName" db:"full_name"`
	NationalID              string             `json:"nationalId" db:"national_id"`
	PassportNumber          string             `json:"passportNumber" db:"passport_number"`
	BirthDate               string             `json:"birthDate" db:"birth_date"`
	Mobile                  string             `json:"mobile" db:"mobile"`
	WhatsappNumber          string             `json:"whatsappNumber" db:"whatsapp_number"`
	Email                   string             `json:"email" db:"email"`
	ResidenceAddress        string             `json:"residenceAddress" db:"residence_address"`
	CityProvince            string             `json:"cityProvince" db:"city_province"`
	DestinationCities       string             `json:"destinationCities" db:"destination_cities"`
	HasLocalContact         bool               `json:"hasLocalContact" db:"has_local_contact"`
	LocalContactDetails     string             `json:"localContactDetails" db:"local_contact_details"`
	BankAccountIBAN         string             `json:"bankAccountIban" db:"bank_account_iban"`
	BankName                string             `json:"bankName" db:"bank_name"`
	AccountHolderName       string             `json:"accountHolderName" db:"account_holder_name"`
	HasMarketingExperience  bool               `json:"hasMarketingExperience" db:"has_marketing_experience"`
	MarketingExperienceDesc string             `json:"marketingExperienceDesc" db:"marketing_experience_desc"`
	LanguageLevel           LanguageLevel      `json:"languageLevel" db:"language_level"`
	SpecialSkills           string             `json:"specialSkills" db:"special_skills"`
	InterestedProducts      string             `json:"interestedProducts" db:"interested_products"`
	AgreesToUseApproved     bool               `json:"agreesToUseApprovedProducts" db:"agrees_to_use_approved_products"`
	AgreesToViolations      bool               `json:"agreesToViolationConsequences" db:"agrees_to_violation_consequences"`
	AgreesToSubmitReports   bool               `json:"agreesToSubmitReports" db:"agrees_to_submit_reports"`
	DigitalSignature        string             `json:"digitalSignature" db:"digital_signature"`
	SignatureDate           string             `json:"signatureDate" db:"signature_date"`
	Status                  RegistrationStatus `json:"status" db:"status"`
	AdminNotes              string             `json:"adminNotes" db:"admin_notes"`
	ApprovedAt              *time.Time         `json:"approvedAt,omitempty" db:"approved_at"`
	ApprovedBy              *int64             `json:"approvedBy,omitempty" db:"approved_by"`
	IsFeatured              bool               `json:"isFeatured" db:"is_featured"`
	CreatedAt               time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt               time.Time          `json:"updatedAt" db:"updated_at"`
}
