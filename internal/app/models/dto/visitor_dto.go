package dto

// RegisterVisitorRequest registers the signed-in user as a visitor
type RegisterVisitorRequest struct {
	FullName                      string `json:"fullName" binding:"required,max=200"`
	NationalID                    string `json:"nationalId" binding:"required,ir_national_id"`
	PassportNumber                string `json:"passportNumber" binding:"max=50"`
	BirthDate                     string `json:"birthDate" binding:"required,max=20"`
	Mobile                        string `json:"mobile" binding:"required,ir_mobile"`
	WhatsappNumber                string `json:"whatsappNumber" binding:"max=20"`
	Email                         string `json:"email" binding:"omitempty,email"`
	ResidenceAddress              string `json:"residenceAddress" binding:"required,max=1000"`
	CityProvince                  string `json:"cityProvince" binding:"required,max=200"`
	DestinationCities             string `json:"destinationCities" binding:"required,max=1000"`
	HasLocalContact               bool   `json:"hasLocalContact"`
	LocalContactDetails           string `json:"localContactDetails" binding:"max=1000"`
	BankAccountIBAN               string `json:"bankAccountIban" binding:"required,ir_iban"`
	BankName                      string `json:"bankName" binding:"required,max=100"`
	AccountHolderName             string `json:"accountHolderName" binding:"max=200"`
	HasMarketingExperience        bool   `json:"hasMarketingExperience"`
	MarketingExperienceDesc       string `json:"marketingExperienceDesc" binding:"max=2000"`
	LanguageLevel                 string `json:"languageLevel" binding:"required,oneof=excellent good weak none"`
	SpecialSkills                 string `json:"specialSkills" binding:"max=2000"`
	InterestedProducts            string `json:"interestedProducts" binding:"max=2000"`
	AgreesToUseApprovedProducts   bool   `json:"agreesToUseApprovedProducts"`
	AgreesToViolationConsequences bool   `json:"agreesToViolationConsequences"`
	AgreesToSubmitReports         bool   `json:"agreesToSubmitReports"`
	DigitalSignature              string `json:"digitalSignature" binding:"required"`
	SignatureDate                 string `json:"signatureDate" binding:"required,max=20"`
}
