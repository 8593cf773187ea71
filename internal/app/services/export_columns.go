package services

import (
	"github.com/aslmarket/backend/internal/app/models"
	"github.com/aslmarket/backend/internal/pkg/export"
)

var educationColumns = []export.Column[*models.Education]{
	{ID: "id", Label: "شناسه", Value: func(e *models.Education) string { return export.Int(e.ID) }},
	{ID: "title", Label: "عنوان", Value: func(e *models.Education) string { return e.Title }},
	{ID: "description", Label: "توضیحات", Value: func(e *models.Education) string { return e.Description }},
	{ID: "category", Label: "دسته‌بندی", Value: func(e *models.Education) string { return export.Label(export.EducationCategoryLabels, e.Category) }},
	{ID: "level", Label: "سطح", Value: func(e *models.Education) string { return export.Label(export.EducationLevelLabels, e.Level) }},
	{ID: "duration", Label: "مدت (دقیقه)", Value: func(e *models.Education) string { return export.Int(e.Duration) }},
	{ID: "video_url", Label: "لینک ویدیو", Value: func(e *models.Education) string { return e.VideoURL }},
	{ID: "tags", Label: "برچسب‌ها", Value: func(e *models.Education) string { return export.List(e.Tags) }},
	{ID: "status", Label: "وضعیت", Value: func(e *models.Education) string { return export.Label(export.EducationStatusLabels, string(e.Status)) }},
	{ID: "is_free", Label: "رایگان", Value: func(e *models.Education) string { return export.Bool(e.IsFree) }},
	{ID: "price", Label: "قیمت", Value: func(e *models.Education) string { return export.Int(e.Price) }},
	{ID: "views", Label: "بازدید", Value: func(e *models.Education) string { return export.Int(e.Views) }},
	{ID: "likes", Label: "پسند", Value: func(e *models.Education) string { return export.Int(e.Likes) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(e *models.Education) string { return export.Time(e.CreatedAt) }},
}

var supplierColumns = []export.Column[*models.Supplier]{
	{ID: "id", Label: "شناسه", Value: func(s *models.Supplier) string { return export.Int(s.ID) }},
	{ID: "full_name", Label: "نام و نام خانوادگی", Value: func(s *models.Supplier) string { return s.FullName }},
	{ID: "mobile", Label: "موبایل", Value: func(s *models.Supplier) string { return s.Mobile }},
	{ID: "brand_name", Label: "نام برند", Value: func(s *models.Supplier) string { return s.BrandName }},
	{ID: "city", Label: "شهر", Value: func(s *models.Supplier) string { return s.City }},
	{ID: "address", Label: "آدرس", Value: func(s *models.Supplier) string { return s.Address }},
	{ID: "has_registered_business", Label: "کسب‌وکار ثبت‌شده", Value: func(s *models.Supplier) string { return export.Bool(s.HasRegisteredBusiness) }},
	{ID: "has_export_experience", Label: "سابقه صادرات", Value: func(s *models.Supplier) string { return export.Bool(s.HasExportExperience) }},
	{ID: "wholesale_min_price", Label: "حداقل قیمت عمده", Value: func(s *models.Supplier) string { return s.WholesaleMinPrice }},
	{ID: "can_produce_private_label", Label: "تولید با برند اختصاصی", Value: func(s *models.Supplier) string { return export.Bool(s.CanProducePrivateLabel) }},
	{ID: "status", Label: "وضعیت", Value: func(s *models.Supplier) string { return export.Label(export.RegistrationStatusLabels, string(s.Status)) }},
	{ID: "is_featured", Label: "ویژه", Value: func(s *models.Supplier) string { return export.Bool(s.IsFeatured) }},
	{ID: "approved_at", Label: "تاریخ تایید", Value: func(s *models.Supplier) string { return export.TimePtr(s.ApprovedAt) }},
	{ID: "created_at", Label: "تاریخ ثبت", Value: func(s *models.Supplier) string { return export.Time(s.CreatedAt) }},
}

var visitorColumns = []export.Column[*models.Visitor]{
	{ID: "id", Label: "شناسه", Value: func(v *models.Visitor) string { return export.Int(v.ID) }},
	{ID: "full_name", Label: "نام و نام خانوادگی", Value: func(v *models.Visitor) string { return v.FullName }},
	{ID: "mobile", Label: "موبایل", Value: func(v *models.Visitor) string { return v.Mobile }},
	{ID: "email", Label: "ایمیل", Value: func(v *models.Visitor) string { return v.Email }},
	{ID: "city_province", Label: "محل سکونت", Value: func(v *models.Visitor) string { return v.CityProvince }},
	{ID: "destination_cities", Label: "شهرهای مقصد", Value: func(v *models.Visitor) string { return v.DestinationCities }},
	{ID: "language_level", Label: "سطح زبان", Value: func(v *models.Visitor) string { return export.Label(export.LanguageLevelLabels, string(v.LanguageLevel)) }},
	{ID: "has_marketing_experience", Label: "سابقه بازاریابی", Value: func(v *models.Visitor) string { return export.Bool(v.HasMarketingExperience) }},
	{ID: "interested_products", Label: "محصولات مورد علاقه", Value: func(v *models.Visitor) string { return v.InterestedProducts }},
	{ID: "status", Label: "وضعیت", Value: func(v *models.Visitor) string { return export.Label(export.RegistrationStatusLabels, string(v.Status)) }},
	{ID: "is_featured", Label: "ویژه", Value: func(v *models.Visitor) string { return export.Bool(v.IsFeatured) }},
	{ID: "created_at", Label: "تاریخ ثبت", Value: func(v *models.Visitor) string { return export.Time(v.CreatedAt) }},
}

var productColumns = []export.Column[*models.Product]{
	{ID: "id", Label: "شناسه", Value: func(p *models.Product) string { return export.Int(p.ID) }},
	{ID: "name", Label: "نام", Value: func(p *models.Product) string { return p.Name }},
	{ID: "description", Label: "توضیحات", Value: func(p *models.Product) string { return p.Description }},
	{ID: "price", Label: "قیمت", Value: func(p *models.Product) string { return export.Int(p.Price) }},
	{ID: "category", Label: "دسته‌بندی", Value: func(p *models.Product) string { return export.Label(export.ProductCategoryLabels, p.Category) }},
	{ID: "stock", Label: "موجودی", Value: func(p *models.Product) string { return export.Int(p.Stock) }},
	{ID: "status", Label: "وضعیت", Value: func(p *models.Product) string { return export.Label(export.ProductStatusLabels, string(p.Status)) }},
	{ID: "tags", Label: "برچسب‌ها", Value: func(p *models.Product) string { return export.List(p.Tags) }},
	{ID: "discount", Label: "تخفیف (%)", Value: func(p *models.Product) string { return export.Int(p.Discount) }},
	{ID: "sku", Label: "کد کالا", Value: func(p *models.Product) string {
		if p.SKU == nil {
			return ""
		}
		return *p.SKU
	}},
	{ID: "sales", Label: "فروش", Value: func(p *models.Product) string { return export.Int(p.Sales) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(p *models.Product) string { return export.Time(p.CreatedAt) }},
}

// popupRow carries the display status computed at export time
type popupRow struct {
	*models.MarketingPopup
	status models.PopupStatus
}

var popupColumns = []export.Column[popupRow]{
	{ID: "id", Label: "شناسه", Value: func(p popupRow) string { return export.Int(p.ID) }},
	{ID: "title", Label: "عنوان", Value: func(p popupRow) string { return p.Title }},
	{ID: "message", Label: "پیام", Value: func(p popupRow) string { return p.Message }},
	{ID: "discount_url", Label: "لینک تخفیف", Value: func(p popupRow) string { return p.DiscountURL }},
	{ID: "button_text", Label: "متن دکمه", Value: func(p popupRow) string { return p.ButtonText }},
	{ID: "popup_type", Label: "نوع", Value: func(p popupRow) string { return export.Label(export.PopupTypeLabels, p.PopupType) }},
	{ID: "status", Label: "وضعیت", Value: func(p popupRow) string { return export.Label(export.PopupStatusLabels, string(p.status)) }},
	{ID: "start_date", Label: "تاریخ شروع", Value: func(p popupRow) string { return export.TimePtr(p.StartDate) }},
	{ID: "end_date", Label: "تاریخ پایان", Value: func(p popupRow) string { return export.TimePtr(p.EndDate) }},
	{ID: "show_count", Label: "نمایش", Value: func(p popupRow) string { return export.Int(p.ShowCount) }},
	{ID: "click_count", Label: "کلیک", Value: func(p popupRow) string { return export.Int(p.ClickCount) }},
	{ID: "priority", Label: "اولویت", Value: func(p popupRow) string { return export.Int(p.Priority) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(p popupRow) string { return export.Time(p.CreatedAt) }},
}

var notificationColumns = []export.Column[*models.Notification]{
	{ID: "id", Label: "شناسه", Value: func(n *models.Notification) string { return export.Int(n.ID) }},
	{ID: "title", Label: "عنوان", Value: func(n *models.Notification) string { return n.Title }},
	{ID: "message", Label: "پیام", Value: func(n *models.Notification) string { return n.Message }},
	{ID: "type", Label: "نوع", Value: func(n *models.Notification) string { return export.Label(export.NotificationTypeLabels, string(n.Type)) }},
	{ID: "priority", Label: "اولویت", Value: func(n *models.Notification) string { return export.Label(export.PriorityLabels, string(n.Priority)) }},
	{ID: "is_active", Label: "فعال", Value: func(n *models.Notification) string { return export.Bool(n.IsActive) }},
	{ID: "user_id", Label: "کاربر", Value: func(n *models.Notification) string {
		if n.UserID == nil {
			return "همه کاربران"
		}
		return export.IntPtr(n.UserID)
	}},
	{ID: "read_count", Label: "خوانده شده", Value: func(n *models.Notification) string { return export.Int(n.ReadCount) }},
	{ID: "click_count", Label: "کلیک", Value: func(n *models.Notification) string { return export.Int(n.ClickCount) }},
	{ID: "expires_at", Label: "تاریخ انقضا", Value: func(n *models.Notification) string { return export.TimePtr(n.ExpiresAt) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(n *models.Notification) string { return export.Time(n.CreatedAt) }},
}

var userColumns = []export.Column[*models.User]{
	{ID: "id", Label: "شناسه", Value: func(u *models.User) string { return export.Int(u.ID) }},
	{ID: "first_name", Label: "نام", Value: func(u *models.User) string { return u.FirstName }},
	{ID: "last_name", Label: "نام خانوادگی", Value: func(u *models.User) string { return u.LastName }},
	{ID: "email", Label: "ایمیل", Value: func(u *models.User) string { return u.Email }},
	{ID: "phone", Label: "تلفن", Value: func(u *models.User) string { return u.Phone }},
	{ID: "role", Label: "نقش", Value: func(u *models.User) string { return export.Label(export.RoleLabels, string(u.Role)) }},
	{ID: "status", Label: "وضعیت", Value: func(u *models.User) string { return export.Label(export.UserStatusLabels, string(u.Status)) }},
	{ID: "last_login_at", Label: "آخرین ورود", Value: func(u *models.User) string { return export.TimePtr(u.LastLoginAt) }},
	{ID: "created_at", Label: "تاریخ عضویت", Value: func(u *models.User) string { return export.Time(u.CreatedAt) }},
}

var researchProductColumns = []export.Column[*models.ResearchProduct]{
	{ID: "id", Label: "شناسه", Value: func(p *models.ResearchProduct) string { return export.Int(p.ID) }},
	{ID: "name", Label: "نام محصول", Value: func(p *models.ResearchProduct) string { return p.Name }},
	{ID: "hs_code", Label: "کد HS", Value: func(p *models.ResearchProduct) string { return p.HSCode }},
	{ID: "category", Label: "دسته‌بندی", Value: func(p *models.ResearchProduct) string { return p.Category }},
	{ID: "market_demand", Label: "تقاضای بازار", Value: func(p *models.ResearchProduct) string { return export.Label(export.LevelLabels, string(p.MarketDemand)) }},
	{ID: "profit_potential", Label: "پتانسیل سود", Value: func(p *models.ResearchProduct) string { return export.Label(export.LevelLabels, string(p.ProfitPotential)) }},
	{ID: "competition_level", Label: "سطح رقابت", Value: func(p *models.ResearchProduct) string { return export.Label(export.LevelLabels, string(p.CompetitionLevel)) }},
	{ID: "target_countries", Label: "کشورهای هدف", Value: func(p *models.ResearchProduct) string { return p.TargetCountries }},
	{ID: "iran_purchase_price", Label: "قیمت خرید ایران", Value: func(p *models.ResearchProduct) string { return p.IranPurchasePrice }},
	{ID: "target_country_price", Label: "قیمت کشور هدف", Value: func(p *models.ResearchProduct) string { return p.TargetCountryPrice }},
	{ID: "profit_margin", Label: "حاشیه سود", Value: func(p *models.ResearchProduct) string { return p.ProfitMargin }},
	{ID: "export_value", Label: "ارزش صادرات", Value: func(p *models.ResearchProduct) string { return p.ExportValue }},
	{ID: "status", Label: "وضعیت", Value: func(p *models.ResearchProduct) string { return export.Label(export.RegistrationStatusLabels, string(p.Status)) }},
	{ID: "priority", Label: "اولویت", Value: func(p *models.ResearchProduct) string { return export.Int(p.Priority) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(p *models.ResearchProduct) string { return export.Time(p.CreatedAt) }},
}

var matchingColumns = []export.Column[*models.MatchingRequest]{
	{ID: "id", Label: "شناسه", Value: func(r *models.MatchingRequest) string { return export.Int(r.ID) }},
	{ID: "product_name", Label: "محصول", Value: func(r *models.MatchingRequest) string { return r.ProductName }},
	{ID: "quantity", Label: "مقدار", Value: func(r *models.MatchingRequest) string { return r.Quantity + " " + r.Unit }},
	{ID: "destination_countries", Label: "کشورهای مقصد", Value: func(r *models.MatchingRequest) string { return r.DestinationCountries }},
	{ID: "price", Label: "قیمت", Value: func(r *models.MatchingRequest) string { return r.Price + " " + r.Currency }},
	{ID: "status", Label: "وضعیت", Value: func(r *models.MatchingRequest) string { return export.Label(export.MatchingStatusLabels, string(r.Status)) }},
	{ID: "matched_visitor_count", Label: "ویزیتورهای مطابق", Value: func(r *models.MatchingRequest) string { return export.Int(r.MatchedVisitorCount) }},
	{ID: "accepted_visitor_id", Label: "ویزیتور پذیرنده", Value: func(r *models.MatchingRequest) string { return export.IntPtr(r.AcceptedVisitorID) }},
	{ID: "expires_at", Label: "تاریخ انقضا", Value: func(r *models.MatchingRequest) string { return export.Time(r.ExpiresAt) }},
	{ID: "created_at", Label: "تاریخ ایجاد", Value: func(r *models.MatchingRequest) string { return export.Time(r.CreatedAt) }},
}
