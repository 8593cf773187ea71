package export

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is used for every exported timestamp
const DateLayout = "2006-01-02 15:04"

// Label translates v through labels, leaving unknown values untouched
func Label(labels map[string]string, v string) string {
	if l, ok := labels[v]; ok {
		return l
	}
	return v
}

// Bool renders a flag as بله / خیر
func Bool(b bool) string {
	if b {
		return "بله"
	}
	return "خیر"
}

// Time formats t, empty for the zero time
func Time(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

// TimePtr formats an optional timestamp
func TimePtr(t *time.Time) string {
	if t == nil {
		return ""
	}
	return Time(*t)
}

// Int formats an integer
func Int[N ~int | ~int32 | ~int64](n N) string {
	return strconv.FormatInt(int64(n), 10)
}

// IntPtr formats an optional id
func IntPtr(n *int64) string {
	if n == nil {
		return ""
	}
	return strconv.FormatInt(*n, 10)
}

// List joins tags with a Persian comma
func List(items []string) string {
	return strings.Join(items, "، ")
}

// Persian labels shared by several export types
var (
	EducationCategoryLabels = map[string]string{
		"video":         "ویدیو",
		"article":       "مقاله",
		"course":        "دوره",
		"tutorial":      "آموزش",
		"documentation": "مستندات",
		"other":         "سایر",
	}
	EducationLevelLabels = map[string]string{
		"beginner":     "مبتدی",
		"intermediate": "متوسط",
		"advanced":     "پیشرفته",
	}
	EducationStatusLabels = map[string]string{
		"draft":     "پیش‌نویس",
		"published": "منتشر شده",
		"archived":  "بایگانی شده",
	}
	RegistrationStatusLabels = map[string]string{
		"pending":   "در انتظار بررسی",
		"approved":  "تایید شده",
		"rejected":  "رد شده",
		"suspended": "تعلیق شده",
		"active":    "فعال",
		"inactive":  "غیرفعال",
	}
	ProductStatusLabels = map[string]string{
		"active":       "فعال",
		"inactive":     "غیرفعال",
		"out_of_stock": "ناموجود",
	}
	ProductCategoryLabels = map[string]string{
		"education":    "آموزش",
		"software":     "نرم‌افزار",
		"service":      "خدمات",
		"subscription": "اشتراک",
		"license":      "لایسنس",
		"course":       "دوره",
		"package":      "پکیج",
		"other":        "سایر",
	}
	NotificationTypeLabels = map[string]string{
		"info":     "اطلاعات",
		"success":  "موفقیت",
		"warning":  "هشدار",
		"error":    "خطا",
		"matching": "مچینگ",
		"system":   "سیستم",
		"email":    "ایمیل",
		"sms":      "پیامک",
		"telegram": "تلگرام",
		"push":     "پوش",
	}
	PriorityLabels = map[string]string{
		"low":    "کم",
		"normal": "عادی",
		"high":   "بالا",
		"urgent": "فوری",
	}
	PopupStatusLabels = map[string]string{
		"active":    "فعال",
		"inactive":  "غیرفعال",
		"scheduled": "زمان‌بندی شده",
	}
	PopupTypeLabels = map[string]string{
		"modal":    "مودال",
		"banner":   "بنر",
		"toast":    "توست",
		"slide_in": "کشویی",
	}
	UserStatusLabels = map[string]string{
		"active":   "فعال",
		"inactive": "غیرفعال",
		"banned":   "مسدود",
	}
	RoleLabels = map[string]string{
		"user":  "کاربر",
		"admin": "مدیر",
	}
	LevelLabels = map[string]string{
		"high":   "بالا",
		"medium": "متوسط",
		"low":    "پایین",
	}
	LanguageLevelLabels = map[string]string{
		"excellent": "عالی",
		"good":      "خوب",
		"weak":      "ضعیف",
		"none":      "ندارد",
	}
	MatchingStatusLabels = map[string]string{
		"pending":   "در انتظار",
		"active":    "فعال",
		"accepted":  "پذیرفته شده",
		"expired":   "منقضی شده",
		"cancelled": "لغو شده",
		"completed": "تکمیل شده",
	}
)
