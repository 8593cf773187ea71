package validation

import (
	"strings"
	"unicode"
)

// Visitors must be based in, and sell to, Arabic countries.
var arabicCountries = []string{
	"عمان", "امارات", "امارات متحده عربی", "عربستان", "عربستان سعودی", "سعودی",
	"کویت", "قطر", "بحرین", "یمن", "اردن", "سوریه", "لبنان",
	"عراق", "فلسطین", "مصر", "لیبی", "تونس", "الجزایر", "مراکش", "سودان",
	"oman", "uae", "emirates", "saudi", "kuwait", "qatar", "bahrain", "yemen",
	"jordan", "syria", "lebanon", "iraq", "palestine", "egypt", "libya",
	"tunisia", "algeria", "morocco", "sudan",
}

var iranianTerms = []string{
	"تهران", "مشهد", "اصفهان", "شیراز", "تبریز", "کرج", "اهواز", "قم",
	"کرمانشاه", "ارومیه", "یزد", "زاهدان", "رشت", "کرمان", "همدان",
	"اردبیل", "بندرعباس", "اسلامشهر", "زنجان", "سنندج", "یاسوج",
	"بوشهر", "بیرجند", "شهرکرد", "گرگان", "ساری", "اراک", "بابل",
	"قزوین", "خرمآباد", "سمنان", "کاشان", "گلستان", "سیستان",
	"بلوچستان", "کهگیلویه", "بویراحمد", "ایران", "جمهوری اسلامی",
	"ایرانی", "تهرانی", "مشهدی", "اصفهانی",
	"iran", "iranian", "tehran", "mashhad", "isfahan", "shiraz", "tabriz",
}

// containsAny matches Persian terms as substrings and Latin terms as
// whole words, so "Romania" does not match "oman".
func containsAny(haystack string, needles []string) bool {
	haystack = strings.ToLower(haystack)
	var words map[string]struct{}
	for _, n := range needles {
		n = strings.ToLower(n)
		if !isLatin(n) {
			if strings.Contains(haystack, n) {
				return true
			}
			continue
		}
		if words == nil {
			words = latinWords(haystack)
		}
		if _, ok := words[n]; ok {
			return true
		}
	}
	return false
}

func isLatin(s string) bool {
	for _, r := range s {
		if r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

func latinWords(s string) map[string]struct{} {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	words := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		words[f] = struct{}{}
	}
	return words
}

// IsIranianLocation reports whether location names an Iranian city or the country itself
func IsIranianLocation(location string) bool {
	return containsAny(location, iranianTerms)
}

// IsArabicCountry reports whether location names one of the accepted Arabic countries
func IsArabicCountry(location string) bool {
	return containsAny(location, arabicCountries)
}

// IsAcceptedVisitorLocation is true for Arabic, non-Iranian locations
func IsAcceptedVisitorLocation(location string) bool {
	location = strings.TrimSpace(location)
	if location == "" || IsIranianLocation(location) {
		return false
	}
	return IsArabicCountry(location)
}
