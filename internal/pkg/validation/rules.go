package validation

import (
	"math/big"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validation rule patterns
var (
	EmailPattern = `^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`

	// Iranian mobile numbers, with or without the country prefix
	MobilePattern = `^(\+98|0098|98|0)?9\d{9}$`

	// Harmonized System code: 4 digit heading optionally followed by up to three 2 digit groups
	HSCodePattern = `^\d{4}(\.?\d{2}){0,3}$`

	IBANPattern = `^IR\d{24}$`

	PasswordMinLength = 8
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	Email  *regexp.Regexp
	Mobile *regexp.Regexp
	HSCode *regexp.Regexp
	IBAN   *regexp.Regexp
}{
	Email:  regexp.MustCompile(EmailPattern),
	Mobile: regexp.MustCompile(MobilePattern),
	HSCode: regexp.MustCompile(HSCodePattern),
	IBAN:   regexp.MustCompile(IBANPattern),
}

var digitsOnly = regexp.MustCompile(`^\d{10}$`)

// IsEmail checks the lowercase form of s against EmailPattern
func IsEmail(s string) bool {
	return CompiledPatterns.Email.MatchString(strings.ToLower(strings.TrimSpace(s)))
}

// IsMobile accepts 09xxxxxxxxx and its +98 forms
func IsMobile(s string) bool {
	return CompiledPatterns.Mobile.MatchString(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

// IsHSCode reports whether s looks like an HS tariff code
func IsHSCode(s string) bool {
	return CompiledPatterns.HSCode.MatchString(strings.TrimSpace(s))
}

// IsNationalID validates the 10 digit Iranian national code and its check digit.
func IsNationalID(s string) bool {
	s = strings.TrimSpace(s)
	if !digitsOnly.MatchString(s) {
		return false
	}
	if strings.Count(s, s[:1]) == len(s) {
		return false
	}

	sum := 0
	for i := 0; i < 9; i++ {
		sum += int(s[i]-'0') * (10 - i)
	}
	remainder := sum % 11
	check := int(s[9] - '0')

	if remainder < 2 {
		return check == remainder
	}
	return check == 11-remainder
}

// IsIBAN validates an Iranian IBAN (IR + 24 digits) including the mod-97 checksum.
func IsIBAN(s string) bool {
	s = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if !CompiledPatterns.IBAN.MatchString(s) {
		return false
	}

	rearranged := s[4:] + s[:4]
	var numeric strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			numeric.WriteString(big.NewInt(int64(r-'A') + 10).String())
			continue
		}
		numeric.WriteRune(r)
	}

	n, ok := new(big.Int).SetString(numeric.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, big.NewInt(97)).Int64() == 1
}

// RegisterCustomValidators adds the marketplace tags to a validator instance:
// ir_mobile, ir_national_id, ir_iban, hs_code.
func RegisterCustomValidators(v *validator.Validate) error {
	rules := map[string]func(string) bool{
		"ir_mobile":      IsMobile,
		"ir_national_id": IsNationalID,
		"ir_iban":        IsIBAN,
		"hs_code":        IsHSCode,
	}
	for tag, fn := range rules {
		check := fn
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			value := fl.Field().String()
			if value == "" {
				// emptiness is the job of `required`
				return true
			}
			return check(value)
		})
		if err != nil {
			return err
		}
	}
	return nil
}
