package models

import (
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"
)

// LicenseType selects the plan and its length
type LicenseType string

const (
	LicensePlus  LicenseType = "plus"
	LicensePlus4 LicenseType = "plus4"
	LicensePro   LicenseType = "pro"
)

// DurationMonths is how long the plan runs after activation
func (t LicenseType) DurationMonths() int {
	switch t {
	case LicensePro:
		return 30
	case LicensePlus4:
		return 4
	case LicensePlus:
		return 12
	}
	return 0
}

// IsValid reports whether t is a known plan
func (t LicenseType) IsValid() bool {
	return t.DurationMonths() > 0
}

// License is a one-time activation code for a paid plan
type License struct {
	ID          int64       `json:"id" db:"id"`
	Code        string      `json:"code" db:"code"`
	Type        LicenseType `json:"type" db:"type"`
	Duration    int         `json:"duration" db:"duration"`
	IsUsed      bool        `json:"isUsed" db:"is_used"`
	UsedBy      *int64      `json:"usedBy,omitempty" db:"used_by"`
	UsedAt      *time.Time  `json:"usedAt,omitempty" db:"used_at"`
	ExpiresAt   *time.Time  `json:"expiresAt,omitempty" db:"expires_at"`
	GeneratedBy *int64      `json:"generatedBy,omitempty" db:"generated_by"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time   `json:"updatedAt" db:"updated_at"`
}

// ActiveAt reports whether the license is activated and not yet expired
func (l *License) ActiveAt(now time.Time) bool {
	return l.IsUsed && l.ExpiresAt != nil && now.Before(*l.ExpiresAt)
}

// Activate binds the license to userID, starting its term at now
func (l *License) Activate(userID int64, now time.Time) {
	expires := now.AddDate(0, l.Duration, 0)
	l.IsUsed = true
	l.UsedBy = &userID
	l.UsedAt = &now
	l.ExpiresAt = &expires
}

// NewLicenseCode returns a random code shaped ASL-XXXX-XXXX-XXXX-XXXX
func NewLicenseCode() (string, error) {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	h := strings.ToUpper(hex.EncodeToString(buf))
	return "ASL-" + h[0:4] + "-" + h[4:8] + "-" + h[8:12] + "-" + h[12:16], nil
}

// NormalizeLicenseCode trims and upper-cases a code typed by a user
func NormalizeLicenseCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
