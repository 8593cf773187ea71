package models

import "time"

// EducationStatus is the publication state of educational content
type EducationStatus string

const (
	EducationDraft     EducationStatus = "draft"
	EducationPublished EducationStatus = "published"
	EducationArchived  EducationStatus = "archived"
)

// IsValid reports whether s is a known education status
func (s EducationStatus) IsValid() bool {
	switch s {
	case EducationDraft, EducationPublished, EducationArchived:
		return true
	}
	return false
}

// Education is a piece of training content
type Education struct {
	ID           int64           `json:"id" db:"id"`
	Title        string          `json:"title" db:"title"`
	Description  string          `json:"description" db:"description"`
	Category     string          `json:"category" db:"category"`
	Level        string          `json:"level" db:"level"`
	Duration     int             `json:"duration" db:"duration"`
	VideoURL     string          `json:"videoUrl" db:"video_url"`
	ThumbnailURL string          `json:"thumbnailUrl" db:"thumbnail_url"`
	Content      string          `json:"content" db:"content"`
	Tags         []string        `json:"tags" db:"tags"`
	Status       EducationStatus `json:"status" db:"status"`
	IsFree       bool            `json:"isFree" db:"is_free"`
	Price        int64           `json:"price" db:"price"`
	Views        int64           `json:"views" db:"views"`
	Likes        int64           `json:"likes" db:"likes"`
	CreatedBy    *int64          `json:"createdBy,omitempty" db:"created_by"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
}
