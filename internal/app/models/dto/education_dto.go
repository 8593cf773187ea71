package dto

// EducationRequest creates or replaces educational content
type EducationRequest struct {
	Title        string   `json:"title" binding:"required,min=5,max=200"`
	Description  string   `json:"description" binding:"required,min=10,max=5000"`
	Category     string   `json:"category" binding:"required,oneof=video article course tutorial documentation other"`
	Level        string   `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Duration     int      `json:"duration" binding:"min=0,max=1000"`
	VideoURL     string   `json:"videoUrl" binding:"omitempty,url"`
	ThumbnailURL string   `json:"thumbnailUrl" binding:"omitempty,url"`
	Content      string   `json:"content" binding:"omitempty,min=50,max=50000"`
	Tags         []string `json:"tags" binding:"max=20,dive,max=50"`
	Status       string   `json:"status" binding:"omitempty,oneof=draft published archived"`
	IsFree       *bool    `json:"isFree"`
	Price        int64    `json:"price" binding:"min=0"`
}

// LikeResponse returns the new like total
type LikeResponse struct {
	Likes int64 `json:"likes"`
}
