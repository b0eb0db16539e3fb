package model

// Test is the reusable definition a test component points at. Attempts read
// from it but never write to it.
//
// swagger:model Test
type Test struct {
	BaseModel
	Name            string     `gorm:"size:100;not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	DurationMinutes int        `gorm:"not null" json:"durationMinutes"`
	MaxAttempts     int        `gorm:"not null;default:1" json:"maxAttempts"`
	CoverImageURL   string     `gorm:"size:255" json:"coverImageUrl"`
	Questions       []Question `gorm:"foreignKey:TestID" json:"questions,omitempty"`
}

func (Test) TableName() string {
	return "tests"
}
