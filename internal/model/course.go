package model

// swagger:model Course
type Course struct {
	BaseModel
	Title           string   `gorm:"size:200;not null" json:"title"`
	Description     string   `gorm:"type:text" json:"description"`
	DurationMinutes int      `gorm:"default:0" json:"durationMinutes"`
	CoverImageURL   string   `gorm:"size:255" json:"coverImageUrl"`
	CreatorID       uint     `gorm:"index" json:"creatorId"`
	Creator         *User    `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Lessons         []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}
