package model

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint        `gorm:"index;not null" json:"courseId"`
	Title       string      `gorm:"size:200;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	Position    int         `gorm:"default:0;index" json:"position"`
	CreatorID   uint        `gorm:"index" json:"creatorId"`
	Components  []Component `gorm:"foreignKey:LessonID" json:"components,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}
