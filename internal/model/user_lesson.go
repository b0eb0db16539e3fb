package model

import "time"

// UserLesson tracks which lessons a user has opened or completed.
//
// swagger:model UserLesson
type UserLesson struct {
	BaseModel
	UserID      uint       `gorm:"index:idx_user_lesson,unique;not null" json:"userId"`
	LessonID    uint       `gorm:"index:idx_user_lesson,unique;not null" json:"lessonId"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (UserLesson) TableName() string {
	return "user_lessons"
}
