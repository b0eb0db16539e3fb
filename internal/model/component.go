package model

type ComponentKind string

const (
	ComponentWord      ComponentKind = "word"
	ComponentParagraph ComponentKind = "paragraph"
	ComponentTest      ComponentKind = "test"
)

// Component is a positioned content unit inside a lesson. Exactly one of
// WordID, TestID or Content is meaningful depending on Kind.
//
// swagger:model Component
type Component struct {
	BaseModel
	LessonID      uint          `gorm:"index;not null" json:"lessonId"`
	Kind          ComponentKind `gorm:"size:20;not null" json:"kind"`
	IndexInLesson int           `gorm:"default:0;index" json:"indexInLesson"`
	Content       string        `gorm:"type:text" json:"content,omitempty"`
	WordID        *uint         `gorm:"index" json:"wordId,omitempty"`
	Word          *Word         `gorm:"foreignKey:WordID" json:"word,omitempty"`
	TestID        *uint         `gorm:"index" json:"testId,omitempty"`
	Test          *Test         `gorm:"foreignKey:TestID" json:"test,omitempty"`
}

func (Component) TableName() string {
	return "components"
}
