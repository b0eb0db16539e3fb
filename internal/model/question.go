package model

// swagger:model Question
type Question struct {
	BaseModel
	TestID   uint     `gorm:"index;not null" json:"testId"`
	Body     string   `gorm:"type:text;not null" json:"body"`
	Position int      `gorm:"default:0" json:"position"`
	Answers  []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Answer
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Body       string `gorm:"type:text;not null" json:"body"`
	Correct    bool   `gorm:"default:false" json:"correct"`
	Position   int    `gorm:"default:0" json:"position"`
}

func (Answer) TableName() string {
	return "answers"
}
