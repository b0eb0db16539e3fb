package model

import (
	"encoding/json"
)

type AttemptStatus string

const (
	AttemptFailed AttemptStatus = "failed"
	AttemptPassed AttemptStatus = "passed"
)

// AnswerSelection is one question's stored selection inside an attempt,
// keyed by question id in the answers JSON column.
type AnswerSelection struct {
	QuestionID        uint   `json:"question_id"`
	SelectedAnswerIDs []uint `json:"selected_answer_ids"`
	IsDraft           bool   `json:"is_draft"`
}

// TestAttempt is one user's run at a test component. The time budget is
// anchored to CreatedAt; once Submitted is set the record never changes.
//
// swagger:model TestAttempt
type TestAttempt struct {
	BaseModel
	UserID        uint          `gorm:"index;not null" json:"userId"`
	ComponentID   uint          `gorm:"index;not null" json:"componentId"`
	AttemptNumber int           `gorm:"not null" json:"attemptNumber"`
	Answers       string        `gorm:"type:json" json:"-"`
	Mark          int           `gorm:"default:0" json:"mark"`
	Status        AttemptStatus `gorm:"size:20;default:'failed'" json:"status"`
	Submitted     bool          `gorm:"default:false;index" json:"submitted"`
}

func (TestAttempt) TableName() string {
	return "test_attempts"
}

// AnswerMap decodes the answers column. An empty column decodes to an empty
// map, never nil.
func (a *TestAttempt) AnswerMap() (map[uint]AnswerSelection, error) {
	out := make(map[uint]AnswerSelection)
	if a.Answers == "" {
		return out, nil
	}
	if err := json.Unmarshal([]byte(a.Answers), &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *TestAttempt) SetAnswerMap(m map[uint]AnswerSelection) error {
	raw, err := json.Marshal(m)
	if err != nil {
		return err
	}
	a.Answers = string(raw)
	return nil
}
