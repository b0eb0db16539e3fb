package service

import (
	"lingua_edu_backend/internal/model"
)

// GradeResult is the outcome of scoring one attempt's answer set.
type GradeResult struct {
	CorrectCount   int  `json:"correctCount"`
	TotalQuestions int  `json:"totalQuestions"`
	Mark           int  `json:"mark"`
	Passed         bool `json:"passed"`
}

// Grade scores a stored answer set against a test's questions. A question is
// correct only when the selected answer ids are exactly the set of correct
// answer ids: missing a correct option or including a wrong one both fail the
// question, and there is no partial credit. Selections for unknown question
// ids are ignored. Pure function; safe to call repeatedly.
func Grade(answers map[uint]model.AnswerSelection, questions []model.Question, passRatio float64) GradeResult {
	correct := 0
	for _, q := range questions {
		if questionCorrect(answers[q.ID].SelectedAnswerIDs, q.Answers) {
			correct++
		}
	}

	total := len(questions)
	return GradeResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		Mark:           correct,
		Passed:         total > 0 && float64(correct)/float64(total) >= passRatio,
	}
}

func questionCorrect(selected []uint, options []model.Answer) bool {
	want := make(map[uint]bool)
	for _, opt := range options {
		if opt.Correct {
			want[opt.ID] = true
		}
	}
	// A question with no correct option is only satisfied by an empty selection.

	got := make(map[uint]bool)
	for _, id := range selected {
		got[id] = true
	}

	if len(got) != len(want) {
		return false
	}
	for id := range got {
		if !want[id] {
			return false
		}
	}
	return true
}
