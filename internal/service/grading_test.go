package service

import (
	"testing"

	"lingua_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func question(id uint, correct []uint, wrong []uint) model.Question {
	q := model.Question{BaseModel: model.BaseModel{ID: id}}
	for _, aid := range correct {
		q.Answers = append(q.Answers, model.Answer{BaseModel: model.BaseModel{ID: aid}, Correct: true})
	}
	for _, aid := range wrong {
		q.Answers = append(q.Answers, model.Answer{BaseModel: model.BaseModel{ID: aid}})
	}
	return q
}

func selection(qid uint, answerIDs ...uint) model.AnswerSelection {
	return model.AnswerSelection{QuestionID: qid, SelectedAnswerIDs: answerIDs}
}

func TestGrade(t *testing.T) {
	questions := []model.Question{
		question(1, []uint{11}, []uint{12, 13}),
		question(2, []uint{21, 22}, []uint{23}),
		question(3, []uint{31}, []uint{32}),
		question(4, []uint{41}, []uint{42}),
	}

	tests := []struct {
		name        string
		answers     map[uint]model.AnswerSelection
		passRatio   float64
		wantCorrect int
		wantPassed  bool
	}{
		{
			name: "all correct",
			answers: map[uint]model.AnswerSelection{
				1: selection(1, 11),
				2: selection(2, 21, 22),
				3: selection(3, 31),
				4: selection(4, 41),
			},
			passRatio:   0.5,
			wantCorrect: 4,
			wantPassed:  true,
		},
		{
			name: "exactly at pass ratio",
			answers: map[uint]model.AnswerSelection{
				1: selection(1, 11),
				2: selection(2, 21, 22),
			},
			passRatio:   0.5,
			wantCorrect: 2,
			wantPassed:  true,
		},
		{
			name: "below pass ratio",
			answers: map[uint]model.AnswerSelection{
				1: selection(1, 11),
			},
			passRatio:   0.5,
			wantCorrect: 1,
			wantPassed:  false,
		},
		{
			name: "superset selection fails the question",
			answers: map[uint]model.AnswerSelection{
				2: selection(2, 21, 22, 23),
			},
			passRatio:   0.5,
			wantCorrect: 0,
			wantPassed:  false,
		},
		{
			name: "subset selection fails the question",
			answers: map[uint]model.AnswerSelection{
				2: selection(2, 21),
			},
			passRatio:   0.5,
			wantCorrect: 0,
			wantPassed:  false,
		},
		{
			name: "selection order does not matter",
			answers: map[uint]model.AnswerSelection{
				2: selection(2, 22, 21),
			},
			passRatio:   0.25,
			wantCorrect: 1,
			wantPassed:  true,
		},
		{
			name: "duplicate ids count once",
			answers: map[uint]model.AnswerSelection{
				1: selection(1, 11, 11),
			},
			passRatio:   0.25,
			wantCorrect: 1,
			wantPassed:  true,
		},
		{
			name: "unknown question ids are ignored",
			answers: map[uint]model.AnswerSelection{
				99: selection(99, 11),
			},
			passRatio:   0.5,
			wantCorrect: 0,
			wantPassed:  false,
		},
		{
			name:        "empty answer set",
			answers:     map[uint]model.AnswerSelection{},
			passRatio:   0.5,
			wantCorrect: 0,
			wantPassed:  false,
		},
		{
			name:        "zero pass ratio still needs questions graded",
			answers:     map[uint]model.AnswerSelection{},
			passRatio:   0,
			wantCorrect: 0,
			wantPassed:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Grade(tt.answers, questions, tt.passRatio)
			assert.Equal(t, tt.wantCorrect, got.CorrectCount)
			assert.Equal(t, tt.wantCorrect, got.Mark)
			assert.Equal(t, len(questions), got.TotalQuestions)
			assert.Equal(t, tt.wantPassed, got.Passed)
		})
	}
}

func TestGradeNoQuestions(t *testing.T) {
	got := Grade(map[uint]model.AnswerSelection{}, nil, 0.5)
	assert.Equal(t, 0, got.TotalQuestions)
	assert.False(t, got.Passed)
}

func TestGradeIsDeterministic(t *testing.T) {
	questions := []model.Question{
		question(1, []uint{11}, []uint{12}),
		question(2, []uint{21, 22}, nil),
	}
	answers := map[uint]model.AnswerSelection{
		1: selection(1, 11),
		2: selection(2, 22, 21),
	}

	first := Grade(answers, questions, 0.5)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Grade(answers, questions, 0.5))
	}
}
