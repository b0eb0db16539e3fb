package service

import (
	"strings"
	"testing"

	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestInput() TestInput {
	return TestInput{
		Name:            "Unit one checkpoint",
		Description:     "Covers the first unit",
		DurationMinutes: 20,
		MaxAttempts:     2,
		Questions: []QuestionInput{
			{
				Body: "Pick the greeting",
				Answers: []AnswerInput{
					{Body: "hello", Correct: true},
					{Body: "table"},
				},
			},
		},
	}
}

func TestTestInputValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*TestInput)
		wantErr string
	}{
		{"valid", func(in *TestInput) {}, ""},
		{"name too short", func(in *TestInput) { in.Name = "short" }, "between 10 and 100"},
		{"name too long", func(in *TestInput) { in.Name = strings.Repeat("x", 101) }, "between 10 and 100"},
		{"zero duration", func(in *TestInput) { in.DurationMinutes = 0 }, "duration must be positive"},
		{"negative duration", func(in *TestInput) { in.DurationMinutes = -5 }, "duration must be positive"},
		{"zero attempts", func(in *TestInput) { in.MaxAttempts = 0 }, "at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validTestInput()
			tt.mutate(&input)
			err := validateTestInput(input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestTestCreateNested(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(repository.NewTestRepository(db), nil)

	created, err := svc.Create(validTestInput())
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	loaded, err := svc.Get(created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Questions, 1)
	require.Len(t, loaded.Questions[0].Answers, 2)
	assert.True(t, loaded.Questions[0].Answers[0].Correct)
}

func TestTestUpdateReplacesQuestions(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(repository.NewTestRepository(db), nil)

	created, err := svc.Create(validTestInput())
	require.NoError(t, err)

	input := validTestInput()
	input.Questions = []QuestionInput{
		{Body: "New question one", Answers: []AnswerInput{{Body: "a", Correct: true}}},
		{Body: "New question two", Answers: []AnswerInput{{Body: "b", Correct: true}, {Body: "c"}}},
	}
	updated, err := svc.Update(created.ID, input)
	require.NoError(t, err)
	require.Len(t, updated.Questions, 2)
	assert.Equal(t, "New question one", updated.Questions[0].Body)
}

func TestTestGetMissing(t *testing.T) {
	db := newTestDB(t)
	svc := NewTestService(repository.NewTestRepository(db), nil)

	_, err := svc.Get(12345)
	assert.ErrorIs(t, err, util.ErrTestNotFound)
}
