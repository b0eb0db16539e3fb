package service

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/database"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testDBCounter int64

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:attempts%d?mode=memory&cache=shared", atomic.AddInt64(&testDBCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

type scheduledCall struct {
	fireAt    time.Time
	attemptID uint
}

type fakeScheduler struct {
	calls []scheduledCall
}

func (f *fakeScheduler) Schedule(fireAt time.Time, attemptID uint) error {
	f.calls = append(f.calls, scheduledCall{fireAt: fireAt, attemptID: attemptID})
	return nil
}

// fixture wires an attempt service against an in-memory database with a
// controllable clock and a recording scheduler.
type fixture struct {
	db     *gorm.DB
	svc    *AttemptService
	sched  *fakeScheduler
	clock  *time.Time
	user   model.User
	lesson model.Lesson
	comp   model.Component
	test   model.Test
}

// newFixture seeds one course, one lesson and a 30 minute test with two
// questions: q1 has one correct option, q2 has two.
func newFixture(t *testing.T, maxAttempts int) *fixture {
	t.Helper()
	db := newTestDB(t)

	user := model.User{Name: "Student", Email: "student@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, db.Create(&user).Error)

	course := model.Course{Title: "Beginner English"}
	require.NoError(t, db.Create(&course).Error)

	lesson := model.Lesson{CourseID: course.ID, Title: "Greetings", Position: 1}
	require.NoError(t, db.Create(&lesson).Error)

	test := model.Test{
		Name:            "Greetings checkpoint",
		DurationMinutes: 30,
		MaxAttempts:     maxAttempts,
		Questions: []model.Question{
			{
				Body:     "Pick the greeting",
				Position: 0,
				Answers: []model.Answer{
					{Body: "hello", Correct: true, Position: 0},
					{Body: "table", Position: 1},
					{Body: "seven", Position: 2},
				},
			},
			{
				Body:     "Pick both verbs",
				Position: 1,
				Answers: []model.Answer{
					{Body: "run", Correct: true, Position: 0},
					{Body: "jump", Correct: true, Position: 1},
					{Body: "blue", Position: 2},
				},
			},
		},
	}
	require.NoError(t, db.Create(&test).Error)

	comp := model.Component{LessonID: lesson.ID, Kind: model.ComponentTest, IndexInLesson: 0, TestID: &test.ID}
	require.NoError(t, db.Create(&comp).Error)

	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	sched := &fakeScheduler{}
	svc := NewAttemptService(
		repository.NewTestAttemptRepository(db),
		repository.NewLessonRepository(db),
		repository.NewComponentRepository(db),
		sched,
		&config.Config{Grading: config.GradingConfig{PassRatio: 0.5}},
	)
	clock := &now
	svc.now = func() time.Time { return *clock }

	// Reload the test so answer ids are populated.
	var loaded model.Test
	require.NoError(t, db.Preload("Questions.Answers").First(&loaded, test.ID).Error)

	return &fixture{db: db, svc: svc, sched: sched, clock: clock, user: user, lesson: lesson, comp: comp, test: loaded}
}

func (f *fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

// correctAnswers builds a full-marks submission.
func (f *fixture) correctAnswers() []AnswerSubmission {
	var subs []AnswerSubmission
	for _, q := range f.test.Questions {
		var ids []uint
		for _, a := range q.Answers {
			if a.Correct {
				ids = append(ids, a.ID)
			}
		}
		subs = append(subs, AnswerSubmission{QuestionID: q.ID, SelectedAnswerIDs: ids})
	}
	return subs
}

// partialAnswers answers only the first question correctly.
func (f *fixture) partialAnswers() []AnswerSubmission {
	q := f.test.Questions[0]
	var ids []uint
	for _, a := range q.Answers {
		if a.Correct {
			ids = append(ids, a.ID)
		}
	}
	return []AnswerSubmission{{QuestionID: q.ID, SelectedAnswerIDs: ids}}
}

func TestStartAttemptCreatesFirstAttempt(t *testing.T) {
	f := newFixture(t, 2)

	outcome, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, outcome.View)
	assert.False(t, outcome.Resumed)
	assert.Equal(t, 1, outcome.View.AttemptNumber)
	assert.Equal(t, 30*60, outcome.View.RemainingSeconds)
	// The live attempt still counts as available, so 1 of 2 shows 2 remaining.
	assert.Equal(t, 2, outcome.View.RemainingAttempts)
	assert.Len(t, outcome.View.Questions, 2)

	// The answer options must not leak the correct flag; the view only
	// carries id and body.
	for _, q := range outcome.View.Questions {
		assert.NotEmpty(t, q.Answers)
	}

	require.Len(t, f.sched.calls, 1)
	assert.Equal(t, outcome.View.AttemptID, f.sched.calls[0].attemptID)
	assert.Equal(t, f.clock.Add(30*time.Minute), f.sched.calls[0].fireAt)
}

func TestStartAttemptGuardsMissingLessonAndComponent(t *testing.T) {
	f := newFixture(t, 2)

	_, err := f.svc.StartAttempt(f.user.ID, 9999)
	assert.ErrorIs(t, err, util.ErrLessonNotFound)

	bare := model.Lesson{CourseID: f.lesson.CourseID, Title: "No test here", Position: 2}
	require.NoError(t, f.db.Create(&bare).Error)
	_, err = f.svc.StartAttempt(f.user.ID, bare.ID)
	assert.ErrorIs(t, err, util.ErrTestComponentNotFound)
}

func TestStartAttemptResumesLiveAttempt(t *testing.T) {
	f := newFixture(t, 2)

	first, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	f.advance(10 * time.Minute)
	second, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, second.View)
	assert.True(t, second.Resumed)
	assert.Equal(t, first.View.AttemptID, second.View.AttemptID)
	assert.Equal(t, 20*60, second.View.RemainingSeconds)

	var count int64
	f.db.Model(&model.TestAttempt{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestStartAttemptFinalizesExpiredWithoutCreatingNew(t *testing.T) {
	f := newFixture(t, 2)

	first, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	// Store a partial draft, then let the clock run out.
	_, err = f.svc.UpdateAttempt(f.user.ID, first.View.AttemptID, f.partialAnswers(), true)
	require.NoError(t, err)
	f.advance(31 * time.Minute)

	second, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	require.Nil(t, second.View)
	require.NotNil(t, second.Result)
	assert.True(t, second.Result.Expired)
	assert.Equal(t, 1, second.Result.Mark)
	// 1 of 2 correct meets the 0.5 ratio, so the stored draft grades to passed.
	assert.Equal(t, model.AttemptPassed, second.Result.Status)

	var count int64
	f.db.Model(&model.TestAttempt{}).Count(&count)
	assert.Equal(t, int64(1), count, "finalizing an expired attempt must not open a new one")

	// The next call starts attempt number 2.
	third, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	require.NotNil(t, third.View)
	assert.Equal(t, 2, third.View.AttemptNumber)
}

func TestStartAttemptLimit(t *testing.T) {
	f := newFixture(t, 1)

	first, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAttempt(f.user.ID, first.View.AttemptID, f.correctAnswers(), false)
	require.NoError(t, err)

	_, err = f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	assert.ErrorIs(t, err, util.ErrAttemptLimitReached)
}

func TestAttemptNumbersAreContiguous(t *testing.T) {
	f := newFixture(t, 3)

	for want := 1; want <= 3; want++ {
		outcome, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
		require.NoError(t, err)
		assert.Equal(t, want, outcome.View.AttemptNumber)
		_, err = f.svc.UpdateAttempt(f.user.ID, outcome.View.AttemptID, f.partialAnswers(), false)
		require.NoError(t, err)
	}
}

func TestDraftRoundTrip(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	outcome, err := f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.partialAnswers(), true)
	require.NoError(t, err)
	assert.True(t, outcome.DraftSaved)
	assert.Nil(t, outcome.Result)

	// Draft saves must not grade or close anything.
	stored, err := repository.NewTestAttemptRepository(f.db).FindByID(started.View.AttemptID)
	require.NoError(t, err)
	assert.False(t, stored.Submitted)
	assert.Equal(t, 0, stored.Mark)
	assert.Equal(t, model.AttemptFailed, stored.Status)

	rendered, err := f.svc.GetAttempt(f.user.ID, started.View.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, rendered.View)
	qid := f.test.Questions[0].ID
	sel, ok := rendered.View.Draft[qid]
	require.True(t, ok)
	assert.True(t, sel.IsDraft)
	assert.NotEmpty(t, sel.SelectedAnswerIDs)
}

func TestSubmitGradesAndCloses(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	outcome, err := f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.correctAnswers(), false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, 2, outcome.Result.Mark)
	assert.True(t, outcome.Result.Passed)
	assert.Equal(t, model.AttemptPassed, outcome.Result.Status)

	// Submitted attempts are immutable.
	_, err = f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.partialAnswers(), false)
	assert.ErrorIs(t, err, util.ErrTestAlreadySubmitted)

	stored, err := repository.NewTestAttemptRepository(f.db).FindByID(started.View.AttemptID)
	require.NoError(t, err)
	assert.True(t, stored.Submitted)
	assert.Equal(t, 2, stored.Mark)

	answers, err := stored.AnswerMap()
	require.NoError(t, err)
	for _, sel := range answers {
		assert.False(t, sel.IsDraft, "finalization clears draft flags")
	}
}

func TestLiveViewCountsCurrentAttemptAsAvailable(t *testing.T) {
	f := newFixture(t, 2)

	first, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, first.View.RemainingAttempts)

	outcome, err := f.svc.UpdateAttempt(f.user.ID, first.View.AttemptID, nil, false)
	require.NoError(t, err)
	// After a finished attempt only the unopened ones remain.
	assert.Equal(t, 1, outcome.Result.RemainingAttempts)

	second, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, second.View.RemainingAttempts)
}

func TestSubmitThresholdBoundary(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	outcome, err := f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.partialAnswers(), false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	// 1 of 2 correct meets the 0.5 ratio.
	assert.True(t, outcome.Result.Passed)

	second, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)
	outcome, err = f.svc.UpdateAttempt(f.user.ID, second.View.AttemptID, nil, false)
	require.NoError(t, err)
	assert.False(t, outcome.Result.Passed)
	assert.Equal(t, 0, outcome.Result.Mark)
	assert.Equal(t, 0, outcome.Result.RemainingAttempts)
}

func TestExpiredUpdateDiscardsPayload(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.partialAnswers(), true)
	require.NoError(t, err)

	f.advance(31 * time.Minute)

	// A full-marks payload arriving late must be ignored; the stored draft
	// is what gets graded.
	outcome, err := f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.correctAnswers(), false)
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.Expired)
	assert.Equal(t, 1, outcome.Result.Mark)
}

func TestGetAttemptFinalizesWhenOutOfTime(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	f.advance(30*time.Minute + time.Second)

	outcome, err := f.svc.GetAttempt(f.user.ID, started.View.AttemptID)
	require.NoError(t, err)
	require.Nil(t, outcome.View)
	require.NotNil(t, outcome.Result)
	assert.True(t, outcome.Result.Expired)

	stored, err := repository.NewTestAttemptRepository(f.db).FindByID(started.View.AttemptID)
	require.NoError(t, err)
	assert.True(t, stored.Submitted)
}

func TestGetAttemptExactDeadlineStillLive(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	// now - created_at == duration is not yet expired.
	f.advance(30 * time.Minute)

	outcome, err := f.svc.GetAttempt(f.user.ID, started.View.AttemptID)
	require.NoError(t, err)
	require.NotNil(t, outcome.View)
	assert.Equal(t, 0, outcome.View.RemainingSeconds)
}

func TestAttemptOwnership(t *testing.T) {
	f := newFixture(t, 2)

	other := model.User{Name: "Other", Email: "other@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, f.db.Create(&other).Error)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.GetAttempt(other.ID, started.View.AttemptID)
	assert.ErrorIs(t, err, util.ErrAttemptNotOwned)

	_, err = f.svc.UpdateAttempt(other.ID, started.View.AttemptID, nil, false)
	assert.ErrorIs(t, err, util.ErrAttemptNotOwned)
}

func TestUpdateRejectsUnknownQuestion(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID,
		[]AnswerSubmission{{QuestionID: 424242, SelectedAnswerIDs: []uint{1}}}, true)
	assert.ErrorIs(t, err, util.ErrUnknownQuestion)
}

func TestFinalizeIsIdempotent(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.correctAnswers(), false)
	require.NoError(t, err)

	// A late scheduler delivery must not regrade or error.
	require.NoError(t, f.svc.Finalize(started.View.AttemptID))
	require.NoError(t, f.svc.Finalize(started.View.AttemptID))

	stored, err := repository.NewTestAttemptRepository(f.db).FindByID(started.View.AttemptID)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Mark)
	assert.Equal(t, model.AttemptPassed, stored.Status)
}

func TestFinalizeGradesStoredDraft(t *testing.T) {
	f := newFixture(t, 2)

	started, err := f.svc.StartAttempt(f.user.ID, f.lesson.ID)
	require.NoError(t, err)

	_, err = f.svc.UpdateAttempt(f.user.ID, started.View.AttemptID, f.partialAnswers(), true)
	require.NoError(t, err)

	require.NoError(t, f.svc.Finalize(started.View.AttemptID))

	stored, err := repository.NewTestAttemptRepository(f.db).FindByID(started.View.AttemptID)
	require.NoError(t, err)
	assert.True(t, stored.Submitted)
	assert.Equal(t, 1, stored.Mark)
}

func TestFinalizeMissingAttempt(t *testing.T) {
	f := newFixture(t, 2)
	err := f.svc.Finalize(987654)
	assert.ErrorIs(t, err, util.ErrAttemptNotFound)
}
