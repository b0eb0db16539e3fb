package service

import (
	"time"

	"lingua_edu_backend/internal/config"
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"
	"lingua_edu_backend/pkg/logger"
	"lingua_edu_backend/pkg/monitoring"
	"lingua_edu_backend/pkg/scheduler"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AnswerSubmission is one question's selection as sent by the client.
type AnswerSubmission struct {
	QuestionID        uint   `json:"question_id" binding:"required"`
	SelectedAnswerIDs []uint `json:"selected_answer_ids"`
}

// AnswerOptionView hides the correct flag from students.
type AnswerOptionView struct {
	ID   uint   `json:"id"`
	Body string `json:"body"`
}

type QuestionView struct {
	ID      uint               `json:"id"`
	Body    string             `json:"body"`
	Answers []AnswerOptionView `json:"answers"`
}

// AttemptView is what a student sees while an attempt is live.
type AttemptView struct {
	AttemptID         uint                           `json:"attemptId"`
	AttemptNumber     int                            `json:"attemptNumber"`
	TestName          string                         `json:"testName"`
	RemainingSeconds  int                            `json:"remainingSeconds"`
	RemainingAttempts int                            `json:"remainingAttempts"`
	Questions         []QuestionView                 `json:"questions"`
	Draft             map[uint]model.AnswerSelection `json:"draft"`
}

// AttemptResult is the closed-attempt view returned after any finalization.
type AttemptResult struct {
	AttemptID         uint                `json:"attemptId"`
	AttemptNumber     int                 `json:"attemptNumber"`
	Mark              int                 `json:"mark"`
	TotalQuestions    int                 `json:"totalQuestions"`
	Status            model.AttemptStatus `json:"status"`
	Passed            bool                `json:"passed"`
	RemainingAttempts int                 `json:"remainingAttempts"`
	Expired           bool                `json:"expired"`
}

// StartOutcome covers the three ways StartAttempt can resolve: a fresh
// attempt, resumption of a live one, or the finalized result of an attempt
// that had already run out of time. Exactly one of View/Result is set.
type StartOutcome struct {
	Resumed bool           `json:"resumed"`
	View    *AttemptView   `json:"attempt,omitempty"`
	Result  *AttemptResult `json:"result,omitempty"`
}

// UpdateOutcome is the response to a draft save or a submission. Result is
// nil for plain draft saves.
type UpdateOutcome struct {
	DraftSaved bool           `json:"draftSaved"`
	Result     *AttemptResult `json:"result,omitempty"`
}

type AttemptService struct {
	Attempts   *repository.TestAttemptRepository
	Lessons    *repository.LessonRepository
	Components *repository.ComponentRepository
	Cfg        *config.Config
	Scheduler  scheduler.Scheduler

	// now is swappable so expiry behavior is testable.
	now func() time.Time
}

func NewAttemptService(
	attempts *repository.TestAttemptRepository,
	lessons *repository.LessonRepository,
	components *repository.ComponentRepository,
	sched scheduler.Scheduler,
	cfg *config.Config,
) *AttemptService {
	return &AttemptService{
		Attempts:   attempts,
		Lessons:    lessons,
		Components: components,
		Scheduler:  sched,
		Cfg:        cfg,
		now:        time.Now,
	}
}

// StartAttempt runs the guard chain in order: the lesson must exist, it must
// contain a test component, a live attempt is resumed instead of duplicated,
// an expired unsubmitted attempt is finalized without opening a new one, and
// the attempt limit is enforced last. Only when every guard passes is a new
// attempt created and its deadline scheduled.
func (s *AttemptService) StartAttempt(userID, lessonID uint) (*StartOutcome, error) {
	if _, err := s.Lessons.FindByID(lessonID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	comp, err := s.Components.FindTestComponentByLesson(lessonID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTestComponentNotFound
		}
		return nil, err
	}
	if comp.Test == nil {
		return nil, util.ErrTestComponentNotFound
	}
	test := comp.Test
	duration := time.Duration(test.DurationMinutes) * time.Minute

	ongoing, err := s.Attempts.FindUnsubmitted(userID, comp.ID)
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, err
	}
	if ongoing != nil {
		if !s.expired(ongoing, duration) {
			view, err := s.buildView(ongoing, comp, test)
			if err != nil {
				return nil, err
			}
			return &StartOutcome{Resumed: true, View: view}, nil
		}
		// Out of time. Close it with whatever was stored; the user has to
		// call start again to get a fresh attempt.
		result, err := s.finalize(ongoing, test, "expiry")
		if err != nil {
			return nil, err
		}
		result.Expired = true
		return &StartOutcome{Result: result}, nil
	}

	count, err := s.Attempts.CountByUserAndComponent(userID, comp.ID)
	if err != nil {
		return nil, err
	}
	if int(count) >= test.MaxAttempts {
		return nil, util.ErrAttemptLimitReached
	}

	attempt := &model.TestAttempt{
		UserID:        userID,
		ComponentID:   comp.ID,
		AttemptNumber: int(count) + 1,
		Answers:       "{}",
		Status:        model.AttemptFailed,
	}
	attempt.CreatedAt = s.now()
	if err := s.Attempts.Create(attempt); err != nil {
		return nil, err
	}

	if err := s.Scheduler.Schedule(attempt.CreatedAt.Add(duration), attempt.ID); err != nil {
		// The expiry checks on every read/write path still close the attempt;
		// losing the queue entry only delays the automatic grade.
		logger.Log.Error("failed to schedule attempt finalization",
			zap.Uint("attemptId", attempt.ID), zap.Error(err))
	}

	view, err := s.buildView(attempt, comp, test)
	if err != nil {
		return nil, err
	}
	return &StartOutcome{View: view}, nil
}

// GetAttempt renders a live attempt with its remaining time, or finalizes and
// returns the result when the time budget is already spent.
func (s *AttemptService) GetAttempt(userID, attemptID uint) (*StartOutcome, error) {
	attempt, comp, test, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Submitted {
		result, err := s.resultOf(attempt, test)
		if err != nil {
			return nil, err
		}
		return &StartOutcome{Result: result}, nil
	}

	duration := time.Duration(test.DurationMinutes) * time.Minute
	if s.expired(attempt, duration) {
		result, err := s.finalize(attempt, test, "expiry")
		if err != nil {
			return nil, err
		}
		result.Expired = true
		return &StartOutcome{Result: result}, nil
	}

	view, err := s.buildView(attempt, comp, test)
	if err != nil {
		return nil, err
	}
	return &StartOutcome{Resumed: true, View: view}, nil
}

// UpdateAttempt handles both draft saves and final submissions. The expiry
// check comes first and is decided by the server clock alone: a request that
// arrives late force-finalizes the attempt with its stored answers and the
// incoming payload is discarded.
func (s *AttemptService) UpdateAttempt(userID, attemptID uint, submissions []AnswerSubmission, isDraft bool) (*UpdateOutcome, error) {
	attempt, _, test, err := s.loadOwned(userID, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Submitted {
		return nil, util.ErrTestAlreadySubmitted
	}

	duration := time.Duration(test.DurationMinutes) * time.Minute
	if s.expired(attempt, duration) {
		result, err := s.finalize(attempt, test, "expiry")
		if err != nil {
			return nil, err
		}
		result.Expired = true
		return &UpdateOutcome{Result: result}, nil
	}

	answers, err := s.toAnswerMap(submissions, test, isDraft)
	if err != nil {
		return nil, err
	}

	if isDraft {
		if err := attempt.SetAnswerMap(answers); err != nil {
			return nil, err
		}
		if err := s.Attempts.SaveDraft(attempt.ID, attempt.Answers); err != nil {
			logger.Log.Error("failed to save draft",
				zap.Uint("attemptId", attempt.ID), zap.Error(err))
			return nil, err
		}
		return &UpdateOutcome{DraftSaved: true}, nil
	}

	grade := Grade(answers, test.Questions, s.Cfg.Grading.PassRatio)
	attempt.Mark = grade.Mark
	attempt.Status = statusOf(grade.Passed)
	if err := attempt.SetAnswerMap(answers); err != nil {
		return nil, err
	}

	won, err := s.Attempts.FinalizeSubmit(attempt)
	if err != nil {
		logger.Log.Error("failed to persist submission",
			zap.Uint("attemptId", attempt.ID), zap.Error(err))
		return nil, err
	}
	if !won {
		// The scheduler or an expiry check finalized first; report what it
		// wrote instead of regrading.
		stored, err := s.Attempts.FindByID(attempt.ID)
		if err != nil {
			return nil, err
		}
		result, err := s.resultOf(stored, test)
		if err != nil {
			return nil, err
		}
		return &UpdateOutcome{Result: result}, nil
	}

	monitoring.AttemptFinalizations.WithLabelValues("submit").Inc()
	attempt.Submitted = true
	result, err := s.resultOf(attempt, test)
	if err != nil {
		return nil, err
	}
	return &UpdateOutcome{Result: result}, nil
}

// Finalize closes an attempt with its stored answers. Idempotent: a submitted
// attempt is returned as-is with no regrade, which makes the at-least-once
// scheduler delivery harmless.
func (s *AttemptService) Finalize(attemptID uint) error {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrAttemptNotFound
		}
		return err
	}
	if attempt.Submitted {
		return nil
	}

	comp, err := s.Components.FindByIDWithTest(attempt.ComponentID)
	if err != nil {
		return err
	}
	if comp.Test == nil {
		return util.ErrTestComponentNotFound
	}

	_, err = s.finalize(attempt, comp.Test, "scheduler")
	return err
}

func (s *AttemptService) expired(attempt *model.TestAttempt, duration time.Duration) bool {
	return s.now().Sub(attempt.CreatedAt) > duration
}

// finalize grades the stored answers and writes the result once. When another
// writer has already submitted, the stored result is returned untouched.
func (s *AttemptService) finalize(attempt *model.TestAttempt, test *model.Test, trigger string) (*AttemptResult, error) {
	answers, err := attempt.AnswerMap()
	if err != nil {
		return nil, err
	}
	for id, sel := range answers {
		sel.IsDraft = false
		answers[id] = sel
	}

	grade := Grade(answers, test.Questions, s.Cfg.Grading.PassRatio)
	attempt.Mark = grade.Mark
	attempt.Status = statusOf(grade.Passed)
	if err := attempt.SetAnswerMap(answers); err != nil {
		return nil, err
	}

	won, err := s.Attempts.FinalizeSubmit(attempt)
	if err != nil {
		return nil, err
	}
	if !won {
		stored, err := s.Attempts.FindByID(attempt.ID)
		if err != nil {
			return nil, err
		}
		return s.resultOf(stored, test)
	}

	monitoring.AttemptFinalizations.WithLabelValues(trigger).Inc()
	attempt.Submitted = true
	return s.resultOf(attempt, test)
}

func (s *AttemptService) loadOwned(userID, attemptID uint) (*model.TestAttempt, *model.Component, *model.Test, error) {
	attempt, err := s.Attempts.FindByID(attemptID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, nil, util.ErrAttemptNotFound
		}
		return nil, nil, nil, err
	}
	if attempt.UserID != userID {
		return nil, nil, nil, util.ErrAttemptNotOwned
	}

	comp, err := s.Components.FindByIDWithTest(attempt.ComponentID)
	if err != nil {
		return nil, nil, nil, err
	}
	if comp.Test == nil {
		return nil, nil, nil, util.ErrTestComponentNotFound
	}
	return attempt, comp, comp.Test, nil
}

func (s *AttemptService) buildView(attempt *model.TestAttempt, comp *model.Component, test *model.Test) (*AttemptView, error) {
	draft, err := attempt.AnswerMap()
	if err != nil {
		return nil, err
	}

	duration := time.Duration(test.DurationMinutes) * time.Minute
	remaining := duration - s.now().Sub(attempt.CreatedAt)
	if remaining < 0 {
		remaining = 0
	}

	// The attempt on screen still counts as available to the student.
	left := test.MaxAttempts - (attempt.AttemptNumber - 1)
	if left < 0 {
		left = 0
	}

	questions := make([]QuestionView, 0, len(test.Questions))
	for _, q := range test.Questions {
		qv := QuestionView{ID: q.ID, Body: q.Body}
		for _, a := range q.Answers {
			qv.Answers = append(qv.Answers, AnswerOptionView{ID: a.ID, Body: a.Body})
		}
		questions = append(questions, qv)
	}

	return &AttemptView{
		AttemptID:         attempt.ID,
		AttemptNumber:     attempt.AttemptNumber,
		TestName:          test.Name,
		RemainingSeconds:  int(remaining.Seconds()),
		RemainingAttempts: left,
		Questions:         questions,
		Draft:             draft,
	}, nil
}

func (s *AttemptService) resultOf(attempt *model.TestAttempt, test *model.Test) (*AttemptResult, error) {
	count, err := s.Attempts.CountByUserAndComponent(attempt.UserID, attempt.ComponentID)
	if err != nil {
		return nil, err
	}
	return &AttemptResult{
		AttemptID:         attempt.ID,
		AttemptNumber:     attempt.AttemptNumber,
		Mark:              attempt.Mark,
		TotalQuestions:    len(test.Questions),
		Status:            attempt.Status,
		Passed:            attempt.Status == model.AttemptPassed,
		RemainingAttempts: remainingAttempts(test, count),
	}, nil
}

// toAnswerMap validates that every submitted question id belongs to the test
// and normalizes the payload into the stored shape.
func (s *AttemptService) toAnswerMap(submissions []AnswerSubmission, test *model.Test, isDraft bool) (map[uint]model.AnswerSelection, error) {
	known := make(map[uint]bool, len(test.Questions))
	for _, q := range test.Questions {
		known[q.ID] = true
	}

	out := make(map[uint]model.AnswerSelection, len(submissions))
	for _, sub := range submissions {
		if !known[sub.QuestionID] {
			return nil, util.ErrUnknownQuestion
		}
		out[sub.QuestionID] = model.AnswerSelection{
			QuestionID:        sub.QuestionID,
			SelectedAnswerIDs: sub.SelectedAnswerIDs,
			IsDraft:           isDraft,
		}
	}
	return out, nil
}

func remainingAttempts(test *model.Test, used int64) int {
	remaining := test.MaxAttempts - int(used)
	if remaining < 0 {
		return 0
	}
	return remaining
}

func statusOf(passed bool) model.AttemptStatus {
	if passed {
		return model.AttemptPassed
	}
	return model.AttemptFailed
}
