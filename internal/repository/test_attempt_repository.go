package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TestAttemptRepository struct {
	DB *gorm.DB
}

func NewTestAttemptRepository(db *gorm.DB) *TestAttemptRepository {
	return &TestAttemptRepository{DB: db}
}

func (r *TestAttemptRepository) Create(attempt *model.TestAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *TestAttemptRepository) Update(attempt *model.TestAttempt) error {
	return r.DB.Save(attempt).Error
}

func (r *TestAttemptRepository) FindByID(id uint) (*model.TestAttempt, error) {
	var a model.TestAttempt
	if err := r.DB.First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindUnsubmitted returns the user's live attempt on a component if one
// exists. There is never more than one.
func (r *TestAttemptRepository) FindUnsubmitted(userID, componentID uint) (*model.TestAttempt, error) {
	var a model.TestAttempt
	err := r.DB.Where("user_id = ? AND component_id = ? AND submitted = ?", userID, componentID, false).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *TestAttemptRepository) CountByUserAndComponent(userID, componentID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.TestAttempt{}).
		Where("user_id = ? AND component_id = ?", userID, componentID).
		Count(&count).Error
	return count, err
}

// FinalizeSubmit writes the graded result only if the attempt is still
// unsubmitted. Returns false when another writer got there first.
func (r *TestAttemptRepository) FinalizeSubmit(attempt *model.TestAttempt) (bool, error) {
	res := r.DB.Model(&model.TestAttempt{}).
		Where("id = ? AND submitted = ?", attempt.ID, false).
		Updates(map[string]interface{}{
			"answers":   attempt.Answers,
			"mark":      attempt.Mark,
			"status":    attempt.Status,
			"submitted": true,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SaveDraft overwrites the stored answers of a live attempt without touching
// mark, status or the submitted flag.
func (r *TestAttemptRepository) SaveDraft(attemptID uint, answers string) error {
	return r.DB.Model(&model.TestAttempt{}).
		Where("id = ? AND submitted = ?", attemptID, false).
		Update("answers", answers).
		Error
}

func (r *TestAttemptRepository) ListByUserAndComponent(userID, componentID uint) ([]model.TestAttempt, error) {
	var attempts []model.TestAttempt
	err := r.DB.Where("user_id = ? AND component_id = ?", userID, componentID).
		Order("attempt_number ASC").
		Find(&attempts).Error
	return attempts, err
}
