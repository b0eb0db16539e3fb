package repository

import (
	"time"

	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(uc *model.UserCourse) error {
	return r.DB.Create(uc).Error
}

func (r *EnrollmentRepository) Update(uc *model.UserCourse) error {
	return r.DB.Save(uc).Error
}

func (r *EnrollmentRepository) Find(userID, courseID uint) (*model.UserCourse, error) {
	var uc model.UserCourse
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&uc).Error
	if err != nil {
		return nil, err
	}
	return &uc, nil
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.UserCourse, error) {
	var list []model.UserCourse
	err := r.DB.Where("user_id = ?", userID).
		Preload("Course").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

// MarkLessonCompleted upserts the user's lesson record and stamps completion.
func (r *EnrollmentRepository) MarkLessonCompleted(userID, lessonID uint) error {
	var ul model.UserLesson
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&ul).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return err
	}
	now := time.Now()
	if ul.ID == 0 {
		ul = model.UserLesson{UserID: userID, LessonID: lessonID, Completed: true, CompletedAt: &now}
		return r.DB.Create(&ul).Error
	}
	if ul.Completed {
		return nil
	}
	ul.Completed = true
	ul.CompletedAt = &now
	return r.DB.Save(&ul).Error
}

func (r *EnrollmentRepository) ListLessonsByUser(userID uint) ([]model.UserLesson, error) {
	var list []model.UserLesson
	err := r.DB.Where("user_id = ?", userID).Find(&list).Error
	return list, err
}
