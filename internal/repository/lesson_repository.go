package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type LessonRepository struct {
	DB *gorm.DB
}

func NewLessonRepository(db *gorm.DB) *LessonRepository {
	return &LessonRepository{DB: db}
}

func (r *LessonRepository) Create(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *LessonRepository) Update(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *LessonRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}

func (r *LessonRepository) FindByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

// FindByIDWithComponents loads a lesson with components in lesson order and
// their word/test payloads preloaded.
func (r *LessonRepository) FindByIDWithComponents(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Preload("Components", func(db *gorm.DB) *gorm.DB {
		return db.Order("index_in_lesson ASC")
	}).
		Preload("Components.Word").
		Preload("Components.Test").
		First(&lesson, id).Error
	return &lesson, err
}

func (r *LessonRepository) ListByCourse(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("position ASC").
		Find(&lessons).Error
	return lessons, err
}

// List supports the admin lesson index: title search and created-time filter.
func (r *LessonRepository) List(search, timeFilter string, page, limit int) ([]model.Lesson, int64, error) {
	var lessons []model.Lesson
	var total int64

	query := r.DB.Model(&model.Lesson{})
	if search != "" {
		query = query.Where("title LIKE ?", "%"+search+"%")
	}
	query = createdWithin(query, timeFilter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("position ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&lessons).Error
	return lessons, total, err
}
