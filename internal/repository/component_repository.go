package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type ComponentRepository struct {
	DB *gorm.DB
}

func NewComponentRepository(db *gorm.DB) *ComponentRepository {
	return &ComponentRepository{DB: db}
}

func (r *ComponentRepository) Create(component *model.Component) error {
	return r.DB.Create(component).Error
}

func (r *ComponentRepository) Update(component *model.Component) error {
	return r.DB.Save(component).Error
}

func (r *ComponentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Component{}, id).Error
}

func (r *ComponentRepository) FindByID(id uint) (*model.Component, error) {
	var component model.Component
	err := r.DB.First(&component, id).Error
	return &component, err
}

func (r *ComponentRepository) ListByLesson(lessonID uint) ([]model.Component, error) {
	var components []model.Component
	err := r.DB.Where("lesson_id = ?", lessonID).
		Order("index_in_lesson ASC").
		Preload("Word").
		Preload("Test").
		Find(&components).Error
	return components, err
}

// FindByIDWithTest loads a component with its full test definition, questions
// and answers in position order.
func (r *ComponentRepository) FindByIDWithTest(id uint) (*model.Component, error) {
	var component model.Component
	err := r.DB.Preload("Test").
		Preload("Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Test.Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&component, id).Error
	return &component, err
}

// FindTestComponentByLesson returns the lesson's test component with the full
// test definition loaded, questions and answers in position order.
func (r *ComponentRepository) FindTestComponentByLesson(lessonID uint) (*model.Component, error) {
	var component model.Component
	err := r.DB.Where("lesson_id = ? AND kind = ?", lessonID, model.ComponentTest).
		Preload("Test").
		Preload("Test.Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Preload("Test.Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&component).Error
	return &component, err
}
