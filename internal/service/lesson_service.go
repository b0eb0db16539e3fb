package service

import (
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type LessonService struct {
	LessonRepo     *repository.LessonRepository
	CourseRepo     *repository.CourseRepository
	ComponentRepo  *repository.ComponentRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewLessonService(
	lessonRepo *repository.LessonRepository,
	courseRepo *repository.CourseRepository,
	componentRepo *repository.ComponentRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *LessonService {
	return &LessonService{
		LessonRepo:     lessonRepo,
		CourseRepo:     courseRepo,
		ComponentRepo:  componentRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

type LessonInput struct {
	CourseID    uint   `json:"courseId" binding:"required"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

func (s *LessonService) Create(input LessonInput, creatorID uint) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(input.CourseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID:    input.CourseID,
		Title:       input.Title,
		Description: input.Description,
		Position:    input.Position,
		CreatorID:   creatorID,
	}
	if err := s.LessonRepo.Create(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Update(id uint, input LessonInput) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	lesson.Title = input.Title
	lesson.Description = input.Description
	lesson.Position = input.Position
	if err := s.LessonRepo.Update(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) Delete(id uint) error {
	if _, err := s.LessonRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.LessonRepo.Delete(id)
}

// Get returns a lesson with its components in lesson order, word and test
// payloads included.
func (s *LessonService) Get(id uint) (*model.Lesson, error) {
	lesson, err := s.LessonRepo.FindByIDWithComponents(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	return lesson, nil
}

func (s *LessonService) List(search, timeFilter string, page, limit int) ([]model.Lesson, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.LessonRepo.List(search, timeFilter, page, limit)
}

func (s *LessonService) ListByCourse(courseID uint) ([]model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return s.LessonRepo.ListByCourse(courseID)
}

func (s *LessonService) Complete(userID, lessonID uint) error {
	if _, err := s.LessonRepo.FindByID(lessonID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrLessonNotFound
		}
		return err
	}
	return s.EnrollmentRepo.MarkLessonCompleted(userID, lessonID)
}

type ComponentInput struct {
	LessonID      uint                `json:"lessonId" binding:"required"`
	Kind          model.ComponentKind `json:"kind" binding:"required"`
	IndexInLesson int                 `json:"indexInLesson"`
	Content       string              `json:"content"`
	WordID        *uint               `json:"wordId"`
	TestID        *uint               `json:"testId"`
}

func (s *LessonService) AddComponent(input ComponentInput) (*model.Component, error) {
	if _, err := s.LessonRepo.FindByID(input.LessonID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	component := &model.Component{
		LessonID:      input.LessonID,
		Kind:          input.Kind,
		IndexInLesson: input.IndexInLesson,
		Content:       input.Content,
		WordID:        input.WordID,
		TestID:        input.TestID,
	}
	if err := s.ComponentRepo.Create(component); err != nil {
		return nil, err
	}
	return component, nil
}

func (s *LessonService) RemoveComponent(id uint) error {
	if _, err := s.ComponentRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrComponentNotFound
		}
		return err
	}
	return s.ComponentRepo.Delete(id)
}
