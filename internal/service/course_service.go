package service

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	LessonRepo     *repository.LessonRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Storage        StorageProvider
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	lessonRepo *repository.LessonRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	storage StorageProvider,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		LessonRepo:     lessonRepo,
		EnrollmentRepo: enrollmentRepo,
		Storage:        storage,
	}
}

type CourseInput struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
}

func (s *CourseService) Create(input CourseInput, creatorID uint) (*model.Course, error) {
	course := &model.Course{
		Title:           input.Title,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		CreatorID:       creatorID,
	}
	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Update(id uint, input CourseInput) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = input.Title
	course.Description = input.Description
	course.DurationMinutes = input.DurationMinutes
	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) Delete(id uint) error {
	if _, err := s.CourseRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrCourseNotFound
		}
		return err
	}
	return s.CourseRepo.Delete(id)
}

func (s *CourseService) Get(id uint) (*model.Course, error) {
	course, err := s.CourseRepo.FindByIDWithLessons(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (s *CourseService) List(search string, page, limit int) ([]model.Course, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.CourseRepo.List(search, page, limit)
}

// Enroll creates a pending enrollment; enrolling twice is a no-op that
// returns the existing record.
func (s *CourseService) Enroll(userID, courseID uint) (*model.UserCourse, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	existing, err := s.EnrollmentRepo.Find(userID, courseID)
	if err == nil {
		return existing, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	uc := &model.UserCourse{
		UserID:          userID,
		CourseID:        courseID,
		EnrolmentStatus: model.EnrolmentPending,
	}
	if err := s.EnrollmentRepo.Create(uc); err != nil {
		return nil, err
	}
	return uc, nil
}

func (s *CourseService) SetEnrolmentStatus(userID, courseID uint, status model.EnrolmentStatus) (*model.UserCourse, error) {
	uc, err := s.EnrollmentRepo.Find(userID, courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}
	uc.EnrolmentStatus = status
	if err := s.EnrollmentRepo.Update(uc); err != nil {
		return nil, err
	}
	return uc, nil
}

func (s *CourseService) MyCourses(userID uint) ([]model.UserCourse, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

// UploadCover validates and stores a course cover image.
func (s *CourseService) UploadCover(ctx context.Context, courseID uint, file *multipart.FileHeader) (string, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrCourseNotFound
		}
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mimeType, err := util.ValidateMimeType(src, []string{util.MimeImage})
	if err != nil {
		return "", err
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	// Unique object names keep stale CDN caches from serving the old cover.
	filename := fmt.Sprintf("courses/%d/cover-%s%s", courseID, model.GenerateUUID()[:8], filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	course.CoverImageURL = url
	if err := s.CourseRepo.Update(course); err != nil {
		return "", err
	}
	return url, nil
}
