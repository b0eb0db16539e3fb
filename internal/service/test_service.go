package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"unicode/utf8"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type TestService struct {
	TestRepo *repository.TestRepository
	Storage  StorageProvider
}

func NewTestService(testRepo *repository.TestRepository, storage StorageProvider) *TestService {
	return &TestService{
		TestRepo: testRepo,
		Storage:  storage,
	}
}

type AnswerInput struct {
	Body    string `json:"body" binding:"required"`
	Correct bool   `json:"correct"`
}

type QuestionInput struct {
	Body    string        `json:"body" binding:"required"`
	Answers []AnswerInput `json:"answers" binding:"required"`
}

type TestInput struct {
	Name            string          `json:"name" binding:"required"`
	Description     string          `json:"description"`
	DurationMinutes int             `json:"durationMinutes" binding:"required"`
	MaxAttempts     int             `json:"maxAttempts" binding:"required"`
	Questions       []QuestionInput `json:"questions"`
}

func validateTestInput(input TestInput) error {
	if n := utf8.RuneCountInString(input.Name); n < 10 || n > 100 {
		return errors.New("test name must be between 10 and 100 characters")
	}
	if input.DurationMinutes <= 0 {
		return errors.New("test duration must be positive")
	}
	if input.MaxAttempts < 1 {
		return errors.New("max attempts must be at least 1")
	}
	return nil
}

func buildTest(input TestInput) *model.Test {
	test := &model.Test{
		Name:            input.Name,
		Description:     input.Description,
		DurationMinutes: input.DurationMinutes,
		MaxAttempts:     input.MaxAttempts,
	}
	for qi, q := range input.Questions {
		question := model.Question{Body: q.Body, Position: qi}
		for ai, a := range q.Answers {
			question.Answers = append(question.Answers, model.Answer{
				Body:     a.Body,
				Correct:  a.Correct,
				Position: ai,
			})
		}
		test.Questions = append(test.Questions, question)
	}
	return test
}

func (s *TestService) Create(input TestInput) (*model.Test, error) {
	if err := validateTestInput(input); err != nil {
		return nil, err
	}
	test := buildTest(input)
	if err := s.TestRepo.Create(test); err != nil {
		return nil, err
	}
	return test, nil
}

// Update replaces the definition wholesale, questions included. Existing
// attempts keep their stored answers and are unaffected.
func (s *TestService) Update(id uint, input TestInput) (*model.Test, error) {
	if err := validateTestInput(input); err != nil {
		return nil, err
	}

	existing, err := s.TestRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}

	test := buildTest(input)
	test.ID = existing.ID
	test.CreatedAt = existing.CreatedAt
	test.CoverImageURL = existing.CoverImageURL
	if err := s.TestRepo.Update(test); err != nil {
		return nil, err
	}
	return s.TestRepo.FindByID(id)
}

func (s *TestService) Delete(id uint) error {
	if _, err := s.TestRepo.FindByID(id); err != nil {
		if err == gorm.ErrRecordNotFound {
			return util.ErrTestNotFound
		}
		return err
	}
	return s.TestRepo.Delete(id)
}

func (s *TestService) Get(id uint) (*model.Test, error) {
	test, err := s.TestRepo.FindByID(id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrTestNotFound
		}
		return nil, err
	}
	return test, nil
}

func (s *TestService) List(search string, page, limit int) ([]model.Test, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.TestRepo.List(search, page, limit)
}

func (s *TestService) UploadCover(ctx context.Context, testID uint, file *multipart.FileHeader) (string, error) {
	if _, err := s.TestRepo.FindByID(testID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", util.ErrTestNotFound
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

	filename := fmt.Sprintf("tests/%d/cover-%s%s", testID, model.GenerateUUID()[:8], filepath.Ext(file.Filename))
	url, err := s.Storage.Upload(ctx, filename, src, file.Size, mimeType)
	if err != nil {
		return "", err
	}

	if err := s.TestRepo.UpdateCover(testID, url); err != nil {
		return "", err
	}
	return url, nil
}
