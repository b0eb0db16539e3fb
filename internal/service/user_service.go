package service

import (
	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo       *repository.UserRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewUserService(userRepo *repository.UserRepository, enrollmentRepo *repository.EnrollmentRepository) *UserService {
	return &UserService{
		UserRepo:       userRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// UserProfile is a user together with their course enrollments.
type UserProfile struct {
	User        *model.User        `json:"user"`
	Enrollments []model.UserCourse `json:"enrollments"`
}

func (s *UserService) GetProfile(userID uint) (*UserProfile, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	return &UserProfile{User: user, Enrollments: enrollments}, nil
}

func (s *UserService) List(search string, page, limit int) ([]model.User, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.UserRepo.List(search, page, limit)
}

func (s *UserService) UpdateProfile(userID uint, name, gender, avatar string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if gender != "" {
		user.Gender = gender
	}
	if avatar != "" {
		user.Avatar = avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
