package service

import (
	"testing"

	"lingua_edu_backend/internal/model"
	"lingua_edu_backend/internal/repository"
	"lingua_edu_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newCourseService(db *gorm.DB) *CourseService {
	return NewCourseService(
		repository.NewCourseRepository(db),
		repository.NewLessonRepository(db),
		repository.NewEnrollmentRepository(db),
		nil,
	)
}

func TestCourseEnrollIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	user := model.User{Name: "Student", Email: "s@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course, err := svc.Create(CourseInput{Title: "Beginner English"}, 1)
	require.NoError(t, err)

	first, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrolmentPending, first.EnrolmentStatus)

	second, err := svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&model.UserCourse{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestCourseEnrollMissingCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	_, err := svc.Enroll(1, 9999)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestCourseEnrolmentDecision(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	user := model.User{Name: "Student", Email: "s2@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	course, err := svc.Create(CourseInput{Title: "Beginner English"}, 1)
	require.NoError(t, err)

	_, err = svc.Enroll(user.ID, course.ID)
	require.NoError(t, err)

	uc, err := svc.SetEnrolmentStatus(user.ID, course.ID, model.EnrolmentApproved)
	require.NoError(t, err)
	assert.Equal(t, model.EnrolmentApproved, uc.EnrolmentStatus)

	_, err = svc.SetEnrolmentStatus(user.ID, 8888, model.EnrolmentApproved)
	assert.ErrorIs(t, err, util.ErrNotEnrolled)
}

func TestCourseDetailOrdersLessons(t *testing.T) {
	db := newTestDB(t)
	svc := newCourseService(db)

	course, err := svc.Create(CourseInput{Title: "Beginner English"}, 1)
	require.NoError(t, err)

	for _, l := range []model.Lesson{
		{CourseID: course.ID, Title: "Third", Position: 3},
		{CourseID: course.ID, Title: "First", Position: 1},
		{CourseID: course.ID, Title: "Second", Position: 2},
	} {
		lesson := l
		require.NoError(t, db.Create(&lesson).Error)
	}

	loaded, err := svc.Get(course.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Lessons, 3)
	assert.Equal(t, "First", loaded.Lessons[0].Title)
	assert.Equal(t, "Third", loaded.Lessons[2].Title)
}
