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

func newLessonService(db *gorm.DB) *LessonService {
	return NewLessonService(
		repository.NewLessonRepository(db),
		repository.NewCourseRepository(db),
		repository.NewComponentRepository(db),
		repository.NewEnrollmentRepository(db),
	)
}

func seedCourse(t *testing.T, db *gorm.DB) model.Course {
	t.Helper()
	course := model.Course{Title: "Beginner English"}
	require.NoError(t, db.Create(&course).Error)
	return course
}

func TestLessonCreateRequiresCourse(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)

	_, err := svc.Create(LessonInput{CourseID: 999, Title: "Orphan"}, 1)
	assert.ErrorIs(t, err, util.ErrCourseNotFound)
}

func TestLessonComponentsComeBackInOrder(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	course := seedCourse(t, db)

	lesson, err := svc.Create(LessonInput{CourseID: course.ID, Title: "Greetings", Position: 1}, 1)
	require.NoError(t, err)

	word := model.Word{Content: "hello", Meaning: "a greeting", WordType: model.WordNoun}
	require.NoError(t, db.Create(&word).Error)

	_, err = svc.AddComponent(ComponentInput{LessonID: lesson.ID, Kind: model.ComponentParagraph, IndexInLesson: 2, Content: "Read this."})
	require.NoError(t, err)
	_, err = svc.AddComponent(ComponentInput{LessonID: lesson.ID, Kind: model.ComponentWord, IndexInLesson: 1, WordID: &word.ID})
	require.NoError(t, err)

	loaded, err := svc.Get(lesson.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Components, 2)
	assert.Equal(t, model.ComponentWord, loaded.Components[0].Kind)
	require.NotNil(t, loaded.Components[0].Word)
	assert.Equal(t, "hello", loaded.Components[0].Word.Content)
	assert.Equal(t, model.ComponentParagraph, loaded.Components[1].Kind)
}

func TestLessonListTimeFilterUnknownValueReturnsAll(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	course := seedCourse(t, db)

	for i, title := range []string{"One", "Two", "Three"} {
		_, err := svc.Create(LessonInput{CourseID: course.ID, Title: title, Position: i}, 1)
		require.NoError(t, err)
	}

	_, total, err := svc.List("", "not_a_filter", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	_, total, err = svc.List("", "today", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
}

func TestLessonSearchByTitle(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	course := seedCourse(t, db)

	for i, title := range []string{"Greetings basics", "Numbers", "Greetings advanced"} {
		_, err := svc.Create(LessonInput{CourseID: course.ID, Title: title, Position: i}, 1)
		require.NoError(t, err)
	}

	lessons, total, err := svc.List("Greetings", "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, lessons, 2)
}

func TestLessonComplete(t *testing.T) {
	db := newTestDB(t)
	svc := newLessonService(db)
	course := seedCourse(t, db)

	user := model.User{Name: "Student", Email: "c@example.com", Password: "x"}
	require.NoError(t, db.Create(&user).Error)

	lesson, err := svc.Create(LessonInput{CourseID: course.ID, Title: "Greetings", Position: 1}, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Complete(user.ID, lesson.ID))
	// Completing again stays a no-op.
	require.NoError(t, svc.Complete(user.ID, lesson.ID))

	var records []model.UserLesson
	require.NoError(t, db.Where("user_id = ?", user.ID).Find(&records).Error)
	require.Len(t, records, 1)
	assert.True(t, records[0].Completed)
	require.NotNil(t, records[0].CompletedAt)

	assert.ErrorIs(t, svc.Complete(user.ID, 777), util.ErrLessonNotFound)
}
