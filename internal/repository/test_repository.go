package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type TestRepository struct {
	DB *gorm.DB
}

func NewTestRepository(db *gorm.DB) *TestRepository {
	return &TestRepository{DB: db}
}

// Create persists a test with its nested questions and answers in one
// transaction.
func (r *TestRepository) Create(test *model.Test) error {
	return r.DB.Create(test).Error
}

// Update replaces the test's questions and answers wholesale. Partial
// question edits are not supported; the admin UI always sends the full set.
func (r *TestRepository) Update(test *model.Test) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var questionIDs []uint
		if err := tx.Model(&model.Question{}).
			Where("test_id = ?", test.ID).
			Pluck("id", &questionIDs).Error; err != nil {
			return err
		}
		if len(questionIDs) > 0 {
			if err := tx.Where("question_id IN ?", questionIDs).
				Delete(&model.Answer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("test_id = ?", test.ID).
				Delete(&model.Question{}).Error; err != nil {
				return err
			}
		}
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(test).Error
	})
}

func (r *TestRepository) UpdateCover(id uint, url string) error {
	return r.DB.Model(&model.Test{}).
		Where("id = ?", id).
		Update("cover_image_url", url).
		Error
}

func (r *TestRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Test{}, id).Error
}

func (r *TestRepository) FindByID(id uint) (*model.Test, error) {
	var test model.Test
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).
		Preload("Questions.Answers", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&test, id).Error
	return &test, err
}

func (r *TestRepository) List(search string, page, limit int) ([]model.Test, int64, error) {
	var tests []model.Test
	var total int64

	query := r.DB.Model(&model.Test{})
	if search != "" {
		query = query.Where("name LIKE ?", "%"+search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&tests).Error
	return tests, total, err
}
