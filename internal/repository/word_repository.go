package repository

import (
	"lingua_edu_backend/internal/model"

	"gorm.io/gorm"
)

type WordRepository struct {
	DB *gorm.DB
}

func NewWordRepository(db *gorm.DB) *WordRepository {
	return &WordRepository{DB: db}
}

func (r *WordRepository) Create(word *model.Word) error {
	return r.DB.Create(word).Error
}

func (r *WordRepository) Update(word *model.Word) error {
	return r.DB.Save(word).Error
}

func (r *WordRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Word{}, id).Error
}

func (r *WordRepository) FindByID(id uint) (*model.Word, error) {
	var word model.Word
	err := r.DB.First(&word, id).Error
	return &word, err
}

func (r *WordRepository) List(search, timeFilter string, page, limit int) ([]model.Word, int64, error) {
	var words []model.Word
	var total int64

	query := r.DB.Model(&model.Word{})
	if search != "" {
		query = query.Where("content LIKE ?", "%"+search+"%")
	}
	query = createdWithin(query, timeFilter)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&words).Error
	return words, total, err
}
