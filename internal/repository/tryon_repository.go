package repository

import (
	"github.com/wearlab/tryon-backend/internal/models"
	"gorm.io/gorm"
)

type TryOnRepository struct {
	db *gorm.DB
}

func NewTryOnRepository(db *gorm.DB) *TryOnRepository {
	return &TryOnRepository{db: db}
}

func (r *TryOnRepository) CreateRecord(record *models.TryOnRecord) error {
	return r.db.Create(record).Error
}

// UpdatePaths fills in the three file paths after the files are on disk.
func (r *TryOnRepository) UpdatePaths(recordID uint, person, cloth, output string) error {
	return r.db.Model(&models.TryOnRecord{}).
		Where("id = ?", recordID).
		Updates(map[string]interface{}{
			"person_image_path": person,
			"cloth_image_path":  cloth,
			"output_image_path": output,
		}).Error
}

// GetAllRecords returns every try-on record across all users (admin gallery).
func (r *TryOnRepository) GetAllRecords() ([]models.TryOnRecord, error) {
	var records []models.TryOnRecord
	err := r.db.Order("created_at DESC").Find(&records).Error
	return records, err
}

func (r *TryOnRepository) GetRecordsByUser(userID uint) ([]models.TryOnRecord, error) {
	var records []models.TryOnRecord
	err := r.db.
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&records).Error
	return records, err
}
