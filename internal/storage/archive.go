package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Paths are the stored (relative) locations of one try-on attempt's files.
type Paths struct {
	PersonImage string
	ClothImage  string
	OutputImage string
}

// Archive writes try-on images to a per-user, per-record directory under
// the upload root and tracks them as TryOnRecord rows.
type Archive struct {
	db   *gorm.DB
	root string
}

func NewArchive(db *gorm.DB, root string) *Archive {
	return &Archive{db: db, root: root}
}

// Save persists one try-on attempt. The record row is inserted first so its
// id can name the directory; if anything after the insert fails, the
// transaction rolls the row back. Files already written by a failed attempt
// are left on disk.
func (a *Archive) Save(username string, personBytes, clothBytes, outputBytes []byte) (Paths, error) {
	var paths Paths

	err := a.db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("username = ?", username).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.New(apperrors.KindUnknownUser, "No user found for "+username)
			}
			return err
		}

		record := models.TryOnRecord{UserID: user.ID}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}

		dir := filepath.Join(a.root, "users", username, fmt.Sprintf("tryon_%d", record.ID))
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}

		paths = Paths{
			PersonImage: filepath.Join(dir, "person.jpg"),
			ClothImage:  filepath.Join(dir, "cloth.jpg"),
			OutputImage: filepath.Join(dir, "output.png"),
		}

		if err := os.WriteFile(paths.PersonImage, personBytes, 0644); err != nil {
			return err
		}
		if err := os.WriteFile(paths.ClothImage, clothBytes, 0644); err != nil {
			return err
		}
		if err := os.WriteFile(paths.OutputImage, outputBytes, 0644); err != nil {
			return err
		}

		return tx.Model(&record).Updates(map[string]interface{}{
			"person_image_path": paths.PersonImage,
			"cloth_image_path":  paths.ClothImage,
			"output_image_path": paths.OutputImage,
		}).Error
	})

	if err != nil {
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return Paths{}, err
		}
		logger.Log.Error("Failed to archive try-on images",
			zap.String("username", username),
			zap.Error(err),
		)
		return Paths{}, apperrors.Wrap(apperrors.KindPersistenceFailure, "Failed to save try-on images", err)
	}

	return paths, nil
}
