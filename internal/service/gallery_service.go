package service

import (
	"time"

	"github.com/wearlab/tryon-backend/internal/apperrors"
	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/internal/repository"
	"github.com/wearlab/tryon-backend/internal/storage"
	"github.com/wearlab/tryon-backend/pkg/logger"
	"go.uber.org/zap"
)

type GalleryEntry struct {
	Username       string    `json:"username"`
	PersonImageURL string    `json:"person_image_url"`
	ClothImageURL  string    `json:"cloth_image_url"`
	OutputImageURL string    `json:"output_image_url"`
	CreatedAt      time.Time `json:"created_at"`
}

type GalleryService struct {
	userRepo    *repository.UserRepository
	tryonRepo   *repository.TryOnRepository
	backendURL  string
	storageRoot string
}

func NewGalleryService(userRepo *repository.UserRepository, tryonRepo *repository.TryOnRepository, backendURL, storageRoot string) *GalleryService {
	return &GalleryService{
		userRepo:    userRepo,
		tryonRepo:   tryonRepo,
		backendURL:  backendURL,
		storageRoot: storageRoot,
	}
}

// ListGallery returns the caller's gallery. Administrators see every record
// across all users; regular users see only their own.
func (s *GalleryService) ListGallery(callerUsername string) ([]GalleryEntry, error) {
	caller, err := s.userRepo.GetUserByUsername(callerUsername)
	if err != nil {
		logger.Log.Error("Failed to resolve gallery caller",
			zap.String("username", callerUsername),
			zap.Error(err),
		)
		return nil, err
	}
	if caller == nil {
		return nil, apperrors.New(apperrors.KindUnauthorized, "You are not logged in, please login")
	}

	var records []models.TryOnRecord
	if caller.IsAdmin() {
		records, err = s.tryonRepo.GetAllRecords()
	} else {
		records, err = s.tryonRepo.GetRecordsByUser(caller.ID)
	}
	if err != nil {
		logger.Log.Error("Failed to load try-on records",
			zap.Uint("caller_id", caller.ID),
			zap.Error(err),
		)
		return nil, err
	}

	// Owner lookups are cached for the duration of the call so the admin
	// branch does one query per distinct owner, not per record.
	usernames := map[uint]string{caller.ID: caller.Username}

	gallery := make([]GalleryEntry, 0, len(records))
	for _, rec := range records {
		name, ok := usernames[rec.UserID]
		if !ok {
			owner, err := s.userRepo.GetUserByID(rec.UserID)
			if err != nil {
				return nil, err
			}
			if owner == nil {
				// Orphaned record; skip rather than fail the whole listing.
				logger.Log.Warn("Try-on record has no owner",
					zap.Uint("record_id", rec.ID),
					zap.Uint("user_id", rec.UserID),
				)
				continue
			}
			name = owner.Username
			usernames[rec.UserID] = name
		}

		gallery = append(gallery, GalleryEntry{
			Username:       name,
			PersonImageURL: storage.PublicURL(s.backendURL, s.storageRoot, rec.PersonImagePath),
			ClothImageURL:  storage.PublicURL(s.backendURL, s.storageRoot, rec.ClothImagePath),
			OutputImageURL: storage.PublicURL(s.backendURL, s.storageRoot, rec.OutputImagePath),
			CreatedAt:      rec.CreatedAt,
		})
	}

	return gallery, nil
}
