package testutil

import (
	"testing"

	"github.com/wearlab/tryon-backend/internal/models"
	"github.com/wearlab/tryon-backend/internal/utils"
	"gorm.io/gorm"
)

// CreateTestUser inserts a user with a real password hash.
func CreateTestUser(t *testing.T, db *gorm.DB, name, username, password string, role int) *models.User {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("Failed to hash fixture password: %v", err)
	}

	user := &models.User{
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to insert fixture user: %v", err)
	}
	return user
}

// CreateTestRecord inserts a try-on record with the given stored paths.
func CreateTestRecord(t *testing.T, db *gorm.DB, userID uint, person, cloth, output string) *models.TryOnRecord {
	t.Helper()

	record := &models.TryOnRecord{
		UserID:          userID,
		PersonImagePath: person,
		ClothImagePath:  cloth,
		OutputImagePath: output,
	}
	if err := db.Create(record).Error; err != nil {
		t.Fatalf("Failed to insert fixture record: %v", err)
	}
	return record
}
