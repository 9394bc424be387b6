package models

import "time"

// TryOnRecord is one try-on attempt. The three paths are filled in after
// the row is created: the row id names the storage directory, so the record
// is inserted first with empty paths and updated once the files are written.
type TryOnRecord struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `gorm:"not null;index" json:"user_id"`
	PersonImagePath string    `gorm:"type:varchar(512)" json:"person_image_path"`
	ClothImagePath  string    `gorm:"type:varchar(512)" json:"cloth_image_path"`
	OutputImagePath string    `gorm:"type:varchar(512)" json:"output_image_path"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}
