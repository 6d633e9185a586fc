package models

import "gorm.io/gorm"

// Like relates one user to one image. The composite unique index keeps at
// most one row per (user, image) pair; a concurrent duplicate toggle loses to
// the constraint rather than producing a second row.
type Like struct {
	ID         string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID     string `json:"userId" gorm:"uniqueIndex:idx_likes_user_image;type:varchar(36)"`
	ImageID    string `json:"imageId" gorm:"uniqueIndex:idx_likes_user_image;type:varchar(36)"`
	gorm.Model        // Embed gorm.Model for CreatedAt, UpdatedAt, DeletedAt
}
