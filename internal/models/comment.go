package models

import "gorm.io/gorm"

// Comment holds free text a user posted on an image. Comments are immutable
// and listed newest first with the author's display name attached.
type Comment struct {
	ID      string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID  string `json:"userId" gorm:"index;type:varchar(36)"`
	ImageID string `json:"imageId" gorm:"index;type:varchar(36)"`
	Content string `json:"content" gorm:"type:text" validate:"required,min=3"`
	User    *User  `json:"-" gorm:"foreignKey:UserID"` // preloaded for the author's name, never serialized whole

	gorm.Model
}
