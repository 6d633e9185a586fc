package models

import "gorm.io/gorm"

// Image is the locally cached copy of an Unsplash photo. A row is created
// lazily the first time an authenticated action touches an unsplashId; after
// that it is the source of truth for that id and is never updated.
type Image struct {
	ID          string   `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UnsplashID  string   `json:"unsplashId" gorm:"uniqueIndex;type:varchar(64)"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Thumbnail   string   `json:"thumbnail"`
	Full        string   `json:"full"`
	Description string   `json:"description"`
	Tags        []string `json:"tags" gorm:"serializer:json"`
	gorm.Model
}
