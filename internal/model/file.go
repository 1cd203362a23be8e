package model

import (
	"time"

	"github.com/google/uuid"
)

// File is an uploaded object kept in the database when no cloud bucket is configured.
type File struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	ObjectName  string    `gorm:"type:text;not null;index" json:"objectName"`
	ContentType string    `gorm:"type:text;not null" json:"contentType"`
	Content     []byte    `json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
}
