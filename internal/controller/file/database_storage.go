package file

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-portal-backend/internal/model"
)

// DatabaseStorage keeps objects in the files table and serves them from /api/files/:id.
type DatabaseStorage struct {
	DB      *gorm.DB
	BaseURL string
}

func NewDatabaseStorage(db *gorm.DB, publicBaseURL string) *DatabaseStorage {
	return &DatabaseStorage{DB: db, BaseURL: strings.TrimRight(publicBaseURL, "/")}
}

func (s *DatabaseStorage) UploadFile(ctx context.Context, objectName string, contentType string, fileData io.Reader) (string, error) {
	content, err := io.ReadAll(fileData)
	if err != nil {
		return "", fmt.Errorf("failed to read file data: %w", err)
	}

	f := model.File{
		ID:          uuid.New(),
		ObjectName:  objectName,
		ContentType: contentType,
		Content:     content,
		CreatedAt:   time.Now(),
	}
	if err := s.DB.WithContext(ctx).Create(&f).Error; err != nil {
		return "", fmt.Errorf("failed to store file: %w", err)
	}
	return fmt.Sprintf("%s/api/files/%s", s.BaseURL, f.ID), nil
}

func (s *DatabaseStorage) DeletePrefix(ctx context.Context, prefix string) error {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(prefix)
	return s.DB.WithContext(ctx).Where("object_name LIKE ?", escaped+"%").Delete(&model.File{}).Error
}
