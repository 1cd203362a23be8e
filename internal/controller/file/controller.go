// Package file provides HTTP handlers for resume and logo uploads.
package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

// FileController handles file related endpoints
type FileController struct {
	DB             *database.DBinstanceStruct
	Storage        StorageClient
	MaxUploadBytes int64
	Logger         *zap.Logger
}

// NewFileController creates a new instance of FileController
func NewFileController(db *database.DBinstanceStruct, storage StorageClient, maxUploadBytes int64, logger *zap.Logger) *FileController {
	return &FileController{
		DB:             db,
		Storage:        storage,
		MaxUploadBytes: maxUploadBytes,
		Logger:         logger,
	}
}

// UploadAndAttach validates the payload, stores it and points the owner's profile at it.
// It returns the updated student or company profile.
func (fc *FileController) UploadAndAttach(ctx context.Context, userID uuid.UUID, kind MediaKind, data []byte, declaredType string) (interface{}, error) {
	contentType, ext, err := ValidateUpload(kind, declaredType, data, fc.MaxUploadBytes)
	if err != nil {
		return nil, err
	}

	switch kind {
	case KindResume:
		student, err := database.FindStudentByUser(ctx, fc.DB.DB, userID)
		if err != nil {
			return nil, err
		}
		url, err := fc.store(ctx, kind, student.ID, contentType, ext, data)
		if err != nil {
			return nil, err
		}
		student.Resume = &url
		student.UpdatedAt = time.Now()
		if err := fc.DB.WithContext(ctx).Model(&student).Select("resume", "updated_at").Updates(&student).Error; err != nil {
			return nil, database.TranslateError(err, "Student profile not found")
		}
		return student, nil

	case KindLogo:
		company, err := database.FindCompanyByUser(ctx, fc.DB.DB, userID)
		if err != nil {
			return nil, err
		}
		url, err := fc.store(ctx, kind, company.ID, contentType, ext, data)
		if err != nil {
			return nil, err
		}
		company.Logo = &url
		company.UpdatedAt = time.Now()
		if err := fc.DB.WithContext(ctx).Model(&company).Select("logo", "updated_at").Updates(&company).Error; err != nil {
			return nil, database.TranslateError(err, "Company profile not found")
		}
		return company, nil
	}

	return nil, apperror.Validation(fmt.Sprintf("Unknown upload kind %q", kind), nil)
}

func (fc *FileController) store(ctx context.Context, kind MediaKind, profileID uuid.UUID, contentType, ext string, data []byte) (string, error) {
	objectName := ObjectPrefix(kind, profileID) + uuid.New().String() + ext
	url, err := fc.Storage.UploadFile(ctx, objectName, contentType, bytes.NewReader(data))
	if err != nil {
		return "", apperror.Upload("Failed to upload file", err)
	}
	return url, nil
}

// readFormFile returns the bytes and declared content type of the multipart field.
func (fc *FileController) readFormFile(c *gin.Context, field string) ([]byte, string, error) {
	rawFile, err := c.FormFile(field)
	var maxBytesError *http.MaxBytesError
	if errors.As(err, &maxBytesError) {
		return nil, "", apperror.Validation(fmt.Sprintf("File size cannot exceed %dMB", fc.MaxUploadBytes>>20), err)
	}
	if err != nil {
		return nil, "", apperror.Validation("Please upload a file", err)
	}

	f, err := rawFile.Open()
	if err != nil {
		return nil, "", apperror.Internal("Cannot open file", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fc.Logger.Warn("failed to close uploaded file", zap.Error(err))
		}
	}()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", apperror.Internal("Cannot read file", err)
	}
	return data, rawFile.Header.Get("Content-Type"), nil
}

func (fc *FileController) upload(c *gin.Context, field string, kind MediaKind) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	data, declared, err := fc.readFormFile(c, field)
	if err != nil {
		_ = c.Error(err)
		return
	}

	profile, err := fc.UploadAndAttach(c.Request.Context(), user.ID, kind, data, declared)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.OK(profile))
}

// UploadResume godoc
// @Summary Upload resume
// @Description Only PDF files up to 5 MB are accepted
// @Tags students
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param resume formData file true "Resume file"
// @Success 200 {object} utilities.Response
// @Failure 400 {object} utilities.Response
// @Failure 401 {object} utilities.Response
// @Failure 403 {object} utilities.Response
// @Failure 500 {object} utilities.Response
// @Router /students/resume [post]
func (fc *FileController) UploadResume(c *gin.Context) {
	fc.upload(c, "resume", KindResume)
}

// UploadLogo godoc
// @Summary Upload company logo
// @Description Only JPEG and PNG images up to 5 MB are accepted
// @Tags companies
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param logo formData file true "Logo image"
// @Success 200 {object} utilities.Response
// @Failure 400 {object} utilities.Response
// @Failure 401 {object} utilities.Response
// @Failure 403 {object} utilities.Response
// @Failure 500 {object} utilities.Response
// @Router /companies/logo [post]
func (fc *FileController) UploadLogo(c *gin.Context) {
	fc.upload(c, "logo", KindLogo)
}

// GetFile godoc
// @Summary Download a stored file
// @Description Serves media kept in the database storage backend
// @Tags files
// @Produce octet-stream
// @Param id path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} utilities.Response
// @Router /files/{id} [get]
func (fc *FileController) GetFile(c *gin.Context) {
	id, err := utilities.ParseID(c.Param("id"), "File")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var f model.File
	if err := fc.DB.WithContext(c.Request.Context()).Where("id = ?", id).First(&f).Error; err != nil {
		_ = c.Error(database.TranslateError(err, "File not found"))
		return
	}

	c.Header("Cache-Control", "public, max-age=86400")
	c.Data(http.StatusOK, f.ContentType, f.Content)
}
