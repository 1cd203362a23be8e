package database

import (
	"context"
	"errors"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/config"
	"campus-portal-backend/internal/model"
)

var testDB *DBinstanceStruct

func TestMain(m *testing.M) {
	td, db, err := GetTestDB()
	if err != nil {
		log.Printf("could not start postgres container: %v", err)
		os.Exit(1)
	}
	testDB = db

	code := m.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if td != nil {
		_ = td(ctx)
	}
	os.Exit(code)
}

func TestHealth(t *testing.T) {
	stats := testDB.Health()

	assert.Equal(t, "up", stats["status"])
	_, hasErr := stats["error"]
	assert.False(t, hasErr)
	assert.Equal(t, "It's healthy", stats["message"])
}

func TestClose(t *testing.T) {
	db, err := NewDBInstance(testDB.Config, config.AdminConfig{}, zap.NewNop())
	require.NoError(t, err)

	assert.NoError(t, db.Close())
}

func TestCreateAdminOnlyOnce(t *testing.T) {
	admin := config.AdminConfig{Name: "Root", Email: "root@example.com", Password: "rootpass"}

	_, err := NewDBInstance(testDB.Config, admin, zap.NewNop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, testDB.Model(&model.User{}).Where("email = ?", "root@example.com").Count(&count).Error)
	assert.Equal(t, int64(0), count, "an admin is already seeded so no new one is created")
}

func TestUniqueEmailIsConflict(t *testing.T) {
	dup := model.NewUser("Copy", TestUserStudent1.Email, "x", model.RoleStudent)
	err := TranslateError(testDB.Create(&dup).Error, "User not found")

	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "User already exists with this email", apperror.Message(err))
}

func TestUniqueApplicationIsConflict(t *testing.T) {
	first := model.NewApplication(TestJob2.ID, TestStudent2.ID, time.Now())
	require.NoError(t, testDB.Create(&first).Error)

	second := model.NewApplication(TestJob2.ID, TestStudent2.ID, time.Now())
	err := TranslateError(testDB.Create(&second).Error, "Application not found")

	assert.True(t, apperror.Is(err, apperror.KindConflict))
	assert.Equal(t, "You have already applied for this job", apperror.Message(err))
}

func TestCheckConstraintIsValidation(t *testing.T) {
	err := testDB.Model(&model.Student{}).Where("id = ?", TestStudent1.ID).Update("cgpa", 42).Error
	err = TranslateError(err, "Student profile not found")

	assert.True(t, apperror.Is(err, apperror.KindValidation))
}

func TestTranslateError(t *testing.T) {
	assert.NoError(t, TranslateError(nil, "x"))

	err := TranslateError(gorm.ErrRecordNotFound, "Job not found")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
	assert.Equal(t, "Job not found", apperror.Message(err))

	err = TranslateError(&pgconn.PgError{Code: "23503"}, "Job not found")
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	err = TranslateError(errors.New("connection reset"), "Job not found")
	assert.True(t, apperror.Is(err, apperror.KindInternal))

	forbidden := apperror.Forbidden("nope", nil)
	assert.Same(t, forbidden, TranslateError(forbidden, "x"))
}

func TestFindProfiles(t *testing.T) {
	ctx := context.Background()

	student, err := FindStudentByUser(ctx, testDB.DB, TestUserStudent1.ID)
	require.NoError(t, err)
	assert.Equal(t, TestStudent1.ID, student.ID)

	company, err := FindCompanyByUser(ctx, testDB.DB, TestUserCompany1.ID)
	require.NoError(t, err)
	assert.Equal(t, TestCompany1.ID, company.ID)

	_, err = FindStudentByUser(ctx, testDB.DB, TestUserCompany1.ID)
	assert.True(t, apperror.Is(err, apperror.KindNotFound))

	_, err = FindCompanyByUser(ctx, testDB.DB, uuid.New())
	assert.True(t, apperror.Is(err, apperror.KindNotFound))
}
