package admin

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/controller/file"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/middleware"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/testutil"
	"campus-portal-backend/internal/utilities"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	code := m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
	os.Exit(code)
}

type brokenStorage struct{}

func (brokenStorage) UploadFile(context.Context, string, string, io.Reader) (string, error) {
	return "", errors.New("bucket unavailable")
}

func (brokenStorage) DeletePrefix(context.Context, string) error {
	return errors.New("bucket unavailable")
}

func setupRouter(storage file.StorageClient) *gin.Engine {
	resolver := auth.NewLocalAuthHandler(testDB, auth.TestTokens, zap.NewNop(), false)
	ac := NewAdminController(testDB, storage, zap.NewNop())

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	group := r.Group("/admin", middleware.RequireAuth(resolver), middleware.CheckRole(model.RoleAdmin))
	group.GET("/stats", ac.GetStatsHandler)
	group.GET("/users", ac.GetUsers)
	group.PUT("/companies/:id/verify", ac.VerifyCompanyHandler)
	group.DELETE("/users/:id", ac.DeleteUserHandler)
	return r
}

func login(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

// createStudent inserts a throwaway student account with a profile.
func createStudent(t *testing.T) (model.User, model.Student) {
	t.Helper()
	hashed, err := utilities.HashPassword(database.TestSeedPassword)
	require.NoError(t, err)

	user := model.NewUser("Temp Student", uuid.NewString()+"@example.com", hashed, model.RoleStudent)
	require.NoError(t, testDB.Create(&user).Error)
	student := model.NewStudent(user.ID, model.EditableStudentInfo{College: "Mahidol University"}, time.Now())
	require.NoError(t, testDB.Create(&student).Error)
	return user, student
}

func TestGetStats(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(file.NewMemoryStorage()), "/admin/stats", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var users, students, jobs, openJobs, apps int64
	require.NoError(t, testDB.Model(&model.User{}).Count(&users).Error)
	require.NoError(t, testDB.Model(&model.User{}).Where("role = ?", model.RoleStudent).Count(&students).Error)
	require.NoError(t, testDB.Model(&model.Job{}).Count(&jobs).Error)
	require.NoError(t, testDB.Model(&model.Job{}).Where("status = ?", model.JobStatusOpen).Count(&openJobs).Error)
	require.NoError(t, testDB.Model(&model.Application{}).Count(&apps).Error)

	data := resp["data"].(map[string]interface{})
	userStats := data["users"].(map[string]interface{})
	assert.Equal(t, float64(users), userStats["total"])
	assert.Equal(t, float64(students), userStats["students"])
	assert.GreaterOrEqual(t, userStats["admins"].(float64), float64(1))
	jobStats := data["jobs"].(map[string]interface{})
	assert.Equal(t, float64(jobs), jobStats["total"])
	assert.Equal(t, float64(openJobs), jobStats["active"])
	assert.Equal(t, float64(apps), data["applications"])
}

func TestGetStats_StudentForbidden(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestUserStudent1.Email), setupRouter(file.NewMemoryStorage()), "/admin/stats", http.MethodGet)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role student is not authorized to access this route", resp["message"])
}

func TestGetUsers_NewestFirstWithoutPassword(t *testing.T) {
	newest, _ := createStudent(t)

	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(file.NewMemoryStorage()), "/admin/users", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	list := resp["data"].([]interface{})
	assert.Equal(t, float64(len(list)), resp["count"])
	assert.Equal(t, newest.ID.String(), list[0].(map[string]interface{})["id"])
	assert.False(t, bytes.Contains(rec.Body.Bytes(), []byte("password")))
}

func TestVerifyCompany_Toggles(t *testing.T) {
	r := setupRouter(file.NewMemoryStorage())
	token := login(t, database.TestAdminUser.Email)
	path := "/admin/companies/" + database.TestCompany2.ID.String() + "/verify"

	rec, resp := testutil.MakeJSONRequest(nil, token, r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Company verified successfully", resp["message"])
	assert.Equal(t, true, resp["data"].(map[string]interface{})["verified"])

	rec, resp = testutil.MakeJSONRequest(nil, token, r, path, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Company unverified successfully", resp["message"])

	var stored model.Company
	require.NoError(t, testDB.Where("id = ?", database.TestCompany2.ID).First(&stored).Error)
	assert.False(t, stored.Verified)
}

func TestVerifyCompany_NotFound(t *testing.T) {
	r := setupRouter(file.NewMemoryStorage())
	token := login(t, database.TestAdminUser.Email)

	rec, resp := testutil.MakeJSONRequest(nil, token, r, "/admin/companies/"+uuid.NewString()+"/verify", http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Company not found", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, token, r, "/admin/companies/abc/verify", http.MethodPut)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteUser_Self(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(file.NewMemoryStorage()),
		"/admin/users/"+database.TestAdminUser.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "You cannot delete yourself", resp["message"])
}

func TestDeleteUser_NotFound(t *testing.T) {
	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(file.NewMemoryStorage()),
		"/admin/users/"+uuid.NewString(), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "User not found", resp["message"])
}

func TestDeleteUser_RemovesProfileAndMedia(t *testing.T) {
	storage := file.NewMemoryStorage()
	user, student := createStudent(t)
	prefix := file.ObjectPrefix(file.KindResume, student.ID)
	_, err := storage.UploadFile(context.Background(), prefix+"cv.pdf", "application/pdf", bytes.NewReader(testutil.MinimalPDF))
	require.NoError(t, err)

	job := database.TestJob1
	app := model.NewApplication(job.ID, student.ID, time.Now())
	require.NoError(t, testDB.Create(&app).Error)

	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(storage),
		"/admin/users/"+user.ID.String(), http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "User deleted successfully", resp["message"])

	var n int64
	require.NoError(t, testDB.Model(&model.User{}).Where("id = ?", user.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, testDB.Model(&model.Student{}).Where("id = ?", student.ID).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, testDB.Model(&model.Application{}).Where("id = ?", app.ID).Count(&n).Error)
	assert.Zero(t, n)
	assert.Zero(t, storage.Count(prefix))
}

func TestDeleteUser_StorageFailureIsNotFatal(t *testing.T) {
	user, _ := createStudent(t)

	rec, _ := testutil.MakeJSONRequest(nil, login(t, database.TestAdminUser.Email), setupRouter(brokenStorage{}),
		"/admin/users/"+user.ID.String(), http.MethodDelete)
	assert.Equal(t, http.StatusOK, rec.Code)
}
