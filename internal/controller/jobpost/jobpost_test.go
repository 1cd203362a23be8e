package jobpost

import (
	"context"
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
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/events"
	"campus-portal-backend/internal/middleware"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/testutil"
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

func setupRouter(jc *JobPostController) *gin.Engine {
	resolver := auth.NewLocalAuthHandler(testDB, auth.TestTokens, zap.NewNop(), false)
	companyOnly := []gin.HandlerFunc{middleware.RequireAuth(resolver), middleware.CheckRole(model.RoleCompany)}

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	r.GET("/jobs", jc.GetPosts)
	r.GET("/jobs/my-jobs", append(companyOnly, jc.GetMyPosts)...)
	r.GET("/jobs/:id", jc.GetPostByID)
	r.POST("/jobs", append(companyOnly, jc.CreateJobHandler)...)
	r.PUT("/jobs/:id", append(companyOnly, jc.EditJobPost)...)
	r.DELETE("/jobs/:id", append(companyOnly, jc.DeleteJobPost)...)
	return r
}

func newController(requireVerified bool) (*JobPostController, *events.Recorder) {
	rec := &events.Recorder{}
	return NewJobPostController(testDB, rec, zap.NewNop(), requireVerified), rec
}

func login(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GetAccessToken(t, testDB, email, database.TestSeedPassword)
	require.NoError(t, err)
	return token
}

func validJob(title string) gin.H {
	return gin.H{
		"title":        title,
		"description":  "Maintain internal tooling.",
		"requirements": "Go",
		"location":     "Remote",
		"salary":       "30000 THB",
		"type":         model.JobTypeContract,
		"deadline":     time.Now().AddDate(0, 1, 0).Format("2006-01-02"),
	}
}

func jobIDs(resp map[string]interface{}) []string {
	ids := []string{}
	for _, raw := range resp["data"].([]interface{}) {
		ids = append(ids, raw.(map[string]interface{})["id"].(string))
	}
	return ids
}

func TestGetPosts_OnlyOpenNewestFirst(t *testing.T) {
	jc, _ := newController(false)
	rec, resp := testutil.MakeJSONRequest(nil, "", setupRouter(jc), "/jobs", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	ids := jobIDs(resp)
	assert.Equal(t, float64(len(ids)), resp["count"])
	assert.NotContains(t, ids, database.TestJob3.ID.String())

	var prev time.Time
	for i, raw := range resp["data"].([]interface{}) {
		job := raw.(map[string]interface{})
		assert.Equal(t, model.JobStatusOpen, job["status"])
		created, err := time.Parse(time.RFC3339Nano, job["createdAt"].(string))
		require.NoError(t, err)
		if i > 0 {
			assert.False(t, created.After(prev), "jobs must be newest first")
		}
		prev = created

		company := job["company"].(map[string]interface{})
		assert.NotEmpty(t, company["user"].(map[string]interface{})["name"])
	}
}

func TestGetPosts_Filters(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)

	_, resp := testutil.MakeJSONRequest(nil, "", r, "/jobs?search=BACKEND", http.MethodGet)
	assert.Contains(t, jobIDs(resp), database.TestJob1.ID.String())
	assert.NotContains(t, jobIDs(resp), database.TestJob2.ID.String())

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/jobs?type=Internship", http.MethodGet)
	assert.Contains(t, jobIDs(resp), database.TestJob1.ID.String())
	assert.NotContains(t, jobIDs(resp), database.TestJob3.ID.String())

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/jobs?location=bangkok", http.MethodGet)
	assert.Equal(t, []string{database.TestJob1.ID.String()}, jobIDs(resp))

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/jobs?search=%25", http.MethodGet)
	assert.Empty(t, jobIDs(resp))
}

func TestGetPostByID(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)

	rec, resp := testutil.MakeJSONRequest(nil, "", r, "/jobs/"+database.TestJob3.ID.String(), http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, model.JobStatusClosed, data["status"])
	assert.Equal(t, "DataForge", data["company"].(map[string]interface{})["user"].(map[string]interface{})["name"])

	rec, resp = testutil.MakeJSONRequest(nil, "", r, "/jobs/not-a-uuid", http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Job not found", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, "", r, "/jobs/"+uuid.NewString(), http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateJob_Success(t *testing.T) {
	jc, recorder := newController(false)
	r := setupRouter(jc)

	rec, resp := testutil.MakeJSONRequest(validJob("Platform Contractor"), login(t, database.TestUserCompany2.Email), r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, model.JobStatusOpen, data["status"])
	assert.Equal(t, database.TestCompany2.ID.String(), data["companyId"])

	ev, ok := recorder.Last(events.SubjectJobCreated)
	require.True(t, ok)
	assert.Equal(t, data["id"], ev.Payload.(events.JobCreated).JobID.String())
}

func TestCreateJob_RequireVerifiedCompany(t *testing.T) {
	jc, recorder := newController(true)
	r := setupRouter(jc)

	rec, resp := testutil.MakeJSONRequest(validJob("Unverified Post"), login(t, database.TestUserCompany2.Email), r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Only verified companies can post jobs", resp["message"])
	assert.Empty(t, recorder.Subjects())

	rec, _ = testutil.MakeJSONRequest(validJob("Verified Post"), login(t, database.TestUserCompany1.Email), r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateJob_Invalid(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)
	token := login(t, database.TestUserCompany1.Email)

	noSalary := validJob("No Salary")
	delete(noSalary, "salary")
	rec, resp := testutil.MakeJSONRequest(noSalary, token, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide salary information", resp["message"])

	badType := validJob("Bad Type")
	badType["type"] = "Part-time"
	rec, _ = testutil.MakeJSONRequest(badType, token, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	badDeadline := validJob("Bad Deadline")
	badDeadline["deadline"] = "next week"
	rec, resp = testutil.MakeJSONRequest(badDeadline, token, r, "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Please provide a valid application deadline", resp["message"])
}

func TestCreateJob_StudentForbidden(t *testing.T) {
	jc, _ := newController(false)
	rec, _ := testutil.MakeJSONRequest(validJob("Student Post"), login(t, database.TestUserStudent1.Email), setupRouter(jc), "/jobs", http.MethodPost)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestGetMyPosts(t *testing.T) {
	jc, _ := newController(false)
	rec, resp := testutil.MakeJSONRequest(nil, login(t, database.TestUserCompany1.Email), setupRouter(jc), "/jobs/my-jobs", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code)

	ids := jobIDs(resp)
	assert.Contains(t, ids, database.TestJob1.ID.String())
	assert.Contains(t, ids, database.TestJob2.ID.String())
	assert.NotContains(t, ids, database.TestJob3.ID.String())
}

func TestEditJobPost_NonOwnerForbidden(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)

	rec, resp := testutil.MakeJSONRequest(gin.H{"title": "Hijacked"}, login(t, database.TestUserCompany2.Email), r,
		"/jobs/"+database.TestJob1.ID.String(), http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to update this job", resp["message"])

	var stored model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJob1.ID).First(&stored).Error)
	assert.Equal(t, database.TestJob1.Title, stored.Title)
}

func TestEditJobPost_OwnerUpdatesAndCloses(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)
	token := login(t, database.TestUserCompany1.Email)

	rec, resp := testutil.MakeJSONRequest(validJob("Temporary Role"), token, r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := resp["data"].(map[string]interface{})["id"].(string)

	rec, resp = testutil.MakeJSONRequest(gin.H{"salary": "35000 THB", "status": model.JobStatusClosed, "title": ""}, token, r, "/jobs/"+id, http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "35000 THB", data["salary"])
	assert.Equal(t, "Temporary Role", data["title"])
	assert.Equal(t, model.JobStatusClosed, data["status"])

	rec, resp = testutil.MakeJSONRequest(gin.H{"status": "Paused"}, token, r, "/jobs/"+id, http.MethodPut)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Job status must be Open or Closed", resp["message"])

	_, resp = testutil.MakeJSONRequest(nil, "", r, "/jobs", http.MethodGet)
	assert.NotContains(t, jobIDs(resp), id)
}

func TestDeleteJobPost(t *testing.T) {
	jc, _ := newController(false)
	r := setupRouter(jc)
	owner := login(t, database.TestUserCompany1.Email)

	rec, resp := testutil.MakeJSONRequest(validJob("Short Lived"), owner, r, "/jobs", http.MethodPost)
	require.Equal(t, http.StatusCreated, rec.Code)
	id := resp["data"].(map[string]interface{})["id"].(string)
	jobID := uuid.MustParse(id)

	app := model.NewApplication(jobID, database.TestStudent1.ID, time.Now())
	require.NoError(t, testDB.Create(&app).Error)

	rec, resp = testutil.MakeJSONRequest(nil, login(t, database.TestUserCompany2.Email), r, "/jobs/"+id, http.MethodDelete)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not authorized to delete this job", resp["message"])

	rec, resp = testutil.MakeJSONRequest(nil, owner, r, "/jobs/"+id, http.MethodDelete)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Job deleted successfully", resp["message"])

	rec, _ = testutil.MakeJSONRequest(nil, "", r, "/jobs/"+id, http.MethodGet)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var n int64
	require.NoError(t, testDB.Model(&model.Application{}).Where("job_id = ?", jobID).Count(&n).Error)
	assert.Zero(t, n)

	rec, _ = testutil.MakeJSONRequest(nil, owner, r, "/jobs/"+uuid.NewString(), http.MethodDelete)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
