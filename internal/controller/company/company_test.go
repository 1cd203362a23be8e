package company

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"go.uber.org/zap"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/database"
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

func setupRouter() *gin.Engine {
	resolver := auth.NewLocalAuthHandler(testDB, auth.TestTokens, zap.NewNop(), false)
	cc := NewCompanyController(testDB)

	r := gin.New()
	r.Use(middleware.ErrorHandler(zap.NewNop()))
	group := r.Group("/companies", middleware.RequireAuth(resolver), middleware.CheckRole(model.RoleCompany))
	group.GET("/me", cc.GetMyProfile)
	group.PUT("/me", cc.EditMyProfile)
	return r
}

func TestGetMyProfile_Success(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCompany1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(nil, token, setupRouter(), "/companies/me", http.MethodGet)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, database.TestCompany1.ID.String(), data["id"])
	assert.Equal(t, true, data["verified"])
	assert.Equal(t, "TechNova", data["user"].(map[string]interface{})["name"])
}

func TestEditMyProfile_NonCompanyForbidden(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserStudent1.Email, database.TestSeedPassword)
	require.NoError(t, err)

	rec, resp := testutil.MakeJSONRequest(gin.H{"industry": "Malicious Update"}, token, setupRouter(), "/companies/me", http.MethodPut)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "User role student is not authorized to access this route", resp["message"])
}

func TestEditMyProfile_MergesNonEmptyFields(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCompany2.Email, database.TestSeedPassword)
	require.NoError(t, err)

	body := gin.H{"size": "51-100", "industry": "", "verified": true}
	rec, resp := testutil.MakeJSONRequest(body, token, setupRouter(), "/companies/me", http.MethodPut)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "51-100", data["size"])
	assert.Equal(t, "Consulting", data["industry"])
	assert.Equal(t, false, data["verified"])

	var stored model.Company
	require.NoError(t, testDB.Where("id = ?", database.TestCompany2.ID).First(&stored).Error)
	assert.Equal(t, "51-100", stored.Size)
	assert.False(t, stored.Verified)
}

func TestEditMyProfile_InvalidValues(t *testing.T) {
	token, err := auth.GetAccessToken(t, testDB, database.TestUserCompany1.Email, database.TestSeedPassword)
	require.NoError(t, err)
	r := setupRouter()

	cases := map[string]struct {
		body gin.H
		msg  string
	}{
		"size band":   {gin.H{"size": "2-3"}, "Company size must be one of 1-10, 11-50, 51-100, 101-500, 500+"},
		"website":     {gin.H{"website": "technova.example.com"}, "Please provide a valid URL"},
		"description": {gin.H{"description": strings.Repeat("x", model.MaxCompanyDescription+1)}, "Description cannot exceed 1000 characters"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			rec, resp := testutil.MakeJSONRequest(tc.body, token, r, "/companies/me", http.MethodPut)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tc.msg, resp["message"])
		})
	}
}
