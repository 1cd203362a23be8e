// Package server contain implementation of go-gin-server and each route handlers
package server

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"campus-portal-backend/internal/auth"
	"campus-portal-backend/internal/controller/admin"
	"campus-portal-backend/internal/controller/application"
	"campus-portal-backend/internal/controller/company"
	"campus-portal-backend/internal/controller/file"
	"campus-portal-backend/internal/controller/jobpost"
	"campus-portal-backend/internal/controller/student"
	"campus-portal-backend/internal/middleware"
	"campus-portal-backend/internal/model"

	// Init swagger doc
	_ "campus-portal-backend/docs"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.New()
	r.Use(
		middleware.Recovery(s.Logger),
		middleware.RequestLogger(s.Logger),
		middleware.SafeHeader(),
		cors.New(cors.Config{
			AllowOrigins:     s.Config.AllowOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
			AllowCredentials: true,
		}),
		middleware.ErrorHandler(s.Logger),
	)

	lAuth := auth.NewLocalAuthHandler(s.DB, s.Tokens, s.AuthLogger, s.Config.Policy.AllowAdminRegistration)
	logout := auth.NewLogoutController(s.Blacklist)
	studentCtrl := student.NewStudentController(s.DB)
	companyCtrl := company.NewCompanyController(s.DB)
	fileCtrl := file.NewFileController(s.DB, s.Storage, s.Config.Policy.MaxUploadBytes, s.Logger)
	jobCtrl := jobpost.NewJobPostController(s.DB, s.Publisher, s.Logger, s.Config.Policy.RequireVerifiedCompany)
	appCtrl := application.NewApplicationController(s.DB, s.Publisher, s.Logger)
	adminCtrl := admin.NewAdminController(s.DB, s.Storage, s.Logger)

	needAuth := []gin.HandlerFunc{middleware.RequireAuth(lAuth), middleware.JwtBlacklistCheck(s.Blacklist)}
	withRole := func(roles ...string) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, needAuth...), middleware.CheckRole(roles...))
	}
	upload := middleware.SizeLimit(s.Config.Policy.MaxUploadBytes)

	r.GET("/", s.HelloWorldHandler)
	r.GET("/health", s.healthHandler)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api", middleware.RateLimiterMiddleware(s.Config.RateLimit, s.Redis))
	{
		authRoute := api.Group("/auth")
		{
			authRoute.POST("/register", lAuth.LocalRegisterHandler)
			authRoute.POST("/login", lAuth.LocalLoginHandler)
			authRoute.GET("/me", append(needAuth, auth.MeHandler)...)
			authRoute.POST("/logout", append(needAuth, logout.LogoutHandler)...)
		}

		studentRoute := api.Group("/students", withRole(model.RoleStudent)...)
		{
			studentRoute.GET("/me", studentCtrl.GetMyProfile)
			studentRoute.PUT("/me", studentCtrl.EditMyProfile)
			studentRoute.POST("/resume", upload, fileCtrl.UploadResume)
		}

		companyRoute := api.Group("/companies", withRole(model.RoleCompany)...)
		{
			companyRoute.GET("/me", companyCtrl.GetMyProfile)
			companyRoute.PUT("/me", companyCtrl.EditMyProfile)
			companyRoute.POST("/logo", upload, fileCtrl.UploadLogo)
		}

		jobRoute := api.Group("/jobs")
		{
			jobRoute.GET("", jobCtrl.GetPosts)
			jobRoute.GET("/my-jobs", append(withRole(model.RoleCompany), jobCtrl.GetMyPosts)...)
			jobRoute.GET("/:id", jobCtrl.GetPostByID)
			jobRoute.POST("", append(withRole(model.RoleCompany), jobCtrl.CreateJobHandler)...)
			jobRoute.PUT("/:id", append(withRole(model.RoleCompany), jobCtrl.EditJobPost)...)
			jobRoute.DELETE("/:id", append(withRole(model.RoleCompany), jobCtrl.DeleteJobPost)...)
		}

		applicationRoute := api.Group("/applications")
		{
			applicationRoute.POST("/apply/:jobId", append(withRole(model.RoleStudent), appCtrl.ApplyHandler)...)
			applicationRoute.GET("/my-applications", append(withRole(model.RoleStudent), appCtrl.MyApplicationsHandler)...)
			applicationRoute.GET("/job/:jobId", append(withRole(model.RoleCompany), appCtrl.JobApplicationsHandler)...)
			applicationRoute.PUT("/:id/status", append(withRole(model.RoleCompany), appCtrl.UpdateStatusHandler)...)
		}

		adminRoute := api.Group("/admin", withRole(model.RoleAdmin)...)
		{
			adminRoute.GET("/stats", adminCtrl.GetStatsHandler)
			adminRoute.GET("/users", adminCtrl.GetUsers)
			adminRoute.PUT("/companies/:id/verify", adminCtrl.VerifyCompanyHandler)
			adminRoute.DELETE("/users/:id", adminCtrl.DeleteUserHandler)
		}

		api.GET("/files/:id", fileCtrl.GetFile)
	}

	return r
}

// HelloWorldHandler answers with the service banner.
func (s *MyServer) HelloWorldHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Campus Recruitment Portal API",
		"version": "1.0.0",
	})
}

func (s *MyServer) healthHandler(c *gin.Context) {
	stats := s.DB.Health()
	if stats["status"] != "up" {
		c.JSON(http.StatusServiceUnavailable, stats)
		return
	}
	c.JSON(http.StatusOK, stats)
}
