// Package application provides HTTP handlers for job applications.
package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/events"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

type ApplicationController struct {
	DB        *database.DBinstanceStruct
	Publisher events.Publisher
	Logger    *zap.Logger
}

func NewApplicationController(db *database.DBinstanceStruct, publisher events.Publisher, logger *zap.Logger) *ApplicationController {
	return &ApplicationController{
		DB:        db,
		Publisher: publisher,
		Logger:    logger,
	}
}

type statusInput struct {
	Status string `json:"status" example:"Shortlisted"`
}

// Apply records that the student owned by userID applies to jobID.
func (ac *ApplicationController) Apply(ctx context.Context, userID uuid.UUID, jobID uuid.UUID) (model.Application, error) {
	student, err := database.FindStudentByUser(ctx, ac.DB.DB, userID)
	if err != nil {
		return model.Application{}, err
	}

	var job model.Job
	if err := ac.DB.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		return model.Application{}, database.TranslateError(err, "Job not found")
	}
	if !job.IsOpen() {
		return model.Application{}, apperror.State("This job is no longer accepting applications", nil)
	}

	// The unique index decides races; this lookup only gives the common case a clear answer.
	err = ac.DB.WithContext(ctx).
		Where("job_id = ? AND student_id = ?", job.ID, student.ID).
		First(&model.Application{}).Error
	switch {
	case err == nil:
		return model.Application{}, apperror.Conflict("You have already applied for this job", nil)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return model.Application{}, database.TranslateError(err, "Application not found")
	}

	now := time.Now()
	app := model.NewApplication(job.ID, student.ID, now)
	if err := ac.DB.WithContext(ctx).Create(&app).Error; err != nil {
		return model.Application{}, database.TranslateError(err, "Job not found")
	}

	events.PublishBestEffort(ctx, ac.Publisher, ac.Logger, events.SubjectApplicationCreated, events.ApplicationCreated{
		ApplicationID: app.ID,
		JobID:         job.ID,
		StudentID:     student.ID,
		At:            now,
	})
	return app, nil
}

// ListMyApplications returns the student's applications with their job and company, newest first.
func (ac *ApplicationController) ListMyApplications(ctx context.Context, userID uuid.UUID) ([]model.Application, error) {
	student, err := database.FindStudentByUser(ctx, ac.DB.DB, userID)
	if err != nil {
		return nil, err
	}

	apps := []model.Application{}
	if err := ac.DB.WithContext(ctx).
		Preload("Job").
		Preload("Job.Company").
		Preload("Job.Company.User").
		Where("student_id = ?", student.ID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, database.TranslateError(err, "Application not found")
	}
	return apps, nil
}

// ListJobApplications returns the applicants of a job owned by the company of userID.
func (ac *ApplicationController) ListJobApplications(ctx context.Context, userID uuid.UUID, jobID uuid.UUID) ([]model.Application, error) {
	company, err := database.FindCompanyByUser(ctx, ac.DB.DB, userID)
	if err != nil {
		return nil, err
	}

	var job model.Job
	if err := ac.DB.WithContext(ctx).Where("id = ?", jobID).First(&job).Error; err != nil {
		return nil, database.TranslateError(err, "Job not found")
	}
	if job.CompanyID != company.ID {
		return nil, apperror.Forbidden("Not authorized to view applications for this job", nil)
	}

	apps := []model.Application{}
	if err := ac.DB.WithContext(ctx).
		Preload("Student").
		Preload("Student.User").
		Where("job_id = ?", job.ID).
		Order("applied_at DESC").
		Find(&apps).Error; err != nil {
		return nil, database.TranslateError(err, "Application not found")
	}
	return apps, nil
}

// UpdateStatus sets the status of an application to a job owned by the company of userID.
func (ac *ApplicationController) UpdateStatus(ctx context.Context, userID uuid.UUID, id uuid.UUID, status string) (model.Application, error) {
	if !model.ValidApplicationStatus(status) {
		return model.Application{}, apperror.Validation("Invalid status", nil)
	}

	var app model.Application
	if err := ac.DB.WithContext(ctx).Preload("Job").Where("id = ?", id).First(&app).Error; err != nil {
		return model.Application{}, database.TranslateError(err, "Application not found")
	}

	company, err := database.FindCompanyByUser(ctx, ac.DB.DB, userID)
	if err != nil {
		return model.Application{}, err
	}
	if app.Job == nil || app.Job.CompanyID != company.ID {
		return model.Application{}, apperror.Forbidden("Not authorized to update this application", nil)
	}

	app.Status = status
	if err := ac.DB.WithContext(ctx).Model(&app).Update("status", status).Error; err != nil {
		return model.Application{}, database.TranslateError(err, "Application not found")
	}

	events.PublishBestEffort(ctx, ac.Publisher, ac.Logger, events.SubjectApplicationStatusChanged, events.ApplicationStatusChanged{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Status:        status,
		At:            time.Now(),
	})
	return app, nil
}

// ApplyHandler godoc
// @Summary Apply to a job
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job ID"
// @Success 201 {object} utilities.Response "Application submitted"
// @Failure 400 {object} utilities.Response "Job closed or already applied"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as student"
// @Failure 404 {object} utilities.Response "Job or profile not found"
// @Router /applications/apply/{jobId} [post]
func (ac *ApplicationController) ApplyHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobID, err := utilities.ParseID(c.Param("jobId"), "Job")
	if err != nil {
		_ = c.Error(err)
		return
	}

	app, err := ac.Apply(c.Request.Context(), user.ID, jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, utilities.Done("Application submitted successfully", app))
}

// MyApplicationsHandler godoc
// @Summary List the applications of the logged in student
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response "Applications with count"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as student"
// @Failure 404 {object} utilities.Response "Profile not found"
// @Router /applications/my-applications [get]
func (ac *ApplicationController) MyApplicationsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	apps, err := ac.ListMyApplications(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.List(apps, len(apps)))
}

// JobApplicationsHandler godoc
// @Summary List the applicants of a job
// @Description Only the company that owns the job can see its applicants
// @Tags applications
// @Produce json
// @Security BearerAuth
// @Param jobId path string true "Job ID"
// @Success 200 {object} utilities.Response "Applications with count"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not the owner"
// @Failure 404 {object} utilities.Response "Job not found"
// @Router /applications/job/{jobId} [get]
func (ac *ApplicationController) JobApplicationsHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobID, err := utilities.ParseID(c.Param("jobId"), "Job")
	if err != nil {
		_ = c.Error(err)
		return
	}

	apps, err := ac.ListJobApplications(c.Request.Context(), user.ID, jobID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.List(apps, len(apps)))
}

// UpdateStatusHandler godoc
// @Summary Change the status of an application
// @Description Any status can follow any other
// @Tags applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Application ID"
// @Param status body statusInput true "New status" Enums(Applied, Shortlisted, Interviewing, Rejected, Hired)
// @Success 200 {object} utilities.Response "Status updated"
// @Failure 400 {object} utilities.Response "Invalid status"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not the owner"
// @Failure 404 {object} utilities.Response "Application not found"
// @Router /applications/{id}/status [put]
func (ac *ApplicationController) UpdateStatusHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := utilities.ParseID(c.Param("id"), "Application")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in statusInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}

	app, err := ac.UpdateStatus(c.Request.Context(), user.ID, id, in.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.Done(fmt.Sprintf("Application status updated to %s", in.Status), app))
}
