// Package jobpost provides HTTP handlers for the job catalog.
package jobpost

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm/clause"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/events"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

type JobPostController struct {
	DB                     *database.DBinstanceStruct
	Publisher              events.Publisher
	Logger                 *zap.Logger
	RequireVerifiedCompany bool
}

func NewJobPostController(db *database.DBinstanceStruct, publisher events.Publisher, logger *zap.Logger, requireVerified bool) *JobPostController {
	return &JobPostController{
		DB:                     db,
		Publisher:              publisher,
		Logger:                 logger,
		RequireVerifiedCompany: requireVerified,
	}
}

// JobInput is the request body for creating and editing a job. Deadline accepts
// RFC 3339 or a plain date.
type JobInput struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Location     string `json:"location"`
	Salary       string `json:"salary"`
	Type         string `json:"type"`
	Deadline     string `json:"deadline" example:"2026-12-31"`
	Status       string `json:"status"`
}

var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func (in JobInput) info() (model.EditableJobInfo, error) {
	info := model.EditableJobInfo{
		Title:        in.Title,
		Description:  in.Description,
		Requirements: in.Requirements,
		Location:     in.Location,
		Salary:       in.Salary,
		Type:         in.Type,
	}
	info.Trim()

	raw := strings.TrimSpace(in.Deadline)
	if raw == "" {
		return info, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			info.Deadline = t
			return info, nil
		}
	}
	return info, apperror.Validation("Please provide a valid application deadline", nil)
}

// JobFilter narrows the open job listing. Empty fields are ignored.
type JobFilter struct {
	Search   string
	Type     string
	Location string
}

// CreateJob posts a new Open job for the company owned by userID.
func (jc *JobPostController) CreateJob(ctx context.Context, userID uuid.UUID, info model.EditableJobInfo) (model.Job, error) {
	company, err := database.FindCompanyByUser(ctx, jc.DB.DB, userID)
	if err != nil {
		if apperror.Is(err, apperror.KindNotFound) {
			return model.Job{}, apperror.NotFound("Complete your company profile before posting a job", err)
		}
		return model.Job{}, err
	}
	if jc.RequireVerifiedCompany && !company.Verified {
		return model.Job{}, apperror.Forbidden("Only verified companies can post jobs", nil)
	}

	now := time.Now()
	job := model.NewJob(company.ID, info, now)
	if err := job.Validate(); err != nil {
		return model.Job{}, apperror.Validation(err.Error(), err)
	}

	if err := jc.DB.WithContext(ctx).Create(&job).Error; err != nil {
		return model.Job{}, database.TranslateError(err, "Company not found")
	}

	events.PublishBestEffort(ctx, jc.Publisher, jc.Logger, events.SubjectJobCreated, events.JobCreated{
		JobID:     job.ID,
		CompanyID: company.ID,
		Title:     job.Title,
		At:        now,
	})
	return job, nil
}

// ListOpenJobs returns Open jobs, newest first, with their company and its account.
func (jc *JobPostController) ListOpenJobs(ctx context.Context, filter JobFilter) ([]model.Job, error) {
	query := jc.DB.WithContext(ctx).
		Preload("Company").
		Preload("Company.User").
		Where("status = ?", model.JobStatusOpen)

	if s := strings.TrimSpace(filter.Search); s != "" {
		query = query.Where("title ILIKE ?", "%"+escapeLike(s)+"%")
	}
	if s := strings.TrimSpace(filter.Type); s != "" {
		query = query.Where("type = ?", s)
	}
	if s := strings.TrimSpace(filter.Location); s != "" {
		query = query.Where("location ILIKE ?", "%"+escapeLike(s)+"%")
	}

	jobs := []model.Job{}
	if err := query.
		Order(clause.OrderByColumn{Column: clause.Column{Name: "created_at"}, Desc: true}).
		Find(&jobs).Error; err != nil {
		return nil, database.TranslateError(err, "Job not found")
	}
	return jobs, nil
}

// GetJob returns one job of any status.
func (jc *JobPostController) GetJob(ctx context.Context, id uuid.UUID) (model.Job, error) {
	var job model.Job
	if err := jc.DB.WithContext(ctx).
		Preload("Company").
		Preload("Company.User").
		Where("id = ?", id).
		First(&job).Error; err != nil {
		return model.Job{}, database.TranslateError(err, "Job not found")
	}
	return job, nil
}

// ListCompanyJobs returns every job of the company owned by userID, newest first.
func (jc *JobPostController) ListCompanyJobs(ctx context.Context, userID uuid.UUID) ([]model.Job, error) {
	company, err := database.FindCompanyByUser(ctx, jc.DB.DB, userID)
	if err != nil {
		return nil, err
	}

	jobs := []model.Job{}
	if err := jc.DB.WithContext(ctx).
		Where("company_id = ?", company.ID).
		Order("created_at DESC").
		Find(&jobs).Error; err != nil {
		return nil, database.TranslateError(err, "Job not found")
	}
	return jobs, nil
}

// ownedJob loads the job and checks that it belongs to the company owned by userID.
func (jc *JobPostController) ownedJob(ctx context.Context, id uuid.UUID, userID uuid.UUID, forbiddenMsg string) (model.Job, error) {
	var job model.Job
	if err := jc.DB.WithContext(ctx).Where("id = ?", id).First(&job).Error; err != nil {
		return model.Job{}, database.TranslateError(err, "Job not found")
	}

	company, err := database.FindCompanyByUser(ctx, jc.DB.DB, userID)
	if err != nil {
		return model.Job{}, err
	}
	if job.CompanyID != company.ID {
		return model.Job{}, apperror.Forbidden(forbiddenMsg, nil)
	}
	return job, nil
}

// UpdateJob applies the non-empty fields of edited to a job the caller owns.
func (jc *JobPostController) UpdateJob(ctx context.Context, id uuid.UUID, userID uuid.UUID, edited model.EditableJobInfo, status string) (model.Job, error) {
	job, err := jc.ownedJob(ctx, id, userID, "Not authorized to update this job")
	if err != nil {
		return model.Job{}, err
	}

	utilities.MergeNonEmpty(&job.EditableJobInfo, &edited)
	if err := job.Validate(); err != nil {
		return model.Job{}, apperror.Validation(err.Error(), err)
	}
	if status = strings.TrimSpace(status); status != "" {
		if !model.ValidJobStatus(status) {
			return model.Job{}, apperror.Validation("Job status must be Open or Closed", nil)
		}
		job.Status = status
	}

	if err := jc.DB.WithContext(ctx).
		Model(&job).
		Select("title", "description", "requirements", "location", "salary", "type", "deadline", "status").
		Updates(&job).Error; err != nil {
		return model.Job{}, database.TranslateError(err, "Job not found")
	}
	return job, nil
}

// DeleteJob removes a job the caller owns. Its applications go with it.
func (jc *JobPostController) DeleteJob(ctx context.Context, id uuid.UUID, userID uuid.UUID) error {
	job, err := jc.ownedJob(ctx, id, userID, "Not authorized to delete this job")
	if err != nil {
		return err
	}
	if err := jc.DB.WithContext(ctx).Delete(&job).Error; err != nil {
		return database.TranslateError(err, "Job not found")
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// CreateJobHandler godoc
// @Summary Create a job post
// @Description Title, description, requirements, location, salary and deadline are required
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param job body JobInput true "Job information"
// @Success 201 {object} utilities.Response "Job posted"
// @Failure 400 {object} utilities.Response "Invalid job"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as company"
// @Failure 404 {object} utilities.Response "Company profile missing"
// @Router /jobs [post]
func (jc *JobPostController) CreateJobHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}
	info, err := in.info()
	if err != nil {
		_ = c.Error(err)
		return
	}

	job, err := jc.CreateJob(c.Request.Context(), user.ID, info)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, utilities.Done("Job posted successfully", job))
}

// GetPosts godoc
// @Summary List open jobs
// @Description Newest first. Every query is optional.
// @Tags jobs
// @Produce json
// @Param search query string false "Case insensitive substring of the title"
// @Param type query string false "Exact job type" Enums(Full-time, Internship, Contract)
// @Param location query string false "Case insensitive substring of the location"
// @Success 200 {object} utilities.Response "Open jobs with count"
// @Failure 500 {object} utilities.Response "Database error"
// @Router /jobs [get]
func (jc *JobPostController) GetPosts(c *gin.Context) {
	jobs, err := jc.ListOpenJobs(c.Request.Context(), JobFilter{
		Search:   c.Query("search"),
		Type:     c.Query("type"),
		Location: c.Query("location"),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.List(jobs, len(jobs)))
}

// GetPostByID godoc
// @Summary Get job by ID
// @Tags jobs
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} utilities.Response "The job with its company"
// @Failure 404 {object} utilities.Response "Job not found"
// @Router /jobs/{id} [get]
func (jc *JobPostController) GetPostByID(c *gin.Context) {
	id, err := utilities.ParseID(c.Param("id"), "Job")
	if err != nil {
		_ = c.Error(err)
		return
	}

	job, err := jc.GetJob(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.OK(job))
}

// GetMyPosts godoc
// @Summary List the jobs of the logged in company
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response "Jobs with count"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as company"
// @Failure 404 {object} utilities.Response "Company profile missing"
// @Router /jobs/my-jobs [get]
func (jc *JobPostController) GetMyPosts(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	jobs, err := jc.ListCompanyJobs(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.List(jobs, len(jobs)))
}

// EditJobPost godoc
// @Summary Edit a job post
// @Description Only the company that owns the job can edit it. Empty fields are ignored.
// @Tags jobs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Param job body JobInput true "Fields to change"
// @Success 200 {object} utilities.Response "Job updated"
// @Failure 400 {object} utilities.Response "Invalid job"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not the owner"
// @Failure 404 {object} utilities.Response "Job not found"
// @Router /jobs/{id} [put]
func (jc *JobPostController) EditJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := utilities.ParseID(c.Param("id"), "Job")
	if err != nil {
		_ = c.Error(err)
		return
	}

	var in JobInput
	if err := c.ShouldBindJSON(&in); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}
	info, err := in.info()
	if err != nil {
		_ = c.Error(err)
		return
	}

	job, err := jc.UpdateJob(c.Request.Context(), id, user.ID, info, in.Status)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.Done("Job updated successfully", job))
}

// DeleteJobPost godoc
// @Summary Delete a job post
// @Description Only the company that owns the job can delete it. Its applications are removed too.
// @Tags jobs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Job ID"
// @Success 200 {object} utilities.Response "Job deleted"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not the owner"
// @Failure 404 {object} utilities.Response "Job not found"
// @Router /jobs/{id} [delete]
func (jc *JobPostController) DeleteJobPost(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := utilities.ParseID(c.Param("id"), "Job")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := jc.DeleteJob(c.Request.Context(), id, user.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.Msg("Job deleted successfully"))
}
