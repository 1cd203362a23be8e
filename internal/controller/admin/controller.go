// Package admin provides HTTP handlers for platform administration.
package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/controller/file"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

type AdminController struct {
	DB      *database.DBinstanceStruct
	Storage file.StorageClient
	Logger  *zap.Logger
}

func NewAdminController(db *database.DBinstanceStruct, storage file.StorageClient, logger *zap.Logger) *AdminController {
	return &AdminController{
		DB:      db,
		Storage: storage,
		Logger:  logger,
	}
}

type UserStats struct {
	Total     int64 `json:"total"`
	Students  int64 `json:"students"`
	Companies int64 `json:"companies"`
	Admins    int64 `json:"admins"`
}

type JobStats struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// Stats is the platform summary shown on the admin dashboard.
type Stats struct {
	Users        UserStats `json:"users"`
	Jobs         JobStats  `json:"jobs"`
	Applications int64     `json:"applications"`
}

// GetStats counts accounts by role, jobs and applications.
func (ac *AdminController) GetStats(ctx context.Context) (Stats, error) {
	db := ac.DB.WithContext(ctx)

	var byRole []struct {
		Role  string
		Count int64
	}
	if err := db.Model(&model.User{}).Select("role, count(*) AS count").Group("role").Scan(&byRole).Error; err != nil {
		return Stats{}, database.TranslateError(err, "User not found")
	}

	var stats Stats
	for _, row := range byRole {
		stats.Users.Total += row.Count
		switch row.Role {
		case model.RoleStudent:
			stats.Users.Students = row.Count
		case model.RoleCompany:
			stats.Users.Companies = row.Count
		case model.RoleAdmin:
			stats.Users.Admins = row.Count
		}
	}

	if err := db.Model(&model.Job{}).Count(&stats.Jobs.Total).Error; err != nil {
		return Stats{}, database.TranslateError(err, "Job not found")
	}
	if err := db.Model(&model.Job{}).Where("status = ?", model.JobStatusOpen).Count(&stats.Jobs.Active).Error; err != nil {
		return Stats{}, database.TranslateError(err, "Job not found")
	}
	if err := db.Model(&model.Application{}).Count(&stats.Applications).Error; err != nil {
		return Stats{}, database.TranslateError(err, "Application not found")
	}
	return stats, nil
}

// ListAllUsers returns every account without its password, newest first.
func (ac *AdminController) ListAllUsers(ctx context.Context) ([]model.User, error) {
	users := []model.User{}
	if err := ac.DB.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, database.TranslateError(err, "User not found")
	}
	return users, nil
}

// VerifyCompany flips the verified flag of a company profile.
func (ac *AdminController) VerifyCompany(ctx context.Context, companyID uuid.UUID) (model.Company, error) {
	var company model.Company
	if err := ac.DB.WithContext(ctx).Where("id = ?", companyID).First(&company).Error; err != nil {
		return model.Company{}, database.TranslateError(err, "Company not found")
	}

	company.ToggleVerified(time.Now())
	if err := ac.DB.WithContext(ctx).
		Model(&company).
		Select("verified", "updated_at").
		Updates(&company).Error; err != nil {
		return model.Company{}, database.TranslateError(err, "Company not found")
	}
	return company, nil
}

// DeleteUser removes an account and its role profile. Admins cannot delete themselves.
// Stored media of the profile is removed afterwards; failures there are only logged.
func (ac *AdminController) DeleteUser(ctx context.Context, targetID uuid.UUID, callerID uuid.UUID) error {
	if targetID == callerID {
		return apperror.SelfDelete("You cannot delete yourself", nil)
	}

	var user model.User
	if err := ac.DB.WithContext(ctx).Where("id = ?", targetID).First(&user).Error; err != nil {
		return database.TranslateError(err, "User not found")
	}

	var mediaPrefix string
	err := ac.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch user.Role {
		case model.RoleStudent:
			var student model.Student
			res := tx.Where("user_id = ?", user.ID).Limit(1).Find(&student)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				mediaPrefix = file.ObjectPrefix(file.KindResume, student.ID)
				if err := tx.Delete(&student).Error; err != nil {
					return err
				}
			}
		case model.RoleCompany:
			var company model.Company
			res := tx.Where("user_id = ?", user.ID).Limit(1).Find(&company)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				mediaPrefix = file.ObjectPrefix(file.KindLogo, company.ID)
				if err := tx.Delete(&company).Error; err != nil {
					return err
				}
			}
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		return database.TranslateError(err, "User not found")
	}

	if mediaPrefix != "" && ac.Storage != nil {
		if err := ac.Storage.DeletePrefix(ctx, mediaPrefix); err != nil {
			ac.Logger.Warn("failed to remove media of deleted user",
				zap.String("user_id", user.ID.String()),
				zap.String("prefix", mediaPrefix),
				zap.Error(err))
		}
	}
	return nil
}

// GetStatsHandler godoc
// @Summary Platform statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response{data=Stats} "Counts of users, jobs and applications"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as admin"
// @Router /admin/stats [get]
func (ac *AdminController) GetStatsHandler(c *gin.Context) {
	stats, err := ac.GetStats(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, utilities.OK(stats))
}

// GetUsers godoc
// @Summary List every account
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response "Accounts with count"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as admin"
// @Router /admin/users [get]
func (ac *AdminController) GetUsers(c *gin.Context) {
	users, err := ac.ListAllUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, utilities.List(users, len(users)))
}

// VerifyCompanyHandler godoc
// @Summary Verify, or unverify a company
// @Description Toggles the verified flag of the company profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Company profile ID"
// @Success 200 {object} utilities.Response "Company verified or unverified"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as admin"
// @Failure 404 {object} utilities.Response "Company not found"
// @Router /admin/companies/{id}/verify [put]
func (ac *AdminController) VerifyCompanyHandler(c *gin.Context) {
	id, err := utilities.ParseID(c.Param("id"), "Company")
	if err != nil {
		_ = c.Error(err)
		return
	}

	company, err := ac.VerifyCompany(c.Request.Context(), id)
	if err != nil {
		_ = c.Error(err)
		return
	}

	state := "unverified"
	if company.Verified {
		state = "verified"
	}
	c.JSON(http.StatusOK, utilities.Done(fmt.Sprintf("Company %s successfully", state), company))
}

// DeleteUserHandler godoc
// @Summary Delete an account
// @Description Removes the account and its student or company profile
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Account ID"
// @Success 200 {object} utilities.Response "User deleted"
// @Failure 400 {object} utilities.Response "Cannot delete yourself"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as admin"
// @Failure 404 {object} utilities.Response "User not found"
// @Router /admin/users/{id} [delete]
func (ac *AdminController) DeleteUserHandler(c *gin.Context) {
	caller, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	id, err := utilities.ParseID(c.Param("id"), "User")
	if err != nil {
		_ = c.Error(err)
		return
	}

	if err := ac.DeleteUser(c.Request.Context(), id, caller.ID); err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.Msg("User deleted successfully"))
}
