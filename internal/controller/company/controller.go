// Package company serves the profile of the logged in company.
package company

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

type CompanyController struct {
	DB *database.DBinstanceStruct
}

func NewCompanyController(db *database.DBinstanceStruct) *CompanyController {
	return &CompanyController{
		DB: db,
	}
}

// GetProfile loads the company profile with its account.
func (cc *CompanyController) GetProfile(ctx context.Context, userID uuid.UUID) (model.Company, error) {
	var company model.Company
	if err := cc.DB.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&company).Error; err != nil {
		return model.Company{}, database.TranslateError(err, "Company profile not found")
	}
	return company, nil
}

// UpdateProfile merges the non-empty fields of edited into the profile and re-validates it.
// Verification status and logo are not reachable from here.
func (cc *CompanyController) UpdateProfile(ctx context.Context, userID uuid.UUID, edited model.EditableCompanyInfo) (model.Company, error) {
	company, err := cc.GetProfile(ctx, userID)
	if err != nil {
		return model.Company{}, err
	}

	edited.Website = strings.TrimSpace(edited.Website)
	edited.Industry = strings.TrimSpace(edited.Industry)
	edited.Size = strings.TrimSpace(edited.Size)
	edited.Description = strings.TrimSpace(edited.Description)

	utilities.MergeNonEmpty(&company.EditableCompanyInfo, &edited)
	if err := company.Validate(); err != nil {
		return model.Company{}, apperror.Validation(err.Error(), err)
	}
	company.UpdatedAt = time.Now()

	if err := cc.DB.WithContext(ctx).
		Model(&company).
		Select("website", "industry", "size", "description", "updated_at").
		Updates(&company).Error; err != nil {
		return model.Company{}, database.TranslateError(err, "Company profile not found")
	}
	return company, nil
}

// GetMyProfile godoc
// @Summary Retrieve the company profile of the logged in account
// @Tags companies
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response "Profile with account fields"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as company"
// @Failure 404 {object} utilities.Response "Profile not found"
// @Router /companies/me [get]
func (cc *CompanyController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	company, err := cc.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.OK(company))
}

// EditMyProfile godoc
// @Summary Edit company profile
// @Description Only industry, size, website and description can be changed.
// @Description Verified status and logo can't be overwritten.
// @Tags companies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param company_profile body model.EditableCompanyInfo true "Fields to change"
// @Success 200 {object} utilities.Response "Updated profile"
// @Failure 400 {object} utilities.Response "Invalid field value"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as company"
// @Failure 404 {object} utilities.Response "Profile not found"
// @Router /companies/me [put]
func (cc *CompanyController) EditMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	edited := model.EditableCompanyInfo{}
	if err := c.ShouldBindJSON(&edited); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}

	company, err := cc.UpdateProfile(c.Request.Context(), user.ID, edited)
	if err != nil {
		_ = c.Error(err)
		return
	}

	company.User = &user
	c.JSON(http.StatusOK, utilities.Done("Company profile updated successfully", company))
}
