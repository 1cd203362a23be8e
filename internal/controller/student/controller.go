// Package student serves the profile of the logged in student.
package student

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

type StudentController struct {
	DB *database.DBinstanceStruct
}

func NewStudentController(db *database.DBinstanceStruct) *StudentController {
	return &StudentController{
		DB: db,
	}
}

// editStudentInfo is the update whitelist. Skills accepts an array or a comma separated string.
type editStudentInfo struct {
	Phone          string          `json:"phone"`
	College        string          `json:"college"`
	Branch         string          `json:"branch"`
	CGPA           float64         `json:"cgpa"`
	GraduationYear int             `json:"graduationYear"`
	Skills         model.SkillList `json:"skills" swaggertype:"array,string"`
}

// GetProfile loads the student profile with its account.
func (sc *StudentController) GetProfile(ctx context.Context, userID uuid.UUID) (model.Student, error) {
	var student model.Student
	if err := sc.DB.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		First(&student).Error; err != nil {
		return model.Student{}, database.TranslateError(err, "Student profile not found")
	}
	return student, nil
}

// UpdateProfile applies the non-empty fields of info and re-validates the profile.
func (sc *StudentController) UpdateProfile(ctx context.Context, userID uuid.UUID, info model.EditableStudentInfo) (model.Student, error) {
	student, err := sc.GetProfile(ctx, userID)
	if err != nil {
		return model.Student{}, err
	}

	student.Apply(info)
	if err := student.Validate(); err != nil {
		return model.Student{}, apperror.Validation(err.Error(), err)
	}
	student.UpdatedAt = time.Now()

	if err := sc.DB.WithContext(ctx).
		Model(&student).
		Select("phone", "college", "branch", "cgpa", "graduation_year", "skills", "updated_at").
		Updates(&student).Error; err != nil {
		return model.Student{}, database.TranslateError(err, "Student profile not found")
	}
	return student, nil
}

// GetMyProfile godoc
// @Summary Retrieve the student profile of the logged in account
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utilities.Response "Profile with account fields"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as student"
// @Failure 404 {object} utilities.Response "Profile not found"
// @Router /students/me [get]
func (sc *StudentController) GetMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	student, err := sc.GetProfile(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.OK(student))
}

// EditMyProfile godoc
// @Summary Edit student profile
// @Description Only college, branch, cgpa, graduationYear, skills and phone can be changed.
// @Description Empty values are ignored.
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param student_profile body editStudentInfo true "Fields to change"
// @Success 200 {object} utilities.Response "Updated profile"
// @Failure 400 {object} utilities.Response "Invalid field value"
// @Failure 401 {object} utilities.Response "Invalid token"
// @Failure 403 {object} utilities.Response "Not logged in as student"
// @Failure 404 {object} utilities.Response "Profile not found"
// @Router /students/me [put]
func (sc *StudentController) EditMyProfile(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}

	var edited editStudentInfo
	if err := c.ShouldBindJSON(&edited); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}

	student, err := sc.UpdateProfile(c.Request.Context(), user.ID, model.EditableStudentInfo{
		Phone:          edited.Phone,
		College:        edited.College,
		Branch:         edited.Branch,
		CGPA:           edited.CGPA,
		GraduationYear: edited.GraduationYear,
		Skills:         edited.Skills.StringArray(),
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	student.User = &user
	c.JSON(http.StatusOK, utilities.Done("Profile updated successfully", student))
}
