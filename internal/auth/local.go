package auth

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/database"
	"campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

const invalidCredentials = "Invalid credentials"

// Unknown emails are still compared against a hash so both login failures cost one bcrypt check.
var (
	comparePassword   = utilities.CheckPassword
	dummyPasswordHash = sync.OnceValue(func() string {
		hash, _ := utilities.HashPassword("campus-portal-unknown-account")
		return hash
	})
)

// LocalAuthHandler registers and logs in accounts with email and password.
type LocalAuthHandler struct {
	DB                     *database.DBinstanceStruct
	Tokens                 *JWTManager
	Logger                 *zap.Logger
	AllowAdminRegistration bool
}

func NewLocalAuthHandler(db *database.DBinstanceStruct, tokens *JWTManager, logger *zap.Logger, allowAdminRegistration bool) *LocalAuthHandler {
	return &LocalAuthHandler{
		DB:                     db,
		Tokens:                 tokens,
		Logger:                 logger,
		AllowAdminRegistration: allowAdminRegistration,
	}
}

// RegisterInfo is the registration payload. Role specific fields are ignored for other roles.
type RegisterInfo struct {
	Name     string `json:"name" binding:"required,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"omitempty,oneof=student company admin"`

	Phone          string          `json:"phone"`
	College        string          `json:"college"`
	Branch         string          `json:"branch"`
	CGPA           float64         `json:"cgpa"`
	GraduationYear int             `json:"graduationYear"`
	Skills         model.SkillList `json:"skills"`

	Website     string `json:"website"`
	Industry    string `json:"industry"`
	Size        string `json:"size"`
	Description string `json:"description"`
}

type LoginInfo struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResult is what a successful register or login returns.
type AuthResult struct {
	Token string
	User  model.PublicUser
}

// Register creates the account and its role profile in one transaction.
func (h *LocalAuthHandler) Register(ctx context.Context, info RegisterInfo) (AuthResult, error) {
	if info.Role == "" {
		info.Role = model.RoleStudent
	}
	if info.Role == model.RoleAdmin && !h.AllowAdminRegistration {
		return AuthResult{}, apperror.Validation("Admin accounts cannot be registered", nil)
	}

	email := model.NormalizeEmail(info.Email)
	err := h.DB.WithContext(ctx).Where("email = ?", email).First(&model.User{}).Error
	switch {
	case err == nil:
		return AuthResult{}, apperror.Conflict("User already exists with this email", nil)
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Do nothing
	default:
		return AuthResult{}, database.TranslateError(err, "User not found")
	}

	hashedPassword, err := utilities.HashPassword(info.Password)
	if err != nil {
		return AuthResult{}, apperror.Internal("Failed to hash password", err)
	}

	now := time.Now()
	user := model.NewUser(info.Name, email, hashedPassword, info.Role)
	user.CreatedAt = now

	var profile interface{}
	switch info.Role {
	case model.RoleStudent:
		student := model.NewStudent(user.ID, model.EditableStudentInfo{
			Phone:          info.Phone,
			College:        info.College,
			Branch:         info.Branch,
			CGPA:           info.CGPA,
			GraduationYear: info.GraduationYear,
			Skills:         info.Skills.StringArray(),
		}, now)
		if err := student.Validate(); err != nil {
			return AuthResult{}, apperror.Validation(err.Error(), err)
		}
		profile = &student
	case model.RoleCompany:
		company := model.NewCompany(user.ID, model.EditableCompanyInfo{
			Website:     info.Website,
			Industry:    info.Industry,
			Size:        info.Size,
			Description: info.Description,
		}, now)
		if err := company.Validate(); err != nil {
			return AuthResult{}, apperror.Validation(err.Error(), err)
		}
		profile = &company
	}

	err = h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if profile != nil {
			return tx.Create(profile).Error
		}
		return nil
	})
	if err != nil {
		LogAuthAttempt(h.Logger, zapcore.WarnLevel, AuthTypeLocal, StatusFail, email, "register: "+err.Error())
		return AuthResult{}, database.TranslateError(err, "User not found")
	}

	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		return AuthResult{}, apperror.Internal("Failed to generate access token", err)
	}

	LogAuthAttempt(h.Logger, zapcore.InfoLevel, AuthTypeLocal, StatusSuccess, email, "register as "+user.Role)
	return AuthResult{Token: token, User: user.Public()}, nil
}

// Login checks the credentials. Unknown email and wrong password fail the same way.
func (h *LocalAuthHandler) Login(ctx context.Context, email string, password string) (AuthResult, error) {
	email = model.NormalizeEmail(email)

	var user model.User
	err := h.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		comparePassword(dummyPasswordHash(), password)
		LogAuthAttempt(h.Logger, zapcore.WarnLevel, AuthTypeLocal, StatusFail, email, "unknown email")
		return AuthResult{}, apperror.Auth(invalidCredentials, nil)
	case err != nil:
		return AuthResult{}, database.TranslateError(err, "User not found")
	}

	if !comparePassword(user.Password, password) {
		LogAuthAttempt(h.Logger, zapcore.WarnLevel, AuthTypeLocal, StatusFail, email, "wrong password")
		return AuthResult{}, apperror.Auth(invalidCredentials, nil)
	}

	token, err := h.Tokens.GenerateToken(user.ID)
	if err != nil {
		return AuthResult{}, apperror.Internal("Failed to generate access token", err)
	}

	LogAuthAttempt(h.Logger, zapcore.InfoLevel, AuthTypeLocal, StatusSuccess, email, "")
	return AuthResult{Token: token, User: user.Public()}, nil
}

// ResolveToken returns the account a bearer token belongs to.
func (h *LocalAuthHandler) ResolveToken(ctx context.Context, token string) (model.User, *jwt.RegisteredClaims, error) {
	claims, err := h.Tokens.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.User{}, nil, apperror.Auth("Access token expired", err)
		}
		return model.User{}, nil, apperror.Auth("Not authorized to access this route", err)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return model.User{}, nil, apperror.Auth("Not authorized to access this route", err)
	}

	var user model.User
	if err := h.DB.WithContext(ctx).Where("id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.User{}, nil, apperror.Auth("User no longer exists", err)
		}
		return model.User{}, nil, database.TranslateError(err, "User not found")
	}

	return user, claims, nil
}

// LocalRegisterHandler godoc
// @Summary      Register an account
// @Description  Creates the account and its student or company profile and returns a token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterInfo  true  "Registration data"
// @Success      201   {object}  utilities.Response
// @Failure      400   {object}  utilities.Response
// @Router       /auth/register [post]
func (h *LocalAuthHandler) LocalRegisterHandler(c *gin.Context) {
	var info RegisterInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		_ = c.Error(utilities.BindError(err))
		return
	}

	res, err := h.Register(c.Request.Context(), info)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, utilities.Response{Success: true, Token: res.Token, Data: res.User})
}

// LocalLoginHandler godoc
// @Summary      Log in
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginInfo  true  "Credentials"
// @Success      200   {object}  utilities.Response
// @Failure      400   {object}  utilities.Response
// @Failure      401   {object}  utilities.Response
// @Router       /auth/login [post]
func (h *LocalAuthHandler) LocalLoginHandler(c *gin.Context) {
	var info LoginInfo
	if err := c.ShouldBindJSON(&info); err != nil {
		_ = c.Error(apperror.Validation("Please provide email and password", err))
		return
	}

	res, err := h.Login(c.Request.Context(), info.Email, info.Password)
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, utilities.Response{Success: true, Token: res.Token, Data: res.User})
}

// MeHandler godoc
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  utilities.Response
// @Failure      401  {object}  utilities.Response
// @Router       /auth/me [get]
func MeHandler(c *gin.Context) {
	user, err := utilities.ExtractUser(c)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, utilities.OK(user.Public()))
}
