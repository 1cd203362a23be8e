package model

import (
	"fmt"
	"regexp"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const MaxCompanyDescription = 1000

// CompanySizes are the accepted headcount bands.
var CompanySizes = []string{"1-10", "11-50", "51-100", "101-500", "500+"}

// DefaultCompanySize is assigned at registration when no size is given.
const DefaultCompanySize = "1-10"

var websitePattern = regexp.MustCompile(`^https?://.+`)

// Company is the profile attached to an account with role company.
type Company struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	EditableCompanyInfo
	Logo      *string   `gorm:"type:text" json:"logo"`
	Verified  bool      `gorm:"not null;default:false" json:"verified"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// EditableCompanyInfo holds the fields a company may change on its own profile.
type EditableCompanyInfo struct {
	Website     string `gorm:"type:text" json:"website"`
	Industry    string `gorm:"type:text" json:"industry"`
	Size        string `gorm:"type:text;not null;default:'1-10';check:size IN ('1-10','11-50','51-100','101-500','500+')" json:"size"`
	Description string `gorm:"type:varchar(1000)" json:"description"`
}

// NewCompany builds an unverified profile with registration defaults.
func NewCompany(userID uuid.UUID, info EditableCompanyInfo, now time.Time) Company {
	if info.Size == "" {
		info.Size = DefaultCompanySize
	}
	return Company{
		ID:                  uuid.New(),
		UserID:              userID,
		EditableCompanyInfo: info,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (info EditableCompanyInfo) Validate() error {
	if info.Size != "" && !slices.Contains(CompanySizes, info.Size) {
		return fmt.Errorf("Company size must be one of 1-10, 11-50, 51-100, 101-500, 500+")
	}
	if info.Website != "" && !websitePattern.MatchString(info.Website) {
		return fmt.Errorf("Please provide a valid URL")
	}
	if utf8.RuneCountInString(info.Description) > MaxCompanyDescription {
		return fmt.Errorf("Description cannot exceed %d characters", MaxCompanyDescription)
	}
	return nil
}

// ToggleVerified flips the verification flag and returns the new value.
func (c *Company) ToggleVerified(now time.Time) bool {
	c.Verified = !c.Verified
	c.UpdatedAt = now
	return c.Verified
}
