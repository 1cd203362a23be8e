package model

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	JobTypeFullTime   = "Full-time"
	JobTypeInternship = "Internship"
	JobTypeContract   = "Contract"

	JobStatusOpen   = "Open"
	JobStatusClosed = "Closed"

	MaxJobTitle       = 100
	MaxJobDescription = 5000
)

var (
	JobTypes    = []string{JobTypeFullTime, JobTypeInternship, JobTypeContract}
	JobStatuses = []string{JobStatusOpen, JobStatusClosed}
)

// Job is a posting owned by a company profile. CompanyID is written once on create.
type Job struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	CompanyID uuid.UUID `gorm:"<-:create;type:uuid;not null;index" json:"companyId"`
	Company   *Company  `gorm:"foreignKey:CompanyID;references:ID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
	EditableJobInfo
	Status    string    `gorm:"type:text;not null;default:'Open';index;check:status IN ('Open','Closed')" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
}

// EditableJobInfo holds the fields set on create and changeable on update.
type EditableJobInfo struct {
	Title        string    `gorm:"type:varchar(100);not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Requirements string    `gorm:"type:text;not null" json:"requirements"`
	Location     string    `gorm:"type:text;not null" json:"location"`
	Salary       string    `gorm:"type:text;not null" json:"salary"`
	Type         string    `gorm:"type:text;not null;default:'Full-time';check:type IN ('Full-time','Internship','Contract')" json:"type"`
	Deadline     time.Time `gorm:"not null" json:"deadline"`
}

// NewJob builds an Open posting for the company.
func NewJob(companyID uuid.UUID, info EditableJobInfo, now time.Time) Job {
	info.Trim()
	if info.Type == "" {
		info.Type = JobTypeFullTime
	}
	return Job{
		ID:              uuid.New(),
		CompanyID:       companyID,
		EditableJobInfo: info,
		Status:          JobStatusOpen,
		CreatedAt:       now,
	}
}

// Trim removes surrounding whitespace from the text fields.
func (info *EditableJobInfo) Trim() {
	info.Title = strings.TrimSpace(info.Title)
	info.Description = strings.TrimSpace(info.Description)
	info.Requirements = strings.TrimSpace(info.Requirements)
	info.Location = strings.TrimSpace(info.Location)
	info.Salary = strings.TrimSpace(info.Salary)
	info.Type = strings.TrimSpace(info.Type)
}

// Validate checks a complete posting.
func (info EditableJobInfo) Validate() error {
	switch {
	case info.Title == "":
		return fmt.Errorf("Please provide a job title")
	case info.Description == "":
		return fmt.Errorf("Please provide a job description")
	case info.Requirements == "":
		return fmt.Errorf("Please provide job requirements")
	case info.Location == "":
		return fmt.Errorf("Please provide a job location")
	case info.Salary == "":
		return fmt.Errorf("Please provide salary information")
	case info.Deadline.IsZero():
		return fmt.Errorf("Please provide an application deadline")
	}
	if utf8.RuneCountInString(info.Title) > MaxJobTitle {
		return fmt.Errorf("Title cannot exceed %d characters", MaxJobTitle)
	}
	if utf8.RuneCountInString(info.Description) > MaxJobDescription {
		return fmt.Errorf("Description cannot exceed %d characters", MaxJobDescription)
	}
	if !slices.Contains(JobTypes, info.Type) {
		return fmt.Errorf("Job type must be one of Full-time, Internship, Contract")
	}
	return nil
}

func (j Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}

func ValidJobStatus(status string) bool {
	return slices.Contains(JobStatuses, status)
}
