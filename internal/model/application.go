package model

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

const (
	ApplicationStatusApplied      = "Applied"
	ApplicationStatusShortlisted  = "Shortlisted"
	ApplicationStatusInterviewing = "Interviewing"
	ApplicationStatusRejected     = "Rejected"
	ApplicationStatusHired        = "Hired"
)

// ApplicationStatuses lists every status a company may set. Any transition is allowed.
var ApplicationStatuses = []string{
	ApplicationStatusApplied,
	ApplicationStatusShortlisted,
	ApplicationStatusInterviewing,
	ApplicationStatusRejected,
	ApplicationStatusHired,
}

// Application links a student profile to a job. A student applies to a job at most once.
type Application struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	JobID     uuid.UUID `gorm:"<-:create;type:uuid;not null;uniqueIndex:idx_application_job_student" json:"jobId"`
	Job       *Job      `gorm:"foreignKey:JobID;references:ID;constraint:OnDelete:CASCADE" json:"job,omitempty"`
	StudentID uuid.UUID `gorm:"<-:create;type:uuid;not null;uniqueIndex:idx_application_job_student;index" json:"studentId"`
	Student   *Student  `gorm:"foreignKey:StudentID;references:ID;constraint:OnDelete:CASCADE" json:"student,omitempty"`
	Status    string    `gorm:"type:text;not null;default:'Applied';check:status IN ('Applied','Shortlisted','Interviewing','Rejected','Hired')" json:"status"`
	AppliedAt time.Time `gorm:"not null" json:"appliedAt"`
}

func NewApplication(jobID, studentID uuid.UUID, now time.Time) Application {
	return Application{
		ID:        uuid.New(),
		JobID:     jobID,
		StudentID: studentID,
		Status:    ApplicationStatusApplied,
		AppliedAt: now,
	}
}

func ValidApplicationStatus(status string) bool {
	return slices.Contains(ApplicationStatuses, status)
}
