package model

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	MinGraduationYear = 2020
	MaxGraduationYear = 2030
	MaxCGPA           = 10.0
)

var phonePattern = regexp.MustCompile(`^[+]?[\d\s\-()]+$`)

// Student is the profile attached to an account with role student.
type Student struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey;default:uuid_generate_v4()" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE" json:"user,omitempty"`
	EditableStudentInfo
	Resume    *string   `gorm:"type:text" json:"resume"`
	CreatedAt time.Time `gorm:"autoCreateTime:false" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// EditableStudentInfo holds the fields a student may change on their own profile.
type EditableStudentInfo struct {
	Phone          string         `gorm:"type:text" json:"phone"`
	College        string         `gorm:"type:text" json:"college"`
	Branch         string         `gorm:"type:text" json:"branch"`
	CGPA           float64        `gorm:"not null;default:0;check:cgpa >= 0 AND cgpa <= 10" json:"cgpa"`
	GraduationYear int            `gorm:"not null;check:graduation_year BETWEEN 2020 AND 2030" json:"graduationYear"`
	Skills         pq.StringArray `gorm:"type:text[]" json:"skills"`
}

// NewStudent builds a profile with registration defaults, then applies info on top.
func NewStudent(userID uuid.UUID, info EditableStudentInfo, now time.Time) Student {
	s := Student{
		ID:     uuid.New(),
		UserID: userID,
		EditableStudentInfo: EditableStudentInfo{
			GraduationYear: DefaultGraduationYear(now),
			Skills:         pq.StringArray{},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Apply(info)
	return s
}

// DefaultGraduationYear is the current year clamped into the accepted range.
func DefaultGraduationYear(now time.Time) int {
	y := now.Year()
	if y < MinGraduationYear {
		return MinGraduationYear
	}
	if y > MaxGraduationYear {
		return MaxGraduationYear
	}
	return y
}

// Apply copies the non-empty fields of info onto the profile.
func (s *Student) Apply(info EditableStudentInfo) {
	if v := strings.TrimSpace(info.Phone); v != "" {
		s.Phone = v
	}
	if v := strings.TrimSpace(info.College); v != "" {
		s.College = v
	}
	if v := strings.TrimSpace(info.Branch); v != "" {
		s.Branch = v
	}
	if info.CGPA != 0 {
		s.CGPA = info.CGPA
	}
	if info.GraduationYear != 0 {
		s.GraduationYear = info.GraduationYear
	}
	if info.Skills != nil {
		s.Skills = NormalizeSkills(info.Skills)
	}
}

func (info EditableStudentInfo) Validate() error {
	if info.CGPA < 0 || info.CGPA > MaxCGPA {
		return fmt.Errorf("CGPA must be between 0 and 10")
	}
	if info.GraduationYear < MinGraduationYear || info.GraduationYear > MaxGraduationYear {
		return fmt.Errorf("Graduation year must be between %d and %d", MinGraduationYear, MaxGraduationYear)
	}
	if info.Phone != "" && !phonePattern.MatchString(info.Phone) {
		return fmt.Errorf("Please provide a valid phone number")
	}
	return nil
}

// NormalizeSkills trims every skill and drops empty entries.
func NormalizeSkills(skills []string) pq.StringArray {
	out := pq.StringArray{}
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// SkillList decodes either a JSON array of strings or a comma-delimited string.
// A nil SkillList means the field was absent or empty.
type SkillList []string

func (l *SkillList) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*l = nil
		return nil
	}

	var list []string
	if err := json.Unmarshal(b, &list); err == nil {
		*l = SkillList(NormalizeSkills(list))
		return nil
	}

	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("skills must be an array or a comma separated string")
	}
	if strings.TrimSpace(raw) == "" {
		*l = nil
		return nil
	}
	*l = SkillList(NormalizeSkills(strings.Split(raw, ",")))
	return nil
}

// StringArray converts the list for storage; nil stays nil.
func (l SkillList) StringArray() pq.StringArray {
	if l == nil {
		return nil
	}
	return pq.StringArray(l)
}
