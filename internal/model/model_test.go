package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillListDecoding(t *testing.T) {
	var body struct {
		Skills SkillList `json:"skills"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"skills":" Go, React ,,SQL "}`), &body))
	assert.Equal(t, SkillList{"Go", "React", "SQL"}, body.Skills)

	require.NoError(t, json.Unmarshal([]byte(`{"skills":[" Go ","", "Docker"]}`), &body))
	assert.Equal(t, SkillList{"Go", "Docker"}, body.Skills)

	body.Skills = nil
	require.NoError(t, json.Unmarshal([]byte(`{"skills":[]}`), &body))
	assert.NotNil(t, body.Skills)
	assert.Empty(t, body.Skills)

	body.Skills = nil
	require.NoError(t, json.Unmarshal([]byte(`{"skills":""}`), &body))
	assert.Nil(t, body.Skills)

	assert.Error(t, json.Unmarshal([]byte(`{"skills":42}`), &body))
}

func TestNewStudentDefaults(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	s := NewStudent(uuid.New(), EditableStudentInfo{College: " KU ", Branch: "CS"}, now)

	assert.Equal(t, "KU", s.College)
	assert.Equal(t, 2026, s.GraduationYear)
	assert.Equal(t, 0.0, s.CGPA)
	assert.Equal(t, pq.StringArray{}, s.Skills)
	assert.Nil(t, s.Resume)
	assert.Equal(t, now, s.CreatedAt)
	require.NoError(t, s.Validate())
}

func TestDefaultGraduationYearIsClamped(t *testing.T) {
	assert.Equal(t, MinGraduationYear, DefaultGraduationYear(time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, MaxGraduationYear, DefaultGraduationYear(time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC)))
}

func TestStudentApplyIgnoresFalsyFields(t *testing.T) {
	s := NewStudent(uuid.New(), EditableStudentInfo{College: "KU", CGPA: 3.5, Skills: pq.StringArray{"Go"}}, time.Now())

	s.Apply(EditableStudentInfo{Branch: "SE"})

	assert.Equal(t, "KU", s.College)
	assert.Equal(t, "SE", s.Branch)
	assert.Equal(t, 3.5, s.CGPA)
	assert.Equal(t, pq.StringArray{"Go"}, s.Skills)

	s.Apply(EditableStudentInfo{Skills: pq.StringArray{}})
	assert.Empty(t, s.Skills)
}

func TestStudentValidate(t *testing.T) {
	valid := EditableStudentInfo{CGPA: 8.2, GraduationYear: 2027, Phone: "+66 (0) 81-234-5678"}
	require.NoError(t, valid.Validate())

	bad := []EditableStudentInfo{
		{CGPA: 11, GraduationYear: 2027},
		{CGPA: -1, GraduationYear: 2027},
		{CGPA: 5, GraduationYear: 2019},
		{CGPA: 5, GraduationYear: 2031},
		{CGPA: 5, GraduationYear: 2027, Phone: "call me"},
	}
	for _, info := range bad {
		assert.Error(t, info.Validate(), "%+v", info)
	}
}

func TestCompanyValidate(t *testing.T) {
	c := NewCompany(uuid.New(), EditableCompanyInfo{Industry: "Software"}, time.Now())
	assert.Equal(t, DefaultCompanySize, c.Size)
	assert.False(t, c.Verified)
	require.NoError(t, c.Validate())

	assert.Error(t, EditableCompanyInfo{Size: "2-3"}.Validate())
	assert.Error(t, EditableCompanyInfo{Website: "ftp://example.com"}.Validate())
	assert.Error(t, EditableCompanyInfo{Description: strings.Repeat("a", MaxCompanyDescription+1)}.Validate())
	assert.NoError(t, EditableCompanyInfo{Website: "https://example.com", Size: "500+"}.Validate())
}

func TestToggleVerified(t *testing.T) {
	c := NewCompany(uuid.New(), EditableCompanyInfo{}, time.Now())
	assert.True(t, c.ToggleVerified(time.Now()))
	assert.False(t, c.ToggleVerified(time.Now()))
}

func TestNewJob(t *testing.T) {
	info := EditableJobInfo{
		Title:        "  Backend Intern ",
		Description:  "Build APIs",
		Requirements: "Go",
		Location:     "Remote",
		Salary:       "15000",
		Deadline:     time.Now().AddDate(0, 1, 0),
	}
	job := NewJob(uuid.New(), info, time.Now())

	assert.Equal(t, "Backend Intern", job.Title)
	assert.Equal(t, JobTypeFullTime, job.Type)
	assert.Equal(t, JobStatusOpen, job.Status)
	assert.True(t, job.IsOpen())
	require.NoError(t, job.Validate())

	missing := job.EditableJobInfo
	missing.Salary = ""
	assert.Error(t, missing.Validate())

	long := job.EditableJobInfo
	long.Title = strings.Repeat("t", MaxJobTitle+1)
	assert.Error(t, long.Validate())

	wrongType := job.EditableJobInfo
	wrongType.Type = "Part-time"
	assert.Error(t, wrongType.Validate())
}

func TestStatusEnums(t *testing.T) {
	assert.True(t, ValidApplicationStatus(ApplicationStatusHired))
	assert.False(t, ValidApplicationStatus("Ghosted"))
	assert.True(t, ValidJobStatus(JobStatusClosed))
	assert.False(t, ValidJobStatus("Paused"))
}

func TestUserPublicHidesPassword(t *testing.T) {
	u := NewUser(" Alice ", " Alice@Example.COM ", "hash", RoleStudent)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)

	b, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "hash")

	pub := u.Public()
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, RoleStudent, pub.Role)
}
