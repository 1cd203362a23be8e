package database

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"campus-portal-backend/internal/config"
	m "campus-portal-backend/internal/model"
	"campus-portal-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test accounts & profiles
var (
	TestAdminUser    m.User
	TestUserStudent1 m.User
	TestUserStudent2 m.User
	TestUserCompany1 m.User
	TestUserCompany2 m.User
	TestStudent1     m.Student
	TestStudent2     m.Student
	TestCompany1     m.Company
	TestCompany2     m.Company

	// Plain password shared by every seeded account
	TestSeedPassword = "SeedPass123!"

	// Seeded jobs. TestJob3 is Closed.
	TestJob1 m.Job
	TestJob2 m.Job
	TestJob3 m.Job
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {
	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:16-alpine",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	cfg := config.DatabaseConfig{
		Host:         dbHost,
		Port:         dbPort.Port(),
		User:         dbUser,
		Password:     dbPwd,
		DBName:       dbName,
		MaxOpenConns: 10,
	}

	db, err := NewDBInstance(cfg, config.AdminConfig{}, zap.NewNop())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts one admin, two students, two companies and three jobs.
func seedTestData(db *DBinstanceStruct) error {
	hashedPwd, err := utilities.HashPassword(TestSeedPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	TestAdminUser = m.NewUser("Admin", "admin@example.com", hashedPwd, m.RoleAdmin)
	TestUserStudent1 = m.NewUser("Alice Nguyen", "student1@example.com", hashedPwd, m.RoleStudent)
	TestUserStudent2 = m.NewUser("Bob Somsak", "student2@example.com", hashedPwd, m.RoleStudent)
	TestUserCompany1 = m.NewUser("TechNova", "company1@example.com", hashedPwd, m.RoleCompany)
	TestUserCompany2 = m.NewUser("DataForge", "company2@example.com", hashedPwd, m.RoleCompany)

	users := []*m.User{&TestAdminUser, &TestUserStudent1, &TestUserStudent2, &TestUserCompany1, &TestUserCompany2}
	if err := db.Create(users).Error; err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	TestStudent1 = m.NewStudent(TestUserStudent1.ID, m.EditableStudentInfo{
		College:        "Kasetsart University",
		Branch:         "Computer Engineering",
		CGPA:           3.4,
		GraduationYear: 2026,
		Skills:         pq.StringArray{"Go", "SQL"},
	}, now)
	TestStudent2 = m.NewStudent(TestUserStudent2.ID, m.EditableStudentInfo{
		College:        "Chiang Mai University",
		Branch:         "Software Engineering",
		CGPA:           3.1,
		GraduationYear: 2027,
		Skills:         pq.StringArray{"React"},
	}, now)
	if err := db.Create([]*m.Student{&TestStudent1, &TestStudent2}).Error; err != nil {
		return fmt.Errorf("seed students: %w", err)
	}

	TestCompany1 = m.NewCompany(TestUserCompany1.ID, m.EditableCompanyInfo{
		Website:     "https://technova.example.com",
		Industry:    "Software",
		Size:        "51-100",
		Description: "Innovative platform solutions",
	}, now)
	TestCompany1.Verified = true
	TestCompany2 = m.NewCompany(TestUserCompany2.ID, m.EditableCompanyInfo{
		Website:  "https://dataforge.example.com",
		Industry: "Consulting",
		Size:     "11-50",
	}, now)
	if err := db.Create([]*m.Company{&TestCompany1, &TestCompany2}).Error; err != nil {
		return fmt.Errorf("seed companies: %w", err)
	}

	TestJob1 = m.NewJob(TestCompany1.ID, m.EditableJobInfo{
		Title:        "Backend Engineer Intern",
		Description:  "Work on Go microservices and database layers.",
		Requirements: "Go basics; SQL familiarity",
		Location:     "Bangkok (Hybrid)",
		Salary:       "15000 THB",
		Type:         m.JobTypeInternship,
		Deadline:     now.AddDate(0, 1, 0),
	}, now.Add(-2*time.Hour))
	TestJob2 = m.NewJob(TestCompany1.ID, m.EditableJobInfo{
		Title:        "Frontend Developer",
		Description:  "Build the component library in React.",
		Requirements: "JS/TS fundamentals",
		Location:     "Remote",
		Salary:       "40000 THB",
		Deadline:     now.AddDate(0, 2, 0),
	}, now.Add(-time.Hour))
	TestJob3 = m.NewJob(TestCompany2.ID, m.EditableJobInfo{
		Title:        "Data Analyst Intern",
		Description:  "Support data cleansing and dashboard creation.",
		Requirements: "SQL; basic statistics",
		Location:     "Chiang Mai (On-site)",
		Salary:       "13000 THB",
		Type:         m.JobTypeInternship,
		Deadline:     now.AddDate(0, 3, 0),
	}, now)
	TestJob3.Status = m.JobStatusClosed
	if err := db.Create([]*m.Job{&TestJob1, &TestJob2, &TestJob3}).Error; err != nil {
		return fmt.Errorf("seed jobs: %w", err)
	}

	return nil
}
