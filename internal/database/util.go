package database

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/model"
)

// Postgres SQLSTATE codes mapped onto domain errors.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgInvalidText         = "22P02"
)

// TranslateError maps ORM and driver errors onto domain error kinds. notFoundMsg is
// used when the error means the row does not exist.
func TranslateError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.NotFound(notFoundMsg, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.Conflict(conflictMessage(pgErr), err)
		case pgForeignKeyViolation, pgInvalidText:
			return apperror.NotFound(notFoundMsg, err)
		case pgCheckViolation:
			return apperror.Validation("Invalid field value", err)
		}
	}

	return apperror.Internal("Server Error", err)
}

func conflictMessage(pgErr *pgconn.PgError) string {
	switch pgErr.ConstraintName {
	case "idx_application_job_student":
		return "You have already applied for this job"
	case "idx_users_email":
		return "User already exists with this email"
	default:
		return "Duplicate field value entered"
	}
}

// FindStudentByUser loads the student profile owned by the account.
func FindStudentByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (model.Student, error) {
	var student model.Student
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&student).Error; err != nil {
		return model.Student{}, TranslateError(err, "Student profile not found")
	}
	return student, nil
}

// FindCompanyByUser loads the company profile owned by the account.
func FindCompanyByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) (model.Company, error) {
	var company model.Company
	if err := db.WithContext(ctx).Where("user_id = ?", userID).First(&company).Error; err != nil {
		return model.Company{}, TranslateError(err, "Company profile not found")
	}
	return company, nil
}
