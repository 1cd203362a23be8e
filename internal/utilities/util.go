// Package utilities contain utility code that use across the package
package utilities

import (
	"errors"
	"reflect"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"campus-portal-backend/internal/apperror"
	"campus-portal-backend/internal/model"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Token   string      `json:"token,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK wraps data in a successful envelope.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// List wraps a collection and its length.
func List(data interface{}, n int) Response {
	return Response{Success: true, Count: &n, Data: data}
}

// Msg is a successful envelope carrying only a message.
func Msg(message string) Response {
	return Response{Success: true, Message: message}
}

// Done is a successful envelope carrying a message and data.
func Done(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail is the envelope written for errors.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// ExtractUser extracts the user model from Gin context.
// It does not abort the request; instead returns an error when missing/invalid.
func ExtractUser(c *gin.Context) (model.User, error) {
	u, _ := c.Get("user")
	if u == nil {
		return model.User{}, apperror.Auth("Not authorized to access this route", errors.New("user information not provided"))
	}

	user, ok := u.(model.User)
	if !ok {
		return model.User{}, apperror.Internal("Failed to read user", errors.New("failed to assert type"))
	}
	return user, nil
}

// ParseID parses a path id. Malformed ids are reported as missing resources.
func ParseID(raw string, resource string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperror.NotFound(resource+" not found", err)
	}
	return id, nil
}

// MergeNonEmpty help merge struct with non-empty field
func MergeNonEmpty(dst, src interface{}) {
	dv := reflect.ValueOf(dst).Elem()
	sv := reflect.ValueOf(src).Elem()

	for i := 0; i < sv.NumField(); i++ {
		sf := sv.Field(i)
		if !sf.IsZero() {
			df := dv.FieldByName(sv.Type().Field(i).Name)
			if df.IsValid() && df.CanSet() {
				df.Set(sf)
			}
		}
	}
}
