// Package services holds the studio's business operations. Handlers stay
// thin: they bind input, call a service and map its *Error to a status.
package services

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Error is a failure the client caused, carrying the HTTP status to report.
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func NotFound(msg string) *Error   { return &Error{Code: http.StatusNotFound, Message: msg} }
func BadRequest(msg string) *Error { return &Error{Code: http.StatusBadRequest, Message: msg} }
func Conflict(msg string) *Error   { return &Error{Code: http.StatusConflict, Message: msg} }
func Forbidden(msg string) *Error  { return &Error{Code: http.StatusForbidden, Message: msg} }
func Unauthorized(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

// notFoundAs converts gorm.ErrRecordNotFound into a NotFound with msg.
func notFoundAs(err error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return NotFound(msg)
	}
	return err
}
