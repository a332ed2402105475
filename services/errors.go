package services

import "net/http"

// ServiceError is a typed error with an HTTP status code. Fields carries
// per-field form errors when the failure is a validation failure.
type ServiceError struct {
	StatusCode int
	Message    string
	Fields     map[string][]string
}

func (e *ServiceError) Error() string { return e.Message }

func notFound(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusNotFound, Message: msg}
}

func internal(msg string) *ServiceError {
	return &ServiceError{StatusCode: http.StatusInternalServerError, Message: msg}
}

func fieldError(field, msg string) *ServiceError {
	return &ServiceError{
		StatusCode: http.StatusBadRequest,
		Message:    "Invalid request",
		Fields:     map[string][]string{field: {msg}},
	}
}
