package app

import "fmt"

// DomainError is a failure the HTTP layer translates straight into the
// API's error envelope: Status becomes the response code, Code and Message
// fill the body, Details carries validation specifics when there are any.
type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// domainError builds the errors the section, collection, and auth paths
// hand back through mapError.
func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}
