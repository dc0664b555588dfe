package models

import "fmt"

// ServerError is the body of every failed read request. Code doubles as the
// HTTP status.
type ServerError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%d: %s", e.Code, e.Message)
}
