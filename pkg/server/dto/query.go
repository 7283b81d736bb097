// Package dto defines the request and response shapes of the HTTP API.
package dto

import (
	"errors"
	"strings"
)

// MaxQuestionLength bounds the accepted question size.
const MaxQuestionLength = 4096

// ErrQuestionTooLong is returned when the question exceeds MaxQuestionLength.
var ErrQuestionTooLong = errors.New("question exceeds maximum length")

// QueryRequest is the body of POST /query. MaxHops and ResultLimit override
// the server defaults for this request only; zero values keep the defaults.
type QueryRequest struct {
	Question    string `json:"question" binding:"required"`
	MaxHops     int    `json:"max_hops,omitempty"`
	ResultLimit int    `json:"result_limit,omitempty"`
}

// Validate performs validation on QueryRequest.
func (r *QueryRequest) Validate() error {
	if strings.TrimSpace(r.Question) == "" {
		return errors.New("question cannot be empty")
	}
	if len(r.Question) > MaxQuestionLength {
		return ErrQuestionTooLong
	}
	if r.MaxHops < 0 || r.MaxHops > 5 {
		return errors.New("max_hops must be between 1 and 5")
	}
	if r.ResultLimit < 0 || r.ResultLimit > 100 {
		return errors.New("result_limit must be between 1 and 100")
	}
	return nil
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
