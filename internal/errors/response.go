package errors

import (
	"github.com/gin-gonic/gin"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// ErrorResponse is the error half of the response envelope.
type ErrorResponse struct {
	Status  string       `json:"status"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// SuccessResponse is the success half of the response envelope.
type SuccessResponse struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message,omitempty"`
}

// Respond writes the success envelope.
func Respond(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, SuccessResponse{Status: StatusSuccess, Data: data})
}

// RespondWithMessage writes the success envelope with a human message.
func RespondWithMessage(c *gin.Context, statusCode int, data interface{}, message string) {
	c.JSON(statusCode, SuccessResponse{Status: StatusSuccess, Data: data, Message: message})
}

// Envelope renders the client-facing body of an AppError.
func (e *AppError) Envelope() ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Message: e.Message,
		Errors:  e.Fields,
	}
}

// Abort records err on the context for the error translator and stops the
// handler chain.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
