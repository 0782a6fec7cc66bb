package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/forecastpulse/internal/domain/dto"
)

// ErrorHandler answers 500 with an ErrorResponse when a handler recorded an
// error with c.Error but wrote no response itself. An error that is already
// a dto.ErrorResponse is sent as is.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	var resp dto.ErrorResponse
	if !errors.As(err, &resp) {
		resp = dto.NewErrorResponse("Internal server error", err)
	}
	c.JSON(http.StatusInternalServerError, resp)
}

// AbortWithError records err on the context and aborts with status and a
// standard ErrorResponse body.
func AbortWithError(c *gin.Context, status int, message string, err error) {
	if err != nil {
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(message, err))
}
