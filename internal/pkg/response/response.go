package response

import (
	"net/http"

	"taskmanager/internal/pkg/apperr"

	"github.com/gin-gonic/gin"
)

const (
	internalCode    = "INTERNAL_ERROR"
	internalMessage = "Unexpected error"
)

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// Fail renders err. Domain errors keep their status, code and field details;
// anything else becomes an opaque 500.
func Fail(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		Error(c, http.StatusInternalServerError, internalCode, internalMessage)
		return
	}
	if len(appErr.Fields) > 0 {
		ErrorWithDetails(c, appErr.Status(), appErr.Code, appErr.Message, appErr.Fields)
		return
	}
	Error(c, appErr.Status(), appErr.Code, appErr.Message)
}

// Abort renders err and stops the handler chain.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}
