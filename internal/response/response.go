package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func BadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"error": errorBody{Code: "BAD_REQUEST", Message: message},
	})
}

func Forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"error": errorBody{Code: "FORBIDDEN", Message: message},
	})
}

func NotFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
		"error": errorBody{Code: "NOT_FOUND", Message: "resource not found"},
	})
}

func Conflict(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{
		"error": errorBody{Code: code, Message: message},
	})
}

func InternalServerError(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"error": errorBody{Code: "INTERNAL", Message: "internal server error"},
	})
}
