package utils

import (
	"github.com/gin-gonic/gin"
)

// JSONSuccess sends a success response, merging extra payload fields into
// the body next to the success flag.
func JSONSuccess(c *gin.Context, status int, data gin.H) {
	body := gin.H{"success": true}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(status, body)
}

// JSONError sends an error response with a human-readable reason
func JSONError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{
		"error": message,
	})
}
