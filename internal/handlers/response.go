package handlers

import "github.com/gin-gonic/gin"

// respond writes the uniform {message, data?} response body.
func respond(c *gin.Context, status int, message string, data any) {
	body := gin.H{"message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}
