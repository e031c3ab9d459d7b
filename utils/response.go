// utils/response.go
package utils

import (
	"github.com/gin-gonic/gin"
)

// RespondWithError sends a plain error payload
func RespondWithError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"error": message})
}

// RespondAJAXData sends the {success, data} envelope used by the snapshot
// endpoints that populate edit forms.
func RespondAJAXData(c *gin.Context, data gin.H) {
	c.JSON(200, gin.H{"success": true, "data": data})
}

// RespondAJAXError sends the {success: false, error} envelope.
func RespondAJAXError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}
