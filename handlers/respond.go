package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"street-bites-go/services"
)

// All responses share the {success, message?, data?} envelope the clients
// expect; validation failures add an errors list, listings add pagination.

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func respondMessage(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondValidationErrors(c *gin.Context, fields []services.FieldError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation error",
		"errors":  fields,
	})
}

// respondServerError logs the full failure server-side and returns a generic
// message; the error detail is echoed only in development mode.
func respondServerError(c *gin.Context, logContext string, err error) {
	log.Printf("%s: %v", logContext, err)

	body := gin.H{"success": false, "message": "Internal server error"}
	if Cfg != nil && Cfg.IsDevelopment() {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}
