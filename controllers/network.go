package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// @Summary Health check
// @Tags network
// @Produce json
// @Success 200 {object} object{status=string,timestamp=string}
// @Router /api/health [get]
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
}

// @Summary API information
// @Tags network
// @Produce json
// @Success 200 {object} object{name=string,version=string,description=string}
// @Router /api [get]
func Info(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":        "DuoPlay API",
		"version":     "1.0.0",
		"description": "Backend for two-person social games",
	})
}
