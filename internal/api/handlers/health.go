package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/api/response"
)

// GET /health
func Health(c *gin.Context) {
	response.RespondOK(c, gin.H{"status": "ok"})
}
