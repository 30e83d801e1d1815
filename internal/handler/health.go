package handler

import (
	"zksync-wallet/internal/handler/response"

	"github.com/gin-gonic/gin"
)

// HealthCheck 存活检查
func HealthCheck(c *gin.Context) {
	response.Success(c, gin.H{
		"status":  "UP",
		"version": "1.0.0",
		"service": "zksync-wallet",
	})
}
