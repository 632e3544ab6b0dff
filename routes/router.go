package routes

import (
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, store repository.Store) {
	// 注册认证路由
	RegisterAuthRoutes(router, store)

	// 注册用户管理路由
	RegisterUserRoutes(router, store)

	// 注册业务路由
	RegisterProductRoutes(router, store)
	RegisterInventoryRoutes(router, store)
	RegisterDashboardRoutes(router, store)

	// 健康检查路由
	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
}
