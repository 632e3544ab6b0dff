package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/controllers"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/middleware"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
)

func RegisterDashboardRoutes(router *gin.Engine, store repository.Store) {
	ctrl := controllers.NewDashboardController(store)

	dashboardGroup := router.Group("/api/dashboard")
	dashboardGroup.Use(middleware.AuthMiddleware())

	// 看板统计数据
	dashboardGroup.GET("", ctrl.Overview)
}
