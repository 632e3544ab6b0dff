package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/controllers"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/middleware"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
)

func RegisterInventoryRoutes(router *gin.Engine, store repository.Store) {
	ctrl := controllers.NewInventoryController(store)

	inventoryGroup := router.Group("/api/inventory")
	inventoryGroup.Use(middleware.AuthMiddleware())

	// 库存清单
	inventoryGroup.GET("", ctrl.List)

	// 库存变动记录
	inventoryGroup.GET("/records", ctrl.Records)

	// 库存统计
	inventoryGroup.GET("/stats", ctrl.Stats)

	// 库存调整
	inventoryGroup.PUT("/:id/stock", ctrl.UpdateStock)
}
