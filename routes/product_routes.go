package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/controllers"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/middleware"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
)

func RegisterProductRoutes(router *gin.Engine, store repository.Store) {
	ctrl := controllers.NewProductController(store)

	productGroup := router.Group("/api/products")
	productGroup.Use(middleware.AuthMiddleware())

	// 获取商品列表
	productGroup.GET("", ctrl.List)

	// 商品分类列表，注册在/:id之前避免路由冲突
	productGroup.GET("/categories", ctrl.Categories)

	// 商品数据导出
	productGroup.GET("/export", ctrl.Export)

	// 获取单个商品
	productGroup.GET("/:id", ctrl.Get)

	// 创建商品
	productGroup.POST("", ctrl.Create)

	// 更新商品
	productGroup.PUT("/:id", ctrl.Update)

	// 删除商品
	productGroup.DELETE("/:id", ctrl.Delete)

	// 入库操作
	productGroup.POST("/:id/stock-in", ctrl.StockIn)

	// 出库操作
	productGroup.POST("/:id/stock-out", ctrl.StockOut)
}
