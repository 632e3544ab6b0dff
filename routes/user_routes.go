package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/controllers"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/middleware"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
)

func RegisterUserRoutes(router *gin.Engine, store repository.Store) {
	ctrl := controllers.NewUserController(store)

	userGroup := router.Group("/api/users")
	userGroup.Use(middleware.AuthMiddleware())

	// 用户列表
	userGroup.GET("", middleware.PermissionMiddleware("users", "read"), ctrl.List)

	// 单个用户
	userGroup.GET("/:id", middleware.PermissionMiddleware("users", "read"), ctrl.Get)

	// 创建用户
	userGroup.POST("", middleware.PermissionMiddleware("users", "create"), ctrl.Create)

	// 更新用户
	userGroup.PUT("/:id", middleware.PermissionMiddleware("users", "update"), ctrl.Update)

	// 删除用户
	userGroup.DELETE("/:id", middleware.PermissionMiddleware("users", "delete"), ctrl.Delete)
}
