package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/controllers"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/middleware"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
)

func RegisterAuthRoutes(router *gin.Engine, store repository.Store) {
	ctrl := controllers.NewAuthController(store)

	authGroup := router.Group("/api/auth")

	// 用户登录
	authGroup.POST("/login", ctrl.Login)

	// 用户注册
	authGroup.POST("/register", ctrl.Register)

	// 令牌校验
	authGroup.GET("/validate", middleware.AuthMiddleware(), ctrl.Validate)
}
