package controllers

import (
	"net/http"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"

	"github.com/gin-gonic/gin"
)

// AuthController 认证相关路由处理器
type AuthController struct {
	store repository.Store
}

// NewAuthController 创建认证控制器
func NewAuthController(store repository.Store) *AuthController {
	return &AuthController{store: store}
}

// Login 用户登录，校验密码并签发JWT
func (ctrl *AuthController) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "用户名和密码不能为空", http.StatusBadRequest)
		return
	}

	user, err := ctrl.store.Users().GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		utils.HandleError(c, err)
		return
	}
	// 用户不存在和密码错误返回同一个错误，避免暴露用户名是否存在
	if user == nil || !utils.VerifyPassword(req.Password, user.Password) {
		utils.LogInfo(map[string]interface{}{
			"username": req.Username,
		}, "登录失败: 用户名或密码错误")
		utils.ErrorResponseWithCode(c, "UNAUTHORIZED", "用户名或密码错误", http.StatusUnauthorized)
		return
	}

	if !user.IsActive {
		utils.ErrorResponseWithCode(c, "FORBIDDEN", "账户已被禁用", http.StatusForbidden)
		return
	}

	token, err := utils.GenerateToken(*user)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
		"role":     user.Role,
	}, "登录成功")

	utils.SuccessResponse(c, models.LoginResponse{Token: token, User: *user}, "登录成功")
}

// Register 用户注册，新用户默认只读角色
func (ctrl *AuthController) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的注册数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	now := time.Now()
	user, err := ctrl.store.Users().Create(c.Request.Context(), models.User{
		Username:  req.Username,
		Password:  hashed,
		Email:     req.Email,
		Role:      models.UserRoleVIEWER,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
	}, "用户注册成功")

	utils.SuccessResponse(c, user, "注册成功", http.StatusCreated)
}

// Validate 校验当前令牌并返回对应的用户信息
func (ctrl *AuthController) Validate(c *gin.Context) {
	current, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	user, err := ctrl.store.Users().Get(c.Request.Context(), current.ID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	if !user.IsActive {
		utils.ErrorResponseWithCode(c, "FORBIDDEN", "账户已被禁用", http.StatusForbidden)
		return
	}

	utils.SuccessResponse(c, user, "")
}
