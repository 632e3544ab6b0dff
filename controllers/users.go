package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/service"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"

	"github.com/gin-gonic/gin"
)

// UserController 用户管理路由处理器
type UserController struct {
	store repository.Store
}

// NewUserController 创建用户控制器
func NewUserController(store repository.Store) *UserController {
	return &UserController{store: store}
}

// List 获取用户列表
func (ctrl *UserController) List(c *gin.Context) {
	users, err := ctrl.store.Users().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	page, pagination := service.Paginate(users, utils.QueryInt(c, "offset", 0), utils.QueryInt(c, "limit", 0))
	utils.PaginatedResponse(c, page, pagination)
}

// Get 获取单个用户
func (ctrl *UserController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的用户ID"))
		return
	}

	user, err := ctrl.store.Users().Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user, "")
}

// Create 创建用户，密码在存储前哈希
func (ctrl *UserController) Create(c *gin.Context) {
	var req models.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的用户数据: "+err.Error(), http.StatusBadRequest)
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
		Role:      req.Role,
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
		"role":     user.Role,
	}, "用户创建成功")

	utils.SuccessResponse(c, user, "用户创建成功", http.StatusCreated)
}

// Update 更新用户，传了密码则重新哈希
func (ctrl *UserController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的用户ID"))
		return
	}

	var patch models.UpdateUserRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的更新数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	if patch.Role != nil {
		switch *patch.Role {
		case models.UserRoleADMIN, models.UserRoleSTAFF, models.UserRoleVIEWER:
		default:
			utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的用户角色", http.StatusBadRequest)
			return
		}
	}

	if patch.Password != nil {
		if len(*patch.Password) < 6 {
			utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "密码长度至少6位", http.StatusBadRequest)
			return
		}
		hashed, err := utils.HashPassword(*patch.Password)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		patch.Password = &hashed
	}

	user, err := ctrl.store.Users().Update(c.Request.Context(), id, patch)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, user, "用户更新成功")
}

// Delete 删除用户，不允许删除自己
func (ctrl *UserController) Delete(c *gin.Context) {
	current, err := utils.GetUser(c)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的用户ID"))
		return
	}

	if current.ID == id {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "不能删除当前登录的账户", http.StatusBadRequest)
		return
	}

	user, err := ctrl.store.Users().Delete(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"userId":   user.ID,
		"username": user.Username,
		"operator": current.Username,
	}, "用户删除成功")

	utils.SuccessResponse(c, user, "用户删除成功")
}
