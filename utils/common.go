package utils

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// LoginUser 从token中还原的当前登录用户
type LoginUser struct {
	ID       int64  `json:"id"`
	Role     string `json:"role"`
	Username string `json:"username"`
}

// GetUser 获取当前登录用户信息
func GetUser(c *gin.Context) (*LoginUser, error) {
	currentUser, exists := c.Get("user")
	if !exists {
		return nil, fmt.Errorf("GetUser 未授权访问")
	}

	claims, ok := currentUser.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("无效的用户信息格式")
	}

	idStr, ok := claims["id"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户ID")
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("无效的用户ID: %w", err)
	}

	role, ok := claims["role"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户角色")
	}

	username, ok := claims["username"].(string)
	if !ok {
		return nil, fmt.Errorf("无效的用户名")
	}

	return &LoginUser{
		ID:       id,
		Role:     role,
		Username: username,
	}, nil
}

// RequireRole 校验当前用户是否具备任一给定角色
func RequireRole(c *gin.Context, roles ...models.UserRole) (*LoginUser, bool) {
	user, err := GetUser(c)
	if err != nil {
		HandleError(c, CreateUnauthorizedError())
		return nil, false
	}

	for _, role := range roles {
		if user.Role == string(role) {
			return user, true
		}
	}

	HandleError(c, CreateForbiddenError())
	return nil, false
}

// QueryInt 解析整数查询参数，解析失败回退到默认值而不是报错
func QueryInt(c *gin.Context, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return defaultValue
	}
	return value
}

// QueryFloat 解析浮点查询参数，缺失或解析失败返回nil
func QueryFloat(c *gin.Context, key string) *float64 {
	raw := c.Query(key)
	if raw == "" {
		return nil
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &value
}

// PaginatedResponse 分页响应
func PaginatedResponse(c *gin.Context, data interface{}, pagination models.Pagination) {
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       data,
		"pagination": pagination,
	})
}
