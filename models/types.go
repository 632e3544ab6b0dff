package models

import "time"

// UserRole 用户角色枚举
type UserRole string

const (
	UserRoleADMIN  UserRole = "ADMIN"  // 管理员
	UserRoleSTAFF  UserRole = "STAFF"  // 库存管理员
	UserRoleVIEWER UserRole = "VIEWER" // 只读用户
)

// User 用户类型
type User struct {
	ID        int64     `json:"id" db:"id" bson:"id"`
	Username  string    `json:"username" db:"username" bson:"username"`
	Password  string    `json:"-" db:"password" bson:"password"` // 不返回密码
	Email     string    `json:"email,omitempty" db:"email" bson:"email,omitempty"`
	Role      UserRole  `json:"role" db:"role" bson:"role"`
	IsActive  bool      `json:"isActive" db:"is_active" bson:"isActive"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
}

// 各种请求和响应结构
type (
	// LoginRequest 登录请求
	LoginRequest struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	// LoginResponse 登录响应
	LoginResponse struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}

	// RegisterRequest 注册请求
	RegisterRequest struct {
		Username string `json:"username" binding:"required,min=2"`
		Password string `json:"password" binding:"required,min=6"`
		Email    string `json:"email" binding:"omitempty,email"`
	}

	// CreateUserRequest 创建用户请求
	CreateUserRequest struct {
		Username string   `json:"username" binding:"required,min=2"`
		Password string   `json:"password" binding:"required,min=6"`
		Email    string   `json:"email" binding:"omitempty,email"`
		Role     UserRole `json:"role" binding:"required,oneof=ADMIN STAFF VIEWER"`
	}

	// UpdateUserRequest 更新用户请求
	UpdateUserRequest struct {
		Username *string   `json:"username"`
		Password *string   `json:"password"`
		Email    *string   `json:"email"`
		Role     *UserRole `json:"role"`
		IsActive *bool     `json:"isActive"`
	}
)
