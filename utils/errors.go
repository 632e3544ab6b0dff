package utils

import (
	"errors"
	"net/http"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"

	"github.com/gin-gonic/gin"
)

// ApiError 自定义API错误
type ApiError struct {
	StatusCode int
	Message    string
	ErrorCode  string
}

// Error 实现error接口
func (e *ApiError) Error() string {
	return e.Message
}

// NewApiError 创建API错误
func NewApiError(message string, statusCode int, errorCode string) *ApiError {
	return &ApiError{
		StatusCode: statusCode,
		Message:    message,
		ErrorCode:  errorCode,
	}
}

// CreateValidationError 创建参数校验错误
func CreateValidationError(message string) *ApiError {
	return NewApiError(message, http.StatusBadRequest, "VALIDATION_ERROR")
}

// CreateUnauthorizedError 创建未授权错误
func CreateUnauthorizedError() *ApiError {
	return NewApiError("未授权访问", http.StatusUnauthorized, "UNAUTHORIZED")
}

// CreateForbiddenError 创建权限不足错误
func CreateForbiddenError() *ApiError {
	return NewApiError("权限不足", http.StatusForbidden, "FORBIDDEN")
}

// HandleError 处理错误并返回适当的响应，存储层错误类别在这里统一映射
func HandleError(c *gin.Context, err error) {
	if c == nil {
		return
	}

	LogError(err, map[string]interface{}{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}, err.Error())

	// 处理API错误
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.StatusCode, gin.H{
			"success": false,
			"error":   apiErr.ErrorCode,
			"message": apiErr.Message,
		})
		return
	}

	// 存储层错误类别映射
	switch {
	case errors.Is(err, models.ErrNotFound):
		ErrorResponseWithCode(c, "RESOURCE_NOT_FOUND", "资源不存在", http.StatusNotFound)
	case errors.Is(err, models.ErrDuplicateKey):
		ErrorResponseWithCode(c, "DUPLICATE_KEY", "唯一键冲突", http.StatusConflict)
	case errors.Is(err, models.ErrValidation):
		ErrorResponseWithCode(c, "VALIDATION_ERROR", "请求参数无效", http.StatusBadRequest)
	case errors.Is(err, models.ErrStoreUnavailable):
		ErrorResponseWithCode(c, "STORE_UNAVAILABLE", "存储服务暂不可用", http.StatusInternalServerError)
	default:
		// 其他未预期的错误，不向客户端暴露内部细节
		ErrorResponseWithCode(c, "INTERNAL_ERROR", "服务器内部错误", http.StatusInternalServerError)
	}
}

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, data interface{}, message string, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := gin.H{"success": true}
	if data != nil {
		response["data"] = data
	}
	if message != "" {
		response["message"] = message
	}

	c.JSON(code, response)
}

// ErrorResponseWithCode 带错误码的错误响应
func ErrorResponseWithCode(c *gin.Context, errorCode, message string, statusCode int) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   errorCode,
		"message": message,
	})
}
