package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"

	"github.com/gin-gonic/gin"
)

func handleErrorResponse(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	InitLogger()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)

	HandleError(c, err)

	body := map[string]interface{}{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("响应不是合法JSON: %v", err)
	}
	return w.Code, body
}

func TestHandleErrorApiError(t *testing.T) {
	tests := []struct {
		name       string
		err        *ApiError
		wantStatus int
		wantCode   string
	}{
		{"参数校验", CreateValidationError("无效的商品ID"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"未授权", CreateUnauthorizedError(), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"权限不足", CreateForbiddenError(), http.StatusForbidden, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handleErrorResponse(t, tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, 期望 %d", status, tt.wantStatus)
			}
			if body["error"] != tt.wantCode {
				t.Errorf("error = %v, 期望 %s", body["error"], tt.wantCode)
			}
			// ApiError携带的消息原样透出
			if body["message"] != tt.err.Message {
				t.Errorf("message = %v, 期望 %s", body["message"], tt.err.Message)
			}
		})
	}
}

func TestHandleErrorStoreSentinels(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"资源不存在", fmt.Errorf("%w: 商品 1", models.ErrNotFound), http.StatusNotFound, "RESOURCE_NOT_FOUND"},
		{"唯一键冲突", fmt.Errorf("%w: SKU x", models.ErrDuplicateKey), http.StatusConflict, "DUPLICATE_KEY"},
		{"校验失败", fmt.Errorf("%w: 负库存", models.ErrValidation), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"存储不可用", fmt.Errorf("%w: disk full", models.ErrStoreUnavailable), http.StatusInternalServerError, "STORE_UNAVAILABLE"},
		{"未知错误", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handleErrorResponse(t, tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, 期望 %d", status, tt.wantStatus)
			}
			if body["error"] != tt.wantCode {
				t.Errorf("error = %v, 期望 %s", body["error"], tt.wantCode)
			}
		})
	}
}
