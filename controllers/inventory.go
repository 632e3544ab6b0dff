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
	"github.com/google/uuid"
)

// InventoryController 库存相关路由处理器
type InventoryController struct {
	store repository.Store
}

// NewInventoryController 创建库存控制器
func NewInventoryController(store repository.Store) *InventoryController {
	return &InventoryController{store: store}
}

// List 获取库存清单，返回带派生字段的商品列表和筛选后集合的汇总
func (ctrl *InventoryController) List(c *gin.Context) {
	products, err := ctrl.store.Products().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filtered := service.Filter(products, parseProductFilter(c))
	sorted := service.Sort(filtered, c.Query("sortBy"), c.Query("sortOrder"))
	page, pagination := service.Paginate(sorted, utils.QueryInt(c, "offset", 0), utils.QueryInt(c, "limit", 0))

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       service.EnrichAll(page),
		"pagination": pagination,
		"summary":    service.Aggregate(filtered),
	})
}

// Records 获取库存变动记录
func (ctrl *InventoryController) Records(c *gin.Context) {
	filter := models.MovementFilter{
		ProductID: int64(utils.QueryInt(c, "productId", 0)),
		Type:      c.Query("type"),
	}

	// 默认查最近30天
	days := utils.QueryInt(c, "days", 30)
	if days > 0 {
		filter.Since = time.Now().AddDate(0, 0, -days)
	}

	movements, err := ctrl.store.Movements().List(c.Request.Context(), filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	page, pagination := service.Paginate(movements, utils.QueryInt(c, "offset", 0), utils.QueryInt(c, "limit", 0))
	utils.PaginatedResponse(c, page, pagination)
}

// Stats 获取库存统计信息
func (ctrl *InventoryController) Stats(c *gin.Context) {
	products, err := ctrl.store.Products().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	stats := service.Aggregate(service.Filter(products, parseProductFilter(c)))

	// 最近30天出入库汇总
	movements, err := ctrl.store.Movements().List(c.Request.Context(), models.MovementFilter{
		Since: time.Now().AddDate(0, 0, -30),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
		"summary": gin.H{
			"recentChanges": service.SummarizeMovements(movements),
		},
	})
}

// UpdateStock 库存调整，支持 add / subtract / set，减库存在0处截断
func (ctrl *InventoryController) UpdateStock(c *gin.Context) {
	user, ok := utils.RequireRole(c, models.UserRoleADMIN, models.UserRoleSTAFF)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的商品ID"))
		return
	}

	var req models.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的调整数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	old, err := ctrl.store.Products().Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	var updated *models.Product
	switch req.Operation {
	case "add":
		updated, err = ctrl.store.Products().AdjustStock(c.Request.Context(), id, req.Quantity)
	case "subtract":
		updated, err = ctrl.store.Products().AdjustStock(c.Request.Context(), id, -req.Quantity)
	case "set":
		updated, err = ctrl.store.Products().SetStock(c.Request.Context(), id, req.Quantity)
	}
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	movementType := "adjust"
	switch req.Operation {
	case "add":
		movementType = "in"
	case "subtract":
		movementType = "out"
	}

	actual := updated.Stock - old.Stock
	if actual < 0 {
		actual = -actual
	}

	if _, err := ctrl.store.Movements().Insert(c.Request.Context(), models.StockMovement{
		ProductID:   updated.ID,
		ProductName: updated.Name,
		SKU:         updated.SKU,
		Type:        movementType,
		Quantity:    actual,
		Remark:      req.Remark,
		Operator:    user.Username,
		OperationID: uuid.NewString(),
	}); err != nil {
		utils.LogError(err, map[string]interface{}{
			"productId": updated.ID,
			"operation": req.Operation,
		}, "库存流水记录失败，但库存已更新")
	}

	utils.SuccessResponse(c, service.Enrich(*updated), "库存调整成功")
}
