package controllers

import (
	"encoding/csv"
	"fmt"
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

// ProductController 商品相关路由处理器，存储在启动时显式注入
type ProductController struct {
	store repository.Store
}

// NewProductController 创建商品控制器
func NewProductController(store repository.Store) *ProductController {
	return &ProductController{store: store}
}

// parseProductFilter 从查询参数解析筛选条件，非法数值回退为不过滤
func parseProductFilter(c *gin.Context) models.ProductFilter {
	return models.ProductFilter{
		Category: c.Query("category"),
		Search:   c.Query("search"),
		Status:   c.Query("status"),
		MinPrice: utils.QueryFloat(c, "minPrice"),
		MaxPrice: utils.QueryFloat(c, "maxPrice"),
	}
}

// List 获取商品列表，依次执行 筛选->排序->分页->派生字段计算
func (ctrl *ProductController) List(c *gin.Context) {
	products, err := ctrl.store.Products().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filter := parseProductFilter(c)
	filtered := service.Filter(products, filter)
	sorted := service.Sort(filtered, c.Query("sortBy"), c.Query("sortOrder"))

	page, pagination := service.Paginate(sorted, utils.QueryInt(c, "offset", 0), utils.QueryInt(c, "limit", 0))

	utils.PaginatedResponse(c, service.EnrichAll(page), pagination)
}

// Get 获取单个商品
func (ctrl *ProductController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的商品ID"))
		return
	}

	product, err := ctrl.store.Products().Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, service.Enrich(*product), "")
}

// Create 创建商品
func (ctrl *ProductController) Create(c *gin.Context) {
	user, ok := utils.RequireRole(c, models.UserRoleADMIN, models.UserRoleSTAFF)
	if !ok {
		return
	}

	var req models.ProductCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的商品数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Cost:        req.Cost,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		MaxStock:    req.MaxStock,
		SKU:         req.SKU,
		Barcode:     req.Barcode,
		Description: req.Description,
		Image:       req.Image,
		Location:    req.Location,
		Brand:       req.Brand,
	}

	created, err := ctrl.store.Products().Create(c.Request.Context(), product)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.LogInfo(map[string]interface{}{
		"productId": created.ID,
		"sku":       created.SKU,
	}, "商品创建成功")

	// 初始库存记录一条入库流水，流水失败不影响商品创建
	if created.Stock > 0 {
		_, err := ctrl.store.Movements().Insert(c.Request.Context(), models.StockMovement{
			ProductID:   created.ID,
			ProductName: created.Name,
			SKU:         created.SKU,
			Type:        "in",
			Quantity:    created.Stock,
			Remark:      "商品初始库存",
			Operator:    user.Username,
			OperationID: uuid.NewString(),
		})
		if err != nil {
			utils.LogError(err, map[string]interface{}{
				"productId": created.ID,
			}, "创建初始库存流水失败，但商品已创建成功")
		}
	}

	utils.SuccessResponse(c, service.Enrich(*created), "创建商品成功", http.StatusCreated)
}

// Update 更新商品，不允许修改ID，库存只能通过出入库操作修改
func (ctrl *ProductController) Update(c *gin.Context) {
	if _, ok := utils.RequireRole(c, models.UserRoleADMIN, models.UserRoleSTAFF); !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的商品ID"))
		return
	}

	var patch models.ProductUpdateRequest
	if err := c.ShouldBindJSON(&patch); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的更新数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := ctrl.store.Products().Update(c.Request.Context(), id, patch)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, service.Enrich(*updated), "更新商品成功")
}

// Delete 删除商品，删除策略（软/硬）在启动时对整个集合决定一次
func (ctrl *ProductController) Delete(c *gin.Context) {
	if _, ok := utils.RequireRole(c, models.UserRoleADMIN); !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的商品ID"))
		return
	}

	removed, err := ctrl.store.Products().Delete(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, removed, "删除商品成功")
}

// StockIn 入库操作
func (ctrl *ProductController) StockIn(c *gin.Context) {
	ctrl.stockOperation(c, "in")
}

// StockOut 出库操作，出库量超过现有库存时在0处截断
func (ctrl *ProductController) StockOut(c *gin.Context) {
	ctrl.stockOperation(c, "out")
}

func (ctrl *ProductController) stockOperation(c *gin.Context, opType string) {
	user, ok := utils.RequireRole(c, models.UserRoleADMIN, models.UserRoleSTAFF)
	if !ok {
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.HandleError(c, utils.CreateValidationError("无效的商品ID"))
		return
	}

	var op models.StockOperation
	if err := c.ShouldBindJSON(&op); err != nil {
		utils.ErrorResponseWithCode(c, "VALIDATION_ERROR", "无效的操作数据: "+err.Error(), http.StatusBadRequest)
		return
	}

	old, err := ctrl.store.Products().Get(c.Request.Context(), id)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	delta := op.Quantity
	if opType == "out" {
		delta = -op.Quantity
	}

	updated, err := ctrl.store.Products().AdjustStock(c.Request.Context(), id, delta)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	// 流水记录实际变动量，出库触顶截断时与请求量不同
	actual := updated.Stock - old.Stock
	if actual < 0 {
		actual = -actual
	}

	movement := models.StockMovement{
		ProductID:   updated.ID,
		ProductName: updated.Name,
		SKU:         updated.SKU,
		Type:        opType,
		Quantity:    actual,
		Remark:      op.Remark,
		Operator:    user.Username,
		OperationID: uuid.NewString(),
	}
	if _, err := ctrl.store.Movements().Insert(c.Request.Context(), movement); err != nil {
		utils.LogError(err, map[string]interface{}{
			"productId": updated.ID,
			"type":      opType,
		}, "库存流水记录失败，但库存已更新")
	}

	utils.LogInfo(map[string]interface{}{
		"productId": updated.ID,
		"type":      opType,
		"requested": op.Quantity,
		"actual":    actual,
		"stock":     updated.Stock,
		"operator":  user.Username,
	}, "库存操作完成")

	utils.SuccessResponse(c, service.Enrich(*updated), "库存操作成功")
}

// Categories 获取去重后的商品分类列表
func (ctrl *ProductController) Categories(c *gin.Context) {
	products, err := ctrl.store.Products().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, service.Categories(products), "")
}

// Export 导出商品数据为CSV
func (ctrl *ProductController) Export(c *gin.Context) {
	products, err := ctrl.store.Products().List(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	filtered := service.Filter(products, parseProductFilter(c))
	enriched := service.EnrichAll(service.Sort(filtered, "name", service.SortAsc))

	filename := fmt.Sprintf("products_%s.csv", time.Now().Format("20060102_150405"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", "attachment; filename="+filename)

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{
		"id", "name", "category", "sku", "barcode", "price", "cost",
		"stock", "minStock", "maxStock", "stockStatus", "totalValue", "location", "brand",
	})
	for _, p := range enriched {
		writer.Write([]string{
			strconv.FormatInt(p.ID, 10),
			p.Name,
			p.Category,
			p.SKU,
			p.Barcode,
			strconv.FormatFloat(p.Price, 'f', 2, 64),
			strconv.FormatFloat(p.Cost, 'f', 2, 64),
			strconv.Itoa(p.Stock),
			strconv.Itoa(p.MinStock),
			strconv.Itoa(p.MaxStock),
			string(p.StockStatus),
			strconv.FormatFloat(p.TotalValue, 'f', 2, 64),
			p.Location,
			p.Brand,
		})
	}
}
