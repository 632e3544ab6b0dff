package controllers

import (
	"net/http"
	"sort"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/repository"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/service"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"

	"github.com/gin-gonic/gin"
)

// 看板上最近变动和低库存展示的条目数
const (
	dashboardRecentMovements = 10
	dashboardLowStockLimit   = 10
)

// DashboardController 数据看板路由处理器
type DashboardController struct {
	store repository.Store
}

// NewDashboardController 创建看板控制器
func NewDashboardController(store repository.Store) *DashboardController {
	return &DashboardController{store: store}
}

// Overview 组装数据看板的全部统计数据
func (ctrl *DashboardController) Overview(c *gin.Context) {
	ctx := c.Request.Context()

	products, err := ctrl.store.Products().List(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	users, err := ctrl.store.Users().List(ctx)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	movements, err := ctrl.store.Movements().List(ctx, models.MovementFilter{
		Since: time.Now().AddDate(0, 0, -30),
	})
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	stats := service.Aggregate(products)
	enriched := service.EnrichAll(products)

	resp := models.DashboardResponse{
		ProductCount: stats.TotalProducts,
		UserCount:    len(users),
		TotalStock:   stats.TotalStock,
		TotalValue:   stats.TotalValue,
		AveragePrice: stats.AveragePrice,

		CategoryDistribution:   categoryDistribution(stats.TopCategories),
		StockLevelDistribution: stockLevelDistribution(enriched),
		TopCategories:          stats.TopCategories,

		LowStockProducts: lowStockProducts(enriched),
		RecentMovements:  movements,
		RecentChanges:    service.SummarizeMovements(movements),
	}
	if len(resp.RecentMovements) > dashboardRecentMovements {
		resp.RecentMovements = resp.RecentMovements[:dashboardRecentMovements]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    resp,
	})
}

func categoryDistribution(categories []models.CategoryCount) []models.ChartDataItem {
	items := make([]models.ChartDataItem, 0, len(categories))
	for _, cc := range categories {
		items = append(items, models.ChartDataItem{Name: cc.Category, Value: cc.Count})
	}
	return items
}

func stockLevelDistribution(products []models.EnrichedProduct) []models.ChartDataItem {
	counts := map[models.StockStatus]int{}
	for _, p := range products {
		counts[p.StockStatus]++
	}
	return []models.ChartDataItem{
		{Name: string(models.StockStatusLow), Value: counts[models.StockStatusLow]},
		{Name: string(models.StockStatusNormal), Value: counts[models.StockStatusNormal]},
		{Name: string(models.StockStatusFull), Value: counts[models.StockStatusFull]},
	}
}

// lowStockProducts 按库存紧张程度排序的低库存商品
func lowStockProducts(products []models.EnrichedProduct) []models.EnrichedProduct {
	low := []models.EnrichedProduct{}
	for _, p := range products {
		if p.StockStatus == models.StockStatusLow {
			low = append(low, p)
		}
	}
	sort.Slice(low, func(i, j int) bool {
		return low[i].Stock < low[j].Stock
	})
	if len(low) > dashboardLowStockLimit {
		low = low[:dashboardLowStockLimit]
	}
	return low
}
