package service

import (
	"math"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

// Enrich 计算商品的派生展示字段，纯函数，不修改入参
func Enrich(p models.Product) models.EnrichedProduct {
	profit := p.Price - p.Cost

	// price为0时利润率定义为0，保证JSON序列化不出现NaN
	margin := 0.0
	if p.Price != 0 {
		margin = math.Round(profit/p.Price*100*100) / 100
	}

	return models.EnrichedProduct{
		Product:      p,
		Profit:       profit,
		ProfitMargin: margin,
		StockStatus:  StockStatusOf(p),
		TotalValue:   float64(p.Stock) * p.Cost,
	}
}

// EnrichAll 批量计算派生字段
func EnrichAll(products []models.Product) []models.EnrichedProduct {
	enriched := make([]models.EnrichedProduct, 0, len(products))
	for _, p := range products {
		enriched = append(enriched, Enrich(p))
	}
	return enriched
}

// StockStatusOf 根据库存阈值判定库存状态。
// 判定顺序固定：先比较下限再比较上限，minStock >= maxStock的异常配置下
// 只要stock <= minStock就判定为low。
func StockStatusOf(p models.Product) models.StockStatus {
	if p.Stock <= p.MinStock {
		return models.StockStatusLow
	}
	if p.Stock >= p.MaxStock {
		return models.StockStatusFull
	}
	return models.StockStatusNormal
}
