package service

import (
	"math"
	"sort"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

// topCategoriesLimit 分类排行的条目上限
const topCategoriesLimit = 5

// Aggregate 计算商品集合的汇总统计。空集合返回全零而不是NaN。
func Aggregate(products []models.Product) models.InventoryStats {
	stats := models.InventoryStats{
		TotalProducts: len(products),
		TopCategories: []models.CategoryCount{},
	}

	categoryCounts := make(map[string]int)
	priceSum := 0.0

	for _, p := range products {
		stats.TotalStock += p.Stock
		stats.TotalValue += float64(p.Stock) * p.Cost
		priceSum += p.Price

		if p.Stock <= p.MinStock {
			stats.LowStockCount++
		}
		if p.Stock == 0 {
			stats.OutOfStockCount++
		}
		if p.Category != "" {
			categoryCounts[p.Category]++
		}
	}

	stats.CategoriesCount = len(categoryCounts)

	// 除零保护
	if len(products) > 0 {
		stats.AveragePrice = math.Round(priceSum/float64(len(products))*100) / 100
	}

	for category, count := range categoryCounts {
		stats.TopCategories = append(stats.TopCategories, models.CategoryCount{
			Category: category,
			Count:    count,
		})
	}

	// 按数量倒序，数量相同时按分类名排序保证结果确定
	sort.Slice(stats.TopCategories, func(i, j int) bool {
		if stats.TopCategories[i].Count != stats.TopCategories[j].Count {
			return stats.TopCategories[i].Count > stats.TopCategories[j].Count
		}
		return stats.TopCategories[i].Category < stats.TopCategories[j].Category
	})
	if len(stats.TopCategories) > topCategoriesLimit {
		stats.TopCategories = stats.TopCategories[:topCategoriesLimit]
	}

	return stats
}

// SummarizeMovements 汇总库存变动记录的出入库总量
func SummarizeMovements(movements []models.StockMovement) models.RecentChanges {
	var changes models.RecentChanges
	for _, m := range movements {
		switch m.Type {
		case "in":
			changes.In += m.Quantity
		case "out":
			changes.Out += m.Quantity
		}
	}
	changes.Net = changes.In - changes.Out
	return changes
}

// Categories 返回集合中出现过的去重分类列表，字典序
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	categories := []string{}
	for _, p := range products {
		if p.Category != "" && !seen[p.Category] {
			seen[p.Category] = true
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories
}
