package service

import (
	"strings"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

// CategoryAll 分类筛选的哨兵值，等同于不过滤
const CategoryAll = "All"

// Filter 按筛选条件过滤商品集合。所有条件取交集，缺省的条件不生效。
// 廉价的条件（分类、状态、价格区间）先判定，子串搜索放在最后短路。
func Filter(products []models.Product, f models.ProductFilter) []models.Product {
	if isEmptyFilter(f) {
		return products
	}

	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if !matchCategory(p, f.Category) {
			continue
		}
		if !matchStatus(p, f.Status) {
			continue
		}
		if !matchPriceRange(p, f.MinPrice, f.MaxPrice) {
			continue
		}
		if !matchSearch(p, f.Search) {
			continue
		}
		filtered = append(filtered, p)
	}
	return filtered
}

func isEmptyFilter(f models.ProductFilter) bool {
	return (f.Category == "" || f.Category == CategoryAll) &&
		f.Search == "" && f.Status == "" &&
		f.MinPrice == nil && f.MaxPrice == nil
}

// matchCategory 分类精确匹配，忽略大小写，"All"视为不过滤
func matchCategory(p models.Product, category string) bool {
	if category == "" || category == CategoryAll {
		return true
	}
	return strings.EqualFold(p.Category, category)
}

// matchStatus 按派生库存状态匹配
func matchStatus(p models.Product, status string) bool {
	if status == "" || status == "all" {
		return true
	}
	return string(StockStatusOf(p)) == status
}

func matchPriceRange(p models.Product, minPrice, maxPrice *float64) bool {
	if minPrice != nil && p.Price < *minPrice {
		return false
	}
	if maxPrice != nil && p.Price > *maxPrice {
		return false
	}
	return true
}

// matchSearch 在名称/SKU/描述上做忽略大小写的子串匹配，条码按原文匹配
func matchSearch(p models.Product, search string) bool {
	if search == "" {
		return true
	}
	term := strings.ToLower(search)
	if strings.Contains(strings.ToLower(p.Name), term) ||
		strings.Contains(strings.ToLower(p.SKU), term) ||
		strings.Contains(strings.ToLower(p.Description), term) {
		return true
	}
	return strings.Contains(p.Barcode, search)
}
