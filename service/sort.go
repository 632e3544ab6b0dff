package service

import (
	"sort"
	"strings"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

// 排序方向
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Sort 按给定键和方向排序商品集合，稳定排序，键值相等保持原始相对顺序。
// 未知键不报错，直接返回原顺序。方向缺省时时间类键按最新在前，其余升序。
func Sort(products []models.Product, key, order string) []models.Product {
	less := comparatorFor(key)
	if less == nil {
		return products
	}

	if order == "" {
		order = defaultOrderFor(key)
	}

	sorted := make([]models.Product, len(products))
	copy(sorted, products)

	if order == SortDesc {
		inner := less
		less = func(a, b models.Product) bool { return inner(b, a) }
	}

	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}

// defaultOrderFor 各排序键的默认方向，全部路由统一
func defaultOrderFor(key string) string {
	switch key {
	case "createdAt", "created_at", "lastRestocked":
		return SortDesc
	default:
		return SortAsc
	}
}

func comparatorFor(key string) func(a, b models.Product) bool {
	switch key {
	case "name":
		return func(a, b models.Product) bool {
			return strings.ToLower(a.Name) < strings.ToLower(b.Name)
		}
	case "category":
		return func(a, b models.Product) bool {
			return strings.ToLower(a.Category) < strings.ToLower(b.Category)
		}
	case "sku":
		return func(a, b models.Product) bool {
			return strings.ToLower(a.SKU) < strings.ToLower(b.SKU)
		}
	case "price":
		return func(a, b models.Product) bool { return a.Price < b.Price }
	case "cost":
		return func(a, b models.Product) bool { return a.Cost < b.Cost }
	case "stock":
		return func(a, b models.Product) bool { return a.Stock < b.Stock }
	case "createdAt", "created_at":
		return func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
	case "lastRestocked":
		return func(a, b models.Product) bool { return a.LastRestocked.Before(b.LastRestocked) }
	default:
		return nil
	}
}
