package service

import (
	"testing"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

func filterFixture() []models.Product {
	return []models.Product{
		{ID: 1, Name: "iPhone 15", Category: "Electronics", SKU: "ELEC-001", Barcode: "6901234567890", Description: "smartphone", Price: 999, Stock: 3, MinStock: 5, MaxStock: 50},
		{ID: 2, Name: "Office Chair", Category: "Furniture", SKU: "FURN-001", Description: "ergonomic chair", Price: 120, Stock: 20, MinStock: 5, MaxStock: 40},
		{ID: 3, Name: "USB Cable", Category: "Electronics", SKU: "ELEC-002", Price: 5, Stock: 200, MinStock: 10, MaxStock: 200},
	}
}

func TestFilterEmpty(t *testing.T) {
	products := filterFixture()
	got := Filter(products, models.ProductFilter{})
	if len(got) != len(products) {
		t.Errorf("空筛选条件应返回全部, got %d", len(got))
	}
}

func TestFilterCategory(t *testing.T) {
	products := filterFixture()

	got := Filter(products, models.ProductFilter{Category: "electronics"})
	if len(got) != 2 {
		t.Errorf("分类匹配应忽略大小写, got %d, 期望 2", len(got))
	}

	got = Filter(products, models.ProductFilter{Category: CategoryAll})
	if len(got) != 3 {
		t.Errorf("分类为All时不过滤, got %d, 期望 3", len(got))
	}
}

func TestFilterStatus(t *testing.T) {
	products := filterFixture()

	got := Filter(products, models.ProductFilter{Status: "low"})
	if len(got) != 1 || got[0].ID != 1 {
		t.Errorf("low状态筛选结果 = %v, 期望仅商品1", got)
	}

	got = Filter(products, models.ProductFilter{Status: "full"})
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("full状态筛选结果 = %v, 期望仅商品3", got)
	}
}

func TestFilterPriceRange(t *testing.T) {
	products := filterFixture()
	min, max := 100.0, 1000.0

	got := Filter(products, models.ProductFilter{MinPrice: &min, MaxPrice: &max})
	if len(got) != 2 {
		t.Errorf("价格区间[100,1000]命中 %d 条, 期望 2", len(got))
	}

	// 区间边界包含
	exact := 120.0
	got = Filter(products, models.ProductFilter{MinPrice: &exact, MaxPrice: &exact})
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("边界价格筛选结果 = %v, 期望仅商品2", got)
	}
}

func TestFilterSearch(t *testing.T) {
	products := filterFixture()

	tests := []struct {
		search string
		wantID int64
	}{
		{"iphone", 1},     // 名称，忽略大小写
		{"furn-001", 2},   // SKU，忽略大小写
		{"ergonomic", 2},  // 描述
		{"6901234567", 1}, // 条码按原文子串
	}

	for _, tt := range tests {
		got := Filter(products, models.ProductFilter{Search: tt.search})
		if len(got) != 1 || got[0].ID != tt.wantID {
			t.Errorf("搜索 %q 结果 = %v, 期望仅商品 %d", tt.search, got, tt.wantID)
		}
	}

	if got := Filter(products, models.ProductFilter{Search: "不存在的词"}); len(got) != 0 {
		t.Errorf("无匹配搜索应返回空, got %v", got)
	}
}

func TestFilterConjunction(t *testing.T) {
	products := filterFixture()

	// 分类命中2条，叠加搜索后只剩1条
	got := Filter(products, models.ProductFilter{Category: "Electronics", Search: "cable"})
	if len(got) != 1 || got[0].ID != 3 {
		t.Errorf("组合筛选结果 = %v, 期望仅商品3", got)
	}

	// 条件交集为空
	got = Filter(products, models.ProductFilter{Category: "Furniture", Status: "low"})
	if len(got) != 0 {
		t.Errorf("互斥条件组合应返回空, got %v", got)
	}
}

func TestProductFilterMerge(t *testing.T) {
	min := 10.0
	base := models.ProductFilter{Category: "Electronics"}
	extra := models.ProductFilter{Search: "cable", MinPrice: &min}

	merged := base.Merge(extra)
	if merged.Category != "Electronics" || merged.Search != "cable" || merged.MinPrice == nil {
		t.Errorf("Merge结果不完整: %+v", merged)
	}
}
