package service

import (
	"testing"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

func TestEnrich(t *testing.T) {
	p := models.Product{
		Price:    150,
		Cost:     100,
		Stock:    20,
		MinStock: 5,
		MaxStock: 100,
	}

	e := Enrich(p)

	if e.Profit != 50 {
		t.Errorf("Profit = %v, 期望 50", e.Profit)
	}
	if e.ProfitMargin != 33.33 {
		t.Errorf("ProfitMargin = %v, 期望 33.33", e.ProfitMargin)
	}
	if e.TotalValue != 2000 {
		t.Errorf("TotalValue = %v, 期望 2000", e.TotalValue)
	}
	if e.StockStatus != models.StockStatusNormal {
		t.Errorf("StockStatus = %v, 期望 normal", e.StockStatus)
	}
}

func TestEnrichZeroPrice(t *testing.T) {
	e := Enrich(models.Product{Price: 0, Cost: 10})
	if e.ProfitMargin != 0 {
		t.Errorf("价格为0时 ProfitMargin = %v, 期望 0", e.ProfitMargin)
	}
	if e.Profit != -10 {
		t.Errorf("Profit = %v, 期望 -10", e.Profit)
	}
}

func TestStockStatusOf(t *testing.T) {
	tests := []struct {
		name     string
		stock    int
		minStock int
		maxStock int
		want     models.StockStatus
	}{
		{"库存等于下限", 5, 5, 100, models.StockStatusLow},
		{"库存低于下限", 3, 5, 100, models.StockStatusLow},
		{"零库存", 0, 5, 100, models.StockStatusLow},
		{"库存刚超下限", 6, 5, 100, models.StockStatusNormal},
		{"库存刚到上限", 100, 5, 100, models.StockStatusFull},
		{"库存超过上限", 150, 5, 100, models.StockStatusFull},
		{"阈值配置异常时先判下限", 5, 10, 8, models.StockStatusLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := models.Product{Stock: tt.stock, MinStock: tt.minStock, MaxStock: tt.maxStock}
			if got := StockStatusOf(p); got != tt.want {
				t.Errorf("StockStatusOf(stock=%d, min=%d, max=%d) = %v, 期望 %v",
					tt.stock, tt.minStock, tt.maxStock, got, tt.want)
			}
		})
	}
}

func TestEnrichAllKeepsOrder(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "a"},
		{ID: 2, Name: "b"},
		{ID: 3, Name: "c"},
	}
	enriched := EnrichAll(products)
	if len(enriched) != 3 {
		t.Fatalf("len = %d, 期望 3", len(enriched))
	}
	for i, e := range enriched {
		if e.ID != products[i].ID {
			t.Errorf("位置 %d 的ID = %d, 期望 %d", i, e.ID, products[i].ID)
		}
	}
}
