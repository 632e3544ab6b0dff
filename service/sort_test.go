package service

import (
	"testing"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

func TestSortByName(t *testing.T) {
	products := []models.Product{
		{ID: 1, Name: "banana"},
		{ID: 2, Name: "Apple"},
		{ID: 3, Name: "cherry"},
	}

	got := Sort(products, "name", SortAsc)
	if got[0].ID != 2 || got[1].ID != 1 || got[2].ID != 3 {
		t.Errorf("名称排序应忽略大小写, got %v %v %v", got[0].Name, got[1].Name, got[2].Name)
	}

	// 原切片不被修改
	if products[0].ID != 1 {
		t.Error("Sort不应修改入参切片")
	}
}

func TestSortByPriceDesc(t *testing.T) {
	products := []models.Product{
		{ID: 1, Price: 10},
		{ID: 2, Price: 30},
		{ID: 3, Price: 20},
	}

	got := Sort(products, "price", SortDesc)
	if got[0].ID != 2 || got[1].ID != 3 || got[2].ID != 1 {
		t.Errorf("价格倒序结果错误: %v", got)
	}
}

func TestSortDefaultOrder(t *testing.T) {
	now := time.Now()
	products := []models.Product{
		{ID: 1, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 2, CreatedAt: now},
		{ID: 3, CreatedAt: now.Add(-1 * time.Hour)},
	}

	// createdAt缺省方向为最新在前
	got := Sort(products, "createdAt", "")
	if got[0].ID != 2 || got[2].ID != 1 {
		t.Errorf("createdAt默认应倒序: %d %d %d", got[0].ID, got[1].ID, got[2].ID)
	}

	// 其余键缺省升序
	priced := []models.Product{{ID: 1, Price: 20}, {ID: 2, Price: 10}}
	got = Sort(priced, "price", "")
	if got[0].ID != 2 {
		t.Errorf("price默认应升序: %v", got)
	}
}

func TestSortUnknownKey(t *testing.T) {
	products := []models.Product{{ID: 3}, {ID: 1}, {ID: 2}}
	got := Sort(products, "nonsense", SortAsc)
	for i := range products {
		if got[i].ID != products[i].ID {
			t.Errorf("未知排序键应保持原顺序, got %v", got)
		}
	}
}

func TestSortStable(t *testing.T) {
	products := []models.Product{
		{ID: 1, Category: "A", Price: 10},
		{ID: 2, Category: "B", Price: 10},
		{ID: 3, Category: "C", Price: 10},
	}

	// 键值全部相等时保持原相对顺序
	got := Sort(products, "price", SortAsc)
	if got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("相等键值应保持稳定顺序: %d %d %d", got[0].ID, got[1].ID, got[2].ID)
	}
}
