package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

func testProduct(sku string) models.Product {
	return models.Product{
		Name:     "测试商品 " + sku,
		Category: "Electronics",
		Price:    100,
		Cost:     60,
		Stock:    10,
		MinStock: 5,
		MaxStock: 50,
		SKU:      sku,
	}
}

func TestMemoryProductCRUD(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	created, err := store.Products().Create(ctx, testProduct("SKU-001"))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID != 1 {
		t.Errorf("首个商品ID = %d, 期望 1", created.ID)
	}
	if !created.IsActive {
		t.Error("新建商品应为活跃状态")
	}
	if created.LastRestocked.IsZero() {
		t.Error("带初始库存的商品应记录LastRestocked")
	}

	got, err := store.Products().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SKU != "SKU-001" {
		t.Errorf("SKU = %s", got.SKU)
	}

	newName := "改名后的商品"
	updated, err := store.Products().Update(ctx, created.ID, models.ProductUpdateRequest{Name: &newName})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Name != newName {
		t.Errorf("Name = %s", updated.Name)
	}
	if updated.Stock != created.Stock {
		t.Error("Update不应改动库存")
	}

	if _, err := store.Products().Get(ctx, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("不存在的ID应返回ErrNotFound, got %v", err)
	}
}

func TestMemoryProductIDAllocation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteHard)

	first, _ := store.Products().Create(ctx, testProduct("SKU-A"))
	second, _ := store.Products().Create(ctx, testProduct("SKU-B"))
	if second.ID != first.ID+1 {
		t.Fatalf("ID应递增: %d -> %d", first.ID, second.ID)
	}

	// 删除后的ID不复用
	if _, err := store.Products().Delete(ctx, second.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	third, _ := store.Products().Create(ctx, testProduct("SKU-C"))
	if third.ID != second.ID+1 {
		t.Errorf("删除后ID不应复用: got %d", third.ID)
	}
}

func TestMemoryDuplicateSKU(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	if _, err := store.Products().Create(ctx, testProduct("SKU-DUP")); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := store.Products().Create(ctx, testProduct("SKU-DUP")); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("重复SKU应返回ErrDuplicateKey, got %v", err)
	}

	// 改SKU撞上已有记录
	other, _ := store.Products().Create(ctx, testProduct("SKU-OTHER"))
	dup := "SKU-DUP"
	if _, err := store.Products().Update(ctx, other.ID, models.ProductUpdateRequest{SKU: &dup}); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("更新到重复SKU应返回ErrDuplicateKey, got %v", err)
	}
}

func TestMemorySoftDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	created, _ := store.Products().Create(ctx, testProduct("SKU-DEL"))
	removed, err := store.Products().Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if removed.IsActive {
		t.Error("软删除后IsActive应为false")
	}

	// List不含软删除记录，Get仍可查到
	products, _ := store.Products().List(ctx)
	if len(products) != 0 {
		t.Errorf("List不应包含软删除记录, got %d", len(products))
	}
	got, err := store.Products().Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("软删除的记录应仍可Get: %v", err)
	}
	if got.IsActive {
		t.Error("Get到的软删除记录应标记非活跃")
	}

	// 重复删除视为不存在
	if _, err := store.Products().Delete(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("重复删除应返回ErrNotFound, got %v", err)
	}

	// 软删除的记录仍占用SKU
	if _, err := store.Products().Create(ctx, testProduct("SKU-DEL")); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("软删除记录的SKU仍应占用, got %v", err)
	}
}

func TestMemoryHardDelete(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteHard)

	created, _ := store.Products().Create(ctx, testProduct("SKU-HARD"))
	if _, err := store.Products().Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Products().Get(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("硬删除后Get应返回ErrNotFound, got %v", err)
	}

	// SKU释放，可重新创建
	if _, err := store.Products().Create(ctx, testProduct("SKU-HARD")); err != nil {
		t.Errorf("硬删除后SKU应可复用: %v", err)
	}
}

func TestMemoryAdjustStock(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	created, _ := store.Products().Create(ctx, testProduct("SKU-STOCK"))

	updated, err := store.Products().AdjustStock(ctx, created.ID, 15)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if updated.Stock != 25 {
		t.Errorf("Stock = %d, 期望 25", updated.Stock)
	}

	// 减库存在0处截断
	updated, err = store.Products().AdjustStock(ctx, created.ID, -100)
	if err != nil {
		t.Fatalf("AdjustStock: %v", err)
	}
	if updated.Stock != 0 {
		t.Errorf("截断后Stock = %d, 期望 0", updated.Stock)
	}

	// SetStock直接设置
	updated, err = store.Products().SetStock(ctx, created.ID, 40)
	if err != nil {
		t.Fatalf("SetStock: %v", err)
	}
	if updated.Stock != 40 {
		t.Errorf("Stock = %d, 期望 40", updated.Stock)
	}
	if _, err := store.Products().SetStock(ctx, created.ID, -1); !errors.Is(err, models.ErrValidation) {
		t.Errorf("负库存应返回ErrValidation, got %v", err)
	}
}

func TestMemoryValidation(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	bad := testProduct("SKU-BAD")
	bad.MinStock = 50
	bad.MaxStock = 10
	if _, err := store.Products().Create(ctx, bad); !errors.Is(err, models.ErrValidation) {
		t.Errorf("min >= max 应返回ErrValidation, got %v", err)
	}

	noName := testProduct("SKU-NONAME")
	noName.Name = ""
	if _, err := store.Products().Create(ctx, noName); !errors.Is(err, models.ErrValidation) {
		t.Errorf("空名称应返回ErrValidation, got %v", err)
	}

	// Update不允许改ID
	created, _ := store.Products().Create(ctx, testProduct("SKU-ID"))
	newID := int64(999)
	if _, err := store.Products().Update(ctx, created.ID, models.ProductUpdateRequest{ID: &newID}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("修改ID应返回ErrValidation, got %v", err)
	}
}

func TestMemoryUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	created, err := store.Users().Create(ctx, models.User{
		Username: "alice",
		Password: "hashed",
		Role:     models.UserRoleSTAFF,
		IsActive: true,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Users().Create(ctx, models.User{Username: "alice"}); !errors.Is(err, models.ErrDuplicateKey) {
		t.Errorf("重复用户名应返回ErrDuplicateKey, got %v", err)
	}

	found, err := store.Users().GetByUsername(ctx, "alice")
	if err != nil || found == nil || found.ID != created.ID {
		t.Fatalf("GetByUsername: %v %v", found, err)
	}

	// 未找到返回nil而不是错误
	missing, err := store.Users().GetByUsername(ctx, "nobody")
	if err != nil || missing != nil {
		t.Errorf("不存在的用户名应返回(nil, nil), got %v %v", missing, err)
	}

	role := models.UserRoleADMIN
	updated, err := store.Users().Update(ctx, created.ID, models.UpdateUserRequest{Role: &role})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Role != models.UserRoleADMIN {
		t.Errorf("Role = %v", updated.Role)
	}

	if _, err := store.Users().Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := store.Users().Get(ctx, created.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("删除后Get应返回ErrNotFound, got %v", err)
	}
}

func TestMemoryMovements(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	base := time.Now().Add(-time.Hour)
	for i, m := range []models.StockMovement{
		{ProductID: 1, Type: "in", Quantity: 10},
		{ProductID: 1, Type: "out", Quantity: 3},
		{ProductID: 2, Type: "in", Quantity: 5},
	} {
		m.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if _, err := store.Movements().Insert(ctx, m); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}

	all, err := store.Movements().List(ctx, models.MovementFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("len = %d, 期望 3", len(all))
	}
	// 时间倒序
	if all[0].ProductID != 2 {
		t.Errorf("最新记录应在前, got %+v", all[0])
	}

	byProduct, _ := store.Movements().List(ctx, models.MovementFilter{ProductID: 1})
	if len(byProduct) != 2 {
		t.Errorf("按商品筛选 len = %d, 期望 2", len(byProduct))
	}

	byType, _ := store.Movements().List(ctx, models.MovementFilter{Type: "out"})
	if len(byType) != 1 || byType[0].Quantity != 3 {
		t.Errorf("按类型筛选结果 = %v", byType)
	}

	since, _ := store.Movements().List(ctx, models.MovementFilter{Since: base.Add(90 * time.Second)})
	if len(since) != 1 {
		t.Errorf("按时间筛选 len = %d, 期望 1", len(since))
	}
}

func TestEnsureAdminAccount(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(DeleteSoft)

	if err := EnsureAdminAccount(ctx, store); err != nil {
		t.Fatalf("EnsureAdminAccount: %v", err)
	}
	admin, err := store.Users().GetByUsername(ctx, "admin")
	if err != nil || admin == nil {
		t.Fatalf("应创建admin账户: %v %v", admin, err)
	}
	if admin.Role != models.UserRoleADMIN {
		t.Errorf("Role = %v", admin.Role)
	}

	// 幂等，不重复创建
	if err := EnsureAdminAccount(ctx, store); err != nil {
		t.Fatalf("重复调用应幂等: %v", err)
	}
	users, _ := store.Users().List(ctx)
	if len(users) != 1 {
		t.Errorf("用户数 = %d, 期望 1", len(users))
	}
}
