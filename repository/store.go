package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/config"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"
)

// DeletePolicy 删除策略，对整个商品集合只决定一次
type DeletePolicy string

const (
	DeleteSoft DeletePolicy = "soft" // 翻转isActive标记，保留记录
	DeleteHard DeletePolicy = "hard" // 物理删除
)

// ParseDeletePolicy 解析删除策略配置，未知值回退到软删除
func ParseDeletePolicy(s string) DeletePolicy {
	if s == string(DeleteHard) {
		return DeleteHard
	}
	return DeleteSoft
}

// ProductStore 商品存储契约。
// List不返回软删除的记录；Get按ID查询，软删除的记录仍可查到。
// 所有变更操作要么完整生效要么完全不生效。
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Get(ctx context.Context, id int64) (*models.Product, error)
	Create(ctx context.Context, p models.Product) (*models.Product, error)
	Update(ctx context.Context, id int64, patch models.ProductUpdateRequest) (*models.Product, error)
	Delete(ctx context.Context, id int64) (*models.Product, error)
	// AdjustStock 原子调整库存，减库存时在0处截断，增库存时刷新lastRestocked
	AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error)
	// SetStock 直接设置库存数量
	SetStock(ctx context.Context, id int64, quantity int) (*models.Product, error)
}

// UserStore 用户存储契约
type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, u models.User) (*models.User, error)
	Update(ctx context.Context, id int64, patch models.UpdateUserRequest) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
}

// MovementStore 库存变动记录存储契约
type MovementStore interface {
	Insert(ctx context.Context, m models.StockMovement) (*models.StockMovement, error)
	// List 按筛选条件返回变动记录，时间倒序
	List(ctx context.Context, f models.MovementFilter) ([]models.StockMovement, error)
}

// Store 持久化后端的统一抽象，关系库/JSON文件/内存/文档库可互换
type Store interface {
	Products() ProductStore
	Users() UserStore
	Movements() MovementStore
	Close(ctx context.Context) error
}

// Open 按配置的驱动打开存储
func Open(cfg *config.Config) (Store, error) {
	policy := ParseDeletePolicy(cfg.DeletePolicy)

	switch cfg.StoreDriver {
	case "memory":
		return NewMemoryStore(policy), nil
	case "file":
		return OpenFileStore(cfg.DataFile, policy)
	case "sqlite":
		return OpenSQLiteStore(cfg.SQLitePath, policy)
	case "mongo":
		return OpenMongoStore(cfg.MongoURI, cfg.MongoDB, policy)
	default:
		return nil, fmt.Errorf("未知的存储驱动: %s", cfg.StoreDriver)
	}
}

// EnsureAdminAccount 初始化默认管理员账户，已存在则跳过
func EnsureAdminAccount(ctx context.Context, store Store) error {
	existing, err := store.Users().GetByUsername(ctx, "admin")
	if err != nil {
		return fmt.Errorf("检查管理员账户失败: %w", err)
	}
	if existing != nil {
		utils.Logger.Info().Msg("管理员账户已存在，跳过创建")
		return nil
	}

	password, err := utils.HashPassword("admin123")
	if err != nil {
		return err
	}

	now := time.Now()
	_, err = store.Users().Create(ctx, models.User{
		Username:  "admin",
		Password:  password,
		Role:      models.UserRoleADMIN,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return fmt.Errorf("创建管理员账户失败: %w", err)
	}

	utils.Logger.Info().Msg("已创建默认管理员账户")
	return nil
}

// validateProduct 校验商品记录的不变量
func validateProduct(p models.Product) error {
	if p.Name == "" {
		return fmt.Errorf("%w: 商品名称不能为空", models.ErrValidation)
	}
	if p.SKU == "" {
		return fmt.Errorf("%w: SKU不能为空", models.ErrValidation)
	}
	if p.Price < 0 || p.Cost < 0 {
		return fmt.Errorf("%w: 价格和成本不能为负", models.ErrValidation)
	}
	if p.Stock < 0 {
		return fmt.Errorf("%w: 库存不能为负", models.ErrValidation)
	}
	if p.MinStock < 0 || p.MinStock >= p.MaxStock {
		return fmt.Errorf("%w: 库存阈值无效，要求 0 <= minStock < maxStock", models.ErrValidation)
	}
	return nil
}

// applyProductPatch 把更新请求合并到现有记录上，不触碰ID和库存
func applyProductPatch(p models.Product, patch models.ProductUpdateRequest) (models.Product, error) {
	if patch.ID != nil {
		return p, fmt.Errorf("%w: 不允许修改商品ID", models.ErrValidation)
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.Cost != nil {
		p.Cost = *patch.Cost
	}
	if patch.MinStock != nil {
		p.MinStock = *patch.MinStock
	}
	if patch.MaxStock != nil {
		p.MaxStock = *patch.MaxStock
	}
	if patch.SKU != nil {
		p.SKU = *patch.SKU
	}
	if patch.Barcode != nil {
		p.Barcode = *patch.Barcode
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Image != nil {
		p.Image = *patch.Image
	}
	if patch.Location != nil {
		p.Location = *patch.Location
	}
	if patch.Brand != nil {
		p.Brand = *patch.Brand
	}
	p.UpdatedAt = time.Now()

	if err := validateProduct(p); err != nil {
		return p, err
	}
	return p, nil
}

// applyUserPatch 把用户更新请求合并到现有记录上
func applyUserPatch(u models.User, patch models.UpdateUserRequest) models.User {
	if patch.Username != nil {
		u.Username = *patch.Username
	}
	if patch.Password != nil {
		u.Password = *patch.Password
	}
	if patch.Email != nil {
		u.Email = *patch.Email
	}
	if patch.Role != nil {
		u.Role = *patch.Role
	}
	if patch.IsActive != nil {
		u.IsActive = *patch.IsActive
	}
	u.UpdatedAt = time.Now()
	return u
}

// clampStock 库存调整在0处截断，绝不产生负库存
func clampStock(stock int) int {
	if stock < 0 {
		return 0
	}
	return stock
}
