package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
)

// memoryStore 内存存储，同时作为JSON文件存储的基础实现。
// 所有变更在同一把写锁内完成，ID由计数器分配，避免并发下max+1的竞态。
type memoryStore struct {
	mu     sync.RWMutex
	policy DeletePolicy

	products  map[int64]models.Product
	users     map[int64]models.User
	movements []models.StockMovement

	nextProductID  int64
	nextUserID     int64
	nextMovementID int64

	// persist 由文件驱动设置，在持有写锁时把全量数据写盘
	persist func() error
}

// NewMemoryStore 创建内存存储
func NewMemoryStore(policy DeletePolicy) Store {
	return newMemoryStore(policy)
}

func newMemoryStore(policy DeletePolicy) *memoryStore {
	return &memoryStore{
		policy:         policy,
		products:       make(map[int64]models.Product),
		users:          make(map[int64]models.User),
		nextProductID:  1,
		nextUserID:     1,
		nextMovementID: 1,
	}
}

func (s *memoryStore) Products() ProductStore   { return &memoryProducts{s} }
func (s *memoryStore) Users() UserStore         { return &memoryUsers{s} }
func (s *memoryStore) Movements() MovementStore { return &memoryMovements{s} }

func (s *memoryStore) Close(ctx context.Context) error { return nil }

// commit 执行持久化钩子，失败时回滚本次变更并报告存储不可用
func (s *memoryStore) commit(rollback func()) error {
	if s.persist == nil {
		return nil
	}
	if err := s.persist(); err != nil {
		if rollback != nil {
			rollback()
		}
		return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}
	return nil
}

// skuExists 检查SKU是否已被其他记录占用，软删除的记录同样占用SKU
func (s *memoryStore) skuExists(sku string, excludeID int64) bool {
	for id, p := range s.products {
		if id != excludeID && p.SKU == sku {
			return true
		}
	}
	return false
}

type memoryProducts struct {
	s *memoryStore
}

func (m *memoryProducts) List(ctx context.Context) ([]models.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	products := make([]models.Product, 0, len(m.s.products))
	for _, p := range m.s.products {
		if !p.IsActive {
			continue
		}
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID < products[j].ID })
	return products, nil
}

func (m *memoryProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	p, ok := m.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	return &p, nil
}

func (m *memoryProducts) Create(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if m.s.skuExists(p.SKU, 0) {
		return nil, fmt.Errorf("%w: SKU %s 已存在", models.ErrDuplicateKey, p.SKU)
	}

	now := time.Now()
	p.ID = m.s.nextProductID
	m.s.nextProductID++
	p.IsActive = true
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Stock > 0 {
		p.LastRestocked = now
	}
	m.s.products[p.ID] = p

	if err := m.s.commit(func() { delete(m.s.products, p.ID) }); err != nil {
		return nil, err
	}
	return &p, nil
}

func (m *memoryProducts) Update(ctx context.Context, id int64, patch models.ProductUpdateRequest) (*models.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}

	updated, err := applyProductPatch(old, patch)
	if err != nil {
		return nil, err
	}
	if updated.SKU != old.SKU && m.s.skuExists(updated.SKU, id) {
		return nil, fmt.Errorf("%w: SKU %s 已存在", models.ErrDuplicateKey, updated.SKU)
	}

	m.s.products[id] = updated
	if err := m.s.commit(func() { m.s.products[id] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *memoryProducts) Delete(ctx context.Context, id int64) (*models.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.products[id]
	if !ok || !old.IsActive {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}

	if m.s.policy == DeleteHard {
		delete(m.s.products, id)
		if err := m.s.commit(func() { m.s.products[id] = old }); err != nil {
			return nil, err
		}
		return &old, nil
	}

	removed := old
	removed.IsActive = false
	removed.UpdatedAt = time.Now()
	m.s.products[id] = removed

	if err := m.s.commit(func() { m.s.products[id] = old }); err != nil {
		return nil, err
	}
	return &removed, nil
}

func (m *memoryProducts) AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}

	updated := old
	updated.Stock = clampStock(old.Stock + delta)
	updated.UpdatedAt = time.Now()
	if delta > 0 {
		updated.LastRestocked = updated.UpdatedAt
	}
	m.s.products[id] = updated

	if err := m.s.commit(func() { m.s.products[id] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *memoryProducts) SetStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: 库存不能为负", models.ErrValidation)
	}

	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}

	updated := old
	updated.Stock = quantity
	updated.UpdatedAt = time.Now()
	if quantity > old.Stock {
		updated.LastRestocked = updated.UpdatedAt
	}
	m.s.products[id] = updated

	if err := m.s.commit(func() { m.s.products[id] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

type memoryUsers struct {
	s *memoryStore
}

func (m *memoryUsers) List(ctx context.Context) ([]models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	users := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m *memoryUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}
	return &u, nil
}

// GetByUsername 按用户名查询，未找到返回nil而不是错误，便于存在性检查
func (m *memoryUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	for _, u := range m.s.users {
		if u.Username == username {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (m *memoryUsers) Create(ctx context.Context, u models.User) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, existing := range m.s.users {
		if existing.Username == u.Username {
			return nil, fmt.Errorf("%w: 用户名 %s 已存在", models.ErrDuplicateKey, u.Username)
		}
	}

	now := time.Now()
	u.ID = m.s.nextUserID
	m.s.nextUserID++
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
		u.UpdatedAt = now
	}
	m.s.users[u.ID] = u

	if err := m.s.commit(func() { delete(m.s.users, u.ID) }); err != nil {
		return nil, err
	}
	return &u, nil
}

func (m *memoryUsers) Update(ctx context.Context, id int64, patch models.UpdateUserRequest) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}

	updated := applyUserPatch(old, patch)
	if updated.Username != old.Username {
		for uid, existing := range m.s.users {
			if uid != id && existing.Username == updated.Username {
				return nil, fmt.Errorf("%w: 用户名 %s 已存在", models.ErrDuplicateKey, updated.Username)
			}
		}
	}

	m.s.users[id] = updated
	if err := m.s.commit(func() { m.s.users[id] = old }); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (m *memoryUsers) Delete(ctx context.Context, id int64) (*models.User, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	old, ok := m.s.users[id]
	if !ok {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}

	delete(m.s.users, id)
	if err := m.s.commit(func() { m.s.users[id] = old }); err != nil {
		return nil, err
	}
	return &old, nil
}

type memoryMovements struct {
	s *memoryStore
}

func (m *memoryMovements) Insert(ctx context.Context, movement models.StockMovement) (*models.StockMovement, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	movement.ID = m.s.nextMovementID
	m.s.nextMovementID++
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}
	m.s.movements = append(m.s.movements, movement)

	if err := m.s.commit(func() { m.s.movements = m.s.movements[:len(m.s.movements)-1] }); err != nil {
		return nil, err
	}
	return &movement, nil
}

func (m *memoryMovements) List(ctx context.Context, f models.MovementFilter) ([]models.StockMovement, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	movements := make([]models.StockMovement, 0, len(m.s.movements))
	for _, movement := range m.s.movements {
		if f.ProductID != 0 && movement.ProductID != f.ProductID {
			continue
		}
		if f.Type != "" && f.Type != "all" && movement.Type != f.Type {
			continue
		}
		if !f.Since.IsZero() && movement.CreatedAt.Before(f.Since) {
			continue
		}
		movements = append(movements, movement)
	}

	// 时间倒序，最新在前
	sort.SliceStable(movements, func(i, j int) bool {
		return movements[i].CreatedAt.After(movements[j].CreatedAt)
	})
	return movements, nil
}
