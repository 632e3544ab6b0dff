package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/models"
	"github.com/DEterMinat/INTERNET-PROGRAMMING-TANAKIT-sub000/utils"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS products (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	name           TEXT NOT NULL,
	category       TEXT NOT NULL DEFAULT '',
	price          REAL NOT NULL DEFAULT 0,
	cost           REAL NOT NULL DEFAULT 0,
	stock          INTEGER NOT NULL DEFAULT 0,
	min_stock      INTEGER NOT NULL DEFAULT 0,
	max_stock      INTEGER NOT NULL DEFAULT 100,
	sku            TEXT NOT NULL UNIQUE,
	barcode        TEXT NOT NULL DEFAULT '',
	description    TEXT NOT NULL DEFAULT '',
	image          TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	brand          TEXT NOT NULL DEFAULT '',
	is_active      INTEGER NOT NULL DEFAULT 1,
	created_at     TIMESTAMP NOT NULL,
	updated_at     TIMESTAMP NOT NULL,
	last_restocked TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS users (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	username   TEXT NOT NULL UNIQUE,
	password   TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL DEFAULT 'VIEWER',
	is_active  INTEGER NOT NULL DEFAULT 1,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS stock_movements (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id   INTEGER NOT NULL,
	product_name TEXT NOT NULL DEFAULT '',
	sku          TEXT NOT NULL DEFAULT '',
	type         TEXT NOT NULL,
	quantity     INTEGER NOT NULL,
	remark       TEXT NOT NULL DEFAULT '',
	operator     TEXT NOT NULL DEFAULT '',
	operation_id TEXT NOT NULL DEFAULT '',
	created_at   TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_movements_product ON stock_movements(product_id);
CREATE INDEX IF NOT EXISTS idx_movements_created ON stock_movements(created_at);
`

const productColumns = `id, name, category, price, cost, stock, min_stock, max_stock,
	sku, barcode, description, image, location, brand, is_active,
	created_at, updated_at, last_restocked`

// sqliteStore 关系库存储，唯一约束和自增ID由数据库保证
type sqliteStore struct {
	db     *sqlx.DB
	policy DeletePolicy
}

// OpenSQLiteStore 打开SQLite存储并初始化表结构
func OpenSQLiteStore(path string, policy DeletePolicy) (Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("创建数据目录失败: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("打开SQLite失败: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("设置pragma失败 %q: %w", p, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("初始化表结构失败: %w", err)
	}

	utils.Logger.Info().Str("path", path).Msg("已连接到SQLite")
	return &sqliteStore{db: db, policy: policy}, nil
}

func (s *sqliteStore) Products() ProductStore   { return &sqliteProducts{s} }
func (s *sqliteStore) Users() UserStore         { return &sqliteUsers{s} }
func (s *sqliteStore) Movements() MovementStore { return &sqliteMovements{s} }

func (s *sqliteStore) Close(ctx context.Context) error {
	return s.db.Close()
}

// wrapSQLiteErr 把驱动错误翻译成存储层错误类别
func wrapSQLiteErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %v", models.ErrDuplicateKey, err)
	}
	return fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
}

type sqliteProducts struct {
	s *sqliteStore
}

func (p *sqliteProducts) List(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := p.s.db.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return products, nil
}

func (p *sqliteProducts) Get(ctx context.Context, id int64) (*models.Product, error) {
	var product models.Product
	err := p.s.db.GetContext(ctx, &product,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return &product, nil
}

func (p *sqliteProducts) Create(ctx context.Context, product models.Product) (*models.Product, error) {
	if err := validateProduct(product); err != nil {
		return nil, err
	}

	now := time.Now()
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.Stock > 0 {
		product.LastRestocked = now
	}

	result, err := p.s.db.NamedExecContext(ctx,
		`INSERT INTO products (name, category, price, cost, stock, min_stock, max_stock,
			sku, barcode, description, image, location, brand, is_active,
			created_at, updated_at, last_restocked)
		 VALUES (:name, :category, :price, :cost, :stock, :min_stock, :max_stock,
			:sku, :barcode, :description, :image, :location, :brand, :is_active,
			:created_at, :updated_at, :last_restocked)`,
		product)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return p.Get(ctx, id)
}

func (p *sqliteProducts) Update(ctx context.Context, id int64, patch models.ProductUpdateRequest) (*models.Product, error) {
	tx, err := p.s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	defer tx.Rollback()

	var old models.Product
	err = tx.GetContext(ctx, &old, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}

	updated, err := applyProductPatch(old, patch)
	if err != nil {
		return nil, err
	}
	updated.ID = old.ID
	updated.Stock = old.Stock // 库存只通过出入库操作修改

	_, err = tx.NamedExecContext(ctx,
		`UPDATE products SET name = :name, category = :category, price = :price, cost = :cost,
			min_stock = :min_stock, max_stock = :max_stock, sku = :sku, barcode = :barcode,
			description = :description, image = :image, location = :location, brand = :brand,
			updated_at = :updated_at
		 WHERE id = :id`,
		updated)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return &updated, nil
}

func (p *sqliteProducts) Delete(ctx context.Context, id int64) (*models.Product, error) {
	product, err := p.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}

	if p.s.policy == DeleteHard {
		if _, err := p.s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
			return nil, wrapSQLiteErr(err)
		}
		return product, nil
	}

	now := time.Now()
	_, err = p.s.db.ExecContext(ctx,
		`UPDATE products SET is_active = 0, updated_at = ? WHERE id = ?`, now, id)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	product.IsActive = false
	product.UpdatedAt = now
	return product, nil
}

func (p *sqliteProducts) AdjustStock(ctx context.Context, id int64, delta int) (*models.Product, error) {
	now := time.Now()
	result, err := p.s.db.ExecContext(ctx,
		`UPDATE products
		 SET stock = MAX(stock + ?, 0),
		     updated_at = ?,
		     last_restocked = CASE WHEN ? > 0 THEN ? ELSE last_restocked END
		 WHERE id = ?`,
		delta, now, delta, now, id)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	return p.Get(ctx, id)
}

func (p *sqliteProducts) SetStock(ctx context.Context, id int64, quantity int) (*models.Product, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: 库存不能为负", models.ErrValidation)
	}

	now := time.Now()
	result, err := p.s.db.ExecContext(ctx,
		`UPDATE products
		 SET stock = ?,
		     updated_at = ?,
		     last_restocked = CASE WHEN ? > stock THEN ? ELSE last_restocked END
		 WHERE id = ?`,
		quantity, now, quantity, now, id)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	if affected == 0 {
		return nil, fmt.Errorf("%w: 商品 %d", models.ErrNotFound, id)
	}
	return p.Get(ctx, id)
}

type sqliteUsers struct {
	s *sqliteStore
}

const userColumns = `id, username, password, email, role, is_active, created_at, updated_at`

func (u *sqliteUsers) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	err := u.s.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return users, nil
}

func (u *sqliteUsers) Get(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := u.s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: 用户 %d", models.ErrNotFound, id)
	}
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return &user, nil
}

func (u *sqliteUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := u.s.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return &user, nil
}

func (u *sqliteUsers) Create(ctx context.Context, user models.User) (*models.User, error) {
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
		user.UpdatedAt = now
	}

	result, err := u.s.db.NamedExecContext(ctx,
		`INSERT INTO users (username, password, email, role, is_active, created_at, updated_at)
		 VALUES (:username, :password, :email, :role, :is_active, :created_at, :updated_at)`,
		user)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return u.Get(ctx, id)
}

func (u *sqliteUsers) Update(ctx context.Context, id int64, patch models.UpdateUserRequest) (*models.User, error) {
	old, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	updated := applyUserPatch(*old, patch)
	_, err = u.s.db.NamedExecContext(ctx,
		`UPDATE users SET username = :username, password = :password, email = :email,
			role = :role, is_active = :is_active, updated_at = :updated_at
		 WHERE id = :id`,
		updated)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return &updated, nil
}

func (u *sqliteUsers) Delete(ctx context.Context, id int64) (*models.User, error) {
	user, err := u.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := u.s.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return user, nil
}

type sqliteMovements struct {
	s *sqliteStore
}

func (m *sqliteMovements) Insert(ctx context.Context, movement models.StockMovement) (*models.StockMovement, error) {
	if movement.CreatedAt.IsZero() {
		movement.CreatedAt = time.Now()
	}

	result, err := m.s.db.NamedExecContext(ctx,
		`INSERT INTO stock_movements (product_id, product_name, sku, type, quantity,
			remark, operator, operation_id, created_at)
		 VALUES (:product_id, :product_name, :sku, :type, :quantity,
			:remark, :operator, :operation_id, :created_at)`,
		movement)
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, wrapSQLiteErr(err)
	}
	movement.ID = id
	return &movement, nil
}

func (m *sqliteMovements) List(ctx context.Context, f models.MovementFilter) ([]models.StockMovement, error) {
	query := `SELECT id, product_id, product_name, sku, type, quantity, remark, operator,
		operation_id, created_at FROM stock_movements WHERE 1=1`
	args := []interface{}{}

	if f.ProductID != 0 {
		query += ` AND product_id = ?`
		args = append(args, f.ProductID)
	}
	if f.Type != "" && f.Type != "all" {
		query += ` AND type = ?`
		args = append(args, f.Type)
	}
	if !f.Since.IsZero() {
		query += ` AND created_at >= ?`
		args = append(args, f.Since)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	movements := []models.StockMovement{}
	if err := m.s.db.SelectContext(ctx, &movements, query, args...); err != nil {
		return nil, wrapSQLiteErr(err)
	}
	return movements, nil
}
