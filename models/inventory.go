package models

import "time"

// StockMovement 库存变动记录
type StockMovement struct {
	ID          int64     `json:"id" db:"id" bson:"id"`
	ProductID   int64     `json:"productId" db:"product_id" bson:"productId"`
	ProductName string    `json:"productName" db:"product_name" bson:"productName"`
	SKU         string    `json:"sku" db:"sku" bson:"sku"`
	Type        string    `json:"type" db:"type" bson:"type"` // in / out / adjust
	Quantity    int       `json:"quantity" db:"quantity" bson:"quantity"`
	Remark      string    `json:"remark,omitempty" db:"remark" bson:"remark,omitempty"`
	Operator    string    `json:"operator" db:"operator" bson:"operator"`
	OperationID string    `json:"operationId,omitempty" db:"operation_id" bson:"operationId,omitempty"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
}

// MovementFilter 库存变动记录筛选条件
type MovementFilter struct {
	ProductID int64
	Type      string    // in / out / adjust，空或all表示不过滤
	Since     time.Time // 零值表示不限制起始时间
}

// CategoryCount 分类及其商品数量
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// InventoryStats 库存统计信息
type InventoryStats struct {
	TotalProducts   int             `json:"totalProducts"`
	TotalStock      int             `json:"totalStock"`
	TotalValue      float64         `json:"totalValue"`
	LowStockCount   int             `json:"lowStockCount"`
	OutOfStockCount int             `json:"outOfStockCount"`
	CategoriesCount int             `json:"categoriesCount"`
	AveragePrice    float64         `json:"averagePrice"`
	TopCategories   []CategoryCount `json:"topCategories"`
}

// RecentChanges 最近库存变动汇总
type RecentChanges struct {
	In  int `json:"in"`
	Out int `json:"out"`
	Net int `json:"net"`
}

// Pagination 分页信息，基于筛选后的总数计算
type Pagination struct {
	Total       int  `json:"total"`
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	HasMore     bool `json:"hasMore"`
	HasPrevious bool `json:"hasPrevious"`
}
