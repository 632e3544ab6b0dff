package models

import "time"

// StockStatus 库存状态枚举
type StockStatus string

const (
	StockStatusLow    StockStatus = "low"    // 低库存
	StockStatusNormal StockStatus = "normal" // 正常
	StockStatusFull   StockStatus = "full"   // 满库存
)

// Product 商品模型
type Product struct {
	ID            int64     `json:"id" db:"id" bson:"id"`
	Name          string    `json:"name" db:"name" bson:"name"`
	Category      string    `json:"category" db:"category" bson:"category"`
	Price         float64   `json:"price" db:"price" bson:"price"`
	Cost          float64   `json:"cost" db:"cost" bson:"cost"`
	Stock         int       `json:"stock" db:"stock" bson:"stock"`
	MinStock      int       `json:"minStock" db:"min_stock" bson:"minStock"`
	MaxStock      int       `json:"maxStock" db:"max_stock" bson:"maxStock"`
	SKU           string    `json:"sku" db:"sku" bson:"sku"`
	Barcode       string    `json:"barcode" db:"barcode" bson:"barcode"`
	Description   string    `json:"description" db:"description" bson:"description"`
	Image         string    `json:"image" db:"image" bson:"image"`
	Location      string    `json:"location" db:"location" bson:"location"`
	Brand         string    `json:"brand" db:"brand" bson:"brand"`
	IsActive      bool      `json:"isActive" db:"is_active" bson:"isActive"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at" bson:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at" bson:"updatedAt"`
	LastRestocked time.Time `json:"lastRestocked,omitempty" db:"last_restocked" bson:"lastRestocked,omitempty"`
}

// EnrichedProduct 商品及其派生展示字段，派生字段不落库，每次读取时重新计算
type EnrichedProduct struct {
	Product
	Profit       float64     `json:"profit"`
	ProfitMargin float64     `json:"profitMargin"`
	StockStatus  StockStatus `json:"stockStatus"`
	TotalValue   float64     `json:"totalValue"`
}

// ProductCreateRequest 创建商品请求
type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Cost        float64 `json:"cost" binding:"gte=0"`
	Stock       int     `json:"stock" binding:"gte=0"`
	MinStock    int     `json:"minStock" binding:"gte=0"`
	MaxStock    int     `json:"maxStock" binding:"gtfield=MinStock"`
	SKU         string  `json:"sku" binding:"required"`
	Barcode     string  `json:"barcode"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Location    string  `json:"location"`
	Brand       string  `json:"brand"`
}

// ProductUpdateRequest 更新商品请求，指针字段用于区分"未提供"和"零值"
type ProductUpdateRequest struct {
	ID          *int64   `json:"id"` // 不允许修改ID，提供即拒绝
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Cost        *float64 `json:"cost"`
	MinStock    *int     `json:"minStock"`
	MaxStock    *int     `json:"maxStock"`
	SKU         *string  `json:"sku"`
	Barcode     *string  `json:"barcode"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Location    *string  `json:"location"`
	Brand       *string  `json:"brand"`
}

// ProductFilter 商品筛选条件，所有条件可选，缺省即不过滤
type ProductFilter struct {
	Category string
	Search   string
	Status   string
	MinPrice *float64
	MaxPrice *float64
}

// Merge 合并两组筛选条件，后者已设置的字段覆盖前者
func (f ProductFilter) Merge(other ProductFilter) ProductFilter {
	merged := f
	if other.Category != "" {
		merged.Category = other.Category
	}
	if other.Search != "" {
		merged.Search = other.Search
	}
	if other.Status != "" {
		merged.Status = other.Status
	}
	if other.MinPrice != nil {
		merged.MinPrice = other.MinPrice
	}
	if other.MaxPrice != nil {
		merged.MaxPrice = other.MaxPrice
	}
	return merged
}

// StockOperation 入库/出库操作请求
type StockOperation struct {
	Quantity int    `json:"quantity" binding:"required,min=1"`
	Remark   string `json:"remark"`
}

// StockUpdateRequest 库存调整请求
type StockUpdateRequest struct {
	Quantity  int    `json:"quantity" binding:"min=0"`
	Operation string `json:"operation" binding:"required,oneof=add subtract set"`
	Remark    string `json:"remark"`
}
