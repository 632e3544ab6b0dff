package models

// 图表数据项
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// 数据看板响应结构
type DashboardResponse struct {
	ProductCount int     `json:"productCount"` // 商品总数
	UserCount    int     `json:"userCount"`    // 用户总数
	TotalStock   int     `json:"totalStock"`   // 总库存量
	TotalValue   float64 `json:"totalValue"`   // 库存总价值
	AveragePrice float64 `json:"averagePrice"` // 平均售价

	CategoryDistribution   []ChartDataItem `json:"categoryDistribution"`   // 分类分布
	StockLevelDistribution []ChartDataItem `json:"stockLevelDistribution"` // 库存等级分布
	TopCategories          []CategoryCount `json:"topCategories"`          // 商品数量排行

	LowStockProducts []EnrichedProduct `json:"lowStockProducts"` // 低库存商品
	RecentMovements  []StockMovement   `json:"recentMovements"`  // 最近库存变动
	RecentChanges    RecentChanges     `json:"recentChanges"`    // 最近30天出入库汇总
}
