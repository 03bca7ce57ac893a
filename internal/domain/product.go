// Package domain 定义店面相关的业务领域模型和核心业务规则。
package domain

// Rating 表示商品的评分信息
type Rating struct {
	Rate  float64 `json:"rate"`  // 平均评分，区间 [0, 5]
	Count int     `json:"count"` // 评分人数
}

// Product 表示从远端目录服务获取的商品。
// 商品一经获取即视为不可变：仅在整体重新加载时被丢弃，不存在更新操作。
type Product struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
	Rating      Rating  `json:"rating"`
}

// SortKey 定义商品列表的排序方式
type SortKey string

const (
	SortNameAsc    SortKey = "nameASC"   // 按名称升序 (A->Z)
	SortNameDesc   SortKey = "nameDES"   // 按名称降序 (Z->A)
	SortPriceAsc   SortKey = "priceASC"  // 按价格从低到高
	SortPriceDesc  SortKey = "priceDES"  // 按价格从高到低
	SortRatingDesc SortKey = "ratingDES" // 按评分从高到低
)

// DefaultSortKey 未指定排序方式时使用的默认值
const DefaultSortKey = SortNameAsc

// Valid 判断排序键是否为已知取值
func (s SortKey) Valid() bool {
	switch s {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc, SortRatingDesc:
		return true
	}
	return false
}

// 过滤器默认值。
// 注意：价格上界等于 PriceUpperSentinel 时表示"无上限"，而不是字面上的封顶值。
// 该哨兵行为继承自既有实现，为保持兼容必须原样保留。
const (
	CategoryAll        = "All"
	DefaultPriceLower  = 0
	PriceUpperSentinel = 500
	DefaultMinRating   = 0
)

// PriceRange 表示价格区间过滤条件
type PriceRange struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

// FilterState 表示当前生效的全部过滤条件。
// 过滤状态不做持久化，每次会话重新构建。
type FilterState struct {
	Category   string     `json:"category"`
	PriceRange PriceRange `json:"price_range"`
	MinRating  float64    `json:"min_rating"`
}

// DefaultFilterState 返回过滤器的默认状态（不限制任何商品）
func DefaultFilterState() FilterState {
	return FilterState{
		Category: CategoryAll,
		PriceRange: PriceRange{
			Lower: DefaultPriceLower,
			Upper: PriceUpperSentinel,
		},
		MinRating: DefaultMinRating,
	}
}

// IsDefault 判断过滤状态是否等于默认状态
func (f FilterState) IsDefault() bool {
	return f == DefaultFilterState()
}

// ProductViewRequest 表示商品视图查询请求
type ProductViewRequest struct {
	Page     int         `json:"page"`      // 页码，从1开始
	PageSize int         `json:"page_size"` // 每页大小
	Filter   FilterState `json:"filter"`    // 过滤条件
	Sort     SortKey     `json:"sort"`      // 排序方式
}

// ProductViewResponse 表示商品视图查询响应
type ProductViewResponse struct {
	Products      []Product `json:"products"`       // 当前页商品
	Total         int       `json:"total"`          // 过滤后的商品总数
	Page          int       `json:"page"`           // 当前页码
	PageSize      int       `json:"page_size"`      // 每页大小
	ActiveFilters int       `json:"active_filters"` // 生效的过滤器个数
}
