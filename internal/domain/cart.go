// Package domain 定义购物车相关的领域模型。
package domain

// CartEntry 表示购物车中的一条记录：商品ID到数量的映射。
// 不变量：数量恒为正整数；数量为0的记录不允许存在（等价于删除）。
// 同一商品ID至多存在一条记录。购物车跨会话持久化。
type CartEntry struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

// CartLine 表示购物车的展示行：商品详情与数量的组合。
// 它是由 CartEntry 与目录数据联接派生出来的，不落盘；
// 目录中无法解析的商品不会出现在结果里。
type CartLine struct {
	Product  Product `json:"product"`
	Quantity int64   `json:"quantity"`
}

// AddCartItemRequest 表示加入购物车请求
type AddCartItemRequest struct {
	ProductID int64 `json:"product_id"`
}

// UpdateCartItemRequest 表示修改购物车数量请求
type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

// RemovalRequest 表示发起删除确认请求
type RemovalRequest struct {
	ProductID int64 `json:"product_id"`
}

// CartViewResponse 表示购物车视图响应
type CartViewResponse struct {
	Items          []CartLine `json:"items"`                     // 已解析出商品详情的购物车行
	ItemCount      int        `json:"item_count"`                // 购物车中的商品条目数
	TotalPrice     string     `json:"total_price"`               // 合计金额，保留两位小数
	PendingRemoval *int64     `json:"pending_removal,omitempty"` // 待确认删除的商品ID（如有）
}
