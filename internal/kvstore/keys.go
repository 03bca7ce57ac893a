package kvstore

// 跨会话持久化的分区键。
// 只有分类列表和购物车状态落盘；商品目录与过滤/排序状态每次会话重建。
const (
	// 分类列表：data 分区
	KeyCategories = "data:categories"

	// 购物车账本：cart 分区
	KeyCartProducts = "cart:products"

	// 购物车删除确认状态：cart 分区
	KeyCartRemovalModal = "cart:confirm_remove_item_modal"
)

// 幂等键前缀（带TTL，不属于持久化分区）
const KeyPrefixIdempotency = "idempotency:"
