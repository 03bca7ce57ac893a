// Package cart 的删除确认状态机部分。
package cart

import "sync"

// RemovalConfirm 删除确认状态机。
//
// 状态只有两个：空闲（Idle）与待确认（PendingConfirmation，携带商品ID）。
// 同一时刻至多存在一个待确认商品；待确认期间再次发起请求会覆盖
// 先前的商品ID（后写覆盖，不做堆叠）。
// 发起请求本身不改变账本，确认与否由调用方驱动。
type RemovalConfirm struct {
	mu        sync.Mutex
	pending   bool
	productID int64
}

// NewRemovalConfirm 创建处于空闲状态的确认状态机
func NewRemovalConfirm() *RemovalConfirm {
	return &RemovalConfirm{}
}

// Request 进入待确认状态并记录商品ID；已处于待确认时覆盖商品ID
func (c *RemovalConfirm) Request(productID int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = true
	c.productID = productID
}

// Confirm 结束待确认状态并返回待删除的商品ID。
// 空闲状态下返回 (0, false)，调用方不应删除任何记录。
func (c *RemovalConfirm) Confirm() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending {
		return 0, false
	}
	c.pending = false
	id := c.productID
	c.productID = 0
	return id, true
}

// Cancel 放弃待确认状态，不产生任何账本变化；空闲状态下是no-op
func (c *RemovalConfirm) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending = false
	c.productID = 0
}

// Pending 返回当前待确认的商品ID；空闲状态下返回 (0, false)
func (c *RemovalConfirm) Pending() (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.pending {
		return 0, false
	}
	return c.productID, true
}
