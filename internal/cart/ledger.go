// Package cart 实现购物车账本及删除确认状态机。
package cart

import (
	"errors"
	"sync"

	"github.com/MorseWayne/storefront/internal/domain"
)

// ErrRequiresConfirmation 表示把数量改为0需要先经过删除确认流程。
// 账本本身不会因为该请求发生任何变化。
var ErrRequiresConfirmation = errors.New("setting quantity to zero requires removal confirmation")

// Ledger 购物车账本：维护商品ID到数量的映射。
//
// 每个商品ID至多存在一条记录，记录按首次加入顺序保存；
// 不变量：在账本中的记录数量恒为正整数，任何将数量置为0或负数的
// 操作都会转化为删除，而不是存下非正值。
type Ledger struct {
	mu      sync.Mutex
	entries []domain.CartEntry
}

// NewLedger 创建空账本
func NewLedger() *Ledger {
	return &Ledger{}
}

// indexOf 返回商品在账本中的下标，不存在时返回 -1。调用方需持有锁。
func (l *Ledger) indexOf(productID int64) int {
	for i := range l.entries {
		if l.entries[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Add 把商品加入购物车：不存在时新建数量1的记录，已存在时数量加1。
// 该操作永远成功。
func (l *Ledger) Add(productID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(productID); i >= 0 {
		l.entries[i].Quantity++
		return
	}
	l.entries = append(l.entries, domain.CartEntry{ProductID: productID, Quantity: 1})
}

// RemoveOne 把商品数量减1；数量为1时删除记录；商品不存在时是no-op。
func (l *Ledger) RemoveOne(productID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.indexOf(productID)
	if i < 0 {
		return
	}
	if l.entries[i].Quantity > 1 {
		l.entries[i].Quantity--
		return
	}
	l.removeAt(i)
}

// SetQuantity 直接设置商品数量。
// quantity <= 0 时返回 ErrRequiresConfirmation 且不改变账本，
// 调用方需要走删除确认流程后再调用 Remove；
// quantity > 0 时更新已有记录或新建记录。
func (l *Ledger) SetQuantity(productID, quantity int64) error {
	if quantity <= 0 {
		return ErrRequiresConfirmation
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(productID); i >= 0 {
		l.entries[i].Quantity = quantity
		return nil
	}
	l.entries = append(l.entries, domain.CartEntry{ProductID: productID, Quantity: quantity})
	return nil
}

// Remove 无条件删除商品记录（删除确认通过后使用）；商品不存在时是no-op。
func (l *Ledger) Remove(productID int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(productID); i >= 0 {
		l.removeAt(i)
	}
}

// removeAt 删除下标处的记录并保持剩余记录顺序。调用方需持有锁。
func (l *Ledger) removeAt(i int) {
	l.entries = append(l.entries[:i], l.entries[i+1:]...)
}

// ReplaceAll 整体覆盖账本内容，用于会话恢复。
// 非正数量的记录和重复商品ID（保留先出现者）会被丢弃以维持不变量。
func (l *Ledger) ReplaceAll(entries []domain.CartEntry) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
	seen := make(map[int64]bool, len(entries))
	for _, e := range entries {
		if e.Quantity <= 0 || seen[e.ProductID] {
			continue
		}
		seen[e.ProductID] = true
		l.entries = append(l.entries, e)
	}
}

// Entries 返回账本快照（按首次加入顺序）
func (l *Ledger) Entries() []domain.CartEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]domain.CartEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Quantity 返回商品的当前数量；商品不存在时返回 (0, false)。
func (l *Ledger) Quantity(productID int64) (int64, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.indexOf(productID); i >= 0 {
		return l.entries[i].Quantity, true
	}
	return 0, false
}

// Len 返回账本中的记录条数
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
