// Package catalog 维护从远端目录服务拉取的商品与分类的内存快照。
package catalog

import (
	"sync"

	"github.com/MorseWayne/storefront/internal/domain"
)

// Store 商品目录的内存存储。
//
// 目录数据整体来自远端目录服务，仅保存在进程内存中，不做持久化；
// 每次全量替换推进一次代际号（generation），带代际号的写入方法用于
// 丢弃被新一轮全量加载取代的迟到结果。
// 目录没有删除操作：商品只会在整体替换时被丢弃。
type Store struct {
	mu         sync.RWMutex
	products   []domain.Product
	index      map[int64]int // 商品ID -> products 下标
	categories []string
	generation uint64
}

// NewStore 创建目录存储实例
func NewStore() *Store {
	return &Store{
		index: make(map[int64]int),
	}
}

// SetAll 整体替换商品列表并推进代际号
func (s *Store) SetAll(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replaceLocked(products)
}

// SetAllSince 仅当代际号自 gen 以来未变化时整体替换商品列表。
// 返回 false 表示该次加载已被更新的加载取代，结果被丢弃。
func (s *Store) SetAllSince(gen uint64, products []domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.replaceLocked(products)
	return true
}

func (s *Store) replaceLocked(products []domain.Product) {
	s.products = make([]domain.Product, 0, len(products))
	s.index = make(map[int64]int, len(products))
	s.generation++
	s.appendAbsentLocked(products)
}

// AddIfAbsent 追加目录中尚不存在的商品。
// 幂等操作：重复的商品ID是no-op而不是更新。追加不推进代际号。
func (s *Store) AddIfAbsent(products ...domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.appendAbsentLocked(products)
}

// AddIfAbsentSince 仅当代际号自 gen 以来未变化时追加商品。
// 用于异步补拉：全量加载发生后，迟到的单商品结果不再写入。
func (s *Store) AddIfAbsentSince(gen uint64, products ...domain.Product) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != gen {
		return false
	}
	s.appendAbsentLocked(products)
	return true
}

func (s *Store) appendAbsentLocked(products []domain.Product) {
	for _, p := range products {
		if _, exists := s.index[p.ID]; exists {
			continue
		}
		s.index[p.ID] = len(s.products)
		s.products = append(s.products, p)
	}
}

// All 返回商品列表快照（按加入顺序）
func (s *Store) All() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// ByID 根据商品ID查找商品
func (s *Store) ByID(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Len 返回目录中的商品数量
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

// Generation 返回当前代际号
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// SetCategories 整体替换分类列表
func (s *Store) SetCategories(categories []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories = make([]string, len(categories))
	copy(s.categories, categories)
}

// Categories 返回分类列表快照
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.categories))
	copy(out, s.categories)
	return out
}
