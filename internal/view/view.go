// Package view 实现商品列表的纯派生逻辑：过滤、排序与分页。
// 该包不持有任何状态，相同输入永远产生相同输出。
package view

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/MorseWayne/storefront/internal/domain"
)

// 分页默认值
const (
	DefaultPageSize = 8
	MaxPageSize     = 100
)

// DeriveView 根据过滤条件和排序键派生展示用的商品列表。
// 输入切片不会被修改；返回的是新切片。
func DeriveView(products []domain.Product, fs domain.FilterState, key domain.SortKey) []domain.Product {
	filtered := products
	// 过滤状态等于默认值时跳过逐条判定，结果与逐条判定完全一致
	if !fs.IsDefault() {
		filtered = make([]domain.Product, 0, len(products))
		for _, p := range products {
			if matches(p, fs) {
				filtered = append(filtered, p)
			}
		}
	}

	out := make([]domain.Product, len(filtered))
	copy(out, filtered)
	sortProducts(out, key)
	return out
}

// matches 判断单个商品是否满足全部过滤条件
func matches(p domain.Product, fs domain.FilterState) bool {
	if fs.Category != domain.CategoryAll && p.Category != fs.Category {
		return false
	}
	if p.Price < fs.PriceRange.Lower {
		return false
	}
	// 上界等于哨兵值时表示"无上限"，跳过上界检查；该行为需原样保留
	if fs.PriceRange.Upper != domain.PriceUpperSentinel && p.Price > fs.PriceRange.Upper {
		return false
	}
	return p.Rating.Rate >= fs.MinRating
}

// sortProducts 按排序键对商品做稳定排序；价格和评分相同的商品保持原有相对顺序。
// 名称比较使用区域感知的排序规则。
func sortProducts(products []domain.Product, key domain.SortKey) {
	switch key {
	case domain.SortNameAsc:
		c := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[i].Title, products[j].Title) < 0
		})
	case domain.SortNameDesc:
		c := collate.New(language.English)
		sort.SliceStable(products, func(i, j int) bool {
			return c.CompareString(products[j].Title, products[i].Title) < 0
		})
	case domain.SortPriceAsc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].Price < products[j].Price
		})
	case domain.SortPriceDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Price < products[i].Price
		})
	case domain.SortRatingDesc:
		sort.SliceStable(products, func(i, j int) bool {
			return products[j].Rating.Rate < products[i].Rating.Rate
		})
	default:
		// 未知排序键保持原有顺序
	}
}

// CountActiveFilters 统计当前启用的过滤器个数，取值区间 [0, 3]。
// 三项分别为：分类、价格区间、最低评分。
func CountActiveFilters(fs domain.FilterState) int {
	count := 0
	if fs.Category != domain.CategoryAll {
		count++
	}
	if fs.PriceRange.Lower != domain.DefaultPriceLower || fs.PriceRange.Upper != domain.PriceUpperSentinel {
		count++
	}
	if fs.MinRating != domain.DefaultMinRating {
		count++
	}
	return count
}

// NormalizePage 校正页码和每页大小到合法区间
func NormalizePage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Paginate 返回第 page 页（从1开始）的商品窗口。
// 越过末尾的页返回空切片而不是错误。
func Paginate(products []domain.Product, page, pageSize int) []domain.Product {
	page, pageSize = NormalizePage(page, pageSize)
	start := (page - 1) * pageSize
	if start >= len(products) {
		return []domain.Product{}
	}
	end := start + pageSize
	if end > len(products) {
		end = len(products)
	}
	return products[start:end]
}
