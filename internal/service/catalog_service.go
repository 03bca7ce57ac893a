// Package service 实现业务逻辑层，协调目录、购物车与外部协作方完成业务需求。
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/catalog"
	"github.com/MorseWayne/storefront/internal/domain"
	"github.com/MorseWayne/storefront/internal/kvstore"
	"github.com/MorseWayne/storefront/internal/view"
)

// CatalogAPI 定义远端目录服务的抽象（由 fakestore.Client 实现）。
// 三个操作都不做自动重试：失败向上返回一次即可。
type CatalogAPI interface {
	FetchAllProducts(ctx context.Context) ([]domain.Product, error)
	FetchProduct(ctx context.Context, id int64) (domain.Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}

// CatalogService 定义目录业务逻辑接口
type CatalogService interface {
	// Refresh 全量重新加载商品目录
	Refresh(ctx context.Context) (int, error)

	// LoadCategories 加载分类列表；
	// 拉取失败时回退到上次持久化的结果（最后已知有效值）
	LoadCategories(ctx context.Context) ([]string, error)

	// Categories 返回当前会话已知的分类列表
	Categories() []string

	// ProductView 按过滤、排序、分页条件派生商品视图
	ProductView(req *domain.ProductViewRequest) *domain.ProductViewResponse

	// GetProduct 获取单个商品，目录缺失时向远端补拉
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
}

// catalogService 实现CatalogService接口
type catalogService struct {
	api    CatalogAPI
	store  *catalog.Store
	kv     kvstore.Store
	logger *zap.Logger
}

// NewCatalogService 创建目录服务实例
func NewCatalogService(api CatalogAPI, store *catalog.Store, kv kvstore.Store, logger *zap.Logger) CatalogService {
	return &catalogService{
		api:    api,
		store:  store,
		kv:     kv,
		logger: logger,
	}
}

// Refresh 全量重新加载商品目录。
// 加载期间若发生了更新的全量加载，本次结果会被整体丢弃，
// 避免迟到的响应覆盖更新的权威状态。
func (s *catalogService) Refresh(ctx context.Context) (int, error) {
	gen := s.store.Generation()

	products, err := s.api.FetchAllProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to refresh catalog: %w", err)
	}

	if !s.store.SetAllSince(gen, products) {
		s.logger.Info("stale catalog load discarded",
			zap.Uint64("generation", gen),
			zap.Int("products", len(products)))
		return 0, nil
	}

	s.logger.Info("catalog loaded", zap.Int("products", len(products)))
	return len(products), nil
}

// LoadCategories 加载分类列表并持久化；
// 拉取失败时回退到持久化的最后已知有效值，两者都失败才返回错误。
func (s *catalogService) LoadCategories(ctx context.Context) ([]string, error) {
	categories, err := s.api.FetchCategories(ctx)
	if err == nil {
		s.store.SetCategories(categories)
		if perr := s.kv.Set(ctx, kvstore.KeyCategories, categories, 0); perr != nil {
			s.logger.Warn("failed to persist categories", zap.Error(perr))
		}
		return categories, nil
	}

	s.logger.Warn("failed to fetch categories, falling back to persisted data", zap.Error(err))

	var cached []string
	if gerr := s.kv.Get(ctx, kvstore.KeyCategories, &cached); gerr == nil && len(cached) > 0 {
		s.store.SetCategories(cached)
		return cached, nil
	}

	return nil, fmt.Errorf("failed to load categories: %w", err)
}

// Categories 返回当前会话已知的分类列表
func (s *catalogService) Categories() []string {
	return s.store.Categories()
}

// ProductView 在当前目录快照上派生商品视图
func (s *catalogService) ProductView(req *domain.ProductViewRequest) *domain.ProductViewResponse {
	sortKey := req.Sort
	if sortKey == "" {
		sortKey = domain.DefaultSortKey
	}

	items := view.DeriveView(s.store.All(), req.Filter, sortKey)
	page, pageSize := view.NormalizePage(req.Page, req.PageSize)

	return &domain.ProductViewResponse{
		Products:      view.Paginate(items, page, pageSize),
		Total:         len(items),
		Page:          page,
		PageSize:      pageSize,
		ActiveFilters: view.CountActiveFilters(req.Filter),
	}
}

// GetProduct 获取单个商品；目录缺失时向远端补拉并写回目录。
// 补拉期间若目录被全量替换，结果不写回但仍返回给调用方。
func (s *catalogService) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	if p, ok := s.store.ByID(id); ok {
		return &p, nil
	}

	gen := s.store.Generation()
	p, err := s.api.FetchProduct(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", id, err)
	}

	if !s.store.AddIfAbsentSince(gen, p) {
		s.logger.Info("stale product fetch not cached", zap.Int64("product_id", id))
	}
	return &p, nil
}
