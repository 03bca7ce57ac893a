// Package api 提供店面相关的HTTP API处理器实现。
package api

import (
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/domain"
	"github.com/MorseWayne/storefront/internal/middleware"
	"github.com/MorseWayne/storefront/internal/resp"
	"github.com/MorseWayne/storefront/internal/service"
)

// CatalogHandler 目录相关的HTTP处理器
type CatalogHandler struct {
	catalogService service.CatalogService
	logger         *zap.Logger
}

// NewCatalogHandler 创建目录处理器实例
func NewCatalogHandler(catalogService service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListProducts 查询商品视图（过滤+排序+分页）
// GET /api/v1/products
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	req, err := parseViewRequest(r)
	if err != nil {
		h.logger.Warn("invalid view request", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, err.Error(), reqID, "")
		return
	}

	view := h.catalogService.ProductView(req)
	resp.OK(w, view, reqID, "")
}

// GetProduct 获取商品详情；目录缺失时向远端目录服务补拉
// GET /api/v1/products/{id}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := productIDFromPath(r.URL.Path, 4)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	product, err := h.catalogService.GetProduct(r.Context(), id)
	if err != nil {
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Warn("get product failed", zap.String("request_id", reqID), zap.Int64("product_id", id), zap.Error(err))
		resp.Error(w, http.StatusNotFound, resp.CodeNotFound, "product not found", reqID, err.Error())
		return
	}

	resp.OK(w, product, reqID, "")
}

// ListCategories 获取分类列表
// GET /api/v1/categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	categories := h.catalogService.Categories()
	if len(categories) == 0 {
		// 启动时加载失败的场景：按需再尝试一次
		loaded, err := h.catalogService.LoadCategories(r.Context())
		if err != nil {
			h.logger.Error("load categories failed", zap.String("request_id", reqID), zap.Error(err))
			resp.Error(w, http.StatusBadGateway, resp.CodeUpstreamError, "failed to load categories", reqID, err.Error())
			return
		}
		categories = loaded
	}

	resp.OK(w, categories, reqID, "")
}

// RefreshCatalog 全量重新加载商品目录
// POST /api/v1/catalog/refresh
func (h *CatalogHandler) RefreshCatalog(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	count, err := h.catalogService.Refresh(r.Context())
	if err != nil {
		if middleware.HandleTimeout(w, r) {
			return
		}
		h.logger.Error("catalog refresh failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusBadGateway, resp.CodeUpstreamError, "failed to refresh catalog", reqID, err.Error())
		return
	}

	data := map[string]any{"products": count}
	resp.OK(w, &data, reqID, "")
}

// parseViewRequest 从查询参数解析商品视图请求
func parseViewRequest(r *http.Request) (*domain.ProductViewRequest, error) {
	q := r.URL.Query()
	req := &domain.ProductViewRequest{
		Filter: domain.DefaultFilterState(),
		Sort:   domain.DefaultSortKey,
	}

	if v := q.Get("category"); v != "" {
		req.Filter.Category = v
	}
	if v := q.Get("price_min"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 {
			return nil, errInvalidQuery("price_min")
		}
		req.Filter.PriceRange.Lower = f
	}
	if v := q.Get("price_max"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errInvalidQuery("price_max")
		}
		req.Filter.PriceRange.Upper = f
	}
	if v := q.Get("rating"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil || f < 0 || f > 5 {
			return nil, errInvalidQuery("rating")
		}
		req.Filter.MinRating = f
	}
	if v := q.Get("sort"); v != "" {
		key := domain.SortKey(v)
		if !key.Valid() {
			return nil, errInvalidQuery("sort")
		}
		req.Sort = key
	}
	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errInvalidQuery("page")
		}
		req.Page = n
	}
	if v := q.Get("page_size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, errInvalidQuery("page_size")
		}
		req.PageSize = n
	}

	return req, nil
}

// productIDFromPath 从URL路径的指定段解析商品ID
func productIDFromPath(path string, segment int) (int64, bool) {
	parts := strings.Split(path, "/")
	if len(parts) <= segment {
		return 0, false
	}
	id, err := strconv.ParseInt(parts[segment], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// errInvalidQuery 构造查询参数错误
type invalidQueryError struct{ param string }

func (e *invalidQueryError) Error() string {
	return "invalid query parameter: " + e.param
}

func errInvalidQuery(param string) error {
	return &invalidQueryError{param: param}
}
