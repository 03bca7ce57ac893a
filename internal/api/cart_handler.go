package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/cart"
	"github.com/MorseWayne/storefront/internal/domain"
	"github.com/MorseWayne/storefront/internal/middleware"
	"github.com/MorseWayne/storefront/internal/resp"
	"github.com/MorseWayne/storefront/internal/service"
)

// CartHandler 购物车相关的HTTP处理器
type CartHandler struct {
	cartService service.CartService
	logger      *zap.Logger
}

// NewCartHandler 创建购物车处理器实例
func NewCartHandler(cartService service.CartService, logger *zap.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// GetCart 获取购物车明细视图（含商品信息与总价）
// GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	lines := h.cartService.DetailedCart(r.Context())

	var pending *int64
	if id, ok := h.cartService.PendingRemoval(); ok {
		pending = &id
	}

	view := &domain.CartViewResponse{
		Items:          lines,
		ItemCount:      len(lines),
		TotalPrice:     h.cartService.TotalPrice(lines),
		PendingRemoval: pending,
	}
	resp.OK(w, view, reqID, "")
}

// AddItem 向购物车加入一件商品（已存在则数量加一）
// POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.AddCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.ProductID <= 0 {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	h.cartService.AddItem(r.Context(), req.ProductID)
	qty, _ := h.cartService.Quantity(req.ProductID)
	h.logger.Info("cart item added",
		zap.String("request_id", reqID),
		zap.Int64("product_id", req.ProductID),
		zap.Int64("quantity", qty),
	)

	data := map[string]any{"product_id": req.ProductID, "quantity": qty}
	resp.OK(w, &data, reqID, "")
}

// DecrementItem 将指定商品数量减一；数量为1时直接移除
// POST /api/v1/cart/items/{id}/decrement
func (h *CartHandler) DecrementItem(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := productIDFromPath(r.URL.Path, 5)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	h.cartService.RemoveOne(r.Context(), id)

	qty, _ := h.cartService.Quantity(id)
	data := map[string]any{"product_id": id, "quantity": qty}
	resp.OK(w, &data, reqID, "")
}

// UpdateItemQuantity 直接设置指定商品的数量；设为0需要走移除确认流程
// PUT /api/v1/cart/items/{id}
func (h *CartHandler) UpdateItemQuantity(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, ok := productIDFromPath(r.URL.Path, 5)
	if !ok {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	var req domain.UpdateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.Quantity < 0 {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "quantity must not be negative", reqID, "")
		return
	}

	if err := h.cartService.SetQuantity(r.Context(), id, req.Quantity); err != nil {
		if errors.Is(err, cart.ErrRequiresConfirmation) {
			resp.Error(w, http.StatusConflict, resp.CodeRequiresConfirmation,
				"removing an item requires confirmation", reqID, "")
			return
		}
		h.logger.Error("set quantity failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "failed to update quantity", reqID, "")
		return
	}

	data := map[string]any{"product_id": id, "quantity": req.Quantity}
	resp.OK(w, &data, reqID, "")
}

// RequestRemoval 发起移除确认；重复发起时以最后一次为准
// POST /api/v1/cart/removals
func (h *CartHandler) RequestRemoval(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	var req domain.RemovalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid request body", reqID, "")
		return
	}
	if req.ProductID <= 0 {
		resp.Error(w, http.StatusBadRequest, resp.CodeInvalidParam, "invalid product ID", reqID, "")
		return
	}

	h.cartService.RequestRemoval(r.Context(), req.ProductID)

	data := map[string]any{"pending_removal": req.ProductID}
	resp.OK(w, &data, reqID, "")
}

// ConfirmRemoval 确认挂起的移除请求并从购物车删除对应商品
// POST /api/v1/cart/removals/confirm
func (h *CartHandler) ConfirmRemoval(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	id, err := h.cartService.ConfirmRemoval(r.Context())
	if err != nil {
		resp.Error(w, http.StatusConflict, resp.CodeRequiresConfirmation, "no pending removal", reqID, "")
		return
	}
	h.logger.Info("cart item removed", zap.String("request_id", reqID), zap.Int64("product_id", id))

	data := map[string]any{"removed": id}
	resp.OK(w, &data, reqID, "")
}

// CancelRemoval 取消挂起的移除请求，购物车保持不变
// POST /api/v1/cart/removals/cancel
func (h *CartHandler) CancelRemoval(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	h.cartService.CancelRemoval(r.Context())
	resp.OK(w, nil, reqID, "")
}

// Checkout 结算入口；当前仅确认收到请求，不做扣减与支付
// POST /api/v1/cart/checkout
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.RequestIDFromContext(r.Context())

	if err := h.cartService.Checkout(r.Context()); err != nil {
		h.logger.Error("checkout failed", zap.String("request_id", reqID), zap.Error(err))
		resp.Error(w, http.StatusInternalServerError, resp.CodeInternalError, "checkout failed", reqID, "")
		return
	}
	resp.OK(w, nil, reqID, "checkout acknowledged")
}
