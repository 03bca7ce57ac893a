package service

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/cart"
	"github.com/MorseWayne/storefront/internal/catalog"
	"github.com/MorseWayne/storefront/internal/domain"
	"github.com/MorseWayne/storefront/internal/kvstore"
)

// ErrNoPendingRemoval 表示当前没有待确认的删除操作
var ErrNoPendingRemoval = errors.New("no pending removal to confirm")

// CartService 定义购物车业务逻辑接口。
// 所有写操作在成功后立即把购物车分区写入持久化存储（写穿），
// 持久化失败只记录告警，不影响内存状态。
type CartService interface {
	// 账本操作
	AddItem(ctx context.Context, productID int64)
	RemoveOne(ctx context.Context, productID int64)
	SetQuantity(ctx context.Context, productID, quantity int64) error
	Entries() []domain.CartEntry
	Quantity(productID int64) (int64, bool)

	// 删除确认流程
	RequestRemoval(ctx context.Context, productID int64)
	ConfirmRemoval(ctx context.Context) (int64, error)
	CancelRemoval(ctx context.Context)
	PendingRemoval() (int64, bool)

	// 派生视图
	DetailedCart(ctx context.Context) []domain.CartLine
	TotalPrice(lines []domain.CartLine) string

	// 会话恢复与结算
	Restore(ctx context.Context) error
	Checkout(ctx context.Context) error
}

// removalModalState 删除确认状态的持久化形式
type removalModalState struct {
	Pending   bool  `json:"pending"`
	ProductID int64 `json:"product_id"`
}

// cartService 实现CartService接口
type cartService struct {
	ledger  *cart.Ledger
	confirm *cart.RemovalConfirm
	api     CatalogAPI
	store   *catalog.Store
	kv      kvstore.Store
	logger  *zap.Logger
}

// NewCartService 创建购物车服务实例
func NewCartService(api CatalogAPI, store *catalog.Store, kv kvstore.Store, logger *zap.Logger) CartService {
	return &cartService{
		ledger:  cart.NewLedger(),
		confirm: cart.NewRemovalConfirm(),
		api:     api,
		store:   store,
		kv:      kv,
		logger:  logger,
	}
}

// AddItem 加购：新商品建数量1的记录，已有商品数量加1
func (s *cartService) AddItem(ctx context.Context, productID int64) {
	s.ledger.Add(productID)
	s.persistLedger(ctx)
}

// RemoveOne 减购：数量减1，减到0即删除记录
func (s *cartService) RemoveOne(ctx context.Context, productID int64) {
	s.ledger.RemoveOne(productID)
	s.persistLedger(ctx)
}

// SetQuantity 直接设置数量；数量为0需要走删除确认流程
func (s *cartService) SetQuantity(ctx context.Context, productID, quantity int64) error {
	if err := s.ledger.SetQuantity(productID, quantity); err != nil {
		return err
	}
	s.persistLedger(ctx)
	return nil
}

// Entries 返回账本快照
func (s *cartService) Entries() []domain.CartEntry {
	return s.ledger.Entries()
}

// Quantity 返回指定商品在账本中的数量
func (s *cartService) Quantity(productID int64) (int64, bool) {
	return s.ledger.Quantity(productID)
}

// RequestRemoval 发起删除确认；重复发起时覆盖待确认商品
func (s *cartService) RequestRemoval(ctx context.Context, productID int64) {
	s.confirm.Request(productID)
	s.persistRemovalState(ctx)
}

// ConfirmRemoval 确认删除：结束待确认状态并从账本删除该商品
func (s *cartService) ConfirmRemoval(ctx context.Context) (int64, error) {
	id, ok := s.confirm.Confirm()
	if !ok {
		return 0, ErrNoPendingRemoval
	}
	s.ledger.Remove(id)
	s.persistLedger(ctx)
	s.persistRemovalState(ctx)
	return id, nil
}

// CancelRemoval 取消删除：结束待确认状态，账本不变
func (s *cartService) CancelRemoval(ctx context.Context) {
	s.confirm.Cancel()
	s.persistRemovalState(ctx)
}

// PendingRemoval 返回当前待确认删除的商品ID（如有）
func (s *cartService) PendingRemoval() (int64, bool) {
	return s.confirm.Pending()
}

// DetailedCart 把账本记录与目录数据联接成展示行。
//
// 目录缺失的商品会并发地向远端补拉（全部发出后统一等待），
// 补拉结果按商品ID写回目录，与完成顺序无关；
// 拉取失败的商品按既有行为静默跳过，购物车其余行不受影响。
func (s *cartService) DetailedCart(ctx context.Context) []domain.CartLine {
	entries := s.ledger.Entries()

	var missing []int64
	for _, e := range entries {
		if _, ok := s.store.ByID(e.ProductID); !ok {
			missing = append(missing, e.ProductID)
		}
	}

	if len(missing) > 0 {
		s.fetchMissing(ctx, missing)
	}

	lines := make([]domain.CartLine, 0, len(entries))
	for _, e := range entries {
		p, ok := s.store.ByID(e.ProductID)
		if !ok {
			// 无法解析的商品不输出部分行
			continue
		}
		lines = append(lines, domain.CartLine{Product: p, Quantity: e.Quantity})
	}
	return lines
}

// fetchMissing 并发补拉目录缺失的商品。
// 捕获补拉前的代际号：期间目录若被全量替换，迟到结果不写回。
func (s *cartService) fetchMissing(ctx context.Context, ids []int64) {
	gen := s.store.Generation()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			p, err := s.api.FetchProduct(ctx, id)
			if err != nil {
				s.logger.Warn("failed to fetch cart product, line omitted",
					zap.Int64("product_id", id), zap.Error(err))
				return
			}
			s.store.AddIfAbsentSince(gen, p)
		}(id)
	}
	wg.Wait()
}

// TotalPrice 计算购物车合计金额（单价×数量求和），
// 按通行的货币舍入规则保留两位小数（四舍五入，远离零）。
func (s *cartService) TotalPrice(lines []domain.CartLine) string {
	total := decimal.Zero
	for _, ln := range lines {
		price := decimal.NewFromFloat(ln.Product.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(ln.Quantity)))
	}
	return total.StringFixed(2)
}

// Restore 从持久化存储恢复购物车分区（账本与删除确认状态）。
// 键不存在视为空购物车，不算错误。
func (s *cartService) Restore(ctx context.Context) error {
	var entries []domain.CartEntry
	err := s.kv.Get(ctx, kvstore.KeyCartProducts, &entries)
	switch {
	case err == nil:
		s.ledger.ReplaceAll(entries)
	case errors.Is(err, kvstore.ErrKeyNotFound):
		// 首次会话，无事可做
	default:
		return err
	}

	var modal removalModalState
	err = s.kv.Get(ctx, kvstore.KeyCartRemovalModal, &modal)
	switch {
	case err == nil:
		if modal.Pending {
			s.confirm.Request(modal.ProductID)
		}
	case errors.Is(err, kvstore.ErrKeyNotFound):
	default:
		return err
	}

	s.logger.Info("cart restored", zap.Int("entries", s.ledger.Len()))
	return nil
}

// Checkout 结算。
// 本系统中结算是有意的空操作：不扣款、不清空购物车，只返回确认。
func (s *cartService) Checkout(ctx context.Context) error {
	s.logger.Info("checkout acknowledged", zap.Int("entries", s.ledger.Len()))
	return nil
}

// persistLedger 把账本快照写入持久化存储（写穿；失败仅告警）
func (s *cartService) persistLedger(ctx context.Context) {
	if err := s.kv.Set(ctx, kvstore.KeyCartProducts, s.ledger.Entries(), 0); err != nil {
		s.logger.Warn("failed to persist cart ledger", zap.Error(err))
	}
}

// persistRemovalState 把删除确认状态写入持久化存储
func (s *cartService) persistRemovalState(ctx context.Context) {
	id, pending := s.confirm.Pending()
	state := removalModalState{Pending: pending, ProductID: id}
	if err := s.kv.Set(ctx, kvstore.KeyCartRemovalModal, state, 0); err != nil {
		s.logger.Warn("failed to persist removal state", zap.Error(err))
	}
}
