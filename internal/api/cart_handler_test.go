package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/MorseWayne/storefront/internal/catalog"
	"github.com/MorseWayne/storefront/internal/domain"
	"github.com/MorseWayne/storefront/internal/kvstore"
	"github.com/MorseWayne/storefront/internal/service"
)

func newCartHandlerForTest(api *mockCatalogAPI) (*CartHandler, *catalog.Store) {
	store := catalog.NewStore()
	svc := service.NewCartService(api, store, kvstore.NewMemoryStore(), zap.NewNop())
	return NewCartHandler(svc, zap.NewNop()), store
}

func postJSON(handler http.HandlerFunc, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}

func TestCartHandler_AddItem(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())

	w := postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":5}`)
	if w.Code != http.StatusOK {
		t.Fatalf("AddItem() status = %d, want 200", w.Code)
	}

	w = postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":5}`)
	body := decodeBody(t, w)
	var data map[string]int64
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if data["quantity"] != 2 {
		t.Errorf("AddItem() quantity = %d after second add, want 2", data["quantity"])
	}
}

func TestCartHandler_AddItemInvalidBody(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed json", body: `{`},
		{name: "missing product id", body: `{}`},
		{name: "negative product id", body: `{"product_id":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(handler.AddItem, "/api/v1/cart/items", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Errorf("AddItem() status = %d, want 400", w.Code)
			}
		})
	}
}

func TestCartHandler_DecrementItem(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())

	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":5}`)
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":5}`)

	w := postJSON(handler.DecrementItem, "/api/v1/cart/items/5/decrement", "")
	if w.Code != http.StatusOK {
		t.Fatalf("DecrementItem() status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	var data map[string]int64
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if data["quantity"] != 1 {
		t.Errorf("DecrementItem() quantity = %d, want 1", data["quantity"])
	}
}

func TestCartHandler_UpdateItemQuantity(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":3}`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/3", strings.NewReader(`{"quantity":7}`))
	w := httptest.NewRecorder()
	handler.UpdateItemQuantity(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("UpdateItemQuantity() status = %d, want 200", w.Code)
	}
}

func TestCartHandler_UpdateItemQuantityZeroNeedsConfirmation(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":3}`)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/cart/items/3", strings.NewReader(`{"quantity":0}`))
	w := httptest.NewRecorder()
	handler.UpdateItemQuantity(w, req)

	if w.Code != http.StatusConflict {
		t.Fatalf("UpdateItemQuantity() status = %d, want 409", w.Code)
	}
	if body := decodeBody(t, w); body.Code != 1003 {
		t.Errorf("UpdateItemQuantity() code = %d, want 1003", body.Code)
	}
}

func TestCartHandler_RemovalFlow(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":3}`)

	w := postJSON(handler.RequestRemoval, "/api/v1/cart/removals", `{"product_id":3}`)
	if w.Code != http.StatusOK {
		t.Fatalf("RequestRemoval() status = %d, want 200", w.Code)
	}

	w = postJSON(handler.ConfirmRemoval, "/api/v1/cart/removals/confirm", "")
	if w.Code != http.StatusOK {
		t.Fatalf("ConfirmRemoval() status = %d, want 200", w.Code)
	}
	body := decodeBody(t, w)
	var data map[string]int64
	if err := json.Unmarshal(body.Data, &data); err != nil {
		t.Fatalf("invalid payload: %v", err)
	}
	if data["removed"] != 3 {
		t.Errorf("ConfirmRemoval() removed = %d, want 3", data["removed"])
	}

	// Confirming with nothing pending conflicts.
	w = postJSON(handler.ConfirmRemoval, "/api/v1/cart/removals/confirm", "")
	if w.Code != http.StatusConflict {
		t.Errorf("ConfirmRemoval() status = %d with no pending removal, want 409", w.Code)
	}
}

func TestCartHandler_CancelRemoval(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":3}`)
	postJSON(handler.RequestRemoval, "/api/v1/cart/removals", `{"product_id":3}`)

	w := postJSON(handler.CancelRemoval, "/api/v1/cart/removals/cancel", "")
	if w.Code != http.StatusOK {
		t.Fatalf("CancelRemoval() status = %d, want 200", w.Code)
	}

	// The item survives a cancelled removal.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rw := httptest.NewRecorder()
	handler.GetCart(rw, req)

	var view domain.CartViewResponse
	if err := json.Unmarshal(decodeBody(t, rw).Data, &view); err != nil {
		t.Fatalf("invalid cart payload: %v", err)
	}
	if view.PendingRemoval != nil {
		t.Errorf("PendingRemoval = %v after cancel, want nil", *view.PendingRemoval)
	}
}

func TestCartHandler_GetCart(t *testing.T) {
	api := newMockCatalogAPI(
		domain.Product{ID: 1, Title: "Backpack", Price: 109.95},
		domain.Product{ID: 2, Title: "T-Shirt", Price: 22.3},
	)
	handler, store := newCartHandlerForTest(api)
	store.SetAll([]domain.Product{{ID: 1, Title: "Backpack", Price: 109.95}})

	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":1}`)
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":1}`)
	// Product 2 is not in the catalog yet and must be fetched upstream.
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":2}`)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	w := httptest.NewRecorder()
	handler.GetCart(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("GetCart() status = %d, want 200", w.Code)
	}
	var view domain.CartViewResponse
	if err := json.Unmarshal(decodeBody(t, w).Data, &view); err != nil {
		t.Fatalf("invalid cart payload: %v", err)
	}
	if view.ItemCount != 2 {
		t.Fatalf("GetCart() item count = %d, want 2", view.ItemCount)
	}
	// 109.95*2 + 22.3 = 242.20
	if view.TotalPrice != "242.20" {
		t.Errorf("GetCart() total = %q, want 242.20", view.TotalPrice)
	}
	if view.Items[0].Product.ID != 1 || view.Items[0].Quantity != 2 {
		t.Errorf("GetCart() first line = %+v", view.Items[0])
	}
}

func TestCartHandler_Checkout(t *testing.T) {
	handler, _ := newCartHandlerForTest(newMockCatalogAPI())
	postJSON(handler.AddItem, "/api/v1/cart/items", `{"product_id":1}`)

	w := postJSON(handler.Checkout, "/api/v1/cart/checkout", "")
	if w.Code != http.StatusOK {
		t.Fatalf("Checkout() status = %d, want 200", w.Code)
	}
	if body := decodeBody(t, w); body.Message != "checkout acknowledged" {
		t.Errorf("Checkout() message = %q", body.Message)
	}
}
