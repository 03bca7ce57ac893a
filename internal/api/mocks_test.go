package api

import (
	"context"
	"errors"
	"sync"

	"github.com/MorseWayne/storefront/internal/domain"
)

// Mock CatalogAPI for testing; handlers are exercised against real
// services wired to this mock upstream.
type mockCatalogAPI struct {
	mu         sync.Mutex
	products   map[int64]domain.Product
	categories []string
	failAll    bool
}

func newMockCatalogAPI(products ...domain.Product) *mockCatalogAPI {
	m := &mockCatalogAPI{products: make(map[int64]domain.Product)}
	for _, p := range products {
		m.products[p.ID] = p
	}
	return m
}

func (m *mockCatalogAPI) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("catalog service unavailable")
	}
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockCatalogAPI) FetchProduct(ctx context.Context, id int64) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return domain.Product{}, errors.New("catalog service unavailable")
	}
	p, ok := m.products[id]
	if !ok {
		return domain.Product{}, errors.New("empty response from catalog service")
	}
	return p, nil
}

func (m *mockCatalogAPI) FetchCategories(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failAll {
		return nil, errors.New("catalog service unavailable")
	}
	return m.categories, nil
}
