package service

import (
	"context"
	"errors"
	"sync"

	"github.com/MorseWayne/storefront/internal/domain"
)

// Mock CatalogAPI for testing
type mockCatalogAPI struct {
	mu       sync.Mutex
	products map[int64]domain.Product

	categories []string

	// error injection
	failAll        bool
	failCategories bool
	failProducts   map[int64]bool

	// call counters
	fetchAllCalls     int
	fetchProductCalls map[int64]int

	// optional hook executed inside FetchAllProducts before returning,
	// used to simulate interleaving loads
	onFetchAll func()
}

func newMockCatalogAPI() *mockCatalogAPI {
	return &mockCatalogAPI{
		products:          make(map[int64]domain.Product),
		failProducts:      make(map[int64]bool),
		fetchProductCalls: make(map[int64]int),
	}
}

func (m *mockCatalogAPI) addProduct(p domain.Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.products[p.ID] = p
}

func (m *mockCatalogAPI) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	m.mu.Lock()
	m.fetchAllCalls++
	fail := m.failAll
	hook := m.onFetchAll
	out := make([]domain.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	m.mu.Unlock()

	if hook != nil {
		hook()
	}
	if fail {
		return nil, errors.New("catalog service unavailable")
	}
	return out, nil
}

func (m *mockCatalogAPI) FetchProduct(ctx context.Context, id int64) (domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchProductCalls[id]++
	if m.failAll || m.failProducts[id] {
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
	if m.failAll || m.failCategories {
		return nil, errors.New("catalog service unavailable")
	}
	return m.categories, nil
}
