// Package fakestore 的商品与分类接口部分。
package fakestore

import (
	"context"
	"fmt"

	"github.com/MorseWayne/storefront/internal/domain"
)

// FetchAllProducts 拉取全量商品列表
func (c *Client) FetchAllProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.getJSON(ctx, "/products", &products); err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if len(products) == 0 {
		return nil, ErrEmptyResponse
	}
	return products, nil
}

// FetchProduct 按ID拉取单个商品
func (c *Client) FetchProduct(ctx context.Context, id int64) (domain.Product, error) {
	var product domain.Product
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%d", id), &product); err != nil {
		return domain.Product{}, fmt.Errorf("failed to fetch product %d: %w", id, err)
	}
	// 上游对不存在的ID返回空负载而不是404
	if product.ID == 0 {
		return domain.Product{}, ErrEmptyResponse
	}
	return product, nil
}

// FetchCategories 拉取分类列表
func (c *Client) FetchCategories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, "/products/categories", &categories); err != nil {
		return nil, fmt.Errorf("failed to fetch categories: %w", err)
	}
	if len(categories) == 0 {
		return nil, ErrEmptyResponse
	}
	return categories, nil
}
