// Package fakestore 实现对远端商品目录服务（Fake Store API 兼容接口）的访问。
//
// 三个操作均为一次性的请求/响应调用：失败向调用方返回一次错误，
// 本包不做任何自动重试。
package fakestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL = "https://fakestoreapi.com"
	defaultTimeout = 10 * time.Second

	// 响应体大小上限，防御异常的上游响应
	responseBodyReadLimit int64 = 4 << 20
)

// ErrEmptyResponse 表示上游返回成功状态但没有有效负载
var ErrEmptyResponse = errors.New("empty response from catalog service")

// Client 目录服务客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option 配置客户端的可选行为
type Option func(*Client)

// WithHTTPClient 替换默认的HTTP客户端
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL 替换目录服务地址（测试或私有部署用）
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// WithTimeout 设置单次请求超时
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient 创建目录服务客户端
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// getJSON 执行GET请求并把响应体反序列化到 dest
func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("catalog service request failed: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, responseBodyReadLimit))
	if err != nil {
		return fmt.Errorf("failed to read catalog response: %w", err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("catalog service returned status %d", res.StatusCode)
	}

	trimmed := strings.TrimSpace(string(body))
	if trimmed == "" || trimmed == "null" {
		return ErrEmptyResponse
	}

	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to decode catalog response: %w", err)
	}
	return nil
}
