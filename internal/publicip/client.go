// Package publicip 查询调用方的公网 IP
package publicip

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// DefaultEndpoint 默认查询地址，返回 {"ip":"x.x.x.x"}
	DefaultEndpoint = "https://api.ipify.org?format=json"
	// DefaultTimeout 默认请求超时
	DefaultTimeout = 10 * time.Second

	maxBodySize = 64 * 1024
)

// Resolver 公网 IP 查询接口
type Resolver interface {
	Lookup(ctx context.Context) (string, error)
}

// Client 基于 HTTP 的公网 IP 查询客户端
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// Option 客户端可选项
type Option func(*Client)

// WithEndpoint 替换查询地址
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithHTTPClient 替换底层 http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout 设置请求超时，<=0 时忽略
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.httpClient
			hc.Timeout = d
			c.httpClient = &hc
		}
	}
}

// New 创建客户端
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   DefaultEndpoint,
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint 返回当前查询地址
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Lookup 发起一次 GET 请求并返回响应中的 ip 字段。
// 只要响应是合法 JSON，拿不到字符串类型的 ip 字段就返回空字符串；网络错误、非 2xx 状态、非 JSON 时返回错误。
func (c *Client) Lookup(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求 %s 失败: %w", c.endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("unexpected status %d from %s", resp.StatusCode, c.endpoint)
	}

	var payload interface{}
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&payload); err != nil {
		return "", fmt.Errorf("解析响应失败: %w", err)
	}

	obj, ok := payload.(map[string]interface{})
	if !ok {
		return "", nil
	}
	ip, _ := obj["ip"].(string)
	return ip, nil
}
