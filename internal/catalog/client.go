package catalog

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/guonaihong/gout"
	"github.com/guonaihong/gout/dataflow"
)

// DefaultTimeout bounds every remote call. The backend has no SLA, so a
// hung request must not pin a refresh forever.
const DefaultTimeout = 10 * time.Second

// Client talks to the storefront REST backend. It reports failures
// through the NetworkError, HTTPError and DecodeError types and leaves
// fallback policy to the caller.
type Client struct {
	baseURL string
	timeout time.Duration
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// do performs one HTTP exchange and returns the raw body. A transport
// failure maps to NetworkError, a non-2xx status to HTTPError; decoding
// is left to the per-operation callers.
func (c *Client) do(ctx context.Context, method, path string, body interface{}) ([]byte, error) {
	op := method + " " + path
	u := c.baseURL + path

	var df *dataflow.DataFlow
	switch method {
	case http.MethodGet:
		df = gout.GET(u)
	case http.MethodPost:
		df = gout.POST(u)
	case http.MethodPut:
		df = gout.PUT(u)
	case http.MethodDelete:
		df = gout.DELETE(u)
	default:
		return nil, fmt.Errorf("unsupported method %s", method)
	}

	var raw []byte
	var code int
	df = df.WithContext(ctx).SetTimeout(c.timeout).BindBody(&raw).Code(&code)
	if body != nil {
		df = df.SetJSON(body)
	}
	if err := df.Do(); err != nil {
		return nil, &NetworkError{Op: op, Err: err}
	}
	if code >= http.StatusBadRequest {
		return nil, &HTTPError{Op: op, Status: code, Body: raw}
	}
	return raw, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/products", nil)
	if err != nil {
		return nil, err
	}
	var rows []Product
	if err := decodeList("list products", raw, &rows); err != nil {
		return nil, err
	}
	normalizeProducts(rows)
	return rows, nil
}

func (c *Client) GetProduct(ctx context.Context, id string) (*Product, error) {
	raw, err := c.do(ctx, http.MethodGet, "/products/"+id, nil)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeObject("get product", raw, &p); err != nil {
		return nil, err
	}
	p.normalize()
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	raw, err := c.do(ctx, http.MethodPost, "/products", in)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeObject("create product", raw, &p); err != nil {
		return nil, err
	}
	p.normalize()
	return &p, nil
}

func (c *Client) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*Product, error) {
	raw, err := c.do(ctx, http.MethodPut, "/products/"+id, patch)
	if err != nil {
		return nil, err
	}
	var p Product
	if err := decodeObject("update product", raw, &p); err != nil {
		return nil, err
	}
	p.normalize()
	return &p, nil
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/products/"+id, nil)
	return err
}

func (c *Client) BulkUpdateProducts(ctx context.Context, ids []string, patch ProductPatch) (int, error) {
	payload := map[string]interface{}{"ids": ids, "data": patch}
	raw, err := c.do(ctx, http.MethodPost, "/products/bulk-update", payload)
	if err != nil {
		return 0, err
	}
	var resp struct {
		Updated int `json:"updated"`
	}
	if err := decodeObject("bulk update products", raw, &resp); err != nil {
		return 0, err
	}
	return resp.Updated, nil
}

func (c *Client) BulkDeleteProducts(ctx context.Context, ids []string) (int, error) {
	raw, err := c.do(ctx, http.MethodPost, "/products/bulk-delete", map[string]interface{}{"ids": ids})
	if err != nil {
		return 0, err
	}
	var resp struct {
		Deleted int `json:"deleted"`
	}
	if err := decodeObject("bulk delete products", raw, &resp); err != nil {
		return 0, err
	}
	return resp.Deleted, nil
}

func (c *Client) ImportProducts(ctx context.Context, rows []ProductInput) (int, error) {
	raw, err := c.do(ctx, http.MethodPost, "/products/import", map[string]interface{}{"products": rows})
	if err != nil {
		return 0, err
	}
	var resp struct {
		Imported int `json:"imported"`
	}
	if err := decodeObject("import products", raw, &resp); err != nil {
		return 0, err
	}
	return resp.Imported, nil
}

// ExportProducts fetches all products, or the given subset when ids are
// provided.
func (c *Client) ExportProducts(ctx context.Context, ids []string) ([]Product, error) {
	var raw []byte
	var err error
	if len(ids) == 0 {
		raw, err = c.do(ctx, http.MethodGet, "/products/export", nil)
	} else {
		raw, err = c.do(ctx, http.MethodPost, "/products/export", map[string]interface{}{"ids": ids})
	}
	if err != nil {
		return nil, err
	}
	var rows []Product
	if err := decodeList("export products", raw, &rows); err != nil {
		return nil, err
	}
	normalizeProducts(rows)
	return rows, nil
}

func (c *Client) ListDeals(ctx context.Context) ([]Deal, error) {
	raw, err := c.do(ctx, http.MethodGet, "/deals", nil)
	if err != nil {
		return nil, err
	}
	var rows []Deal
	if err := decodeList("list deals", raw, &rows); err != nil {
		return nil, err
	}
	normalizeDeals(rows)
	return rows, nil
}

func (c *Client) GetDeal(ctx context.Context, id string) (*Deal, error) {
	raw, err := c.do(ctx, http.MethodGet, "/deals/"+id, nil)
	if err != nil {
		return nil, err
	}
	var d Deal
	if err := decodeObject("get deal", raw, &d); err != nil {
		return nil, err
	}
	d.normalize()
	return &d, nil
}

func (c *Client) ListFeaturedDeals(ctx context.Context) ([]Deal, error) {
	raw, err := c.do(ctx, http.MethodGet, "/deals/featured", nil)
	if err != nil {
		return nil, err
	}
	var rows []Deal
	if err := decodeList("list featured deals", raw, &rows); err != nil {
		return nil, err
	}
	normalizeDeals(rows)
	return rows, nil
}

func (c *Client) FetchAnalyticsConfig(ctx context.Context) (map[string]interface{}, error) {
	raw, err := c.do(ctx, http.MethodGet, "/analytics/config", nil)
	if err != nil {
		return nil, err
	}
	cfg := make(map[string]interface{})
	if err := decodeObject("fetch analytics config", raw, &cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Client) SaveAnalyticsConfig(ctx context.Context, cfg map[string]interface{}) error {
	_, err := c.do(ctx, http.MethodPost, "/analytics/config", cfg)
	return err
}
