package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrSellerNotFound  = errors.New("seller not found")
)

// Product is the catalog's view of a product. Stock and price are read
// at call time and never cached across requests.
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
	SellerID string  `json:"sellerId"`
}

type ProductClient interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
	GetSellerID(ctx context.Context, productID string) (string, error)
	ReduceStock(ctx context.Context, productID string, quantity int) error
	RestoreStock(ctx context.Context, productID string, quantity int) error
}

type HTTPProductClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewProductClient(baseURL string, timeout time.Duration) *HTTPProductClient {
	return &HTTPProductClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

func (c *HTTPProductClient) GetProduct(ctx context.Context, productID string) (*Product, error) {
	reqURL := fmt.Sprintf("%s/products/%s", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	var product Product
	if err := json.NewDecoder(resp.Body).Decode(&product); err != nil {
		return nil, fmt.Errorf("decode product response: %w", err)
	}

	return &product, nil
}

// GetSellerID resolves the owner of a product. The catalog returns the id
// as a bare string body, not JSON.
func (c *HTTPProductClient) GetSellerID(ctx context.Context, productID string) (string, error) {
	reqURL := fmt.Sprintf("%s/products/%s/seller-id", c.baseURL, url.PathEscape(productID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("call product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrSellerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("product service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read seller id response: %w", err)
	}

	sellerID := strings.TrimSpace(string(body))
	if sellerID == "" {
		return "", ErrSellerNotFound
	}
	return sellerID, nil
}

func (c *HTTPProductClient) ReduceStock(ctx context.Context, productID string, quantity int) error {
	return c.postStockChange(ctx, productID, "reduce-stock", quantity)
}

func (c *HTTPProductClient) RestoreStock(ctx context.Context, productID string, quantity int) error {
	return c.postStockChange(ctx, productID, "restore-stock", quantity)
}

func (c *HTTPProductClient) postStockChange(ctx context.Context, productID, action string, quantity int) error {
	reqURL := fmt.Sprintf("%s/products/%s/%s?quantity=%s",
		c.baseURL, url.PathEscape(productID), action, strconv.Itoa(quantity))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call product service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("product service %s returned status %d", action, resp.StatusCode)
	}

	return nil
}
