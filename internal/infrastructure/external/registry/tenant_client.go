package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/faisalr/propdesk/internal/application/port"
	"go.uber.org/zap"
)

// TenantClient implements port.TenantDirectory against the back office's
// tenant CRUD service
type TenantClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewTenantClient creates a new tenant directory client
func NewTenantClient(baseURL string, timeout time.Duration, logger *zap.Logger) *TenantClient {
	return &TenantClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetTenant fetches a tenant by ID; a 404 maps to port.ErrNotFound
func (c *TenantClient) GetTenant(ctx context.Context, id int64) (*port.Tenant, error) {
	url := fmt.Sprintf("%s/api/tenants/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build tenant request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Tenant lookup failed", zap.Int64("tenant_id", id), zap.Error(err))
		return nil, fmt.Errorf("tenant lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("tenant %d: %w", id, port.ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Tenant service returned error",
			zap.Int64("tenant_id", id),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("tenant service returned status %d", resp.StatusCode)
	}

	var tenant port.Tenant
	if err := json.NewDecoder(resp.Body).Decode(&tenant); err != nil {
		return nil, fmt.Errorf("failed to decode tenant response: %w", err)
	}
	return &tenant, nil
}

// Verify interface compliance
var _ port.TenantDirectory = (*TenantClient)(nil)
