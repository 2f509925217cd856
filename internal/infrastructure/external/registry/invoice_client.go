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

// InvoiceClient implements port.InvoiceDirectory against the invoice service
type InvoiceClient struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewInvoiceClient creates a new invoice directory client
func NewInvoiceClient(baseURL string, timeout time.Duration, logger *zap.Logger) *InvoiceClient {
	return &InvoiceClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// GetInvoice fetches an invoice by ID; a 404 maps to port.ErrNotFound
func (c *InvoiceClient) GetInvoice(ctx context.Context, id int64) (*port.Invoice, error) {
	url := fmt.Sprintf("%s/api/invoices/%d", c.baseURL, id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build invoice request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Error("Invoice lookup failed", zap.Int64("invoice_id", id), zap.Error(err))
		return nil, fmt.Errorf("invoice lookup failed: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("invoice %d: %w", id, port.ErrNotFound)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("Invoice service returned error",
			zap.Int64("invoice_id", id),
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", body))
		return nil, fmt.Errorf("invoice service returned status %d", resp.StatusCode)
	}

	var invoice port.Invoice
	if err := json.NewDecoder(resp.Body).Decode(&invoice); err != nil {
		return nil, fmt.Errorf("failed to decode invoice response: %w", err)
	}
	return &invoice, nil
}

// Verify interface compliance
var _ port.InvoiceDirectory = (*InvoiceClient)(nil)
