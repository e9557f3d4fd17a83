// Package calculator is the client for the remote property-flip calculation
// server. The server owns every financial formula; this package only moves
// numbers over HTTP.
package calculator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iwvelando/flip-calculator/pkg/constants"
)

// Request is the coerced numeric payload sent to POST /calculate.
type Request struct {
	PurchasePrice   float64 `json:"purchase_price" yaml:"purchase_price"`
	StampDuty       float64 `json:"stamp_duty" yaml:"stamp_duty"`
	LegalFees       float64 `json:"legal_fees" yaml:"legal_fees"`
	AgentFeesBuy    float64 `json:"agent_fees_buy" yaml:"agent_fees_buy"`
	RenovationCosts float64 `json:"renovation_costs" yaml:"renovation_costs"`
	ResalePrice     float64 `json:"resale_price" yaml:"resale_price"`
	SellingCosts    float64 `json:"selling_costs" yaml:"selling_costs"`
}

// Result is the financial summary returned by the calculation server.
type Result struct {
	AcquisitionCost float64 `json:"acquisition_cost" yaml:"acquisition_cost"`
	TotalCost       float64 `json:"total_cost" yaml:"total_cost"`
	GrossProfit     float64 `json:"gross_profit" yaml:"gross_profit"`
	ProfitMargin    float64 `json:"profit_margin" yaml:"profit_margin"`
}

// RemoteError is returned when the calculation server answers with a
// non-success status.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return e.Message
}

type errorBody struct {
	Error string `json:"error"`
}

// Client calls the calculation server.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout bounds every call. Zero leaves calls unbounded.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New builds a client for the server at endpoint (scheme://host[:port][/prefix]).
func New(endpoint string, opts ...Option) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		endpoint = constants.DefaultCalculatorEndpoint
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		return nil, fmt.Errorf("invalid calculator endpoint %q: expected http:// or https:// URL", endpoint)
	}

	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Endpoint returns the configured base URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Calculate posts req to the server and decodes the summary.
func (c *Client) Calculate(ctx context.Context, req Request) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode calculation request: %w", err)
	}

	url := c.endpoint + constants.CalculatePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build calculation request: %w", err)
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(constants.RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, constants.MaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read calculation response: %w", err)
	}

	c.logger.Debug("calculation response received",
		zap.String("op", "calculator.Calculate"),
		zap.String("requestID", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, remoteError(resp.StatusCode, data)
	}

	var result Result
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to decode calculation response: %w", err)
	}
	return &result, nil
}

func remoteError(status int, data []byte) *RemoteError {
	msg := constants.MsgServerFailure
	var body errorBody
	if err := json.Unmarshal(data, &body); err == nil {
		if trimmed := strings.TrimSpace(body.Error); trimmed != "" {
			msg = trimmed
		}
	}
	return &RemoteError{StatusCode: status, Message: msg}
}

// IsRemote reports whether err came from a non-success server response.
func IsRemote(err error) bool {
	var remote *RemoteError
	return errors.As(err, &remote)
}
