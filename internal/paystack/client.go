// Package paystack is the outbound client for the Paystack transaction API.
// It initializes hosted checkout sessions and verifies completed
// transactions; it holds no state of its own.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/abellastitches/storefront/internal/domain"
	"golang.org/x/text/currency"
)

const (
	DefaultBaseURL = "https://api.paystack.co"

	defaultTimeout = 30 * time.Second

	// successStatus is the provider's terminal success state; anything
	// else ("failed", "abandoned", "pending") is a non-success outcome,
	// not a transport error.
	successStatus = "success"
)

// GatewayError means the provider was unreachable or returned a malformed
// or non-2xx response. Provider-reported charge failures are not
// GatewayErrors.
type GatewayError struct {
	Op         string
	StatusCode int
	Message    string
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("paystack %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("paystack %s: status %d: %s", e.Op, e.StatusCode, e.Message)
}

func (e *GatewayError) Unwrap() error { return e.Err }

type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient builds a client for the given secret key. baseURL and httpClient
// may be zero-valued; production defaults are applied.
func NewClient(secretKey, baseURL string, httpClient *http.Client) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is empty")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		httpClient: httpClient,
	}, nil
}

type initializeRequest struct {
	Email    string          `json:"email"`
	Amount   int64           `json:"amount"` // minor units
	Currency string          `json:"currency"`
	Metadata requestMetadata `json:"metadata"`
}

type requestMetadata struct {
	ProductID   string `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

func (c *Client) Initialize(ctx context.Context, email string, amount domain.Money, productID, productName string) (domain.Authorization, error) {
	var a domain.Authorization

	if email == "" {
		return a, fmt.Errorf("email is empty")
	}

	minor, err := amount.MinorUnits()
	if err != nil {
		return a, fmt.Errorf("amount.MinorUnits: %w", err)
	}
	if minor == 0 {
		return a, fmt.Errorf("amount is zero")
	}

	body := initializeRequest{
		Email:    email,
		Amount:   minor,
		Currency: amount.Currency.String(),
		Metadata: requestMetadata{
			ProductID:   productID,
			ProductName: productName,
		},
	}

	var resp initializeResponse
	if err := c.post(ctx, "/transaction/initialize", body, &resp); err != nil {
		return a, err
	}

	if !resp.Status {
		return a, &GatewayError{Op: "initialize", StatusCode: http.StatusOK, Message: resp.Message}
	}

	return domain.Authorization{
		AuthorizationURL: resp.Data.AuthorizationURL,
		AccessCode:       resp.Data.AccessCode,
		Reference:        resp.Data.Reference,
	}, nil
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status   string `json:"status"`
		Amount   int64  `json:"amount"` // minor units
		Currency string `json:"currency"`
		Customer struct {
			Email string `json:"email"`
		} `json:"customer"`
		Metadata json.RawMessage `json:"metadata"`
	} `json:"data"`
}

func (c *Client) Verify(ctx context.Context, reference string) (domain.VerifiedTransaction, error) {
	var t domain.VerifiedTransaction

	if reference == "" {
		return t, fmt.Errorf("reference is empty")
	}

	var resp verifyResponse
	if err := c.get(ctx, "/transaction/verify/"+reference, &resp); err != nil {
		return t, err
	}

	if !resp.Status {
		return t, &GatewayError{Op: "verify", StatusCode: http.StatusOK, Message: resp.Message}
	}

	unit := domain.Naira
	if resp.Data.Currency != "" {
		parsed, err := currency.ParseISO(resp.Data.Currency)
		if err != nil {
			return t, &GatewayError{Op: "verify", Err: fmt.Errorf("currency[%s]: %w", resp.Data.Currency, err)}
		}
		unit = parsed
	}

	return domain.VerifiedTransaction{
		Reference:     reference,
		Success:       resp.Data.Status == successStatus,
		Amount:        domain.FromMinorUnits(resp.Data.Amount, unit),
		CustomerEmail: strings.ToLower(resp.Data.Customer.Email),
		Metadata:      parseMetadata(resp.Data.Metadata),
		RawStatus:     resp.Data.Status,
	}, nil
}

// parseMetadata maps the provider's loosely typed metadata blob onto the
// tagged domain structure. Anything without both a product id and name is
// treated as generic.
func parseMetadata(raw json.RawMessage) domain.TransactionMetadata {
	generic := domain.TransactionMetadata{Kind: domain.MetadataGeneric}

	if len(raw) == 0 {
		return generic
	}

	var m requestMetadata
	if err := json.Unmarshal(raw, &m); err != nil {
		return generic
	}

	if m.ProductID == "" || m.ProductName == "" {
		return generic
	}

	return domain.TransactionMetadata{
		Kind:        domain.MetadataProduct,
		ProductID:   m.ProductID,
		ProductName: m.ProductName,
	}
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return &GatewayError{Op: "post " + path, Err: fmt.Errorf("json.Marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return &GatewayError{Op: "post " + path, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, path, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return &GatewayError{Op: "get " + path, Err: err}
	}

	return c.do(req, path, out)
}

func (c *Client) do(req *http.Request, path string, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &GatewayError{Op: req.Method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return &GatewayError{Op: req.Method + " " + path, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &GatewayError{
			Op:         req.Method + " " + path,
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(raw)),
		}
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return &GatewayError{Op: req.Method + " " + path, Err: fmt.Errorf("json.Unmarshal: %w", err)}
	}

	return nil
}
