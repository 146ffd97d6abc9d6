package client

import (
	"bytes"
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

	"go.uber.org/zap"

	"github.com/soulprotocol/soul-go/pkg/did"
	"github.com/soulprotocol/soul-go/pkg/soul"
)

// DefaultRegistryURL is the public Soul Protocol registry.
const DefaultRegistryURL = "https://registry.soulprotocol.dev"

const defaultTimeout = 30 * time.Second

// Registry responses are small JSON documents; cap reads defensively.
const maxResponseBytes = 1 << 20

// RegisterRequest is the payload for Register. Name, BaseModel, and
// Platform are required by the registry. The remaining fields are optional
// and omitted from the request body when empty; when PublicKey is omitted
// the registry generates a keypair and returns the private half once.
type RegisterRequest struct {
	Name        string `json:"name"`
	BaseModel   string `json:"baseModel"`
	Platform    string `json:"platform"`
	PublicKey   string `json:"publicKey,omitempty"`
	CharterHash string `json:"charterHash,omitempty"`
	Purpose     string `json:"purpose,omitempty"`
}

// RegisterResult holds the identifiers for a newly registered Soul.
type RegisterResult struct {
	DID              string
	ClaimURL         string
	VerificationCode string

	// PrivateKey is set only when the registry generated the keypair.
	// It is delivered once and not persisted server-side.
	PrivateKey soul.PrivateKey
}

// VerifyResult is the registry's verdict on a birth certificate. Checks
// maps check names (e.g. "signature", "issuer", "expiry") to whatever
// detail shape the registry emits for each.
type VerifyResult struct {
	Valid  bool                       `json:"valid"`
	Checks map[string]json.RawMessage `json:"checks"`
}

// ListOptions filter and paginate List calls.
type ListOptions struct {
	Status soul.Status // empty = all statuses
	Limit  int         // page size; values < 1 use the registry default of 100
	Offset int
}

// ListResult is one page of Souls plus the total count on the registry.
type ListResult struct {
	Souls []soul.Soul `json:"souls"`
	Total int         `json:"total"`
}

// Client issues requests against a Soul Protocol registry. It holds only
// immutable configuration and is safe for concurrent use from multiple
// goroutines. It keeps no cache, performs no retries, and does no
// background work; each operation is one request/response round trip.
type Client struct {
	registryBase string
	httpClient   *http.Client
	logger       *zap.Logger
}

// Option is a functional option for configuring a Client.
type Option func(*Client) error

// WithTimeout sets the per-call timeout. On expiry the call fails with a
// TransportError. The default is 30 seconds.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) error {
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %v", d)
		}
		c.httpClient.Timeout = d
		return nil
	}
}

// WithHTTPClient sets a custom http.Client, overriding WithTimeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) error {
		if hc == nil {
			return fmt.Errorf("http client must not be nil")
		}
		c.httpClient = hc
		return nil
	}
}

// WithLogger enables debug-level request logging. The default is a nop
// logger: the SDK is silent unless asked.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) error {
		if l == nil {
			return fmt.Errorf("logger must not be nil")
		}
		c.logger = l
		return nil
	}
}

// New creates a Client for the registry at registryURL. Pass an empty
// string to use DefaultRegistryURL.
//
//	c, err := client.New("", client.WithTimeout(10*time.Second))
func New(registryURL string, opts ...Option) (*Client, error) {
	if registryURL == "" {
		registryURL = DefaultRegistryURL
	}
	c := &Client{
		registryBase: strings.TrimRight(registryURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		logger:       zap.NewNop(),
	}
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on error. Useful in tests and program init.
func MustNew(registryURL string, opts ...Option) *Client {
	c, err := New(registryURL, opts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Register creates a new Soul and returns its DID together with the claim
// URL and verification code an operator later uses to take custody of it.
func (c *Client) Register(ctx context.Context, reg RegisterRequest) (*RegisterResult, error) {
	const op = "register"

	body, err := c.post(ctx, op, "/v1/souls/register", reg)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Soul struct {
			DID              string `json:"did"`
			ClaimURL         string `json:"claimUrl"`
			VerificationCode string `json:"verificationCode"`
		} `json:"soul"`
		PrivateKey soul.PrivateKey `json:"privateKey"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	if resp.Soul.DID == "" {
		return nil, &TransportError{Op: op, Err: errors.New(`response missing "soul.did"`)}
	}

	return &RegisterResult{
		DID:              resp.Soul.DID,
		ClaimURL:         resp.Soul.ClaimURL,
		VerificationCode: resp.Soul.VerificationCode,
		PrivateKey:       resp.PrivateKey,
	}, nil
}

// Resolve fetches the Soul record for soulDID. Absence is an expected
// outcome: a registry 404 returns (nil, nil), not an error. Every other
// non-2xx response surfaces as a RegistryError.
func (c *Client) Resolve(ctx context.Context, soulDID string) (*soul.Soul, error) {
	const op = "resolve"

	if _, err := did.Parse(soulDID); err != nil {
		return nil, err
	}

	body, err := c.get(ctx, op, "/v1/souls/"+escapeDID(soulDID), nil)
	if err != nil {
		var regErr *RegistryError
		if errors.As(err, &regErr) && regErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}

	var s soul.Soul
	if err := decode(op, body, &s); err != nil {
		return nil, err
	}
	if s.DID == "" {
		return nil, &TransportError{Op: op, Err: errors.New(`response missing "did"`)}
	}
	return &s, nil
}

// Claim takes custody of a previously registered Soul. operatorDID is
// optional; pass an empty string to omit it from the request.
func (c *Client) Claim(ctx context.Context, soulDID, operatorDID string) (*soul.Soul, error) {
	const op = "claim"

	if _, err := did.Parse(soulDID); err != nil {
		return nil, err
	}

	payload := struct {
		DID         string `json:"did"`
		OperatorDID string `json:"operatorDid,omitempty"`
	}{DID: soulDID, OperatorDID: operatorDID}

	body, err := c.post(ctx, op, "/v1/souls/claim", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Soul *soul.Soul `json:"soul"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	if resp.Soul == nil || resp.Soul.DID == "" {
		return nil, &TransportError{Op: op, Err: errors.New(`response missing "soul"`)}
	}
	return resp.Soul, nil
}

// Verify asks the registry to verify a birth certificate. The certificate
// is sent as-is; all cryptographic checking happens server-side.
func (c *Client) Verify(ctx context.Context, cert *soul.BirthCertificate) (*VerifyResult, error) {
	const op = "verify"

	payload := struct {
		Credential *soul.BirthCertificate `json:"credential"`
	}{Credential: cert}

	body, err := c.post(ctx, op, "/v1/verify", payload)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Valid  *bool                      `json:"valid"`
		Checks map[string]json.RawMessage `json:"checks"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	if resp.Valid == nil {
		return nil, &TransportError{Op: op, Err: errors.New(`response missing "valid"`)}
	}
	return &VerifyResult{Valid: *resp.Valid, Checks: resp.Checks}, nil
}

// List returns one page of Souls. Pagination parameters are always sent;
// the status filter only when set.
func (c *Client) List(ctx context.Context, opts ListOptions) (*ListResult, error) {
	const op = "list"

	limit := opts.Limit
	if limit < 1 {
		limit = 100
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	query := url.Values{}
	query.Set("limit", strconv.Itoa(limit))
	query.Set("offset", strconv.Itoa(offset))
	if opts.Status != "" {
		query.Set("status", string(opts.Status))
	}

	body, err := c.get(ctx, op, "/v1/souls", query)
	if err != nil {
		return nil, err
	}

	var result ListResult
	if err := decode(op, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Stats returns the registry's counters, e.g. total and per-status Soul
// counts. The key set is registry-defined.
func (c *Client) Stats(ctx context.Context) (map[string]int, error) {
	const op = "stats"

	body, err := c.get(ctx, op, "/", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Stats map[string]int `json:"stats"`
	}
	if err := decode(op, body, &resp); err != nil {
		return nil, err
	}
	if resp.Stats == nil {
		return nil, &TransportError{Op: op, Err: errors.New(`response missing "stats"`)}
	}
	return resp.Stats, nil
}

// post JSON-encodes payload and executes a POST against the registry.
func (c *Client) post(ctx context.Context, op, path string, payload any) ([]byte, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("marshal request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.registryBase+path, bytes.NewReader(b))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.do(op, req)
}

// get executes a GET against the registry with optional query parameters.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	target := c.registryBase + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	return c.do(op, req)
}

// do executes an HTTP request and maps the outcome: network failures become
// TransportError, non-2xx statuses become RegistryError, and 2xx bodies are
// returned for per-operation decoding.
func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("registry request failed",
			zap.String("op", op),
			zap.String("url", req.URL.String()),
			zap.Error(err),
		)
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	c.logger.Debug("registry request",
		zap.String("op", op),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &RegistryError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}

// decode unmarshals a registry response body. A body that is not the
// expected JSON counts as a transport failure: the registry did not speak
// the protocol.
func decode(op string, body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// escapeDID percent-encodes a DID for use as a path segment.
// url.PathEscape leaves ':' intact, which the registry's router treats as a
// segment delimiter, so the stricter query form is used.
func escapeDID(soulDID string) string {
	return url.QueryEscape(soulDID)
}
