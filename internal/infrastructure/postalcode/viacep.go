// Package postalcode resolves Brazilian postal codes (CEP) into addresses
// through a ViaCEP-compatible HTTP API.
package postalcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/custreg/backend/internal/domain/customer"
	"github.com/custreg/backend/internal/infrastructure/telemetry"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	// DefaultBaseURL is the public ViaCEP endpoint
	DefaultBaseURL = "https://viacep.com.br"

	// DefaultTimeout bounds a single lookup including reading the body
	DefaultTimeout = 5 * time.Second

	// maxResponseSize caps the body read from the lookup service (1MB)
	maxResponseSize = 1 << 20
)

// Configuration errors
var (
	ErrConfigMissingBaseURL = errors.New("viacep: base URL is required")
	ErrConfigInvalidBaseURL = errors.New("viacep: base URL must be an absolute http(s) URL")
	ErrConfigInvalidTimeout = errors.New("viacep: timeout must be positive")
)

// ViaCEPConfig configures the lookup client.
type ViaCEPConfig struct {
	BaseURL string
	Timeout time.Duration
}

// DefaultViaCEPConfig returns the public endpoint with a 5s timeout.
func DefaultViaCEPConfig() ViaCEPConfig {
	return ViaCEPConfig{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout}
}

// Validate checks the configuration.
func (c ViaCEPConfig) Validate() error {
	if c.BaseURL == "" {
		return ErrConfigMissingBaseURL
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrConfigInvalidBaseURL
	}
	if c.Timeout <= 0 {
		return ErrConfigInvalidTimeout
	}
	return nil
}

// ViaCEPClient implements customer.AddressLookup against a ViaCEP-compatible API.
// It performs exactly one request per lookup and never persists the result.
type ViaCEPClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// ClientOption configures a ViaCEPClient
type ClientOption func(*ViaCEPClient)

// WithHTTPClient replaces the HTTP client; its timeout and transport are kept as is
func WithHTTPClient(c *http.Client) ClientOption {
	return func(v *ViaCEPClient) {
		v.httpClient = c
	}
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) ClientOption {
	return func(v *ViaCEPClient) {
		v.logger = l
	}
}

// NewViaCEPClient creates a lookup client.
// The default HTTP client sends requests through an otelhttp transport, which
// starts a child span and injects the trace context headers.
func NewViaCEPClient(cfg ViaCEPConfig, opts ...ClientOption) (*ViaCEPClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &ViaCEPClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Lookup fetches the address for postalCode.
// An unknown code yields an error wrapping customer.ErrPostalCodeUnknown;
// transport failures and error statuses wrap customer.ErrAddressLookupFailed.
func (c *ViaCEPClient) Lookup(ctx context.Context, postalCode string) (*customer.Address, error) {
	code := customer.NormalizePostalCode(postalCode)

	ctx, span := telemetry.StartSpan(ctx, "postal_code.lookup",
		telemetry.WithSpanKind(trace.SpanKindClient),
		telemetry.WithAttribute(telemetry.SpanAttrPostalCode, code),
	)
	defer span.End()

	address, err := c.lookup(ctx, code)
	if err != nil {
		telemetry.RecordError(span, err)
		c.logger.Warn("Postal code lookup failed", zap.String("postal_code", code), zap.Error(err))
		return nil, err
	}
	return address, nil
}

func (c *ViaCEPClient) lookup(ctx context.Context, code string) (*customer.Address, error) {
	endpoint := fmt.Sprintf("%s/ws/%s/json/", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("viacep: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", customer.ErrAddressLookupFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", customer.ErrAddressLookupFailed, err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", customer.ErrAddressLookupFailed, resp.StatusCode)
	}

	return parseAddress(code, body)
}

// parseAddress maps a ViaCEP JSON document onto an Address.
// "erro" is sent as a boolean by the current API and as the string "true" by older deployments.
func parseAddress(code string, body []byte) (*customer.Address, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: malformed response body", customer.ErrAddressLookupFailed)
	}

	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: unexpected response type", customer.ErrAddressLookupFailed)
	}
	if doc.Get("erro").Bool() {
		return nil, fmt.Errorf("%w: %s", customer.ErrPostalCodeUnknown, code)
	}

	fields := doc.GetMany("cep", "logradouro", "complemento", "bairro", "localidade", "uf", "ibge", "gia", "ddd", "siafi")

	postalCode := customer.NormalizePostalCode(fields[0].String())
	if postalCode == "" {
		postalCode = code
	}

	return &customer.Address{
		PostalCode: postalCode,
		Street:     fields[1].String(),
		Complement: fields[2].String(),
		District:   fields[3].String(),
		City:       fields[4].String(),
		State:      fields[5].String(),
		IBGECode:   fields[6].String(),
		GIACode:    fields[7].String(),
		AreaCode:   fields[8].String(),
		SIAFICode:  fields[9].String(),
	}, nil
}

var _ customer.AddressLookup = (*ViaCEPClient)(nil)
