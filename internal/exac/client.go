// Package exac queries the ExAC REST service for known allele frequencies.
package exac

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Jeffail/gabs"
)

// DefaultBaseURL is the public ExAC browser host.
const DefaultBaseURL = "http://exac.hms.harvard.edu"

// Client looks up variants in the ExAC REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client for the service at baseURL.
// An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// VariantURL returns the lookup URL for a CHROM-POS-REF-ALT identifier.
func (c *Client) VariantURL(variantID string) string {
	return c.baseURL + "/rest/variant/variant/" + url.PathEscape(variantID)
}

// AlleleFrequency issues a single lookup for variantID and returns its
// allele_freq. Every failure is reported as a *LookupError.
func (c *Client) AlleleFrequency(ctx context.Context, variantID string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.VariantURL(variantID), nil)
	if err != nil {
		return 0, &LookupError{VariantID: variantID, Reason: ReasonRequest, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, &LookupError{VariantID: variantID, Reason: ReasonRequest, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, &LookupError{
			VariantID: variantID,
			Reason:    ReasonStatus,
			Err:       fmt.Errorf("HTTP %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, &LookupError{VariantID: variantID, Reason: ReasonRequest, Err: err}
	}

	parsed, err := gabs.ParseJSON(body)
	if err != nil {
		return 0, &LookupError{VariantID: variantID, Reason: ReasonDecode, Err: err}
	}

	freq, ok := parsed.Path("allele_freq").Data().(float64)
	if !ok {
		return 0, &LookupError{VariantID: variantID, Reason: ReasonMissing}
	}

	return freq, nil
}

// Reason classifies a failed lookup.
type Reason string

// Lookup failure reasons.
const (
	ReasonRequest Reason = "request" // transport failure or cancellation
	ReasonStatus  Reason = "status"  // non-2xx response
	ReasonDecode  Reason = "decode"  // body is not JSON
	ReasonMissing Reason = "missing" // no numeric allele_freq in the body
)

// LookupError reports a failed frequency lookup.
type LookupError struct {
	VariantID string
	Reason    Reason
	Err       error
}

func (e *LookupError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exac lookup %s: %s", e.VariantID, e.Reason)
	}
	return fmt.Sprintf("exac lookup %s: %s: %v", e.VariantID, e.Reason, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }
