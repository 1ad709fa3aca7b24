package client

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kurihiro0119/property-analytics/internal/domain"
	"github.com/kurihiro0119/property-analytics/internal/export"
)

// Client is the API client for property-analytics
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// APIError is a non-200 response from the API
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("API error: %d - %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error: %d %s - %s", e.StatusCode, e.Code, e.Message)
}

// GetAnalytics retrieves the analytics result for filter
func (c *Client) GetAnalytics(filter domain.PeriodFilter) (*domain.AnalyticsResult, error) {
	var response struct {
		Data *domain.AnalyticsResult `json:"data"`
	}
	if err := c.get("/api/v1/analytics", buildFilterParams(filter), &response); err != nil {
		return nil, err
	}
	return response.Data, nil
}

// Export retrieves the analytics report for filter in format
func (c *Client) Export(filter domain.PeriodFilter, format domain.ExportFormat) (*domain.ExportArtifact, error) {
	params := buildFilterParams(filter)
	params.Set("format", string(format))

	resp, err := c.do("/api/v1/analytics/export", params)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	artifact := &domain.ExportArtifact{
		ID:          resp.Header.Get("X-Export-Id"),
		Content:     string(body),
		ContentType: resp.Header.Get("Content-Type"),
		SizeBytes:   len(body),
	}
	if _, disposition, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		artifact.Filename = disposition["filename"]
	}
	if expires, err := time.Parse(time.RFC3339, resp.Header.Get("X-Export-Expires-At")); err == nil {
		artifact.ExpiresAt = expires
		artifact.CreatedAt = expires.Add(-export.ArtifactTTL)
	}
	return artifact, nil
}

// HealthCheck checks if the API is healthy
func (c *Client) HealthCheck() error {
	var response struct {
		Status string `json:"status"`
	}
	if err := c.get("/health", nil, &response); err != nil {
		return err
	}
	if response.Status != "ok" {
		return fmt.Errorf("unhealthy status: %s", response.Status)
	}
	return nil
}

func buildFilterParams(filter domain.PeriodFilter) url.Values {
	params := url.Values{}
	if filter.Kind != "" {
		params.Set("period", string(filter.Kind))
	}
	if filter.Start != nil {
		params.Set("start", filter.Start.UTC().Format(time.RFC3339))
	}
	if filter.End != nil {
		params.Set("end", filter.End.UTC().Format(time.RFC3339))
	}
	if filter.PropertyID != "" {
		params.Set("property_id", filter.PropertyID)
	}
	if filter.CompareWithPrevious {
		params.Set("compare", strconv.FormatBool(true))
	}
	return params
}

func (c *Client) get(path string, params url.Values, result interface{}) error {
	resp, err := c.do(path, params)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return json.NewDecoder(resp.Body).Decode(result)
}

// do issues a GET and turns any non-200 response into an *APIError
func (c *Client) do(path string, params url.Values) (*http.Response, error) {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return nil, err
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	resp, err := c.httpClient.Get(u.String())
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp, nil
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	apiErr := &APIError{StatusCode: resp.StatusCode, Message: string(body)}
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil && payload.Error.Code != "" {
		apiErr.Code = payload.Error.Code
		apiErr.Message = payload.Error.Message
	}
	return nil, apiErr
}
