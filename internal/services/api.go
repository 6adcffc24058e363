// HTTP client for the user/employee source API
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/staffx/internal/shared"
	"golang.org/x/time/rate"
)

const defaultBaseURL string = "http://127.0.0.1:8000"

// APIService issues GET requests against the source API.
type APIService struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewAPIService creates a new API service instance for the source API.
func NewAPIService(baseURL string, client *http.Client) *APIService {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &APIService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: client,
	}
}

// WithRateLimit spaces requests at rps per second. A non-positive rps removes the limit.
func (a *APIService) WithRateLimit(rps float64) *APIService {
	if rps <= 0 {
		a.limiter = nil
		return a
	}
	a.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	return a
}

// BaseURL returns the URL requests are resolved against.
func (a *APIService) BaseURL() string { return a.baseURL }

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// Get performs a GET request to the specified path and returns the raw response regardless of status.
func (a *APIService) Get(ctx context.Context, path string) (*APIResponse, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %v", shared.ErrNetwork, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", shared.ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: request failed: %v", shared.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read response: %v", shared.ErrNetwork, err)
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// FetchJSON returns the body of a successful GET to path.
//
// Transport failures and non-2xx statuses are [shared.ErrNetwork]. The body is not validated here.
func (a *APIService) FetchJSON(ctx context.Context, path string) ([]byte, error) {
	resp, err := a.Get(ctx, path)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s returned status %d", shared.ErrNetwork, path, resp.StatusCode)
	}
	return resp.Body, nil
}
