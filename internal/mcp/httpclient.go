package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/pulsecoach/internal/models"
)

// HTTPClient implements DataSource by calling the PulseCoach REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL. The API
// key is sent on write requests; reads work without one.
func NewHTTPClient(baseURL, apiKey string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, payload any) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("httpclient: encode payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" && method != http.MethodGet {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		return respBody, nil
	case http.StatusConflict:
		return nil, errConflict
	case http.StatusNotFound:
		return nil, fmt.Errorf("httpclient: %s: %w", path, errNotFound)
	default:
		return nil, fmt.Errorf("httpclient: %s %s returned %d: %s", method, path, resp.StatusCode, respBody)
	}
}

var (
	errConflict = fmt.Errorf("already exists")
	errNotFound = fmt.Errorf("not found")
)

func timeParams(start, end time.Time) url.Values {
	v := url.Values{}
	v.Set("start", start.Format(time.RFC3339))
	v.Set("end", end.Format(time.RFC3339))
	return v
}

func (c *HTTPClient) InsertProfile(ctx context.Context, p models.Profile) (bool, error) {
	_, err := c.do(ctx, http.MethodPost, "/api/v1/profiles", nil, p)
	if err == errConflict {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context, userID string) (*models.Profile, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/v1/profiles/"+url.PathEscape(userID), nil, nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Profile models.Profile `json:"profile"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode profile: %w", err)
	}
	return &resp.Profile, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, p models.Profile) error {
	_, err := c.do(ctx, http.MethodPut, "/api/v1/profiles/"+url.PathEscape(p.UserID), nil, p)
	return err
}

func (c *HTTPClient) InsertSession(ctx context.Context, s models.WorkoutSession) (bool, error) {
	_, err := c.do(ctx, http.MethodPost,
		"/api/v1/users/"+url.PathEscape(s.UserID)+"/sessions/raw", nil, s)
	if err == errConflict {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (c *HTTPClient) QuerySessions(ctx context.Context, userID string, start, end time.Time) ([]models.WorkoutSession, error) {
	body, err := c.do(ctx, http.MethodGet,
		"/api/v1/users/"+url.PathEscape(userID)+"/sessions", timeParams(start, end), nil)
	if err != nil {
		return nil, err
	}

	var sessions []models.WorkoutSession
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode sessions: %w", err)
	}
	return sessions, nil
}

func (c *HTTPClient) LatestReading(ctx context.Context, userID string) (*models.HeartRateReading, error) {
	body, err := c.do(ctx, http.MethodGet,
		"/api/v1/users/"+url.PathEscape(userID)+"/readings/latest", nil, nil)
	if err != nil {
		return nil, err
	}

	var reading models.HeartRateReading
	if err := json.Unmarshal(body, &reading); err != nil {
		return nil, fmt.Errorf("httpclient: decode reading: %w", err)
	}
	return &reading, nil
}
