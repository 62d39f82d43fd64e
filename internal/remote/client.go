// Package remote is the client for the pool API, the external collaborator
// that owns all pool and account storage. It is the only layer permitted to
// return transport errors; callers convert them to notifications or state
// transitions instead of letting them crash a view.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"carpool/internal/config"
	"carpool/internal/domain"
	"carpool/internal/fare"
)

// Client performs authenticated HTTP calls against the pool API.
type Client struct {
	baseURL      string
	http         *http.Client
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewClient creates a new Client from configuration.
func NewClient(cfg config.RemoteConfig) *Client {
	return &Client{
		baseURL:      strings.TrimRight(cfg.BaseURL, "/"),
		http:         &http.Client{},
		readTimeout:  cfg.ReadTimeout,
		writeTimeout: cfg.WriteTimeout,
	}
}

// LoginResult is the outcome of a Google login exchange. TempToken is set
// instead of the session tokens when the account still misses profile fields.
type LoginResult struct {
	Message   string `json:"message"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	TempToken string `json:"temp_token"`
}

// ProfileComplete reports whether the login yielded full session tokens.
func (r LoginResult) ProfileComplete() bool {
	return r.TempToken == "" && r.Access != ""
}

// FetchAllPools returns the full pool collection, normalized.
func (c *Client) FetchAllPools(ctx context.Context, token string) ([]domain.Pool, error) {
	var payloads []domain.PoolPayload
	if err := c.do(ctx, http.MethodGet, "/pools/", token, nil, &payloads); err != nil {
		return nil, err
	}
	return domain.NormalizePools(payloads), nil
}

// FetchPool returns one pool by ID, normalized.
func (c *Client) FetchPool(ctx context.Context, token, id string) (*domain.Pool, error) {
	var payload domain.PoolPayload
	if err := c.do(ctx, http.MethodGet, "/pools/"+id+"/", token, nil, &payload); err != nil {
		return nil, err
	}
	pool := payload.Normalize()
	return &pool, nil
}

// CreatePool submits a new pool and returns the stored record.
func (c *Client) CreatePool(ctx context.Context, token string, form domain.PoolForm) (*domain.Pool, error) {
	var payload domain.PoolPayload
	if err := c.do(ctx, http.MethodPost, "/pools/", token, poolBody(form), &payload); err != nil {
		return nil, err
	}
	pool := payload.Normalize()
	return &pool, nil
}

// UpdatePool replaces every writable field of a pool.
func (c *Client) UpdatePool(ctx context.Context, token, id string, form domain.PoolForm) (*domain.Pool, error) {
	var payload domain.PoolPayload
	if err := c.do(ctx, http.MethodPut, "/pools/"+id+"/", token, poolBody(form), &payload); err != nil {
		return nil, err
	}
	pool := payload.Normalize()
	return &pool, nil
}

// PatchPool updates only the supplied fields of a pool.
func (c *Client) PatchPool(ctx context.Context, token, id string, fields map[string]any) (*domain.Pool, error) {
	var payload domain.PoolPayload
	if err := c.do(ctx, http.MethodPatch, "/pools/"+id+"/", token, fields, &payload); err != nil {
		return nil, err
	}
	pool := payload.Normalize()
	return &pool, nil
}

// JoinPool adds the caller to a pool and returns the server's message.
func (c *Client) JoinPool(ctx context.Context, token, id string, gender domain.Gender, phoneNumber string) (string, error) {
	body := map[string]any{
		"gender":       gender,
		"phone_number": phoneNumber,
	}
	var out struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := c.do(ctx, http.MethodPost, "/pools/"+id+"/join/", token, body, &out); err != nil {
		return "", err
	}
	if out.Detail != "" {
		return out.Detail, nil
	}
	return out.Message, nil
}

// GoogleLogin exchanges a Google ID token for session tokens.
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (*LoginResult, error) {
	body := map[string]any{"id_token": idToken}
	var result LoginResult
	if err := c.do(ctx, http.MethodPost, "/auth/google/", "", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// CompleteProfile submits the missing profile fields under the short-lived
// temp token and returns full session tokens.
func (c *Client) CompleteProfile(ctx context.Context, tempToken, phoneNumber string, gender domain.Gender) (*LoginResult, error) {
	body := map[string]any{
		"phone_number": phoneNumber,
		"gender":       gender,
	}
	var result LoginResult
	if err := c.do(ctx, http.MethodPut, "/auth/user/register-info/", tempToken, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// FetchCurrentUser returns the authenticated user's profile.
func (c *Client) FetchCurrentUser(ctx context.Context, token string) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	if err := c.do(ctx, http.MethodGet, "/auth/user/me/", token, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// Logout presents the refresh token for blacklisting. Callers clear local
// session state regardless of the outcome here.
func (c *Client) Logout(ctx context.Context, token, refreshToken string) error {
	body := map[string]any{"refresh_token": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout/", token, body, nil)
}

// poolBody serializes a PoolForm to the API's snake_case wire shape. The
// per-head fare is precomputed the way the server stores it.
func poolBody(form domain.PoolForm) map[string]any {
	return map[string]any{
		"start_point":     form.StartPoint,
		"end_point":       form.EndPoint,
		"departure_time":  form.DepartureTime.Format(time.RFC3339),
		"arrival_time":    form.ArrivalTime.Format(time.RFC3339),
		"transport_mode":  form.TransportMode,
		"total_persons":   form.TotalPersons,
		"current_persons": form.CurrentPersons,
		"fare_per_head":   fare.Format(fare.PerHead(form.TotalFare, float64(form.TotalPersons))),
		"description":     form.Description,
		"is_female_only":  form.FemaleOnly,
	}
}

// do executes one request with bearer auth, a method-based timeout, and
// unified error mapping. Read calls get the shorter deadline.
func (c *Client) do(ctx context.Context, method, path, token string, body any, out any) error {
	timeout := c.readTimeout
	if method != http.MethodGet {
		timeout = c.writeTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return ErrTimeout
		}
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return mapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// mapStatus converts a non-2xx response into a sentinel or APIError, reading
// the detail message the API puts under "detail", "error", or "message".
func mapStatus(resp *http.Response) error {
	var body struct {
		Detail  string `json:"detail"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)
	detail := body.Detail
	if detail == "" {
		detail = body.Err
	}
	if detail == "" {
		detail = body.Message
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return &APIError{StatusCode: resp.StatusCode, Detail: detail}
	}
}
