// Package pathapi is the HTTP client for the remote pathology REST service.
// Every call is single-shot: failures are returned to the caller without retry.
package pathapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/aph/pathlabel/internal/core/domain"
	"github.com/aph/pathlabel/internal/pkg/metrics"
)

const defaultTimeout = 15 * time.Second

// ErrInvalidResponse is returned when a 2xx response lacks a required field.
var ErrInvalidResponse = domain.ErrInvalidResponse

// APIError is a non-2xx answer from the pathology service. ErrorText and
// MessageText carry the "error" and "message" fields of the payload; the
// service uses both depending on the endpoint.
type APIError struct {
	Endpoint    string
	Status      int
	ErrorText   string
	MessageText string
}

func (e *APIError) Error() string {
	text := e.ErrorText
	if text == "" {
		text = e.MessageText
	}
	if text == "" {
		text = http.StatusText(e.Status)
	}
	return fmt.Sprintf("pathapi %s: %d %s", e.Endpoint, e.Status, text)
}

func (e *APIError) PayloadError() string   { return e.ErrorText }
func (e *APIError) PayloadMessage() string { return e.MessageText }

// Config captures the settings for reaching the pathology service.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client implements ports.PathologyAPI over resty.
type Client struct {
	http *resty.Client
	log  zerolog.Logger
}

// New builds a Client. A default timeout is applied when none is provided.
func New(cfg Config, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	hc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{http: hc, log: log}
}

type messageResponse struct {
	Message string `json:"message"`
}

type loginResponse struct {
	UserID string `json:"userId"`
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (string, error) {
	var out loginResponse
	if _, err := c.do(ctx, "login", http.MethodPost, "/api/auth/login", nil, creds, &out); err != nil {
		return "", err
	}
	if out.UserID == "" {
		return "", fmt.Errorf("login: %w", ErrInvalidResponse)
	}
	return out.UserID, nil
}

func (c *Client) Signup(ctx context.Context, reg domain.Registration) (string, error) {
	var out messageResponse
	if _, err := c.do(ctx, "signup", http.MethodPost, "/api/auth/signup", nil, reg, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var out []domain.User
	if _, err := c.do(ctx, "list-users", http.MethodGet, "/api/auth/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) RenameUser(ctx context.Context, id, firstName string) error {
	body := map[string]string{"firstName": firstName}
	_, err := c.do(ctx, "rename-user", http.MethodPut, "/api/auth/users/{id}", idParam(id), body, nil)
	return err
}

func (c *Client) ResetPassword(ctx context.Context, id, password string) error {
	body := map[string]string{"password": password}
	_, err := c.do(ctx, "reset-password", http.MethodPut, "/api/auth/users/{id}/reset-password", idParam(id), body, nil)
	return err
}

func (c *Client) SetUserStatus(ctx context.Context, id string, status domain.UserStatus) error {
	body := map[string]domain.UserStatus{"status": status}
	_, err := c.do(ctx, "user-status", http.MethodPut, "/api/auth/users/{id}/status", idParam(id), body, nil)
	return err
}

func (c *Client) AddPatient(ctx context.Context, p domain.NewPatient) (string, error) {
	var out messageResponse
	if _, err := c.do(ctx, "add-patient", http.MethodPost, "/api/patients/add-patient", nil, p, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) GetPatient(ctx context.Context, pathID string) (*domain.Patient, error) {
	raw, err := c.do(ctx, "get-patient", http.MethodGet, "/api/patients/get-patient/{pathId}",
		map[string]string{"pathId": pathID}, nil, nil)
	if err != nil {
		var ae *APIError
		if errors.As(err, &ae) && ae.Status == http.StatusNotFound {
			return nil, domain.ErrPatientNotFound
		}
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) || bytes.Equal(raw, []byte("{}")) {
		return nil, domain.ErrPatientNotFound
	}

	var p domain.Patient
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("get-patient: decode: %w", err)
	}
	if p.PathID == "" {
		return nil, domain.ErrPatientNotFound
	}
	return &p, nil
}

func (c *Client) ListPatients(ctx context.Context) ([]domain.Patient, error) {
	var out []domain.Patient
	if _, err := c.do(ctx, "list-patients", http.MethodGet, "/api/patients/get-all", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// do executes one request and returns the raw body. When out is non-nil the
// body of a 2xx response is decoded into it.
func (c *Client) do(ctx context.Context, endpoint, method, path string, params map[string]string, body, out any) ([]byte, error) {
	start := time.Now()
	req := c.http.R().SetContext(ctx)
	if params != nil {
		req.SetPathParams(params)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	metrics.UpstreamRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "transport_error").Inc()
		c.log.Error().Err(err).Str("endpoint", endpoint).Msg("pathology api unreachable")
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	if resp.IsError() {
		outcome := "client_error"
		if resp.StatusCode() >= http.StatusInternalServerError {
			outcome = "server_error"
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, outcome).Inc()

		apiErr := &APIError{Endpoint: endpoint, Status: resp.StatusCode()}
		var payload struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(resp.Body(), &payload) == nil {
			apiErr.ErrorText = payload.Error
			apiErr.MessageText = payload.Message
		}
		c.log.Warn().
			Str("endpoint", endpoint).
			Int("status", resp.StatusCode()).
			Str("error", apiErr.ErrorText).
			Str("message", apiErr.MessageText).
			Msg("pathology api rejected request")
		return nil, apiErr
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(endpoint, "ok").Inc()
	raw := resp.Body()
	if out != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return nil, fmt.Errorf("%s: decode: %w", endpoint, err)
		}
	}
	return raw, nil
}

func idParam(id string) map[string]string {
	return map[string]string{"id": id}
}
