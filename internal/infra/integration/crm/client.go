package crm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/xavierca1/plouf-crm/internal/entity"
	"github.com/xavierca1/plouf-crm/internal/infra/logger"
)

var (
	// ErrUnauthorized is returned when the backend rejects the bearer token.
	ErrUnauthorized = errors.New("crm: unauthorized")
	// ErrNoProspect is returned when no contact is eligible for review.
	ErrNoProspect = errors.New("crm: no eligible prospect")
)

// Observer receives one call per backend request. status is 0 when the
// request never got an answer.
type Observer func(endpoint string, status int, elapsed time.Duration)

type Client struct {
	baseURL string
	http    *resty.Client
	observe Observer
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Client{
		baseURL: baseURL,
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json").
			SetHeader("User-Agent", "PloufConsole/1.0"),
	}
}

// WithObserver installs a per-request hook, typically metrics.
func (c *Client) WithObserver(o Observer) *Client {
	c.observe = o
	return c
}

// BaseURL is the backend root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Authenticate exchanges credentials for a bearer token (POST /token).
// A rejected login comes back as *APIError.
func (c *Client) Authenticate(ctx context.Context, username, password string) (string, error) {
	req := c.http.R().SetFormData(map[string]string{
		"username": username,
		"password": password,
	})

	resp, err := c.do(ctx, req, http.MethodPost, "/token", "/token")
	if err != nil {
		return "", err
	}
	if !resp.IsSuccess() {
		return "", apiError(resp)
	}

	var out tokenResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errors.Wrap(err, "crm: decode token")
	}
	if out.AccessToken == "" {
		return "", errors.New("crm: token response without access_token")
	}
	return out.AccessToken, nil
}

// Me fetches the profile behind a token (GET /users/me).
func (c *Client) Me(ctx context.Context, token string) (*entity.User, error) {
	resp, err := c.do(ctx, c.authed(token), http.MethodGet, "/users/me", "/users/me")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var u entity.User
	if err := json.Unmarshal(resp.Body(), &u); err != nil {
		return nil, errors.Wrap(err, "crm: decode profile")
	}
	return &u, nil
}

// UpdateMe replaces the profile (PUT /users/me).
func (c *Client) UpdateMe(ctx context.Context, token string, u entity.User) error {
	req := c.authed(token).SetHeader("Content-Type", "application/json").SetBody(u)
	resp, err := c.do(ctx, req, http.MethodPut, "/users/me", "/users/me")
	if err != nil {
		return err
	}
	return checkStatus(resp)
}

// ChangePassword posts old and new password. A refused change is not an
// error: it comes back as an unsuccessful result carrying the backend text.
func (c *Client) ChangePassword(ctx context.Context, token, oldPassword, newPassword string) (entity.PasswordChangeResult, error) {
	req := c.authed(token).
		SetHeader("Content-Type", "application/json").
		SetBody(changePasswordRequest{OldPassword: oldPassword, NewPassword: newPassword})

	resp, err := c.do(ctx, req, http.MethodPost, "/users/me/change-password", "/users/me/change-password")
	if err != nil {
		return entity.PasswordChangeResult{}, err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return entity.PasswordChangeResult{}, ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return entity.PasswordChangeResult{Success: false, Code: "password_change_failed", Message: extractDetail(resp.Body())}, nil
	}

	var out messageResponse
	_ = json.Unmarshal(resp.Body(), &out)
	if out.Success != nil && !*out.Success {
		return entity.PasswordChangeResult{Success: false, Code: "password_change_failed", Message: out.Message}, nil
	}
	return entity.PasswordChangeResult{Success: true, Code: "password_changed", Message: out.Message}, nil
}

// ListContacts fetches one page of contacts (GET /crm/contacts).
func (c *Client) ListContacts(ctx context.Context, token string, q ContactsQuery) (*ContactsPage, error) {
	values, err := query.Values(q)
	if err != nil {
		return nil, errors.Wrap(err, "crm: encode contacts query")
	}

	req := c.authed(token).SetQueryParamsFromValues(values)
	resp, err := c.do(ctx, req, http.MethodGet, "/crm/contacts", "/crm/contacts")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var page ContactsPage
	if err := json.Unmarshal(resp.Body(), &page); err != nil {
		return nil, errors.Wrap(err, "crm: decode contacts page")
	}
	if page.Contacts == nil {
		page.Contacts = []entity.Contact{}
	}
	return &page, nil
}

// UpdateContact sends the full record (PUT /crm/contact/{id}).
func (c *Client) UpdateContact(ctx context.Context, token string, contact entity.Contact) error {
	path := fmt.Sprintf("/crm/contact/%d", contact.ID)
	req := c.authed(token).SetHeader("Content-Type", "application/json").SetBody(contact)

	resp, err := c.do(ctx, req, http.MethodPut, path, "/crm/contact/{id}")
	if err != nil {
		return err
	}
	if err := checkStatus(resp); err != nil {
		logger.Log.WithFields(logrus.Fields{
			"contact_id": contact.ID,
			"status":     resp.StatusCode(),
		}).Warn("crm: contact update rejected")
		return err
	}
	return nil
}

// NextProspect fetches the next contact to review. Anything but 200 with a
// body means nothing is eligible; only 401 and transport failures are errors.
func (c *Client) NextProspect(ctx context.Context, token string) (*entity.Contact, error) {
	resp, err := c.do(ctx, c.authed(token), http.MethodGet, "/crm/prospect-tinder/next", "/crm/prospect-tinder/next")
	if err != nil {
		return nil, err
	}

	switch {
	case resp.StatusCode() == http.StatusOK:
	case resp.StatusCode() == http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, ErrNoProspect
	}

	body := resp.Body()
	if len(strings.TrimSpace(string(body))) == 0 || string(body) == "null" {
		return nil, ErrNoProspect
	}
	var contact entity.Contact
	if err := json.Unmarshal(body, &contact); err != nil {
		return nil, errors.Wrap(err, "crm: decode prospect")
	}
	return &contact, nil
}

// Stats fetches grouped counts (GET /crm/stats).
func (c *Client) Stats(ctx context.Context, token string) (*entity.Stats, error) {
	resp, err := c.do(ctx, c.authed(token), http.MethodGet, "/crm/stats", "/crm/stats")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var s entity.Stats
	if err := json.Unmarshal(resp.Body(), &s); err != nil {
		return nil, errors.Wrap(err, "crm: decode stats")
	}
	return &s, nil
}

// HomeMetrics fetches the dashboard counters (GET /crm/home_metrics).
func (c *Client) HomeMetrics(ctx context.Context, token string) (*entity.HomeMetrics, error) {
	resp, err := c.do(ctx, c.authed(token), http.MethodGet, "/crm/home_metrics", "/crm/home_metrics")
	if err != nil {
		return nil, err
	}
	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var m entity.HomeMetrics
	if err := json.Unmarshal(resp.Body(), &m); err != nil {
		return nil, errors.Wrap(err, "crm: decode home metrics")
	}
	return &m, nil
}

// Ping checks that the backend answers HTTP at all.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, c.http.R(), http.MethodGet, "/", "/")
	return err
}

func (c *Client) authed(token string) *resty.Request {
	req := c.http.R()
	if token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func (c *Client) do(ctx context.Context, req *resty.Request, method, path, endpoint string) (*resty.Response, error) {
	start := time.Now()
	resp, err := req.SetContext(ctx).Execute(method, path)

	status := 0
	if err == nil && resp != nil {
		status = resp.StatusCode()
	}
	if c.observe != nil {
		c.observe(method+" "+endpoint, status, time.Since(start))
	}

	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"method":   method,
			"endpoint": endpoint,
			"error":    err.Error(),
		}).Error("crm: request failed")
		return nil, errors.Wrapf(err, "crm: %s %s", method, endpoint)
	}
	return resp, nil
}

func checkStatus(resp *resty.Response) error {
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if !resp.IsSuccess() {
		return apiError(resp)
	}
	return nil
}

func apiError(resp *resty.Response) *APIError {
	return &APIError{StatusCode: resp.StatusCode(), Detail: extractDetail(resp.Body())}
}
