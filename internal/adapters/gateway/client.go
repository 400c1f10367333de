// Package gateway is the HTTP client for the club server. It implements the domain
// gateway interfaces consumed by the client package.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"clubdirectory/internal/domain"
)

const (
	defaultHTTPTimeout        = 30 * time.Second
	defaultHTTPConnectTimeout = 5 * time.Second
	defaultHTTPTLSTimeout     = 5 * time.Second
)

func defaultHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	dialer := &net.Dialer{Timeout: defaultHTTPConnectTimeout}
	return &http.Client{
		Transport: &http.Transport{
			DialContext:         dialer.DialContext,
			TLSHandshakeTimeout: defaultHTTPTLSTimeout,
		},
		Timeout: timeout,
	}
}

// Client talks to the club server's JSON API.
type Client struct {
	baseURL string
	http    *http.Client

	mu     sync.RWMutex
	tokens domain.TokenSource
}

// New returns a Client for baseURL. A nil httpClient gets a client with the given timeout.
func New(baseURL string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = defaultHTTPClient(timeout)
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// SetTokenSource attaches the source of the bearer token sent with every request.
func (c *Client) SetTokenSource(ts domain.TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

func (c *Client) ListClubs(ctx context.Context) ([]domain.Club, error) {
	var clubs []domain.Club
	if err := c.do(ctx, "list clubs", http.MethodGet, "/clubs", nil, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (c *Client) GetClub(ctx context.Context, id string) (*domain.Club, error) {
	var club domain.Club
	if err := c.do(ctx, "get club", http.MethodGet, "/clubs/"+url.PathEscape(id), nil, &club); err != nil {
		return nil, err
	}
	return &club, nil
}

func (c *Client) ReplaceClub(ctx context.Context, club domain.Club) error {
	return c.do(ctx, "replace club", http.MethodPut, "/clubs/"+url.PathEscape(club.ID), club, nil)
}

// PatchMembersArgs is the body of PATCH /clubs/{id}.
type PatchMembersArgs struct {
	Members []domain.Member `json:"members"`
}

func (c *Client) PatchMembers(ctx context.Context, clubID string, members []domain.Member) error {
	if members == nil {
		members = []domain.Member{}
	}
	return c.do(ctx, "patch club", http.MethodPatch, "/clubs/"+url.PathEscape(clubID), PatchMembersArgs{Members: members}, nil)
}

func (c *Client) Reset(ctx context.Context) ([]domain.Club, error) {
	var clubs []domain.Club
	if err := c.do(ctx, "reset", http.MethodPost, "/reset", struct{}{}, &clubs); err != nil {
		return nil, err
	}
	return clubs, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, "list users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// LoginArgs is the body of POST /login.
type LoginArgs struct {
	Username string `json:"username"`
	Pin      string `json:"pin"`
}

func (c *Client) Login(ctx context.Context, username, pin string) (*domain.LoginResult, error) {
	var res domain.LoginResult
	if err := c.do(ctx, "login", http.MethodPost, "/login", LoginArgs{Username: username, Pin: pin}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// envelope is the server's response wrapper. Message covers servers that report errors
// as a bare {"message": ...} body.
type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Message string `json:"message"`
}

// do sends one request and decodes the envelope's data into result (when non-nil).
// Every failure is returned as *domain.NetworkError.
func (c *Client) do(ctx context.Context, op, method, path string, args, result any) error {
	var body io.Reader
	if args != nil {
		b, err := json.Marshal(args)
		if err != nil {
			return &domain.NetworkError{Op: op, Message: domain.DefaultNetworkMessage, Err: fmt.Errorf("encode request: %w", err)}
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return &domain.NetworkError{Op: op, Message: domain.DefaultNetworkMessage, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")
	if args != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Op: op, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	var env envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := domain.DefaultNetworkMessage
		if decodeErr == nil {
			switch {
			case env.Error != nil && env.Error.Message != "":
				msg = env.Error.Message
			case env.Message != "":
				msg = env.Message
			}
		}
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Message: msg}
	}

	if result == nil {
		return nil
	}
	if decodeErr != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Message: domain.DefaultNetworkMessage, Err: fmt.Errorf("decode response: %w", decodeErr)}
	}
	// A success body without "data" carries no result.
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return &domain.NetworkError{Op: op, Status: resp.StatusCode, Message: domain.DefaultNetworkMessage, Err: fmt.Errorf("decode data: %w", err)}
	}
	return nil
}

func (c *Client) token() string {
	c.mu.RLock()
	ts := c.tokens
	c.mu.RUnlock()
	if ts == nil {
		return ""
	}
	return ts.Token()
}

var (
	_ domain.ClubGateway = (*Client)(nil)
	_ domain.AuthGateway = (*Client)(nil)
	_ domain.UserGateway = (*Client)(nil)
)
