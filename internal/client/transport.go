// Package client is a Go client for the CorkBoard server. It pairs a thin
// HTTP transport with an optimistic board cache: mutations update the local
// mirror immediately, then reconcile with the server's authoritative
// response or roll back to the pre-mutation snapshot.
package client

import (
	"bytes"
	"context"
	"encoding/json/jsontext"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"runtime"
	"time"

	"github.com/corkboardapp/corkboard-server/internal/domain"
)

// APIError is a structured error returned by the server.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Client talks to a CorkBoard server over HTTP.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger
	baseURL    string
	token      string
}

// Option configures the client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithToken sets the access token used for authenticated requests.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// New creates a client for the server at baseURL.
func New(baseURL string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
		baseURL:    baseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the access token, e.g. after a login or refresh.
func (c *Client) SetToken(token string) {
	c.token = token
}

// envelope mirrors the server's response wrapper.
type envelope struct {
	Data    jsontext.Value `json:"data"`
	Error   string         `json:"error"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	V       int            `json:"v"`
	Success bool           `json:"success"`
}

// do issues a request and decodes the envelope's data into out, which may be
// nil when the caller only cares about success.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.UnmarshalRead(resp.Body, &env); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	if resp.StatusCode >= 400 || !env.Success {
		apiErr := &APIError{Status: resp.StatusCode, Code: env.Code, Message: env.Message}
		if apiErr.Message == "" {
			apiErr.Message = env.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decoding data: %w", err)
		}
	}
	return nil
}

// deviceInfo identifies this client in session listings.
func deviceInfo() map[string]string {
	return map[string]string{
		"device_type": "desktop",
		"platform":    runtime.GOOS,
		"client_name": "CorkBoard Go Client",
	}
}

// AuthResult contains tokens and the authenticated user.
type AuthResult struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	SessionID    string      `json:"session_id"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int         `json:"expires_in"`
	User         domain.User `json:"user"`
}

// Register creates an account and stores its access token on the client.
func (c *Client) Register(ctx context.Context, email, password, firstName, lastName string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", map[string]any{
		"email":       email,
		"password":    password,
		"first_name":  firstName,
		"last_name":   lastName,
		"device_info": deviceInfo(),
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// Login authenticates and stores the access token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	var result AuthResult
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", map[string]any{
		"email":       email,
		"password":    password,
		"device_info": deviceInfo(),
	}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

// boardPayload mirrors the board endpoint's response shape.
type boardPayload struct {
	Shelves []struct {
		domain.Shelf
		Positions []domain.BookPosition `json:"positions"`
	} `json:"shelves"`
}

type booksPayload struct {
	Books []domain.Book `json:"books"`
}

type shelvesPayload struct {
	Shelves []domain.Shelf `json:"shelves"`
}

// moveResult mirrors the move endpoint's response shape. Book is nil unless
// the move changed it.
type moveResult struct {
	Position domain.BookPosition `json:"position"`
	Book     *domain.Book        `json:"book"`
}

func (c *Client) fetchBoard(ctx context.Context) (*boardPayload, error) {
	var payload boardPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/board", nil, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) fetchBooks(ctx context.Context) ([]domain.Book, error) {
	var payload booksPayload
	if err := c.do(ctx, http.MethodGet, "/api/v1/books", nil, &payload); err != nil {
		return nil, err
	}
	return payload.Books, nil
}

func (c *Client) moveBook(ctx context.Context, bookID, fromShelfID, toShelfID string, index int) (*moveResult, error) {
	var result moveResult
	err := c.do(ctx, http.MethodPost, "/api/v1/books/move", map[string]any{
		"book_id":       bookID,
		"from_shelf_id": fromShelfID,
		"to_shelf_id":   toShelfID,
		"index":         index,
	}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) createBook(ctx context.Context, fields map[string]any) (*domain.Book, error) {
	var book domain.Book
	if err := c.do(ctx, http.MethodPost, "/api/v1/books", fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) updateBook(ctx context.Context, bookID string, fields map[string]any) (*domain.Book, error) {
	var book domain.Book
	if err := c.do(ctx, http.MethodPatch, "/api/v1/books/"+bookID, fields, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) deleteBook(ctx context.Context, bookID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/books/"+bookID, nil, nil)
}

func (c *Client) createShelf(ctx context.Context, fields map[string]any) (*domain.Shelf, error) {
	var shelf domain.Shelf
	if err := c.do(ctx, http.MethodPost, "/api/v1/shelves", fields, &shelf); err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (c *Client) updateShelf(ctx context.Context, shelfID string, fields map[string]any) (*domain.Shelf, error) {
	var shelf domain.Shelf
	if err := c.do(ctx, http.MethodPatch, "/api/v1/shelves/"+shelfID, fields, &shelf); err != nil {
		return nil, err
	}
	return &shelf, nil
}

func (c *Client) deleteShelf(ctx context.Context, shelfID string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/shelves/"+shelfID, nil, nil)
}

func (c *Client) reorderShelves(ctx context.Context, shelfIDs []string) ([]domain.Shelf, error) {
	var payload shelvesPayload
	err := c.do(ctx, http.MethodPut, "/api/v1/shelves/reorder", map[string]any{
		"shelf_ids": shelfIDs,
	}, &payload)
	if err != nil {
		return nil, err
	}
	return payload.Shelves, nil
}
