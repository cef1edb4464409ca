// Package backend is the thin client wrapper around the rental platform's
// REST API. It attaches bearer credentials, normalises every failure into one
// of two error kinds, and hides the structured-body vs multipart split from
// callers.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
)

// ErrBackendUnreachable is returned verbatim when no HTTP response arrived at
// all (connection refused, DNS failure, timeout). The transport cause is
// logged, never surfaced.
var ErrBackendUnreachable = errors.New("cannot reach backend — check if the backend is running")

// RequestError means the backend answered and rejected the call. Message is
// the human-readable text extracted from the response body, falling back to
// the transport status text.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string { return e.Message }

// TokenSource yields the bearer token for authenticated calls, or "" when
// logged out. Unauthenticated endpoints go through the same request path with
// the header simply omitted.
type TokenSource interface {
	Token() string
}

// Client performs authenticated calls against the backend origin.
type Client struct {
	base   string
	http   *http.Client
	tokens TokenSource
	log    zerolog.Logger
}

// New builds a client for the given origin. tokens may be nil for a purely
// public client.
func New(baseURL string, tokens TokenSource, log zerolog.Logger) *Client {
	return &Client{
		base:   strings.TrimRight(baseURL, "/"),
		http:   &http.Client{},
		tokens: tokens,
		log:    log,
	}
}

// envelope is the part of every backend response the client itself inspects.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// doJSON issues a structured-body request. body is JSON-encoded when non-nil;
// the decoded response is written into out when non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("backend: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.do(ctx, method, path, query, "application/json", reader, out)
}

// doMultipart issues a binary/multipart request. Only the writer's
// boundary-encoded content type is set, never application/json.
func (c *Client) doMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	contentType, body, err := form.encode()
	if err != nil {
		return err
	}
	return c.do(ctx, method, path, nil, contentType, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader, out any) error {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Callers never see the raw transport error.
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("transport failure")
		return ErrBackendUnreachable
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.log.Debug().Err(err).Str("path", path).Msg("reading response body failed")
		return ErrBackendUnreachable
	}

	if resp.StatusCode >= http.StatusBadRequest {
		return &RequestError{Status: resp.StatusCode, Message: failureMessage(resp.StatusCode, data)}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &RequestError{Status: resp.StatusCode, Message: "unexpected response from backend"}
	}
	return nil
}

// failureMessage extracts a human-readable message from a structured error
// body, falling back to the transport status text.
func failureMessage(status int, body []byte) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return http.StatusText(status)
}

// Form is an opaque multipart payload under construction.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct{ name, value string }

type formFile struct {
	field, filename string
	data            []byte
}

func NewForm() *Form { return &Form{} }

// Field appends a text field.
func (f *Form) Field(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

// File appends a file part.
func (f *Form) File(field, filename string, data []byte) *Form {
	f.files = append(f.files, formFile{field, filename, data})
	return f
}

func (f *Form) encode() (string, io.Reader, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return "", nil, fmt.Errorf("backend: encode form: %w", err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.field, file.filename)
		if err != nil {
			return "", nil, fmt.Errorf("backend: encode form: %w", err)
		}
		if _, err := part.Write(file.data); err != nil {
			return "", nil, fmt.Errorf("backend: encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("backend: encode form: %w", err)
	}
	return w.FormDataContentType(), &buf, nil
}
