package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

type contentListResponse struct {
	envelope
	ContentBlocks []domain.ContentBlock `json:"content_blocks"`
}

type contentResponse struct {
	envelope
	ContentBlock domain.ContentBlock `json:"content_block"`
}

// PublicContent fetches one public content block, unauthenticated.
func (c *Client) PublicContent(ctx context.Context, key string) (*domain.ContentBlock, error) {
	query := url.Values{"key": {key}}
	var resp contentResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/public/content", query, nil, &resp); err != nil {
		return nil, err
	}
	return &resp.ContentBlock, nil
}

// ContentBlocks lists every block for the admin editor, optionally filtered
// by key.
func (c *Client) ContentBlocks(ctx context.Context, key string) ([]domain.ContentBlock, error) {
	var query url.Values
	if key != "" {
		query = url.Values{"key": {key}}
	}
	var resp contentListResponse
	if err := c.doJSON(ctx, http.MethodGet, "/api/content", query, nil, &resp); err != nil {
		return nil, err
	}
	return resp.ContentBlocks, nil
}

// CreateContent creates a block via the structured-body variant.
func (c *Client) CreateContent(ctx context.Context, block domain.ContentBlock) (domain.ContentBlock, error) {
	var resp contentResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/content", nil, contentBody(block), &resp); err != nil {
		return domain.ContentBlock{}, err
	}
	return resp.ContentBlock, nil
}

// CreateContentWithImage creates a block via the multipart variant.
func (c *Client) CreateContentWithImage(ctx context.Context, block domain.ContentBlock, image *Upload) (domain.ContentBlock, error) {
	var resp contentResponse
	if err := c.doMultipart(ctx, http.MethodPost, "/api/content", contentForm(block, image), &resp); err != nil {
		return domain.ContentBlock{}, err
	}
	return resp.ContentBlock, nil
}

// UpdateContent updates a block via the structured-body variant.
func (c *Client) UpdateContent(ctx context.Context, block domain.ContentBlock) (domain.ContentBlock, error) {
	var resp contentResponse
	path := fmt.Sprintf("/api/content/%d", block.ID)
	if err := c.doJSON(ctx, http.MethodPut, path, nil, contentBody(block), &resp); err != nil {
		return domain.ContentBlock{}, err
	}
	return resp.ContentBlock, nil
}

// UpdateContentWithImage updates a block via the multipart variant.
func (c *Client) UpdateContentWithImage(ctx context.Context, block domain.ContentBlock, image *Upload) (domain.ContentBlock, error) {
	var resp contentResponse
	path := fmt.Sprintf("/api/content/%d", block.ID)
	if err := c.doMultipart(ctx, http.MethodPut, path, contentForm(block, image), &resp); err != nil {
		return domain.ContentBlock{}, err
	}
	return resp.ContentBlock, nil
}

func contentBody(block domain.ContentBlock) map[string]string {
	return map[string]string{
		"key":     block.Key,
		"title":   block.Title,
		"content": block.Content,
	}
}

func contentForm(block domain.ContentBlock, image *Upload) *Form {
	form := NewForm().
		Field("key", block.Key).
		Field("title", block.Title).
		Field("content", block.Content)
	if image != nil {
		form.File("image", image.Filename, image.Data)
	}
	return form
}
