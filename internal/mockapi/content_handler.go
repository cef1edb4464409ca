package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/rentgrid/backoffice/internal/core/domain"
)

// ContentHandler implements the content-block endpoints. Create and update
// accept both the structured-body and the multipart variant; echo's form
// accessors read either, so one handler covers both.
type ContentHandler struct {
	store *Store
	cars  *CarHandler // shares the image-saving path
}

func NewContentHandler(store *Store, cars *CarHandler) *ContentHandler {
	return &ContentHandler{store: store, cars: cars}
}

// Public handles GET /api/public/content?key=..., unauthenticated.
func (h *ContentHandler) Public(c echo.Context) error {
	key := c.QueryParam("key")
	if key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}
	block, err := h.store.ContentByKey(key)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content_block": block})
}

// List handles GET /api/content with an optional key filter.
func (h *ContentHandler) List(c echo.Context) error {
	blocks := h.store.ContentBlocks(c.QueryParam("key"))
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content_blocks": blocks})
}

// Create handles POST /api/content.
func (h *ContentHandler) Create(c echo.Context) error {
	block, err := h.blockFromRequest(c)
	if err != nil {
		return err
	}
	if block.Key == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "key is required")
	}
	created := h.store.CreateContent(block)
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "content_block": created})
}

// Update handles PUT /api/content/:id.
func (h *ContentHandler) Update(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid content id")
	}
	block, err := h.blockFromRequest(c)
	if err != nil {
		return err
	}
	block.ID = id
	updated, err := h.store.UpdateContent(block)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "content_block": updated})
}

// blockFromRequest reads a block from either request flavor. JSON bodies bind
// the three text fields; multipart bodies may add an image file.
func (h *ContentHandler) blockFromRequest(c echo.Context) (domain.ContentBlock, error) {
	var block domain.ContentBlock

	contentType := c.Request().Header.Get(echo.HeaderContentType)
	if strings.HasPrefix(contentType, echo.MIMEApplicationJSON) {
		var body struct {
			Key     string `json:"key"`
			Title   string `json:"title"`
			Content string `json:"content"`
		}
		if err := c.Bind(&body); err != nil {
			return block, echo.NewHTTPError(http.StatusBadRequest, "No data provided")
		}
		block.Key = body.Key
		block.Title = body.Title
		block.Content = body.Content
		return block, nil
	}

	block.Key = c.FormValue("key")
	block.Title = c.FormValue("title")
	block.Content = c.FormValue("content")

	url, err := h.cars.saveImage(c)
	if err != nil {
		return block, err
	}
	block.ImageURL = url
	return block, nil
}
