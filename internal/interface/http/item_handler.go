package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/campuskart/internal/application"
	"github.com/oksasatya/campuskart/internal/domain/entity"
	"github.com/oksasatya/campuskart/internal/interface/middleware"
	"github.com/oksasatya/campuskart/pkg/response"
	"github.com/oksasatya/campuskart/pkg/validation"
)

type ItemHandler struct {
	Svc           *application.ItemService
	Logger        *logrus.Logger
	MaxImageBytes int64
}

func NewItemHandler(svc *application.ItemService, logger *logrus.Logger, maxImageBytes int64) *ItemHandler {
	return &ItemHandler{Svc: svc, Logger: logger, MaxImageBytes: maxImageBytes}
}

// itemRequest binds both JSON and multipart bodies. Absent fields stay nil.
type itemRequest struct {
	Title       *string  `json:"title" form:"title" binding:"omitempty,max=200"`
	Description *string  `json:"description" form:"description" binding:"omitempty,max=5000"`
	Price       *float64 `json:"price" form:"price"`
	Category    *string  `json:"category" form:"category" binding:"omitempty,max=100"`
	Quantity    *int     `json:"quantity" form:"quantity"`
	Status      *string  `json:"listing_status" form:"listing_status"`
	ImageURL    *string  `json:"image_url" form:"image_url" binding:"omitempty,url"`
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func parseItemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error[any](c, http.StatusBadRequest, "invalid item id", nil)
		return 0, false
	}
	return id, true
}

func (h *ItemHandler) caller(c *gin.Context) (int64, bool) {
	uid, ok := middleware.CurrentUserID(c)
	if !ok {
		respondError(c, h.Logger, application.ErrUnauthenticated, nil)
	}
	return uid, ok
}

// imageFromRequest opens the optional multipart "image" file. The returned closer is never nil.
func (h *ItemHandler) imageFromRequest(c *gin.Context) (*application.ImageUpload, func(), error) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, nil
	}
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, nil
		}
		return nil, noop, application.Validation("could not read image upload")
	}
	if h.MaxImageBytes > 0 && fh.Size > h.MaxImageBytes {
		return nil, noop, application.Validation("image is too large")
	}
	ct := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "image/") {
		return nil, noop, application.Validation("only image uploads are accepted")
	}
	var f multipart.File
	if f, err = fh.Open(); err != nil {
		return nil, noop, application.Validation("could not read image upload")
	}
	return &application.ImageUpload{Filename: fh.Filename, ContentType: ct, Body: f}, func() { _ = f.Close() }, nil
}

func (h *ItemHandler) bind(c *gin.Context) (itemRequest, *application.ImageUpload, func(), bool) {
	var req itemRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return req, nil, func() {}, false
	}
	img, closeImg, err := h.imageFromRequest(c)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return req, nil, closeImg, false
	}
	return req, img, closeImg, true
}

func (h *ItemHandler) Create(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	req, img, closeImg, ok := h.bind(c)
	defer closeImg()
	if !ok {
		return
	}
	id, err := h.Svc.Create(c.Request.Context(), uid, application.CreateItemInput{
		Title:       deref(req.Title),
		Description: deref(req.Description),
		Price:       deref(req.Price),
		Category:    deref(req.Category),
		Quantity:    req.Quantity,
		ImageURL:    deref(req.ImageURL),
		Image:       img,
	})
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"itemId": id}, "Item created successfully!", nil)
}

func (h *ItemHandler) List(c *gin.Context) {
	items, err := h.Svc.ListActive(c.Request.Context(), entity.ItemFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
	})
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, items, "items", gin.H{"count": len(items)})
}

func (h *ItemHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.Query("size"))
	items, err := h.Svc.Search(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, items, "items", gin.H{"count": len(items)})
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	d, err := h.Svc.GetOne(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, d, "item", nil)
}

func (h *ItemHandler) Mine(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	items, err := h.Svc.ListMine(c.Request.Context(), uid)
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, items, "my items", gin.H{"count": len(items)})
}

func (h *ItemHandler) Update(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	req, img, closeImg, ok := h.bind(c)
	defer closeImg()
	if !ok {
		return
	}
	it, err := h.Svc.Update(c.Request.Context(), uid, id, application.UpdateItemInput{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Quantity:    req.Quantity,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		Image:       img,
	})
	if err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, it, "Item updated successfully", nil)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	uid, ok := h.caller(c)
	if !ok {
		return
	}
	id, ok := parseItemID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), uid, id); err != nil {
		respondError(c, h.Logger, err, nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"itemId": id}, "Item removed successfully", nil)
}
