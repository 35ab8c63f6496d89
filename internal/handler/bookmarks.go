package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stashbox/backend/internal/model"
	"github.com/stashbox/backend/internal/service"
)

type BookmarkHandler struct {
	svc *service.BookmarkService
}

func NewBookmarkHandler(svc *service.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{svc: svc}
}

// ListBookmarks godoc
// @Summary List or search bookmarks
// @Description Returns the caller's bookmarks, newest first.
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive text in title or description"
// @Param tags query string false "Comma separated tags, any match"
// @Success 200 {array} model.Bookmark
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /bookmarks [get]
func (h *BookmarkHandler) ListBookmarks(c *gin.Context) {
	bookmarks, err := h.svc.List(c.Request.Context(), searchFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmarks)
}

// GetBookmark godoc
// @Summary Get a bookmark
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bookmark ID"
// @Success 200 {object} model.Bookmark
// @Failure 404 {object} model.ErrorResponse
// @Router /bookmarks/{id} [get]
func (h *BookmarkHandler) GetBookmark(c *gin.Context) {
	bookmark, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// CreateBookmark godoc
// @Summary Create a bookmark
// @Description When no title is given it is taken from the page, falling back to the URL.
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateBookmarkRequest true "Bookmark"
// @Success 201 {object} model.Bookmark
// @Failure 400 {object} model.ErrorResponse
// @Router /bookmarks [post]
func (h *BookmarkHandler) CreateBookmark(c *gin.Context) {
	var req model.CreateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
		return
	}

	bookmark, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, bookmark)
}

// UpdateBookmark godoc
// @Summary Update a bookmark
// @Description Only the fields present in the body are changed.
// @Tags bookmarks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bookmark ID"
// @Param request body model.UpdateBookmarkRequest true "Fields to change"
// @Success 200 {object} model.Bookmark
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /bookmarks/{id} [put]
func (h *BookmarkHandler) UpdateBookmark(c *gin.Context) {
	var req model.UpdateBookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
		return
	}

	bookmark, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, bookmark)
}

// DeleteBookmark godoc
// @Summary Delete a bookmark
// @Tags bookmarks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bookmark ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /bookmarks/{id} [delete]
func (h *BookmarkHandler) DeleteBookmark(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Bookmark deleted"})
}
