package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stashbox/backend/internal/model"
	"github.com/stashbox/backend/internal/service"
)

type NoteHandler struct {
	svc *service.NoteService
}

func NewNoteHandler(svc *service.NoteService) *NoteHandler {
	return &NoteHandler{svc: svc}
}

// ListNotes godoc
// @Summary List or search notes
// @Description Returns the caller's notes, most recently updated first.
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive text in title or content"
// @Param tags query string false "Comma separated tags, any match"
// @Success 200 {array} model.Note
// @Failure 401 {object} model.ErrorResponse
// @Failure 403 {object} model.ErrorResponse
// @Router /notes [get]
func (h *NoteHandler) ListNotes(c *gin.Context) {
	notes, err := h.svc.List(c.Request.Context(), searchFilter(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, notes)
}

// GetNote godoc
// @Summary Get a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} model.Note
// @Failure 404 {object} model.ErrorResponse
// @Router /notes/{id} [get]
func (h *NoteHandler) GetNote(c *gin.Context) {
	note, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// CreateNote godoc
// @Summary Create a note
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.CreateNoteRequest true "Note"
// @Success 201 {object} model.Note
// @Failure 400 {object} model.ErrorResponse
// @Router /notes [post]
func (h *NoteHandler) CreateNote(c *gin.Context) {
	var req model.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
		return
	}

	note, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, note)
}

// UpdateNote godoc
// @Summary Update a note
// @Description Only the fields present in the body are changed.
// @Tags notes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Param request body model.UpdateNoteRequest true "Fields to change"
// @Success 200 {object} model.Note
// @Failure 400 {object} model.ErrorResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /notes/{id} [put]
func (h *NoteHandler) UpdateNote(c *gin.Context) {
	var req model.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: msgInvalidBody})
		return
	}

	note, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, note)
}

// DeleteNote godoc
// @Summary Delete a note
// @Tags notes
// @Produce json
// @Security BearerAuth
// @Param id path string true "Note ID"
// @Success 200 {object} model.MessageResponse
// @Failure 404 {object} model.ErrorResponse
// @Router /notes/{id} [delete]
func (h *NoteHandler) DeleteNote(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MessageResponse{Message: "Note deleted"})
}

func searchFilter(c *gin.Context) model.SearchFilter {
	return model.SearchFilter{
		Query: c.Query("q"),
		Tags:  service.ParseTags(c.Query("tags")),
	}
}
