package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/internal/models"
	"github.com/noah-isme/gig-scheduler-api/internal/service"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
	"github.com/noah-isme/gig-scheduler-api/pkg/response"
)

// ArtistHandler wires artist services to HTTP routes.
type ArtistHandler struct {
	artists *service.ArtistService
}

// NewArtistHandler constructs a new ArtistHandler.
func NewArtistHandler(artists *service.ArtistService) *ArtistHandler {
	return &ArtistHandler{artists: artists}
}

// List godoc
// @Summary List artists
// @Tags Artists
// @Produce json
// @Param search query string false "Search by name/genre"
// @Param active query bool false "Filter by active status"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /artists [get]
func (h *ArtistHandler) List(c *gin.Context) {
	filter := models.ArtistFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Active:   parseQueryBool(c, "active"),
		Page:     parseQueryInt(c, "page", 1),
		PageSize: parseQueryInt(c, "limit", 50),
	}
	artists, pagination, err := h.artists.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artists, pagination)
}

// Get godoc
// @Summary Get artist detail
// @Tags Artists
// @Produce json
// @Param id path string true "Artist ID"
// @Success 200 {object} response.Envelope
// @Router /artists/{id} [get]
func (h *ArtistHandler) Get(c *gin.Context) {
	artist, err := h.artists.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artist, nil)
}

// Create godoc
// @Summary Register artist
// @Tags Artists
// @Accept json
// @Produce json
// @Param payload body service.CreateArtistRequest true "Artist payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /artists [post]
func (h *ArtistHandler) Create(c *gin.Context) {
	var req service.CreateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid artist payload"))
		return
	}
	artist, err := h.artists.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, artist)
}

// Update godoc
// @Summary Update artist
// @Tags Artists
// @Accept json
// @Produce json
// @Param id path string true "Artist ID"
// @Param payload body service.UpdateArtistRequest true "Artist payload"
// @Success 200 {object} response.Envelope
// @Router /artists/{id} [put]
func (h *ArtistHandler) Update(c *gin.Context) {
	var req service.UpdateArtistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid artist payload"))
		return
	}
	artist, err := h.artists.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, artist, nil)
}

// Delete godoc
// @Summary Delete artist
// @Tags Artists
// @Param id path string true "Artist ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /artists/{id} [delete]
func (h *ArtistHandler) Delete(c *gin.Context) {
	if err := h.artists.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
