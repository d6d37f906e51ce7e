package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/artistly/internal/adapters/http/dto"
	"github.com/jsamuelsen/artistly/internal/app"
)

// ArtistHandler serves browsing, onboarding and quote requests.
type ArtistHandler struct {
	listing    *app.ListingService
	onboarding *app.OnboardingService
}

// NewArtistHandler creates a new artist handler.
func NewArtistHandler(listing *app.ListingService, onboarding *app.OnboardingService) *ArtistHandler {
	return &ArtistHandler{
		listing:    listing,
		onboarding: onboarding,
	}
}

// ListArtists handles GET /api/v1/artists
// Returns the seed and onboarded artists matching the filters, plus every
// known location.
//
// @Summary List artists
// @Tags artists
// @Produce json
// @Param category query string false "Category"
// @Param location query string false "Location (case-insensitive)"
// @Param feeRange query string false "Fee range bucket"
// @Success 200 {object} dto.ListArtistsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/artists [get]
func (h *ArtistHandler) ListArtists(c *gin.Context) {
	var q dto.ArtistQuery
	if err := dto.BindQueryAndValidate(c, &q); err != nil {
		respondBindError(c, err)
		return
	}

	listing := h.listing.List(c.Request.Context(), q.Filter())

	c.JSON(http.StatusOK, dto.NewListArtistsResponse(listing))
}

// OnboardArtist handles POST /api/v1/artists
// Validates the submission and appends the artist to the onboarded list.
//
// @Summary Onboard an artist
// @Tags artists
// @Accept json
// @Produce json
// @Param body body dto.OnboardArtistRequest true "Artist profile"
// @Success 201 {object} dto.ArtistResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/artists [post]
func (h *ArtistHandler) OnboardArtist(c *gin.Context) {
	var req dto.OnboardArtistRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		respondBindError(c, err)
		return
	}

	artist, err := h.onboarding.Submit(c.Request.Context(), req.Submission())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewArtistResponse(artist))
}

// RequestQuote handles POST /api/v1/artists/:index/quotes
// Records a quote request for the artist at that position in the merged list.
//
// @Summary Request a quote
// @Tags quotes
// @Produce json
// @Param index path int true "Position in the unfiltered artist list"
// @Success 201 {object} dto.QuoteResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 503 {object} dto.ErrorResponse
// @Router /api/v1/artists/{index}/quotes [post]
func (h *ArtistHandler) RequestQuote(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "artist index must be an integer")
		return
	}

	quote, err := h.listing.RequestQuote(c.Request.Context(), index)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewQuoteResponse(quote))
}

// RegisterArtistRoutes registers artist routes on the given router group.
func (h *ArtistHandler) RegisterArtistRoutes(rg *gin.RouterGroup) {
	artists := rg.Group("/artists")
	artists.GET("", h.ListArtists)
	artists.POST("", h.OnboardArtist)
	artists.POST("/:index/quotes", h.RequestQuote)
}

// respondBindError writes field details for validator failures, 413 for an
// oversized body and a plain bad request for anything else malformed.
func respondBindError(c *gin.Context, err error) {
	if dto.IsValidationError(err) {
		dto.RespondWithValidationErrors(c, dto.ValidationErrors(err))
		return
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		dto.RespondWithErrorCode(c, dto.ErrorCodePayloadTooLarge,
			"request body exceeds "+strconv.FormatInt(tooLarge.Limit, 10)+" bytes")
		return
	}

	dto.RespondWithErrorCode(c, dto.ErrorCodeBadRequest, "malformed request")
}
