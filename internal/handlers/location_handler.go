package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SearchLocations forward-geocodes a free-text address for the search form.
func (h *Handler) SearchLocations(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		respond(c, http.StatusBadRequest, "Query is required", nil)
		return
	}

	locations, err := h.Geocoder.Search(c.Request.Context(), query)
	if err != nil {
		h.Log.Error().Err(err).Str("query", query).Msg("failed to fetch locations")
		respond(c, http.StatusInternalServerError, "Error fetching locations", nil)
		return
	}

	respond(c, http.StatusOK, "Locations fetched successfully", locations)
}
