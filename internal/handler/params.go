package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/gig-scheduler-api/pkg/calendar"
	appErrors "github.com/noah-isme/gig-scheduler-api/pkg/errors"
)

// parseDateQuery returns nil for an empty value and a validation error for
// anything that is not YYYY-MM-DD.
func parseDateQuery(raw, field string) (*calendar.Date, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := calendar.ParseDate(raw)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid "+field+", expected YYYY-MM-DD")
	}
	return &parsed, nil
}

func pickQuery(c *gin.Context, preferred string, fallback string) string {
	if value := c.Query(preferred); value != "" {
		return value
	}
	return c.Query(fallback)
}

func parseQueryInt(c *gin.Context, key string, def int) int {
	raw := c.Query(key)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

func parseQueryBool(c *gin.Context, key string) *bool {
	switch strings.ToLower(c.Query(key)) {
	case "true", "1":
		val := true
		return &val
	case "false", "0":
		val := false
		return &val
	default:
		return nil
	}
}

func artistFilterFromQuery(c *gin.Context) calendar.ArtistFilter {
	return calendar.ArtistFilter{
		ID:   strings.TrimSpace(pickQuery(c, "artist_id", "artistId")),
		Name: strings.TrimSpace(c.Query("artist")),
	}
}
