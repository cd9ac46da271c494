package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Keys handlers may set in the response meta block.
const (
	MetaCacheHit       = "cache_hit"
	MetaProcessingTime = "processing_time_ms"
)

const (
	metaContextKey    = "gig.response_meta"
	startedContextKey = "gig.request_started"
)

// WithResponseMeta stamps the request start and gives handlers a meta map to
// fill before they render.
func WithResponseMeta() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(startedContextKey, time.Now())
		c.Set(metaContextKey, map[string]interface{}{})
		c.Next()
	}
}

// SetMeta stores value under key for the current response.
func SetMeta(c *gin.Context, key string, value interface{}) {
	if c == nil {
		return
	}
	metaFor(c)[key] = value
}

// SetCacheHit reports whether the calendar rows came from cache.
func SetCacheHit(c *gin.Context, hit bool) {
	SetMeta(c, MetaCacheHit, hit)
}

// Elapsed returns the time since WithResponseMeta saw the request.
func Elapsed(c *gin.Context) (time.Duration, bool) {
	if c == nil {
		return 0, false
	}
	started, ok := c.Get(startedContextKey)
	if !ok {
		return 0, false
	}
	at, ok := started.(time.Time)
	if !ok {
		return 0, false
	}
	return time.Since(at), true
}

// CollectMeta returns the meta set so far plus the processing time, or nil
// when nothing was recorded.
func CollectMeta(c *gin.Context) map[string]interface{} {
	if c == nil {
		return nil
	}
	raw, ok := c.Get(metaContextKey)
	if !ok {
		return nil
	}
	meta, ok := raw.(map[string]interface{})
	if !ok {
		return nil
	}
	if elapsed, ok := Elapsed(c); ok {
		if _, set := meta[MetaProcessingTime]; !set {
			meta[MetaProcessingTime] = elapsed.Milliseconds()
		}
	}
	return meta
}

func metaFor(c *gin.Context) map[string]interface{} {
	if raw, ok := c.Get(metaContextKey); ok {
		if meta, ok := raw.(map[string]interface{}); ok {
			return meta
		}
	}
	meta := map[string]interface{}{}
	c.Set(metaContextKey, meta)
	return meta
}
