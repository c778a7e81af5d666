package middleware

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/buihuuthinh2018/backend-crm-task/internal/infrastructure/cache"
	"github.com/gin-gonic/gin"
)

// CacheMiddleware caches successful GET responses per user. Keys embed the
// user id because most listings are permission filtered.
type CacheMiddleware struct {
	cache  *cache.RedisClient
	prefix string
	ttl    time.Duration
}

func NewCacheMiddleware(cache *cache.RedisClient, prefix string, ttl time.Duration) *CacheMiddleware {
	return &CacheMiddleware{
		cache:  cache,
		prefix: prefix,
		ttl:    ttl,
	}
}

// responseBuffer is a ResponseWriter that keeps a copy of the body
type responseBuffer struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func newResponseBuffer(original gin.ResponseWriter) *responseBuffer {
	return &responseBuffer{
		ResponseWriter: original,
		body:           bytes.NewBuffer(nil),
	}
}

func (r *responseBuffer) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

func (r *responseBuffer) WriteString(s string) (int, error) {
	r.body.WriteString(s)
	return r.ResponseWriter.WriteString(s)
}

// CacheResponse caches the response of an endpoint
func (m *CacheMiddleware) CacheResponse() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.cache == nil || c.Request.Method != http.MethodGet {
			c.Next()
			return
		}

		key := m.cacheKey(c)

		var cached json.RawMessage
		if err := m.cache.Get(c.Request.Context(), key, &cached); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", cached)
			c.Abort()
			return
		}

		buff := newResponseBuffer(c.Writer)
		c.Writer = buff
		c.Next()

		if c.Writer.Status() == http.StatusOK {
			_ = m.cache.Set(c.Request.Context(), key, json.RawMessage(buff.body.Bytes()), m.ttl)
		}
	}
}

// CacheInvalidate drops every cached entry under the prefix after a
// successful mutation. Invalidation is prefix wide rather than per user
// because one user's write changes what other members see.
func (m *CacheMiddleware) CacheInvalidate() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if m.cache == nil {
			return
		}
		if status := c.Writer.Status(); status >= 200 && status < 300 {
			_ = m.cache.DeletePattern(c.Request.Context(), m.prefix+":*")
		}
	}
}

func (m *CacheMiddleware) cacheKey(c *gin.Context) string {
	userID, _ := GetUserID(c)
	return fmt.Sprintf("%s:%s:%s?%s", m.prefix, userID, c.Request.URL.Path, c.Request.URL.RawQuery)
}
