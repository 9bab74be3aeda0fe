package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"taskboard/internal/domain"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAuth map[string]*domain.User

func (s stubAuth) Authenticate(_ context.Context, token string) (*domain.User, error) {
	if u, ok := s[token]; ok {
		return u, nil
	}
	if token == "gone" {
		return nil, domain.Unauthorized("Usuario no encontrado")
	}
	return nil, errors.New("bad token")
}

func do(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	auth := stubAuth{"good": {ID: 7, Name: "Ana"}}
	r := gin.New()
	r.GET("/me", Auth(auth), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": u.ID})
	})

	cases := []struct {
		name   string
		header string
		status int
		body   string
	}{
		{"missing", "", 401, "No se proporcionó token de autenticación"},
		{"wrong scheme", "Basic good", 401, "No se proporcionó token de autenticación"},
		{"invalid", "Bearer nope", 401, "Token inválido"},
		{"deleted user", "Bearer gone", 401, "Usuario no encontrado"},
		{"ok", "bearer good", 200, `"id":7`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := do(r, http.MethodGet, "/me", map[string]string{"Authorization": tc.header})
			assert.Equal(t, tc.status, w.Code)
			assert.Contains(t, w.Body.String(), tc.body)
		})
	}
}

func TestCurrentUserWithoutAuth(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := CurrentUser(c)
	assert.False(t, ok)
}

func TestLocalRateLimit(t *testing.T) {
	rl := NewRateLimiter(nil)
	now := time.Unix(1000, 0)
	rl.now = func() time.Time { return now }

	r := gin.New()
	r.GET("/x", rl.Limit("test", 2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, 200, do(r, "GET", "/x", nil).Code)
	w := do(r, "GET", "/x", nil)
	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	w = do(r, "GET", "/x", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))

	now = now.Add(time.Minute)
	assert.Equal(t, 200, do(r, "GET", "/x", nil).Code)
}

func TestRateLimitKeysByUser(t *testing.T) {
	rl := NewRateLimiter(nil)
	auth := stubAuth{"a": {ID: 1}, "b": {ID: 2}}

	r := gin.New()
	r.GET("/x", Auth(auth), rl.Limit("api", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, 200, do(r, "GET", "/x", map[string]string{"Authorization": "Bearer a"}).Code)
	assert.Equal(t, 429, do(r, "GET", "/x", map[string]string{"Authorization": "Bearer a"}).Code)
	assert.Equal(t, 200, do(r, "GET", "/x", map[string]string{"Authorization": "Bearer b"}).Code)
}

// Integration-style test: runs only if REDIS_ADDR env is set.
func TestRedisRateLimitIntegration(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set; skipping integration test")
	}
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			db = n
		}
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASSWORD"), DB: db})
	defer client.Close()
	require.NoError(t, client.Ping(context.Background()).Err())

	rl := NewRateLimiter(client)
	scope := "it-" + strconv.FormatInt(time.Now().UnixNano(), 36)
	max := 2

	r := gin.New()
	r.GET("/test", rl.Limit(scope, max, 2*time.Second), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	for i := 0; i < max; i++ {
		assert.Equal(t, 200, do(r, "GET", "/test", nil).Code)
	}
	assert.Equal(t, 429, do(r, "GET", "/test", nil).Code)
}

func TestTimeout(t *testing.T) {
	r := gin.New()
	r.GET("/slow", Timeout(20*time.Millisecond), func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	r.GET("/fast", Timeout(time.Second), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := do(r, "GET", "/slow", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "request timeout")

	assert.Equal(t, http.StatusNoContent, do(r, "GET", "/fast", nil).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS("http://localhost:5173/"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, http.MethodOptions, "/x", map[string]string{"Origin": "http://localhost:5173"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = do(r, http.MethodGet, "/x", map[string]string{"Origin": "http://evil.test"})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLoggerSetsID(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger())
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := do(r, "GET", "/x", nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = do(r, "GET", "/x", map[string]string{RequestIDHeader: "abc"})
	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestNotBlankValidator(t *testing.T) {
	RegisterValidators()

	type body struct {
		Text string `json:"text" binding:"required,notblank"`
	}
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var b body
		if err := c.ShouldBindJSON(&b); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	post := func(payload string) int {
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	assert.Equal(t, 400, post(`{"text":"   "}`))
	assert.Equal(t, 200, post(`{"text":" hola "}`))
}
