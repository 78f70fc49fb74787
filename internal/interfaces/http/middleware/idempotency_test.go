package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	redispkg "cotahub.backend/pkg/redis"
)

func setupIdempotencyRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	srv := miniredis.RunT(t)
	cli := redisv9.NewClient(&redisv9.Options{Addr: srv.Addr()})
	redispkg.SetClient(cli)
	t.Cleanup(func() { _ = cli.Close() })
	return srv
}

func idempotencyRouter(userID uuid.UUID, handler gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserIDKey, userID)
		c.Next()
	})
	r.Use(IdempotencyMiddleware())
	r.POST("/x", handler)
	return r
}

func TestIdempotencyMiddleware_NoHeaderPassthrough(t *testing.T) {
	setupIdempotencyRedis(t)
	r := idempotencyRouter(uuid.New(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestIdempotencyMiddleware_ReplaysCachedResponse(t *testing.T) {
	setupIdempotencyRedis(t)
	calls := 0
	r := idempotencyRouter(uuid.New(), func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"id": "payout-1"})
	})

	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}"))
	req.Header.Set(IdempotencyHeader, "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	first := w.Body.String()

	req = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader("{}"))
	req.Header.Set(IdempotencyHeader, "key-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "true", w.Header().Get("X-Idempotency-Hit"))
	require.JSONEq(t, first, w.Body.String())
	require.Equal(t, 1, calls)
}

func TestIdempotencyMiddleware_ProcessingConflict(t *testing.T) {
	srv := setupIdempotencyRedis(t)
	userID := uuid.New()
	srv.Set("idempotency:"+userID.String()+":key-1", "processing")

	r := idempotencyRouter(userID, func(c *gin.Context) { c.Status(http.StatusCreated) })

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestIdempotencyMiddleware_FailureReleasesKey(t *testing.T) {
	setupIdempotencyRedis(t)
	userID := uuid.New()
	calls := 0
	r := idempotencyRouter(userID, func(c *gin.Context) {
		calls++
		if calls == 1 {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": "saldo insuficiente"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": "payout-1"})
	})

	req := httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "key-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// the failed attempt must not be cached; the retry goes through
	req = httptest.NewRequest(http.MethodPost, "/x", nil)
	req.Header.Set(IdempotencyHeader, "key-1")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, 2, calls)
}

func TestIdempotencyMiddleware_KeysScopedPerUser(t *testing.T) {
	setupIdempotencyRedis(t)
	gin.SetMode(gin.TestMode)

	calls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(UserIDKey, uuid.MustParse(c.GetHeader("X-Test-User")))
		c.Next()
	})
	r.Use(IdempotencyMiddleware())
	r.POST("/x", func(c *gin.Context) {
		calls++
		c.JSON(http.StatusCreated, gin.H{"n": calls})
	})

	userA := uuid.New().String()
	userB := uuid.New().String()

	for _, user := range []string{userA, userB} {
		req := httptest.NewRequest(http.MethodPost, "/x", nil)
		req.Header.Set(IdempotencyHeader, "shared-key")
		req.Header.Set("X-Test-User", user)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	require.Equal(t, 2, calls)
}
