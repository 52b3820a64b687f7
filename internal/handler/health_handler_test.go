package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/atanasster/pad-champions/internal/client"
)

type stubGenAI struct{}

func (stubGenAI) StreamCompletion(ctx context.Context, req client.CompletionRequest) (<-chan client.StreamEvent, error) {
	return streamOf(), nil
}

func setupHealthRouter(t *testing.T, rdb *redis.Client, genai client.GenAIClient) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	h := NewHealthHandler(db, rdb, genai)
	r := gin.New()
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)
	return r, db
}

func getReadiness(t *testing.T, r *gin.Engine) (int, ReadinessResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	var body ReadinessResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w.Code, body
}

func TestHealthHandler(t *testing.T) {
	r, db := setupHealthRouter(t, nil, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	code, body := getReadiness(t, r)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ready", body.Status)
	assert.Equal(t, map[string]string{
		"database":  "ok",
		"redis":     "disabled",
		"screening": "disabled",
	}, body.Dependencies)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	code, body = getReadiness(t, r)
	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "unreachable", body.Dependencies["database"])
}

func TestHealthHandler_OptionalDependencies(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	r, _ := setupHealthRouter(t, rdb, stubGenAI{})

	code, body := getReadiness(t, r)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "unreachable", body.Dependencies["redis"])
	assert.Equal(t, "ok", body.Dependencies["screening"])
	assert.Equal(t, "ok", body.Dependencies["database"])
}
