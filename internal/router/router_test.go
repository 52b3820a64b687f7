package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atanasster/pad-champions/internal/client"
	"github.com/atanasster/pad-champions/internal/config"
	"github.com/atanasster/pad-champions/internal/database"
	"github.com/atanasster/pad-champions/internal/domain"
	"github.com/atanasster/pad-champions/internal/metrics"
	"github.com/atanasster/pad-champions/internal/util"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	tokens *util.TokenManager
	blobs  *client.MockS3Client
}

// setupTestRouter wires the full router on an in-memory sqlite database
func setupTestRouter(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db, zap.NewNop()))

	defaults := config.Default()
	tokens := util.NewTokenManager("test-secret", "pad-champions", time.Hour)
	blobs := client.NewMockS3Client()

	r := Setup(Config{
		DB:          db,
		Logger:      zap.NewNop(),
		Tokens:      tokens,
		Metrics:     metrics.NewWithRegistry(prometheus.NewRegistry(), zap.NewNop()),
		Blobs:       blobs,
		BasePath:    "/api",
		Resources:   defaults.Resources,
		GenAIConfig: defaults.GenAI,
		CORSOrigins: "*",
	})
	return &testEnv{router: r, db: db, tokens: tokens, blobs: blobs}
}

func (e *testEnv) token(t *testing.T, actor domain.Actor) string {
	t.Helper()
	token, _, err := e.tokens.Issue(actor)
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, out))
}

func TestInfrastructureEndpoints(t *testing.T) {
	env := setupTestRouter(t)

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		w := env.do(t, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	w := env.do(t, http.MethodGet, "/health", "", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestPublicAndProtectedRoutes(t *testing.T) {
	env := setupTestRouter(t)

	w := env.do(t, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodGet, "/api/forum/posts", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.do(t, http.MethodGet, "/api/forum/posts", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.token(t, domain.Actor{ID: "u1", Role: domain.RoleVolunteer})
	w = env.do(t, http.MethodGet, "/api/forum/posts", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestOptionalBackendsUnavailable(t *testing.T) {
	env := setupTestRouter(t)
	token := env.token(t, domain.Actor{ID: "u1", Role: domain.RoleVolunteer})

	w := env.do(t, http.MethodGet, "/api/live?topic=folder:root", token, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = env.do(t, http.MethodPost, "/api/screening/analyze", "", map[string]string{"medicalHistory": "leg pain"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestForumThreadFlow(t *testing.T) {
	env := setupTestRouter(t)
	author := env.token(t, domain.Actor{ID: "author", Name: "Ada", Role: domain.RoleVolunteer})
	replier := env.token(t, domain.Actor{ID: "replier", Name: "Bo", Role: domain.RoleLearner})

	w := env.do(t, http.MethodPost, "/api/forum/posts", author, map[string]string{
		"title":   "Community screening",
		"content": "Who is joining the Saturday event?",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var post struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &post)

	w = env.do(t, http.MethodPost, "/api/forum/posts/"+post.ID+"/replies", replier, map[string]string{"content": "I am"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reply struct {
		ID string `json:"id"`
	}
	decodeData(t, w, &reply)

	w = env.do(t, http.MethodPost, "/api/forum/posts/"+post.ID+"/replies", author, map[string]string{
		"content":  "Great, see you there",
		"parentId": reply.ID,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.do(t, http.MethodGet, "/api/forum/posts/"+post.ID, replier, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var thread struct {
		Post struct {
			CommentCount int `json:"commentCount"`
		} `json:"post"`
		Comments []struct {
			ID       string `json:"id"`
			Children []struct {
				Content string `json:"content"`
			} `json:"children"`
		} `json:"comments"`
	}
	decodeData(t, w, &thread)
	assert.Equal(t, 2, thread.Post.CommentCount)
	require.Len(t, thread.Comments, 1)
	assert.Equal(t, reply.ID, thread.Comments[0].ID)
	require.Len(t, thread.Comments[0].Children, 1)
	assert.Equal(t, "Great, see you there", thread.Comments[0].Children[0].Content)

	// the author was told about the reply
	w = env.do(t, http.MethodGet, "/api/notifications/unread-count", author, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var unread struct {
		Count int64 `json:"count"`
	}
	decodeData(t, w, &unread)
	assert.Equal(t, int64(1), unread.Count)

	// volunteers cannot moderate
	w = env.do(t, http.MethodDelete, "/api/forum/posts/"+post.ID, author, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStoredRoleOverridesMissingClaim(t *testing.T) {
	env := setupTestRouter(t)
	require.NoError(t, env.db.Create(&domain.UserProfile{UID: "mod", Role: domain.RoleModerator}).Error)

	// no role claim: the stored moderator role applies
	token := env.token(t, domain.Actor{ID: "mod"})

	w := env.do(t, http.MethodPost, "/api/events", token, map[string]interface{}{
		"name": "Pharmacy screening",
		"date": "2025-07-01",
		"type": "Pharmacy",
	})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}
