package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marketly/internal/handlers"
	"marketly/internal/handlers/shared"
	"marketly/internal/models"
	"marketly/internal/services"
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type stubTagService struct {
	services.TagService
}

func (stubTagService) List(context.Context, *utils.PaginationParams) ([]*models.Tag, int64, error) {
	return []*models.Tag{{ID: primitive.NewObjectID(), Name: "oem"}}, 1, nil
}

func newTestEngine(t *testing.T, checks map[string]shared.Pinger) (*gin.Engine, *utils.JWTManager) {
	t.Helper()
	jwtManager := utils.NewJWTManager("router-secret", time.Hour, 24*time.Hour)
	h := &Handlers{
		Health: shared.NewHealthHandler(checks),
		Tag:    handlers.NewTagHandler(stubTagService{}),
	}
	router := NewRouter(Options{
		JWT:             jwtManager,
		Logger:          logger.NewNop(),
		PublicRateLimit: 1000,
		AdminRateLimit:  1000,
	}, h)
	return router, jwtManager
}

func request(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func tokenFor(t *testing.T, manager *utils.JWTManager, role string) string {
	t.Helper()
	pair, err := manager.GenerateTokenPair(primitive.NewObjectID(), role, role+"@example.com")
	require.NoError(t, err)
	return pair.AccessToken
}

func TestHealth(t *testing.T) {
	router, _ := newTestEngine(t, map[string]shared.Pinger{"mongodb": pinger{}, "redis": nil})
	w := request(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Contains(t, w.Body.String(), `"redis":{"status":"disabled"}`)

	router, _ = newTestEngine(t, map[string]shared.Pinger{"mongodb": pinger{err: errors.New("no primary")}})
	w = request(router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "no primary")
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	router, manager := newTestEngine(t, nil)

	w := request(router, http.MethodGet, "/api/v1/admin/tags", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(router, http.MethodGet, "/api/v1/admin/tags", tokenFor(t, manager, utils.RoleCustomer))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeForbidden)

	w = request(router, http.MethodGet, "/api/v1/admin/tags", tokenFor(t, manager, utils.RoleAdmin))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"oem"`)
}

func TestPublicRoutesAllowAnonymous(t *testing.T) {
	router, _ := newTestEngine(t, nil)

	w := request(router, http.MethodGet, "/api/v1/tags", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCustomerRoutesRequireToken(t *testing.T) {
	router, _ := newTestEngine(t, nil)

	w := request(router, http.MethodGet, "/api/v1/cart", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	router, _ := newTestEngine(t, nil)

	w := request(router, http.MethodGet, "/api/v1/nothing-here", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), utils.CodeNotFound)
}
