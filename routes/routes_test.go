package routes

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"wsid/config"
	"wsid/handlers"
	"wsid/utils"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.JWTSecret = "test-access-secret"
	config.AppConfig.RefreshSecret = "test-refresh-secret"
}

// stubBundle fills every handler slot with a handler that just answers 200,
// so a request that reaches it proves the middleware chain let it through.
func stubBundle() *handlers.HandlerBundle {
	hb := &handlers.HandlerBundle{}
	ok := gin.HandlerFunc(func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	v := reflect.ValueOf(hb).Elem()
	for i := 0; i < v.NumField(); i++ {
		v.Field(i).Set(reflect.ValueOf(ok))
	}
	return hb
}

func newTestRouter() *gin.Engine {
	r := gin.New()
	hb := stubBundle()
	RegisterAuthRoutes(r, hb)
	RegisterUserRoutes(r, hb)
	RegisterPostRoutes(r, hb)
	RegisterVoteRoutes(r, hb)
	RegisterCommentRoutes(r, hb)
	RegisterMiscRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	return r
}

func do(t *testing.T, r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReadEndpointsRequireToken(t *testing.T) {
	r := newTestRouter()
	token, err := utils.GenerateAccessToken("user-1", "user@example.com", "user")
	if err != nil {
		t.Fatalf("GenerateAccessToken() error = %v", err)
	}

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/search"},
		{http.MethodGet, "/api/user/profile/u1"},
		{http.MethodGet, "/api/post/get"},
		{http.MethodGet, "/api/post/get/p1"},
		{http.MethodGet, "/api/post/search"},
		{http.MethodGet, "/api/post/trending"},
		{http.MethodGet, "/api/comment/get/p1"},
		{http.MethodGet, "/api/comment/c1/likes"},
	}
	for _, tc := range paths {
		if w := do(t, r, tc.method, tc.path, ""); w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want %d", tc.method, tc.path, w.Code, http.StatusUnauthorized)
		}
		if w := do(t, r, tc.method, tc.path, token); w.Code != http.StatusOK {
			t.Errorf("%s %s with token: status = %d, want %d", tc.method, tc.path, w.Code, http.StatusOK)
		}
	}
}

func TestReadEndpointsRejectBadToken(t *testing.T) {
	r := newTestRouter()
	if w := do(t, r, http.MethodGet, "/api/post/get", "not-a-jwt"); w.Code != http.StatusForbidden {
		t.Errorf("garbage token: status = %d, want %d", w.Code, http.StatusForbidden)
	}
}

func TestPublicEndpointsAllowAnonymous(t *testing.T) {
	r := newTestRouter()
	public := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/user/trending"},
		{http.MethodPost, "/api/misc/subscribe"},
		{http.MethodPost, "/api/auth/login"},
		{http.MethodPost, "/api/auth/register-step1"},
		{http.MethodPost, "/api/auth/forgot-password"},
	}
	for _, tc := range public {
		if w := do(t, r, tc.method, tc.path, ""); w.Code != http.StatusOK {
			t.Errorf("%s %s anonymous: status = %d, want %d", tc.method, tc.path, w.Code, http.StatusOK)
		}
	}
}
