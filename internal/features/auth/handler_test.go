package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/pkg/jwt"
	"github.com/xyz-asif/bloghunt/internal/pkg/session"
)

const cookieName = "token"

func newRouter(t *testing.T) (*gin.Engine, *fixture) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	f := newFixture(t)

	r := gin.New()
	api := r.Group("/api")
	handler := NewHandler(f.svc, session.CookieConfig{Name: cookieName, MaxAge: 24 * time.Hour})
	RegisterRoutes(api, handler, NewAuthMiddleware(f.svc, cookieName), nil, false)
	return r, f
}

func do(r *gin.Engine, method, path, body string, mods ...func(*http.Request)) (*httptest.ResponseRecorder, map[string]any) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, m := range mods {
		m(req)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func withCookie(c *http.Cookie) func(*http.Request) {
	return func(r *http.Request) { r.AddCookie(c) }
}

func withBearer(token string) func(*http.Request) {
	return func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }
}

func registerAndLogin(t *testing.T, r *gin.Engine) *http.Cookie {
	t.Helper()
	w, _ := do(r, "POST", "/api/auth/register", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)

	w, body := do(r, "POST", "/api/auth/login", `{"email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code, body)

	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			require.True(t, c.HttpOnly)
			require.Equal(t, http.SameSiteLaxMode, c.SameSite)
			require.InDelta(t, 86400, c.MaxAge, 5)
			return c
		}
	}
	t.Fatal("login did not set the session cookie")
	return nil
}

func TestRegisterHandler(t *testing.T) {
	r, _ := newRouter(t)

	w, body := do(r, "POST", "/api/auth/register", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	data := body["data"].(map[string]any)
	require.Equal(t, "jane@example.com", data["email"])
	require.NotContains(t, data, "password")
	require.NotEmpty(t, data["_id"])

	w, body = do(r, "POST", "/api/auth/register", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "CONFLICT", body["code"])

	w, body = do(r, "POST", "/api/auth/register", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Equal(t, "password is required", body["message"])
}

func TestLoginHandlerKeepsTokenInCookie(t *testing.T) {
	r, _ := newRouter(t)
	_, body := do(r, "POST", "/api/auth/register", `{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, true, body["success"])

	w, body := do(r, "POST", "/api/auth/login", `{"email":"jane@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, w.Code)

	data := body["data"].(map[string]any)
	require.NotContains(t, data, "token")
	require.Equal(t, "jane@example.com", data["user"].(map[string]any)["email"])

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	require.True(t, cookie.HttpOnly)
	require.NotContains(t, w.Body.String(), cookie.Value)
}

func TestLoginHandlerFailures(t *testing.T) {
	r, _ := newRouter(t)
	registerAndLogin(t, r)

	w1, b1 := do(r, "POST", "/api/auth/login", `{"email":"jane@example.com","password":"wrong12"}`)
	w2, b2 := do(r, "POST", "/api/auth/login", `{"email":"nobody@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusBadRequest, w1.Code)
	require.Equal(t, w1.Code, w2.Code)
	require.Equal(t, b1["message"], b2["message"])
	require.Empty(t, w1.Result().Cookies())
}

func TestAuthMiddleware_NoToken(t *testing.T) {
	r, _ := newRouter(t)

	w, body := do(r, "GET", "/api/auth/me", "")
	require.Equal(t, 401, w.Code)
	require.Equal(t, false, body["success"])
	require.Equal(t, float64(401), body["statusCode"])
	require.Equal(t, "Not authorized, no token", body["message"])
}

func TestAuthMiddleware_CookieAndBearer(t *testing.T) {
	r, _ := newRouter(t)
	cookie := registerAndLogin(t, r)

	w, body := do(r, "GET", "/api/auth/me", "", withCookie(cookie))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "jane@example.com", body["data"].(map[string]any)["email"])

	w, _ = do(r, "GET", "/api/auth/me", "", withBearer(cookie.Value))
	require.Equal(t, 200, w.Code)

	w, body = do(r, "GET", "/api/auth/me", "", withBearer("not-a-token"))
	require.Equal(t, 401, w.Code)
	require.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_Expired(t *testing.T) {
	r, f := newRouter(t)
	registerAndLogin(t, r)
	user, _ := f.store.FindByEmail(t.Context(), "jane@example.com")

	expired, err := jwt.NewManager(&jwt.Config{Secret: "test-secret", AccessExpiry: time.Nanosecond})
	require.NoError(t, err)
	token, _, err := expired.Issue(user.ID.Hex())
	require.NoError(t, err)

	w, body := do(r, "GET", "/api/auth/me", "", withBearer(token))
	require.Equal(t, 401, w.Code)
	require.Equal(t, "TOKEN_EXPIRED", body["code"])
}

// unreachableStore fails user lookups by id while down is set
type unreachableStore struct {
	*MemoryStore
	down bool
}

func (s *unreachableStore) FindByID(ctx context.Context, id primitive.ObjectID) (*User, error) {
	if s.down {
		return nil, errors.New("server selection error: context deadline exceeded")
	}
	return s.MemoryStore.FindByID(ctx, id)
}

func TestAuthMiddleware_UserLookup(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens, err := jwt.NewManager(jwt.DefaultConfig("test-secret"))
	require.NoError(t, err)

	store := &unreachableStore{MemoryStore: NewMemoryStore()}
	svc := NewService(store, NewSessionManager(tokens, nil), nil, nil, nil)
	r := gin.New()
	handler := NewHandler(svc, session.CookieConfig{Name: cookieName, MaxAge: 24 * time.Hour})
	RegisterRoutes(r.Group("/api"), handler, NewAuthMiddleware(svc, cookieName), nil, false)

	cookie := registerAndLogin(t, r)

	store.down = true
	w, body := do(r, "GET", "/api/auth/me", "", withCookie(cookie))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, "INTERNAL_ERROR", body["code"])

	store.down = false
	w, _ = do(r, "GET", "/api/auth/me", "", withCookie(cookie))
	require.Equal(t, http.StatusOK, w.Code)

	ghost, _, err := svc.Sessions().Issue(primitive.NewObjectID())
	require.NoError(t, err)
	w, body = do(r, "GET", "/api/auth/me", "", withBearer(ghost))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, "USER_NOT_FOUND", body["code"])
}

func TestLogoutHandler(t *testing.T) {
	r, _ := newRouter(t)
	cookie := registerAndLogin(t, r)

	w, _ := do(r, "POST", "/api/auth/logout", "", withCookie(cookie))
	require.Equal(t, 200, w.Code)
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	require.Less(t, cleared[0].MaxAge, 0)

	w, body := do(r, "GET", "/api/auth/me", "", withCookie(cookie))
	require.Equal(t, 401, w.Code)
	require.Equal(t, "TOKEN_REVOKED", body["code"])

	// logging out without a session still succeeds
	w, _ = do(r, "POST", "/api/auth/logout", "")
	require.Equal(t, 200, w.Code)
}

func TestProfileHandlers(t *testing.T) {
	r, f := newRouter(t)
	cookie := registerAndLogin(t, r)
	user, _ := f.store.FindByEmail(t.Context(), "jane@example.com")
	f.counter[user.ID] = 2

	w, body := do(r, "GET", "/api/auth/userProfile/"+user.ID.Hex(), "")
	require.Equal(t, 200, w.Code)
	require.Equal(t, float64(2), body["data"].(map[string]any)["blogCount"])

	w, _ = do(r, "GET", "/api/auth/userProfile/nope", "")
	require.Equal(t, 400, w.Code)

	w, body = do(r, "PUT", "/api/auth/userUpdate", `{"bio":"Hello there, I write."}`, withCookie(cookie))
	require.Equal(t, 200, w.Code)
	require.Equal(t, "Hello there, I write.", body["data"].(map[string]any)["bio"])

	w, _ = do(r, "PUT", "/api/auth/changePassword", `{"oldPassword":"secret1","newPassword":"secret2"}`, withCookie(cookie))
	require.Equal(t, 200, w.Code)

	w, _ = do(r, "POST", "/api/auth/login", `{"email":"jane@example.com","password":"secret2"}`)
	require.Equal(t, 200, w.Code)
}
