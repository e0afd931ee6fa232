package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/courseboard-go/apperror"
	"github.com/user/courseboard-go/config"
)

type authTestApp struct {
	router *chi.Mux
	store  *fakeUserStore
	bridge *SessionBridge
}

// newAuthTestApp wires the account routes the way main does, over an
// in-memory store.
func newAuthTestApp(t *testing.T) *authTestApp {
	t.Helper()
	store := newFakeUserStore()
	svc := newTestAccountService(store)
	bridge := NewSessionBridge(svc, &config.SessionConfig{Secret: "test-secret", TTL: time.Hour})
	handlers := NewHandlers(svc, bridge)

	r := chi.NewRouter()
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", handlers.HandleRegister())
		r.Post("/login", handlers.HandleLogin())
		r.Get("/logout", handlers.HandleLogout())
	})
	return &authTestApp{router: r, store: store, bridge: bridge}
}

func (app *authTestApp) postJSON(t *testing.T, path string, body interface{}, cookies []*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleRegister_Success(t *testing.T) {
	app := newAuthTestApp(t)

	rec := app.postJSON(t, "/users/register", map[string]interface{}{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"username":  "ab",
		"password":  "p",
		"confirm":   "p",
	}, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp RegisterResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "New user successfully added!", resp.Message)
	require.NotNil(t, resp.User)
	assert.NotZero(t, resp.User.ID)
	assert.Equal(t, 1, app.store.creates)

	// The hash never leaks into the response body.
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestHandleRegister_ConfirmMismatch(t *testing.T) {
	app := newAuthTestApp(t)

	rec := app.postJSON(t, "/users/register", map[string]interface{}{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"username":  "ab",
		"password":  "p",
		"confirm":   "wrong",
	}, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp apperror.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Details, "Passwords do not match")
	assert.Zero(t, app.store.creates, "failed registration must not persist anything")
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	app := newAuthTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, app.store.creates)
}

func TestHandleRegister_FormEncoded(t *testing.T) {
	app := newAuthTestApp(t)

	form := "firstName=A&lastName=B&email=a%40b.com&username=ab&password=p&confirm=p"
	req := httptest.NewRequest(http.MethodPost, "/users/register", bytes.NewReader([]byte(form)))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, app.store.creates)
}

func TestHandleLogin_SuccessRedirectsToRoot(t *testing.T) {
	app := newAuthTestApp(t)
	registerTestUser(t, app)

	rec := app.postJSON(t, "/users/login", LoginRequest{Username: "ab", Password: "p"}, nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	// The session now resolves to the logged-in user.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		next.AddCookie(c)
	}
	user, err := app.bridge.CurrentUser(next)
	require.NoError(t, err)
	assert.Equal(t, "ab", user.Username)
}

func TestHandleLogin_DenialRedirectsToLogin(t *testing.T) {
	app := newAuthTestApp(t)
	registerTestUser(t, app)

	tests := []struct {
		name string
		req  LoginRequest
	}{
		{"wrong password", LoginRequest{Username: "ab", Password: "bad"}},
		{"unknown user", LoginRequest{Username: "nobody", Password: "p"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.postJSON(t, "/users/login", tt.req, nil)

			assert.Equal(t, http.StatusSeeOther, rec.Code)
			assert.Equal(t, "/users/login", rec.Header().Get("Location"))

			next := httptest.NewRequest(http.MethodGet, "/", nil)
			for _, c := range rec.Result().Cookies() {
				next.AddCookie(c)
			}
			_, err := app.bridge.CurrentUser(next)
			assert.ErrorIs(t, err, ErrNoSession, "session must remain anonymous")
		})
	}
}

func TestHandleLogout(t *testing.T) {
	app := newAuthTestApp(t)
	registerTestUser(t, app)

	loginRec := app.postJSON(t, "/users/login", LoginRequest{Username: "ab", Password: "p"}, nil)
	require.Equal(t, http.StatusSeeOther, loginRec.Code)

	logoutReq := httptest.NewRequest(http.MethodGet, "/users/logout", nil)
	for _, c := range loginRec.Result().Cookies() {
		logoutReq.AddCookie(c)
	}
	logoutRec := httptest.NewRecorder()
	app.router.ServeHTTP(logoutRec, logoutReq)

	assert.Equal(t, http.StatusSeeOther, logoutRec.Code)
	assert.Equal(t, "/users/login", logoutRec.Header().Get("Location"))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range logoutRec.Result().Cookies() {
		next.AddCookie(c)
	}
	_, err := app.bridge.CurrentUser(next)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestHandleLogout_WithoutSession(t *testing.T) {
	app := newAuthTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/users/logout", nil)
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/users/login", rec.Header().Get("Location"))
}

func registerTestUser(t *testing.T, app *authTestApp) {
	t.Helper()
	rec := app.postJSON(t, "/users/register", map[string]interface{}{
		"firstName": "A",
		"lastName":  "B",
		"email":     "a@b.com",
		"username":  "ab",
		"password":  "p",
		"confirm":   "p",
	}, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireUser(t *testing.T) {
	app := newAuthTestApp(t)
	registerTestUser(t, app)

	protected := chi.NewRouter()
	protected.Use(RequireUser(app.bridge))
	protected.Get("/me", func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		require.True(t, ok)
		writeJSON(w, http.StatusOK, user)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("authenticated passes through", func(t *testing.T) {
		loginRec := app.postJSON(t, "/users/login", LoginRequest{Username: "ab", Password: "p"}, nil)
		require.Equal(t, http.StatusSeeOther, loginRec.Code)

		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		for _, c := range loginRec.Result().Cookies() {
			req.AddCookie(c)
		}
		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)

		var user User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "ab", user.Username)
		assert.Empty(t, user.HashedPassword)
	})
}
