package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"blogr/internal/config"
	"blogr/internal/database"
	"blogr/internal/models"
	"blogr/internal/router"
	"blogr/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testCookie = "blogr_session"

type testEnv struct {
	DB       *gorm.DB
	Sessions *session.Store
	Router   *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Init(config.DatabaseConfig{
		Path: filepath.Join(t.TempDir(), "blogr.db"),
	})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	sessions := session.NewStore(time.Hour)

	cfg := &config.Config{
		Server:  config.ServerConfig{Mode: gin.TestMode},
		Session: config.SessionConfig{CookieName: testCookie, TTLHours: 1},
	}
	return &testEnv{
		DB:       db,
		Sessions: sessions,
		Router:   router.SetupRouter(cfg, db, sessions),
	}
}

// do sends a form-encoded request through the full router.
func (e *testEnv) do(method, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body string
	if form != nil {
		body = form.Encode()
	}
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

func creds(username, password string) url.Values {
	return url.Values{"username": {username}, "password": {password}}
}

func postForm(title, body string) url.Values {
	return url.Values{"title": {title}, "body": {body}}
}

// register creates a user through the HTTP flow and returns the row.
func (e *testEnv) register(t *testing.T, username, password string) *models.User {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/register", creds(username, password), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	var user models.User
	require.NoError(t, e.DB.Where("username = ?", username).First(&user).Error)
	return &user
}

// login authenticates and returns the session cookie.
func (e *testEnv) login(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := e.do(http.MethodPost, "/auth/login", creds(username, password), nil)
	require.Equal(t, http.StatusSeeOther, w.Code)

	for _, c := range w.Result().Cookies() {
		if c.Name == testCookie && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// registerAndLogin is the common fixture: fresh user, live session.
func (e *testEnv) registerAndLogin(t *testing.T, username, password string) (*models.User, *http.Cookie) {
	t.Helper()
	user := e.register(t, username, password)
	return user, e.login(t, username, password)
}

// errMessage extracts the message field of the error envelope.
func errMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Message
}

type postJSON struct {
	ID       uint      `json:"id"`
	Title    string    `json:"title"`
	Body     string    `json:"body"`
	Created  time.Time `json:"created"`
	AuthorID uint      `json:"author_id"`
	Username string    `json:"username"`
}

// listPosts fetches the public listing and decodes it.
func (e *testEnv) listPosts(t *testing.T) []postJSON {
	t.Helper()
	w := e.do(http.MethodGet, "/posts", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Posts []postJSON `json:"posts"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data.Posts
}

// getPost fetches a single post by id through the public route.
func (e *testEnv) getPost(t *testing.T, id uint) (*httptest.ResponseRecorder, *postJSON) {
	t.Helper()
	w := e.do(http.MethodGet, "/posts/"+itoa(id), nil, nil)
	if w.Code != http.StatusOK {
		return w, nil
	}
	var body struct {
		Data struct {
			Post postJSON `json:"post"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, &body.Data.Post
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
