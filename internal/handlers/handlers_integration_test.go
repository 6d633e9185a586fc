package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"gallery/internal/handlers"
	"gallery/internal/middleware"
	"gallery/internal/models"
	"gallery/internal/repositories"
	"gallery/internal/services"
	"gallery/pkg/unsplash"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newFakeUnsplash serves canned search and photo-detail payloads.
func newFakeUnsplash(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/search/photos", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"total_pages": 3,
			"results": [{
				"id": "abc123",
				"alt_description": "a cat",
				"user": {"name": "Jane Doe"},
				"urls": {"thumb": "https://img/t", "full": "https://img/f"},
				"tags": [{"title": "cats"}]
			}]
		}`)
	})

	mux.HandleFunc("/photos/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/photos/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": %q,
			"alt_description": "a cat",
			"user": {"name": "Jane Doe"},
			"urls": {"thumb": "https://img/t", "full": "https://img/f"},
			"tags": [{"title": "cats"}]
		}`, r.URL.Path[len("/photos/"):])
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// setupApp wires the full application against an in-memory sqlite database
// and the fake Unsplash server. An empty accessKey leaves the catalog
// unconfigured, as in a deployment missing the env var.
func setupApp(t *testing.T, accessKey string) (*fiber.App, *services.AuthService) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	assert.NoError(t, err)
	err = db.AutoMigrate(&models.User{}, &models.Image{}, &models.Like{}, &models.Comment{})
	assert.NoError(t, err)

	unsplashClient := unsplash.NewClient(accessKey, nil)
	unsplashClient.SetBaseURL(newFakeUnsplash(t).URL)

	userRepo := repositories.NewGORMUserRepository(db)
	imageRepo := repositories.NewGORMImageRepository(db)
	likeRepo := repositories.NewGORMLikeRepository(db)
	commentRepo := repositories.NewGORMCommentRepository(db)

	authService := services.NewAuthService(userRepo, "test_jwt_secret")
	catalogService := services.NewCatalogService(imageRepo, likeRepo, commentRepo, unsplashClient)
	engagementService := services.NewEngagementService(catalogService, imageRepo, likeRepo, commentRepo, nil)

	app := fiber.New()
	api := app.Group("/api")
	requiredAuth := middleware.AuthRequired(authService)
	optionalAuth := middleware.OptionalAuth(authService)

	handlers.NewAuthHandler(authService).RegisterRoutes(api)
	handlers.NewImageHandler(catalogService, engagementService).RegisterRoutes(api, requiredAuth, optionalAuth)
	handlers.NewCommentHandler(engagementService).RegisterRoutes(api, requiredAuth)

	return app, authService
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, app *fiber.App, method, path string, body interface{}, token string) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		assert.NoError(t, err)
		reader = bytes.NewReader(jsonBody)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	assert.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(out))
}

// registerUser creates a user and returns its session token and user id.
func registerUser(t *testing.T, app *fiber.App, name, email, password string) (string, string) {
	t.Helper()

	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": name, "email": email, "password": password,
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp struct {
		User  models.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	decodeBody(t, resp, &registerResp)
	return registerResp.Token, registerResp.User.ID
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func TestAuthEndpoints(t *testing.T) {
	app, authService := setupApp(t, "test-key")

	// Register
	resp := doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var registerResp struct {
		User  models.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	decodeBody(t, resp, &registerResp)
	assert.NotEmpty(t, registerResp.User.ID)
	assert.Equal(t, "Alice", registerResp.User.Name)
	assert.NotEmpty(t, registerResp.Token)

	// Registering the same email again conflicts.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@x.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var errResp map[string]string
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "User already exists", errResp["error"])

	// Validation floors
	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Bob", "email": "bob@x.com", "password": "short",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Password must be at least 6 characters long", errResp["error"])

	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Bo", "email": "bo@x.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, app, http.MethodPost, "/api/auth/register", map[string]string{
		"name": "Carol", "email": "not-an-email", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Invalid email format", errResp["error"])

	// Wrong password fails with the generic message.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@x.com", "password": "wrong",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Invalid credentials", errResp["error"])

	// Unknown email fails identically.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "nobody@x.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Correct login returns a token that authenticates to the same user.
	resp = doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
		"email": "alice@x.com", "password": "secret1",
	}, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var loginResp struct {
		User  models.PublicUser `json:"user"`
		Token string            `json:"token"`
	}
	decodeBody(t, resp, &loginResp)
	assert.Equal(t, registerResp.User.ID, loginResp.User.ID)

	user, err := authService.Authenticate(loginResp.Token)
	assert.NoError(t, err)
	assert.Equal(t, registerResp.User.ID, user.ID)
}

func TestImageSearchEndpoint(t *testing.T) {
	app, _ := setupApp(t, "test-key")

	resp := doJSON(t, app, http.MethodGet, "/api/images/unsplash?query=cats&page=1", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var searchResp struct {
		Page       int              `json:"page"`
		PerPage    int              `json:"perPage"`
		TotalPages int              `json:"totalPages"`
		Images     []unsplash.Photo `json:"images"`
	}
	decodeBody(t, resp, &searchResp)
	assert.Equal(t, 1, searchResp.Page)
	assert.Equal(t, 9, searchResp.PerPage)
	assert.Equal(t, 3, searchResp.TotalPages)
	assert.Len(t, searchResp.Images, 1)
	assert.Equal(t, "abc123", searchResp.Images[0].UnsplashID)

	// Negative pagination is rejected.
	resp = doJSON(t, app, http.MethodGet, "/api/images/unsplash?page=-1", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

func TestImageSearchWithoutAccessKey(t *testing.T) {
	app, _ := setupApp(t, "")

	resp := doJSON(t, app, http.MethodGet, "/api/images/unsplash?query=cats&page=1", nil, "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var errResp map[string]string
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Unsplash access key not found", errResp["error"])
}

func TestLikeEndpoint(t *testing.T) {
	app, _ := setupApp(t, "test-key")
	token, _ := registerUser(t, app, "Alice", "alice@x.com", "secret1")

	// No token: 401, and the handler is never reached.
	resp := doJSON(t, app, http.MethodPost, "/api/images/like/abc123", nil, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Toggle on.
	resp = doJSON(t, app, http.MethodPost, "/api/images/like/abc123", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var likeResp map[string]string
	decodeBody(t, resp, &likeResp)
	assert.Equal(t, "Liked", likeResp["message"])

	// Toggle off.
	resp = doJSON(t, app, http.MethodPost, "/api/images/like/abc123", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &likeResp)
	assert.Equal(t, "Unliked", likeResp["message"])
}

func TestImageDetailEndpoint(t *testing.T) {
	app, _ := setupApp(t, "test-key")
	token, _ := registerUser(t, app, "Alice", "alice@x.com", "secret1")

	// Anonymous detail view lazily caches the image; liked defaults false.
	resp := doJSON(t, app, http.MethodGet, "/api/images/abc123", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var detail struct {
		UnsplashID string `json:"unsplashId"`
		Title      string `json:"title"`
		Likes      int64  `json:"likes"`
		Liked      bool   `json:"liked"`
	}
	decodeBody(t, resp, &detail)
	assert.Equal(t, "abc123", detail.UnsplashID)
	assert.Equal(t, "a cat", detail.Title)
	assert.Equal(t, int64(0), detail.Likes)
	assert.False(t, detail.Liked)

	// Like it, then the authenticated view reflects the user's state.
	resp = doJSON(t, app, http.MethodPost, "/api/images/like/abc123", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, http.MethodGet, "/api/images/abc123", nil, token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.Equal(t, int64(1), detail.Likes)
	assert.True(t, detail.Liked)

	// Anonymous view still sees the count but no per-user flag.
	resp = doJSON(t, app, http.MethodGet, "/api/images/abc123", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &detail)
	assert.Equal(t, int64(1), detail.Likes)
	assert.False(t, detail.Liked)
}

func TestCommentEndpoints(t *testing.T) {
	app, _ := setupApp(t, "test-key")
	token, userID := registerUser(t, app, "Alice", "alice@x.com", "secret1")

	// Posting requires a session.
	resp := doJSON(t, app, http.MethodPost, "/api/comments/abc123", map[string]string{"content": "hello"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	// Content below the 3-character floor is rejected and stores nothing.
	resp = doJSON(t, app, http.MethodPost, "/api/comments/abc123", map[string]string{"content": "hi"}, token)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var errResp map[string]string
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Comment must be at least 3 characters long", errResp["error"])

	// A valid comment is created with its author's public fields attached.
	resp = doJSON(t, app, http.MethodPost, "/api/comments/abc123", map[string]string{"content": "what a cat"}, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	var created services.CommentView
	decodeBody(t, resp, &created)
	assert.Equal(t, "what a cat", created.Content)
	assert.Equal(t, userID, created.User.ID)
	assert.Equal(t, "Alice", created.User.Name)

	// The rejected comment never landed: exactly one comment is listed.
	// The raw body is inspected so nothing beyond the public author fields
	// (notably the email) can slip into the anonymous response.
	resp = doJSON(t, app, http.MethodGet, "/api/comments/abc123", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rawComments []map[string]interface{}
	decodeBody(t, resp, &rawComments)
	assert.Len(t, rawComments, 1)
	assert.Equal(t, created.ID, rawComments[0]["id"])
	author, ok := rawComments[0]["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Alice", author["name"])
	assert.Equal(t, userID, author["id"])
	assert.NotContains(t, author, "email")
	assert.Len(t, author, 2)

	// The image-detail view carries the same reduced author projection.
	resp = doJSON(t, app, http.MethodGet, "/api/images/abc123", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var rawDetail map[string]interface{}
	decodeBody(t, resp, &rawDetail)
	detailComments, ok := rawDetail["comments"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, detailComments, 1)
	detailAuthor, ok := detailComments[0].(map[string]interface{})["user"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "Alice", detailAuthor["name"])
	assert.NotContains(t, detailAuthor, "email")

	// Comments on an image nobody interacted with: 404.
	resp = doJSON(t, app, http.MethodGet, "/api/comments/nothere", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Image not found", errResp["error"])
}

func TestCommentOnUnresolvableImage(t *testing.T) {
	app, _ := setupApp(t, "test-key")
	token, _ := registerUser(t, app, "Alice", "alice@x.com", "secret1")

	resp := doJSON(t, app, http.MethodPost, "/api/comments/missing", map[string]string{"content": "hello"}, token)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var errResp map[string]string
	decodeBody(t, resp, &errResp)
	assert.Equal(t, "Image not found", errResp["error"])
}
