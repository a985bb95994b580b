package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	bidding "auction-marketplace/internal/biddingService"
	items "auction-marketplace/internal/itemService"
	messages "auction-marketplace/internal/messageService"
	"auction-marketplace/internal/repository"
	"auction-marketplace/internal/server"
	"auction-marketplace/internal/storage"
	users "auction-marketplace/internal/userService"
	"auction-marketplace/services/marketplace/helpers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "integration-test-secret"

type testEnv struct {
	router *gin.Engine
	repo   *repository.MemoryRepo
}

// SetupTestEnv initializes the full router over an in-memory repository.
func SetupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryRepo()
	files, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	router := server.SetupRouter(server.Services{
		Users:    users.NewUserService(repo, testJWTSecret),
		Items:    items.NewItemService(repo),
		Bidding:  bidding.NewBiddingService(repo),
		Messages: messages.NewMessageService(repo),
		Files:    files,
	})
	return &testEnv{router: router, repo: repo}
}

// Do executes a JSON request, optionally authenticated, and parses the body.
func (e *testEnv) Do(t *testing.T, method, url, token string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		var err error
		reqBody, err = json.Marshal(v)
		require.NoError(t, err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	resp := map[string]any{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// DoUpload executes an authenticated multipart upload with a single file
// field and parses the JSON response.
func (e *testEnv) DoUpload(t *testing.T, url, token, field, filename, contentType string, content []byte) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, filename))
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	resp := map[string]any{}
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return resp, w
}

// testPassword derives a per-account password so later logins in a test
// can reconstruct it from the email alone.
func testPassword(email string) string {
	return "pw-" + email
}

// SignupAndLogin registers a fresh account and returns its access token
// together with the user id.
func (e *testEnv) SignupAndLogin(t *testing.T, email string) (token string, userID uint) {
	t.Helper()

	password := testPassword(email)

	resp, w := e.Do(t, http.MethodPost, "/signup", "", helpers.SignupRequest{
		FirstName:   "Test",
		LastName:    "User",
		Email:       email,
		Password:    password,
		DateOfBirth: "1990-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	user := resp["user"].(map[string]any)
	userID = uint(user["id"].(float64))

	resp, w = e.Do(t, http.MethodPost, "/login", "", helpers.LoginRequest{
		Email:    email,
		Password: password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	return resp["access_token"].(string), userID
}

// CreateItem lists an item ending in a week and returns its id.
func (e *testEnv) CreateItem(t *testing.T, token string, title string, minimumBid int64) uint {
	t.Helper()

	resp, w := e.Do(t, http.MethodPost, "/items/create", token, helpers.ItemRequest{
		Title:          title,
		Description:    "integration test listing",
		MinimumBid:     minimumBid,
		AuctionEndDate: time.Now().AddDate(0, 0, 7).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusCreated, w.Code)
	item := resp["item"].(map[string]any)
	return uint(item["id"].(float64))
}
