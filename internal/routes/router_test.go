package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
	"testing"
	"time"

	"user-auth-service/internal/config"
	"user-auth-service/internal/infrastructure/database/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var otpPattern = regexp.MustCompile(`Your OTP is: (\d+)\.`)

type captureNotifier struct {
	mu   sync.Mutex
	to   string
	body string
	err  error
}

func (n *captureNotifier) Send(_ context.Context, to, _, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.to, n.body = to, body
	return nil
}

func (n *captureNotifier) otp(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	m := otpPattern.FindStringSubmatch(n.body)
	require.Len(t, m, 2, "no OTP in %q", n.body)
	return m[1]
}

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Environment: "test", MaxBodyBytes: 1 << 20},
		JWT: config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			ResetSecret:   "reset-secret",
			AccessExpiry:  time.Hour,
			RefreshExpiry: 30 * 24 * time.Hour,
			ResetExpiry:   15 * time.Minute,
		},
		OTP:  config.OTPConfig{Length: 6, Expiry: 10 * time.Minute},
		CORS: config.CORSConfig{AllowedMethods: []string{"GET", "POST", "OPTIONS"}},
	}
}

type apiClient struct {
	t      *testing.T
	router *gin.Engine
}

func (a *apiClient) do(path string, body interface{}, headers ...string) (int, map[string]interface{}) {
	a.t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(a.t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var resp map[string]interface{}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return w.Code, resp
}

func newAPI(t *testing.T, notifier *captureNotifier) *apiClient {
	gin.SetMode(gin.TestMode)
	return &apiClient{t: t, router: SetupRoutes(testConfig(), memory.NewUserRepository(), notifier)}
}

func assertBody(t *testing.T, resp map[string]interface{}, status int, message string) {
	t.Helper()
	assert.Equal(t, message, resp["message"])
	assert.EqualValues(t, status, resp["status"])
}

func TestAccountFlow(t *testing.T) {
	notifier := &captureNotifier{}
	api := newAPI(t, notifier)

	code, resp := api.do("/api/v1/user/register", gin.H{"email": "a@x.com", "mobile": "5551234", "password": "pw1"})
	assert.Equal(t, http.StatusOK, code)
	assertBody(t, resp, http.StatusOK, "User registered successfully")

	code, resp = api.do("/api/v1/user/register", gin.H{"email": "a@x.com", "mobile": "5551234", "password": "pw2"})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "User already exists")

	code, resp = api.do("/api/v1/user/login", gin.H{"email": "a@x.com", "password": "pw1"})
	require.Equal(t, http.StatusOK, code)
	assertBody(t, resp, http.StatusOK, "Login successful")
	data, ok := resp["data"].(map[string]interface{})
	require.True(t, ok)
	assert.Regexp(t, `^user-`, data["userId"])
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])

	code, resp = api.do("/api/v1/user/forgot-password", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, code)
	assertBody(t, resp, http.StatusOK, "OTP sent to email")
	assert.Equal(t, "a@x.com", notifier.to)
	otp := notifier.otp(t)

	code, resp = api.do("/api/v1/user/verify-otp", gin.H{"email": "a@x.com", "otp": "not-it"})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid OTP. Please use valid OTP.")

	code, resp = api.do("/api/v1/user/verify-otp", gin.H{"email": "a@x.com", "otp": otp})
	require.Equal(t, http.StatusOK, code)
	assertBody(t, resp, http.StatusOK, "OTP verified successfully")
	resetToken, ok := resp["resetToken"].(string)
	require.True(t, ok)
	require.NotEmpty(t, resetToken)

	// A consumed code cannot be replayed.
	code, resp = api.do("/api/v1/user/verify-otp", gin.H{"email": "a@x.com", "otp": otp})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid OTP. Please use valid OTP.")

	code, _ = api.do("/api/v1/user/reset-password", gin.H{"newPassword": "pw2"})
	assert.Equal(t, http.StatusUnauthorized, code)

	accessToken, _ := data["accessToken"].(string)
	code, _ = api.do("/api/v1/user/reset-password", gin.H{"newPassword": "pw2"}, "Authorization", "Bearer "+accessToken)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, resp = api.do("/api/v1/user/reset-password", gin.H{"newPassword": "pw2"}, "Authorization", "Bearer "+resetToken)
	require.Equal(t, http.StatusOK, code)
	assertBody(t, resp, http.StatusOK, "Password reset successful")

	code, resp = api.do("/api/v1/user/login", gin.H{"email": "a@x.com", "password": "pw1"})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid credentials")

	code, _ = api.do("/api/v1/user/login", gin.H{"email": "a@x.com", "password": "pw2"})
	assert.Equal(t, http.StatusOK, code)
}

func TestVerifyOTPComparesExactly(t *testing.T) {
	notifier := &captureNotifier{}
	api := newAPI(t, notifier)

	code, _ := api.do("/api/v1/user/register", gin.H{"email": "a@x.com", "mobile": "5551234", "password": "pw1"})
	require.Equal(t, http.StatusOK, code)
	code, _ = api.do("/api/v1/user/forgot-password", gin.H{"email": "a@x.com"})
	require.Equal(t, http.StatusOK, code)
	otp := notifier.otp(t)

	code, resp := api.do("/api/v1/user/verify-otp", gin.H{"email": "a@x.com", "otp": " " + otp + " "})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid OTP. Please use valid OTP.")

	code, _ = api.do("/api/v1/user/verify-otp", gin.H{"email": "a@x.com", "otp": otp})
	assert.Equal(t, http.StatusOK, code)
}

func TestNotFoundStatuses(t *testing.T) {
	api := newAPI(t, &captureNotifier{})

	code, resp := api.do("/api/v1/user/login", gin.H{"email": "nobody@x.com", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "User not found")

	code, resp = api.do("/api/v1/user/forgot-password", gin.H{"email": "nobody@x.com"})
	assert.Equal(t, http.StatusNotFound, code)
	assertBody(t, resp, http.StatusNotFound, "User not found")

	code, resp = api.do("/api/v1/user/verify-otp", gin.H{"email": "nobody@x.com", "otp": "123456"})
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid OTP. Please use valid OTP.")
}

func TestEmailIsCaseInsensitive(t *testing.T) {
	api := newAPI(t, &captureNotifier{})

	code, _ := api.do("/api/v1/user/register", gin.H{"email": "Mixed@X.com", "mobile": "1", "password": "pw"})
	require.Equal(t, http.StatusOK, code)

	code, _ = api.do("/api/v1/user/login", gin.H{"email": "  mixed@x.COM ", "password": "pw"})
	assert.Equal(t, http.StatusOK, code)
}

func TestRequestValidation(t *testing.T) {
	api := newAPI(t, &captureNotifier{})

	code, resp := api.do("/api/v1/user/register", gin.H{"email": "not-an-email", "mobile": "1", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["message"], "Please fill a valid email address")

	code, resp = api.do("/api/v1/user/login", "{not json")
	assert.Equal(t, http.StatusBadRequest, code)
	assertBody(t, resp, http.StatusBadRequest, "Invalid request body")
}

func TestMailFailureIsServerError(t *testing.T) {
	notifier := &captureNotifier{}
	api := newAPI(t, notifier)

	code, _ := api.do("/api/v1/user/register", gin.H{"email": "a@x.com", "mobile": "1", "password": "pw"})
	require.Equal(t, http.StatusOK, code)

	notifier.err = errors.New("smtp: connection refused")
	code, resp := api.do("/api/v1/user/forgot-password", gin.H{"email": "a@x.com"})
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.EqualValues(t, http.StatusInternalServerError, resp["status"])
	assert.Contains(t, resp["message"], "smtp: connection refused")
}

func TestHealth(t *testing.T) {
	api := newAPI(t, &captureNotifier{})

	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
}
