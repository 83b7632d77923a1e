package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testJWTSecret = "test-jwt-secret-for-middleware"

type fakeUsers map[uint]*model.User

func (f fakeUsers) FindByID(_ context.Context, id uint) (*model.User, error) {
	if u, ok := f[id]; ok {
		return u, nil
	}
	return nil, apperrors.WrapDB("find user", gorm.ErrRecordNotFound)
}

type fakeRevocations map[string]bool

func (f fakeRevocations) IsRevoked(_ context.Context, token string) (bool, error) {
	return f[token], nil
}

func setupMiddlewareTest(users fakeUsers, revoked fakeRevocations) (*gin.Engine, *AuthMiddleware) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(ErrorHandler())
	var checker RevocationChecker
	if revoked != nil {
		checker = revoked
	}
	return router, NewAuthMiddleware(testJWTSecret, users, checker)
}

func generateTestToken(t *testing.T, userID uint) string {
	token, err := util.GenerateToken(userID, testJWTSecret, time.Hour)
	require.NoError(t, err)
	return token
}

func perform(router *gin.Engine, header string) (*httptest.ResponseRecorder, apperrors.ErrorResponse) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body apperrors.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return w, body
}

func identityHandler(c *gin.Context) {
	identity, ok := CurrentIdentity(c)
	c.JSON(http.StatusOK, gin.H{"ok": ok, "userId": identity.UserID, "role": identity.Role})
}

func TestProtect(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Role: model.RoleStoreOwner},
	}
	router, auth := setupMiddlewareTest(users, fakeRevocations{})
	router.GET("/test", auth.Protect(), identityHandler)

	valid := generateTestToken(t, 1)
	deleted := generateTestToken(t, 2)
	expired, err := util.GenerateToken(1, testJWTSecret, -time.Minute)
	require.NoError(t, err)
	foreign, err := util.GenerateToken(1, "another-secret", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name        string
		header      string
		wantStatus  int
		wantMessage string
	}{
		{name: "Valid token", header: "Bearer " + valid, wantStatus: http.StatusOK},
		{name: "No header", header: "", wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, no token"},
		{name: "Empty bearer", header: "Bearer ", wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, no token"},
		{name: "Malformed token", header: "Bearer not.a.jwt", wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, invalid token"},
		{name: "Wrong scheme", header: "Basic " + valid, wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, invalid token"},
		{name: "Expired token", header: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, invalid token"},
		{name: "Wrong secret", header: "Bearer " + foreign, wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, invalid token"},
		{name: "Deleted user", header: "Bearer " + deleted, wantStatus: http.StatusUnauthorized, wantMessage: "Not authorized, invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, body := perform(router, tt.header)
			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantMessage != "" {
				assert.Equal(t, apperrors.StatusError, body.Status)
				assert.Equal(t, tt.wantMessage, body.Message)
			}
		})
	}
}

func TestProtect_RoleIsReadFromStorage(t *testing.T) {
	users := fakeUsers{1: {ID: 1, Role: model.RoleUser}}
	router, auth := setupMiddlewareTest(users, nil)
	router.GET("/test", auth.Protect(), auth.Authorize(model.RoleAdmin), identityHandler)

	token := generateTestToken(t, 1)

	w, _ := perform(router, "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// promotion takes effect without a new token
	users[1].Role = model.RoleAdmin
	w, _ = perform(router, "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"ADMIN"`)
}

func TestProtect_RevokedToken(t *testing.T) {
	token := generateTestToken(t, 1)
	router, auth := setupMiddlewareTest(fakeUsers{1: {ID: 1, Role: model.RoleUser}}, fakeRevocations{token: true})
	router.GET("/test", auth.Protect(), identityHandler)

	w, body := perform(router, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized, invalid token", body.Message)
}

func TestAuthorize(t *testing.T) {
	users := fakeUsers{
		1: {ID: 1, Role: model.RoleStoreOwner},
		2: {ID: 2, Role: model.RoleUser},
		3: {ID: 3, Role: model.RoleAdmin},
	}
	router, auth := setupMiddlewareTest(users, nil)
	router.GET("/test", auth.Protect(), auth.Authorize(model.RoleStoreOwner, model.RoleAdmin), identityHandler)

	tests := []struct {
		userID     uint
		wantStatus int
	}{
		{userID: 1, wantStatus: http.StatusOK},
		{userID: 2, wantStatus: http.StatusForbidden},
		{userID: 3, wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		w, body := perform(router, "Bearer "+generateTestToken(t, tt.userID))
		assert.Equal(t, tt.wantStatus, w.Code)
		if tt.wantStatus == http.StatusForbidden {
			assert.Equal(t, "Not authorized for this operation", body.Message)
		}
	}
}

func TestAuthorize_WithoutProtectFailsClosed(t *testing.T) {
	router, auth := setupMiddlewareTest(fakeUsers{}, nil)
	router.GET("/test", auth.Authorize(model.RoleUser, model.RoleAdmin, model.RoleStoreOwner), identityHandler)

	w, body := perform(router, "")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized for this operation", body.Message)
}

func TestOptionalAuthenticate(t *testing.T) {
	router, auth := setupMiddlewareTest(fakeUsers{5: {ID: 5, Role: model.RoleUser}}, nil)
	router.GET("/test", auth.OptionalAuthenticate(), identityHandler)

	w, _ := perform(router, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w, _ = perform(router, "Bearer garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":false`)

	w, _ = perform(router, "Bearer "+generateTestToken(t, 5))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"userId":5`)
}

func TestBearerToken(t *testing.T) {
	router, auth := setupMiddlewareTest(fakeUsers{1: {ID: 1, Role: model.RoleUser}}, nil)
	token := generateTestToken(t, 1)
	router.GET("/test", auth.Protect(), func(c *gin.Context) {
		c.String(http.StatusOK, BearerToken(c))
	})

	w, _ := perform(router, "Bearer "+token)
	assert.Equal(t, token, w.Body.String())
}
