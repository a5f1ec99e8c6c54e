package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/tmsiti/tmsiti-backend/internal/apperr"
	"github.com/tmsiti/tmsiti-backend/internal/config"
	"github.com/tmsiti/tmsiti-backend/internal/hash"
	"github.com/tmsiti/tmsiti-backend/internal/middleware/auth"
	"github.com/tmsiti/tmsiti-backend/internal/models"
	"github.com/tmsiti/tmsiti-backend/internal/mykafka"
	"github.com/tmsiti/tmsiti-backend/internal/token"
)

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	if err := config.Migrate(db); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}
	return db
}

func newTestTokens() *token.Service {
	return &token.Service{
		Secret:     []byte("test-secret"),
		AccessTTL:  30 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
	}
}

func newAuthEnv(t *testing.T) (*AuthHandler, *gorm.DB) {
	db := initTestDB(t)
	h := &AuthHandler{
		DB:       db,
		Tokens:   newTestTokens(),
		Producer: &mykafka.Producer{},
	}
	return h, db
}

func doJSONRequest(t *testing.T, e *echo.Echo, method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, c
}

func createUser(t *testing.T, db *gorm.DB, username, password, role string, active bool) *models.User {
	t.Helper()
	digest, err := hash.HashPassword(password)
	require.NoError(t, err)
	user := &models.User{
		Username:     username,
		Email:        username + "@example.com",
		FullName:     "Test " + username,
		PasswordHash: digest,
		Role:         role,
		IsActive:     active,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func TestRegister(t *testing.T) {
	h, _ := newAuthEnv(t)
	e := echo.New()

	payload := map[string]string{
		"username":  "test_user",
		"email":     "test_user@example.com",
		"full_name": "Test User",
		"password":  "password",
	}
	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/register", payload)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "test_user", created.Username)
	assert.Equal(t, auth.RoleUser, created.Role)
	assert.True(t, created.IsActive)
	assert.NotEmpty(t, created.ID)
	assert.NotContains(t, rec.Body.String(), "password")

	_, cDup := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/register", payload)
	err := h.Register(cDup)
	require.Error(t, err)
	assert.Equal(t, apperr.DuplicateUser, apperr.KindOf(err))
}

func TestRegister_EmailCollision(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	createUser(t, db, "existing", "password", auth.RoleUser, true)

	payload := map[string]string{
		"username": "brand_new",
		"email":    "existing@example.com",
		"password": "password",
	}
	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/register", payload)
	err := h.Register(c)
	require.Error(t, err)
	assert.Equal(t, apperr.DuplicateUser, apperr.KindOf(err))
}

func TestLogin(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	createUser(t, db, "test_user", "password", auth.RoleUser, true)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)

	claims, err := h.Tokens.Verify(resp.AccessToken, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, claims.Role)
}

func TestLogin_ByEmail(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	createUser(t, db, "test_user", "password", auth.RoleUser, true)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "test_user@example.com",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin_Failures(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	createUser(t, db, "test_user", "password", auth.RoleUser, true)
	createUser(t, db, "inactive_user", "password", auth.RoleUser, false)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "wrong password", username: "test_user", password: "wrong"},
		{name: "unknown user", username: "nobody", password: "password"},
		{name: "inactive user", username: "inactive_user", password: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})
			err := h.Login(c)
			require.Error(t, err)
			assert.Equal(t, apperr.InvalidCredentials, apperr.KindOf(err))
		})
	}
}

func TestRefresh(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	user := createUser(t, db, "test_user", "password", auth.RoleUser, true)

	refresh, err := h.Tokens.IssueRefresh(user)
	require.NoError(t, err)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})
	require.NoError(t, h.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	claims, err := h.Tokens.Verify(resp.AccessToken, token.TypeAccess)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestRefresh_AccessTokenRejected(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	user := createUser(t, db, "test_user", "password", auth.RoleUser, true)
	access, err := h.Tokens.IssueAccess(user)
	require.NoError(t, err)

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": access,
	})
	err = h.Refresh(c)
	require.Error(t, err)
	assert.Equal(t, apperr.WrongTokenType, apperr.KindOf(err))
}

func TestRefresh_DeactivatedUser(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	user := createUser(t, db, "test_user", "password", auth.RoleUser, true)
	refresh, err := h.Tokens.IssueRefresh(user)
	require.NoError(t, err)

	require.NoError(t, db.Model(user).Update("is_active", false).Error)

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})
	err = h.Refresh(c)
	require.Error(t, err)
	assert.Equal(t, apperr.UnknownSubject, apperr.KindOf(err))
}

func TestRefresh_Expired(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()

	user := createUser(t, db, "test_user", "password", auth.RoleUser, true)

	expired := &token.Service{Secret: h.Tokens.Secret, RefreshTTL: -time.Minute}
	refresh, err := expired.IssueRefresh(user)
	require.NoError(t, err)

	_, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": refresh,
	})
	err = h.Refresh(c)
	require.Error(t, err)
	assert.Equal(t, apperr.ExpiredToken, apperr.KindOf(err))
}

func TestLogout(t *testing.T) {
	h, _ := newAuthEnv(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/logout", nil)
	require.NoError(t, h.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "logged out", resp["message"])
}

// Full round trip: login, call a protected route, let the token expire,
// refresh, and call it again.
func TestAuthFlow(t *testing.T) {
	h, db := newAuthEnv(t)
	e := echo.New()
	mw := &auth.Middleware{DB: db, Tokens: h.Tokens}

	createUser(t, db, "test_user", "password", auth.RoleUser, true)

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "test_user",
		"password": "password",
	})
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var pair tokenPair
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pair))

	callMe := func(access string) (*httptest.ResponseRecorder, error) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
		meRec := httptest.NewRecorder()
		meCtx := e.NewContext(req, meRec)
		return meRec, mw.RequireAuth(h.Me)(meCtx)
	}

	meRec, err := callMe(pair.AccessToken)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, meRec.Code)
	assert.Contains(t, meRec.Body.String(), "test_user")

	// pre-expired access token
	expiredSvc := &token.Service{Secret: h.Tokens.Secret, AccessTTL: -time.Minute}
	var user models.User
	require.NoError(t, db.Where("username = ?", "test_user").First(&user).Error)
	staleAccess, err := expiredSvc.IssueAccess(&user)
	require.NoError(t, err)

	_, err = callMe(staleAccess)
	require.Error(t, err)
	assert.Equal(t, apperr.ExpiredToken, apperr.KindOf(err))

	// refresh still works and the new access token is accepted
	refRec, refCtx := doJSONRequest(t, e, http.MethodPost, "/api/v1/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	require.NoError(t, h.Refresh(refCtx))
	require.Equal(t, http.StatusOK, refRec.Code)

	var fresh tokenPair
	require.NoError(t, json.Unmarshal(refRec.Body.Bytes(), &fresh))

	meRec, err = callMe(fresh.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, meRec.Code)
}
