package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubValidator struct {
	sessionID uuid.UUID
	err       error
	lastToken string
}

type stubClaims struct{ id uuid.UUID }

func (c stubClaims) GetSessionID() uuid.UUID { return c.id }

func (v *stubValidator) ValidateToken(token string) (SessionIDGetter, error) {
	v.lastToken = token
	if v.err != nil {
		return nil, v.err
	}
	return stubClaims{id: v.sessionID}, nil
}

func runAuth(t *testing.T, validator TokenValidator, authHeader string) (*httptest.ResponseRecorder, uuid.UUID) {
	t.Helper()
	var gotID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetSessionID(r)
		require.NoError(t, err)
		gotID = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/sessions/x/state", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	Auth(validator)(next).ServeHTTP(rec, req)
	return rec, gotID
}

func TestAuthAcceptsBearerToken(t *testing.T) {
	id := uuid.New()
	validator := &stubValidator{sessionID: id}

	rec, gotID := runAuth(t, validator, "Bearer good-token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "good-token", validator.lastToken)
	assert.Equal(t, id, gotID)
}

func TestAuthIsCaseInsensitiveOnScheme(t *testing.T) {
	validator := &stubValidator{sessionID: uuid.New()}
	rec, _ := runAuth(t, validator, "bearer good-token")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := runAuth(t, &stubValidator{}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthRejectsMalformedHeader(t *testing.T) {
	for _, header := range []string{"Bearer", "Basic abc", "Bearer a b"} {
		rec, _ := runAuth(t, &stubValidator{}, header)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	validator := &stubValidator{err: errors.New("expired")}
	rec, _ := runAuth(t, validator, "Bearer bad-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetSessionIDWithoutAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetSessionID(req)
	assert.Error(t, err)
}
