package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mingle/apperr"
	"mingle/utils"
)

var testSecret = []byte("test-secret")

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("user-%d", i)
		token, err := svc.Issue(id)
		require.NoError(t, err)

		claims, err := svc.Verify(token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, id, claims.Subject)
		assert.NotEmpty(t, claims.ID)
	}
}

func TestTokensHaveDistinctIDs(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	a, _ := svc.Issue("u1")
	b, _ := svc.Issue("u1")
	ca, err := svc.Verify(a)
	require.NoError(t, err)
	cb, err := svc.Verify(b)
	require.NoError(t, err)
	assert.NotEqual(t, ca.ID, cb.ID)
}

func TestExpiredTokenFails(t *testing.T) {
	issuer := NewTokenService(testSecret, time.Hour)
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := issuer.Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
	assert.Equal(t, "Token expired", apperr.Message(err))
}

func TestTokenWithWrongSecretFails(t *testing.T) {
	token, err := NewTokenService([]byte("other"), time.Hour).Issue("u1")
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestUnsignedTokenFails(t *testing.T) {
	claims := &Claims{
		UserID: "u1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

func TestTokenWithoutExpiryFails(t *testing.T) {
	claims := &Claims{UserID: "u1"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	_, err = NewTokenService(testSecret, time.Hour).Verify(token)
	assert.True(t, apperr.Is(err, apperr.KindAuth))
}

type fakeRevocations struct {
	revoked map[string]bool
	err     error
}

func (f fakeRevocations) IsRevoked(_ context.Context, jti string) (bool, error) {
	return f.revoked[jti], f.err
}

func protectedRouter(a *Authenticator, called *bool) *httprouter.Router {
	router := httprouter.New()
	router.GET("/secret", a.Authenticate(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		*called = true
		claims, ok := ClaimsFromRequest(r)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("X-User", utils.GetUserIDFromRequest(r)+"/"+claims.UserID)
		w.WriteHeader(http.StatusOK)
	}))
	return router
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	expiredIssuer := NewTokenService(testSecret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-3 * time.Hour) }
	expired, err := expiredIssuer.Issue("u1")
	require.NoError(t, err)
	valid, err := svc.Issue("u1")
	require.NoError(t, err)

	other, err := svc.Issue("u2")
	require.NoError(t, err)
	vp := strings.Split(valid, ".")
	op := strings.Split(other, ".")
	spliced := vp[0] + "." + op[1] + "." + vp[2]
	foreign, err := NewTokenService([]byte("other"), time.Hour).Issue("u1")
	require.NoError(t, err)

	cases := map[string]string{
		"missing":      "",
		"blank":        "   ",
		"no scheme":    valid,
		"wrong scheme": "Basic " + valid,
		"empty token":  "Bearer ",
		"garbage":      "Bearer not.a.jwt",
		"spliced":      "Bearer " + spliced,
		"foreign":      "Bearer " + foreign,
		"expired":      "Bearer " + expired,
	}

	a := NewAuthenticator(svc, nil, zap.NewNop())
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			called := false
			req := httptest.NewRequest(http.MethodGet, "/secret", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protectedRouter(a, &called).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.False(t, called, "handler must not run")
			assert.Contains(t, rec.Body.String(), `"error"`)
		})
	}
}

func TestAuthenticateAttachesIdentity(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, err := svc.Issue("u42")
	require.NoError(t, err)

	called := false
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	protectedRouter(NewAuthenticator(svc, nil, zap.NewNop()), &called).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, "u42/u42", rec.Header().Get("X-User"))
}

func TestAuthenticateHonoursRevocation(t *testing.T) {
	svc := NewTokenService(testSecret, time.Hour)
	token, err := svc.Issue("u1")
	require.NoError(t, err)
	claims, err := svc.Verify(token)
	require.NoError(t, err)

	called := false
	a := NewAuthenticator(svc, fakeRevocations{revoked: map[string]bool{claims.ID: true}}, zap.NewNop())
	req := httptest.NewRequest(http.MethodGet, "/secret", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protectedRouter(a, &called).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)

	a = NewAuthenticator(svc, fakeRevocations{err: errors.New("redis down")}, zap.NewNop())
	rec = httptest.NewRecorder()
	protectedRouter(a, &called).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, called)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "cross-origin", rec.Header().Get("Cross-Origin-Resource-Policy"))
}

func TestMaxBody(t *testing.T) {
	var readErr error
	h := MaxBody(8, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 64)
		for readErr == nil {
			_, readErr = r.Body.Read(buf)
		}
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", strings.NewReader("0123456789abcdef")))

	var tooBig *http.MaxBytesError
	assert.ErrorAs(t, readErr, &tooBig)
}
