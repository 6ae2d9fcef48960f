package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"
	"github.com/irbridge/controller/interface/http/auth"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestAuthenticator(t *testing.T) Authenticator {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	assert.NoError(t, err)

	return Authenticator{
		SystemIdentifier: "irbridge-test",
		TTL:              time.Hour,
		KeyIdentifier:    "key1",
		PrivateKey:       key,
	}
}

func TestAuthenticator_SignVerify(t *testing.T) {
	t.Run("verifies a token it signed and recovers the subject", func(t *testing.T) {
		a := newTestAuthenticator(t)

		token, err := a.Sign("user1")
		assert.NoError(t, err)

		uid, err := a.Verify(token)
		assert.NoError(t, err)
		assert.Equal(t, "user1", uid)
	})

	t.Run("rejects an expired token", func(t *testing.T) {
		a := newTestAuthenticator(t)

		clock = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { clock = time.Now }()

		token, err := a.Sign("user1")
		assert.NoError(t, err)

		_, err = a.Verify(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token signed with an unknown key identifier", func(t *testing.T) {
		a := newTestAuthenticator(t)

		token, err := a.Sign("user1")
		assert.NoError(t, err)

		other := newTestAuthenticator(t)
		other.KeyIdentifier = "key2"

		_, err = other.Verify(token)
		assert.Error(t, err)
	})

	t.Run("rejects a token issued by another system", func(t *testing.T) {
		a := newTestAuthenticator(t)

		token, err := a.Sign("user1")
		assert.NoError(t, err)

		other := a
		other.SystemIdentifier = "some-other-system"

		_, err = other.Verify(token)
		assert.Error(t, err)
	})
}

func TestAuthenticator_AuthenticationMiddleware(t *testing.T) {
	t.Run("passes an authenticated request through with the identity in context", func(t *testing.T) {
		a := newTestAuthenticator(t)

		token, err := a.Sign("user1")
		assert.NoError(t, err)

		var identity any

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity = r.Context().Value(auth.UserIdentityContextKey)
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authentication", fmt.Sprintf("Bearer %s", token))
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "user1", identity)
	})

	t.Run("401s a request without an authentication header", func(t *testing.T) {
		a := newTestAuthenticator(t)

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("next handler should not be called")
		})

		req := httptest.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "Bearer")
	})

	t.Run("401s a request with an invalid token", func(t *testing.T) {
		a := newTestAuthenticator(t)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authentication", "Bearer not.a.token")
		rr := httptest.NewRecorder()

		a.AuthenticationMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
