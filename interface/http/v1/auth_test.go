package v1

import (
	"context"
	"github.com/irbridge/controller/interface/http/auth"
	"github.com/irbridge/controller/interface/http/auth/null"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"testing"
)

func Test_authenticationType(t *testing.T) {
	t.Run("returns the authentication type data marshalled as JSON", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/type", nil)
		rr := httptest.NewRecorder()

		authenticationType(null.Authenticator{})(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "{\"type\":\"null\"}", rr.Body.String())
	})
}

func Test_authenticationCheck(t *testing.T) {
	t.Run("reports authenticated with the identity from context", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/check", nil)
		req = req.WithContext(context.WithValue(req.Context(), auth.UserIdentityContextKey, "username"))
		rr := httptest.NewRecorder()

		authenticationCheck(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "{\"authenticated\":true,\"identity\":\"username\"}", rr.Body.String())
	})

	t.Run("reports unauthenticated when no identity is present", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/auth/check", nil)
		rr := httptest.NewRecorder()

		authenticationCheck(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "{\"authenticated\":false}", rr.Body.String())
	})
}
