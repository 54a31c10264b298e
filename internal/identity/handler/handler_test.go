package handler_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joaop25/NerdStore/internal/identity"
	"github.com/joaop25/NerdStore/internal/identity/gate"
	"github.com/joaop25/NerdStore/internal/identity/handler"
	"github.com/joaop25/NerdStore/internal/identity/identitytest"
	"github.com/joaop25/NerdStore/internal/identity/token"
)

func newTestRouter(t *testing.T, store *identitytest.Store) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := token.Config{
		Secret:      []byte("0123456789abcdef0123456789abcdef"),
		Issuer:      "NerdStoreEnterprise",
		Audience:    "https://localhost",
		ExpiryHours: 1,
	}

	h := handler.NewHandler(gate.New(store), token.NewIssuer(store, cfg))

	router := gin.New()
	h.RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) token.Response {
	t.Helper()
	var resp token.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func claimValue(t *testing.T, claims []identity.Claim, claimType string) string {
	t.Helper()
	for _, c := range claims {
		if c.Type == claimType {
			return c.Value
		}
	}
	t.Fatalf("claim %q not found", claimType)
	return ""
}

func TestNewAccount(t *testing.T) {
	t.Run("returns token with email claim", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())

		w := postJSON(t, router, "/api/identity/new-account", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeEnvelope(t, w)
		assert.NotEmpty(t, resp.AccessToken)
		assert.Equal(t, int64(3600), resp.ExpiresIn)
		assert.Equal(t, "a@x.com", resp.User.Email)
		assert.Equal(t, "a@x.com", claimValue(t, resp.User.Claims, "email"))
	})

	t.Run("duplicate email is a generic 400", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())

		w := postJSON(t, router, "/api/identity/new-account", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})
		require.Equal(t, http.StatusOK, w.Code)

		w = postJSON(t, router, "/api/identity/new-account", gin.H{
			"email":    "a@x.com",
			"password": "An0ther!pw",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotContains(t, w.Body.String(), "email", "no sub-cause may leak")
	})

	t.Run("malformed body is 400", func(t *testing.T) {
		tests := []struct {
			name string
			body gin.H
		}{
			{"missing password", gin.H{"email": "a@x.com"}},
			{"missing email", gin.H{"password": "Str0ng!pw"}},
			{"invalid email shape", gin.H{"email": "not-an-email", "password": "Str0ng!pw"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				router := newTestRouter(t, identitytest.NewStore())
				w := postJSON(t, router, "/api/identity/new-account", tt.body)
				assert.Equal(t, http.StatusBadRequest, w.Code)
			})
		}
	})
}

func TestAuthenticate(t *testing.T) {
	register := func(t *testing.T, router *gin.Engine) token.Response {
		w := postJSON(t, router, "/api/identity/new-account", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})
		require.Equal(t, http.StatusOK, w.Code)
		return decodeEnvelope(t, w)
	}

	t.Run("login issues fresh jti for same subject", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())
		registered := register(t, router)

		w := postJSON(t, router, "/api/identity/authenticate", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})

		require.Equal(t, http.StatusOK, w.Code)
		loggedIn := decodeEnvelope(t, w)

		assert.Equal(t,
			claimValue(t, registered.User.Claims, "sub"),
			claimValue(t, loggedIn.User.Claims, "sub"),
		)
		assert.NotEqual(t,
			claimValue(t, registered.User.Claims, "jti"),
			claimValue(t, loggedIn.User.Claims, "jti"),
		)
	})

	t.Run("wrong password is 401", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())
		register(t, router)

		w := postJSON(t, router, "/api/identity/authenticate", gin.H{
			"email":    "a@x.com",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown email is 401", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())

		w := postJSON(t, router, "/api/identity/authenticate", gin.H{
			"email":    "nobody@x.com",
			"password": "whatever1",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("fifth failed attempt is 403", func(t *testing.T) {
		router := newTestRouter(t, identitytest.NewStore())
		register(t, router)

		var last *httptest.ResponseRecorder
		for i := 0; i < 5; i++ {
			last = postJSON(t, router, "/api/identity/authenticate", gin.H{
				"email":    "a@x.com",
				"password": "wrong",
			})
		}

		assert.Equal(t, http.StatusForbidden, last.Code,
			"lockout must map to forbidden, not unauthorized")

		// correct password while locked is still 403
		w := postJSON(t, router, "/api/identity/authenticate", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("issuance failure is a generic 500", func(t *testing.T) {
		store := identitytest.NewStore()
		router := newTestRouter(t, store)
		register(t, router)

		store.ClaimsErr = errors.New("store unreachable")

		w := postJSON(t, router, "/api/identity/authenticate", gin.H{
			"email":    "a@x.com",
			"password": "Str0ng!pw",
		})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "unreachable")
	})
}
