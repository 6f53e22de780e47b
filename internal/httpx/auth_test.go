package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticator_Customer(t *testing.T) {
	a := &Authenticator{Secret: []byte("s3cret")}

	signed := func(method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}
	valid, err := a.Issue("alice", time.Hour)
	require.NoError(t, err)
	expired, err := a.Issue("alice", -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"subject", "Bearer " + valid, "alice", false},
		{"user_id fallback", "Bearer " + signed(jwt.SigningMethodHS256, a.Secret, jwt.MapClaims{"user_id": "bob"}), "bob", false},
		{"no header", "", "", true},
		{"not bearer", "Basic abc", "", true},
		{"expired", "Bearer " + expired, "", true},
		{"wrong key", "Bearer " + signed(jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "eve"}), "", true},
		{"wrong alg", "Bearer " + signed(jwt.SigningMethodHS512, a.Secret, jwt.MapClaims{"sub": "eve"}), "", true},
		{"no identity", "Bearer " + signed(jwt.SigningMethodHS256, a.Secret, jwt.MapClaims{"role": "x"}), "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			got, err := a.Customer(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAuthenticator_RequireCustomer(t *testing.T) {
	a := &Authenticator{Secret: []byte("s3cret")}
	var seen string
	h := a.RequireCustomer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CustomerFrom(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/checkout/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, seen)

	tok, err := a.Issue("alice", time.Hour)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/checkout/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "alice", seen)
}
