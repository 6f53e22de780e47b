package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionBinder_RoundTrip(t *testing.T) {
	b := NewSessionBinder("0123456789abcdef0123456789abcdef", 60, false)

	r := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	_, ok := b.CartID(r)
	assert.False(t, ok)

	rec := httptest.NewRecorder()
	require.NoError(t, b.BindCart(rec, r, 7))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sessionName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	next := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	next.AddCookie(cookies[0])
	id, ok := b.CartID(next)
	require.True(t, ok)
	assert.Equal(t, int64(7), id)
}

func TestSessionBinder_TamperedCookie(t *testing.T) {
	b := NewSessionBinder("0123456789abcdef0123456789abcdef", 60, false)

	r := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	r.AddCookie(&http.Cookie{Name: sessionName, Value: "garbage"})
	_, ok := b.CartID(r)
	assert.False(t, ok)

	// binding over a bad cookie still works
	rec := httptest.NewRecorder()
	require.NoError(t, b.BindCart(rec, r, 3))
}
