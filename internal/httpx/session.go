package httpx

import (
	"net/http"

	"github.com/gorilla/sessions"
)

const (
	sessionName = "shop_session"
	keyCartID   = "cart_id"
)

// SessionBinder keeps the cart id of a client in a signed cookie session.
// It is the only place that reads or writes that binding.
type SessionBinder struct {
	Store sessions.Store
}

func NewSessionBinder(secret string, maxAge int, secure bool) *SessionBinder {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &SessionBinder{Store: store}
}

// CartID returns the cart bound to the request's session, if any. An
// unreadable cookie counts as no session.
func (b *SessionBinder) CartID(r *http.Request) (int64, bool) {
	s, err := b.Store.Get(r, sessionName)
	if err != nil {
		return 0, false
	}
	id, ok := s.Values[keyCartID].(int64)
	if !ok || id <= 0 {
		return 0, false
	}
	return id, true
}

func (b *SessionBinder) BindCart(w http.ResponseWriter, r *http.Request, cartID int64) error {
	// Get returns a fresh session alongside a decode error, that one is fine to overwrite.
	s, _ := b.Store.Get(r, sessionName)
	s.Values[keyCartID] = cartID
	return s.Save(r, w)
}
