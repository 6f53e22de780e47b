package httpx

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type customerKey struct{}

// Authenticator resolves the customer identity from an HS256 bearer token.
// The identity comes from the "sub" claim, falling back to "user_id".
type Authenticator struct {
	Secret []byte
}

var errNoCustomer = errors.New("customer claim missing")

func (a *Authenticator) Customer(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || raw == "" {
		return "", errors.New("missing bearer token")
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return a.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errNoCustomer
	}
	if sub, _ := claims.GetSubject(); sub != "" {
		return sub, nil
	}
	if uid, _ := claims["user_id"].(string); uid != "" {
		return uid, nil
	}
	return "", errNoCustomer
}

// RequireCustomer rejects requests without a valid token with 401.
func (a *Authenticator) RequireCustomer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := a.Customer(r)
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), customerKey{}, c)))
	})
}

func CustomerFrom(ctx context.Context) string {
	c, _ := ctx.Value(customerKey{}).(string)
	return c
}

// Issue signs a token for customer; used by shopctl and tests.
func (a *Authenticator) Issue(customer string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   customer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.Secret)
}
