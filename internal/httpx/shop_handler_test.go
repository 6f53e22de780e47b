package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/go-storefront/internal/shop"
	"github.com/ariefcatur/go-storefront/internal/shop/shoptest"
)

type stubImages struct{ err error }

func (s stubImages) URL(_ context.Context, key string) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "https://img.test/" + key, nil
}

type testShop struct {
	srv      *httptest.Server
	client   *http.Client
	auth     *Authenticator
	store    *shoptest.MemStore
	products []shop.Product
}

func newTestShop(t *testing.T) *testShop {
	t.Helper()
	st := shoptest.NewMemStore()
	ps := st.Seed(
		shop.Product{Name: "Mug", ShortDescription: "ceramic", LongDescription: "a big mug",
			Price: decimal.RequireFromString("9.99"), Stock: 10, Image: "products/mug.png"},
		shop.Product{Name: "Tee", Price: decimal.RequireFromString("15.50"), Stock: 3},
	)

	auth := &Authenticator{Secret: []byte("test-secret")}
	h := &ShopHandler{
		Service:  &shop.Service{Store: st, Name: "shop-test"},
		Sessions: NewSessionBinder("0123456789abcdef0123456789abcdef", 3600, false),
		Auth:     auth,
		Images:   stubImages{},
	}
	r := NewRouter()
	h.Register(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return &testShop{srv: srv, client: client, auth: auth, store: st, products: ps}
}

func (ts *testShop) do(t *testing.T, method, path string, body url.Values, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, ts.srv.URL+path, strings.NewReader(body.Encode()))
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req, err = http.NewRequest(method, ts.srv.URL+path, nil)
		require.NoError(t, err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ts.client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestShopHandler_ListProducts(t *testing.T) {
	ts := newTestShop(t)

	resp := ts.do(t, http.MethodGet, "/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[struct {
		Products []productView `json:"products"`
	}](t, resp)
	require.Len(t, got.Products, 2)
	assert.Equal(t, "Mug", got.Products[0].Name)
	assert.Equal(t, "9.99", got.Products[0].Price)
	assert.Equal(t, "https://img.test/products/mug.png", got.Products[0].ImageURL)
	assert.Empty(t, got.Products[0].LongDescription)
	assert.Equal(t, "15.50", got.Products[1].Price)
	assert.Empty(t, got.Products[1].ImageURL)
}

func TestShopHandler_GetProduct(t *testing.T) {
	ts := newTestShop(t)

	resp := ts.do(t, http.MethodGet, "/product/1/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	p := decode[productView](t, resp)
	assert.Equal(t, ts.products[0].ID, p.ID)
	assert.Equal(t, "a big mug", p.LongDescription)

	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/product/999/", nil, "").StatusCode)
	assert.Equal(t, http.StatusNotFound, ts.do(t, http.MethodGet, "/product/abc/", nil, "").StatusCode)
}

func TestShopHandler_ImageURLErrorStillRendersProduct(t *testing.T) {
	ts := newTestShop(t)
	h := &ShopHandler{Images: stubImages{err: errors.New("minio down")}}

	v := h.product(context.Background(), ts.products[0], true)
	assert.Equal(t, "Mug", v.Name)
	assert.Empty(t, v.ImageURL)
}

func TestShopHandler_CartWithoutSession(t *testing.T) {
	ts := newTestShop(t)

	resp := ts.do(t, http.MethodGet, "/cart/", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	c := decode[cartView](t, resp)
	assert.Empty(t, c.Items)
	assert.Equal(t, "0.00", c.Total)

	resp = ts.do(t, http.MethodPost, "/cancel_order/", nil, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)

	resp = ts.do(t, http.MethodPost, "/checkout/", url.Values{"address": {"x"}}, mustToken(t, ts.auth, "alice"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShopHandler_AddToCartMissingProduct(t *testing.T) {
	ts := newTestShop(t)

	resp := ts.do(t, http.MethodPost, "/add_to_cart/999/", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// no cart was bound
	c := decode[cartView](t, ts.do(t, http.MethodGet, "/cart/", nil, ""))
	assert.Zero(t, c.CartID)
}

func TestShopHandler_CheckoutFlow(t *testing.T) {
	ts := newTestShop(t)
	mug := ts.products[0]

	resp := ts.do(t, http.MethodPost, "/add_to_cart/1/", nil, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/cart/", resp.Header.Get("Location"))

	c := decode[cartView](t, ts.do(t, http.MethodGet, "/cart/", nil, ""))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "9.99", c.Total)
	cartID := c.CartID

	ts.do(t, http.MethodPost, "/add_to_cart/1/", nil, "")
	c = decode[cartView](t, ts.do(t, http.MethodGet, "/cart/", nil, ""))
	require.Len(t, c.Items, 1)
	assert.Equal(t, cartID, c.CartID)
	assert.Equal(t, 2, c.Items[0].Quantity)
	assert.Equal(t, "19.98", c.Items[0].LineTotal)
	assert.Equal(t, "19.98", c.Total)

	form := decode[checkoutFormView](t, ts.do(t, http.MethodGet, "/checkout/", nil, ""))
	assert.Equal(t, []string{"address"}, form.Fields)
	assert.Equal(t, "19.98", form.Cart.Total)

	// no identity, no order
	resp = ts.do(t, http.MethodPost, "/checkout/", url.Values{"address": {"123 Main St"}}, "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := mustToken(t, ts.auth, "alice")
	resp = ts.do(t, http.MethodPost, "/checkout/", url.Values{"address": {"123 Main St"}}, token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	o := decode[orderView](t, resp)
	assert.Equal(t, "alice", o.Customer)
	assert.Equal(t, "123 Main St", o.Address)
	assert.Equal(t, "19.98", o.TotalPrice)
	require.Len(t, o.Items, 1)
	require.NotNil(t, o.Items[0].ProductID)
	assert.Equal(t, mug.ID, *o.Items[0].ProductID)
	assert.Equal(t, 2, o.Items[0].Quantity)

	c = decode[cartView](t, ts.do(t, http.MethodGet, "/cart/", nil, ""))
	assert.Empty(t, c.Items)
	assert.Equal(t, "0.00", c.Total)
	assert.Equal(t, cartID, c.CartID)

	resp = ts.do(t, http.MethodGet, "/orders/"+itoa(o.ID)+"/", nil, token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "19.98", decode[orderView](t, resp).TotalPrice)

	resp = ts.do(t, http.MethodGet, "/orders/"+itoa(o.ID)+"/", nil, mustToken(t, ts.auth, "mallory"))
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestShopHandler_CancelOrder(t *testing.T) {
	ts := newTestShop(t)

	ts.do(t, http.MethodPost, "/add_to_cart/1/", nil, "")
	ts.do(t, http.MethodPost, "/add_to_cart/2/", nil, "")

	resp := ts.do(t, http.MethodPost, "/cancel_order/", nil, "")
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	c := decode[cartView](t, ts.do(t, http.MethodGet, "/cart/", nil, ""))
	assert.Empty(t, c.Items)
	assert.NotZero(t, c.CartID)

	resp = ts.do(t, http.MethodPost, "/cancel_order/", nil, "")
	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
}

func TestShopHandler_MethodNotAllowed(t *testing.T) {
	ts := newTestShop(t)

	resp := ts.do(t, http.MethodGet, "/add_to_cart/1/", nil, "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestHealthz(t *testing.T) {
	ts := newTestShop(t)
	assert.Equal(t, http.StatusOK, ts.do(t, http.MethodGet, "/healthz", nil, "").StatusCode)
}

func mustToken(t *testing.T, a *Authenticator, customer string) string {
	t.Helper()
	tok, err := a.Issue(customer, time.Hour)
	require.NoError(t, err)
	return tok
}

func itoa(i int64) string { return strconv.FormatInt(i, 10) }
