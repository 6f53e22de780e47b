package httpx

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ariefcatur/go-storefront/internal/shop"
)

type ShopHandler struct {
	Service  *shop.Service
	Sessions *SessionBinder
	Auth     *Authenticator
	Images   ImageURLer // optional
}

func (h *ShopHandler) Register(r chi.Router) {
	r.Get("/", h.listProducts)
	r.Get("/product/{id:[0-9]+}/", h.getProduct)
	r.Get("/cart/", h.viewCart)
	r.Post("/add_to_cart/{productID:[0-9]+}/", h.addToCart)
	r.Post("/cancel_order/", h.cancelOrder)
	r.Get("/checkout/", h.checkoutForm)
	r.With(h.Auth.RequireCustomer).Post("/checkout/", h.checkout)
	r.With(h.Auth.RequireCustomer).Get("/orders/{id:[0-9]+}/", h.getOrder)
}

// writeError maps domain errors to status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, shop.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}
	log.Printf("%s %s: %v", r.Method, r.URL.Path, err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

// pathID parses a numeric URL param; the route pattern already guarantees digits.
func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil && id > 0
}

func (h *ShopHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	ps, err := h.Service.ListProducts(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]productView, 0, len(ps))
	for _, p := range ps {
		out = append(out, h.product(ctx, p, false))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": out})
}

func (h *ShopHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	p, err := h.Service.GetProduct(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.product(ctx, p, true))
}

func (h *ShopHandler) addToCart(w http.ResponseWriter, r *http.Request) {
	productID, ok := pathID(r, "productID")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	current, _ := h.Sessions.CartID(r)
	cartID, err := h.Service.AddToCart(ctx, current, productID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cartID != current {
		if err := h.Sessions.BindCart(w, r, cartID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/cart/", http.StatusSeeOther)
}

func (h *ShopHandler) viewCart(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.Sessions.CartID(r)
	if !ok {
		// belum ada cart di session: tampilkan cart kosong
		writeJSON(w, http.StatusOK, h.cart(r.Context(), shop.CartView{}))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	view, err := h.Service.ViewCart(ctx, cartID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.cart(ctx, view))
}

func (h *ShopHandler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	if cartID, ok := h.Sessions.CartID(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.Service.CancelOrder(ctx, cartID); err != nil {
			writeError(w, r, err)
			return
		}
	}
	http.Redirect(w, r, "/cart/", http.StatusSeeOther)
}

func (h *ShopHandler) checkoutForm(w http.ResponseWriter, r *http.Request) {
	form := checkoutFormView{Cart: h.cart(r.Context(), shop.CartView{}), Fields: []string{"address"}}

	if cartID, ok := h.Sessions.CartID(r); ok {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		view, err := h.Service.ViewCart(ctx, cartID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		form.Cart = h.cart(ctx, view)
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *ShopHandler) checkout(w http.ResponseWriter, r *http.Request) {
	cartID, ok := h.Sessions.CartID(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no cart in session"})
		return
	}
	address := r.FormValue("address")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	order, err := h.Service.Checkout(ctx, cartID, CustomerFrom(r.Context()), address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(order))
}

func (h *ShopHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	order, err := h.Service.GetOrder(ctx, id, CustomerFrom(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}
