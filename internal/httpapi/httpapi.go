package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"wardrobewizard/backend/internal/cart"
	"wardrobewizard/backend/internal/domain"
)

type API struct {
	carts         *cart.Manager
	sessions      *SessionManager
	allowedOrigin string
	logger        *zap.Logger
}

func New(carts *cart.Manager, sessions *SessionManager, allowedOrigin string, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{
		carts:         carts,
		sessions:      sessions,
		allowedOrigin: allowedOrigin,
		logger:        logger,
	}
}

func (a *API) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID, chimiddleware.RealIP)
	r.Use(chimiddleware.Timeout(15 * time.Second))
	r.Use(a.withMiddleware)

	r.Get("/healthz", a.handleHealth)
	r.Post("/api/v1/session", a.handleSessionCreate)
	r.Get("/api/v1/coupons", a.handleCoupons)

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Use(a.requireSession)
		r.Get("/", a.handleCartView)
		r.Delete("/", a.handleCartClear)
		r.Post("/items", a.handleItemAdd)
		r.Patch("/items/{productID}", a.handleQuantityUpdate)
		r.Delete("/items/{productID}", a.handleItemRemove)
		r.Post("/coupon", a.handleCouponApply)
		r.Delete("/coupon", a.handleCouponRemove)
	})

	return r
}

type sessionIDKey struct{}

func withSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey{}, sessionID)
}

func sessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey{}).(string)
	return id, ok
}

func (a *API) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authorization := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(strings.ToLower(authorization), "bearer ") {
			writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing bearer token"))
			return
		}

		token := strings.TrimSpace(authorization[len("Bearer "):])
		sessionID, err := a.sessions.Parse(token)
		if err != nil {
			writeError(a.logger, w, http.StatusUnauthorized, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), sessionID)))
	})
}

func (a *API) withMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Access-Control-Allow-Origin", a.allowedOrigin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PATCH,DELETE,OPTIONS")
		w.Header().Set("Vary", "Origin")

		if r.Method == http.MethodPost || r.Method == http.MethodPatch {
			r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		startedAt := time.Now()
		next.ServeHTTP(w, r)
		a.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(startedAt)))
	})
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleSessionCreate(w http.ResponseWriter, r *http.Request) {
	resp, err := a.sessions.Issue()
	if err != nil {
		writeError(a.logger, w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (a *API) handleCoupons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.CouponListResponse{Coupons: cart.Coupons()})
}

func (a *API) engine(r *http.Request) (*cart.Engine, bool) {
	sessionID, ok := sessionIDFromContext(r.Context())
	if !ok {
		return nil, false
	}
	return a.carts.Engine(r.Context(), sessionID), true
}

func (a *API) handleCartView(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}
	writeJSON(w, http.StatusOK, engine.View())
}

func (a *API) handleItemAdd(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}

	var product domain.Product
	if err := decodeJSON(r, &product); err != nil {
		writeError(a.logger, w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.AddItem(r.Context(), product))
}

func (a *API) handleQuantityUpdate(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		writeError(a.logger, w, http.StatusBadRequest, err)
		return
	}

	var req domain.UpdateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(a.logger, w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.UpdateQuantity(r.Context(), productID, req.Quantity))
}

func (a *API) handleItemRemove(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}

	productID, err := productIDParam(r)
	if err != nil {
		writeError(a.logger, w, http.StatusBadRequest, err)
		return
	}

	writeJSON(w, http.StatusOK, engine.RemoveItem(r.Context(), productID))
}

func (a *API) handleCartClear(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}
	writeJSON(w, http.StatusOK, engine.Clear(r.Context()))
}

func (a *API) handleCouponApply(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}

	var req domain.ApplyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(a.logger, w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Code) == "" {
		writeError(a.logger, w, http.StatusBadRequest, errors.New("coupon code required"))
		return
	}

	view, err := engine.ApplyCoupon(req.Code)
	if err != nil {
		status := http.StatusUnprocessableEntity
		if errors.Is(err, cart.ErrCouponNotFound) {
			status = http.StatusNotFound
		}
		writeError(a.logger, w, status, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (a *API) handleCouponRemove(w http.ResponseWriter, r *http.Request) {
	engine, ok := a.engine(r)
	if !ok {
		writeError(a.logger, w, http.StatusUnauthorized, errors.New("missing session"))
		return
	}
	writeJSON(w, http.StatusOK, engine.RemoveCoupon())
}

func productIDParam(r *http.Request) (int, error) {
	raw := chi.URLParam(r, "productID")
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, errors.New("invalid product id")
	}
	return id, nil
}

// decodeJSON reads the body into dest. Unknown fields are tolerated because
// storefront payloads carry presentation-only fields the engine ignores.
func decodeJSON(r *http.Request, dest any) error {
	return json.NewDecoder(r.Body).Decode(dest)
}

func writeError(logger *zap.Logger, w http.ResponseWriter, status int, err error) {
	// 5xx responses return a generic message so internals never leak to the
	// client; 4xx messages are user-facing.
	msg := err.Error()
	if status >= 500 {
		logger.Error("internal error", zap.Int("status", status), zap.Error(err))
		msg = "internal server error"
	}
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
