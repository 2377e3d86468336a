package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/metrics"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// authAPIHandler provides REST handlers for registration, login, and session
// introspection.
type authAPIHandler struct {
	sessions *scs.SessionManager
	users    *store.UserStore
}

// registerAuthRoutes registers the public auth routes and the session-scoped
// logout/me routes on r.
func registerAuthRoutes(r chi.Router, mw *auth.Middleware, sessions *scs.SessionManager, users *store.UserStore) {
	h := &authAPIHandler{sessions: sessions, users: users}
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Group(func(r chi.Router) {
		r.Use(mw.RequireAuth)
		r.Post("/auth/logout", h.Logout)
		r.Get("/auth/me", h.Me)
	})
}

// Register creates a FARMER account with its profile and logs the caller in.
// POST /api/v1/auth/register
//
// @Summary      Register a farmer account
// @Description  Self-signup. Creates the principal and its profile atomically and starts a session.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      RegisterRequest  true  "Account to create"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/register [post]
func (h *authAPIHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	user, err := h.users.Create(r.Context(), req.Email, hash, store.RoleFarmer, req.FullName, req.Location, req.ContactInfo)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.RegistrationsTotal.Inc()

	if err := h.startSession(r, user.ID); err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toUserResponse(user, profile))
}

// Login checks credentials and starts a session.
// POST /api/v1/auth/login
//
// @Summary      Log in
// @Description  Verifies email and password and sets the session cookie.
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      LoginRequest  true  "Credentials"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /auth/login [post]
func (h *authAPIHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			metrics.LoginsTotal.WithLabelValues("failure").Inc()
			writeError(w, KindUnauthenticated, "invalid email or password")
			return
		}
		writeError(w, KindInternal, "internal error")
		return
	}
	if !auth.CheckPassword(user.PasswordHash, req.Password) {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		writeError(w, KindUnauthenticated, "invalid email or password")
		return
	}

	if err := h.startSession(r, user.ID); err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	metrics.LoginsTotal.WithLabelValues("success").Inc()

	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user, profile))
}

// Logout destroys the session; the cookie is expired immediately.
// POST /api/v1/auth/logout
//
// @Summary      Log out
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/logout [post]
func (h *authAPIHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	writeMessage(w, http.StatusOK, "logged out")
}

// Me returns the authenticated principal with its profile.
// GET /api/v1/auth/me
//
// @Summary      Current principal
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /auth/me [get]
func (h *authAPIHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user, profile))
}

// startSession rotates the session token and binds it to userID.
func (h *authAPIHandler) startSession(r *http.Request, userID string) error {
	if err := h.sessions.RenewToken(r.Context()); err != nil {
		return err
	}
	h.sessions.Put(r.Context(), auth.SessionUserIDKey, userID)
	return nil
}
