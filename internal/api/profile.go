package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// profileAPIHandler provides self-service profile handlers. Every route acts
// on the authenticated principal; no id is accepted from the request.
type profileAPIHandler struct {
	users *store.UserStore
	crops *store.CropStore
}

// registerProfileRoutes registers the self-service profile routes on r.
func registerProfileRoutes(r chi.Router, users *store.UserStore, crops *store.CropStore) {
	h := &profileAPIHandler{users: users, crops: crops}
	r.Get("/profile/me", h.Get)
	r.Put("/profile/me", h.Update)
	r.Get("/profile/me/stats", h.Stats)
}

// Get returns the caller's profile.
// GET /api/v1/profile/me
//
// @Summary      Own profile
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /profile/me [get]
func (h *profileAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user, profile))
}

// Update mutates the caller's own profile fields.
// PUT /api/v1/profile/me
//
// @Summary      Update own profile
// @Tags         Profile
// @Accept       json
// @Produce      json
// @Param        body  body      UpdateProfileRequest  true  "Fields to change"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Router       /profile/me [put]
func (h *profileAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}
	if req.FullName != nil && *req.FullName == "" {
		writeError(w, KindInvalidInput, "fullName must not be empty")
		return
	}

	updated, err := h.users.Update(r.Context(), user.ID, store.UpdateUserParams{
		FullName:    req.FullName,
		Location:    req.Location,
		ContactInfo: req.ContactInfo,
		Avatar:      req.Avatar,
	})
	if err != nil {
		writeStoreError(w, err)
		return
	}

	profile, err := h.users.GetProfile(r.Context(), updated.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(updated, profile))
}

// Stats returns the caller's own crop statistics.
// GET /api/v1/profile/me/stats
//
// @Summary      Own crop statistics
// @Tags         Profile
// @Produce      json
// @Success      200  {object}  CropStatsResponse
// @Failure      401  {object}  ErrorResponse
// @Router       /profile/me/stats [get]
func (h *profileAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	st, err := h.crops.Stats(r.Context(), user.ID)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	writeData(w, http.StatusOK, &CropStatsResponse{
		Total:         st.Total,
		TotalQuantity: st.TotalQuantity,
		Planted:       st.Planted,
		Harvested:     st.Harvested,
		Sold:          st.Sold,
	})
}
