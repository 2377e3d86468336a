package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/authz"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// usersAPIHandler provides REST handlers for the admin user-management
// endpoints.
type usersAPIHandler struct {
	users *store.UserStore
}

// registerUserRoutes registers admin-only user routes on r. The caller wraps
// them with the role gate.
func registerUserRoutes(r chi.Router, users *store.UserStore) {
	h := &usersAPIHandler{users: users}
	r.Get("/users", h.List)
	r.Post("/users", h.Create)
	r.Get("/users/stats", h.Stats)
	r.Get("/users/{id}", h.Get)
	r.Put("/users/{id}", h.Update)
	r.Delete("/users/{id}", h.Delete)
}

// List returns a page of principals with profiles, filtered by role and a
// case-insensitive search over email and full name.
// GET /api/v1/users
//
// @Summary      List users (admin)
// @Tags         Users
// @Produce      json
// @Param        page    query     int     false  "Page number"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Param        role    query     string  false  "Role filter (ADMIN or FARMER)"
// @Param        search  query     string  false  "Substring of email or full name"
// @Success      200     {object}  UserListResponse
// @Failure      400     {object}  ErrorResponse
// @Failure      401     {object}  ErrorResponse
// @Failure      403     {object}  ErrorResponse
// @Router       /users [get]
func (h *usersAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := parsePagination(r)

	f := store.UserFilter{
		Role:   r.URL.Query().Get("role"),
		Search: r.URL.Query().Get("search"),
		Page:   page,
		Limit:  limit,
	}
	if f.Role != "" {
		if err := store.ValidateRole(f.Role); err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
	}

	users, total, err := h.users.List(r.Context(), f)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	items := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, fromUserWithProfile(u))
	}
	writeData(w, http.StatusOK, &UserListResponse{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// Create registers a FARMER account on behalf of an admin.
// POST /api/v1/users
//
// @Summary      Create a farmer (admin)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      CreateUserRequest  true  "Farmer account to create"
// @Success      201   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users [post]
func (h *usersAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
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

	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusCreated, toUserResponse(user, profile))
}

// Get returns a single principal with its profile.
// GET /api/v1/users/{id}
//
// @Summary      Get a user (admin)
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  UserResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [get]
func (h *usersAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.users.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	profile, err := h.users.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeData(w, http.StatusOK, toUserResponse(user, profile))
}

// Update mutates a principal and its profile. An admin cannot change their
// own role away from ADMIN.
// PUT /api/v1/users/{id}
//
// @Summary      Update a user (admin)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "User ID"
// @Param        body  body      UpdateUserRequest  true  "Fields to change"
// @Success      200   {object}  UserResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Failure      409   {object}  ErrorResponse
// @Router       /users/{id} [put]
func (h *usersAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	if req.Role != nil {
		if err := store.ValidateRole(*req.Role); err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
		// Self-demotion would let the last admin lock everyone out.
		if id == caller.ID && *req.Role != store.RoleAdmin {
			writeError(w, KindInvalidInput, "admins cannot change their own role")
			return
		}
	}

	updated, err := h.users.Update(r.Context(), id, store.UpdateUserParams{
		Email:       req.Email,
		Role:        req.Role,
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

// Delete removes a principal, cascading to its profile and crops. Admins
// cannot delete themselves.
// DELETE /api/v1/users/{id}
//
// @Summary      Delete a user (admin)
// @Tags         Users
// @Produce      json
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  ErrorResponse
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /users/{id} [delete]
func (h *usersAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	caller := auth.UserFromContext(r.Context())
	id := chi.URLParam(r, "id")

	if _, err := h.users.GetByID(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	if !authz.CanAccess(caller, id, authz.ActionDelete) {
		// The only deniable case for an admin is self-deletion.
		writeError(w, KindInvalidInput, "admins cannot delete their own account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}
	writeMessage(w, http.StatusOK, "user deleted")
}

// Stats returns principal totals by role.
// GET /api/v1/users/stats
//
// @Summary      User statistics (admin)
// @Tags         Users
// @Produce      json
// @Success      200  {object}  UserStatsResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Router       /users/stats [get]
func (h *usersAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	counts, err := h.users.Counts(r.Context())
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	writeData(w, http.StatusOK, &UserStatsResponse{
		Total:   counts.Total,
		Admins:  counts.Admins,
		Farmers: counts.Farmers,
	})
}
