package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/authz"
	"github.com/HassanMunene/mazao-erp/internal/metrics"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

// cropsAPIHandler provides REST handlers for crop management.
type cropsAPIHandler struct {
	crops *store.CropStore
	users *store.UserStore
}

// registerCropRoutes registers crop routes on r. All require authentication;
// per-record access goes through the ownership policy.
func registerCropRoutes(r chi.Router, crops *store.CropStore, users *store.UserStore) {
	h := &cropsAPIHandler{crops: crops, users: users}
	r.Get("/crops", h.List)
	r.Post("/crops", h.Create)
	r.Get("/crops/stats", h.Stats)
	r.Get("/crops/{id}", h.Get)
	r.Put("/crops/{id}", h.Update)
	r.Delete("/crops/{id}", h.Delete)
}

// List returns a page of crops. Farmers are transparently narrowed to their
// own records; admins may filter by any farmer.
// GET /api/v1/crops
//
// @Summary      List crops
// @Description  Paginated crop listing with type, status, and (admin) farmer filters.
// @Tags         Crops
// @Produce      json
// @Param        page      query     int     false  "Page number"
// @Param        limit     query     int     false  "Page size (max 100)"
// @Param        type      query     string  false  "Crop type filter"
// @Param        status    query     string  false  "Crop status filter"
// @Param        farmerId  query     string  false  "Farmer filter (admin only)"
// @Success      200       {object}  CropListResponse
// @Failure      400       {object}  ErrorResponse
// @Failure      401       {object}  ErrorResponse
// @Router       /crops [get]
func (h *cropsAPIHandler) List(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())
	page, limit := parsePagination(r)

	f := store.CropFilter{
		Type:   r.URL.Query().Get("type"),
		Status: r.URL.Query().Get("status"),
		Page:   page,
		Limit:  limit,
	}
	if f.Type != "" {
		if err := store.ValidateCropType(f.Type); err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
	}
	if f.Status != "" {
		if err := store.ValidateCropStatus(f.Status); err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
	}

	// Scope filter: narrowing, not rejection.
	if user.IsAdmin() {
		f.FarmerID = r.URL.Query().Get("farmerId")
	} else {
		f.FarmerID = user.ID
	}

	crops, total, err := h.crops.List(r.Context(), f)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	items := make([]*CropResponse, 0, len(crops))
	for _, c := range crops {
		items = append(items, toCropResponse(c))
	}
	writeData(w, http.StatusOK, &CropListResponse{
		Items:      items,
		Pagination: newPagination(page, limit, total),
	})
}

// Create records a new crop. Farmers create for themselves; admins may assign
// any existing FARMER via farmerId.
// POST /api/v1/crops
//
// @Summary      Create a crop
// @Tags         Crops
// @Accept       json
// @Produce      json
// @Param        body  body      CreateCropRequest  true  "Crop to create"
// @Success      201   {object}  CropResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      500   {object}  ErrorResponse
// @Router       /crops [post]
func (h *cropsAPIHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	var req CreateCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	farmerID, ok := h.resolveFarmerID(w, r, user, req.FarmerID)
	if !ok {
		return
	}

	crop := &store.Crop{
		Name:        req.Name,
		Type:        req.Type,
		Quantity:    req.Quantity,
		Description: req.Description,
		Status:      store.CropStatusPlanted,
		FarmerID:    farmerID,
	}
	if req.Status != nil {
		crop.Status = *req.Status
	}

	planting, err := parseDate(req.PlantingDate)
	if err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}
	crop.PlantingDate = planting
	if req.HarvestDate != nil {
		harvest, err := parseDate(*req.HarvestDate)
		if err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
		crop.HarvestDate = &harvest
	}

	if err := validateCrop(crop); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	created, err := h.crops.Create(r.Context(), crop)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.CropWritesTotal.WithLabelValues("create").Inc()
	writeData(w, http.StatusCreated, toCropResponse(created))
}

// Get returns a single crop, subject to the ownership policy.
// GET /api/v1/crops/{id}
//
// @Summary      Get a crop
// @Tags         Crops
// @Produce      json
// @Param        id   path      string  true  "Crop ID"
// @Success      200  {object}  CropResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /crops/{id} [get]
func (h *cropsAPIHandler) Get(w http.ResponseWriter, r *http.Request) {
	crop, ok := h.loadAuthorized(w, r, authz.ActionRead)
	if !ok {
		return
	}
	writeData(w, http.StatusOK, toCropResponse(crop))
}

// Update mutates a crop, subject to the ownership policy. Nil request fields
// keep their current values.
// PUT /api/v1/crops/{id}
//
// @Summary      Update a crop
// @Tags         Crops
// @Accept       json
// @Produce      json
// @Param        id    path      string             true  "Crop ID"
// @Param        body  body      UpdateCropRequest  true  "Fields to change"
// @Success      200   {object}  CropResponse
// @Failure      400   {object}  ErrorResponse
// @Failure      401   {object}  ErrorResponse
// @Failure      403   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse
// @Router       /crops/{id} [put]
func (h *cropsAPIHandler) Update(w http.ResponseWriter, r *http.Request) {
	crop, ok := h.loadAuthorized(w, r, authz.ActionUpdate)
	if !ok {
		return
	}

	var req UpdateCropRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, KindInvalidInput, "invalid request body")
		return
	}

	if req.Name != nil {
		crop.Name = *req.Name
	}
	if req.Type != nil {
		crop.Type = *req.Type
	}
	if req.Quantity != nil {
		crop.Quantity = *req.Quantity
	}
	if req.Status != nil {
		crop.Status = *req.Status
	}
	if req.Description != nil {
		crop.Description = req.Description
	}
	if req.PlantingDate != nil {
		planting, err := parseDate(*req.PlantingDate)
		if err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
		crop.PlantingDate = planting
	}
	if req.HarvestDate != nil {
		harvest, err := parseDate(*req.HarvestDate)
		if err != nil {
			writeError(w, KindInvalidInput, err.Error())
			return
		}
		crop.HarvestDate = &harvest
	}

	if err := validateCrop(crop); err != nil {
		writeError(w, KindInvalidInput, err.Error())
		return
	}

	updated, err := h.crops.Update(r.Context(), crop)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.CropWritesTotal.WithLabelValues("update").Inc()
	writeData(w, http.StatusOK, toCropResponse(updated))
}

// Delete removes a crop, subject to the ownership policy.
// DELETE /api/v1/crops/{id}
//
// @Summary      Delete a crop
// @Tags         Crops
// @Produce      json
// @Param        id   path      string  true  "Crop ID"
// @Success      200  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /crops/{id} [delete]
func (h *cropsAPIHandler) Delete(w http.ResponseWriter, r *http.Request) {
	crop, ok := h.loadAuthorized(w, r, authz.ActionDelete)
	if !ok {
		return
	}
	if err := h.crops.Delete(r.Context(), crop.ID); err != nil {
		writeStoreError(w, err)
		return
	}
	metrics.CropWritesTotal.WithLabelValues("delete").Inc()
	writeMessage(w, http.StatusOK, "crop deleted")
}

// Stats summarizes crops: scoped to the caller for farmers, system-wide (or
// per farmerId) for admins.
// GET /api/v1/crops/stats
//
// @Summary      Crop statistics
// @Tags         Crops
// @Produce      json
// @Param        farmerId  query     string  false  "Farmer filter (admin only)"
// @Success      200       {object}  CropStatsResponse
// @Failure      401       {object}  ErrorResponse
// @Failure      500       {object}  ErrorResponse
// @Router       /crops/stats [get]
func (h *cropsAPIHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFromContext(r.Context())

	farmerID := user.ID
	if user.IsAdmin() {
		farmerID = r.URL.Query().Get("farmerId")
	}

	st, err := h.crops.Stats(r.Context(), farmerID)
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

// loadAuthorized fetches the crop from the URL and applies the ownership
// policy. It writes the error response itself when access is refused.
func (h *cropsAPIHandler) loadAuthorized(w http.ResponseWriter, r *http.Request, action authz.Action) (*store.Crop, bool) {
	user := auth.UserFromContext(r.Context())
	crop, err := h.crops.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, KindNotFound, "crop not found")
		} else {
			writeError(w, KindInternal, "internal error")
		}
		return nil, false
	}
	if !authz.CanAccess(user, crop.FarmerID, action) {
		metrics.AccessDeniedTotal.Inc()
		writeError(w, KindForbidden, "forbidden")
		return nil, false
	}
	return crop, true
}

// resolveFarmerID decides who will own a new crop. Farmers always own their
// crops; an admin-supplied farmerId must reference an existing FARMER.
func (h *cropsAPIHandler) resolveFarmerID(w http.ResponseWriter, r *http.Request, user *store.User, requested *string) (string, bool) {
	if !user.IsAdmin() {
		if requested != nil && *requested != user.ID {
			metrics.AccessDeniedTotal.Inc()
			writeError(w, KindForbidden, "farmers may only create crops for themselves")
			return "", false
		}
		return user.ID, true
	}

	if requested == nil {
		writeError(w, KindInvalidInput, "farmerId is required when creating a crop as admin")
		return "", false
	}
	owner, err := h.users.GetByID(r.Context(), *requested)
	if err != nil || owner.Role != store.RoleFarmer {
		writeError(w, KindInvalidInput, store.ErrNotFarmer.Error())
		return "", false
	}
	return owner.ID, true
}

// validateCrop applies the domain rules shared by create and update.
func validateCrop(c *store.Crop) error {
	if err := store.ValidateCropType(c.Type); err != nil {
		return err
	}
	if err := store.ValidateCropStatus(c.Status); err != nil {
		return err
	}
	if err := store.ValidateQuantity(c.Quantity); err != nil {
		return err
	}
	return store.ValidateCropDates(c.PlantingDate, c.HarvestDate)
}
