package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/HassanMunene/mazao-erp/internal/store"
)

// dashboardAPIHandler provides the admin dashboard aggregate endpoints.
type dashboardAPIHandler struct {
	users *store.UserStore
	crops *store.CropStore
}

// registerDashboardRoutes registers admin-only dashboard routes on r.
func registerDashboardRoutes(r chi.Router, users *store.UserStore, crops *store.CropStore) {
	h := &dashboardAPIHandler{users: users, crops: crops}
	r.Get("/dashboard/summary", h.Summary)
	r.Get("/dashboard/distribution", h.Distribution)
	r.Get("/dashboard/activity", h.Activity)
}

// Summary returns system totals and month-over-month growth percentages.
// GET /api/v1/dashboard/summary
//
// @Summary      Dashboard totals and growth (admin)
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  DashboardSummaryResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard/summary [get]
func (h *dashboardAPIHandler) Summary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	counts, err := h.users.Counts(ctx)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	cropStats, err := h.crops.Stats(ctx, "")
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prevMonthStart := monthStart.AddDate(0, -1, 0)

	usersThisMonth, err := h.users.CountCreatedBetween(ctx, monthStart, now)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	usersPrevMonth, err := h.users.CountCreatedBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	cropsThisMonth, err := h.crops.CountCreatedBetween(ctx, monthStart, now)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	cropsPrevMonth, err := h.crops.CountCreatedBetween(ctx, prevMonthStart, monthStart)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	writeData(w, http.StatusOK, &DashboardSummaryResponse{
		TotalUsers:     counts.Total,
		TotalFarmers:   counts.Farmers,
		TotalAdmins:    counts.Admins,
		TotalCrops:     cropStats.Total,
		TotalQuantity:  cropStats.TotalQuantity,
		UserGrowthPct:  growthPct(usersPrevMonth, usersThisMonth),
		CropGrowthPct:  growthPct(cropsPrevMonth, cropsThisMonth),
		UsersThisMonth: usersThisMonth,
		CropsThisMonth: cropsThisMonth,
	})
}

// Distribution returns crop counts bucketed by type and by farmer location.
// GET /api/v1/dashboard/distribution
//
// @Summary      Crop distribution (admin)
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  DistributionResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard/distribution [get]
func (h *dashboardAPIHandler) Distribution(w http.ResponseWriter, r *http.Request) {
	byType, err := h.crops.CountByType(r.Context())
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	byLocation, err := h.crops.CountByLocation(r.Context())
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	resp := &DistributionResponse{
		ByType:     make([]*TypeCountResponse, 0, len(byType)),
		ByLocation: make([]*LocationCountResponse, 0, len(byLocation)),
	}
	for _, t := range byType {
		resp.ByType = append(resp.ByType, &TypeCountResponse{Type: t.Type, Count: t.Count})
	}
	for _, l := range byLocation {
		resp.ByLocation = append(resp.ByLocation, &LocationCountResponse{Location: l.Location, Count: l.Count})
	}
	writeData(w, http.StatusOK, resp)
}

// Activity returns a merged feed of recent registrations and crop creations,
// newest first.
// GET /api/v1/dashboard/activity
//
// @Summary      Recent activity feed (admin)
// @Tags         Dashboard
// @Produce      json
// @Success      200  {object}  ActivityResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /dashboard/activity [get]
func (h *dashboardAPIHandler) Activity(w http.ResponseWriter, r *http.Request) {
	const feedSize = 20

	users, err := h.users.Recent(r.Context(), feedSize)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}
	crops, err := h.crops.Recent(r.Context(), feedSize)
	if err != nil {
		writeError(w, KindInternal, "internal error")
		return
	}

	items := make([]*ActivityItem, 0, len(users)+len(crops))
	for _, u := range users {
		items = append(items, &ActivityItem{
			Kind:       "user_registered",
			ID:         u.ID,
			Label:      u.FullName + " (" + u.Email + ")",
			OccurredAt: u.CreatedAt,
		})
	}
	for _, c := range crops {
		items = append(items, &ActivityItem{
			Kind:       "crop_created",
			ID:         c.ID,
			Label:      c.Name,
			OccurredAt: c.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].OccurredAt.After(items[j].OccurredAt) })
	if len(items) > feedSize {
		items = items[:feedSize]
	}
	writeData(w, http.StatusOK, &ActivityResponse{Items: items})
}

// growthPct computes month-over-month growth. A zero previous month with new
// activity reports 100%.
func growthPct(prev, cur int) float64 {
	if prev == 0 {
		if cur > 0 {
			return 100
		}
		return 0
	}
	return (float64(cur-prev) / float64(prev)) * 100
}
