package api

import (
	"fmt"
	"time"

	"github.com/HassanMunene/mazao-erp/internal/store"
)

// --- Auth types ---

// RegisterRequest is the request body for POST /api/v1/auth/register.
type RegisterRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"fullName" validate:"required"`
	Location    *string `json:"location,omitempty"`
	ContactInfo *string `json:"contactInfo,omitempty"`
}

// LoginRequest is the request body for POST /api/v1/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// --- User types ---

// CreateUserRequest is the request body for POST /api/v1/users (admin creates
// a farmer account).
type CreateUserRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	FullName    string  `json:"fullName" validate:"required"`
	Location    *string `json:"location,omitempty"`
	ContactInfo *string `json:"contactInfo,omitempty"`
}

// UpdateUserRequest is the request body for PUT /api/v1/users/{id}.
// Nil fields are left unchanged.
type UpdateUserRequest struct {
	Email       *string `json:"email,omitempty" validate:"omitempty,email"`
	Role        *string `json:"role,omitempty"`
	FullName    *string `json:"fullName,omitempty"`
	Location    *string `json:"location,omitempty"`
	ContactInfo *string `json:"contactInfo,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// UserResponse is the JSON representation of a principal with its profile.
// It never carries the password hash.
type UserResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	FullName    string    `json:"fullName"`
	Location    *string   `json:"location,omitempty"`
	ContactInfo *string   `json:"contactInfo,omitempty"`
	Avatar      *string   `json:"avatar,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// UserListResponse is the paginated payload for user list endpoints.
type UserListResponse struct {
	Items      []*UserResponse `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// UserStatsResponse summarizes principals by role.
type UserStatsResponse struct {
	Total   int `json:"total"`
	Admins  int `json:"admins"`
	Farmers int `json:"farmers"`
}

// --- Crop types ---

// CreateCropRequest is the request body for POST /api/v1/crops.
// Dates accept RFC 3339 or plain YYYY-MM-DD. FarmerID is honored for admin
// callers only; farmers always create crops for themselves.
type CreateCropRequest struct {
	Name         string  `json:"name" validate:"required"`
	Type         string  `json:"type" validate:"required"`
	Quantity     int     `json:"quantity" validate:"required,gt=0"`
	PlantingDate string  `json:"plantingDate" validate:"required"`
	HarvestDate  *string `json:"harvestDate,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	FarmerID     *string `json:"farmerId,omitempty"`
}

// UpdateCropRequest is the request body for PUT /api/v1/crops/{id}.
// Nil fields are left unchanged.
type UpdateCropRequest struct {
	Name         *string `json:"name,omitempty"`
	Type         *string `json:"type,omitempty"`
	Quantity     *int    `json:"quantity,omitempty"`
	PlantingDate *string `json:"plantingDate,omitempty"`
	HarvestDate  *string `json:"harvestDate,omitempty"`
	Description  *string `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// CropResponse is the JSON representation of a crop.
type CropResponse struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	Quantity     int        `json:"quantity"`
	PlantingDate time.Time  `json:"plantingDate"`
	HarvestDate  *time.Time `json:"harvestDate,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Status       string     `json:"status"`
	FarmerID     string     `json:"farmerId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CropListResponse is the paginated payload for crop list endpoints.
type CropListResponse struct {
	Items      []*CropResponse `json:"items"`
	Pagination Pagination      `json:"pagination"`
}

// CropStatsResponse summarizes crops by status and quantity.
type CropStatsResponse struct {
	Total         int `json:"total"`
	TotalQuantity int `json:"totalQuantity"`
	Planted       int `json:"planted"`
	Harvested     int `json:"harvested"`
	Sold          int `json:"sold"`
}

// --- Profile types ---

// UpdateProfileRequest is the request body for PUT /api/v1/profile/me.
type UpdateProfileRequest struct {
	FullName    *string `json:"fullName,omitempty"`
	Location    *string `json:"location,omitempty"`
	ContactInfo *string `json:"contactInfo,omitempty"`
	Avatar      *string `json:"avatar,omitempty"`
}

// --- Dashboard types ---

// DashboardSummaryResponse carries system totals and month-over-month growth.
type DashboardSummaryResponse struct {
	TotalUsers     int     `json:"totalUsers"`
	TotalFarmers   int     `json:"totalFarmers"`
	TotalAdmins    int     `json:"totalAdmins"`
	TotalCrops     int     `json:"totalCrops"`
	TotalQuantity  int     `json:"totalQuantity"`
	UserGrowthPct  float64 `json:"userGrowthPct"`
	CropGrowthPct  float64 `json:"cropGrowthPct"`
	UsersThisMonth int     `json:"usersThisMonth"`
	CropsThisMonth int     `json:"cropsThisMonth"`
}

// TypeCountResponse is a crop count bucketed by type.
type TypeCountResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// LocationCountResponse is a crop count bucketed by farmer location.
type LocationCountResponse struct {
	Location string `json:"location"`
	Count    int    `json:"count"`
}

// DistributionResponse carries crop distribution buckets.
type DistributionResponse struct {
	ByType     []*TypeCountResponse     `json:"byType"`
	ByLocation []*LocationCountResponse `json:"byLocation"`
}

// ActivityItem is one entry in the recent-activity feed.
type ActivityItem struct {
	Kind       string    `json:"kind"` // "user_registered" or "crop_created"
	ID         string    `json:"id"`
	Label      string    `json:"label"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ActivityResponse is the recent-activity feed payload.
type ActivityResponse struct {
	Items []*ActivityItem `json:"items"`
}

// --- converters ---

func toUserResponse(u *store.User, p *store.Profile) *UserResponse {
	resp := &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
	if p != nil {
		resp.FullName = p.FullName
		resp.Location = p.Location
		resp.ContactInfo = p.ContactInfo
		resp.Avatar = p.Avatar
	}
	return resp
}

func fromUserWithProfile(u *store.UserWithProfile) *UserResponse {
	return &UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Role:        u.Role,
		FullName:    u.FullName,
		Location:    u.Location,
		ContactInfo: u.ContactInfo,
		Avatar:      u.Avatar,
		CreatedAt:   u.CreatedAt,
	}
}

func toCropResponse(c *store.Crop) *CropResponse {
	return &CropResponse{
		ID:           c.ID,
		Name:         c.Name,
		Type:         c.Type,
		Quantity:     c.Quantity,
		PlantingDate: c.PlantingDate,
		HarvestDate:  c.HarvestDate,
		Description:  c.Description,
		Status:       c.Status,
		FarmerID:     c.FarmerID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

// parseDate accepts RFC 3339 timestamps or plain YYYY-MM-DD dates.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: use RFC 3339 or YYYY-MM-DD", s)
}
