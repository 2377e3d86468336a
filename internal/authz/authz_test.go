package authz_test

import (
	"testing"

	"github.com/HassanMunene/mazao-erp/internal/authz"
	"github.com/HassanMunene/mazao-erp/internal/store"
)

func TestCanAccess(t *testing.T) {
	admin := &store.User{ID: "admin-1", Role: store.RoleAdmin}
	farmer := &store.User{ID: "farmer-1", Role: store.RoleFarmer}

	tests := []struct {
		name    string
		caller  *store.User
		ownerID string
		action  authz.Action
		want    bool
	}{
		{"admin reads any resource", admin, "farmer-1", authz.ActionRead, true},
		{"admin updates any resource", admin, "farmer-1", authz.ActionUpdate, true},
		{"admin deletes others", admin, "farmer-1", authz.ActionDelete, true},
		{"admin reads own resource", admin, "admin-1", authz.ActionRead, true},
		{"admin updates own resource", admin, "admin-1", authz.ActionUpdate, true},
		{"admin cannot delete self", admin, "admin-1", authz.ActionDelete, false},
		{"farmer reads own resource", farmer, "farmer-1", authz.ActionRead, true},
		{"farmer updates own resource", farmer, "farmer-1", authz.ActionUpdate, true},
		{"farmer deletes own resource", farmer, "farmer-1", authz.ActionDelete, true},
		{"farmer cannot read others", farmer, "farmer-2", authz.ActionRead, false},
		{"farmer cannot update others", farmer, "farmer-2", authz.ActionUpdate, false},
		{"farmer cannot delete others", farmer, "farmer-2", authz.ActionDelete, false},
		{"nil principal denied", nil, "farmer-1", authz.ActionRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := authz.CanAccess(tt.caller, tt.ownerID, tt.action)
			if got != tt.want {
				t.Errorf("CanAccess(%v, %q, %q) = %v, want %v", tt.caller, tt.ownerID, tt.action, got, tt.want)
			}
		})
	}
}
