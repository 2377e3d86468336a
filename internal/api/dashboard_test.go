package api_test

import (
	"net/http"
	"testing"

	"github.com/HassanMunene/mazao-erp/internal/store"
)

func TestDashboardRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "farmer@x.com", "password123", store.RoleFarmer, "Farmer")
	client := newClient(t)
	login(t, env, client, "farmer@x.com", "password123")

	for _, path := range []string{"/api/v1/dashboard/summary", "/api/v1/dashboard/distribution", "/api/v1/dashboard/activity"} {
		resp := doJSON(t, client, http.MethodGet, env.Server.URL+path, nil)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("GET %s as farmer = %d, want 403", path, resp.StatusCode)
		}
		decodeEnvelope(t, resp)
	}
}

func TestDashboardSummary(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "admin@x.com", "password123", store.RoleAdmin, "Admin")
	alice := seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")

	for _, qty := range []int{30, 70} {
		if _, err := env.Crops.Create(t.Context(), &store.Crop{
			Name: "Maize", Type: store.CropTypeCereal, Quantity: qty,
			PlantingDate: mustDate(t, "2024-01-01"), Status: store.CropStatusPlanted, FarmerID: alice.ID,
		}); err != nil {
			t.Fatalf("seed crop: %v", err)
		}
	}

	client := newClient(t)
	login(t, env, client, "admin@x.com", "password123")

	resp := doJSON(t, client, http.MethodGet, env.Server.URL+"/api/v1/dashboard/summary", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("summary = %d, want 200", resp.StatusCode)
	}
	data := dataField(t, decodeEnvelope(t, resp))
	if data["totalUsers"] != float64(2) || data["totalFarmers"] != float64(1) || data["totalAdmins"] != float64(1) {
		t.Errorf("user totals = %v", data)
	}
	if data["totalCrops"] != float64(2) || data["totalQuantity"] != float64(100) {
		t.Errorf("crop totals = %v", data)
	}
	// All activity happened this month, so growth over an empty previous
	// month reports 100%.
	if data["userGrowthPct"] != float64(100) || data["cropGrowthPct"] != float64(100) {
		t.Errorf("growth = %v", data)
	}
}

func TestDashboardDistribution(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "admin@x.com", "password123", store.RoleAdmin, "Admin")
	alice := seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")
	loc := "Nakuru"
	if _, err := env.Users.Update(t.Context(), alice.ID, store.UpdateUserParams{Location: &loc}); err != nil {
		t.Fatalf("set location: %v", err)
	}
	bob := seedUser(t, env, "bob@x.com", "password123", store.RoleFarmer, "Bob")

	for _, seed := range []struct {
		farmerID, typ string
	}{
		{alice.ID, store.CropTypeCereal},
		{alice.ID, store.CropTypeCereal},
		{alice.ID, store.CropTypeFruit},
		{bob.ID, store.CropTypeVegetable},
	} {
		if _, err := env.Crops.Create(t.Context(), &store.Crop{
			Name: "Crop", Type: seed.typ, Quantity: 1,
			PlantingDate: mustDate(t, "2024-01-01"), Status: store.CropStatusPlanted, FarmerID: seed.farmerID,
		}); err != nil {
			t.Fatalf("seed crop: %v", err)
		}
	}

	client := newClient(t)
	login(t, env, client, "admin@x.com", "password123")

	resp := doJSON(t, client, http.MethodGet, env.Server.URL+"/api/v1/dashboard/distribution", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("distribution = %d, want 200", resp.StatusCode)
	}
	data := dataField(t, decodeEnvelope(t, resp))

	byType := map[string]float64{}
	for _, item := range data["byType"].([]any) {
		m := item.(map[string]any)
		byType[m["type"].(string)] = m["count"].(float64)
	}
	if byType[store.CropTypeCereal] != 2 || byType[store.CropTypeFruit] != 1 || byType[store.CropTypeVegetable] != 1 {
		t.Errorf("byType = %v", byType)
	}

	byLocation := map[string]float64{}
	for _, item := range data["byLocation"].([]any) {
		m := item.(map[string]any)
		byLocation[m["location"].(string)] = m["count"].(float64)
	}
	if byLocation["Nakuru"] != 3 {
		t.Errorf("byLocation[Nakuru] = %v, want 3", byLocation["Nakuru"])
	}
	// Bob has no location; his crop buckets as UNKNOWN.
	if byLocation["UNKNOWN"] != 1 {
		t.Errorf("byLocation[UNKNOWN] = %v, want 1", byLocation["UNKNOWN"])
	}
}

func TestDashboardActivity(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "admin@x.com", "password123", store.RoleAdmin, "Admin")
	alice := seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")
	if _, err := env.Crops.Create(t.Context(), &store.Crop{
		Name: "Maize", Type: store.CropTypeCereal, Quantity: 10,
		PlantingDate: mustDate(t, "2024-01-01"), Status: store.CropStatusPlanted, FarmerID: alice.ID,
	}); err != nil {
		t.Fatalf("seed crop: %v", err)
	}

	client := newClient(t)
	login(t, env, client, "admin@x.com", "password123")

	resp := doJSON(t, client, http.MethodGet, env.Server.URL+"/api/v1/dashboard/activity", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("activity = %d, want 200", resp.StatusCode)
	}
	data := dataField(t, decodeEnvelope(t, resp))
	items := data["items"].([]any)
	if len(items) != 3 {
		t.Fatalf("activity items = %d, want 3", len(items))
	}

	kinds := map[string]int{}
	for _, item := range items {
		kinds[item.(map[string]any)["kind"].(string)]++
	}
	if kinds["user_registered"] != 2 || kinds["crop_created"] != 1 {
		t.Errorf("activity kinds = %v", kinds)
	}
}
