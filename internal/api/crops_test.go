package api_test

import (
	"net/http"
	"testing"

	"github.com/HassanMunene/mazao-erp/internal/store"
)

func TestFarmerCropLifecycle(t *testing.T) {
	env := newTestEnv(t)
	client := newClient(t)

	// Register, log in implicitly, create a crop, read it back.
	resp := doJSON(t, client, http.MethodPost, env.Server.URL+"/api/v1/auth/register", map[string]any{
		"email":    "alice@x.com",
		"password": "password123",
		"fullName": "Alice",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register = %d, want 201", resp.StatusCode)
	}
	alice := dataField(t, decodeEnvelope(t, resp))

	resp = doJSON(t, client, http.MethodPost, env.Server.URL+"/api/v1/crops", map[string]any{
		"name":         "Maize",
		"type":         "CEREAL",
		"quantity":     50,
		"plantingDate": "2024-01-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create crop = %d, want 201", resp.StatusCode)
	}
	crop := dataField(t, decodeEnvelope(t, resp))
	if crop["quantity"] != float64(50) {
		t.Errorf("quantity = %v, want 50", crop["quantity"])
	}
	if crop["farmerId"] != alice["id"] {
		t.Errorf("farmerId = %v, want %v", crop["farmerId"], alice["id"])
	}
	if crop["status"] != store.CropStatusPlanted {
		t.Errorf("status = %v, want PLANTED", crop["status"])
	}

	cropID := crop["id"].(string)
	resp = doJSON(t, client, http.MethodPut, env.Server.URL+"/api/v1/crops/"+cropID, map[string]any{
		"quantity":    80,
		"status":      "HARVESTED",
		"harvestDate": "2024-05-01",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update crop = %d, want 200", resp.StatusCode)
	}
	updated := dataField(t, decodeEnvelope(t, resp))
	if updated["quantity"] != float64(80) || updated["status"] != "HARVESTED" {
		t.Errorf("updated = %v, want quantity 80 status HARVESTED", updated)
	}

	resp = doJSON(t, client, http.MethodDelete, env.Server.URL+"/api/v1/crops/"+cropID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete crop = %d, want 200", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	resp = doJSON(t, client, http.MethodGet, env.Server.URL+"/api/v1/crops/"+cropID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("get deleted crop = %d, want 404", resp.StatusCode)
	}
	decodeEnvelope(t, resp)
}

func TestCropValidation(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "farmer@x.com", "password123", store.RoleFarmer, "Farmer")
	client := newClient(t)
	login(t, env, client, "farmer@x.com", "password123")

	tests := []struct {
		name string
		body map[string]any
	}{
		{"zero quantity", map[string]any{"name": "Maize", "type": "CEREAL", "quantity": 0, "plantingDate": "2024-01-01"}},
		{"negative quantity", map[string]any{"name": "Maize", "type": "CEREAL", "quantity": -5, "plantingDate": "2024-01-01"}},
		{"unknown type", map[string]any{"name": "Maize", "type": "GRAIN", "quantity": 10, "plantingDate": "2024-01-01"}},
		{"unknown status", map[string]any{"name": "Maize", "type": "CEREAL", "quantity": 10, "plantingDate": "2024-01-01", "status": "GROWING"}},
		{"harvest before planting", map[string]any{"name": "Maize", "type": "CEREAL", "quantity": 10, "plantingDate": "2024-06-01", "harvestDate": "2024-01-01"}},
		{"bad date", map[string]any{"name": "Maize", "type": "CEREAL", "quantity": 10, "plantingDate": "yesterday"}},
		{"missing name", map[string]any{"type": "CEREAL", "quantity": 10, "plantingDate": "2024-01-01"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, client, http.MethodPost, env.Server.URL+"/api/v1/crops", tt.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", resp.StatusCode)
			}
			decodeEnvelope(t, resp)
		})
	}

	// Nothing was persisted.
	resp := doJSON(t, client, http.MethodGet, env.Server.URL+"/api/v1/crops", nil)
	data := dataField(t, decodeEnvelope(t, resp))
	pagination := data["pagination"].(map[string]any)
	if pagination["totalItems"] != float64(0) {
		t.Errorf("totalItems = %v, want 0", pagination["totalItems"])
	}
}

func TestCropOwnershipEnforcement(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")
	bob := seedUser(t, env, "bob@x.com", "password123", store.RoleFarmer, "Bob")

	bobCrop, err := env.Crops.Create(t.Context(), &store.Crop{
		Name: "Beans", Type: store.CropTypeLegume, Quantity: 20,
		PlantingDate: mustDate(t, "2024-02-01"), Status: store.CropStatusPlanted, FarmerID: bob.ID,
	})
	if err != nil {
		t.Fatalf("seed bob crop: %v", err)
	}

	alice := newClient(t)
	login(t, env, alice, "alice@x.com", "password123")

	// Alice cannot read, update, or delete bob's crop.
	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		var body map[string]any
		if method == http.MethodPut {
			body = map[string]any{"quantity": 99}
		}
		resp := doJSON(t, alice, method, env.Server.URL+"/api/v1/crops/"+bobCrop.ID, body)
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s = %d, want 403", method, resp.StatusCode)
		}
		decodeEnvelope(t, resp)
	}

	// Bob's crop never appears in alice's list.
	resp := doJSON(t, alice, http.MethodGet, env.Server.URL+"/api/v1/crops", nil)
	data := dataField(t, decodeEnvelope(t, resp))
	items := data["items"].([]any)
	if len(items) != 0 {
		t.Errorf("alice sees %d crops, want 0", len(items))
	}

	// A farmer cannot create a crop for someone else.
	resp = doJSON(t, alice, http.MethodPost, env.Server.URL+"/api/v1/crops", map[string]any{
		"name": "Sneaky", "type": "CEREAL", "quantity": 5, "plantingDate": "2024-01-01", "farmerId": bob.ID,
	})
	if resp.StatusCode != http.StatusForbidden {
		t.Errorf("create for other farmer = %d, want 403", resp.StatusCode)
	}
	decodeEnvelope(t, resp)
}

func TestAdminCropAccess(t *testing.T) {
	env := newTestEnv(t)
	seedUser(t, env, "admin@x.com", "password123", store.RoleAdmin, "Admin")
	farmer := seedUser(t, env, "farmer@x.com", "password123", store.RoleFarmer, "Farmer")

	admin := newClient(t)
	login(t, env, admin, "admin@x.com", "password123")

	// Admin creates a crop on behalf of the farmer.
	resp := doJSON(t, admin, http.MethodPost, env.Server.URL+"/api/v1/crops", map[string]any{
		"name": "Coffee", "type": "CASH_CROP", "quantity": 200, "plantingDate": "2024-03-01", "farmerId": farmer.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("admin create = %d, want 201", resp.StatusCode)
	}
	crop := dataField(t, decodeEnvelope(t, resp))
	if crop["farmerId"] != farmer.ID {
		t.Errorf("farmerId = %v, want %v", crop["farmerId"], farmer.ID)
	}
	cropID := crop["id"].(string)

	// Admin reads, updates, and deletes regardless of ownership.
	resp = doJSON(t, admin, http.MethodGet, env.Server.URL+"/api/v1/crops/"+cropID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin get = %d, want 200", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	resp = doJSON(t, admin, http.MethodPut, env.Server.URL+"/api/v1/crops/"+cropID, map[string]any{"quantity": 250})
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin update = %d, want 200", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	resp = doJSON(t, admin, http.MethodDelete, env.Server.URL+"/api/v1/crops/"+cropID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("admin delete = %d, want 200", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	// Admin creating without farmerId is invalid input.
	resp = doJSON(t, admin, http.MethodPost, env.Server.URL+"/api/v1/crops", map[string]any{
		"name": "Tea", "type": "CASH_CROP", "quantity": 10, "plantingDate": "2024-01-01",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("admin create without farmerId = %d, want 400", resp.StatusCode)
	}
	decodeEnvelope(t, resp)

	// Assigning to a non-FARMER (the admin) is invalid input.
	resp = doJSON(t, admin, http.MethodPost, env.Server.URL+"/api/v1/crops", map[string]any{
		"name": "Tea", "type": "CASH_CROP", "quantity": 10, "plantingDate": "2024-01-01", "farmerId": "missing",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("admin create with unknown farmerId = %d, want 400", resp.StatusCode)
	}
	decodeEnvelope(t, resp)
}

func TestCropListScopingAndFilters(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")
	bob := seedUser(t, env, "bob@x.com", "password123", store.RoleFarmer, "Bob")
	seedUser(t, env, "admin@x.com", "password123", store.RoleAdmin, "Admin")

	seedCrop := func(farmerID, name, typ string) {
		t.Helper()
		_, err := env.Crops.Create(t.Context(), &store.Crop{
			Name: name, Type: typ, Quantity: 10,
			PlantingDate: mustDate(t, "2024-01-01"), Status: store.CropStatusPlanted, FarmerID: farmerID,
		})
		if err != nil {
			t.Fatalf("seed crop %s: %v", name, err)
		}
	}
	seedCrop(alice.ID, "Maize", store.CropTypeCereal)
	seedCrop(alice.ID, "Kale", store.CropTypeVegetable)
	seedCrop(bob.ID, "Beans", store.CropTypeLegume)

	// Bob sees only his own crop, even though others exist.
	bobClient := newClient(t)
	login(t, env, bobClient, "bob@x.com", "password123")
	resp := doJSON(t, bobClient, http.MethodGet, env.Server.URL+"/api/v1/crops", nil)
	data := dataField(t, decodeEnvelope(t, resp))
	items := data["items"].([]any)
	if len(items) != 1 {
		t.Fatalf("bob sees %d crops, want 1", len(items))
	}
	if items[0].(map[string]any)["farmerId"] != bob.ID {
		t.Errorf("bob's list leaked a foreign crop")
	}

	adminClient := newClient(t)
	login(t, env, adminClient, "admin@x.com", "password123")

	// Admin sees everything.
	resp = doJSON(t, adminClient, http.MethodGet, env.Server.URL+"/api/v1/crops", nil)
	data = dataField(t, decodeEnvelope(t, resp))
	if pagination := data["pagination"].(map[string]any); pagination["totalItems"] != float64(3) {
		t.Errorf("admin totalItems = %v, want 3", pagination["totalItems"])
	}

	// Admin filters by farmer and by type.
	resp = doJSON(t, adminClient, http.MethodGet, env.Server.URL+"/api/v1/crops?farmerId="+alice.ID, nil)
	data = dataField(t, decodeEnvelope(t, resp))
	if pagination := data["pagination"].(map[string]any); pagination["totalItems"] != float64(2) {
		t.Errorf("farmer filter totalItems = %v, want 2", pagination["totalItems"])
	}

	resp = doJSON(t, adminClient, http.MethodGet, env.Server.URL+"/api/v1/crops?type=LEGUME", nil)
	data = dataField(t, decodeEnvelope(t, resp))
	if pagination := data["pagination"].(map[string]any); pagination["totalItems"] != float64(1) {
		t.Errorf("type filter totalItems = %v, want 1", pagination["totalItems"])
	}

	// An invalid enum filter is rejected rather than silently empty.
	resp = doJSON(t, adminClient, http.MethodGet, env.Server.URL+"/api/v1/crops?type=GRAIN", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid type filter = %d, want 400", resp.StatusCode)
	}
	decodeEnvelope(t, resp)
}

func TestCropStatsScoped(t *testing.T) {
	env := newTestEnv(t)
	alice := seedUser(t, env, "alice@x.com", "password123", store.RoleFarmer, "Alice")
	bob := seedUser(t, env, "bob@x.com", "password123", store.RoleFarmer, "Bob")

	for i, farmerID := range []string{alice.ID, alice.ID, bob.ID} {
		_, err := env.Crops.Create(t.Context(), &store.Crop{
			Name: "Crop", Type: store.CropTypeCereal, Quantity: 10 * (i + 1),
			PlantingDate: mustDate(t, "2024-01-01"), Status: store.CropStatusPlanted, FarmerID: farmerID,
		})
		if err != nil {
			t.Fatalf("seed crop: %v", err)
		}
	}

	aliceClient := newClient(t)
	login(t, env, aliceClient, "alice@x.com", "password123")
	resp := doJSON(t, aliceClient, http.MethodGet, env.Server.URL+"/api/v1/crops/stats", nil)
	data := dataField(t, decodeEnvelope(t, resp))
	if data["total"] != float64(2) || data["totalQuantity"] != float64(30) {
		t.Errorf("alice stats = %v, want total 2 quantity 30", data)
	}
}
