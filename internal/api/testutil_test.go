package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/HassanMunene/mazao-erp/internal/api"
	"github.com/HassanMunene/mazao-erp/internal/auth"
	"github.com/HassanMunene/mazao-erp/internal/store"
	"github.com/HassanMunene/mazao-erp/internal/testutil"
)

// testEnv runs the full router over an in-memory SQLite database with real
// session cookies.
type testEnv struct {
	Server *httptest.Server
	Users  *store.UserStore
	Crops  *store.CropStore
	DB     *sqlx.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	users := store.NewUserStore(db)
	crops := store.NewCropStore(db)
	sessions := auth.NewSessionManager(db, "sqlite3", time.Hour, false)
	mw := auth.NewMiddleware(sessions, users)

	router := api.NewRouter(api.Deps{
		DB:             db,
		SessionManager: sessions,
		AuthMiddleware: mw,
		UserStore:      users,
		CropStore:      crops,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testEnv{Server: srv, Users: users, Crops: crops, DB: db}
}

// newClient returns an HTTP client with its own cookie jar, i.e. its own
// session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &http.Client{Jar: jar}
}

// seedUser creates a principal with a real password hash directly in the store.
func seedUser(t *testing.T, env *testEnv, email, password, role, fullName string) *store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := env.Users.Create(context.Background(), email, hash, role, fullName, nil, nil)
	if err != nil {
		t.Fatalf("seed user %s: %v", email, err)
	}
	return u
}

// login signs the client's session in as the given user.
func login(t *testing.T, env *testEnv, client *http.Client, email, password string) {
	t.Helper()
	resp := doJSON(t, client, http.MethodPost, env.Server.URL+"/api/v1/auth/login", map[string]any{
		"email":    email,
		"password": password,
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login %s: status %d", email, resp.StatusCode)
	}
}

// doJSON sends body (nil for none) as JSON and returns the raw response.
func doJSON(t *testing.T, client *http.Client, method, url string, body any) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return resp
}

// decodeEnvelope reads and closes the response body, returning the parsed
// {success, data, message} envelope.
func decodeEnvelope(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var env map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return env
}

// mustDate parses a YYYY-MM-DD date.
func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

// dataField extracts envelope.data as an object.
func dataField(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	if !ok {
		t.Fatalf("envelope has no data object: %v", envelope)
	}
	return data
}
