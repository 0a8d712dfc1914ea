package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"accessd/internal/config"
	"accessd/internal/infra/auth"
	"accessd/internal/infra/auth/rego"
	"accessd/internal/infra/memstore"
	"accessd/internal/infra/ratelimit"
	"accessd/internal/usecase"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T, cfg config.Config) *Server {
	t.Helper()

	authz, err := rego.NewAuthorizer(context.Background())
	if err != nil {
		t.Fatalf("init authorizer: %v", err)
	}
	sessions, err := auth.NewSessionCodec(cfg.JWTSecret, cfg.SessionTTL)
	if err != nil {
		t.Fatalf("init sessions: %v", err)
	}

	mem := memstore.New()
	loc, err := time.LoadLocation(cfg.StatsTimezone)
	if err != nil {
		t.Fatalf("load zone: %v", err)
	}
	return NewServer(cfg, ServerDeps{
		Applications: usecase.NewApplicationService(mem.Applications(), mem.Companies(), authz, cfg.HomeCountry),
		Ledger:       usecase.NewLedgerService(mem.Applications(), mem.AccessLogs(), authz),
		Stats:        usecase.NewStatsService(mem.Applications(), mem.AccessLogs(), authz, loc),
		Directory:    usecase.NewDirectoryService(mem.Companies(), mem.Departments(), mem.Managers(), mem.Projects(), authz),
		Sessions:     sessions,
		RateLimiter:  ratelimit.NewMemoryLimiter(cfg.RateLimitMaxKeys, time.Now),
	})
}

func testConfig() config.Config {
	return config.Config{
		HTTPAddr:         ":0",
		HomeCountry:      "한국",
		StatsTimezone:    "Asia/Seoul",
		JWTSecret:        "test-secret",
		SessionTTL:       time.Hour,
		AdminAPIKey:      "admin-key",
		AdminPassword:    "admin-pass",
		GuardPassword:    "guard-pass",
		RateLimitMaxKeys: 100,
	}
}

func doJSON(t *testing.T, srv *Server, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func loginToken(t *testing.T, srv *Server, role, password string) string {
	t.Helper()
	w := doJSON(t, srv, http.MethodPost, "/v1/auth/login", map[string]string{
		"role":     role,
		"password": password,
	}, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("login %s: status %d body %s", role, w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	decodeBody(t, w, &resp)
	return resp.Token
}

func submitBody() map[string]any {
	return map[string]any{
		"applicant_name":  "홍길동",
		"applicant_phone": "010-1234-5678",
		"nationality":     "한국",
		"company_name":    "ABC건설",
		"visit_date":      "2025-03-12",
	}
}

func TestServer_SubmitIsPublic(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := doJSON(t, srv, http.MethodPost, "/v1/applications", submitBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("status %d body %s", w.Code, w.Body.String())
	}
	var resp struct {
		ID     string `json:"id"`
		Status string `json:"status"`
		QRID   string `json:"qrid"`
	}
	decodeBody(t, w, &resp)
	if resp.ID == "" || resp.Status != "pending" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if resp.QRID != "" {
		t.Fatalf("expected no credential on submission, got %q", resp.QRID)
	}
}

func TestServer_ListRequiresAdmin(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := doJSON(t, srv, http.MethodGet, "/v1/applications", nil, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", w.Code)
	}

	guard := loginToken(t, srv, "guard", "guard-pass")
	w = doJSON(t, srv, http.MethodGet, "/v1/applications", nil, map[string]string{
		"Authorization": "Bearer " + guard,
	})
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for guard, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/applications", nil, map[string]string{
		"X-Admin-Key": "admin-key",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin key, got %d body %s", w.Code, w.Body.String())
	}
}

func TestServer_LoginRejectsBadPassword(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := doJSON(t, srv, http.MethodPost, "/v1/auth/login", map[string]string{
		"role":     "admin",
		"password": "wrong",
	}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/auth/login", map[string]string{
		"role":     "visitor",
		"password": "whatever",
	}, nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown role, got %d", w.Code)
	}
}

func TestServer_FullVisitFlow(t *testing.T) {
	srv := newTestServer(t, testConfig())
	admin := map[string]string{"X-Admin-Key": "admin-key"}

	w := doJSON(t, srv, http.MethodPost, "/v1/applications", submitBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status %d body %s", w.Code, w.Body.String())
	}
	var app struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &app)

	// Submission auto-registers the company for the public directory.
	w = doJSON(t, srv, http.MethodGet, "/v1/companies", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("companies: status %d", w.Code)
	}
	var companies struct {
		Companies []struct {
			Name string `json:"name"`
		} `json:"companies"`
	}
	decodeBody(t, w, &companies)
	if len(companies.Companies) != 1 || companies.Companies[0].Name != "ABC건설" {
		t.Fatalf("expected auto-registered company, got %+v", companies.Companies)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/applications/approve", map[string]any{"ids": []string{app.ID}}, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("approve: status %d body %s", w.Code, w.Body.String())
	}
	var decision struct {
		Applications []struct {
			QRID   string `json:"qrid"`
			Status string `json:"status"`
		} `json:"applications"`
		Updated int `json:"updated"`
	}
	decodeBody(t, w, &decision)
	if decision.Updated != 1 || decision.Applications[0].Status != "approved" {
		t.Fatalf("unexpected decision %+v", decision)
	}
	token := decision.Applications[0].QRID
	if token == "" {
		t.Fatalf("expected credential issued on approval")
	}

	guard := loginToken(t, srv, "guard", "guard-pass")
	guardHdr := map[string]string{"Authorization": "Bearer " + guard}

	w = doJSON(t, srv, http.MethodPost, "/v1/scan", map[string]string{"token": token}, guardHdr)
	if w.Code != http.StatusOK {
		t.Fatalf("scan in: status %d body %s", w.Code, w.Body.String())
	}
	var scan struct {
		ApplicantName string `json:"applicant_name"`
		EventType     string `json:"event_type"`
	}
	decodeBody(t, w, &scan)
	if scan.EventType != "check_in" || scan.ApplicantName != "홍길동" {
		t.Fatalf("unexpected scan %+v", scan)
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/dashboard", nil, admin)
	if w.Code != http.StatusOK {
		t.Fatalf("dashboard: status %d body %s", w.Code, w.Body.String())
	}
	var dash struct {
		OnSiteNow    int `json:"on_site_now"`
		StatusCounts struct {
			Approved int `json:"approved"`
		} `json:"status_counts"`
	}
	decodeBody(t, w, &dash)
	if dash.OnSiteNow != 1 {
		t.Fatalf("expected 1 on site, got %d", dash.OnSiteNow)
	}
	if dash.StatusCounts.Approved != 1 {
		t.Fatalf("expected 1 approved, got %d", dash.StatusCounts.Approved)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/scan", map[string]string{"token": token}, guardHdr)
	if w.Code != http.StatusOK {
		t.Fatalf("scan out: status %d body %s", w.Code, w.Body.String())
	}
	decodeBody(t, w, &scan)
	if scan.EventType != "check_out" {
		t.Fatalf("expected check_out, got %q", scan.EventType)
	}
}

func TestServer_ScanUnknownToken(t *testing.T) {
	srv := newTestServer(t, testConfig())
	guard := loginToken(t, srv, "guard", "guard-pass")

	w := doJSON(t, srv, http.MethodPost, "/v1/scan", map[string]string{"token": "bogus"}, map[string]string{
		"Authorization": "Bearer " + guard,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body %s", w.Code, w.Body.String())
	}
}

func TestServer_ScanRateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.ScanRateLimit = 2
	cfg.ScanRateWindowSecs = 60
	srv := newTestServer(t, cfg)
	guard := loginToken(t, srv, "guard", "guard-pass")
	hdr := map[string]string{"Authorization": "Bearer " + guard}

	for i := 0; i < 2; i++ {
		w := doJSON(t, srv, http.MethodPost, "/v1/scan", map[string]string{"token": "bogus"}, hdr)
		if w.Code != http.StatusNotFound {
			t.Fatalf("scan %d: expected 404, got %d", i, w.Code)
		}
	}
	w := doJSON(t, srv, http.MethodPost, "/v1/scan", map[string]string{"token": "bogus"}, hdr)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d body %s", w.Code, w.Body.String())
	}
}

func TestServer_DirectoryWriteRequiresAdmin(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := doJSON(t, srv, http.MethodPost, "/v1/departments", map[string]string{"name": "안전관리팀"}, nil)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for anonymous, got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/departments", map[string]string{"name": "안전관리팀"}, map[string]string{
		"X-Admin-Key": "admin-key",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", w.Code, w.Body.String())
	}
}

func TestServer_DeletePendingConflicts(t *testing.T) {
	srv := newTestServer(t, testConfig())
	admin := map[string]string{"X-Admin-Key": "admin-key"}

	w := doJSON(t, srv, http.MethodPost, "/v1/applications", submitBody(), nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("submit: status %d", w.Code)
	}
	var app struct {
		ID string `json:"id"`
	}
	decodeBody(t, w, &app)

	w = doJSON(t, srv, http.MethodDelete, "/v1/applications/"+app.ID, nil, admin)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 for pending delete, got %d body %s", w.Code, w.Body.String())
	}
}

func TestServer_Healthz(t *testing.T) {
	srv := newTestServer(t, testConfig())

	w := doJSON(t, srv, http.MethodGet, "/healthz", nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
