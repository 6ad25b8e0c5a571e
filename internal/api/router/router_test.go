package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vitornegrao/minha-landing-page/internal/auth"
	"github.com/vitornegrao/minha-landing-page/internal/leads"
	"github.com/vitornegrao/minha-landing-page/internal/notify"
	"github.com/vitornegrao/minha-landing-page/internal/observability/metrics"
	"github.com/vitornegrao/minha-landing-page/internal/web"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

type noopNotifier struct{}

func (noopNotifier) NotifyLead(context.Context, notify.NotificationPayload) error { return nil }

type testRouter struct {
	handler http.Handler
	auth    *auth.Service
	repo    *leads.InMemoryRepository
}

func newTestRouter(t *testing.T, mutate func(*Config)) *testRouter {
	t.Helper()

	logger := logging.Default()
	registry := prometheus.NewRegistry()
	leadRepo := leads.NewInMemoryRepository()
	submitter := leads.NewSubmitter(leadRepo, noopNotifier{}, metrics.NewLeadMetrics(registry), logger)

	authSvc := auth.NewService(auth.NewInMemoryUserStore(), auth.NewInMemorySessionStore(), auth.Config{Secret: "router-secret", TTL: time.Hour}, logger)
	if _, err := authSvc.CreateAdmin(context.Background(), "admin@example.com", "s3cret!"); err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}

	cfg := &Config{
		Logger:       logger,
		LeadsHandler: leads.NewHandler(submitter, leadRepo, logger),
		WebHandler: web.NewHandler(web.Config{
			Submitter: submitter,
			Leads:     leadRepo,
			Auth:      authSvc,
			Logger:    logger,
		}),
		Sessions:       authSvc,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	if mutate != nil {
		mutate(cfg)
	}

	return &testRouter{handler: New(cfg), auth: authSvc, repo: leadRepo}
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	router.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}

	var resp map[string]any
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}

	if resp["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", resp["status"])
	}
}

func TestRouterHealthReportsDegradedCheck(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.HealthChecks = map[string]HealthCheck{
			"postgres": func(context.Context) error { return nil },
			"redis":    func(context.Context) error { return errors.New("dial tcp: connection refused") },
		}
	})

	rr := httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	var resp struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health response: %v", err)
	}
	if resp.Status != "degraded" {
		t.Errorf("expected status 'degraded', got %q", resp.Status)
	}
	if _, ok := resp.Checks["redis"]; !ok {
		t.Errorf("expected redis check failure, got %v", resp.Checks)
	}
	if _, ok := resp.Checks["postgres"]; ok {
		t.Errorf("did not expect postgres check failure")
	}
}

func validLeadJSON(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"name":             "Router Test",
		"email":            "router@example.com",
		"phone":            "11999990000",
		"age":              31,
		"profession":       "Dentista",
		"area_of_activity": "Saúde",
		"channel":          "LinkedIn",
		"attribution":      map[string]string{"utm_source": "linkedin_ads"},
	})
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	return body
}

func TestRouterAPILeadsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(validLeadJSON(t)))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()

	router.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d (%s)", http.StatusCreated, rr.Code, rr.Body.String())
	}
	if router.repo.Len() != 1 {
		t.Fatalf("expected 1 stored lead, got %d", router.repo.Len())
	}
}

func TestRouterLandingAndFormPost(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?utm_source=google", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected landing status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `value="google"`) {
		t.Fatalf("expected utm_source hidden input in landing page")
	}

	form := url.Values{
		"name":             {"Ana Silva"},
		"email":            {"ana@test.com"},
		"phone":            {"11999990000"},
		"age":              {"29"},
		"profession":       {"Advogada"},
		"area_of_activity": {"Jurídico"},
		"channel":          {"Instagram"},
		"utm_source":       {"google"},
	}
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr = httptest.NewRecorder()
	router.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Recebido!") {
		t.Fatalf("expected confirmation, got %d", rr.Code)
	}
}

func TestRouterFormRateLimit(t *testing.T) {
	router := newTestRouter(t, func(cfg *Config) {
		cfg.FormRateLimit = 0.01
		cfg.FormRateBurst = 1
	})

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(validLeadJSON(t)))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusCreated || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("expected [201 429], got %v", codes)
	}
}

func TestRouterAdminRoutesRequireSession(t *testing.T) {
	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/leads", nil))
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != web.LoginPath {
		t.Fatalf("expected redirect to %s, got %q", web.LoginPath, loc)
	}

	rr = httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/admin/leads", nil))
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/admin/login", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected login page, got %d", rr.Code)
	}
}

func TestRouterAdminAPIWithBearerToken(t *testing.T) {
	router := newTestRouter(t, nil)
	sess, err := router.auth.Login(context.Background(), "admin@example.com", "s3cret!")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/admin/leads?order=asc", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Token)
	rr := httptest.NewRecorder()
	router.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var page leads.Page
	if err := json.NewDecoder(rr.Body).Decode(&page); err != nil {
		t.Fatalf("failed to decode page: %v", err)
	}
	if page.PerPage != leads.PerPage {
		t.Errorf("expected per_page %d, got %d", leads.PerPage, page.PerPage)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/leads", bytes.NewReader(validLeadJSON(t)))
	router.handler.ServeHTTP(httptest.NewRecorder(), req)

	rr := httptest.NewRecorder()
	router.handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "landing_leads_submissions_total") {
		t.Fatalf("expected submission counter in metrics output")
	}
}
