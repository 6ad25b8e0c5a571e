// Package main runs end-to-end checks against a running landing page server.
//
// Scenarios cover:
//   - Health and metrics endpoints
//   - Landing page with campaign parameters
//   - JSON lead submission (valid and invalid)
//   - HTML form submission
//   - Admin login, lead listing and logout
//
// Usage:
//
//	API_BASE_URL=... ADMIN_EMAIL=... ADMIN_PASSWORD=... go run scripts/e2e/run_e2e.go [scenario-name]
//
// Scenarios that submit leads create real rows and trigger real notifications.
package main

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

var (
	apiBase       string
	adminEmail    string
	adminPassword string
	client        *resty.Client
)

// ---------------------------------------------------------------------------
// Scenario definition
// ---------------------------------------------------------------------------

type scenario struct {
	Name string
	Fn   func(t *T)
}

// T is a lightweight test context for a single scenario.
type T struct {
	passed int
	failed int
	name   string
}

func (t *T) check(name string, ok bool) {
	if ok {
		fmt.Printf("    PASS: %s\n", name)
		t.passed++
	} else {
		fmt.Printf("    FAIL: %s\n", name)
		t.failed++
	}
}

func (t *T) fatalf(format string, args ...interface{}) {
	fmt.Printf("    FATAL: "+format+"\n", args...)
	t.failed++
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

func testLead() map[string]interface{} {
	stamp := time.Now().Unix()
	return map[string]interface{}{
		"name":             "E2E Teste",
		"email":            fmt.Sprintf("e2e+%d@example.com", stamp),
		"phone":            "11999990000",
		"age":              30,
		"profession":       "Teste",
		"area_of_activity": "Automação",
		"channel":          "Outro",
		"attribution":      map[string]string{"utm_source": "e2e", "utm_campaign": "smoke"},
	}
}

func login() (*http.Cookie, error) {
	resp, err := client.R().
		SetFormData(map[string]string{"email": adminEmail, "password": adminPassword}).
		Post("/admin/login")
	if err != nil && resp == nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusSeeOther {
		return nil, fmt.Errorf("login returned %d", resp.StatusCode())
	}
	for _, c := range resp.Cookies() {
		if c.Name == "admin_session" {
			return c, nil
		}
	}
	return nil, fmt.Errorf("login did not set admin_session")
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func scenarioHealth(t *T) {
	var body map[string]interface{}
	resp, err := client.R().SetResult(&body).Get("/health")
	if err != nil {
		t.fatalf("health: %v", err)
		return
	}
	t.check("health returns 200", resp.StatusCode() == http.StatusOK)
	t.check("health status ok", body["status"] == "ok")

	resp, err = client.R().Get("/metrics")
	if err != nil {
		t.fatalf("metrics: %v", err)
		return
	}
	t.check("metrics exposes lead counters", strings.Contains(resp.String(), "landing_leads_submissions_total"))
}

func scenarioLanding(t *T) {
	resp, err := client.R().Get("/?utm_source=e2e&utm_campaign=smoke")
	if err != nil {
		t.fatalf("landing: %v", err)
		return
	}
	page := resp.String()
	t.check("landing returns 200", resp.StatusCode() == http.StatusOK)
	t.check("utm_source carried as hidden input", strings.Contains(page, `name="utm_source" value="e2e"`))
	t.check("channel options rendered", strings.Contains(page, `value="TikTok"`))
}

func scenarioAPILead(t *T) {
	var body map[string]interface{}
	resp, err := client.R().SetBody(testLead()).SetResult(&body).Post("/api/leads")
	if err != nil {
		t.fatalf("submit: %v", err)
		return
	}
	t.check("valid lead returns 201", resp.StatusCode() == http.StatusCreated)
	t.check("status submitted", body["status"] == "submitted")
}

func scenarioAPIInvalid(t *T) {
	lead := testLead()
	lead["phone"] = "123"
	lead["age"] = 17

	var body struct {
		Errors map[string]string `json:"errors"`
	}
	resp, err := client.R().SetBody(lead).SetError(&body).Post("/api/leads")
	if err != nil {
		t.fatalf("submit: %v", err)
		return
	}
	t.check("invalid lead returns 422", resp.StatusCode() == http.StatusUnprocessableEntity)
	t.check("phone error reported", body.Errors["phone"] == "Telefone deve ter pelo menos 10 dígitos")
	t.check("age error reported", body.Errors["age"] == "Você deve ser maior de 18 anos")
}

func scenarioFormPost(t *T) {
	form := url.Values{
		"name":             {"E2E Formulário"},
		"email":            {fmt.Sprintf("e2e-form+%d@example.com", time.Now().Unix())},
		"phone":            {"11999990000"},
		"age":              {"35"},
		"profession":       {"Teste"},
		"area_of_activity": {"Automação"},
		"channel":          {"Instagram"},
	}
	resp, err := client.R().SetFormDataFromValues(form).Post("/leads")
	if err != nil {
		t.fatalf("form post: %v", err)
		return
	}
	t.check("form post returns 200", resp.StatusCode() == http.StatusOK)
	t.check("confirmation shown", strings.Contains(resp.String(), "Recebido!"))
}

func scenarioAdmin(t *T) {
	if adminEmail == "" || adminPassword == "" {
		fmt.Println("    SKIP: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return
	}

	resp, err := client.R().Get("/api/admin/leads")
	if err != nil {
		t.fatalf("anonymous list: %v", err)
		return
	}
	t.check("anonymous list rejected", resp.StatusCode() == http.StatusUnauthorized)

	cookie, err := login()
	if err != nil {
		t.fatalf("%v", err)
		return
	}

	var page struct {
		Total   int `json:"total"`
		PerPage int `json:"per_page"`
	}
	resp, err = client.R().SetCookie(cookie).SetQueryParam("q", "e2e").SetResult(&page).Get("/api/admin/leads")
	if err != nil {
		t.fatalf("list: %v", err)
		return
	}
	t.check("admin list returns 200", resp.StatusCode() == http.StatusOK)
	t.check("page size is 10", page.PerPage == 10)

	resp, err = client.R().SetCookie(cookie).Post("/admin/logout")
	if err != nil && resp == nil {
		t.fatalf("logout: %v", err)
		return
	}
	t.check("logout redirects", resp.StatusCode() == http.StatusSeeOther)

	resp, err = client.R().SetCookie(cookie).Get("/api/admin/leads")
	if err != nil {
		t.fatalf("list after logout: %v", err)
		return
	}
	t.check("revoked session rejected", resp.StatusCode() == http.StatusUnauthorized)
}

func main() {
	apiBase = os.Getenv("API_BASE_URL")
	if apiBase == "" {
		fmt.Fprintln(os.Stderr, "ERROR: API_BASE_URL required")
		os.Exit(1)
	}
	adminEmail = os.Getenv("ADMIN_EMAIL")
	adminPassword = os.Getenv("ADMIN_PASSWORD")

	client = resty.New().
		SetBaseURL(strings.TrimRight(apiBase, "/")).
		SetTimeout(45 * time.Second).
		SetRedirectPolicy(resty.NoRedirectPolicy())

	scenarios := []scenario{
		{"health", scenarioHealth},
		{"landing", scenarioLanding},
		{"api-lead", scenarioAPILead},
		{"api-invalid", scenarioAPIInvalid},
		{"form-post", scenarioFormPost},
		{"admin", scenarioAdmin},
	}

	// Filter by name if argument provided
	filter := ""
	if len(os.Args) > 1 {
		filter = os.Args[1]
	}

	totalPassed := 0
	totalFailed := 0
	scenarioResults := make([]string, 0)

	for _, s := range scenarios {
		if filter != "" && s.Name != filter {
			continue
		}

		fmt.Printf("\n========================================\n")
		fmt.Printf("SCENARIO: %s\n", s.Name)
		fmt.Printf("========================================\n")

		t := &T{name: s.Name}
		s.Fn(t)

		totalPassed += t.passed
		totalFailed += t.failed

		status := "PASS"
		if t.failed > 0 {
			status = "FAIL"
		}
		scenarioResults = append(scenarioResults, fmt.Sprintf("  %s %s (%d passed, %d failed)", status, s.Name, t.passed, t.failed))
	}

	fmt.Printf("\n========================================\n")
	fmt.Println("SUMMARY")
	fmt.Printf("========================================\n")
	for _, r := range scenarioResults {
		fmt.Println(r)
	}
	fmt.Printf("\nTotal: %d passed, %d failed\n", totalPassed, totalFailed)

	if totalFailed > 0 {
		fmt.Println("\nSOME TESTS FAILED")
		os.Exit(1)
	}
	fmt.Println("\nALL TESTS PASSED")
}
