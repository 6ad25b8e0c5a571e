// Package web serves the landing page, the lead form and the admin panel pages.
package web

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vitornegrao/minha-landing-page/internal/auth"
	"github.com/vitornegrao/minha-landing-page/internal/compliance"
	httpmiddleware "github.com/vitornegrao/minha-landing-page/internal/http/middleware"
	"github.com/vitornegrao/minha-landing-page/internal/leads"
	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

const (
	LoginPath      = "/admin/login"
	AdminLeadsPath = "/admin/leads"

	msgInvalidCredentials = "E-mail ou senha incorretos"
	msgForbidden          = "Acesso negado: esta conta não tem permissão de administrador"
	msgLoginUnavailable   = "Não foi possível entrar agora. Tente novamente em instantes."
)

// Authenticator issues and revokes admin sessions.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.Session, error)
	Validate(ctx context.Context, token string) (*auth.Session, error)
	Logout(ctx context.Context, token string) error
}

// Config holds the collaborators of the web handlers.
type Config struct {
	Submitter    *leads.Submitter
	Leads        leads.Repository
	Auth         Authenticator
	Audit        *compliance.AuditService
	CookieSecure bool
	Logger       *logging.Logger
}

// Handler renders server-side pages.
type Handler struct {
	submitter    *leads.Submitter
	leads        leads.Repository
	auth         Authenticator
	audit        *compliance.AuditService
	cookieSecure bool
	logger       *logging.Logger
}

// NewHandler creates the web handler.
func NewHandler(cfg Config) *Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter:    cfg.Submitter,
		leads:        cfg.Leads,
		auth:         cfg.Auth,
		audit:        cfg.Audit,
		cookieSecure: cfg.CookieSecure,
		logger:       logger,
	}
}

type landingView struct {
	Form               leads.Submission
	Attribution        leads.Attribution
	Channels           []string
	Errors             leads.FieldErrors
	Submitted          bool
	DeliveryErrorTitle string
	DeliveryError      string
}

// Landing handles GET /. Campaign parameters are captured here, once, and
// travel with the form as hidden inputs.
func (h *Handler) Landing(w http.ResponseWriter, r *http.Request) {
	h.render(w, http.StatusOK, "landing.html", landingView{
		Attribution: leads.AttributionFromQuery(r.URL.Query()),
		Channels:    leads.Channels,
	})
}

// SubmitLead handles POST /leads from the landing form.
func (h *Handler) SubmitLead(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	view := landingView{
		Form: leads.Submission{
			Name:           r.PostFormValue("name"),
			Email:          r.PostFormValue("email"),
			Phone:          r.PostFormValue("phone"),
			Age:            r.PostFormValue("age"),
			Profession:     r.PostFormValue("profession"),
			AreaOfActivity: r.PostFormValue("area_of_activity"),
			Channel:        r.PostFormValue("channel"),
		},
		Attribution: leads.AttributionFromQuery(r.PostForm),
		Channels:    leads.Channels,
	}

	_, err := h.submitter.Submit(r.Context(), view.Form, view.Attribution)
	if err != nil {
		var verr *leads.ValidationError
		switch {
		case errors.As(err, &verr):
			view.Errors = verr.Fields
			h.render(w, http.StatusUnprocessableEntity, "landing.html", view)
		case errors.Is(err, leads.ErrDeliveryFailed):
			view.DeliveryErrorTitle = leads.MsgDeliveryFailedTitle
			view.DeliveryError = leads.MsgDeliveryFailed
			h.render(w, http.StatusBadGateway, "landing.html", view)
		default:
			h.logger.Error("unexpected submission error", "error", err)
			view.DeliveryErrorTitle = leads.MsgDeliveryFailedTitle
			view.DeliveryError = leads.MsgDeliveryFailed
			h.render(w, http.StatusInternalServerError, "landing.html", view)
		}
		return
	}

	// The submission is discarded once delivered.
	h.render(w, http.StatusOK, "landing.html", landingView{Submitted: true})
}

type loginView struct {
	Email  string
	Error  string
	Errors map[string]string
}

// LoginPage handles GET /admin/login. A visitor who is already signed in
// goes straight to the lead list.
func (h *Handler) LoginPage(w http.ResponseWriter, r *http.Request) {
	if token := httpmiddleware.SessionToken(r); token != "" {
		if _, err := h.auth.Validate(r.Context(), token); err == nil {
			http.Redirect(w, r, AdminLeadsPath, http.StatusSeeOther)
			return
		}
	}
	h.render(w, http.StatusOK, "admin_login.html", loginView{})
}

// Login handles POST /admin/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	ip := remoteIP(r)

	sess, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		view := loginView{Email: email}
		status := http.StatusUnauthorized
		var inputErr *auth.InputError
		switch {
		case errors.As(err, &inputErr):
			status = http.StatusUnprocessableEntity
			view.Errors = inputErr.Fields
		case errors.Is(err, auth.ErrInvalidCredentials):
			view.Error = msgInvalidCredentials
			h.logAudit(h.audit.LogLoginFailed(r.Context(), auth.NormalizeEmail(email), ip, "invalid_credentials"))
		case errors.Is(err, auth.ErrForbidden):
			status = http.StatusForbidden
			view.Error = msgForbidden
			h.logAudit(h.audit.LogAccessDenied(r.Context(), auth.NormalizeEmail(email), ip))
		default:
			h.logger.Error("admin login failed", "error", err)
			status = http.StatusInternalServerError
			view.Error = msgLoginUnavailable
		}
		h.render(w, status, "admin_login.html", view)
		return
	}

	h.logAudit(h.audit.LogLogin(r.Context(), sess.Email, ip))
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.AdminSessionCookie,
		Value:    sess.Token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, AdminLeadsPath, http.StatusSeeOther)
}

// Logout handles POST /admin/logout. It always clears the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := httpmiddleware.SessionToken(r)
	if token != "" {
		if sess, err := h.auth.Validate(r.Context(), token); err == nil {
			h.logAudit(h.audit.LogLogout(r.Context(), sess.Email, remoteIP(r)))
		}
		if err := h.auth.Logout(r.Context(), token); err != nil {
			h.logger.Warn("admin logout failed", "error", err)
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     httpmiddleware.AdminSessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, LoginPath, http.StatusSeeOther)
}

type leadRow struct {
	Lead     *leads.Lead
	Details  leads.ContentDetails
	Campaign string
}

type leadsView struct {
	AdminEmail string
	Query      string
	Order      leads.SortOrder
	Page       leads.Page
	Rows       []leadRow
	SortURL    string
	PrevURL    string
	NextURL    string
}

// AdminLeads handles GET /admin/leads. It must sit behind AdminSession.
func (h *Handler) AdminLeads(w http.ResponseWriter, r *http.Request) {
	filter, pageNum := leads.ParseListQuery(r)
	all, err := h.leads.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		http.Error(w, "failed to list leads", http.StatusInternalServerError)
		return
	}
	page := leads.Paginate(all, pageNum, leads.PerPage)

	view := leadsView{
		Query:   filter.Query,
		Order:   filter.Order,
		Page:    page,
		SortURL: listURL(filter.Query, filter.Order.Toggle(), 1),
		PrevURL: listURL(filter.Query, filter.Order, page.Page-1),
		NextURL: listURL(filter.Query, filter.Order, page.Page+1),
	}
	for _, lead := range page.Leads {
		row := leadRow{Lead: lead, Details: lead.Details()}
		if lead.UTMCampaign != nil {
			row.Campaign = *lead.UTMCampaign
		}
		view.Rows = append(view.Rows, row)
	}

	if sess, ok := httpmiddleware.SessionFromContext(r.Context()); ok {
		view.AdminEmail = sess.Email
		h.logAudit(h.audit.LogLeadsViewed(r.Context(), sess.Email, remoteIP(r), compliance.AuditDetails{
			Query: filter.Query,
			Order: string(filter.Order),
			Page:  page.Page,
			Total: page.Total,
		}))
	}

	h.render(w, http.StatusOK, "admin_leads.html", view)
}

func listURL(query string, order leads.SortOrder, page int) string {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	v.Set("order", string(order))
	v.Set("page", strconv.Itoa(page))
	return AdminLeadsPath + "?" + v.Encode()
}

func (h *Handler) render(w http.ResponseWriter, status int, name string, view any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ExecuteTemplate(w, name, view); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
	}
}

func (h *Handler) logAudit(err error) {
	if err != nil {
		h.logger.Warn("audit event not recorded", "error", err)
	}
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
