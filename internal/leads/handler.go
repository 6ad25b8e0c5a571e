package leads

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vitornegrao/minha-landing-page/pkg/logging"
)

// Handler handles HTTP requests for leads
type Handler struct {
	submitter *Submitter
	repo      Repository
	logger    *logging.Logger
}

// NewHandler creates a new leads handler
func NewHandler(submitter *Submitter, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		submitter: submitter,
		repo:      repo,
		logger:    logger,
	}
}

// formValue decodes a JSON string or number into text, so clients may send
// "age": 29 or "age": "29".
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		*v = ""
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	*v = formValue(raw)
	return nil
}

// CreateLeadRequest is the JSON body of POST /api/leads.
type CreateLeadRequest struct {
	Name           string      `json:"name"`
	Email          string      `json:"email"`
	Phone          string      `json:"phone"`
	Age            formValue   `json:"age"`
	Profession     string      `json:"profession"`
	AreaOfActivity string      `json:"area_of_activity"`
	Channel        string      `json:"channel"`
	Attribution    Attribution `json:"attribution"`
}

func (r *CreateLeadRequest) submission() Submission {
	return Submission{
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Age:            string(r.Age),
		Profession:     r.Profession,
		AreaOfActivity: r.AreaOfActivity,
		Channel:        r.Channel,
	}
}

// CreateLeadResponse is returned once a lead got through on some channel.
type CreateLeadResponse struct {
	Status string `json:"status"`
	ID     string `json:"id,omitempty"`
}

// ErrorResponse carries field errors or a user-facing message.
type ErrorResponse struct {
	Error  string      `json:"error,omitempty"`
	Errors FieldErrors `json:"errors,omitempty"`
}

// CreateLead handles POST /api/leads requests
func (h *Handler) CreateLead(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	outcome, err := h.submitter.Submit(r.Context(), req.submission(), req.Attribution)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Errors: verr.Fields})
		case errors.Is(err, ErrDeliveryFailed):
			writeJSON(w, http.StatusBadGateway, ErrorResponse{Error: MsgDeliveryFailed})
		default:
			h.logger.Error("unexpected submission error", "error", err)
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: MsgDeliveryFailed})
		}
		return
	}

	resp := CreateLeadResponse{Status: "submitted"}
	if outcome.Lead != nil {
		resp.ID = outcome.Lead.ID
	}
	writeJSON(w, http.StatusCreated, resp)
}

// ListLeads handles GET /api/admin/leads?q=&order=&page= requests
func (h *Handler) ListLeads(w http.ResponseWriter, r *http.Request) {
	filter, page := ParseListQuery(r)
	all, err := h.repo.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list leads", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to list leads"})
		return
	}
	writeJSON(w, http.StatusOK, Paginate(all, page, PerPage))
}

// ParseListQuery reads q, order and page from the request query string.
func ParseListQuery(r *http.Request) (ListFilter, int) {
	q := r.URL.Query()
	page := 1
	if p, err := strconv.Atoi(q.Get("page")); err == nil && p > 0 {
		page = p
	}
	return ListFilter{
		Query: q.Get("q"),
		Order: ParseSortOrder(q.Get("order")),
	}, page
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
