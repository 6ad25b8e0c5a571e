package leads

import (
	"net/url"
	"time"
)

// Referral sources offered by the lead form.
var Channels = []string{"Instagram", "Facebook", "LinkedIn", "TikTok", "Outro"}

// Submission is the raw lead form as filled in by the visitor. Values are
// untrimmed; Age is text because it arrives from a form field.
type Submission struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Age            string `json:"age"`
	Profession     string `json:"profession"`
	AreaOfActivity string `json:"area_of_activity"`
	Channel        string `json:"channel"`
}

// Validated is a Submission that passed Validate: trimmed, email
// lower-cased, age parsed.
type Validated struct {
	Name           string
	Email          string
	Phone          string
	Age            int
	Profession     string
	AreaOfActivity string
	Channel        string
}

// Attribution holds the campaign parameters captured when the form was
// rendered. Absent parameters are empty strings.
type Attribution struct {
	UTMSource   string `json:"utm_source"`
	UTMCampaign string `json:"utm_campaign"`
	UTMMedium   string `json:"utm_medium"`
	UTMTerm     string `json:"utm_term"`
	UTMContent  string `json:"utm_content"`
}

// AttributionFromQuery reads the five utm_* parameters from a query string.
func AttributionFromQuery(q url.Values) Attribution {
	return Attribution{
		UTMSource:   q.Get("utm_source"),
		UTMCampaign: q.Get("utm_campaign"),
		UTMMedium:   q.Get("utm_medium"),
		UTMTerm:     q.Get("utm_term"),
		UTMContent:  q.Get("utm_content"),
	}
}

// IsEmpty reports whether no campaign parameter was present.
func (a Attribution) IsEmpty() bool {
	return a == Attribution{}
}

// Record is the row written to the leads table. Nil pointers are stored as NULL.
type Record struct {
	Name        string  `json:"name"`
	Email       string  `json:"email"`
	Phone       string  `json:"phone"`
	UTMSource   string  `json:"utm_source"`
	UTMCampaign *string `json:"utm_campaign"`
	UTMMedium   string  `json:"utm_medium"`
	UTMTerm     *string `json:"utm_term"`
	UTMContent  string  `json:"utm_content"`
}

// Lead is a stored lead as read back for the admin panel.
type Lead struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	UTMSource   string    `json:"utm_source"`
	UTMCampaign *string   `json:"utm_campaign"`
	UTMMedium   string    `json:"utm_medium"`
	UTMTerm     *string   `json:"utm_term"`
	UTMContent  string    `json:"utm_content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Details parses the qualification data packed into UTMContent.
func (l *Lead) Details() ContentDetails {
	return ParseContent(l.UTMContent)
}

func leadFromRecord(id string, createdAt time.Time, rec *Record) *Lead {
	return &Lead{
		ID:          id,
		Name:        rec.Name,
		Email:       rec.Email,
		Phone:       rec.Phone,
		UTMSource:   rec.UTMSource,
		UTMCampaign: rec.UTMCampaign,
		UTMMedium:   rec.UTMMedium,
		UTMTerm:     rec.UTMTerm,
		UTMContent:  rec.UTMContent,
		CreatedAt:   createdAt,
	}
}
