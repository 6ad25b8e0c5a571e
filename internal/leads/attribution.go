package leads

import (
	"fmt"
	"strconv"

	"github.com/vitornegrao/minha-landing-page/internal/notify"
)

const (
	mediumManualSelection = "manual_selection"
	mediumWebsiteForm     = "website_form"
)

// ResolveAttribution builds the row to store from a validated lead and the
// campaign parameters of its form.
func ResolveAttribution(v Validated, attr Attribution) Record {
	source := attr.UTMSource
	if source == "" {
		source = v.Channel
	}

	medium := attr.UTMMedium
	if medium == "" {
		if attr.UTMSource != "" {
			medium = mediumManualSelection
		} else {
			medium = mediumWebsiteForm
		}
	}

	return Record{
		Name:        v.Name,
		Email:       v.Email,
		Phone:       v.Phone,
		UTMSource:   source,
		UTMCampaign: nullable(attr.UTMCampaign),
		UTMMedium:   medium,
		UTMTerm:     nullable(attr.UTMTerm),
		UTMContent:  BuildContent(v, attr.UTMContent),
	}
}

// BuildContent packs the qualification answers into the utm_content column,
// keeping any campaign-supplied utm_content at the end.
func BuildContent(v Validated, original string) string {
	content := fmt.Sprintf("Idade: %d | Prof: %s | Área: %s | Canal: %s", v.Age, v.Profession, v.AreaOfActivity, v.Channel)
	if original != "" {
		content += " | " + original
	}
	return content
}

// notificationFields lists what the operator sees. Source and campaign are
// the raw campaign parameters so a direct visit reads "Direto".
func notificationFields(v Validated, attr Attribution) notify.LeadFields {
	return notify.LeadFields{
		Name:           v.Name,
		Email:          v.Email,
		Phone:          v.Phone,
		Age:            strconv.Itoa(v.Age),
		Profession:     v.Profession,
		AreaOfActivity: v.AreaOfActivity,
		Channel:        v.Channel,
		UTMSource:      attr.UTMSource,
		UTMCampaign:    attr.UTMCampaign,
	}
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
