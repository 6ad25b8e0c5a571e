package leads

import "strings"

// ContentDetails are the qualification answers recovered from utm_content.
type ContentDetails struct {
	Age            string
	Profession     string
	AreaOfActivity string
	Channel        string
	Extra          string // campaign utm_content or legacy free text
}

var contentPrefixes = []struct {
	prefix string
	set    func(*ContentDetails, string)
}{
	{"Idade: ", func(d *ContentDetails, v string) { d.Age = v }},
	{"Prof: ", func(d *ContentDetails, v string) { d.Profession = v }},
	{"Área: ", func(d *ContentDetails, v string) { d.AreaOfActivity = v }},
	{"Canal: ", func(d *ContentDetails, v string) { d.Channel = v }},
}

// ParseContent reverses BuildContent. Segments it does not recognise are
// kept, in order, in Extra.
func ParseContent(content string) ContentDetails {
	var (
		details ContentDetails
		extra   []string
	)
	if strings.TrimSpace(content) == "" {
		return details
	}
	for _, part := range strings.Split(content, " | ") {
		matched := false
		for _, p := range contentPrefixes {
			if value, ok := strings.CutPrefix(part, p.prefix); ok {
				p.set(&details, value)
				matched = true
				break
			}
		}
		if !matched {
			extra = append(extra, part)
		}
	}
	details.Extra = strings.Join(extra, " | ")
	return details
}
