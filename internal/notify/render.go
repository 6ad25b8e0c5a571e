package notify

import (
	"html"
	"strings"
)

// RenderText renders the payload as "Label: value" lines.
func RenderText(payload NotificationPayload) string {
	var b strings.Builder
	for _, e := range payload.Entries() {
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(e.Value)
		b.WriteByte('\n')
	}
	return b.String()
}

// RenderHTML renders the payload as a two-column table, mirroring
// FormSubmit's "basic" template.
func RenderHTML(payload NotificationPayload) string {
	var b strings.Builder
	b.WriteString("<h2>")
	b.WriteString(html.EscapeString(payload.Subject()))
	b.WriteString("</h2>\n<table>\n")
	for _, e := range payload.Entries() {
		b.WriteString("<tr><th align=\"left\">")
		b.WriteString(html.EscapeString(e.Key))
		b.WriteString("</th><td>")
		b.WriteString(html.EscapeString(e.Value))
		b.WriteString("</td></tr>\n")
	}
	b.WriteString("</table>\n")
	return b.String()
}
