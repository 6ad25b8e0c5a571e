package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Subject lines for the operator mailbox. Mail filters match on them verbatim.
const (
	SubjectLeadSaved   = "Novo Lead Capturado - Dados Completos!"
	SubjectLeadUnsaved = "NOVO LEAD (ALERTA: Falha no Supabase!)"

	templateBasic = "basic"

	defaultUTMSource   = "Direto"
	defaultUTMCampaign = "Nenhuma"
)

// LeadFields are the lead details relayed to the operator.
type LeadFields struct {
	Name           string
	Email          string
	Phone          string
	Age            string
	Profession     string
	AreaOfActivity string
	Channel        string
	UTMSource      string
	UTMCampaign    string
}

// Entry is one labelled line of a notification.
type Entry struct {
	Key   string
	Value string
}

// NotificationPayload is either a plain lead notice or a lead notice that
// also carries a warning about the lead not being stored. Build it with
// NewLeadPayload or NewUnsavedLeadPayload; the zero value is not useful.
type NotificationPayload struct {
	fields  LeadFields
	subject string
	warning string
}

// NewLeadPayload builds the notice sent after the lead was stored.
func NewLeadPayload(fields LeadFields) NotificationPayload {
	return NotificationPayload{fields: fields, subject: SubjectLeadSaved}
}

// NewUnsavedLeadPayload builds the notice sent when storing the lead failed.
// reason is the storage error text shown to the operator.
func NewUnsavedLeadPayload(fields LeadFields, reason string) NotificationPayload {
	return NotificationPayload{
		fields:  fields,
		subject: SubjectLeadUnsaved,
		warning: fmt.Sprintf("Este lead NÃO foi salvo no banco de dados devido ao erro: %s.", reason),
	}
}

// Fields returns the lead details.
func (p NotificationPayload) Fields() LeadFields { return p.fields }

// Subject returns the mailbox subject line.
func (p NotificationPayload) Subject() string { return p.subject }

// Warning returns the storage warning, if this is the unsaved variant.
func (p NotificationPayload) Warning() (string, bool) {
	return p.warning, p.warning != ""
}

// Entries lists the human-labelled fields in presentation order.
func (p NotificationPayload) Entries() []Entry {
	f := p.fields
	entries := []Entry{
		{Key: "Nome", Value: f.Name},
		{Key: "E-mail", Value: f.Email},
		{Key: "Telefone", Value: f.Phone},
		{Key: "Idade", Value: f.Age},
		{Key: "Profissão", Value: f.Profession},
		{Key: "Área de Atuação", Value: f.AreaOfActivity},
		{Key: "Como conheceu", Value: f.Channel},
		{Key: "Origem (UTM Source)", Value: orDefault(f.UTMSource, defaultUTMSource)},
		{Key: "Campanha (UTM Campaign)", Value: orDefault(f.UTMCampaign, defaultUTMCampaign)},
	}
	if warning, ok := p.Warning(); ok {
		entries = append(entries, Entry{Key: "AVISO", Value: warning})
	}
	return entries
}

// MarshalJSON encodes the payload as the flat object FormSubmit expects,
// keeping the key order of Entries.
func (p NotificationPayload) MarshalJSON() ([]byte, error) {
	entries := p.Entries()
	controls := []Entry{
		{Key: "_subject", Value: p.subject},
		{Key: "_template", Value: templateBasic},
	}
	// Control fields go before the warning so the mail body ends with it.
	var ordered []Entry
	if _, ok := p.Warning(); ok {
		ordered = append(ordered, entries[:len(entries)-1]...)
		ordered = append(ordered, controls...)
		ordered = append(ordered, entries[len(entries)-1])
	} else {
		ordered = append(entries, controls...)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range ordered {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
