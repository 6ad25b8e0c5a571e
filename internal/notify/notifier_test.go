package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormSubmitNotifier_Success(t *testing.T) {
	var (
		gotPath   string
		gotAccept string
		gotType   string
		gotBody   map[string]string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		gotType = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success":"false","message":"ignored"}`))
	}))
	defer srv.Close()

	notifier := NewFormSubmitNotifier(FormSubmitConfig{
		BaseURL: srv.URL + "/ajax/",
		Mailbox: "operator@example.com",
		Timeout: time.Second,
	}, nil)

	err := notifier.NotifyLead(context.Background(), NewLeadPayload(sampleFields()))

	require.NoError(t, err, "body content must not affect the outcome")
	assert.Equal(t, "/ajax/operator@example.com", gotPath)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "Ana Silva", gotBody["Nome"])
	assert.Equal(t, SubjectLeadSaved, gotBody["_subject"])
}

func TestFormSubmitNotifier_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	notifier := NewFormSubmitNotifier(FormSubmitConfig{BaseURL: srv.URL, Mailbox: "op@example.com"}, nil)

	err := notifier.NotifyLead(context.Background(), NewLeadPayload(sampleFields()))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestFormSubmitNotifier_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	notifier := NewFormSubmitNotifier(FormSubmitConfig{BaseURL: url, Mailbox: "op@example.com"}, nil)

	err := notifier.NotifyLead(context.Background(), NewLeadPayload(sampleFields()))

	require.Error(t, err)
}

func TestEmailLeadNotifier_RendersPayload(t *testing.T) {
	stub := NewStubEmailSender(nil)
	notifier := NewEmailLeadNotifier(stub, "operator@example.com", nil)

	err := notifier.NotifyLead(context.Background(), NewUnsavedLeadPayload(sampleFields(), "db down"))

	require.NoError(t, err)
	require.Len(t, stub.Sent(), 1)
	msg := stub.Sent()[0]
	assert.Equal(t, "operator@example.com", msg.To)
	assert.Equal(t, "ana@test.com", msg.ReplyTo)
	assert.Equal(t, SubjectLeadUnsaved, msg.Subject)
	assert.Contains(t, msg.Body, "AVISO: Este lead NÃO foi salvo no banco de dados devido ao erro: db down.")
	assert.Contains(t, msg.HTML, "<table>")
}

func TestEmailLeadNotifier_NoSender(t *testing.T) {
	notifier := NewEmailLeadNotifier(nil, "operator@example.com", nil)

	assert.Error(t, notifier.NotifyLead(context.Background(), NewLeadPayload(sampleFields())))
}
