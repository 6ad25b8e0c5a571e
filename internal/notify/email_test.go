package notify

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "",
		FromEmail: "leads@example.com",
	}, nil)

	if sender != nil {
		t.Error("expected nil sender when API key is empty")
	}
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{
		APIKey:    "test-key",
		FromEmail: "leads@example.com",
	}, nil)

	if sender == nil {
		t.Fatal("expected non-nil sender")
	}
	if sender.fromName != defaultFromName {
		t.Errorf("expected default from name %q, got %q", defaultFromName, sender.fromName)
	}
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	var sender *SendGridSender

	err := sender.Send(context.Background(), EmailMessage{
		To:      "operator@example.com",
		Subject: SubjectLeadSaved,
		Body:    "Nome: Ana",
	})

	if err == nil {
		t.Error("expected error when sender is nil")
	}
}

func TestBuildSendGridMessage_ReplyToLead(t *testing.T) {
	msg := buildSendGridMessage("Gestor", "leads@example.com", EmailMessage{
		To:      "operator@example.com",
		ReplyTo: "ana@test.com",
		Subject: SubjectLeadSaved,
		Body:    "Nome: Ana",
	})

	require.NotNil(t, msg.ReplyTo)
	assert.Equal(t, "ana@test.com", msg.ReplyTo.Address)
	assert.Equal(t, SubjectLeadSaved, msg.Subject)
	require.Len(t, msg.Content, 2)
	assert.Equal(t, "Nome: Ana", msg.Content[1].Value, "html part falls back to text body")
}

func TestStubEmailSender_RecordsMessages(t *testing.T) {
	sender := NewStubEmailSender(nil)

	err := sender.Send(context.Background(), EmailMessage{To: "operator@example.com", Subject: "s"})

	require.NoError(t, err)
	require.Len(t, sender.Sent(), 1)
	assert.Equal(t, "operator@example.com", sender.Sent()[0].To)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "leads@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "operator@example.com",
		ReplyTo: "ana@test.com",
		Subject: SubjectLeadUnsaved,
		Body:    "text",
		HTML:    "<p>html</p>",
	})

	require.NoError(t, err)
	require.NotNil(t, client.input)
	assert.Equal(t, "Gestor de Tráfego <leads@example.com>", aws.ToString(client.input.FromEmailAddress))
	assert.Equal(t, []string{"operator@example.com"}, client.input.Destination.ToAddresses)
	assert.Equal(t, []string{"ana@test.com"}, client.input.ReplyToAddresses)
	assert.Equal(t, SubjectLeadUnsaved, aws.ToString(client.input.Content.Simple.Subject.Data))
	assert.Equal(t, "text", aws.ToString(client.input.Content.Simple.Body.Text.Data))
	assert.Equal(t, "<p>html</p>", aws.ToString(client.input.Content.Simple.Body.Html.Data))
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "leads@example.com"}, nil)

	err := sender.Send(context.Background(), EmailMessage{To: "operator@example.com", Subject: "s", Body: "b"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestStubEmailSender_ConcurrentSendsAreBounded(t *testing.T) {
	sender := NewStubEmailSender(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := sender.Send(context.Background(), EmailMessage{
				To:      "operator@example.com",
				Subject: fmt.Sprintf("lead %d", i),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Len(t, sender.Sent(), stubSentLimit)
}

func TestStubEmailSender_KeepsMostRecent(t *testing.T) {
	sender := NewStubEmailSender(nil)
	for i := 0; i < stubSentLimit+5; i++ {
		require.NoError(t, sender.Send(context.Background(), EmailMessage{Subject: fmt.Sprintf("lead %d", i)}))
	}

	got := sender.Sent()
	require.Len(t, got, stubSentLimit)
	assert.Equal(t, "lead 5", got[0].Subject)
	assert.Equal(t, fmt.Sprintf("lead %d", stubSentLimit+4), got[len(got)-1].Subject)
}
