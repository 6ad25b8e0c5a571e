package leads

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrDeliveryFailed is returned when neither storage nor notification succeeded.
	ErrDeliveryFailed = errors.New("leads: delivery failed on every channel")

	// ErrRepositoryUnavailable is returned when no lead store is configured.
	ErrRepositoryUnavailable = errors.New("leads: repository not configured")

	// ErrNotifierUnavailable is returned when no lead notifier is configured.
	ErrNotifierUnavailable = errors.New("leads: notifier not configured")
)

// Messages shown to the visitor.
const (
	MsgDeliveryFailedTitle = "Erro ao enviar"
	MsgDeliveryFailed      = "Pedimos desculpas, mas não conseguimos processar seus dados no momento. Por favor, tente falar diretamente pelo WhatsApp ou Instagram."
)

// FieldErrors maps a form field name to its message.
type FieldErrors map[string]string

// ValidationError is returned when a submission fails validation. No
// network call has been made when it is returned.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("leads: invalid submission: %s", strings.Join(names, ", "))
}

// PersistenceError records a failed insert. It never aborts a submission.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string { return "leads: persistence failed: " + e.Err.Error() }
func (e *PersistenceError) Unwrap() error { return e.Err }

// NotificationError records a failed operator notification. It never aborts a submission.
type NotificationError struct {
	Err error
}

func (e *NotificationError) Error() string { return "leads: notification failed: " + e.Err.Error() }
func (e *NotificationError) Unwrap() error { return e.Err }
