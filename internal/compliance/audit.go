// Package compliance keeps an append-only trail of admin panel activity.
package compliance

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AuditEventType represents the type of audited action.
type AuditEventType string

const (
	// EventAdminLogin is logged when an admin signs in.
	EventAdminLogin AuditEventType = "admin.login"
	// EventAdminLoginFailed is logged when a sign-in attempt is rejected.
	EventAdminLoginFailed AuditEventType = "admin.login_failed"
	// EventAdminLogout is logged when an admin signs out.
	EventAdminLogout AuditEventType = "admin.logout"
	// EventAdminAccessDenied is logged when a non-admin account tries to sign in.
	EventAdminAccessDenied AuditEventType = "admin.access_denied"
	// EventLeadsViewed is logged when an admin lists leads.
	EventLeadsViewed AuditEventType = "admin.leads_viewed"
)

// AuditEvent represents an immutable audit record.
type AuditEvent struct {
	ID         string          `json:"id"`
	EventType  AuditEventType  `json:"event_type"`
	ActorEmail string          `json:"actor_email,omitempty"`
	RemoteIP   string          `json:"remote_ip,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// AuditDetails contains event-specific details.
type AuditDetails struct {
	// For failed logins
	Reason string `json:"reason,omitempty"`

	// For lead listings
	Query string `json:"query,omitempty"`
	Order string `json:"order,omitempty"`
	Page  int    `json:"page,omitempty"`
	Total int    `json:"total,omitempty"`
}

// AuditService writes to admin_audit_events. A nil service drops events.
type AuditService struct {
	db *sql.DB
}

// NewAuditService creates a new audit service.
func NewAuditService(db *sql.DB) *AuditService {
	if db == nil {
		return nil
	}
	return &AuditService{db: db}
}

// LogEvent records an audit event.
func (s *AuditService) LogEvent(ctx context.Context, event AuditEvent) error {
	if s == nil || s.db == nil {
		return nil
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if len(event.Details) == 0 {
		event.Details = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO admin_audit_events (
			id, event_type, actor_email, remote_ip, details, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		event.ID,
		string(event.EventType),
		nullString(event.ActorEmail),
		nullString(event.RemoteIP),
		[]byte(event.Details),
		event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("compliance: failed to log audit event: %w", err)
	}

	return nil
}

// LogLogin logs a successful sign-in.
func (s *AuditService) LogLogin(ctx context.Context, email, remoteIP string) error {
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventAdminLogin,
		ActorEmail: email,
		RemoteIP:   remoteIP,
	})
}

// LogLoginFailed logs a rejected sign-in. The attempted password is never recorded.
func (s *AuditService) LogLoginFailed(ctx context.Context, email, remoteIP, reason string) error {
	detailsJSON, _ := json.Marshal(AuditDetails{Reason: reason})
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventAdminLoginFailed,
		ActorEmail: email,
		RemoteIP:   remoteIP,
		Details:    detailsJSON,
	})
}

// LogAccessDenied logs a sign-in by an account without the admin role.
func (s *AuditService) LogAccessDenied(ctx context.Context, email, remoteIP string) error {
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventAdminAccessDenied,
		ActorEmail: email,
		RemoteIP:   remoteIP,
	})
}

// LogLogout logs a sign-out.
func (s *AuditService) LogLogout(ctx context.Context, email, remoteIP string) error {
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventAdminLogout,
		ActorEmail: email,
		RemoteIP:   remoteIP,
	})
}

// LogLeadsViewed logs a lead listing with the filters used.
func (s *AuditService) LogLeadsViewed(ctx context.Context, email, remoteIP string, details AuditDetails) error {
	detailsJSON, _ := json.Marshal(details)
	return s.LogEvent(ctx, AuditEvent{
		EventType:  EventLeadsViewed,
		ActorEmail: email,
		RemoteIP:   remoteIP,
		Details:    detailsJSON,
	})
}

// QueryEvents retrieves audit events with filters, newest first.
func (s *AuditService) QueryEvents(ctx context.Context, filter AuditFilter) ([]AuditEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := `
		SELECT id, event_type, actor_email, remote_ip, details, created_at
		FROM admin_audit_events
		WHERE 1 = 1
	`
	var args []interface{}
	argIdx := 1

	if filter.ActorEmail != "" {
		query += fmt.Sprintf(" AND actor_email = $%d", argIdx)
		args = append(args, filter.ActorEmail)
		argIdx++
	}
	if filter.EventType != "" {
		query += fmt.Sprintf(" AND event_type = $%d", argIdx)
		args = append(args, string(filter.EventType))
		argIdx++
	}
	if !filter.StartTime.IsZero() {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, filter.StartTime)
		argIdx++
	}
	if !filter.EndTime.IsZero() {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, filter.EndTime)
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("compliance: failed to query audit events: %w", err)
	}
	defer rows.Close()

	var events []AuditEvent
	for rows.Next() {
		var e AuditEvent
		var eventType string
		var actor, remoteIP sql.NullString
		var details []byte
		if err := rows.Scan(&e.ID, &eventType, &actor, &remoteIP, &details, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("compliance: failed to scan audit event: %w", err)
		}
		e.EventType = AuditEventType(eventType)
		e.ActorEmail = actor.String
		e.RemoteIP = remoteIP.String
		e.Details = json.RawMessage(details)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("compliance: failed to read audit events: %w", err)
	}

	return events, nil
}

// AuditFilter specifies criteria for querying audit events.
type AuditFilter struct {
	ActorEmail string
	EventType  AuditEventType
	StartTime  time.Time
	EndTime    time.Time
	Limit      int
	Offset     int
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
