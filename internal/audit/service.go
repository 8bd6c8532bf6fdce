package audit

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/entities"
)

// EventStore persists and queries audit events.
type EventStore interface {
	LogEvent(event *entities.AuditEvent) error
	GetEvents(filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error)
	DeleteOldEvents(olderThan time.Time) (int64, error)
}

// Actor describes who triggered an event and from where.
type Actor struct {
	LibrarianID *uint
	RequestID   string
	IPAddress   string
	UserAgent   string
}

// System is the actor for scheduled and background work.
var System = Actor{}

// Service provides high-level audit logging functionality.
type Service struct {
	repo    EventStore
	pending sync.WaitGroup
}

// NewService creates a new audit service.
func NewService(repo EventStore) *Service {
	return &Service{repo: repo}
}

// Log records a generic audit event.
func (s *Service) Log(event *entities.AuditEvent) error {
	return s.repo.LogEvent(event)
}

// LogAsync records an audit event in the background (non-blocking).
func (s *Service) LogAsync(event *entities.AuditEvent) {
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()
		if err := s.repo.LogEvent(event); err != nil {
			log.Error().Err(err).Str("action", event.Action).Msg("Failed to log audit event")
		}
	}()
}

// Wait blocks until every LogAsync call so far has been written.
func (s *Service) Wait() {
	s.pending.Wait()
}

func (s *Service) newEvent(actor Actor, eventType entities.AuditEventType, action string) *entities.AuditEvent {
	return &entities.AuditEvent{
		LibrarianID: actor.LibrarianID,
		RequestID:   actor.RequestID,
		EventType:   eventType,
		Action:      action,
		IPAddress:   actor.IPAddress,
		UserAgent:   truncate(actor.UserAgent, 500),
		Status:      entities.AuditStatusSuccess,
	}
}

// LogChange records a create or update of a book or person.
func (s *Service) LogChange(actor Actor, eventType entities.AuditEventType, entityType string, entityID uint, entityName string) {
	verb := "Created"
	if eventType == entities.AuditEventUpdate {
		verb = "Updated"
	}

	event := s.newEvent(actor, eventType, entityType+"_"+string(eventType))
	event.Description = truncate(fmt.Sprintf("%s %s: %s", verb, entityType, entityName), 500)
	event.EntityType = entityType
	event.EntityID = &entityID

	s.LogAsync(event)
}

// LogDelete records a deletion event.
func (s *Service) LogDelete(actor Actor, entityType string, entityID uint) {
	event := s.newEvent(actor, entities.AuditEventDelete, entityType+"_delete")
	event.Description = fmt.Sprintf("Deleted %s %d", entityType, entityID)
	event.EntityType = entityType
	event.EntityID = &entityID

	s.LogAsync(event)
}

// LogAppoint records a book being lent to a reader.
func (s *Service) LogAppoint(actor Actor, book *entities.Book) {
	event := s.newEvent(actor, entities.AuditEventLending, "book_appoint")
	event.EntityType = "book"
	event.EntityID = &book.ID

	readerName := ""
	metadata := map[string]any{}
	if book.Reader != nil {
		readerName = book.Reader.FullName
		metadata["person_id"] = book.Reader.ID
	}
	if book.TakenAt != nil {
		metadata["taken_at"] = book.TakenAt.UTC().Format(time.RFC3339)
	}
	event.Description = truncate(fmt.Sprintf("Lent '%s' to %s", book.Title, readerName), 500)
	event.Metadata = encodeMetadata(metadata)

	s.LogAsync(event)
}

// LogFree records a book being returned.
func (s *Service) LogFree(actor Actor, book *entities.Book) {
	event := s.newEvent(actor, entities.AuditEventLending, "book_free")
	event.EntityType = "book"
	event.EntityID = &book.ID
	event.Description = truncate(fmt.Sprintf("Returned '%s'", book.Title), 500)

	s.LogAsync(event)
}

// LogOverdueScan records the outcome of an overdue loan scan.
func (s *Service) LogOverdueScan(trigger string, loans, overdue int, err error) {
	event := s.newEvent(System, entities.AuditEventOverdueScan, "overdue_scan")
	event.Description = fmt.Sprintf("Found %d overdue of %d loans", overdue, loans)
	event.Metadata = encodeMetadata(map[string]any{
		"trigger": trigger,
		"loans":   loans,
		"overdue": overdue,
	})

	if err != nil {
		event.Status = entities.AuditStatusFailed
		event.ErrorMsg = truncate(err.Error(), 500)
	}

	s.LogAsync(event)
}

// LogAuth records an authentication event.
func (s *Service) LogAuth(actor Actor, action string, success bool) {
	event := s.newEvent(actor, entities.AuditEventAuth, action)
	event.EntityType = "librarian"
	event.EntityID = actor.LibrarianID

	if !success {
		event.Status = entities.AuditStatusFailed
	}

	s.LogAsync(event)
}

// GetEvents retrieves paginated audit events.
func (s *Service) GetEvents(filter audit.EventFilter, limit, offset int) ([]entities.AuditEvent, int64, error) {
	return s.repo.GetEvents(filter, limit, offset)
}

// DeleteOldEvents removes events older than the specified duration.
func (s *Service) DeleteOldEvents(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	return s.repo.DeleteOldEvents(cutoff)
}

func encodeMetadata(metadata map[string]any) string {
	mdBytes, err := json.Marshal(metadata)
	if err != nil {
		return ""
	}
	return string(mdBytes)
}

// truncate shortens a string to max length.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
