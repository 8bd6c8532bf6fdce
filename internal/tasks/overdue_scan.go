package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/library/internal/entities"
)

const (
	QueueOverdueScan = "overdue_scan"

	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
)

// LoanLister returns every current loan with its expiry flag set.
type LoanLister interface {
	Loans() ([]entities.Book, error)
}

// ScanRecorder stores the outcome of a scan in the audit trail.
type ScanRecorder interface {
	LogOverdueScan(trigger string, loans, overdue int, err error)
}

// OverdueScanTask walks all current loans and reports the expired ones.
type OverdueScanTask struct {
	Trigger string `json:"trigger"`
}

func (t OverdueScanTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        QueueOverdueScan,
		MaxAttempts: 3,
		Backoff:     1 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ScanResult summarises one overdue scan.
type ScanResult struct {
	Loans   int
	Overdue []entities.Book
}

// ScanOverdue runs a scan synchronously. The recorder may be nil.
func ScanOverdue(loans LoanLister, recorder ScanRecorder, trigger string) (*ScanResult, error) {
	books, err := loans.Loans()
	if err != nil {
		err = fmt.Errorf("overdue scan: %w", err)
		if recorder != nil {
			recorder.LogOverdueScan(trigger, 0, 0, err)
		}
		return nil, err
	}

	result := &ScanResult{Loans: len(books), Overdue: []entities.Book{}}
	for _, book := range books {
		if !book.Expired {
			continue
		}
		result.Overdue = append(result.Overdue, book)

		event := log.Warn().Uint("book_id", book.ID).Str("title", book.Title)
		if book.Reader != nil {
			event = event.Uint("person_id", book.Reader.ID).Str("email", book.Reader.Email)
		}
		if book.TakenAt != nil {
			event = event.Time("taken_at", *book.TakenAt)
		}
		event.Msg("Overdue loan")
	}

	log.Info().
		Str("trigger", trigger).
		Int("loans", result.Loans).
		Int("overdue", len(result.Overdue)).
		Msg("Overdue scan finished")

	if recorder != nil {
		recorder.LogOverdueScan(trigger, result.Loans, len(result.Overdue), nil)
	}
	return result, nil
}

// OverdueScanProcessor creates a processor function for OverdueScanTask.
func OverdueScanProcessor(loans LoanLister, recorder ScanRecorder) backlite.QueueProcessor[OverdueScanTask] {
	return func(ctx context.Context, task OverdueScanTask) error {
		if loans == nil {
			return fmt.Errorf("loan lister not configured")
		}
		trigger := task.Trigger
		if trigger == "" {
			trigger = TriggerManual
		}
		_, err := ScanOverdue(loans, recorder, trigger)
		return err
	}
}

// NewOverdueScanQueue creates a backlite queue for overdue scans.
func NewOverdueScanQueue(loans LoanLister, recorder ScanRecorder) backlite.Queue {
	return backlite.NewQueue(OverdueScanProcessor(loans, recorder))
}

// OverdueScanDispatcher runs overdue scans through the queue when one is
// available, and inline otherwise.
type OverdueScanDispatcher struct {
	client   *Client
	loans    LoanLister
	recorder ScanRecorder
}

// NewOverdueScanDispatcher accepts a nil client for inline execution.
func NewOverdueScanDispatcher(client *Client, loans LoanLister, recorder ScanRecorder) *OverdueScanDispatcher {
	return &OverdueScanDispatcher{client: client, loans: loans, recorder: recorder}
}

// RunOverdueScan enqueues or runs a scan. It returns the task id when the
// scan was queued, or an empty string when it ran inline.
func (d *OverdueScanDispatcher) RunOverdueScan(trigger string) (string, error) {
	if d.client != nil {
		ids, err := d.client.Add(OverdueScanTask{Trigger: trigger}).Save()
		if err != nil {
			return "", fmt.Errorf("enqueue overdue scan: %w", err)
		}
		return ids[0], nil
	}
	_, err := ScanOverdue(d.loans, d.recorder, trigger)
	return "", err
}
