package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/entities"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(DatabasePath(filepath.Join(t.TempDir(), "library.db")), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

func TestDatabasePath(t *testing.T) {
	assert.Equal(t, filepath.Join("data", "library-tasks.db"), DatabasePath("data/library.db"))
	assert.Equal(t, "library-tasks", DatabasePath("library"))
}

func TestNewClient(t *testing.T) {
	tmpDir := t.TempDir()
	tasksDBPath := DatabasePath(filepath.Join(tmpDir, "test.db"))

	cfg := DefaultConfig()
	cfg.Workers = 1

	client, err := NewClient(tasksDBPath, cfg)
	require.NoError(t, err)
	require.NotNil(t, client)

	_, err = os.Stat(filepath.Join(tmpDir, "test-tasks.db"))
	assert.NoError(t, err, "tasks database should be created")

	err = client.Close()
	assert.NoError(t, err)
}

func TestClientStartStop(t *testing.T) {
	client := newTestClient(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go client.Start(ctx)

	// Give it time to start
	time.Sleep(50 * time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer stopCancel()

	success := client.Stop(stopCtx)
	assert.True(t, success, "stop should succeed gracefully")
}

func TestStopWithoutStart(t *testing.T) {
	client := newTestClient(t)
	assert.True(t, client.Stop(context.Background()))
}

type stubLoans struct {
	books []entities.Book
	err   error
}

func (s *stubLoans) Loans() ([]entities.Book, error) {
	return s.books, s.err
}

type scanRecord struct {
	trigger        string
	loans, overdue int
	err            error
}

type stubRecorder struct {
	mu      sync.Mutex
	records []scanRecord
	done    chan struct{}
}

func newStubRecorder() *stubRecorder {
	return &stubRecorder{done: make(chan struct{}, 4)}
}

func (r *stubRecorder) LogOverdueScan(trigger string, loans, overdue int, err error) {
	r.mu.Lock()
	r.records = append(r.records, scanRecord{trigger, loans, overdue, err})
	r.mu.Unlock()
	r.done <- struct{}{}
}

func loanBooks() []entities.Book {
	taken := time.Now().Add(-12 * 24 * time.Hour)
	return []entities.Book{
		{ID: 1, Title: "Old", TakenAt: &taken, Expired: true, Reader: &entities.Person{ID: 3, Email: "j@example.com"}},
		{ID: 2, Title: "Fresh", Expired: false},
	}
}

func TestScanOverdue(t *testing.T) {
	recorder := newStubRecorder()

	result, err := ScanOverdue(&stubLoans{books: loanBooks()}, recorder, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Loans)
	require.Len(t, result.Overdue, 1)
	assert.Equal(t, uint(1), result.Overdue[0].ID)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, scanRecord{trigger: TriggerManual, loans: 2, overdue: 1}, recorder.records[0])
}

func TestScanOverdue_Failure(t *testing.T) {
	recorder := newStubRecorder()

	_, err := ScanOverdue(&stubLoans{err: errors.New("db down")}, recorder, TriggerScheduled)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db down")

	require.Len(t, recorder.records, 1)
	assert.Error(t, recorder.records[0].err)
}

func TestScanOverdue_NilRecorder(t *testing.T) {
	result, err := ScanOverdue(&stubLoans{books: []entities.Book{}}, nil, TriggerManual)
	require.NoError(t, err)
	assert.Zero(t, result.Loans)
	assert.NotNil(t, result.Overdue)
}

func TestOverdueScanQueue_RunsThroughClient(t *testing.T) {
	client := newTestClient(t)
	recorder := newStubRecorder()
	client.Register(NewOverdueScanQueue(&stubLoans{books: loanBooks()}, recorder))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go client.Start(ctx)

	ids, err := client.Add(OverdueScanTask{Trigger: TriggerScheduled}).Save()
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	select {
	case <-recorder.done:
	case <-time.After(5 * time.Second):
		t.Fatal("overdue scan was not executed within timeout")
	}

	recorder.mu.Lock()
	defer recorder.mu.Unlock()
	assert.Equal(t, TriggerScheduled, recorder.records[0].trigger)
	assert.Equal(t, 1, recorder.records[0].overdue)
}

func TestOverdueScanTaskConfig(t *testing.T) {
	cfg := OverdueScanTask{}.Config()

	assert.Equal(t, QueueOverdueScan, cfg.Name)
	assert.Equal(t, 3, cfg.MaxAttempts)
	require.NotNil(t, cfg.Retention)
}

type stubCleaner struct {
	retention time.Duration
	deleted   int64
	err       error
}

func (c *stubCleaner) DeleteOldEvents(retention time.Duration) (int64, error) {
	c.retention = retention
	return c.deleted, c.err
}

func TestCleanupAuditEventsProcessor(t *testing.T) {
	cleaner := &stubCleaner{deleted: 4}
	process := CleanupAuditEventsProcessor(cleaner)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	require.NoError(t, process(context.Background(), CleanupAuditEventsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.retention)

	cleaner.err = errors.New("locked")
	assert.Error(t, process(context.Background(), CleanupAuditEventsTask{RetentionDays: 1}))

	assert.Error(t, CleanupAuditEventsProcessor(nil)(context.Background(), CleanupAuditEventsTask{}))
}

func TestCleanupAuditEventsTaskConfig(t *testing.T) {
	cfg := CleanupAuditEventsTask{}.Config()
	assert.Equal(t, QueueCleanupAuditEvents, cfg.Name)
	var _ backlite.Task = CleanupAuditEventsTask{}
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.Tasks{Workers: 4, ReleaseAfter: time.Minute})
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, time.Minute, cfg.ReleaseAfter)
	assert.Equal(t, DefaultConfig().CleanupInterval, cfg.CleanupInterval)
}
