package interfaces

// Compile-time interface implementation checks. A missing method on any of
// the concrete types below fails the build here instead of at wiring time.

import (
	"github.com/mrlokans/library/internal/audit"
	auditrepo "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	"github.com/mrlokans/library/internal/database/people"
	"github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/services"
	"github.com/mrlokans/library/internal/tasks"
	"github.com/mrlokans/library/internal/validation"
)

// Data access

var _ services.BookStore = (*books.Repository)(nil)
var _ services.PersonStore = (*people.Repository)(nil)
var _ validation.EmailLookup = (*people.Repository)(nil)
var _ audit.EventStore = (*auditrepo.Repository)(nil)

// Background work

var _ tasks.LoanLister = (*services.BooksService)(nil)
var _ tasks.ScanRecorder = (*audit.Service)(nil)
var _ tasks.AuditEventCleaner = (*audit.Service)(nil)
var _ scheduler.ScanRunner = (*tasks.OverdueScanDispatcher)(nil)
var _ http.ScanRunner = (*tasks.OverdueScanDispatcher)(nil)
