// Package interfaces collects the compile-time checks that tie the
// application's concrete types to the interfaces they are wired through.
//
// # Interface Categories
//
// ## Data Access
//
//   - BookStore: book persistence (internal/services/interfaces.go)
//   - PersonStore: reader persistence (internal/services/interfaces.go)
//   - EmailLookup: email uniqueness check (internal/validation/validators.go)
//   - EventStore: audit trail storage (internal/audit/service.go)
//
// ## Background Work
//
//   - LoanLister, ScanRecorder: overdue scan inputs (internal/tasks/overdue_scan.go)
//   - AuditEventCleaner: audit retention (internal/tasks/cleanup_audit.go)
//   - ScanRunner: starts a scan from cron or HTTP (internal/scheduler, internal/http)
//
// # Adding a New Database Domain
//
//  1. Create a sub-package under internal/database/ with a Repository
//     wrapping *gorm.DB and a NewRepository constructor.
//
//  2. Register its entities in database.Migrate.
//
//  3. Declare the consumer-side interface where it is used and add a
//     check to checks.go:
//
//     var _ services.SomeStore = (*some.Repository)(nil)
package interfaces
