// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - DonationStore: donation writes the generic repository lacks (internal/http/donations.go)
//   - NewsletterStore: idempotent subscriptions (internal/http/engagement.go)
//   - StatsReader: aggregate counts for /api/stats (internal/http/site.go)
//   - Pinger: database liveness for /health (internal/http/health.go)
//
// ## Auditing Interfaces
//
//   - WriteAuditor: CMS write trail and delete archives (internal/http/resources.go)
//   - AuditReader: audit event queries (internal/http/audit.go)
//   - AuthRecorder: login and logout events (internal/auth/handlers.go)
//
// ## Storage and Media Interfaces
//
//   - storage.Client: file persistence behind uploads (internal/storage/client.go)
//   - KeyResolver: public URL to storage key (internal/http/tasks.go)
//   - ThumbnailGenerator: image thumbnails (internal/tasks/thumbnail.go)
//
// ## Background Work Interfaces
//
//   - TaskRunner: enqueue tasks and read their status (internal/http/tasks.go)
//   - Enqueuer: scheduler hand-off to the queue (internal/scheduler/scheduler.go)
//   - DonationExpirer, AuditEventCleaner: maintenance task targets (internal/tasks)
//
// # Adding a New Content Resource
//
//  1. Define the entity in internal/entities, embedding entities.Model
//     (and entities.PublishState when it has a public side), and add it to
//     entities.All so it is migrated.
//
//  2. Register it in router.go:
//
//     faqs := newResource[entities.FAQ](deps,
//         content.Options{SearchColumns: []string{"question_en", "question_ar"}},
//         resourceOptions{Name: "faqs", Label: "faq", Public: true})
//     faqs.RegisterRoutes(api, cms)
//
// Public list and detail routes filter on isPublished; the CMS routes do not.
//
// # Adding a New Payment Gateway
//
//  1. Implement payments.Gateway in internal/payments/
//
//     func (g *OtherGateway) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
//
//     var _ payments.Gateway = (*OtherGateway)(nil)
//
//  2. Select it in payments.NewGateway from config.
//
// # Compile-Time Interface Checks
//
// All implementations should include compile-time checks to ensure they satisfy
// their interfaces. This catches missing methods at compile time rather than runtime:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
//
// This pattern is used throughout the codebase. See checks.go for examples.
package interfaces
