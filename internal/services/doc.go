// Package services implements the business logic behind the HTTP API and
// the CLI. Services read sheets through a shared SheetReader (row store
// plus cache), run the pure analytics and workflow functions over the
// decoded rows, and write decisions back through the store.
//
// # Available Services
//
//	- DashboardService: the KPI report, filter options and inventory alerts
//	- IndentService: stage queues, notifications and every stage decision
//	- InventoryService: stock levels and alerts
//	- PurchaseOrderService: PO lines grouped per PO with computed amounts
//	- AuthService: USER sheet sign-in and session tokens
//	- UploadService: attachments stored through the row store
//	- HealthService: liveness and readiness
//
// # Writes
//
// Every write invalidates the cached copy of the sheet it touched and,
// when a Broadcaster is configured, announces a sheet.updated event so
// connected screens refetch.
//
// # Errors
//
// Services return the sentinel errors in errors.go, wrapped with context.
// Store failures wrap ErrStoreUnavailable.
package services
