package http

import (
	"context"

	"indentdesk/internal/auth"
	"indentdesk/internal/services"
	"indentdesk/internal/workflow"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
)

// DashboardService computes filtered dashboard reports
type DashboardService interface {
	Report(ctx context.Context, filters domain.FilterSpec) (domain.Dashboard, error)
	Options(ctx context.Context) (domain.FilterOptions, error)
}

// IndentService lists stage queues and applies workflow actions
type IndentService interface {
	Pending(ctx context.Context, stage workflow.Stage) ([]domain.Indent, error)
	History(ctx context.Context, stage workflow.Stage) ([]domain.Indent, error)
	Notifications(ctx context.Context) (map[string]int, error)
	Create(ctx context.Context, req api.CreateIndentRequest, by string) (api.IndentResponse, error)
	Approve(ctx context.Context, number string, req api.ApproveIndentRequest, by string) (api.IndentResponse, error)
	UpdateVendors(ctx context.Context, number string, req api.UpdateVendorsRequest, by string) (api.IndentResponse, error)
	ApproveRate(ctx context.Context, number string, req api.ApproveRateRequest, by string) (api.IndentResponse, error)
	UpdateRate(ctx context.Context, number string, req api.UpdateRateRequest, by string) (api.IndentResponse, error)
	StoreOut(ctx context.Context, number string, req api.StoreOutRequest, by string) (api.IndentResponse, error)
}

// InventoryService reads the INVENTORY sheet
type InventoryService interface {
	Items(ctx context.Context, status domain.StockStatus) ([]domain.InventoryView, error)
	Alerts(ctx context.Context) (domain.InventoryAlerts, error)
}

// PurchaseOrderService reads the PO MASTER sheet
type PurchaseOrderService interface {
	List(ctx context.Context) ([]domain.PurchaseOrderSummary, error)
	Get(ctx context.Context, number string) (domain.PurchaseOrderSummary, error)
}

// AuthService signs users in and out
type AuthService interface {
	Login(ctx context.Context, req api.LoginRequest) (api.TokenResponse, error)
	Me(ctx context.Context, username string) (domain.Profile, error)
	Logout(ctx context.Context, token string, claims *auth.Claims) error
}

// UploadService stores attachments
type UploadService interface {
	Upload(ctx context.Context, req api.UploadRequest, by string) (api.UploadResponse, error)
}

// HealthService answers the probes
type HealthService interface {
	LivenessCheck(ctx context.Context) services.HealthStatus
	ReadinessCheck(ctx context.Context) services.HealthStatus
}

// MasterService reads the MASTER reference data
type MasterService interface {
	Options(ctx context.Context) (domain.MasterOptions, error)
	Vendor(ctx context.Context, name string) (domain.Vendor, error)
}
