package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"indentdesk/internal/sheets"
	"indentdesk/internal/sheets/sheetstest"
	"indentdesk/internal/workflow"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
	"indentdesk/pkg/contracts/events"
)

func newTestIndentService(t *testing.T, store *sheetstest.Store, opts ...IndentOption) (*IndentService, *SheetReader) {
	t.Helper()
	reader, logger, _ := newTestReader(t, store)
	opts = append([]IndentOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewIndentService(reader, nil, logger, opts...), reader
}

func createRequest(indentType string, products ...string) api.CreateIndentRequest {
	req := api.CreateIndentRequest{
		IndenterName:     "Ravi",
		IndentApprovedBy: "Meena",
		IndentType:       indentType,
	}
	for _, p := range products {
		req.Products = append(req.Products, api.IndentProduct{
			Department:  "Stores",
			GroupHead:   "Hardware",
			ProductName: p,
			Quantity:    10,
			UOM:         "pcs",
			AreaOfUse:   "Plant",
		})
	}
	return req
}

func TestIndentService_Create(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, domain.Indent{IndentNumber: "SI-0007", Timestamp: "2024-01-01"})

	hub := new(MockBroadcaster)
	hub.On("Broadcast", string(events.MessageTypeSheetUpdated), mock.MatchedBy(func(e events.SheetUpdated) bool {
		return e.Sheet == domain.SheetIndent && e.Action == "insert" && e.IndentNumber == "SI-0008" && e.Rows == 2 && e.By == "ravi"
	})).Once()

	svc, _ := newTestIndentService(t, store, WithBroadcaster(hub))

	resp, err := svc.Create(context.Background(), createRequest(domain.IndentTypePurchase, "Bolt", "Nut"), "ravi")
	require.NoError(t, err)
	assert.Equal(t, "SI-0008", resp.IndentNumber)
	assert.Len(t, resp.Rows, 2)

	inserts := store.CallsFor("insert")
	require.Len(t, inserts, 1)
	assert.Equal(t, domain.SheetIndent, inserts[0].Sheet)
	assert.Len(t, inserts[0].Rows, 2)
	assert.Equal(t, workflow.Stamp(fixedNow), inserts[0].Rows[0]["timestamp"])
	assert.Equal(t, "", inserts[0].Rows[0]["planned1"], "live sheets plan stages with formulas")

	hub.AssertExpectations(t)
}

func TestIndentService_CreateNeutralizesFormulas(t *testing.T) {
	store := sheetstest.New()
	svc, _ := newTestIndentService(t, store)

	_, err := svc.Create(context.Background(), createRequest(domain.IndentTypePurchase, `=IMPORTXML("http://x","//a")`), "ravi")
	require.NoError(t, err)

	inserts := store.CallsFor("insert")
	require.Len(t, inserts, 1)
	assert.Equal(t, `'=IMPORTXML("http://x","//a")`, inserts[0].Rows[0]["productName"])
	assert.Equal(t, "Hardware", inserts[0].Rows[0]["groupHead"])
}

func TestIndentService_CreateWithScheduling(t *testing.T) {
	store := sheetstest.New()
	svc, _ := newTestIndentService(t, store, WithScheduling())

	_, err := svc.Create(context.Background(), createRequest(domain.IndentTypePurchase, "Bolt"), "ravi")
	require.NoError(t, err)

	pending, err := svc.Pending(context.Background(), workflow.StageIndentApproval)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "SI-0001", pending[0].IndentNumber)
}

func TestIndentService_PipelineWithScheduling(t *testing.T) {
	store := sheetstest.New()
	svc, _ := newTestIndentService(t, store, WithScheduling())
	ctx := context.Background()

	created, err := svc.Create(ctx, createRequest(domain.IndentTypePurchase, "Bolt"), "ravi")
	require.NoError(t, err)
	number := created.IndentNumber

	_, err = svc.Approve(ctx, number, api.ApproveIndentRequest{VendorType: domain.VendorTypeThreeParty, ApprovedQuantity: 8}, "meena")
	require.NoError(t, err)

	counts, err := svc.Notifications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, counts[string(workflow.StageIndentApproval)])
	assert.Equal(t, 1, counts[string(workflow.StageVendorUpdate)])

	_, err = svc.UpdateVendors(ctx, number, api.UpdateVendorsRequest{Vendors: []domain.VendorQuote{
		{Name: "Acme", Rate: 12, PaymentTerm: "Net 30"},
		{Name: "Volt", Rate: 11, PaymentTerm: "Advance"},
		{Name: "Zeta", Rate: 13, PaymentTerm: "Net 45"},
	}}, "buyer")
	require.NoError(t, err)

	resp, err := svc.ApproveRate(ctx, number, api.ApproveRateRequest{Vendor: 2}, "meena")
	require.NoError(t, err)
	assert.Equal(t, "Volt", resp.Rows[0].ApprovedVendorName)

	_, err = svc.UpdateRate(ctx, number, api.UpdateRateRequest{ApprovedRate: 10.5}, "meena")
	require.NoError(t, err)

	pending, err := svc.Pending(ctx, workflow.StagePurchaseOrder)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.Number(10.5), pending[0].ApprovedRate)

	history, err := svc.History(ctx, workflow.StageThreePartyApproval)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestIndentService_StoreOut(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, domain.Indent{
		Timestamp:    "2024-02-21T08:00:00.000Z",
		IndentNumber: "SI-0003",
		ProductName:  "Gloves",
		Quantity:     4,
		IndentType:   domain.IndentTypeStoreOut,
		Planned6:     "2024-02-21T08:00:00.000Z",
	})
	svc, _ := newTestIndentService(t, store)
	ctx := context.Background()

	resp, err := svc.StoreOut(ctx, "SI-0003", api.StoreOutRequest{
		Action:         api.StoreOutApprove,
		ApprovedBy:     "Meena",
		IssuedQuantity: 3,
		ApprovalDate:   "2024-02-28",
	}, "meena")
	require.NoError(t, err)
	assert.Equal(t, "2024-02-28T00:00:00.000Z", resp.Rows[0].Actual6)

	resp, err = svc.StoreOut(ctx, "SI-0003", api.StoreOutRequest{Action: api.StoreOutIssue}, "store")
	require.NoError(t, err)
	assert.True(t, resp.Rows[0].IsIssued())

	rows := store.Rows(domain.SheetIndent)
	require.Len(t, rows, 1)
	assert.Equal(t, domain.IssueStatusIssued, rows[0]["issueStatus"])

	_, err = svc.StoreOut(ctx, "SI-0003", api.StoreOutRequest{Action: api.StoreOutReject}, "meena")
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = svc.StoreOut(ctx, "SI-0003", api.StoreOutRequest{Action: api.StoreOutApprove, ApprovedBy: "x", ApprovalDate: "soon"}, "meena")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestIndentService_WriteInvalidatesCache(t *testing.T) {
	store := sheetstest.New()
	sheetstest.SeedRecords(store, domain.SheetIndent, domain.Indent{
		Timestamp:    "2024-02-20",
		IndentNumber: "SI-0001",
		ProductName:  "Bolt",
		IndentType:   domain.IndentTypePurchase,
		Planned1:     "2024-02-20",
	})
	svc, _ := newTestIndentService(t, store)
	ctx := context.Background()

	pending, err := svc.Pending(ctx, workflow.StageIndentApproval)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	_, err = svc.Approve(ctx, "SI-0001", api.ApproveIndentRequest{VendorType: domain.VendorTypeReject}, "meena")
	require.NoError(t, err)

	pending, err = svc.Pending(ctx, workflow.StageIndentApproval)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestIndentService_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*sheetstest.Store)
		call  func(*IndentService) error
		want  error
	}{
		{
			name: "unknown indent",
			call: func(s *IndentService) error {
				_, err := s.Approve(context.Background(), "SI-0404", api.ApproveIndentRequest{VendorType: domain.VendorTypeReject}, "meena")
				return err
			},
			want: ErrIndentNotFound,
		},
		{
			name: "fetch failure",
			setup: func(s *sheetstest.Store) {
				s.FailOn("fetch", errors.New("proxy down"))
			},
			call: func(s *IndentService) error {
				_, err := s.Create(context.Background(), createRequest(domain.IndentTypePurchase, "Bolt"), "ravi")
				return err
			},
			want: ErrStoreUnavailable,
		},
		{
			name: "write failure",
			setup: func(s *sheetstest.Store) {
				s.FailOn("insert", sheets.ErrRemoteFailure)
			},
			call: func(s *IndentService) error {
				_, err := s.Create(context.Background(), createRequest(domain.IndentTypePurchase, "Bolt"), "ravi")
				return err
			},
			want: sheets.ErrRemoteFailure,
		},
		{
			name: "no products",
			call: func(s *IndentService) error {
				_, err := s.Create(context.Background(), createRequest(domain.IndentTypePurchase), "ravi")
				return err
			},
			want: ErrNoProducts,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := sheetstest.New()
			if tt.setup != nil {
				tt.setup(store)
			}
			svc, _ := newTestIndentService(t, store)
			assert.ErrorIs(t, tt.call(svc), tt.want)
		})
	}
}
