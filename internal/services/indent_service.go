package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"indentdesk/internal/analytics"
	"indentdesk/internal/infrastructure"
	"indentdesk/internal/security"
	"indentdesk/internal/sheets"
	"indentdesk/internal/workflow"
	api "indentdesk/pkg/contracts/api/v1"
	"indentdesk/pkg/contracts/domain"
	"indentdesk/pkg/contracts/events"
)

// Broadcaster pushes an event to connected clients
type Broadcaster interface {
	Broadcast(messageType string, data interface{})
}

// IndentOption configures an IndentService
type IndentOption func(*IndentService)

// WithBroadcaster announces every write to connected clients
func WithBroadcaster(b Broadcaster) IndentOption {
	return func(s *IndentService) { s.broadcaster = b }
}

// WithScheduling makes the service fill planned columns itself, for
// stores without sheet formulas
func WithScheduling() IndentOption {
	return func(s *IndentService) { s.schedule = true }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) IndentOption {
	return func(s *IndentService) { s.now = now }
}

// IndentService lists stage queues and applies stage decisions
type IndentService struct {
	reader      *SheetReader
	metrics     *infrastructure.BusinessMetrics
	broadcaster Broadcaster
	guard       *security.CellGuard
	schedule    bool
	now         func() time.Time
	logger      *slog.Logger

	// writes is held from reading INDENT to writing it back so two
	// decisions never interleave (and two new indents never share a number)
	writes sync.Mutex
}

// NewIndentService creates an indent service
func NewIndentService(reader *SheetReader, metrics *infrastructure.BusinessMetrics, logger *slog.Logger, opts ...IndentOption) *IndentService {
	if logger == nil {
		logger = slog.Default()
	}
	s := &IndentService{
		reader:  reader,
		metrics: metrics,
		guard:   security.NewCellGuard(logger),
		now:     time.Now,
		logger:  logger.With(slog.String("service", "indents")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pending lists the lines waiting in stage
func (s *IndentService) Pending(ctx context.Context, stage workflow.Stage) ([]domain.Indent, error) {
	indents, err := readSheet[domain.Indent](ctx, s.reader, domain.SheetIndent)
	if err != nil {
		return nil, err
	}
	return workflow.Pending(indents, stage), nil
}

// History lists the lines stage already decided
func (s *IndentService) History(ctx context.Context, stage workflow.Stage) ([]domain.Indent, error) {
	indents, err := readSheet[domain.Indent](ctx, s.reader, domain.SheetIndent)
	if err != nil {
		return nil, err
	}
	return workflow.History(indents, stage), nil
}

// Notifications counts the pending lines per stage
func (s *IndentService) Notifications(ctx context.Context) (map[string]int, error) {
	indents, err := readSheet[domain.Indent](ctx, s.reader, domain.SheetIndent)
	if err != nil {
		return nil, err
	}
	return stageCounts(workflow.Notifications(indents)), nil
}

// Create numbers and inserts a new indent
func (s *IndentService) Create(ctx context.Context, req api.CreateIndentRequest, by string) (api.IndentResponse, error) {
	draft := workflow.Draft{
		IndenterName:     req.IndenterName,
		IndentApprovedBy: req.IndentApprovedBy,
		IndentType:       req.IndentType,
		Lines:            make([]workflow.DraftLine, 0, len(req.Products)),
	}
	for _, p := range req.Products {
		draft.Lines = append(draft.Lines, workflow.DraftLine{
			Department:     p.Department,
			AreaOfUse:      p.AreaOfUse,
			GroupHead:      p.GroupHead,
			ProductName:    p.ProductName,
			Quantity:       p.Quantity,
			UOM:            p.UOM,
			Specifications: p.Specifications,
			Attachment:     p.Attachment,
		})
	}

	s.writes.Lock()
	defer s.writes.Unlock()

	existing, err := s.fresh(ctx)
	if err != nil {
		return api.IndentResponse{}, err
	}
	rows, err := workflow.NewIndent(existing, draft, s.now())
	if err != nil {
		return api.IndentResponse{}, err
	}
	if err := s.write(ctx, "insert", "create", rows, by); err != nil {
		return api.IndentResponse{}, err
	}
	return api.IndentResponse{IndentNumber: rows[0].IndentNumber, Rows: rows}, nil
}

// Approve records the indent approval decision
func (s *IndentService) Approve(ctx context.Context, number string, req api.ApproveIndentRequest, by string) (api.IndentResponse, error) {
	return s.decide(ctx, workflow.StageIndentApproval, number, by, func(indents []domain.Indent) ([]domain.Indent, error) {
		return workflow.ApproveIndent(indents, number, req.VendorType, req.ApprovedQuantity, s.now())
	})
}

// UpdateVendors records the vendor quotes of an approved indent
func (s *IndentService) UpdateVendors(ctx context.Context, number string, req api.UpdateVendorsRequest, by string) (api.IndentResponse, error) {
	return s.decide(ctx, workflow.StageVendorUpdate, number, by, func(indents []domain.Indent) ([]domain.Indent, error) {
		return workflow.UpdateVendors(indents, number, req.Vendors, req.ComparisonSheet, s.now())
	})
}

// ApproveRate picks the winning quote of a three-party comparison
func (s *IndentService) ApproveRate(ctx context.Context, number string, req api.ApproveRateRequest, by string) (api.IndentResponse, error) {
	return s.decide(ctx, workflow.StageThreePartyApproval, number, by, func(indents []domain.Indent) ([]domain.Indent, error) {
		return workflow.ApproveRate(indents, number, req.Vendor, s.now())
	})
}

// UpdateRate corrects the approved rate of a decided comparison
func (s *IndentService) UpdateRate(ctx context.Context, number string, req api.UpdateRateRequest, by string) (api.IndentResponse, error) {
	return s.decide(ctx, workflow.StageThreePartyApproval, number, by, func(indents []domain.Indent) ([]domain.Indent, error) {
		return workflow.UpdateApprovedRate(indents, number, req.ApprovedRate)
	})
}

// StoreOut approves, rejects or issues a store-out indent
func (s *IndentService) StoreOut(ctx context.Context, number string, req api.StoreOutRequest, by string) (api.IndentResponse, error) {
	var approvedAt time.Time
	if req.ApprovalDate != "" {
		t, ok := analytics.ParseDate(req.ApprovalDate)
		if !ok {
			return api.IndentResponse{}, fmt.Errorf("%w: approval date %q", ErrInvalidInput, req.ApprovalDate)
		}
		approvedAt = t
	}

	return s.decide(ctx, workflow.StageStoreOut, number, by, func(indents []domain.Indent) ([]domain.Indent, error) {
		switch req.Action {
		case api.StoreOutApprove:
			return workflow.ApproveStoreOut(indents, number, req.ApprovedBy, req.IssuedQuantity, approvedAt, s.now())
		case api.StoreOutReject:
			return workflow.RejectStoreOut(indents, number, s.now())
		case api.StoreOutIssue:
			return workflow.MarkIssued(indents, number, req.IssuedQuantity)
		}
		return nil, fmt.Errorf("%w: store-out action %q", ErrInvalidDecision, req.Action)
	})
}

type transition func(indents []domain.Indent) ([]domain.Indent, error)

// decide reads INDENT from the store, applies fn and writes the changed
// lines back
func (s *IndentService) decide(ctx context.Context, stage workflow.Stage, number, by string, fn transition) (api.IndentResponse, error) {
	s.writes.Lock()
	defer s.writes.Unlock()

	indents, err := s.fresh(ctx)
	if err != nil {
		return api.IndentResponse{}, err
	}
	rows, err := fn(indents)
	if err != nil {
		s.logger.InfoContext(ctx, "decision refused",
			slog.String("stage", string(stage)),
			slog.String("indent_number", number),
			slog.String("error", err.Error()),
		)
		return api.IndentResponse{}, err
	}
	if err := s.write(ctx, "update", string(stage), rows, by); err != nil {
		return api.IndentResponse{}, err
	}
	return api.IndentResponse{IndentNumber: number, Rows: rows}, nil
}

// fresh reads INDENT past the cache
func (s *IndentService) fresh(ctx context.Context) ([]domain.Indent, error) {
	rows, err := s.reader.Store().Fetch(ctx, domain.SheetIndent)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %w", ErrStoreUnavailable, domain.SheetIndent, err)
	}
	indents, err := sheets.Decode[domain.Indent](rows)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", domain.SheetIndent, err)
	}
	return indents, nil
}

func (s *IndentService) write(ctx context.Context, action, stage string, rows []domain.Indent, by string) error {
	if s.schedule {
		rows = workflow.Schedule(rows)
	}
	encoded, err := sheets.Encode(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", domain.SheetIndent, err)
	}
	s.guard.SanitizeRows(ctx, domain.SheetIndent, encoded)

	store := s.reader.Store()
	if action == "insert" {
		err = store.Insert(ctx, domain.SheetIndent, encoded)
	} else {
		err = store.Update(ctx, domain.SheetIndent, encoded)
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "indent write failed",
			slog.String("action", action),
			slog.String("stage", stage),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s %s: %w", ErrStoreUnavailable, action, domain.SheetIndent, err)
	}

	s.reader.Invalidate(ctx, domain.SheetIndent)
	s.metrics.RecordTransition(ctx, stage, action)

	number := rows[0].IndentNumber
	s.logger.InfoContext(ctx, "indent written",
		slog.String("action", action),
		slog.String("stage", stage),
		slog.String("indent_number", number),
		slog.Int("rows", len(rows)),
		slog.String("by", by),
	)

	if s.broadcaster != nil {
		s.broadcaster.Broadcast(string(events.MessageTypeSheetUpdated), events.SheetUpdated{
			Sheet:        domain.SheetIndent,
			Action:       action,
			Stage:        stage,
			IndentNumber: number,
			Rows:         len(rows),
			By:           by,
		})
	}
	return nil
}

func stageCounts(counts map[workflow.Stage]int) map[string]int {
	out := make(map[string]int, len(counts))
	for stage, n := range counts {
		out[string(stage)] = n
	}
	return out
}
