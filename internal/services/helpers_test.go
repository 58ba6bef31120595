package services

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"

	"indentdesk/internal/cache"
	"indentdesk/internal/sheets/sheetstest"
	"indentdesk/internal/shared/testutil"
	"indentdesk/pkg/contracts/domain"
)

// MockBroadcaster is a mock for the Broadcaster interface
type MockBroadcaster struct {
	mock.Mock
}

func (m *MockBroadcaster) Broadcast(messageType string, data interface{}) {
	m.Called(messageType, data)
}

var fixedNow = time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)

func newTestReader(t *testing.T, store *sheetstest.Store) (*SheetReader, *slog.Logger, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	mem := cache.NewMemory(32)
	t.Cleanup(func() { _ = mem.Close() })
	return NewSheetReader(store, mem, time.Minute, nil, logger), logger, handler
}

func boltIndent() domain.Indent {
	return domain.Indent{
		Timestamp:        "2024-01-05",
		IndentNumber:     "SI-0001",
		ProductName:      "Bolt",
		Quantity:         50,
		IndentType:       domain.IndentTypePurchase,
		Planned1:         "2024-01-05",
		Actual1:          "2024-01-06",
		VendorType:       domain.VendorTypeRegular,
		ApprovedQuantity: 50,
	}
}

func acmeReceipt() domain.Received {
	return domain.Received{
		Timestamp:        "2024-01-10",
		IndentNumber:     "SI-0001",
		Vendor:           "Acme",
		ReceivedQuantity: 30,
	}
}
