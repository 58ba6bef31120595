package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"indentdesk/internal/shared/testutil"
	"indentdesk/pkg/contracts/domain"
)

func newTestGoogleStore(t *testing.T, tabs map[string][][]interface{}) *GoogleStore {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		const prefix = "/v4/spreadsheets/sheet-123/values/"
		if !strings.HasPrefix(r.URL.Path, prefix) {
			http.NotFound(w, r)
			return
		}
		tab := strings.TrimPrefix(r.URL.Path, prefix)
		values, ok := tabs[tab]
		if !ok {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"error": map[string]interface{}{"code": 400, "message": "Unable to parse range: " + tab},
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"range":          tab + "!A1:Z100",
			"majorDimension": "ROWS",
			"values":         values,
		})
	}))
	t.Cleanup(srv.Close)

	logger, _ := testutil.NewTestLogger(t)
	store, err := NewGoogleStoreWithOptions(context.Background(), "sheet-123", logger,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return store
}

func TestGoogleStore_Fetch(t *testing.T) {
	store := newTestGoogleStore(t, map[string][][]interface{}{
		"RECEIVED": {
			{"Timestamp", "Indent Number", "Vendor", "Received Quantity"},
			{"2024-01-10", "SI-0001", "Acme", "30"},
			{"", "", "", ""},
			{"", "SI-0002"},
			{"2024-01-11", "SI-0002", "Volt", "5"},
		},
	})

	rows, err := store.Fetch(context.Background(), domain.SheetReceived)
	require.NoError(t, err)

	received, err := Decode[domain.Received](rows)
	require.NoError(t, err)
	require.Len(t, received, 2)
	assert.Equal(t, "Volt", received[1].Vendor)
	assert.Equal(t, domain.Number(30), received[0].ReceivedQuantity)
}

func TestGoogleStore_FetchMaster(t *testing.T) {
	store := newTestGoogleStore(t, map[string][][]interface{}{
		"MASTER": {
			{"Vendor Name", "Vendor GSTIN", "Vendor Address", "Department"},
			{"Acme", "29ABC", "Pune", "Stores"},
		},
	})

	opts, err := store.FetchMaster(context.Background())
	require.NoError(t, err)
	require.Len(t, opts.Vendors, 1)
	assert.Equal(t, []string{"Stores"}, opts.Departments)
}

func TestGoogleStore_Errors(t *testing.T) {
	store := newTestGoogleStore(t, map[string][][]interface{}{})
	ctx := context.Background()

	_, err := store.Fetch(ctx, domain.SheetIndent)
	assert.ErrorIs(t, err, ErrRemoteFailure)

	assert.ErrorIs(t, store.Insert(ctx, domain.SheetIndent, nil), ErrReadOnly)
	assert.ErrorIs(t, store.Update(ctx, domain.SheetIndent, nil), ErrReadOnly)
	assert.ErrorIs(t, store.Delete(ctx, domain.SheetIndent, nil), ErrReadOnly)
	_, err = store.Upload(ctx, UploadRequest{})
	assert.ErrorIs(t, err, ErrReadOnly)
}
