package refundservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/pkg/logger"
)

func TestClient_RequestRefund(t *testing.T) {
	var got RefundRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/internal/refunds", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(RefundResponse{RefundID: "rf-1", Status: "accepted"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second, logger.NewNop())
	resp, err := client.RequestRefund(context.Background(), RefundRequest{
		InvoiceID: 3,
		RequestID: 9,
		Amount:    decimal.RequireFromString("300.50"),
	})
	require.NoError(t, err)

	assert.Equal(t, "rf-1", resp.RefundID)
	assert.Equal(t, int64(3), got.InvoiceID)
	assert.True(t, decimal.RequireFromString("300.50").Equal(got.Amount))
}

func TestClient_RequestRefundErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"not refundable", http.StatusConflict, ErrInvoiceNotRefundable},
		{"server error", http.StatusInternalServerError, ErrInvalidResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, time.Second, logger.NewNop())
			_, err := client.RequestRefund(context.Background(), RefundRequest{InvoiceID: 1})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
