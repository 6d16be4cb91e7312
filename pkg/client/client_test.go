package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_ErrorDecoding(t *testing.T) {
	t.Run("Should decode the error envelope into a typed error", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "billing access denied")
		}))
		defer ts.Close()

		_, err := NewClient(ts.URL, "token").GetBilling(context.Background(), "enq-1")
		require.Error(t, err)

		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
		assert.Equal(t, "FORBIDDEN", apiErr.Code)
		assert.Equal(t, "billing access denied", apiErr.Message)
		assert.True(t, IsForbidden(err))
		assert.False(t, IsNotFound(err))
	})

	t.Run("Should fall back to the raw body for non-JSON errors", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down"))
		}))
		defer ts.Close()

		_, err := NewClient(ts.URL, "token").GetEnquiry(context.Background(), "enq-1")
		var apiErr *Error
		require.ErrorAs(t, err, &apiErr)
		assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
		assert.Equal(t, "upstream down", apiErr.Message)
	})
}

func TestClient_GetBilling(t *testing.T) {
	t.Run("Should return nil without error for uninitialized billing", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, http.StatusOK, nil)
		}))
		defer ts.Close()

		billing, err := NewClient(ts.URL, "token").GetBilling(context.Background(), "enq-1")
		require.NoError(t, err)
		assert.Nil(t, billing)
	})

	t.Run("Should decode figures including the derived balance", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			writeData(w, http.StatusOK, Billing{EnquiryID: "enq-1", Total: 10000, Paid: 3000, Discount: 500, Balance: 6500})
		}))
		defer ts.Close()

		billing, err := NewClient(ts.URL, "token").GetBilling(context.Background(), "enq-1")
		require.NoError(t, err)
		require.NotNil(t, billing)
		assert.Equal(t, int64(6500), billing.Balance)
	})
}

func TestClient_Auth(t *testing.T) {
	t.Run("Should send the bearer token on every request", func(t *testing.T) {
		var gotAuth string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			writeData(w, http.StatusOK, EnquiryDetail{})
		}))
		defer ts.Close()

		_, err := NewClient(ts.URL, "secret-token").GetEnquiry(context.Background(), "enq-1")
		require.NoError(t, err)
		assert.Equal(t, "Bearer secret-token", gotAuth)
	})

	t.Run("Should encode the change-status payload", func(t *testing.T) {
		var payload map[string]any
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewDecoder(r.Body).Decode(&payload)
			writeData(w, http.StatusOK, Enquiry{ID: "enq-1", Stage: StageDemo})
		}))
		defer ts.Close()

		enquiry, err := NewClient(ts.URL, "token").ChangeStatus(context.Background(), "enq-1", StageDemo)
		require.NoError(t, err)
		assert.Equal(t, StageDemo, enquiry.Stage)
		assert.Equal(t, "enq-1", payload["enquiry_id"])
		assert.Equal(t, "demo", payload["new_status"])
	})
}
