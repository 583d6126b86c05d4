package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"autoadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeListShapes(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want int
	}{
		{"paginated", `{"results": [{"id": 1}, {"id": 2}]}`, 2},
		{"empty results", `{"results": []}`, 0},
		{"bare array", `[{"id": 1}]`, 1},
		{"empty array", `[]`, 0},
		{"object without results", `{"detail": "nope"}`, 0},
		{"null", `null`, 0},
		{"garbage", `not json`, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := decodeList[models.User]([]byte(tc.raw))
			require.NotNil(t, list)
			assert.Len(t, list, tc.want)
		})
	}
}

func TestErrorMessagePreference(t *testing.T) {
	assert.Equal(t, "boom", errorMessage([]byte(`{"error": "boom"}`), 500))
	assert.Equal(t, "not found", errorMessage([]byte(`{"detail": "not found"}`), 404))
	assert.Equal(t, "plain text failure", errorMessage([]byte("plain text failure"), 502))
	assert.Equal(t, "HTTP 500", errorMessage(nil, 500))
}

func TestCallSendsJSONAndDecodes(t *testing.T) {
	var gotContentType string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []map[string]any{{"id": 1, "email": "a@b.co"}}})
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "a@b.co", users[0].Email)
	assert.Equal(t, "application/json", gotContentType)
}

func TestCallSurfacesAPIError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error": "amount is required"}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	err := client.CreateBooking(context.Background(), models.BookingPayload{})
	require.Error(t, err)

	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "amount is required", apiErr.Message)
}

func TestCallAttachesCSRFTokenOnMutations(t *testing.T) {
	var seen struct{ get, post string }
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			seen.get = r.Header.Get("X-CSRFToken")
			http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: "tok123", Path: "/"})
			_, _ = w.Write([]byte(`[]`))
		default:
			seen.post = r.Header.Get("X-CSRFToken")
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)

	_, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, seen.get)

	require.NoError(t, client.CreateService(context.Background(), models.ServicePayload{Code: "mot"}))
	assert.Equal(t, "tok123", seen.post)
}

func TestCallNoCSRFHeaderWithoutCookie(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("X-CSRFToken"))
		_, _ = w.Write([]byte(`{}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	assert.NoError(t, client.DeleteBooking(context.Background(), 9))
}

func TestPaymentsTotalDecodesDecimalStrings(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/payments/total/", r.URL.Path)
		_, _ = w.Write([]byte(`{"total": "1540.50", "today": 54.85, "paypal": "1200", "dvla": 340.5}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	summary, err := client.PaymentsTotal(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 1540.50, float64(summary.Total), 0.001)
	assert.InDelta(t, 54.85, float64(summary.Today), 0.001)
	assert.InDelta(t, 1200, float64(summary.PayPal), 0.001)
}

func TestTrendSeriesSingleSeriesFallback(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"labels": ["Jan", "Feb"], "data": [3, 7]}`))
	}))
	t.Cleanup(ts.Close)

	client := NewClient(ts.URL)
	trends, err := client.BookingTrends(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Jan", "Feb"}, trends.Labels)
	assert.Nil(t, trends.PayPalData)
	assert.Equal(t, []float64{3, 7}, trends.Data)
}
