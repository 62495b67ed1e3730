package boxoffice

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "key", time.Second, log.New(io.Discard, "", 0))
	require.NoError(t, err)
	return client
}

func TestHTTPClientFetch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/boxoffice", r.URL.Path)
		assert.Equal(t, "Inception", r.URL.Query().Get("title"))
		assert.Equal(t, "key", r.Header.Get("X-API-Key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"title":"Inception","distributor":"Warner Bros.","budget":160000000,
			"revenue":{"worldwide":836800000,"openingWeekendUSA":62785337},"mpaRating":"PG-13"}`)
	})

	result, err := client.Fetch(context.Background(), "Inception")
	require.NoError(t, err)
	require.NotNil(t, result.TotalGross())
	assert.Equal(t, int64(836_800_000), *result.TotalGross())
	assert.Equal(t, "Warner Bros.", *result.Distributor)
	assert.Equal(t, defaultCurrency, result.BoxOffice.Currency)
	assert.Equal(t, defaultSource, result.BoxOffice.Source)
}

func TestHTTPClientFetchWithoutWorldwide(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"title":"Obscure","revenue":{}}`)
	})

	result, err := client.Fetch(context.Background(), "Obscure")
	require.NoError(t, err)
	assert.Nil(t, result.TotalGross())
}

func TestHTTPClientFetchStatuses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		notFound bool
	}{
		{"not found", http.StatusNotFound, true},
		{"server error", http.StatusBadGateway, false},
		{"unauthorized", http.StatusUnauthorized, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})
			_, err := client.Fetch(context.Background(), "Anything")
			require.Error(t, err)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrNotFound))
		})
	}
}

func TestHTTPClientFetchMalformedBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"revenue":`)
	})
	_, err := client.Fetch(context.Background(), "Broken")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestResultTotalGrossNil(t *testing.T) {
	var r *Result
	assert.Nil(t, r.TotalGross())
	assert.Nil(t, (&Result{}).TotalGross())
}

func TestHTTPClientFetchDropsNegativeFigures(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"title":"Odd","budget":-5,"revenue":{"worldwide":-1}}`)
	})

	result, err := client.Fetch(context.Background(), "Odd")
	require.NoError(t, err)
	assert.Nil(t, result.Budget)
	assert.Nil(t, result.TotalGross())
}
