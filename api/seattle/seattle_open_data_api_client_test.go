package seattle

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bike-counter/api"
	"bike-counter/models"
)

func TestGetBikeCounts(t *testing.T) {
	want := []models.BikeCountRecord{
		{Date: "2014-02-01T00:00:00.000", NorthboundCount: "4", SouthboundCount: "5"},
		{Date: "2014-02-01T01:00:00.000", NorthboundCount: "2", SouthboundCount: "1"},
	}

	// Handler to verify request and return stubbed JSON
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/65db-xm6k.json", r.URL.Path)

		q := r.URL.Query()
		assert.Equal(t, "date>='2014-02-01' AND date<'2014-03-01'", q.Get("$where"))
		assert.Equal(t, "50000", q.Get("$limit"))
		assert.Equal(t, "date ASC", q.Get("$order"))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(want)
	}))
	defer srv.Close()

	client := NewSeattleOpenDataApiClient(api.NewHTTPClient(srv.URL, time.Second), "65db-xm6k", 50000)

	got, err := client.GetBikeCounts(context.Background(), 2, 2014)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestGetBikeCounts_EmptyMonth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	client := NewSeattleOpenDataApiClient(api.NewHTTPClient(srv.URL, time.Second), "65db-xm6k", 10)

	got, err := client.GetBikeCounts(context.Background(), 1, 2030)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestGetBikeCounts_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewSeattleOpenDataApiClient(api.NewHTTPClient(srv.URL, time.Second), "65db-xm6k", 10)

	got, err := client.GetBikeCounts(context.Background(), 1, 2014)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "65db-xm6k")
	assert.Contains(t, err.Error(), "2014-01")
}
