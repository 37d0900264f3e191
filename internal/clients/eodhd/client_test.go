package eodhd

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetCurrentPrice_ParsesResponse(t *testing.T) {
	mockResp := map[string]interface{}{
		"code":          "AAPL.US",
		"timestamp":     int64(1711670340),
		"close":         189.25,
		"previousClose": 187.10,
	}

	var capturedPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	price, found, err := client.GetCurrentPrice(context.Background(), "AAPL.US")
	if err != nil {
		t.Fatalf("GetCurrentPrice failed: %v", err)
	}

	if capturedPath != "/real-time/AAPL.US" {
		t.Errorf("expected path /real-time/AAPL.US, got %s", capturedPath)
	}
	if !found {
		t.Fatal("expected found=true")
	}
	if price != 189.25 {
		t.Errorf("expected price 189.25, got %.2f", price)
	}
}

func TestGetCurrentPrice_NAFallsBackToPreviousClose(t *testing.T) {
	mockResp := map[string]interface{}{
		"code":          "THIN.US",
		"close":         "NA",
		"previousClose": 12.50,
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(mockResp)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	price, found, err := client.GetCurrentPrice(context.Background(), "THIN.US")
	if err != nil {
		t.Fatalf("GetCurrentPrice failed: %v", err)
	}
	if !found || price != 12.50 {
		t.Errorf("expected (12.50, true), got (%.2f, %v)", price, found)
	}
}

func TestGetCurrentPrice_UnknownSymbolNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Symbol not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, found, err := client.GetCurrentPrice(context.Background(), "NOPE")
	if err != nil {
		t.Fatalf("unknown symbol should not be an error, got %v", err)
	}
	if found {
		t.Error("expected found=false for unknown symbol")
	}
}

func TestGetCurrentPrice_ServerErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	_, _, err := client.GetCurrentPrice(context.Background(), "AAPL.US")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("expected *APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError {
		t.Errorf("StatusCode = %d, want 500", apiErr.StatusCode)
	}
}

func TestGetHistory_ChronologicalCloses(t *testing.T) {
	bars := []map[string]interface{}{
		{"date": "2026-08-01", "close": 100.0, "adjusted_close": 99.5},
		{"date": "2026-08-02", "close": 101.0, "adjusted_close": 100.5},
		{"date": "2026-08-03", "close": 102.0, "adjusted_close": 101.5},
	}

	var capturedQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(bars)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	series, err := client.GetHistory(context.Background(), "AAPL.US", 30)
	if err != nil {
		t.Fatalf("GetHistory failed: %v", err)
	}

	want := []float64{99.5, 100.5, 101.5}
	if len(series) != len(want) {
		t.Fatalf("series length = %d, want %d", len(series), len(want))
	}
	for i := range want {
		if series[i] != want[i] {
			t.Errorf("series[%d] = %g, want %g", i, series[i], want[i])
		}
	}

	if capturedQuery == "" {
		t.Fatal("expected query parameters")
	}
}

func TestGetHistory_UnknownSymbolEmptySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "Symbol not found", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("test-key", WithBaseURL(srv.URL))
	series, err := client.GetHistory(context.Background(), "NOPE", 30)
	if err != nil {
		t.Fatalf("unknown symbol should not be an error, got %v", err)
	}
	if len(series) != 0 {
		t.Errorf("expected empty series, got %v", series)
	}
}
