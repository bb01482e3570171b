package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/username/leaguefolio/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

func newTestClient(baseURL string) *Client {
	return NewClient(baseURL, 5*time.Second, 100, 100, cache.New(time.Minute, time.Minute))
}

func TestGetTransactions(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/league/L1/transactions/3" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"transaction_id":"t1","type":"waiver","status":"complete","adds":{"p1":1},"settings":{"waiver_bid":5}}]`))
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	txs, err := c.GetTransactions(context.Background(), "L1", 3)
	if err != nil {
		t.Fatalf("GetTransactions failed: %v", err)
	}
	if len(txs) != 1 {
		t.Fatalf("got %d transactions, want 1", len(txs))
	}
	tx := txs[0]
	if tx.TransactionID != "t1" || tx.Type != "waiver" || tx.Status != "complete" {
		t.Fatalf("unexpected transaction %+v", tx)
	}
	if tx.Adds["p1"] != 1 {
		t.Fatalf("Adds = %v", tx.Adds)
	}
	if tx.Settings == nil || tx.Settings.WaiverBid != 5 {
		t.Fatalf("Settings = %+v", tx.Settings)
	}

	// Second call is served from the response cache.
	if _, err := c.GetTransactions(context.Background(), "L1", 3); err != nil {
		t.Fatalf("cached GetTransactions failed: %v", err)
	}
	if requests != 1 {
		t.Fatalf("provider hit %d times, want 1", requests)
	}
}

func TestGetLeagueRosters_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	if _, err := c.GetLeagueRosters(context.Background(), "missing"); err == nil {
		t.Fatalf("expected error for non-OK status")
	}
}
