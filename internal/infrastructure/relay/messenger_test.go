package relay

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/yieldledger/internal/domain"
)

func testPacket() *domain.Packet {
	return &domain.Packet{
		ID:                 "pkt-1",
		Amount:             decimal.NewFromInt(100),
		SourceLockedRate:   decimal.NewFromInt(1),
		DestinationAccount: "bob",
	}
}

func TestHTTPMessengerDeliver(t *testing.T) {
	var gotBody []byte
	var gotAuth, gotPacketID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != receivePath {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotPacketID = r.Header.Get("X-Packet-Id")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	m := NewHTTPMessenger(map[string]string{"ledger-b": srv.URL}, "relay-token")

	if err := m.Deliver(context.Background(), "ledger-b", testPacket()); err != nil {
		t.Fatalf("deliver failed: %v", err)
	}

	if gotAuth != "Bearer relay-token" {
		t.Fatalf("expected bearer token, got %q", gotAuth)
	}
	if gotPacketID != "pkt-1" {
		t.Fatalf("expected packet id header, got %q", gotPacketID)
	}

	var decoded domain.Packet
	if err := decoded.UnmarshalBinary(gotBody); err != nil {
		t.Fatalf("peer could not decode packet: %v", err)
	}
	if !decoded.Amount.Equal(decimal.NewFromInt(100)) || decoded.DestinationAccount != "bob" {
		t.Fatalf("decoded packet mismatch: %+v", decoded)
	}
}

func TestHTTPMessengerRetriesServerErrors(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	m := NewHTTPMessenger(map[string]string{"ledger-b": srv.URL}, "")
	m.maxElapsed = 5 * time.Second

	if err := m.Deliver(context.Background(), "ledger-b", testPacket()); err != nil {
		t.Fatalf("expected retries to succeed, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestHTTPMessengerStopsOnClientError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	m := NewHTTPMessenger(map[string]string{"ledger-b": srv.URL}, "")

	if err := m.Deliver(context.Background(), "ledger-b", testPacket()); err == nil {
		t.Fatal("expected permanent error for 4xx response")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestHTTPMessengerUnknownPeer(t *testing.T) {
	m := NewHTTPMessenger(map[string]string{}, "")

	if err := m.Deliver(context.Background(), "nowhere", testPacket()); err == nil {
		t.Fatal("expected error for unknown peer")
	}
}
