package relay

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/iho/yieldledger/internal/domain"
)

const receivePath = "/api/v1/bridge/receive"

// HTTPMessenger delivers packets to peer ledgers over HTTP. The packet
// travels in its binary wire encoding; the peer's receive endpoint decodes
// and mints it. Transient failures are retried with exponential backoff,
// 4xx responses are permanent.
type HTTPMessenger struct {
	peers      map[string]string
	token      string
	client     *http.Client
	maxElapsed time.Duration
}

// NewHTTPMessenger creates a messenger for the given peer id -> base URL
// map. token, when non-empty, is sent as a bearer credential.
func NewHTTPMessenger(peers map[string]string, token string) *HTTPMessenger {
	return &HTTPMessenger{
		peers:      peers,
		token:      token,
		client:     &http.Client{Timeout: 10 * time.Second},
		maxElapsed: 30 * time.Second,
	}
}

// Deliver posts the packet to the peer's receive endpoint.
func (m *HTTPMessenger) Deliver(ctx context.Context, peerID string, packet *domain.Packet) error {
	baseURL, ok := m.peers[peerID]
	if !ok {
		return fmt.Errorf("unknown bridge peer %q", peerID)
	}

	body, err := packet.MarshalBinary()
	if err != nil {
		return err
	}

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = m.maxElapsed

	return backoff.Retry(func() error {
		return m.post(ctx, baseURL+receivePath, packet.ID, body)
	}, backoff.WithContext(b, ctx))
}

func (m *HTTPMessenger) post(ctx context.Context, url, packetID string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return backoff.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/octet-stream")
	// The binary frame carries value and routing; the id travels beside it
	// because the receiving side dedupes before decoding.
	req.Header.Set("X-Packet-Id", packetID)
	if m.token != "" {
		req.Header.Set("Authorization", "Bearer "+m.token)
	}

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode < 300:
		return nil
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return backoff.Permanent(fmt.Errorf("peer rejected packet: %s", resp.Status))
	default:
		return fmt.Errorf("peer returned %s", resp.Status)
	}
}
