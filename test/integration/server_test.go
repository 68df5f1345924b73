// Package integration contains end-to-end tests that exercise the egg
// race server over real HTTP and WebSocket connections.
package integration

import (
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"eggrace/test/testhelpers"
)

func TestHealthEndpoint(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("Failed to reach health endpoint: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(body), "running") {
		t.Errorf("Unexpected health body: %q", body)
	}
}

func TestWebSocketEndpointRejectsPost(t *testing.T) {
	ts := testhelpers.StartGameServer(t)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Post(ts.URL+"/ws", "application/json", http.NoBody)
	if err != nil {
		t.Fatalf("Failed to make request: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("Expected status 405, got %d", resp.StatusCode)
	}
}
