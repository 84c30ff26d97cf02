package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type capturedRequest struct {
	authorization string
	mode          string
}

// echoServer upgrades, announces a connection id and answers every qr-scan
// with a matched qr-received result.
func echoServer(t *testing.T, captured *capturedRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			captured.authorization = r.Header.Get("Authorization")
			captured.mode = r.URL.Query().Get("mode")
		}

		conn, err := testUpgrader.Upgrade(w, r, nil)
		require.NoError(t, err)
		defer conn.Close()

		hello, err := NewEnvelope(EventConnected, ConnectedPayload{ConnectionID: "conn-1"})
		require.NoError(t, err)
		require.NoError(t, conn.WriteJSON(hello))

		for {
			var envelope Envelope
			if err := conn.ReadJSON(&envelope); err != nil {
				return
			}
			if envelope.Event != EventScan {
				continue
			}

			result, err := NewEnvelope(EventScanResult, ScanResult{
				Code:   "X-100",
				Status: StatusMatched,
				Item:   &ItemSummary{Code: "X-100", Name: "Propeller", Quantity: 4},
			})
			require.NoError(t, err)
			if err := conn.WriteJSON(result); err != nil {
				return
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func TestClientConnectAndScan(t *testing.T) {
	captured := &capturedRequest{}
	server := echoServer(t, captured)
	defer server.Close()

	connected := make(chan ConnectedPayload, 1)
	results := make(chan ScanResult, 1)

	client := NewClient(ClientConfig{
		URL:   wsURL(server),
		Token: "token-123",
	}, Handlers{
		OnConnected:  func(p ConnectedPayload) { connected <- p },
		OnScanResult: func(r ScanResult) { results <- r },
	}, zerolog.Nop())

	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	require.Equal(t, "Bearer token-123", captured.authorization)

	select {
	case payload := <-connected:
		require.Equal(t, "conn-1", payload.ConnectionID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connected event")
	}

	require.NoError(t, client.EmitScan(ScanEvent{Code: "X-100", DeviceID: "scanner-1"}))

	select {
	case result := <-results:
		require.Equal(t, StatusMatched, result.Status)
		require.NotNil(t, result.Item)
		require.Equal(t, "Propeller", result.Item.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scan result")
	}
}

func TestClientDisplayModeQuery(t *testing.T) {
	captured := &capturedRequest{}
	server := echoServer(t, captured)
	defer server.Close()

	client := NewClient(ClientConfig{URL: wsURL(server), Mode: "display"}, Handlers{}, zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	require.Equal(t, "display", captured.mode)
}

func TestClientEmitBeforeConnect(t *testing.T) {
	client := NewClient(ClientConfig{URL: "ws://localhost:0"}, Handlers{}, zerolog.Nop())
	require.Error(t, client.EmitScan(ScanEvent{Code: "X-100"}))
}

func TestClientDoubleConnect(t *testing.T) {
	server := echoServer(t, nil)
	defer server.Close()

	client := NewClient(ClientConfig{URL: wsURL(server)}, Handlers{}, zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))
	defer client.Close()

	require.Error(t, client.Connect(context.Background()))
}

func TestClientCloseIdempotent(t *testing.T) {
	server := echoServer(t, nil)
	defer server.Close()

	client := NewClient(ClientConfig{URL: wsURL(server)}, Handlers{}, zerolog.Nop())
	require.NoError(t, client.Connect(context.Background()))

	require.NoError(t, client.Close())
	require.NoError(t, client.Close())
}
