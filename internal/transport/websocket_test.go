package transport

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// newConsoleServer starts a websocket echo console that answers every command
// with the frames produced by respond.
func newConsoleServer(t *testing.T, respond func(command string) []string) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()

		for {
			_, frame, err := conn.ReadMessage()
			if err != nil {
				return
			}
			for _, reply := range respond(string(frame)) {
				if err := conn.WriteMessage(websocket.TextMessage, []byte(reply)); err != nil {
					return
				}
			}
		}
	}))
}

func wsURL(server *httptest.Server) string {
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

// TestWSChannelSingleFrame tests the default single-frame response mode.
func TestWSChannelSingleFrame(t *testing.T) {
	server := newConsoleServer(t, func(command string) []string {
		return []string{"echo: " + command}
	})
	defer server.Close()

	channel, err := DialWebsocket(WSOptions{URL: wsURL(server), Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("DialWebsocket failed: %v", err)
	}
	defer channel.Close()

	response, err := channel.Send("show system dns")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if response != "echo: show system dns" {
		t.Errorf("Expected echoed command, got %q", response)
	}
}

// TestWSChannelTerminator tests that multi-frame responses are accumulated
// until the terminator and the terminator is stripped.
func TestWSChannelTerminator(t *testing.T) {
	server := newConsoleServer(t, func(command string) []string {
		return []string{"config system dns\n", "    set primary 8.8.8.8\n", "end\n# "}
	})
	defer server.Close()

	channel, err := DialWebsocket(WSOptions{
		URL:        wsURL(server),
		Timeout:    5 * time.Second,
		Terminator: "# ",
	})
	if err != nil {
		t.Fatalf("DialWebsocket failed: %v", err)
	}
	defer channel.Close()

	response, err := channel.Send("show system dns")
	if err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	expected := "config system dns\n    set primary 8.8.8.8\nend\n"
	if response != expected {
		t.Errorf("Expected %q, got %q", expected, response)
	}
}

// TestWSChannelReadTimeout tests that a silent console surfaces a timeout
// error instead of blocking forever.
func TestWSChannelReadTimeout(t *testing.T) {
	server := newConsoleServer(t, func(command string) []string {
		return nil // never answer
	})
	defer server.Close()

	channel, err := DialWebsocket(WSOptions{URL: wsURL(server), Timeout: 200 * time.Millisecond})
	if err != nil {
		t.Fatalf("DialWebsocket failed: %v", err)
	}
	defer channel.Close()

	if _, err := channel.Send("show system dns"); err == nil {
		t.Error("Expected timeout error from silent console")
	}
}
