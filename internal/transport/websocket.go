package transport

import (
	"fmt"
	"strings"
	"time"

	"github.com/gorilla/websocket"
)

// WSOptions configures a websocket command channel.
type WSOptions struct {
	// URL is the console endpoint, e.g. "ws://fgt-lab-1:8023/console".
	URL string

	// Timeout bounds the dial and every command round trip. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// Terminator marks the end of a command response. When the accumulated
	// response contains this marker the response is considered complete and
	// the marker (and anything after it) is stripped. Empty means each
	// command produces exactly one response frame.
	Terminator string
}

// WSChannel is a Channel backed by a CLI-over-websocket console. Each command
// is written as one text frame; response frames are accumulated until the
// terminator appears or the read deadline passes.
type WSChannel struct {
	conn       *websocket.Conn
	timeout    time.Duration
	terminator string
}

// DialWebsocket connects to a websocket console endpoint.
func DialWebsocket(opts WSOptions) (*WSChannel, error) {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}

	dialer := websocket.Dialer{HandshakeTimeout: opts.Timeout}
	conn, _, err := dialer.Dial(opts.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("websocket dial %s: %w", opts.URL, err)
	}

	return &WSChannel{
		conn:       conn,
		timeout:    opts.Timeout,
		terminator: opts.Terminator,
	}, nil
}

// Send writes the command as a text frame and collects the response.
func (c *WSChannel) Send(command string) (string, error) {
	if err := c.conn.SetWriteDeadline(time.Now().Add(c.timeout)); err != nil {
		return "", fmt.Errorf("set write deadline: %w", err)
	}
	if err := c.conn.WriteMessage(websocket.TextMessage, []byte(command)); err != nil {
		return "", fmt.Errorf("send %q: %w", command, err)
	}

	deadline := time.Now().Add(c.timeout)
	var response strings.Builder
	for {
		if err := c.conn.SetReadDeadline(deadline); err != nil {
			return "", fmt.Errorf("set read deadline: %w", err)
		}
		_, frame, err := c.conn.ReadMessage()
		if err != nil {
			return "", fmt.Errorf("read response for %q: %w", command, err)
		}
		response.Write(frame)

		if c.terminator == "" {
			return response.String(), nil
		}
		if idx := strings.Index(response.String(), c.terminator); idx >= 0 {
			return response.String()[:idx], nil
		}
	}
}

// Close sends a close frame and tears down the connection.
func (c *WSChannel) Close() error {
	deadline := time.Now().Add(time.Second)
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return c.conn.Close()
}
