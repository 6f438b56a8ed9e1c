// Package transport feeds decoded telemetry frames into the session and
// writes outbound command strings. It deliberately knows nothing about the
// protocol vocabulary: frames are raw key/value pairs for the decode boundary.
package transport

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"

	"github.com/LuminariMUD/LuminariGUI-sub002/internal/debug"
)

// Frame is one telemetry notification on the wire.
type Frame struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

type commandFrame struct {
	Command string `json:"command"`
}

// Conn is a websocket connection to the telemetry proxy.
type Conn struct {
	ws  *websocket.Conn
	log *debug.Logger
}

func Dial(ctx context.Context, url string, log *debug.Logger) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", url, err)
	}
	return &Conn{ws: ws, log: log}, nil
}

// ReadLoop decodes frames and hands them to handle until the connection
// closes. Unparseable frames are logged and skipped.
func (c *Conn) ReadLoop(handle func(key string, value any)) error {
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			return fmt.Errorf("telemetry read: %w", err)
		}

		var frame Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			c.log.Printf("transport: skipping unparseable frame: %v", err)
			continue
		}
		if frame.Key == "" {
			c.log.Printf("transport: skipping frame without key")
			continue
		}
		handle(frame.Key, frame.Value)
	}
}

// SendCommand implements speedwalk.CommandSink. Write failures are diagnostics
// only; the walk executor recovers through its own timeout path.
func (c *Conn) SendCommand(cmd string) {
	if err := c.ws.WriteJSON(commandFrame{Command: cmd}); err != nil {
		c.log.Printf("transport: failed to send %q: %v", cmd, err)
	}
}

func (c *Conn) Close() error {
	return c.ws.Close()
}
