package testutil

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"
	"github.com/yeluhq/terminal-server/internal/domain"
)

// LogEvent mirrors the hub's broadcast envelope
type LogEvent struct {
	Type    string            `json:"type"`
	Payload *domain.CombatLog `json:"payload"`
}

// WSClient is a test WebSocket client
type WSClient struct {
	t      *testing.T
	conn   *gorillaWS.Conn
	events chan *LogEvent
	errors chan error
	done   chan struct{}
	mu     sync.Mutex
}

// NewWSClient creates a new WebSocket test client
func NewWSClient(t *testing.T, url string) *WSClient {
	t.Helper()

	dialer := gorillaWS.DefaultDialer
	dialer.HandshakeTimeout = 5 * time.Second

	conn, _, err := dialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("failed to connect to websocket: %v", err)
	}

	client := &WSClient{
		t:      t,
		conn:   conn,
		events: make(chan *LogEvent, 100),
		errors: make(chan error, 10),
		done:   make(chan struct{}),
	}

	go client.readPump()

	t.Cleanup(func() {
		client.Close()
	})

	return client
}

func (c *WSClient) readPump() {
	defer close(c.events)
	for {
		select {
		case <-c.done:
			return
		default:
			_, data, err := c.conn.ReadMessage()
			if err != nil {
				select {
				case <-c.done:
					return
				case c.errors <- err:
				}
				return
			}

			var event LogEvent
			if err := json.Unmarshal(data, &event); err != nil {
				c.errors <- err
				continue
			}

			select {
			case c.events <- &event:
			case <-c.done:
				return
			}
		}
	}
}

// Close closes the WebSocket connection gracefully
func (c *WSClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	select {
	case <-c.done:
		return
	default:
		close(c.done)
		c.conn.WriteMessage(gorillaWS.CloseMessage, gorillaWS.FormatCloseMessage(gorillaWS.CloseNormalClosure, ""))
		c.conn.Close()
	}
}

// Subscribe asks the hub for an encounter's combat log feed
func (c *WSClient) Subscribe(encounterID string) {
	c.t.Helper()

	data, err := json.Marshal(map[string]string{
		"type":        "subscribe",
		"encounterId": encounterID,
	})
	if err != nil {
		c.t.Fatalf("failed to marshal subscribe message: %v", err)
	}

	c.mu.Lock()
	err = c.conn.WriteMessage(gorillaWS.TextMessage, data)
	c.mu.Unlock()

	if err != nil {
		c.t.Fatalf("failed to send subscribe message: %v", err)
	}
}

// ExpectCombatLog waits for a combat log broadcast
func (c *WSClient) ExpectCombatLog(timeout time.Duration) *domain.CombatLog {
	c.t.Helper()

	deadline := time.After(timeout)
	for {
		select {
		case event := <-c.events:
			if event == nil {
				c.t.Fatal("connection closed while waiting for combat log")
			}
			if event.Type == "combat_log" {
				return event.Payload
			}
		case err := <-c.errors:
			c.t.Fatalf("error while waiting for combat log: %v", err)
		case <-deadline:
			c.t.Fatal("timeout waiting for combat log")
		}
	}
}

// ExpectNoMessage verifies no broadcast arrives within timeout
func (c *WSClient) ExpectNoMessage(timeout time.Duration) {
	c.t.Helper()

	select {
	case event := <-c.events:
		if event != nil {
			c.t.Fatalf("unexpected message received: %s", event.Type)
		}
	case <-time.After(timeout):
	}
}
