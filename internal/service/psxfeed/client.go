package psxfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"BullBearPK/internal/domain/models"
	drepo "BullBearPK/internal/domain/repository"
	applogger "BullBearPK/pkg/logger"

	"github.com/gorilla/websocket"
)

// Client implements a MarketStream over the exchange's WebSocket feed.
type Client struct {
	apiKey         string
	websocketURL   string
	reconnectDelay time.Duration
	pingInterval   time.Duration
	log            *applogger.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
	symbols   []string // retained for reconnect
}

// New creates a MarketStream backed by the exchange feed.
func New(apiKey, websocketURL string, reconnectDelay, pingInterval time.Duration, log *applogger.Logger) drepo.MarketStream {
	return &Client{
		apiKey:         apiKey,
		websocketURL:   websocketURL,
		reconnectDelay: reconnectDelay,
		pingInterval:   pingInterval,
		log:            log,
	}
}

// Connect establishes the WebSocket connection.
func (c *Client) Connect(ctx context.Context) error {
	u := fmt.Sprintf("%s?token=%s", c.websocketURL, c.apiKey)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return fmt.Errorf("feed connect: %w", err)
	}
	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()
	c.log.Info("feed connected", applogger.String("url", c.websocketURL))
	return nil
}

// Subscribe subscribes to the given symbols.
func (c *Client) Subscribe(ctx context.Context, symbols []string) error {
	c.mu.Lock()
	conn, connected := c.conn, c.connected
	c.symbols = symbols
	c.mu.Unlock()
	if conn == nil || !connected {
		return fmt.Errorf("feed not connected")
	}
	for _, s := range symbols {
		msg := map[string]string{"type": "subscribe", "symbol": s}
		if err := conn.WriteJSON(msg); err != nil {
			return fmt.Errorf("subscribe %s: %w", s, err)
		}
	}
	c.log.Info("feed subscribed", applogger.Int("symbols", len(symbols)))
	return nil
}

type feedTick struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Sector        string  `json:"sector"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	Close         float64 `json:"close"`
	Volume        int64   `json:"volume"`
	ChangeAmount  float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	T             int64   `json:"t"` // ms
}

type feedMessage struct {
	Type string     `json:"type"`
	Data []feedTick `json:"data"`
}

// Read streams market records and errors. Both channels close when the read
// loop exits.
func (c *Client) Read(ctx context.Context) (<-chan *models.MarketRecord, <-chan error) {
	records := make(chan *models.MarketRecord, 1024)
	errs := make(chan error, 1)

	// ping loop
	go func() {
		ticker := time.NewTicker(c.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn != nil {
					_ = conn.WriteMessage(websocket.PingMessage, nil)
				}
			}
		}
	}()

	// read loop
	go func() {
		defer close(records)
		defer close(errs)
		for {
			select {
			case <-ctx.Done():
				return
			default:
				c.mu.Lock()
				conn := c.conn
				c.mu.Unlock()
				if conn == nil {
					errs <- fmt.Errorf("feed conn nil")
					return
				}
				_, b, err := conn.ReadMessage()
				if err != nil {
					errs <- fmt.Errorf("feed read: %w", err)
					return
				}
				var m feedMessage
				if err := json.Unmarshal(b, &m); err != nil {
					// ignore non-quote frames
					continue
				}
				if m.Type != "quote" {
					continue
				}
				for _, d := range m.Data {
					rec := &models.MarketRecord{
						Symbol:        d.Symbol,
						Name:          d.Name,
						Sector:        d.Sector,
						Open:          d.Open,
						High:          d.High,
						Low:           d.Low,
						Close:         d.Close,
						Volume:        d.Volume,
						ChangeAmount:  d.ChangeAmount,
						ChangePercent: d.ChangePercent,
						AsOf:          time.Unix(d.T/1000, 0).UTC(),
					}
					select {
					case records <- rec:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return records, errs
}

// Reconnect closes and reconnects, then resubscribes.
func (c *Client) Reconnect(ctx context.Context) error {
	_ = c.Close()
	time.Sleep(c.reconnectDelay)
	if err := c.Connect(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	symbols := c.symbols
	c.mu.Unlock()
	return c.Subscribe(ctx, symbols)
}

// Close closes the WS connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = false
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// IsConnected indicates status.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}
