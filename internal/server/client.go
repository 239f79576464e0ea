package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/updogjp/infinichess/internal/domain"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/engine/handlers/actions"
	"github.com/updogjp/infinichess/pkg/api"
	"github.com/updogjp/infinichess/pkg/logger"
	"github.com/updogjp/infinichess/pkg/utils"
)

// Настройки WebSocket
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

func newUpgrader(origins []string) websocket.Upgrader {
	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 {
				return true
			}
			_, ok := allowed[r.Header.Get("Origin")]
			return ok
		},
	}
}

// Client - посредник между Websocket и GameService.
// ID меняется только в readPump (resume), writePump знает лишь канал.
type Client struct {
	game    *engine.GameService
	conn    *websocket.Conn
	cfg     Config
	send    <-chan []byte
	id      domain.OwnerID
	connID  string
	ip      string
	release func()

	limiter *rate.Limiter
	strikes []time.Time
}

func newClient(game *engine.GameService, conn *websocket.Conn, cfg Config, ip string, release func()) (*Client, error) {
	id, send, err := game.Connect()
	if err != nil {
		return nil, err
	}
	return &Client{
		game:    game,
		conn:    conn,
		cfg:     cfg,
		send:    send,
		id:      id,
		connID:  utils.ConnID(),
		ip:      ip,
		release: release,
		limiter: rate.NewLimiter(rate.Limit(cfg.MessageRate), cfg.MessageBurst),
	}, nil
}

func (c *Client) log() *logrus.Entry {
	return logger.Log.WithFields(logrus.Fields{
		"actor": c.id,
		"conn":  c.connID,
		"ip":    c.ip,
	})
}

// readPump читает бинарные фреймы и отдает их движку
func (c *Client) readPump() {
	defer func() {
		c.game.Disconnect(c.id)
		if c.release != nil {
			c.release()
		}
		if err := c.conn.Close(); err != nil {
			c.log().WithError(err).Debug("failed to close websocket connection")
		}
		c.log().Info("Client disconnected")
	}()

	c.conn.SetReadLimit(c.cfg.MaxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log().WithError(err).Warn("failed to set read deadline")
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	c.log().Info("Client connected")

	for {
		kind, frame, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log().WithError(err).Warn("WS error")
			}
			return
		}
		if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return
		}

		if !c.handle(kind, frame) {
			return
		}
	}
}

// handle - false означает, что соединение надо закрыть
func (c *Client) handle(kind int, frame []byte) bool {
	if !c.limiter.Allow() {
		return c.strike("rate limit")
	}
	if kind != websocket.BinaryMessage {
		return c.strike("text frame")
	}

	msg, err := api.Decode(frame)
	if err != nil {
		return c.strike(err.Error())
	}

	result, err := c.game.Dispatch(context.Background(), c.id, msg)
	switch {
	case errors.Is(err, actions.ErrVerificationFailed):
		c.log().Info("Verification failed, closing")
		return false
	case err != nil:
		return c.strike(err.Error())
	}

	if result.Rebind != domain.NeutralOwner && result.Rebind != c.id {
		c.log().WithField("resumed_as", result.Rebind).Info("Session resumed")
		c.id = result.Rebind
	}
	return true
}

// strike засчитывает отброшенный фрейм. Слишком много за окно - соединение закрывается.
func (c *Client) strike(reason string) bool {
	now := time.Now()
	cutoff := now.Add(-c.cfg.AbuseWindow)

	kept := c.strikes[:0]
	for _, t := range c.strikes {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	c.strikes = append(kept, now)

	if c.cfg.AbuseLimit > 0 && len(c.strikes) >= c.cfg.AbuseLimit {
		c.log().WithField("reason", reason).Warn("Too many dropped frames, closing")
		return false
	}
	c.log().WithField("reason", reason).Trace("Frame dropped")
	return true
}

// writePump отправляет фреймы из очереди роутера + Ping.
// Канал закрывает роутер при Disconnect.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.conn.Close(); err != nil {
			logger.Log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case frame, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				logger.Log.WithError(err).Debug("write message failed")
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
