package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/updogjp/infinichess/internal/agent"
	"github.com/updogjp/infinichess/internal/engine"
	"github.com/updogjp/infinichess/internal/version"
	"github.com/updogjp/infinichess/pkg/logger"
)

type Server struct {
	cfg      Config
	Engine   *engine.GameService
	Agents   *agent.Controller
	ips      *IPLimiter
	upgrader websocket.Upgrader
	router   *gin.Engine
	http     *http.Server
}

// New собирает gin-роутер. agents может быть nil (контроллер выключен).
func New(cfg Config, game *engine.GameService, agents *agent.Controller) (*Server, error) {
	ips, err := NewIPLimiter(cfg.ConnectRate, cfg.ConnectBurst, cfg.MaxConnsPerIP)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		Engine:   game,
		Agents:   agents,
		ips:      ips,
		upgrader: newUpgrader(cfg.AllowedOrigins),
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())
	r.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	r.GET("/ws", s.handleWS)
	r.GET("/health", s.handleHealth)
	r.GET("/version", s.handleVersion)

	if cfg.EnableDebug {
		NewDebugHandler(game, agents).RegisterRoutes(r.Group("/debug"))
	}

	s.router = r
	s.http = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler - для httptest
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run запускает HTTP сервер. Блокирует до Shutdown.
func (s *Server) Run() error {
	logger.Log.Infof("infinichess server running on :%s", s.cfg.Port)
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	defer s.ips.Close()
	return s.http.Shutdown(ctx)
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
		AllowHeaders: []string{"Content-Type"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// requestLogger пишет HTTP-запросы в logrus на уровне Debug
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if !logger.Log.IsLevelEnabled(logrus.DebugLevel) {
			return
		}
		logger.Log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start),
			"ip":      c.ClientIP(),
		}).Debug("HTTP request")
	}
}

// handleWS апгрейдит соединение. Лимиты по IP проверяются до апгрейда.
func (s *Server) handleWS(c *gin.Context) {
	ip := clientIP(c.Request, s.cfg.TrustProxy)

	if !s.ips.Allow(ip) {
		logger.Log.WithField("ip", ip).Warn("ws ratelimit")
		c.String(http.StatusTooManyRequests, "Connection rejected")
		return
	}
	release, ok := s.ips.Acquire(ip)
	if !ok {
		logger.Log.WithField("ip", ip).Warn("ws connection limit")
		c.String(http.StatusTooManyRequests, "Connection rejected")
		return
	}

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		release()
		logger.Log.WithError(err).Warn("Upgrade error")
		return
	}

	client, err := newClient(s.Engine, conn, s.cfg, ip, release)
	if err != nil {
		release()
		logger.Log.WithError(err).Warn("Connection refused")
		msg := websocket.FormatCloseMessage(websocket.CloseTryAgainLater, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		_ = conn.Close()
		return
	}

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleVersion(c *gin.Context) {
	c.JSON(http.StatusOK, version.Current())
}
