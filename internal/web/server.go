// Package web serves the typing test to browsers over a WebSocket. Each
// connection gets its own engine; nothing is stored on the server.
package web

import (
	_ "embed"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	fiberWS "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/verte-zerg/typesprint/internal/session"
	"github.com/verte-zerg/typesprint/internal/wordlist"
)

//go:embed static/index.html
var indexHTML []byte

// Options configures the web app.
type Options struct {
	Corpus wordlist.Corpus
	Logger *slog.Logger
}

// Server holds what every connection shares.
type Server struct {
	corpus   wordlist.Corpus
	logger   *slog.Logger
	validate *validator.Validate
}

// New returns a Server. A zero corpus falls back to the embedded one.
func New(opts Options) *Server {
	if len(opts.Corpus.Words) == 0 && len(opts.Corpus.Quotes) == 0 {
		opts.Corpus = wordlist.Default()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{
		corpus:   opts.Corpus,
		logger:   opts.Logger,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// App builds the Fiber application.
func (s *Server) App() *fiber.App {
	app := fiber.New(fiber.Config{
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		DisableStartupMessage: true,
	})

	app.Use(func(c *fiber.Ctx) error {
		s.logger.Debug("request", "ip", c.IP(), "path", c.Path())
		return c.Next()
	})

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(indexHTML)
	})

	v1 := app.Group("/api/v1")
	v1.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	wsGr := v1.Group("/ws")
	wsGr.Use(UpgradeWall)
	wsGr.Get("/session", fiberWS.New(s.serveConn))

	return app
}

// UpgradeWall rejects plain HTTP requests on WebSocket routes.
func UpgradeWall(c *fiber.Ctx) error {
	if fiberWS.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// serveConn runs one connection. A reader goroutine forwards frames so the
// loop below is the only goroutine touching the engine.
func (s *Server) serveConn(ws *fiberWS.Conn) {
	logger := s.logger.With("remote", ws.RemoteAddr().String())
	logger.Debug("session opened")
	defer logger.Debug("session closed")

	sched := session.NewChannelScheduler()
	c := newConn(s.corpus, sched, s.validate, logger)
	defer c.close()

	frames := make(chan []byte)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(frames)
		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				logger.Debug("read failed", "error", err)
				return
			}
			select {
			case frames <- data:
			case <-done:
				return
			}
		}
	}()

	if err := writeSnapshot(ws, c.snapshot()); err != nil {
		logger.Error("write failed", "error", err)
		return
	}
	for {
		var snap Snapshot
		select {
		case data, ok := <-frames:
			if !ok {
				return
			}
			snap = c.handle(data)
		case fn := <-sched.Fired():
			fn()
			snap = c.snapshot()
		}
		if err := writeSnapshot(ws, snap); err != nil {
			logger.Error("write failed", "error", err)
			return
		}
	}
}

func writeSnapshot(ws *fiberWS.Conn, snap Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return ws.WriteMessage(fiberWS.TextMessage, data)
}
