// Package web serves the block extension bundle to the coding host and exposes
// read-only robot status over JSON.
package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"github.com/teslashibe/reachy-blocks/pkg/blocks"
	"github.com/teslashibe/reachy-blocks/pkg/recorded"
)

// Config configures the extension server.
type Config struct {
	// StaticDir holds the built extension bundle. Empty disables static files.
	StaticDir string

	Logger *slog.Logger
}

// Server is the extension server.
type Server struct {
	app    *fiber.App
	ext    *blocks.Extension
	moves  recorded.Lister
	logger *slog.Logger
}

// NewServer creates an extension server backed by ext. moves resolves dataset
// listings for /api/moves.
func NewServer(ext *blocks.Extension, moves recorded.Lister, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		ext:    ext,
		moves:  moves,
		logger: logger.With("component", "web"),
	}

	app := fiber.New(fiber.Config{
		AppName:               "Reachy Blocks",
		DisableStartupMessage: true,
	})

	// The block host loads the extension cross-origin
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Content-Type",
	}))
	app.Use(noStore)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/state", s.handleState)
	api.Get("/moves", s.handleMoves)

	if cfg.StaticDir != "" {
		app.Static("/", cfg.StaticDir)
	}

	s.app = app
	return s
}

// Start listens on addr and blocks until the server stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("extension server listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// noStore keeps the host from caching a stale extension build.
func noStore(c *fiber.Ctx) error {
	err := c.Next()
	c.Set(fiber.HeaderCacheControl, "no-store, no-cache, must-revalidate")
	return err
}
